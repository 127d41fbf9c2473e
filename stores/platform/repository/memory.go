package repository

import (
	"sync"

	"github.com/x-xyz/gomarket/base/ctx"
	"github.com/x-xyz/gomarket/base/txn"
	"github.com/x-xyz/gomarket/domain"
	"github.com/x-xyz/gomarket/domain/market"
)

type memoryRepo struct {
	mu      sync.RWMutex
	artists map[domain.Address]bool
}

func NewMemoryRepo() market.ArtistWhitelistRepo {
	return &memoryRepo{artists: make(map[domain.Address]bool)}
}

func (im *memoryRepo) Has(c ctx.Ctx, artist domain.Address) (bool, error) {
	im.mu.RLock()
	defer im.mu.RUnlock()
	return im.artists[artist.ToLower()], nil
}

func (im *memoryRepo) set(c ctx.Ctx, artist domain.Address, whitelisted bool) {
	artist = artist.ToLower()

	im.mu.Lock()
	defer im.mu.Unlock()
	prev := im.artists[artist]
	if whitelisted {
		im.artists[artist] = true
	} else {
		delete(im.artists, artist)
	}

	txn.OnRollback(c, func() {
		im.mu.Lock()
		defer im.mu.Unlock()
		if prev {
			im.artists[artist] = true
		} else {
			delete(im.artists, artist)
		}
	})
}

func (im *memoryRepo) Add(c ctx.Ctx, artist domain.Address) error {
	im.set(c, artist, true)
	return nil
}

func (im *memoryRepo) Remove(c ctx.Ctx, artist domain.Address) error {
	im.set(c, artist, false)
	return nil
}
