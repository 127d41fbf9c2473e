package repository

import (
	"sync"

	"github.com/x-xyz/gomarket/base/ctx"
	"github.com/x-xyz/gomarket/base/txn"
	"github.com/x-xyz/gomarket/domain"
	"github.com/x-xyz/gomarket/domain/market"
)

type usedKey struct {
	artist domain.Address
	id     string
}

type memoryRepo struct {
	mu   sync.Mutex
	used map[usedKey]struct{}
}

func NewMemoryRepo() market.CollectorMintRepo {
	return &memoryRepo{used: make(map[usedKey]struct{})}
}

func (im *memoryRepo) MarkUsed(c ctx.Ctx, artist domain.Address, collectorMintId string) error {
	k := usedKey{artist.ToLower(), collectorMintId}

	im.mu.Lock()
	defer im.mu.Unlock()
	if _, ok := im.used[k]; ok {
		return market.ErrCollectorMintIdUsed
	}
	im.used[k] = struct{}{}

	txn.OnRollback(c, func() {
		im.mu.Lock()
		defer im.mu.Unlock()
		delete(im.used, k)
	})
	return nil
}

func (im *memoryRepo) IsUsed(c ctx.Ctx, artist domain.Address, collectorMintId string) (bool, error) {
	im.mu.Lock()
	defer im.mu.Unlock()
	_, ok := im.used[usedKey{artist.ToLower(), collectorMintId}]
	return ok, nil
}
