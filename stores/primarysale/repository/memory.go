package repository

import (
	"sync"

	"github.com/x-xyz/gomarket/base/ctx"
	"github.com/x-xyz/gomarket/base/txn"
	"github.com/x-xyz/gomarket/domain"
	"github.com/x-xyz/gomarket/domain/market"
)

type memoryRepo struct {
	mu      sync.Mutex
	records map[market.TokenKey]market.PrimarySaleRecord
}

// NewMemoryRepo keeps primary sale cursors in process
func NewMemoryRepo() market.PrimarySaleRepo {
	return &memoryRepo{records: make(map[market.TokenKey]market.PrimarySaleRecord)}
}

func (im *memoryRepo) Create(ctx ctx.Ctx, record *market.PrimarySaleRecord) error {
	key := record.ToKey()

	im.mu.Lock()
	defer im.mu.Unlock()
	if _, ok := im.records[key]; ok {
		return market.ErrPrimarySaleAlreadyRecorded
	}
	r := *record
	r.Asset = key.Asset
	r.FirstOwner = r.FirstOwner.ToLower()
	im.records[key] = r

	txn.OnRollback(ctx, func() {
		im.mu.Lock()
		defer im.mu.Unlock()
		delete(im.records, key)
	})
	return nil
}

func (im *memoryRepo) FindOne(ctx ctx.Ctx, key market.TokenKey) (*market.PrimarySaleRecord, error) {
	im.mu.Lock()
	defer im.mu.Unlock()
	r, ok := im.records[key]
	if !ok {
		return nil, domain.ErrNotFound
	}
	return &r, nil
}

func (im *memoryRepo) Consume(ctx ctx.Ctx, key market.TokenKey, amount uint64) (uint64, error) {
	im.mu.Lock()
	defer im.mu.Unlock()

	r, ok := im.records[key]
	if !ok || r.SoldOut || r.RemainingUnits == 0 {
		return 0, nil
	}
	taken := amount
	if taken > r.RemainingUnits {
		taken = r.RemainingUnits
	}
	prev := r
	r.RemainingUnits -= taken
	r.SoldOut = r.RemainingUnits == 0
	im.records[key] = r

	txn.OnRollback(ctx, func() {
		im.mu.Lock()
		defer im.mu.Unlock()
		im.records[key] = prev
	})
	return taken, nil
}
