package repository

import (
	"sort"
	"sync"

	"github.com/x-xyz/gomarket/base/ctx"
	"github.com/x-xyz/gomarket/base/txn"
	"github.com/x-xyz/gomarket/domain"
	"github.com/x-xyz/gomarket/domain/market"
)

type memoryRepo struct {
	mu    sync.RWMutex
	sales []market.SaleRecord
}

func NewMemoryRepo() market.SaleRepo {
	return &memoryRepo{}
}

func (im *memoryRepo) Insert(c ctx.Ctx, sale *market.SaleRecord) error {
	im.mu.Lock()
	defer im.mu.Unlock()
	for _, s := range im.sales {
		if s.SaleId == sale.SaleId {
			return domain.ErrConflict
		}
	}
	im.sales = append(im.sales, *sale)

	id := sale.SaleId
	txn.OnRollback(c, func() {
		im.mu.Lock()
		defer im.mu.Unlock()
		for i, s := range im.sales {
			if s.SaleId == id {
				im.sales = append(im.sales[:i], im.sales[i+1:]...)
				return
			}
		}
	})
	return nil
}

// FindAll returns the latest sales first
func (im *memoryRepo) FindAll(c ctx.Ctx, opts ...market.SaleFindAllOptionsFunc) ([]market.SaleRecord, error) {
	o, err := market.GetSaleFindAllOptions(opts...)
	if err != nil {
		return nil, err
	}

	im.mu.RLock()
	res := []market.SaleRecord{}
	for i := range im.sales {
		if o.Match(&im.sales[i]) {
			res = append(res, im.sales[i])
		}
	}
	im.mu.RUnlock()

	sort.SliceStable(res, func(i, j int) bool { return res[i].SoldAt.After(res[j].SoldAt) })

	if o.Offset != nil && o.Limit != nil {
		if *o.Offset >= len(res) {
			return []market.SaleRecord{}, nil
		}
		end := *o.Offset + *o.Limit
		if end > len(res) {
			end = len(res)
		}
		res = res[*o.Offset:end]
	}
	return res, nil
}
