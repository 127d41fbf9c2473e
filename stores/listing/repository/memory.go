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
	mu       sync.RWMutex
	listings map[market.ListingId]*market.Listing
}

// NewMemoryRepo keeps listings of every venue in one map. It is meant for
// tests and single process deployments.
func NewMemoryRepo() market.ListingRepo {
	return &memoryRepo{listings: make(map[market.ListingId]*market.Listing)}
}

func (im *memoryRepo) FindAll(c ctx.Ctx, opts ...market.ListingFindAllOptionsFunc) ([]market.Listing, error) {
	o, err := market.GetListingFindAllOptions(opts...)
	if err != nil {
		return nil, err
	}

	im.mu.RLock()
	res := []market.Listing{}
	for _, l := range im.listings {
		if o.Match(l) {
			res = append(res, *l.Clone())
		}
	}
	im.mu.RUnlock()

	sort.Slice(res, func(i, j int) bool {
		if !res[i].ListedAt.Equal(res[j].ListedAt) {
			return res[i].ListedAt.Before(res[j].ListedAt)
		}
		return res[i].ToId().String() < res[j].ToId().String()
	})
	return paginate(res, o.Offset, o.Limit), nil
}

func paginate(res []market.Listing, offset, limit *int) []market.Listing {
	if offset == nil || limit == nil {
		return res
	}
	if *offset >= len(res) {
		return []market.Listing{}
	}
	end := *offset + *limit
	if end > len(res) {
		end = len(res)
	}
	return res[*offset:end]
}

func (im *memoryRepo) FindOne(c ctx.Ctx, id market.ListingId) (*market.Listing, error) {
	id = normalize(id)

	im.mu.RLock()
	defer im.mu.RUnlock()
	l, ok := im.listings[id]
	if !ok {
		return nil, domain.ErrNotFound
	}
	return l.Clone(), nil
}

func (im *memoryRepo) Insert(c ctx.Ctx, listing *market.Listing) error {
	id := listing.ToId()

	im.mu.Lock()
	defer im.mu.Unlock()
	if _, ok := im.listings[id]; ok {
		return domain.ErrConflict
	}
	im.listings[id] = normalizeListing(listing)

	txn.OnRollback(c, func() {
		im.mu.Lock()
		defer im.mu.Unlock()
		delete(im.listings, id)
	})
	return nil
}

func (im *memoryRepo) Update(c ctx.Ctx, listing *market.Listing) error {
	id := listing.ToId()

	im.mu.Lock()
	defer im.mu.Unlock()
	prev, ok := im.listings[id]
	if !ok {
		return domain.ErrNotFound
	}
	im.listings[id] = normalizeListing(listing)

	txn.OnRollback(c, func() {
		im.mu.Lock()
		defer im.mu.Unlock()
		im.listings[id] = prev
	})
	return nil
}

func (im *memoryRepo) Remove(c ctx.Ctx, id market.ListingId) error {
	id = normalize(id)

	im.mu.Lock()
	defer im.mu.Unlock()
	prev, ok := im.listings[id]
	if !ok {
		return domain.ErrNotFound
	}
	delete(im.listings, id)

	txn.OnRollback(c, func() {
		im.mu.Lock()
		defer im.mu.Unlock()
		im.listings[id] = prev
	})
	return nil
}

func normalize(id market.ListingId) market.ListingId {
	return market.NewListingId(id.Venue, id.Asset, id.TokenId, id.Seller)
}

func normalizeListing(l *market.Listing) *market.Listing {
	res := l.Clone()
	res.Asset = res.Asset.ToLower()
	res.Seller = res.Seller.ToLower()
	return res
}
