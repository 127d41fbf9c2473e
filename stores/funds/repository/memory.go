package repository

import (
	"math/big"
	"sync"

	"github.com/x-xyz/gomarket/base/ctx"
	"github.com/x-xyz/gomarket/base/txn"
	"github.com/x-xyz/gomarket/domain"
	"github.com/x-xyz/gomarket/domain/market"
)

type row struct {
	balance *big.Int
	pending *big.Int
	rejects bool
}

func (r row) clone() row {
	return row{
		balance: new(big.Int).Set(r.balance),
		pending: new(big.Int).Set(r.pending),
		rejects: r.rejects,
	}
}

type memoryRepo struct {
	mu   sync.Mutex
	rows map[domain.Address]row
}

func NewMemoryRepo() market.AccountRepo {
	return &memoryRepo{rows: make(map[domain.Address]row)}
}

func (im *memoryRepo) get(address domain.Address) row {
	if r, ok := im.rows[address]; ok {
		return r
	}
	return row{balance: new(big.Int), pending: new(big.Int)}
}

// mutate applies fn to a copy of the row and journals the previous row
func (im *memoryRepo) mutate(ctx ctx.Ctx, address domain.Address, fn func(r *row) error) error {
	address = address.ToLower()

	im.mu.Lock()
	defer im.mu.Unlock()

	prev, existed := im.rows[address]
	next := im.get(address).clone()
	if err := fn(&next); err != nil {
		return err
	}
	im.rows[address] = next

	txn.OnRollback(ctx, func() {
		im.mu.Lock()
		defer im.mu.Unlock()
		if existed {
			im.rows[address] = prev
		} else {
			delete(im.rows, address)
		}
	})
	return nil
}

func (im *memoryRepo) FindOne(ctx ctx.Ctx, address domain.Address) (*market.Account, error) {
	address = address.ToLower()

	im.mu.Lock()
	defer im.mu.Unlock()
	r, ok := im.rows[address]
	if !ok {
		return nil, domain.ErrNotFound
	}
	r = r.clone()
	return &market.Account{
		Address:         address,
		Balance:         r.balance,
		Pending:         r.pending,
		RejectsPayments: r.rejects,
	}, nil
}

func (im *memoryRepo) AddBalance(ctx ctx.Ctx, address domain.Address, delta *big.Int) error {
	return im.mutate(ctx, address, func(r *row) error {
		next := new(big.Int).Add(r.balance, delta)
		if next.Sign() < 0 {
			return market.ErrInsufficientFunds
		}
		r.balance = next
		return nil
	})
}

func (im *memoryRepo) AddPending(ctx ctx.Ctx, address domain.Address, delta *big.Int) error {
	return im.mutate(ctx, address, func(r *row) error {
		next := new(big.Int).Add(r.pending, delta)
		if next.Sign() < 0 {
			return market.ErrInsufficientFunds
		}
		r.pending = next
		return nil
	})
}

func (im *memoryRepo) TakePending(ctx ctx.Ctx, address domain.Address) (*big.Int, error) {
	taken := new(big.Int)
	err := im.mutate(ctx, address, func(r *row) error {
		taken.Set(r.pending)
		r.pending = new(big.Int)
		return nil
	})
	return taken, err
}

func (im *memoryRepo) SetRejectsPayments(ctx ctx.Ctx, address domain.Address, rejects bool) error {
	return im.mutate(ctx, address, func(r *row) error {
		r.rejects = rejects
		return nil
	})
}
