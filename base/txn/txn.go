// Package txn scopes a unit of work so that every store touched inside it
// either commits together or is rolled back together.
//
// Stores backed by a transactional database join the database transaction
// through the context. Stores without native transactions (in-memory maps,
// redis counters) register a compensation with OnRollback instead.
package txn

import (
	"sync"

	"github.com/x-xyz/gomarket/base/ctx"
)

type journalKey struct{}

// Runner scopes run inside a store transaction. query.Mongo implements it.
type Runner interface {
	RunWithTransaction(c ctx.Ctx, run func(ctx.Ctx) error) error
}

type journal struct {
	mu   sync.Mutex
	undo []func()
}

func (j *journal) add(fn func()) {
	j.mu.Lock()
	defer j.mu.Unlock()
	j.undo = append(j.undo, fn)
}

func (j *journal) rollback() {
	j.mu.Lock()
	undo := j.undo
	j.undo = nil
	j.mu.Unlock()

	for i := len(undo) - 1; i >= 0; i-- {
		undo[i]()
	}
}

// OnRollback registers fn to run if the enclosing transaction fails.
// Compensations run in reverse registration order. Outside a transaction
// the call is a no-op.
func OnRollback(c ctx.Ctx, fn func()) {
	if j, ok := c.Value(journalKey{}).(*journal); ok {
		j.add(fn)
	}
}

// InTransaction reports whether c belongs to a running transaction
func InTransaction(c ctx.Ctx) bool {
	_, ok := c.Value(journalKey{}).(*journal)
	return ok
}

// Transactor runs units of work atomically on top of an optional Runner
type Transactor struct {
	inner Runner
}

// New returns a Transactor. inner may be nil when no store needs a native transaction.
func New(inner Runner) *Transactor {
	return &Transactor{inner: inner}
}

// RunWithTransaction runs fn once. Nested calls join the outer transaction.
func (t *Transactor) RunWithTransaction(c ctx.Ctx, fn func(ctx.Ctx) error) (err error) {
	if InTransaction(c) {
		return fn(c)
	}

	// the inner runner may retry fn, each attempt gets its own journal
	var last *journal
	attempt := func(c ctx.Ctx) (err error) {
		j := &journal{}
		defer func() {
			if r := recover(); r != nil {
				j.rollback()
				panic(r)
			}
			if err != nil {
				j.rollback()
				return
			}
			last = j
		}()
		return fn(ctx.WithInternal(c, journalKey{}, j))
	}

	if t.inner == nil {
		return attempt(c)
	}

	if err := t.inner.RunWithTransaction(c, attempt); err != nil {
		// fn succeeded but the commit did not
		if last != nil {
			last.rollback()
		}
		return err
	}
	return nil
}
