package query

/*
	Package query wraps https://github.com/mongodb/mongo-go-driver for the market stores.
	Every call takes the table name and returns ErrNotFound / ErrDuplicateKey
	instead of driver errors so repositories can map them to domain errors.
*/

import (
	"fmt"

	"go.mongodb.org/mongo-driver/bson"

	"github.com/x-xyz/gomarket/base/ctx"
	"github.com/x-xyz/gomarket/domain"
)

var (
	// ErrNotFound is mongo document not found error
	ErrNotFound = fmt.Errorf("document not found")

	// ErrDuplicateKey is an error when violating unique index
	ErrDuplicateKey = fmt.Errorf("duplicate key")
)

type patchOp struct {
	patchMany bool
}

// PatchOp is an alias for functional argument
type PatchOp func(*patchOp)

// WithPatchMany patches every selected entry
func WithPatchMany(patchMany bool) PatchOp {
	return func(o *patchOp) {
		o.patchMany = patchMany
	}
}

// Index is a unique compound index on the listed keys
type Index struct {
	Table domain.Table
	Keys  []string
}

// Mongo abstract the mongo layer.
type Mongo interface {
	// Insert inserts a new document, ErrDuplicateKey on unique index violation
	Insert(context ctx.Ctx, table domain.Table, insert interface{}) error

	FindOne(context ctx.Ctx, table domain.Table, query, result interface{}) error

	Count(context ctx.Ctx, table domain.Table, selector interface{}) (n int, err error)

	// Upsert replaces the entry matching selector or inserts it
	Upsert(context ctx.Ctx, table domain.Table, selector, update interface{}) error

	// Search sort order by `sort` argument (ex "timestamp" ascending, or "-timestamp" descending)
	// if `sort` is "", mongo does not guarantee the order of results.
	Search(context ctx.Ctx, table domain.Table, offset, limit int, sort string, query, results interface{}) error

	// Remove returns ErrNotFound if selector does not match any documents
	Remove(context ctx.Ctx, table domain.Table, selector interface{}) error

	// Patch sets the fields of update on the selected entry.
	// Return ErrNotFound if selector does not match any documents
	Patch(context ctx.Ctx, table domain.Table, selector, update interface{}, ops ...PatchOp) error

	// CustomPatch runs a raw update document
	// Return ErrNotFound if upsert is false and selector does not match any documents
	CustomPatch(context ctx.Ctx, table domain.Table, selector, update bson.M, upsert bool) error

	// FindOneAndUpdate applies update on the entry matching selector and decodes the updated entry into result.
	// Return ErrNotFound if upsert is false and selector does not match any documents
	FindOneAndUpdate(context ctx.Ctx, table domain.Table, selector, update bson.M, upsert bool, result interface{}) error

	EnsureIndexes(context ctx.Ctx, indexes ...Index) error

	// RunWithTransaction runs `run` inside a mongo session transaction.
	// The ctx passed to run carries the session and must be used for every call in it.
	RunWithTransaction(context ctx.Ctx, run func(ctx.Ctx) error) error
}
