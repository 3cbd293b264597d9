package query

/*
	Description:
		Package `query` provides interface for querying mongo db
		This pachage is basicly nothing but wrap https://github.com/mongodb/mongo-go-driver
		so please read document at following link for any detail
		https://godoc.org/go.mongodb.org/mongo-driver/mongo

	Use Case:
		Please Read the testcases for usage of each method
*/

import (
	"fmt"

	"go.mongodb.org/mongo-driver/bson"

	"github.com/x-xyz/saleengine/base/ctx"
	"github.com/x-xyz/saleengine/domain"
)

var (
	// ErrNotFound is mongo document not found error
	ErrNotFound = fmt.Errorf("document not found")

	// ErrDuplicateKey is an error when violating unique index
	ErrDuplicateKey = fmt.Errorf("duplicate key")

	// ErrCollScan is error for unindexed query
	ErrCollScan = fmt.Errorf("COLLSCAN is not allowed")
)

type patchOp struct {
	patchMany bool
}

// PatchOp is an alias for functional argument
type PatchOp func(*patchOp)

// WithPatchMany specifies patchMany setting. To patch all entries selected, set patchMany = true.
func WithPatchMany(patchMany bool) PatchOp {
	return func(o *patchOp) {
		o.patchMany = patchMany
	}
}

// Index describes a compound index, keys prefixed by "-" are descending
type Index struct {
	Keys   []string
	Unique bool
}

//Mongo abstract the mongo layer.
type Mongo interface {
	// Insert inserts a new document to the table
	// Return ErrDuplicateKey if it violates a unique index
	Insert(context ctx.Ctx, table domain.Table, insert interface{}) error

	// FindOne get data from the table
	FindOne(context ctx.Ctx, table domain.Table, query, result interface{}) error

	// Count return counting for matched entry in the table
	// https://docs.mongodb.com/manual/reference/method/db.collection.countDocuments
	Count(context ctx.Ctx, table domain.Table, selector interface{}) (n int, err error)

	// Search sort order by `sort` argument (ex "timestamp" ascending, or "-timestamp" descending)
	// if `sort` is "", the sort action is skipped, and the MongoDB does not guarantee the order of query results.
	Search(context ctx.Ctx, table domain.Table, offset, limit int, sort string, query, results interface{}) error

	// SearchNSorts sort with multiple fields, if you use compound key, make sure key order is correct. https://docs.mongodb.com/manual/tutorial/sort-results-with-indexes/
	SearchNSorts(context ctx.Ctx, table domain.Table, offset, limit int, sortFields []string, query, results interface{}) error

	// Patch patch an entry, if the selector not exist, return err.
	// To patch all entries selected, set WithPatchMany(true).
	// Return ErrNotFound if selector does not match any documents
	Patch(context ctx.Ctx, table domain.Table, selector, update interface{}, ops ...PatchOp) error

	// CustomPatch patch an entry with customized mongo query
	// Return ErrNotFound if upsert is false and selector does not match any documents,
	CustomPatch(context ctx.Ctx, table domain.Table, selector, update bson.M, upsert bool) error

	// EnsureIndexes creates the indexes when missing
	EnsureIndexes(context ctx.Ctx, table domain.Table, indexes ...Index) error

	// RunWithTransaction runs `run` in a mongo transaction. Calls made with a
	// context that already carries a session join the outer transaction.
	RunWithTransaction(context ctx.Ctx, run func(ctx.Ctx) error) error
}
