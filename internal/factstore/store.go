// Package factstore defines the contract of the remote fact table and the
// helpers shared by its backends.
package factstore

import (
	"context"
	"errors"

	"today-i-learned/internal/model"
)

// DefaultLimit caps how many facts a single query returns.
const DefaultLimit = 1000

// OrderVotesInteresting is the only ordering the table is queried with.
const OrderVotesInteresting = "votesInteresting"

// ErrNotFound is returned when a fact id does not exist in the store.
var ErrNotFound = errors.New("fact not found")

// Query parameterizes a read of the facts table.
// An empty Category sends no category predicate.
type Query struct {
	Category   string
	OrderBy    string
	Descending bool
	Limit      int
}

// TopQuery returns the canonical query: most interesting first, capped.
func TopQuery(category string) Query {
	return Query{
		Category:   category,
		OrderBy:    OrderVotesInteresting,
		Descending: true,
		Limit:      DefaultLimit,
	}
}

// Normalize fills zero values with defaults.
func (q Query) Normalize() Query {
	if q.OrderBy == "" {
		q.OrderBy = OrderVotesInteresting
	}
	if q.Limit <= 0 || q.Limit > DefaultLimit {
		q.Limit = DefaultLimit
	}
	return q
}

// Store is the remote fact table.
type Store interface {
	// List returns facts matching q.
	List(ctx context.Context, q Query) ([]model.Fact, error)
	// Insert persists f and returns the stored record with its assigned id.
	Insert(ctx context.Context, f model.Fact) (model.Fact, error)
	// Vote increments one counter of the fact and returns the updated record.
	Vote(ctx context.Context, id model.FactID, kind model.VoteKind) (model.Fact, error)
}
