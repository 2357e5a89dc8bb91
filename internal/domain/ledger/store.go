package ledger

import (
	"context"
	"time"

	"stockledger/internal/core/id"
	"stockledger/internal/core/types"
)

// TimeRange bounds a movement query. Nil bounds mean unbounded.
type TimeRange struct {
	From *time.Time
	To   *time.Time
}

// Contains reports whether t falls inside the range (bounds inclusive).
func (r TimeRange) Contains(t time.Time) bool {
	if r.From != nil && t.Before(*r.From) {
		return false
	}
	if r.To != nil && t.After(*r.To) {
		return false
	}
	return true
}

// Store defines append-only movement storage.
// No update or delete operations exist; immutability is enforced at the
// interface level. All mutation funnels through the Engine.
type Store interface {
	// Append persists a movement and updates the balance projection in the
	// same transaction. The movement must already carry id and timestamps.
	Append(ctx context.Context, m Movement) (Movement, error)

	// ListByProduct returns movements for a product ascending by
	// (occurred_at, id).
	ListByProduct(ctx context.Context, productID id.ID, r TimeRange) ([]Movement, error)

	// ListAll returns the global ledger ascending by (occurred_at, id).
	ListAll(ctx context.Context, r TimeRange) ([]Movement, error)

	// LockProduct acquires the per-product row lock and returns the balance
	// as of the lock. Must be called inside a transaction; the lock is held
	// until the transaction ends. A product with no movements yields zero.
	LockProduct(ctx context.Context, productID id.ID) (types.Quantity, error)

	// Balance returns the current balance for a product (zero if no
	// movements), computed as the fold over its movements.
	Balance(ctx context.Context, productID id.ID) (types.Quantity, error)

	// BalanceAsOf returns the balance restricted to movements with
	// occurred_at <= asOf.
	BalanceAsOf(ctx context.Context, productID id.ID, asOf time.Time) (types.Quantity, error)
}

// ProductDirectory is the slice of the catalog the ledger needs:
// existence checks for referenced products.
type ProductDirectory interface {
	Exists(ctx context.Context, productID id.ID) (bool, error)
}
