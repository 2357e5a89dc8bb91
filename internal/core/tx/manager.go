// Package tx defines the transaction contract the ledger and intake
// services depend on. The postgres implementation lives in
// infrastructure/storage; domain packages never import it directly.
package tx

import (
	"context"
)

// Manager runs a unit of work in a database transaction. The intake
// adapters use it to commit a domain record and its movement together.
type Manager interface {
	// RunInTransaction executes fn within a database transaction.
	// If fn returns an error, the transaction is rolled back.
	// If fn succeeds, the transaction is committed.
	//
	// Nested calls reuse the existing transaction from context.
	RunInTransaction(ctx context.Context, fn func(ctx context.Context) error) error
}

// ReadOnlyManager extends Manager with read-only transaction support.
// Use for queries that don't modify data (better performance, no locks).
type ReadOnlyManager interface {
	Manager

	// ReadOnly executes fn in a read-only transaction.
	// Attempts to modify data will fail.
	ReadOnly(ctx context.Context, fn func(ctx context.Context) error) error
}

