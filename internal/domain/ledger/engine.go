package ledger

import (
	"context"
	"fmt"
	"time"

	"stockledger/internal/core/apperror"
	appctx "stockledger/internal/core/context"
	"stockledger/internal/core/id"
	"stockledger/internal/core/tx"
	"stockledger/internal/core/types"
	"stockledger/internal/metrics"
	"stockledger/pkg/logger"
)

// maxConflictAttempts bounds the internal retry of validate+append after a
// per-product serialization conflict. The final failure surfaces as
// CONCURRENT_MODIFICATION, a request-to-retry for the caller.
const maxConflictAttempts = 3

// MovementRequest is the input for recording a single movement.
type MovementRequest struct {
	ProductID  id.ID
	Quantity   types.Quantity
	Direction  Direction
	Source     Source
	OccurredAt time.Time // zero means server-assigned now
	Note       string
	ActorID    string // defaults to the authenticated actor from context
}

// Engine is the sole writer of the movement store. It validates requests,
// serializes the check-then-append sequence per product, and retries
// transient conflicts a bounded number of times.
type Engine struct {
	store    Store
	products ProductDirectory
	txm      tx.Manager
}

// NewEngine creates a ledger engine.
func NewEngine(store Store, products ProductDirectory, txm tx.Manager) *Engine {
	return &Engine{
		store:    store,
		products: products,
		txm:      txm,
	}
}

// RecordMovement validates and atomically appends a movement in its own
// transaction, retrying internally on serialization conflicts.
func (e *Engine) RecordMovement(ctx context.Context, req MovementRequest) (Movement, error) {
	var result Movement
	err := RunWithConflictRetry(ctx, e.txm, func(ctx context.Context) error {
		var err error
		result, err = e.RecordMovementTx(ctx, req)
		return err
	})
	return result, err
}

// RecordMovementTx validates and appends a movement inside the caller's
// transaction. Conflicts are not retried here: retrying inside an aborted
// transaction cannot succeed, so the conflict propagates and the
// transaction owner decides whether to rerun the whole unit of work.
func (e *Engine) RecordMovementTx(ctx context.Context, req MovementRequest) (Movement, error) {
	if err := e.validate(ctx, req); err != nil {
		return Movement{}, err
	}

	// Per-product serialization point: the balance row lock is held until
	// the transaction ends, so no concurrent append for this product can
	// interleave between the check and the append.
	available, err := e.store.LockProduct(ctx, req.ProductID)
	if err != nil {
		return Movement{}, fmt.Errorf("lock product %s: %w", req.ProductID, err)
	}

	if req.Direction == DirectionOut && req.Quantity > available {
		metrics.MovementsRejected.WithLabelValues(metrics.ReasonInsufficientStock).Inc()
		return Movement{}, apperror.NewInsufficientStock(
			req.ProductID.String(),
			req.Quantity.String(),
			available.String(),
		)
	}

	now := time.Now().UTC()
	occurredAt := req.OccurredAt
	if occurredAt.IsZero() {
		occurredAt = now
	}
	actorID := req.ActorID
	if actorID == "" {
		actorID = appctx.GetUserID(ctx)
	}

	movement := Movement{
		ID:         id.New(),
		ProductID:  req.ProductID,
		Quantity:   req.Quantity,
		Direction:  req.Direction,
		Source:     req.Source,
		OccurredAt: occurredAt,
		Note:       req.Note,
		ActorID:    actorID,
		CreatedAt:  now,
	}

	stored, err := e.store.Append(ctx, movement)
	if err != nil {
		return Movement{}, fmt.Errorf("append movement: %w", err)
	}

	metrics.MovementsAppended.WithLabelValues(string(stored.Direction), string(stored.Source)).Inc()
	logger.Info(ctx, "movement recorded",
		"movement_id", stored.ID,
		"product_id", stored.ProductID,
		"direction", stored.Direction,
		"source", stored.Source,
		"quantity", stored.Quantity.String(),
	)

	return stored, nil
}

func (e *Engine) validate(ctx context.Context, req MovementRequest) error {
	if id.IsNil(req.ProductID) {
		metrics.MovementsRejected.WithLabelValues(metrics.ReasonValidation).Inc()
		return apperror.NewValidation("product_id is required")
	}
	if !req.Quantity.IsPositive() {
		metrics.MovementsRejected.WithLabelValues(metrics.ReasonValidation).Inc()
		return apperror.NewValidation("quantity must be positive").
			WithDetail("quantity", req.Quantity.String())
	}
	if !req.Direction.Valid() {
		metrics.MovementsRejected.WithLabelValues(metrics.ReasonValidation).Inc()
		return apperror.NewValidation("direction must be in or out").
			WithDetail("direction", string(req.Direction))
	}
	if !req.Source.Valid() {
		metrics.MovementsRejected.WithLabelValues(metrics.ReasonValidation).Inc()
		return apperror.NewValidation("source must be purchase, manual or wastage").
			WithDetail("source", string(req.Source))
	}

	exists, err := e.products.Exists(ctx, req.ProductID)
	if err != nil {
		return fmt.Errorf("check product %s: %w", req.ProductID, err)
	}
	if !exists {
		metrics.MovementsRejected.WithLabelValues(metrics.ReasonNotFound).Inc()
		return apperror.NewNotFound("product", req.ProductID)
	}
	return nil
}

// --- Queries ---

// CurrentBalance returns the product's balance, zero for a product with no
// movements. Unknown products are a NotFound error.
func (e *Engine) CurrentBalance(ctx context.Context, productID id.ID) (types.Quantity, error) {
	if err := e.requireProduct(ctx, productID); err != nil {
		return 0, err
	}
	balance, err := e.store.Balance(ctx, productID)
	if err != nil {
		return 0, fmt.Errorf("balance for %s: %w", productID, err)
	}
	return balance, nil
}

// BalanceAsOf returns the product's balance as of the given time.
func (e *Engine) BalanceAsOf(ctx context.Context, productID id.ID, asOf time.Time) (types.Quantity, error) {
	if err := e.requireProduct(ctx, productID); err != nil {
		return 0, err
	}
	balance, err := e.store.BalanceAsOf(ctx, productID, asOf)
	if err != nil {
		return 0, fmt.Errorf("balance as of %s for %s: %w", asOf, productID, err)
	}
	return balance, nil
}

// ProductHistory returns the product's movements, optionally restricted to a
// calendar month/year, latest first.
func (e *Engine) ProductHistory(ctx context.Context, productID id.ID, filter HistoryFilter) ([]Movement, error) {
	if err := e.requireProduct(ctx, productID); err != nil {
		return nil, err
	}
	movements, err := e.store.ListByProduct(ctx, productID, TimeRange{})
	if err != nil {
		return nil, fmt.Errorf("list movements for %s: %w", productID, err)
	}
	return FilterHistory(movements, filter), nil
}

// GlobalLedger returns all movements in the optional time range, latest first.
func (e *Engine) GlobalLedger(ctx context.Context, r TimeRange) ([]Movement, error) {
	movements, err := e.store.ListAll(ctx, r)
	if err != nil {
		return nil, fmt.Errorf("list movements: %w", err)
	}
	SortLatestFirst(movements)
	return movements, nil
}

func (e *Engine) requireProduct(ctx context.Context, productID id.ID) error {
	exists, err := e.products.Exists(ctx, productID)
	if err != nil {
		return fmt.Errorf("check product %s: %w", productID, err)
	}
	if !exists {
		return apperror.NewNotFound("product", productID)
	}
	return nil
}

// RunWithConflictRetry runs fn in a transaction, rerunning the whole unit of
// work after a serialization conflict. Only conflicts are retried;
// validation and business-rule failures surface immediately.
func RunWithConflictRetry(ctx context.Context, txm tx.Manager, fn func(ctx context.Context) error) error {
	var err error
	for attempt := 1; attempt <= maxConflictAttempts; attempt++ {
		err = txm.RunInTransaction(ctx, fn)
		if err == nil || !apperror.IsConcurrentModification(err) {
			return err
		}
		if attempt < maxConflictAttempts {
			metrics.ConflictRetries.Inc()
			logger.Warn(ctx, "serialization conflict, retrying",
				"attempt", attempt,
			)
		}
	}
	metrics.MovementsRejected.WithLabelValues(metrics.ReasonConflict).Inc()
	return err
}
