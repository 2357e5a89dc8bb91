package wastage

import (
	"context"
	"fmt"
	"time"

	appctx "stockledger/internal/core/context"
	"stockledger/internal/core/id"
	"stockledger/internal/core/tx"
	"stockledger/internal/core/types"
	"stockledger/internal/domain/ledger"
	"stockledger/pkg/logger"
)

// MovementRecorder is the slice of the ledger engine the adapter needs.
type MovementRecorder interface {
	RecordMovementTx(ctx context.Context, req ledger.MovementRequest) (ledger.Movement, error)
}

// CreateRequest is the input for recording a wastage.
type CreateRequest struct {
	ProductID  id.ID
	Quantity   types.Quantity
	Reason     string
	OccurredAt time.Time // zero means server-assigned now
	ActorID    string    // defaults to the authenticated actor from context
}

// Service is the wastage intake adapter. The insufficient-stock check runs
// inside the engine under the per-product lock, so a wastage that does not
// fit never leaves a record behind.
type Service struct {
	repo     Repository
	recorder MovementRecorder
	txm      tx.Manager
}

// NewService creates a wastage service.
func NewService(repo Repository, recorder MovementRecorder, txm tx.Manager) *Service {
	return &Service{
		repo:     repo,
		recorder: recorder,
		txm:      txm,
	}
}

// Create records a wastage and its OUT movement atomically.
func (s *Service) Create(ctx context.Context, req CreateRequest) (*Wastage, *ledger.Movement, error) {
	now := time.Now().UTC()
	occurredAt := req.OccurredAt
	if occurredAt.IsZero() {
		occurredAt = now
	}
	actorID := req.ActorID
	if actorID == "" {
		actorID = appctx.GetUserID(ctx)
	}

	w := &Wastage{
		ID:         id.New(),
		ProductID:  req.ProductID,
		Quantity:   req.Quantity,
		Reason:     req.Reason,
		OccurredAt: occurredAt,
		ActorID:    actorID,
		CreatedAt:  now,
	}

	if err := w.Validate(ctx); err != nil {
		return nil, nil, err
	}

	var movement ledger.Movement
	err := ledger.RunWithConflictRetry(ctx, s.txm, func(ctx context.Context) error {
		var err error
		movement, err = s.recorder.RecordMovementTx(ctx, ledger.MovementRequest{
			ProductID:  w.ProductID,
			Quantity:   w.Quantity,
			Direction:  ledger.DirectionOut,
			Source:     ledger.SourceWastage,
			OccurredAt: w.OccurredAt,
			Note:       w.MovementNote(),
			ActorID:    w.ActorID,
		})
		if err != nil {
			return err
		}

		w.MovementID = movement.ID
		if err := s.repo.Create(ctx, w); err != nil {
			return fmt.Errorf("create wastage: %w", err)
		}
		return nil
	})
	if err != nil {
		return nil, nil, err
	}

	logger.Info(ctx, "wastage recorded",
		"wastage_id", w.ID,
		"product_id", w.ProductID,
		"quantity", w.Quantity.String(),
		"reason", w.Reason,
	)
	return w, &movement, nil
}

// Get returns a wastage by id.
func (s *Service) Get(ctx context.Context, wastageID id.ID) (*Wastage, error) {
	return s.repo.GetByID(ctx, wastageID)
}

// List returns wastages matching the filter, latest first.
func (s *Service) List(ctx context.Context, filter Filter) ([]Wastage, error) {
	return s.repo.List(ctx, filter)
}
