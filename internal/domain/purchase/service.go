package purchase

import (
	"context"
	"fmt"
	"time"

	"stockledger/internal/core/apperror"
	appctx "stockledger/internal/core/context"
	"stockledger/internal/core/id"
	"stockledger/internal/core/tx"
	"stockledger/internal/core/types"
	"stockledger/internal/domain/ledger"
	"stockledger/pkg/logger"
)

// MovementRecorder is the slice of the ledger engine the adapter needs:
// appending a movement inside the adapter's transaction.
type MovementRecorder interface {
	RecordMovementTx(ctx context.Context, req ledger.MovementRequest) (ledger.Movement, error)
}

// SupplierDirectory checks supplier references against the catalog.
type SupplierDirectory interface {
	Exists(ctx context.Context, supplierID id.ID) (bool, error)
}

// CreateRequest is the input for recording a purchase.
type CreateRequest struct {
	SupplierID    id.ID
	ProductID     id.ID
	Quantity      types.Quantity
	ExtraQuantity types.Quantity
	Rate          types.Money
	OccurredAt    time.Time // zero means server-assigned now
	Notes         *string
	ActorID       string // defaults to the authenticated actor from context
}

// Service is the purchase intake adapter. It owns the compound transaction:
// the purchase record and its IN movement commit together or not at all.
type Service struct {
	repo      Repository
	suppliers SupplierDirectory
	recorder  MovementRecorder
	txm       tx.Manager
}

// NewService creates a purchase service.
func NewService(repo Repository, suppliers SupplierDirectory, recorder MovementRecorder, txm tx.Manager) *Service {
	return &Service{
		repo:      repo,
		suppliers: suppliers,
		recorder:  recorder,
		txm:       txm,
	}
}

// Create records a purchase and its IN movement atomically. Stock and
// movement validation is delegated to the engine; the adapter only checks
// what the engine cannot (the supplier reference and purchase amounts).
func (s *Service) Create(ctx context.Context, req CreateRequest) (*Purchase, *ledger.Movement, error) {
	now := time.Now().UTC()
	occurredAt := req.OccurredAt
	if occurredAt.IsZero() {
		occurredAt = now
	}
	actorID := req.ActorID
	if actorID == "" {
		actorID = appctx.GetUserID(ctx)
	}

	p := &Purchase{
		ID:            id.New(),
		SupplierID:    req.SupplierID,
		ProductID:     req.ProductID,
		Quantity:      req.Quantity,
		ExtraQuantity: req.ExtraQuantity,
		Rate:          req.Rate,
		OccurredAt:    occurredAt,
		Notes:         req.Notes,
		ActorID:       actorID,
		CreatedAt:     now,
	}
	p.TotalAmount = p.ComputeTotal()

	if err := p.Validate(ctx); err != nil {
		return nil, nil, err
	}

	exists, err := s.suppliers.Exists(ctx, req.SupplierID)
	if err != nil {
		return nil, nil, fmt.Errorf("check supplier %s: %w", req.SupplierID, err)
	}
	if !exists {
		return nil, nil, apperror.NewNotFound("supplier", req.SupplierID)
	}

	var movement ledger.Movement
	err = ledger.RunWithConflictRetry(ctx, s.txm, func(ctx context.Context) error {
		var err error
		movement, err = s.recorder.RecordMovementTx(ctx, ledger.MovementRequest{
			ProductID:  p.ProductID,
			Quantity:   p.Quantity,
			Direction:  ledger.DirectionIn,
			Source:     ledger.SourcePurchase,
			OccurredAt: p.OccurredAt,
			ActorID:    p.ActorID,
		})
		if err != nil {
			return err
		}

		p.MovementID = movement.ID
		if err := s.repo.Create(ctx, p); err != nil {
			return fmt.Errorf("create purchase: %w", err)
		}
		return nil
	})
	if err != nil {
		return nil, nil, err
	}

	logger.Info(ctx, "purchase recorded",
		"purchase_id", p.ID,
		"product_id", p.ProductID,
		"supplier_id", p.SupplierID,
		"quantity", p.Quantity.String(),
		"total", p.TotalAmount.String(),
	)
	return p, &movement, nil
}

// Get returns a purchase by id.
func (s *Service) Get(ctx context.Context, purchaseID id.ID) (*Purchase, error) {
	return s.repo.GetByID(ctx, purchaseID)
}

// List returns purchases matching the filter, latest first.
func (s *Service) List(ctx context.Context, filter Filter) ([]Purchase, error) {
	return s.repo.List(ctx, filter)
}
