package purchase

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"stockledger/internal/core/apperror"
	"stockledger/internal/core/id"
	"stockledger/internal/core/types"
	"stockledger/internal/domain/ledger"
)

type fakeRepo struct {
	created   []*Purchase
	createErr error
}

func (r *fakeRepo) Create(ctx context.Context, p *Purchase) error {
	if r.createErr != nil {
		return r.createErr
	}
	r.created = append(r.created, p)
	return nil
}

func (r *fakeRepo) GetByID(ctx context.Context, purchaseID id.ID) (*Purchase, error) {
	for _, p := range r.created {
		if p.ID == purchaseID {
			return p, nil
		}
	}
	return nil, apperror.NewNotFound("purchase", purchaseID)
}

func (r *fakeRepo) List(ctx context.Context, filter Filter) ([]Purchase, error) {
	result := make([]Purchase, 0, len(r.created))
	for _, p := range r.created {
		result = append(result, *p)
	}
	return result, nil
}

type fakeRecorder struct {
	requests  []ledger.MovementRequest
	recordErr error
}

func (f *fakeRecorder) RecordMovementTx(ctx context.Context, req ledger.MovementRequest) (ledger.Movement, error) {
	if f.recordErr != nil {
		return ledger.Movement{}, f.recordErr
	}
	f.requests = append(f.requests, req)
	return ledger.Movement{
		ID:         id.New(),
		ProductID:  req.ProductID,
		Quantity:   req.Quantity,
		Direction:  req.Direction,
		Source:     req.Source,
		OccurredAt: req.OccurredAt,
		Note:       req.Note,
		CreatedAt:  time.Now().UTC(),
	}, nil
}

type fakeSuppliers struct {
	known map[id.ID]bool
}

func (d *fakeSuppliers) Exists(ctx context.Context, supplierID id.ID) (bool, error) {
	return d.known[supplierID], nil
}

type passthroughTxManager struct{}

func (passthroughTxManager) RunInTransaction(ctx context.Context, fn func(ctx context.Context) error) error {
	return fn(ctx)
}

func qty(s string) types.Quantity {
	q, err := types.NewQuantityFromString(s)
	if err != nil {
		panic(err)
	}
	return q
}

func newTestService(supplierID id.ID) (*Service, *fakeRepo, *fakeRecorder) {
	repo := &fakeRepo{}
	recorder := &fakeRecorder{}
	suppliers := &fakeSuppliers{known: map[id.ID]bool{supplierID: true}}
	return NewService(repo, suppliers, recorder, passthroughTxManager{}), repo, recorder
}

func TestCreate(t *testing.T) {
	supplierID := id.New()
	productID := id.New()
	svc, repo, recorder := newTestService(supplierID)
	ctx := context.Background()

	p, movement, err := svc.Create(ctx, CreateRequest{
		SupplierID:    supplierID,
		ProductID:     productID,
		Quantity:      qty("20.0000"),
		ExtraQuantity: qty("5.0000"),
		Rate:          types.MustMoney("52.50"),
	})
	require.NoError(t, err)

	assert.Equal(t, "1050", p.TotalAmount.String(), "total = quantity * rate")
	assert.Equal(t, movement.ID, p.MovementID)
	require.Len(t, repo.created, 1)

	// Extra quantity is free goods metadata, never part of the stock intake.
	require.Len(t, recorder.requests, 1)
	req := recorder.requests[0]
	assert.Equal(t, qty("20.0000"), req.Quantity)
	assert.Equal(t, ledger.DirectionIn, req.Direction)
	assert.Equal(t, ledger.SourcePurchase, req.Source)
}

func TestCreate_Validation(t *testing.T) {
	supplierID := id.New()
	productID := id.New()
	svc, repo, recorder := newTestService(supplierID)
	ctx := context.Background()

	tests := []struct {
		name string
		req  CreateRequest
	}{
		{
			name: "missing supplier",
			req:  CreateRequest{ProductID: productID, Quantity: qty("1.0000"), Rate: types.MustMoney("10")},
		},
		{
			name: "missing product",
			req:  CreateRequest{SupplierID: supplierID, Quantity: qty("1.0000"), Rate: types.MustMoney("10")},
		},
		{
			name: "zero quantity",
			req:  CreateRequest{SupplierID: supplierID, ProductID: productID, Rate: types.MustMoney("10")},
		},
		{
			name: "negative extra quantity",
			req: CreateRequest{
				SupplierID: supplierID, ProductID: productID,
				Quantity: qty("1.0000"), ExtraQuantity: qty("-1.0000"),
				Rate: types.MustMoney("10"),
			},
		},
		{
			name: "negative rate",
			req: CreateRequest{
				SupplierID: supplierID, ProductID: productID,
				Quantity: qty("1.0000"), Rate: types.MustMoney("-1"),
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, _, err := svc.Create(ctx, tt.req)
			require.Error(t, err)
			assert.True(t, apperror.IsValidation(err), "expected validation error, got %v", err)
		})
	}

	assert.Empty(t, repo.created)
	assert.Empty(t, recorder.requests)
}

func TestCreate_UnknownSupplier(t *testing.T) {
	svc, repo, _ := newTestService(id.New())
	ctx := context.Background()

	_, _, err := svc.Create(ctx, CreateRequest{
		SupplierID: id.New(),
		ProductID:  id.New(),
		Quantity:   qty("1.0000"),
		Rate:       types.MustMoney("10"),
	})
	require.Error(t, err)
	assert.True(t, apperror.IsNotFound(err))
	assert.Empty(t, repo.created)
}

func TestCreate_RecorderFailureAborts(t *testing.T) {
	supplierID := id.New()
	svc, repo, recorder := newTestService(supplierID)
	recorder.recordErr = apperror.NewInsufficientStock(id.New().String(), "5.0000", "0.0000")
	ctx := context.Background()

	_, _, err := svc.Create(ctx, CreateRequest{
		SupplierID: supplierID,
		ProductID:  id.New(),
		Quantity:   qty("5.0000"),
		Rate:       types.MustMoney("10"),
	})
	require.Error(t, err)
	assert.True(t, apperror.IsInsufficientStock(err), "engine error must surface unchanged")
	assert.Empty(t, repo.created, "no purchase record without its movement")
}

func TestCreate_RepoFailurePropagates(t *testing.T) {
	supplierID := id.New()
	svc, repo, recorder := newTestService(supplierID)
	repo.createErr = errors.New("insert failed")
	ctx := context.Background()

	_, _, err := svc.Create(ctx, CreateRequest{
		SupplierID: supplierID,
		ProductID:  id.New(),
		Quantity:   qty("5.0000"),
		Rate:       types.MustMoney("10"),
	})
	require.Error(t, err)
	require.Len(t, recorder.requests, 1, "movement was attempted before the insert failed")
}

func TestCreate_ServerAssignedOccurredAt(t *testing.T) {
	supplierID := id.New()
	svc, _, _ := newTestService(supplierID)
	ctx := context.Background()

	before := time.Now().UTC()
	p, _, err := svc.Create(ctx, CreateRequest{
		SupplierID: supplierID,
		ProductID:  id.New(),
		Quantity:   qty("1.0000"),
		Rate:       types.MustMoney("10"),
	})
	require.NoError(t, err)
	assert.False(t, p.OccurredAt.Before(before))
}
