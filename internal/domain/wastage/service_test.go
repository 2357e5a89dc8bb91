package wastage

import (
	"context"
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
	created   []*Wastage
	createErr error
}

func (r *fakeRepo) Create(ctx context.Context, w *Wastage) error {
	if r.createErr != nil {
		return r.createErr
	}
	r.created = append(r.created, w)
	return nil
}

func (r *fakeRepo) GetByID(ctx context.Context, wastageID id.ID) (*Wastage, error) {
	for _, w := range r.created {
		if w.ID == wastageID {
			return w, nil
		}
	}
	return nil, apperror.NewNotFound("wastage", wastageID)
}

func (r *fakeRepo) List(ctx context.Context, filter Filter) ([]Wastage, error) {
	result := make([]Wastage, 0, len(r.created))
	for _, w := range r.created {
		result = append(result, *w)
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

func TestCreate(t *testing.T) {
	repo := &fakeRepo{}
	recorder := &fakeRecorder{}
	svc := NewService(repo, recorder, passthroughTxManager{})
	ctx := context.Background()

	w, movement, err := svc.Create(ctx, CreateRequest{
		ProductID: id.New(),
		Quantity:  qty("30.0000"),
		Reason:    "spoiled in transit",
	})
	require.NoError(t, err)

	assert.Equal(t, movement.ID, w.MovementID)
	require.Len(t, repo.created, 1)

	require.Len(t, recorder.requests, 1)
	req := recorder.requests[0]
	assert.Equal(t, ledger.DirectionOut, req.Direction)
	assert.Equal(t, ledger.SourceWastage, req.Source)
	assert.Equal(t, "Wastage: spoiled in transit", req.Note)
}

func TestCreate_Validation(t *testing.T) {
	repo := &fakeRepo{}
	recorder := &fakeRecorder{}
	svc := NewService(repo, recorder, passthroughTxManager{})
	ctx := context.Background()

	tests := []struct {
		name string
		req  CreateRequest
	}{
		{
			name: "missing product",
			req:  CreateRequest{Quantity: qty("1.0000"), Reason: "spoiled"},
		},
		{
			name: "zero quantity",
			req:  CreateRequest{ProductID: id.New(), Reason: "spoiled"},
		},
		{
			name: "missing reason",
			req:  CreateRequest{ProductID: id.New(), Quantity: qty("1.0000")},
		},
		{
			name: "blank reason",
			req:  CreateRequest{ProductID: id.New(), Quantity: qty("1.0000"), Reason: "   "},
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

func TestCreate_InsufficientStockSurfaces(t *testing.T) {
	repo := &fakeRepo{}
	recorder := &fakeRecorder{
		recordErr: apperror.NewInsufficientStock(id.New().String(), "100.0000", "70.0000"),
	}
	svc := NewService(repo, recorder, passthroughTxManager{})
	ctx := context.Background()

	_, _, err := svc.Create(ctx, CreateRequest{
		ProductID: id.New(),
		Quantity:  qty("100.0000"),
		Reason:    "expired",
	})
	require.Error(t, err)
	assert.True(t, apperror.IsInsufficientStock(err))

	appErr, ok := apperror.AsAppError(err)
	require.True(t, ok)
	assert.Equal(t, "100.0000", appErr.Details["requested"])
	assert.Equal(t, "70.0000", appErr.Details["available"])

	assert.Empty(t, repo.created, "no wastage record without its movement")
}
