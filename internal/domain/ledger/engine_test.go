package ledger

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"stockledger/internal/core/apperror"
	"stockledger/internal/core/id"
	"stockledger/internal/core/types"
)

// fakeStore keeps movements in memory and derives balances with the
// calculator, so engine tests exercise the same fold the SQL performs.
type fakeStore struct {
	movements []Movement
	appendErr error
	lockErr   error
}

func (s *fakeStore) Append(ctx context.Context, m Movement) (Movement, error) {
	if s.appendErr != nil {
		return Movement{}, s.appendErr
	}
	s.movements = append(s.movements, m)
	return m, nil
}

func (s *fakeStore) ListByProduct(ctx context.Context, productID id.ID, r TimeRange) ([]Movement, error) {
	var result []Movement
	for _, m := range s.movements {
		if m.ProductID == productID && r.Contains(m.OccurredAt) {
			result = append(result, m)
		}
	}
	SortChronological(result)
	return result, nil
}

func (s *fakeStore) ListAll(ctx context.Context, r TimeRange) ([]Movement, error) {
	var result []Movement
	for _, m := range s.movements {
		if r.Contains(m.OccurredAt) {
			result = append(result, m)
		}
	}
	SortChronological(result)
	return result, nil
}

func (s *fakeStore) LockProduct(ctx context.Context, productID id.ID) (types.Quantity, error) {
	if s.lockErr != nil {
		return 0, s.lockErr
	}
	return s.Balance(ctx, productID)
}

func (s *fakeStore) Balance(ctx context.Context, productID id.ID) (types.Quantity, error) {
	movements, _ := s.ListByProduct(ctx, productID, TimeRange{})
	return ComputeBalance(movements), nil
}

func (s *fakeStore) BalanceAsOf(ctx context.Context, productID id.ID, asOf time.Time) (types.Quantity, error) {
	movements, _ := s.ListByProduct(ctx, productID, TimeRange{})
	return ComputeBalanceAsOf(movements, asOf), nil
}

// fakeTxManager runs fn directly. failures injects a conflict error for the
// first N transactions to exercise the retry loop.
type fakeTxManager struct {
	calls    int
	failures int
}

func (m *fakeTxManager) RunInTransaction(ctx context.Context, fn func(ctx context.Context) error) error {
	m.calls++
	if m.calls <= m.failures {
		return apperror.NewConcurrentModification("stock_balance", nil)
	}
	return fn(ctx)
}

type fakeDirectory struct {
	known map[id.ID]bool
}

func (d *fakeDirectory) Exists(ctx context.Context, productID id.ID) (bool, error) {
	return d.known[productID], nil
}

func newTestEngine(store *fakeStore, products ...id.ID) (*Engine, *fakeTxManager) {
	known := make(map[id.ID]bool, len(products))
	for _, p := range products {
		known[p] = true
	}
	txm := &fakeTxManager{}
	return NewEngine(store, &fakeDirectory{known: known}, txm), txm
}

func TestRecordMovement_Validation(t *testing.T) {
	productID := id.New()
	store := &fakeStore{}
	engine, _ := newTestEngine(store, productID)
	ctx := context.Background()

	tests := []struct {
		name string
		req  MovementRequest
	}{
		{
			name: "missing product id",
			req:  MovementRequest{Quantity: qty("1.0000"), Direction: DirectionIn, Source: SourceManual},
		},
		{
			name: "zero quantity",
			req:  MovementRequest{ProductID: productID, Quantity: 0, Direction: DirectionIn, Source: SourceManual},
		},
		{
			name: "negative quantity",
			req:  MovementRequest{ProductID: productID, Quantity: qty("-1.0000"), Direction: DirectionIn, Source: SourceManual},
		},
		{
			name: "bad direction",
			req:  MovementRequest{ProductID: productID, Quantity: qty("1.0000"), Direction: "sideways", Source: SourceManual},
		},
		{
			name: "bad source",
			req:  MovementRequest{ProductID: productID, Quantity: qty("1.0000"), Direction: DirectionIn, Source: "teleport"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := engine.RecordMovement(ctx, tt.req)
			require.Error(t, err)
			assert.True(t, apperror.IsValidation(err), "expected validation error, got %v", err)
			assert.Empty(t, store.movements, "rejected movement must not be stored")
		})
	}
}

func TestRecordMovement_UnknownProduct(t *testing.T) {
	store := &fakeStore{}
	engine, _ := newTestEngine(store)
	ctx := context.Background()

	_, err := engine.RecordMovement(ctx, MovementRequest{
		ProductID: id.New(),
		Quantity:  qty("1.0000"),
		Direction: DirectionIn,
		Source:    SourceManual,
	})
	require.Error(t, err)
	assert.True(t, apperror.IsNotFound(err))
}

func TestRecordMovement_InsufficientStock(t *testing.T) {
	productID := id.New()
	store := &fakeStore{}
	engine, _ := newTestEngine(store, productID)
	ctx := context.Background()

	_, err := engine.RecordMovement(ctx, MovementRequest{
		ProductID: productID,
		Quantity:  qty("5.0000"),
		Direction: DirectionIn,
		Source:    SourceManual,
	})
	require.NoError(t, err)

	_, err = engine.RecordMovement(ctx, MovementRequest{
		ProductID: productID,
		Quantity:  qty("5.0001"),
		Direction: DirectionOut,
		Source:    SourceManual,
	})
	require.Error(t, err)
	assert.True(t, apperror.IsInsufficientStock(err))

	appErr, ok := apperror.AsAppError(err)
	require.True(t, ok)
	assert.Equal(t, "5.0001", appErr.Details["requested"])
	assert.Equal(t, "5.0000", appErr.Details["available"])

	// Rejection leaves the ledger untouched.
	balance, err := engine.CurrentBalance(ctx, productID)
	require.NoError(t, err)
	assert.Equal(t, "5.0000", balance.String())
	assert.Len(t, store.movements, 1)
}

func TestRecordMovement_ServerAssignedFields(t *testing.T) {
	productID := id.New()
	store := &fakeStore{}
	engine, _ := newTestEngine(store, productID)
	ctx := context.Background()

	before := time.Now().UTC()
	m, err := engine.RecordMovement(ctx, MovementRequest{
		ProductID: productID,
		Quantity:  qty("2.0000"),
		Direction: DirectionIn,
		Source:    SourceManual,
	})
	require.NoError(t, err)

	assert.False(t, id.IsNil(m.ID))
	assert.False(t, m.OccurredAt.Before(before), "zero occurred_at must default to server now")
	assert.False(t, m.CreatedAt.IsZero())
}

// The Milk 1L walkthrough: intake, partial wastage, an oversized wastage
// that must be rejected, then draining to zero.
func TestRecordMovement_StockLifecycle(t *testing.T) {
	productID := id.New()
	store := &fakeStore{}
	engine, _ := newTestEngine(store, productID)
	ctx := context.Background()

	record := func(direction Direction, source Source, quantity string) error {
		_, err := engine.RecordMovement(ctx, MovementRequest{
			ProductID: productID,
			Quantity:  qty(quantity),
			Direction: direction,
			Source:    source,
		})
		return err
	}

	balance := func() string {
		b, err := engine.CurrentBalance(ctx, productID)
		require.NoError(t, err)
		return b.String()
	}

	require.NoError(t, record(DirectionIn, SourcePurchase, "100.0000"))
	assert.Equal(t, "100.0000", balance())

	require.NoError(t, record(DirectionOut, SourceWastage, "30.0000"))
	assert.Equal(t, "70.0000", balance())

	err := record(DirectionOut, SourceWastage, "100.0000")
	require.Error(t, err)
	assert.True(t, apperror.IsInsufficientStock(err))
	assert.Equal(t, "70.0000", balance(), "rejected movement must not change the balance")

	require.NoError(t, record(DirectionOut, SourceManual, "70.0000"))
	assert.Equal(t, "0.0000", balance())

	err = record(DirectionOut, SourceManual, "0.0001")
	require.Error(t, err)
	assert.True(t, apperror.IsInsufficientStock(err), "zero balance admits no further OUT")
}

func TestRecordMovement_ConflictRetry(t *testing.T) {
	productID := id.New()
	store := &fakeStore{}
	engine, txm := newTestEngine(store, productID)
	txm.failures = 2
	ctx := context.Background()

	m, err := engine.RecordMovement(ctx, MovementRequest{
		ProductID: productID,
		Quantity:  qty("1.0000"),
		Direction: DirectionIn,
		Source:    SourceManual,
	})
	require.NoError(t, err, "two conflicts fit inside the retry budget")
	assert.Equal(t, 3, txm.calls)
	assert.Len(t, store.movements, 1)
	assert.False(t, id.IsNil(m.ID))
}

func TestRecordMovement_ConflictExhausted(t *testing.T) {
	productID := id.New()
	store := &fakeStore{}
	engine, txm := newTestEngine(store, productID)
	txm.failures = 10
	ctx := context.Background()

	_, err := engine.RecordMovement(ctx, MovementRequest{
		ProductID: productID,
		Quantity:  qty("1.0000"),
		Direction: DirectionIn,
		Source:    SourceManual,
	})
	require.Error(t, err)
	assert.True(t, apperror.IsConcurrentModification(err))
	assert.Equal(t, maxConflictAttempts, txm.calls)
	assert.Empty(t, store.movements)
}

func TestBalanceQueries(t *testing.T) {
	productID := id.New()
	store := &fakeStore{}
	engine, _ := newTestEngine(store, productID)
	ctx := context.Background()

	t.Run("unknown product is not found", func(t *testing.T) {
		_, err := engine.CurrentBalance(ctx, id.New())
		require.Error(t, err)
		assert.True(t, apperror.IsNotFound(err))
	})

	t.Run("known product without movements is zero", func(t *testing.T) {
		balance, err := engine.CurrentBalance(ctx, productID)
		require.NoError(t, err)
		assert.True(t, balance.IsZero())
	})

	t.Run("as-of excludes later movements", func(t *testing.T) {
		early := time.Date(2025, time.March, 1, 0, 0, 0, 0, time.UTC)
		late := time.Date(2025, time.April, 1, 0, 0, 0, 0, time.UTC)

		_, err := engine.RecordMovement(ctx, MovementRequest{
			ProductID: productID, Quantity: qty("10.0000"),
			Direction: DirectionIn, Source: SourceManual, OccurredAt: early,
		})
		require.NoError(t, err)
		_, err = engine.RecordMovement(ctx, MovementRequest{
			ProductID: productID, Quantity: qty("4.0000"),
			Direction: DirectionOut, Source: SourceManual, OccurredAt: late,
		})
		require.NoError(t, err)

		balance, err := engine.BalanceAsOf(ctx, productID, early.Add(24*time.Hour))
		require.NoError(t, err)
		assert.Equal(t, "10.0000", balance.String())

		balance, err = engine.BalanceAsOf(ctx, productID, late)
		require.NoError(t, err)
		assert.Equal(t, "6.0000", balance.String())
	})
}

func TestProductHistory(t *testing.T) {
	productID := id.New()
	store := &fakeStore{}
	engine, _ := newTestEngine(store, productID)
	ctx := context.Background()

	march := time.Date(2025, time.March, 10, 0, 0, 0, 0, time.UTC)
	april := time.Date(2025, time.April, 10, 0, 0, 0, 0, time.UTC)

	for _, ts := range []time.Time{march, april} {
		_, err := engine.RecordMovement(ctx, MovementRequest{
			ProductID: productID, Quantity: qty("1.0000"),
			Direction: DirectionIn, Source: SourceManual, OccurredAt: ts,
		})
		require.NoError(t, err)
	}

	month := time.March
	history, err := engine.ProductHistory(ctx, productID, HistoryFilter{Month: &month})
	require.NoError(t, err)
	require.Len(t, history, 1)
	assert.Equal(t, march, history[0].OccurredAt)

	_, err = engine.ProductHistory(ctx, id.New(), HistoryFilter{})
	require.Error(t, err)
	assert.True(t, apperror.IsNotFound(err))
}

func TestGlobalLedger_LatestFirst(t *testing.T) {
	productID := id.New()
	store := &fakeStore{}
	engine, _ := newTestEngine(store, productID)
	ctx := context.Background()

	base := time.Date(2025, time.March, 10, 0, 0, 0, 0, time.UTC)
	for i := 0; i < 3; i++ {
		_, err := engine.RecordMovement(ctx, MovementRequest{
			ProductID: productID, Quantity: qty("1.0000"),
			Direction: DirectionIn, Source: SourceManual,
			OccurredAt: base.Add(time.Duration(i) * time.Hour),
		})
		require.NoError(t, err)
	}

	movements, err := engine.GlobalLedger(ctx, TimeRange{})
	require.NoError(t, err)
	require.Len(t, movements, 3)
	for i := 1; i < len(movements); i++ {
		assert.False(t, movements[i].OccurredAt.After(movements[i-1].OccurredAt))
	}
}
