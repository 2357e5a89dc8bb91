package postgres

import (
	"context"
	"fmt"
	"time"

	"github.com/Masterminds/squirrel"
	"github.com/georgysavva/scany/v2/pgxscan"

	"stockledger/internal/core/apperror"
	"stockledger/internal/core/id"
	"stockledger/internal/core/types"
	"stockledger/internal/domain/ledger"
)

const (
	movementsTable = "ledger_movements"
	balancesTable  = "stock_balances"
)

// Compile-time check that MovementRepo implements ledger.Store.
var _ ledger.Store = (*MovementRepo)(nil)

// MovementRepo implements the append-only movement store.
// The SQL surface deliberately has no UPDATE or DELETE on movements.
type MovementRepo struct {
	txm     *TxManager
	builder squirrel.StatementBuilderType
}

// NewMovementRepo creates a movement repository.
func NewMovementRepo(txm *TxManager) *MovementRepo {
	return &MovementRepo{
		txm:     txm,
		builder: squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar),
	}
}

// Append inserts the movement and folds it into the balance projection in
// the same transaction. Must be called inside a transaction so the
// projection can never drift from the movement log.
func (r *MovementRepo) Append(ctx context.Context, m ledger.Movement) (ledger.Movement, error) {
	if !r.txm.InTx(ctx) {
		return ledger.Movement{}, apperror.NewInternal(
			fmt.Errorf("append called outside a transaction"))
	}
	if !m.Quantity.IsPositive() {
		return ledger.Movement{}, apperror.NewValidation("quantity must be positive").
			WithDetail("quantity", m.Quantity.String())
	}

	querier := r.txm.GetQuerier(ctx)

	q := r.builder.Insert(movementsTable).Columns(
		"id", "product_id", "quantity", "direction", "source",
		"occurred_at", "note", "actor_id", "created_at",
	).Values(
		m.ID, m.ProductID, m.Quantity, m.Direction, m.Source,
		m.OccurredAt, m.Note, m.ActorID, m.CreatedAt,
	)
	sql, args, err := q.ToSql()
	if err != nil {
		return ledger.Movement{}, fmt.Errorf("build insert: %w", err)
	}
	if _, err := querier.Exec(ctx, sql, args...); err != nil {
		return ledger.Movement{}, fmt.Errorf("insert movement: %w", mapConflict(err))
	}

	// Projection update. The row is already locked by LockProduct in the
	// engine's validate+append path; ON CONFLICT covers direct store use.
	_, err = querier.Exec(ctx, `
		INSERT INTO `+balancesTable+` (product_id, quantity, updated_at)
		VALUES ($1, $2, now())
		ON CONFLICT (product_id)
		DO UPDATE SET quantity = `+balancesTable+`.quantity + EXCLUDED.quantity,
		              updated_at = now()`,
		m.ProductID, m.SignedQuantity(),
	)
	if err != nil {
		return ledger.Movement{}, fmt.Errorf("update balance projection: %w", mapConflict(err))
	}

	return m, nil
}

// LockProduct acquires the per-product balance row lock and returns the
// projected balance. The row is created on first touch so the lock exists
// even for products that have never moved.
func (r *MovementRepo) LockProduct(ctx context.Context, productID id.ID) (types.Quantity, error) {
	if !r.txm.InTx(ctx) {
		return 0, apperror.NewInternal(
			fmt.Errorf("lock requested outside a transaction"))
	}

	querier := r.txm.GetQuerier(ctx)

	_, err := querier.Exec(ctx, `
		INSERT INTO `+balancesTable+` (product_id, quantity, updated_at)
		VALUES ($1, 0, now())
		ON CONFLICT (product_id) DO NOTHING`,
		productID,
	)
	if err != nil {
		return 0, fmt.Errorf("ensure balance row: %w", mapConflict(err))
	}

	var quantity types.Quantity
	row := querier.QueryRow(ctx, `
		SELECT quantity FROM `+balancesTable+`
		WHERE product_id = $1
		FOR UPDATE`,
		productID,
	)
	if err := row.Scan(&quantity); err != nil {
		return 0, fmt.Errorf("lock balance row: %w", mapConflict(err))
	}

	return quantity, nil
}

// Balance computes the authoritative fold over the movement log.
func (r *MovementRepo) Balance(ctx context.Context, productID id.ID) (types.Quantity, error) {
	return r.foldBalance(ctx, productID, nil)
}

// BalanceAsOf computes the fold restricted to movements at or before asOf.
func (r *MovementRepo) BalanceAsOf(ctx context.Context, productID id.ID, asOf time.Time) (types.Quantity, error) {
	return r.foldBalance(ctx, productID, &asOf)
}

func (r *MovementRepo) foldBalance(ctx context.Context, productID id.ID, asOf *time.Time) (types.Quantity, error) {
	sql := `
		SELECT COALESCE(SUM(
			CASE WHEN direction = 'in' THEN quantity ELSE -quantity END
		), 0)::BIGINT
		FROM ` + movementsTable + `
		WHERE product_id = $1`
	args := []any{productID}
	if asOf != nil {
		sql += ` AND occurred_at <= $2`
		args = append(args, *asOf)
	}

	var quantity types.Quantity
	row := r.txm.GetQuerier(ctx).QueryRow(ctx, sql, args...)
	if err := row.Scan(&quantity); err != nil {
		return 0, fmt.Errorf("fold balance: %w", err)
	}
	return quantity, nil
}

// ListByProduct returns a product's movements ascending by (occurred_at, id).
func (r *MovementRepo) ListByProduct(ctx context.Context, productID id.ID, tr ledger.TimeRange) ([]ledger.Movement, error) {
	q := r.selectMovements().
		Where(squirrel.Eq{"product_id": productID})
	return r.listMovements(ctx, q, tr)
}

// ListAll returns the global ledger ascending by (occurred_at, id).
func (r *MovementRepo) ListAll(ctx context.Context, tr ledger.TimeRange) ([]ledger.Movement, error) {
	return r.listMovements(ctx, r.selectMovements(), tr)
}

func (r *MovementRepo) selectMovements() squirrel.SelectBuilder {
	return r.builder.Select(
		"id", "product_id", "quantity", "direction", "source",
		"occurred_at", "note", "actor_id", "created_at",
	).From(movementsTable)
}

func (r *MovementRepo) listMovements(ctx context.Context, q squirrel.SelectBuilder, tr ledger.TimeRange) ([]ledger.Movement, error) {
	if tr.From != nil {
		q = q.Where(squirrel.GtOrEq{"occurred_at": *tr.From})
	}
	if tr.To != nil {
		q = q.Where(squirrel.LtOrEq{"occurred_at": *tr.To})
	}
	q = q.OrderBy("occurred_at ASC", "id ASC")

	sql, args, err := q.ToSql()
	if err != nil {
		return nil, fmt.Errorf("build query: %w", err)
	}

	var movements []ledger.Movement
	querier := r.txm.GetQuerier(ctx)
	if err := pgxscan.Select(ctx, querier, &movements, sql, args...); err != nil {
		return nil, fmt.Errorf("select movements: %w", err)
	}
	return movements, nil
}
