package postgres

import (
	"context"
	"fmt"

	"github.com/Masterminds/squirrel"
	"github.com/georgysavva/scany/v2/pgxscan"

	"stockledger/internal/core/apperror"
	"stockledger/internal/core/id"
	"stockledger/internal/domain/wastage"
)

const wastagesTable = "wastages"

// Compile-time check.
var _ wastage.Repository = (*WastageRepo)(nil)

// WastageRepo implements wastage.Repository.
type WastageRepo struct {
	txm     *TxManager
	builder squirrel.StatementBuilderType
}

// NewWastageRepo creates a wastage repository.
func NewWastageRepo(txm *TxManager) *WastageRepo {
	return &WastageRepo{
		txm:     txm,
		builder: squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar),
	}
}

func (r *WastageRepo) columns() []string {
	return []string{
		"id", "product_id", "quantity", "reason", "occurred_at",
		"actor_id", "movement_id", "created_at",
	}
}

// Create inserts a wastage record. Called inside the intake transaction,
// after the movement append passed the stock check.
func (r *WastageRepo) Create(ctx context.Context, w *wastage.Wastage) error {
	q := r.builder.Insert(wastagesTable).
		Columns(r.columns()...).
		Values(
			w.ID, w.ProductID, w.Quantity, w.Reason, w.OccurredAt,
			w.ActorID, w.MovementID, w.CreatedAt,
		)

	sql, args, err := q.ToSql()
	if err != nil {
		return fmt.Errorf("build insert: %w", err)
	}
	if _, err := r.txm.GetQuerier(ctx).Exec(ctx, sql, args...); err != nil {
		if isForeignKeyViolation(err) {
			return apperror.NewValidation("wastage references unknown record").WithCause(err)
		}
		return fmt.Errorf("insert wastage: %w", mapConflict(err))
	}
	return nil
}

// GetByID returns a wastage by id.
func (r *WastageRepo) GetByID(ctx context.Context, wastageID id.ID) (*wastage.Wastage, error) {
	q := r.builder.Select(r.columns()...).
		From(wastagesTable).
		Where(squirrel.Eq{"id": wastageID}).
		Limit(1)

	sql, args, err := q.ToSql()
	if err != nil {
		return nil, fmt.Errorf("build query: %w", err)
	}

	var w wastage.Wastage
	if err := pgxscan.Get(ctx, r.txm.GetQuerier(ctx), &w, sql, args...); err != nil {
		if pgxscan.NotFound(err) {
			return nil, apperror.NewNotFound("wastage", wastageID)
		}
		return nil, fmt.Errorf("get wastage: %w", err)
	}
	return &w, nil
}

// List returns wastages matching the filter, latest first.
func (r *WastageRepo) List(ctx context.Context, filter wastage.Filter) ([]wastage.Wastage, error) {
	q := r.builder.Select(r.columns()...).
		From(wastagesTable).
		OrderBy("occurred_at DESC", "id DESC")

	if filter.ProductID != nil {
		q = q.Where(squirrel.Eq{"product_id": *filter.ProductID})
	}
	if filter.From != nil {
		q = q.Where(squirrel.GtOrEq{"occurred_at": *filter.From})
	}
	if filter.To != nil {
		q = q.Where(squirrel.LtOrEq{"occurred_at": *filter.To})
	}
	if filter.Limit > 0 {
		q = q.Limit(uint64(filter.Limit))
	}
	if filter.Offset > 0 {
		q = q.Offset(uint64(filter.Offset))
	}

	sql, args, err := q.ToSql()
	if err != nil {
		return nil, fmt.Errorf("build query: %w", err)
	}

	var wastages []wastage.Wastage
	if err := pgxscan.Select(ctx, r.txm.GetQuerier(ctx), &wastages, sql, args...); err != nil {
		return nil, fmt.Errorf("select wastages: %w", err)
	}
	return wastages, nil
}
