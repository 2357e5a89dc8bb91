package postgres

import (
	"context"
	"fmt"

	"github.com/Masterminds/squirrel"
	"github.com/georgysavva/scany/v2/pgxscan"

	"stockledger/internal/core/apperror"
	"stockledger/internal/core/id"
	"stockledger/internal/domain/purchase"
)

const purchasesTable = "purchases"

// Compile-time check.
var _ purchase.Repository = (*PurchaseRepo)(nil)

// PurchaseRepo implements purchase.Repository.
type PurchaseRepo struct {
	txm     *TxManager
	builder squirrel.StatementBuilderType
}

// NewPurchaseRepo creates a purchase repository.
func NewPurchaseRepo(txm *TxManager) *PurchaseRepo {
	return &PurchaseRepo{
		txm:     txm,
		builder: squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar),
	}
}

func (r *PurchaseRepo) columns() []string {
	return []string{
		"id", "supplier_id", "product_id", "quantity", "extra_quantity",
		"rate", "total_amount", "occurred_at", "notes", "actor_id",
		"movement_id", "created_at",
	}
}

// Create inserts a purchase record. Called inside the intake transaction,
// after the movement append.
func (r *PurchaseRepo) Create(ctx context.Context, p *purchase.Purchase) error {
	q := r.builder.Insert(purchasesTable).
		Columns(r.columns()...).
		Values(
			p.ID, p.SupplierID, p.ProductID, p.Quantity, p.ExtraQuantity,
			p.Rate, p.TotalAmount, p.OccurredAt, p.Notes, p.ActorID,
			p.MovementID, p.CreatedAt,
		)

	sql, args, err := q.ToSql()
	if err != nil {
		return fmt.Errorf("build insert: %w", err)
	}
	if _, err := r.txm.GetQuerier(ctx).Exec(ctx, sql, args...); err != nil {
		if isForeignKeyViolation(err) {
			return apperror.NewValidation("purchase references unknown record").WithCause(err)
		}
		return fmt.Errorf("insert purchase: %w", mapConflict(err))
	}
	return nil
}

// GetByID returns a purchase by id.
func (r *PurchaseRepo) GetByID(ctx context.Context, purchaseID id.ID) (*purchase.Purchase, error) {
	q := r.builder.Select(r.columns()...).
		From(purchasesTable).
		Where(squirrel.Eq{"id": purchaseID}).
		Limit(1)

	sql, args, err := q.ToSql()
	if err != nil {
		return nil, fmt.Errorf("build query: %w", err)
	}

	var p purchase.Purchase
	if err := pgxscan.Get(ctx, r.txm.GetQuerier(ctx), &p, sql, args...); err != nil {
		if pgxscan.NotFound(err) {
			return nil, apperror.NewNotFound("purchase", purchaseID)
		}
		return nil, fmt.Errorf("get purchase: %w", err)
	}
	return &p, nil
}

// List returns purchases matching the filter, latest first.
func (r *PurchaseRepo) List(ctx context.Context, filter purchase.Filter) ([]purchase.Purchase, error) {
	q := r.builder.Select(r.columns()...).
		From(purchasesTable).
		OrderBy("occurred_at DESC", "id DESC")

	if filter.SupplierID != nil {
		q = q.Where(squirrel.Eq{"supplier_id": *filter.SupplierID})
	}
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

	var purchases []purchase.Purchase
	if err := pgxscan.Select(ctx, r.txm.GetQuerier(ctx), &purchases, sql, args...); err != nil {
		return nil, fmt.Errorf("select purchases: %w", err)
	}
	return purchases, nil
}
