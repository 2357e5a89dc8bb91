package postgres

import (
	"context"
	"fmt"

	"github.com/Masterminds/squirrel"
	"github.com/georgysavva/scany/v2/pgxscan"

	"stockledger/internal/core/apperror"
	"stockledger/internal/core/id"
	"stockledger/internal/domain/catalog/supplier"
)

const suppliersTable = "suppliers"

// Compile-time check.
var _ supplier.Repository = (*SupplierRepo)(nil)

// SupplierRepo implements supplier.Repository.
type SupplierRepo struct {
	txm     *TxManager
	builder squirrel.StatementBuilderType
}

// NewSupplierRepo creates a supplier repository.
func NewSupplierRepo(txm *TxManager) *SupplierRepo {
	return &SupplierRepo{
		txm:     txm,
		builder: squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar),
	}
}

func (r *SupplierRepo) columns() []string {
	return []string{"id", "name", "contact", "address", "is_active", "created_at", "updated_at"}
}

// Create inserts a new supplier.
func (r *SupplierRepo) Create(ctx context.Context, s *supplier.Supplier) error {
	q := r.builder.Insert(suppliersTable).
		Columns(r.columns()...).
		Values(s.ID, s.Name, s.Contact, s.Address, s.IsActive, s.CreatedAt, s.UpdatedAt)

	sql, args, err := q.ToSql()
	if err != nil {
		return fmt.Errorf("build insert: %w", err)
	}
	if _, err := r.txm.GetQuerier(ctx).Exec(ctx, sql, args...); err != nil {
		if isUniqueViolation(err) {
			return apperror.NewDuplicate("supplier", "name", s.Name)
		}
		return fmt.Errorf("insert supplier: %w", err)
	}
	return nil
}

// Update persists changes to an existing supplier.
func (r *SupplierRepo) Update(ctx context.Context, s *supplier.Supplier) error {
	q := r.builder.Update(suppliersTable).
		Set("name", s.Name).
		Set("contact", s.Contact).
		Set("address", s.Address).
		Set("is_active", s.IsActive).
		Set("updated_at", s.UpdatedAt).
		Where(squirrel.Eq{"id": s.ID})

	sql, args, err := q.ToSql()
	if err != nil {
		return fmt.Errorf("build update: %w", err)
	}
	tag, err := r.txm.GetQuerier(ctx).Exec(ctx, sql, args...)
	if err != nil {
		if isUniqueViolation(err) {
			return apperror.NewDuplicate("supplier", "name", s.Name)
		}
		return fmt.Errorf("update supplier: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return apperror.NewNotFound("supplier", s.ID)
	}
	return nil
}

// GetByID returns a supplier by id.
func (r *SupplierRepo) GetByID(ctx context.Context, supplierID id.ID) (*supplier.Supplier, error) {
	q := r.builder.Select(r.columns()...).
		From(suppliersTable).
		Where(squirrel.Eq{"id": supplierID}).
		Limit(1)

	sql, args, err := q.ToSql()
	if err != nil {
		return nil, fmt.Errorf("build query: %w", err)
	}

	var s supplier.Supplier
	if err := pgxscan.Get(ctx, r.txm.GetQuerier(ctx), &s, sql, args...); err != nil {
		if pgxscan.NotFound(err) {
			return nil, apperror.NewNotFound("supplier", supplierID)
		}
		return nil, fmt.Errorf("get supplier: %w", err)
	}
	return &s, nil
}

// List returns suppliers matching the filter, name ascending.
func (r *SupplierRepo) List(ctx context.Context, filter supplier.Filter) ([]supplier.Supplier, error) {
	q := r.builder.Select(r.columns()...).
		From(suppliersTable).
		OrderBy("name ASC")

	if filter.Name != "" {
		q = q.Where(squirrel.ILike{"name": "%" + filter.Name + "%"})
	}
	if filter.OnlyActive {
		q = q.Where(squirrel.Eq{"is_active": true})
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

	var suppliers []supplier.Supplier
	if err := pgxscan.Select(ctx, r.txm.GetQuerier(ctx), &suppliers, sql, args...); err != nil {
		return nil, fmt.Errorf("select suppliers: %w", err)
	}
	return suppliers, nil
}

// Exists reports whether the supplier is known to the catalog.
func (r *SupplierRepo) Exists(ctx context.Context, supplierID id.ID) (bool, error) {
	var exists bool
	row := r.txm.GetQuerier(ctx).QueryRow(ctx,
		`SELECT EXISTS (SELECT 1 FROM `+suppliersTable+` WHERE id = $1)`,
		supplierID,
	)
	if err := row.Scan(&exists); err != nil {
		return false, fmt.Errorf("check supplier exists: %w", err)
	}
	return exists, nil
}
