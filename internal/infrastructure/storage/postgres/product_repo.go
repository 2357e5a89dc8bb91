package postgres

import (
	"context"
	"fmt"

	"github.com/Masterminds/squirrel"
	"github.com/georgysavva/scany/v2/pgxscan"

	"stockledger/internal/core/apperror"
	"stockledger/internal/core/id"
	"stockledger/internal/domain/catalog/product"
	"stockledger/internal/domain/ledger"
)

const productsTable = "products"

// Compile-time checks.
var _ product.Repository = (*ProductRepo)(nil)
var _ ledger.ProductDirectory = (*ProductRepo)(nil)

// ProductRepo implements product.Repository. It also serves as the ledger's
// product directory via Exists.
type ProductRepo struct {
	txm     *TxManager
	builder squirrel.StatementBuilderType
}

// NewProductRepo creates a product repository.
func NewProductRepo(txm *TxManager) *ProductRepo {
	return &ProductRepo{
		txm:     txm,
		builder: squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar),
	}
}

func (r *ProductRepo) columns() []string {
	return []string{"id", "name", "unit", "description", "is_active", "created_at", "updated_at"}
}

// Create inserts a new product.
func (r *ProductRepo) Create(ctx context.Context, p *product.Product) error {
	q := r.builder.Insert(productsTable).
		Columns(r.columns()...).
		Values(p.ID, p.Name, p.Unit, p.Description, p.IsActive, p.CreatedAt, p.UpdatedAt)

	sql, args, err := q.ToSql()
	if err != nil {
		return fmt.Errorf("build insert: %w", err)
	}
	if _, err := r.txm.GetQuerier(ctx).Exec(ctx, sql, args...); err != nil {
		if isUniqueViolation(err) {
			return apperror.NewDuplicate("product", "name", p.Name)
		}
		return fmt.Errorf("insert product: %w", err)
	}
	return nil
}

// Update persists changes to an existing product.
func (r *ProductRepo) Update(ctx context.Context, p *product.Product) error {
	q := r.builder.Update(productsTable).
		Set("name", p.Name).
		Set("unit", p.Unit).
		Set("description", p.Description).
		Set("is_active", p.IsActive).
		Set("updated_at", p.UpdatedAt).
		Where(squirrel.Eq{"id": p.ID})

	sql, args, err := q.ToSql()
	if err != nil {
		return fmt.Errorf("build update: %w", err)
	}
	tag, err := r.txm.GetQuerier(ctx).Exec(ctx, sql, args...)
	if err != nil {
		if isUniqueViolation(err) {
			return apperror.NewDuplicate("product", "name", p.Name)
		}
		return fmt.Errorf("update product: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return apperror.NewNotFound("product", p.ID)
	}
	return nil
}

// GetByID returns a product by id.
func (r *ProductRepo) GetByID(ctx context.Context, productID id.ID) (*product.Product, error) {
	q := r.builder.Select(r.columns()...).
		From(productsTable).
		Where(squirrel.Eq{"id": productID}).
		Limit(1)

	sql, args, err := q.ToSql()
	if err != nil {
		return nil, fmt.Errorf("build query: %w", err)
	}

	var p product.Product
	if err := pgxscan.Get(ctx, r.txm.GetQuerier(ctx), &p, sql, args...); err != nil {
		if pgxscan.NotFound(err) {
			return nil, apperror.NewNotFound("product", productID)
		}
		return nil, fmt.Errorf("get product: %w", err)
	}
	return &p, nil
}

// List returns products matching the filter, name ascending.
func (r *ProductRepo) List(ctx context.Context, filter product.Filter) ([]product.Product, error) {
	q := r.builder.Select(r.columns()...).
		From(productsTable).
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

	var products []product.Product
	if err := pgxscan.Select(ctx, r.txm.GetQuerier(ctx), &products, sql, args...); err != nil {
		return nil, fmt.Errorf("select products: %w", err)
	}
	return products, nil
}

// Exists reports whether the product is known to the catalog.
func (r *ProductRepo) Exists(ctx context.Context, productID id.ID) (bool, error) {
	var exists bool
	row := r.txm.GetQuerier(ctx).QueryRow(ctx,
		`SELECT EXISTS (SELECT 1 FROM `+productsTable+` WHERE id = $1)`,
		productID,
	)
	if err := row.Scan(&exists); err != nil {
		return false, fmt.Errorf("check product exists: %w", err)
	}
	return exists, nil
}
