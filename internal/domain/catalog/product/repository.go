package product

import (
	"context"

	"stockledger/internal/core/id"
)

// Filter restricts product listing.
type Filter struct {
	Name       string // substring match, case-insensitive
	OnlyActive bool
	Limit      int
	Offset     int
}

// Repository defines Product persistence.
// Products are never hard-deleted: movements reference them forever, so
// removal is modeled as deactivation.
type Repository interface {
	Create(ctx context.Context, p *Product) error
	Update(ctx context.Context, p *Product) error
	GetByID(ctx context.Context, productID id.ID) (*Product, error)
	List(ctx context.Context, filter Filter) ([]Product, error)

	// Exists reports whether a product is known to the catalog
	// (active or not). Satisfies the ledger's product directory.
	Exists(ctx context.Context, productID id.ID) (bool, error)
}
