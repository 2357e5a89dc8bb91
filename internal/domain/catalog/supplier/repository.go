package supplier

import (
	"context"

	"stockledger/internal/core/id"
)

// Filter restricts supplier listing.
type Filter struct {
	Name       string // substring match, case-insensitive
	OnlyActive bool
	Limit      int
	Offset     int
}

// Repository defines Supplier persistence. Suppliers referenced by
// purchases are never hard-deleted, only deactivated.
type Repository interface {
	Create(ctx context.Context, s *Supplier) error
	Update(ctx context.Context, s *Supplier) error
	GetByID(ctx context.Context, supplierID id.ID) (*Supplier, error)
	List(ctx context.Context, filter Filter) ([]Supplier, error)
	Exists(ctx context.Context, supplierID id.ID) (bool, error)
}
