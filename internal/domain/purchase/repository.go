package purchase

import (
	"context"
	"time"

	"stockledger/internal/core/id"
)

// Filter restricts purchase listing.
type Filter struct {
	SupplierID *id.ID
	ProductID  *id.ID
	From       *time.Time
	To         *time.Time
	Limit      int
	Offset     int
}

// Repository defines Purchase persistence. Purchases are append-only like
// the movements they originate.
type Repository interface {
	Create(ctx context.Context, p *Purchase) error
	GetByID(ctx context.Context, purchaseID id.ID) (*Purchase, error)
	List(ctx context.Context, filter Filter) ([]Purchase, error)
}
