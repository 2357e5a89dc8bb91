package wastage

import (
	"context"
	"time"

	"stockledger/internal/core/id"
)

// Filter restricts wastage listing.
type Filter struct {
	ProductID *id.ID
	From      *time.Time
	To        *time.Time
	Limit     int
	Offset    int
}

// Repository defines Wastage persistence. Wastages are append-only like the
// movements they originate.
type Repository interface {
	Create(ctx context.Context, w *Wastage) error
	GetByID(ctx context.Context, wastageID id.ID) (*Wastage, error)
	List(ctx context.Context, filter Filter) ([]Wastage, error)
}
