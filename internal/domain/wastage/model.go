// Package wastage provides the wastage intake adapter: a spoilage event
// recorded as a domain record plus exactly one OUT movement, created in a
// single transaction and checked against the live balance.
package wastage

import (
	"context"
	"strings"
	"time"

	"stockledger/internal/core/apperror"
	"stockledger/internal/core/id"
	"stockledger/internal/core/types"
)

// Wastage is the domain record originating one OUT movement.
type Wastage struct {
	ID         id.ID          `db:"id" json:"id"`
	ProductID  id.ID          `db:"product_id" json:"productId"`
	Quantity   types.Quantity `db:"quantity" json:"quantity"`
	Reason     string         `db:"reason" json:"reason"`
	OccurredAt time.Time      `db:"occurred_at" json:"occurredAt"`
	ActorID    string         `db:"actor_id" json:"actorId,omitempty"`
	MovementID id.ID          `db:"movement_id" json:"movementId"`
	CreatedAt  time.Time      `db:"created_at" json:"createdAt"`
}

// Validate checks invariants before persistence. The stock check itself is
// the engine's job and happens under the per-product lock.
func (w *Wastage) Validate(ctx context.Context) error {
	if id.IsNil(w.ProductID) {
		return apperror.NewValidation("product_id is required").
			WithDetail("field", "product_id")
	}
	if !w.Quantity.IsPositive() {
		return apperror.NewValidation("quantity must be positive").
			WithDetail("field", "quantity").
			WithDetail("value", w.Quantity.String())
	}
	if strings.TrimSpace(w.Reason) == "" {
		return apperror.NewValidation("reason is required").
			WithDetail("field", "reason")
	}
	return nil
}

// MovementNote renders the note stored on the OUT movement.
func (w *Wastage) MovementNote() string {
	return "Wastage: " + w.Reason
}
