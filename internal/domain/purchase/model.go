// Package purchase provides the purchase intake adapter: a supplier
// delivery recorded as a domain record plus exactly one IN movement,
// created in a single transaction.
package purchase

import (
	"context"
	"time"

	"stockledger/internal/core/apperror"
	"stockledger/internal/core/id"
	"stockledger/internal/core/types"
)

// Purchase is the domain record originating one IN movement.
// ExtraQuantity (free ice packed with a delivery) is purchase metadata only
// and is never folded into the stock balance.
type Purchase struct {
	ID            id.ID          `db:"id" json:"id"`
	SupplierID    id.ID          `db:"supplier_id" json:"supplierId"`
	ProductID     id.ID          `db:"product_id" json:"productId"`
	Quantity      types.Quantity `db:"quantity" json:"quantity"`
	ExtraQuantity types.Quantity `db:"extra_quantity" json:"extraQuantity"`
	Rate          types.Money    `db:"rate" json:"rate"`
	TotalAmount   types.Money    `db:"total_amount" json:"totalAmount"`
	OccurredAt    time.Time      `db:"occurred_at" json:"occurredAt"`
	Notes         *string        `db:"notes" json:"notes,omitempty"`
	ActorID       string         `db:"actor_id" json:"actorId,omitempty"`
	MovementID    id.ID          `db:"movement_id" json:"movementId"`
	CreatedAt     time.Time      `db:"created_at" json:"createdAt"`
}

// Validate checks invariants before persistence.
func (p *Purchase) Validate(ctx context.Context) error {
	if id.IsNil(p.SupplierID) {
		return apperror.NewValidation("supplier_id is required").
			WithDetail("field", "supplier_id")
	}
	if id.IsNil(p.ProductID) {
		return apperror.NewValidation("product_id is required").
			WithDetail("field", "product_id")
	}
	if !p.Quantity.IsPositive() {
		return apperror.NewValidation("quantity must be positive").
			WithDetail("field", "quantity").
			WithDetail("value", p.Quantity.String())
	}
	if p.ExtraQuantity.IsNegative() {
		return apperror.NewValidation("extra_quantity must not be negative").
			WithDetail("field", "extra_quantity").
			WithDetail("value", p.ExtraQuantity.String())
	}
	if p.Rate.IsNegative() {
		return apperror.NewValidation("rate must not be negative").
			WithDetail("field", "rate").
			WithDetail("value", p.Rate.String())
	}
	return nil
}

// ComputeTotal returns quantity * rate. Extra quantity is free and does not
// contribute to the total.
func (p *Purchase) ComputeTotal() types.Money {
	return p.Quantity.Decimal().Mul(p.Rate)
}
