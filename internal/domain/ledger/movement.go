// Package ledger provides the append-only stock ledger: movements,
// balance derivation, and the engine that is the sole writer of the store.
package ledger

import (
	"time"

	"stockledger/internal/core/id"
	"stockledger/internal/core/types"
)

// Direction of a stock movement.
type Direction string

const (
	DirectionIn  Direction = "in"
	DirectionOut Direction = "out"
)

// Valid reports whether the direction is a known value.
func (d Direction) Valid() bool {
	return d == DirectionIn || d == DirectionOut
}

// Source records the provenance of a movement, for audit and filtering.
type Source string

const (
	SourcePurchase Source = "purchase"
	SourceManual   Source = "manual"
	SourceWastage  Source = "wastage"
)

// Valid reports whether the source is a known value.
func (s Source) Valid() bool {
	return s == SourcePurchase || s == SourceManual || s == SourceWastage
}

// Movement is the atomic, immutable unit of the ledger.
// Once appended it is never updated or deleted; corrections are modeled as
// new compensating movements.
type Movement struct {
	ID         id.ID          `json:"id" db:"id"`
	ProductID  id.ID          `json:"productId" db:"product_id"`
	Quantity   types.Quantity `json:"quantity" db:"quantity"`
	Direction  Direction      `json:"direction" db:"direction"`
	Source     Source         `json:"source" db:"source"`
	OccurredAt time.Time      `json:"occurredAt" db:"occurred_at"`
	Note       string         `json:"note,omitempty" db:"note"`
	ActorID    string         `json:"actorId,omitempty" db:"actor_id"`
	CreatedAt  time.Time      `json:"createdAt" db:"created_at"`
}

// SignedQuantity returns the quantity with direction applied:
// positive for IN, negative for OUT.
func (m Movement) SignedQuantity() types.Quantity {
	if m.Direction == DirectionOut {
		return m.Quantity.Neg()
	}
	return m.Quantity
}

// Balance is the cached per-product projection row. It is maintained inside
// the same transaction as every append and doubles as the per-product lock
// anchor. The authoritative balance is always the fold over movements.
type Balance struct {
	ProductID id.ID          `json:"productId" db:"product_id"`
	Quantity  types.Quantity `json:"quantity" db:"quantity"`
	UpdatedAt time.Time      `json:"updatedAt" db:"updated_at"`
}
