// Package product provides the Product catalog.
// The ledger consumes product identity and unit of measure only; stock
// levels live in the ledger, never on the product record.
package product

import (
	"context"
	"strings"
	"time"

	"stockledger/internal/core/apperror"
	"stockledger/internal/core/id"
)

// Unit is the product's unit of measure.
type Unit string

const (
	UnitLiter Unit = "liter"
	UnitKg    Unit = "kg"
)

// Valid reports whether the unit is a known value.
func (u Unit) Valid() bool {
	return u == UnitLiter || u == UnitKg
}

// Product represents a stockable item.
type Product struct {
	ID          id.ID     `db:"id" json:"id"`
	Name        string    `db:"name" json:"name"`
	Unit        Unit      `db:"unit" json:"unit"`
	Description *string   `db:"description" json:"description,omitempty"`
	IsActive    bool      `db:"is_active" json:"isActive"`
	CreatedAt   time.Time `db:"created_at" json:"createdAt"`
	UpdatedAt   time.Time `db:"updated_at" json:"updatedAt"`
}

// New creates a Product with required fields.
func New(name string, unit Unit) *Product {
	return &Product{
		ID:       id.New(),
		Name:     name,
		Unit:     unit,
		IsActive: true,
	}
}

// Validate checks invariants before persistence.
func (p *Product) Validate(ctx context.Context) error {
	if strings.TrimSpace(p.Name) == "" {
		return apperror.NewValidation("name is required").
			WithDetail("field", "name")
	}
	if !p.Unit.Valid() {
		return apperror.NewValidation("unit must be liter or kg").
			WithDetail("field", "unit").
			WithDetail("value", string(p.Unit))
	}
	return nil
}
