// Package supplier provides the Supplier catalog.
package supplier

import (
	"context"
	"strings"
	"time"

	"stockledger/internal/core/apperror"
	"stockledger/internal/core/id"
)

// Supplier represents a party goods are purchased from.
type Supplier struct {
	ID        id.ID     `db:"id" json:"id"`
	Name      string    `db:"name" json:"name"`
	Contact   *string   `db:"contact" json:"contact,omitempty"`
	Address   *string   `db:"address" json:"address,omitempty"`
	IsActive  bool      `db:"is_active" json:"isActive"`
	CreatedAt time.Time `db:"created_at" json:"createdAt"`
	UpdatedAt time.Time `db:"updated_at" json:"updatedAt"`
}

// New creates a Supplier with required fields.
func New(name string) *Supplier {
	return &Supplier{
		ID:       id.New(),
		Name:     name,
		IsActive: true,
	}
}

// Validate checks invariants before persistence.
func (s *Supplier) Validate(ctx context.Context) error {
	if strings.TrimSpace(s.Name) == "" {
		return apperror.NewValidation("name is required").
			WithDetail("field", "name")
	}
	return nil
}
