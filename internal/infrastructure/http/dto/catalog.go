package dto

import (
	"time"

	"stockledger/internal/domain/catalog/product"
	"stockledger/internal/domain/catalog/supplier"
)

// --- Product ---

// ProductRequest is the body for creating/updating a product.
type ProductRequest struct {
	Name        string  `json:"name" binding:"required"`
	Unit        string  `json:"unit" binding:"required,oneof=liter kg"`
	Description *string `json:"description,omitempty"`
}

// ProductResponse is the wire shape of a product.
type ProductResponse struct {
	ID          string    `json:"id"`
	Name        string    `json:"name"`
	Unit        string    `json:"unit"`
	Description *string   `json:"description,omitempty"`
	IsActive    bool      `json:"isActive"`
	CreatedAt   time.Time `json:"createdAt"`
	UpdatedAt   time.Time `json:"updatedAt"`
}

// ToProductResponse converts a domain product.
func ToProductResponse(p product.Product) ProductResponse {
	return ProductResponse{
		ID:          p.ID.String(),
		Name:        p.Name,
		Unit:        string(p.Unit),
		Description: p.Description,
		IsActive:    p.IsActive,
		CreatedAt:   p.CreatedAt,
		UpdatedAt:   p.UpdatedAt,
	}
}

// ToProductResponses converts a slice of domain products.
func ToProductResponses(products []product.Product) []ProductResponse {
	result := make([]ProductResponse, 0, len(products))
	for _, p := range products {
		result = append(result, ToProductResponse(p))
	}
	return result
}

// --- Supplier ---

// SupplierRequest is the body for creating/updating a supplier.
type SupplierRequest struct {
	Name    string  `json:"name" binding:"required"`
	Contact *string `json:"contact,omitempty"`
	Address *string `json:"address,omitempty"`
}

// SupplierResponse is the wire shape of a supplier.
type SupplierResponse struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	Contact   *string   `json:"contact,omitempty"`
	Address   *string   `json:"address,omitempty"`
	IsActive  bool      `json:"isActive"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// ToSupplierResponse converts a domain supplier.
func ToSupplierResponse(s supplier.Supplier) SupplierResponse {
	return SupplierResponse{
		ID:        s.ID.String(),
		Name:      s.Name,
		Contact:   s.Contact,
		Address:   s.Address,
		IsActive:  s.IsActive,
		CreatedAt: s.CreatedAt,
		UpdatedAt: s.UpdatedAt,
	}
}

// ToSupplierResponses converts a slice of domain suppliers.
func ToSupplierResponses(suppliers []supplier.Supplier) []SupplierResponse {
	result := make([]SupplierResponse, 0, len(suppliers))
	for _, s := range suppliers {
		result = append(result, ToSupplierResponse(s))
	}
	return result
}
