package dto

import (
	"time"

	"stockledger/internal/core/types"
	"stockledger/internal/domain/purchase"
)

// CreatePurchaseRequest is the body for purchase intake.
type CreatePurchaseRequest struct {
	SupplierID    string         `json:"supplierId" binding:"required,uuid"`
	ProductID     string         `json:"productId" binding:"required,uuid"`
	Quantity      types.Quantity `json:"quantity" binding:"required"`
	ExtraQuantity types.Quantity `json:"extraQuantity,omitempty"`
	Rate          string         `json:"rate" binding:"required"`
	OccurredAt    *time.Time     `json:"occurredAt,omitempty"`
	Notes         *string        `json:"notes,omitempty"`
}

// PurchaseResponse is the wire shape of a purchase.
type PurchaseResponse struct {
	ID            string         `json:"id"`
	SupplierID    string         `json:"supplierId"`
	ProductID     string         `json:"productId"`
	Quantity      types.Quantity `json:"quantity"`
	ExtraQuantity types.Quantity `json:"extraQuantity"`
	Rate          string         `json:"rate"`
	TotalAmount   string         `json:"totalAmount"`
	OccurredAt    time.Time      `json:"occurredAt"`
	Notes         *string        `json:"notes,omitempty"`
	ActorID       string         `json:"actorId,omitempty"`
	MovementID    string         `json:"movementId"`
	CreatedAt     time.Time      `json:"createdAt"`
}

// ToPurchaseResponse converts a domain purchase.
func ToPurchaseResponse(p purchase.Purchase) PurchaseResponse {
	return PurchaseResponse{
		ID:            p.ID.String(),
		SupplierID:    p.SupplierID.String(),
		ProductID:     p.ProductID.String(),
		Quantity:      p.Quantity,
		ExtraQuantity: p.ExtraQuantity,
		Rate:          p.Rate.String(),
		TotalAmount:   p.TotalAmount.String(),
		OccurredAt:    p.OccurredAt,
		Notes:         p.Notes,
		ActorID:       p.ActorID,
		MovementID:    p.MovementID.String(),
		CreatedAt:     p.CreatedAt,
	}
}

// ToPurchaseResponses converts a slice of domain purchases.
func ToPurchaseResponses(purchases []purchase.Purchase) []PurchaseResponse {
	result := make([]PurchaseResponse, 0, len(purchases))
	for _, p := range purchases {
		result = append(result, ToPurchaseResponse(p))
	}
	return result
}

// PurchaseCreatedResponse pairs the purchase with its movement.
type PurchaseCreatedResponse struct {
	Purchase PurchaseResponse `json:"purchase"`
	Movement MovementResponse `json:"movement"`
}
