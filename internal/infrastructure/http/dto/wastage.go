package dto

import (
	"time"

	"stockledger/internal/core/types"
	"stockledger/internal/domain/wastage"
)

// CreateWastageRequest is the body for wastage intake.
type CreateWastageRequest struct {
	ProductID  string         `json:"productId" binding:"required,uuid"`
	Quantity   types.Quantity `json:"quantity" binding:"required"`
	Reason     string         `json:"reason" binding:"required"`
	OccurredAt *time.Time     `json:"occurredAt,omitempty"`
}

// WastageResponse is the wire shape of a wastage.
type WastageResponse struct {
	ID         string         `json:"id"`
	ProductID  string         `json:"productId"`
	Quantity   types.Quantity `json:"quantity"`
	Reason     string         `json:"reason"`
	OccurredAt time.Time      `json:"occurredAt"`
	ActorID    string         `json:"actorId,omitempty"`
	MovementID string         `json:"movementId"`
	CreatedAt  time.Time      `json:"createdAt"`
}

// ToWastageResponse converts a domain wastage.
func ToWastageResponse(w wastage.Wastage) WastageResponse {
	return WastageResponse{
		ID:         w.ID.String(),
		ProductID:  w.ProductID.String(),
		Quantity:   w.Quantity,
		Reason:     w.Reason,
		OccurredAt: w.OccurredAt,
		ActorID:    w.ActorID,
		MovementID: w.MovementID.String(),
		CreatedAt:  w.CreatedAt,
	}
}

// ToWastageResponses converts a slice of domain wastages.
func ToWastageResponses(wastages []wastage.Wastage) []WastageResponse {
	result := make([]WastageResponse, 0, len(wastages))
	for _, w := range wastages {
		result = append(result, ToWastageResponse(w))
	}
	return result
}

// WastageCreatedResponse pairs the wastage with its movement.
type WastageCreatedResponse struct {
	Wastage  WastageResponse  `json:"wastage"`
	Movement MovementResponse `json:"movement"`
}
