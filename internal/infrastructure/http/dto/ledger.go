package dto

import (
	"time"

	"stockledger/internal/core/types"
	"stockledger/internal/domain/ledger"
)

// RecordMovementRequest is the body for manual movement intake.
type RecordMovementRequest struct {
	ProductID  string         `json:"productId" binding:"required,uuid"`
	Quantity   types.Quantity `json:"quantity" binding:"required"`
	Direction  string         `json:"direction" binding:"required,oneof=in out"`
	OccurredAt *time.Time     `json:"occurredAt,omitempty"`
	Note       string         `json:"note,omitempty"`
}

// MovementResponse is the wire shape of a movement.
type MovementResponse struct {
	ID         string         `json:"id"`
	ProductID  string         `json:"productId"`
	Quantity   types.Quantity `json:"quantity"`
	Direction  string         `json:"direction"`
	Source     string         `json:"source"`
	OccurredAt time.Time      `json:"occurredAt"`
	Note       string         `json:"note,omitempty"`
	ActorID    string         `json:"actorId,omitempty"`
	CreatedAt  time.Time      `json:"createdAt"`
}

// ToMovementResponse converts a domain movement.
func ToMovementResponse(m ledger.Movement) MovementResponse {
	return MovementResponse{
		ID:         m.ID.String(),
		ProductID:  m.ProductID.String(),
		Quantity:   m.Quantity,
		Direction:  string(m.Direction),
		Source:     string(m.Source),
		OccurredAt: m.OccurredAt,
		Note:       m.Note,
		ActorID:    m.ActorID,
		CreatedAt:  m.CreatedAt,
	}
}

// ToMovementResponses converts a slice of domain movements.
func ToMovementResponses(movements []ledger.Movement) []MovementResponse {
	result := make([]MovementResponse, 0, len(movements))
	for _, m := range movements {
		result = append(result, ToMovementResponse(m))
	}
	return result
}

// BalanceResponse is the wire shape of a product balance.
type BalanceResponse struct {
	ProductID string         `json:"productId"`
	Balance   types.Quantity `json:"balance"`
	AsOf      *time.Time     `json:"asOf,omitempty"`
}
