package handlers

import (
	"time"

	"github.com/gin-gonic/gin"

	"stockledger/internal/core/apperror"
	"stockledger/internal/core/id"
	"stockledger/internal/core/types"
	"stockledger/internal/domain/ledger"
	"stockledger/internal/infrastructure/http/dto"
)

// LedgerHandler serves manual movement intake and ledger queries.
type LedgerHandler struct {
	*BaseHandler
	engine *ledger.Engine
}

// NewLedgerHandler creates a ledger handler.
func NewLedgerHandler(engine *ledger.Engine) *LedgerHandler {
	return &LedgerHandler{
		BaseHandler: NewBaseHandler(),
		engine:      engine,
	}
}

// RecordMovement handles manual movement intake (stock corrections).
// POST /api/v1/ledger/movements
func (h *LedgerHandler) RecordMovement(c *gin.Context) {
	var req dto.RecordMovementRequest
	if !h.BindJSON(c, &req) {
		return
	}

	productID, err := id.Parse(req.ProductID)
	if err != nil {
		h.Error(c, apperror.NewValidation("invalid product id").WithDetail("value", req.ProductID))
		return
	}

	var occurredAt time.Time
	if req.OccurredAt != nil {
		occurredAt = *req.OccurredAt
	}

	movement, err := h.engine.RecordMovement(c.Request.Context(), ledger.MovementRequest{
		ProductID:  productID,
		Quantity:   req.Quantity,
		Direction:  ledger.Direction(req.Direction),
		Source:     ledger.SourceManual,
		OccurredAt: occurredAt,
		Note:       req.Note,
	})
	if err != nil {
		h.Error(c, err)
		return
	}

	h.CreatedWith(c, dto.ToMovementResponse(movement))
}

// GlobalLedger returns all movements, latest first.
// GET /api/v1/ledger/movements?from=&to=
func (h *LedgerHandler) GlobalLedger(c *gin.Context) {
	from, ok := h.ParseTimeQuery(c, "from")
	if !ok {
		return
	}
	to, ok := h.ParseTimeQuery(c, "to")
	if !ok {
		return
	}

	movements, err := h.engine.GlobalLedger(c.Request.Context(), ledger.TimeRange{From: from, To: to})
	if err != nil {
		h.Error(c, err)
		return
	}

	h.OK(c, dto.NewListResponse(dto.ToMovementResponses(movements)))
}

// ProductHistory returns a product's movements, latest first, optionally
// restricted to a calendar month/year.
// GET /api/v1/ledger/products/:productId/movements?month=&year=
func (h *LedgerHandler) ProductHistory(c *gin.Context) {
	productID, ok := h.ParseID(c, "productId")
	if !ok {
		return
	}

	var filter ledger.HistoryFilter
	if m := h.ParseIntQuery(c, "month", 0); m != 0 {
		if m < 1 || m > 12 {
			h.Error(c, apperror.NewValidation("month must be between 1 and 12").
				WithDetail("value", m))
			return
		}
		month := time.Month(m)
		filter.Month = &month
	}
	if y := h.ParseIntQuery(c, "year", 0); y != 0 {
		filter.Year = &y
	}

	movements, err := h.engine.ProductHistory(c.Request.Context(), productID, filter)
	if err != nil {
		h.Error(c, err)
		return
	}

	h.OK(c, dto.NewListResponse(dto.ToMovementResponses(movements)))
}

// ProductBalance returns the current or point-in-time balance.
// GET /api/v1/ledger/products/:productId/balance?asOf=
func (h *LedgerHandler) ProductBalance(c *gin.Context) {
	productID, ok := h.ParseID(c, "productId")
	if !ok {
		return
	}
	asOf, ok := h.ParseTimeQuery(c, "asOf")
	if !ok {
		return
	}

	var (
		balance types.Quantity
		err     error
	)
	if asOf != nil {
		balance, err = h.engine.BalanceAsOf(c.Request.Context(), productID, *asOf)
	} else {
		balance, err = h.engine.CurrentBalance(c.Request.Context(), productID)
	}
	if err != nil {
		h.Error(c, err)
		return
	}

	h.OK(c, dto.BalanceResponse{
		ProductID: productID.String(),
		Balance:   balance,
		AsOf:      asOf,
	})
}
