package handlers

import (
	"time"

	"github.com/gin-gonic/gin"

	"stockledger/internal/core/apperror"
	"stockledger/internal/core/id"
	"stockledger/internal/domain/wastage"
	"stockledger/internal/infrastructure/http/dto"
	"stockledger/internal/infrastructure/storage/postgres"
	"stockledger/pkg/logger"
)

// WastageHandler serves wastage intake and queries.
type WastageHandler struct {
	*BaseHandler
	service *wastage.Service
	audit   *postgres.AuditService
}

// NewWastageHandler creates a wastage handler.
func NewWastageHandler(service *wastage.Service, audit *postgres.AuditService) *WastageHandler {
	return &WastageHandler{
		BaseHandler: NewBaseHandler(),
		service:     service,
		audit:       audit,
	}
}

// Create handles wastage intake.
// POST /api/v1/wastages
func (h *WastageHandler) Create(c *gin.Context) {
	var req dto.CreateWastageRequest
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

	w, movement, err := h.service.Create(c.Request.Context(), wastage.CreateRequest{
		ProductID:  productID,
		Quantity:   req.Quantity,
		Reason:     req.Reason,
		OccurredAt: occurredAt,
	})
	if err != nil {
		h.Error(c, err)
		return
	}

	if auditErr := h.audit.LogChange(c.Request.Context(), "wastage", w.ID, postgres.AuditActionCreate, map[string]any{
		"product_id":  w.ProductID.String(),
		"quantity":    w.Quantity.String(),
		"reason":      w.Reason,
		"movement_id": w.MovementID.String(),
	}); auditErr != nil {
		logger.Warn(c.Request.Context(), "audit log failed", "error", auditErr)
	}

	h.CreatedWith(c, dto.WastageCreatedResponse{
		Wastage:  dto.ToWastageResponse(*w),
		Movement: dto.ToMovementResponse(*movement),
	})
}

// Get returns a wastage by id.
// GET /api/v1/wastages/:id
func (h *WastageHandler) Get(c *gin.Context) {
	wastageID, ok := h.ParseID(c, "id")
	if !ok {
		return
	}

	w, err := h.service.Get(c.Request.Context(), wastageID)
	if err != nil {
		h.Error(c, err)
		return
	}
	h.OK(c, dto.ToWastageResponse(*w))
}

// List returns wastages, latest first.
// GET /api/v1/wastages?productId=&from=&to=&limit=&offset=
func (h *WastageHandler) List(c *gin.Context) {
	productID, ok := h.ParseIDQuery(c, "productId")
	if !ok {
		return
	}
	from, ok := h.ParseTimeQuery(c, "from")
	if !ok {
		return
	}
	to, ok := h.ParseTimeQuery(c, "to")
	if !ok {
		return
	}

	wastages, err := h.service.List(c.Request.Context(), wastage.Filter{
		ProductID: productID,
		From:      from,
		To:        to,
		Limit:     h.ParseIntQuery(c, "limit", 100),
		Offset:    h.ParseIntQuery(c, "offset", 0),
	})
	if err != nil {
		h.Error(c, err)
		return
	}

	h.OK(c, dto.NewListResponse(dto.ToWastageResponses(wastages)))
}
