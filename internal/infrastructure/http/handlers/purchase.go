package handlers

import (
	"time"

	"github.com/gin-gonic/gin"

	"stockledger/internal/core/apperror"
	"stockledger/internal/core/id"
	"stockledger/internal/core/types"
	"stockledger/internal/domain/purchase"
	"stockledger/internal/infrastructure/http/dto"
	"stockledger/internal/infrastructure/storage/postgres"
	"stockledger/pkg/logger"
)

// PurchaseHandler serves purchase intake and queries.
type PurchaseHandler struct {
	*BaseHandler
	service *purchase.Service
	audit   *postgres.AuditService
}

// NewPurchaseHandler creates a purchase handler.
func NewPurchaseHandler(service *purchase.Service, audit *postgres.AuditService) *PurchaseHandler {
	return &PurchaseHandler{
		BaseHandler: NewBaseHandler(),
		service:     service,
		audit:       audit,
	}
}

// Create handles purchase intake.
// POST /api/v1/purchases
func (h *PurchaseHandler) Create(c *gin.Context) {
	var req dto.CreatePurchaseRequest
	if !h.BindJSON(c, &req) {
		return
	}

	supplierID, err := id.Parse(req.SupplierID)
	if err != nil {
		h.Error(c, apperror.NewValidation("invalid supplier id").WithDetail("value", req.SupplierID))
		return
	}
	productID, err := id.Parse(req.ProductID)
	if err != nil {
		h.Error(c, apperror.NewValidation("invalid product id").WithDetail("value", req.ProductID))
		return
	}
	rate, err := types.NewMoneyFromString(req.Rate)
	if err != nil {
		h.Error(c, apperror.NewValidation("invalid rate").WithDetail("value", req.Rate))
		return
	}

	var occurredAt time.Time
	if req.OccurredAt != nil {
		occurredAt = *req.OccurredAt
	}

	p, movement, err := h.service.Create(c.Request.Context(), purchase.CreateRequest{
		SupplierID:    supplierID,
		ProductID:     productID,
		Quantity:      req.Quantity,
		ExtraQuantity: req.ExtraQuantity,
		Rate:          rate,
		OccurredAt:    occurredAt,
		Notes:         req.Notes,
	})
	if err != nil {
		h.Error(c, err)
		return
	}

	if auditErr := h.audit.LogChange(c.Request.Context(), "purchase", p.ID, postgres.AuditActionCreate, map[string]any{
		"supplier_id": p.SupplierID.String(),
		"product_id":  p.ProductID.String(),
		"quantity":    p.Quantity.String(),
		"total":       p.TotalAmount.String(),
		"movement_id": p.MovementID.String(),
	}); auditErr != nil {
		logger.Warn(c.Request.Context(), "audit log failed", "error", auditErr)
	}

	h.CreatedWith(c, dto.PurchaseCreatedResponse{
		Purchase: dto.ToPurchaseResponse(*p),
		Movement: dto.ToMovementResponse(*movement),
	})
}

// Get returns a purchase by id.
// GET /api/v1/purchases/:id
func (h *PurchaseHandler) Get(c *gin.Context) {
	purchaseID, ok := h.ParseID(c, "id")
	if !ok {
		return
	}

	p, err := h.service.Get(c.Request.Context(), purchaseID)
	if err != nil {
		h.Error(c, err)
		return
	}
	h.OK(c, dto.ToPurchaseResponse(*p))
}

// List returns purchases, latest first.
// GET /api/v1/purchases?supplierId=&productId=&from=&to=&limit=&offset=
func (h *PurchaseHandler) List(c *gin.Context) {
	supplierID, ok := h.ParseIDQuery(c, "supplierId")
	if !ok {
		return
	}
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

	purchases, err := h.service.List(c.Request.Context(), purchase.Filter{
		SupplierID: supplierID,
		ProductID:  productID,
		From:       from,
		To:         to,
		Limit:      h.ParseIntQuery(c, "limit", 100),
		Offset:     h.ParseIntQuery(c, "offset", 0),
	})
	if err != nil {
		h.Error(c, err)
		return
	}

	h.OK(c, dto.NewListResponse(dto.ToPurchaseResponses(purchases)))
}
