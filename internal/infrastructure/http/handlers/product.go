package handlers

import (
	"github.com/gin-gonic/gin"

	"stockledger/internal/domain/catalog/product"
	"stockledger/internal/infrastructure/http/dto"
	"stockledger/internal/infrastructure/storage/postgres"
	"stockledger/pkg/logger"
)

// ProductHandler serves the product catalog.
type ProductHandler struct {
	*BaseHandler
	service *product.Service
	audit   *postgres.AuditService
}

// NewProductHandler creates a product handler.
func NewProductHandler(service *product.Service, audit *postgres.AuditService) *ProductHandler {
	return &ProductHandler{
		BaseHandler: NewBaseHandler(),
		service:     service,
		audit:       audit,
	}
}

// Create handles product creation.
// POST /api/v1/catalog/products
func (h *ProductHandler) Create(c *gin.Context) {
	var req dto.ProductRequest
	if !h.BindJSON(c, &req) {
		return
	}

	p := product.New(req.Name, product.Unit(req.Unit))
	p.Description = req.Description

	created, err := h.service.Create(c.Request.Context(), p)
	if err != nil {
		h.Error(c, err)
		return
	}

	if auditErr := h.audit.LogChange(c.Request.Context(), "product", created.ID, postgres.AuditActionCreate, map[string]any{
		"name": created.Name,
		"unit": string(created.Unit),
	}); auditErr != nil {
		logger.Warn(c.Request.Context(), "audit log failed", "error", auditErr)
	}

	h.CreatedWith(c, dto.ToProductResponse(*created))
}

// Update handles product updates.
// PUT /api/v1/catalog/products/:id
func (h *ProductHandler) Update(c *gin.Context) {
	productID, ok := h.ParseID(c, "id")
	if !ok {
		return
	}

	var req dto.ProductRequest
	if !h.BindJSON(c, &req) {
		return
	}

	existing, err := h.service.Get(c.Request.Context(), productID)
	if err != nil {
		h.Error(c, err)
		return
	}

	existing.Name = req.Name
	existing.Unit = product.Unit(req.Unit)
	existing.Description = req.Description

	updated, err := h.service.Update(c.Request.Context(), existing)
	if err != nil {
		h.Error(c, err)
		return
	}

	if auditErr := h.audit.LogChange(c.Request.Context(), "product", updated.ID, postgres.AuditActionUpdate, map[string]any{
		"name": updated.Name,
		"unit": string(updated.Unit),
	}); auditErr != nil {
		logger.Warn(c.Request.Context(), "audit log failed", "error", auditErr)
	}

	h.OK(c, dto.ToProductResponse(*updated))
}

// Get returns a product by id.
// GET /api/v1/catalog/products/:id
func (h *ProductHandler) Get(c *gin.Context) {
	productID, ok := h.ParseID(c, "id")
	if !ok {
		return
	}

	p, err := h.service.Get(c.Request.Context(), productID)
	if err != nil {
		h.Error(c, err)
		return
	}
	h.OK(c, dto.ToProductResponse(*p))
}

// List returns products matching the query.
// GET /api/v1/catalog/products?name=&active=&limit=&offset=
func (h *ProductHandler) List(c *gin.Context) {
	products, err := h.service.List(c.Request.Context(), product.Filter{
		Name:       c.Query("name"),
		OnlyActive: c.Query("active") == "true",
		Limit:      h.ParseIntQuery(c, "limit", 100),
		Offset:     h.ParseIntQuery(c, "offset", 0),
	})
	if err != nil {
		h.Error(c, err)
		return
	}
	h.OK(c, dto.NewListResponse(dto.ToProductResponses(products)))
}

// Deactivate soft-deletes a product.
// DELETE /api/v1/catalog/products/:id
func (h *ProductHandler) Deactivate(c *gin.Context) {
	productID, ok := h.ParseID(c, "id")
	if !ok {
		return
	}

	if err := h.service.Deactivate(c.Request.Context(), productID); err != nil {
		h.Error(c, err)
		return
	}

	if auditErr := h.audit.LogChange(c.Request.Context(), "product", productID, postgres.AuditActionDeactivate, nil); auditErr != nil {
		logger.Warn(c.Request.Context(), "audit log failed", "error", auditErr)
	}

	h.NoContent(c)
}
