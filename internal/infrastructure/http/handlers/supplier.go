package handlers

import (
	"github.com/gin-gonic/gin"

	"stockledger/internal/domain/catalog/supplier"
	"stockledger/internal/infrastructure/http/dto"
	"stockledger/internal/infrastructure/storage/postgres"
	"stockledger/pkg/logger"
)

// SupplierHandler serves the supplier catalog.
type SupplierHandler struct {
	*BaseHandler
	service *supplier.Service
	audit   *postgres.AuditService
}

// NewSupplierHandler creates a supplier handler.
func NewSupplierHandler(service *supplier.Service, audit *postgres.AuditService) *SupplierHandler {
	return &SupplierHandler{
		BaseHandler: NewBaseHandler(),
		service:     service,
		audit:       audit,
	}
}

// Create handles supplier creation.
// POST /api/v1/catalog/suppliers
func (h *SupplierHandler) Create(c *gin.Context) {
	var req dto.SupplierRequest
	if !h.BindJSON(c, &req) {
		return
	}

	s := supplier.New(req.Name)
	s.Contact = req.Contact
	s.Address = req.Address

	created, err := h.service.Create(c.Request.Context(), s)
	if err != nil {
		h.Error(c, err)
		return
	}

	if auditErr := h.audit.LogChange(c.Request.Context(), "supplier", created.ID, postgres.AuditActionCreate, map[string]any{
		"name": created.Name,
	}); auditErr != nil {
		logger.Warn(c.Request.Context(), "audit log failed", "error", auditErr)
	}

	h.CreatedWith(c, dto.ToSupplierResponse(*created))
}

// Update handles supplier updates.
// PUT /api/v1/catalog/suppliers/:id
func (h *SupplierHandler) Update(c *gin.Context) {
	supplierID, ok := h.ParseID(c, "id")
	if !ok {
		return
	}

	var req dto.SupplierRequest
	if !h.BindJSON(c, &req) {
		return
	}

	existing, err := h.service.Get(c.Request.Context(), supplierID)
	if err != nil {
		h.Error(c, err)
		return
	}

	existing.Name = req.Name
	existing.Contact = req.Contact
	existing.Address = req.Address

	updated, err := h.service.Update(c.Request.Context(), existing)
	if err != nil {
		h.Error(c, err)
		return
	}

	if auditErr := h.audit.LogChange(c.Request.Context(), "supplier", updated.ID, postgres.AuditActionUpdate, map[string]any{
		"name": updated.Name,
	}); auditErr != nil {
		logger.Warn(c.Request.Context(), "audit log failed", "error", auditErr)
	}

	h.OK(c, dto.ToSupplierResponse(*updated))
}

// Get returns a supplier by id.
// GET /api/v1/catalog/suppliers/:id
func (h *SupplierHandler) Get(c *gin.Context) {
	supplierID, ok := h.ParseID(c, "id")
	if !ok {
		return
	}

	s, err := h.service.Get(c.Request.Context(), supplierID)
	if err != nil {
		h.Error(c, err)
		return
	}
	h.OK(c, dto.ToSupplierResponse(*s))
}

// List returns suppliers matching the query.
// GET /api/v1/catalog/suppliers?name=&active=&limit=&offset=
func (h *SupplierHandler) List(c *gin.Context) {
	suppliers, err := h.service.List(c.Request.Context(), supplier.Filter{
		Name:       c.Query("name"),
		OnlyActive: c.Query("active") == "true",
		Limit:      h.ParseIntQuery(c, "limit", 100),
		Offset:     h.ParseIntQuery(c, "offset", 0),
	})
	if err != nil {
		h.Error(c, err)
		return
	}
	h.OK(c, dto.NewListResponse(dto.ToSupplierResponses(suppliers)))
}

// Deactivate soft-deletes a supplier.
// DELETE /api/v1/catalog/suppliers/:id
func (h *SupplierHandler) Deactivate(c *gin.Context) {
	supplierID, ok := h.ParseID(c, "id")
	if !ok {
		return
	}

	if err := h.service.Deactivate(c.Request.Context(), supplierID); err != nil {
		h.Error(c, err)
		return
	}

	if auditErr := h.audit.LogChange(c.Request.Context(), "supplier", supplierID, postgres.AuditActionDeactivate, nil); auditErr != nil {
		logger.Warn(c.Request.Context(), "audit log failed", "error", auditErr)
	}

	h.NoContent(c)
}
