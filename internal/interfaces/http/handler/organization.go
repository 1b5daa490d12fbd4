package handler

import (
	orgapp "github.com/billtrack/backend/internal/application/organization"
	"github.com/billtrack/backend/internal/interfaces/http/middleware"
	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
)

// OrganizationHandler handles organization-related API endpoints
type OrganizationHandler struct {
	BaseHandler
	orgService *orgapp.Service
}

// NewOrganizationHandler creates a new OrganizationHandler
func NewOrganizationHandler(orgService *orgapp.Service) *OrganizationHandler {
	return &OrganizationHandler{
		orgService: orgService,
	}
}

// Create handles POST /organizations
func (h *OrganizationHandler) Create(c *gin.Context) {
	var req orgapp.CreateOrganizationRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		if _, ok := err.(validator.ValidationErrors); ok {
			middleware.HandleValidationError(c, err)
			return
		}
		h.BadRequest(c, "Invalid request body")
		return
	}

	org, err := h.orgService.Create(c.Request.Context(), req)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Created(c, org)
}

// GetByID handles GET /organizations/:id
func (h *OrganizationHandler) GetByID(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		h.BadRequest(c, "Invalid organization ID format")
		return
	}

	org, err := h.orgService.GetByID(c.Request.Context(), id)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, org)
}

// List handles GET /organizations
func (h *OrganizationHandler) List(c *gin.Context) {
	var filter orgapp.OrganizationListFilter
	if err := c.ShouldBindQuery(&filter); err != nil {
		if _, ok := err.(validator.ValidationErrors); ok {
			middleware.HandleValidationError(c, err)
			return
		}
		h.BadRequest(c, "Invalid query parameters")
		return
	}

	page, err := h.orgService.List(c.Request.Context(), filter)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.SuccessWithMeta(c, page.Items, page.Total, page.Page, page.PageSize)
}

// Update handles PUT /organizations/:id
func (h *OrganizationHandler) Update(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		h.BadRequest(c, "Invalid organization ID format")
		return
	}

	var req orgapp.UpdateOrganizationRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		if _, ok := err.(validator.ValidationErrors); ok {
			middleware.HandleValidationError(c, err)
			return
		}
		h.BadRequest(c, "Invalid request body")
		return
	}

	org, err := h.orgService.Update(c.Request.Context(), id, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, org)
}

// Delete handles DELETE /organizations/:id
func (h *OrganizationHandler) Delete(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		h.BadRequest(c, "Invalid organization ID format")
		return
	}

	if err := h.orgService.Delete(c.Request.Context(), id); err != nil {
		h.HandleError(c, err)
		return
	}

	h.NoContent(c)
}
