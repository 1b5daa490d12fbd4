package handler

import (
	billapp "github.com/billtrack/backend/internal/application/billing"
	"github.com/billtrack/backend/internal/interfaces/http/middleware"
	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
)

// BillHandler handles bill-related API endpoints
type BillHandler struct {
	BaseHandler
	billService *billapp.Service
}

// NewBillHandler creates a new BillHandler
func NewBillHandler(billService *billapp.Service) *BillHandler {
	return &BillHandler{
		billService: billService,
	}
}

// Create handles POST /bills
func (h *BillHandler) Create(c *gin.Context) {
	var req billapp.CreateBillRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		if _, ok := err.(validator.ValidationErrors); ok {
			middleware.HandleValidationError(c, err)
			return
		}
		h.BadRequest(c, "Invalid request body")
		return
	}

	bill, err := h.billService.Create(c.Request.Context(), req)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Created(c, bill)
}

// GetByID handles GET /bills/:id
func (h *BillHandler) GetByID(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		h.BadRequest(c, "Invalid bill ID format")
		return
	}

	bill, err := h.billService.GetByID(c.Request.Context(), id)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, bill)
}

// ListByOrganization handles GET /organizations/:id/bills
func (h *BillHandler) ListByOrganization(c *gin.Context) {
	organizationID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		h.BadRequest(c, "Invalid organization ID format")
		return
	}

	var filter billapp.BillListFilter
	if err := c.ShouldBindQuery(&filter); err != nil {
		if _, ok := err.(validator.ValidationErrors); ok {
			middleware.HandleValidationError(c, err)
			return
		}
		h.BadRequest(c, "Invalid query parameters")
		return
	}

	page, err := h.billService.ListByOrganization(c.Request.Context(), organizationID, filter)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.SuccessWithMeta(c, page.Items, page.Total, page.Page, page.PageSize)
}

// Update handles PUT /bills/:id
func (h *BillHandler) Update(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		h.BadRequest(c, "Invalid bill ID format")
		return
	}

	var req billapp.UpdateBillRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		if _, ok := err.(validator.ValidationErrors); ok {
			middleware.HandleValidationError(c, err)
			return
		}
		h.BadRequest(c, "Invalid request body")
		return
	}

	bill, err := h.billService.Update(c.Request.Context(), id, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, bill)
}

// Pay handles POST /bills/:id/pay
func (h *BillHandler) Pay(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		h.BadRequest(c, "Invalid bill ID format")
		return
	}

	var req billapp.PayBillRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		if _, ok := err.(validator.ValidationErrors); ok {
			middleware.HandleValidationError(c, err)
			return
		}
		h.BadRequest(c, "Invalid request body")
		return
	}

	bill, err := h.billService.Pay(c.Request.Context(), id, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, bill)
}

// Cancel handles POST /bills/:id/cancel
func (h *BillHandler) Cancel(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		h.BadRequest(c, "Invalid bill ID format")
		return
	}

	bill, err := h.billService.Cancel(c.Request.Context(), id)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, bill)
}

// Delete handles DELETE /bills/:id
func (h *BillHandler) Delete(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		h.BadRequest(c, "Invalid bill ID format")
		return
	}

	if err := h.billService.Delete(c.Request.Context(), id); err != nil {
		h.HandleError(c, err)
		return
	}

	h.NoContent(c)
}
