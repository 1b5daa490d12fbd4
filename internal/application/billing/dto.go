package billing

import (
	"time"

	"github.com/billtrack/backend/internal/domain/billing"
	"github.com/billtrack/backend/internal/domain/shared/valueobject"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// CreateBillRequest represents a request to register a new bill
type CreateBillRequest struct {
	OrganizationID uuid.UUID        `json:"organization_id" binding:"required"`
	Description    string           `json:"description" binding:"required,min=1,max=500"`
	Category       string           `json:"category" binding:"required"`
	AmountDue      decimal.Decimal  `json:"amount_due" binding:"required"`
	DueDate        valueobject.Date `json:"due_date" binding:"required"`
}

// UpdateBillRequest represents a request to update a bill's details
type UpdateBillRequest struct {
	Description *string           `json:"description" binding:"omitempty,min=1,max=500"`
	Category    *string           `json:"category"`
	AmountDue   *decimal.Decimal  `json:"amount_due"`
	DueDate     *valueobject.Date `json:"due_date"`
}

// PayBillRequest represents a request to record payment of a bill
type PayBillRequest struct {
	Amount decimal.Decimal `json:"amount" binding:"required"`
	PaidAt *time.Time      `json:"paid_at"`
}

// BillResponse represents a bill in API responses
type BillResponse struct {
	ID             uuid.UUID        `json:"id"`
	OrganizationID uuid.UUID        `json:"organization_id"`
	Description    string           `json:"description"`
	Category       string           `json:"category"`
	Status         string           `json:"status"`
	AmountDue      decimal.Decimal  `json:"amount_due"`
	AmountPaid     *decimal.Decimal `json:"amount_paid,omitempty"`
	DueDate        string           `json:"due_date"`
	PaidAt         *time.Time       `json:"paid_at,omitempty"`
	CreatedAt      time.Time        `json:"created_at"`
	UpdatedAt      time.Time        `json:"updated_at"`
}

// BillListFilter represents filter options for the bill list
type BillListFilter struct {
	Search   string `form:"search"`
	Status   string `form:"status"`
	Category string `form:"category"`
	Page     int    `form:"page" binding:"omitempty,min=1"`
	PageSize int    `form:"page_size" binding:"omitempty,min=1,max=100"`
	OrderBy  string `form:"order_by"`
	OrderDir string `form:"order_dir" binding:"omitempty,oneof=asc desc"`
}

// ToBillResponse converts a domain bill to a response DTO
func ToBillResponse(bill *billing.Bill) BillResponse {
	return BillResponse{
		ID:             bill.ID,
		OrganizationID: bill.OrganizationID,
		Description:    bill.Description,
		Category:       bill.Category.String(),
		Status:         bill.Status.String(),
		AmountDue:      bill.AmountDue,
		AmountPaid:     bill.AmountPaid,
		DueDate:        bill.DueDate.String(),
		PaidAt:         bill.PaidAt,
		CreatedAt:      bill.CreatedAt,
		UpdatedAt:      bill.UpdatedAt,
	}
}
