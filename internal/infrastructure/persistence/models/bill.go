package models

import (
	"time"

	"github.com/billtrack/backend/internal/domain/billing"
	"github.com/billtrack/backend/internal/domain/shared"
	"github.com/billtrack/backend/internal/domain/shared/valueobject"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// BillModel is the persistence model for bills
type BillModel struct {
	BaseModel
	OrganizationID uuid.UUID        `gorm:"type:uuid;not null;index:idx_bills_org_status,priority:1"`
	Description    string           `gorm:"type:varchar(500);not null"`
	Category       string           `gorm:"type:varchar(50);not null"`
	Status         string           `gorm:"type:varchar(50);not null;index:idx_bills_org_status,priority:2"`
	AmountDue      decimal.Decimal  `gorm:"type:decimal(18,2);not null"`
	AmountPaid     *decimal.Decimal `gorm:"type:decimal(18,2)"`
	DueDate        valueobject.Date `gorm:"type:date;not null;index"`
	PaidAt         *time.Time
}

// TableName specifies the table name
func (BillModel) TableName() string {
	return "bills"
}

// ToDomain converts the persistence model to a domain entity
func (m *BillModel) ToDomain() *billing.Bill {
	return &billing.Bill{
		BaseEntity: shared.BaseEntity{
			ID:        m.ID,
			CreatedAt: m.CreatedAt,
			UpdatedAt: m.UpdatedAt,
		},
		OrganizationID: m.OrganizationID,
		Description:    m.Description,
		Category:       billing.BillCategory(m.Category),
		Status:         billing.BillStatus(m.Status),
		AmountDue:      m.AmountDue,
		AmountPaid:     m.AmountPaid,
		DueDate:        m.DueDate,
		PaidAt:         m.PaidAt,
	}
}

// FromDomain converts a domain entity to the persistence model
func (m *BillModel) FromDomain(bill *billing.Bill) {
	m.ID = bill.ID
	m.CreatedAt = bill.CreatedAt
	m.UpdatedAt = bill.UpdatedAt
	m.OrganizationID = bill.OrganizationID
	m.Description = bill.Description
	m.Category = bill.Category.String()
	m.Status = bill.Status.String()
	m.AmountDue = bill.AmountDue
	m.AmountPaid = bill.AmountPaid
	m.DueDate = bill.DueDate
	m.PaidAt = bill.PaidAt
}
