package billing

import (
	"strings"
	"time"

	"github.com/billtrack/backend/internal/domain/shared"
	"github.com/billtrack/backend/internal/domain/shared/valueobject"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// BillStatus represents the lifecycle status of a bill
type BillStatus string

const (
	// BillStatusCreated is the initial status of a freshly registered bill
	BillStatusCreated BillStatus = "CREATED"

	// BillStatusUpcoming marks a bill whose due date has not arrived yet
	BillStatusUpcoming BillStatus = "UPCOMING"

	// BillStatusDue marks a bill whose due date equals the owning
	// organization's local date
	BillStatusDue BillStatus = "DUE"

	// BillStatusOverdue marks a bill whose due date has passed unpaid
	BillStatusOverdue BillStatus = "OVERDUE"

	// BillStatusPaid is terminal for the reconciliation sweep
	BillStatusPaid BillStatus = "PAID"

	// BillStatusCancelled is terminal for the reconciliation sweep
	BillStatusCancelled BillStatus = "CANCELLED"
)

// String returns the string representation of BillStatus
func (s BillStatus) String() string {
	return string(s)
}

// IsValid returns true if the status is a known lifecycle status
func (s BillStatus) IsValid() bool {
	switch s {
	case BillStatusCreated, BillStatusUpcoming, BillStatusDue,
		BillStatusOverdue, BillStatusPaid, BillStatusCancelled:
		return true
	}
	return false
}

// IsTerminal returns true for statuses the automated sweep must never
// overwrite
func (s BillStatus) IsTerminal() bool {
	return s == BillStatusPaid || s == BillStatusCancelled
}

// BillCategory classifies what a bill is for
type BillCategory string

const (
	BillCategoryUtilities BillCategory = "UTILITIES"
	BillCategoryRent      BillCategory = "RENT"
	BillCategorySupplies  BillCategory = "SUPPLIES"
	BillCategoryTaxes     BillCategory = "TAXES"
	BillCategoryPayroll   BillCategory = "PAYROLL"
	BillCategoryServices  BillCategory = "SERVICES"
	BillCategoryOther     BillCategory = "OTHER"
)

// String returns the string representation of BillCategory
func (c BillCategory) String() string {
	return string(c)
}

// IsValid returns true if the category is a known category
func (c BillCategory) IsValid() bool {
	switch c {
	case BillCategoryUtilities, BillCategoryRent, BillCategorySupplies,
		BillCategoryTaxes, BillCategoryPayroll, BillCategoryServices,
		BillCategoryOther:
		return true
	}
	return false
}

// Bill represents an obligation owned by exactly one organization.
// Its due date is a plain calendar date: whether the bill is due is
// decided against the organization's local date, never server time.
type Bill struct {
	shared.BaseEntity
	OrganizationID uuid.UUID
	Description    string
	Category       BillCategory
	Status         BillStatus
	AmountDue      decimal.Decimal
	AmountPaid     *decimal.Decimal
	DueDate        valueobject.Date
	PaidAt         *time.Time
}

// NewBill creates a bill in its initial status
func NewBill(
	organizationID uuid.UUID,
	description string,
	category BillCategory,
	amountDue decimal.Decimal,
	dueDate valueobject.Date,
) (*Bill, error) {
	description = strings.TrimSpace(description)
	if organizationID == uuid.Nil {
		return nil, shared.NewDomainError("INVALID_ORGANIZATION", "Bill must belong to an organization")
	}
	if description == "" {
		return nil, shared.NewDomainError("INVALID_DESCRIPTION", "Bill description cannot be empty")
	}
	if !category.IsValid() {
		return nil, shared.NewDomainError("INVALID_CATEGORY", "Invalid bill category")
	}
	if amountDue.IsNegative() {
		return nil, shared.NewDomainError("INVALID_AMOUNT", "Amount due cannot be negative")
	}
	if dueDate.IsZero() {
		return nil, shared.NewDomainError("INVALID_DUE_DATE", "Bill due date is required")
	}

	return &Bill{
		BaseEntity:     shared.NewBaseEntity(),
		OrganizationID: organizationID,
		Description:    description,
		Category:       category,
		Status:         BillStatusCreated,
		AmountDue:      amountDue,
		DueDate:        dueDate,
	}, nil
}

// UpdateDetails changes the descriptive fields of a non-terminal bill
func (b *Bill) UpdateDetails(description string, category BillCategory, amountDue decimal.Decimal, dueDate valueobject.Date) error {
	if b.Status.IsTerminal() {
		return shared.ErrInvalidState
	}
	description = strings.TrimSpace(description)
	if description == "" {
		return shared.NewDomainError("INVALID_DESCRIPTION", "Bill description cannot be empty")
	}
	if !category.IsValid() {
		return shared.NewDomainError("INVALID_CATEGORY", "Invalid bill category")
	}
	if amountDue.IsNegative() {
		return shared.NewDomainError("INVALID_AMOUNT", "Amount due cannot be negative")
	}
	if dueDate.IsZero() {
		return shared.NewDomainError("INVALID_DUE_DATE", "Bill due date is required")
	}

	b.Description = description
	b.Category = category
	b.AmountDue = amountDue
	b.DueDate = dueDate
	b.Touch()
	return nil
}

// MarkPaid records payment of the bill. Paid is absorbing: the
// reconciliation sweep will never move the bill again.
func (b *Bill) MarkPaid(amount decimal.Decimal, paidAt time.Time) error {
	if b.Status.IsTerminal() {
		return shared.ErrInvalidState
	}
	if amount.IsNegative() {
		return shared.NewDomainError("INVALID_AMOUNT", "Paid amount cannot be negative")
	}

	b.Status = BillStatusPaid
	b.AmountPaid = &amount
	b.PaidAt = &paidAt
	b.Touch()
	return nil
}

// Cancel voids the bill. Cancelled is absorbing for the sweep.
func (b *Bill) Cancel() error {
	if b.Status.IsTerminal() {
		return shared.ErrInvalidState
	}
	b.Status = BillStatusCancelled
	b.Touch()
	return nil
}

// ApplyStatus moves the bill to the status computed by the lifecycle
// state machine, refreshing the updated-at stamp. It is a no-op when
// the status is unchanged, and reports whether a change happened.
func (b *Bill) ApplyStatus(next BillStatus) bool {
	if next == b.Status {
		return false
	}
	b.Status = next
	b.Touch()
	return true
}
