package billing

import (
	"context"
	"time"

	"github.com/billtrack/backend/internal/domain/billing"
	"github.com/billtrack/backend/internal/domain/organization"
	"github.com/billtrack/backend/internal/domain/shared"
	"github.com/google/uuid"
)

// Service handles bill-related business operations
type Service struct {
	billRepo billing.BillRepository
	orgRepo  organization.Repository

	// now is injectable for tests
	now func() time.Time
}

// NewService creates a new billing Service
func NewService(billRepo billing.BillRepository, orgRepo organization.Repository) *Service {
	return &Service{
		billRepo: billRepo,
		orgRepo:  orgRepo,
		now:      time.Now,
	}
}

// Create registers a new bill for an organization. A bill due today in
// the organization's local timezone starts Due rather than Created, so
// it never waits an hour for the reconciler to notice.
func (s *Service) Create(ctx context.Context, req CreateBillRequest) (*BillResponse, error) {
	org, err := s.orgRepo.FindByID(ctx, req.OrganizationID)
	if err != nil {
		return nil, err
	}

	bill, err := billing.NewBill(
		org.ID,
		req.Description,
		billing.BillCategory(req.Category),
		req.AmountDue,
		req.DueDate,
	)
	if err != nil {
		return nil, err
	}

	bill.ApplyStatus(billing.NextStatus(bill.Status, bill.DueDate, org.LocalDate(s.now())))

	if err := s.billRepo.Save(ctx, bill); err != nil {
		return nil, err
	}

	response := ToBillResponse(bill)
	return &response, nil
}

// GetByID retrieves a bill by ID
func (s *Service) GetByID(ctx context.Context, id uuid.UUID) (*BillResponse, error) {
	bill, err := s.billRepo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}

	response := ToBillResponse(bill)
	return &response, nil
}

// ListByOrganization retrieves an organization's bills with filtering and pagination
func (s *Service) ListByOrganization(ctx context.Context, organizationID uuid.UUID, filter BillListFilter) (shared.Paginated[BillResponse], error) {
	if _, err := s.orgRepo.FindByID(ctx, organizationID); err != nil {
		return shared.Paginated[BillResponse]{}, err
	}

	f := shared.DefaultFilter()
	if filter.Page > 0 {
		f.Page = filter.Page
	}
	if filter.PageSize > 0 {
		f.PageSize = filter.PageSize
	}
	if filter.OrderBy != "" {
		f.OrderBy = filter.OrderBy
	}
	if filter.OrderDir != "" {
		f.OrderDir = filter.OrderDir
	}
	f.Search = filter.Search
	if filter.Status != "" {
		if !billing.BillStatus(filter.Status).IsValid() {
			return shared.Paginated[BillResponse]{}, shared.NewDomainError("INVALID_STATUS", "Unknown bill status")
		}
		f.Filters["status"] = filter.Status
	}
	if filter.Category != "" {
		if !billing.BillCategory(filter.Category).IsValid() {
			return shared.Paginated[BillResponse]{}, shared.NewDomainError("INVALID_CATEGORY", "Unknown bill category")
		}
		f.Filters["category"] = filter.Category
	}

	bills, err := s.billRepo.FindByOrganization(ctx, organizationID, f)
	if err != nil {
		return shared.Paginated[BillResponse]{}, err
	}

	total, err := s.billRepo.CountByOrganization(ctx, organizationID, f)
	if err != nil {
		return shared.Paginated[BillResponse]{}, err
	}

	items := make([]BillResponse, len(bills))
	for i := range bills {
		items[i] = ToBillResponse(&bills[i])
	}

	return shared.NewPaginated(items, total, f.Page, f.PageSize), nil
}

// Update changes a bill's descriptive fields. Moving the due date
// re-evaluates the lifecycle immediately against the organization's
// local date.
func (s *Service) Update(ctx context.Context, id uuid.UUID, req UpdateBillRequest) (*BillResponse, error) {
	bill, err := s.billRepo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}

	description := bill.Description
	if req.Description != nil {
		description = *req.Description
	}
	category := bill.Category
	if req.Category != nil {
		category = billing.BillCategory(*req.Category)
	}
	amountDue := bill.AmountDue
	if req.AmountDue != nil {
		amountDue = *req.AmountDue
	}
	dueDate := bill.DueDate
	if req.DueDate != nil {
		dueDate = *req.DueDate
	}

	if err := bill.UpdateDetails(description, category, amountDue, dueDate); err != nil {
		return nil, err
	}

	if req.DueDate != nil {
		org, err := s.orgRepo.FindByID(ctx, bill.OrganizationID)
		if err != nil {
			return nil, err
		}
		// A moved-out due date resets the bill to Upcoming before the
		// state machine re-evaluates it.
		if bill.Status == billing.BillStatusDue || bill.Status == billing.BillStatusOverdue {
			bill.Status = billing.BillStatusUpcoming
		}
		bill.ApplyStatus(billing.NextStatus(bill.Status, bill.DueDate, org.LocalDate(s.now())))
	}

	if err := s.billRepo.Save(ctx, bill); err != nil {
		return nil, err
	}

	response := ToBillResponse(bill)
	return &response, nil
}

// Pay records payment of a bill
func (s *Service) Pay(ctx context.Context, id uuid.UUID, req PayBillRequest) (*BillResponse, error) {
	bill, err := s.billRepo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}

	paidAt := s.now()
	if req.PaidAt != nil {
		paidAt = *req.PaidAt
	}

	if err := bill.MarkPaid(req.Amount, paidAt); err != nil {
		return nil, err
	}

	if err := s.billRepo.Save(ctx, bill); err != nil {
		return nil, err
	}

	response := ToBillResponse(bill)
	return &response, nil
}

// Cancel voids a bill
func (s *Service) Cancel(ctx context.Context, id uuid.UUID) (*BillResponse, error) {
	bill, err := s.billRepo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if err := bill.Cancel(); err != nil {
		return nil, err
	}

	if err := s.billRepo.Save(ctx, bill); err != nil {
		return nil, err
	}

	response := ToBillResponse(bill)
	return &response, nil
}

// Delete soft-deletes a bill
func (s *Service) Delete(ctx context.Context, id uuid.UUID) error {
	return s.billRepo.Delete(ctx, id)
}
