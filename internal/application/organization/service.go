package organization

import (
	"context"
	"time"

	"github.com/billtrack/backend/internal/domain/organization"
	"github.com/billtrack/backend/internal/domain/shared"
	"github.com/google/uuid"
)

// Service handles organization-related business operations
type Service struct {
	orgRepo organization.Repository

	// now is injectable for tests
	now func() time.Time
}

// NewService creates a new organization Service
func NewService(orgRepo organization.Repository) *Service {
	return &Service{
		orgRepo: orgRepo,
		now:     time.Now,
	}
}

// Create creates a new organization
func (s *Service) Create(ctx context.Context, req CreateOrganizationRequest) (*OrganizationResponse, error) {
	org, err := organization.NewOrganization(req.Name, req.Timezone)
	if err != nil {
		return nil, err
	}

	if err := s.orgRepo.Save(ctx, org); err != nil {
		return nil, err
	}

	response := ToOrganizationResponse(org, s.now())
	return &response, nil
}

// GetByID retrieves an organization by ID
func (s *Service) GetByID(ctx context.Context, id uuid.UUID) (*OrganizationResponse, error) {
	org, err := s.orgRepo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}

	response := ToOrganizationResponse(org, s.now())
	return &response, nil
}

// List retrieves organizations with filtering and pagination
func (s *Service) List(ctx context.Context, filter OrganizationListFilter) (shared.Paginated[OrganizationResponse], error) {
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

	orgs, err := s.orgRepo.FindAll(ctx, f)
	if err != nil {
		return shared.Paginated[OrganizationResponse]{}, err
	}

	total, err := s.orgRepo.Count(ctx, f)
	if err != nil {
		return shared.Paginated[OrganizationResponse]{}, err
	}

	now := s.now()
	items := make([]OrganizationResponse, len(orgs))
	for i := range orgs {
		items[i] = ToOrganizationResponse(&orgs[i], now)
	}

	return shared.NewPaginated(items, total, f.Page, f.PageSize), nil
}

// Update updates an organization's name and timezone
func (s *Service) Update(ctx context.Context, id uuid.UUID, req UpdateOrganizationRequest) (*OrganizationResponse, error) {
	org, err := s.orgRepo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if req.Name != nil {
		if err := org.Rename(*req.Name); err != nil {
			return nil, err
		}
	}
	if req.Timezone != nil {
		org.ChangeTimezone(*req.Timezone)
	}

	if err := s.orgRepo.Save(ctx, org); err != nil {
		return nil, err
	}

	response := ToOrganizationResponse(org, s.now())
	return &response, nil
}

// Delete soft-deletes an organization
func (s *Service) Delete(ctx context.Context, id uuid.UUID) error {
	return s.orgRepo.Delete(ctx, id)
}
