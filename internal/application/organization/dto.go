package organization

import (
	"time"

	"github.com/billtrack/backend/internal/domain/organization"
	"github.com/google/uuid"
)

// CreateOrganizationRequest represents a request to create a new organization
type CreateOrganizationRequest struct {
	Name     string `json:"name" binding:"required,min=1,max=200"`
	Timezone string `json:"timezone" binding:"max=100"`
}

// UpdateOrganizationRequest represents a request to update an organization
type UpdateOrganizationRequest struct {
	Name     *string `json:"name" binding:"omitempty,min=1,max=200"`
	Timezone *string `json:"timezone" binding:"omitempty,max=100"`
}

// OrganizationResponse represents an organization in API responses
type OrganizationResponse struct {
	ID               uuid.UUID `json:"id"`
	Name             string    `json:"name"`
	Timezone         string    `json:"timezone"`
	ResolvedTimezone string    `json:"resolved_timezone"`
	LocalDate        string    `json:"local_date"`
	CreatedAt        time.Time `json:"created_at"`
	UpdatedAt        time.Time `json:"updated_at"`
}

// OrganizationListFilter represents filter options for the organization list
type OrganizationListFilter struct {
	Search   string `form:"search"`
	Page     int    `form:"page" binding:"omitempty,min=1"`
	PageSize int    `form:"page_size" binding:"omitempty,min=1,max=100"`
	OrderBy  string `form:"order_by"`
	OrderDir string `form:"order_dir" binding:"omitempty,oneof=asc desc"`
}

// ToOrganizationResponse converts a domain organization to a response DTO.
// The resolved timezone and local date reflect the lenient resolution
// chain, so callers always see where the organization's clock actually
// points even when the stored identifier is unresolvable.
func ToOrganizationResponse(org *organization.Organization, now time.Time) OrganizationResponse {
	return OrganizationResponse{
		ID:               org.ID,
		Name:             org.Name,
		Timezone:         org.Timezone,
		ResolvedTimezone: org.Location().String(),
		LocalDate:        org.LocalDate(now).String(),
		CreatedAt:        org.CreatedAt,
		UpdatedAt:        org.UpdatedAt,
	}
}
