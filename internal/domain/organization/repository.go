package organization

import (
	"context"

	"github.com/billtrack/backend/internal/domain/shared"
	"github.com/google/uuid"
)

// Repository defines the interface for organization persistence
type Repository interface {
	// FindByID finds an organization by its ID
	FindByID(ctx context.Context, id uuid.UUID) (*Organization, error)

	// FindAll finds organizations matching the filter
	FindAll(ctx context.Context, filter shared.Filter) ([]Organization, error)

	// FindAllActive finds every non-deleted organization. Used by the
	// reconciliation worker, which must see all tenants on each tick.
	FindAllActive(ctx context.Context) ([]Organization, error)

	// Save creates or updates an organization
	Save(ctx context.Context, org *Organization) error

	// Delete soft-deletes an organization
	Delete(ctx context.Context, id uuid.UUID) error

	// Count counts organizations matching the filter
	Count(ctx context.Context, filter shared.Filter) (int64, error)
}
