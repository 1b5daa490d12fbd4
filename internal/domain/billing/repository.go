package billing

import (
	"context"

	"github.com/billtrack/backend/internal/domain/shared"
	"github.com/google/uuid"
)

// BillRepository defines the interface for bill persistence
type BillRepository interface {
	// FindByID finds a bill by its ID
	FindByID(ctx context.Context, id uuid.UUID) (*Bill, error)

	// FindByOrganization finds bills owned by an organization,
	// paginated by the filter
	FindByOrganization(ctx context.Context, organizationID uuid.UUID, filter shared.Filter) ([]Bill, error)

	// FindByOrganizationAndStatuses finds all bills owned by an
	// organization whose status is in the given set. Used by the
	// reconciliation worker's narrow per-pass reads.
	FindByOrganizationAndStatuses(ctx context.Context, organizationID uuid.UUID, statuses []BillStatus) ([]Bill, error)

	// Save creates or updates a bill
	Save(ctx context.Context, bill *Bill) error

	// SaveBatch persists a set of changed bills together. All bills
	// in the batch are submitted in one round trip; all-or-nothing
	// semantics are not guaranteed.
	SaveBatch(ctx context.Context, bills []*Bill) error

	// Delete soft-deletes a bill
	Delete(ctx context.Context, id uuid.UUID) error

	// CountByOrganization counts an organization's bills matching the filter
	CountByOrganization(ctx context.Context, organizationID uuid.UUID, filter shared.Filter) (int64, error)
}
