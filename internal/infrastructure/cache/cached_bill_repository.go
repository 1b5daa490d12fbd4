package cache

import (
	"context"

	"github.com/billtrack/backend/internal/domain/billing"
	"github.com/billtrack/backend/internal/domain/shared"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// CachedBillRepository wraps the system-of-record bill repository with
// cache-aside semantics. Single-entity reads are served through the
// cache with sliding refresh; every write goes to the store first and
// then unconditionally overwrites the cached entry, so a read
// immediately after a write observes the new value. List reads for an
// organization are cached as derived values and invalidated by prefix
// on any write touching that organization, including the reconciler's
// batch writes.
//
// The reconciliation read path (FindByOrganizationAndStatuses) is a
// deliberate pass-through: the worker must see the store's truth.
type CachedBillRepository struct {
	delegate  billing.BillRepository
	entities  *EntityCache[billing.Bill]
	lists     *EntityCache[[]billing.Bill]
	namespace string
}

// NewCachedBillRepository creates a cache-aside decorator over delegate
func NewCachedBillRepository(
	delegate billing.BillRepository,
	backend Cache,
	registry *KeyRegistry,
	opts Options,
	namespace string,
	logger *zap.Logger,
) *CachedBillRepository {
	return &CachedBillRepository{
		delegate:  delegate,
		entities:  NewEntityCache[billing.Bill](backend, registry, opts, logger),
		lists:     NewEntityCache[[]billing.Bill](backend, registry, opts, logger),
		namespace: namespace,
	}
}

// FindByID serves the bill through the cache, falling back to the store
func (r *CachedBillRepository) FindByID(ctx context.Context, id uuid.UUID) (*billing.Bill, error) {
	key := EntityKey(r.namespace, EntityTypeBill, id)
	return r.entities.Get(ctx, key, func(ctx context.Context) (*billing.Bill, error) {
		return r.delegate.FindByID(ctx, id)
	})
}

// FindByOrganization serves the paginated list as a cached derived value
func (r *CachedBillRepository) FindByOrganization(ctx context.Context, organizationID uuid.UUID, filter shared.Filter) ([]billing.Bill, error) {
	key := ListKey(r.namespace, EntityTypeBillList, organizationID,
		"p", filter.Page, "s", filter.Limit(), filter.OrderBy, filter.OrderDir)
	bills, err := r.lists.GetOrCompute(ctx, key, func(ctx context.Context) (*[]billing.Bill, error) {
		loaded, err := r.delegate.FindByOrganization(ctx, organizationID, filter)
		if err != nil {
			return nil, err
		}
		return &loaded, nil
	})
	if err != nil {
		return nil, err
	}
	if bills == nil {
		return nil, nil
	}
	return *bills, nil
}

// FindByOrganizationAndStatuses always reads the system of record
func (r *CachedBillRepository) FindByOrganizationAndStatuses(ctx context.Context, organizationID uuid.UUID, statuses []billing.BillStatus) ([]billing.Bill, error) {
	return r.delegate.FindByOrganizationAndStatuses(ctx, organizationID, statuses)
}

// Save writes the store first, then overwrites the cached entry
func (r *CachedBillRepository) Save(ctx context.Context, bill *billing.Bill) error {
	if err := r.delegate.Save(ctx, bill); err != nil {
		return err
	}
	r.entities.Set(ctx, EntityKey(r.namespace, EntityTypeBill, bill.ID), bill)
	r.invalidateOrganizationLists(ctx, bill.OrganizationID)
	return nil
}

// SaveBatch writes the store first, then overwrites every cached entry
// and invalidates the list families of the touched organizations
func (r *CachedBillRepository) SaveBatch(ctx context.Context, bills []*billing.Bill) error {
	if err := r.delegate.SaveBatch(ctx, bills); err != nil {
		return err
	}

	organizations := make(map[uuid.UUID]struct{})
	for _, bill := range bills {
		r.entities.Set(ctx, EntityKey(r.namespace, EntityTypeBill, bill.ID), bill)
		organizations[bill.OrganizationID] = struct{}{}
	}
	for orgID := range organizations {
		r.invalidateOrganizationLists(ctx, orgID)
	}
	return nil
}

// Delete removes the bill from the store and evicts its cache entry.
// The owning organization is not known at this point, so the whole
// list family is invalidated.
func (r *CachedBillRepository) Delete(ctx context.Context, id uuid.UUID) error {
	if err := r.delegate.Delete(ctx, id); err != nil {
		return err
	}
	r.entities.Remove(ctx, EntityKey(r.namespace, EntityTypeBill, id))
	r.lists.RemoveByPrefix(ctx, EntityPrefix(r.namespace, EntityTypeBillList))
	return nil
}

// CountByOrganization always reads the system of record
func (r *CachedBillRepository) CountByOrganization(ctx context.Context, organizationID uuid.UUID, filter shared.Filter) (int64, error) {
	return r.delegate.CountByOrganization(ctx, organizationID, filter)
}

func (r *CachedBillRepository) invalidateOrganizationLists(ctx context.Context, organizationID uuid.UUID) {
	r.lists.RemoveByPrefix(ctx, EntityKey(r.namespace, EntityTypeBillList, organizationID))
}

// Ensure CachedBillRepository implements billing.BillRepository
var _ billing.BillRepository = (*CachedBillRepository)(nil)
