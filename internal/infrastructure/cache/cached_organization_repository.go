package cache

import (
	"context"

	"github.com/billtrack/backend/internal/domain/organization"
	"github.com/billtrack/backend/internal/domain/shared"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// CachedOrganizationRepository wraps the system-of-record organization
// repository with cache-aside semantics for single-entity reads.
// Enumeration reads (FindAll, FindAllActive) pass through: the
// reconciliation worker must see every organization as the store knows
// it at each tick.
type CachedOrganizationRepository struct {
	delegate  organization.Repository
	entities  *EntityCache[organization.Organization]
	namespace string
}

// NewCachedOrganizationRepository creates a cache-aside decorator over delegate
func NewCachedOrganizationRepository(
	delegate organization.Repository,
	backend Cache,
	registry *KeyRegistry,
	opts Options,
	namespace string,
	logger *zap.Logger,
) *CachedOrganizationRepository {
	return &CachedOrganizationRepository{
		delegate:  delegate,
		entities:  NewEntityCache[organization.Organization](backend, registry, opts, logger),
		namespace: namespace,
	}
}

// FindByID serves the organization through the cache
func (r *CachedOrganizationRepository) FindByID(ctx context.Context, id uuid.UUID) (*organization.Organization, error) {
	key := EntityKey(r.namespace, EntityTypeOrganization, id)
	return r.entities.Get(ctx, key, func(ctx context.Context) (*organization.Organization, error) {
		return r.delegate.FindByID(ctx, id)
	})
}

// FindAll always reads the system of record
func (r *CachedOrganizationRepository) FindAll(ctx context.Context, filter shared.Filter) ([]organization.Organization, error) {
	return r.delegate.FindAll(ctx, filter)
}

// FindAllActive always reads the system of record
func (r *CachedOrganizationRepository) FindAllActive(ctx context.Context) ([]organization.Organization, error) {
	return r.delegate.FindAllActive(ctx)
}

// Save writes the store first, then overwrites the cached entry
func (r *CachedOrganizationRepository) Save(ctx context.Context, org *organization.Organization) error {
	if err := r.delegate.Save(ctx, org); err != nil {
		return err
	}
	r.entities.Set(ctx, EntityKey(r.namespace, EntityTypeOrganization, org.ID), org)
	return nil
}

// Delete removes the organization from the store and evicts its entry
func (r *CachedOrganizationRepository) Delete(ctx context.Context, id uuid.UUID) error {
	if err := r.delegate.Delete(ctx, id); err != nil {
		return err
	}
	r.entities.Remove(ctx, EntityKey(r.namespace, EntityTypeOrganization, id))
	return nil
}

// Count always reads the system of record
func (r *CachedOrganizationRepository) Count(ctx context.Context, filter shared.Filter) (int64, error) {
	return r.delegate.Count(ctx, filter)
}

// Ensure CachedOrganizationRepository implements organization.Repository
var _ organization.Repository = (*CachedOrganizationRepository)(nil)
