package persistence

import (
	"context"
	"errors"
	"strings"

	"github.com/billtrack/backend/internal/domain/organization"
	"github.com/billtrack/backend/internal/domain/shared"
	"github.com/billtrack/backend/internal/infrastructure/persistence/models"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// GormOrganizationRepository implements organization.Repository using GORM
type GormOrganizationRepository struct {
	db *gorm.DB
}

// NewGormOrganizationRepository creates a new GormOrganizationRepository
func NewGormOrganizationRepository(db *gorm.DB) *GormOrganizationRepository {
	return &GormOrganizationRepository{db: db}
}

// FindByID finds an organization by its ID
func (r *GormOrganizationRepository) FindByID(ctx context.Context, id uuid.UUID) (*organization.Organization, error) {
	var model models.OrganizationModel
	if err := r.db.WithContext(ctx).First(&model, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return model.ToDomain(), nil
}

// FindAll finds organizations matching the filter
func (r *GormOrganizationRepository) FindAll(ctx context.Context, filter shared.Filter) ([]organization.Organization, error) {
	var rows []models.OrganizationModel
	query := r.applyFilter(r.db.WithContext(ctx).Model(&models.OrganizationModel{}), filter)

	if err := query.Find(&rows).Error; err != nil {
		return nil, err
	}

	orgs := make([]organization.Organization, len(rows))
	for i := range rows {
		orgs[i] = *rows[i].ToDomain()
	}
	return orgs, nil
}

// FindAllActive finds every non-deleted organization
func (r *GormOrganizationRepository) FindAllActive(ctx context.Context) ([]organization.Organization, error) {
	var rows []models.OrganizationModel
	if err := r.db.WithContext(ctx).
		Order("created_at ASC").
		Find(&rows).Error; err != nil {
		return nil, err
	}

	orgs := make([]organization.Organization, len(rows))
	for i := range rows {
		orgs[i] = *rows[i].ToDomain()
	}
	return orgs, nil
}

// Save creates or updates an organization
func (r *GormOrganizationRepository) Save(ctx context.Context, org *organization.Organization) error {
	var model models.OrganizationModel
	model.FromDomain(org)
	return r.db.WithContext(ctx).Save(&model).Error
}

// Delete soft-deletes an organization
func (r *GormOrganizationRepository) Delete(ctx context.Context, id uuid.UUID) error {
	result := r.db.WithContext(ctx).Delete(&models.OrganizationModel{}, "id = ?", id)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return shared.ErrNotFound
	}
	return nil
}

// Count counts organizations matching the filter
func (r *GormOrganizationRepository) Count(ctx context.Context, filter shared.Filter) (int64, error) {
	var count int64
	query := r.applyFilterWithoutPagination(r.db.WithContext(ctx).Model(&models.OrganizationModel{}), filter)

	if err := query.Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}

func (r *GormOrganizationRepository) applyFilter(query *gorm.DB, filter shared.Filter) *gorm.DB {
	query = r.applyFilterWithoutPagination(query, filter)

	if filter.Page > 0 && filter.PageSize > 0 {
		query = query.Offset(filter.Offset()).Limit(filter.Limit())
	}

	if filter.OrderBy != "" {
		orderDir := "ASC"
		if strings.ToLower(filter.OrderDir) == "desc" {
			orderDir = "DESC"
		}
		query = query.Order(filter.OrderBy + " " + orderDir)
	} else {
		query = query.Order("created_at DESC")
	}

	return query
}

func (r *GormOrganizationRepository) applyFilterWithoutPagination(query *gorm.DB, filter shared.Filter) *gorm.DB {
	if filter.Search != "" {
		query = query.Where("name ILIKE ?", "%"+filter.Search+"%")
	}
	return query
}

// Ensure GormOrganizationRepository implements organization.Repository
var _ organization.Repository = (*GormOrganizationRepository)(nil)
