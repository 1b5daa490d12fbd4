package persistence

import (
	"context"
	"errors"
	"strings"

	"github.com/billtrack/backend/internal/domain/billing"
	"github.com/billtrack/backend/internal/domain/shared"
	"github.com/billtrack/backend/internal/infrastructure/persistence/models"
	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// GormBillRepository implements billing.BillRepository using GORM
type GormBillRepository struct {
	db *gorm.DB
}

// NewGormBillRepository creates a new GormBillRepository
func NewGormBillRepository(db *gorm.DB) *GormBillRepository {
	return &GormBillRepository{db: db}
}

// FindByID finds a bill by its ID
func (r *GormBillRepository) FindByID(ctx context.Context, id uuid.UUID) (*billing.Bill, error) {
	var model models.BillModel
	if err := r.db.WithContext(ctx).First(&model, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return model.ToDomain(), nil
}

// FindByOrganization finds bills owned by an organization, paginated by the filter
func (r *GormBillRepository) FindByOrganization(ctx context.Context, organizationID uuid.UUID, filter shared.Filter) ([]billing.Bill, error) {
	var rows []models.BillModel
	query := r.db.WithContext(ctx).
		Model(&models.BillModel{}).
		Where("organization_id = ?", organizationID)
	query = r.applyFilter(query, filter)

	if err := query.Find(&rows).Error; err != nil {
		return nil, err
	}
	return toDomainBills(rows), nil
}

// FindByOrganizationAndStatuses finds all bills owned by an organization
// whose status is in the given set
func (r *GormBillRepository) FindByOrganizationAndStatuses(ctx context.Context, organizationID uuid.UUID, statuses []billing.BillStatus) ([]billing.Bill, error) {
	if len(statuses) == 0 {
		return nil, nil
	}

	values := make([]string, len(statuses))
	for i, s := range statuses {
		values[i] = s.String()
	}

	var rows []models.BillModel
	if err := r.db.WithContext(ctx).
		Where("organization_id = ? AND status IN ?", organizationID, values).
		Order("due_date ASC, created_at ASC").
		Find(&rows).Error; err != nil {
		return nil, err
	}
	return toDomainBills(rows), nil
}

// Save creates or updates a bill
func (r *GormBillRepository) Save(ctx context.Context, bill *billing.Bill) error {
	var model models.BillModel
	model.FromDomain(bill)
	return r.db.WithContext(ctx).Save(&model).Error
}

// SaveBatch persists a set of changed bills in one round trip
func (r *GormBillRepository) SaveBatch(ctx context.Context, bills []*billing.Bill) error {
	if len(bills) == 0 {
		return nil
	}

	rows := make([]models.BillModel, len(bills))
	for i, bill := range bills {
		rows[i].FromDomain(bill)
	}

	return r.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "id"}},
			UpdateAll: true,
		}).
		Create(&rows).Error
}

// Delete soft-deletes a bill
func (r *GormBillRepository) Delete(ctx context.Context, id uuid.UUID) error {
	result := r.db.WithContext(ctx).Delete(&models.BillModel{}, "id = ?", id)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return shared.ErrNotFound
	}
	return nil
}

// CountByOrganization counts an organization's bills matching the filter
func (r *GormBillRepository) CountByOrganization(ctx context.Context, organizationID uuid.UUID, filter shared.Filter) (int64, error) {
	var count int64
	query := r.db.WithContext(ctx).
		Model(&models.BillModel{}).
		Where("organization_id = ?", organizationID)
	query = r.applyFilterWithoutPagination(query, filter)

	if err := query.Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}

func (r *GormBillRepository) applyFilter(query *gorm.DB, filter shared.Filter) *gorm.DB {
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
		query = query.Order("due_date ASC, created_at ASC")
	}

	return query
}

func (r *GormBillRepository) applyFilterWithoutPagination(query *gorm.DB, filter shared.Filter) *gorm.DB {
	if filter.Search != "" {
		query = query.Where("description ILIKE ?", "%"+filter.Search+"%")
	}

	for key, value := range filter.Filters {
		switch key {
		case "status":
			query = query.Where("status = ?", value)
		case "category":
			query = query.Where("category = ?", value)
		}
	}

	return query
}

func toDomainBills(rows []models.BillModel) []billing.Bill {
	bills := make([]billing.Bill, len(rows))
	for i := range rows {
		bills[i] = *rows[i].ToDomain()
	}
	return bills
}

// Ensure GormBillRepository implements billing.BillRepository
var _ billing.BillRepository = (*GormBillRepository)(nil)
