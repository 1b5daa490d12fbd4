package persistence

import (
	"context"
	"database/sql"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/billtrack/backend/internal/domain/billing"
	"github.com/billtrack/backend/internal/domain/shared"
	"github.com/billtrack/backend/internal/domain/shared/valueobject"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
)

// newMockBillRepository creates a GormBillRepository with a mocked SQL connection
func newMockBillRepository(t *testing.T) (*GormBillRepository, sqlmock.Sqlmock, *sql.DB) {
	mockDB, mock, err := sqlmock.New()
	require.NoError(t, err)

	dialector := postgres.New(postgres.Config{
		Conn:       mockDB,
		DriverName: "postgres",
	})

	gormDB, err := gorm.Open(dialector, &gorm.Config{
		SkipDefaultTransaction: true,
	})
	require.NoError(t, err)

	return NewGormBillRepository(gormDB), mock, mockDB
}

func billColumns() []string {
	return []string{
		"id", "created_at", "updated_at", "deleted_at",
		"organization_id", "description", "category", "status",
		"amount_due", "amount_paid", "due_date", "paid_at",
	}
}

func TestGormBillRepository_FindByID(t *testing.T) {
	t.Run("finds existing bill", func(t *testing.T) {
		repo, mock, mockDB := newMockBillRepository(t)
		defer mockDB.Close()

		billID := uuid.New()
		orgID := uuid.New()
		now := time.Now()
		dueDate := time.Date(2026, 3, 15, 0, 0, 0, 0, time.UTC)

		rows := sqlmock.NewRows(billColumns()).
			AddRow(billID, now, now, nil, orgID, "Office electricity", "UTILITIES", "DUE",
				decimal.NewFromInt(120), nil, dueDate, nil)

		mock.ExpectQuery(`SELECT \* FROM "bills" WHERE id = \$1 AND "bills"\."deleted_at" IS NULL ORDER BY .* LIMIT .*`).
			WithArgs(billID, 1).
			WillReturnRows(rows)

		bill, err := repo.FindByID(context.Background(), billID)

		assert.NoError(t, err)
		require.NotNil(t, bill)
		assert.Equal(t, billID, bill.ID)
		assert.Equal(t, orgID, bill.OrganizationID)
		assert.Equal(t, billing.BillStatusDue, bill.Status)
		assert.Equal(t, valueobject.NewDate(2026, 3, 15), bill.DueDate)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("returns not found for missing bill", func(t *testing.T) {
		repo, mock, mockDB := newMockBillRepository(t)
		defer mockDB.Close()

		billID := uuid.New()

		mock.ExpectQuery(`SELECT \* FROM "bills" WHERE id = \$1 AND "bills"\."deleted_at" IS NULL ORDER BY .* LIMIT .*`).
			WithArgs(billID, 1).
			WillReturnError(gorm.ErrRecordNotFound)

		bill, err := repo.FindByID(context.Background(), billID)

		assert.Error(t, err)
		assert.Nil(t, bill)
		assert.Equal(t, shared.ErrNotFound, err)
		assert.NoError(t, mock.ExpectationsWereMet())
	})
}

func TestGormBillRepository_FindByOrganizationAndStatuses(t *testing.T) {
	t.Run("queries the given status set", func(t *testing.T) {
		repo, mock, mockDB := newMockBillRepository(t)
		defer mockDB.Close()

		orgID := uuid.New()
		now := time.Now()
		dueDate := time.Date(2026, 3, 10, 0, 0, 0, 0, time.UTC)

		rows := sqlmock.NewRows(billColumns()).
			AddRow(uuid.New(), now, now, nil, orgID, "Rent March", "RENT", "CREATED",
				decimal.NewFromInt(2500), nil, dueDate, nil).
			AddRow(uuid.New(), now, now, nil, orgID, "Water", "UTILITIES", "UPCOMING",
				decimal.NewFromInt(80), nil, dueDate, nil)

		mock.ExpectQuery(`SELECT \* FROM "bills" WHERE \(organization_id = \$1 AND status IN \(\$2,\$3\)\) AND "bills"\."deleted_at" IS NULL ORDER BY due_date ASC, created_at ASC`).
			WithArgs(orgID, "CREATED", "UPCOMING").
			WillReturnRows(rows)

		bills, err := repo.FindByOrganizationAndStatuses(context.Background(), orgID,
			[]billing.BillStatus{billing.BillStatusCreated, billing.BillStatusUpcoming})

		assert.NoError(t, err)
		assert.Len(t, bills, 2)
		assert.Equal(t, billing.BillStatusCreated, bills[0].Status)
		assert.Equal(t, billing.BillStatusUpcoming, bills[1].Status)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("empty status set skips the query", func(t *testing.T) {
		repo, mock, mockDB := newMockBillRepository(t)
		defer mockDB.Close()

		bills, err := repo.FindByOrganizationAndStatuses(context.Background(), uuid.New(), nil)

		assert.NoError(t, err)
		assert.Empty(t, bills)
		assert.NoError(t, mock.ExpectationsWereMet())
	})
}

func TestGormBillRepository_Save(t *testing.T) {
	t.Run("updates existing bill", func(t *testing.T) {
		repo, mock, mockDB := newMockBillRepository(t)
		defer mockDB.Close()

		bill, err := billing.NewBill(uuid.New(), "Internet", billing.BillCategoryServices,
			decimal.NewFromInt(60), valueobject.NewDate(2026, 4, 1))
		require.NoError(t, err)

		mock.ExpectExec(`UPDATE "bills" SET`).
			WillReturnResult(sqlmock.NewResult(0, 1))

		err = repo.Save(context.Background(), bill)

		assert.NoError(t, err)
		assert.NoError(t, mock.ExpectationsWereMet())
	})
}

func TestGormBillRepository_SaveBatch(t *testing.T) {
	t.Run("upserts all bills in one statement", func(t *testing.T) {
		repo, mock, mockDB := newMockBillRepository(t)
		defer mockDB.Close()

		orgID := uuid.New()
		first, err := billing.NewBill(orgID, "Rent", billing.BillCategoryRent,
			decimal.NewFromInt(2500), valueobject.NewDate(2026, 4, 1))
		require.NoError(t, err)
		second, err := billing.NewBill(orgID, "Payroll", billing.BillCategoryPayroll,
			decimal.NewFromInt(18000), valueobject.NewDate(2026, 4, 5))
		require.NoError(t, err)

		mock.ExpectExec(`INSERT INTO "bills" .* ON CONFLICT \("id"\) DO UPDATE SET`).
			WillReturnResult(sqlmock.NewResult(0, 2))

		err = repo.SaveBatch(context.Background(), []*billing.Bill{first, second})

		assert.NoError(t, err)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("empty batch is a no-op", func(t *testing.T) {
		repo, mock, mockDB := newMockBillRepository(t)
		defer mockDB.Close()

		err := repo.SaveBatch(context.Background(), nil)

		assert.NoError(t, err)
		assert.NoError(t, mock.ExpectationsWereMet())
	})
}

func TestGormBillRepository_Delete(t *testing.T) {
	t.Run("soft-deletes existing bill", func(t *testing.T) {
		repo, mock, mockDB := newMockBillRepository(t)
		defer mockDB.Close()

		billID := uuid.New()

		mock.ExpectExec(`UPDATE "bills" SET "deleted_at"=\$1 WHERE id = \$2`).
			WillReturnResult(sqlmock.NewResult(0, 1))

		err := repo.Delete(context.Background(), billID)

		assert.NoError(t, err)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("returns not found when nothing deleted", func(t *testing.T) {
		repo, mock, mockDB := newMockBillRepository(t)
		defer mockDB.Close()

		mock.ExpectExec(`UPDATE "bills" SET "deleted_at"=\$1 WHERE id = \$2`).
			WillReturnResult(sqlmock.NewResult(0, 0))

		err := repo.Delete(context.Background(), uuid.New())

		assert.Equal(t, shared.ErrNotFound, err)
		assert.NoError(t, mock.ExpectationsWereMet())
	})
}

func TestGormBillRepository_CountByOrganization(t *testing.T) {
	t.Run("counts bills with status filter", func(t *testing.T) {
		repo, mock, mockDB := newMockBillRepository(t)
		defer mockDB.Close()

		orgID := uuid.New()

		mock.ExpectQuery(`SELECT count\(\*\) FROM "bills" WHERE organization_id = \$1 AND status = \$2`).
			WithArgs(orgID, "OVERDUE").
			WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(3))

		filter := shared.DefaultFilter()
		filter.Filters = map[string]interface{}{"status": "OVERDUE"}

		count, err := repo.CountByOrganization(context.Background(), orgID, filter)

		assert.NoError(t, err)
		assert.Equal(t, int64(3), count)
		assert.NoError(t, mock.ExpectationsWereMet())
	})
}
