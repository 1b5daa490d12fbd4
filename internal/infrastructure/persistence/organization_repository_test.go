package persistence

import (
	"context"
	"database/sql"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/billtrack/backend/internal/domain/organization"
	"github.com/billtrack/backend/internal/domain/shared"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
)

// newMockOrganizationRepository creates a GormOrganizationRepository with a mocked SQL connection
func newMockOrganizationRepository(t *testing.T) (*GormOrganizationRepository, sqlmock.Sqlmock, *sql.DB) {
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

	return NewGormOrganizationRepository(gormDB), mock, mockDB
}

func organizationColumns() []string {
	return []string{"id", "created_at", "updated_at", "deleted_at", "name", "timezone"}
}

func TestGormOrganizationRepository_FindByID(t *testing.T) {
	t.Run("finds existing organization", func(t *testing.T) {
		repo, mock, mockDB := newMockOrganizationRepository(t)
		defer mockDB.Close()

		orgID := uuid.New()
		now := time.Now()

		rows := sqlmock.NewRows(organizationColumns()).
			AddRow(orgID, now, now, nil, "Acme Ltda", "America/Sao_Paulo")

		mock.ExpectQuery(`SELECT \* FROM "organizations" WHERE id = \$1 AND "organizations"\."deleted_at" IS NULL ORDER BY .* LIMIT .*`).
			WithArgs(orgID, 1).
			WillReturnRows(rows)

		org, err := repo.FindByID(context.Background(), orgID)

		assert.NoError(t, err)
		require.NotNil(t, org)
		assert.Equal(t, orgID, org.ID)
		assert.Equal(t, "Acme Ltda", org.Name)
		assert.Equal(t, "America/Sao_Paulo", org.Timezone)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("returns not found for missing organization", func(t *testing.T) {
		repo, mock, mockDB := newMockOrganizationRepository(t)
		defer mockDB.Close()

		orgID := uuid.New()

		mock.ExpectQuery(`SELECT \* FROM "organizations" WHERE id = \$1 AND "organizations"\."deleted_at" IS NULL ORDER BY .* LIMIT .*`).
			WithArgs(orgID, 1).
			WillReturnError(gorm.ErrRecordNotFound)

		org, err := repo.FindByID(context.Background(), orgID)

		assert.Error(t, err)
		assert.Nil(t, org)
		assert.Equal(t, shared.ErrNotFound, err)
		assert.NoError(t, mock.ExpectationsWereMet())
	})
}

func TestGormOrganizationRepository_FindAllActive(t *testing.T) {
	t.Run("lists all organizations ordered by creation", func(t *testing.T) {
		repo, mock, mockDB := newMockOrganizationRepository(t)
		defer mockDB.Close()

		now := time.Now()
		rows := sqlmock.NewRows(organizationColumns()).
			AddRow(uuid.New(), now, now, nil, "First Org", "America/Sao_Paulo").
			AddRow(uuid.New(), now, now, nil, "Second Org", "Asia/Tokyo")

		mock.ExpectQuery(`SELECT \* FROM "organizations" WHERE "organizations"\."deleted_at" IS NULL ORDER BY created_at ASC`).
			WillReturnRows(rows)

		orgs, err := repo.FindAllActive(context.Background())

		assert.NoError(t, err)
		assert.Len(t, orgs, 2)
		assert.Equal(t, "First Org", orgs[0].Name)
		assert.Equal(t, "Asia/Tokyo", orgs[1].Timezone)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("empty table yields empty slice", func(t *testing.T) {
		repo, mock, mockDB := newMockOrganizationRepository(t)
		defer mockDB.Close()

		mock.ExpectQuery(`SELECT \* FROM "organizations" WHERE "organizations"\."deleted_at" IS NULL ORDER BY created_at ASC`).
			WillReturnRows(sqlmock.NewRows(organizationColumns()))

		orgs, err := repo.FindAllActive(context.Background())

		assert.NoError(t, err)
		assert.Empty(t, orgs)
		assert.NoError(t, mock.ExpectationsWereMet())
	})
}

func TestGormOrganizationRepository_Save(t *testing.T) {
	t.Run("updates existing organization", func(t *testing.T) {
		repo, mock, mockDB := newMockOrganizationRepository(t)
		defer mockDB.Close()

		org, err := organization.NewOrganization("Acme Ltda", "America/Sao_Paulo")
		require.NoError(t, err)

		mock.ExpectExec(`UPDATE "organizations" SET`).
			WillReturnResult(sqlmock.NewResult(0, 1))

		err = repo.Save(context.Background(), org)

		assert.NoError(t, err)
		assert.NoError(t, mock.ExpectationsWereMet())
	})
}

func TestGormOrganizationRepository_Delete(t *testing.T) {
	t.Run("soft-deletes existing organization", func(t *testing.T) {
		repo, mock, mockDB := newMockOrganizationRepository(t)
		defer mockDB.Close()

		mock.ExpectExec(`UPDATE "organizations" SET "deleted_at"=\$1 WHERE id = \$2`).
			WillReturnResult(sqlmock.NewResult(0, 1))

		err := repo.Delete(context.Background(), uuid.New())

		assert.NoError(t, err)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("returns not found when nothing deleted", func(t *testing.T) {
		repo, mock, mockDB := newMockOrganizationRepository(t)
		defer mockDB.Close()

		mock.ExpectExec(`UPDATE "organizations" SET "deleted_at"=\$1 WHERE id = \$2`).
			WillReturnResult(sqlmock.NewResult(0, 0))

		err := repo.Delete(context.Background(), uuid.New())

		assert.Equal(t, shared.ErrNotFound, err)
		assert.NoError(t, mock.ExpectationsWereMet())
	})
}

func TestGormOrganizationRepository_Count(t *testing.T) {
	t.Run("counts organizations matching search", func(t *testing.T) {
		repo, mock, mockDB := newMockOrganizationRepository(t)
		defer mockDB.Close()

		mock.ExpectQuery(`SELECT count\(\*\) FROM "organizations" WHERE name ILIKE \$1`).
			WithArgs("%acme%").
			WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(1))

		filter := shared.DefaultFilter()
		filter.Search = "acme"

		count, err := repo.Count(context.Background(), filter)

		assert.NoError(t, err)
		assert.Equal(t, int64(1), count)
		assert.NoError(t, mock.ExpectationsWereMet())
	})
}
