package billing

import (
	"testing"
	"time"

	"github.com/billtrack/backend/internal/domain/shared/valueobject"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestBill(t *testing.T) *Bill {
	t.Helper()
	bill, err := NewBill(
		uuid.New(),
		"Office electricity",
		BillCategoryUtilities,
		decimal.NewFromFloat(199.90),
		valueobject.NewDate(2024, time.June, 30),
	)
	require.NoError(t, err)
	return bill
}

func TestNewBill(t *testing.T) {
	t.Run("creates valid bill", func(t *testing.T) {
		orgID := uuid.New()
		bill, err := NewBill(orgID, "Rent", BillCategoryRent,
			decimal.NewFromInt(1500), valueobject.NewDate(2024, time.July, 1))

		require.NoError(t, err)
		assert.NotEqual(t, uuid.Nil, bill.ID)
		assert.Equal(t, orgID, bill.OrganizationID)
		assert.Equal(t, BillStatusCreated, bill.Status)
		assert.Nil(t, bill.AmountPaid)
		assert.Nil(t, bill.PaidAt)
	})

	t.Run("fails without organization", func(t *testing.T) {
		_, err := NewBill(uuid.Nil, "Rent", BillCategoryRent,
			decimal.NewFromInt(1500), valueobject.NewDate(2024, time.July, 1))
		assert.Error(t, err)
	})

	t.Run("fails with empty description", func(t *testing.T) {
		_, err := NewBill(uuid.New(), "  ", BillCategoryRent,
			decimal.NewFromInt(1500), valueobject.NewDate(2024, time.July, 1))
		assert.Error(t, err)
	})

	t.Run("fails with invalid category", func(t *testing.T) {
		_, err := NewBill(uuid.New(), "Rent", BillCategory("BOGUS"),
			decimal.NewFromInt(1500), valueobject.NewDate(2024, time.July, 1))
		assert.Error(t, err)
	})

	t.Run("fails with negative amount", func(t *testing.T) {
		_, err := NewBill(uuid.New(), "Rent", BillCategoryRent,
			decimal.NewFromInt(-1), valueobject.NewDate(2024, time.July, 1))
		assert.Error(t, err)
	})

	t.Run("fails with zero due date", func(t *testing.T) {
		_, err := NewBill(uuid.New(), "Rent", BillCategoryRent,
			decimal.NewFromInt(1500), valueobject.Date{})
		assert.Error(t, err)
	})
}

func TestBill_MarkPaid(t *testing.T) {
	t.Run("records payment", func(t *testing.T) {
		bill := newTestBill(t)
		paidAt := time.Now()

		require.NoError(t, bill.MarkPaid(decimal.NewFromFloat(199.90), paidAt))

		assert.Equal(t, BillStatusPaid, bill.Status)
		require.NotNil(t, bill.AmountPaid)
		assert.True(t, bill.AmountPaid.Equal(decimal.NewFromFloat(199.90)))
		require.NotNil(t, bill.PaidAt)
		assert.Equal(t, paidAt, *bill.PaidAt)
	})

	t.Run("rejects paying a cancelled bill", func(t *testing.T) {
		bill := newTestBill(t)
		require.NoError(t, bill.Cancel())

		err := bill.MarkPaid(decimal.NewFromInt(10), time.Now())
		assert.Error(t, err)
		assert.Equal(t, BillStatusCancelled, bill.Status)
	})

	t.Run("rejects double payment", func(t *testing.T) {
		bill := newTestBill(t)
		require.NoError(t, bill.MarkPaid(decimal.NewFromInt(10), time.Now()))
		assert.Error(t, bill.MarkPaid(decimal.NewFromInt(10), time.Now()))
	})

	t.Run("rejects negative amount", func(t *testing.T) {
		bill := newTestBill(t)
		assert.Error(t, bill.MarkPaid(decimal.NewFromInt(-1), time.Now()))
		assert.NotEqual(t, BillStatusPaid, bill.Status)
	})
}

func TestBill_Cancel(t *testing.T) {
	bill := newTestBill(t)

	require.NoError(t, bill.Cancel())
	assert.Equal(t, BillStatusCancelled, bill.Status)

	// Cancelling twice is an invalid state transition
	assert.Error(t, bill.Cancel())
}

func TestBill_UpdateDetails(t *testing.T) {
	t.Run("updates non-terminal bill", func(t *testing.T) {
		bill := newTestBill(t)
		newDue := valueobject.NewDate(2024, time.August, 15)

		err := bill.UpdateDetails("Water", BillCategoryUtilities, decimal.NewFromInt(80), newDue)

		require.NoError(t, err)
		assert.Equal(t, "Water", bill.Description)
		assert.Equal(t, newDue, bill.DueDate)
	})

	t.Run("rejects updating a paid bill", func(t *testing.T) {
		bill := newTestBill(t)
		require.NoError(t, bill.MarkPaid(decimal.NewFromInt(10), time.Now()))

		err := bill.UpdateDetails("Water", BillCategoryUtilities,
			decimal.NewFromInt(80), valueobject.NewDate(2024, time.August, 15))
		assert.Error(t, err)
	})
}

func TestBill_ApplyStatus(t *testing.T) {
	bill := newTestBill(t)
	before := bill.UpdatedAt

	changed := bill.ApplyStatus(BillStatusDue)
	assert.True(t, changed)
	assert.Equal(t, BillStatusDue, bill.Status)
	assert.True(t, !bill.UpdatedAt.Before(before))

	// Same status is a no-op
	assert.False(t, bill.ApplyStatus(BillStatusDue))
}

func TestBillStatus_IsTerminal(t *testing.T) {
	assert.True(t, BillStatusPaid.IsTerminal())
	assert.True(t, BillStatusCancelled.IsTerminal())
	assert.False(t, BillStatusCreated.IsTerminal())
	assert.False(t, BillStatusUpcoming.IsTerminal())
	assert.False(t, BillStatusDue.IsTerminal())
	assert.False(t, BillStatusOverdue.IsTerminal())
}
