package billing

import (
	"github.com/billtrack/backend/internal/domain/shared/valueobject"
)

// NextStatus computes the status a bill should hold given its current
// status, its due date, and "today" in the owning organization's local
// timezone. It is pure and deterministic; the reconciliation worker is
// its only automated caller.
//
// Rules, in order, first match wins:
//  1. Paid and Cancelled are absorbing: returned unchanged.
//  2. A not-yet-due bill (Created/Upcoming) whose due date is today
//     becomes Due.
//  3. A not-yet-due bill whose due date has passed becomes Overdue.
//  4. A Due bill whose due date has passed becomes Overdue.
//  5. Anything else is unchanged.
func NextStatus(current BillStatus, dueDate, localToday valueobject.Date) BillStatus {
	if current.IsTerminal() {
		return current
	}

	notYetDue := current == BillStatusCreated || current == BillStatusUpcoming

	switch {
	case notYetDue && dueDate.Equal(localToday):
		return BillStatusDue
	case notYetDue && dueDate.Before(localToday):
		return BillStatusOverdue
	case current == BillStatusDue && dueDate.Before(localToday):
		return BillStatusOverdue
	default:
		return current
	}
}
