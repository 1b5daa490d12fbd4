package valueobject

import (
	"database/sql/driver"
	"fmt"
	"time"
)

// dateLayout is the canonical textual form of a Date
const dateLayout = "2006-01-02"

// Date is a calendar date with no time-of-day and no timezone.
// Bills carry a due Date that is compared against the owning
// organization's local calendar date, so the type deliberately
// has no notion of instant.
type Date struct {
	Year  int
	Month time.Month
	Day   int
}

// NewDate creates a Date from its components
func NewDate(year int, month time.Month, day int) Date {
	return Date{Year: year, Month: month, Day: day}
}

// DateOf returns the calendar date of the given instant in the
// instant's own location
func DateOf(t time.Time) Date {
	y, m, d := t.Date()
	return Date{Year: y, Month: m, Day: d}
}

// ParseDate parses a Date in "YYYY-MM-DD" form
func ParseDate(s string) (Date, error) {
	t, err := time.Parse(dateLayout, s)
	if err != nil {
		return Date{}, fmt.Errorf("invalid date %q: %w", s, err)
	}
	return DateOf(t), nil
}

// Time returns the Date as a UTC midnight instant, which is how
// it is stored in the database
func (d Date) Time() time.Time {
	return time.Date(d.Year, d.Month, d.Day, 0, 0, 0, 0, time.UTC)
}

// IsZero reports whether the Date is the zero value
func (d Date) IsZero() bool {
	return d == Date{}
}

// Before reports whether d is strictly earlier than other
func (d Date) Before(other Date) bool {
	if d.Year != other.Year {
		return d.Year < other.Year
	}
	if d.Month != other.Month {
		return d.Month < other.Month
	}
	return d.Day < other.Day
}

// After reports whether d is strictly later than other
func (d Date) After(other Date) bool {
	return other.Before(d)
}

// Equal reports whether d and other are the same calendar date
func (d Date) Equal(other Date) bool {
	return d == other
}

// AddDays returns the Date shifted by the given number of days
func (d Date) AddDays(days int) Date {
	return DateOf(d.Time().AddDate(0, 0, days))
}

// String returns the Date in "YYYY-MM-DD" form
func (d Date) String() string {
	return d.Time().Format(dateLayout)
}

// MarshalJSON encodes the Date as a "YYYY-MM-DD" JSON string
func (d Date) MarshalJSON() ([]byte, error) {
	return []byte(`"` + d.String() + `"`), nil
}

// UnmarshalJSON decodes a "YYYY-MM-DD" JSON string
func (d *Date) UnmarshalJSON(data []byte) error {
	s := string(data)
	if len(s) < 2 || s[0] != '"' || s[len(s)-1] != '"' {
		return fmt.Errorf("invalid date JSON: %s", s)
	}
	parsed, err := ParseDate(s[1 : len(s)-1])
	if err != nil {
		return err
	}
	*d = parsed
	return nil
}

// Value implements driver.Valuer so Date can be written as a SQL date
func (d Date) Value() (driver.Value, error) {
	return d.Time(), nil
}

// Scan implements sql.Scanner so Date can be read from a SQL date
func (d *Date) Scan(value interface{}) error {
	switch v := value.(type) {
	case time.Time:
		*d = DateOf(v)
		return nil
	case string:
		parsed, err := ParseDate(v)
		if err != nil {
			return err
		}
		*d = parsed
		return nil
	case []byte:
		parsed, err := ParseDate(string(v))
		if err != nil {
			return err
		}
		*d = parsed
		return nil
	default:
		return fmt.Errorf("cannot scan %T into Date", value)
	}
}
