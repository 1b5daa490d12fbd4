package organization

import (
	"strings"
	"time"

	"github.com/billtrack/backend/internal/domain/shared"
	"github.com/billtrack/backend/internal/domain/shared/valueobject"
)

// Organization represents a tenant that owns bills. Each organization
// carries a raw timezone identifier that drives when its bills become
// due: lifecycle transitions are evaluated against the organization's
// local calendar date, not server time.
type Organization struct {
	shared.BaseEntity
	Name     string
	Timezone string
}

// NewOrganization creates a new organization. The timezone is stored
// exactly as given, even when blank or malformed: resolution is lenient
// and happens at read time so that legacy identifiers in the database
// never block writes.
func NewOrganization(name, timezone string) (*Organization, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, shared.NewDomainError("INVALID_NAME", "Organization name cannot be empty")
	}
	if len(name) > 200 {
		return nil, shared.NewDomainError("INVALID_NAME", "Organization name cannot exceed 200 characters")
	}

	return &Organization{
		BaseEntity: shared.NewBaseEntity(),
		Name:       name,
		Timezone:   strings.TrimSpace(timezone),
	}, nil
}

// Rename changes the organization's display name
func (o *Organization) Rename(name string) error {
	name = strings.TrimSpace(name)
	if name == "" {
		return shared.NewDomainError("INVALID_NAME", "Organization name cannot be empty")
	}
	o.Name = name
	o.Touch()
	return nil
}

// ChangeTimezone updates the stored timezone identifier. No validation
// is performed here: an identifier the platform cannot resolve falls
// back through the resolution chain instead of failing.
func (o *Organization) ChangeTimezone(timezone string) {
	o.Timezone = strings.TrimSpace(timezone)
	o.Touch()
}

// Location resolves the organization's timezone, never failing
func (o *Organization) Location() *time.Location {
	return ResolveLocation(o.Timezone)
}

// LocalDate returns the organization's calendar date at the given
// instant, as experienced in its resolved timezone
func (o *Organization) LocalDate(now time.Time) valueobject.Date {
	return valueobject.DateOf(now.In(o.Location()))
}
