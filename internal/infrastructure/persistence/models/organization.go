package models

import (
	"github.com/billtrack/backend/internal/domain/organization"
	"github.com/billtrack/backend/internal/domain/shared"
)

// OrganizationModel is the persistence model for organizations
type OrganizationModel struct {
	BaseModel
	Name     string `gorm:"type:varchar(200);not null"`
	Timezone string `gorm:"type:varchar(100);not null"`
}

// TableName specifies the table name
func (OrganizationModel) TableName() string {
	return "organizations"
}

// ToDomain converts the persistence model to a domain entity
func (m *OrganizationModel) ToDomain() *organization.Organization {
	return &organization.Organization{
		BaseEntity: shared.BaseEntity{
			ID:        m.ID,
			CreatedAt: m.CreatedAt,
			UpdatedAt: m.UpdatedAt,
		},
		Name:     m.Name,
		Timezone: m.Timezone,
	}
}

// FromDomain converts a domain entity to the persistence model
func (m *OrganizationModel) FromDomain(org *organization.Organization) {
	m.ID = org.ID
	m.CreatedAt = org.CreatedAt
	m.UpdatedAt = org.UpdatedAt
	m.Name = org.Name
	m.Timezone = org.Timezone
}
