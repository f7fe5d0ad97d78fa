package models

import (
	"github.com/van-william/carbon-sub017/internal/domain/partner"
)

// ContactColumns is embedded into partner tables.
type ContactColumns struct {
	Email   string `gorm:"type:varchar(200)"`
	Phone   string `gorm:"type:varchar(50)"`
	Website string `gorm:"type:varchar(200)"`
	Address string `gorm:"type:text"`
	City    string `gorm:"type:varchar(100)"`
	Country string `gorm:"type:varchar(100)"`
}

func contactFromDomain(c partner.Contact) ContactColumns {
	return ContactColumns(c)
}

func (c ContactColumns) toDomain() partner.Contact {
	return partner.Contact(c)
}

func (c ContactColumns) columns() map[string]any {
	return map[string]any{
		"email":   c.Email,
		"phone":   c.Phone,
		"website": c.Website,
		"address": c.Address,
		"city":    c.City,
		"country": c.Country,
	}
}

// CustomerModel is the persistence model for the Customer aggregate.
type CustomerModel struct {
	CompanyAggregateModel
	Code string `gorm:"type:varchar(50);not null"`
	Name string `gorm:"type:varchar(200);not null"`
	ContactColumns
	TaxID    string `gorm:"type:varchar(50)"`
	Currency string `gorm:"type:varchar(3);not null"`
	Status   string `gorm:"type:varchar(20);not null"`
	Notes    string `gorm:"type:text"`
}

// TableName returns the table name for GORM
func (CustomerModel) TableName() string {
	return "customers"
}

// ToDomain converts the model to a domain Customer.
func (m *CustomerModel) ToDomain() *partner.Customer {
	return &partner.Customer{
		CompanyAggregateRoot: m.ToCompanyAggregateRoot(),
		Code:                 m.Code,
		Name:                 m.Name,
		Contact:              m.ContactColumns.toDomain(),
		TaxID:                m.TaxID,
		Currency:             m.Currency,
		Status:               partner.Status(m.Status),
		Notes:                m.Notes,
	}
}

// CustomerModelFromDomain creates a model from a domain Customer.
func CustomerModelFromDomain(c *partner.Customer) *CustomerModel {
	m := &CustomerModel{
		Code:           c.Code,
		Name:           c.Name,
		ContactColumns: contactFromDomain(c.Contact),
		TaxID:          c.TaxID,
		Currency:       c.Currency,
		Status:         string(c.Status),
		Notes:          c.Notes,
	}
	m.FromDomainCompanyAggregateRoot(c.CompanyAggregateRoot)
	return m
}

// Columns returns the mutable columns written by a version checked update
func (m *CustomerModel) Columns() map[string]any {
	cols := m.ContactColumns.columns()
	cols["code"] = m.Code
	cols["name"] = m.Name
	cols["tax_id"] = m.TaxID
	cols["currency"] = m.Currency
	cols["status"] = m.Status
	cols["notes"] = m.Notes
	cols["updated_at"] = m.UpdatedAt
	return cols
}

// SupplierModel is the persistence model for the Supplier aggregate.
type SupplierModel struct {
	CompanyAggregateModel
	Code string `gorm:"type:varchar(50);not null"`
	Name string `gorm:"type:varchar(200);not null"`
	ContactColumns
	Currency     string `gorm:"type:varchar(3);not null"`
	LeadTimeDays int    `gorm:"not null"`
	Status       string `gorm:"type:varchar(20);not null"`
	Notes        string `gorm:"type:text"`
}

// TableName returns the table name for GORM
func (SupplierModel) TableName() string {
	return "suppliers"
}

// ToDomain converts the model to a domain Supplier.
func (m *SupplierModel) ToDomain() *partner.Supplier {
	return &partner.Supplier{
		CompanyAggregateRoot: m.ToCompanyAggregateRoot(),
		Code:                 m.Code,
		Name:                 m.Name,
		Contact:              m.ContactColumns.toDomain(),
		Currency:             m.Currency,
		LeadTimeDays:         m.LeadTimeDays,
		Status:               partner.Status(m.Status),
		Notes:                m.Notes,
	}
}

// SupplierModelFromDomain creates a model from a domain Supplier.
func SupplierModelFromDomain(s *partner.Supplier) *SupplierModel {
	m := &SupplierModel{
		Code:           s.Code,
		Name:           s.Name,
		ContactColumns: contactFromDomain(s.Contact),
		Currency:       s.Currency,
		LeadTimeDays:   s.LeadTimeDays,
		Status:         string(s.Status),
		Notes:          s.Notes,
	}
	m.FromDomainCompanyAggregateRoot(s.CompanyAggregateRoot)
	return m
}

// Columns returns the mutable columns written by a version checked update
func (m *SupplierModel) Columns() map[string]any {
	cols := m.ContactColumns.columns()
	cols["code"] = m.Code
	cols["name"] = m.Name
	cols["currency"] = m.Currency
	cols["lead_time_days"] = m.LeadTimeDays
	cols["status"] = m.Status
	cols["notes"] = m.Notes
	cols["updated_at"] = m.UpdatedAt
	return cols
}
