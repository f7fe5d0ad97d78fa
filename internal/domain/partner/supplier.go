package partner

import (
	"strings"

	"github.com/google/uuid"
	"github.com/van-william/carbon-sub017/internal/domain/shared"
)

// Supplier is the aggregate root for a vendor we buy from
type Supplier struct {
	shared.CompanyAggregateRoot
	Code         string
	Name         string
	Contact      Contact
	Currency     string
	LeadTimeDays int
	Status       Status
	Notes        string
}

// NewSupplier creates a new supplier
func NewSupplier(companyID uuid.UUID, code, name string) (*Supplier, error) {
	if err := validateCode(code); err != nil {
		return nil, err
	}
	if err := validateName(name); err != nil {
		return nil, err
	}

	s := &Supplier{
		CompanyAggregateRoot: shared.NewCompanyAggregateRoot(companyID),
		Code:                 strings.ToUpper(strings.TrimSpace(code)),
		Name:                 strings.TrimSpace(name),
		Currency:             "USD",
		Status:               StatusActive,
	}
	s.AddDomainEvent(NewSupplierCreatedEvent(s))
	return s, nil
}

// Rename changes the supplier's display name
func (s *Supplier) Rename(name string) error {
	if err := validateName(name); err != nil {
		return err
	}
	s.Name = strings.TrimSpace(name)
	s.Touch()
	return nil
}

// SetContact replaces the contact details
func (s *Supplier) SetContact(contact Contact) error {
	if err := validateContact(contact); err != nil {
		return err
	}
	s.Contact = contact
	s.Touch()
	return nil
}

// SetStatus changes the supplier status
func (s *Supplier) SetStatus(status Status) error {
	if !status.IsValid() {
		return shared.NewDomainError("INVALID_STATUS", "Invalid supplier status")
	}
	s.Status = status
	s.Touch()
	return nil
}

// SetCurrency sets the ISO currency code
func (s *Supplier) SetCurrency(code string) error {
	cur, err := normalizeCurrency(code)
	if err != nil {
		return err
	}
	s.Currency = cur
	s.Touch()
	return nil
}

// SetLeadTime sets the default purchasing lead time
func (s *Supplier) SetLeadTime(days int) error {
	if days < 0 || days > 365 {
		return shared.NewDomainError("INVALID_LEAD_TIME", "Lead time must be between 0 and 365 days")
	}
	s.LeadTimeDays = days
	s.Touch()
	return nil
}

// IsActive reports whether purchase orders may be raised for the supplier
func (s *Supplier) IsActive() bool {
	return s.Status == StatusActive
}
