package partner

import (
	"net/mail"
	"strings"

	"github.com/google/uuid"
	"github.com/van-william/carbon-sub017/internal/domain/shared"
)

// Status represents the status of a customer or supplier
type Status string

const (
	StatusActive   Status = "active"
	StatusInactive Status = "inactive"
	StatusOnHold   Status = "on_hold"
)

// IsValid checks if the Status is a valid value
func (s Status) IsValid() bool {
	switch s {
	case StatusActive, StatusInactive, StatusOnHold:
		return true
	}
	return false
}

// Contact holds the reachable details shared by customers and suppliers
type Contact struct {
	Email   string
	Phone   string
	Website string
	Address string
	City    string
	Country string
}

// Customer is the aggregate root for a buying organization
type Customer struct {
	shared.CompanyAggregateRoot
	Code     string
	Name     string
	Contact  Contact
	TaxID    string
	Currency string
	Status   Status
	Notes    string
}

// NewCustomer creates a new customer. code usually comes from the customer sequence.
func NewCustomer(companyID uuid.UUID, code, name string) (*Customer, error) {
	if err := validateCode(code); err != nil {
		return nil, err
	}
	if err := validateName(name); err != nil {
		return nil, err
	}

	c := &Customer{
		CompanyAggregateRoot: shared.NewCompanyAggregateRoot(companyID),
		Code:                 strings.ToUpper(strings.TrimSpace(code)),
		Name:                 strings.TrimSpace(name),
		Currency:             "USD",
		Status:               StatusActive,
	}
	c.AddDomainEvent(NewCustomerCreatedEvent(c))
	return c, nil
}

// Rename changes the customer's display name
func (c *Customer) Rename(name string) error {
	if err := validateName(name); err != nil {
		return err
	}
	c.Name = strings.TrimSpace(name)
	c.Touch()
	return nil
}

// SetContact replaces the contact details
func (c *Customer) SetContact(contact Contact) error {
	if err := validateContact(contact); err != nil {
		return err
	}
	c.Contact = contact
	c.Touch()
	return nil
}

// SetStatus changes the customer status
func (c *Customer) SetStatus(status Status) error {
	if !status.IsValid() {
		return shared.NewDomainError("INVALID_STATUS", "Invalid customer status")
	}
	c.Status = status
	c.Touch()
	return nil
}

// SetCurrency sets the ISO currency code
func (c *Customer) SetCurrency(code string) error {
	cur, err := normalizeCurrency(code)
	if err != nil {
		return err
	}
	c.Currency = cur
	c.Touch()
	return nil
}

// IsActive reports whether new documents may be raised for the customer
func (c *Customer) IsActive() bool {
	return c.Status == StatusActive
}

func validateCode(code string) error {
	code = strings.TrimSpace(code)
	if code == "" {
		return shared.NewDomainError("INVALID_CODE", "Code cannot be empty")
	}
	if len(code) > 50 {
		return shared.NewDomainError("INVALID_CODE", "Code cannot exceed 50 characters")
	}
	return nil
}

func validateName(name string) error {
	name = strings.TrimSpace(name)
	if name == "" {
		return shared.NewDomainError("INVALID_NAME", "Name cannot be empty")
	}
	if len(name) > 200 {
		return shared.NewDomainError("INVALID_NAME", "Name cannot exceed 200 characters")
	}
	return nil
}

func validateContact(c Contact) error {
	if c.Email != "" {
		if _, err := mail.ParseAddress(c.Email); err != nil {
			return shared.NewDomainError("INVALID_EMAIL", "Invalid email format")
		}
	}
	if len(c.Phone) > 50 {
		return shared.NewDomainError("INVALID_PHONE", "Phone cannot exceed 50 characters")
	}
	if len(c.Address) > 500 {
		return shared.NewDomainError("INVALID_ADDRESS", "Address cannot exceed 500 characters")
	}
	return nil
}

func normalizeCurrency(code string) (string, error) {
	code = strings.ToUpper(strings.TrimSpace(code))
	if len(code) != 3 {
		return "", shared.NewDomainError("INVALID_CURRENCY", "Currency must be a 3 letter ISO code")
	}
	return code, nil
}
