package partner

import (
	"time"

	"github.com/google/uuid"
	"github.com/van-william/carbon-sub017/internal/domain/partner"
)

// ContactRequest carries the contact fields shared by customers and suppliers
type ContactRequest struct {
	Email   string `json:"email" binding:"omitempty,email,max=200"`
	Phone   string `json:"phone" binding:"max=50"`
	Website string `json:"website" binding:"omitempty,url,max=200"`
	Address string `json:"address" binding:"max=500"`
	City    string `json:"city" binding:"max=100"`
	Country string `json:"country" binding:"max=100"`
}

func (r ContactRequest) toDomain() partner.Contact {
	return partner.Contact(r)
}

// CreateCustomerRequest creates a customer. An empty code is taken from the
// customer sequence.
type CreateCustomerRequest struct {
	Code     string         `json:"code" binding:"max=50"`
	Name     string         `json:"name" binding:"required,min=1,max=200"`
	TaxID    string         `json:"tax_id" binding:"max=50"`
	Currency string         `json:"currency" binding:"omitempty,len=3"`
	Notes    string         `json:"notes"`
	Contact  ContactRequest `json:"contact"`
}

// UpdateCustomerRequest patches a customer. Version enables the stale-copy check.
type UpdateCustomerRequest struct {
	Name     *string         `json:"name" binding:"omitempty,min=1,max=200"`
	TaxID    *string         `json:"tax_id" binding:"omitempty,max=50"`
	Currency *string         `json:"currency" binding:"omitempty,len=3"`
	Status   *string         `json:"status" binding:"omitempty,oneof=active inactive on_hold"`
	Notes    *string         `json:"notes"`
	Contact  *ContactRequest `json:"contact"`
	Version  *int            `json:"version"`
}

// CreateSupplierRequest creates a supplier
type CreateSupplierRequest struct {
	Code         string         `json:"code" binding:"max=50"`
	Name         string         `json:"name" binding:"required,min=1,max=200"`
	Currency     string         `json:"currency" binding:"omitempty,len=3"`
	LeadTimeDays int            `json:"lead_time_days" binding:"min=0,max=365"`
	Notes        string         `json:"notes"`
	Contact      ContactRequest `json:"contact"`
}

// UpdateSupplierRequest patches a supplier
type UpdateSupplierRequest struct {
	Name         *string         `json:"name" binding:"omitempty,min=1,max=200"`
	Currency     *string         `json:"currency" binding:"omitempty,len=3"`
	LeadTimeDays *int            `json:"lead_time_days" binding:"omitempty,min=0,max=365"`
	Status       *string         `json:"status" binding:"omitempty,oneof=active inactive on_hold"`
	Notes        *string         `json:"notes"`
	Contact      *ContactRequest `json:"contact"`
	Version      *int            `json:"version"`
}

// ContactResponse is the contact block in API responses
type ContactResponse struct {
	Email   string `json:"email"`
	Phone   string `json:"phone"`
	Website string `json:"website"`
	Address string `json:"address"`
	City    string `json:"city"`
	Country string `json:"country"`
}

// CustomerResponse represents a customer in API responses
type CustomerResponse struct {
	ID        uuid.UUID       `json:"id"`
	CompanyID uuid.UUID       `json:"company_id"`
	Code      string          `json:"code"`
	Name      string          `json:"name"`
	TaxID     string          `json:"tax_id"`
	Currency  string          `json:"currency"`
	Status    string          `json:"status"`
	Notes     string          `json:"notes"`
	Contact   ContactResponse `json:"contact"`
	CreatedAt time.Time       `json:"created_at"`
	UpdatedAt time.Time       `json:"updated_at"`
	Version   int             `json:"version"`
}

// SupplierResponse represents a supplier in API responses
type SupplierResponse struct {
	ID           uuid.UUID       `json:"id"`
	CompanyID    uuid.UUID       `json:"company_id"`
	Code         string          `json:"code"`
	Name         string          `json:"name"`
	Currency     string          `json:"currency"`
	LeadTimeDays int             `json:"lead_time_days"`
	Status       string          `json:"status"`
	Notes        string          `json:"notes"`
	Contact      ContactResponse `json:"contact"`
	CreatedAt    time.Time       `json:"created_at"`
	UpdatedAt    time.Time       `json:"updated_at"`
	Version      int             `json:"version"`
}

// ToCustomerResponse converts a domain Customer to CustomerResponse
func ToCustomerResponse(c *partner.Customer) CustomerResponse {
	return CustomerResponse{
		ID:        c.ID,
		CompanyID: c.CompanyID,
		Code:      c.Code,
		Name:      c.Name,
		TaxID:     c.TaxID,
		Currency:  c.Currency,
		Status:    string(c.Status),
		Notes:     c.Notes,
		Contact:   ContactResponse(c.Contact),
		CreatedAt: c.CreatedAt,
		UpdatedAt: c.UpdatedAt,
		Version:   c.Version,
	}
}

// ToSupplierResponse converts a domain Supplier to SupplierResponse
func ToSupplierResponse(s *partner.Supplier) SupplierResponse {
	return SupplierResponse{
		ID:           s.ID,
		CompanyID:    s.CompanyID,
		Code:         s.Code,
		Name:         s.Name,
		Currency:     s.Currency,
		LeadTimeDays: s.LeadTimeDays,
		Status:       string(s.Status),
		Notes:        s.Notes,
		Contact:      ContactResponse(s.Contact),
		CreatedAt:    s.CreatedAt,
		UpdatedAt:    s.UpdatedAt,
		Version:      s.Version,
	}
}
