package partner

import "github.com/van-william/carbon-sub017/internal/domain/shared"

const (
	AggregateTypeCustomer = "Customer"
	AggregateTypeSupplier = "Supplier"

	EventTypeCustomerCreated = "CustomerCreated"
	EventTypeSupplierCreated = "SupplierCreated"
)

// CustomerCreatedEvent is raised when a new customer is created
type CustomerCreatedEvent struct {
	shared.BaseDomainEvent
	Code string `json:"code"`
	Name string `json:"name"`
}

// NewCustomerCreatedEvent creates a new CustomerCreatedEvent
func NewCustomerCreatedEvent(c *Customer) *CustomerCreatedEvent {
	return &CustomerCreatedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeCustomerCreated, AggregateTypeCustomer, c.ID, c.CompanyID),
		Code:            c.Code,
		Name:            c.Name,
	}
}

// SupplierCreatedEvent is raised when a new supplier is created
type SupplierCreatedEvent struct {
	shared.BaseDomainEvent
	Code string `json:"code"`
	Name string `json:"name"`
}

// NewSupplierCreatedEvent creates a new SupplierCreatedEvent
func NewSupplierCreatedEvent(s *Supplier) *SupplierCreatedEvent {
	return &SupplierCreatedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeSupplierCreated, AggregateTypeSupplier, s.ID, s.CompanyID),
		Code:            s.Code,
		Name:            s.Name,
	}
}
