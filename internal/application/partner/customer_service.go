// Package partner holds the customer and supplier use cases.
package partner

import (
	"context"
	"strings"

	"github.com/google/uuid"
	sequenceapp "github.com/van-william/carbon-sub017/internal/application/sequence"
	"github.com/van-william/carbon-sub017/internal/domain/partner"
	"github.com/van-william/carbon-sub017/internal/domain/sequence"
	"github.com/van-william/carbon-sub017/internal/domain/shared"
)

// CustomerService handles customer-related business operations
type CustomerService struct {
	customerRepo   partner.CustomerRepository
	sequences      sequenceapp.Issuer
	eventPublisher shared.EventPublisher
}

// NewCustomerService creates a new CustomerService
func NewCustomerService(customerRepo partner.CustomerRepository, sequences sequenceapp.Issuer) *CustomerService {
	return &CustomerService{
		customerRepo: customerRepo,
		sequences:    sequences,
	}
}

// SetEventPublisher sets the event publisher for publishing domain events
func (s *CustomerService) SetEventPublisher(publisher shared.EventPublisher) {
	s.eventPublisher = publisher
}

// Create creates a new customer
func (s *CustomerService) Create(ctx context.Context, companyID, userID uuid.UUID, req CreateCustomerRequest) (*CustomerResponse, error) {
	var created *partner.Customer
	insert := func(code string) error {
		customer, err := partner.NewCustomer(companyID, code, req.Name)
		if err != nil {
			return err
		}
		customer.SetCreatedBy(userID)
		customer.TaxID = strings.TrimSpace(req.TaxID)
		customer.Notes = req.Notes
		if req.Currency != "" {
			if err := customer.SetCurrency(req.Currency); err != nil {
				return err
			}
		}
		if err := customer.SetContact(req.Contact.toDomain()); err != nil {
			return err
		}
		if err := s.customerRepo.Create(ctx, customer); err != nil {
			return err
		}
		created = customer
		return nil
	}

	var err error
	if code := strings.TrimSpace(req.Code); code != "" {
		err = insert(code)
	} else {
		err = s.sequences.WithNext(ctx, companyID, sequence.DocumentTypeCustomer, insert)
	}
	if err != nil {
		return nil, err
	}

	shared.PublishPending(ctx, s.eventPublisher, created)
	response := ToCustomerResponse(created)
	return &response, nil
}

// GetByID retrieves a customer by ID
func (s *CustomerService) GetByID(ctx context.Context, companyID, customerID uuid.UUID) (*CustomerResponse, error) {
	customer, err := s.customerRepo.FindByID(ctx, companyID, customerID)
	if err != nil {
		return nil, err
	}
	response := ToCustomerResponse(customer)
	return &response, nil
}

// List retrieves one page of customers
func (s *CustomerService) List(ctx context.Context, companyID uuid.UUID, filter shared.Filter) ([]CustomerResponse, int64, error) {
	customers, total, err := s.customerRepo.FindAll(ctx, companyID, filter)
	if err != nil {
		return nil, 0, err
	}
	out := make([]CustomerResponse, len(customers))
	for i := range customers {
		out[i] = ToCustomerResponse(&customers[i])
	}
	return out, total, nil
}

// Update applies a partial update. A stale Version yields ErrConcurrencyConflict.
func (s *CustomerService) Update(ctx context.Context, companyID, customerID uuid.UUID, req UpdateCustomerRequest) (*CustomerResponse, error) {
	customer, err := s.customerRepo.FindByID(ctx, companyID, customerID)
	if err != nil {
		return nil, err
	}
	if err := customer.CheckVersion(req.Version); err != nil {
		return nil, err
	}
	expected := customer.Version

	if req.Name != nil {
		if err := customer.Rename(*req.Name); err != nil {
			return nil, err
		}
	}
	if req.TaxID != nil {
		customer.TaxID = strings.TrimSpace(*req.TaxID)
	}
	if req.Currency != nil {
		if err := customer.SetCurrency(*req.Currency); err != nil {
			return nil, err
		}
	}
	if req.Status != nil {
		if err := customer.SetStatus(partner.Status(*req.Status)); err != nil {
			return nil, err
		}
	}
	if req.Notes != nil {
		customer.Notes = *req.Notes
	}
	if req.Contact != nil {
		if err := customer.SetContact(req.Contact.toDomain()); err != nil {
			return nil, err
		}
	}

	if err := s.customerRepo.Update(ctx, customer, expected); err != nil {
		return nil, err
	}
	response := ToCustomerResponse(customer)
	return &response, nil
}

// Delete removes a customer
func (s *CustomerService) Delete(ctx context.Context, companyID, customerID uuid.UUID) error {
	return s.customerRepo.Delete(ctx, companyID, customerID)
}

// Names maps customer IDs to display names for list exports. Missing
// customers are skipped.
func (s *CustomerService) Names(ctx context.Context, companyID uuid.UUID, ids []uuid.UUID) map[uuid.UUID]string {
	names := make(map[uuid.UUID]string, len(ids))
	for _, id := range ids {
		if _, ok := names[id]; ok {
			continue
		}
		if c, err := s.customerRepo.FindByID(ctx, companyID, id); err == nil {
			names[id] = c.Name
		}
	}
	return names
}
