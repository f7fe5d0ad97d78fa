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

// SupplierService handles supplier-related business operations
type SupplierService struct {
	supplierRepo   partner.SupplierRepository
	sequences      sequenceapp.Issuer
	eventPublisher shared.EventPublisher
}

// NewSupplierService creates a new SupplierService
func NewSupplierService(supplierRepo partner.SupplierRepository, sequences sequenceapp.Issuer) *SupplierService {
	return &SupplierService{
		supplierRepo: supplierRepo,
		sequences:    sequences,
	}
}

// SetEventPublisher sets the event publisher for publishing domain events
func (s *SupplierService) SetEventPublisher(publisher shared.EventPublisher) {
	s.eventPublisher = publisher
}

// Create creates a new supplier, numbering it from the supplier sequence
// when no code is given
func (s *SupplierService) Create(ctx context.Context, companyID, userID uuid.UUID, req CreateSupplierRequest) (*SupplierResponse, error) {
	var created *partner.Supplier
	insert := func(code string) error {
		supplier, err := partner.NewSupplier(companyID, code, req.Name)
		if err != nil {
			return err
		}
		supplier.SetCreatedBy(userID)
		supplier.Notes = req.Notes
		if req.Currency != "" {
			if err := supplier.SetCurrency(req.Currency); err != nil {
				return err
			}
		}
		if err := supplier.SetLeadTime(req.LeadTimeDays); err != nil {
			return err
		}
		if err := supplier.SetContact(req.Contact.toDomain()); err != nil {
			return err
		}
		if err := s.supplierRepo.Create(ctx, supplier); err != nil {
			return err
		}
		created = supplier
		return nil
	}

	var err error
	if code := strings.TrimSpace(req.Code); code != "" {
		err = insert(code)
	} else {
		err = s.sequences.WithNext(ctx, companyID, sequence.DocumentTypeSupplier, insert)
	}
	if err != nil {
		return nil, err
	}

	shared.PublishPending(ctx, s.eventPublisher, created)
	response := ToSupplierResponse(created)
	return &response, nil
}

// GetByID retrieves a supplier by ID
func (s *SupplierService) GetByID(ctx context.Context, companyID, supplierID uuid.UUID) (*SupplierResponse, error) {
	supplier, err := s.supplierRepo.FindByID(ctx, companyID, supplierID)
	if err != nil {
		return nil, err
	}
	response := ToSupplierResponse(supplier)
	return &response, nil
}

// List retrieves one page of suppliers
func (s *SupplierService) List(ctx context.Context, companyID uuid.UUID, filter shared.Filter) ([]SupplierResponse, int64, error) {
	suppliers, total, err := s.supplierRepo.FindAll(ctx, companyID, filter)
	if err != nil {
		return nil, 0, err
	}
	out := make([]SupplierResponse, len(suppliers))
	for i := range suppliers {
		out[i] = ToSupplierResponse(&suppliers[i])
	}
	return out, total, nil
}

// Update applies a partial update
func (s *SupplierService) Update(ctx context.Context, companyID, supplierID uuid.UUID, req UpdateSupplierRequest) (*SupplierResponse, error) {
	supplier, err := s.supplierRepo.FindByID(ctx, companyID, supplierID)
	if err != nil {
		return nil, err
	}
	if err := supplier.CheckVersion(req.Version); err != nil {
		return nil, err
	}
	expected := supplier.Version

	if req.Name != nil {
		if err := supplier.Rename(*req.Name); err != nil {
			return nil, err
		}
	}
	if req.Currency != nil {
		if err := supplier.SetCurrency(*req.Currency); err != nil {
			return nil, err
		}
	}
	if req.LeadTimeDays != nil {
		if err := supplier.SetLeadTime(*req.LeadTimeDays); err != nil {
			return nil, err
		}
	}
	if req.Status != nil {
		if err := supplier.SetStatus(partner.Status(*req.Status)); err != nil {
			return nil, err
		}
	}
	if req.Notes != nil {
		supplier.Notes = *req.Notes
	}
	if req.Contact != nil {
		if err := supplier.SetContact(req.Contact.toDomain()); err != nil {
			return nil, err
		}
	}

	if err := s.supplierRepo.Update(ctx, supplier, expected); err != nil {
		return nil, err
	}
	response := ToSupplierResponse(supplier)
	return &response, nil
}

// Delete removes a supplier
func (s *SupplierService) Delete(ctx context.Context, companyID, supplierID uuid.UUID) error {
	return s.supplierRepo.Delete(ctx, companyID, supplierID)
}

// Names maps supplier IDs to display names for list exports
func (s *SupplierService) Names(ctx context.Context, companyID uuid.UUID, ids []uuid.UUID) map[uuid.UUID]string {
	names := make(map[uuid.UUID]string, len(ids))
	for _, id := range ids {
		if _, ok := names[id]; ok {
			continue
		}
		if sup, err := s.supplierRepo.FindByID(ctx, companyID, id); err == nil {
			names[id] = sup.Name
		}
	}
	return names
}
