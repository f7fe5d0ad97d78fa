package purchasing

import (
	"context"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	sequenceapp "github.com/van-william/carbon-sub017/internal/application/sequence"
	"github.com/van-william/carbon-sub017/internal/domain/catalog"
	"github.com/van-william/carbon-sub017/internal/domain/partner"
	"github.com/van-william/carbon-sub017/internal/domain/purchasing"
	"github.com/van-william/carbon-sub017/internal/domain/sequence"
	"github.com/van-william/carbon-sub017/internal/domain/shared"
)

// PurchaseOrderService handles purchase order business operations
type PurchaseOrderService struct {
	orderRepo      purchasing.PurchaseOrderRepository
	supplierRepo   partner.SupplierRepository
	partRepo       catalog.PartRepository
	sequences      sequenceapp.Issuer
	eventPublisher shared.EventPublisher
}

// NewPurchaseOrderService creates a new PurchaseOrderService
func NewPurchaseOrderService(
	orderRepo purchasing.PurchaseOrderRepository,
	supplierRepo partner.SupplierRepository,
	partRepo catalog.PartRepository,
	sequences sequenceapp.Issuer,
) *PurchaseOrderService {
	return &PurchaseOrderService{
		orderRepo:    orderRepo,
		supplierRepo: supplierRepo,
		partRepo:     partRepo,
		sequences:    sequences,
	}
}

// SetEventPublisher sets the event publisher for publishing domain events
func (s *PurchaseOrderService) SetEventPublisher(publisher shared.EventPublisher) {
	s.eventPublisher = publisher
}

// Create numbers and saves a draft purchase order
func (s *PurchaseOrderService) Create(ctx context.Context, companyID, userID uuid.UUID, req CreatePurchaseOrderRequest) (*PurchaseOrderResponse, error) {
	supplier, err := s.supplierRepo.FindByID(ctx, companyID, req.SupplierID)
	if err != nil {
		return nil, err
	}
	if !supplier.IsActive() {
		return nil, shared.NewDomainError("SUPPLIER_INACTIVE", "Orders cannot be placed with an inactive supplier")
	}

	var created *purchasing.PurchaseOrder
	err = s.sequences.WithNext(ctx, companyID, sequence.DocumentTypePurchaseOrder, func(number string) error {
		order, err := purchasing.NewPurchaseOrder(companyID, number, supplier.ID)
		if err != nil {
			return err
		}
		order.SetCreatedBy(userID)
		order.Currency = supplier.Currency
		if req.Currency != "" {
			order.Currency = req.Currency
		}
		order.Notes = req.Notes
		order.ExpectedDate = req.ExpectedDate
		if order.ExpectedDate == nil && supplier.LeadTimeDays > 0 {
			expected := order.OrderDate.AddDate(0, 0, supplier.LeadTimeDays)
			order.ExpectedDate = &expected
		}
		if err := s.addLines(ctx, order, req.Lines); err != nil {
			return err
		}
		if err := s.orderRepo.Create(ctx, order); err != nil {
			return err
		}
		created = order
		return nil
	})
	if err != nil {
		return nil, err
	}

	response := ToPurchaseOrderResponse(created)
	return &response, nil
}

func (s *PurchaseOrderService) addLines(ctx context.Context, order *purchasing.PurchaseOrder, lines []PurchaseLineRequest) error {
	for _, l := range lines {
		part, err := s.partRepo.FindByID(ctx, order.CompanyID, l.PartID)
		if err != nil {
			return err
		}
		price := part.Cost.UnitCost()
		if l.UnitPrice != nil {
			price = *l.UnitPrice
		}
		desc := l.Description
		if desc == "" {
			desc = part.Name
		}
		if err := order.AddLine(part.ID, part.PartNumber, desc, l.Quantity, price); err != nil {
			return err
		}
	}
	return nil
}

// GetByID retrieves a purchase order by ID
func (s *PurchaseOrderService) GetByID(ctx context.Context, companyID, orderID uuid.UUID) (*PurchaseOrderResponse, error) {
	order, err := s.orderRepo.FindByID(ctx, companyID, orderID)
	if err != nil {
		return nil, err
	}
	response := ToPurchaseOrderResponse(order)
	return &response, nil
}

// List retrieves one page of purchase orders
func (s *PurchaseOrderService) List(ctx context.Context, companyID uuid.UUID, filter shared.Filter) ([]PurchaseOrderResponse, int64, error) {
	orders, total, err := s.orderRepo.FindAll(ctx, companyID, filter)
	if err != nil {
		return nil, 0, err
	}
	out := make([]PurchaseOrderResponse, len(orders))
	for i := range orders {
		out[i] = ToPurchaseOrderResponse(&orders[i])
	}
	return out, total, nil
}

// ListAll returns every purchase order matching filter, for export
func (s *PurchaseOrderService) ListAll(ctx context.Context, companyID uuid.UUID, filter shared.Filter) ([]purchasing.PurchaseOrder, error) {
	return shared.CollectAll(filter, func(f shared.Filter) ([]purchasing.PurchaseOrder, int64, error) {
		return s.orderRepo.FindAll(ctx, companyID, f)
	})
}

func (s *PurchaseOrderService) mutate(ctx context.Context, companyID, orderID uuid.UUID, version *int, fn func(*purchasing.PurchaseOrder) error) (*PurchaseOrderResponse, error) {
	order, err := s.orderRepo.FindByID(ctx, companyID, orderID)
	if err != nil {
		return nil, err
	}
	if err := order.CheckVersion(version); err != nil {
		return nil, err
	}
	expected := order.Version
	if err := fn(order); err != nil {
		return nil, err
	}
	if err := s.orderRepo.Update(ctx, order, expected); err != nil {
		return nil, err
	}
	shared.PublishPending(ctx, s.eventPublisher, order)

	response := ToPurchaseOrderResponse(order)
	return &response, nil
}

// Update patches the order
func (s *PurchaseOrderService) Update(ctx context.Context, companyID, orderID uuid.UUID, req UpdatePurchaseOrderRequest) (*PurchaseOrderResponse, error) {
	return s.mutate(ctx, companyID, orderID, req.Version, func(o *purchasing.PurchaseOrder) error {
		if req.ExpectedDate != nil {
			o.SetExpectedDate(req.ExpectedDate)
		}
		if req.Notes != nil {
			o.SetNotes(*req.Notes)
		}
		if req.Lines != nil {
			if o.Status != purchasing.OrderStatusDraft {
				return shared.NewDomainError("ORDER_NOT_EDITABLE", "Lines can only change while the order is a draft")
			}
			o.Lines = o.Lines[:0]
			return s.addLines(ctx, o, *req.Lines)
		}
		return nil
	})
}

// Submit sends the order to the supplier
func (s *PurchaseOrderService) Submit(ctx context.Context, companyID, orderID uuid.UUID, req ActionRequest) (*PurchaseOrderResponse, error) {
	return s.mutate(ctx, companyID, orderID, req.Version, func(o *purchasing.PurchaseOrder) error { return o.Submit() })
}

// Receive books a delivery against the order lines
func (s *PurchaseOrderService) Receive(ctx context.Context, companyID, orderID uuid.UUID, req ReceiveRequest) (*PurchaseOrderResponse, error) {
	quantities := make(map[uuid.UUID]decimal.Decimal, len(req.Lines))
	for _, l := range req.Lines {
		if _, dup := quantities[l.LineID]; dup {
			return nil, shared.NewDomainError("INVALID_QUANTITY", "Each line may appear once per receipt")
		}
		quantities[l.LineID] = l.Quantity
	}
	return s.mutate(ctx, companyID, orderID, req.Version, func(o *purchasing.PurchaseOrder) error {
		return o.Receive(quantities)
	})
}

// Close finishes the order
func (s *PurchaseOrderService) Close(ctx context.Context, companyID, orderID uuid.UUID, req ActionRequest) (*PurchaseOrderResponse, error) {
	return s.mutate(ctx, companyID, orderID, req.Version, func(o *purchasing.PurchaseOrder) error { return o.Close() })
}

// Cancel cancels the order
func (s *PurchaseOrderService) Cancel(ctx context.Context, companyID, orderID uuid.UUID, req ActionRequest) (*PurchaseOrderResponse, error) {
	return s.mutate(ctx, companyID, orderID, req.Version, func(o *purchasing.PurchaseOrder) error { return o.Cancel(req.Reason) })
}

// Delete removes a draft order
func (s *PurchaseOrderService) Delete(ctx context.Context, companyID, orderID uuid.UUID) error {
	order, err := s.orderRepo.FindByID(ctx, companyID, orderID)
	if err != nil {
		return err
	}
	if order.Status != purchasing.OrderStatusDraft {
		return shared.NewDomainError("INVALID_STATE", "Only draft orders can be deleted")
	}
	return s.orderRepo.Delete(ctx, companyID, orderID)
}
