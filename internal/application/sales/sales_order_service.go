package sales

import (
	"context"

	"github.com/google/uuid"
	sequenceapp "github.com/van-william/carbon-sub017/internal/application/sequence"
	"github.com/van-william/carbon-sub017/internal/domain/catalog"
	"github.com/van-william/carbon-sub017/internal/domain/partner"
	"github.com/van-william/carbon-sub017/internal/domain/sales"
	"github.com/van-william/carbon-sub017/internal/domain/sequence"
	"github.com/van-william/carbon-sub017/internal/domain/shared"
)

// SalesOrderService handles sales order business operations
type SalesOrderService struct {
	orderRepo      sales.SalesOrderRepository
	customerRepo   partner.CustomerRepository
	partRepo       catalog.PartRepository
	sequences      sequenceapp.Issuer
	eventPublisher shared.EventPublisher
}

// NewSalesOrderService creates a new SalesOrderService
func NewSalesOrderService(
	orderRepo sales.SalesOrderRepository,
	customerRepo partner.CustomerRepository,
	partRepo catalog.PartRepository,
	sequences sequenceapp.Issuer,
) *SalesOrderService {
	return &SalesOrderService{
		orderRepo:    orderRepo,
		customerRepo: customerRepo,
		partRepo:     partRepo,
		sequences:    sequences,
	}
}

// SetEventPublisher sets the event publisher for publishing domain events
func (s *SalesOrderService) SetEventPublisher(publisher shared.EventPublisher) {
	s.eventPublisher = publisher
}

// Create numbers and saves a draft sales order
func (s *SalesOrderService) Create(ctx context.Context, companyID, userID uuid.UUID, req CreateSalesOrderRequest) (*SalesOrderResponse, error) {
	customer, err := s.customerRepo.FindByID(ctx, companyID, req.CustomerID)
	if err != nil {
		return nil, err
	}
	if !customer.IsActive() {
		return nil, shared.NewDomainError("CUSTOMER_INACTIVE", "Orders cannot be raised for an inactive customer")
	}

	var created *sales.SalesOrder
	err = s.sequences.WithNext(ctx, companyID, sequence.DocumentTypeSalesOrder, func(number string) error {
		order, err := sales.NewSalesOrder(companyID, number, customer.ID)
		if err != nil {
			return err
		}
		order.SetCreatedBy(userID)
		order.Currency = customer.Currency
		if req.Currency != "" {
			order.Currency = req.Currency
		}
		order.Notes = req.Notes
		if err := order.SetPromisedDate(req.PromisedDate); err != nil {
			return err
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

	response := ToSalesOrderResponse(created)
	return &response, nil
}

func (s *SalesOrderService) addLines(ctx context.Context, order *sales.SalesOrder, lines []OrderLineRequest) error {
	for _, l := range lines {
		part, err := s.partRepo.FindByID(ctx, order.CompanyID, l.PartID)
		if err != nil {
			return err
		}
		price := part.PriceFor(l.Quantity)
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

// GetByID retrieves a sales order by ID
func (s *SalesOrderService) GetByID(ctx context.Context, companyID, orderID uuid.UUID) (*SalesOrderResponse, error) {
	order, err := s.orderRepo.FindByID(ctx, companyID, orderID)
	if err != nil {
		return nil, err
	}
	response := ToSalesOrderResponse(order)
	return &response, nil
}

// List retrieves one page of sales orders
func (s *SalesOrderService) List(ctx context.Context, companyID uuid.UUID, filter shared.Filter) ([]SalesOrderResponse, int64, error) {
	orders, total, err := s.orderRepo.FindAll(ctx, companyID, filter)
	if err != nil {
		return nil, 0, err
	}
	out := make([]SalesOrderResponse, len(orders))
	for i := range orders {
		out[i] = ToSalesOrderResponse(&orders[i])
	}
	return out, total, nil
}

// ListAll returns every order matching filter, for export
func (s *SalesOrderService) ListAll(ctx context.Context, companyID uuid.UUID, filter shared.Filter) ([]sales.SalesOrder, error) {
	return shared.CollectAll(filter, func(f shared.Filter) ([]sales.SalesOrder, int64, error) {
		return s.orderRepo.FindAll(ctx, companyID, f)
	})
}

func (s *SalesOrderService) mutate(ctx context.Context, companyID, orderID uuid.UUID, version *int, fn func(*sales.SalesOrder) error) (*SalesOrderResponse, error) {
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

	response := ToSalesOrderResponse(order)
	return &response, nil
}

// Update patches the order
func (s *SalesOrderService) Update(ctx context.Context, companyID, orderID uuid.UUID, req UpdateSalesOrderRequest) (*SalesOrderResponse, error) {
	return s.mutate(ctx, companyID, orderID, req.Version, func(o *sales.SalesOrder) error {
		if req.PromisedDate != nil {
			if err := o.SetPromisedDate(req.PromisedDate); err != nil {
				return err
			}
		}
		if req.Notes != nil {
			o.SetNotes(*req.Notes)
		}
		if req.Lines != nil {
			if o.Status != sales.OrderStatusDraft {
				return shared.NewDomainError("ORDER_NOT_EDITABLE", "Lines can only change while the order is a draft")
			}
			o.Lines = o.Lines[:0]
			return s.addLines(ctx, o, *req.Lines)
		}
		return nil
	})
}

// Confirm accepts the order
func (s *SalesOrderService) Confirm(ctx context.Context, companyID, orderID uuid.UUID, req ActionRequest) (*SalesOrderResponse, error) {
	return s.mutate(ctx, companyID, orderID, req.Version, func(o *sales.SalesOrder) error { return o.Confirm() })
}

// Start marks fulfilment as begun
func (s *SalesOrderService) Start(ctx context.Context, companyID, orderID uuid.UUID, req ActionRequest) (*SalesOrderResponse, error) {
	return s.mutate(ctx, companyID, orderID, req.Version, func(o *sales.SalesOrder) error { return o.Start() })
}

// Complete closes a fulfilled order
func (s *SalesOrderService) Complete(ctx context.Context, companyID, orderID uuid.UUID, req ActionRequest) (*SalesOrderResponse, error) {
	return s.mutate(ctx, companyID, orderID, req.Version, func(o *sales.SalesOrder) error { return o.Complete() })
}

// Cancel cancels the order
func (s *SalesOrderService) Cancel(ctx context.Context, companyID, orderID uuid.UUID, req ActionRequest) (*SalesOrderResponse, error) {
	return s.mutate(ctx, companyID, orderID, req.Version, func(o *sales.SalesOrder) error { return o.Cancel(req.Reason) })
}

// Delete removes a draft order
func (s *SalesOrderService) Delete(ctx context.Context, companyID, orderID uuid.UUID) error {
	order, err := s.orderRepo.FindByID(ctx, companyID, orderID)
	if err != nil {
		return err
	}
	if order.Status != sales.OrderStatusDraft {
		return shared.NewDomainError("INVALID_STATE", "Only draft orders can be deleted")
	}
	return s.orderRepo.Delete(ctx, companyID, orderID)
}
