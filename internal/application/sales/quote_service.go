// Package sales holds the quoting and sales order use cases.
package sales

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/van-william/carbon-sub017/internal/application/background"
	sequenceapp "github.com/van-william/carbon-sub017/internal/application/sequence"
	"github.com/van-william/carbon-sub017/internal/domain/catalog"
	"github.com/van-william/carbon-sub017/internal/domain/partner"
	"github.com/van-william/carbon-sub017/internal/domain/sales"
	"github.com/van-william/carbon-sub017/internal/domain/sequence"
	"github.com/van-william/carbon-sub017/internal/domain/shared"
	"github.com/van-william/carbon-sub017/internal/domain/task"
	"github.com/van-william/carbon-sub017/internal/infrastructure/logger"
	"go.uber.org/zap"
)

// QuoteService handles quote-related business operations
type QuoteService struct {
	quoteRepo      sales.QuoteRepository
	orderRepo      sales.SalesOrderRepository
	customerRepo   partner.CustomerRepository
	partRepo       catalog.PartRepository
	sequences      sequenceapp.Issuer
	dispatcher     task.Dispatcher
	eventPublisher shared.EventPublisher
	now            func() time.Time
}

// QuoteServiceConfig wires the QuoteService dependencies
type QuoteServiceConfig struct {
	QuoteRepo      sales.QuoteRepository
	OrderRepo      sales.SalesOrderRepository
	CustomerRepo   partner.CustomerRepository
	PartRepo       catalog.PartRepository
	Sequences      sequenceapp.Issuer
	Dispatcher     task.Dispatcher
	EventPublisher shared.EventPublisher
}

// NewQuoteService creates a new QuoteService
func NewQuoteService(cfg QuoteServiceConfig) *QuoteService {
	return &QuoteService{
		quoteRepo:      cfg.QuoteRepo,
		orderRepo:      cfg.OrderRepo,
		customerRepo:   cfg.CustomerRepo,
		partRepo:       cfg.PartRepo,
		sequences:      cfg.Sequences,
		dispatcher:     cfg.Dispatcher,
		eventPublisher: cfg.EventPublisher,
		now:            time.Now,
	}
}

// Create numbers and saves a draft quote with any initial lines
func (s *QuoteService) Create(ctx context.Context, companyID, userID uuid.UUID, req CreateQuoteRequest) (*QuoteResponse, error) {
	customer, err := s.customerRepo.FindByID(ctx, companyID, req.CustomerID)
	if err != nil {
		return nil, err
	}
	if !customer.IsActive() {
		return nil, shared.NewDomainError("CUSTOMER_INACTIVE", "Quotes cannot be raised for an inactive customer")
	}

	var created *sales.Quote
	err = s.sequences.WithNext(ctx, companyID, sequence.DocumentTypeQuote, func(number string) error {
		quote, err := sales.NewQuote(companyID, number, customer.ID)
		if err != nil {
			return err
		}
		quote.SetCreatedBy(userID)
		quote.Currency = customer.Currency
		if req.Currency != "" {
			quote.Currency = req.Currency
		}
		quote.Notes = req.Notes
		if err := quote.SetExpiration(req.ExpirationDate); err != nil {
			return err
		}
		for _, line := range req.Lines {
			if err := s.addLine(ctx, quote, line); err != nil {
				return err
			}
		}
		if err := s.quoteRepo.Create(ctx, quote); err != nil {
			return err
		}
		created = quote
		return nil
	})
	if err != nil {
		return nil, err
	}
	shared.PublishPending(ctx, s.eventPublisher, created)

	response := ToQuoteResponse(created)
	return &response, nil
}

func (s *QuoteService) addLine(ctx context.Context, quote *sales.Quote, req AddQuoteLineRequest) error {
	part, err := s.partRepo.FindByID(ctx, quote.CompanyID, req.PartID)
	if err != nil {
		return err
	}
	_, err = quote.AddLine(part, req.Description, req.Quantities, req.MarkupPercent)
	return err
}

// GetByID retrieves a quote by ID
func (s *QuoteService) GetByID(ctx context.Context, companyID, quoteID uuid.UUID) (*QuoteResponse, error) {
	quote, err := s.quoteRepo.FindByID(ctx, companyID, quoteID)
	if err != nil {
		return nil, err
	}
	response := ToQuoteResponse(quote)
	return &response, nil
}

// List retrieves one page of quotes
func (s *QuoteService) List(ctx context.Context, companyID uuid.UUID, filter shared.Filter) ([]QuoteResponse, int64, error) {
	quotes, total, err := s.quoteRepo.FindAll(ctx, companyID, filter)
	if err != nil {
		return nil, 0, err
	}
	out := make([]QuoteResponse, len(quotes))
	for i := range quotes {
		out[i] = ToQuoteResponse(&quotes[i])
	}
	return out, total, nil
}

// ListAll returns every quote matching filter, for export
func (s *QuoteService) ListAll(ctx context.Context, companyID uuid.UUID, filter shared.Filter) ([]sales.Quote, error) {
	return shared.CollectAll(filter, func(f shared.Filter) ([]sales.Quote, int64, error) {
		return s.quoteRepo.FindAll(ctx, companyID, f)
	})
}

// mutate loads a quote, checks the caller's version, applies fn and saves
func (s *QuoteService) mutate(ctx context.Context, companyID, quoteID uuid.UUID, version *int, fn func(*sales.Quote) error) (*sales.Quote, error) {
	quote, err := s.quoteRepo.FindByID(ctx, companyID, quoteID)
	if err != nil {
		return nil, err
	}
	if err := quote.CheckVersion(version); err != nil {
		return nil, err
	}
	expected := quote.Version
	if err := fn(quote); err != nil {
		return nil, err
	}
	if err := s.quoteRepo.Update(ctx, quote, expected); err != nil {
		return nil, err
	}
	shared.PublishPending(ctx, s.eventPublisher, quote)
	return quote, nil
}

func (s *QuoteService) respond(quote *sales.Quote, err error) (*QuoteResponse, error) {
	if err != nil {
		return nil, err
	}
	response := ToQuoteResponse(quote)
	return &response, nil
}

// Update patches the quote header
func (s *QuoteService) Update(ctx context.Context, companyID, quoteID uuid.UUID, req UpdateQuoteRequest) (*QuoteResponse, error) {
	return s.respond(s.mutate(ctx, companyID, quoteID, req.Version, func(q *sales.Quote) error {
		if req.ExpirationDate != nil {
			if err := q.SetExpiration(req.ExpirationDate); err != nil {
				return err
			}
		}
		if req.Notes != nil {
			return q.SetNotes(*req.Notes)
		}
		return nil
	}))
}

// AddLine prices a part on a draft quote
func (s *QuoteService) AddLine(ctx context.Context, companyID, quoteID uuid.UUID, req AddQuoteLineRequest) (*QuoteResponse, error) {
	return s.respond(s.mutate(ctx, companyID, quoteID, req.Version, func(q *sales.Quote) error {
		return s.addLine(ctx, q, req)
	}))
}

// RemoveLine drops a line from a draft quote
func (s *QuoteService) RemoveLine(ctx context.Context, companyID, quoteID, lineID uuid.UUID, version *int) (*QuoteResponse, error) {
	return s.respond(s.mutate(ctx, companyID, quoteID, version, func(q *sales.Quote) error {
		return q.RemoveLine(lineID)
	}))
}

// SelectQuantity records the quantity the customer is taking on a line
func (s *QuoteService) SelectQuantity(ctx context.Context, companyID, quoteID, lineID uuid.UUID, req SelectQuantityRequest) (*QuoteResponse, error) {
	return s.respond(s.mutate(ctx, companyID, quoteID, req.Version, func(q *sales.Quote) error {
		return q.SelectQuantity(lineID, req.Quantity)
	}))
}

// Recalculate reprices every line from current part costs
func (s *QuoteService) Recalculate(ctx context.Context, companyID, quoteID uuid.UUID) (*RecalculateResponse, error) {
	var updated int
	quote, err := s.mutate(ctx, companyID, quoteID, nil, func(q *sales.Quote) error {
		if q.Status.IsTerminal() {
			return shared.NewDomainError("INVALID_STATE", "Closed quotes cannot be repriced")
		}
		parts, err := s.partRepo.FindByIDs(ctx, companyID, q.PartIDs())
		if err != nil {
			return err
		}
		byID := make(map[uuid.UUID]*catalog.Part, len(parts))
		for i := range parts {
			byID[parts[i].ID] = &parts[i]
		}
		updated = q.Recalculate(byID)
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &RecalculateResponse{LinesUpdated: updated, Quote: ToQuoteResponse(quote)}, nil
}

// RequestRecalculation queues a reprice for the worker and returns at once
func (s *QuoteService) RequestRecalculation(ctx context.Context, companyID, quoteID uuid.UUID) (*TriggerResponse, error) {
	if _, err := s.quoteRepo.FindByID(ctx, companyID, quoteID); err != nil {
		return nil, err
	}
	tk, ok := background.Trigger(ctx, s.dispatcher, task.TypeRecalculatePrice, companyID, task.RecalculatePricePayload{QuoteID: quoteID})
	return &TriggerResponse{TaskID: tk.ID, Type: tk.Type.String(), Queued: ok}, nil
}

// Send marks the quote as sent to the customer
func (s *QuoteService) Send(ctx context.Context, companyID, quoteID uuid.UUID, req ActionRequest) (*QuoteResponse, error) {
	return s.respond(s.mutate(ctx, companyID, quoteID, req.Version, func(q *sales.Quote) error {
		return q.Send()
	}))
}

// Lose records that the customer declined
func (s *QuoteService) Lose(ctx context.Context, companyID, quoteID uuid.UUID, req ActionRequest) (*QuoteResponse, error) {
	return s.respond(s.mutate(ctx, companyID, quoteID, req.Version, func(q *sales.Quote) error {
		return q.MarkLost(req.Reason)
	}))
}

// Cancel withdraws the quote
func (s *QuoteService) Cancel(ctx context.Context, companyID, quoteID uuid.UUID, req ActionRequest) (*QuoteResponse, error) {
	return s.respond(s.mutate(ctx, companyID, quoteID, req.Version, func(q *sales.Quote) error {
		return q.Cancel()
	}))
}

// Expire closes a sent quote. Quotes whose expiration date has not passed
// are refused.
func (s *QuoteService) Expire(ctx context.Context, companyID, quoteID uuid.UUID, req ActionRequest) (*QuoteResponse, error) {
	return s.respond(s.mutate(ctx, companyID, quoteID, req.Version, func(q *sales.Quote) error {
		if q.ExpirationDate != nil && !q.IsExpired(s.now()) {
			return shared.NewDomainError("QUOTE_NOT_EXPIRED", "Quote is still within its validity period")
		}
		return q.Expire()
	}))
}

// Convert turns a draft or sent quote into a sales order numbered from the
// sales order sequence. The quote is claimed as ordered with a version-checked
// update before the order is inserted, so a quote converts at most once.
func (s *QuoteService) Convert(ctx context.Context, companyID, userID, quoteID uuid.UUID, req ActionRequest) (*SalesOrderResponse, error) {
	quote, err := s.quoteRepo.FindByID(ctx, companyID, quoteID)
	if err != nil {
		return nil, err
	}
	if err := quote.CheckVersion(req.Version); err != nil {
		return nil, err
	}
	expected := quote.Version
	previous := quote.Status

	var order *sales.SalesOrder
	err = s.sequences.WithNext(ctx, companyID, sequence.DocumentTypeSalesOrder, func(number string) error {
		o, err := sales.NewSalesOrderFromQuote(number, quote)
		if err != nil {
			return err
		}
		o.SetCreatedBy(userID)
		if err := quote.MarkOrdered(o.ID); err != nil {
			return err
		}
		if err := s.quoteRepo.Update(ctx, quote, expected); err != nil {
			return err
		}
		if err := s.orderRepo.Create(ctx, o); err != nil {
			s.releaseQuote(ctx, quote, previous, expected+1)
			return err
		}
		order = o
		return nil
	})
	if err != nil {
		return nil, err
	}
	shared.PublishPending(ctx, s.eventPublisher, quote)

	response := ToSalesOrderResponse(order)
	return &response, nil
}

// releaseQuote puts a claimed quote back to its prior status after the order
// insert failed
func (s *QuoteService) releaseQuote(ctx context.Context, quote *sales.Quote, status sales.QuoteStatus, version int) {
	quote.Status = status
	quote.SalesOrderID = nil
	quote.ClearDomainEvents()
	quote.Touch()
	if err := s.quoteRepo.Update(context.WithoutCancel(ctx), quote, version); err != nil {
		logger.L(ctx).Error("quote left ordered without a sales order",
			zap.String("quote_id", quote.ID.String()),
			zap.Error(err))
	}
}

// Delete removes a draft quote
func (s *QuoteService) Delete(ctx context.Context, companyID, quoteID uuid.UUID) error {
	quote, err := s.quoteRepo.FindByID(ctx, companyID, quoteID)
	if err != nil {
		return err
	}
	if !quote.IsEditable() {
		return shared.NewDomainError("INVALID_STATE", "Only draft quotes can be deleted")
	}
	return s.quoteRepo.Delete(ctx, companyID, quoteID)
}
