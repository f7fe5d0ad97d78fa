package sales

import (
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/van-william/carbon-sub017/internal/domain/shared"
)

const (
	AggregateTypeQuote      = "Quote"
	AggregateTypeSalesOrder = "SalesOrder"

	EventTypeQuoteCreated        = "QuoteCreated"
	EventTypeQuoteSent           = "QuoteSent"
	EventTypeQuoteOrdered        = "QuoteOrdered"
	EventTypeSalesOrderConfirmed = "SalesOrderConfirmed"
)

// QuoteCreatedEvent is raised when a draft quote is numbered
type QuoteCreatedEvent struct {
	shared.BaseDomainEvent
	QuoteNumber string    `json:"quote_number"`
	CustomerID  uuid.UUID `json:"customer_id"`
}

// NewQuoteCreatedEvent creates a new QuoteCreatedEvent
func NewQuoteCreatedEvent(q *Quote) *QuoteCreatedEvent {
	return &QuoteCreatedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeQuoteCreated, AggregateTypeQuote, q.ID, q.CompanyID),
		QuoteNumber:     q.QuoteNumber,
		CustomerID:      q.CustomerID,
	}
}

// QuoteSentEvent is raised when a quote goes out to the customer
type QuoteSentEvent struct {
	shared.BaseDomainEvent
	QuoteNumber string          `json:"quote_number"`
	CustomerID  uuid.UUID       `json:"customer_id"`
	Total       decimal.Decimal `json:"total"`
}

// NewQuoteSentEvent creates a new QuoteSentEvent
func NewQuoteSentEvent(q *Quote) *QuoteSentEvent {
	return &QuoteSentEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeQuoteSent, AggregateTypeQuote, q.ID, q.CompanyID),
		QuoteNumber:     q.QuoteNumber,
		CustomerID:      q.CustomerID,
		Total:           q.Total(),
	}
}

// QuoteOrderedEvent is raised when a quote is converted into a sales order
type QuoteOrderedEvent struct {
	shared.BaseDomainEvent
	QuoteNumber  string    `json:"quote_number"`
	SalesOrderID uuid.UUID `json:"sales_order_id"`
}

// NewQuoteOrderedEvent creates a new QuoteOrderedEvent
func NewQuoteOrderedEvent(q *Quote) *QuoteOrderedEvent {
	e := &QuoteOrderedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeQuoteOrdered, AggregateTypeQuote, q.ID, q.CompanyID),
		QuoteNumber:     q.QuoteNumber,
	}
	if q.SalesOrderID != nil {
		e.SalesOrderID = *q.SalesOrderID
	}
	return e
}

// SalesOrderConfirmedEvent is raised when an order is confirmed
type SalesOrderConfirmedEvent struct {
	shared.BaseDomainEvent
	OrderNumber string          `json:"order_number"`
	CustomerID  uuid.UUID       `json:"customer_id"`
	Total       decimal.Decimal `json:"total"`
}

// NewSalesOrderConfirmedEvent creates a new SalesOrderConfirmedEvent
func NewSalesOrderConfirmedEvent(o *SalesOrder) *SalesOrderConfirmedEvent {
	return &SalesOrderConfirmedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeSalesOrderConfirmed, AggregateTypeSalesOrder, o.ID, o.CompanyID),
		OrderNumber:     o.OrderNumber,
		CustomerID:      o.CustomerID,
		Total:           o.Total(),
	}
}
