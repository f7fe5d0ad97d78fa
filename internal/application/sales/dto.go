package sales

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/van-william/carbon-sub017/internal/domain/sales"
)

// =============================================================================
// Quote DTOs
// =============================================================================

// AddQuoteLineRequest prices a part at one or more quantities
type AddQuoteLineRequest struct {
	PartID        uuid.UUID         `json:"part_id" binding:"required"`
	Description   string            `json:"description" binding:"max=500"`
	Quantities    []decimal.Decimal `json:"quantities" binding:"required,min=1,max=10"`
	MarkupPercent decimal.Decimal   `json:"markup_percent"`
	Version       *int              `json:"version"`
}

// CreateQuoteRequest creates a draft quote
type CreateQuoteRequest struct {
	CustomerID     uuid.UUID             `json:"customer_id" binding:"required"`
	Currency       string                `json:"currency" binding:"omitempty,len=3"`
	ExpirationDate *time.Time            `json:"expiration_date"`
	Notes          string                `json:"notes"`
	Lines          []AddQuoteLineRequest `json:"lines" binding:"dive"`
}

// UpdateQuoteRequest patches the quote header
type UpdateQuoteRequest struct {
	ExpirationDate *time.Time `json:"expiration_date"`
	Notes          *string    `json:"notes"`
	Version        *int       `json:"version"`
}

// SelectQuantityRequest picks the quantity the customer is taking on a line
type SelectQuantityRequest struct {
	Quantity decimal.Decimal `json:"quantity"`
	Version  *int            `json:"version"`
}

// ActionRequest is the body of a status change
type ActionRequest struct {
	Reason  string `json:"reason" binding:"max=500"`
	Version *int   `json:"version"`
}

// QuoteLineResponse is a quote line with its priced quantities
type QuoteLineResponse struct {
	ID               uuid.UUID              `json:"id"`
	PartID           uuid.UUID              `json:"part_id"`
	PartNumber       string                 `json:"part_number"`
	Description      string                 `json:"description"`
	MarkupPercent    decimal.Decimal        `json:"markup_percent"`
	SelectedQuantity decimal.Decimal        `json:"selected_quantity"`
	Prices           []sales.QuoteLinePrice `json:"prices"`
}

// QuoteResponse represents a quote in API responses
type QuoteResponse struct {
	ID             uuid.UUID           `json:"id"`
	CompanyID      uuid.UUID           `json:"company_id"`
	QuoteNumber    string              `json:"quote_number"`
	CustomerID     uuid.UUID           `json:"customer_id"`
	Status         string              `json:"status"`
	Currency       string              `json:"currency"`
	ExpirationDate *time.Time          `json:"expiration_date,omitempty"`
	Notes          string              `json:"notes"`
	LostReason     string              `json:"lost_reason,omitempty"`
	SalesOrderID   *uuid.UUID          `json:"sales_order_id,omitempty"`
	Total          decimal.Decimal     `json:"total"`
	Lines          []QuoteLineResponse `json:"lines"`
	CreatedAt      time.Time           `json:"created_at"`
	UpdatedAt      time.Time           `json:"updated_at"`
	Version        int                 `json:"version"`
}

// RecalculateResponse reports a synchronous reprice
type RecalculateResponse struct {
	LinesUpdated int           `json:"lines_updated"`
	Quote        QuoteResponse `json:"quote"`
}

// TriggerResponse reports a background task that was handed to the queue
type TriggerResponse struct {
	TaskID uuid.UUID `json:"task_id"`
	Type   string    `json:"type"`
	Queued bool      `json:"queued"`
}

// ToQuoteResponse converts a domain Quote to QuoteResponse
func ToQuoteResponse(q *sales.Quote) QuoteResponse {
	lines := make([]QuoteLineResponse, len(q.Lines))
	for i, l := range q.Lines {
		lines[i] = QuoteLineResponse{
			ID:               l.ID,
			PartID:           l.PartID,
			PartNumber:       l.PartNumber,
			Description:      l.Description,
			MarkupPercent:    l.MarkupPercent,
			SelectedQuantity: l.SelectedQuantity,
			Prices:           l.Prices,
		}
	}
	return QuoteResponse{
		ID:             q.ID,
		CompanyID:      q.CompanyID,
		QuoteNumber:    q.QuoteNumber,
		CustomerID:     q.CustomerID,
		Status:         q.Status.String(),
		Currency:       q.Currency,
		ExpirationDate: q.ExpirationDate,
		Notes:          q.Notes,
		LostReason:     q.LostReason,
		SalesOrderID:   q.SalesOrderID,
		Total:          q.Total(),
		Lines:          lines,
		CreatedAt:      q.CreatedAt,
		UpdatedAt:      q.UpdatedAt,
		Version:        q.Version,
	}
}

// =============================================================================
// Sales order DTOs
// =============================================================================

// OrderLineRequest is one ordered part. A nil UnitPrice takes the part's
// price for the quantity.
type OrderLineRequest struct {
	PartID      uuid.UUID        `json:"part_id" binding:"required"`
	Description string           `json:"description" binding:"max=500"`
	Quantity    decimal.Decimal  `json:"quantity"`
	UnitPrice   *decimal.Decimal `json:"unit_price"`
}

// CreateSalesOrderRequest creates a draft sales order
type CreateSalesOrderRequest struct {
	CustomerID   uuid.UUID          `json:"customer_id" binding:"required"`
	Currency     string             `json:"currency" binding:"omitempty,len=3"`
	PromisedDate *time.Time         `json:"promised_date"`
	Notes        string             `json:"notes"`
	Lines        []OrderLineRequest `json:"lines" binding:"dive"`
}

// UpdateSalesOrderRequest patches a sales order. Lines replace the whole
// line set and are only accepted on drafts.
type UpdateSalesOrderRequest struct {
	PromisedDate *time.Time          `json:"promised_date"`
	Notes        *string             `json:"notes"`
	Lines        *[]OrderLineRequest `json:"lines"`
	Version      *int                `json:"version"`
}

// SalesOrderResponse represents a sales order in API responses
type SalesOrderResponse struct {
	ID           uuid.UUID              `json:"id"`
	CompanyID    uuid.UUID              `json:"company_id"`
	OrderNumber  string                 `json:"order_number"`
	CustomerID   uuid.UUID              `json:"customer_id"`
	QuoteID      *uuid.UUID             `json:"quote_id,omitempty"`
	Status       string                 `json:"status"`
	Currency     string                 `json:"currency"`
	OrderDate    time.Time              `json:"order_date"`
	PromisedDate *time.Time             `json:"promised_date,omitempty"`
	Notes        string                 `json:"notes"`
	CancelReason string                 `json:"cancel_reason,omitempty"`
	Total        decimal.Decimal        `json:"total"`
	Lines        []sales.SalesOrderLine `json:"lines"`
	ConfirmedAt  *time.Time             `json:"confirmed_at,omitempty"`
	CompletedAt  *time.Time             `json:"completed_at,omitempty"`
	CreatedAt    time.Time              `json:"created_at"`
	UpdatedAt    time.Time              `json:"updated_at"`
	Version      int                    `json:"version"`
}

// ToSalesOrderResponse converts a domain SalesOrder to SalesOrderResponse
func ToSalesOrderResponse(o *sales.SalesOrder) SalesOrderResponse {
	lines := o.Lines
	if lines == nil {
		lines = []sales.SalesOrderLine{}
	}
	return SalesOrderResponse{
		ID:           o.ID,
		CompanyID:    o.CompanyID,
		OrderNumber:  o.OrderNumber,
		CustomerID:   o.CustomerID,
		QuoteID:      o.QuoteID,
		Status:       o.Status.String(),
		Currency:     o.Currency,
		OrderDate:    o.OrderDate,
		PromisedDate: o.PromisedDate,
		Notes:        o.Notes,
		CancelReason: o.CancelReason,
		Total:        o.Total(),
		Lines:        lines,
		ConfirmedAt:  o.ConfirmedAt,
		CompletedAt:  o.CompletedAt,
		CreatedAt:    o.CreatedAt,
		UpdatedAt:    o.UpdatedAt,
		Version:      o.Version,
	}
}
