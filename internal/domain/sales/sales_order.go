package sales

import (
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/van-william/carbon-sub017/internal/domain/shared"
)

// OrderStatus represents the status of a sales order
type OrderStatus string

const (
	OrderStatusDraft      OrderStatus = "Draft"
	OrderStatusConfirmed  OrderStatus = "Confirmed"
	OrderStatusInProgress OrderStatus = "In Progress"
	OrderStatusCompleted  OrderStatus = "Completed"
	OrderStatusCancelled  OrderStatus = "Cancelled"
)

// IsValid checks if the OrderStatus is a valid value
func (s OrderStatus) IsValid() bool {
	switch s {
	case OrderStatusDraft, OrderStatusConfirmed, OrderStatusInProgress,
		OrderStatusCompleted, OrderStatusCancelled:
		return true
	}
	return false
}

// String returns the string representation of OrderStatus
func (s OrderStatus) String() string {
	return string(s)
}

// CanTransitionTo checks if the status can move to target
func (s OrderStatus) CanTransitionTo(target OrderStatus) bool {
	switch s {
	case OrderStatusDraft:
		return target == OrderStatusConfirmed || target == OrderStatusCancelled
	case OrderStatusConfirmed:
		return target == OrderStatusInProgress || target == OrderStatusCompleted || target == OrderStatusCancelled
	case OrderStatusInProgress:
		return target == OrderStatusCompleted
	}
	return false
}

// SalesOrderLine is an ordered part and quantity
type SalesOrderLine struct {
	ID          uuid.UUID       `json:"id"`
	OrderID     uuid.UUID       `json:"order_id"`
	PartID      uuid.UUID       `json:"part_id"`
	PartNumber  string          `json:"part_number"`
	Description string          `json:"description"`
	Quantity    decimal.Decimal `json:"quantity"`
	UnitPrice   decimal.Decimal `json:"unit_price"`
	Amount      decimal.Decimal `json:"amount"`
}

// SalesOrder is the aggregate root for a customer order
type SalesOrder struct {
	shared.CompanyAggregateRoot
	OrderNumber  string
	CustomerID   uuid.UUID
	QuoteID      *uuid.UUID
	Status       OrderStatus
	Currency     string
	OrderDate    time.Time
	PromisedDate *time.Time
	Notes        string
	CancelReason string
	Lines        []SalesOrderLine
	ConfirmedAt  *time.Time
	CompletedAt  *time.Time
}

// NewSalesOrder creates a draft sales order
func NewSalesOrder(companyID uuid.UUID, orderNumber string, customerID uuid.UUID) (*SalesOrder, error) {
	if orderNumber == "" {
		return nil, shared.NewDomainError("INVALID_ORDER_NUMBER", "Order number cannot be empty")
	}
	if customerID == uuid.Nil {
		return nil, shared.NewDomainError("INVALID_CUSTOMER", "Customer is required")
	}
	return &SalesOrder{
		CompanyAggregateRoot: shared.NewCompanyAggregateRoot(companyID),
		OrderNumber:          orderNumber,
		CustomerID:           customerID,
		Status:               OrderStatusDraft,
		Currency:             "USD",
		OrderDate:            time.Now(),
		Lines:                make([]SalesOrderLine, 0),
	}, nil
}

// NewSalesOrderFromQuote builds a draft order taking each quote line at its
// selected quantity. The quote itself is not modified.
func NewSalesOrderFromQuote(orderNumber string, q *Quote) (*SalesOrder, error) {
	if !q.Status.CanTransitionTo(QuoteStatusOrdered) {
		return nil, shared.NewDomainError("INVALID_STATE", fmt.Sprintf("Cannot convert a %s quote", q.Status))
	}
	if len(q.Lines) == 0 {
		return nil, shared.NewDomainError("QUOTE_EMPTY", "Cannot convert a quote without lines")
	}

	order, err := NewSalesOrder(q.CompanyID, orderNumber, q.CustomerID)
	if err != nil {
		return nil, err
	}
	quoteID := q.ID
	order.QuoteID = &quoteID
	order.Currency = q.Currency
	order.Notes = q.Notes

	for i := range q.Lines {
		price, _ := q.Lines[i].SelectedPrice()
		l := q.Lines[i]
		if err := order.AddLine(l.PartID, l.PartNumber, l.Description, price.Quantity, price.UnitPrice); err != nil {
			return nil, err
		}
	}
	return order, nil
}

// AddLine appends a line while the order is a draft
func (o *SalesOrder) AddLine(partID uuid.UUID, partNumber, description string, quantity, unitPrice decimal.Decimal) error {
	if o.Status != OrderStatusDraft {
		return shared.NewDomainError("ORDER_NOT_EDITABLE", "Lines can only change while the order is a draft")
	}
	if !quantity.IsPositive() {
		return shared.NewDomainError("INVALID_QUANTITY", "Quantity must be positive")
	}
	if unitPrice.IsNegative() {
		return shared.NewDomainError("INVALID_PRICE", "Unit price cannot be negative")
	}
	o.Lines = append(o.Lines, SalesOrderLine{
		ID:          uuid.New(),
		OrderID:     o.ID,
		PartID:      partID,
		PartNumber:  partNumber,
		Description: description,
		Quantity:    quantity,
		UnitPrice:   unitPrice,
		Amount:      shared.RoundMoney(quantity.Mul(unitPrice)),
	})
	o.Touch()
	return nil
}

// RemoveLine drops a line while the order is a draft
func (o *SalesOrder) RemoveLine(lineID uuid.UUID) error {
	if o.Status != OrderStatusDraft {
		return shared.NewDomainError("ORDER_NOT_EDITABLE", "Lines can only change while the order is a draft")
	}
	for i, l := range o.Lines {
		if l.ID == lineID {
			o.Lines = append(o.Lines[:i], o.Lines[i+1:]...)
			o.Touch()
			return nil
		}
	}
	return shared.NewDomainError("ORDER_LINE_NOT_FOUND", "Order line not found")
}

// Total sums line amounts
func (o *SalesOrder) Total() decimal.Decimal {
	total := decimal.Zero
	for _, l := range o.Lines {
		total = total.Add(l.Amount)
	}
	return total
}

// SetPromisedDate sets the date promised to the customer
func (o *SalesOrder) SetPromisedDate(date *time.Time) error {
	if o.Status == OrderStatusCompleted || o.Status == OrderStatusCancelled {
		return shared.ErrInvalidState
	}
	o.PromisedDate = date
	o.Touch()
	return nil
}

// SetNotes replaces the order notes
func (o *SalesOrder) SetNotes(notes string) {
	o.Notes = notes
	o.Touch()
}

func (o *SalesOrder) transition(target OrderStatus) error {
	if !o.Status.CanTransitionTo(target) {
		return shared.NewDomainError("INVALID_STATE", fmt.Sprintf("Cannot move order from %s to %s", o.Status, target))
	}
	o.Status = target
	o.Touch()
	return nil
}

// Confirm accepts the order
func (o *SalesOrder) Confirm() error {
	if len(o.Lines) == 0 {
		return shared.NewDomainError("ORDER_EMPTY", "Cannot confirm an order without lines")
	}
	if err := o.transition(OrderStatusConfirmed); err != nil {
		return err
	}
	now := time.Now()
	o.ConfirmedAt = &now
	o.AddDomainEvent(NewSalesOrderConfirmedEvent(o))
	return nil
}

// Start marks production or fulfilment as begun
func (o *SalesOrder) Start() error {
	return o.transition(OrderStatusInProgress)
}

// Complete closes a fulfilled order
func (o *SalesOrder) Complete() error {
	if err := o.transition(OrderStatusCompleted); err != nil {
		return err
	}
	now := time.Now()
	o.CompletedAt = &now
	return nil
}

// Cancel cancels a draft or confirmed order
func (o *SalesOrder) Cancel(reason string) error {
	if err := o.transition(OrderStatusCancelled); err != nil {
		return err
	}
	o.CancelReason = reason
	return nil
}
