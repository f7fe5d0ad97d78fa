// Package purchasing models orders placed with suppliers.
package purchasing

import (
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/van-william/carbon-sub017/internal/domain/shared"
)

// OrderStatus represents the status of a purchase order
type OrderStatus string

const (
	OrderStatusDraft             OrderStatus = "Draft"
	OrderStatusSubmitted         OrderStatus = "Submitted"
	OrderStatusPartiallyReceived OrderStatus = "Partially Received"
	OrderStatusReceived          OrderStatus = "Received"
	OrderStatusClosed            OrderStatus = "Closed"
	OrderStatusCancelled         OrderStatus = "Cancelled"
)

// IsValid checks if the OrderStatus is a valid value
func (s OrderStatus) IsValid() bool {
	switch s {
	case OrderStatusDraft, OrderStatusSubmitted, OrderStatusPartiallyReceived,
		OrderStatusReceived, OrderStatusClosed, OrderStatusCancelled:
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
		return target == OrderStatusSubmitted || target == OrderStatusCancelled
	case OrderStatusSubmitted:
		return target == OrderStatusPartiallyReceived || target == OrderStatusReceived || target == OrderStatusCancelled
	case OrderStatusPartiallyReceived:
		return target == OrderStatusPartiallyReceived || target == OrderStatusReceived || target == OrderStatusClosed
	case OrderStatusReceived:
		return target == OrderStatusClosed
	}
	return false
}

// PurchaseOrderLine is an ordered part with its receipt progress
type PurchaseOrderLine struct {
	ID               uuid.UUID       `json:"id"`
	OrderID          uuid.UUID       `json:"order_id"`
	PartID           uuid.UUID       `json:"part_id"`
	PartNumber       string          `json:"part_number"`
	Description      string          `json:"description"`
	Quantity         decimal.Decimal `json:"quantity"`
	QuantityReceived decimal.Decimal `json:"quantity_received"`
	UnitPrice        decimal.Decimal `json:"unit_price"`
	Amount           decimal.Decimal `json:"amount"`
}

// Outstanding returns the quantity still expected
func (l *PurchaseOrderLine) Outstanding() decimal.Decimal {
	return l.Quantity.Sub(l.QuantityReceived)
}

// PurchaseOrder is the aggregate root for an order placed with a supplier
type PurchaseOrder struct {
	shared.CompanyAggregateRoot
	OrderNumber  string
	SupplierID   uuid.UUID
	Status       OrderStatus
	Currency     string
	OrderDate    time.Time
	ExpectedDate *time.Time
	Notes        string
	CancelReason string
	Lines        []PurchaseOrderLine
	SubmittedAt  *time.Time
	ReceivedAt   *time.Time
}

// NewPurchaseOrder creates a draft purchase order
func NewPurchaseOrder(companyID uuid.UUID, orderNumber string, supplierID uuid.UUID) (*PurchaseOrder, error) {
	if orderNumber == "" {
		return nil, shared.NewDomainError("INVALID_ORDER_NUMBER", "Order number cannot be empty")
	}
	if supplierID == uuid.Nil {
		return nil, shared.NewDomainError("INVALID_SUPPLIER", "Supplier is required")
	}
	return &PurchaseOrder{
		CompanyAggregateRoot: shared.NewCompanyAggregateRoot(companyID),
		OrderNumber:          orderNumber,
		SupplierID:           supplierID,
		Status:               OrderStatusDraft,
		Currency:             "USD",
		OrderDate:            time.Now(),
		Lines:                make([]PurchaseOrderLine, 0),
	}, nil
}

// AddLine appends a line while the order is a draft
func (o *PurchaseOrder) AddLine(partID uuid.UUID, partNumber, description string, quantity, unitPrice decimal.Decimal) error {
	if o.Status != OrderStatusDraft {
		return shared.NewDomainError("ORDER_NOT_EDITABLE", "Lines can only change while the order is a draft")
	}
	if !quantity.IsPositive() {
		return shared.NewDomainError("INVALID_QUANTITY", "Quantity must be positive")
	}
	if unitPrice.IsNegative() {
		return shared.NewDomainError("INVALID_PRICE", "Unit price cannot be negative")
	}
	o.Lines = append(o.Lines, PurchaseOrderLine{
		ID:               uuid.New(),
		OrderID:          o.ID,
		PartID:           partID,
		PartNumber:       partNumber,
		Description:      description,
		Quantity:         quantity,
		QuantityReceived: decimal.Zero,
		UnitPrice:        unitPrice,
		Amount:           shared.RoundMoney(quantity.Mul(unitPrice)),
	})
	o.Touch()
	return nil
}

// RemoveLine drops a line while the order is a draft
func (o *PurchaseOrder) RemoveLine(lineID uuid.UUID) error {
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
func (o *PurchaseOrder) Total() decimal.Decimal {
	total := decimal.Zero
	for _, l := range o.Lines {
		total = total.Add(l.Amount)
	}
	return total
}

// SetExpectedDate sets the promised delivery date
func (o *PurchaseOrder) SetExpectedDate(date *time.Time) {
	o.ExpectedDate = date
	o.Touch()
}

// SetNotes replaces the order notes
func (o *PurchaseOrder) SetNotes(notes string) {
	o.Notes = notes
	o.Touch()
}

func (o *PurchaseOrder) transition(target OrderStatus) error {
	if !o.Status.CanTransitionTo(target) {
		return shared.NewDomainError("INVALID_STATE", fmt.Sprintf("Cannot move purchase order from %s to %s", o.Status, target))
	}
	o.Status = target
	o.Touch()
	return nil
}

// Submit sends the order to the supplier
func (o *PurchaseOrder) Submit() error {
	if len(o.Lines) == 0 {
		return shared.NewDomainError("ORDER_EMPTY", "Cannot submit an order without lines")
	}
	if err := o.transition(OrderStatusSubmitted); err != nil {
		return err
	}
	now := time.Now()
	o.SubmittedAt = &now
	o.AddDomainEvent(NewPurchaseOrderSubmittedEvent(o))
	return nil
}

// Receive books received quantities keyed by line ID. A line can never be
// received beyond its ordered quantity.
func (o *PurchaseOrder) Receive(quantities map[uuid.UUID]decimal.Decimal) error {
	if o.Status != OrderStatusSubmitted && o.Status != OrderStatusPartiallyReceived {
		return shared.NewDomainError("INVALID_STATE", fmt.Sprintf("Cannot receive against a %s purchase order", o.Status))
	}
	if len(quantities) == 0 {
		return shared.NewDomainError("INVALID_QUANTITY", "Nothing to receive")
	}

	index := make(map[uuid.UUID]int, len(o.Lines))
	for i, l := range o.Lines {
		index[l.ID] = i
	}
	for lineID, qty := range quantities {
		i, ok := index[lineID]
		if !ok {
			return shared.NewDomainError("ORDER_LINE_NOT_FOUND", "Order line not found")
		}
		if !qty.IsPositive() {
			return shared.NewDomainError("INVALID_QUANTITY", "Received quantity must be positive")
		}
		if qty.GreaterThan(o.Lines[i].Outstanding()) {
			return shared.NewDomainError("OVER_RECEIPT", fmt.Sprintf("Line %s would exceed the ordered quantity", o.Lines[i].PartNumber))
		}
	}
	for lineID, qty := range quantities {
		i := index[lineID]
		o.Lines[i].QuantityReceived = o.Lines[i].QuantityReceived.Add(qty)
	}

	target := OrderStatusReceived
	for _, l := range o.Lines {
		if l.Outstanding().IsPositive() {
			target = OrderStatusPartiallyReceived
			break
		}
	}
	if err := o.transition(target); err != nil {
		return err
	}
	if target == OrderStatusReceived {
		now := time.Now()
		o.ReceivedAt = &now
	}
	return nil
}

// Close finishes the order, leaving any outstanding quantity unreceived
func (o *PurchaseOrder) Close() error {
	return o.transition(OrderStatusClosed)
}

// Cancel cancels a draft or submitted order
func (o *PurchaseOrder) Cancel(reason string) error {
	if err := o.transition(OrderStatusCancelled); err != nil {
		return err
	}
	o.CancelReason = reason
	return nil
}
