package sales

import (
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/van-william/carbon-sub017/internal/domain/catalog"
	"github.com/van-william/carbon-sub017/internal/domain/shared"
)

// MaxQuantitiesPerLine bounds how many quantity breaks a customer can ask for
const MaxQuantitiesPerLine = 10

// QuoteLinePrice is the priced answer for one requested quantity
type QuoteLinePrice struct {
	ID              uuid.UUID       `json:"id"`
	Quantity        decimal.Decimal `json:"quantity"`
	UnitCost        decimal.Decimal `json:"unit_cost"`
	UnitPrice       decimal.Decimal `json:"unit_price"`
	DiscountPercent decimal.Decimal `json:"discount_percent"`
	ExtendedPrice   decimal.Decimal `json:"extended_price"`
	LeadTimeDays    int             `json:"lead_time_days"`
}

// QuoteLine is one part on a quote, priced at one or more quantities
type QuoteLine struct {
	ID               uuid.UUID        `json:"id"`
	QuoteID          uuid.UUID        `json:"quote_id"`
	PartID           uuid.UUID        `json:"part_id"`
	PartNumber       string           `json:"part_number"`
	Description      string           `json:"description"`
	MarkupPercent    decimal.Decimal  `json:"markup_percent"`
	SelectedQuantity decimal.Decimal  `json:"selected_quantity"`
	Prices           []QuoteLinePrice `json:"prices"`
}

// SelectedPrice returns the price row the customer is taking. Falls back to
// the first quantity.
func (l *QuoteLine) SelectedPrice() (QuoteLinePrice, bool) {
	if len(l.Prices) == 0 {
		return QuoteLinePrice{}, false
	}
	for _, p := range l.Prices {
		if p.Quantity.Equal(l.SelectedQuantity) {
			return p, true
		}
	}
	return l.Prices[0], true
}

// Recalculate prices every quantity from the part's current costs.
// Unit price is the price-break price when the part has one and no markup is
// set, otherwise cost plus markup. Discount is applied last.
func (l *QuoteLine) Recalculate(part *catalog.Part) {
	unitCost := part.Cost.UnitCost()
	useList := part.HasListPrice() && l.MarkupPercent.IsZero()
	markup := decimal.NewFromInt(1).Add(shared.Percent(l.MarkupPercent))

	for i := range l.Prices {
		p := &l.Prices[i]
		p.UnitCost = unitCost

		base := unitCost.Mul(markup)
		if useList {
			base = part.PriceFor(p.Quantity)
		}
		discount := decimal.NewFromInt(1).Sub(shared.Percent(p.DiscountPercent))

		p.UnitPrice = shared.RoundMoney(base.Mul(discount))
		p.ExtendedPrice = shared.RoundMoney(p.UnitPrice.Mul(p.Quantity))
	}
}

// Quote is the aggregate root for a customer quotation
type Quote struct {
	shared.CompanyAggregateRoot
	QuoteNumber    string
	CustomerID     uuid.UUID
	Status         QuoteStatus
	Currency       string
	ExpirationDate *time.Time
	Notes          string
	LostReason     string
	SalesOrderID   *uuid.UUID
	Lines          []QuoteLine
}

// NewQuote creates a draft quote
func NewQuote(companyID uuid.UUID, quoteNumber string, customerID uuid.UUID) (*Quote, error) {
	if quoteNumber == "" {
		return nil, shared.NewDomainError("INVALID_QUOTE_NUMBER", "Quote number cannot be empty")
	}
	if customerID == uuid.Nil {
		return nil, shared.NewDomainError("INVALID_CUSTOMER", "Customer is required")
	}
	q := &Quote{
		CompanyAggregateRoot: shared.NewCompanyAggregateRoot(companyID),
		QuoteNumber:          quoteNumber,
		CustomerID:           customerID,
		Status:               QuoteStatusDraft,
		Currency:             "USD",
		Lines:                make([]QuoteLine, 0),
	}
	q.AddDomainEvent(NewQuoteCreatedEvent(q))
	return q, nil
}

// IsEditable reports whether lines may change
func (q *Quote) IsEditable() bool {
	return q.Status == QuoteStatusDraft
}

// AddLine adds part priced at the requested quantities
func (q *Quote) AddLine(part *catalog.Part, description string, quantities []decimal.Decimal, markupPercent decimal.Decimal) (*QuoteLine, error) {
	if !q.IsEditable() {
		return nil, shared.NewDomainError("QUOTE_NOT_EDITABLE", "Lines can only change while the quote is a draft")
	}
	if part == nil || !part.Active {
		return nil, shared.NewDomainError("INVALID_PART", "Part is missing or inactive")
	}
	if len(quantities) == 0 || len(quantities) > MaxQuantitiesPerLine {
		return nil, shared.NewDomainError("INVALID_QUANTITIES", fmt.Sprintf("Between 1 and %d quantities are required", MaxQuantitiesPerLine))
	}
	if markupPercent.IsNegative() {
		return nil, shared.NewDomainError("INVALID_MARKUP", "Markup cannot be negative")
	}

	seen := make(map[string]bool, len(quantities))
	prices := make([]QuoteLinePrice, 0, len(quantities))
	for _, qty := range quantities {
		if !qty.IsPositive() {
			return nil, shared.NewDomainError("INVALID_QUANTITIES", "Quantities must be positive")
		}
		if seen[qty.String()] {
			return nil, shared.NewDomainError("INVALID_QUANTITIES", "Quantities must be unique")
		}
		seen[qty.String()] = true
		prices = append(prices, QuoteLinePrice{
			ID:              uuid.New(),
			Quantity:        qty,
			DiscountPercent: decimal.Zero,
		})
	}

	if description == "" {
		description = part.Name
	}
	line := QuoteLine{
		ID:               uuid.New(),
		QuoteID:          q.ID,
		PartID:           part.ID,
		PartNumber:       part.PartNumber,
		Description:      description,
		MarkupPercent:    markupPercent,
		SelectedQuantity: quantities[0],
		Prices:           prices,
	}
	line.Recalculate(part)

	q.Lines = append(q.Lines, line)
	q.Touch()
	return &q.Lines[len(q.Lines)-1], nil
}

// RemoveLine drops a line by ID
func (q *Quote) RemoveLine(lineID uuid.UUID) error {
	if !q.IsEditable() {
		return shared.NewDomainError("QUOTE_NOT_EDITABLE", "Lines can only change while the quote is a draft")
	}
	for i, l := range q.Lines {
		if l.ID == lineID {
			q.Lines = append(q.Lines[:i], q.Lines[i+1:]...)
			q.Touch()
			return nil
		}
	}
	return shared.NewDomainError("QUOTE_LINE_NOT_FOUND", "Quote line not found")
}

// SelectQuantity records which quantity the customer is taking on a line
func (q *Quote) SelectQuantity(lineID uuid.UUID, qty decimal.Decimal) error {
	if q.Status.IsTerminal() {
		return shared.ErrInvalidState
	}
	for i := range q.Lines {
		if q.Lines[i].ID != lineID {
			continue
		}
		for _, p := range q.Lines[i].Prices {
			if p.Quantity.Equal(qty) {
				q.Lines[i].SelectedQuantity = qty
				q.Touch()
				return nil
			}
		}
		return shared.NewDomainError("INVALID_QUANTITIES", "Quantity is not quoted on this line")
	}
	return shared.NewDomainError("QUOTE_LINE_NOT_FOUND", "Quote line not found")
}

// Recalculate reprices every line. Lines whose part is missing from parts keep
// their previous prices.
func (q *Quote) Recalculate(parts map[uuid.UUID]*catalog.Part) int {
	updated := 0
	for i := range q.Lines {
		part, ok := parts[q.Lines[i].PartID]
		if !ok {
			continue
		}
		q.Lines[i].Recalculate(part)
		updated++
	}
	if updated > 0 {
		q.Touch()
	}
	return updated
}

// PartIDs lists the distinct parts referenced by the quote
func (q *Quote) PartIDs() []uuid.UUID {
	seen := make(map[uuid.UUID]bool, len(q.Lines))
	ids := make([]uuid.UUID, 0, len(q.Lines))
	for _, l := range q.Lines {
		if !seen[l.PartID] {
			seen[l.PartID] = true
			ids = append(ids, l.PartID)
		}
	}
	return ids
}

// Total sums the extended price of every line at its selected quantity
func (q *Quote) Total() decimal.Decimal {
	total := decimal.Zero
	for i := range q.Lines {
		if p, ok := q.Lines[i].SelectedPrice(); ok {
			total = total.Add(p.ExtendedPrice)
		}
	}
	return total
}

// SetExpiration sets the date after which the quote may be expired
func (q *Quote) SetExpiration(date *time.Time) error {
	if q.Status.IsTerminal() {
		return shared.ErrInvalidState
	}
	q.ExpirationDate = date
	q.Touch()
	return nil
}

// SetNotes replaces the customer facing notes
func (q *Quote) SetNotes(notes string) error {
	if q.Status.IsTerminal() {
		return shared.ErrInvalidState
	}
	q.Notes = notes
	q.Touch()
	return nil
}

// IsExpired reports whether the expiration date falls before the day now is
// in. A quote stays valid through its whole expiration day.
func (q *Quote) IsExpired(now time.Time) bool {
	return q.ExpirationDate != nil && q.ExpirationDate.Before(StartOfDay(now))
}

// StartOfDay truncates t to midnight in t's location
func StartOfDay(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, t.Location())
}

func (q *Quote) transition(target QuoteStatus) error {
	if !q.Status.CanTransitionTo(target) {
		return shared.NewDomainError("INVALID_STATE", fmt.Sprintf("Cannot move quote from %s to %s", q.Status, target))
	}
	q.Status = target
	q.Touch()
	return nil
}

// Send marks the quote as delivered to the customer
func (q *Quote) Send() error {
	if len(q.Lines) == 0 {
		return shared.NewDomainError("QUOTE_EMPTY", "Cannot send a quote without lines")
	}
	if err := q.transition(QuoteStatusSent); err != nil {
		return err
	}
	q.AddDomainEvent(NewQuoteSentEvent(q))
	return nil
}

// MarkLost records that the customer declined
func (q *Quote) MarkLost(reason string) error {
	if err := q.transition(QuoteStatusLost); err != nil {
		return err
	}
	q.LostReason = reason
	return nil
}

// Cancel withdraws the quote
func (q *Quote) Cancel() error {
	return q.transition(QuoteStatusCancelled)
}

// Expire closes a sent quote whose validity ran out
func (q *Quote) Expire() error {
	return q.transition(QuoteStatusExpired)
}

// MarkOrdered links the quote to the sales order created from it
func (q *Quote) MarkOrdered(salesOrderID uuid.UUID) error {
	if err := q.transition(QuoteStatusOrdered); err != nil {
		return err
	}
	q.SalesOrderID = &salesOrderID
	q.AddDomainEvent(NewQuoteOrderedEvent(q))
	return nil
}
