package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/van-william/carbon-sub017/internal/domain/sales"
)

// QuoteModel is the persistence model for the Quote aggregate.
type QuoteModel struct {
	CompanyAggregateModel
	QuoteNumber    string     `gorm:"type:varchar(50);not null"`
	CustomerID     uuid.UUID  `gorm:"type:uuid;not null;index"`
	Status         string     `gorm:"type:varchar(20);not null"`
	Currency       string     `gorm:"type:varchar(3);not null"`
	ExpirationDate *time.Time
	Notes          string           `gorm:"type:text"`
	LostReason     string           `gorm:"type:text"`
	SalesOrderID   *uuid.UUID       `gorm:"type:uuid"`
	Lines          []QuoteLineModel `gorm:"foreignKey:QuoteID"`
}

// TableName returns the table name for GORM
func (QuoteModel) TableName() string {
	return "quotes"
}

// QuoteLineModel is one part on a quote.
type QuoteLineModel struct {
	ID               uuid.UUID             `gorm:"type:uuid;primaryKey"`
	QuoteID          uuid.UUID             `gorm:"type:uuid;not null;index"`
	Position         int                   `gorm:"not null"`
	PartID           uuid.UUID             `gorm:"type:uuid;not null"`
	PartNumber       string                `gorm:"type:varchar(100);not null"`
	Description      string                `gorm:"type:text"`
	MarkupPercent    decimal.Decimal       `gorm:"type:decimal(9,4);not null"`
	SelectedQuantity decimal.Decimal       `gorm:"type:decimal(18,4);not null"`
	Prices           []QuoteLinePriceModel `gorm:"foreignKey:QuoteLineID"`
}

// TableName returns the table name for GORM
func (QuoteLineModel) TableName() string {
	return "quote_lines"
}

// QuoteLinePriceModel holds the price of one quantity break of a quote line.
type QuoteLinePriceModel struct {
	ID              uuid.UUID       `gorm:"type:uuid;primaryKey"`
	QuoteID         uuid.UUID       `gorm:"type:uuid;not null;index"`
	QuoteLineID     uuid.UUID       `gorm:"type:uuid;not null;index"`
	Quantity        decimal.Decimal `gorm:"type:decimal(18,4);not null"`
	UnitCost        decimal.Decimal `gorm:"type:decimal(18,4);not null"`
	UnitPrice       decimal.Decimal `gorm:"type:decimal(18,4);not null"`
	DiscountPercent decimal.Decimal `gorm:"type:decimal(9,4);not null"`
	ExtendedPrice   decimal.Decimal `gorm:"type:decimal(18,4);not null"`
	LeadTimeDays    int             `gorm:"not null"`
}

// TableName returns the table name for GORM
func (QuoteLinePriceModel) TableName() string {
	return "quote_line_prices"
}

// ToDomain converts the model to a domain Quote.
func (m *QuoteModel) ToDomain() *sales.Quote {
	q := &sales.Quote{
		CompanyAggregateRoot: m.ToCompanyAggregateRoot(),
		QuoteNumber:          m.QuoteNumber,
		CustomerID:           m.CustomerID,
		Status:               sales.QuoteStatus(m.Status),
		Currency:             m.Currency,
		ExpirationDate:       m.ExpirationDate,
		Notes:                m.Notes,
		LostReason:           m.LostReason,
		SalesOrderID:         m.SalesOrderID,
		Lines:                make([]sales.QuoteLine, 0, len(m.Lines)),
	}
	for _, lm := range m.Lines {
		line := sales.QuoteLine{
			ID:               lm.ID,
			QuoteID:          lm.QuoteID,
			PartID:           lm.PartID,
			PartNumber:       lm.PartNumber,
			Description:      lm.Description,
			MarkupPercent:    lm.MarkupPercent,
			SelectedQuantity: lm.SelectedQuantity,
			Prices:           make([]sales.QuoteLinePrice, 0, len(lm.Prices)),
		}
		for _, pm := range lm.Prices {
			line.Prices = append(line.Prices, sales.QuoteLinePrice{
				ID:              pm.ID,
				Quantity:        pm.Quantity,
				UnitCost:        pm.UnitCost,
				UnitPrice:       pm.UnitPrice,
				DiscountPercent: pm.DiscountPercent,
				ExtendedPrice:   pm.ExtendedPrice,
				LeadTimeDays:    pm.LeadTimeDays,
			})
		}
		q.Lines = append(q.Lines, line)
	}
	return q
}

// QuoteModelFromDomain creates a model from a domain Quote.
func QuoteModelFromDomain(q *sales.Quote) *QuoteModel {
	m := &QuoteModel{
		QuoteNumber:    q.QuoteNumber,
		CustomerID:     q.CustomerID,
		Status:         string(q.Status),
		Currency:       q.Currency,
		ExpirationDate: q.ExpirationDate,
		Notes:          q.Notes,
		LostReason:     q.LostReason,
		SalesOrderID:   q.SalesOrderID,
		Lines:          make([]QuoteLineModel, 0, len(q.Lines)),
	}
	m.FromDomainCompanyAggregateRoot(q.CompanyAggregateRoot)
	for i, l := range q.Lines {
		lm := QuoteLineModel{
			ID:               l.ID,
			QuoteID:          q.ID,
			Position:         i + 1,
			PartID:           l.PartID,
			PartNumber:       l.PartNumber,
			Description:      l.Description,
			MarkupPercent:    l.MarkupPercent,
			SelectedQuantity: l.SelectedQuantity,
			Prices:           make([]QuoteLinePriceModel, 0, len(l.Prices)),
		}
		for _, p := range l.Prices {
			lm.Prices = append(lm.Prices, QuoteLinePriceModel{
				ID:              p.ID,
				QuoteID:         q.ID,
				QuoteLineID:     l.ID,
				Quantity:        p.Quantity,
				UnitCost:        p.UnitCost,
				UnitPrice:       p.UnitPrice,
				DiscountPercent: p.DiscountPercent,
				ExtendedPrice:   p.ExtendedPrice,
				LeadTimeDays:    p.LeadTimeDays,
			})
		}
		m.Lines = append(m.Lines, lm)
	}
	return m
}

// Columns returns the mutable header columns written by a version checked update
func (m *QuoteModel) Columns() map[string]any {
	return map[string]any{
		"customer_id":     m.CustomerID,
		"status":          m.Status,
		"currency":        m.Currency,
		"expiration_date": m.ExpirationDate,
		"notes":           m.Notes,
		"lost_reason":     m.LostReason,
		"sales_order_id":  m.SalesOrderID,
		"updated_at":      m.UpdatedAt,
	}
}

// Prices flattens the price rows of every line
func (m *QuoteModel) Prices() []QuoteLinePriceModel {
	var out []QuoteLinePriceModel
	for _, l := range m.Lines {
		out = append(out, l.Prices...)
	}
	return out
}

// SalesOrderModel is the persistence model for the SalesOrder aggregate.
type SalesOrderModel struct {
	CompanyAggregateModel
	OrderNumber  string     `gorm:"type:varchar(50);not null"`
	CustomerID   uuid.UUID  `gorm:"type:uuid;not null;index"`
	QuoteID      *uuid.UUID `gorm:"type:uuid"`
	Status       string     `gorm:"type:varchar(20);not null"`
	Currency     string     `gorm:"type:varchar(3);not null"`
	OrderDate    time.Time  `gorm:"not null"`
	PromisedDate *time.Time
	Notes        string `gorm:"type:text"`
	CancelReason string `gorm:"type:text"`
	ConfirmedAt  *time.Time
	CompletedAt  *time.Time
	Lines        []SalesOrderLineModel `gorm:"foreignKey:OrderID"`
}

// TableName returns the table name for GORM
func (SalesOrderModel) TableName() string {
	return "sales_orders"
}

// SalesOrderLineModel is one line of a sales order.
type SalesOrderLineModel struct {
	ID          uuid.UUID       `gorm:"type:uuid;primaryKey"`
	OrderID     uuid.UUID       `gorm:"type:uuid;not null;index"`
	Position    int             `gorm:"not null"`
	PartID      uuid.UUID       `gorm:"type:uuid;not null"`
	PartNumber  string          `gorm:"type:varchar(100);not null"`
	Description string          `gorm:"type:text"`
	Quantity    decimal.Decimal `gorm:"type:decimal(18,4);not null"`
	UnitPrice   decimal.Decimal `gorm:"type:decimal(18,4);not null"`
	Amount      decimal.Decimal `gorm:"type:decimal(18,4);not null"`
}

// TableName returns the table name for GORM
func (SalesOrderLineModel) TableName() string {
	return "sales_order_lines"
}

// ToDomain converts the model to a domain SalesOrder.
func (m *SalesOrderModel) ToDomain() *sales.SalesOrder {
	o := &sales.SalesOrder{
		CompanyAggregateRoot: m.ToCompanyAggregateRoot(),
		OrderNumber:          m.OrderNumber,
		CustomerID:           m.CustomerID,
		QuoteID:              m.QuoteID,
		Status:               sales.OrderStatus(m.Status),
		Currency:             m.Currency,
		OrderDate:            m.OrderDate,
		PromisedDate:         m.PromisedDate,
		Notes:                m.Notes,
		CancelReason:         m.CancelReason,
		ConfirmedAt:          m.ConfirmedAt,
		CompletedAt:          m.CompletedAt,
		Lines:                make([]sales.SalesOrderLine, 0, len(m.Lines)),
	}
	for _, l := range m.Lines {
		o.Lines = append(o.Lines, sales.SalesOrderLine{
			ID:          l.ID,
			OrderID:     l.OrderID,
			PartID:      l.PartID,
			PartNumber:  l.PartNumber,
			Description: l.Description,
			Quantity:    l.Quantity,
			UnitPrice:   l.UnitPrice,
			Amount:      l.Amount,
		})
	}
	return o
}

// SalesOrderModelFromDomain creates a model from a domain SalesOrder.
func SalesOrderModelFromDomain(o *sales.SalesOrder) *SalesOrderModel {
	m := &SalesOrderModel{
		OrderNumber:  o.OrderNumber,
		CustomerID:   o.CustomerID,
		QuoteID:      o.QuoteID,
		Status:       string(o.Status),
		Currency:     o.Currency,
		OrderDate:    o.OrderDate,
		PromisedDate: o.PromisedDate,
		Notes:        o.Notes,
		CancelReason: o.CancelReason,
		ConfirmedAt:  o.ConfirmedAt,
		CompletedAt:  o.CompletedAt,
		Lines:        make([]SalesOrderLineModel, 0, len(o.Lines)),
	}
	m.FromDomainCompanyAggregateRoot(o.CompanyAggregateRoot)
	for i, l := range o.Lines {
		m.Lines = append(m.Lines, SalesOrderLineModel{
			ID:          l.ID,
			OrderID:     o.ID,
			Position:    i + 1,
			PartID:      l.PartID,
			PartNumber:  l.PartNumber,
			Description: l.Description,
			Quantity:    l.Quantity,
			UnitPrice:   l.UnitPrice,
			Amount:      l.Amount,
		})
	}
	return m
}

// Columns returns the mutable header columns written by a version checked update
func (m *SalesOrderModel) Columns() map[string]any {
	return map[string]any{
		"status":        m.Status,
		"currency":      m.Currency,
		"promised_date": m.PromisedDate,
		"notes":         m.Notes,
		"cancel_reason": m.CancelReason,
		"confirmed_at":  m.ConfirmedAt,
		"completed_at":  m.CompletedAt,
		"updated_at":    m.UpdatedAt,
	}
}
