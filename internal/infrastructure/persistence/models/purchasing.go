package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/van-william/carbon-sub017/internal/domain/purchasing"
)

// PurchaseOrderModel is the persistence model for the PurchaseOrder aggregate.
type PurchaseOrderModel struct {
	CompanyAggregateModel
	OrderNumber  string    `gorm:"type:varchar(50);not null"`
	SupplierID   uuid.UUID `gorm:"type:uuid;not null;index"`
	Status       string    `gorm:"type:varchar(20);not null"`
	Currency     string    `gorm:"type:varchar(3);not null"`
	OrderDate    time.Time `gorm:"not null"`
	ExpectedDate *time.Time
	Notes        string `gorm:"type:text"`
	CancelReason string `gorm:"type:text"`
	SubmittedAt  *time.Time
	ReceivedAt   *time.Time
	Lines        []PurchaseOrderLineModel `gorm:"foreignKey:OrderID"`
}

// TableName returns the table name for GORM
func (PurchaseOrderModel) TableName() string {
	return "purchase_orders"
}

// PurchaseOrderLineModel is one line of a purchase order.
type PurchaseOrderLineModel struct {
	ID               uuid.UUID       `gorm:"type:uuid;primaryKey"`
	OrderID          uuid.UUID       `gorm:"type:uuid;not null;index"`
	Position         int             `gorm:"not null"`
	PartID           uuid.UUID       `gorm:"type:uuid;not null"`
	PartNumber       string          `gorm:"type:varchar(100);not null"`
	Description      string          `gorm:"type:text"`
	Quantity         decimal.Decimal `gorm:"type:decimal(18,4);not null"`
	QuantityReceived decimal.Decimal `gorm:"type:decimal(18,4);not null"`
	UnitPrice        decimal.Decimal `gorm:"type:decimal(18,4);not null"`
	Amount           decimal.Decimal `gorm:"type:decimal(18,4);not null"`
}

// TableName returns the table name for GORM
func (PurchaseOrderLineModel) TableName() string {
	return "purchase_order_lines"
}

// ToDomain converts the model to a domain PurchaseOrder.
func (m *PurchaseOrderModel) ToDomain() *purchasing.PurchaseOrder {
	o := &purchasing.PurchaseOrder{
		CompanyAggregateRoot: m.ToCompanyAggregateRoot(),
		OrderNumber:          m.OrderNumber,
		SupplierID:           m.SupplierID,
		Status:               purchasing.OrderStatus(m.Status),
		Currency:             m.Currency,
		OrderDate:            m.OrderDate,
		ExpectedDate:         m.ExpectedDate,
		Notes:                m.Notes,
		CancelReason:         m.CancelReason,
		SubmittedAt:          m.SubmittedAt,
		ReceivedAt:           m.ReceivedAt,
		Lines:                make([]purchasing.PurchaseOrderLine, 0, len(m.Lines)),
	}
	for _, l := range m.Lines {
		o.Lines = append(o.Lines, purchasing.PurchaseOrderLine{
			ID:               l.ID,
			OrderID:          l.OrderID,
			PartID:           l.PartID,
			PartNumber:       l.PartNumber,
			Description:      l.Description,
			Quantity:         l.Quantity,
			QuantityReceived: l.QuantityReceived,
			UnitPrice:        l.UnitPrice,
			Amount:           l.Amount,
		})
	}
	return o
}

// PurchaseOrderModelFromDomain creates a model from a domain PurchaseOrder.
func PurchaseOrderModelFromDomain(o *purchasing.PurchaseOrder) *PurchaseOrderModel {
	m := &PurchaseOrderModel{
		OrderNumber:  o.OrderNumber,
		SupplierID:   o.SupplierID,
		Status:       string(o.Status),
		Currency:     o.Currency,
		OrderDate:    o.OrderDate,
		ExpectedDate: o.ExpectedDate,
		Notes:        o.Notes,
		CancelReason: o.CancelReason,
		SubmittedAt:  o.SubmittedAt,
		ReceivedAt:   o.ReceivedAt,
		Lines:        make([]PurchaseOrderLineModel, 0, len(o.Lines)),
	}
	m.FromDomainCompanyAggregateRoot(o.CompanyAggregateRoot)
	for i, l := range o.Lines {
		m.Lines = append(m.Lines, PurchaseOrderLineModel{
			ID:               l.ID,
			OrderID:          o.ID,
			Position:         i + 1,
			PartID:           l.PartID,
			PartNumber:       l.PartNumber,
			Description:      l.Description,
			Quantity:         l.Quantity,
			QuantityReceived: l.QuantityReceived,
			UnitPrice:        l.UnitPrice,
			Amount:           l.Amount,
		})
	}
	return m
}

// Columns returns the mutable header columns written by a version checked update
func (m *PurchaseOrderModel) Columns() map[string]any {
	return map[string]any{
		"supplier_id":   m.SupplierID,
		"status":        m.Status,
		"currency":      m.Currency,
		"expected_date": m.ExpectedDate,
		"notes":         m.Notes,
		"cancel_reason": m.CancelReason,
		"submitted_at":  m.SubmittedAt,
		"received_at":   m.ReceivedAt,
		"updated_at":    m.UpdatedAt,
	}
}
