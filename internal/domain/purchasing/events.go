package purchasing

import (
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/van-william/carbon-sub017/internal/domain/shared"
)

const (
	AggregateTypePurchaseOrder = "PurchaseOrder"

	EventTypePurchaseOrderSubmitted = "PurchaseOrderSubmitted"
)

// PurchaseOrderSubmittedEvent is raised when an order is sent to the supplier
type PurchaseOrderSubmittedEvent struct {
	shared.BaseDomainEvent
	OrderNumber string          `json:"order_number"`
	SupplierID  uuid.UUID       `json:"supplier_id"`
	Total       decimal.Decimal `json:"total"`
}

// NewPurchaseOrderSubmittedEvent creates a new PurchaseOrderSubmittedEvent
func NewPurchaseOrderSubmittedEvent(o *PurchaseOrder) *PurchaseOrderSubmittedEvent {
	return &PurchaseOrderSubmittedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypePurchaseOrderSubmitted, AggregateTypePurchaseOrder, o.ID, o.CompanyID),
		OrderNumber:     o.OrderNumber,
		SupplierID:      o.SupplierID,
		Total:           o.Total(),
	}
}
