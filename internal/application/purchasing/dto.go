// Package purchasing holds the purchase order use cases.
package purchasing

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/van-william/carbon-sub017/internal/domain/purchasing"
)

// PurchaseLineRequest is one part to buy. A nil UnitPrice takes the part's
// standard unit cost.
type PurchaseLineRequest struct {
	PartID      uuid.UUID        `json:"part_id" binding:"required"`
	Description string           `json:"description" binding:"max=500"`
	Quantity    decimal.Decimal  `json:"quantity"`
	UnitPrice   *decimal.Decimal `json:"unit_price"`
}

// CreatePurchaseOrderRequest creates a draft purchase order
type CreatePurchaseOrderRequest struct {
	SupplierID   uuid.UUID             `json:"supplier_id" binding:"required"`
	Currency     string                `json:"currency" binding:"omitempty,len=3"`
	ExpectedDate *time.Time            `json:"expected_date"`
	Notes        string                `json:"notes"`
	Lines        []PurchaseLineRequest `json:"lines" binding:"dive"`
}

// UpdatePurchaseOrderRequest patches a purchase order. Lines replace the
// whole set and are only accepted on drafts.
type UpdatePurchaseOrderRequest struct {
	ExpectedDate *time.Time             `json:"expected_date"`
	Notes        *string                `json:"notes"`
	Lines        *[]PurchaseLineRequest `json:"lines"`
	Version      *int                   `json:"version"`
}

// ReceiptLine books a received quantity against one order line
type ReceiptLine struct {
	LineID   uuid.UUID       `json:"line_id" binding:"required"`
	Quantity decimal.Decimal `json:"quantity"`
}

// ReceiveRequest books a delivery
type ReceiveRequest struct {
	Lines   []ReceiptLine `json:"lines" binding:"required,min=1,dive"`
	Version *int          `json:"version"`
}

// ActionRequest carries the optional reason and version for a status change
type ActionRequest struct {
	Reason  string `json:"reason" binding:"max=500"`
	Version *int   `json:"version"`
}

// PurchaseOrderResponse represents a purchase order in API responses
type PurchaseOrderResponse struct {
	ID           uuid.UUID                      `json:"id"`
	CompanyID    uuid.UUID                      `json:"company_id"`
	OrderNumber  string                         `json:"order_number"`
	SupplierID   uuid.UUID                      `json:"supplier_id"`
	Status       string                         `json:"status"`
	Currency     string                         `json:"currency"`
	OrderDate    time.Time                      `json:"order_date"`
	ExpectedDate *time.Time                     `json:"expected_date,omitempty"`
	Notes        string                         `json:"notes"`
	CancelReason string                         `json:"cancel_reason,omitempty"`
	Total        decimal.Decimal                `json:"total"`
	Lines        []purchasing.PurchaseOrderLine `json:"lines"`
	SubmittedAt  *time.Time                     `json:"submitted_at,omitempty"`
	ReceivedAt   *time.Time                     `json:"received_at,omitempty"`
	CreatedAt    time.Time                      `json:"created_at"`
	UpdatedAt    time.Time                      `json:"updated_at"`
	Version      int                            `json:"version"`
}

// ToPurchaseOrderResponse converts a domain PurchaseOrder to PurchaseOrderResponse
func ToPurchaseOrderResponse(o *purchasing.PurchaseOrder) PurchaseOrderResponse {
	lines := o.Lines
	if lines == nil {
		lines = []purchasing.PurchaseOrderLine{}
	}
	return PurchaseOrderResponse{
		ID:           o.ID,
		CompanyID:    o.CompanyID,
		OrderNumber:  o.OrderNumber,
		SupplierID:   o.SupplierID,
		Status:       o.Status.String(),
		Currency:     o.Currency,
		OrderDate:    o.OrderDate,
		ExpectedDate: o.ExpectedDate,
		Notes:        o.Notes,
		CancelReason: o.CancelReason,
		Total:        o.Total(),
		Lines:        lines,
		SubmittedAt:  o.SubmittedAt,
		ReceivedAt:   o.ReceivedAt,
		CreatedAt:    o.CreatedAt,
		UpdatedAt:    o.UpdatedAt,
		Version:      o.Version,
	}
}
