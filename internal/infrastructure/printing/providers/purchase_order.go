package providers

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/van-william/carbon-sub017/internal/domain/partner"
	"github.com/van-william/carbon-sub017/internal/domain/printing"
	"github.com/van-william/carbon-sub017/internal/domain/purchasing"
	infra "github.com/van-william/carbon-sub017/internal/infrastructure/printing"
)

// PurchaseOrderProvider loads a purchase order and its supplier
type PurchaseOrderProvider struct {
	orderRepo    purchasing.PurchaseOrderRepository
	supplierRepo partner.SupplierRepository
}

// NewPurchaseOrderProvider creates a new PurchaseOrderProvider
func NewPurchaseOrderProvider(orderRepo purchasing.PurchaseOrderRepository, supplierRepo partner.SupplierRepository) *PurchaseOrderProvider {
	return &PurchaseOrderProvider{orderRepo: orderRepo, supplierRepo: supplierRepo}
}

// DocType returns the document type this provider handles
func (p *PurchaseOrderProvider) DocType() printing.DocType {
	return printing.DocTypePurchaseOrder
}

// GetData retrieves purchase order data for rendering
func (p *PurchaseOrderProvider) GetData(ctx context.Context, companyID, documentID uuid.UUID) (*infra.DocumentData, error) {
	order, err := p.orderRepo.FindByID(ctx, companyID, documentID)
	if err != nil {
		return nil, fmt.Errorf("failed to load purchase order: %w", err)
	}
	supplier, err := p.supplierRepo.FindByID(ctx, companyID, order.SupplierID)
	if err != nil {
		return nil, fmt.Errorf("failed to load supplier: %w", err)
	}

	data := newDocument(printing.DocTypePurchaseOrder, companyID, order.ID, order.OrderNumber, order.Status.String())
	data.Meta.Date = order.OrderDate
	data.Meta.DueLabel = "Expected"
	data.Meta.DueDate = order.ExpectedDate
	data.Meta.Notes = order.Notes
	data.Party = partyFrom("Supplier", supplier.Code, supplier.Name, supplier.Contact)
	data.Currency = order.Currency
	data.Total = order.Total()
	data.PrintedAt = time.Now()

	for i, line := range order.Lines {
		data.Lines = append(data.Lines, infra.LineData{
			Index:       i + 1,
			PartNumber:  line.PartNumber,
			Description: line.Description,
			Quantity:    line.Quantity,
			Received:    line.QuantityReceived,
			UnitPrice:   line.UnitPrice,
			Amount:      line.Amount,
		})
	}
	return data, nil
}

var _ infra.DataProvider = (*PurchaseOrderProvider)(nil)
