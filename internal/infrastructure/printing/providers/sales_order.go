package providers

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/van-william/carbon-sub017/internal/domain/partner"
	"github.com/van-william/carbon-sub017/internal/domain/printing"
	"github.com/van-william/carbon-sub017/internal/domain/sales"
	infra "github.com/van-william/carbon-sub017/internal/infrastructure/printing"
)

// SalesOrderProvider loads a sales order and its customer
type SalesOrderProvider struct {
	orderRepo    sales.SalesOrderRepository
	customerRepo partner.CustomerRepository
}

// NewSalesOrderProvider creates a new SalesOrderProvider
func NewSalesOrderProvider(orderRepo sales.SalesOrderRepository, customerRepo partner.CustomerRepository) *SalesOrderProvider {
	return &SalesOrderProvider{orderRepo: orderRepo, customerRepo: customerRepo}
}

// DocType returns the document type this provider handles
func (p *SalesOrderProvider) DocType() printing.DocType {
	return printing.DocTypeSalesOrder
}

// GetData retrieves sales order data for rendering
func (p *SalesOrderProvider) GetData(ctx context.Context, companyID, documentID uuid.UUID) (*infra.DocumentData, error) {
	order, err := p.orderRepo.FindByID(ctx, companyID, documentID)
	if err != nil {
		return nil, fmt.Errorf("failed to load sales order: %w", err)
	}
	customer, err := p.customerRepo.FindByID(ctx, companyID, order.CustomerID)
	if err != nil {
		return nil, fmt.Errorf("failed to load customer: %w", err)
	}

	data := newDocument(printing.DocTypeSalesOrder, companyID, order.ID, order.OrderNumber, order.Status.String())
	data.Meta.Date = order.OrderDate
	data.Meta.DueLabel = "Promised"
	data.Meta.DueDate = order.PromisedDate
	data.Meta.Notes = order.Notes
	data.Party = partyFrom("Customer", customer.Code, customer.Name, customer.Contact)
	data.Currency = order.Currency
	data.Total = order.Total()
	data.PrintedAt = time.Now()

	for i, line := range order.Lines {
		data.Lines = append(data.Lines, infra.LineData{
			Index:       i + 1,
			PartNumber:  line.PartNumber,
			Description: line.Description,
			Quantity:    line.Quantity,
			UnitPrice:   line.UnitPrice,
			Amount:      line.Amount,
		})
	}
	return data, nil
}

var _ infra.DataProvider = (*SalesOrderProvider)(nil)
