package export

import (
	"github.com/google/uuid"
	"github.com/van-william/carbon-sub017/internal/domain/production"
	"github.com/van-william/carbon-sub017/internal/domain/purchasing"
	"github.com/van-william/carbon-sub017/internal/domain/sales"
)

// Names resolves a partner ID to a display name. Unknown IDs export blank.
type Names map[uuid.UUID]string

// QuoteColumns is the quote list sheet
func QuoteColumns(customers Names) []Column[sales.Quote] {
	return []Column[sales.Quote]{
		{Header: "Quote", Width: 14, Value: func(q sales.Quote) any { return q.QuoteNumber }},
		{Header: "Customer", Width: 28, Value: func(q sales.Quote) any { return customers[q.CustomerID] }},
		{Header: "Status", Width: 12, Value: func(q sales.Quote) any { return q.Status }},
		{Header: "Currency", Value: func(q sales.Quote) any { return q.Currency }},
		{Header: "Lines", Value: func(q sales.Quote) any { return len(q.Lines) }},
		{Header: "Total", Width: 14, Value: func(q sales.Quote) any { return q.Total() }},
		{Header: "Expires", Width: 12, Value: func(q sales.Quote) any { return q.ExpirationDate }},
		{Header: "Created", Width: 12, Value: func(q sales.Quote) any { return q.CreatedAt }},
	}
}

// SalesOrderColumns is the sales order list sheet
func SalesOrderColumns(customers Names) []Column[sales.SalesOrder] {
	return []Column[sales.SalesOrder]{
		{Header: "Order", Width: 14, Value: func(o sales.SalesOrder) any { return o.OrderNumber }},
		{Header: "Customer", Width: 28, Value: func(o sales.SalesOrder) any { return customers[o.CustomerID] }},
		{Header: "Status", Width: 12, Value: func(o sales.SalesOrder) any { return o.Status }},
		{Header: "Currency", Value: func(o sales.SalesOrder) any { return o.Currency }},
		{Header: "Total", Width: 14, Value: func(o sales.SalesOrder) any { return o.Total() }},
		{Header: "Order Date", Width: 12, Value: func(o sales.SalesOrder) any { return o.OrderDate }},
		{Header: "Promised", Width: 12, Value: func(o sales.SalesOrder) any { return o.PromisedDate }},
	}
}

// PurchaseOrderColumns is the purchase order list sheet
func PurchaseOrderColumns(suppliers Names) []Column[purchasing.PurchaseOrder] {
	return []Column[purchasing.PurchaseOrder]{
		{Header: "Order", Width: 14, Value: func(o purchasing.PurchaseOrder) any { return o.OrderNumber }},
		{Header: "Supplier", Width: 28, Value: func(o purchasing.PurchaseOrder) any { return suppliers[o.SupplierID] }},
		{Header: "Status", Width: 18, Value: func(o purchasing.PurchaseOrder) any { return o.Status }},
		{Header: "Currency", Value: func(o purchasing.PurchaseOrder) any { return o.Currency }},
		{Header: "Total", Width: 14, Value: func(o purchasing.PurchaseOrder) any { return o.Total() }},
		{Header: "Order Date", Width: 12, Value: func(o purchasing.PurchaseOrder) any { return o.OrderDate }},
		{Header: "Expected", Width: 12, Value: func(o purchasing.PurchaseOrder) any { return o.ExpectedDate }},
	}
}

// JobColumns is the job list sheet
func JobColumns() []Column[production.Job] {
	return []Column[production.Job]{
		{Header: "Job", Width: 14, Value: func(j production.Job) any { return j.JobNumber }},
		{Header: "Part", Width: 18, Value: func(j production.Job) any { return j.PartNumber }},
		{Header: "Status", Width: 12, Value: func(j production.Job) any { return j.Status }},
		{Header: "Quantity", Value: func(j production.Job) any { return j.Quantity }},
		{Header: "Complete", Value: func(j production.Job) any { return j.QuantityComplete }},
		{Header: "Due", Width: 12, Value: func(j production.Job) any { return j.DueDate }},
	}
}
