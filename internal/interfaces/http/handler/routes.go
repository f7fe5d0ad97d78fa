package handler

import "github.com/van-william/carbon-sub017/internal/interfaces/http/router"

// Handlers holds every API handler. Nil handlers are not routed.
type Handlers struct {
	Customers      *CustomerHandler
	Suppliers      *SupplierHandler
	Parts          *PartHandler
	Quotes         *QuoteHandler
	SalesOrders    *SalesOrderHandler
	PurchaseOrders *PurchaseOrderHandler
	Jobs           *JobHandler
	Sequences      *SequenceHandler
	Webhooks       *WebhookHandler
}

// Register adds one domain group per module to r:
//
//	/sales/{customers,quotes,orders}
//	/purchasing/{suppliers,orders}
//	/items/parts
//	/production/jobs
//	/settings/sequences
//	/webhooks/:integration
func (hs *Handlers) Register(r *router.Router) {
	sales := router.NewDomainGroup("sales", "/sales")
	if hs.Customers != nil {
		hs.Customers.Routes(sales)
	}
	if hs.Quotes != nil {
		hs.Quotes.Routes(sales)
	}
	if hs.SalesOrders != nil {
		hs.SalesOrders.Routes(sales)
	}

	purchasing := router.NewDomainGroup("purchasing", "/purchasing")
	if hs.Suppliers != nil {
		hs.Suppliers.Routes(purchasing)
	}
	if hs.PurchaseOrders != nil {
		hs.PurchaseOrders.Routes(purchasing)
	}

	items := router.NewDomainGroup("items", "/items")
	if hs.Parts != nil {
		hs.Parts.Routes(items)
	}

	production := router.NewDomainGroup("production", "/production")
	if hs.Jobs != nil {
		hs.Jobs.Routes(production)
	}

	settings := router.NewDomainGroup("settings", "/settings")
	if hs.Sequences != nil {
		hs.Sequences.Routes(settings)
	}

	webhooks := router.NewDomainGroup("webhooks", "/webhooks")
	if hs.Webhooks != nil {
		hs.Webhooks.Routes(webhooks)
	}

	r.Register(sales).
		Register(purchasing).
		Register(items).
		Register(production).
		Register(settings).
		Register(webhooks)
}
