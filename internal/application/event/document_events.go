// Package event reacts to domain events published after a save. Handlers
// only trigger background tasks so the request path never waits on them.
package event

import (
	"context"
	"fmt"

	"github.com/van-william/carbon-sub017/internal/application/background"
	"github.com/van-william/carbon-sub017/internal/domain/printing"
	"github.com/van-william/carbon-sub017/internal/domain/production"
	"github.com/van-william/carbon-sub017/internal/domain/purchasing"
	"github.com/van-william/carbon-sub017/internal/domain/sales"
	"github.com/van-william/carbon-sub017/internal/domain/shared"
	"github.com/van-william/carbon-sub017/internal/domain/task"
)

// DocumentEventHandler notifies users when a document changes hands and
// archives the PDF that went out.
type DocumentEventHandler struct {
	dispatcher task.Dispatcher
	archive    bool
}

// NewDocumentEventHandler creates a handler triggering through dispatcher.
// archive enables pdf.generate for documents sent outside the company.
func NewDocumentEventHandler(dispatcher task.Dispatcher, archive bool) *DocumentEventHandler {
	return &DocumentEventHandler{dispatcher: dispatcher, archive: archive}
}

// EventTypes returns the event types this handler is interested in
func (h *DocumentEventHandler) EventTypes() []string {
	return []string{
		sales.EventTypeQuoteSent,
		sales.EventTypeSalesOrderConfirmed,
		purchasing.EventTypePurchaseOrderSubmitted,
		production.EventTypeJobCompleted,
	}
}

// Handle triggers the tasks for one event. Trigger failures are logged by
// background.Trigger and never fail the caller.
func (h *DocumentEventHandler) Handle(ctx context.Context, event shared.DomainEvent) error {
	var (
		note    task.NotificationPayload
		docType printing.DocType
	)
	switch e := event.(type) {
	case *sales.QuoteSentEvent:
		note.Subject = fmt.Sprintf("Quote %s sent", e.QuoteNumber)
		note.Body = fmt.Sprintf("Quote %s for %s was sent to the customer.", e.QuoteNumber, e.Total.StringFixed(2))
		docType = printing.DocTypeQuote
	case *sales.SalesOrderConfirmedEvent:
		note.Subject = fmt.Sprintf("Sales order %s confirmed", e.OrderNumber)
		note.Body = fmt.Sprintf("Sales order %s for %s is confirmed.", e.OrderNumber, e.Total.StringFixed(2))
		docType = printing.DocTypeSalesOrder
	case *purchasing.PurchaseOrderSubmittedEvent:
		note.Subject = fmt.Sprintf("Purchase order %s submitted", e.OrderNumber)
		note.Body = fmt.Sprintf("Purchase order %s for %s was submitted to the supplier.", e.OrderNumber, e.Total.StringFixed(2))
		docType = printing.DocTypePurchaseOrder
	case *production.JobCompletedEvent:
		note.Subject = fmt.Sprintf("Job %s completed", e.JobNumber)
		note.Body = fmt.Sprintf("Job %s finished %s of %s.", e.JobNumber, e.QuantityComplete.String(), e.PartNumber)
	default:
		return fmt.Errorf("unexpected event type: %s", event.EventType())
	}

	note.Event = event.EventType()
	note.DocumentID = event.AggregateID()
	background.Trigger(ctx, h.dispatcher, task.TypeSendNotification, event.CompanyID(), note)

	if h.archive && docType != "" {
		background.Trigger(ctx, h.dispatcher, task.TypeGeneratePDF, event.CompanyID(), task.GeneratePDFPayload{
			DocType:    docType,
			DocumentID: event.AggregateID(),
		})
	}
	return nil
}

// Subscribe registers every handler of this package on bus
func Subscribe(bus shared.EventSubscriber, dispatcher task.Dispatcher, archive bool) {
	h := NewDocumentEventHandler(dispatcher, archive)
	bus.Subscribe(h, h.EventTypes()...)
}

var _ shared.EventHandler = (*DocumentEventHandler)(nil)
