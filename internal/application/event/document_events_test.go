package event

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/van-william/carbon-sub017/internal/domain/printing"
	"github.com/van-william/carbon-sub017/internal/domain/production"
	"github.com/van-william/carbon-sub017/internal/domain/purchasing"
	"github.com/van-william/carbon-sub017/internal/domain/sales"
	"github.com/van-william/carbon-sub017/internal/domain/shared"
	"github.com/van-william/carbon-sub017/internal/domain/task"
	infraevent "github.com/van-william/carbon-sub017/internal/infrastructure/event"
	"go.uber.org/zap"
)

type recordingDispatcher struct {
	tasks []task.Task
}

func (d *recordingDispatcher) Trigger(_ context.Context, t task.Task) error {
	d.tasks = append(d.tasks, t)
	return nil
}

func (d *recordingDispatcher) types() []task.Type {
	out := make([]task.Type, len(d.tasks))
	for i, t := range d.tasks {
		out[i] = t.Type
	}
	return out
}

func sentQuote(t *testing.T, companyID uuid.UUID) *sales.Quote {
	t.Helper()
	q, err := sales.NewQuote(companyID, "Q26-000001", uuid.New())
	require.NoError(t, err)
	return q
}

func TestDocumentEventHandler_QuoteSent(t *testing.T) {
	ctx := context.Background()
	companyID := uuid.New()
	d := &recordingDispatcher{}
	h := NewDocumentEventHandler(d, true)

	q := sentQuote(t, companyID)
	require.NoError(t, h.Handle(ctx, sales.NewQuoteSentEvent(q)))
	assert.Equal(t, []task.Type{task.TypeSendNotification, task.TypeGeneratePDF}, d.types())

	var note task.NotificationPayload
	require.NoError(t, d.tasks[0].Decode(&note))
	assert.Equal(t, "Quote Q26-000001 sent", note.Subject)
	assert.Equal(t, q.ID, note.DocumentID)
	assert.Equal(t, companyID, d.tasks[0].CompanyID)

	var pdf task.GeneratePDFPayload
	require.NoError(t, d.tasks[1].Decode(&pdf))
	assert.Equal(t, printing.DocTypeQuote, pdf.DocType)
	assert.Equal(t, q.ID, pdf.DocumentID)
}

func TestDocumentEventHandler_Events(t *testing.T) {
	ctx := context.Background()
	companyID := uuid.New()

	po, err := purchasing.NewPurchaseOrder(companyID, "PO-00001", uuid.New())
	require.NoError(t, err)
	job, err := production.NewJob(companyID, "J-000001", uuid.New(), "BRKT-1", decimal.NewFromInt(5))
	require.NoError(t, err)
	so, err := sales.NewSalesOrder(companyID, "SO-00001", uuid.New())
	require.NoError(t, err)

	tests := []struct {
		name  string
		event shared.DomainEvent
		want  []task.Type
	}{
		{"purchase order", purchasing.NewPurchaseOrderSubmittedEvent(po), []task.Type{task.TypeSendNotification, task.TypeGeneratePDF}},
		{"sales order", sales.NewSalesOrderConfirmedEvent(so), []task.Type{task.TypeSendNotification, task.TypeGeneratePDF}},
		{"job has no outbound document", production.NewJobCompletedEvent(job), []task.Type{task.TypeSendNotification}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			d := &recordingDispatcher{}
			require.NoError(t, NewDocumentEventHandler(d, true).Handle(ctx, tt.event))
			assert.Equal(t, tt.want, d.types())
		})
	}
}

func TestDocumentEventHandler_ArchiveDisabled(t *testing.T) {
	d := &recordingDispatcher{}
	h := NewDocumentEventHandler(d, false)
	require.NoError(t, h.Handle(context.Background(), sales.NewQuoteSentEvent(sentQuote(t, uuid.New()))))
	assert.Equal(t, []task.Type{task.TypeSendNotification}, d.types())
}

func TestDocumentEventHandler_UnknownEvent(t *testing.T) {
	h := NewDocumentEventHandler(&recordingDispatcher{}, true)
	q := sentQuote(t, uuid.New())
	q.SalesOrderID = &q.ID
	assert.Error(t, h.Handle(context.Background(), sales.NewQuoteOrderedEvent(q)))
}

func TestSubscribe(t *testing.T) {
	bus := infraevent.NewInMemoryEventBus(zap.NewNop())
	d := &recordingDispatcher{}
	Subscribe(bus, d, false)

	companyID := uuid.New()
	require.NoError(t, bus.Publish(context.Background(), sales.NewQuoteSentEvent(sentQuote(t, companyID))))
	assert.Equal(t, []task.Type{task.TypeSendNotification}, d.types())
	assert.Equal(t, 1, bus.HandlerCount(sales.EventTypeQuoteSent))
}
