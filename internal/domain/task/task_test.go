package task

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/van-william/carbon-sub017/internal/domain/printing"
)

func TestNew_RoundTripsPayload(t *testing.T) {
	companyID := uuid.New()
	docID := uuid.New()

	tk, err := New(TypeGeneratePDF, companyID, GeneratePDFPayload{DocType: printing.DocTypeQuote, DocumentID: docID})
	require.NoError(t, err)
	assert.NotEqual(t, uuid.Nil, tk.ID)
	assert.Equal(t, companyID, tk.CompanyID)

	var p GeneratePDFPayload
	require.NoError(t, tk.Decode(&p))
	assert.Equal(t, docID, p.DocumentID)
	assert.Equal(t, printing.DocTypeQuote, p.DocType)
}

func TestWebhookType(t *testing.T) {
	tp := WebhookType("shipping")
	assert.Equal(t, Type("webhook.shipping"), tp)
	assert.True(t, tp.IsWebhook())
	assert.False(t, TypeSendNotification.IsWebhook())
}

func TestHandlerFunc(t *testing.T) {
	called := false
	var h Handler = HandlerFunc(func(ctx context.Context, tk Task) error {
		called = true
		return nil
	})
	require.NoError(t, h.Handle(context.Background(), Task{}))
	assert.True(t, called)
}
