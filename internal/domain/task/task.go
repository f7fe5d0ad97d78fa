// Package task defines the fire-and-forget background work the API hands to
// the worker: PDF generation, price recalculation and notifications.
package task

import (
	"context"
	"encoding/json"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/van-william/carbon-sub017/internal/domain/printing"
)

// Type names a task. It doubles as the broker routing key.
type Type string

const (
	TypeGeneratePDF      Type = "pdf.generate"
	TypeRecalculatePrice Type = "price.recalculate"
	TypeSendNotification Type = "notification.send"

	webhookPrefix = "webhook."
)

// WebhookType returns the task type used to forward a verified webhook
func WebhookType(integration string) Type {
	return Type(webhookPrefix + integration)
}

// IsWebhook reports whether t carries a forwarded webhook
func (t Type) IsWebhook() bool {
	return strings.HasPrefix(string(t), webhookPrefix)
}

// String returns the string representation of Type
func (t Type) String() string {
	return string(t)
}

// Task is the envelope published to the queue
type Task struct {
	ID        uuid.UUID       `json:"id"`
	Type      Type            `json:"type"`
	CompanyID uuid.UUID       `json:"company_id"`
	Payload   json.RawMessage `json:"payload"`
	CreatedAt time.Time       `json:"created_at"`
}

// New builds a task with payload marshalled to JSON
func New(t Type, companyID uuid.UUID, payload any) (Task, error) {
	raw, err := json.Marshal(payload)
	if err != nil {
		return Task{}, err
	}
	return Task{
		ID:        uuid.New(),
		Type:      t,
		CompanyID: companyID,
		Payload:   raw,
		CreatedAt: time.Now().UTC(),
	}, nil
}

// Decode unmarshals the payload into v
func (t Task) Decode(v any) error {
	return json.Unmarshal(t.Payload, v)
}

// GeneratePDFPayload asks the worker to render and archive a document
type GeneratePDFPayload struct {
	DocType    printing.DocType `json:"doc_type"`
	DocumentID uuid.UUID        `json:"document_id"`
}

// RecalculatePricePayload asks the worker to reprice a quote
type RecalculatePricePayload struct {
	QuoteID uuid.UUID `json:"quote_id"`
}

// NotificationPayload is a user facing message
type NotificationPayload struct {
	Event       string    `json:"event"`
	Subject     string    `json:"subject"`
	Body        string    `json:"body"`
	RecipientID uuid.UUID `json:"recipient_id,omitempty"`
	DocumentID  uuid.UUID `json:"document_id,omitempty"`
}

// WebhookPayload is a verified inbound webhook event forwarded to the worker
type WebhookPayload struct {
	Integration string          `json:"integration"`
	EventID     string          `json:"event_id"`
	EventType   string          `json:"event_type"`
	Data        json.RawMessage `json:"data"`
	ReceivedAt  time.Time       `json:"received_at"`
}

// Dispatcher hands tasks to the queue. Trigger returns once the task is
// accepted and never waits for it to run.
type Dispatcher interface {
	Trigger(ctx context.Context, task Task) error
}

// Handler runs one task type inside the worker
type Handler interface {
	Handle(ctx context.Context, task Task) error
}

// HandlerFunc adapts a function to Handler
type HandlerFunc func(ctx context.Context, task Task) error

// Handle calls f(ctx, task)
func (f HandlerFunc) Handle(ctx context.Context, task Task) error {
	return f(ctx, task)
}
