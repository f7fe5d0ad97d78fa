package webhook

import (
	"context"
	"fmt"

	"github.com/van-william/carbon-sub017/internal/domain/task"
	"github.com/van-william/carbon-sub017/internal/infrastructure/logger"
	"go.uber.org/zap"
)

// EventSink consumes a forwarded integration event
type EventSink interface {
	Consume(ctx context.Context, t task.Task, payload task.WebhookPayload) error
}

// EventSinkFunc adapts a function to EventSink
type EventSinkFunc func(ctx context.Context, t task.Task, payload task.WebhookPayload) error

// Consume calls f
func (f EventSinkFunc) Consume(ctx context.Context, t task.Task, payload task.WebhookPayload) error {
	return f(ctx, t, payload)
}

// TaskHandler runs webhook.<integration> tasks in the worker. Integrations
// without a sink are logged and acknowledged.
type TaskHandler struct {
	sinks map[string]EventSink
}

// NewTaskHandler creates a TaskHandler with sinks keyed by integration name
func NewTaskHandler(sinks map[string]EventSink) *TaskHandler {
	if sinks == nil {
		sinks = map[string]EventSink{}
	}
	return &TaskHandler{sinks: sinks}
}

// Handle decodes the forwarded event and hands it to its integration's sink
func (h *TaskHandler) Handle(ctx context.Context, t task.Task) error {
	var payload task.WebhookPayload
	if err := t.Decode(&payload); err != nil {
		return fmt.Errorf("invalid %s payload: %w", t.Type, err)
	}

	sink, ok := h.sinks[payload.Integration]
	if !ok {
		logger.L(ctx).Info("webhook event received",
			zap.String("integration", payload.Integration),
			zap.String("event_id", payload.EventID),
			zap.String("event_type", payload.EventType),
			zap.String("company_id", t.CompanyID.String()))
		return nil
	}
	return sink.Consume(ctx, t, payload)
}

var _ task.Handler = (*TaskHandler)(nil)
