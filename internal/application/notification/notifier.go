// Package notification delivers user facing messages raised by the worker.
package notification

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/van-william/carbon-sub017/internal/domain/task"
	"github.com/van-william/carbon-sub017/internal/infrastructure/logger"
	"go.uber.org/zap"
)

// Notifier delivers one notification
type Notifier interface {
	Notify(ctx context.Context, companyID uuid.UUID, n task.NotificationPayload) error
}

// LogNotifier writes notifications to the log. It is the default until a
// mail or chat channel is configured.
type LogNotifier struct{}

// NewLogNotifier creates a new LogNotifier
func NewLogNotifier() *LogNotifier {
	return &LogNotifier{}
}

// Notify logs n at info level
func (LogNotifier) Notify(ctx context.Context, companyID uuid.UUID, n task.NotificationPayload) error {
	fields := []zap.Field{
		zap.String("company_id", companyID.String()),
		zap.String("event", n.Event),
		zap.String("subject", n.Subject),
		zap.String("body", n.Body),
	}
	if n.RecipientID != uuid.Nil {
		fields = append(fields, zap.String("recipient_id", n.RecipientID.String()))
	}
	if n.DocumentID != uuid.Nil {
		fields = append(fields, zap.String("document_id", n.DocumentID.String()))
	}
	logger.L(ctx).Info("notification", fields...)
	return nil
}

// TaskHandler runs notification.send tasks
type TaskHandler struct {
	notifier Notifier
}

// NewTaskHandler creates a TaskHandler delivering through notifier
func NewTaskHandler(notifier Notifier) *TaskHandler {
	if notifier == nil {
		notifier = NewLogNotifier()
	}
	return &TaskHandler{notifier: notifier}
}

// Handle decodes the payload and hands it to the notifier
func (h *TaskHandler) Handle(ctx context.Context, t task.Task) error {
	var payload task.NotificationPayload
	if err := t.Decode(&payload); err != nil {
		return fmt.Errorf("invalid %s payload: %w", t.Type, err)
	}
	if payload.Subject == "" {
		return fmt.Errorf("notification %s has no subject", t.ID)
	}
	return h.notifier.Notify(ctx, t.CompanyID, payload)
}

var _ task.Handler = (*TaskHandler)(nil)
