package notification

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/van-william/carbon-sub017/internal/domain/task"
)

type captureNotifier struct {
	company uuid.UUID
	got     []task.NotificationPayload
}

func (c *captureNotifier) Notify(_ context.Context, companyID uuid.UUID, n task.NotificationPayload) error {
	c.company = companyID
	c.got = append(c.got, n)
	return nil
}

func TestTaskHandler(t *testing.T) {
	ctx := context.Background()
	companyID := uuid.New()
	capture := &captureNotifier{}
	h := NewTaskHandler(capture)

	tk, err := task.New(task.TypeSendNotification, companyID, task.NotificationPayload{
		Event:   "QuoteSent",
		Subject: "Quote Q26-000001 sent",
	})
	require.NoError(t, err)
	require.NoError(t, h.Handle(ctx, tk))
	require.Len(t, capture.got, 1)
	assert.Equal(t, companyID, capture.company)
	assert.Equal(t, "Quote Q26-000001 sent", capture.got[0].Subject)

	blank, err := task.New(task.TypeSendNotification, companyID, task.NotificationPayload{Event: "x"})
	require.NoError(t, err)
	assert.Error(t, h.Handle(ctx, blank))

	assert.Error(t, h.Handle(ctx, task.Task{Type: task.TypeSendNotification, Payload: []byte("[")}))
}

func TestLogNotifier(t *testing.T) {
	err := NewLogNotifier().Notify(context.Background(), uuid.New(), task.NotificationPayload{
		Subject:    "done",
		DocumentID: uuid.New(),
	})
	assert.NoError(t, err)
}

func TestNewTaskHandler_DefaultsToLog(t *testing.T) {
	h := NewTaskHandler(nil)
	_, ok := h.notifier.(*LogNotifier)
	assert.True(t, ok)
}
