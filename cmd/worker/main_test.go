package main

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/van-william/carbon-sub017/internal/domain/task"
	"github.com/van-william/carbon-sub017/internal/infrastructure/config"
	"github.com/van-william/carbon-sub017/internal/infrastructure/queue"
	"go.uber.org/goleak"
	"go.uber.org/zap"
)

func TestMain(m *testing.M) {
	goleak.VerifyTestMain(m)
}

func newTaskRouter(webhooks bool) *queue.Router {
	noop := task.HandlerFunc(func(context.Context, task.Task) error { return nil })
	r := queue.NewRouter(zap.NewNop())
	r.Register(task.TypeGeneratePDF, noop)
	r.Register(task.TypeRecalculatePrice, noop)
	r.Register(task.TypeSendNotification, noop)
	if webhooks {
		r.RegisterWebhook(noop)
	}
	return r
}

func routingKeys(bindings []queue.Binding) []string {
	keys := make([]string, 0, len(bindings))
	for _, b := range bindings {
		keys = append(keys, b.RoutingKey)
	}
	return keys
}

func TestPlan(t *testing.T) {
	tests := []struct {
		name     string
		tags     []string
		webhooks bool
		want     []string
	}{
		{
			name:     "no tags consumes everything",
			webhooks: true,
			want:     []string{"notification.send", "pdf.generate", "price.recalculate", "webhook.#"},
		},
		{
			name: "webhook binding needs a handler",
			want: []string{"notification.send", "pdf.generate", "price.recalculate"},
		},
		{
			name:     "tags select types",
			tags:     []string{"pdf.generate", " webhook "},
			webhooks: true,
			want:     []string{"pdf.generate", "webhook.#"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			bindings, err := plan(config.QueueConfig{WorkerTags: tt.tags}, newTaskRouter(tt.webhooks))
			require.NoError(t, err)
			assert.Equal(t, tt.want, routingKeys(bindings))
		})
	}
}

func TestPlan_QueueNames(t *testing.T) {
	bindings, err := plan(config.QueueConfig{WorkerTags: []string{"price.recalculate", "webhook"}}, newTaskRouter(true))
	require.NoError(t, err)
	require.Len(t, bindings, 2)
	assert.Equal(t, "price.recalculate.q", bindings[0].Queue)
	assert.Equal(t, "webhook.q", bindings[1].Queue)
}

func TestPlan_NothingSelected(t *testing.T) {
	_, err := plan(config.QueueConfig{WorkerTags: []string{"inventory.sync"}}, newTaskRouter(true))
	assert.ErrorIs(t, err, errNoBindings)
}

func TestRun_NoBindings(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	assert.NoError(t, run(ctx, config.QueueConfig{}, nil, newTaskRouter(false), zap.NewNop()))
}

func TestExitCode(t *testing.T) {
	assert.Equal(t, 0, exitCode(nil))
	assert.Equal(t, 0, exitCode(fmt.Errorf("consumer stopped: %w", context.Canceled)))
	assert.Equal(t, 1, exitCode(errors.New("delivery channel closed for queue pdf.generate.q")))
	assert.Equal(t, 1, exitCode(errNoBindings))
}
