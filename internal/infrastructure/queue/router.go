// Package queue moves background tasks between the API and the worker over
// RabbitMQ, with an in-process dispatcher for development and tests.
package queue

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/van-william/carbon-sub017/internal/domain/task"
	"github.com/van-william/carbon-sub017/internal/infrastructure/logger"
	"github.com/van-william/carbon-sub017/internal/infrastructure/metrics"
	"github.com/van-william/carbon-sub017/internal/infrastructure/telemetry"
	"go.opentelemetry.io/otel/attribute"
	"go.uber.org/zap"
)

// ErrNoHandler is returned for a task type nothing is registered for
var ErrNoHandler = errors.New("no handler registered for task type")

// Router dispatches a task to the handler registered for its type.
// Forwarded webhooks of every integration go to one webhook handler.
type Router struct {
	mu       sync.RWMutex
	handlers map[task.Type]task.Handler
	webhook  task.Handler
	logger   *zap.Logger
}

// NewRouter creates an empty router
func NewRouter(log *zap.Logger) *Router {
	if log == nil {
		log = zap.NewNop()
	}
	return &Router{
		handlers: make(map[task.Type]task.Handler),
		logger:   log,
	}
}

// Register binds h to t, replacing any previous handler
func (r *Router) Register(t task.Type, h task.Handler) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.handlers[t] = h
}

// RegisterWebhook binds the handler for every webhook.<integration> task
func (r *Router) RegisterWebhook(h task.Handler) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.webhook = h
}

// HasWebhook reports whether a webhook handler is registered
func (r *Router) HasWebhook() bool {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.webhook != nil
}

// Types returns the exact task types with handlers, sorted
func (r *Router) Types() []task.Type {
	r.mu.RLock()
	defer r.mu.RUnlock()
	types := make([]task.Type, 0, len(r.handlers))
	for t := range r.handlers {
		types = append(types, t)
	}
	sort.Slice(types, func(i, j int) bool { return types[i] < types[j] })
	return types
}

func (r *Router) lookup(t task.Type) (task.Handler, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	if h, ok := r.handlers[t]; ok {
		return h, true
	}
	if t.IsWebhook() && r.webhook != nil {
		return r.webhook, true
	}
	return nil, false
}

// Handle runs the task. A panicking handler is reported as an error.
func (r *Router) Handle(ctx context.Context, t task.Task) (err error) {
	h, ok := r.lookup(t.Type)
	if !ok {
		return fmt.Errorf("%w: %s", ErrNoHandler, t.Type)
	}

	ctx = logger.WithCompanyID(ctx, t.CompanyID.String())
	log := logger.Enrich(ctx, r.logger).With(
		zap.String("task_id", t.ID.String()),
		zap.String("task_type", t.Type.String()),
	)

	ctx, span := telemetry.StartSpan(ctx, "task."+t.Type.String(),
		attribute.String("task.id", t.ID.String()),
		attribute.String("company.id", t.CompanyID.String()),
	)
	start := time.Now()
	defer func() {
		if rec := recover(); rec != nil {
			err = fmt.Errorf("task handler panic: %v", rec)
		}
		telemetry.End(span, err)
		elapsed := time.Since(start)
		metrics.RecordTaskDuration(t.Type.String(), err, elapsed)
		if err != nil {
			log.Error("task failed", zap.Error(err), zap.Duration("duration", elapsed))
			return
		}
		log.Info("task completed", zap.Duration("duration", elapsed))
	}()

	return h.Handle(logger.WithContext(ctx, log), t)
}

var _ task.Handler = (*Router)(nil)
