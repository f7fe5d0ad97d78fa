package queue

import (
	"context"
	"errors"
	"sync"

	"github.com/van-william/carbon-sub017/internal/domain/task"
	"github.com/van-william/carbon-sub017/internal/infrastructure/metrics"
	"go.uber.org/zap"
)

const defaultMemoryBuffer = 256

var (
	// ErrQueueFull is returned when the in-memory buffer has no room
	ErrQueueFull = errors.New("task queue is full")
	// ErrDispatcherClosed is returned by Trigger after Close
	ErrDispatcherClosed = errors.New("task dispatcher is closed")
)

// MemoryDispatcher runs tasks on a single background goroutine inside the
// current process
type MemoryDispatcher struct {
	handler task.Handler
	logger  *zap.Logger

	mu     sync.RWMutex
	closed bool
	tasks  chan task.Task

	cancel    context.CancelFunc
	wg        sync.WaitGroup
	closeOnce sync.Once
}

// NewMemoryDispatcher starts the dispatcher loop. buffer <= 0 uses the default.
func NewMemoryDispatcher(handler task.Handler, buffer int, log *zap.Logger) *MemoryDispatcher {
	if buffer <= 0 {
		buffer = defaultMemoryBuffer
	}
	if log == nil {
		log = zap.NewNop()
	}

	ctx, cancel := context.WithCancel(context.Background())
	d := &MemoryDispatcher{
		handler: handler,
		logger:  log,
		tasks:   make(chan task.Task, buffer),
		cancel:  cancel,
	}
	d.wg.Add(1)
	go d.loop(ctx)
	return d
}

// Trigger enqueues t without waiting for it to run
func (d *MemoryDispatcher) Trigger(_ context.Context, t task.Task) error {
	d.mu.RLock()
	defer d.mu.RUnlock()

	var err error
	if d.closed {
		err = ErrDispatcherClosed
	} else {
		select {
		case d.tasks <- t:
		default:
			err = ErrQueueFull
		}
	}
	metrics.IncrementTaskTriggered(t.Type.String(), err)
	return err
}

func (d *MemoryDispatcher) loop(ctx context.Context) {
	defer d.wg.Done()
	for t := range d.tasks {
		// errors are logged by the router; the task is dropped like a nacked message
		if err := d.handler.Handle(ctx, t); err != nil {
			d.logger.Debug("in-memory task dropped", zap.String("task_type", t.Type.String()), zap.Error(err))
		}
	}
}

// Close stops accepting tasks, drains the buffer and waits for the loop
func (d *MemoryDispatcher) Close() error {
	d.closeOnce.Do(func() {
		d.mu.Lock()
		d.closed = true
		close(d.tasks)
		d.mu.Unlock()

		d.wg.Wait()
		d.cancel()
	})
	return nil
}

var _ task.Dispatcher = (*MemoryDispatcher)(nil)
