package queue

import (
	"fmt"

	"github.com/van-william/carbon-sub017/internal/domain/task"
	"github.com/van-william/carbon-sub017/internal/infrastructure/config"
	"go.uber.org/zap"
)

// Driver names accepted in queue.driver
const (
	DriverAMQP   = "amqp"
	DriverMemory = "memory"
)

// Dispatcher is a task.Dispatcher owning a connection or goroutine
type Dispatcher interface {
	task.Dispatcher
	Close() error
}

// NewDispatcher builds the dispatcher selected by cfg.Driver. local runs the
// tasks when the memory driver is selected and is ignored otherwise.
func NewDispatcher(cfg config.QueueConfig, local task.Handler, log *zap.Logger) (Dispatcher, error) {
	switch cfg.Driver {
	case DriverAMQP:
		return NewPublisher(cfg.URL, cfg.Exchange, log)
	case DriverMemory, "":
		if local == nil {
			return nil, fmt.Errorf("memory queue requires a task handler")
		}
		return NewMemoryDispatcher(local, 0, log), nil
	default:
		return nil, fmt.Errorf("unknown queue driver %q", cfg.Driver)
	}
}
