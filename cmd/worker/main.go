// Command worker consumes background tasks from RabbitMQ: PDF generation,
// price recalculation, notifications and forwarded webhooks.
package main

import (
	"context"
	"errors"
	"os"
	"os/signal"
	"syscall"
	"time"

	salesapp "github.com/van-william/carbon-sub017/internal/application/sales"
	"github.com/van-william/carbon-sub017/internal/bootstrap"
	"github.com/van-william/carbon-sub017/internal/infrastructure/config"
	"github.com/van-william/carbon-sub017/internal/infrastructure/logger"
	"github.com/van-william/carbon-sub017/internal/infrastructure/queue"
	"github.com/van-william/carbon-sub017/internal/infrastructure/scheduler"
	"github.com/van-william/carbon-sub017/internal/infrastructure/telemetry"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

var version = "dev"

var errNoBindings = errors.New("worker tags select no task types")

func main() {
	os.Exit(start())
}

// start runs the worker and returns the process exit code. Deferred cleanup
// runs before main exits.
func start() int {
	cfg, err := config.Load()
	if err != nil {
		panic("Failed to load configuration: " + err.Error())
	}

	log, err := logger.New(&logger.Config{
		Level:   cfg.Log.Level,
		Format:  cfg.Log.Format,
		Output:  cfg.Log.Output,
		Service: "carbon-worker",
	})
	if err != nil {
		panic("Failed to initialize logger: " + err.Error())
	}
	defer func() {
		_ = log.Sync()
	}()

	if cfg.Queue.Driver != queue.DriverAMQP {
		log.Error("Worker requires the amqp queue driver; the memory driver runs tasks inside the API server",
			zap.String("driver", cfg.Queue.Driver))
		return 1
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	tracer, err := telemetry.NewTracerProvider(ctx, cfg.Telemetry, version, log)
	if err != nil {
		log.Fatal("Failed to initialize tracing", zap.Error(err))
	}
	shipper, err := telemetry.NewLogShipper(ctx, cfg.Telemetry, version, log)
	if err != nil {
		log.Fatal("Failed to initialize log shipping", zap.Error(err))
	}
	log = shipper.Attach(log)
	defer func() {
		_ = shipper.Shutdown(context.Background())
	}()
	defer func() {
		_ = tracer.Shutdown(context.Background())
	}()

	c, err := bootstrap.New(ctx, cfg, log)
	if err != nil {
		log.Fatal("Failed to initialize services", zap.Error(err))
	}
	defer func() {
		if err := c.Close(); err != nil {
			log.Error("Error releasing resources", zap.Error(err))
		}
	}()

	bindings, err := plan(cfg.Queue, c.Tasks)
	if err != nil {
		log.Fatal("Invalid worker configuration", zap.Error(err), zap.Strings("tags", cfg.Queue.WorkerTags))
	}

	if cfg.Scheduler.Enabled {
		trigger, err := newExpiryTrigger(cfg.Scheduler, c, log)
		if err != nil {
			log.Fatal("Invalid scheduler configuration", zap.Error(err))
		}
		trigger.Start(ctx)
		defer func() {
			stopCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
			defer cancel()
			if err := trigger.Stop(stopCtx); err != nil {
				log.Warn("Scheduler did not stop in time", zap.Error(err))
			}
		}()
	}

	log.Info("Worker starting", zap.Int("queues", len(bindings)), zap.String("version", version))
	err = run(ctx, cfg.Queue, bindings, c.Tasks, log)
	code := exitCode(err)
	if code != 0 {
		log.Error("Worker stopped", zap.Error(err))
		return code
	}
	log.Info("Worker exited")
	return 0
}

// exitCode is non-zero when consuming ended for any reason other than
// shutdown, so the supervisor restarts the worker
func exitCode(err error) int {
	if err == nil || errors.Is(err, context.Canceled) {
		return 0
	}
	return 1
}

// newExpiryTrigger schedules the daily sweep that expires sent quotes past
// their expiration date
func newExpiryTrigger(cfg config.SchedulerConfig, c *bootstrap.Container, log *zap.Logger) (*scheduler.DailyTrigger, error) {
	hour, minute, err := cfg.QuoteExpiryTime()
	if err != nil {
		return nil, err
	}
	expirer := salesapp.NewQuoteExpirer(c.Repositories.Quotes, c.Services.Quotes, cfg.BatchSize)
	return scheduler.NewDailyTrigger(scheduler.DailyConfig{
		Name:          "quote-expiry",
		Hour:          hour,
		Minute:        minute,
		CheckInterval: cfg.CheckInterval,
		Timeout:       30 * time.Minute,
	}, func(ctx context.Context) error {
		_, err := expirer.Run(logger.WithContext(ctx, log))
		return err
	}, log)
}

// plan returns the queue bindings this worker consumes, honouring the
// configured worker tags
func plan(cfg config.QueueConfig, tasks *queue.Router) ([]queue.Binding, error) {
	types, webhooks := queue.FilterTypes(tasks.Types(), cfg.WorkerTags)
	bindings := queue.BindingsFor(types, webhooks && tasks.HasWebhook())
	if len(bindings) == 0 {
		return nil, errNoBindings
	}
	return bindings, nil
}

// run starts one consumer per binding and blocks until ctx is cancelled or
// a consumer fails, which stops the others
func run(ctx context.Context, cfg config.QueueConfig, bindings []queue.Binding, tasks *queue.Router, log *zap.Logger) error {
	consumers := make([]*queue.Consumer, 0, len(bindings))
	defer func() {
		for _, consumer := range consumers {
			_ = consumer.Close()
		}
	}()

	for _, b := range bindings {
		consumer, err := queue.NewConsumer(cfg.URL, cfg.Exchange, cfg.Prefetch, b, tasks, log)
		if err != nil {
			return err
		}
		consumers = append(consumers, consumer)
		log.Info("Consuming", zap.String("queue", b.Queue), zap.String("routing_key", b.RoutingKey))
	}

	g, gctx := errgroup.WithContext(ctx)
	for _, consumer := range consumers {
		g.Go(func() error {
			return consumer.Run(gctx)
		})
	}
	return g.Wait()
}
