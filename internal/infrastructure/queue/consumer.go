package queue

import (
	"context"
	"encoding/json"
	"fmt"

	amqp "github.com/rabbitmq/amqp091-go"
	"github.com/van-william/carbon-sub017/internal/domain/task"
	"go.uber.org/zap"
)

const defaultPrefetch = 8

// Consumer reads one queue and hands each delivery to a task handler
type Consumer struct {
	conn     *amqp.Connection
	channel  *amqp.Channel
	binding  Binding
	handler  task.Handler
	logger   *zap.Logger
	consumer string
}

// NewConsumer declares the exchange and the durable queue of binding, on its
// own connection
func NewConsumer(url, exchange string, prefetch int, binding Binding, handler task.Handler, log *zap.Logger) (*Consumer, error) {
	if exchange == "" {
		exchange = DefaultExchange
	}
	if prefetch <= 0 {
		prefetch = defaultPrefetch
	}
	if log == nil {
		log = zap.NewNop()
	}

	conn, err := Dial(url)
	if err != nil {
		return nil, err
	}
	ch, err := conn.Channel()
	if err != nil {
		conn.Close()
		return nil, fmt.Errorf("failed to open channel: %w", err)
	}

	fail := func(format string, err error) (*Consumer, error) {
		ch.Close()
		conn.Close()
		return nil, fmt.Errorf(format, err)
	}
	if err := declareExchange(ch, exchange); err != nil {
		return fail("failed to declare exchange: %w", err)
	}
	q, err := ch.QueueDeclare(binding.Queue, true, false, false, false, nil)
	if err != nil {
		return fail("failed to declare queue: %w", err)
	}
	if err := ch.QueueBind(q.Name, binding.RoutingKey, exchange, false, nil); err != nil {
		return fail("failed to bind queue: %w", err)
	}
	if err := ch.Qos(prefetch, 0, false); err != nil {
		return fail("failed to set prefetch: %w", err)
	}

	log.Info("consumer initialized",
		zap.String("queue", q.Name),
		zap.String("routing_key", binding.RoutingKey),
		zap.String("exchange", exchange))

	return &Consumer{
		conn:     conn,
		channel:  ch,
		binding:  binding,
		handler:  handler,
		logger:   log,
		consumer: "worker-" + q.Name,
	}, nil
}

// Run consumes until ctx is cancelled or the broker closes the channel
func (c *Consumer) Run(ctx context.Context) error {
	deliveries, err := c.channel.ConsumeWithContext(ctx, c.binding.Queue, c.consumer, false, false, false, false, nil)
	if err != nil {
		return fmt.Errorf("failed to register consumer: %w", err)
	}

	for {
		select {
		case <-ctx.Done():
			return nil
		case d, ok := <-deliveries:
			if !ok {
				if ctx.Err() != nil {
					return nil
				}
				return fmt.Errorf("delivery channel closed for queue %s", c.binding.Queue)
			}
			c.process(ctx, d)
		}
	}
}

// process acks a delivery on success. Anything else is nacked without
// requeue so the broker's dead letter policy applies.
func (c *Consumer) process(ctx context.Context, d amqp.Delivery) {
	log := c.logger.With(zap.String("queue", c.binding.Queue), zap.String("routing_key", d.RoutingKey))

	var t task.Task
	if err := json.Unmarshal(d.Body, &t); err != nil {
		log.Error("undecodable task", zap.Error(err), zap.Int("size", len(d.Body)))
		c.nack(log, d)
		return
	}
	if t.Type == "" {
		t.Type = task.Type(d.RoutingKey)
	}

	if err := c.handler.Handle(ctx, t); err != nil {
		c.nack(log, d)
		return
	}
	if err := d.Ack(false); err != nil {
		log.Error("failed to ack message", zap.Error(err))
	}
}

func (c *Consumer) nack(log *zap.Logger, d amqp.Delivery) {
	if err := d.Nack(false, false); err != nil {
		log.Error("failed to nack message", zap.Error(err))
	}
}

// Close closes the channel and connection
func (c *Consumer) Close() error {
	if c.channel != nil {
		_ = c.channel.Close()
	}
	if c.conn != nil {
		return c.conn.Close()
	}
	return nil
}
