package queue

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sync"
	"time"

	amqp "github.com/rabbitmq/amqp091-go"
	"github.com/van-william/carbon-sub017/internal/domain/task"
	"github.com/van-william/carbon-sub017/internal/infrastructure/metrics"
	"go.uber.org/zap"
)

const publishTimeout = 5 * time.Second

// Publisher publishes tasks to the topic exchange with the task type as
// routing key. Channels are not safe for concurrent publishing, so calls
// are serialised.
type Publisher struct {
	conn     *amqp.Connection
	channel  *amqp.Channel
	exchange string
	logger   *zap.Logger
	mu       sync.Mutex
}

// NewPublisher dials url and declares the exchange
func NewPublisher(url, exchange string, log *zap.Logger) (*Publisher, error) {
	if exchange == "" {
		exchange = DefaultExchange
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
	if err := declareExchange(ch, exchange); err != nil {
		ch.Close()
		conn.Close()
		return nil, fmt.Errorf("failed to declare exchange: %w", err)
	}

	return &Publisher{conn: conn, channel: ch, exchange: exchange, logger: log}, nil
}

// IsConnected checks if the connection is still alive
func (p *Publisher) IsConnected() bool {
	return p.conn != nil && p.channel != nil && !p.conn.IsClosed()
}

// Trigger publishes t and returns without waiting for a consumer
func (p *Publisher) Trigger(ctx context.Context, t task.Task) error {
	err := p.publish(ctx, t)
	metrics.IncrementTaskTriggered(t.Type.String(), err)
	return err
}

func (p *Publisher) publish(ctx context.Context, t task.Task) error {
	if !p.IsConnected() {
		return errors.New("task publisher is not connected")
	}
	msg, err := toPublishing(t)
	if err != nil {
		return err
	}

	ctx, cancel := context.WithTimeout(ctx, publishTimeout)
	defer cancel()

	p.mu.Lock()
	defer p.mu.Unlock()
	if err := p.channel.PublishWithContext(ctx, p.exchange, t.Type.String(), false, false, msg); err != nil {
		return fmt.Errorf("failed to publish task %s: %w", t.Type, err)
	}
	p.logger.Debug("task published",
		zap.String("task_id", t.ID.String()),
		zap.String("task_type", t.Type.String()))
	return nil
}

func toPublishing(t task.Task) (amqp.Publishing, error) {
	body, err := json.Marshal(t)
	if err != nil {
		return amqp.Publishing{}, fmt.Errorf("failed to encode task: %w", err)
	}
	return amqp.Publishing{
		ContentType:  "application/json",
		DeliveryMode: amqp.Persistent,
		MessageId:    t.ID.String(),
		Type:         t.Type.String(),
		Timestamp:    t.CreatedAt,
		Headers:      amqp.Table{"company_id": t.CompanyID.String()},
		Body:         body,
	}, nil
}

// Close closes the channel and connection
func (p *Publisher) Close() error {
	if p.channel != nil {
		_ = p.channel.Close()
	}
	if p.conn != nil {
		return p.conn.Close()
	}
	return nil
}

var _ task.Dispatcher = (*Publisher)(nil)
