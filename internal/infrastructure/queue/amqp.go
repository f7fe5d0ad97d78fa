package queue

import (
	"fmt"
	"strings"

	amqp "github.com/rabbitmq/amqp091-go"
	"github.com/van-william/carbon-sub017/internal/domain/task"
)

// DefaultExchange is the topic exchange tasks are published to
const DefaultExchange = "carbon.tasks"

// webhookBinding routes every forwarded webhook to one queue
const webhookBinding = "webhook.#"

// Dial opens a connection to the broker
func Dial(url string) (*amqp.Connection, error) {
	conn, err := amqp.Dial(url)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to RabbitMQ: %w", err)
	}
	return conn, nil
}

func declareExchange(ch *amqp.Channel, name string) error {
	return ch.ExchangeDeclare(
		name,
		"topic",
		true,  // durable
		false, // auto-deleted
		false, // internal
		false, // no-wait
		nil,
	)
}

// Binding is a durable queue and the routing key it is bound with
type Binding struct {
	Queue      string
	RoutingKey string
}

// QueueName is the durable queue consuming a routing key
func QueueName(routingKey string) string {
	name := strings.TrimSuffix(routingKey, ".#")
	return name + ".q"
}

// BindingsFor returns one binding per task type, plus the webhook binding
// when webhooks is set
func BindingsFor(types []task.Type, webhooks bool) []Binding {
	bindings := make([]Binding, 0, len(types)+1)
	for _, t := range types {
		bindings = append(bindings, Binding{Queue: QueueName(t.String()), RoutingKey: t.String()})
	}
	if webhooks {
		bindings = append(bindings, Binding{Queue: QueueName(webhookBinding), RoutingKey: webhookBinding})
	}
	return bindings
}

// FilterTypes keeps the types named in tags; empty tags keeps everything.
// The tag "webhook" selects the webhook binding.
func FilterTypes(types []task.Type, tags []string) ([]task.Type, bool) {
	if len(tags) == 0 {
		return types, true
	}
	want := make(map[string]bool, len(tags))
	for _, tag := range tags {
		want[strings.TrimSpace(tag)] = true
	}
	out := make([]task.Type, 0, len(types))
	for _, t := range types {
		if want[t.String()] {
			out = append(out, t)
		}
	}
	return out, want["webhook"]
}
