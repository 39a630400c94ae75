// Package rabbitmq publishes lifecycle events to a RabbitMQ topic exchange.
package rabbitmq

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"

	amqp "github.com/rabbitmq/amqp091-go"

	"github.com/example/quotedesk/internal/core/events"
	"github.com/example/quotedesk/internal/ports/secondary"
)

// DefaultExchange is the topic exchange events are published to.
const DefaultExchange = "quotedesk.events"

// Channel is the subset of *amqp.Channel the publisher uses.
type Channel interface {
	ExchangeDeclare(name, kind string, durable, autoDelete, internal, noWait bool, args amqp.Table) error
	PublishWithContext(ctx context.Context, exchange, key string, mandatory, immediate bool, msg amqp.Publishing) error
	Close() error
}

// Publisher forwards events to a topic exchange, routed by event type
// (for example "order.status_changed"). It is an event bus subscriber.
type Publisher struct {
	mu       sync.Mutex
	ch       Channel
	conn     *amqp.Connection
	exchange string
}

// Dial connects to url, opens a channel and declares the exchange.
func Dial(url, exchange string) (*Publisher, error) {
	conn, err := amqp.Dial(url)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to RabbitMQ: %w", err)
	}
	ch, err := conn.Channel()
	if err != nil {
		conn.Close()
		return nil, fmt.Errorf("failed to open channel: %w", err)
	}

	p, err := NewPublisher(ch, exchange)
	if err != nil {
		conn.Close()
		return nil, err
	}
	p.conn = conn
	return p, nil
}

// NewPublisher declares exchange on ch and returns a publisher using it.
func NewPublisher(ch Channel, exchange string) (*Publisher, error) {
	if exchange == "" {
		exchange = DefaultExchange
	}
	if err := ch.ExchangeDeclare(exchange, "topic", true, false, false, false, nil); err != nil {
		return nil, fmt.Errorf("failed to declare exchange: %w", err)
	}
	return &Publisher{ch: ch, exchange: exchange}, nil
}

func (p *Publisher) Name() string { return "rabbitmq" }

// Handle publishes evt wrapped in its JSON envelope.
func (p *Publisher) Handle(ctx context.Context, evt events.Event) error {
	body, err := json.Marshal(events.Wrap(evt))
	if err != nil {
		return fmt.Errorf("failed to marshal event: %w", err)
	}

	// Channels are not safe for concurrent publishing.
	p.mu.Lock()
	defer p.mu.Unlock()

	err = p.ch.PublishWithContext(ctx, p.exchange, evt.EventType(), false, false, amqp.Publishing{
		DeliveryMode: amqp.Persistent,
		ContentType:  "application/json",
		Type:         evt.EventType(),
		Timestamp:    evt.OccurredAt(),
		Body:         body,
	})
	if err != nil {
		return fmt.Errorf("failed to publish %s: %w", evt.EventType(), err)
	}
	return nil
}

// Close closes the channel and, when Dial opened it, the connection.
func (p *Publisher) Close() error {
	p.mu.Lock()
	defer p.mu.Unlock()

	err := p.ch.Close()
	if p.conn != nil && !p.conn.IsClosed() {
		if cerr := p.conn.Close(); err == nil {
			err = cerr
		}
	}
	return err
}

// Ensure Publisher implements the interface.
var _ secondary.EventHandler = (*Publisher)(nil)
