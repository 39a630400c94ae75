package rabbitmq

import (
	"context"
	"encoding/json"
	"errors"
	"testing"
	"time"

	amqp "github.com/rabbitmq/amqp091-go"

	"github.com/example/quotedesk/internal/core/events"
)

type publishedMessage struct {
	exchange, key string
	msg           amqp.Publishing
}

type fakeChannel struct {
	declared   []string
	published  []publishedMessage
	publishErr error
	closed     bool
}

func (c *fakeChannel) ExchangeDeclare(name, kind string, durable, autoDelete, internal, noWait bool, args amqp.Table) error {
	c.declared = append(c.declared, name+"/"+kind)
	return nil
}

func (c *fakeChannel) PublishWithContext(ctx context.Context, exchange, key string, mandatory, immediate bool, msg amqp.Publishing) error {
	if c.publishErr != nil {
		return c.publishErr
	}
	c.published = append(c.published, publishedMessage{exchange, key, msg})
	return nil
}

func (c *fakeChannel) Close() error {
	c.closed = true
	return nil
}

func TestPublisher_RoutesByEventType(t *testing.T) {
	ch := &fakeChannel{}
	p, err := NewPublisher(ch, "")
	if err != nil {
		t.Fatalf("NewPublisher failed: %v", err)
	}
	if len(ch.declared) != 1 || ch.declared[0] != "quotedesk.events/topic" {
		t.Errorf("declared = %v", ch.declared)
	}

	at := time.Date(2026, 4, 1, 10, 0, 0, 0, time.UTC)
	evt := events.OrderStatusChanged{OrderID: "ORDER-001", From: "confirmed", To: "building", At: at}
	if err := p.Handle(context.Background(), evt); err != nil {
		t.Fatalf("Handle failed: %v", err)
	}

	if len(ch.published) != 1 {
		t.Fatalf("expected one message, got %d", len(ch.published))
	}
	got := ch.published[0]
	if got.exchange != "quotedesk.events" || got.key != "order.status_changed" {
		t.Errorf("published to %s with key %s", got.exchange, got.key)
	}
	if got.msg.ContentType != "application/json" || !got.msg.Timestamp.Equal(at) {
		t.Errorf("unexpected publishing %+v", got.msg)
	}

	var envelope struct {
		Type    string          `json:"type"`
		Payload json.RawMessage `json:"payload"`
	}
	if err := json.Unmarshal(got.msg.Body, &envelope); err != nil {
		t.Fatalf("body is not JSON: %v", err)
	}
	if envelope.Type != "order.status_changed" || len(envelope.Payload) == 0 {
		t.Errorf("unexpected envelope %s", got.msg.Body)
	}
}

func TestPublisher_PublishFailure(t *testing.T) {
	ch := &fakeChannel{publishErr: errors.New("channel closed")}
	p, _ := NewPublisher(ch, "custom")

	if err := p.Handle(context.Background(), events.OrderCreated{OrderID: "ORDER-001"}); err == nil {
		t.Fatal("expected publish error")
	}
	if err := p.Close(); err != nil || !ch.closed {
		t.Errorf("Close = %v, closed = %v", err, ch.closed)
	}
}
