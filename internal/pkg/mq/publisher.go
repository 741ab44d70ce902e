package mq

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"time"

	amqp "github.com/rabbitmq/amqp091-go"
)

// EventPublisher is what services depend on; the AMQP publisher and Nop satisfy it.
type EventPublisher interface {
	PublishJSON(ctx context.Context, key string, v any) error
}

// Envelope wraps every domain event put on the exchange.
type Envelope struct {
	Event      string `json:"event"`
	Version    int    `json:"version"`
	OccurredAt string `json:"occurred_at"`
	Data       any    `json:"data"`
}

// NewEnvelope stamps an event with version 1 and the current UTC time.
func NewEnvelope(event string, data any) Envelope {
	return Envelope{
		Event:      event,
		Version:    1,
		OccurredAt: time.Now().UTC().Format(time.RFC3339),
		Data:       data,
	}
}

type Publisher struct {
	conn     *amqp.Connection
	ch       *amqp.Channel
	exchange string
}

func NewPublisher(url, exchange string) (*Publisher, error) {
	conn, err := amqp.Dial(url)
	if err != nil {
		return nil, fmt.Errorf("dial rabbitmq: %w", err)
	}
	ch, err := conn.Channel()
	if err != nil {
		_ = conn.Close()
		return nil, fmt.Errorf("open channel: %w", err)
	}
	if err := ch.ExchangeDeclare(exchange, "topic", true, false, false, false, nil); err != nil {
		_ = ch.Close()
		_ = conn.Close()
		return nil, fmt.Errorf("declare exchange: %w", err)
	}
	return &Publisher{conn: conn, ch: ch, exchange: exchange}, nil
}

func (p *Publisher) PublishJSON(ctx context.Context, key string, v any) error {
	b, err := json.Marshal(v)
	if err != nil {
		return err
	}
	return p.ch.PublishWithContext(ctx, p.exchange, key, false, false, amqp.Publishing{
		ContentType:  "application/json",
		DeliveryMode: amqp.Persistent,
		Timestamp:    time.Now().UTC(),
		Body:         b,
	})
}

func (p *Publisher) Close() error {
	if p.ch != nil {
		_ = p.ch.Close()
	}
	if p.conn != nil {
		return p.conn.Close()
	}
	return nil
}

// Nop drops events. Used when no broker is configured.
type Nop struct{}

func (Nop) PublishJSON(ctx context.Context, key string, v any) error { return nil }

// Publish sends an enveloped event and only logs failures; the caller's
// state change has already been committed.
func Publish(ctx context.Context, p EventPublisher, key string, data any) {
	if p == nil {
		return
	}
	if err := p.PublishJSON(ctx, key, NewEnvelope(key, data)); err != nil {
		log.Printf("[mq] publish %s error: %v", key, err)
	}
}
