// Package events publishes domain events to RabbitMQ.
package events

import (
	"context"
	"encoding/json"
	"sync"
	"time"

	"github.com/google/uuid"
	amqp "github.com/rabbitmq/amqp091-go"
)

const (
	BookingCreated       = "booking.created"
	BookingStatusChanged = "booking.status_changed"
	KYCSubmitted         = "kyc.submitted"
	KYCReviewed          = "kyc.reviewed"
	PaymentVerified      = "payment.verified"
	IssueCreated         = "issue.created"
	IssueUpdated         = "issue.updated"
)

type Event struct {
	ID         string    `json:"id"`
	Type       string    `json:"type"`
	OccurredAt time.Time `json:"occurredAt"`
	Data       any       `json:"data"`
}

func NewEvent(eventType string, data any) Event {
	return Event{
		ID:         uuid.NewString(),
		Type:       eventType,
		OccurredAt: time.Now().UTC(),
		Data:       data,
	}
}

type Publisher interface {
	Publish(ctx context.Context, eventType string, data any) error
	Close() error
}

// RabbitPublisher sends every event to a durable topic exchange with the
// event type as routing key.
type RabbitPublisher struct {
	conn     *amqp.Connection
	channel  *amqp.Channel
	exchange string
	mu       sync.Mutex
}

func Dial(url, exchange string) (*RabbitPublisher, error) {
	conn, err := amqp.Dial(url)
	if err != nil {
		return nil, err
	}
	ch, err := conn.Channel()
	if err != nil {
		conn.Close()
		return nil, err
	}
	if err := ch.ExchangeDeclare(exchange, "topic", true, false, false, false, nil); err != nil {
		conn.Close()
		return nil, err
	}
	return &RabbitPublisher{conn: conn, channel: ch, exchange: exchange}, nil
}

func (p *RabbitPublisher) Publish(ctx context.Context, eventType string, data any) error {
	ev := NewEvent(eventType, data)
	body, err := json.Marshal(ev)
	if err != nil {
		return err
	}

	// amqp channels are not safe for concurrent publishing
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.channel.PublishWithContext(ctx,
		p.exchange,
		eventType,
		false, false,
		amqp.Publishing{
			ContentType:  "application/json",
			MessageId:    ev.ID,
			Type:         eventType,
			Body:         body,
			Timestamp:    ev.OccurredAt,
			DeliveryMode: amqp.Persistent,
		},
	)
}

func (p *RabbitPublisher) Close() error {
	p.mu.Lock()
	defer p.mu.Unlock()
	if err := p.channel.Close(); err != nil {
		p.conn.Close()
		return err
	}
	return p.conn.Close()
}

// NopPublisher drops every event. Used when RabbitMQ is not configured.
type NopPublisher struct{}

func (NopPublisher) Publish(context.Context, string, any) error { return nil }
func (NopPublisher) Close() error                               { return nil }

// Recorder keeps published events in memory.
type Recorder struct {
	mu     sync.Mutex
	events []Event
}

func (r *Recorder) Publish(_ context.Context, eventType string, data any) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.events = append(r.events, NewEvent(eventType, data))
	return nil
}

func (r *Recorder) Close() error { return nil }

func (r *Recorder) Events() []Event {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]Event(nil), r.events...)
}

func (r *Recorder) Types() []string {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]string, 0, len(r.events))
	for _, e := range r.events {
		out = append(out, e.Type)
	}
	return out
}
