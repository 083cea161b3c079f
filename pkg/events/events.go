// Package events publishes domain events to RabbitMQ after the store has
// committed. Publishing is best-effort: failures are logged and never undo
// or fail the request that produced the event.
package events

import (
	"context"
	"encoding/json"
	"time"

	amqp "github.com/rabbitmq/amqp091-go"

	"go-jobboard-backend/pkg/logger"
)

type Type string

const (
	PostingModerated         Type = "posting.moderated"
	PostingDeleted           Type = "posting.deleted"
	ApplicationSubmitted     Type = "application.submitted"
	ApplicationStatusChanged Type = "application.status_changed"
	MessageSent              Type = "message.sent"
)

type Event struct {
	Type       Type           `json:"type"`
	OccurredAt time.Time      `json:"occurred_at"`
	Payload    map[string]any `json:"payload"`
}

func New(t Type, payload map[string]any) Event {
	return Event{Type: t, OccurredAt: time.Now().UTC(), Payload: payload}
}

type Publisher interface {
	Publish(ctx context.Context, event Event)
}

// Noop discards every event. Used when AMQP_URL is unset.
type Noop struct{}

func (Noop) Publish(context.Context, Event) {}

// NewPublisher returns an AMQP publisher, or Noop when url is empty.
func NewPublisher(url, queue string) Publisher {
	if url == "" {
		return Noop{}
	}
	return &amqpPublisher{url: url, queue: queue, timeout: 3 * time.Second}
}

type amqpPublisher struct {
	url     string
	queue   string
	timeout time.Duration
}

func (p *amqpPublisher) Publish(ctx context.Context, event Event) {
	if err := p.publish(ctx, event); err != nil {
		logger.L().Warn("event publish failed", "type", event.Type, "error", err)
	}
}

func (p *amqpPublisher) publish(ctx context.Context, event Event) error {
	// The request may already be finishing; the event must still go out.
	ctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), p.timeout)
	defer cancel()

	conn, err := amqp.DialConfig(p.url, amqp.Config{Dial: amqp.DefaultDial(p.timeout)})
	if err != nil {
		return err
	}
	defer func() { _ = conn.Close() }()

	ch, err := conn.Channel()
	if err != nil {
		return err
	}
	defer func() { _ = ch.Close() }()

	if _, err := ch.QueueDeclare(p.queue, true, false, false, false, nil); err != nil {
		return err
	}

	body, err := json.Marshal(event)
	if err != nil {
		return err
	}

	return ch.PublishWithContext(ctx, "", p.queue, false, false, amqp.Publishing{
		ContentType:  "application/json",
		DeliveryMode: amqp.Persistent,
		Timestamp:    event.OccurredAt,
		Type:         string(event.Type),
		Body:         body,
	})
}
