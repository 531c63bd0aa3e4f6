package rabbitmq

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
	amqp "github.com/rabbitmq/amqp091-go"

	"ventbot/internal/model"
)

// EventPublisher sends moderation audit events to a durable queue for
// asynchronous persistence.
type EventPublisher struct {
	conn      *amqp.Connection
	queueName string
}

func NewEventPublisher(conn *amqp.Connection, queueName string) *EventPublisher {
	return &EventPublisher{
		conn:      conn,
		queueName: queueName,
	}
}

// Publish assigns the event a unique id and timestamp and enqueues it.
func (p *EventPublisher) Publish(ctx context.Context, event model.ModerationEvent) error {
	ch, err := p.conn.Channel()
	if err != nil {
		return fmt.Errorf("open rabbitmq channel failed: %w", err)
	}
	defer ch.Close()

	_, err = ch.QueueDeclare(
		p.queueName,
		true,
		false,
		false,
		false,
		nil,
	)
	if err != nil {
		return fmt.Errorf("declare queue failed: %w", err)
	}

	if event.EventID == "" {
		event.EventID = uuid.NewString()
	}
	if event.CreatedAt.IsZero() {
		event.CreatedAt = time.Now()
	}

	payload, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("marshal event payload failed: %w", err)
	}

	if err := ch.PublishWithContext(
		ctx,
		"",
		p.queueName,
		false,
		false,
		amqp.Publishing{
			ContentType:  "application/json",
			Body:         payload,
			DeliveryMode: amqp.Persistent,
		},
	); err != nil {
		return fmt.Errorf("publish event failed: %w", err)
	}
	return nil
}
