package worker

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"

	amqp "github.com/rabbitmq/amqp091-go"

	"ventbot/internal/logger"
	"ventbot/internal/model"
	"ventbot/internal/repository"
)

// ModerationAuditWorker drains the moderation audit queue into the
// database. Delivery is at-least-once; the repository dedupes on
// event id.
type ModerationAuditWorker struct {
	conn      *amqp.Connection
	repo      *repository.ModerationEventRepository
	queueName string

	cancel context.CancelFunc
	wg     sync.WaitGroup
}

func NewModerationAuditWorker(conn *amqp.Connection, repo *repository.ModerationEventRepository, queueName string) *ModerationAuditWorker {
	return &ModerationAuditWorker{
		conn:      conn,
		repo:      repo,
		queueName: queueName,
	}
}

func (w *ModerationAuditWorker) Start(ctx context.Context) error {
	if w.cancel != nil {
		return nil
	}

	workerCtx, cancel := context.WithCancel(ctx)
	w.cancel = cancel

	ch, err := w.conn.Channel()
	if err != nil {
		cancel()
		return fmt.Errorf("open worker channel failed: %w", err)
	}

	_, err = ch.QueueDeclare(
		w.queueName,
		true,
		false,
		false,
		false,
		nil,
	)
	if err != nil {
		_ = ch.Close()
		cancel()
		return fmt.Errorf("declare worker queue failed: %w", err)
	}

	deliveries, err := ch.Consume(
		w.queueName,
		"",
		false,
		false,
		false,
		false,
		nil,
	)
	if err != nil {
		_ = ch.Close()
		cancel()
		return fmt.Errorf("consume queue failed: %w", err)
	}

	w.wg.Add(1)
	go func() {
		defer w.wg.Done()
		defer ch.Close()

		for {
			select {
			case <-workerCtx.Done():
				return
			case d, ok := <-deliveries:
				if !ok {
					return
				}

				var event model.ModerationEvent
				if err := json.Unmarshal(d.Body, &event); err != nil {
					logger.Error("worker decode event failed", "err", err)
					_ = d.Nack(false, false)
					continue
				}

				if err := w.repo.Create(workerCtx, &event); err != nil {
					logger.Error("worker persist event failed", "event_id", event.EventID, "err", err)
					_ = d.Nack(false, true)
					continue
				}

				_ = d.Ack(false)
			}
		}
	}()

	return nil
}

func (w *ModerationAuditWorker) Close() {
	if w.cancel != nil {
		w.cancel()
	}
	w.wg.Wait()
}
