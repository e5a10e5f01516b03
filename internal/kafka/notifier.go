package kafka

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/opengestu/validele-sub000/internal/db"
	"github.com/opengestu/validele-sub000/internal/notification"
	"github.com/opengestu/validele-sub000/internal/repository"
	"github.com/opengestu/validele-sub000/internal/storage"
)

// OutboxNotifier stores each notification as an outbox task; the Publisher
// delivers it to kafka.
type OutboxNotifier struct {
	db    db.DB
	repo  storage.OutboxTaskRepository
	topic string
}

func NewOutboxNotifier(db db.DB, repo storage.OutboxTaskRepository, topic string) *OutboxNotifier {
	return &OutboxNotifier{db: db, repo: repo, topic: topic}
}

func (n *OutboxNotifier) Notify(ctx context.Context, msg notification.Message) error {
	task, err := repository.NewOutboxTask(n.topic, msg.Recipient, msg)
	if err != nil {
		return err
	}
	return n.repo.Create(ctx, n.db, task)
}

// ProducerNotifier sends straight to a producer. It backs the memory storage
// driver, where there is no outbox table.
type ProducerNotifier struct {
	producer Producer
	topic    string
}

func NewProducerNotifier(producer Producer, topic string) *ProducerNotifier {
	return &ProducerNotifier{producer: producer, topic: topic}
}

func (n *ProducerNotifier) Notify(ctx context.Context, msg notification.Message) error {
	payload, err := json.Marshal(msg)
	if err != nil {
		return fmt.Errorf("failed to marshal notification: %w", err)
	}
	return n.producer.SendMessage(ctx, n.topic, []byte(msg.Recipient), payload)
}
