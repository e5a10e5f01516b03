package repository

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
)

type TaskStatus string

const (
	TaskStatusCreated    TaskStatus = "CREATED"
	TaskStatusProcessing TaskStatus = "PROCESSING"
	TaskStatusFailed     TaskStatus = "FAILED"
	TaskStatusDone       TaskStatus = "DONE"
)

// Topics the service writes to through the outbox.
const (
	TopicNotifications = "notifications"
	TopicAuditLogs     = "audit_logs"
)

// OutboxTask is one message waiting to be handed to the broker. Key selects
// the partition, so messages for one recipient keep their order.
type OutboxTask struct {
	ID          uuid.UUID       `db:"id"`
	Status      TaskStatus      `db:"status"`
	Payload     json.RawMessage `db:"payload"`
	Topic       string          `db:"topic"`
	Key         string          `db:"message_key"`
	Attempts    int             `db:"attempts"`
	LastError   *string         `db:"last_error"`
	CreatedAt   time.Time       `db:"created_at"`
	UpdatedAt   time.Time       `db:"updated_at"`
	CompletedAt *time.Time      `db:"completed_at"`
}

// NewOutboxTask encodes v as the task payload.
func NewOutboxTask(topic, key string, v any) (*OutboxTask, error) {
	payload, err := json.Marshal(v)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal %s payload: %w", topic, err)
	}
	return &OutboxTask{
		Status:  TaskStatusCreated,
		Payload: payload,
		Topic:   topic,
		Key:     key,
	}, nil
}
