package server

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/opengestu/validele-sub000/internal/db"
	"github.com/opengestu/validele-sub000/internal/repository"
)

type OutboxWriter interface {
	Create(ctx context.Context, conn db.DB, task *repository.OutboxTask) error
}

// OutboxAuditSink stores each batch as one outbox task; the outbox publisher
// ships it to the audit topic.
type OutboxAuditSink struct {
	conn  db.DB
	repo  OutboxWriter
	topic string
}

func NewOutboxAuditSink(conn db.DB, repo OutboxWriter, topic string) *OutboxAuditSink {
	return &OutboxAuditSink{conn: conn, repo: repo, topic: topic}
}

func (s *OutboxAuditSink) Write(ctx context.Context, batch []AuditLogEntry) error {
	if len(batch) == 0 {
		return nil
	}
	task, err := repository.NewOutboxTask(s.topic, batch[0].Handler, batch)
	if err != nil {
		return err
	}
	if err := s.repo.Create(ctx, s.conn, task); err != nil {
		return fmt.Errorf("failed to store audit batch: %w", err)
	}
	return nil
}

// LogAuditSink writes entries to the structured log.
type LogAuditSink struct {
	logger *zap.Logger
}

func NewLogAuditSink(logger *zap.Logger) *LogAuditSink {
	return &LogAuditSink{logger: logger.Named("audit")}
}

func (s *LogAuditSink) Write(_ context.Context, batch []AuditLogEntry) error {
	for _, e := range batch {
		s.logger.Info("audit",
			zap.Time("timestamp", e.Timestamp),
			zap.String("handler", e.Handler),
			zap.String("method", e.Method),
			zap.String("path", e.Path),
			zap.Int("status_code", e.StatusCode),
			zap.String("user_id", e.UserID),
			zap.String("role", e.Role),
			zap.String("order_id", e.OrderID),
			zap.String("old_status", e.OldStatus),
			zap.String("new_status", e.NewStatus),
			zap.String("error_kind", e.ErrorKind),
			zap.Bool("transitioned", e.Transitioned()),
		)
	}
	return nil
}
