//go:generate mockgen -source ./audit.go -destination=./mocks/audit.go -package=mock_audit
package audit

import (
	"context"
	"encoding/json"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"gitlab.ozon.dev/pupkingeorgij/stocksync/internal/db"
	"gitlab.ozon.dev/pupkingeorgij/stocksync/internal/repository"
)

type SyncLogRepository interface {
	Create(ctx context.Context, entry *repository.SyncLogEntry) error
}

type OutboxRepository interface {
	Create(ctx context.Context, database db.DB, task *repository.OutboxTask) error
}

// Logger appends immutable SyncLogEntry rows and mirrors each one into the
// outbox for the Kafka audit stream. Audit writes are best effort: a failed
// append is reported but never fails the operation being audited.
type Logger struct {
	db     db.DB
	logs   SyncLogRepository
	outbox OutboxRepository
	topic  string
	logger *zap.Logger
}

func NewLogger(database db.DB, logs SyncLogRepository, outbox OutboxRepository, topic string, logger *zap.Logger) *Logger {
	return &Logger{
		db:     database,
		logs:   logs,
		outbox: outbox,
		topic:  topic,
		logger: logger,
	}
}

func (l *Logger) Action(ctx context.Context, op *repository.SyncOperation, action repository.LogAction, severity repository.LogSeverity, details map[string]any, executionTimeMs *int64) {
	entry := &repository.SyncLogEntry{
		ID:              uuid.New(),
		OperationID:     op.ID,
		Action:          action,
		Severity:        severity,
		Details:         details,
		ExecutionTimeMs: executionTimeMs,
		CreatedAt:       time.Now().UTC(),
	}

	if err := l.logs.Create(ctx, entry); err != nil {
		l.logger.Error("failed to append sync log entry",
			zap.String("operation_id", op.ID.String()),
			zap.String("action", string(action)),
			zap.Error(err))
		return
	}

	l.publish(ctx, op, entry)
}

// Transition records a state-machine transition as a dedicated entry so the
// per-operation log reads as a totally ordered event history.
func (l *Logger) Transition(ctx context.Context, op *repository.SyncOperation, from, to repository.OperationStatus, reason string) {
	l.Action(ctx, op, repository.ActionStatusTransition, repository.SeverityInfo, map[string]any{
		"from":   string(from),
		"to":     string(to),
		"reason": reason,
	}, nil)
}

func (l *Logger) publish(ctx context.Context, op *repository.SyncOperation, entry *repository.SyncLogEntry) {
	payload := repository.AuditEventPayload{
		OperationID:     entry.OperationID.String(),
		TokenID:         op.TokenID,
		OrderID:         op.OrderID,
		Action:          string(entry.Action),
		Severity:        string(entry.Severity),
		Details:         entry.Details,
		ExecutionTimeMs: entry.ExecutionTimeMs,
		Timestamp:       entry.CreatedAt,
	}

	raw, err := json.Marshal(payload)
	if err != nil {
		l.logger.Error("failed to encode audit payload", zap.Error(err))
		return
	}

	task := &repository.OutboxTask{
		Payload: raw,
		Topic:   l.topic,
	}
	if err := l.outbox.Create(ctx, l.db, task); err != nil {
		l.logger.Error("failed to enqueue audit outbox task",
			zap.String("operation_id", entry.OperationID.String()),
			zap.Error(err))
	}
}
