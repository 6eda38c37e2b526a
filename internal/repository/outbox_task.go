package repository

import (
	"encoding/json"
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

type OutboxTask struct {
	ID          uuid.UUID       `db:"id"`
	Status      TaskStatus      `db:"status"`
	Payload     json.RawMessage `db:"payload"`
	Topic       string          `db:"topic"`
	Attempts    int             `db:"attempts"`
	LastError   *string         `db:"last_error"`
	CreatedAt   time.Time       `db:"created_at"`
	UpdatedAt   time.Time       `db:"updated_at"`
	CompletedAt *time.Time      `db:"completed_at"`
}

// AuditEventPayload is the wire form of a SyncLogEntry published to the
// audit_logs topic through the outbox.
type AuditEventPayload struct {
	OperationID     string         `json:"operation_id"`
	TokenID         string         `json:"token_id,omitempty"`
	OrderID         string         `json:"order_id,omitempty"`
	Action          string         `json:"action"`
	Severity        string         `json:"severity"`
	Details         map[string]any `json:"details,omitempty"`
	ExecutionTimeMs *int64         `json:"execution_time_ms,omitempty"`
	Timestamp       time.Time      `json:"timestamp"`
}
