package repository

import (
	"errors"
	"time"

	"github.com/google/uuid"
)

var ErrObjectNotFound = errors.New("not found")

type OperationType string

const (
	OperationDeduction  OperationType = "deduction"
	OperationRefund     OperationType = "refund"
	OperationAdjustment OperationType = "adjustment"
)

type OperationStatus string

const (
	StatusPending       OperationStatus = "pending"
	StatusProcessing    OperationStatus = "processing"
	StatusStockDeducted OperationStatus = "stock_deducted"
	StatusCompleted     OperationStatus = "completed"
	StatusFailed        OperationStatus = "failed"
	StatusCancelled     OperationStatus = "cancelled"
)

func (s OperationStatus) Terminal() bool {
	return s == StatusCompleted || s == StatusFailed || s == StatusCancelled
}

type LineItem struct {
	SKU         string `json:"sku"`
	Quantity    int    `json:"quantity"`
	DisplayName string `json:"display_name,omitempty"`
}

type SyncOperation struct {
	ID                 uuid.UUID       `db:"id"`
	TokenID            string          `db:"token_id"`
	OrderID            string          `db:"order_id"`
	AccountName        string          `db:"account_name"`
	OperationType      OperationType   `db:"operation_type"`
	Status             OperationStatus `db:"status"`
	Warehouse          string          `db:"warehouse"`
	LineItems          []LineItem      `db:"line_items"`
	RetryCount         int             `db:"retry_count"`
	NextRetryAt        time.Time       `db:"next_retry_at"`
	ErrorMessage       string          `db:"error_message"`
	CreatedAt          time.Time       `db:"created_at"`
	UpdatedAt          time.Time       `db:"updated_at"`
	CompletedAt        *time.Time      `db:"completed_at"`
	CancelledBy        string          `db:"cancelled_by"`
	CancellationReason string          `db:"cancellation_reason"`
	RollbackIDs        []uuid.UUID     `db:"rollback_operation_ids"`
}

type LogSeverity string

const (
	SeverityInfo    LogSeverity = "info"
	SeverityWarning LogSeverity = "warning"
	SeverityError   LogSeverity = "error"
)

type LogAction string

const (
	ActionOperationCreated       LogAction = "operation_created"
	ActionLineItemsLoaded        LogAction = "line_items_loaded"
	ActionStockValidationFailed  LogAction = "stock_validation_failed"
	ActionStockDeductionComplete LogAction = "stock_deduction_completed"
	ActionRemoteSyncSuccess      LogAction = "microservice_sync_success"
	ActionStatusTransition       LogAction = "status_transition"
	ActionErrorOccurred          LogAction = "error_occurred"
	ActionRetryScheduled         LogAction = "retry_scheduled"
	ActionMaxRetriesReached      LogAction = "max_retries_reached"
	ActionOperationCancelled     LogAction = "operation_cancelled"
	ActionRollbackCompleted      LogAction = "rollback_completed"
	ActionReconcileDiscrepancy   LogAction = "reconcile_discrepancy"
	ActionReconcileAutoFixed     LogAction = "reconcile_auto_fixed"
)

type SyncLogEntry struct {
	ID              uuid.UUID      `db:"id"`
	OperationID     uuid.UUID      `db:"operation_id"`
	Action          LogAction      `db:"action"`
	Severity        LogSeverity    `db:"severity"`
	Details         map[string]any `db:"details"`
	ExecutionTimeMs *int64         `db:"execution_time_ms"`
	CreatedAt       time.Time      `db:"created_at"`
}

type NotificationTracker struct {
	TokenID                   string     `db:"token_id"`
	OrderID                   string     `db:"order_id"`
	AccountName               string     `db:"account_name"`
	ValidationFailureNotified bool       `db:"validation_failure_notified"`
	MaxRetriesNotified        bool       `db:"max_retries_notified"`
	LastNotificationAt        *time.Time `db:"last_notification_at"`
	NotificationCount         int        `db:"notification_count"`
	SuppressionUntil          *time.Time `db:"suppression_until"`
}

type PendingNotification struct {
	ID          uuid.UUID `db:"id"`
	Message     string    `db:"message"`
	Channel     string    `db:"channel"`
	Priority    string    `db:"priority"`
	RetryCount  int       `db:"retry_count"`
	NextRetryAt time.Time `db:"next_retry_at"`
	MaxRetries  int       `db:"max_retries"`
	CreatedAt   time.Time `db:"created_at"`
}

type Token struct {
	ID          string    `db:"id"`
	AccountName string    `db:"account_name"`
	Credentials string    `db:"credentials"`
	CreatedAt   time.Time `db:"created_at"`
}

type SalesRecord struct {
	ID          int64     `db:"id"`
	OperationID uuid.UUID `db:"operation_id"`
	TokenID     string    `db:"token_id"`
	OrderID     string    `db:"order_id"`
	Warehouse   string    `db:"warehouse"`
	Description string    `db:"description"`
	CreatedAt   time.Time `db:"created_at"`
}

type OperationStats struct {
	Pending        int `db:"pending"`
	Failed         int `db:"failed"`
	CompletedToday int `db:"completed_today"`
	Stale          int `db:"stale"`
}
