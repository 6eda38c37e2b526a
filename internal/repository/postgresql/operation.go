package postgresql

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v4"

	"gitlab.ozon.dev/pupkingeorgij/stocksync/internal/db"
	"gitlab.ozon.dev/pupkingeorgij/stocksync/internal/repository"
)

type OperationRepo struct {
	db db.DB
}

func NewOperationRepo(db db.DB) *OperationRepo {
	return &OperationRepo{db: db}
}

func marshalJSON(v any) ([]byte, error) {
	if v == nil {
		return nil, nil
	}
	return json.Marshal(v)
}

func (r *OperationRepo) Create(ctx context.Context, op *repository.SyncOperation) error {
	if op.ID == uuid.Nil {
		op.ID = uuid.New()
	}

	lineItems, err := marshalJSON(op.LineItems)
	if err != nil {
		return fmt.Errorf("failed to encode line items: %w", err)
	}
	rollbackIDs, err := marshalJSON(op.RollbackIDs)
	if err != nil {
		return fmt.Errorf("failed to encode rollback ids: %w", err)
	}

	_, err = r.db.Exec(ctx, `
        INSERT INTO sync_operations (
            id, token_id, order_id, account_name, operation_type, status, warehouse,
            line_items, retry_count, next_retry_at, error_message,
            created_at, updated_at, completed_at,
            cancelled_by, cancellation_reason, rollback_operation_ids
        ) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16, $17)
    `, op.ID, op.TokenID, op.OrderID, op.AccountName, op.OperationType, op.Status, op.Warehouse,
		lineItems, op.RetryCount, op.NextRetryAt, op.ErrorMessage,
		op.CreatedAt, op.UpdatedAt, op.CompletedAt,
		op.CancelledBy, op.CancellationReason, rollbackIDs)
	return err
}

func (r *OperationRepo) GetByID(ctx context.Context, id uuid.UUID) (*repository.SyncOperation, error) {
	var op repository.SyncOperation
	err := r.db.Get(ctx, &op, "SELECT * FROM sync_operations WHERE id = $1", id)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, repository.ErrObjectNotFound
		}
		return nil, err
	}
	return &op, nil
}

// GetActiveByOrder returns the single non-cancelled operation for the
// (token, order) key. The partial unique index guarantees at most one exists.
func (r *OperationRepo) GetActiveByOrder(ctx context.Context, tokenID, orderID string) (*repository.SyncOperation, error) {
	var op repository.SyncOperation
	err := r.db.Get(ctx, &op, `
        SELECT * FROM sync_operations
        WHERE token_id = $1 AND order_id = $2 AND status <> $3
    `, tokenID, orderID, repository.StatusCancelled)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, repository.ErrObjectNotFound
		}
		return nil, err
	}
	return &op, nil
}

func (r *OperationRepo) Update(ctx context.Context, op *repository.SyncOperation) error {
	lineItems, err := marshalJSON(op.LineItems)
	if err != nil {
		return fmt.Errorf("failed to encode line items: %w", err)
	}
	rollbackIDs, err := marshalJSON(op.RollbackIDs)
	if err != nil {
		return fmt.Errorf("failed to encode rollback ids: %w", err)
	}

	_, err = r.db.Exec(ctx, `
        UPDATE sync_operations
        SET
            account_name = $1,
            status = $2,
            line_items = $3,
            retry_count = $4,
            next_retry_at = $5,
            error_message = $6,
            updated_at = $7,
            completed_at = $8,
            cancelled_by = $9,
            cancellation_reason = $10,
            rollback_operation_ids = $11
        WHERE id = $12
    `, op.AccountName, op.Status, lineItems, op.RetryCount, op.NextRetryAt, op.ErrorMessage,
		op.UpdatedAt, op.CompletedAt, op.CancelledBy, op.CancellationReason, rollbackIDs, op.ID)
	return err
}

// dueClaimLease is how far a claimed operation's next_retry_at is pushed
// forward. The worker reschedules every operation it advances, so the lease
// only matters if a worker dies mid-batch.
const dueClaimLease = 5 * time.Minute

// GetDue claims one batch of due non-terminal operations, oldest first. The
// SKIP LOCKED scan and the lease bump commit together: until a claimed row's
// next_retry_at elapses again, no other scan returns it.
func (r *OperationRepo) GetDue(ctx context.Context, now time.Time, limit int) ([]*repository.SyncOperation, error) {
	tx, err := r.db.BeginTx(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to begin claim transaction: %w", err)
	}
	defer func() {
		_ = tx.Rollback(context.Background())
	}()

	var ops []*repository.SyncOperation
	err = tx.Select(ctx, &ops, `
        SELECT * FROM sync_operations
        WHERE status IN ($1, $2, $3) AND next_retry_at <= $4
        ORDER BY next_retry_at ASC
        LIMIT $5
        FOR UPDATE SKIP LOCKED
    `, repository.StatusPending, repository.StatusProcessing, repository.StatusStockDeducted, now, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to get due operations: %w", err)
	}

	if len(ops) > 0 {
		ids := make([]uuid.UUID, 0, len(ops))
		for _, op := range ops {
			ids = append(ids, op.ID)
		}
		if _, err := tx.Exec(ctx,
			"UPDATE sync_operations SET next_retry_at = $1 WHERE id = ANY($2)",
			now.Add(dueClaimLease), ids); err != nil {
			return nil, fmt.Errorf("failed to lease due operations: %w", err)
		}
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, fmt.Errorf("failed to commit claim: %w", err)
	}
	return ops, nil
}

func (r *OperationRepo) Stats(ctx context.Context, now time.Time) (*repository.OperationStats, error) {
	var stats repository.OperationStats
	dayStart := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, time.UTC)
	staleBefore := now.Add(-24 * time.Hour)

	err := r.db.Get(ctx, &stats, `
        SELECT
            COUNT(*) FILTER (WHERE status = $1)                           AS pending,
            COUNT(*) FILTER (WHERE status = $2)                           AS failed,
            COUNT(*) FILTER (WHERE status = $3 AND completed_at >= $4)    AS completed_today,
            COUNT(*) FILTER (WHERE status IN ($1, $5, $6)
                             AND created_at < $7)                         AS stale
        FROM sync_operations
    `, repository.StatusPending, repository.StatusFailed, repository.StatusCompleted, dayStart,
		repository.StatusProcessing, repository.StatusStockDeducted, staleBefore)
	if err != nil {
		return nil, fmt.Errorf("failed to get operation stats: %w", err)
	}
	return &stats, nil
}
