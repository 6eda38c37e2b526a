package postgresql

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"gitlab.ozon.dev/pupkingeorgij/stocksync/internal/db"
	"gitlab.ozon.dev/pupkingeorgij/stocksync/internal/repository"
)

type PendingNotificationRepo struct {
	db db.DB
}

func NewPendingNotificationRepo(db db.DB) *PendingNotificationRepo {
	return &PendingNotificationRepo{db: db}
}

func (r *PendingNotificationRepo) Create(ctx context.Context, msg *repository.PendingNotification) error {
	if msg.ID == uuid.Nil {
		msg.ID = uuid.New()
	}
	_, err := r.db.Exec(ctx, `
        INSERT INTO pending_notifications (
            id, message, channel, priority, retry_count, next_retry_at, max_retries, created_at
        ) VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
    `, msg.ID, msg.Message, msg.Channel, msg.Priority, msg.RetryCount, msg.NextRetryAt, msg.MaxRetries, msg.CreatedAt)
	return err
}

// notifyClaimLease parallels dueClaimLease: the drainer deletes or
// reschedules every claimed row, so the lease covers only a crashed drain.
const notifyClaimLease = 5 * time.Minute

// GetDue claims one batch of deliverable notifications. The scan and the
// lease bump commit together so two drainers never deliver the same row.
func (r *PendingNotificationRepo) GetDue(ctx context.Context, now time.Time, limit int) ([]*repository.PendingNotification, error) {
	tx, err := r.db.BeginTx(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to begin claim transaction: %w", err)
	}
	defer func() {
		_ = tx.Rollback(context.Background())
	}()

	var msgs []*repository.PendingNotification
	err = tx.Select(ctx, &msgs, `
        SELECT * FROM pending_notifications
        WHERE next_retry_at <= $1
        ORDER BY next_retry_at ASC
        LIMIT $2
        FOR UPDATE SKIP LOCKED
    `, now, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to get due notifications: %w", err)
	}

	if len(msgs) > 0 {
		ids := make([]uuid.UUID, 0, len(msgs))
		for _, msg := range msgs {
			ids = append(ids, msg.ID)
		}
		if _, err := tx.Exec(ctx,
			"UPDATE pending_notifications SET next_retry_at = $1 WHERE id = ANY($2)",
			now.Add(notifyClaimLease), ids); err != nil {
			return nil, fmt.Errorf("failed to lease due notifications: %w", err)
		}
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, fmt.Errorf("failed to commit claim: %w", err)
	}
	return msgs, nil
}

func (r *PendingNotificationRepo) UpdateRetry(ctx context.Context, id uuid.UUID, retryCount int, nextRetryAt time.Time) error {
	tag, err := r.db.Exec(ctx, `
        UPDATE pending_notifications
        SET retry_count = $2, next_retry_at = $3
        WHERE id = $1
    `, id, retryCount, nextRetryAt)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return repository.ErrObjectNotFound
	}
	return nil
}

func (r *PendingNotificationRepo) Delete(ctx context.Context, id uuid.UUID) error {
	_, err := r.db.Exec(ctx, "DELETE FROM pending_notifications WHERE id = $1", id)
	return err
}
