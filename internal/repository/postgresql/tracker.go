package postgresql

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v4"

	"gitlab.ozon.dev/pupkingeorgij/stocksync/internal/db"
	"gitlab.ozon.dev/pupkingeorgij/stocksync/internal/repository"
)

type TrackerRepo struct {
	db db.DB
}

func NewTrackerRepo(db db.DB) *TrackerRepo {
	return &TrackerRepo{db: db}
}

func (r *TrackerRepo) Get(ctx context.Context, tokenID, orderID string) (*repository.NotificationTracker, error) {
	var tracker repository.NotificationTracker
	err := r.db.Get(ctx, &tracker, `
        SELECT * FROM notification_trackers
        WHERE token_id = $1 AND order_id = $2
    `, tokenID, orderID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, repository.ErrObjectNotFound
		}
		return nil, err
	}
	return &tracker, nil
}

func (r *TrackerRepo) Upsert(ctx context.Context, tracker *repository.NotificationTracker) error {
	_, err := r.db.Exec(ctx, `
        INSERT INTO notification_trackers (
            token_id, order_id, account_name,
            validation_failure_notified, max_retries_notified,
            last_notification_at, notification_count, suppression_until
        ) VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
        ON CONFLICT (token_id, order_id) DO UPDATE SET
            account_name = EXCLUDED.account_name,
            validation_failure_notified = EXCLUDED.validation_failure_notified,
            max_retries_notified = EXCLUDED.max_retries_notified,
            last_notification_at = EXCLUDED.last_notification_at,
            notification_count = EXCLUDED.notification_count,
            suppression_until = EXCLUDED.suppression_until
    `, tracker.TokenID, tracker.OrderID, tracker.AccountName,
		tracker.ValidationFailureNotified, tracker.MaxRetriesNotified,
		tracker.LastNotificationAt, tracker.NotificationCount, tracker.SuppressionUntil)
	return err
}
