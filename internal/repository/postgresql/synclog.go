package postgresql

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"

	"gitlab.ozon.dev/pupkingeorgij/stocksync/internal/db"
	"gitlab.ozon.dev/pupkingeorgij/stocksync/internal/repository"
)

// SyncLogRepo is append-only: entries are inserted and never updated.
// Deletion happens only through PurgeOlderThan, the explicit retention job.
type SyncLogRepo struct {
	db db.DB
}

func NewSyncLogRepo(db db.DB) *SyncLogRepo {
	return &SyncLogRepo{db: db}
}

func (r *SyncLogRepo) Create(ctx context.Context, entry *repository.SyncLogEntry) error {
	if entry.ID == uuid.Nil {
		entry.ID = uuid.New()
	}

	var details []byte
	if entry.Details != nil {
		var err error
		details, err = json.Marshal(entry.Details)
		if err != nil {
			return fmt.Errorf("failed to encode log details: %w", err)
		}
	}

	_, err := r.db.Exec(ctx, `
        INSERT INTO sync_log_entries (
            id, operation_id, action, severity, details, execution_time_ms, created_at
        ) VALUES ($1, $2, $3, $4, $5, $6, $7)
    `, entry.ID, entry.OperationID, entry.Action, entry.Severity, details, entry.ExecutionTimeMs, entry.CreatedAt)
	return err
}

func (r *SyncLogRepo) GetByOperationID(ctx context.Context, operationID uuid.UUID) ([]*repository.SyncLogEntry, error) {
	var entries []*repository.SyncLogEntry
	err := r.db.Select(ctx, &entries, `
        SELECT * FROM sync_log_entries
        WHERE operation_id = $1
        ORDER BY created_at ASC
    `, operationID)
	return entries, err
}

func (r *SyncLogRepo) PurgeOlderThan(ctx context.Context, cutoff time.Time) (int64, error) {
	tag, err := r.db.Exec(ctx, "DELETE FROM sync_log_entries WHERE created_at < $1", cutoff)
	if err != nil {
		return 0, fmt.Errorf("failed to purge sync log entries: %w", err)
	}
	return tag.RowsAffected(), nil
}
