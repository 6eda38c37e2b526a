package kafka

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"
	"go.uber.org/zap"

	mock_database "gitlab.ozon.dev/pupkingeorgij/stocksync/internal/db/mocks"
	mock_kafka "gitlab.ozon.dev/pupkingeorgij/stocksync/internal/kafka/mocks"
	"gitlab.ozon.dev/pupkingeorgij/stocksync/internal/repository"
)

type publisherMocks struct {
	db       *mock_database.MockDB
	tx       *mock_database.MockTx
	repo     *mock_kafka.MockOutboxTaskRepository
	producer *mock_kafka.MockProducer
}

func newTestPublisher(t *testing.T) (*Publisher, *publisherMocks) {
	t.Helper()
	ctrl := gomock.NewController(t)
	m := &publisherMocks{
		db:       mock_database.NewMockDB(ctrl),
		tx:       mock_database.NewMockTx(ctrl),
		repo:     mock_kafka.NewMockOutboxTaskRepository(ctrl),
		producer: mock_kafka.NewMockProducer(ctrl),
	}
	p := NewPublisher(m.db, m.repo, m.producer, PublisherConfig{
		PollInterval: time.Second,
		BatchSize:    20,
		MaxAttempts:  5,
	}, zap.NewNop())
	return p, m
}

func TestPublisher_ProcessBatch(t *testing.T) {
	t.Parallel()
	ctx := context.Background()

	t.Run("claims through the marking transaction and publishes", func(t *testing.T) {
		t.Parallel()
		p, m := newTestPublisher(t)

		task := &repository.OutboxTask{
			ID:      uuid.New(),
			Status:  repository.TaskStatusCreated,
			Payload: []byte(`{"action":"operation_created"}`),
			Topic:   "audit_logs",
		}

		m.db.EXPECT().BeginTx(gomock.Any()).Return(m.tx, nil)
		// The select must receive the very transaction that marks the batch
		// PROCESSING; the row locks end when it commits.
		m.repo.EXPECT().GetProcessableTasks(gomock.Any(), m.tx, 20).
			Return([]*repository.OutboxTask{task}, nil)
		m.repo.EXPECT().UpdateTaskStatusTx(gomock.Any(), m.tx, task.ID,
			repository.TaskStatusProcessing, 0, nil, nil).Return(nil)
		m.tx.EXPECT().Commit(gomock.Any()).Return(nil)
		m.tx.EXPECT().Rollback(gomock.Any()).Return(pgx.ErrTxClosed)

		m.producer.EXPECT().SendMessage(gomock.Any(), "audit_logs",
			[]byte(task.ID.String()), []byte(task.Payload)).Return(nil)
		m.repo.EXPECT().UpdateTaskStatus(gomock.Any(), m.db, task.ID,
			repository.TaskStatusDone, 0, nil, gomock.Any()).Return(nil)

		require.NoError(t, p.processBatch(ctx))
	})

	t.Run("empty backlog commits and sends nothing", func(t *testing.T) {
		t.Parallel()
		p, m := newTestPublisher(t)

		m.db.EXPECT().BeginTx(gomock.Any()).Return(m.tx, nil)
		m.repo.EXPECT().GetProcessableTasks(gomock.Any(), m.tx, 20).Return(nil, nil)
		m.tx.EXPECT().Commit(gomock.Any()).Return(nil)
		m.tx.EXPECT().Rollback(gomock.Any()).Return(pgx.ErrTxClosed)

		require.NoError(t, p.processBatch(ctx))
	})

	t.Run("send failure marks the task FAILED with the error", func(t *testing.T) {
		t.Parallel()
		p, m := newTestPublisher(t)

		task := &repository.OutboxTask{
			ID:       uuid.New(),
			Status:   repository.TaskStatusFailed,
			Payload:  []byte(`{}`),
			Topic:    "audit_logs",
			Attempts: 2,
		}

		m.db.EXPECT().BeginTx(gomock.Any()).Return(m.tx, nil)
		m.repo.EXPECT().GetProcessableTasks(gomock.Any(), m.tx, 20).
			Return([]*repository.OutboxTask{task}, nil)
		m.repo.EXPECT().UpdateTaskStatusTx(gomock.Any(), m.tx, task.ID,
			repository.TaskStatusProcessing, 2, nil, nil).Return(nil)
		m.tx.EXPECT().Commit(gomock.Any()).Return(nil)
		m.tx.EXPECT().Rollback(gomock.Any()).Return(pgx.ErrTxClosed)

		m.producer.EXPECT().SendMessage(gomock.Any(), "audit_logs", gomock.Any(), gomock.Any()).
			Return(errors.New("broker down"))
		m.repo.EXPECT().UpdateTaskStatus(gomock.Any(), m.db, task.ID,
			repository.TaskStatusFailed, 3, gomock.Any(), nil).
			DoAndReturn(func(_ context.Context, _ interface{}, _ uuid.UUID, _ repository.TaskStatus, _ int, lastError *string, _ *time.Time) error {
				require.NotNil(t, lastError)
				assert.Equal(t, "broker down", *lastError)
				return nil
			})

		require.NoError(t, p.processBatch(ctx))
	})
}
