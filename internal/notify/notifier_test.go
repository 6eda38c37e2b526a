package notify

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"
	"go.uber.org/zap"

	mock_notify "gitlab.ozon.dev/pupkingeorgij/stocksync/internal/notify/mocks"
	"gitlab.ozon.dev/pupkingeorgij/stocksync/internal/repository"
)

var testNow = time.Date(2026, 8, 23, 12, 0, 0, 0, time.UTC)

type serviceMocks struct {
	transport *mock_notify.MockTransport
	trackers  *mock_notify.MockTrackerRepository
	queue     *mock_notify.MockQueueRepository
}

func newTestService(t *testing.T) (*Service, *serviceMocks) {
	t.Helper()
	ctrl := gomock.NewController(t)
	m := &serviceMocks{
		transport: mock_notify.NewMockTransport(ctrl),
		trackers:  mock_notify.NewMockTrackerRepository(ctrl),
		queue:     mock_notify.NewMockQueueRepository(ctrl),
	}
	s := NewService(m.transport, m.trackers, m.queue, 10, zap.NewNop())
	s.now = func() time.Time { return testNow }
	return s, m
}

func testOp() *repository.SyncOperation {
	return &repository.SyncOperation{
		TokenID:     "token-1",
		OrderID:     "order-1",
		AccountName: "Acme Trading",
	}
}

func TestService_NotifyValidationFailure(t *testing.T) {
	t.Parallel()
	ctx := context.Background()

	t.Run("first failure sends on the escalated channel and arms suppression", func(t *testing.T) {
		t.Parallel()
		s, m := newTestService(t)
		op := testOp()

		m.trackers.EXPECT().Get(ctx, "token-1", "order-1").Return(nil, repository.ErrObjectNotFound)
		m.transport.EXPECT().Send(ctx, ChannelEscalated, "[medium] account=Acme Trading order=order-1: stock validation failed: sku a short by 3").Return(nil)

		var saved *repository.NotificationTracker
		m.trackers.EXPECT().Upsert(ctx, gomock.Any()).DoAndReturn(
			func(_ context.Context, tracker *repository.NotificationTracker) error {
				saved = tracker
				return nil
			})

		s.NotifyValidationFailure(ctx, op, "sku a short by 3")

		require.NotNil(t, saved)
		assert.True(t, saved.ValidationFailureNotified)
		assert.Equal(t, 1, saved.NotificationCount)
		require.NotNil(t, saved.SuppressionUntil)
		assert.Equal(t, testNow.Add(time.Hour), *saved.SuppressionUntil)
	})

	t.Run("second failure inside the window is suppressed", func(t *testing.T) {
		t.Parallel()
		s, m := newTestService(t)
		op := testOp()

		until := testNow.Add(30 * time.Minute)
		m.trackers.EXPECT().Get(ctx, "token-1", "order-1").Return(&repository.NotificationTracker{
			TokenID:                   "token-1",
			OrderID:                   "order-1",
			ValidationFailureNotified: true,
			SuppressionUntil:          &until,
		}, nil)
		// No Send and no Upsert: the suppressed path is a pure no-op.

		s.NotifyValidationFailure(ctx, op, "sku a short by 3")
	})

	t.Run("failure after the window elapsed notifies again", func(t *testing.T) {
		t.Parallel()
		s, m := newTestService(t)
		op := testOp()

		until := testNow.Add(-time.Minute)
		m.trackers.EXPECT().Get(ctx, "token-1", "order-1").Return(&repository.NotificationTracker{
			TokenID:                   "token-1",
			OrderID:                   "order-1",
			ValidationFailureNotified: true,
			NotificationCount:         1,
			SuppressionUntil:          &until,
		}, nil)
		m.transport.EXPECT().Send(ctx, ChannelEscalated, gomock.Any()).Return(nil)

		var saved *repository.NotificationTracker
		m.trackers.EXPECT().Upsert(ctx, gomock.Any()).DoAndReturn(
			func(_ context.Context, tracker *repository.NotificationTracker) error {
				saved = tracker
				return nil
			})

		s.NotifyValidationFailure(ctx, op, "sku a still short")

		require.NotNil(t, saved)
		assert.Equal(t, 2, saved.NotificationCount)
	})

	t.Run("transport failure queues the message instead of losing it", func(t *testing.T) {
		t.Parallel()
		s, m := newTestService(t)
		op := testOp()

		m.trackers.EXPECT().Get(ctx, "token-1", "order-1").Return(nil, repository.ErrObjectNotFound)
		m.transport.EXPECT().Send(ctx, ChannelEscalated, gomock.Any()).Return(errors.New("broker down"))

		var queued *repository.PendingNotification
		m.queue.EXPECT().Create(ctx, gomock.Any()).DoAndReturn(
			func(_ context.Context, msg *repository.PendingNotification) error {
				queued = msg
				return nil
			})
		m.trackers.EXPECT().Upsert(ctx, gomock.Any()).Return(nil)

		s.NotifyValidationFailure(ctx, op, "sku a short by 3")

		require.NotNil(t, queued)
		assert.Equal(t, ChannelEscalated, queued.Channel)
		assert.Equal(t, PriorityMedium, queued.Priority)
		assert.Zero(t, queued.RetryCount)
		assert.Equal(t, 10, queued.MaxRetries)
		assert.Equal(t, testNow.Add(time.Minute), queued.NextRetryAt)
	})
}

func TestService_NotifyMaxRetries(t *testing.T) {
	t.Parallel()
	ctx := context.Background()

	t.Run("alerts on the critical channel once", func(t *testing.T) {
		t.Parallel()
		s, m := newTestService(t)
		op := testOp()
		op.RetryCount = 5
		op.ErrorMessage = "remote service unavailable"

		m.trackers.EXPECT().Get(ctx, "token-1", "order-1").Return(nil, repository.ErrObjectNotFound)
		m.transport.EXPECT().Send(ctx, ChannelCritical, "[high] account=Acme Trading order=order-1: sync abandoned after 5 attempts: remote service unavailable").Return(nil)

		var saved *repository.NotificationTracker
		m.trackers.EXPECT().Upsert(ctx, gomock.Any()).DoAndReturn(
			func(_ context.Context, tracker *repository.NotificationTracker) error {
				saved = tracker
				return nil
			})

		s.NotifyMaxRetries(ctx, op)

		require.NotNil(t, saved)
		assert.True(t, saved.MaxRetriesNotified)
		require.NotNil(t, saved.SuppressionUntil)
		assert.Equal(t, testNow.Add(24*time.Hour), *saved.SuppressionUntil)
	})

	t.Run("repeat inside the day-long window is suppressed", func(t *testing.T) {
		t.Parallel()
		s, m := newTestService(t)
		op := testOp()

		until := testNow.Add(12 * time.Hour)
		m.trackers.EXPECT().Get(ctx, "token-1", "order-1").Return(&repository.NotificationTracker{
			TokenID:            "token-1",
			OrderID:            "order-1",
			MaxRetriesNotified: true,
			SuppressionUntil:   &until,
		}, nil)

		s.NotifyMaxRetries(ctx, op)
	})

	t.Run("window armed by a validation alert holds for max retries too", func(t *testing.T) {
		t.Parallel()
		s, m := newTestService(t)
		op := testOp()

		// Validation alert 10 minutes ago, window still open: no alert of
		// any kind goes out for the order, regardless of which flag is set.
		until := testNow.Add(50 * time.Minute)
		m.trackers.EXPECT().Get(ctx, "token-1", "order-1").Return(&repository.NotificationTracker{
			TokenID:                   "token-1",
			OrderID:                   "order-1",
			ValidationFailureNotified: true,
			MaxRetriesNotified:        false,
			SuppressionUntil:          &until,
		}, nil)
		// No Send and no Upsert.

		s.NotifyMaxRetries(ctx, op)
	})

	t.Run("max retries after the validation window elapsed alerts", func(t *testing.T) {
		t.Parallel()
		s, m := newTestService(t)
		op := testOp()
		op.RetryCount = 5
		op.ErrorMessage = "remote service unavailable"

		until := testNow.Add(-time.Minute)
		m.trackers.EXPECT().Get(ctx, "token-1", "order-1").Return(&repository.NotificationTracker{
			TokenID:                   "token-1",
			OrderID:                   "order-1",
			ValidationFailureNotified: true,
			NotificationCount:         1,
			SuppressionUntil:          &until,
		}, nil)
		m.transport.EXPECT().Send(ctx, ChannelCritical, gomock.Any()).Return(nil)

		var saved *repository.NotificationTracker
		m.trackers.EXPECT().Upsert(ctx, gomock.Any()).DoAndReturn(
			func(_ context.Context, tracker *repository.NotificationTracker) error {
				saved = tracker
				return nil
			})

		s.NotifyMaxRetries(ctx, op)

		require.NotNil(t, saved)
		assert.True(t, saved.MaxRetriesNotified)
		assert.False(t, saved.ValidationFailureNotified)
		assert.Equal(t, 2, saved.NotificationCount)
	})
}

func TestService_NotifyDiscrepancy(t *testing.T) {
	t.Parallel()
	ctx := context.Background()

	s, m := newTestService(t)
	m.transport.EXPECT().Send(ctx, ChannelRoutine,
		"[low] account=Acme Trading order=order-1: reconciliation discrepancy: local=none remote_stock_updated=true").Return(nil)

	s.NotifyDiscrepancy(ctx, "Acme Trading", "order-1", "local=none remote_stock_updated=true")
}

func TestRetryDelay(t *testing.T) {
	t.Parallel()

	tests := []struct {
		retryCount int
		want       time.Duration
	}{
		{0, time.Minute},
		{1, 2 * time.Minute},
		{2, 4 * time.Minute},
		{5, 32 * time.Minute},
		{6, time.Hour},
		{7, time.Hour},
		{100, time.Hour},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.want, retryDelay(tt.retryCount), "retryCount=%d", tt.retryCount)
	}
}
