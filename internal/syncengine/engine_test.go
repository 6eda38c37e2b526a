package syncengine

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"
	"go.uber.org/zap"

	"gitlab.ozon.dev/pupkingeorgij/stocksync/internal/remote"
	mock_remote "gitlab.ozon.dev/pupkingeorgij/stocksync/internal/remote/mocks"
	"gitlab.ozon.dev/pupkingeorgij/stocksync/internal/repository"
	"gitlab.ozon.dev/pupkingeorgij/stocksync/internal/stock"
	mock_stock "gitlab.ozon.dev/pupkingeorgij/stocksync/internal/stock/mocks"
	mock_syncengine "gitlab.ozon.dev/pupkingeorgij/stocksync/internal/syncengine/mocks"
)

var testNow = time.Date(2026, 8, 23, 12, 0, 0, 0, time.UTC)

type engineMocks struct {
	ops      *mock_syncengine.MockOperationRepository
	sales    *mock_syncengine.MockSalesRecordRepository
	tokens   *mock_syncengine.MockTokenRepository
	ledger   *mock_stock.MockLedger
	remote   *mock_remote.MockClient
	auditor  *mock_syncengine.MockAuditor
	notifier *mock_syncengine.MockNotifier
	accounts *mock_syncengine.MockAccountResolver
}

func newTestEngine(t *testing.T) (*Engine, *engineMocks) {
	t.Helper()
	ctrl := gomock.NewController(t)
	m := &engineMocks{
		ops:      mock_syncengine.NewMockOperationRepository(ctrl),
		sales:    mock_syncengine.NewMockSalesRecordRepository(ctrl),
		tokens:   mock_syncengine.NewMockTokenRepository(ctrl),
		ledger:   mock_stock.NewMockLedger(ctrl),
		remote:   mock_remote.NewMockClient(ctrl),
		auditor:  mock_syncengine.NewMockAuditor(ctrl),
		notifier: mock_syncengine.NewMockNotifier(ctrl),
		accounts: mock_syncengine.NewMockAccountResolver(ctrl),
	}
	// The audit trail is asserted separately; here it only needs to absorb calls.
	m.auditor.EXPECT().Action(gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any()).AnyTimes()
	m.auditor.EXPECT().Transition(gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any()).AnyTimes()

	e := NewEngine(m.ops, m.sales, m.tokens, m.ledger, m.remote, m.auditor, m.notifier, m.accounts, DefaultRetryPolicy(), zap.NewNop())
	e.now = func() time.Time { return testNow }
	return e, m
}

func pendingOp() *repository.SyncOperation {
	return &repository.SyncOperation{
		ID:            uuid.New(),
		TokenID:       "token-1",
		OrderID:       "order-1",
		AccountName:   "Acme Trading",
		OperationType: repository.OperationDeduction,
		Status:        repository.StatusPending,
		Warehouse:     "msk",
	}
}

func processingOp(items ...repository.LineItem) *repository.SyncOperation {
	op := pendingOp()
	op.Status = repository.StatusProcessing
	op.LineItems = items
	return op
}

func TestEngine_CreateOperation(t *testing.T) {
	t.Parallel()
	ctx := context.Background()

	t.Run("creates pending operation with deferred first attempt", func(t *testing.T) {
		t.Parallel()
		e, m := newTestEngine(t)

		m.ops.EXPECT().GetActiveByOrder(ctx, "token-1", "order-1").Return(nil, repository.ErrObjectNotFound)
		m.accounts.EXPECT().AccountName(ctx, "token-1").Return("Acme Trading")

		var created *repository.SyncOperation
		m.ops.EXPECT().Create(ctx, gomock.Any()).DoAndReturn(
			func(_ context.Context, op *repository.SyncOperation) error {
				created = op
				return nil
			})

		op, err := e.CreateOperation(ctx, "token-1", "order-1", "msk")
		require.NoError(t, err)
		require.NotNil(t, created)
		assert.Equal(t, created.ID, op.ID)
		assert.Equal(t, repository.StatusPending, op.Status)
		assert.Equal(t, repository.OperationDeduction, op.OperationType)
		assert.Equal(t, "Acme Trading", op.AccountName)
		assert.Equal(t, testNow.Add(30*time.Second), op.NextRetryAt)
		assert.Nil(t, op.LineItems, "line items are loaded lazily on first advance")
	})

	t.Run("second create for the same order returns the existing operation", func(t *testing.T) {
		t.Parallel()
		e, m := newTestEngine(t)

		existing := pendingOp()
		m.ops.EXPECT().GetActiveByOrder(ctx, "token-1", "order-1").Return(existing, nil)
		// No Create expectation: a duplicate trigger must never insert.

		op, err := e.CreateOperation(ctx, "token-1", "order-1", "msk")
		require.NoError(t, err)
		assert.Equal(t, existing.ID, op.ID)
	})

	t.Run("lookup error is surfaced", func(t *testing.T) {
		t.Parallel()
		e, m := newTestEngine(t)

		m.ops.EXPECT().GetActiveByOrder(ctx, "token-1", "order-1").Return(nil, errors.New("db down"))

		_, err := e.CreateOperation(ctx, "token-1", "order-1", "msk")
		assert.Error(t, err)
	})
}

func TestEngine_AdvancePending(t *testing.T) {
	t.Parallel()
	ctx := context.Background()

	t.Run("remote already updated completes without touching the ledger", func(t *testing.T) {
		t.Parallel()
		e, m := newTestEngine(t)
		op := pendingOp()

		m.remote.EXPECT().GetOrder(ctx, op.TokenID, op.OrderID).
			Return(&remote.Order{OrderID: op.OrderID, Status: remote.OrderStatusDelivered, StockUpdated: true}, nil)
		m.ops.EXPECT().Update(ctx, op).Return(nil)

		outcome := e.Advance(ctx, op)
		assert.Equal(t, OutcomeProgressed, outcome)
		assert.Equal(t, repository.StatusCompleted, op.Status)
		require.NotNil(t, op.CompletedAt)
		assert.Equal(t, testNow, *op.CompletedAt)
	})

	t.Run("cancelled remote order completes as a no-op", func(t *testing.T) {
		t.Parallel()
		e, m := newTestEngine(t)
		op := pendingOp()

		m.remote.EXPECT().GetOrder(ctx, op.TokenID, op.OrderID).
			Return(&remote.Order{OrderID: op.OrderID, Status: remote.OrderStatusCancelled}, nil)
		m.ops.EXPECT().Update(ctx, op).Return(nil)

		outcome := e.Advance(ctx, op)
		assert.Equal(t, OutcomeProgressed, outcome)
		assert.Equal(t, repository.StatusCompleted, op.Status)
	})

	t.Run("order not ready waits without consuming the retry budget", func(t *testing.T) {
		t.Parallel()
		e, m := newTestEngine(t)
		op := pendingOp()

		m.remote.EXPECT().GetOrder(ctx, op.TokenID, op.OrderID).
			Return(&remote.Order{OrderID: op.OrderID, Status: remote.OrderStatusAwaitingPackaging}, nil)
		m.ops.EXPECT().Update(ctx, op).Return(nil)

		outcome := e.Advance(ctx, op)
		assert.Equal(t, OutcomeWaiting, outcome)
		assert.Equal(t, repository.StatusPending, op.Status)
		assert.Zero(t, op.RetryCount)
		assert.Equal(t, testNow.Add(15*time.Minute), op.NextRetryAt)
	})

	t.Run("ready order loads line items and moves to processing", func(t *testing.T) {
		t.Parallel()
		e, m := newTestEngine(t)
		op := pendingOp()

		items := []repository.LineItem{{SKU: "a", Quantity: 2}}
		m.remote.EXPECT().GetOrder(ctx, op.TokenID, op.OrderID).
			Return(&remote.Order{OrderID: op.OrderID, Status: remote.OrderStatusAwaitingDeliver, LineItems: items}, nil)
		m.ops.EXPECT().Update(ctx, op).Return(nil)

		outcome := e.Advance(ctx, op)
		assert.Equal(t, OutcomeProgressed, outcome)
		assert.Equal(t, repository.StatusProcessing, op.Status)
		assert.Equal(t, items, op.LineItems)
	})

	t.Run("line items are never overwritten on a replay", func(t *testing.T) {
		t.Parallel()
		e, m := newTestEngine(t)
		op := pendingOp()
		original := []repository.LineItem{{SKU: "a", Quantity: 2}}
		op.LineItems = original

		changed := []repository.LineItem{{SKU: "a", Quantity: 99}}
		m.remote.EXPECT().GetOrder(ctx, op.TokenID, op.OrderID).
			Return(&remote.Order{OrderID: op.OrderID, Status: remote.OrderStatusAwaitingDeliver, LineItems: changed}, nil)
		m.ops.EXPECT().Update(ctx, op).Return(nil)

		e.Advance(ctx, op)
		assert.Equal(t, original, op.LineItems)
	})

	t.Run("remote failure consumes one retry", func(t *testing.T) {
		t.Parallel()
		e, m := newTestEngine(t)
		op := pendingOp()

		m.remote.EXPECT().GetOrder(ctx, op.TokenID, op.OrderID).Return(nil, remote.ErrRemoteUnavailable)
		m.ops.EXPECT().Update(ctx, op).Return(nil)

		outcome := e.Advance(ctx, op)
		assert.Equal(t, OutcomeErrorRescheduled, outcome)
		assert.Equal(t, 1, op.RetryCount)
		assert.Equal(t, repository.StatusPending, op.Status)
		assert.Equal(t, testNow.Add(30*time.Second), op.NextRetryAt)
	})
}

func TestEngine_AdvanceProcessing(t *testing.T) {
	t.Parallel()
	ctx := context.Background()

	t.Run("valid order deducts every line item once", func(t *testing.T) {
		t.Parallel()
		e, m := newTestEngine(t)
		op := processingOp(
			repository.LineItem{SKU: "a", Quantity: 2},
			repository.LineItem{SKU: "b", Quantity: 1},
		)

		m.ledger.EXPECT().GetQuantities(ctx, "a").Return(map[string]int{"msk": 10}, nil)
		m.ledger.EXPECT().GetQuantities(ctx, "b").Return(map[string]int{"msk": 10}, nil)
		m.ledger.EXPECT().Deduct(ctx, "a", "msk", 2).Return(nil)
		m.ledger.EXPECT().Deduct(ctx, "b", "msk", 1).Return(nil)
		m.sales.EXPECT().Create(ctx, gomock.Any()).Return(nil)
		m.ops.EXPECT().Update(ctx, op).Return(nil)

		outcome := e.Advance(ctx, op)
		assert.Equal(t, OutcomeProgressed, outcome)
		assert.Equal(t, repository.StatusStockDeducted, op.Status)
	})

	t.Run("validation failure waits and notifies without consuming the budget", func(t *testing.T) {
		t.Parallel()
		e, m := newTestEngine(t)
		op := processingOp(repository.LineItem{SKU: "a", Quantity: 5})

		m.ledger.EXPECT().GetQuantities(ctx, "a").Return(map[string]int{"msk": 1}, nil)
		m.notifier.EXPECT().NotifyValidationFailure(ctx, op, gomock.Any())
		m.ops.EXPECT().Update(ctx, op).Return(nil)

		outcome := e.Advance(ctx, op)
		assert.Equal(t, OutcomeWaiting, outcome)
		assert.Equal(t, repository.StatusProcessing, op.Status)
		assert.Zero(t, op.RetryCount)
		assert.Equal(t, testNow.Add(15*time.Minute), op.NextRetryAt)
		assert.NotEmpty(t, op.ErrorMessage)
	})

	t.Run("mid-order deduction failure rolls back the already-deducted prefix", func(t *testing.T) {
		t.Parallel()
		e, m := newTestEngine(t)
		op := processingOp(
			repository.LineItem{SKU: "a", Quantity: 2},
			repository.LineItem{SKU: "b", Quantity: 1},
		)

		m.ledger.EXPECT().GetQuantities(ctx, "a").Return(map[string]int{"msk": 10}, nil)
		m.ledger.EXPECT().GetQuantities(ctx, "b").Return(map[string]int{"msk": 10}, nil)
		m.ledger.EXPECT().Deduct(ctx, "a", "msk", 2).Return(nil)
		m.ledger.EXPECT().Deduct(ctx, "b", "msk", 1).Return(stock.ErrInsufficientStock)
		m.ledger.EXPECT().Add(ctx, "a", "msk", 2).Return(nil)
		m.notifier.EXPECT().NotifyValidationFailure(ctx, op, gomock.Any())
		m.ops.EXPECT().Update(ctx, op).Return(nil)

		outcome := e.Advance(ctx, op)
		assert.Equal(t, OutcomeWaiting, outcome)
		assert.Equal(t, repository.StatusProcessing, op.Status)
		assert.Zero(t, op.RetryCount, "a stock race is a validation failure, not a technical one")
	})

	t.Run("processing without line items is a technical failure", func(t *testing.T) {
		t.Parallel()
		e, m := newTestEngine(t)
		op := processingOp()

		m.ops.EXPECT().Update(ctx, op).Return(nil)

		outcome := e.Advance(ctx, op)
		assert.Equal(t, OutcomeErrorRescheduled, outcome)
		assert.Equal(t, 1, op.RetryCount)
	})
}

func TestEngine_AdvanceStockDeducted(t *testing.T) {
	t.Parallel()
	ctx := context.Background()

	deductedOp := func() *repository.SyncOperation {
		op := processingOp(repository.LineItem{SKU: "a", Quantity: 2})
		op.Status = repository.StatusStockDeducted
		return op
	}

	t.Run("sets the remote flag and completes", func(t *testing.T) {
		t.Parallel()
		e, m := newTestEngine(t)
		op := deductedOp()

		m.remote.EXPECT().GetOrder(ctx, op.TokenID, op.OrderID).
			Return(&remote.Order{OrderID: op.OrderID, Status: remote.OrderStatusDelivering}, nil)
		m.remote.EXPECT().SetStockUpdatedFlag(ctx, op.TokenID, op.OrderID, true).Return(nil)
		m.ops.EXPECT().Update(ctx, op).Return(nil)

		outcome := e.Advance(ctx, op)
		assert.Equal(t, OutcomeProgressed, outcome)
		assert.Equal(t, repository.StatusCompleted, op.Status)
	})

	t.Run("flag already set completes without another remote write", func(t *testing.T) {
		t.Parallel()
		e, m := newTestEngine(t)
		op := deductedOp()

		m.remote.EXPECT().GetOrder(ctx, op.TokenID, op.OrderID).
			Return(&remote.Order{OrderID: op.OrderID, Status: remote.OrderStatusDelivering, StockUpdated: true}, nil)
		m.ops.EXPECT().Update(ctx, op).Return(nil)

		outcome := e.Advance(ctx, op)
		assert.Equal(t, OutcomeProgressed, outcome)
		assert.Equal(t, repository.StatusCompleted, op.Status)
	})

	t.Run("remote flag failures retry without ever re-deducting stock", func(t *testing.T) {
		t.Parallel()
		e, m := newTestEngine(t)
		op := deductedOp()

		// Three failed attempts, then the flag write lands. The ledger mock
		// has no expectations at all: any Deduct call would fail the test.
		for i := 0; i < 3; i++ {
			m.remote.EXPECT().GetOrder(ctx, op.TokenID, op.OrderID).
				Return(&remote.Order{OrderID: op.OrderID, Status: remote.OrderStatusDelivering}, nil)
			m.remote.EXPECT().SetStockUpdatedFlag(ctx, op.TokenID, op.OrderID, true).Return(remote.ErrRemoteUnavailable)
			m.ops.EXPECT().Update(ctx, op).Return(nil)
			outcome := e.Advance(ctx, op)
			assert.Equal(t, OutcomeErrorRescheduled, outcome)
			assert.Equal(t, repository.StatusStockDeducted, op.Status)
		}
		assert.Equal(t, 3, op.RetryCount)

		m.remote.EXPECT().GetOrder(ctx, op.TokenID, op.OrderID).
			Return(&remote.Order{OrderID: op.OrderID, Status: remote.OrderStatusDelivering}, nil)
		m.remote.EXPECT().SetStockUpdatedFlag(ctx, op.TokenID, op.OrderID, true).Return(nil)
		m.ops.EXPECT().Update(ctx, op).Return(nil)

		outcome := e.Advance(ctx, op)
		assert.Equal(t, OutcomeProgressed, outcome)
		assert.Equal(t, repository.StatusCompleted, op.Status)
	})

	t.Run("exhausting the budget fails the operation and alerts", func(t *testing.T) {
		t.Parallel()
		e, m := newTestEngine(t)
		op := deductedOp()
		op.RetryCount = 4

		m.remote.EXPECT().GetOrder(ctx, op.TokenID, op.OrderID).Return(nil, remote.ErrRemoteUnavailable)
		m.ops.EXPECT().Update(ctx, op).Return(nil)
		m.notifier.EXPECT().NotifyMaxRetries(ctx, op)

		outcome := e.Advance(ctx, op)
		assert.Equal(t, OutcomeMaxRetries, outcome)
		assert.Equal(t, repository.StatusFailed, op.Status)
		assert.Equal(t, 5, op.RetryCount)
	})
}

func TestEngine_ProcessDueOperations(t *testing.T) {
	t.Parallel()
	ctx := context.Background()

	e, m := newTestEngine(t)

	ok := pendingOp()
	failing := pendingOp()
	failing.OrderID = "order-2"

	m.ops.EXPECT().GetDue(ctx, testNow, 10).Return([]*repository.SyncOperation{ok, failing}, nil)

	m.remote.EXPECT().GetOrder(ctx, ok.TokenID, ok.OrderID).
		Return(&remote.Order{OrderID: ok.OrderID, Status: remote.OrderStatusDelivered, StockUpdated: true}, nil)
	m.remote.EXPECT().GetOrder(ctx, failing.TokenID, failing.OrderID).Return(nil, remote.ErrRemoteUnavailable)
	m.ops.EXPECT().Update(ctx, gomock.Any()).Return(nil).Times(2)

	result, err := e.ProcessDueOperations(ctx, 10)
	require.NoError(t, err)
	assert.Equal(t, 2, result.Processed)
	assert.Equal(t, 1, result.Succeeded)
	assert.Equal(t, 1, result.Failed)
	assert.Zero(t, result.MaxRetriesReached)
}

func TestEngine_GetStatistics(t *testing.T) {
	t.Parallel()
	ctx := context.Background()

	tests := []struct {
		name  string
		stats repository.OperationStats
		want  string
	}{
		{name: "healthy", stats: repository.OperationStats{Pending: 3}, want: "healthy"},
		{name: "degraded on any failure", stats: repository.OperationStats{Failed: 1}, want: "degraded"},
		{name: "degraded on stale operations", stats: repository.OperationStats{Stale: 2}, want: "degraded"},
		{name: "unhealthy on many failures", stats: repository.OperationStats{Failed: 10}, want: "unhealthy"},
		{name: "unhealthy on many stale", stats: repository.OperationStats{Stale: 12}, want: "unhealthy"},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			e, m := newTestEngine(t)
			stats := tt.stats
			m.ops.EXPECT().Stats(ctx, testNow).Return(&stats, nil)

			result, err := e.GetStatistics(ctx)
			require.NoError(t, err)
			assert.Equal(t, tt.want, result.HealthStatus)
		})
	}
}
