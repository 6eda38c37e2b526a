package server

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"
	"go.uber.org/zap"

	"gitlab.ozon.dev/pupkingeorgij/stocksync/internal/repository"
	mock_server "gitlab.ozon.dev/pupkingeorgij/stocksync/internal/server/mocks"
	"gitlab.ozon.dev/pupkingeorgij/stocksync/internal/syncengine"
)

type serverMocks struct {
	engine   *mock_server.MockSyncService
	ops      *mock_server.MockOperationReader
	audit    *mock_server.MockAuditTrail
	userRepo *mock_server.MockUserRepo
}

func newTestServer(t *testing.T) (http.Handler, *serverMocks) {
	t.Helper()
	ctrl := gomock.NewController(t)
	m := &serverMocks{
		engine:   mock_server.NewMockSyncService(ctrl),
		ops:      mock_server.NewMockOperationReader(ctrl),
		audit:    mock_server.NewMockAuditTrail(ctrl),
		userRepo: mock_server.NewMockUserRepo(ctrl),
	}
	m.userRepo.EXPECT().ValidateUser(gomock.Any(), "admin", "secret").Return(true, nil).AnyTimes()
	m.userRepo.EXPECT().ValidateUser(gomock.Any(), gomock.Any(), gomock.Any()).Return(false, nil).AnyTimes()

	s := New(m.engine, m.ops, m.audit, m.userRepo, zap.NewNop())
	return s.setupRoutes(), m
}

func authedRequest(method, target string, body []byte) *http.Request {
	req := httptest.NewRequest(method, target, bytes.NewReader(body))
	req.SetBasicAuth("admin", "secret")
	return req
}

func TestServer_Auth(t *testing.T) {
	t.Parallel()

	t.Run("missing credentials are rejected", func(t *testing.T) {
		t.Parallel()
		handler, _ := newTestServer(t)

		req := httptest.NewRequest(http.MethodGet, "/v1/statistics", nil)
		rec := httptest.NewRecorder()
		handler.ServeHTTP(rec, req)

		assert.Equal(t, http.StatusUnauthorized, rec.Code)
	})

	t.Run("wrong credentials are rejected", func(t *testing.T) {
		t.Parallel()
		handler, _ := newTestServer(t)

		req := httptest.NewRequest(http.MethodGet, "/v1/statistics", nil)
		req.SetBasicAuth("admin", "wrong")
		rec := httptest.NewRecorder()
		handler.ServeHTTP(rec, req)

		assert.Equal(t, http.StatusUnauthorized, rec.Code)
	})

	t.Run("health endpoint needs no auth", func(t *testing.T) {
		t.Parallel()
		handler, m := newTestServer(t)
		m.engine.EXPECT().GetStatistics(gomock.Any()).Return(&syncengine.Statistics{HealthStatus: "healthy"}, nil)

		req := httptest.NewRequest(http.MethodGet, "/health", nil)
		rec := httptest.NewRecorder()
		handler.ServeHTTP(rec, req)

		assert.Equal(t, http.StatusOK, rec.Code)
	})
}

func TestServer_CreateOperation(t *testing.T) {
	t.Parallel()

	t.Run("creates and returns the operation", func(t *testing.T) {
		t.Parallel()
		handler, m := newTestServer(t)

		op := &repository.SyncOperation{ID: uuid.New(), OrderID: "order-1", Status: repository.StatusPending}
		m.engine.EXPECT().CreateOperation(gomock.Any(), "token-1", "order-1", "msk").Return(op, nil)

		body, _ := json.Marshal(map[string]string{
			"token_id": "token-1", "order_id": "order-1", "warehouse": "msk",
		})
		rec := httptest.NewRecorder()
		handler.ServeHTTP(rec, authedRequest(http.MethodPost, "/v1/operations", body))

		assert.Equal(t, http.StatusCreated, rec.Code)
	})

	t.Run("missing fields are a 400", func(t *testing.T) {
		t.Parallel()
		handler, _ := newTestServer(t)

		body, _ := json.Marshal(map[string]string{"token_id": "token-1"})
		rec := httptest.NewRecorder()
		handler.ServeHTTP(rec, authedRequest(http.MethodPost, "/v1/operations", body))

		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})
}

func TestServer_GetOperation(t *testing.T) {
	t.Parallel()

	t.Run("unknown id is a 404", func(t *testing.T) {
		t.Parallel()
		handler, m := newTestServer(t)

		id := uuid.New()
		m.ops.EXPECT().GetByID(gomock.Any(), id).Return(nil, repository.ErrObjectNotFound)

		rec := httptest.NewRecorder()
		handler.ServeHTTP(rec, authedRequest(http.MethodGet, "/v1/operations/"+id.String(), nil))

		assert.Equal(t, http.StatusNotFound, rec.Code)
	})

	t.Run("malformed id is a 400", func(t *testing.T) {
		t.Parallel()
		handler, _ := newTestServer(t)

		rec := httptest.NewRecorder()
		handler.ServeHTTP(rec, authedRequest(http.MethodGet, "/v1/operations/not-a-uuid", nil))

		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})
}

func TestServer_CancelOperation(t *testing.T) {
	t.Parallel()

	t.Run("successful cancellation", func(t *testing.T) {
		t.Parallel()
		handler, m := newTestServer(t)

		id := uuid.New()
		m.engine.EXPECT().Cancel(gomock.Any(), id, "ops@acme", "customer request").
			Return(&syncengine.SyncResult{Success: true, Message: "operation cancelled"}, nil)

		body, _ := json.Marshal(map[string]string{"actor": "ops@acme", "reason": "customer request"})
		rec := httptest.NewRecorder()
		handler.ServeHTTP(rec, authedRequest(http.MethodPost, "/v1/operations/"+id.String()+"/cancel", body))

		assert.Equal(t, http.StatusOK, rec.Code)
	})

	t.Run("refused cancellation maps to 409", func(t *testing.T) {
		t.Parallel()
		handler, m := newTestServer(t)

		id := uuid.New()
		m.engine.EXPECT().Cancel(gomock.Any(), id, "ops@acme", gomock.Any()).
			Return(&syncengine.SyncResult{Success: false, Message: "failed operations require manual review"}, nil)

		body, _ := json.Marshal(map[string]string{"actor": "ops@acme"})
		rec := httptest.NewRecorder()
		handler.ServeHTTP(rec, authedRequest(http.MethodPost, "/v1/operations/"+id.String()+"/cancel", body))

		assert.Equal(t, http.StatusConflict, rec.Code)
	})
}

func TestServer_Process(t *testing.T) {
	t.Parallel()
	handler, m := newTestServer(t)

	m.engine.EXPECT().ProcessDueOperations(gomock.Any(), 25).
		Return(&syncengine.ProcessResult{Processed: 3, Succeeded: 2, Failed: 1}, nil)

	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, authedRequest(http.MethodPost, "/v1/process?limit=25", nil))

	require.Equal(t, http.StatusOK, rec.Code)
	var result syncengine.ProcessResult
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &result))
	assert.Equal(t, 3, result.Processed)
}

func TestServer_Reconcile(t *testing.T) {
	t.Parallel()
	handler, m := newTestServer(t)

	m.engine.EXPECT().Reconcile(gomock.Any(), "token-1", 50).
		Return(&syncengine.ReconciliationResult{TotalChecked: 10, AutoFixed: 1, DiscrepanciesFound: 1}, nil)

	body, _ := json.Marshal(map[string]any{"token_id": "token-1", "limit": 50})
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, authedRequest(http.MethodPost, "/v1/reconcile", body))

	require.Equal(t, http.StatusOK, rec.Code)
	var result syncengine.ReconciliationResult
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &result))
	assert.Equal(t, 1, result.AutoFixed)
}

func TestServer_ValidateStock(t *testing.T) {
	t.Parallel()

	t.Run("passes parameters through", func(t *testing.T) {
		t.Parallel()
		handler, m := newTestServer(t)

		m.engine.EXPECT().ValidateAvailability(gomock.Any(), "sku-1", "msk", 5).
			Return(&syncengine.ValidationResult{Valid: true, SKU: "sku-1", Available: 9}, nil)

		rec := httptest.NewRecorder()
		handler.ServeHTTP(rec, authedRequest(http.MethodGet, "/v1/stock/validate?sku=sku-1&warehouse=msk&qty=5", nil))

		assert.Equal(t, http.StatusOK, rec.Code)
	})

	t.Run("missing sku is a 400", func(t *testing.T) {
		t.Parallel()
		handler, _ := newTestServer(t)

		rec := httptest.NewRecorder()
		handler.ServeHTTP(rec, authedRequest(http.MethodGet, "/v1/stock/validate?warehouse=msk", nil))

		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})
}

func TestServer_PurgeLogs(t *testing.T) {
	t.Parallel()

	t.Run("purges entries before the cutoff", func(t *testing.T) {
		t.Parallel()
		handler, m := newTestServer(t)

		cutoff := time.Date(2026, 5, 23, 0, 0, 0, 0, time.UTC)
		m.audit.EXPECT().PurgeOlderThan(gomock.Any(), cutoff).Return(int64(37), nil)

		rec := httptest.NewRecorder()
		handler.ServeHTTP(rec, authedRequest(http.MethodDelete, "/v1/admin/logs?before=2026-05-23T00:00:00Z", nil))

		require.Equal(t, http.StatusOK, rec.Code)
		var result map[string]int64
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &result))
		assert.Equal(t, int64(37), result["purged"])
	})

	t.Run("missing cutoff is a 400", func(t *testing.T) {
		t.Parallel()
		handler, _ := newTestServer(t)

		rec := httptest.NewRecorder()
		handler.ServeHTTP(rec, authedRequest(http.MethodDelete, "/v1/admin/logs", nil))

		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})
}

func TestServer_Health(t *testing.T) {
	t.Parallel()

	t.Run("unhealthy maps to 503", func(t *testing.T) {
		t.Parallel()
		handler, m := newTestServer(t)
		m.engine.EXPECT().GetStatistics(gomock.Any()).Return(&syncengine.Statistics{HealthStatus: "unhealthy"}, nil)

		rec := httptest.NewRecorder()
		handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/health", nil))

		assert.Equal(t, http.StatusServiceUnavailable, rec.Code)
	})

	t.Run("degraded still serves 200", func(t *testing.T) {
		t.Parallel()
		handler, m := newTestServer(t)
		m.engine.EXPECT().GetStatistics(gomock.Any()).Return(&syncengine.Statistics{HealthStatus: "degraded"}, nil)

		rec := httptest.NewRecorder()
		handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/health", nil))

		assert.Equal(t, http.StatusOK, rec.Code)
	})
}
