//go:generate mockgen -source ./server.go -destination=./mocks/server.go -package=mock_server
package server

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/mux"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	"gitlab.ozon.dev/pupkingeorgij/stocksync/internal/repository"
	"gitlab.ozon.dev/pupkingeorgij/stocksync/internal/syncengine"
)

// SyncService is the engine surface the HTTP layer exposes.
type SyncService interface {
	CreateOperation(ctx context.Context, tokenID, orderID, warehouse string) (*repository.SyncOperation, error)
	ProcessDueOperations(ctx context.Context, limit int) (*syncengine.ProcessResult, error)
	Reconcile(ctx context.Context, tokenFilter string, limit int) (*syncengine.ReconciliationResult, error)
	Cancel(ctx context.Context, operationID uuid.UUID, actor, reason string) (*syncengine.SyncResult, error)
	ValidateAvailability(ctx context.Context, sku, warehouse string, qty int) (*syncengine.ValidationResult, error)
	GetStatistics(ctx context.Context) (*syncengine.Statistics, error)
}

type OperationReader interface {
	GetByID(ctx context.Context, id uuid.UUID) (*repository.SyncOperation, error)
}

type AuditTrail interface {
	GetByOperationID(ctx context.Context, operationID uuid.UUID) ([]*repository.SyncLogEntry, error)
	PurgeOlderThan(ctx context.Context, cutoff time.Time) (int64, error)
}

type UserRepo interface {
	ValidateUser(ctx context.Context, username, password string) (bool, error)
}

type Server struct {
	engine   SyncService
	ops      OperationReader
	audit    AuditTrail
	userRepo UserRepo
	logger   *zap.Logger
	server   *http.Server
}

func New(engine SyncService, ops OperationReader, audit AuditTrail, userRepo UserRepo, logger *zap.Logger) *Server {
	return &Server{
		engine:   engine,
		ops:      ops,
		audit:    audit,
		userRepo: userRepo,
		logger:   logger,
	}
}

func (s *Server) Run(port string) error {
	s.server = &http.Server{
		Addr:         ":" + port,
		Handler:      s.setupRoutes(),
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 30 * time.Second,
	}

	s.logger.Info("http server starting", zap.String("port", port))
	if err := s.server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}

func (s *Server) Shutdown(ctx context.Context) error {
	if s.server == nil {
		return nil
	}
	s.logger.Info("shutting down http server")
	return s.server.Shutdown(ctx)
}

func (s *Server) setupRoutes() http.Handler {
	router := mux.NewRouter()

	// Metrics and liveness stay outside auth so the infrastructure can scrape.
	router.Handle("/metrics", promhttp.Handler()).Methods(http.MethodGet)
	router.HandleFunc("/health", s.handleHealth).Methods(http.MethodGet)

	api := router.PathPrefix("/v1").Subrouter()
	api.Use(s.basicAuthMiddleware)

	api.HandleFunc("/operations", s.handleCreateOperation).Methods(http.MethodPost)
	api.HandleFunc("/operations/{id}", s.handleGetOperation).Methods(http.MethodGet)
	api.HandleFunc("/operations/{id}/log", s.handleOperationLog).Methods(http.MethodGet)
	api.HandleFunc("/operations/{id}/cancel", s.handleCancelOperation).Methods(http.MethodPost)

	api.HandleFunc("/process", s.handleProcess).Methods(http.MethodPost)
	api.HandleFunc("/reconcile", s.handleReconcile).Methods(http.MethodPost)
	api.HandleFunc("/stock/validate", s.handleValidateStock).Methods(http.MethodGet)
	api.HandleFunc("/statistics", s.handleStatistics).Methods(http.MethodGet)

	api.HandleFunc("/admin/logs", s.handlePurgeLogs).Methods(http.MethodDelete)

	return router
}

func (s *Server) basicAuthMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		username, password, ok := r.BasicAuth()
		if !ok {
			w.Header().Set("WWW-Authenticate", `Basic realm="Restricted"`)
			http.Error(w, "Unauthorized", http.StatusUnauthorized)
			return
		}

		valid, err := s.userRepo.ValidateUser(r.Context(), username, password)
		if err != nil || !valid {
			w.Header().Set("WWW-Authenticate", `Basic realm="Restricted"`)
			http.Error(w, "Unauthorized", http.StatusUnauthorized)
			return
		}

		next.ServeHTTP(w, r)
	})
}

func respondJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if data != nil {
		if err := json.NewEncoder(w).Encode(data); err != nil {
			http.Error(w, err.Error(), http.StatusInternalServerError)
			return
		}
	}
}

func respondError(w http.ResponseWriter, status int, message string) {
	respondJSON(w, status, map[string]string{"error": message})
}

func (s *Server) handleCreateOperation(w http.ResponseWriter, r *http.Request) {
	var req struct {
		TokenID   string `json:"token_id"`
		OrderID   string `json:"order_id"`
		Warehouse string `json:"warehouse"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	if req.TokenID == "" || req.OrderID == "" || req.Warehouse == "" {
		respondError(w, http.StatusBadRequest, "Missing token_id, order_id or warehouse")
		return
	}

	op, err := s.engine.CreateOperation(r.Context(), req.TokenID, req.OrderID, req.Warehouse)
	if err != nil {
		s.logger.Error("failed to create operation", zap.String("order_id", req.OrderID), zap.Error(err))
		respondError(w, http.StatusInternalServerError, "Error: "+err.Error())
		return
	}

	respondJSON(w, http.StatusCreated, op)
}

func (s *Server) handleGetOperation(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(mux.Vars(r)["id"])
	if err != nil {
		respondError(w, http.StatusBadRequest, "Invalid operation ID")
		return
	}

	op, err := s.ops.GetByID(r.Context(), id)
	if err != nil {
		if errors.Is(err, repository.ErrObjectNotFound) {
			respondError(w, http.StatusNotFound, "Operation not found")
			return
		}
		respondError(w, http.StatusInternalServerError, "Error: "+err.Error())
		return
	}

	respondJSON(w, http.StatusOK, op)
}

func (s *Server) handleOperationLog(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(mux.Vars(r)["id"])
	if err != nil {
		respondError(w, http.StatusBadRequest, "Invalid operation ID")
		return
	}

	entries, err := s.audit.GetByOperationID(r.Context(), id)
	if err != nil {
		respondError(w, http.StatusInternalServerError, "Error: "+err.Error())
		return
	}

	respondJSON(w, http.StatusOK, entries)
}

func (s *Server) handleCancelOperation(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(mux.Vars(r)["id"])
	if err != nil {
		respondError(w, http.StatusBadRequest, "Invalid operation ID")
		return
	}

	var req struct {
		Actor  string `json:"actor"`
		Reason string `json:"reason"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	if req.Actor == "" {
		respondError(w, http.StatusBadRequest, "Missing actor")
		return
	}

	result, err := s.engine.Cancel(r.Context(), id, req.Actor, req.Reason)
	if err != nil {
		s.logger.Error("cancellation failed", zap.String("operation_id", id.String()), zap.Error(err))
		respondError(w, http.StatusInternalServerError, "Error: "+err.Error())
		return
	}

	status := http.StatusOK
	if !result.Success {
		status = http.StatusConflict
	}
	respondJSON(w, status, result)
}

func (s *Server) handleProcess(w http.ResponseWriter, r *http.Request) {
	limit := 50
	if limitStr := r.URL.Query().Get("limit"); limitStr != "" {
		var err error
		limit, err = strconv.Atoi(limitStr)
		if err != nil || limit <= 0 {
			respondError(w, http.StatusBadRequest, "Invalid value for 'limit' parameter")
			return
		}
	}

	result, err := s.engine.ProcessDueOperations(r.Context(), limit)
	if err != nil {
		respondError(w, http.StatusInternalServerError, "Error: "+err.Error())
		return
	}

	respondJSON(w, http.StatusOK, result)
}

func (s *Server) handleReconcile(w http.ResponseWriter, r *http.Request) {
	var req struct {
		TokenID string `json:"token_id"`
		Limit   int    `json:"limit"`
	}
	if r.Body != nil && r.ContentLength > 0 {
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			respondError(w, http.StatusBadRequest, "Invalid request body")
			return
		}
	}
	if req.Limit <= 0 {
		req.Limit = 100
	}

	result, err := s.engine.Reconcile(r.Context(), req.TokenID, req.Limit)
	if err != nil {
		respondError(w, http.StatusInternalServerError, "Error: "+err.Error())
		return
	}

	respondJSON(w, http.StatusOK, result)
}

func (s *Server) handleValidateStock(w http.ResponseWriter, r *http.Request) {
	sku := r.URL.Query().Get("sku")
	warehouse := r.URL.Query().Get("warehouse")
	if sku == "" || warehouse == "" {
		respondError(w, http.StatusBadRequest, "Missing sku or warehouse")
		return
	}

	qty := 1
	if qtyStr := r.URL.Query().Get("qty"); qtyStr != "" {
		var err error
		qty, err = strconv.Atoi(qtyStr)
		if err != nil || qty <= 0 {
			respondError(w, http.StatusBadRequest, "Invalid value for 'qty' parameter")
			return
		}
	}

	result, err := s.engine.ValidateAvailability(r.Context(), sku, warehouse, qty)
	if err != nil {
		respondError(w, http.StatusInternalServerError, "Error: "+err.Error())
		return
	}

	respondJSON(w, http.StatusOK, result)
}

func (s *Server) handleStatistics(w http.ResponseWriter, r *http.Request) {
	stats, err := s.engine.GetStatistics(r.Context())
	if err != nil {
		respondError(w, http.StatusInternalServerError, "Error: "+err.Error())
		return
	}

	respondJSON(w, http.StatusOK, stats)
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	stats, err := s.engine.GetStatistics(r.Context())
	if err != nil {
		respondJSON(w, http.StatusServiceUnavailable, map[string]string{"status": "unhealthy"})
		return
	}

	status := http.StatusOK
	if stats.HealthStatus == "unhealthy" {
		status = http.StatusServiceUnavailable
	}
	respondJSON(w, status, map[string]string{"status": stats.HealthStatus})
}

func (s *Server) handlePurgeLogs(w http.ResponseWriter, r *http.Request) {
	beforeStr := r.URL.Query().Get("before")
	if beforeStr == "" {
		respondError(w, http.StatusBadRequest, "Missing 'before' parameter (RFC 3339)")
		return
	}
	before, err := time.Parse(time.RFC3339, beforeStr)
	if err != nil {
		respondError(w, http.StatusBadRequest, "Invalid 'before' parameter, expected RFC 3339")
		return
	}

	purged, err := s.audit.PurgeOlderThan(r.Context(), before)
	if err != nil {
		respondError(w, http.StatusInternalServerError, "Error: "+err.Error())
		return
	}

	s.logger.Info("audit log purged", zap.Int64("entries", purged), zap.Time("before", before))
	respondJSON(w, http.StatusOK, map[string]int64{"purged": purged})
}
