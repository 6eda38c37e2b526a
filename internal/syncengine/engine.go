//go:generate mockgen -source ./engine.go -destination=./mocks/engine.go -package=mock_syncengine
package syncengine

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"gitlab.ozon.dev/pupkingeorgij/stocksync/internal/metrics"
	"gitlab.ozon.dev/pupkingeorgij/stocksync/internal/remote"
	"gitlab.ozon.dev/pupkingeorgij/stocksync/internal/repository"
	"gitlab.ozon.dev/pupkingeorgij/stocksync/internal/stock"
)

type OperationRepository interface {
	Create(ctx context.Context, op *repository.SyncOperation) error
	GetByID(ctx context.Context, id uuid.UUID) (*repository.SyncOperation, error)
	GetActiveByOrder(ctx context.Context, tokenID, orderID string) (*repository.SyncOperation, error)
	Update(ctx context.Context, op *repository.SyncOperation) error
	GetDue(ctx context.Context, now time.Time, limit int) ([]*repository.SyncOperation, error)
	Stats(ctx context.Context, now time.Time) (*repository.OperationStats, error)
}

type SalesRecordRepository interface {
	Create(ctx context.Context, record *repository.SalesRecord) error
}

type TokenRepository interface {
	GetByID(ctx context.Context, id string) (*repository.Token, error)
	List(ctx context.Context) ([]*repository.Token, error)
}

type Auditor interface {
	Action(ctx context.Context, op *repository.SyncOperation, action repository.LogAction, severity repository.LogSeverity, details map[string]any, executionTimeMs *int64)
	Transition(ctx context.Context, op *repository.SyncOperation, from, to repository.OperationStatus, reason string)
}

type Notifier interface {
	NotifyValidationFailure(ctx context.Context, op *repository.SyncOperation, summary string)
	NotifyMaxRetries(ctx context.Context, op *repository.SyncOperation)
	NotifyDiscrepancy(ctx context.Context, accountName, orderID, detail string)
}

type AccountResolver interface {
	AccountName(ctx context.Context, tokenID string) string
}

// AdvanceOutcome classifies one advance() step for batch accounting.
type AdvanceOutcome int

const (
	// OutcomeProgressed means the operation moved forward in the state machine.
	OutcomeProgressed AdvanceOutcome = iota
	// OutcomeWaiting means the operation was rescheduled without an error
	// (remote not ready yet, or stock still short).
	OutcomeWaiting
	// OutcomeErrorRescheduled means a technical failure consumed one retry.
	OutcomeErrorRescheduled
	// OutcomeMaxRetries means the retry budget ran out and the operation failed.
	OutcomeMaxRetries
)

type ProcessResult struct {
	Processed         int `json:"processed"`
	Succeeded         int `json:"succeeded"`
	Failed            int `json:"failed"`
	MaxRetriesReached int `json:"max_retries_reached"`
}

type SyncResult struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
}

type Statistics struct {
	Pending        int    `json:"pending"`
	Failed         int    `json:"failed"`
	CompletedToday int    `json:"completed_today"`
	Stale          int    `json:"stale"`
	HealthStatus   string `json:"health_status"`
}

// Engine owns the SyncOperation lifecycle. All mutations of an operation go
// through here; everything else only reads.
type Engine struct {
	ops       OperationRepository
	sales     SalesRecordRepository
	tokens    TokenRepository
	ledger    stock.Ledger
	remote    remote.Client
	validator *Validator
	auditor   Auditor
	notifier  Notifier
	accounts  AccountResolver
	policy    RetryPolicy
	logger    *zap.Logger
	now       func() time.Time
}

func NewEngine(
	ops OperationRepository,
	sales SalesRecordRepository,
	tokens TokenRepository,
	ledger stock.Ledger,
	remoteClient remote.Client,
	auditor Auditor,
	notifier Notifier,
	accounts AccountResolver,
	policy RetryPolicy,
	logger *zap.Logger,
) *Engine {
	return &Engine{
		ops:       ops,
		sales:     sales,
		tokens:    tokens,
		ledger:    ledger,
		remote:    remoteClient,
		validator: NewValidator(ledger),
		auditor:   auditor,
		notifier:  notifier,
		accounts:  accounts,
		policy:    policy,
		logger:    logger,
		now:       func() time.Time { return time.Now().UTC() },
	}
}

// CreateOperation is idempotent per (token, order): a second call returns
// the existing non-cancelled operation untouched. This is the guarantee
// that a duplicate webhook can never double-deduct.
func (e *Engine) CreateOperation(ctx context.Context, tokenID, orderID, warehouse string) (*repository.SyncOperation, error) {
	existing, err := e.ops.GetActiveByOrder(ctx, tokenID, orderID)
	if err == nil {
		e.logger.Debug("operation already exists for order",
			zap.String("order_id", orderID),
			zap.String("operation_id", existing.ID.String()))
		return existing, nil
	}
	if !errors.Is(err, repository.ErrObjectNotFound) {
		return nil, fmt.Errorf("failed to look up operation for order %s: %w", orderID, err)
	}

	now := e.now()
	op := &repository.SyncOperation{
		ID:            uuid.New(),
		TokenID:       tokenID,
		OrderID:       orderID,
		AccountName:   e.accounts.AccountName(ctx, tokenID),
		OperationType: repository.OperationDeduction,
		Status:        repository.StatusPending,
		Warehouse:     warehouse,
		NextRetryAt:   now.Add(e.policy.InitialDelay),
		CreatedAt:     now,
		UpdatedAt:     now,
	}

	if err := e.ops.Create(ctx, op); err != nil {
		return nil, fmt.Errorf("failed to create operation for order %s: %w", orderID, err)
	}

	metrics.OperationsCreatedTotal.Inc()
	e.auditor.Action(ctx, op, repository.ActionOperationCreated, repository.SeverityInfo, map[string]any{
		"warehouse": warehouse,
	}, nil)
	return op, nil
}

// ProcessDueOperations pulls one batch of due operations and advances each
// exactly one step.
func (e *Engine) ProcessDueOperations(ctx context.Context, limit int) (*ProcessResult, error) {
	due, err := e.ops.GetDue(ctx, e.now(), limit)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch due operations: %w", err)
	}

	result := &ProcessResult{}
	for _, op := range due {
		outcome := e.Advance(ctx, op)
		result.Processed++
		switch outcome {
		case OutcomeProgressed:
			result.Succeeded++
			metrics.OperationsProcessedTotal.WithLabelValues("progressed").Inc()
		case OutcomeWaiting:
			metrics.OperationsProcessedTotal.WithLabelValues("waiting").Inc()
		case OutcomeErrorRescheduled:
			result.Failed++
			metrics.OperationsProcessedTotal.WithLabelValues("error").Inc()
		case OutcomeMaxRetries:
			result.Failed++
			result.MaxRetriesReached++
			metrics.OperationsProcessedTotal.WithLabelValues("max_retries").Inc()
		}
	}
	return result, nil
}

// Advance runs one state-machine step. It never panics out and never
// returns an error: every failure path is audited and turned into a
// reschedule or a terminal transition.
func (e *Engine) Advance(ctx context.Context, op *repository.SyncOperation) AdvanceOutcome {
	switch op.Status {
	case repository.StatusPending:
		return e.advancePending(ctx, op)
	case repository.StatusProcessing:
		return e.advanceProcessing(ctx, op)
	case repository.StatusStockDeducted:
		return e.advanceStockDeducted(ctx, op)
	default:
		// Terminal operations are never due; tolerate a stray pick-up.
		e.logger.Warn("advance called on terminal operation",
			zap.String("operation_id", op.ID.String()),
			zap.String("status", string(op.Status)))
		return OutcomeWaiting
	}
}

func (e *Engine) advancePending(ctx context.Context, op *repository.SyncOperation) AdvanceOutcome {
	remoteOrder, err := e.remote.GetOrder(ctx, op.TokenID, op.OrderID)
	if err != nil {
		return e.technicalFailure(ctx, op, "load_remote_order", err)
	}

	// Another actor may have already handled the order; both short-circuits
	// must not touch the ledger.
	if remoteOrder.StockUpdated {
		e.complete(ctx, op, "remote already shows stock updated")
		return OutcomeProgressed
	}
	if remoteOrder.Cancelled() {
		e.complete(ctx, op, "remote order cancelled, nothing to sync")
		return OutcomeProgressed
	}

	if !remoteOrder.ReadyForProcessing() {
		e.reschedule(ctx, op, e.policy.RevalidateAfter,
			fmt.Sprintf("remote order not ready (status %s)", remoteOrder.Status))
		return OutcomeWaiting
	}

	if len(remoteOrder.LineItems) == 0 {
		return e.technicalFailure(ctx, op, "load_line_items",
			fmt.Errorf("remote order %s has no line items", op.OrderID))
	}

	// Line items are populated exactly once; later retries replay from the
	// stored copy so a changed remote order can never desync the deduction.
	if op.LineItems == nil {
		op.LineItems = remoteOrder.LineItems
	}

	from := op.Status
	op.Status = repository.StatusProcessing
	op.ErrorMessage = ""
	op.NextRetryAt = e.now()
	op.UpdatedAt = e.now()
	if err := e.ops.Update(ctx, op); err != nil {
		op.Status = from
		return e.technicalFailure(ctx, op, "persist_processing", err)
	}

	e.auditor.Action(ctx, op, repository.ActionLineItemsLoaded, repository.SeverityInfo, map[string]any{
		"line_items": len(op.LineItems),
	}, nil)
	e.auditor.Transition(ctx, op, from, repository.StatusProcessing, "line items loaded")
	return OutcomeProgressed
}

func (e *Engine) advanceProcessing(ctx context.Context, op *repository.SyncOperation) AdvanceOutcome {
	if len(op.LineItems) == 0 {
		return e.technicalFailure(ctx, op, "validate_order",
			errors.New("operation in processing without line items"))
	}

	started := e.now()
	validation, err := e.validator.ValidateOrder(ctx, op.LineItems, op.Warehouse)
	if err != nil {
		return e.technicalFailure(ctx, op, "validate_order", err)
	}

	if !validation.Valid {
		metrics.ValidationFailuresTotal.Inc()
		details := map[string]any{
			"total_items":   validation.TotalItems,
			"invalid_items": validation.InvalidItems,
			"summary":       validation.ErrorSummary,
		}
		for _, item := range validation.Items {
			if !item.Valid {
				details["sku_"+item.SKU] = map[string]any{
					"required":  item.Required,
					"available": item.Available,
					"shortage":  item.Shortage,
				}
			}
		}
		e.auditor.Action(ctx, op, repository.ActionStockValidationFailed, repository.SeverityWarning, details, nil)
		e.notifier.NotifyValidationFailure(ctx, op, validation.ErrorSummary)

		// Insufficient stock retries indefinitely: the budget is reserved
		// for technical failures.
		op.ErrorMessage = validation.ErrorSummary
		e.reschedule(ctx, op, e.policy.RevalidateAfter, "insufficient stock")
		return OutcomeWaiting
	}

	if outcome, ok := e.deductAll(ctx, op); !ok {
		return outcome
	}

	if err := e.recordSale(ctx, op); err != nil {
		// The deduction is committed; a missing sales record is an
		// operator-visible nuisance, not a reason to retry the ledger.
		e.logger.Error("failed to write sales record", zap.String("operation_id", op.ID.String()), zap.Error(err))
	}

	from := op.Status
	op.Status = repository.StatusStockDeducted
	op.ErrorMessage = ""
	op.NextRetryAt = e.now()
	op.UpdatedAt = e.now()
	if err := e.ops.Update(ctx, op); err != nil {
		// The ledger mutation is already durable. Keep the local state at
		// processing and rely on the stock_deducted idempotency check on
		// the next attempt being impossible; escalate loudly instead.
		e.logger.Error("CRITICAL: stock deducted but status update failed",
			zap.String("operation_id", op.ID.String()), zap.Error(err))
		return e.technicalFailure(ctx, op, "persist_stock_deducted", err)
	}

	execMs := e.now().Sub(started).Milliseconds()
	metrics.StockDeductionsTotal.Inc()
	e.auditor.Action(ctx, op, repository.ActionStockDeductionComplete, repository.SeverityInfo, map[string]any{
		"line_items": len(op.LineItems),
		"warehouse":  op.Warehouse,
	}, &execMs)
	e.auditor.Transition(ctx, op, from, repository.StatusStockDeducted, "all line items deducted")
	return OutcomeProgressed
}

// deductAll applies every line item or none: a mid-order failure rolls the
// already-deducted prefix back before rescheduling.
func (e *Engine) deductAll(ctx context.Context, op *repository.SyncOperation) (AdvanceOutcome, bool) {
	for i, item := range op.LineItems {
		err := e.ledger.Deduct(ctx, item.SKU, op.Warehouse, item.Quantity)
		if err == nil {
			continue
		}

		for j := 0; j < i; j++ {
			prev := op.LineItems[j]
			if addErr := e.ledger.Add(ctx, prev.SKU, op.Warehouse, prev.Quantity); addErr != nil {
				e.logger.Error("CRITICAL: failed to roll back partial deduction",
					zap.String("operation_id", op.ID.String()),
					zap.String("sku", prev.SKU),
					zap.Error(addErr))
			}
		}

		if errors.Is(err, stock.ErrInsufficientStock) || errors.Is(err, stock.ErrSKUNotFound) {
			// Stock changed between validation and deduction; same policy
			// as a validation failure.
			e.auditor.Action(ctx, op, repository.ActionStockValidationFailed, repository.SeverityWarning, map[string]any{
				"sku":   item.SKU,
				"error": err.Error(),
			}, nil)
			e.notifier.NotifyValidationFailure(ctx, op, err.Error())
			op.ErrorMessage = err.Error()
			e.reschedule(ctx, op, e.policy.RevalidateAfter, "stock changed during deduction")
			return OutcomeWaiting, false
		}
		return e.technicalFailure(ctx, op, "deduct_stock", err), false
	}
	return OutcomeProgressed, true
}

func (e *Engine) advanceStockDeducted(ctx context.Context, op *repository.SyncOperation) AdvanceOutcome {
	remoteOrder, err := e.remote.GetOrder(ctx, op.TokenID, op.OrderID)
	if err != nil {
		return e.technicalFailure(ctx, op, "check_remote_flag", err)
	}

	// Idempotent short-circuit: the flag may have been set by a previous
	// attempt whose confirmation was lost.
	if remoteOrder.StockUpdated {
		e.complete(ctx, op, "remote flag already set")
		return OutcomeProgressed
	}

	if err := e.remote.SetStockUpdatedFlag(ctx, op.TokenID, op.OrderID, true); err != nil {
		return e.technicalFailure(ctx, op, "set_remote_flag", err)
	}

	e.auditor.Action(ctx, op, repository.ActionRemoteSyncSuccess, repository.SeverityInfo, nil, nil)
	e.complete(ctx, op, "remote stock flag set")
	return OutcomeProgressed
}

func (e *Engine) complete(ctx context.Context, op *repository.SyncOperation, reason string) {
	from := op.Status
	now := e.now()
	op.Status = repository.StatusCompleted
	op.ErrorMessage = ""
	op.CompletedAt = &now
	op.UpdatedAt = now
	if err := e.ops.Update(ctx, op); err != nil {
		e.logger.Error("failed to persist completion", zap.String("operation_id", op.ID.String()), zap.Error(err))
		return
	}
	e.auditor.Transition(ctx, op, from, repository.StatusCompleted, reason)
}

// reschedule keeps the operation in its current state and sets the next
// attempt time. It does not consume the technical retry budget.
func (e *Engine) reschedule(ctx context.Context, op *repository.SyncOperation, delay time.Duration, reason string) {
	op.NextRetryAt = e.now().Add(delay)
	op.UpdatedAt = e.now()
	if err := e.ops.Update(ctx, op); err != nil {
		e.logger.Error("failed to reschedule operation", zap.String("operation_id", op.ID.String()), zap.Error(err))
		return
	}
	e.auditor.Action(ctx, op, repository.ActionRetryScheduled, repository.SeverityInfo, map[string]any{
		"next_retry_at": op.NextRetryAt,
		"reason":        reason,
	}, nil)
}

func (e *Engine) technicalFailure(ctx context.Context, op *repository.SyncOperation, stage string, cause error) AdvanceOutcome {
	op.RetryCount++
	op.ErrorMessage = cause.Error()

	e.auditor.Action(ctx, op, repository.ActionErrorOccurred, repository.SeverityError, map[string]any{
		"stage":       stage,
		"error":       cause.Error(),
		"retry_count": op.RetryCount,
	}, nil)

	if e.policy.Exhausted(op.RetryCount) {
		from := op.Status
		op.Status = repository.StatusFailed
		op.UpdatedAt = e.now()
		if err := e.ops.Update(ctx, op); err != nil {
			e.logger.Error("failed to persist terminal failure", zap.String("operation_id", op.ID.String()), zap.Error(err))
			return OutcomeErrorRescheduled
		}
		e.auditor.Action(ctx, op, repository.ActionMaxRetriesReached, repository.SeverityError, map[string]any{
			"attempts": op.RetryCount,
		}, nil)
		e.auditor.Transition(ctx, op, from, repository.StatusFailed, "retry budget exhausted")
		e.notifier.NotifyMaxRetries(ctx, op)
		return OutcomeMaxRetries
	}

	delay := e.policy.Delay(op.RetryCount)
	op.NextRetryAt = e.now().Add(delay)
	op.UpdatedAt = e.now()
	if err := e.ops.Update(ctx, op); err != nil {
		e.logger.Error("failed to persist retry schedule", zap.String("operation_id", op.ID.String()), zap.Error(err))
		return OutcomeErrorRescheduled
	}
	e.auditor.Action(ctx, op, repository.ActionRetryScheduled, repository.SeverityWarning, map[string]any{
		"stage":         stage,
		"retry_count":   op.RetryCount,
		"next_retry_at": op.NextRetryAt,
	}, nil)
	return OutcomeErrorRescheduled
}

func (e *Engine) recordSale(ctx context.Context, op *repository.SyncOperation) error {
	parts := make([]string, 0, len(op.LineItems))
	for _, item := range op.LineItems {
		name := item.DisplayName
		if name == "" {
			name = item.SKU
		}
		parts = append(parts, fmt.Sprintf("%s x%d", name, item.Quantity))
	}
	record := &repository.SalesRecord{
		OperationID: op.ID,
		TokenID:     op.TokenID,
		OrderID:     op.OrderID,
		Warehouse:   op.Warehouse,
		Description: fmt.Sprintf("Order %s (%s): %s", op.OrderID, op.AccountName, strings.Join(parts, ", ")),
		CreatedAt:   e.now(),
	}
	return e.sales.Create(ctx, record)
}

// ValidateAvailability is the read-only availability check exposed to the
// API layer.
func (e *Engine) ValidateAvailability(ctx context.Context, sku, warehouse string, qty int) (*ValidationResult, error) {
	return e.validator.ValidateDeduction(ctx, sku, warehouse, qty)
}

func (e *Engine) GetStatistics(ctx context.Context) (*Statistics, error) {
	stats, err := e.ops.Stats(ctx, e.now())
	if err != nil {
		return nil, err
	}

	metrics.PendingOperationsGauge.Set(float64(stats.Pending))

	health := "healthy"
	switch {
	case stats.Failed >= 10 || stats.Stale >= 10:
		health = "unhealthy"
	case stats.Failed > 0 || stats.Stale > 0:
		health = "degraded"
	}

	return &Statistics{
		Pending:        stats.Pending,
		Failed:         stats.Failed,
		CompletedToday: stats.CompletedToday,
		Stale:          stats.Stale,
		HealthStatus:   health,
	}, nil
}
