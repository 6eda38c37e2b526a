package syncengine

import (
	"context"
	"errors"
	"fmt"

	"go.uber.org/zap"

	"gitlab.ozon.dev/pupkingeorgij/stocksync/internal/metrics"
	"gitlab.ozon.dev/pupkingeorgij/stocksync/internal/remote"
	"gitlab.ozon.dev/pupkingeorgij/stocksync/internal/repository"
)

type Discrepancy struct {
	TokenID            string `json:"token_id"`
	AccountName        string `json:"account_name"`
	OrderID            string `json:"order_id"`
	LocalStatus        string `json:"local_status"`
	RemoteStockUpdated bool   `json:"remote_stock_updated"`
	Resolution         string `json:"resolution"`
	Detail             string `json:"detail"`
}

const (
	ResolutionAutoFixed    = "auto_fixed"
	ResolutionMarkedDone   = "marked_completed"
	ResolutionManualReview = "requires_manual_review"
)

type ReconciliationResult struct {
	TotalChecked         int           `json:"total_checked"`
	DiscrepanciesFound   int           `json:"discrepancies_found"`
	AutoFixed            int           `json:"auto_fixed"`
	RequiresManualReview int           `json:"requires_manual_review"`
	Discrepancies        []Discrepancy `json:"discrepancies"`
}

// Reconcile compares local operation state against the remote flag for
// recent orders and corrects the safe subset of drift. Auto-fix only ever
// re-arms the remote-flag step; it never touches the stock ledger.
func (e *Engine) Reconcile(ctx context.Context, tokenFilter string, limit int) (*ReconciliationResult, error) {
	tokens, err := e.reconcileTokens(ctx, tokenFilter)
	if err != nil {
		return nil, err
	}

	result := &ReconciliationResult{}
	for _, token := range tokens {
		if limit > 0 && result.TotalChecked >= limit {
			break
		}

		orders, err := e.remote.ListRecentOrders(ctx, token.ID, limit)
		if err != nil {
			e.logger.Warn("reconciliation skipping account, remote list failed",
				zap.String("token_id", token.ID),
				zap.Error(err))
			continue
		}

		for i := range orders {
			if limit > 0 && result.TotalChecked >= limit {
				break
			}
			result.TotalChecked++
			e.reconcileOrder(ctx, token, &orders[i], result)
		}
	}

	return result, nil
}

func (e *Engine) reconcileTokens(ctx context.Context, tokenFilter string) ([]*repository.Token, error) {
	if tokenFilter != "" {
		token, err := e.tokens.GetByID(ctx, tokenFilter)
		if err != nil {
			return nil, fmt.Errorf("unknown reconciliation token %s: %w", tokenFilter, err)
		}
		return []*repository.Token{token}, nil
	}
	tokens, err := e.tokens.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list accounts: %w", err)
	}
	return tokens, nil
}

func (e *Engine) reconcileOrder(ctx context.Context, token *repository.Token, order *remote.Order, result *ReconciliationResult) {
	local, err := e.ops.GetActiveByOrder(ctx, token.ID, order.OrderID)
	if err != nil && !errors.Is(err, repository.ErrObjectNotFound) {
		e.logger.Error("reconciliation lookup failed",
			zap.String("order_id", order.OrderID),
			zap.Error(err))
		return
	}
	hasLocal := err == nil

	switch {
	// Both sides agree the order is done.
	case hasLocal && local.Status == repository.StatusCompleted && order.StockUpdated:
		return

	// Nothing local, nothing remote: either the order never needed sync or
	// it has not been triggered yet.
	case !hasLocal && !order.StockUpdated:
		return

	// Local already deducted, remote flag lost: safe to re-arm the remote
	// step because the stock_deducted state never re-deducts.
	case hasLocal && !order.StockUpdated &&
		(local.Status == repository.StatusCompleted || local.Status == repository.StatusStockDeducted):
		e.autoFix(ctx, local, order, result)
		return

	// Remote says done, local never got there: another path completed the
	// order; align the local record without side effects.
	case order.StockUpdated && hasLocal && local.Status == repository.StatusPending:
		e.complete(ctx, local, "reconciliation: remote already shows stock updated")
		metrics.ReconcileDiscrepanciesTotal.WithLabelValues(ResolutionMarkedDone).Inc()
		result.DiscrepanciesFound++
		result.Discrepancies = append(result.Discrepancies, Discrepancy{
			TokenID:            token.ID,
			AccountName:        token.AccountName,
			OrderID:            order.OrderID,
			LocalStatus:        string(repository.StatusPending),
			RemoteStockUpdated: true,
			Resolution:         ResolutionMarkedDone,
			Detail:             "remote flag set while local operation was still pending",
		})
		return

	// Remote done with no local record at all is consistent-by-remote.
	case order.StockUpdated && !hasLocal:
		return
	}

	// Anything else is drift we refuse to touch automatically.
	localStatus := "none"
	if hasLocal {
		localStatus = string(local.Status)
	}
	detail := fmt.Sprintf("local=%s remote_stock_updated=%t", localStatus, order.StockUpdated)

	metrics.ReconcileDiscrepanciesTotal.WithLabelValues(ResolutionManualReview).Inc()
	result.DiscrepanciesFound++
	result.RequiresManualReview++
	result.Discrepancies = append(result.Discrepancies, Discrepancy{
		TokenID:            token.ID,
		AccountName:        token.AccountName,
		OrderID:            order.OrderID,
		LocalStatus:        localStatus,
		RemoteStockUpdated: order.StockUpdated,
		Resolution:         ResolutionManualReview,
		Detail:             detail,
	})

	if hasLocal {
		e.auditor.Action(ctx, local, repository.ActionReconcileDiscrepancy, repository.SeverityWarning, map[string]any{
			"local_status":         localStatus,
			"remote_stock_updated": order.StockUpdated,
		}, nil)
	}
	e.notifier.NotifyDiscrepancy(ctx, token.AccountName, order.OrderID, detail)
}

func (e *Engine) autoFix(ctx context.Context, local *repository.SyncOperation, order *remote.Order, result *ReconciliationResult) {
	from := local.Status
	local.Status = repository.StatusStockDeducted
	local.CompletedAt = nil
	local.NextRetryAt = e.now()
	local.UpdatedAt = e.now()
	if err := e.ops.Update(ctx, local); err != nil {
		e.logger.Error("reconciliation auto-fix failed to re-arm operation",
			zap.String("operation_id", local.ID.String()),
			zap.Error(err))
		return
	}

	metrics.ReconcileDiscrepanciesTotal.WithLabelValues(ResolutionAutoFixed).Inc()
	result.DiscrepanciesFound++
	result.AutoFixed++
	result.Discrepancies = append(result.Discrepancies, Discrepancy{
		TokenID:            local.TokenID,
		AccountName:        local.AccountName,
		OrderID:            local.OrderID,
		LocalStatus:        string(from),
		RemoteStockUpdated: order.StockUpdated,
		Resolution:         ResolutionAutoFixed,
		Detail:             "remote flag missing for locally deducted order, remote sync re-armed",
	})

	e.auditor.Action(ctx, local, repository.ActionReconcileAutoFixed, repository.SeverityWarning, map[string]any{
		"previous_status": string(from),
	}, nil)
	if from != repository.StatusStockDeducted {
		e.auditor.Transition(ctx, local, from, repository.StatusStockDeducted, "reconciliation auto-fix")
	}
}
