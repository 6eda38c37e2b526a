package syncengine

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"gitlab.ozon.dev/pupkingeorgij/stocksync/internal/repository"
)

// Cancel aborts an operation with the compensation its current state
// requires: nothing for pending/processing, a ledger restore for
// stock_deducted, and a full rollback including the remote flag for
// completed. Cancelling an already-cancelled operation is a no-op success.
func (e *Engine) Cancel(ctx context.Context, operationID uuid.UUID, actor, reason string) (*SyncResult, error) {
	op, err := e.ops.GetByID(ctx, operationID)
	if err != nil {
		if errors.Is(err, repository.ErrObjectNotFound) {
			return &SyncResult{Success: false, Message: "operation not found"}, nil
		}
		return nil, err
	}

	switch op.Status {
	case repository.StatusCancelled:
		return &SyncResult{Success: true, Message: "operation already cancelled"}, nil

	case repository.StatusFailed:
		// A failed operation may or may not have mutated the ledger; the
		// audit trail has the answer, an automated rollback does not.
		return &SyncResult{Success: false, Message: "failed operations require manual review before cancellation"}, nil

	case repository.StatusPending, repository.StatusProcessing:
		e.markCancelled(ctx, op, actor, reason)
		return &SyncResult{Success: true, Message: "operation cancelled, no stock was touched"}, nil

	case repository.StatusStockDeducted:
		if err := e.restoreStock(ctx, op, actor, reason); err != nil {
			return &SyncResult{Success: false, Message: fmt.Sprintf("rollback failed: %v", err)}, nil
		}
		e.markCancelled(ctx, op, actor, reason)
		return &SyncResult{Success: true, Message: "operation cancelled, stock restored"}, nil

	case repository.StatusCompleted:
		// An operation completed through a short-circuit never loaded line
		// items: this system deducted nothing and did not set the remote
		// flag, so there is nothing to compensate.
		if len(op.LineItems) == 0 {
			e.markCancelled(ctx, op, actor, reason)
			return &SyncResult{Success: true, Message: "operation cancelled, nothing to restore"}, nil
		}
		// Unset the remote flag first: if the remote refuses, nothing local
		// has been touched yet and the cancellation simply fails.
		if err := e.remote.SetStockUpdatedFlag(ctx, op.TokenID, op.OrderID, false); err != nil {
			e.auditor.Action(ctx, op, repository.ActionErrorOccurred, repository.SeverityError, map[string]any{
				"stage": "cancel_unset_remote_flag",
				"error": err.Error(),
			}, nil)
			return &SyncResult{Success: false, Message: fmt.Sprintf("failed to unset remote flag: %v", err)}, nil
		}
		if err := e.restoreStock(ctx, op, actor, reason); err != nil {
			return &SyncResult{Success: false, Message: fmt.Sprintf("remote flag unset but rollback failed: %v", err)}, nil
		}
		e.markCancelled(ctx, op, actor, reason)
		return &SyncResult{Success: true, Message: "operation cancelled, stock restored and remote flag unset"}, nil
	}

	return &SyncResult{Success: false, Message: fmt.Sprintf("cannot cancel operation in status %s", op.Status)}, nil
}

// restoreStock adds every deducted line item back and records the rollback
// as a completed adjustment operation linked from the original.
func (e *Engine) restoreStock(ctx context.Context, op *repository.SyncOperation, actor, reason string) error {
	for _, item := range op.LineItems {
		if err := e.ledger.Add(ctx, item.SKU, op.Warehouse, item.Quantity); err != nil {
			return fmt.Errorf("failed to restore %d of sku %s: %w", item.Quantity, item.SKU, err)
		}
	}

	now := e.now()
	rollback := &repository.SyncOperation{
		ID:            uuid.New(),
		TokenID:       op.TokenID,
		OrderID:       op.OrderID,
		AccountName:   op.AccountName,
		OperationType: repository.OperationAdjustment,
		Status:        repository.StatusCancelled,
		Warehouse:     op.Warehouse,
		LineItems:     op.LineItems,
		CreatedAt:     now,
		UpdatedAt:     now,
		CancelledBy:   actor,
		CancellationReason: fmt.Sprintf("compensating rollback for operation %s: %s",
			op.ID, reason),
	}
	if err := e.ops.Create(ctx, rollback); err != nil {
		return fmt.Errorf("stock restored but rollback record failed: %w", err)
	}
	op.RollbackIDs = append(op.RollbackIDs, rollback.ID)

	record := &repository.SalesRecord{
		OperationID: rollback.ID,
		TokenID:     op.TokenID,
		OrderID:     op.OrderID,
		Warehouse:   op.Warehouse,
		Description: fmt.Sprintf("Rollback of order %s by %s: %s", op.OrderID, actor, reason),
		CreatedAt:   now,
	}
	if err := e.sales.Create(ctx, record); err != nil {
		e.logger.Error("failed to write rollback sales record", zap.String("operation_id", op.ID.String()), zap.Error(err))
	}

	e.auditor.Action(ctx, op, repository.ActionRollbackCompleted, repository.SeverityWarning, map[string]any{
		"rollback_operation_id": rollback.ID.String(),
		"actor":                 actor,
	}, nil)
	return nil
}

func (e *Engine) markCancelled(ctx context.Context, op *repository.SyncOperation, actor, reason string) {
	from := op.Status
	op.Status = repository.StatusCancelled
	op.CancelledBy = actor
	op.CancellationReason = reason
	op.UpdatedAt = e.now()
	if err := e.ops.Update(ctx, op); err != nil {
		e.logger.Error("failed to persist cancellation", zap.String("operation_id", op.ID.String()), zap.Error(err))
		return
	}
	e.auditor.Action(ctx, op, repository.ActionOperationCancelled, repository.SeverityInfo, map[string]any{
		"actor":  actor,
		"reason": reason,
	}, nil)
	e.auditor.Transition(ctx, op, from, repository.StatusCancelled, reason)
}
