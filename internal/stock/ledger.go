//go:generate mockgen -source ./ledger.go -destination=./mocks/ledger.go -package=mock_stock
package stock

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v4"
	"go.uber.org/zap"

	"gitlab.ozon.dev/pupkingeorgij/stocksync/internal/db"
)

var (
	ErrSKUNotFound       = errors.New("sku not found in warehouse")
	ErrInsufficientStock = errors.New("insufficient stock")
)

// Ledger is the single source of truth for per-SKU, per-warehouse
// quantities. Mutations are serialized per (sku, warehouse) row.
type Ledger interface {
	GetQuantities(ctx context.Context, sku string) (map[string]int, error)
	Deduct(ctx context.Context, sku, warehouse string, qty int) error
	Add(ctx context.Context, sku, warehouse string, qty int) error
}

type PostgresLedger struct {
	db     db.DB
	logger *zap.Logger
}

func NewPostgresLedger(db db.DB, logger *zap.Logger) *PostgresLedger {
	return &PostgresLedger{db: db, logger: logger}
}

type stockRow struct {
	Warehouse string `db:"warehouse"`
	Quantity  int    `db:"quantity"`
}

func (l *PostgresLedger) GetQuantities(ctx context.Context, sku string) (map[string]int, error) {
	var rows []stockRow
	err := l.db.Select(ctx, &rows, `
        SELECT warehouse, quantity FROM stock_levels WHERE sku = $1
    `, sku)
	if err != nil {
		return nil, fmt.Errorf("failed to get quantities for sku %s: %w", sku, err)
	}

	quantities := make(map[string]int, len(rows))
	for _, row := range rows {
		quantities[row.Warehouse] = row.Quantity
	}
	return quantities, nil
}

// Deduct takes the row lock before re-checking availability, so concurrent
// deductions for the same (sku, warehouse) cannot oversell.
func (l *PostgresLedger) Deduct(ctx context.Context, sku, warehouse string, qty int) error {
	if qty <= 0 {
		return fmt.Errorf("deduct quantity must be positive, got %d", qty)
	}

	tx, err := l.db.BeginTx(ctx)
	if err != nil {
		return fmt.Errorf("failed to begin deduct transaction: %w", err)
	}
	defer func() {
		_ = tx.Rollback(context.Background())
	}()

	var current int
	err = tx.Get(ctx, &current, `
        SELECT quantity FROM stock_levels
        WHERE sku = $1 AND warehouse = $2
        FOR UPDATE
    `, sku, warehouse)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return ErrSKUNotFound
		}
		return fmt.Errorf("failed to lock stock row: %w", err)
	}

	if current < qty {
		return fmt.Errorf("%w: sku %s warehouse %s has %d, need %d", ErrInsufficientStock, sku, warehouse, current, qty)
	}

	_, err = tx.Exec(ctx, `
        UPDATE stock_levels
        SET quantity = quantity - $3, updated_at = $4
        WHERE sku = $1 AND warehouse = $2
    `, sku, warehouse, qty, time.Now().UTC())
	if err != nil {
		return fmt.Errorf("failed to deduct stock: %w", err)
	}

	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("failed to commit deduct: %w", err)
	}

	l.logger.Debug("stock deducted",
		zap.String("sku", sku),
		zap.String("warehouse", warehouse),
		zap.Int("qty", qty),
		zap.Int("remaining", current-qty))
	return nil
}

func (l *PostgresLedger) Add(ctx context.Context, sku, warehouse string, qty int) error {
	if qty <= 0 {
		return fmt.Errorf("add quantity must be positive, got %d", qty)
	}

	_, err := l.db.Exec(ctx, `
        INSERT INTO stock_levels (sku, warehouse, quantity, updated_at)
        VALUES ($1, $2, $3, $4)
        ON CONFLICT (sku, warehouse) DO UPDATE
        SET quantity = stock_levels.quantity + EXCLUDED.quantity,
            updated_at = EXCLUDED.updated_at
    `, sku, warehouse, qty, time.Now().UTC())
	if err != nil {
		return fmt.Errorf("failed to add stock: %w", err)
	}

	l.logger.Debug("stock added",
		zap.String("sku", sku),
		zap.String("warehouse", warehouse),
		zap.Int("qty", qty))
	return nil
}
