package postgresql

import (
	"context"

	"gitlab.ozon.dev/pupkingeorgij/stocksync/internal/db"
	"gitlab.ozon.dev/pupkingeorgij/stocksync/internal/repository"
)

type SalesRecordRepo struct {
	db db.DB
}

func NewSalesRecordRepo(db db.DB) *SalesRecordRepo {
	return &SalesRecordRepo{db: db}
}

func (r *SalesRecordRepo) Create(ctx context.Context, record *repository.SalesRecord) error {
	_, err := r.db.Exec(ctx, `
        INSERT INTO sales_records (
            operation_id, token_id, order_id, warehouse, description, created_at
        ) VALUES ($1, $2, $3, $4, $5, $6)
    `, record.OperationID, record.TokenID, record.OrderID, record.Warehouse, record.Description, record.CreatedAt)
	return err
}
