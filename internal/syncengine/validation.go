package syncengine

import (
	"context"
	"fmt"
	"strings"

	"gitlab.ozon.dev/pupkingeorgij/stocksync/internal/repository"
	"gitlab.ozon.dev/pupkingeorgij/stocksync/internal/stock"
)

type ValidationResult struct {
	Valid     bool   `json:"valid"`
	SKU       string `json:"sku"`
	Warehouse string `json:"warehouse"`
	Required  int    `json:"required"`
	Available int    `json:"available"`
	Shortage  int    `json:"shortage"`
	Message   string `json:"message,omitempty"`
}

type OrderValidationResult struct {
	Valid        bool               `json:"valid"`
	TotalItems   int                `json:"total_items"`
	ValidItems   int                `json:"valid_items"`
	InvalidItems int                `json:"invalid_items"`
	Items        []ValidationResult `json:"items"`
	ErrorSummary string             `json:"error_summary,omitempty"`
}

// Validator checks availability against the stock ledger without mutating
// anything. Deduction is all-or-nothing: one short item invalidates the
// whole order.
type Validator struct {
	ledger stock.Ledger
}

func NewValidator(ledger stock.Ledger) *Validator {
	return &Validator{ledger: ledger}
}

func (v *Validator) ValidateDeduction(ctx context.Context, sku, warehouse string, required int) (*ValidationResult, error) {
	quantities, err := v.ledger.GetQuantities(ctx, sku)
	if err != nil {
		return nil, fmt.Errorf("failed to query ledger for sku %s: %w", sku, err)
	}

	result := &ValidationResult{
		SKU:       sku,
		Warehouse: warehouse,
		Required:  required,
	}

	available, found := quantities[warehouse]
	if !found {
		result.Shortage = required
		result.Message = fmt.Sprintf("sku %s is not stocked in warehouse %s", sku, warehouse)
		return result, nil
	}

	result.Available = available
	if available == 0 {
		result.Shortage = required
		result.Message = fmt.Sprintf("sku %s has zero stock in warehouse %s", sku, warehouse)
		return result, nil
	}
	if available < required {
		result.Shortage = required - available
		result.Message = fmt.Sprintf("sku %s short by %d in warehouse %s (need %d, have %d)",
			sku, result.Shortage, warehouse, required, available)
		return result, nil
	}

	result.Valid = true
	return result, nil
}

func (v *Validator) ValidateOrder(ctx context.Context, items []repository.LineItem, warehouse string) (*OrderValidationResult, error) {
	result := &OrderValidationResult{
		TotalItems: len(items),
		Items:      make([]ValidationResult, 0, len(items)),
	}

	var failures []string
	for _, item := range items {
		itemResult, err := v.ValidateDeduction(ctx, item.SKU, warehouse, item.Quantity)
		if err != nil {
			return nil, err
		}
		result.Items = append(result.Items, *itemResult)
		if itemResult.Valid {
			result.ValidItems++
		} else {
			result.InvalidItems++
			failures = append(failures, itemResult.Message)
		}
	}

	result.Valid = result.InvalidItems == 0 && result.TotalItems > 0
	if result.TotalItems == 0 {
		result.ErrorSummary = "order has no line items"
	} else if !result.Valid {
		result.ErrorSummary = strings.Join(failures, "; ")
	}
	return result, nil
}
