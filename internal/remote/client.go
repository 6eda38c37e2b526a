//go:generate mockgen -source ./client.go -destination=./mocks/client.go -package=mock_remote
package remote

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"time"

	"go.uber.org/zap"

	"gitlab.ozon.dev/pupkingeorgij/stocksync/internal/repository"
)

var (
	ErrOrderNotFound     = errors.New("remote order not found")
	ErrRemoteUnavailable = errors.New("remote service unavailable")
)

const (
	OrderStatusAwaitingPackaging = "awaiting_packaging"
	OrderStatusAwaitingDeliver   = "awaiting_deliver"
	OrderStatusDelivering        = "delivering"
	OrderStatusDelivered         = "delivered"
	OrderStatusCancelled         = "cancelled"
)

// Order is the remote service's view of a marketplace order.
type Order struct {
	OrderID           string                `json:"order_id"`
	Status            string                `json:"status"`
	FulfillmentStatus string                `json:"fulfillment_status"`
	StockUpdated      bool                  `json:"stock_updated"`
	LineItems         []repository.LineItem `json:"line_items"`
}

func (o *Order) Cancelled() bool {
	return o.Status == OrderStatusCancelled
}

// ReadyForProcessing reports whether the order has progressed far enough
// for local stock to be committed against it.
func (o *Order) ReadyForProcessing() bool {
	switch o.Status {
	case OrderStatusAwaitingDeliver, OrderStatusDelivering, OrderStatusDelivered:
		return true
	}
	return false
}

// Client is the contract against the external order-management service.
// The remote side is authoritative for order status and the stock-updated
// flag; it is never rolled back outside the explicit cancellation path.
type Client interface {
	GetOrder(ctx context.Context, tokenID, orderID string) (*Order, error)
	ListRecentOrders(ctx context.Context, tokenID string, limit int) ([]Order, error)
	SetStockUpdatedFlag(ctx context.Context, tokenID, orderID string, updated bool) error
}

type HTTPClient struct {
	baseURL string
	client  *http.Client
	logger  *zap.Logger
}

func NewHTTPClient(baseURL string, timeout time.Duration, logger *zap.Logger) *HTTPClient {
	return &HTTPClient{
		baseURL: baseURL,
		client:  &http.Client{Timeout: timeout},
		logger:  logger,
	}
}

func (c *HTTPClient) GetOrder(ctx context.Context, tokenID, orderID string) (*Order, error) {
	url := fmt.Sprintf("%s/v1/orders/%s", c.baseURL, orderID)
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Authorization", "Bearer "+tokenID)

	resp, err := c.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrRemoteUnavailable, err)
	}
	defer resp.Body.Close()

	switch {
	case resp.StatusCode == http.StatusNotFound:
		return nil, ErrOrderNotFound
	case resp.StatusCode >= 500:
		return nil, fmt.Errorf("%w: status %d", ErrRemoteUnavailable, resp.StatusCode)
	case resp.StatusCode != http.StatusOK:
		return nil, fmt.Errorf("unexpected remote status %d for order %s", resp.StatusCode, orderID)
	}

	var order Order
	if err := json.NewDecoder(resp.Body).Decode(&order); err != nil {
		return nil, fmt.Errorf("failed to decode remote order: %w", err)
	}
	return &order, nil
}

func (c *HTTPClient) ListRecentOrders(ctx context.Context, tokenID string, limit int) ([]Order, error) {
	url := fmt.Sprintf("%s/v1/orders?limit=%d", c.baseURL, limit)
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Authorization", "Bearer "+tokenID)

	resp, err := c.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrRemoteUnavailable, err)
	}
	defer resp.Body.Close()

	switch {
	case resp.StatusCode >= 500:
		return nil, fmt.Errorf("%w: status %d", ErrRemoteUnavailable, resp.StatusCode)
	case resp.StatusCode != http.StatusOK:
		return nil, fmt.Errorf("unexpected remote status %d listing orders", resp.StatusCode)
	}

	var payload struct {
		Orders []Order `json:"orders"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		return nil, fmt.Errorf("failed to decode remote order list: %w", err)
	}
	return payload.Orders, nil
}

func (c *HTTPClient) SetStockUpdatedFlag(ctx context.Context, tokenID, orderID string, updated bool) error {
	url := fmt.Sprintf("%s/v1/orders/%s/stock-updated", c.baseURL, orderID)

	body, err := json.Marshal(map[string]bool{"stock_updated": updated})
	if err != nil {
		return err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPut, url, bytes.NewReader(body))
	if err != nil {
		return err
	}
	req.Header.Set("Authorization", "Bearer "+tokenID)
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.client.Do(req)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrRemoteUnavailable, err)
	}
	defer resp.Body.Close()

	switch {
	case resp.StatusCode == http.StatusNotFound:
		return ErrOrderNotFound
	case resp.StatusCode >= 500:
		return fmt.Errorf("%w: status %d", ErrRemoteUnavailable, resp.StatusCode)
	case resp.StatusCode != http.StatusOK && resp.StatusCode != http.StatusNoContent:
		return fmt.Errorf("unexpected remote status %d for order %s", resp.StatusCode, orderID)
	}

	c.logger.Debug("remote stock-updated flag set",
		zap.String("order_id", orderID),
		zap.Bool("updated", updated))
	return nil
}
