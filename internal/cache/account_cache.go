package cache

import (
	"context"
	"sync"

	"go.uber.org/zap"

	"gitlab.ozon.dev/pupkingeorgij/stocksync/internal/metrics"
	"gitlab.ozon.dev/pupkingeorgij/stocksync/internal/repository"
)

type TokenRepository interface {
	GetByID(ctx context.Context, id string) (*repository.Token, error)
	List(ctx context.Context) ([]*repository.Token, error)
}

// AccountCache resolves token ids to display names. Names change rarely, so
// a process-lifetime cache in front of the tokens table is enough; misses
// fall back to the token id itself rather than failing the caller.
type AccountCache struct {
	mu     sync.RWMutex
	names  map[string]string
	repo   TokenRepository
	logger *zap.Logger
}

func NewAccountCache(repo TokenRepository, logger *zap.Logger) *AccountCache {
	return &AccountCache{
		names:  make(map[string]string),
		repo:   repo,
		logger: logger,
	}
}

func (c *AccountCache) LoadInitialData(ctx context.Context) error {
	tokens, err := c.repo.List(ctx)
	if err != nil {
		return err
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	for _, token := range tokens {
		c.names[token.ID] = token.AccountName
	}
	metrics.AccountCacheItems.Set(float64(len(c.names)))
	c.logger.Info("account cache primed", zap.Int("accounts", len(c.names)))
	return nil
}

func (c *AccountCache) AccountName(ctx context.Context, tokenID string) string {
	c.mu.RLock()
	name, found := c.names[tokenID]
	c.mu.RUnlock()
	if found {
		return name
	}

	token, err := c.repo.GetByID(ctx, tokenID)
	if err != nil {
		c.logger.Warn("failed to resolve account name", zap.String("token_id", tokenID), zap.Error(err))
		return tokenID
	}

	c.mu.Lock()
	c.names[tokenID] = token.AccountName
	metrics.AccountCacheItems.Set(float64(len(c.names)))
	c.mu.Unlock()

	return token.AccountName
}
