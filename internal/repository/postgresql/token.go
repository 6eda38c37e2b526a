package postgresql

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v4"

	"gitlab.ozon.dev/pupkingeorgij/stocksync/internal/db"
	"gitlab.ozon.dev/pupkingeorgij/stocksync/internal/repository"
)

type TokenRepo struct {
	db db.DB
}

func NewTokenRepo(db db.DB) *TokenRepo {
	return &TokenRepo{db: db}
}

func (r *TokenRepo) GetByID(ctx context.Context, id string) (*repository.Token, error) {
	var token repository.Token
	err := r.db.Get(ctx, &token, "SELECT * FROM tokens WHERE id = $1", id)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, repository.ErrObjectNotFound
		}
		return nil, err
	}
	return &token, nil
}

func (r *TokenRepo) List(ctx context.Context) ([]*repository.Token, error) {
	var tokens []*repository.Token
	err := r.db.Select(ctx, &tokens, "SELECT * FROM tokens ORDER BY account_name ASC")
	return tokens, err
}
