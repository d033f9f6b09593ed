package repo

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/pkordes/tripfund/backend/internal/domain"
)

// PoolRepo persists the single pool balance.
type PoolRepo interface {
	// Balance returns the current balance or domain.ErrNotFound before Initialize.
	Balance(ctx context.Context) (int64, error)

	// SetBalance stores the balance, creating the row on first use.
	// Negative balances are rejected by a CHECK constraint.
	SetBalance(ctx context.Context, balance int64) error
}

type pgPoolRepo struct {
	db db
}

// NewPoolRepo constructs a PoolRepo backed by the provided db connection.
func NewPoolRepo(db db) PoolRepo {
	return &pgPoolRepo{db: db}
}

func (r *pgPoolRepo) Balance(ctx context.Context) (int64, error) {
	var balance int64
	err := r.db.QueryRow(ctx, `SELECT balance FROM pool_ledger`).Scan(&balance)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return 0, fmt.Errorf("repo.PoolRepo.Balance: %w", domain.ErrNotFound)
		}
		return 0, fmt.Errorf("repo.PoolRepo.Balance: %w", err)
	}
	return balance, nil
}

func (r *pgPoolRepo) SetBalance(ctx context.Context, balance int64) error {
	const q = `
		INSERT INTO pool_ledger (balance) VALUES (@balance)
		ON CONFLICT (singleton) DO UPDATE
		SET balance = EXCLUDED.balance, updated_at = now()`

	if _, err := r.db.Exec(ctx, q, pgx.NamedArgs{"balance": balance}); err != nil {
		return fmt.Errorf("repo.PoolRepo.SetBalance: %w", err)
	}
	return nil
}
