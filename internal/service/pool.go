package service

import (
	"context"

	"github.com/pkordes/tripfund/backend/internal/domain"
	"github.com/pkordes/tripfund/backend/internal/repo"
)

// PoolService manages the shared pool balance.
type PoolService struct {
	tx repo.TxRunner
	options
}

// NewPoolService constructs a PoolService backed by tx.
func NewPoolService(tx repo.TxRunner, opts ...Option) *PoolService {
	return &PoolService{tx: tx, options: newOptions(opts)}
}

// Deposit adds amount to the pool and returns the new balance. Admin only.
func (s *PoolService) Deposit(ctx context.Context, caller domain.Identity, amount int64) (int64, error) {
	var balance int64
	err := s.tx.InTx(ctx, func(ctx context.Context, r repo.Repos) error {
		if _, err := requireAdmin(ctx, r, caller); err != nil {
			return err
		}
		if amount <= 0 {
			return domain.ErrInvalidAmount
		}
		var err error
		balance, err = credit(ctx, r, amount)
		return err
	})
	if err != nil {
		return 0, wrap("PoolService.Deposit", err)
	}

	s.log.InfoContext(ctx, "pool deposit", "amount", amount, "balance", balance)
	return balance, nil
}

// Balance returns the current pool balance; zero before initialization.
func (s *PoolService) Balance(ctx context.Context) (int64, error) {
	var balance int64
	err := s.tx.View(ctx, func(ctx context.Context, r repo.Repos) error {
		var err error
		balance, err = poolBalance(ctx, r)
		return err
	})
	if err != nil {
		return 0, wrap("PoolService.Balance", err)
	}
	return balance, nil
}
