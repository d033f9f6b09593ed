// Package service contains the business logic for the travel fund backend.
// Services validate inputs, enforce admission rules, and run every public
// operation inside exactly one repo.TxRunner unit of work, so a rejected
// operation never mutates the pool, the catalog, or any log.
// No SQL lives here; services depend on repo interfaces, not implementations.
package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"math"
	"time"

	"github.com/pkordes/tripfund/backend/internal/auth"
	"github.com/pkordes/tripfund/backend/internal/domain"
	"github.com/pkordes/tripfund/backend/internal/repo"
)

// Option customizes a service.
type Option func(*options)

type options struct {
	now func() time.Time
	log *slog.Logger
}

// WithClock replaces the wall clock. Timestamps are truncated to whole seconds.
func WithClock(now func() time.Time) Option {
	return func(o *options) { o.now = now }
}

// WithLogger sets the logger used for state-changing events.
func WithLogger(l *slog.Logger) Option {
	return func(o *options) { o.log = l }
}

func newOptions(opts []Option) options {
	o := options{now: time.Now, log: slog.Default()}
	for _, opt := range opts {
		opt(&o)
	}
	return o
}

func (o options) timestamp() time.Time {
	return o.now().UTC().Truncate(time.Second)
}

// requireAdmin loads the config and checks that caller is its admin and is
// the proven caller of this request.
func requireAdmin(ctx context.Context, r repo.Repos, caller domain.Identity) (domain.FundConfig, error) {
	cfg, err := r.Config.Get(ctx)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return domain.FundConfig{}, domain.ErrNotInitialized
		}
		return domain.FundConfig{}, err
	}
	if caller != cfg.Admin {
		return domain.FundConfig{}, domain.ErrUnauthorized
	}
	if err := auth.RequireCallerIs(ctx, caller); err != nil {
		return domain.FundConfig{}, err
	}
	return cfg, nil
}

// poolBalance reads the pool balance, treating a missing ledger row as zero.
func poolBalance(ctx context.Context, r repo.Repos) (int64, error) {
	bal, err := r.Pool.Balance(ctx)
	if errors.Is(err, domain.ErrNotFound) {
		return 0, nil
	}
	return bal, err
}

// credit adds amount to the pool and returns the new balance.
func credit(ctx context.Context, r repo.Repos, amount int64) (int64, error) {
	bal, err := poolBalance(ctx, r)
	if err != nil {
		return 0, err
	}
	if amount > 0 && bal > math.MaxInt64-amount {
		return 0, domain.ErrBalanceOverflow
	}
	bal += amount
	if err := r.Pool.SetBalance(ctx, bal); err != nil {
		return 0, err
	}
	return bal, nil
}

func wrap(op string, err error) error {
	return fmt.Errorf("service.%s: %w", op, err)
}
