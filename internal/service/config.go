package service

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/pkordes/tripfund/backend/internal/auth"
	"github.com/pkordes/tripfund/backend/internal/domain"
	"github.com/pkordes/tripfund/backend/internal/repo"
)

// ConfigService owns the one-time fund configuration.
type ConfigService struct {
	tx repo.TxRunner
	options
}

// NewConfigService constructs a ConfigService backed by tx.
func NewConfigService(tx repo.TxRunner, opts ...Option) *ConfigService {
	return &ConfigService{tx: tx, options: newOptions(opts)}
}

// Initialize stores the admin and currency reference and opens the pool at
// zero. It fails with domain.ErrAlreadyInitialized on every call after the
// first, and with domain.ErrUnauthorized unless the proven caller is admin.
func (s *ConfigService) Initialize(ctx context.Context, admin, currencyRef, poolRef domain.Identity) (domain.FundConfig, error) {
	var cfg domain.FundConfig
	err := s.tx.InTx(ctx, func(ctx context.Context, r repo.Repos) error {
		exists, err := r.Config.Exists(ctx)
		if err != nil {
			return err
		}
		if exists {
			return domain.ErrAlreadyInitialized
		}
		if err := auth.RequireCallerIs(ctx, admin); err != nil {
			return err
		}
		if strings.TrimSpace(currencyRef.String()) == "" {
			return fmt.Errorf("%w: currency_ref is required", domain.ErrValidation)
		}

		cfg = domain.FundConfig{
			Admin:       admin,
			CurrencyRef: currencyRef,
			PoolRef:     poolRef,
			CreatedAt:   s.timestamp(),
		}
		if err := r.Config.Create(ctx, cfg); err != nil {
			return err
		}
		return r.Pool.SetBalance(ctx, 0)
	})
	if err != nil {
		return domain.FundConfig{}, wrap("ConfigService.Initialize", err)
	}

	s.log.InfoContext(ctx, "pool initialized",
		"admin", cfg.Admin.String(),
		"currency_ref", cfg.CurrencyRef.String(),
	)
	return cfg, nil
}

// Get returns the stored config or domain.ErrNotInitialized.
func (s *ConfigService) Get(ctx context.Context) (domain.FundConfig, error) {
	var cfg domain.FundConfig
	err := s.tx.View(ctx, func(ctx context.Context, r repo.Repos) error {
		var err error
		cfg, err = r.Config.Get(ctx)
		if errors.Is(err, domain.ErrNotFound) {
			return domain.ErrNotInitialized
		}
		return err
	})
	if err != nil {
		return domain.FundConfig{}, wrap("ConfigService.Get", err)
	}
	return cfg, nil
}
