package repo

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/pkordes/tripfund/backend/internal/domain"
)

// ConfigRepo persists the single FundConfig row.
type ConfigRepo interface {
	// Exists reports whether the fund has been initialized.
	Exists(ctx context.Context) (bool, error)

	// Get returns the stored config or domain.ErrNotFound.
	Get(ctx context.Context) (domain.FundConfig, error)

	// Create stores cfg. The table holds at most one row; a second Create
	// fails with domain.ErrAlreadyInitialized.
	Create(ctx context.Context, cfg domain.FundConfig) error
}

type pgConfigRepo struct {
	db db
}

// NewConfigRepo constructs a ConfigRepo backed by the provided db connection.
func NewConfigRepo(db db) ConfigRepo {
	return &pgConfigRepo{db: db}
}

func (r *pgConfigRepo) Exists(ctx context.Context) (bool, error) {
	var exists bool
	err := r.db.QueryRow(ctx, `SELECT EXISTS (SELECT 1 FROM fund_config)`).Scan(&exists)
	if err != nil {
		return false, fmt.Errorf("repo.ConfigRepo.Exists: %w", err)
	}
	return exists, nil
}

func (r *pgConfigRepo) Get(ctx context.Context) (domain.FundConfig, error) {
	const q = `SELECT admin, currency_ref, pool_ref, created_at FROM fund_config`

	var (
		cfg                 domain.FundConfig
		admin, cur, poolRef string
	)
	err := r.db.QueryRow(ctx, q).Scan(&admin, &cur, &poolRef, &cfg.CreatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return domain.FundConfig{}, fmt.Errorf("repo.ConfigRepo.Get: %w", domain.ErrNotFound)
		}
		return domain.FundConfig{}, fmt.Errorf("repo.ConfigRepo.Get: %w", err)
	}
	cfg.Admin = domain.Identity(admin)
	cfg.CurrencyRef = domain.Identity(cur)
	cfg.PoolRef = domain.Identity(poolRef)
	cfg.CreatedAt = cfg.CreatedAt.UTC()
	return cfg, nil
}

func (r *pgConfigRepo) Create(ctx context.Context, cfg domain.FundConfig) error {
	const q = `
		INSERT INTO fund_config (admin, currency_ref, pool_ref, created_at)
		VALUES (@admin, @currency_ref, @pool_ref, @created_at)`

	_, err := r.db.Exec(ctx, q, pgx.NamedArgs{
		"admin":        cfg.Admin.String(),
		"currency_ref": cfg.CurrencyRef.String(),
		"pool_ref":     cfg.PoolRef.String(),
		"created_at":   cfg.CreatedAt,
	})
	if err != nil {
		if isUniqueViolation(err) {
			return fmt.Errorf("repo.ConfigRepo.Create: %w", domain.ErrAlreadyInitialized)
		}
		return fmt.Errorf("repo.ConfigRepo.Create: %w", err)
	}
	return nil
}
