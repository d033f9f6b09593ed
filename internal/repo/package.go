package repo

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/pkordes/tripfund/backend/internal/domain"
)

// PackageRepo defines the persistence operations for the package catalog.
type PackageRepo interface {
	// Create appends a package to the catalog and returns the stored record.
	// Returns domain.ErrDuplicatePackage if a package with the same ID exists.
	Create(ctx context.Context, pkg domain.Package) (domain.Package, error)

	// GetByID retrieves a package by ID. Returns domain.ErrNotFound if absent.
	GetByID(ctx context.Context, id uint32) (domain.Package, error)

	// List returns the whole catalog in insertion order.
	List(ctx context.Context) ([]domain.Package, error)

	// Count returns the number of packages in the catalog.
	Count(ctx context.Context) (int, error)

	// SetActive opens or closes a package for new bookings.
	// Returns domain.ErrNotFound if the package does not exist.
	SetActive(ctx context.Context, id uint32, active bool) (domain.Package, error)

	// SetEnrolled overwrites the enrolled count of a package.
	// Returns domain.ErrNotFound if the package does not exist.
	SetEnrolled(ctx context.Context, id uint32, enrolled uint32) error
}

// pgPackageRepo is the Postgres implementation of PackageRepo.
type pgPackageRepo struct {
	db db
}

// NewPackageRepo constructs a PackageRepo backed by the provided db connection.
// In production pass *pgxpool.Pool or a transaction; in tests pass a pgx.Tx for rollback isolation.
func NewPackageRepo(db db) PackageRepo {
	return &pgPackageRepo{db: db}
}

const packageColumns = `id, destination, price, duration_days, max_occupants,
		enrolled_count, min_eligibility_score, active, created_at`

// Create inserts a new package row and returns the full persisted record.
func (r *pgPackageRepo) Create(ctx context.Context, pkg domain.Package) (domain.Package, error) {
	const q = `
		INSERT INTO packages (id, destination, price, duration_days, max_occupants,
			enrolled_count, min_eligibility_score, active, created_at)
		VALUES (@id, @destination, @price, @duration_days, @max_occupants,
			@enrolled_count, @min_eligibility_score, @active, @created_at)
		RETURNING ` + packageColumns

	args := pgx.NamedArgs{
		"id":                    int64(pkg.ID),
		"destination":           pkg.Destination,
		"price":                 pkg.Price,
		"duration_days":         int64(pkg.DurationDays),
		"max_occupants":         int64(pkg.MaxOccupants),
		"enrolled_count":        int64(pkg.EnrolledCount),
		"min_eligibility_score": int64(pkg.MinEligibilityScore),
		"active":                pkg.Active,
		"created_at":            pkg.CreatedAt,
	}

	result, err := scanPackage(r.db.QueryRow(ctx, q, args))
	if err != nil {
		if isUniqueViolation(err) {
			return domain.Package{}, fmt.Errorf("repo.PackageRepo.Create: %w", domain.ErrDuplicatePackage)
		}
		return domain.Package{}, fmt.Errorf("repo.PackageRepo.Create: %w", err)
	}
	return result, nil
}

// GetByID retrieves a package by primary key.
func (r *pgPackageRepo) GetByID(ctx context.Context, id uint32) (domain.Package, error) {
	q := `SELECT ` + packageColumns + ` FROM packages WHERE id = @id`

	result, err := scanPackage(r.db.QueryRow(ctx, q, pgx.NamedArgs{"id": int64(id)}))
	if err != nil {
		return domain.Package{}, fmt.Errorf("repo.PackageRepo.GetByID: %w", err)
	}
	return result, nil
}

// List returns every package ordered by insertion.
func (r *pgPackageRepo) List(ctx context.Context) ([]domain.Package, error) {
	q := `SELECT ` + packageColumns + ` FROM packages ORDER BY seq`

	rows, err := r.db.Query(ctx, q)
	if err != nil {
		return nil, fmt.Errorf("repo.PackageRepo.List: %w", err)
	}
	defer rows.Close()

	packages := []domain.Package{}
	for rows.Next() {
		p, err := scanPackage(rows)
		if err != nil {
			return nil, fmt.Errorf("repo.PackageRepo.List: scan: %w", err)
		}
		packages = append(packages, p)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("repo.PackageRepo.List: rows: %w", err)
	}
	return packages, nil
}

func (r *pgPackageRepo) Count(ctx context.Context) (int, error) {
	var n int
	if err := r.db.QueryRow(ctx, `SELECT count(*) FROM packages`).Scan(&n); err != nil {
		return 0, fmt.Errorf("repo.PackageRepo.Count: %w", err)
	}
	return n, nil
}

func (r *pgPackageRepo) SetActive(ctx context.Context, id uint32, active bool) (domain.Package, error) {
	const q = `UPDATE packages SET active = @active WHERE id = @id RETURNING ` + packageColumns

	result, err := scanPackage(r.db.QueryRow(ctx, q, pgx.NamedArgs{"id": int64(id), "active": active}))
	if err != nil {
		return domain.Package{}, fmt.Errorf("repo.PackageRepo.SetActive: %w", err)
	}
	return result, nil
}

func (r *pgPackageRepo) SetEnrolled(ctx context.Context, id uint32, enrolled uint32) error {
	const q = `UPDATE packages SET enrolled_count = @enrolled WHERE id = @id`

	tag, err := r.db.Exec(ctx, q, pgx.NamedArgs{"id": int64(id), "enrolled": int64(enrolled)})
	if err != nil {
		return fmt.Errorf("repo.PackageRepo.SetEnrolled: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("repo.PackageRepo.SetEnrolled: %w", domain.ErrNotFound)
	}
	return nil
}

// scanPackage maps a single database row into a domain.Package.
// Unsigned columns are stored as BIGINT and narrowed here; CHECK constraints
// keep them inside the uint32 range.
func scanPackage(s scanner) (domain.Package, error) {
	var (
		p                                    domain.Package
		id, days, maxOcc, enrolled, minScore int64
	)

	err := s.Scan(&id, &p.Destination, &p.Price, &days, &maxOcc, &enrolled, &minScore, &p.Active, &p.CreatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return domain.Package{}, domain.ErrNotFound
		}
		return domain.Package{}, err
	}

	p.ID = uint32(id)
	p.DurationDays = uint32(days)
	p.MaxOccupants = uint32(maxOcc)
	p.EnrolledCount = uint32(enrolled)
	p.MinEligibilityScore = uint32(minScore)
	p.CreatedAt = p.CreatedAt.UTC()
	return p, nil
}
