package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/pkordes/tripfund/backend/internal/domain"
	"github.com/pkordes/tripfund/backend/internal/repo"
)

// MaxDestinationLen is the longest destination token accepted.
const MaxDestinationLen = 32

// CatalogService manages the package catalog.
type CatalogService struct {
	tx repo.TxRunner
	options
}

// NewCatalogService constructs a CatalogService backed by tx.
func NewCatalogService(tx repo.TxRunner, opts ...Option) *CatalogService {
	return &CatalogService{tx: tx, options: newOptions(opts)}
}

// CreatePackage appends a new active package with no enrolments.
// Only ID, Destination, Price, DurationDays, MaxOccupants and
// MinEligibilityScore are read from pkg.
func (s *CatalogService) CreatePackage(ctx context.Context, caller domain.Identity, pkg domain.Package) (domain.Package, error) {
	var created domain.Package
	err := s.tx.InTx(ctx, func(ctx context.Context, r repo.Repos) error {
		if _, err := requireAdmin(ctx, r, caller); err != nil {
			return err
		}
		if err := validatePackage(pkg); err != nil {
			return err
		}

		var err error
		created, err = r.Packages.Create(ctx, domain.Package{
			ID:                  pkg.ID,
			Destination:         pkg.Destination,
			Price:               pkg.Price,
			DurationDays:        pkg.DurationDays,
			MaxOccupants:        pkg.MaxOccupants,
			EnrolledCount:       0,
			MinEligibilityScore: pkg.MinEligibilityScore,
			Active:              true,
			CreatedAt:           s.timestamp(),
		})
		return err
	})
	if err != nil {
		return domain.Package{}, wrap("CatalogService.CreatePackage", err)
	}

	s.log.InfoContext(ctx, "package created",
		"package_id", created.ID,
		"destination", created.Destination,
		"price", created.Price,
	)
	return created, nil
}

// SetActive opens (active=true) or closes a package for new bookings.
// Existing bookings are unaffected. Admin only.
func (s *CatalogService) SetActive(ctx context.Context, caller domain.Identity, id uint32, active bool) (domain.Package, error) {
	var updated domain.Package
	err := s.tx.InTx(ctx, func(ctx context.Context, r repo.Repos) error {
		if _, err := requireAdmin(ctx, r, caller); err != nil {
			return err
		}
		var err error
		updated, err = r.Packages.SetActive(ctx, id, active)
		if errors.Is(err, domain.ErrNotFound) {
			return domain.ErrPackageNotFound
		}
		return err
	})
	if err != nil {
		return domain.Package{}, wrap("CatalogService.SetActive", err)
	}

	s.log.InfoContext(ctx, "package availability changed", "package_id", id, "active", active)
	return updated, nil
}

// List returns the full catalog in insertion order.
// Always returns a non-nil slice so callers can safely range over it.
func (s *CatalogService) List(ctx context.Context) ([]domain.Package, error) {
	var packages []domain.Package
	err := s.tx.View(ctx, func(ctx context.Context, r repo.Repos) error {
		var err error
		packages, err = r.Packages.List(ctx)
		return err
	})
	if err != nil {
		return nil, wrap("CatalogService.List", err)
	}
	if packages == nil {
		return []domain.Package{}, nil
	}
	return packages, nil
}

// validatePackage enforces the creation rules in order: price, duration,
// then the destination token shape (1–32 of [A-Za-z0-9_]).
func validatePackage(p domain.Package) error {
	if p.Price <= 0 {
		return domain.ErrInvalidPrice
	}
	if p.DurationDays == 0 || p.DurationDays > domain.MaxDurationDays {
		return domain.ErrInvalidDuration
	}
	if !validDestination(p.Destination) {
		return fmt.Errorf("%w: destination must be 1-%d characters of A-Z, a-z, 0-9 or _",
			domain.ErrValidation, MaxDestinationLen)
	}
	return nil
}

func validDestination(s string) bool {
	if len(s) == 0 || len(s) > MaxDestinationLen {
		return false
	}
	for _, c := range s {
		switch {
		case c >= 'a' && c <= 'z', c >= 'A' && c <= 'Z', c >= '0' && c <= '9', c == '_':
		default:
			return false
		}
	}
	return true
}
