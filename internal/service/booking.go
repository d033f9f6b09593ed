package service

import (
	"context"
	"errors"

	"github.com/pkordes/tripfund/backend/internal/auth"
	"github.com/pkordes/tripfund/backend/internal/domain"
	"github.com/pkordes/tripfund/backend/internal/repo"
)

// BookingService is the disbursement engine: it admits or rejects bookings,
// moves money between the pool and bookings, and feeds the audit trail.
type BookingService struct {
	tx repo.TxRunner
	options
}

// NewBookingService constructs a BookingService backed by tx.
func NewBookingService(tx repo.TxRunner, opts ...Option) *BookingService {
	return &BookingService{tx: tx, options: newOptions(opts)}
}

// Book disburses the package price from the pool to buyer.
//
// All admission rules are evaluated before anything is written; on any
// failure the pool, the catalog, and the logs are left untouched.
func (s *BookingService) Book(ctx context.Context, buyer domain.Identity, packageID, eligibilityScore uint32) (domain.Booking, error) {
	if err := auth.RequireCallerIs(ctx, buyer); err != nil {
		return domain.Booking{}, wrap("BookingService.Book", err)
	}

	var booking domain.Booking
	err := s.tx.InTx(ctx, func(ctx context.Context, r repo.Repos) error {
		pkg, balance, err := admit(ctx, r, buyer, packageID, eligibilityScore)
		if err != nil {
			return err
		}

		id, err := r.Bookings.NextID(ctx)
		if err != nil {
			return err
		}
		now := s.timestamp()
		booking, err = r.Bookings.Create(ctx, domain.Booking{
			ID:               id,
			Buyer:            buyer,
			PackageID:        pkg.ID,
			Destination:      pkg.Destination,
			AmountDisbursed:  pkg.Price,
			EligibilityScore: eligibilityScore,
			BookingDate:      now,
			DepartureDate:    domain.DepartureFor(now, pkg.DurationDays),
			Status:           domain.BookingConfirmed,
		})
		if err != nil {
			return err
		}

		if err := r.Pool.SetBalance(ctx, balance-pkg.Price); err != nil {
			return err
		}
		if err := r.Packages.SetEnrolled(ctx, pkg.ID, pkg.EnrolledCount+1); err != nil {
			return err
		}
		return recordTransaction(ctx, r, booking)
	})
	if err != nil {
		return domain.Booking{}, wrap("BookingService.Book", err)
	}

	s.log.InfoContext(ctx, "funds disbursed",
		"booking_id", booking.ID,
		"buyer", booking.Buyer.String(),
		"package_id", booking.PackageID,
		"amount", booking.AmountDisbursed,
	)
	return booking, nil
}

// CheckEligibility reports whether Book would currently admit buyer for the
// package. It evaluates exactly the same rules as Book, minus authentication,
// and never writes. Infrastructure failures are returned as errors; a rule
// rejection is reported as false.
func (s *BookingService) CheckEligibility(ctx context.Context, buyer domain.Identity, packageID, eligibilityScore uint32) (bool, error) {
	var admitErr error
	err := s.tx.View(ctx, func(ctx context.Context, r repo.Repos) error {
		_, _, admitErr = admit(ctx, r, buyer, packageID, eligibilityScore)
		if admitErr != nil && !isAdmissionError(admitErr) {
			return admitErr
		}
		return nil
	})
	if err != nil {
		return false, wrap("BookingService.CheckEligibility", err)
	}
	return admitErr == nil, nil
}

// Cancel returns a CONFIRMED booking's disbursement to the pool, marks the
// booking CANCELLED, frees its seat, and returns the new pool balance.
// A booking can be cancelled once; later attempts fail with
// domain.ErrBookingNotConfirmed.
func (s *BookingService) Cancel(ctx context.Context, buyer domain.Identity, bookingID uint32) (int64, error) {
	if err := auth.RequireCallerIs(ctx, buyer); err != nil {
		return 0, wrap("BookingService.Cancel", err)
	}

	var (
		balance int64
		booking domain.Booking
	)
	err := s.tx.InTx(ctx, func(ctx context.Context, r repo.Repos) error {
		n, err := r.Bookings.Count(ctx)
		if err != nil {
			return err
		}
		if n == 0 {
			return domain.ErrNoBookingsFound
		}

		booking, err = r.Bookings.GetForBuyer(ctx, bookingID, buyer)
		if err != nil {
			if errors.Is(err, domain.ErrNotFound) {
				return domain.ErrBookingNotFound
			}
			return err
		}
		if booking.Status != domain.BookingConfirmed {
			return domain.ErrBookingNotConfirmed
		}

		balance, err = credit(ctx, r, booking.AmountDisbursed)
		if err != nil {
			return err
		}
		if err := r.Bookings.UpdateStatus(ctx, booking.ID, domain.BookingCancelled); err != nil {
			return err
		}

		pkg, err := r.Packages.GetByID(ctx, booking.PackageID)
		if err != nil {
			return err
		}
		if pkg.EnrolledCount > 0 {
			return r.Packages.SetEnrolled(ctx, pkg.ID, pkg.EnrolledCount-1)
		}
		return nil
	})
	if err != nil {
		return 0, wrap("BookingService.Cancel", err)
	}

	s.log.InfoContext(ctx, "booking cancelled",
		"booking_id", booking.ID,
		"buyer", booking.Buyer.String(),
		"refund", booking.AmountDisbursed,
		"balance", balance,
	)
	return balance, nil
}

// ListByBuyer returns every booking owned by buyer, ordered by ID.
// Always returns a non-nil slice so callers can safely range over it.
func (s *BookingService) ListByBuyer(ctx context.Context, buyer domain.Identity) ([]domain.Booking, error) {
	var bookings []domain.Booking
	err := s.tx.View(ctx, func(ctx context.Context, r repo.Repos) error {
		var err error
		bookings, err = r.Bookings.ListByBuyer(ctx, buyer)
		return err
	})
	if err != nil {
		return nil, wrap("BookingService.ListByBuyer", err)
	}
	if bookings == nil {
		return []domain.Booking{}, nil
	}
	return bookings, nil
}

// admit is the single admission predicate shared by Book and CheckEligibility.
// Rules are checked in a fixed order and the first failure wins. On success it
// returns the package and the current pool balance.
func admit(ctx context.Context, r repo.Repos, buyer domain.Identity, packageID, score uint32) (domain.Package, int64, error) {
	n, err := r.Packages.Count(ctx)
	if err != nil {
		return domain.Package{}, 0, err
	}
	if n == 0 {
		return domain.Package{}, 0, domain.ErrNoPackagesAvailable
	}

	pkg, err := r.Packages.GetByID(ctx, packageID)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return domain.Package{}, 0, domain.ErrPackageNotFound
		}
		return domain.Package{}, 0, err
	}
	if !pkg.Active {
		return domain.Package{}, 0, domain.ErrPackageNotActive
	}
	if score < pkg.MinEligibilityScore {
		return domain.Package{}, 0, domain.ErrInsufficientEligibilityScore
	}
	if !pkg.HasCapacity() {
		return domain.Package{}, 0, domain.ErrPackageFull
	}

	dup, err := r.Bookings.HasConfirmed(ctx, buyer, packageID)
	if err != nil {
		return domain.Package{}, 0, err
	}
	if dup {
		return domain.Package{}, 0, domain.ErrDuplicateBooking
	}

	balance, err := poolBalance(ctx, r)
	if err != nil {
		return domain.Package{}, 0, err
	}
	if balance < pkg.Price {
		return domain.Package{}, 0, domain.ErrInsufficientPoolFunds
	}
	return pkg, balance, nil
}

var admissionErrors = []error{
	domain.ErrNoPackagesAvailable,
	domain.ErrPackageNotFound,
	domain.ErrPackageNotActive,
	domain.ErrInsufficientEligibilityScore,
	domain.ErrPackageFull,
	domain.ErrDuplicateBooking,
	domain.ErrInsufficientPoolFunds,
}

func isAdmissionError(err error) bool {
	for _, target := range admissionErrors {
		if errors.Is(err, target) {
			return true
		}
	}
	return false
}
