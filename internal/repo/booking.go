package repo

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/pkordes/tripfund/backend/internal/domain"
)

// BookingRepo defines the persistence operations for bookings.
// Bookings are never deleted; only their status changes.
type BookingRepo interface {
	// NextID draws the next booking ID from the persisted counter.
	NextID(ctx context.Context) (uint32, error)

	// Create stores a booking whose ID was obtained from NextID.
	Create(ctx context.Context, b domain.Booking) (domain.Booking, error)

	// GetForBuyer returns the booking with the given ID owned by buyer.
	// Returns domain.ErrNotFound if it does not exist or belongs to someone else.
	GetForBuyer(ctx context.Context, id uint32, buyer domain.Identity) (domain.Booking, error)

	// Count returns the number of bookings ever made.
	Count(ctx context.Context) (int, error)

	// HasConfirmed reports whether buyer holds a CONFIRMED booking for packageID.
	HasConfirmed(ctx context.Context, buyer domain.Identity, packageID uint32) (bool, error)

	// ListByBuyer returns the buyer's bookings ordered by ID.
	ListByBuyer(ctx context.Context, buyer domain.Identity) ([]domain.Booking, error)

	// UpdateStatus changes the status of a booking.
	// Returns domain.ErrNotFound if the booking does not exist.
	UpdateStatus(ctx context.Context, id uint32, status domain.BookingStatus) error
}

type pgBookingRepo struct {
	db db
}

// NewBookingRepo constructs a BookingRepo backed by the provided db connection.
func NewBookingRepo(db db) BookingRepo {
	return &pgBookingRepo{db: db}
}

const bookingColumns = `id, buyer, package_id, destination, amount_disbursed,
		eligibility_score, booking_date, departure_date, status`

func (r *pgBookingRepo) NextID(ctx context.Context) (uint32, error) {
	var id int64
	if err := r.db.QueryRow(ctx, `SELECT nextval('booking_id_seq')`).Scan(&id); err != nil {
		return 0, fmt.Errorf("repo.BookingRepo.NextID: %w", err)
	}
	return uint32(id), nil
}

func (r *pgBookingRepo) Create(ctx context.Context, b domain.Booking) (domain.Booking, error) {
	const q = `
		INSERT INTO bookings (id, buyer, package_id, destination, amount_disbursed,
			eligibility_score, booking_date, departure_date, status)
		VALUES (@id, @buyer, @package_id, @destination, @amount_disbursed,
			@eligibility_score, @booking_date, @departure_date, @status)
		RETURNING ` + bookingColumns

	args := pgx.NamedArgs{
		"id":                int64(b.ID),
		"buyer":             b.Buyer.String(),
		"package_id":        int64(b.PackageID),
		"destination":       b.Destination,
		"amount_disbursed":  b.AmountDisbursed,
		"eligibility_score": int64(b.EligibilityScore),
		"booking_date":      b.BookingDate,
		"departure_date":    b.DepartureDate,
		"status":            string(b.Status),
	}

	result, err := scanBooking(r.db.QueryRow(ctx, q, args))
	if err != nil {
		// bookings_one_confirmed_idx backs the engine's duplicate check.
		if isUniqueViolation(err) {
			return domain.Booking{}, fmt.Errorf("repo.BookingRepo.Create: %w", domain.ErrDuplicateBooking)
		}
		return domain.Booking{}, fmt.Errorf("repo.BookingRepo.Create: %w", err)
	}
	return result, nil
}

func (r *pgBookingRepo) GetForBuyer(ctx context.Context, id uint32, buyer domain.Identity) (domain.Booking, error) {
	q := `SELECT ` + bookingColumns + ` FROM bookings WHERE id = @id AND buyer = @buyer`

	result, err := scanBooking(r.db.QueryRow(ctx, q, pgx.NamedArgs{"id": int64(id), "buyer": buyer.String()}))
	if err != nil {
		return domain.Booking{}, fmt.Errorf("repo.BookingRepo.GetForBuyer: %w", err)
	}
	return result, nil
}

func (r *pgBookingRepo) Count(ctx context.Context) (int, error) {
	var n int
	if err := r.db.QueryRow(ctx, `SELECT count(*) FROM bookings`).Scan(&n); err != nil {
		return 0, fmt.Errorf("repo.BookingRepo.Count: %w", err)
	}
	return n, nil
}

func (r *pgBookingRepo) HasConfirmed(ctx context.Context, buyer domain.Identity, packageID uint32) (bool, error) {
	const q = `
		SELECT EXISTS (
			SELECT 1 FROM bookings
			WHERE buyer = @buyer AND package_id = @package_id AND status = 'CONFIRMED'
		)`

	var exists bool
	err := r.db.QueryRow(ctx, q, pgx.NamedArgs{"buyer": buyer.String(), "package_id": int64(packageID)}).Scan(&exists)
	if err != nil {
		return false, fmt.Errorf("repo.BookingRepo.HasConfirmed: %w", err)
	}
	return exists, nil
}

func (r *pgBookingRepo) ListByBuyer(ctx context.Context, buyer domain.Identity) ([]domain.Booking, error) {
	q := `SELECT ` + bookingColumns + ` FROM bookings WHERE buyer = @buyer ORDER BY id`

	rows, err := r.db.Query(ctx, q, pgx.NamedArgs{"buyer": buyer.String()})
	if err != nil {
		return nil, fmt.Errorf("repo.BookingRepo.ListByBuyer: %w", err)
	}
	defer rows.Close()

	bookings := []domain.Booking{}
	for rows.Next() {
		b, err := scanBooking(rows)
		if err != nil {
			return nil, fmt.Errorf("repo.BookingRepo.ListByBuyer: scan: %w", err)
		}
		bookings = append(bookings, b)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("repo.BookingRepo.ListByBuyer: rows: %w", err)
	}
	return bookings, nil
}

func (r *pgBookingRepo) UpdateStatus(ctx context.Context, id uint32, status domain.BookingStatus) error {
	const q = `UPDATE bookings SET status = @status, updated_at = now() WHERE id = @id`

	tag, err := r.db.Exec(ctx, q, pgx.NamedArgs{"id": int64(id), "status": string(status)})
	if err != nil {
		return fmt.Errorf("repo.BookingRepo.UpdateStatus: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("repo.BookingRepo.UpdateStatus: %w", domain.ErrNotFound)
	}
	return nil
}

func scanBooking(s scanner) (domain.Booking, error) {
	var (
		b                domain.Booking
		id, pkgID, score int64
		buyer, status    string
	)

	err := s.Scan(&id, &buyer, &pkgID, &b.Destination, &b.AmountDisbursed, &score,
		&b.BookingDate, &b.DepartureDate, &status)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return domain.Booking{}, domain.ErrNotFound
		}
		return domain.Booking{}, err
	}

	b.ID = uint32(id)
	b.Buyer = domain.Identity(buyer)
	b.PackageID = uint32(pkgID)
	b.EligibilityScore = uint32(score)
	b.Status = domain.BookingStatus(status)
	if !b.Status.Valid() {
		return domain.Booking{}, fmt.Errorf("unknown booking status %q", status)
	}
	b.BookingDate = b.BookingDate.UTC()
	b.DepartureDate = b.DepartureDate.UTC()
	return b, nil
}
