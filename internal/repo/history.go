package repo

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/pkordes/tripfund/backend/internal/domain"
)

// HistoryRepo is the append-only per-buyer audit trail.
type HistoryRepo interface {
	// Append adds rec to the end of its buyer's log.
	Append(ctx context.Context, rec domain.TransactionRecord) error

	// ListByBuyer returns the buyer's log in append order.
	ListByBuyer(ctx context.Context, buyer domain.Identity) ([]domain.TransactionRecord, error)
}

type pgHistoryRepo struct {
	db db
}

// NewHistoryRepo constructs a HistoryRepo backed by the provided db connection.
func NewHistoryRepo(db db) HistoryRepo {
	return &pgHistoryRepo{db: db}
}

func (r *pgHistoryRepo) Append(ctx context.Context, rec domain.TransactionRecord) error {
	const q = `
		INSERT INTO transaction_records (id, buyer, package_id, amount, recorded_at, status)
		VALUES (@id, @buyer, @package_id, @amount, @recorded_at, @status)`

	_, err := r.db.Exec(ctx, q, pgx.NamedArgs{
		"id":          int64(rec.ID),
		"buyer":       rec.Buyer.String(),
		"package_id":  int64(rec.PackageID),
		"amount":      rec.Amount,
		"recorded_at": rec.Timestamp,
		"status":      string(rec.Status),
	})
	if err != nil {
		return fmt.Errorf("repo.HistoryRepo.Append: %w", err)
	}
	return nil
}

func (r *pgHistoryRepo) ListByBuyer(ctx context.Context, buyer domain.Identity) ([]domain.TransactionRecord, error) {
	const q = `
		SELECT id, buyer, package_id, amount, recorded_at, status
		FROM transaction_records
		WHERE buyer = @buyer
		ORDER BY seq`

	rows, err := r.db.Query(ctx, q, pgx.NamedArgs{"buyer": buyer.String()})
	if err != nil {
		return nil, fmt.Errorf("repo.HistoryRepo.ListByBuyer: %w", err)
	}
	defer rows.Close()

	records := []domain.TransactionRecord{}
	for rows.Next() {
		rec, err := scanRecord(rows)
		if err != nil {
			return nil, fmt.Errorf("repo.HistoryRepo.ListByBuyer: scan: %w", err)
		}
		records = append(records, rec)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("repo.HistoryRepo.ListByBuyer: rows: %w", err)
	}
	return records, nil
}

func scanRecord(s scanner) (domain.TransactionRecord, error) {
	var (
		rec           domain.TransactionRecord
		id, pkgID     int64
		owner, status string
	)
	if err := s.Scan(&id, &owner, &pkgID, &rec.Amount, &rec.Timestamp, &status); err != nil {
		return domain.TransactionRecord{}, err
	}
	rec.ID = uint32(id)
	rec.Buyer = domain.Identity(owner)
	rec.PackageID = uint32(pkgID)
	rec.Status = domain.BookingStatus(status)
	if !rec.Status.Valid() {
		return domain.TransactionRecord{}, fmt.Errorf("unknown booking status %q", status)
	}
	rec.Timestamp = rec.Timestamp.UTC()
	return rec, nil
}
