package service

import (
	"context"

	"github.com/pkordes/tripfund/backend/internal/domain"
	"github.com/pkordes/tripfund/backend/internal/repo"
)

// AuditService exposes the per-buyer transaction history.
type AuditService struct {
	tx repo.TxRunner
}

// NewAuditService constructs an AuditService backed by tx.
func NewAuditService(tx repo.TxRunner) *AuditService {
	return &AuditService{tx: tx}
}

// History returns the buyer's records in append order.
// Always returns a non-nil slice so callers can safely range over it.
func (s *AuditService) History(ctx context.Context, buyer domain.Identity) ([]domain.TransactionRecord, error) {
	var records []domain.TransactionRecord
	err := s.tx.View(ctx, func(ctx context.Context, r repo.Repos) error {
		var err error
		records, err = r.History.ListByBuyer(ctx, buyer)
		return err
	})
	if err != nil {
		return nil, wrap("AuditService.History", err)
	}
	if records == nil {
		return []domain.TransactionRecord{}, nil
	}
	return records, nil
}

// recordTransaction appends the audit entry for a booking created in the same
// unit of work. It is only called by BookingService.Book.
func recordTransaction(ctx context.Context, r repo.Repos, b domain.Booking) error {
	return r.History.Append(ctx, domain.RecordFromBooking(b))
}
