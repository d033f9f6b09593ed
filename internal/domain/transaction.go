package domain

import "time"

// TransactionRecord is one entry in a buyer's append-only audit trail.
// ID equals the ID of the booking it was derived from.
type TransactionRecord struct {
	ID        uint32
	Buyer     Identity
	PackageID uint32
	Amount    int64
	Timestamp time.Time
	Status    BookingStatus
}

// RecordFromBooking derives the audit entry for a just-created booking.
func RecordFromBooking(b Booking) TransactionRecord {
	return TransactionRecord{
		ID:        b.ID,
		Buyer:     b.Buyer,
		PackageID: b.PackageID,
		Amount:    b.AmountDisbursed,
		Timestamp: b.BookingDate,
		Status:    b.Status,
	}
}
