package domain

import "time"

// SecondsPerDay converts a package duration into the departure offset.
const SecondsPerDay = 86400

// MaxDurationDays is the longest package duration accepted (100 years). It
// keeps every departure date inside the range JSON and Postgres timestamps
// can represent.
const MaxDurationDays = 36500

// BookingStatus is the lifecycle state of a booking.
type BookingStatus string

const (
	BookingConfirmed BookingStatus = "CONFIRMED"
	BookingCancelled BookingStatus = "CANCELLED"
	// BookingCompleted is a valid stored value, but no operation produces it yet.
	BookingCompleted BookingStatus = "COMPLETED"
)

// Valid reports whether s is one of the known statuses. Repos use it to reject
// rows carrying an unknown status.
func (s BookingStatus) Valid() bool {
	switch s {
	case BookingConfirmed, BookingCancelled, BookingCompleted:
		return true
	}
	return false
}

// Booking records one disbursement from the pool to fund a package for a buyer.
// Bookings are never deleted; cancellation only changes Status.
type Booking struct {
	ID               uint32
	Buyer            Identity
	PackageID        uint32
	Destination      string
	AmountDisbursed  int64
	EligibilityScore uint32
	BookingDate      time.Time
	DepartureDate    time.Time
	Status           BookingStatus
}

// DepartureFor returns the departure timestamp for a booking made at bookedAt
// on a package lasting durationDays.
func DepartureFor(bookedAt time.Time, durationDays uint32) time.Time {
	return time.Unix(bookedAt.Unix()+int64(durationDays)*SecondsPerDay, 0).UTC()
}
