package domain

import "time"

// Package is a purchasable offering in the catalog.
// Price is in the smallest currency unit. EnrolledCount tracks how many
// CONFIRMED bookings currently hold a seat; it never exceeds MaxOccupants
// through booking.
type Package struct {
	ID                  uint32
	Destination         string
	Price               int64
	DurationDays        uint32
	MaxOccupants        uint32
	EnrolledCount       uint32
	MinEligibilityScore uint32
	Active              bool
	CreatedAt           time.Time
}

// HasCapacity reports whether another booking can be admitted.
func (p Package) HasCapacity() bool {
	return p.EnrolledCount < p.MaxOccupants
}
