package repo_test

import (
	"testing"
	"time"

	"github.com/pkordes/tripfund/backend/internal/domain"
	"github.com/pkordes/tripfund/backend/internal/repo"
	"github.com/pkordes/tripfund/backend/testutil"
)

// newTestRepos binds every repository to a rolled-back test transaction.
// Requires TEST_DATABASE_URL to be set; TestMain applies the migrations.
func newTestRepos(t *testing.T) repo.Repos {
	t.Helper()
	return repo.ReposFor(testutil.BeginTx(t))
}

var created = time.Date(2025, 3, 1, 12, 0, 0, 0, time.UTC)

// packageFixture returns a package with sensible defaults. Callers override
// individual fields after calling this function.
func packageFixture(id uint32) domain.Package {
	return domain.Package{
		ID:                  id,
		Destination:         "PARIS",
		Price:               5_000_000_000,
		DurationDays:        7,
		MaxOccupants:        20,
		MinEligibilityScore: 700,
		Active:              true,
		CreatedAt:           created,
	}
}

func bookingFixture(id, packageID uint32, buyer domain.Identity) domain.Booking {
	return domain.Booking{
		ID:               id,
		Buyer:            buyer,
		PackageID:        packageID,
		Destination:      "PARIS",
		AmountDisbursed:  5_000_000_000,
		EligibilityScore: 750,
		BookingDate:      created,
		DepartureDate:    domain.DepartureFor(created, 7),
		Status:           domain.BookingConfirmed,
	}
}
