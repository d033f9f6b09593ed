package service_test

import (
	"context"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/pkordes/tripfund/backend/internal/auth"
	"github.com/pkordes/tripfund/backend/internal/domain"
	"github.com/pkordes/tripfund/backend/internal/repo/memory"
	"github.com/pkordes/tripfund/backend/internal/service"
)

const (
	admin  domain.Identity = "GADMIN"
	token  domain.Identity = "CTOKEN"
	pool   domain.Identity = "GPOOL"
	buyer  domain.Identity = "GBUYER"
	buyer2 domain.Identity = "GBUYER2"
)

var fixedNow = time.Date(2025, 3, 1, 12, 0, 0, 0, time.UTC)

// fund wires every service to one shared in-memory store, as main.go does
// with the Postgres runner.
type fund struct {
	config   *service.ConfigService
	catalog  *service.CatalogService
	pool     *service.PoolService
	bookings *service.BookingService
	audit    *service.AuditService
}

func newFund(t *testing.T) *fund {
	t.Helper()
	store := memory.New()
	opts := []service.Option{
		service.WithClock(func() time.Time { return fixedNow }),
		service.WithLogger(slog.New(slog.NewTextHandler(io.Discard, nil))),
	}
	return &fund{
		config:   service.NewConfigService(store, opts...),
		catalog:  service.NewCatalogService(store, opts...),
		pool:     service.NewPoolService(store, opts...),
		bookings: service.NewBookingService(store, opts...),
		audit:    service.NewAuditService(store),
	}
}

// as returns a context in which id is the proven caller.
func as(id domain.Identity) context.Context {
	return auth.WithCaller(context.Background(), id)
}

// newInitializedFund returns a fund initialized by admin and holding deposit.
func newInitializedFund(t *testing.T, deposit int64) *fund {
	t.Helper()
	f := newFund(t)
	_, err := f.config.Initialize(as(admin), admin, token, pool)
	require.NoError(t, err)
	if deposit > 0 {
		_, err = f.pool.Deposit(as(admin), admin, deposit)
		require.NoError(t, err)
	}
	return f
}

func parisPackage() domain.Package {
	return domain.Package{
		ID:                  1,
		Destination:         "PARIS",
		Price:               5_000_000_000,
		DurationDays:        7,
		MaxOccupants:        20,
		MinEligibilityScore: 700,
	}
}

func (f *fund) mustCreate(t *testing.T, pkg domain.Package) domain.Package {
	t.Helper()
	created, err := f.catalog.CreatePackage(as(admin), admin, pkg)
	require.NoError(t, err)
	return created
}

func (f *fund) balance(t *testing.T) int64 {
	t.Helper()
	bal, err := f.pool.Balance(context.Background())
	require.NoError(t, err)
	return bal
}
