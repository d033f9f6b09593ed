package handler_test

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/pkordes/tripfund/backend/internal/auth"
	"github.com/pkordes/tripfund/backend/internal/domain"
	"github.com/pkordes/tripfund/backend/internal/handler"
	"github.com/pkordes/tripfund/backend/internal/middleware"
)

// ---- mocks -----------------------------------------------------------------
// Each mock is a test double for one servicer interface.
// Set only the method fields your test needs.

type mockConfigServicer struct {
	initialize func(ctx context.Context, admin, currencyRef, poolRef domain.Identity) (domain.FundConfig, error)
	get        func(ctx context.Context) (domain.FundConfig, error)
}

func (m *mockConfigServicer) Initialize(ctx context.Context, admin, currencyRef, poolRef domain.Identity) (domain.FundConfig, error) {
	return m.initialize(ctx, admin, currencyRef, poolRef)
}
func (m *mockConfigServicer) Get(ctx context.Context) (domain.FundConfig, error) {
	return m.get(ctx)
}

type mockCatalogServicer struct {
	createPackage func(ctx context.Context, caller domain.Identity, pkg domain.Package) (domain.Package, error)
	setActive     func(ctx context.Context, caller domain.Identity, id uint32, active bool) (domain.Package, error)
	list          func(ctx context.Context) ([]domain.Package, error)
}

func (m *mockCatalogServicer) CreatePackage(ctx context.Context, caller domain.Identity, pkg domain.Package) (domain.Package, error) {
	return m.createPackage(ctx, caller, pkg)
}
func (m *mockCatalogServicer) SetActive(ctx context.Context, caller domain.Identity, id uint32, active bool) (domain.Package, error) {
	return m.setActive(ctx, caller, id, active)
}
func (m *mockCatalogServicer) List(ctx context.Context) ([]domain.Package, error) {
	return m.list(ctx)
}

type mockPoolServicer struct {
	deposit func(ctx context.Context, caller domain.Identity, amount int64) (int64, error)
	balance func(ctx context.Context) (int64, error)
}

func (m *mockPoolServicer) Deposit(ctx context.Context, caller domain.Identity, amount int64) (int64, error) {
	return m.deposit(ctx, caller, amount)
}
func (m *mockPoolServicer) Balance(ctx context.Context) (int64, error) {
	return m.balance(ctx)
}

type mockBookingServicer struct {
	book             func(ctx context.Context, buyer domain.Identity, packageID, score uint32) (domain.Booking, error)
	checkEligibility func(ctx context.Context, buyer domain.Identity, packageID, score uint32) (bool, error)
	cancel           func(ctx context.Context, buyer domain.Identity, bookingID uint32) (int64, error)
	listByBuyer      func(ctx context.Context, buyer domain.Identity) ([]domain.Booking, error)
}

func (m *mockBookingServicer) Book(ctx context.Context, buyer domain.Identity, packageID, score uint32) (domain.Booking, error) {
	return m.book(ctx, buyer, packageID, score)
}
func (m *mockBookingServicer) CheckEligibility(ctx context.Context, buyer domain.Identity, packageID, score uint32) (bool, error) {
	return m.checkEligibility(ctx, buyer, packageID, score)
}
func (m *mockBookingServicer) Cancel(ctx context.Context, buyer domain.Identity, bookingID uint32) (int64, error) {
	return m.cancel(ctx, buyer, bookingID)
}
func (m *mockBookingServicer) ListByBuyer(ctx context.Context, buyer domain.Identity) ([]domain.Booking, error) {
	return m.listByBuyer(ctx, buyer)
}

type mockAuditServicer struct {
	history func(ctx context.Context, buyer domain.Identity) ([]domain.TransactionRecord, error)
}

func (m *mockAuditServicer) History(ctx context.Context, buyer domain.Identity) ([]domain.TransactionRecord, error) {
	return m.history(ctx, buyer)
}

// compile-time checks: every mock must satisfy its handler interface.
var (
	_ handler.ConfigServicer  = (*mockConfigServicer)(nil)
	_ handler.CatalogServicer = (*mockCatalogServicer)(nil)
	_ handler.PoolServicer    = (*mockPoolServicer)(nil)
	_ handler.BookingServicer = (*mockBookingServicer)(nil)
	_ handler.AuditServicer   = (*mockAuditServicer)(nil)
)

// ---- helpers ---------------------------------------------------------------

const (
	testIssuer   = "tripfund"
	testDecimals = 7
	adminID      = domain.Identity("GADMIN")
	buyerID      = domain.Identity("GBUYER")
)

var testSecret = []byte("handler-test-secret-32-bytes-ok!")

var openAPIDoc = []byte("openapi: 3.0.3\n")

// newHTTPHandler wires a Server with the given mocks behind the real bearer
// middleware. This mirrors how main.go wires it in production.
func newHTTPHandler(svc handler.Services) http.Handler {
	authn := middleware.NewBearerAuth(auth.NewVerifier(testSecret, testIssuer))
	return handler.NewServer(svc, authn, testDecimals, openAPIDoc).Handler()
}

func tokenFor(t *testing.T, id domain.Identity) string {
	t.Helper()
	token, err := auth.NewIssuer(testSecret, testIssuer, time.Hour).Issue(id)
	require.NoError(t, err)
	return token
}

func jsonBody(t *testing.T, v any) io.Reader {
	t.Helper()
	b, err := json.Marshal(v)
	require.NoError(t, err)
	return bytes.NewBuffer(b)
}

// do sends a request through h. as may be empty for an anonymous call.
func do(t *testing.T, h http.Handler, method, path string, body io.Reader, as domain.Identity) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(method, path, body)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if as != "" {
		req.Header.Set("Authorization", "Bearer "+tokenFor(t, as))
	}
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	return rec
}

func decode[T any](t *testing.T, rec *httptest.ResponseRecorder) T {
	t.Helper()
	var v T
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&v))
	return v
}

func requireErrorCode(t *testing.T, rec *httptest.ResponseRecorder, status int, code string) handler.ErrorResponse {
	t.Helper()
	require.Equal(t, status, rec.Code, rec.Body.String())
	body := decode[handler.ErrorResponse](t, rec)
	require.Equal(t, code, body.Error.Code)
	return body
}

var fixedTime = time.Date(2025, 3, 1, 12, 0, 0, 0, time.UTC)

func packageFixture() domain.Package {
	return domain.Package{
		ID:                  1,
		Destination:         "PARIS",
		Price:               5_000_000_000,
		DurationDays:        7,
		MaxOccupants:        20,
		MinEligibilityScore: 700,
		Active:              true,
		CreatedAt:           fixedTime,
	}
}

func bookingFixture() domain.Booking {
	return domain.Booking{
		ID:               1,
		Buyer:            buyerID,
		PackageID:        1,
		Destination:      "PARIS",
		AmountDisbursed:  5_000_000_000,
		EligibilityScore: 750,
		BookingDate:      fixedTime,
		DepartureDate:    domain.DepartureFor(fixedTime, 7),
		Status:           domain.BookingConfirmed,
	}
}
