// Package handler implements the HTTP handlers for the travel fund API.
// All handlers are methods on Server. They are split into domain-specific
// files (health.go, fund.go, package.go, ...) but share the same Server struct
// so they can reach its dependencies.
package handler

import (
	"context"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/pkordes/tripfund/backend/internal/domain"
)

// ConfigServicer defines the fund configuration operations the handlers depend on.
// Interfaces live here, in the consumer package, so handler tests can inject
// mocks without touching the store or the service layer.
type ConfigServicer interface {
	Initialize(ctx context.Context, admin, currencyRef, poolRef domain.Identity) (domain.FundConfig, error)
	Get(ctx context.Context) (domain.FundConfig, error)
}

// CatalogServicer defines the package catalog operations.
type CatalogServicer interface {
	CreatePackage(ctx context.Context, caller domain.Identity, pkg domain.Package) (domain.Package, error)
	SetActive(ctx context.Context, caller domain.Identity, id uint32, active bool) (domain.Package, error)
	List(ctx context.Context) ([]domain.Package, error)
}

// PoolServicer defines the pool ledger operations.
type PoolServicer interface {
	Deposit(ctx context.Context, caller domain.Identity, amount int64) (int64, error)
	Balance(ctx context.Context) (int64, error)
}

// BookingServicer defines the booking engine operations.
type BookingServicer interface {
	Book(ctx context.Context, buyer domain.Identity, packageID, eligibilityScore uint32) (domain.Booking, error)
	CheckEligibility(ctx context.Context, buyer domain.Identity, packageID, eligibilityScore uint32) (bool, error)
	Cancel(ctx context.Context, buyer domain.Identity, bookingID uint32) (int64, error)
	ListByBuyer(ctx context.Context, buyer domain.Identity) ([]domain.Booking, error)
}

// AuditServicer defines the audit trail read operations.
type AuditServicer interface {
	History(ctx context.Context, buyer domain.Identity) ([]domain.TransactionRecord, error)
}

// Services bundles the business dependencies of a Server.
type Services struct {
	Config   ConfigServicer
	Catalog  CatalogServicer
	Pool     PoolServicer
	Bookings BookingServicer
	Audit    AuditServicer
}

// Server holds the dependencies shared by every handler.
type Server struct {
	svc          Services
	authenticate func(http.Handler) http.Handler
	decimals     int32
	openAPI      []byte
}

// NewServer constructs the Server.
// authenticate guards every state-changing route and must place the proven
// caller in the request context (see middleware.NewBearerAuth).
// decimals is the currency precision used for the *_display amount fields.
func NewServer(svc Services, authenticate func(http.Handler) http.Handler, decimals int32, openAPI []byte) *Server {
	return &Server{svc: svc, authenticate: authenticate, decimals: decimals, openAPI: openAPI}
}

// Handler returns the chi router serving every API route.
// Reads are public; writes sit behind the authenticate middleware.
func (s *Server) Handler() http.Handler {
	r := chi.NewRouter()

	r.Get("/healthz", s.getHealth)
	r.Get("/openapi.yaml", s.getOpenAPI)
	r.Get("/config", s.getConfig)
	r.Get("/packages", s.listPackages)
	r.Get("/pool", s.getPool)
	r.Get("/buyers/{buyer}/bookings", s.listBuyerBookings)
	r.Get("/buyers/{buyer}/history", s.listBuyerHistory)
	r.Get("/buyers/{buyer}/eligibility", s.checkEligibility)

	r.Group(func(r chi.Router) {
		r.Use(s.authenticate)
		r.Post("/initialize", s.initialize)
		r.Post("/packages", s.createPackage)
		r.Put("/packages/{id}/active", s.setPackageActive)
		r.Post("/pool/deposits", s.deposit)
		r.Post("/bookings", s.createBooking)
		r.Post("/bookings/{id}/cancel", s.cancelBooking)
	})

	return r
}
