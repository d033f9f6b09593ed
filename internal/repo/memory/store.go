// Package memory is an in-process implementation of the repo interfaces.
// It is used by service tests and by the server when STORE=memory.
//
// Every InTx works on a private copy of the state which replaces the live state
// only when the callback succeeds, so a failed operation leaves nothing behind.
package memory

import (
	"context"
	"errors"
	"fmt"
	"math"
	"slices"
	"sync"

	"github.com/pkordes/tripfund/backend/internal/domain"
	"github.com/pkordes/tripfund/backend/internal/repo"
)

var (
	errNegativeBalance = errors.New("pool balance must not be negative")
	errIDsExhausted    = errors.New("booking ids exhausted")
)

type state struct {
	config        *domain.FundConfig
	balance       *int64
	packages      []domain.Package
	bookings      []domain.Booking
	history       map[domain.Identity][]domain.TransactionRecord
	lastBookingID uint32
}

func (s *state) clone() *state {
	c := &state{
		packages:      slices.Clone(s.packages),
		bookings:      slices.Clone(s.bookings),
		history:       make(map[domain.Identity][]domain.TransactionRecord, len(s.history)),
		lastBookingID: s.lastBookingID,
	}
	if s.config != nil {
		cfg := *s.config
		c.config = &cfg
	}
	if s.balance != nil {
		b := *s.balance
		c.balance = &b
	}
	for k, v := range s.history {
		c.history[k] = slices.Clone(v)
	}
	return c
}

// Store holds the whole fund state in memory.
type Store struct {
	mu sync.RWMutex
	st *state
}

var _ repo.TxRunner = (*Store)(nil)

// New returns an empty, uninitialized store.
func New() *Store {
	return &Store{st: &state{history: map[domain.Identity][]domain.TransactionRecord{}}}
}

// InTx runs fn against a copy of the state under an exclusive lock and keeps
// the copy only if fn succeeds.
func (s *Store) InTx(ctx context.Context, fn func(ctx context.Context, r repo.Repos) error) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	work := s.st.clone()
	if err := fn(ctx, reposFor(work)); err != nil {
		return err
	}
	s.st = work
	return nil
}

// View runs fn against a throwaway copy of the state under a shared lock.
func (s *Store) View(ctx context.Context, fn func(ctx context.Context, r repo.Repos) error) error {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return fn(ctx, reposFor(s.st.clone()))
}

func reposFor(st *state) repo.Repos {
	return repo.Repos{
		Config:   configRepo{st},
		Pool:     poolRepo{st},
		Packages: packageRepo{st},
		Bookings: bookingRepo{st},
		History:  historyRepo{st},
	}
}

// ---- config ----------------------------------------------------------------

type configRepo struct{ st *state }

func (r configRepo) Exists(context.Context) (bool, error) {
	return r.st.config != nil, nil
}

func (r configRepo) Get(context.Context) (domain.FundConfig, error) {
	if r.st.config == nil {
		return domain.FundConfig{}, fmt.Errorf("memory.ConfigRepo.Get: %w", domain.ErrNotFound)
	}
	return *r.st.config, nil
}

func (r configRepo) Create(_ context.Context, cfg domain.FundConfig) error {
	if r.st.config != nil {
		return fmt.Errorf("memory.ConfigRepo.Create: %w", domain.ErrAlreadyInitialized)
	}
	r.st.config = &cfg
	return nil
}

// ---- pool ------------------------------------------------------------------

type poolRepo struct{ st *state }

func (r poolRepo) Balance(context.Context) (int64, error) {
	if r.st.balance == nil {
		return 0, fmt.Errorf("memory.PoolRepo.Balance: %w", domain.ErrNotFound)
	}
	return *r.st.balance, nil
}

func (r poolRepo) SetBalance(_ context.Context, balance int64) error {
	if balance < 0 {
		return fmt.Errorf("memory.PoolRepo.SetBalance: %w", errNegativeBalance)
	}
	r.st.balance = &balance
	return nil
}

// ---- packages --------------------------------------------------------------

type packageRepo struct{ st *state }

func (r packageRepo) Create(_ context.Context, pkg domain.Package) (domain.Package, error) {
	if r.index(pkg.ID) >= 0 {
		return domain.Package{}, fmt.Errorf("memory.PackageRepo.Create: %w", domain.ErrDuplicatePackage)
	}
	r.st.packages = append(r.st.packages, pkg)
	return pkg, nil
}

func (r packageRepo) GetByID(_ context.Context, id uint32) (domain.Package, error) {
	i := r.index(id)
	if i < 0 {
		return domain.Package{}, fmt.Errorf("memory.PackageRepo.GetByID: %w", domain.ErrNotFound)
	}
	return r.st.packages[i], nil
}

func (r packageRepo) List(context.Context) ([]domain.Package, error) {
	out := make([]domain.Package, len(r.st.packages))
	copy(out, r.st.packages)
	return out, nil
}

func (r packageRepo) Count(context.Context) (int, error) {
	return len(r.st.packages), nil
}

func (r packageRepo) SetActive(_ context.Context, id uint32, active bool) (domain.Package, error) {
	i := r.index(id)
	if i < 0 {
		return domain.Package{}, fmt.Errorf("memory.PackageRepo.SetActive: %w", domain.ErrNotFound)
	}
	r.st.packages[i].Active = active
	return r.st.packages[i], nil
}

func (r packageRepo) SetEnrolled(_ context.Context, id uint32, enrolled uint32) error {
	i := r.index(id)
	if i < 0 {
		return fmt.Errorf("memory.PackageRepo.SetEnrolled: %w", domain.ErrNotFound)
	}
	r.st.packages[i].EnrolledCount = enrolled
	return nil
}

func (r packageRepo) index(id uint32) int {
	return slices.IndexFunc(r.st.packages, func(p domain.Package) bool { return p.ID == id })
}

// ---- bookings --------------------------------------------------------------

type bookingRepo struct{ st *state }

func (r bookingRepo) NextID(context.Context) (uint32, error) {
	if r.st.lastBookingID == math.MaxUint32 {
		return 0, fmt.Errorf("memory.BookingRepo.NextID: %w", errIDsExhausted)
	}
	r.st.lastBookingID++
	return r.st.lastBookingID, nil
}

func (r bookingRepo) Create(ctx context.Context, b domain.Booking) (domain.Booking, error) {
	if b.Status == domain.BookingConfirmed {
		dup, err := r.HasConfirmed(ctx, b.Buyer, b.PackageID)
		if err != nil {
			return domain.Booking{}, fmt.Errorf("memory.BookingRepo.Create: %w", err)
		}
		if dup {
			return domain.Booking{}, fmt.Errorf("memory.BookingRepo.Create: %w", domain.ErrDuplicateBooking)
		}
	}
	r.st.bookings = append(r.st.bookings, b)
	return b, nil
}

func (r bookingRepo) GetForBuyer(_ context.Context, id uint32, buyer domain.Identity) (domain.Booking, error) {
	for _, b := range r.st.bookings {
		if b.ID == id && b.Buyer == buyer {
			return b, nil
		}
	}
	return domain.Booking{}, fmt.Errorf("memory.BookingRepo.GetForBuyer: %w", domain.ErrNotFound)
}

func (r bookingRepo) Count(context.Context) (int, error) {
	return len(r.st.bookings), nil
}

func (r bookingRepo) HasConfirmed(ctx context.Context, buyer domain.Identity, packageID uint32) (bool, error) {
	if err := ctx.Err(); err != nil {
		return false, fmt.Errorf("memory.BookingRepo.HasConfirmed: %w", err)
	}
	return slices.ContainsFunc(r.st.bookings, func(b domain.Booking) bool {
		return b.Buyer == buyer && b.PackageID == packageID && b.Status == domain.BookingConfirmed
	}), nil
}

func (r bookingRepo) ListByBuyer(_ context.Context, buyer domain.Identity) ([]domain.Booking, error) {
	out := []domain.Booking{}
	for _, b := range r.st.bookings {
		if b.Buyer == buyer {
			out = append(out, b)
		}
	}
	return out, nil
}

func (r bookingRepo) UpdateStatus(_ context.Context, id uint32, status domain.BookingStatus) error {
	for i := range r.st.bookings {
		if r.st.bookings[i].ID == id {
			r.st.bookings[i].Status = status
			return nil
		}
	}
	return fmt.Errorf("memory.BookingRepo.UpdateStatus: %w", domain.ErrNotFound)
}

// ---- history ---------------------------------------------------------------

type historyRepo struct{ st *state }

func (r historyRepo) Append(_ context.Context, rec domain.TransactionRecord) error {
	r.st.history[rec.Buyer] = append(r.st.history[rec.Buyer], rec)
	return nil
}

func (r historyRepo) ListByBuyer(_ context.Context, buyer domain.Identity) ([]domain.TransactionRecord, error) {
	out := make([]domain.TransactionRecord, len(r.st.history[buyer]))
	copy(out, r.st.history[buyer])
	return out, nil
}
