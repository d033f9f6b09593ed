// Package repo contains all database access logic for the travel fund backend.
// Each resource has its own file with an interface and a Postgres implementation.
// No business logic lives here, only SQL and type mapping.
package repo

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
)

// db is the minimal interface satisfied by *pgxpool.Pool, pgx.Conn, and pgx.Tx.
// Accepting this interface instead of *pgxpool.Pool directly allows integration
// tests to pass a transaction that is rolled back after each test.
type db interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

// beginner is satisfied by *pgxpool.Pool and by pgx.Tx (as a savepoint).
type beginner interface {
	Begin(ctx context.Context) (pgx.Tx, error)
}

// txBeginner is satisfied by *pgxpool.Pool. A pgx.Tx lacks it because a
// savepoint cannot change isolation.
type txBeginner interface {
	BeginTx(ctx context.Context, opts pgx.TxOptions) (pgx.Tx, error)
}

// scanner is satisfied by both pgx.Row and pgx.Rows.
type scanner interface {
	Scan(dest ...any) error
}

// Repos bundles every repository bound to the same transaction.
type Repos struct {
	Config   ConfigRepo
	Pool     PoolRepo
	Packages PackageRepo
	Bookings BookingRepo
	History  HistoryRepo
}

// TxRunner scopes a unit of work to a single transaction.
// Every public fund operation runs inside exactly one InTx or View call, so a
// rejected operation never leaves partial writes behind.
type TxRunner interface {
	// InTx runs fn in a read-write transaction that is serialized against all
	// other InTx calls. fn returning an error rolls back every write.
	InTx(ctx context.Context, fn func(ctx context.Context, r Repos) error) error

	// View runs fn in a read-only transaction over a single snapshot, so a
	// multi-query read never observes a writer's commit halfway through.
	View(ctx context.Context, fn func(ctx context.Context, r Repos) error) error
}

// fundLockKey is the pg_advisory_xact_lock key that serializes all writers.
const fundLockKey int64 = 0x7472_6970_66756e64 // "tripfund"

// viewTxOptions gives View one consistent snapshot without taking fundLockKey.
var viewTxOptions = pgx.TxOptions{IsoLevel: pgx.RepeatableRead, AccessMode: pgx.ReadOnly}

// pgTxRunner is the Postgres implementation of TxRunner.
type pgTxRunner struct {
	db beginner
}

// NewTxRunner constructs a TxRunner over db.
// In production pass *pgxpool.Pool; in tests pass a pgx.Tx so each unit of work
// becomes a savepoint inside the rolled-back test transaction.
func NewTxRunner(db beginner) TxRunner {
	return &pgTxRunner{db: db}
}

// ReposFor binds all repositories to the same db handle.
func ReposFor(db db) Repos {
	return Repos{
		Config:   NewConfigRepo(db),
		Pool:     NewPoolRepo(db),
		Packages: NewPackageRepo(db),
		Bookings: NewBookingRepo(db),
		History:  NewHistoryRepo(db),
	}
}

func (r *pgTxRunner) InTx(ctx context.Context, fn func(ctx context.Context, r Repos) error) error {
	return r.run(ctx, true, fn)
}

func (r *pgTxRunner) View(ctx context.Context, fn func(ctx context.Context, r Repos) error) error {
	return r.run(ctx, false, fn)
}

func (r *pgTxRunner) run(ctx context.Context, exclusive bool, fn func(ctx context.Context, r Repos) error) (err error) {
	tx, err := r.begin(ctx, exclusive)
	if err != nil {
		return fmt.Errorf("repo.TxRunner: begin: %w", err)
	}
	defer func() {
		// Rollback after a successful Commit returns pgx.ErrTxClosed, which is expected.
		if rbErr := tx.Rollback(ctx); rbErr != nil && !errors.Is(rbErr, pgx.ErrTxClosed) && err == nil {
			err = fmt.Errorf("repo.TxRunner: rollback: %w", rbErr)
		}
	}()

	if exclusive {
		if _, err := tx.Exec(ctx, `SELECT pg_advisory_xact_lock($1)`, fundLockKey); err != nil {
			return fmt.Errorf("repo.TxRunner: lock: %w", err)
		}
	}

	if err := fn(ctx, ReposFor(tx)); err != nil {
		return err
	}

	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("repo.TxRunner: commit: %w", err)
	}
	return nil
}

func (r *pgTxRunner) begin(ctx context.Context, exclusive bool) (pgx.Tx, error) {
	if tb, ok := r.db.(txBeginner); ok && !exclusive {
		return tb.BeginTx(ctx, viewTxOptions)
	}
	return r.db.Begin(ctx)
}

// isUniqueViolation reports whether err is a Postgres unique_violation (23505).
func isUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == "23505"
}
