package domain

import "errors"

// ErrNotFound is returned by repo functions when the requested row does not
// exist. Services translate it into one of the specific kinds below.
var ErrNotFound = errors.New("not found")

// ErrValidation is returned when a request is malformed before any business
// rule is evaluated (e.g. an empty destination).
var ErrValidation = errors.New("validation error")

// Configuration errors.
var (
	ErrNotInitialized     = errors.New("fund is not initialized")
	ErrAlreadyInitialized = errors.New("fund is already initialized")
	ErrUnauthorized       = errors.New("caller is not authorized")
)

// Input errors.
var (
	ErrInvalidPrice    = errors.New("price must be greater than zero")
	ErrInvalidDuration = errors.New("duration must be between one day and 36500 days")
	ErrInvalidAmount   = errors.New("amount must be greater than zero")
)

// Catalog errors.
var (
	ErrPackageNotFound     = errors.New("package not found")
	ErrPackageNotActive    = errors.New("package is not active")
	ErrPackageFull         = errors.New("package is full")
	ErrNoPackagesAvailable = errors.New("no packages available")
	ErrDuplicatePackage    = errors.New("package id already exists")
)

// Booking errors.
var (
	ErrInsufficientEligibilityScore = errors.New("eligibility score below package minimum")
	ErrDuplicateBooking             = errors.New("buyer already holds a confirmed booking for this package")
	ErrInsufficientPoolFunds        = errors.New("insufficient pool funds")
	ErrNoBookingsFound              = errors.New("no bookings found")
	ErrBookingNotFound              = errors.New("booking not found")
	ErrBookingNotConfirmed          = errors.New("booking is not confirmed")
	ErrBalanceOverflow              = errors.New("pool balance would overflow")
)
