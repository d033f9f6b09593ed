// Package domain contains the core data types for the travel fund backend.
// This package does no I/O and is imported by every other internal package
// (auth, repo, service, handler).
package domain

import "time"

// Identity names a party that can act on the fund: the administrator, a buyer,
// or an external reference such as the accepted currency token.
// Identities are opaque strings (for example a Stellar account address).
type Identity string

// String returns the identity as a plain string.
func (i Identity) String() string { return string(i) }

// IsZero reports whether the identity is empty.
func (i Identity) IsZero() bool { return i == "" }

// FundConfig is written once by Initialize and never changes afterwards.
type FundConfig struct {
	Admin       Identity
	CurrencyRef Identity
	// PoolRef is the optional external account backing the pool. It is stored
	// for reference only; the balance itself lives in the pool ledger.
	PoolRef   Identity
	CreatedAt time.Time
}
