// Package main mints HS256 bearer tokens for local development and operations.
// The token proves the given identity to the API server configured with the
// same JWT_SECRET and JWT_ISSUER.
//
//	JWT_SECRET=dev go run ./cmd/token -sub GADMIN -ttl 24h
package main

import (
	"flag"
	"fmt"
	"os"
	"time"

	"github.com/pkordes/tripfund/backend/internal/auth"
	"github.com/pkordes/tripfund/backend/internal/domain"
)

func main() {
	sub := flag.String("sub", "", "identity the token proves (required)")
	issuer := flag.String("iss", envOr("JWT_ISSUER", "tripfund"), "token issuer")
	ttl := flag.Duration("ttl", time.Hour, "token lifetime")
	flag.Parse()

	secret := os.Getenv("JWT_SECRET")
	if *sub == "" || secret == "" {
		fmt.Fprintln(os.Stderr, "usage: JWT_SECRET=... token -sub IDENTITY [-iss ISSUER] [-ttl DURATION]")
		os.Exit(2)
	}

	token, err := auth.NewIssuer([]byte(secret), *issuer, *ttl).Issue(domain.Identity(*sub))
	if err != nil {
		fmt.Fprintln(os.Stderr, "token:", err)
		os.Exit(1)
	}
	fmt.Println(token)
}

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}
