// Package auth provides the "caller is who it claims to be" primitive.
//
// The HTTP layer proves a caller's identity (see Verifier) and stores it in the
// request context with WithCaller. Services then call RequireCallerIs before
// mutating state on behalf of an identity.
package auth

import (
	"context"
	"fmt"

	"github.com/pkordes/tripfund/backend/internal/domain"
)

type callerKey struct{}

// WithCaller returns a copy of ctx carrying the proven caller identity.
func WithCaller(ctx context.Context, id domain.Identity) context.Context {
	return context.WithValue(ctx, callerKey{}, id)
}

// CallerFrom returns the proven caller identity stored in ctx, if any.
func CallerFrom(ctx context.Context) (domain.Identity, bool) {
	id, ok := ctx.Value(callerKey{}).(domain.Identity)
	if !ok || id.IsZero() {
		return "", false
	}
	return id, true
}

// RequireCallerIs fails with domain.ErrUnauthorized unless the proven caller
// in ctx is exactly id.
func RequireCallerIs(ctx context.Context, id domain.Identity) error {
	caller, ok := CallerFrom(ctx)
	if !ok {
		return fmt.Errorf("%w: no authenticated caller", domain.ErrUnauthorized)
	}
	if id.IsZero() || caller != id {
		return fmt.Errorf("%w: caller %q cannot act as %q", domain.ErrUnauthorized, caller, id)
	}
	return nil
}
