package middleware

import (
	"encoding/json"
	"net/http"
	"strings"

	"github.com/pkordes/tripfund/backend/internal/auth"
	"github.com/pkordes/tripfund/backend/internal/domain"
)

// TokenVerifier turns a raw bearer token into the identity it proves.
// *auth.Verifier satisfies it.
type TokenVerifier interface {
	Verify(raw string) (domain.Identity, error)
}

// NewBearerAuth returns a middleware that requires an "Authorization: Bearer"
// header, verifies it, and stores the proven caller in the request context
// (see auth.CallerFrom). Failures are answered with 401 and never reach next.
func NewBearerAuth(v TokenVerifier) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			raw, ok := bearerToken(r.Header.Get("Authorization"))
			if !ok {
				unauthenticated(w, "bearer token is required")
				return
			}
			caller, err := v.Verify(raw)
			if err != nil {
				unauthenticated(w, "bearer token is invalid")
				return
			}
			next.ServeHTTP(w, r.WithContext(auth.WithCaller(r.Context(), caller)))
		})
	}
}

func bearerToken(header string) (string, bool) {
	scheme, token, found := strings.Cut(header, " ")
	if !found || !strings.EqualFold(scheme, "Bearer") {
		return "", false
	}
	token = strings.TrimSpace(token)
	return token, token != ""
}

func unauthenticated(w http.ResponseWriter, message string) {
	w.Header().Set("WWW-Authenticate", `Bearer realm="tripfund"`)
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusUnauthorized)
	_ = json.NewEncoder(w).Encode(map[string]any{
		"error": map[string]string{"code": "unauthenticated", "message": message},
	})
}
