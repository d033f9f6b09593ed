package handler

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/oapi-codegen/runtime"

	"github.com/pkordes/tripfund/backend/internal/auth"
	"github.com/pkordes/tripfund/backend/internal/domain"
)

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

// decodeBody decodes the JSON request body into dst, rejecting unknown fields.
// On failure it writes the error response and returns false.
func decodeBody(w http.ResponseWriter, r *http.Request, dst any) bool {
	dec := json.NewDecoder(r.Body)
	dec.DisallowUnknownFields()
	if err := dec.Decode(dst); err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			writeError(w, r, err)
			return false
		}
		requestError(w, "request body must be a valid JSON object")
		return false
	}
	return true
}

// pathParam binds the chi URL parameter name into dst using OpenAPI "simple" style.
func pathParam(w http.ResponseWriter, r *http.Request, name string, dst any) bool {
	err := runtime.BindStyledParameterWithOptions("simple", name, chi.URLParam(r, name), dst,
		runtime.BindStyledParameterOptions{ParamLocation: runtime.ParamLocationPath, Explode: false, Required: true})
	if err != nil {
		requestError(w, "invalid path parameter "+name)
		return false
	}
	return true
}

// queryParam binds a required query parameter into dst using OpenAPI "form" style.
func queryParam(w http.ResponseWriter, r *http.Request, name string, dst any) bool {
	if err := runtime.BindQueryParameter("form", true, true, name, r.URL.Query(), dst); err != nil {
		requestError(w, "invalid or missing query parameter "+name)
		return false
	}
	return true
}

// caller returns the identity proven by the authenticate middleware.
func caller(r *http.Request) domain.Identity {
	id, _ := auth.CallerFrom(r.Context())
	return id
}
