package handler

import (
	"errors"
	"log/slog"
	"net/http"
	"strings"

	"github.com/pkordes/tripfund/backend/internal/domain"
)

// ErrorDetail is the machine-readable code plus a human-readable message.
type ErrorDetail struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

// ErrorResponse is the body of every non-2xx response.
type ErrorResponse struct {
	Error ErrorDetail `json:"error"`
}

// errorMapping ties a domain sentinel to its HTTP status and error code.
type errorMapping struct {
	err    error
	status int
	code   string
}

// errorTable is checked in order with errors.Is; the first match wins.
var errorTable = []errorMapping{
	{domain.ErrUnauthorized, http.StatusForbidden, "unauthorized"},

	{domain.ErrPackageNotFound, http.StatusNotFound, "package_not_found"},
	{domain.ErrBookingNotFound, http.StatusNotFound, "booking_not_found"},
	{domain.ErrNoPackagesAvailable, http.StatusNotFound, "no_packages_available"},
	{domain.ErrNoBookingsFound, http.StatusNotFound, "no_bookings_found"},
	{domain.ErrNotFound, http.StatusNotFound, "not_found"},

	{domain.ErrNotInitialized, http.StatusConflict, "not_initialized"},
	{domain.ErrAlreadyInitialized, http.StatusConflict, "already_initialized"},
	{domain.ErrPackageNotActive, http.StatusConflict, "package_not_active"},
	{domain.ErrPackageFull, http.StatusConflict, "package_full"},
	{domain.ErrDuplicateBooking, http.StatusConflict, "duplicate_booking"},
	{domain.ErrDuplicatePackage, http.StatusConflict, "duplicate_package"},
	{domain.ErrInsufficientPoolFunds, http.StatusConflict, "insufficient_pool_funds"},
	{domain.ErrBookingNotConfirmed, http.StatusConflict, "booking_not_confirmed"},
	{domain.ErrBalanceOverflow, http.StatusConflict, "balance_overflow"},

	{domain.ErrInvalidPrice, http.StatusUnprocessableEntity, "invalid_price"},
	{domain.ErrInvalidDuration, http.StatusUnprocessableEntity, "invalid_duration"},
	{domain.ErrInvalidAmount, http.StatusUnprocessableEntity, "invalid_amount"},
	{domain.ErrInsufficientEligibilityScore, http.StatusUnprocessableEntity, "insufficient_eligibility_score"},
	{domain.ErrValidation, http.StatusUnprocessableEntity, "validation_error"},
}

// writeError maps err onto the error table and writes the JSON error body.
// Unmapped errors are logged and reported as a bare 500 so internals never leak.
func writeError(w http.ResponseWriter, r *http.Request, err error) {
	var tooLarge *http.MaxBytesError
	if errors.As(err, &tooLarge) {
		writeJSON(w, http.StatusRequestEntityTooLarge, errorBody("body_too_large", "request body too large"))
		return
	}
	for _, m := range errorTable {
		if errors.Is(err, m.err) {
			writeJSON(w, m.status, errorBody(m.code, unwrapMessage(err, m.err)))
			return
		}
	}
	slog.ErrorContext(r.Context(), "unhandled error", "path", r.URL.Path, "error", err)
	writeJSON(w, http.StatusInternalServerError, errorBody("internal_error", "internal server error"))
}

// requestError reports a request rejected before reaching the service layer
// (missing field, malformed JSON, bad path or query parameter).
func requestError(w http.ResponseWriter, message string) {
	writeJSON(w, http.StatusUnprocessableEntity, errorBody("validation_error", message))
}

func errorBody(code, message string) ErrorResponse {
	return ErrorResponse{Error: ErrorDetail{Code: code, Message: message}}
}

// unwrapMessage extracts the human-readable part of a wrapped sentinel error.
// e.g. "service.CatalogService.CreatePackage: validation error: destination is required"
// → "destination is required"; a bare sentinel yields its own text.
func unwrapMessage(err, sentinel error) string {
	msg := err.Error()
	prefix := sentinel.Error()
	i := strings.LastIndex(msg, prefix)
	if i < 0 {
		return msg
	}
	if rest := strings.TrimPrefix(msg[i+len(prefix):], ": "); rest != "" {
		return rest
	}
	return prefix
}
