package handler_test

import (
	"context"
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pkordes/tripfund/backend/internal/domain"
	"github.com/pkordes/tripfund/backend/internal/handler"
)

func TestCreateBooking_Success_Returns201(t *testing.T) {
	var gotBuyer domain.Identity
	var gotPkg, gotScore uint32
	svc := &mockBookingServicer{
		book: func(_ context.Context, buyer domain.Identity, packageID, score uint32) (domain.Booking, error) {
			gotBuyer, gotPkg, gotScore = buyer, packageID, score
			return bookingFixture(), nil
		},
	}
	h := newHTTPHandler(handler.Services{Bookings: svc})

	rec := do(t, h, http.MethodPost, "/bookings",
		jsonBody(t, map[string]uint32{"package_id": 1, "eligibility_score": 750}), buyerID)

	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	assert.Equal(t, buyerID, gotBuyer)
	assert.Equal(t, uint32(1), gotPkg)
	assert.Equal(t, uint32(750), gotScore)

	body := decode[handler.BookingResponse](t, rec)
	assert.Equal(t, "CONFIRMED", body.Status)
	assert.Equal(t, "500.0000000", body.AmountDisplay)
	assert.True(t, body.DepartureDate.Equal(body.BookingDate.AddDate(0, 0, 7)))
}

func TestCreateBooking_MissingScore_Returns422(t *testing.T) {
	h := newHTTPHandler(handler.Services{Bookings: &mockBookingServicer{}})

	rec := do(t, h, http.MethodPost, "/bookings", jsonBody(t, map[string]uint32{"package_id": 1}), buyerID)

	body := requireErrorCode(t, rec, http.StatusUnprocessableEntity, "validation_error")
	assert.Equal(t, "eligibility_score is required", body.Error.Message)
}

func TestCreateBooking_NoToken_Returns401(t *testing.T) {
	h := newHTTPHandler(handler.Services{Bookings: &mockBookingServicer{}})

	rec := do(t, h, http.MethodPost, "/bookings",
		jsonBody(t, map[string]uint32{"package_id": 1, "eligibility_score": 750}), "")

	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestCreateBooking_RuleFailures_MapToStatus(t *testing.T) {
	cases := []struct {
		err    error
		status int
		code   string
	}{
		{domain.ErrNoPackagesAvailable, http.StatusNotFound, "no_packages_available"},
		{domain.ErrPackageNotFound, http.StatusNotFound, "package_not_found"},
		{domain.ErrPackageNotActive, http.StatusConflict, "package_not_active"},
		{domain.ErrInsufficientEligibilityScore, http.StatusUnprocessableEntity, "insufficient_eligibility_score"},
		{domain.ErrPackageFull, http.StatusConflict, "package_full"},
		{domain.ErrDuplicateBooking, http.StatusConflict, "duplicate_booking"},
		{domain.ErrInsufficientPoolFunds, http.StatusConflict, "insufficient_pool_funds"},
		{domain.ErrNotInitialized, http.StatusConflict, "not_initialized"},
	}
	for _, tc := range cases {
		t.Run(tc.code, func(t *testing.T) {
			svc := &mockBookingServicer{
				book: func(context.Context, domain.Identity, uint32, uint32) (domain.Booking, error) {
					return domain.Booking{}, fmt.Errorf("service.BookingService.Book: %w", tc.err)
				},
			}
			h := newHTTPHandler(handler.Services{Bookings: svc})

			rec := do(t, h, http.MethodPost, "/bookings",
				jsonBody(t, map[string]uint32{"package_id": 1, "eligibility_score": 750}), buyerID)

			body := requireErrorCode(t, rec, tc.status, tc.code)
			assert.Equal(t, tc.err.Error(), body.Error.Message)
		})
	}
}

func TestCancelBooking_Success_ReturnsPoolBalance(t *testing.T) {
	var gotBuyer domain.Identity
	var gotID uint32
	svc := &mockBookingServicer{
		cancel: func(_ context.Context, buyer domain.Identity, id uint32) (int64, error) {
			gotBuyer, gotID = buyer, id
			return 10_000_000_000, nil
		},
	}
	h := newHTTPHandler(handler.Services{Bookings: svc})

	rec := do(t, h, http.MethodPost, "/bookings/7/cancel", nil, buyerID)

	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	assert.Equal(t, buyerID, gotBuyer)
	assert.Equal(t, uint32(7), gotID)
	assert.Equal(t, int64(10_000_000_000), decode[handler.BalanceResponse](t, rec).Balance)
}

func TestCancelBooking_BadID_Returns422(t *testing.T) {
	h := newHTTPHandler(handler.Services{Bookings: &mockBookingServicer{}})

	rec := do(t, h, http.MethodPost, "/bookings/abc/cancel", nil, buyerID)

	requireErrorCode(t, rec, http.StatusUnprocessableEntity, "validation_error")
}

func TestCancelBooking_Failures_MapToStatus(t *testing.T) {
	cases := []struct {
		err    error
		status int
		code   string
	}{
		{domain.ErrNoBookingsFound, http.StatusNotFound, "no_bookings_found"},
		{domain.ErrBookingNotFound, http.StatusNotFound, "booking_not_found"},
		{domain.ErrBookingNotConfirmed, http.StatusConflict, "booking_not_confirmed"},
	}
	for _, tc := range cases {
		t.Run(tc.code, func(t *testing.T) {
			svc := &mockBookingServicer{
				cancel: func(context.Context, domain.Identity, uint32) (int64, error) {
					return 0, fmt.Errorf("service.BookingService.Cancel: %w", tc.err)
				},
			}
			h := newHTTPHandler(handler.Services{Bookings: svc})

			rec := do(t, h, http.MethodPost, "/bookings/1/cancel", nil, buyerID)

			requireErrorCode(t, rec, tc.status, tc.code)
		})
	}
}
