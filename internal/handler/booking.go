package handler

import (
	"net/http"
	"time"

	"github.com/pkordes/tripfund/backend/internal/domain"
)

// CreateBookingRequest is the body of POST /bookings. The buyer is the
// authenticated caller.
type CreateBookingRequest struct {
	PackageID        *uint32 `json:"package_id"`
	EligibilityScore *uint32 `json:"eligibility_score"`
}

// BookingResponse is the JSON view of domain.Booking.
type BookingResponse struct {
	ID               uint32    `json:"id"`
	Buyer            string    `json:"buyer"`
	PackageID        uint32    `json:"package_id"`
	Destination      string    `json:"destination"`
	AmountDisbursed  int64     `json:"amount_disbursed"`
	AmountDisplay    string    `json:"amount_display"`
	EligibilityScore uint32    `json:"eligibility_score"`
	BookingDate      time.Time `json:"booking_date"`
	DepartureDate    time.Time `json:"departure_date"`
	Status           string    `json:"status"`
}

// BookingListResponse wraps a buyer's bookings.
type BookingListResponse struct {
	Data []BookingResponse `json:"data"`
}

func (s *Server) bookingToResponse(b domain.Booking) BookingResponse {
	return BookingResponse{
		ID:               b.ID,
		Buyer:            b.Buyer.String(),
		PackageID:        b.PackageID,
		Destination:      b.Destination,
		AmountDisbursed:  b.AmountDisbursed,
		AmountDisplay:    domain.FormatAmount(b.AmountDisbursed, s.decimals),
		EligibilityScore: b.EligibilityScore,
		BookingDate:      b.BookingDate,
		DepartureDate:    b.DepartureDate,
		Status:           string(b.Status),
	}
}

// createBooking handles POST /bookings.
func (s *Server) createBooking(w http.ResponseWriter, r *http.Request) {
	var req CreateBookingRequest
	if !decodeBody(w, r, &req) {
		return
	}
	if req.PackageID == nil {
		requestError(w, "package_id is required")
		return
	}
	if req.EligibilityScore == nil {
		requestError(w, "eligibility_score is required")
		return
	}
	b, err := s.svc.Bookings.Book(r.Context(), caller(r), *req.PackageID, *req.EligibilityScore)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, s.bookingToResponse(b))
}

// cancelBooking handles POST /bookings/{id}/cancel for the caller's own booking
// and responds with the pool balance after the refund.
func (s *Server) cancelBooking(w http.ResponseWriter, r *http.Request) {
	var id uint32
	if !pathParam(w, r, "id", &id) {
		return
	}
	balance, err := s.svc.Bookings.Cancel(r.Context(), caller(r), id)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, s.balanceToResponse(balance))
}
