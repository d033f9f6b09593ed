package handler

import (
	"net/http"
	"time"

	"github.com/pkordes/tripfund/backend/internal/domain"
)

// TransactionResponse is the JSON view of domain.TransactionRecord.
type TransactionResponse struct {
	ID            uint32    `json:"id"`
	Buyer         string    `json:"buyer"`
	PackageID     uint32    `json:"package_id"`
	Amount        int64     `json:"amount"`
	AmountDisplay string    `json:"amount_display"`
	Timestamp     time.Time `json:"timestamp"`
	Status        string    `json:"status"`
}

// TransactionListResponse wraps a buyer's audit trail.
type TransactionListResponse struct {
	Data []TransactionResponse `json:"data"`
}

// EligibilityResponse is the body of GET /buyers/{buyer}/eligibility.
type EligibilityResponse struct {
	Eligible bool `json:"eligible"`
}

func (s *Server) buyerParam(w http.ResponseWriter, r *http.Request) (domain.Identity, bool) {
	var buyer string
	if !pathParam(w, r, "buyer", &buyer) {
		return "", false
	}
	return domain.Identity(buyer), true
}

// listBuyerBookings handles GET /buyers/{buyer}/bookings.
func (s *Server) listBuyerBookings(w http.ResponseWriter, r *http.Request) {
	buyer, ok := s.buyerParam(w, r)
	if !ok {
		return
	}
	bookings, err := s.svc.Bookings.ListByBuyer(r.Context(), buyer)
	if err != nil {
		writeError(w, r, err)
		return
	}
	data := make([]BookingResponse, 0, len(bookings))
	for _, b := range bookings {
		data = append(data, s.bookingToResponse(b))
	}
	writeJSON(w, http.StatusOK, BookingListResponse{Data: data})
}

// listBuyerHistory handles GET /buyers/{buyer}/history in append order.
func (s *Server) listBuyerHistory(w http.ResponseWriter, r *http.Request) {
	buyer, ok := s.buyerParam(w, r)
	if !ok {
		return
	}
	records, err := s.svc.Audit.History(r.Context(), buyer)
	if err != nil {
		writeError(w, r, err)
		return
	}
	data := make([]TransactionResponse, 0, len(records))
	for _, t := range records {
		data = append(data, TransactionResponse{
			ID:            t.ID,
			Buyer:         t.Buyer.String(),
			PackageID:     t.PackageID,
			Amount:        t.Amount,
			AmountDisplay: domain.FormatAmount(t.Amount, s.decimals),
			Timestamp:     t.Timestamp,
			Status:        string(t.Status),
		})
	}
	writeJSON(w, http.StatusOK, TransactionListResponse{Data: data})
}

// checkEligibility handles GET /buyers/{buyer}/eligibility?package_id=&eligibility_score=.
// It is a read-only preview of the booking admission rules.
func (s *Server) checkEligibility(w http.ResponseWriter, r *http.Request) {
	buyer, ok := s.buyerParam(w, r)
	if !ok {
		return
	}
	var packageID, score uint32
	if !queryParam(w, r, "package_id", &packageID) || !queryParam(w, r, "eligibility_score", &score) {
		return
	}
	eligible, err := s.svc.Bookings.CheckEligibility(r.Context(), buyer, packageID, score)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, EligibilityResponse{Eligible: eligible})
}
