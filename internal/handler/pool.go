package handler

import (
	"net/http"

	"github.com/pkordes/tripfund/backend/internal/domain"
)

// DepositRequest is the body of POST /pool/deposits.
type DepositRequest struct {
	Amount *int64 `json:"amount"`
}

// BalanceResponse reports the pool balance in minor units and as a decimal string.
type BalanceResponse struct {
	Balance        int64  `json:"balance"`
	BalanceDisplay string `json:"balance_display"`
}

func (s *Server) balanceToResponse(balance int64) BalanceResponse {
	return BalanceResponse{Balance: balance, BalanceDisplay: domain.FormatAmount(balance, s.decimals)}
}

// getPool handles GET /pool.
func (s *Server) getPool(w http.ResponseWriter, r *http.Request) {
	balance, err := s.svc.Pool.Balance(r.Context())
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, s.balanceToResponse(balance))
}

// deposit handles POST /pool/deposits. Admin only.
func (s *Server) deposit(w http.ResponseWriter, r *http.Request) {
	var req DepositRequest
	if !decodeBody(w, r, &req) {
		return
	}
	if req.Amount == nil {
		requestError(w, "amount is required")
		return
	}
	balance, err := s.svc.Pool.Deposit(r.Context(), caller(r), *req.Amount)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, s.balanceToResponse(balance))
}
