package handler

import (
	"net/http"
	"time"

	"github.com/pkordes/tripfund/backend/internal/domain"
)

// InitializeRequest is the body of POST /initialize.
type InitializeRequest struct {
	Admin       string `json:"admin"`
	CurrencyRef string `json:"currency_ref"`
	PoolRef     string `json:"pool_ref,omitempty"`
}

// ConfigResponse is the JSON view of domain.FundConfig.
type ConfigResponse struct {
	Admin       string    `json:"admin"`
	CurrencyRef string    `json:"currency_ref"`
	PoolRef     string    `json:"pool_ref,omitempty"`
	CreatedAt   time.Time `json:"created_at"`
}

func configToResponse(c domain.FundConfig) ConfigResponse {
	return ConfigResponse{
		Admin:       c.Admin.String(),
		CurrencyRef: c.CurrencyRef.String(),
		PoolRef:     c.PoolRef.String(),
		CreatedAt:   c.CreatedAt,
	}
}

// initialize handles POST /initialize.
// The bearer token must prove the identity named in the admin field.
func (s *Server) initialize(w http.ResponseWriter, r *http.Request) {
	var req InitializeRequest
	if !decodeBody(w, r, &req) {
		return
	}
	if req.Admin == "" {
		requestError(w, "admin is required")
		return
	}
	cfg, err := s.svc.Config.Initialize(r.Context(),
		domain.Identity(req.Admin), domain.Identity(req.CurrencyRef), domain.Identity(req.PoolRef))
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, configToResponse(cfg))
}

// getConfig handles GET /config.
func (s *Server) getConfig(w http.ResponseWriter, r *http.Request) {
	cfg, err := s.svc.Config.Get(r.Context())
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, configToResponse(cfg))
}
