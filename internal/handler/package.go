package handler

import (
	"net/http"
	"time"

	"github.com/pkordes/tripfund/backend/internal/domain"
)

// CreatePackageRequest is the body of POST /packages.
// Pointer fields distinguish "absent" from an explicit zero, which the
// service must see to report InvalidPrice or InvalidDuration.
type CreatePackageRequest struct {
	ID                  *uint32 `json:"id"`
	Destination         string  `json:"destination"`
	Price               *int64  `json:"price"`
	DurationDays        *uint32 `json:"duration_days"`
	MaxOccupants        *uint32 `json:"max_occupants"`
	MinEligibilityScore *uint32 `json:"min_eligibility_score"`
}

// SetActiveRequest is the body of PUT /packages/{id}/active.
type SetActiveRequest struct {
	Active *bool `json:"active"`
}

// PackageResponse is the JSON view of domain.Package.
type PackageResponse struct {
	ID                  uint32    `json:"id"`
	Destination         string    `json:"destination"`
	Price               int64     `json:"price"`
	PriceDisplay        string    `json:"price_display"`
	DurationDays        uint32    `json:"duration_days"`
	MaxOccupants        uint32    `json:"max_occupants"`
	EnrolledCount       uint32    `json:"enrolled_count"`
	MinEligibilityScore uint32    `json:"min_eligibility_score"`
	Active              bool      `json:"active"`
	CreatedAt           time.Time `json:"created_at"`
}

// PackageListResponse wraps the catalog listing.
type PackageListResponse struct {
	Data []PackageResponse `json:"data"`
}

func (s *Server) packageToResponse(p domain.Package) PackageResponse {
	return PackageResponse{
		ID:                  p.ID,
		Destination:         p.Destination,
		Price:               p.Price,
		PriceDisplay:        domain.FormatAmount(p.Price, s.decimals),
		DurationDays:        p.DurationDays,
		MaxOccupants:        p.MaxOccupants,
		EnrolledCount:       p.EnrolledCount,
		MinEligibilityScore: p.MinEligibilityScore,
		Active:              p.Active,
		CreatedAt:           p.CreatedAt,
	}
}

// createPackage handles POST /packages. Admin only.
func (s *Server) createPackage(w http.ResponseWriter, r *http.Request) {
	var req CreatePackageRequest
	if !decodeBody(w, r, &req) {
		return
	}
	switch {
	case req.ID == nil:
		requestError(w, "id is required")
		return
	case req.Price == nil:
		requestError(w, "price is required")
		return
	case req.DurationDays == nil:
		requestError(w, "duration_days is required")
		return
	case req.MaxOccupants == nil:
		requestError(w, "max_occupants is required")
		return
	case req.MinEligibilityScore == nil:
		requestError(w, "min_eligibility_score is required")
		return
	}

	pkg, err := s.svc.Catalog.CreatePackage(r.Context(), caller(r), domain.Package{
		ID:                  *req.ID,
		Destination:         req.Destination,
		Price:               *req.Price,
		DurationDays:        *req.DurationDays,
		MaxOccupants:        *req.MaxOccupants,
		MinEligibilityScore: *req.MinEligibilityScore,
	})
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, s.packageToResponse(pkg))
}

// setPackageActive handles PUT /packages/{id}/active. Admin only.
func (s *Server) setPackageActive(w http.ResponseWriter, r *http.Request) {
	var id uint32
	if !pathParam(w, r, "id", &id) {
		return
	}
	var req SetActiveRequest
	if !decodeBody(w, r, &req) {
		return
	}
	if req.Active == nil {
		requestError(w, "active is required")
		return
	}
	pkg, err := s.svc.Catalog.SetActive(r.Context(), caller(r), id, *req.Active)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, s.packageToResponse(pkg))
}

// listPackages handles GET /packages in insertion order.
func (s *Server) listPackages(w http.ResponseWriter, r *http.Request) {
	pkgs, err := s.svc.Catalog.List(r.Context())
	if err != nil {
		writeError(w, r, err)
		return
	}
	data := make([]PackageResponse, 0, len(pkgs))
	for _, p := range pkgs {
		data = append(data, s.packageToResponse(p))
	}
	writeJSON(w, http.StatusOK, PackageListResponse{Data: data})
}
