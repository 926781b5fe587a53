package handler

import (
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/yourorg/homerental/internal/domain"
	"github.com/yourorg/homerental/internal/service"
)

// RentalRequest represents the create/update rental payload. Dates use
// the dd/mm/yyyy layout.
type RentalRequest struct {
	StartDate     string `json:"startDate"`
	EndDate       string `json:"endDate"`
	PriceAnnual   int    `json:"priceAnnual"`
	Deposit       int    `json:"deposit"`
	ContactPerson string `json:"contactPerson"`
	HouseID       int    `json:"houseId"`
	TenantIDs     []int  `json:"tenantIds"`
}

// RentalResponse represents a stored rental
type RentalResponse struct {
	ID            int    `json:"id"`
	StartDate     string `json:"startDate"`
	EndDate       string `json:"endDate"`
	PriceAnnual   int    `json:"priceAnnual"`
	Deposit       int    `json:"deposit"`
	ContactPerson string `json:"contactPerson"`
	HouseID       int    `json:"houseId"`
	TenantIDs     []int  `json:"tenantIds"`
}

func toRentalResponse(r *domain.Rental) RentalResponse {
	ids := r.TenantIDs
	if ids == nil {
		ids = []int{}
	}
	return RentalResponse{
		ID:            r.ID,
		StartDate:     r.StartDate,
		EndDate:       r.EndDate,
		PriceAnnual:   r.PriceAnnual,
		Deposit:       r.Deposit,
		ContactPerson: r.ContactPerson,
		HouseID:       r.HouseID,
		TenantIDs:     ids,
	}
}

// RentalHandler handles rental CRUD requests
type RentalHandler struct {
	rentals *service.RentalService
	logger  *slog.Logger
}

// NewRentalHandler creates a new rental handler
func NewRentalHandler(rentals *service.RentalService, logger *slog.Logger) *RentalHandler {
	return &RentalHandler{rentals: rentals, logger: logger}
}

func rentalInput(req RentalRequest) service.RentalInput {
	return service.RentalInput{
		StartDate:     req.StartDate,
		EndDate:       req.EndDate,
		PriceAnnual:   req.PriceAnnual,
		Deposit:       req.Deposit,
		ContactPerson: req.ContactPerson,
		HouseID:       req.HouseID,
		TenantIDs:     req.TenantIDs,
	}
}

// Create handles POST /api/rentals
func (h *RentalHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req RentalRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.logger.Error("failed to decode request", slog.String("error", err.Error()))
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid request"})
		return
	}

	rental, err := h.rentals.Create(r.Context(), rentalInput(req))
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, toRentalResponse(rental))
}

// Get handles GET /api/rentals/{id}
func (h *RentalHandler) Get(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid id"})
		return
	}
	rental, err := h.rentals.GetByID(r.Context(), id)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, toRentalResponse(rental))
}

// List handles GET /api/rentals
func (h *RentalHandler) List(w http.ResponseWriter, r *http.Request) {
	rentals, err := h.rentals.List(r.Context())
	if err != nil {
		writeError(w, err)
		return
	}
	out := make([]RentalResponse, 0, len(rentals))
	for _, rt := range rentals {
		out = append(out, toRentalResponse(rt))
	}
	writeJSON(w, http.StatusOK, out)
}

// Update handles PUT /api/rentals/{id}
func (h *RentalHandler) Update(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid id"})
		return
	}
	var req RentalRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid request"})
		return
	}

	rental, err := h.rentals.Update(r.Context(), id, rentalInput(req))
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, toRentalResponse(rental))
}

// Delete handles DELETE /api/rentals/{id}. Deleting an unknown rental
// is treated as success so the call is idempotent.
func (h *RentalHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid id"})
		return
	}
	if err := h.rentals.Delete(r.Context(), id); err != nil && !domain.IsNotFound(err) {
		writeError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
