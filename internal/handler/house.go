package handler

import (
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/yourorg/homerental/internal/domain"
	"github.com/yourorg/homerental/internal/service"
)

// HouseRequest represents the create house payload
type HouseRequest struct {
	Address       string `json:"address"`
	City          string `json:"city"`
	NumberOfRooms int    `json:"numberOfRooms"`
}

// HouseResponse represents a stored house
type HouseResponse struct {
	ID            int    `json:"id"`
	Address       string `json:"address"`
	City          string `json:"city"`
	NumberOfRooms int    `json:"numberOfRooms"`
}

func toHouseResponse(h *domain.House) HouseResponse {
	return HouseResponse{ID: h.ID, Address: h.Address, City: h.City, NumberOfRooms: h.NumberOfRooms}
}

// HouseHandler handles house requests
type HouseHandler struct {
	houses *service.HouseService
	logger *slog.Logger
}

// NewHouseHandler creates a new house handler
func NewHouseHandler(houses *service.HouseService, logger *slog.Logger) *HouseHandler {
	return &HouseHandler{houses: houses, logger: logger}
}

// Create handles POST /api/houses
func (h *HouseHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req HouseRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.logger.Error("failed to decode request", slog.String("error", err.Error()))
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid request"})
		return
	}

	house, err := h.houses.Create(r.Context(), service.HouseInput{
		Address:       req.Address,
		City:          req.City,
		NumberOfRooms: req.NumberOfRooms,
	})
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, toHouseResponse(house))
}

// Get handles GET /api/houses/{id}
func (h *HouseHandler) Get(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid id"})
		return
	}
	house, err := h.houses.GetByID(r.Context(), id)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, toHouseResponse(house))
}

// List handles GET /api/houses
func (h *HouseHandler) List(w http.ResponseWriter, r *http.Request) {
	houses, err := h.houses.List(r.Context())
	if err != nil {
		writeError(w, err)
		return
	}
	out := make([]HouseResponse, 0, len(houses))
	for _, hs := range houses {
		out = append(out, toHouseResponse(hs))
	}
	writeJSON(w, http.StatusOK, out)
}

// Tenants handles GET /api/houses/{id}/tenants
func (h *HouseHandler) Tenants(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid id"})
		return
	}
	tenants, err := h.houses.TenantsByHouseID(r.Context(), id)
	if err != nil {
		writeError(w, err)
		return
	}
	out := make([]TenantResponse, 0, len(tenants))
	for _, t := range tenants {
		out = append(out, toTenantResponse(t))
	}
	writeJSON(w, http.StatusOK, out)
}
