package handler

import (
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/yourorg/homerental/internal/domain"
	"github.com/yourorg/homerental/internal/service"
)

// TenantRequest represents the create tenant payload
type TenantRequest struct {
	Name   string `json:"name"`
	Phone  int    `json:"phone"`
	Job    string `json:"job"`
	UserID int    `json:"userId"`
}

// TenantResponse represents a stored tenant
type TenantResponse struct {
	ID     int    `json:"id"`
	Name   string `json:"name"`
	Phone  int    `json:"phone"`
	Job    string `json:"job"`
	UserID int    `json:"userId"`
}

func toTenantResponse(t *domain.Tenant) TenantResponse {
	return TenantResponse{ID: t.ID, Name: t.Name, Phone: t.Phone, Job: t.Job, UserID: t.UserID}
}

// TenantHandler handles tenant requests
type TenantHandler struct {
	tenants *service.TenantService
	logger  *slog.Logger
}

// NewTenantHandler creates a new tenant handler
func NewTenantHandler(tenants *service.TenantService, logger *slog.Logger) *TenantHandler {
	return &TenantHandler{tenants: tenants, logger: logger}
}

// Create handles POST /api/tenants
func (h *TenantHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req TenantRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.logger.Error("failed to decode request", slog.String("error", err.Error()))
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid request"})
		return
	}

	tenant, err := h.tenants.Create(r.Context(), service.TenantInput{
		Name:   req.Name,
		Phone:  req.Phone,
		Job:    req.Job,
		UserID: req.UserID,
	})
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, toTenantResponse(tenant))
}

// Get handles GET /api/tenants/{id}
func (h *TenantHandler) Get(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid id"})
		return
	}
	tenant, err := h.tenants.GetByID(r.Context(), id)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, toTenantResponse(tenant))
}

// List handles GET /api/tenants
func (h *TenantHandler) List(w http.ResponseWriter, r *http.Request) {
	tenants, err := h.tenants.List(r.Context())
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
