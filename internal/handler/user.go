package handler

import (
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/yourorg/homerental/internal/domain"
	"github.com/yourorg/homerental/internal/service"
)

// UserRequest represents the create/update user payload
type UserRequest struct {
	Username string `json:"username"`
	Age      int    `json:"age"`
	Password string `json:"password"`
}

// UserResponse represents a user without credential material
type UserResponse struct {
	ID       int      `json:"id"`
	Username string   `json:"username"`
	Age      int      `json:"age"`
	Roles    []string `json:"roles"`
}

func toUserResponse(u *domain.User) UserResponse {
	return UserResponse{ID: u.ID, Username: u.Username, Age: u.Age, Roles: u.Roles}
}

// UserHandler handles user CRUD requests
type UserHandler struct {
	users  *service.UserService
	logger *slog.Logger
}

// NewUserHandler creates a new user handler
func NewUserHandler(users *service.UserService, logger *slog.Logger) *UserHandler {
	return &UserHandler{users: users, logger: logger}
}

// Create handles POST /api/users
func (h *UserHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req UserRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.logger.Error("failed to decode request", slog.String("error", err.Error()))
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid request"})
		return
	}

	user, err := h.users.Create(r.Context(), service.CreateUserInput{
		Username: req.Username,
		Age:      req.Age,
		Password: req.Password,
	})
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, toUserResponse(user))
}

// Get handles GET /api/users/{id}
func (h *UserHandler) Get(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid id"})
		return
	}
	user, err := h.users.GetByID(r.Context(), id)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, toUserResponse(user))
}

// List handles GET /api/users
func (h *UserHandler) List(w http.ResponseWriter, r *http.Request) {
	users, err := h.users.List(r.Context())
	if err != nil {
		writeError(w, err)
		return
	}
	out := make([]UserResponse, 0, len(users))
	for _, u := range users {
		out = append(out, toUserResponse(u))
	}
	writeJSON(w, http.StatusOK, out)
}

// Update handles PUT /api/users/{id}
func (h *UserHandler) Update(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid id"})
		return
	}
	var req UserRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid request"})
		return
	}

	user, err := h.users.Update(r.Context(), id, service.UpdateUserInput{
		Username: req.Username,
		Age:      req.Age,
		Password: req.Password,
	})
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, toUserResponse(user))
}

// Delete handles DELETE /api/users/{id}. Deleting an unknown user is
// treated as success so the call is idempotent.
func (h *UserHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid id"})
		return
	}
	if err := h.users.Delete(r.Context(), id); err != nil && !domain.IsNotFound(err) {
		writeError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// Rentals handles GET /api/users/{id}/rentals
func (h *UserHandler) Rentals(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid id"})
		return
	}
	rentals, err := h.users.RentalsByUserID(r.Context(), id)
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
