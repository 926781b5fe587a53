package handler

import (
	"encoding/json"
	"log/slog"
	"net/http"
	"time"

	"github.com/yourorg/homerental/internal/security/auth"
	"github.com/yourorg/homerental/internal/service"
)

// LoginRequest represents login credentials
type LoginRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

// LoginResponse contains the JWT token
type LoginResponse struct {
	Token     string    `json:"token"`
	ExpiresAt time.Time `json:"expiresAt"`
	UserID    int       `json:"userId"`
	Username  string    `json:"username"`
}

// LoginHandler handles user authentication
type LoginHandler struct {
	tokenManager *auth.TokenManager
	users        *service.UserService
	logger       *slog.Logger
}

// NewLoginHandler creates a new login handler
func NewLoginHandler(tm *auth.TokenManager, users *service.UserService, logger *slog.Logger) *LoginHandler {
	return &LoginHandler{tokenManager: tm, users: users, logger: logger}
}

// ServeHTTP handles POST /api/login requests
func (h *LoginHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	var req LoginRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.logger.Error("failed to decode login request", slog.String("error", err.Error()))
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid request"})
		return
	}

	if req.Username == "" || req.Password == "" {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "username and password required"})
		return
	}

	user, err := h.users.Verify(r.Context(), req.Username, req.Password)
	if err != nil {
		h.logger.Warn("authentication failed", slog.String("username", req.Username))
		// Generic error to prevent user enumeration
		writeJSON(w, http.StatusUnauthorized, map[string]string{"error": "invalid credentials"})
		return
	}

	expiresIn := 24 * time.Hour
	token, err := h.tokenManager.GenerateToken(user.ID, user.Username, user.Roles, expiresIn)
	if err != nil {
		h.logger.Error("failed to generate token",
			slog.Int("user_id", user.ID),
			slog.String("error", err.Error()),
		)
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "token generation failed"})
		return
	}

	h.logger.Info("user logged in",
		slog.Int("user_id", user.ID),
		slog.String("username", user.Username),
	)

	writeJSON(w, http.StatusOK, LoginResponse{
		Token:     token,
		ExpiresAt: time.Now().Add(expiresIn),
		UserID:    user.ID,
		Username:  user.Username,
	})
}
