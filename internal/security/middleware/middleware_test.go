package middleware

import (
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/yourorg/homerental/internal/security/auth"
	"github.com/yourorg/homerental/internal/security/ratelimit"
)

func discard() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func okHandler() http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	})
}

func TestJWTMiddlewareRejectsMissingToken(t *testing.T) {
	tm := auth.NewTokenManager("test-secret", "test")
	h := JWTMiddleware(tm, discard())(okHandler())

	req := httptest.NewRequest(http.MethodDelete, "/api/rentals/1", nil)
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("status %d, want 401", rec.Code)
	}
}

func TestJWTMiddlewareAllowsValidToken(t *testing.T) {
	tm := auth.NewTokenManager("test-secret", "test")
	token, err := tm.GenerateToken(1, "alice", []string{RoleUser}, time.Minute)
	if err != nil {
		t.Fatalf("generate token: %v", err)
	}

	var claims *auth.Claims
	h := JWTMiddleware(tm, discard())(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		claims = GetClaimsFromContext(r.Context())
		w.WriteHeader(http.StatusOK)
	}))

	req := httptest.NewRequest(http.MethodDelete, "/api/rentals/1", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	if rec.Code != http.StatusOK {
		t.Fatalf("status %d, want 200", rec.Code)
	}
	if claims == nil || claims.Username != "alice" {
		t.Fatalf("claims not propagated: %+v", claims)
	}
}

func TestJWTMiddlewareSkipsPublicRoutes(t *testing.T) {
	tm := auth.NewTokenManager("test-secret", "test")
	h := JWTMiddleware(tm, discard())(okHandler())

	for _, tc := range []struct {
		method, path string
	}{
		{http.MethodGet, "/healthz"},
		{http.MethodGet, "/api/houses"},
		{http.MethodPost, "/api/login"},
		{http.MethodPost, "/api/users"},
	} {
		req := httptest.NewRequest(tc.method, tc.path, nil)
		rec := httptest.NewRecorder()
		h.ServeHTTP(rec, req)
		if rec.Code != http.StatusOK {
			t.Errorf("%s %s: status %d, want 200", tc.method, tc.path, rec.Code)
		}
	}
}

func TestJWTMiddlewareBlocksForeignUserDelete(t *testing.T) {
	tm := auth.NewTokenManager("test-secret", "test")
	token, err := tm.GenerateToken(2, "bob", []string{RoleUser}, time.Minute)
	if err != nil {
		t.Fatalf("generate token: %v", err)
	}
	h := JWTMiddleware(tm, discard())(okHandler())

	req := httptest.NewRequest(http.MethodDelete, "/api/users/1", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	if rec.Code != http.StatusForbidden {
		t.Fatalf("status %d, want 403", rec.Code)
	}
}

func TestJWTMiddlewareAdminMayDeleteAnyUser(t *testing.T) {
	tm := auth.NewTokenManager("test-secret", "test")
	token, err := tm.GenerateToken(2, "root", []string{RoleAdmin}, time.Minute)
	if err != nil {
		t.Fatalf("generate token: %v", err)
	}
	h := JWTMiddleware(tm, discard())(okHandler())

	req := httptest.NewRequest(http.MethodDelete, "/api/users/1", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	if rec.Code != http.StatusOK {
		t.Fatalf("status %d, want 200", rec.Code)
	}
}

func TestRateLimitMiddleware(t *testing.T) {
	limiter := ratelimit.NewMemoryLimiter(2, time.Minute)
	defer limiter.Stop()
	h := RateLimitMiddleware(limiter, discard())(okHandler())

	for i := 0; i < 2; i++ {
		req := httptest.NewRequest(http.MethodGet, "/api/houses", nil)
		req.RemoteAddr = "10.0.0.1:1234"
		rec := httptest.NewRecorder()
		h.ServeHTTP(rec, req)
		if rec.Code != http.StatusOK {
			t.Fatalf("request %d: status %d, want 200", i+1, rec.Code)
		}
	}

	req := httptest.NewRequest(http.MethodGet, "/api/houses", nil)
	req.RemoteAddr = "10.0.0.1:1234"
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	if rec.Code != http.StatusTooManyRequests {
		t.Fatalf("status %d, want 429", rec.Code)
	}

	// health probes bypass the limiter
	req = httptest.NewRequest(http.MethodGet, "/healthz", nil)
	req.RemoteAddr = "10.0.0.1:1234"
	rec = httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	if rec.Code != http.StatusOK {
		t.Fatalf("healthz status %d, want 200", rec.Code)
	}
}

func TestValidateJSONContentType(t *testing.T) {
	h := ValidateJSONContentType(discard())(okHandler())

	req := httptest.NewRequest(http.MethodPost, "/api/users", nil)
	req.Header.Set("Content-Type", "text/plain")
	req.ContentLength = 10
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	if rec.Code != http.StatusUnsupportedMediaType {
		t.Fatalf("status %d, want 415", rec.Code)
	}

	req = httptest.NewRequest(http.MethodGet, "/api/users", nil)
	rec = httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	if rec.Code != http.StatusOK {
		t.Fatalf("GET status %d, want 200", rec.Code)
	}
}
