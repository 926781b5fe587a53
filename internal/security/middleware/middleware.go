package middleware

import (
	"context"
	"net/http"
	"strconv"
	"strings"

	"log/slog"

	"github.com/yourorg/homerental/internal/security/audit"
	"github.com/yourorg/homerental/internal/security/auth"
	"github.com/yourorg/homerental/internal/security/ratelimit"
)

type ClaimsContextKey struct{}

// isPublic reports whether the request needs no token: health probes,
// metrics, registration, login and the event feed (which carries no
// mutating capability).
func isPublic(r *http.Request) bool {
	p := r.URL.Path
	if p == "/healthz" || p == "/readyz" || p == "/metrics" || p == "/api/login" {
		return true
	}
	if r.Method == http.MethodPost && p == "/api/users" {
		return true
	}
	if strings.HasPrefix(p, "/ws/events") {
		return true
	}
	return r.Method == http.MethodGet
}

// JWTMiddleware validates bearer tokens on protected routes and puts
// the claims on the request context.
func JWTMiddleware(tm *auth.TokenManager, log *slog.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if isPublic(r) {
				// Still attach claims when a token is present so
				// downstream logging can name the caller.
				if authHeader := r.Header.Get("Authorization"); authHeader != "" {
					if tokenString, err := auth.ExtractToken(authHeader); err == nil {
						if claims, err := tm.ValidateToken(tokenString); err == nil {
							r = r.WithContext(context.WithValue(r.Context(), ClaimsContextKey{}, claims))
						}
					}
				}
				next.ServeHTTP(w, r)
				return
			}

			authHeader := r.Header.Get("Authorization")
			if authHeader == "" {
				http.Error(w, `{"error":"missing auth"}`, http.StatusUnauthorized)
				return
			}

			tokenString, err := auth.ExtractToken(authHeader)
			if err != nil {
				http.Error(w, `{"error":"invalid auth"}`, http.StatusUnauthorized)
				return
			}

			claims, err := tm.ValidateToken(tokenString)
			if err != nil {
				http.Error(w, `{"error":"invalid token"}`, http.StatusUnauthorized)
				return
			}

			if r.Method == http.MethodDelete && strings.HasPrefix(r.URL.Path, "/api/users/") {
				targetID, _ := strconv.Atoi(strings.TrimPrefix(r.URL.Path, "/api/users/"))
				if !CanDeleteUser(claims, targetID) {
					log.Warn("user delete denied",
						slog.String("username", claims.Username),
						slog.Int("target_id", targetID),
					)
					http.Error(w, `{"error":"forbidden"}`, http.StatusForbidden)
					return
				}
			}

			ctx := context.WithValue(r.Context(), ClaimsContextKey{}, claims)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// RateLimitMiddleware limits request rates per caller. Authenticated
// callers are keyed by username, anonymous ones by remote address.
func RateLimitMiddleware(limiter ratelimit.Limiter, log *slog.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			p := r.URL.Path
			if p == "/healthz" || p == "/readyz" || p == "/metrics" {
				next.ServeHTTP(w, r)
				return
			}

			key := r.RemoteAddr
			if host, _, ok := strings.Cut(r.RemoteAddr, ":"); ok {
				key = host
			}
			if claims := GetClaimsFromContext(r.Context()); claims != nil {
				key = claims.Username
			}

			if !limiter.Allow(key) {
				log.Warn("rate limit exceeded", slog.String("key", key), slog.String("path", p))
				http.Error(w, `{"error":"rate limit exceeded"}`, http.StatusTooManyRequests)
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}

// AuditMiddleware records entity mutations with the acting principal.
func AuditMiddleware(auditLog *audit.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if r.Method == http.MethodPost || r.Method == http.MethodPut || r.Method == http.MethodDelete {
				username := ""
				if claims := GetClaimsFromContext(r.Context()); claims != nil {
					username = claims.Username
				}
				resource := strings.TrimPrefix(r.URL.Path, "/api/")
				if i := strings.IndexByte(resource, '/'); i >= 0 {
					resource = resource[:i]
				}
				auditLog.LogAction(r.Context(), username, strings.ToLower(r.Method), resource, r.PathValue("id"), "initiated", "")
			}
			next.ServeHTTP(w, r)
		})
	}
}

func GetClaimsFromContext(ctx context.Context) *auth.Claims {
	if c := ctx.Value(ClaimsContextKey{}); c != nil {
		return c.(*auth.Claims)
	}
	return nil
}
