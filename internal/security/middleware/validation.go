package middleware

import (
	"log/slog"
	"mime"
	"net/http"
)

// ValidateJSONContentType rejects mutating requests whose body is not
// declared as JSON before any handler tries to decode it.
func ValidateJSONContentType(log *slog.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if requiresJSONBody(r) {
				mediaType, _, err := mime.ParseMediaType(r.Header.Get("Content-Type"))
				if err != nil || mediaType != "application/json" {
					log.Warn("rejected non-json body",
						slog.String("method", r.Method),
						slog.String("path", r.URL.Path),
						slog.String("content_type", r.Header.Get("Content-Type")),
					)
					http.Error(w, "Content-Type must be application/json", http.StatusUnsupportedMediaType)
					return
				}
			}
			next.ServeHTTP(w, r)
		})
	}
}

// requiresJSONBody holds for POST/PUT requests that actually carry a
// body; bodyless requests pass through so a DELETE-like POST with no
// payload is not rejected.
func requiresJSONBody(r *http.Request) bool {
	if r.Method != http.MethodPost && r.Method != http.MethodPut {
		return false
	}
	return r.ContentLength != 0
}
