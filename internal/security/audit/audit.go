// Package audit records who changed what through the API.
package audit

import (
	"context"
	"log/slog"
)

// Logger emits structured audit records for entity mutations and
// access decisions.
type Logger struct {
	log *slog.Logger
}

func NewLogger(log *slog.Logger) *Logger {
	return &Logger{log: log}
}

// LogAction records a mutation attempt against a resource. Empty
// resourceID and details are omitted from the record.
func (a *Logger) LogAction(ctx context.Context, username, action, resource, resourceID, status, details string) {
	attrs := []slog.Attr{
		slog.String("action", action),
		slog.String("resource", resource),
		slog.String("username", username),
		slog.String("status", status),
	}
	if resourceID != "" {
		attrs = append(attrs, slog.String("resource_id", resourceID))
	}
	if details != "" {
		attrs = append(attrs, slog.String("details", details))
	}
	a.log.LogAttrs(ctx, slog.LevelInfo, "audit", attrs...)
}

// LogLogin records a login attempt and its outcome.
func (a *Logger) LogLogin(ctx context.Context, username, status string) {
	a.LogAction(ctx, username, "login", "session", "", status, "")
}

// LogDenied records a rejected access attempt with the reason.
func (a *Logger) LogDenied(ctx context.Context, username, reason string) {
	a.LogAction(ctx, username, "access_denied", "api", "", "denied", reason)
}
