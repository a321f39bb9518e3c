package transport

import (
	"context"
	"log/slog"

	"github.com/pscheid92/forumclient/internal/navigate"
	apperrors "github.com/pscheid92/forumclient/internal/platform/errors"
)

// LoginPath is the client-side entry point users are sent to when their session is rejected.
const LoginPath = navigate.LoginPath

// SessionClearer is the part of the session store the pipeline may touch.
type SessionClearer interface {
	ClearUser(ctx context.Context)
}

// Navigator moves the client to another location.
type Navigator interface {
	Redirect(path string)
}

// DefaultRules is the standard table. An unauthorized response ends the session and redirects to the login page.
// Every other kind is only logged, once.
func DefaultRules(sessions SessionClearer, nav Navigator) []Rule {
	return []Rule{
		{
			Name:  "unauthorized",
			Match: MatchType(apperrors.TypeUnauthorized),
			Handle: func(ctx context.Context, err *apperrors.Error) {
				slog.WarnContext(ctx, "Session rejected by server, logging out", errorAttrs(err)...)
				sessions.ClearUser(ctx)
				nav.Redirect(LoginPath)
			},
		},
		{
			Name:  "forbidden",
			Match: MatchType(apperrors.TypeForbidden),
			Handle: func(ctx context.Context, err *apperrors.Error) {
				slog.WarnContext(ctx, "Access forbidden", errorAttrs(err)...)
			},
		},
		{
			Name:  "not_found",
			Match: MatchType(apperrors.TypeNotFound),
			Handle: func(ctx context.Context, err *apperrors.Error) {
				slog.WarnContext(ctx, "Requested resource does not exist", errorAttrs(err)...)
			},
		},
		{
			Name:  "server_error",
			Match: MatchType(apperrors.TypeServer),
			Handle: func(ctx context.Context, err *apperrors.Error) {
				slog.ErrorContext(ctx, "Server error", errorAttrs(err)...)
			},
		},
		{
			Name:  "generic_failure",
			Match: MatchType(apperrors.TypeHTTP),
			Handle: func(ctx context.Context, err *apperrors.Error) {
				slog.WarnContext(ctx, "Request failed", errorAttrs(err)...)
			},
		},
		{
			Name:  "network",
			Match: MatchType(apperrors.TypeNetwork),
			Handle: func(ctx context.Context, err *apperrors.Error) {
				slog.ErrorContext(ctx, "No response from server", errorAttrs(err)...)
			},
		},
		{
			Name:  "configuration",
			Match: MatchType(apperrors.TypeConfiguration),
			Handle: func(ctx context.Context, err *apperrors.Error) {
				slog.ErrorContext(ctx, "Request could not be sent", errorAttrs(err)...)
			},
		},
	}
}

func errorAttrs(err *apperrors.Error) []any {
	attrs := []any{
		"kind", err.Type,
		"status", err.Status,
		"message", err.Message,
	}
	if err.Cause != nil {
		attrs = append(attrs, "error", err.Cause.Error())
	}
	for k, v := range err.Context {
		attrs = append(attrs, k, v)
	}
	return attrs
}
