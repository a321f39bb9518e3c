// Package api implements the forum's backend calls on top of the shared request pipeline.
//
// Functions catch failures at their boundary: they raise a notification and then either return a success:false
// response or the error itself, never both.
package api

import (
	"context"
	"net/url"

	"github.com/pscheid92/forumclient/internal/domain"
	"github.com/pscheid92/forumclient/internal/notify"
	"github.com/pscheid92/forumclient/internal/transport"
)

// Requester sends requests through the pipeline.
type Requester interface {
	Get(ctx context.Context, path string, query url.Values, out any) error
	Post(ctx context.Context, path string, query url.Values, body, out any) error
	PostMultipart(ctx context.Context, path string, query url.Values, file transport.FilePart, out any) error
}

// SessionStore is the session surface the API layer mutates.
type SessionStore interface {
	SetUser(ctx context.Context, u domain.User)
	ClearUser(ctx context.Context)
	BeginLoading() func()
	User() *domain.User
}

// Notifier shows a toast to the user.
type Notifier interface {
	Notify(level notify.Level, message string) notify.Toast
}

var (
	_ Requester = (*transport.Client)(nil)
	_ Notifier  = (*notify.Toaster)(nil)
)
