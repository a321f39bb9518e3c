package api

import (
	"context"
	"log/slog"
	"net/url"

	"golang.org/x/sync/singleflight"

	"github.com/pscheid92/forumclient/internal/domain"
	"github.com/pscheid92/forumclient/internal/notify"
	apperrors "github.com/pscheid92/forumclient/internal/platform/errors"
)

const (
	msgNoPosts = "no posts available yet"

	recentKey = "recent"
)

// Posts reads the public feed.
type Posts struct {
	client   Requester
	notifier Notifier

	// inflight collapses concurrent fetches of the feed into one request.
	inflight singleflight.Group
}

func NewPosts(client Requester, notifier Notifier) *Posts {
	return &Posts{client: client, notifier: notifier}
}

// GetRecentPosts fetches the newest posts. It never fails: a transport failure comes back as a success:false
// response carrying the error message, together with a warning toast.
// Callers that arrive while a fetch is in flight share its result, including the context of the first caller.
func (p *Posts) GetRecentPosts(ctx context.Context) domain.PostsResponse {
	v, err, shared := p.inflight.Do(recentKey, func() (any, error) {
		var resp domain.PostsResponse
		err := p.client.Get(ctx, "/posts", url.Values{"sort": {"recent"}}, &resp)
		return resp, err
	})
	if err != nil {
		slog.DebugContext(ctx, "Fetching recent posts failed", "error", err, "shared", shared)
		p.notifier.Notify(notify.LevelWarning, msgNoPosts)
		return domain.Failed[domain.PostsPage](apperrors.AsStructuredError(err).Message)
	}
	return v.(domain.PostsResponse)
}
