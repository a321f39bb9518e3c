package api

import (
	"context"
	"net/http"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pscheid92/forumclient/internal/domain"
	"github.com/pscheid92/forumclient/internal/notify"
	"github.com/pscheid92/forumclient/internal/session"
)

func TestGetRecentPosts_Success(t *testing.T) {
	env := newTestEnv(t)
	var query string
	env.mux.HandleFunc("GET /api/posts", func(w http.ResponseWriter, r *http.Request) {
		query = r.URL.RawQuery
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"success":true,"data":{"posts":[{"id":1,"title":"Welcome","votes":[{"voteType":"Upvote"}]}]}}`))
	})

	resp := env.posts.GetRecentPosts(context.Background())

	assert.Equal(t, "sort=recent", query)
	require.True(t, resp.Success)
	require.Len(t, resp.Data.Posts, 1)
	assert.Equal(t, 1, resp.Data.Posts[0].Upvotes())
	assert.Empty(t, env.toaster.Active())
}

func TestGetRecentPosts_ServerSaysNo(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	env.store.SetUser(ctx, domain.User{ID: "1", Username: "alice"})
	before := env.store.Snapshot()
	env.handle("GET /api/posts", http.StatusOK, `{"success":false,"error":"x"}`)

	var resp domain.PostsResponse
	assert.NotPanics(t, func() { resp = env.posts.GetRecentPosts(ctx) })

	assert.False(t, resp.Success)
	assert.Equal(t, "x", resp.Error)
	assert.Equal(t, before, env.store.Snapshot())
}

func TestGetRecentPosts_TransportFailureBecomesValue(t *testing.T) {
	env := newTestEnv(t)
	env.handle("GET /api/posts", http.StatusBadGateway, `{"error":"upstream down"}`)

	resp := env.posts.GetRecentPosts(context.Background())

	assert.False(t, resp.Success)
	assert.Equal(t, "upstream down", resp.Error)
	toast := env.lastToast(t)
	assert.Equal(t, notify.LevelWarning, toast.Level)
	assert.Equal(t, msgNoPosts, toast.Message)
	assert.Equal(t, session.State{}, env.store.Snapshot())
}

func TestGetRecentPosts_ConcurrentCallersShareOneRequest(t *testing.T) {
	env := newTestEnv(t)
	var calls atomic.Int32
	entered := make(chan struct{}, 1)
	release := make(chan struct{})
	env.mux.HandleFunc("GET /api/posts", func(w http.ResponseWriter, _ *http.Request) {
		calls.Add(1)
		select {
		case entered <- struct{}{}:
		default:
		}
		<-release
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"success":true,"data":{"posts":[{"id":1,"title":"Welcome"}]}}`))
	})

	const callers = 5
	results := make(chan domain.PostsResponse, callers)
	var wg sync.WaitGroup
	for range callers {
		wg.Add(1)
		go func() {
			defer wg.Done()
			results <- env.posts.GetRecentPosts(context.Background())
		}()
	}

	<-entered
	time.Sleep(50 * time.Millisecond)
	close(release)
	wg.Wait()
	close(results)

	for resp := range results {
		assert.True(t, resp.Success)
		assert.Len(t, resp.Data.Posts, 1)
	}
	assert.Less(t, calls.Load(), int32(callers))
}
