package api

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/jonboulle/clockwork"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/require"

	"github.com/pscheid92/forumclient/internal/adapter/metrics"
	"github.com/pscheid92/forumclient/internal/navigate"
	"github.com/pscheid92/forumclient/internal/notify"
	"github.com/pscheid92/forumclient/internal/session"
	"github.com/pscheid92/forumclient/internal/transport"
)

type testEnv struct {
	server  *httptest.Server
	mux     *http.ServeMux
	store   *session.Store
	storage *session.MemoryStorage
	router  *navigate.Router
	toaster *notify.Toaster
	posts   *Posts
	users   *Users

	// loading records every change of the loading flag.
	loading []bool
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()
	env := &testEnv{mux: http.NewServeMux()}
	env.server = httptest.NewServer(env.mux)
	t.Cleanup(env.server.Close)

	reg := prometheus.NewRegistry()
	env.storage = session.NewMemoryStorage()
	env.store = session.NewStore(session.NewPersister(env.storage), metrics.NewSessionMetrics(reg))
	env.router = navigate.NewRouter(navigate.HomePath)
	env.toaster = notify.NewToaster(clockwork.NewFakeClock(), 0, nil)

	last := false
	env.store.Subscribe(func(s session.State) {
		if s.Loading != last {
			env.loading = append(env.loading, s.Loading)
			last = s.Loading
		}
	})

	client := transport.NewClient(transport.Options{BaseURL: env.server.URL + "/api", Timeout: 2 * time.Second},
		transport.NewErrorChain(transport.DefaultRules(env.store, env.router)...), metrics.NewClientMetrics(reg))
	env.posts = NewPosts(client, env.toaster)
	env.users = NewUsers(client, env.store, env.toaster)
	return env
}

func (e *testEnv) handle(pattern string, status int, body string) {
	e.mux.HandleFunc(pattern, func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(status)
		_, _ = io.WriteString(w, body)
	})
}

// lastToast returns the most recent toast.
func (e *testEnv) lastToast(t *testing.T) notify.Toast {
	t.Helper()
	active := e.toaster.Active()
	require.NotEmpty(t, active, "expected a notification")
	return active[len(active)-1]
}

func (e *testEnv) persisted(t *testing.T) session.Persisted {
	t.Helper()
	data, found, err := e.storage.Get(context.Background(), session.StorageKey)
	require.NoError(t, err)
	require.True(t, found)

	var env struct {
		State session.Persisted `json:"state"`
	}
	require.NoError(t, json.Unmarshal(data, &env))
	return env.State
}

func strPtr(s string) *string { return &s }
