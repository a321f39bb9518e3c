package app

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"

	"github.com/jonboulle/clockwork"
	"github.com/prometheus/client_golang/prometheus"
	goredis "github.com/redis/go-redis/v9"

	"github.com/pscheid92/forumclient/internal/adapter/httpserver"
	"github.com/pscheid92/forumclient/internal/adapter/metrics"
	"github.com/pscheid92/forumclient/internal/adapter/redis"
	"github.com/pscheid92/forumclient/internal/api"
	"github.com/pscheid92/forumclient/internal/navigate"
	"github.com/pscheid92/forumclient/internal/notify"
	"github.com/pscheid92/forumclient/internal/platform/config"
	"github.com/pscheid92/forumclient/internal/platform/version"
	"github.com/pscheid92/forumclient/internal/session"
	"github.com/pscheid92/forumclient/internal/transport"
)

// Options carries the collaborators that callers may replace.
type Options struct {
	Clock clockwork.Clock
	// Sink receives every notification as it is raised.
	Sink notify.Sink
	// HTTPClient overrides the transport used for API requests.
	HTTPClient *http.Client
	// OnRedirect is called when the client moves to another location, for example after a rejected session.
	OnRedirect navigate.Listener
}

// App is the assembled client.
type App struct {
	Config   *config.Config
	Registry *prometheus.Registry
	Clock    clockwork.Clock

	Session *session.Store
	Router  *navigate.Router
	Toaster *notify.Toaster
	Client  *transport.Client
	Posts   *api.Posts
	Users   *api.Users

	redis *goredis.Client
}

// New builds the client and restores the persisted session.
func New(ctx context.Context, cfg *config.Config, opts Options) (*App, error) {
	clock := opts.Clock
	if clock == nil {
		clock = clockwork.NewRealClock()
	}

	a := &App{
		Config:   cfg,
		Registry: metrics.NewRegistry(),
		Clock:    clock,
	}

	storage, err := a.newStorage(ctx)
	if err != nil {
		return nil, err
	}

	a.Session = session.NewStore(session.NewPersister(storage), metrics.NewSessionMetrics(a.Registry))
	a.Router = navigate.NewRouter(navigate.HomePath)
	if opts.OnRedirect != nil {
		a.Router.OnChange(opts.OnRedirect)
	}
	a.Toaster = notify.NewToaster(clock, notify.DefaultTTL, opts.Sink)

	pipeline := cfg.Pipeline()
	chain := transport.NewErrorChain(transport.DefaultRules(a.Session, a.Router)...)
	a.Client = transport.NewClient(transport.Options{
		BaseURL:    pipeline.BaseURL,
		Timeout:    pipeline.Timeout,
		UserAgent:  version.UserAgent(),
		HTTPClient: opts.HTTPClient,
		Clock:      clock,
	}, chain, metrics.NewClientMetrics(a.Registry))

	a.Posts = api.NewPosts(a.Client, a.Toaster)
	a.Users = api.NewUsers(a.Client, a.Session, a.Toaster)

	a.Session.Restore(ctx)
	slog.DebugContext(ctx, "Client ready",
		"env", cfg.AppEnv, "base_url", pipeline.BaseURL, "timeout", pipeline.Timeout, "backend", cfg.SessionBackend)
	return a, nil
}

func (a *App) newStorage(ctx context.Context) (session.Storage, error) {
	switch a.Config.SessionBackend {
	case config.BackendMemory:
		return session.NewMemoryStorage(), nil
	case config.BackendRedis:
		rdb, err := redis.NewClient(ctx, a.Config.RedisURL, metrics.NewRedisMetrics(a.Registry))
		if err != nil {
			return nil, fmt.Errorf("session storage: %w", err)
		}
		a.redis = rdb
		return redis.NewStorage(rdb, redis.DefaultPrefix), nil
	default:
		fs, err := session.NewFileStorage(a.Config.SessionFile())
		if err != nil {
			return nil, fmt.Errorf("session storage: %w", err)
		}
		return fs, nil
	}
}

// NewProxy builds the development proxy on the app's metrics registry.
func (a *App) NewProxy() (*httpserver.Server, error) {
	if err := a.Config.ValidateProxy(); err != nil {
		return nil, err
	}
	return httpserver.NewServer(httpserver.Options{
		Addr:      a.Config.ProxyAddr,
		Target:    a.Config.ProxyTarget,
		RateLimit: a.Config.ProxyRateLimit,
	}, a.Registry, metrics.NewProxyMetrics(a.Registry))
}

// Close releases the session backend connection.
func (a *App) Close() error {
	if a.redis == nil {
		return nil
	}
	if err := a.redis.Close(); err != nil {
		return fmt.Errorf("close redis: %w", err)
	}
	return nil
}
