package session

import (
	"context"
	"log/slog"
	"sync"

	"github.com/pscheid92/forumclient/internal/adapter/metrics"
	"github.com/pscheid92/forumclient/internal/domain"
)

// Store is the session used by the rest of the client: a Model whose durable fields are written through a
// Persister after each change. Persistence failures are logged and counted but never surface to callers.
type Store struct {
	model     *Model
	persister *Persister
	metrics   *metrics.SessionMetrics

	// persistMu orders writes so storage always ends with the latest snapshot.
	persistMu sync.Mutex
}

func NewStore(persister *Persister, m *metrics.SessionMetrics) *Store {
	return &Store{
		model:     NewModel(),
		persister: persister,
		metrics:   m,
	}
}

// Restore loads the persisted session into the model. A missing or unreadable record leaves the default state.
func (s *Store) Restore(ctx context.Context) State {
	p, found, err := s.persister.Load(ctx)
	switch {
	case err != nil:
		slog.WarnContext(ctx, "Discarding unreadable persisted session", "error", err)
		s.metrics.RestoresTotal.WithLabelValues("error").Inc()
		return s.model.Snapshot()
	case !found:
		s.metrics.RestoresTotal.WithLabelValues("empty").Inc()
		return s.model.Snapshot()
	}

	st := s.model.restore(p)
	result := "logged_out"
	if st.IsLoggedIn {
		result = "logged_in"
	}
	s.metrics.RestoresTotal.WithLabelValues(result).Inc()
	slog.DebugContext(ctx, "Session restored", "logged_in", st.IsLoggedIn)
	return st
}

func (s *Store) Snapshot() State {
	return s.model.Snapshot()
}

// User returns a copy of the current user, or nil when logged out.
func (s *Store) User() *domain.User {
	return s.model.Snapshot().User
}

func (s *Store) IsLoggedIn() bool {
	return s.model.Snapshot().IsLoggedIn
}

func (s *Store) Subscribe(fn Observer) func() {
	return s.model.Subscribe(fn)
}

func (s *Store) SetUser(ctx context.Context, u domain.User) {
	s.model.SetUser(u)
	s.persist(ctx, "set_user")
}

func (s *Store) ClearUser(ctx context.Context) {
	s.model.ClearUser()
	s.persist(ctx, "clear_user")
}

// Purge logs out and deletes the persisted record instead of writing an empty one.
func (s *Store) Purge(ctx context.Context) {
	s.model.ClearUser()
	s.metrics.MutationsTotal.WithLabelValues("purge").Inc()

	s.persistMu.Lock()
	defer s.persistMu.Unlock()

	if err := s.persister.Remove(ctx); err != nil {
		s.metrics.PersistFailures.WithLabelValues("purge").Inc()
		slog.ErrorContext(ctx, "Failed to remove persisted session", "error", err)
	}
}

// UpdateUser merges patch into the current user. It does nothing when nobody is logged in.
func (s *Store) UpdateUser(ctx context.Context, patch domain.UserPatch) {
	if _, applied := s.model.UpdateUser(patch); !applied {
		slog.DebugContext(ctx, "Ignoring user update without a logged-in user")
		return
	}
	s.persist(ctx, "update_user")
}

// SetLoading changes the loading flag. Loading is not persisted.
func (s *Store) SetLoading(loading bool) {
	s.model.SetLoading(loading)
	s.metrics.MutationsTotal.WithLabelValues("set_loading").Inc()
}

// BeginLoading sets loading and returns a release func that clears it. Release is safe to call more than once;
// only the first call has an effect.
//
//	defer store.BeginLoading()()
func (s *Store) BeginLoading() func() {
	s.SetLoading(true)
	var once sync.Once
	return func() {
		once.Do(func() { s.SetLoading(false) })
	}
}

func (s *Store) persist(ctx context.Context, operation string) {
	s.metrics.MutationsTotal.WithLabelValues(operation).Inc()

	s.persistMu.Lock()
	defer s.persistMu.Unlock()

	if err := s.persister.Save(ctx, s.model.Snapshot()); err != nil {
		s.metrics.PersistFailures.WithLabelValues(operation).Inc()
		slog.ErrorContext(ctx, "Failed to persist session", "operation", operation, "error", err)
	}
}
