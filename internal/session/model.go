package session

import (
	"sync"

	"github.com/pscheid92/forumclient/internal/domain"
)

// State is a snapshot of the session.
type State struct {
	User       *domain.User
	IsLoggedIn bool
	Loading    bool
}

func (s State) clone() State {
	s.User = s.User.Clone()
	return s
}

// Observer is called after every mutation with the resulting state.
type Observer func(State)

// Model owns the session state. All mutation passes through SetUser, ClearUser, UpdateUser and SetLoading.
type Model struct {
	mu        sync.RWMutex
	state     State
	observers map[int]Observer
	nextID    int
}

func NewModel() *Model {
	return &Model{observers: make(map[int]Observer)}
}

// Snapshot returns a copy of the current state.
func (m *Model) Snapshot() State {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.state.clone()
}

// SetUser stores u as the logged-in user and clears loading.
func (m *Model) SetUser(u domain.User) State {
	return m.mutate(func(s *State) bool {
		s.User = (&u).Clone()
		s.IsLoggedIn = true
		s.Loading = false
		return true
	})
}

// ClearUser resets the session to logged out. Calling it on an empty session is harmless.
func (m *Model) ClearUser() State {
	return m.mutate(func(s *State) bool {
		*s = State{}
		return true
	})
}

// UpdateUser merges patch into the current user. It reports false and leaves the state untouched when nobody is
// logged in.
func (m *Model) UpdateUser(patch domain.UserPatch) (State, bool) {
	var applied bool
	st := m.mutate(func(s *State) bool {
		if s.User == nil {
			return false
		}
		merged := patch.Apply(*s.User)
		s.User = &merged
		applied = true
		return true
	})
	return st, applied
}

// SetLoading changes only the loading flag.
func (m *Model) SetLoading(loading bool) State {
	return m.mutate(func(s *State) bool {
		if s.Loading == loading {
			return false
		}
		s.Loading = loading
		return true
	})
}

// restore replaces user and login flag with persisted values. Loading always starts false.
func (m *Model) restore(p Persisted) State {
	return m.mutate(func(s *State) bool {
		*s = State{User: p.User.Clone(), IsLoggedIn: p.IsLoggedIn && p.User != nil}
		return true
	})
}

// Subscribe registers fn and returns a func that removes it.
func (m *Model) Subscribe(fn Observer) func() {
	m.mu.Lock()
	id := m.nextID
	m.nextID++
	m.observers[id] = fn
	m.mu.Unlock()

	return func() {
		m.mu.Lock()
		delete(m.observers, id)
		m.mu.Unlock()
	}
}

// mutate applies fn under the lock and notifies observers outside it when fn reports a change.
func (m *Model) mutate(fn func(*State) bool) State {
	m.mu.Lock()
	changed := fn(&m.state)
	st := m.state.clone()
	var observers []Observer
	if changed {
		observers = make([]Observer, 0, len(m.observers))
		for _, o := range m.observers {
			observers = append(observers, o)
		}
	}
	m.mu.Unlock()

	for _, o := range observers {
		o(st.clone())
	}
	return st
}
