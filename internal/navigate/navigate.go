// Package navigate tracks the client-side location.
package navigate

import (
	"slices"
	"sync"
)

const (
	HomePath  = "/"
	LoginPath = "/login"
)

// Listener is called after every location change.
type Listener func(from, to string)

// Router holds the current location and the history of visited locations.
type Router struct {
	mu        sync.Mutex
	current   string
	history   []string
	listeners []Listener
}

func NewRouter(start string) *Router {
	if start == "" {
		start = HomePath
	}
	return &Router{current: start}
}

func (r *Router) Current() string {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.current
}

// Redirect moves to path, pushing the previous location on the history. Redirecting to the current location does
// nothing.
func (r *Router) Redirect(path string) {
	r.mu.Lock()
	from := r.current
	if path == from {
		r.mu.Unlock()
		return
	}
	r.history = append(r.history, from)
	r.current = path
	listeners := slices.Clone(r.listeners)
	r.mu.Unlock()

	for _, l := range listeners {
		l(from, path)
	}
}

// Back returns to the previous location. It reports false when there is none.
func (r *Router) Back() bool {
	r.mu.Lock()
	if len(r.history) == 0 {
		r.mu.Unlock()
		return false
	}
	from := r.current
	r.current = r.history[len(r.history)-1]
	r.history = r.history[:len(r.history)-1]
	to := r.current
	listeners := slices.Clone(r.listeners)
	r.mu.Unlock()

	for _, l := range listeners {
		l(from, to)
	}
	return true
}

func (r *Router) History() []string {
	r.mu.Lock()
	defer r.mu.Unlock()
	return slices.Clone(r.history)
}

func (r *Router) OnChange(l Listener) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.listeners = append(r.listeners, l)
}
