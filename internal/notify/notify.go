// Package notify raises short-lived user notifications (toasts).
package notify

import (
	"slices"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/jonboulle/clockwork"
)

// DefaultTTL is how long a toast stays active.
const DefaultTTL = 4 * time.Second

type Level string

const (
	LevelSuccess Level = "success"
	LevelInfo    Level = "info"
	LevelWarning Level = "warning"
	LevelError   Level = "error"
)

type Toast struct {
	ID        string
	Level     Level
	Message   string
	CreatedAt time.Time
	ExpiresAt time.Time
}

// Sink receives every toast as it is raised.
type Sink func(Toast)

// Toaster keeps the currently visible toasts.
type Toaster struct {
	clock clockwork.Clock
	ttl   time.Duration
	sink  Sink

	mu     sync.Mutex
	toasts []Toast
}

// NewToaster creates a toaster. A zero ttl means DefaultTTL; sink may be nil.
func NewToaster(clock clockwork.Clock, ttl time.Duration, sink Sink) *Toaster {
	if ttl <= 0 {
		ttl = DefaultTTL
	}
	return &Toaster{clock: clock, ttl: ttl, sink: sink}
}

// Notify raises a toast and hands it to the sink.
func (t *Toaster) Notify(level Level, message string) Toast {
	now := t.clock.Now()
	toast := Toast{
		ID:        uuid.NewString(),
		Level:     level,
		Message:   message,
		CreatedAt: now,
		ExpiresAt: now.Add(t.ttl),
	}

	t.mu.Lock()
	t.toasts = append(t.pruneLocked(now), toast)
	t.mu.Unlock()

	if t.sink != nil {
		t.sink(toast)
	}
	return toast
}

func (t *Toaster) Success(message string) Toast { return t.Notify(LevelSuccess, message) }
func (t *Toaster) Info(message string) Toast    { return t.Notify(LevelInfo, message) }
func (t *Toaster) Warning(message string) Toast { return t.Notify(LevelWarning, message) }
func (t *Toaster) Error(message string) Toast   { return t.Notify(LevelError, message) }

// Active returns the unexpired toasts, oldest first.
func (t *Toaster) Active() []Toast {
	t.mu.Lock()
	defer t.mu.Unlock()

	t.toasts = t.pruneLocked(t.clock.Now())
	return slices.Clone(t.toasts)
}

// Dismiss removes a toast before it expires.
func (t *Toaster) Dismiss(id string) bool {
	t.mu.Lock()
	defer t.mu.Unlock()

	for i, toast := range t.toasts {
		if toast.ID == id {
			t.toasts = slices.Delete(t.toasts, i, i+1)
			return true
		}
	}
	return false
}

func (t *Toaster) pruneLocked(now time.Time) []Toast {
	return slices.DeleteFunc(t.toasts, func(toast Toast) bool {
		return !now.Before(toast.ExpiresAt)
	})
}
