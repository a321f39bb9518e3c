package session

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/pscheid92/forumclient/internal/domain"
)

const (
	// StorageKey is the durable key of the persisted session.
	StorageKey = "user-storage"

	persistVersion = 0
)

// Persisted is the durable subset of State.
type Persisted struct {
	User       *domain.User `json:"user"`
	IsLoggedIn bool         `json:"isLoggedIn"`
}

type envelope struct {
	State   Persisted `json:"state"`
	Version int       `json:"version"`
}

// Persister serializes the durable subset of the session to a Storage.
type Persister struct {
	storage Storage
	key     string
}

func NewPersister(storage Storage) *Persister {
	return &Persister{storage: storage, key: StorageKey}
}

// Save writes the user and login flag of st.
func (p *Persister) Save(ctx context.Context, st State) error {
	data, err := json.Marshal(envelope{
		State:   Persisted{User: st.User, IsLoggedIn: st.IsLoggedIn},
		Version: persistVersion,
	})
	if err != nil {
		return fmt.Errorf("encode session: %w", err)
	}

	if err := p.storage.Set(ctx, p.key, data); err != nil {
		return fmt.Errorf("write session: %w", err)
	}
	return nil
}

// Load reads the persisted session. found is false when nothing was stored.
func (p *Persister) Load(ctx context.Context) (Persisted, bool, error) {
	data, found, err := p.storage.Get(ctx, p.key)
	if err != nil {
		return Persisted{}, false, fmt.Errorf("read session: %w", err)
	}
	if !found {
		return Persisted{}, false, nil
	}

	var env envelope
	if err := json.Unmarshal(data, &env); err != nil {
		return Persisted{}, false, fmt.Errorf("decode session: %w", err)
	}
	return env.State, true, nil
}

// Remove deletes the persisted session.
func (p *Persister) Remove(ctx context.Context) error {
	if err := p.storage.Remove(ctx, p.key); err != nil {
		return fmt.Errorf("remove session: %w", err)
	}
	return nil
}
