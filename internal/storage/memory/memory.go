package memory

import (
	"context"

	"github.com/frahmantamala/ontology-client/internal/storage"
	gocache "github.com/patrickmn/go-cache"
)

// Store keeps entries for the life of the process.
type Store struct{ c *gocache.Cache }

func New() *Store {
	return &Store{c: gocache.New(gocache.NoExpiration, 0)}
}

func (m *Store) Get(_ context.Context, key string) (string, error) {
	v, ok := m.c.Get(key)
	if !ok {
		return "", storage.ErrNotFound
	}
	s, _ := v.(string)
	return s, nil
}

func (m *Store) Set(_ context.Context, key, value string) error {
	m.c.Set(key, value, gocache.NoExpiration)
	return nil
}

func (m *Store) Delete(_ context.Context, keys ...string) error {
	for _, k := range keys {
		m.c.Delete(k)
	}
	return nil
}

func (m *Store) SetMany(_ context.Context, entries map[string]string) error {
	for k, v := range entries {
		m.c.Set(k, v, gocache.NoExpiration)
	}
	return nil
}

// Len reports how many keys are held.
func (m *Store) Len() int { return m.c.ItemCount() }
