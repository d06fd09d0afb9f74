// Package inmemory provides a map-backed vault store used in tests and as
// a lightweight default for the server.
package inmemory

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"

	"github.com/q42jaap/opvault/internal/common"
	"github.com/q42jaap/opvault/internal/item"
)

// Store keeps item snapshots in memory, keyed by id. Snapshots are deep
// copied on the way in and out so callers never alias stored state.
type Store struct {
	mu    sync.RWMutex
	items map[string]*item.Item
}

func NewStore() *Store {
	return &Store{items: make(map[string]*item.Item)}
}

func (s *Store) FetchItem(_ context.Context, id string) (*item.Item, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	it, ok := s.items[id]
	if !ok {
		return nil, fmt.Errorf("%w: item %s", common.ErrNotFound, id)
	}
	return clone(it)
}

func (s *Store) PersistItem(_ context.Context, it *item.Item) (*item.Item, error) {
	stored, err := clone(it)
	if err != nil {
		return nil, err
	}

	s.mu.Lock()
	s.items[stored.ID] = stored
	s.mu.Unlock()

	return clone(stored)
}

func (s *Store) DeleteItem(_ context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.items[id]; !ok {
		return fmt.Errorf("%w: item %s", common.ErrNotFound, id)
	}
	delete(s.items, id)
	return nil
}

func clone(it *item.Item) (*item.Item, error) {
	b, err := json.Marshal(it)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", common.ErrStore, err)
	}
	var out item.Item
	if err := json.Unmarshal(b, &out); err != nil {
		return nil, fmt.Errorf("%w: %w", common.ErrStore, err)
	}
	return &out, nil
}
