// Package vault defines the boundary to the external vault store that
// persists items. Implementations live in subpackages (inmemory, sqlite,
// postgres) and in the HTTP client.
package vault

import (
	"context"

	"github.com/q42jaap/opvault/internal/item"
)

// Store persists and retrieves item snapshots.
//
// Absent items surface as common.ErrNotFound; any other failure wraps
// common.ErrStore with the opaque cause. The store serializes concurrent
// writes to the same item identity; no compare-and-swap is performed, so
// concurrent edits resolve as last-write-wins.
type Store interface {
	// FetchItem returns the current snapshot of the item.
	FetchItem(ctx context.Context, id string) (*item.Item, error)

	// PersistItem writes the item and returns the committed state.
	PersistItem(ctx context.Context, it *item.Item) (*item.Item, error)

	// DeleteItem removes the item. Deleting an absent item is an error,
	// not a no-op.
	DeleteItem(ctx context.Context, id string) error
}
