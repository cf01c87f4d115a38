// Package memory implements the in-memory item registry engine.
package memory

import (
	"fmt"
	"slices"
	"sync"

	"github.com/mesh-intelligence/storeroom/pkg/types"
)

// Compile-time interface check.
var _ types.Registry = (*Registry)(nil)

// Registry is a map-backed types.Registry. The primary index owns the items;
// the description index holds item IDs that point back into it.
type Registry struct {
	mu            sync.RWMutex
	byID          map[string]*types.Item
	byDescription map[string]string // description -> item ID
}

// New creates an empty Registry.
func New() *Registry {
	return &Registry{
		byID:          make(map[string]*types.Item),
		byDescription: make(map[string]string),
	}
}

// Add inserts item into both indexes.
func (r *Registry) Add(item *types.Item) error {
	if item == nil {
		return types.ErrInvalidData
	}
	id := item.ID()
	if id == "" {
		return types.ErrInvalidID
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.byID[id]; exists {
		return fmt.Errorf("id %s: %w", id, types.ErrDuplicateKey)
	}

	r.byID[id] = item
	// Last write wins: a previous holder of this description stays in byID.
	r.byDescription[item.Description()] = id
	return nil
}

// FindByID returns the item stored under id.
func (r *Registry) FindByID(id string) (*types.Item, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	item, ok := r.byID[id]
	if !ok {
		return nil, fmt.Errorf("id %s: %w", id, types.ErrNotFound)
	}
	return item, nil
}

// Remove deletes the item stored under id.
func (r *Registry) Remove(id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	item, ok := r.byID[id]
	if !ok {
		return fmt.Errorf("id %s: %w", id, types.ErrNotFound)
	}

	delete(r.byID, id)
	desc := item.Description()
	if r.byDescription[desc] == id {
		delete(r.byDescription, desc)
	}
	return nil
}

// ListByDescription returns the items reachable through the description
// index in ascending byte order of description.
func (r *Registry) ListByDescription() ([]*types.Item, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	descs := make([]string, 0, len(r.byDescription))
	for desc := range r.byDescription {
		descs = append(descs, desc)
	}
	slices.Sort(descs)

	items := make([]*types.Item, 0, len(descs))
	for _, desc := range descs {
		items = append(items, r.byID[r.byDescription[desc]])
	}
	return items, nil
}

// Len returns the number of stored items.
func (r *Registry) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()

	return len(r.byID)
}

// Close is a no-op; the registry holds no external resources.
func (r *Registry) Close() error {
	return nil
}
