package types

import "errors"

// Registry stores items under a unique ID and enumerates them in description
// order. Implementations must be safe for concurrent use: Add and Remove are
// exclusive, FindByID, ListByDescription and Len may run concurrently.
type Registry interface {
	// Add inserts the item into both indexes.
	// Returns ErrInvalidData for a nil item, ErrInvalidID for an empty ID,
	// and ErrDuplicateKey if an item with the same ID is already present.
	// On error the registry is unchanged. If another live item already holds
	// the same description, the description slot is reassigned to the new
	// item; the older item stays reachable through FindByID only.
	Add(item *Item) error

	// FindByID returns the item with the given ID.
	// Returns ErrNotFound if no such item exists.
	FindByID(id string) (*Item, error)

	// Remove deletes the item with the given ID. The description slot is
	// cleared only when it still refers to this item.
	// Returns ErrNotFound if no such item exists; the registry is unchanged.
	Remove(id string) error

	// ListByDescription returns the items reachable through the description
	// index, ascending by description in byte order. The result is recomputed
	// on every call and is never nil.
	ListByDescription() ([]*Item, error)

	// Len returns the number of items in the primary index.
	Len() int
}

// Registry operation errors.
var (
	ErrDuplicateKey = errors.New("item already exists")
	ErrNotFound     = errors.New("item not found")
	ErrInvalidID    = errors.New("invalid item ID")
	ErrInvalidData  = errors.New("invalid item data")
)

// ErrRegistryClosed is returned by engines that hold resources once Close
// has been called.
var ErrRegistryClosed = errors.New("registry is closed")
