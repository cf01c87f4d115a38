// Package storeroom is the public entry point for building an item registry.
// It exposes a factory that selects the engine named in types.Config while
// keeping the engines themselves internal.
//
// Example:
//
//	store, err := storeroom.Open(types.Config{Backend: types.BackendMemory})
//	if err != nil {
//	    return err
//	}
//	defer store.Close()
//
//	item, _ := types.NewItem("ITEM001", "LED Light", "Aisle 3, Shelf 1")
//	err = store.Add(item)
package storeroom

import (
	"fmt"

	"github.com/mesh-intelligence/storeroom/internal/memory"
	"github.com/mesh-intelligence/storeroom/internal/sqlite"
	"github.com/mesh-intelligence/storeroom/pkg/types"
)

// Version is the storeroom release version.
const Version = "0.1.0"

// Store is a Registry that may hold resources released by Close.
type Store interface {
	types.Registry
	Close() error
}

// Open validates cfg and returns an empty registry for its backend.
func Open(cfg types.Config) (Store, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	switch cfg.Backend {
	case types.BackendSQLite:
		b, err := sqlite.Open()
		if err != nil {
			return nil, fmt.Errorf("open sqlite backend: %w", err)
		}
		return b, nil
	default:
		return memory.New(), nil
	}
}
