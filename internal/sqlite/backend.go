// Package sqlite implements the item registry on an in-memory SQLite
// database. The database lives for the lifetime of the Backend and is never
// written to disk.
package sqlite

import (
	"database/sql"
	"errors"
	"fmt"
	"sync"

	_ "modernc.org/sqlite"

	"github.com/mesh-intelligence/storeroom/pkg/types"
)

// memoryDSN opens a private in-memory database with foreign keys enforced.
const memoryDSN = "file::memory:?_pragma=foreign_keys(1)"

// Compile-time interface check.
var _ types.Registry = (*Backend)(nil)

// Backend implements types.Registry with SQLite as the index engine.
// The pool is pinned to a single connection because every new connection to
// ":memory:" would see its own empty database.
type Backend struct {
	mu       sync.RWMutex
	attached bool
	db       *sql.DB
}

// Open creates the in-memory database and its schema.
func Open() (*Backend, error) {
	db, err := sql.Open("sqlite", memoryDSN)
	if err != nil {
		return nil, fmt.Errorf("opening sqlite: %w", err)
	}
	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(1)
	db.SetConnMaxLifetime(0)

	for _, ddl := range append(append([]string{}, schemaDDL...), indexDDL...) {
		if _, err := db.Exec(ddl); err != nil {
			db.Close()
			return nil, fmt.Errorf("creating schema: %w", err)
		}
	}

	return &Backend{attached: true, db: db}, nil
}

// Close releases the database. The indexes are discarded. Close is
// idempotent; after Close every operation returns ErrRegistryClosed.
func (b *Backend) Close() error {
	b.mu.Lock()
	defer b.mu.Unlock()

	if !b.attached {
		return nil
	}
	b.attached = false
	if err := b.db.Close(); err != nil {
		return fmt.Errorf("closing sqlite: %w", err)
	}
	b.db = nil
	return nil
}

// Add inserts item into both tables in one transaction.
func (b *Backend) Add(item *types.Item) error {
	if item == nil {
		return types.ErrInvalidData
	}
	id := item.ID()
	if id == "" {
		return types.ErrInvalidID
	}

	b.mu.Lock()
	defer b.mu.Unlock()

	if !b.attached {
		return types.ErrRegistryClosed
	}

	tx, err := b.db.Begin()
	if err != nil {
		return fmt.Errorf("beginning transaction: %w", err)
	}
	defer tx.Rollback()

	var exists int
	err = tx.QueryRow("SELECT 1 FROM items WHERE item_id = ?", id).Scan(&exists)
	switch {
	case err == nil:
		return fmt.Errorf("id %s: %w", id, types.ErrDuplicateKey)
	case !errors.Is(err, sql.ErrNoRows):
		return fmt.Errorf("checking item existence: %w", err)
	}

	if _, err := tx.Exec(
		"INSERT INTO items (item_id, description, location) VALUES (?, ?, ?)",
		id, item.Description(), item.Location(),
	); err != nil {
		return fmt.Errorf("inserting item: %w", err)
	}

	// Last write wins on the description slot.
	if _, err := tx.Exec(
		"INSERT OR REPLACE INTO item_descriptions (description, item_id) VALUES (?, ?)",
		item.Description(), id,
	); err != nil {
		return fmt.Errorf("indexing description: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("committing item: %w", err)
	}
	return nil
}

// FindByID returns the item stored under id.
func (b *Backend) FindByID(id string) (*types.Item, error) {
	b.mu.RLock()
	defer b.mu.RUnlock()

	if !b.attached {
		return nil, types.ErrRegistryClosed
	}

	row := b.db.QueryRow(
		"SELECT item_id, description, location FROM items WHERE item_id = ?", id)
	item, err := scanItem(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("id %s: %w", id, types.ErrNotFound)
		}
		return nil, fmt.Errorf("getting item %s: %w", id, err)
	}
	return item, nil
}

// Remove deletes the item stored under id. The description row is deleted
// only while it still names this item.
func (b *Backend) Remove(id string) error {
	b.mu.Lock()
	defer b.mu.Unlock()

	if !b.attached {
		return types.ErrRegistryClosed
	}

	tx, err := b.db.Begin()
	if err != nil {
		return fmt.Errorf("beginning transaction: %w", err)
	}
	defer tx.Rollback()

	var desc string
	err = tx.QueryRow("SELECT description FROM items WHERE item_id = ?", id).Scan(&desc)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return fmt.Errorf("id %s: %w", id, types.ErrNotFound)
		}
		return fmt.Errorf("checking item existence: %w", err)
	}

	if _, err := tx.Exec(
		"DELETE FROM item_descriptions WHERE description = ? AND item_id = ?", desc, id,
	); err != nil {
		return fmt.Errorf("deleting description: %w", err)
	}
	if _, err := tx.Exec("DELETE FROM items WHERE item_id = ?", id); err != nil {
		return fmt.Errorf("deleting item: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("committing item deletion: %w", err)
	}
	return nil
}

// ListByDescription joins the description index back to items. The default
// BINARY collation orders descriptions bytewise.
func (b *Backend) ListByDescription() ([]*types.Item, error) {
	b.mu.RLock()
	defer b.mu.RUnlock()

	if !b.attached {
		return nil, types.ErrRegistryClosed
	}

	rows, err := b.db.Query(`SELECT i.item_id, i.description, i.location
FROM item_descriptions AS d
INNER JOIN items AS i ON i.item_id = d.item_id
ORDER BY d.description ASC`)
	if err != nil {
		return nil, fmt.Errorf("listing items: %w", err)
	}
	defer rows.Close()

	items := []*types.Item{}
	for rows.Next() {
		item, err := scanItem(rows)
		if err != nil {
			return nil, fmt.Errorf("scanning item: %w", err)
		}
		items = append(items, item)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating items: %w", err)
	}
	return items, nil
}

// Len returns the number of rows in the items table, or 0 when the backend
// is closed or the count fails.
func (b *Backend) Len() int {
	b.mu.RLock()
	defer b.mu.RUnlock()

	if !b.attached {
		return 0
	}
	var n int
	if err := b.db.QueryRow("SELECT COUNT(*) FROM items").Scan(&n); err != nil {
		return 0
	}
	return n
}

// scanner is satisfied by *sql.Row and *sql.Rows.
type scanner interface {
	Scan(dest ...any) error
}

// scanItem hydrates one items row into a *types.Item.
func scanItem(s scanner) (*types.Item, error) {
	var id, desc, loc string
	if err := s.Scan(&id, &desc, &loc); err != nil {
		return nil, err
	}
	return types.NewItem(id, desc, loc)
}
