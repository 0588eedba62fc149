package inventory

import (
	"database/sql"
	"errors"
	"fmt"
	"time"

	_ "modernc.org/sqlite" // SQLite driver
)

const schema = `
CREATE TABLE IF NOT EXISTS inventory (
	name       TEXT PRIMARY KEY,
	quantity   REAL NOT NULL DEFAULT 0,
	unit       TEXT NOT NULL DEFAULT '',
	updated_at DATETIME NOT NULL
);
`

// SQLiteStore persists inventory items in a SQLite database.
type SQLiteStore struct {
	db *sql.DB
}

// NewSQLiteStore opens (or creates) a SQLite database at dbPath and ensures
// the inventory table exists. The caller is responsible for calling Close.
func NewSQLiteStore(dbPath string) (*SQLiteStore, error) {
	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("open sqlite %s: %w", dbPath, err)
	}
	db.SetMaxOpenConns(1) // prevent SQLITE_BUSY
	if _, err := db.Exec(schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("create schema: %w", err)
	}
	return &SQLiteStore{db: db}, nil
}

// Close releases the underlying database connection.
func (s *SQLiteStore) Close() error { return s.db.Close() }

// List returns every item ordered by name.
func (s *SQLiteStore) List() ([]Item, error) {
	rows, err := s.db.Query(`SELECT name, quantity, unit FROM inventory ORDER BY name ASC`)
	if err != nil {
		return nil, fmt.Errorf("list inventory: %w", err)
	}
	defer rows.Close()

	var items []Item
	for rows.Next() {
		var it Item
		if err := rows.Scan(&it.Name, &it.Quantity, &it.Unit); err != nil {
			return nil, err
		}
		items = append(items, it)
	}
	return items, rows.Err()
}

// Get retrieves an item by name.
func (s *SQLiteStore) Get(name string) (Item, error) {
	var it Item
	err := s.db.QueryRow(`SELECT name, quantity, unit FROM inventory WHERE name = ?`, name).
		Scan(&it.Name, &it.Quantity, &it.Unit)
	if errors.Is(err, sql.ErrNoRows) {
		return Item{}, fmt.Errorf("item %q: %w", name, ErrNotFound)
	}
	if err != nil {
		return Item{}, fmt.Errorf("get item %q: %w", name, err)
	}
	return it, nil
}

// Put inserts the item or replaces the one with the same name.
func (s *SQLiteStore) Put(item Item) error {
	if item.Name == "" {
		return fmt.Errorf("put item: name is required")
	}
	_, err := s.db.Exec(`
		INSERT INTO inventory (name, quantity, unit, updated_at) VALUES (?,?,?,?)
		ON CONFLICT(name) DO UPDATE SET
			quantity=excluded.quantity, unit=excluded.unit, updated_at=excluded.updated_at`,
		item.Name, item.Quantity, item.Unit, time.Now().UTC(),
	)
	if err != nil {
		return fmt.Errorf("put item %q: %w", item.Name, err)
	}
	return nil
}
