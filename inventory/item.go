// Package inventory tracks material stock and checks task material
// requirements against it.
package inventory

import "errors"

// ErrNotFound is returned when no item has the requested name.
var ErrNotFound = errors.New("inventory item not found")

// Item is a tracked material. Quantity may go negative; it is never clamped.
type Item struct {
	Name     string  `json:"name"`
	Quantity float64 `json:"quantity"`
	Unit     string  `json:"unit"`
}

// Store persists inventory items keyed by name.
type Store interface {
	// List returns every item ordered by name.
	List() ([]Item, error)

	// Get retrieves an item by name.
	Get(name string) (Item, error)

	// Put inserts the item or replaces the one with the same name.
	Put(item Item) error
}
