package server

import (
	"github.com/GoCodeAlone/timetable/inventory"
	"github.com/GoCodeAlone/timetable/task"
)

// noopTaskStore satisfies task.Store for tests.
type noopTaskStore struct{}

func (n *noopTaskStore) Create(t *task.Task) (string, error)      { t.ID = "test-id"; return t.ID, nil }
func (n *noopTaskStore) Get(_ string) (*task.Task, error)         { return &task.Task{ID: "test-id"}, nil }
func (n *noopTaskStore) Update(_ *task.Task) error                { return nil }
func (n *noopTaskStore) Put(_ *task.Task) error                   { return nil }
func (n *noopTaskStore) List(_ task.Filter) ([]*task.Task, error) { return nil, nil }
func (n *noopTaskStore) Delete(_ string) error                    { return nil }

// noopInventory satisfies inventory.Store for tests.
type noopInventory struct{}

func (n *noopInventory) List() ([]inventory.Item, error) { return nil, nil }
func (n *noopInventory) Get(_ string) (inventory.Item, error) {
	return inventory.Item{}, inventory.ErrNotFound
}
func (n *noopInventory) Put(_ inventory.Item) error { return nil }
