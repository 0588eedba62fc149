// Package task defines the scheduled production task model and its persistence.
package task

import (
	"errors"
	"time"

	"github.com/GoCodeAlone/timetable/material"
)

// ErrNotFound is returned when no task has the requested ID.
var ErrNotFound = errors.New("task not found")

// Task is one operation scheduled on the timeline.
type Task struct {
	ID                      string        `json:"id"`
	OperatorID              string        `json:"user_id"`
	OperationID             string        `json:"operation_id"`
	ExpectedDurationMinutes int64         `json:"expected_duration_minutes"`
	StartTime               time.Time     `json:"start_time"`
	ActualStartTime         *time.Time    `json:"actual_start_time,omitempty"`
	ActualDurationMinutes   *int64        `json:"actual_duration_minutes,omitempty"`
	Materials               material.List `json:"materials"`
	CreatedAt               time.Time     `json:"created_at"`
	UpdatedAt               time.Time     `json:"updated_at"`
}

// EndTime returns the expected end of the task.
func (t *Task) EndTime() time.Time {
	return t.StartTime.Add(time.Duration(t.ExpectedDurationMinutes) * time.Minute)
}

// Store persists and retrieves tasks.
type Store interface {
	// Create persists a new task under a freshly generated ID and returns it.
	Create(t *Task) (string, error)

	// Get retrieves a task by ID.
	Get(id string) (*Task, error)

	// Update saves changes to an existing task.
	Update(t *Task) error

	// Put inserts or replaces the task with t.ID, generating an ID when empty.
	Put(t *Task) error

	// List returns tasks matching the given filter, ordered by start time.
	List(filter Filter) ([]*Task, error)

	// Delete removes a task by ID.
	Delete(id string) error
}

// Filter controls which tasks are returned by List.
type Filter struct {
	OperatorID  string     `json:"user_id,omitempty"`
	OperationID string     `json:"operation_id,omitempty"`
	From        *time.Time `json:"from,omitempty"` // inclusive start-time bound
	To          *time.Time `json:"to,omitempty"`   // exclusive start-time bound
	Limit       int        `json:"limit,omitempty"`
	Offset      int        `json:"offset,omitempty"`
}
