// Package preset manages per-operation task presets: their durable store, the
// diff shown before an update is committed, and the single pending proposal.
package preset

import (
	"errors"

	"github.com/GoCodeAlone/timetable/material"
)

// StorageKey is the client-local storage key holding the whole preset map.
const StorageKey = "task_presets"

var (
	// ErrNoPending is returned by Confirm when no proposal is pending.
	ErrNoPending = errors.New("no pending preset update")

	// ErrBlankOperation is returned when a preset is keyed by a blank
	// operation name.
	ErrBlankOperation = errors.New("operation name is blank")

	// ErrNotFound is returned when an edit targets a preset that does not exist.
	ErrNotFound = errors.New("preset not found")

	// ErrNameTaken is returned when a material rename would overwrite another
	// material of the same preset.
	ErrNameTaken = errors.New("material name already used")
)

// Preset is the default duration and material list for an operation.
type Preset struct {
	DurationMinutes int64         `json:"duration_minutes"`
	Materials       material.List `json:"materials"`
}

// Clone returns a copy of p that shares no storage with it.
func (p Preset) Clone() Preset {
	return Preset{DurationMinutes: p.DurationMinutes, Materials: p.Materials.Clone()}
}

// Equal reports whether both presets have the same duration and materials.
func (p Preset) Equal(other Preset) bool {
	return p.DurationMinutes == other.DurationMinutes && p.Materials.Equal(other.Materials)
}

// Store is the durable mapping from operation name to preset.
type Store interface {
	// Get returns the preset for op.
	Get(op string) (Preset, bool)

	// Upsert stores p under op, replacing any existing preset.
	Upsert(op string, p Preset) error

	// Delete removes the preset for op. Deleting a missing preset is not an
	// error.
	Delete(op string) error

	// All returns a copy of the whole mapping.
	All() map[string]Preset
}
