package preset

import (
	"fmt"

	"github.com/GoCodeAlone/timetable/material"
)

// Editor applies in-place edits to stored presets. Each edit reads the
// current preset, changes it and upserts the result.
type Editor struct {
	Store Store
}

func (e Editor) modify(op string, fn func(Preset) (Preset, error)) error {
	p, ok := e.Store.Get(op)
	if !ok {
		return fmt.Errorf("preset %q: %w", op, ErrNotFound)
	}
	next, err := fn(p)
	if err != nil {
		return err
	}
	return e.Store.Upsert(op, next)
}

// SetDuration sets the default duration of op's preset.
func (e Editor) SetDuration(op string, minutes int64) error {
	return e.modify(op, func(p Preset) (Preset, error) {
		p.DurationMinutes = minutes
		return p, nil
	})
}

// AddMaterial adds a placeholder material row named with the first free
// "New Material" name and returns that name.
func (e Editor) AddMaterial(op string) (string, error) {
	var name string
	err := e.modify(op, func(p Preset) (Preset, error) {
		name = p.Materials.NextName()
		p.Materials = p.Materials.With(name, material.DefaultQuantity)
		return p, nil
	})
	return name, err
}

// RenameMaterial renames a material of op's preset. Renaming onto a name that
// is already used is refused.
func (e Editor) RenameMaterial(op, oldName, newName string) error {
	return e.modify(op, func(p Preset) (Preset, error) {
		if oldName == newName {
			return p, nil
		}
		if p.Materials.Has(newName) {
			return p, fmt.Errorf("rename %q to %q: %w", oldName, newName, ErrNameTaken)
		}
		p.Materials = p.Materials.Rename(oldName, newName)
		return p, nil
	})
}

// SetMaterial sets the quantity string of a material, adding it if needed.
func (e Editor) SetMaterial(op, name, qty string) error {
	return e.modify(op, func(p Preset) (Preset, error) {
		p.Materials = p.Materials.With(name, qty)
		return p, nil
	})
}

// RemoveMaterial drops a material from op's preset.
func (e Editor) RemoveMaterial(op, name string) error {
	return e.modify(op, func(p Preset) (Preset, error) {
		p.Materials = p.Materials.Without(name)
		return p, nil
	})
}

// Delete removes op's preset.
func (e Editor) Delete(op string) error {
	return e.Store.Delete(op)
}
