package preset

import (
	"fmt"
	"sort"
)

// ChangeKind classifies a material difference between two presets.
type ChangeKind string

const (
	Added   ChangeKind = "added"
	Removed ChangeKind = "removed"
	Changed ChangeKind = "changed"
)

// MaterialChange is one material that differs between presets. Old is empty
// for Added, New is empty for Removed.
type MaterialChange struct {
	Name string     `json:"name"`
	Kind ChangeKind `json:"kind"`
	Old  string     `json:"old,omitempty"`
	New  string     `json:"new,omitempty"`
}

func (c MaterialChange) String() string {
	switch c.Kind {
	case Added:
		return fmt.Sprintf("Added %s: %s", c.Name, c.New)
	case Removed:
		return fmt.Sprintf("Removed %s: %s", c.Name, c.Old)
	default:
		return fmt.Sprintf("%s: %s -> %s", c.Name, c.Old, c.New)
	}
}

// DurationChange records a changed default duration in minutes.
type DurationChange struct {
	Old int64 `json:"old"`
	New int64 `json:"new"`
}

func (c DurationChange) String() string {
	return fmt.Sprintf("Duration: %dm -> %dm", c.Old, c.New)
}

// Report is the reviewable delta between a stored preset and a candidate.
type Report struct {
	New       bool             `json:"new"`
	Duration  *DurationChange  `json:"duration,omitempty"`
	Materials []MaterialChange `json:"materials,omitempty"`
}

// NoChanges reports whether an existing preset would be left as it is.
func (r Report) NoChanges() bool {
	return !r.New && r.Duration == nil && len(r.Materials) == 0
}

// Lines renders the report for display, one change per line.
func (r Report) Lines() []string {
	switch {
	case r.New:
		return []string{"New Preset will be created."}
	case r.NoChanges():
		return []string{"No changes detected."}
	}
	var lines []string
	if r.Duration != nil {
		lines = append(lines, r.Duration.String())
	}
	for _, c := range r.Materials {
		lines = append(lines, c.String())
	}
	return lines
}

// Diff compares candidate against the stored preset. A nil existing preset
// means the candidate would create a new one. Diff never modifies its
// arguments.
func Diff(existing *Preset, candidate Preset) Report {
	if existing == nil {
		return Report{New: true}
	}

	var r Report
	if existing.DurationMinutes != candidate.DurationMinutes {
		r.Duration = &DurationChange{Old: existing.DurationMinutes, New: candidate.DurationMinutes}
	}

	oldM := existing.Materials.Map()
	newM := candidate.Materials.Map()
	keys := make([]string, 0, len(oldM)+len(newM))
	for k := range oldM {
		keys = append(keys, k)
	}
	for k := range newM {
		if _, ok := oldM[k]; !ok {
			keys = append(keys, k)
		}
	}
	sort.Strings(keys)

	for _, k := range keys {
		o, inOld := oldM[k]
		n, inNew := newM[k]
		switch {
		case inOld && inNew && o != n:
			r.Materials = append(r.Materials, MaterialChange{Name: k, Kind: Changed, Old: o, New: n})
		case inOld && !inNew:
			r.Materials = append(r.Materials, MaterialChange{Name: k, Kind: Removed, Old: o})
		case !inOld && inNew:
			r.Materials = append(r.Materials, MaterialChange{Name: k, Kind: Added, New: n})
		}
	}
	return r
}
