package form

import (
	"fmt"
	"strconv"

	"github.com/GoCodeAlone/timetable/inventory"
	"github.com/GoCodeAlone/timetable/material"
	"github.com/GoCodeAlone/timetable/preset"
	"github.com/GoCodeAlone/timetable/task"
)

// Event is a user action or a refreshed snapshot.
type Event interface {
	event()
}

type (
	// TasksLoaded replaces the tasks snapshot after a fetch.
	TasksLoaded struct{ Tasks []*task.Task }
	// InventoryLoaded replaces the inventory snapshot after a fetch.
	InventoryLoaded struct{ Items []inventory.Item }
	// PresetsLoaded replaces the presets snapshot.
	PresetsLoaded struct{ Presets map[string]preset.Preset }

	OperatorChanged  struct{ Value string }
	OperationChanged struct{ Value string }
	DateChanged      struct{ Value string }
	StartChanged     struct{ Hour, Minute string }
	DurationChanged  struct{ Hours, Minutes string }

	// TaskSelected is a click on a task in the chart.
	TaskSelected struct{ ID string }
	// TaskDeleted follows a successful delete of the task with ID.
	TaskDeleted struct{ ID string }

	MaterialAdded       struct{}
	MaterialRenamed     struct{ Old, New string }
	MaterialQuantitySet struct{ Name, Quantity string }
	MaterialRemoved     struct{ Name string }

	// PresetUpdateRequested proposes the form's duration and materials as the
	// preset for its operation, replacing any pending proposal.
	PresetUpdateRequested struct{}
	// PresetUpdateCancelled discards the pending proposal.
	PresetUpdateCancelled struct{}
	// PresetCommitted records that a preset was saved.
	PresetCommitted struct {
		OperationID string
		Preset      preset.Preset
	}
)

func (TasksLoaded) event()           {}
func (InventoryLoaded) event()       {}
func (PresetsLoaded) event()         {}
func (OperatorChanged) event()       {}
func (OperationChanged) event()      {}
func (DateChanged) event()           {}
func (StartChanged) event()          {}
func (DurationChanged) event()       {}
func (TaskSelected) event()          {}
func (TaskDeleted) event()           {}
func (MaterialAdded) event()         {}
func (MaterialRenamed) event()       {}
func (MaterialQuantitySet) event()   {}
func (MaterialRemoved) event()       {}
func (PresetUpdateRequested) event() {}
func (PresetUpdateCancelled) event() {}
func (PresetCommitted) event()       {}

// Reduce applies e to s and returns the new state. s is not modified.
func Reduce(s State, e Event) State {
	switch e := e.(type) {
	case TasksLoaded:
		s.Tasks = e.Tasks
		s.syncSelection()

	case InventoryLoaded:
		s.Inventory = inventory.NewIndex(e.Items)

	case PresetsLoaded:
		s.Presets = e.Presets

	case OperatorChanged:
		s.OperatorID = e.Value
		s.syncSelection()

	case OperationChanged:
		s.OperationID = e.Value
		if p, ok := s.Presets[e.Value]; ok {
			s.applyPreset(p)
		}
		s.syncSelection()

	case DateChanged:
		s.Date = e.Value
		s.selectFirstOnDate()

	case StartChanged:
		s.StartHour, s.StartMinute = e.Hour, e.Minute

	case DurationChanged:
		s.DurationHours, s.DurationMinutes = e.Hours, e.Minutes

	case TaskSelected:
		if t, ok := task.FindByID(s.Tasks, e.ID); ok {
			s.load(t)
		}

	case TaskDeleted:
		if s.Mode == Editing && s.SelectedID == e.ID {
			s.clearSelection()
			s.OperatorID, s.OperationID = "", ""
			s.Materials = nil
		}

	case MaterialAdded:
		s.Materials = s.Materials.With(s.Materials.NextName(), material.DefaultQuantity)

	case MaterialRenamed:
		s.Materials = s.Materials.Rename(e.Old, e.New)

	case MaterialQuantitySet:
		s.Materials = s.Materials.With(e.Name, e.Quantity)

	case MaterialRemoved:
		s.Materials = s.Materials.Without(e.Name)

	case PresetUpdateRequested:
		// A blank operation leaves the form as it is.
		_ = s.Pending.Propose(s.OperationID, s.Candidate())

	case PresetUpdateCancelled:
		s.Pending.Cancel()

	case PresetCommitted:
		next := make(map[string]preset.Preset, len(s.Presets)+1)
		for k, v := range s.Presets {
			next[k] = v
		}
		next[e.OperationID] = e.Preset.Clone()
		s.Presets = next
		if p, ok := s.Pending.Current(); ok && p.OperationID == e.OperationID {
			s.Pending.Cancel()
		}
	}
	return s
}

// applyPreset overwrites the duration and materials with p's.
func (s *State) applyPreset(p preset.Preset) {
	s.DurationHours = strconv.FormatInt(p.DurationMinutes/60, 10)
	s.DurationMinutes = strconv.FormatInt(p.DurationMinutes%60, 10)
	s.Materials = p.Materials.Clone()
}

// load selects t and copies every field from it.
func (s *State) load(t *task.Task) {
	s.Mode = Editing
	s.SelectedID = t.ID
	s.OperatorID = t.OperatorID
	s.OperationID = t.OperationID
	start := t.StartTime.In(s.loc())
	s.Date = start.Format(task.DateLayout)
	s.StartHour = fmt.Sprintf("%02d", start.Hour())
	s.StartMinute = fmt.Sprintf("%02d", start.Minute())
	s.DurationHours = strconv.FormatInt(t.ExpectedDurationMinutes/60, 10)
	s.DurationMinutes = strconv.FormatInt(t.ExpectedDurationMinutes%60, 10)
	s.Materials = t.Materials.Clone()
}

func (s *State) clearSelection() {
	s.Mode = Creating
	s.SelectedID = ""
}

// selectFirstOnDate selects and loads the earliest task on the entered date.
// With none, the selection and fields are reset.
func (s *State) selectFirstOnDate() {
	if _, err := parseDate(s.Date, s.loc()); err == nil {
		if day := s.DayTasks(); len(day) > 0 {
			date := s.Date
			s.load(day[0])
			s.Date = date
			return
		}
	}
	s.clearSelection()
	s.OperatorID, s.OperationID = "", ""
	s.Materials = nil
	s.resetTiming()
}

// syncSelection keeps the selection on a task run by the entered operator for
// the entered operation. The current selection is kept while it still
// matches; otherwise the first match is selected, and with none the form
// goes back to Creating.
func (s *State) syncSelection() {
	if cur, ok := task.FindByID(s.Tasks, s.SelectedID); ok && s.Mode == Editing &&
		cur.OperatorID == s.OperatorID && cur.OperationID == s.OperationID {
		return
	}
	if t, ok := task.FindAssignment(s.Tasks, s.OperatorID, s.OperationID); ok {
		s.Mode = Editing
		s.SelectedID = t.ID
		return
	}
	s.clearSelection()
}
