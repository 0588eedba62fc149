// Package form drives the task scheduling form. The form is a value; every
// user action is an Event applied by Reduce, and everything shown next to the
// fields (leftovers, submit gating, preset review) is derived from the state
// on demand.
package form

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/GoCodeAlone/timetable/inventory"
	"github.com/GoCodeAlone/timetable/material"
	"github.com/GoCodeAlone/timetable/preset"
	"github.com/GoCodeAlone/timetable/task"
)

// ErrSubmissionBlocked is returned by Draft when Add/Update is disabled.
var ErrSubmissionBlocked = errors.New("task submission blocked")

// Field defaults used when the form is reset or a field does not parse.
const (
	DefaultStartHour       = 9
	DefaultStartMinute     = 0
	DefaultDurationHours   = 1
	DefaultDurationMinutes = 0
)

// Mode is whether the form is creating a new task or editing a selected one.
type Mode int

const (
	Creating Mode = iota
	Editing
)

func (m Mode) String() string {
	if m == Editing {
		return "editing"
	}
	return "creating"
}

// State is the whole form. Tasks, Inventory and Presets are snapshots that are
// replaced wholesale, never modified in place.
type State struct {
	Mode       Mode
	SelectedID string

	OperatorID      string
	OperationID     string
	Date            string // YYYY-MM-DD
	StartHour       string
	StartMinute     string
	DurationHours   string
	DurationMinutes string
	Materials       material.List

	Pending preset.Pending

	Tasks     []*task.Task
	Inventory *inventory.Index
	Presets   map[string]preset.Preset

	// Location is the zone dates and start times are entered in.
	Location *time.Location
	// Today is the date used when Date does not parse.
	Today string
}

// New returns an empty form in Creating mode dated today in loc.
func New(today time.Time, loc *time.Location) State {
	if loc == nil {
		loc = time.Local
	}
	d := today.In(loc).Format(task.DateLayout)
	s := State{Location: loc, Today: d, Date: d}
	s.resetTiming()
	return s
}

func (s *State) resetTiming() {
	s.StartHour = fmt.Sprintf("%02d", DefaultStartHour)
	s.StartMinute = fmt.Sprintf("%02d", DefaultStartMinute)
	s.DurationHours = strconv.Itoa(DefaultDurationHours)
	s.DurationMinutes = fmt.Sprintf("%02d", DefaultDurationMinutes)
}

func (s State) loc() *time.Location {
	if s.Location == nil {
		return time.Local
	}
	return s.Location
}

// Duration returns the entered duration in minutes. Unparsable or negative
// hours count as 1 and unparsable or negative minutes as 0.
func (s State) Duration() int64 {
	return parseDurationField(s.DurationHours, DefaultDurationHours)*60 +
		parseDurationField(s.DurationMinutes, DefaultDurationMinutes)
}

func parseDurationField(v string, def int64) int64 {
	n, err := strconv.ParseInt(strings.TrimSpace(v), 10, 64)
	if err != nil || n < 0 {
		return def
	}
	return n
}

// DateValue returns the entered date in the form's location, falling back to
// Today when it does not parse.
func (s State) DateValue() time.Time {
	d, err := time.ParseInLocation(task.DateLayout, strings.TrimSpace(s.Date), s.loc())
	if err != nil {
		d, err = time.ParseInLocation(task.DateLayout, s.Today, s.loc())
		if err != nil {
			y, m, dd := time.Now().In(s.loc()).Date()
			d = time.Date(y, m, dd, 0, 0, 0, 0, s.loc())
		}
	}
	return d
}

// StartTime returns the entered start. An hour outside 0-23 or a minute
// outside 0-59 falls back to 09:00 defaults field by field.
func (s State) StartTime() time.Time {
	h := parseClock(s.StartHour, 23, DefaultStartHour)
	m := parseClock(s.StartMinute, 59, DefaultStartMinute)
	y, mo, d := s.DateValue().Date()
	return time.Date(y, mo, d, h, m, 0, 0, s.loc())
}

func parseClock(v string, max, def int) int {
	n, err := strconv.Atoi(strings.TrimSpace(v))
	if err != nil || n < 0 || n > max {
		return def
	}
	return n
}

// Rows checks every material row against the inventory snapshot.
func (s State) Rows() []inventory.Row {
	return inventory.Check(s.Materials, s.Inventory)
}

// Missing returns the material names that are not in the inventory.
func (s State) Missing() []string {
	return s.Inventory.Missing(s.Materials.Names())
}

// CanSubmit reports whether Add/Update is enabled: operator and operation are
// filled in and every material exists in the inventory. Unit mismatches and
// unparsable quantities do not block.
func (s State) CanSubmit() bool {
	if strings.TrimSpace(s.OperatorID) == "" || strings.TrimSpace(s.OperationID) == "" {
		return false
	}
	return inventory.CanSubmit(s.Materials, s.Inventory)
}

// Blockers explains why CanSubmit is false.
func (s State) Blockers() []string {
	var out []string
	if strings.TrimSpace(s.OperatorID) == "" {
		out = append(out, "operator is blank")
	}
	if strings.TrimSpace(s.OperationID) == "" {
		out = append(out, "operation is blank")
	}
	for _, name := range s.Missing() {
		out = append(out, fmt.Sprintf("%s is not in inventory", name))
	}
	return out
}

// Draft builds the task that Add (Creating) or Update (Editing) would submit.
// Update keeps the selected task's ID and recorded actuals.
func (s State) Draft() (*task.Task, error) {
	if !s.CanSubmit() {
		return nil, fmt.Errorf("%w: %s", ErrSubmissionBlocked, strings.Join(s.Blockers(), "; "))
	}
	t := &task.Task{
		OperatorID:              s.OperatorID,
		OperationID:             s.OperationID,
		ExpectedDurationMinutes: s.Duration(),
		StartTime:               s.StartTime().UTC(),
		Materials:               s.Materials.Clone(),
	}
	if s.Mode == Editing {
		t.ID = s.SelectedID
		if cur, ok := task.FindByID(s.Tasks, s.SelectedID); ok {
			t.ActualStartTime = cur.ActualStartTime
			t.ActualDurationMinutes = cur.ActualDurationMinutes
			t.CreatedAt = cur.CreatedAt
		}
	}
	return t, nil
}

// DayTasks returns the tasks on the entered date ordered by start time.
func (s State) DayTasks() []*task.Task {
	return task.OnDate(s.Tasks, s.DateValue(), s.loc())
}

// Selected returns the selected task from the snapshot.
func (s State) Selected() (*task.Task, bool) {
	if s.Mode != Editing {
		return nil, false
	}
	return task.FindByID(s.Tasks, s.SelectedID)
}

// Candidate is the preset the current duration and materials would save.
func (s State) Candidate() preset.Preset {
	return preset.Preset{DurationMinutes: s.Duration(), Materials: s.Materials.Clone()}
}

// PresetReview diffs the pending preset update against the presets snapshot.
func (s State) PresetReview() (preset.Review, bool) {
	p, ok := s.Pending.Current()
	if !ok {
		return preset.Review{}, false
	}
	var existing *preset.Preset
	if cur, ok := s.Presets[p.OperationID]; ok {
		existing = &cur
	}
	return preset.NewReview(p, existing), true
}

// ConfirmPreset saves the pending preset update to store and folds the result
// into the presets snapshot. On failure s is returned unchanged.
func (s State) ConfirmPreset(store preset.Store) (State, error) {
	p, err := s.Pending.Confirm(store)
	if err != nil {
		return s, err
	}
	return Reduce(s, PresetCommitted{OperationID: p.OperationID, Preset: p.Candidate}), nil
}

func parseDate(v string, loc *time.Location) (time.Time, error) {
	return time.ParseInLocation(task.DateLayout, strings.TrimSpace(v), loc)
}
