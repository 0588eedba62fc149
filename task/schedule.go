package task

import (
	"sort"
	"time"
)

// DateLayout is the calendar-date format used for day filters.
const DateLayout = "2006-01-02"

// OnDate returns the tasks whose start falls on the calendar day of date in
// loc, ordered by start time. Tasks starting at the same instant keep their
// input order.
func OnDate(tasks []*Task, date time.Time, loc *time.Location) []*Task {
	if loc == nil {
		loc = time.UTC
	}
	y, m, d := date.In(loc).Date()
	var out []*Task
	for _, t := range tasks {
		ty, tm, td := t.StartTime.In(loc).Date()
		if ty == y && tm == m && td == d {
			out = append(out, t)
		}
	}
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].StartTime.Before(out[j].StartTime)
	})
	return out
}

// DayBounds returns the [start, end) instants of the calendar day of date in
// loc, suitable for Filter.From and Filter.To.
func DayBounds(date time.Time, loc *time.Location) (time.Time, time.Time) {
	if loc == nil {
		loc = time.UTC
	}
	y, m, d := date.In(loc).Date()
	start := time.Date(y, m, d, 0, 0, 0, 0, loc)
	return start, start.AddDate(0, 0, 1)
}

// FindByID returns the task with the given ID.
func FindByID(tasks []*Task, id string) (*Task, bool) {
	for _, t := range tasks {
		if t.ID == id {
			return t, true
		}
	}
	return nil, false
}

// FindAssignment returns the first task in tasks run by operatorID for
// operationID.
func FindAssignment(tasks []*Task, operatorID, operationID string) (*Task, bool) {
	for _, t := range tasks {
		if t.OperatorID == operatorID && t.OperationID == operationID {
			return t, true
		}
	}
	return nil, false
}
