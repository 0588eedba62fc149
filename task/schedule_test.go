package task

import (
	"testing"
	"time"
)

func TestOnDate_EarliestFirst(t *testing.T) {
	tasks := []*Task{
		{ID: "late", StartTime: at(14, 0)},
		{ID: "other-day", StartTime: at(8, 0).AddDate(0, 0, 1)},
		{ID: "early", StartTime: at(9, 0)},
		{ID: "early-too", StartTime: at(9, 0)},
	}
	got := OnDate(tasks, at(0, 0), time.UTC)
	want := []string{"early", "early-too", "late"}
	if len(got) != len(want) {
		t.Fatalf("OnDate: got %d tasks, want %d", len(got), len(want))
	}
	for i, id := range want {
		if got[i].ID != id {
			t.Errorf("OnDate[%d] = %q, want %q", i, got[i].ID, id)
		}
	}
}

func TestOnDate_UsesLocation(t *testing.T) {
	tokyo := time.FixedZone("JST", 9*3600)
	// 20:00 UTC on the 14th is 05:00 on the 15th in Tokyo.
	tasks := []*Task{{ID: "t", StartTime: at(20, 0)}}
	if got := OnDate(tasks, time.Date(2025, 3, 15, 12, 0, 0, 0, tokyo), tokyo); len(got) != 1 {
		t.Errorf("expected task on the 15th in JST, got %d", len(got))
	}
	if got := OnDate(tasks, at(12, 0), time.UTC); len(got) != 1 {
		t.Errorf("expected task on the 14th in UTC, got %d", len(got))
	}
}

func TestFindAssignment(t *testing.T) {
	tasks := []*Task{
		{ID: "1", OperatorID: "alice", OperationID: "Cut"},
		{ID: "2", OperatorID: "bob", OperationID: "Cut"},
	}
	if got, ok := FindAssignment(tasks, "bob", "Cut"); !ok || got.ID != "2" {
		t.Errorf("FindAssignment(bob, Cut) = %v, %v", got, ok)
	}
	if _, ok := FindAssignment(tasks, "bob", "Paint"); ok {
		t.Error("FindAssignment(bob, Paint) should not match")
	}
}

func TestEndTime(t *testing.T) {
	task := &Task{StartTime: at(9, 0), ExpectedDurationMinutes: 75}
	if !task.EndTime().Equal(at(10, 15)) {
		t.Errorf("EndTime = %v, want 10:15", task.EndTime())
	}
}
