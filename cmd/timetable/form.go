package main

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"strconv"
	"strings"
	"text/tabwriter"
	"time"

	"github.com/GoCodeAlone/timetable/form"
	"github.com/GoCodeAlone/timetable/material"
	"github.com/GoCodeAlone/timetable/preset"
	"github.com/GoCodeAlone/timetable/task"
)

// loadForm fetches tasks and inventory and returns a form loaded with them
// and the local presets.
func (a *app) loadForm(ctx context.Context) (form.State, error) {
	snap, err := a.client.Snapshot(ctx)
	if err != nil {
		return form.State{}, err
	}
	s := form.New(a.now(), a.loc)
	s = form.Reduce(s, form.TasksLoaded{Tasks: snap.Tasks})
	s = form.Reduce(s, form.InventoryLoaded{Items: snap.Inventory})
	s = form.Reduce(s, form.PresetsLoaded{Presets: a.presets.All()})
	return s, nil
}

// materialEdits are material changes given on the command line.
type materialEdits struct {
	set    []string // name=quantity
	rename []string // old=new
	remove []string
	add    int // blank "New Material" rows
}

func (m materialEdits) apply(s form.State) (form.State, error) {
	for _, kv := range m.rename {
		oldName, newName, err := splitPair(kv)
		if err != nil {
			return s, err
		}
		s = form.Reduce(s, form.MaterialRenamed{Old: oldName, New: newName})
	}
	for _, kv := range m.set {
		name, qty, err := splitPair(kv)
		if err != nil {
			return s, err
		}
		s = form.Reduce(s, form.MaterialQuantitySet{Name: name, Quantity: qty})
	}
	for _, name := range m.remove {
		s = form.Reduce(s, form.MaterialRemoved{Name: name})
	}
	for i := 0; i < m.add; i++ {
		s = form.Reduce(s, form.MaterialAdded{})
	}
	return s, nil
}

// splitPair splits "key=value". The key may not be blank; the value may.
func splitPair(kv string) (string, string, error) {
	k, v, ok := strings.Cut(kv, "=")
	k = strings.TrimSpace(k)
	if !ok || k == "" {
		return "", "", fmt.Errorf("expected name=value, got %q", kv)
	}
	return k, strings.TrimSpace(v), nil
}

// parseClockFlag splits "HH:MM" into the hour and minute form fields.
func parseClockFlag(v string) (string, string, error) {
	h, m, ok := strings.Cut(v, ":")
	if !ok {
		return "", "", fmt.Errorf("start %q: expected HH:MM", v)
	}
	hour, err := strconv.Atoi(h)
	if err != nil || hour < 0 || hour > 23 {
		return "", "", fmt.Errorf("start %q: hour must be 0-23", v)
	}
	minute, err := strconv.Atoi(m)
	if err != nil || minute < 0 || minute > 59 {
		return "", "", fmt.Errorf("start %q: minute must be 0-59", v)
	}
	return fmt.Sprintf("%02d", hour), fmt.Sprintf("%02d", minute), nil
}

// durationFields converts a duration such as "1h30m" into the hour and
// minute form fields.
func durationFields(d time.Duration) (string, string, error) {
	if d < 0 {
		return "", "", fmt.Errorf("duration %s is negative", d)
	}
	mins := int64(d / time.Minute)
	return strconv.FormatInt(mins/60, 10), fmt.Sprintf("%02d", mins%60), nil
}

// printMaterials prints the material rows with their inventory check.
func printMaterials(w io.Writer, s form.State) {
	rows := s.Rows()
	if len(rows) == 0 {
		fmt.Fprintln(w, "materials: none")
		return
	}
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "MATERIAL\tREQUIRED\tLEFT AFTER")
	for _, r := range rows {
		fmt.Fprintf(tw, "%s\t%s\t%s\n", r.Name, r.Quantity, r.Display)
	}
	tw.Flush() //nolint:errcheck
}

// printTasks prints tasks as a table with times in loc.
func printTasks(w io.Writer, tasks []*task.Task, loc *time.Location) {
	if len(tasks) == 0 {
		fmt.Fprintln(w, "no tasks")
		return
	}
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "ID\tDATE\tSTART\tEND\tOPERATOR\tOPERATION\tMATERIALS")
	for _, t := range tasks {
		start := t.StartTime.In(loc)
		fmt.Fprintf(tw, "%s\t%s\t%s\t%s\t%s\t%s\t%d\n",
			t.ID, start.Format(task.DateLayout), start.Format("15:04"),
			t.EndTime().In(loc).Format("15:04"), t.OperatorID, t.OperationID, len(t.Materials))
	}
	tw.Flush() //nolint:errcheck
}

// printPreset prints one preset.
func printPreset(w io.Writer, op string, p preset.Preset) {
	fmt.Fprintf(w, "%s: %dm\n", op, p.DurationMinutes)
	for _, e := range p.Materials {
		fmt.Fprintf(w, "  %s: %s\n", e.Name, e.Quantity)
	}
}

// printReview prints a preset review: its title and one line per change.
func printReview(w io.Writer, r preset.Review) {
	fmt.Fprintln(w, r.Title)
	for _, line := range r.Report.Lines() {
		fmt.Fprintf(w, "  %s\n", line)
	}
}

// confirm asks a yes/no question on in. Anything but y/yes is a no.
func confirm(in io.Reader, out io.Writer, question string) bool {
	fmt.Fprintf(out, "%s [y/N] ", question)
	line, _ := bufio.NewReader(in).ReadString('\n')
	switch strings.ToLower(strings.TrimSpace(line)) {
	case "y", "yes":
		return true
	}
	return false
}

// reviewPreset shows the pending preset update in s and, when accepted,
// commits it to store. The returned state has no pending proposal.
func reviewPreset(s form.State, store preset.Store, in io.Reader, out io.Writer, yes bool) (form.State, error) {
	review, ok := s.PresetReview()
	if !ok {
		return s, preset.ErrNoPending
	}
	printReview(out, review)
	if !yes && !confirm(in, out, "Save preset?") {
		fmt.Fprintln(out, "preset unchanged")
		return form.Reduce(s, form.PresetUpdateCancelled{}), nil
	}
	next, err := s.ConfirmPreset(store)
	if err != nil {
		return s, err
	}
	fmt.Fprintf(out, "preset %q saved\n", review.Proposal.OperationID)
	return next, nil
}

func materialsFromPairs(pairs []string) (material.List, error) {
	var l material.List
	for _, kv := range pairs {
		name, qty, err := splitPair(kv)
		if err != nil {
			return nil, err
		}
		l = l.With(name, qty)
	}
	return l, nil
}
