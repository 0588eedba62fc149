package main

import (
	"errors"
	"fmt"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/GoCodeAlone/timetable/form"
	"github.com/GoCodeAlone/timetable/task"
)

func newTasksCmd(a *app) *cobra.Command {
	var date, operator, operation string
	cmd := &cobra.Command{
		Use:   "tasks",
		Short: "List tasks",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			f := task.Filter{OperatorID: operator, OperationID: operation}
			if date != "" {
				d, err := time.ParseInLocation(task.DateLayout, date, a.loc)
				if err != nil {
					return fmt.Errorf("date %q: %w", date, err)
				}
				from, to := task.DayBounds(d, a.loc)
				f.From, f.To = &from, &to
			}
			tasks, err := a.client.ListTasks(cmd.Context(), f)
			if err != nil {
				return err
			}
			printTasks(cmd.OutOrStdout(), tasks, a.loc)
			return nil
		},
	}
	cmd.Flags().StringVar(&date, "date", "", "only tasks on this date (YYYY-MM-DD)")
	cmd.Flags().StringVar(&operator, "operator", "", "only tasks for this operator")
	cmd.Flags().StringVar(&operation, "operation", "", "only tasks for this operation")
	return cmd
}

func newTaskCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "task",
		Short: "Add, update, delete, and view tasks",
	}
	cmd.AddCommand(newTaskAddCmd(a), newTaskUpdateCmd(a), newTaskDeleteCmd(a), newTaskDayCmd(a))
	return cmd
}

// taskFlags are the form fields settable from the command line.
type taskFlags struct {
	operator   string
	operation  string
	date       string
	start      string
	duration   time.Duration
	materials  materialEdits
	savePreset bool
	yes        bool
}

func (f *taskFlags) register(cmd *cobra.Command) {
	fl := cmd.Flags()
	fl.StringVar(&f.operator, "operator", "", "operator ID")
	fl.StringVar(&f.operation, "operation", "", "operation name; its preset pre-fills duration and materials")
	fl.StringVar(&f.date, "date", "", "date (YYYY-MM-DD)")
	fl.StringVar(&f.start, "start", "", "start time (HH:MM)")
	fl.DurationVar(&f.duration, "duration", 0, "expected duration, e.g. 1h30m")
	fl.StringArrayVar(&f.materials.set, "material", nil, "set a material quantity (name=quantity, repeatable)")
	fl.StringArrayVar(&f.materials.rename, "rename-material", nil, "rename a material (old=new, repeatable)")
	fl.StringArrayVar(&f.materials.remove, "remove-material", nil, "remove a material (repeatable)")
	fl.BoolVar(&f.savePreset, "save-preset", false, "also save duration and materials as the operation's preset")
	fl.BoolVarP(&f.yes, "yes", "y", false, "save the preset without asking")
}

// setDate moves the form to the --date day without changing the selection.
func (f *taskFlags) setDate(s form.State) (form.State, error) {
	if f.date == "" {
		return s, nil
	}
	if _, err := time.ParseInLocation(task.DateLayout, f.date, s.Location); err != nil {
		return s, fmt.Errorf("date %q: %w", f.date, err)
	}
	s.Date = f.date
	return s, nil
}

// applyTiming applies the start and duration flags that were given.
func (f *taskFlags) applyTiming(cmd *cobra.Command, s form.State) (form.State, error) {
	if cmd.Flags().Changed("start") {
		h, m, err := parseClockFlag(f.start)
		if err != nil {
			return s, err
		}
		s = form.Reduce(s, form.StartChanged{Hour: h, Minute: m})
	}
	if cmd.Flags().Changed("duration") {
		h, m, err := durationFields(f.duration)
		if err != nil {
			return s, err
		}
		s = form.Reduce(s, form.DurationChanged{Hours: h, Minutes: m})
	}
	return f.materials.apply(s)
}

// submit saves the drafted task, or explains why it cannot be saved.
func (a *app) submit(cmd *cobra.Command, s form.State, f *taskFlags) error {
	out := cmd.OutOrStdout()
	printMaterials(out, s)

	draft, err := s.Draft()
	if err != nil {
		if errors.Is(err, form.ErrSubmissionBlocked) {
			for _, b := range s.Blockers() {
				fmt.Fprintf(out, "blocked: %s\n", b)
			}
		}
		return err
	}
	if f.savePreset {
		s = form.Reduce(s, form.PresetUpdateRequested{})
		if _, err := reviewPreset(s, a.presets, cmd.InOrStdin(), out, f.yes); err != nil {
			return err
		}
	}

	saved, err := a.client.PutTask(cmd.Context(), draft)
	if err != nil {
		return err
	}
	a.logger.Debug("task saved", zap.String("id", saved.ID))

	// Refetch so the printed day reflects the server's view.
	tasks, err := a.client.ListTasks(cmd.Context(), task.Filter{})
	if err != nil {
		return err
	}
	fmt.Fprintf(out, "saved task %s\n", saved.ID)
	printTasks(out, task.OnDate(tasks, saved.StartTime, a.loc), a.loc)
	return nil
}

func newTaskAddCmd(a *app) *cobra.Command {
	f := &taskFlags{}
	cmd := &cobra.Command{
		Use:   "add",
		Short: "Add a task",
		Long: `Add a task. When --operation names a preset, its duration and materials are
filled in first; --duration and --material flags then override them.
Every material must exist in the inventory.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			s, err := a.loadForm(cmd.Context())
			if err != nil {
				return err
			}
			// The date is set directly: DateChanged would load the day's
			// first task into the form.
			if s, err = f.setDate(s); err != nil {
				return err
			}
			s = form.Reduce(s, form.OperatorChanged{Value: f.operator})
			s = form.Reduce(s, form.OperationChanged{Value: f.operation})
			if s.Mode == form.Editing {
				fmt.Fprintf(cmd.OutOrStdout(), "note: %s already runs %s (task %s); adding another\n",
					f.operator, f.operation, s.SelectedID)
			}
			if s, err = f.applyTiming(cmd, s); err != nil {
				return err
			}
			s.Mode = form.Creating
			return a.submit(cmd, s, f)
		},
	}
	f.register(cmd)
	return cmd
}

func newTaskUpdateCmd(a *app) *cobra.Command {
	f := &taskFlags{}
	cmd := &cobra.Command{
		Use:   "update <id>",
		Short: "Update a task",
		Long: `Update a task. Only the fields given as flags change. Changing the operator
or operation re-applies that operation's preset.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id := args[0]
			s, err := a.loadForm(cmd.Context())
			if err != nil {
				return err
			}
			s = form.Reduce(s, form.TaskSelected{ID: id})
			if s.Mode != form.Editing || s.SelectedID != id {
				return fmt.Errorf("task %s: %w", id, task.ErrNotFound)
			}
			if cmd.Flags().Changed("operator") {
				s = form.Reduce(s, form.OperatorChanged{Value: f.operator})
			}
			if cmd.Flags().Changed("operation") {
				s = form.Reduce(s, form.OperationChanged{Value: f.operation})
			}
			if s.Mode != form.Editing || s.SelectedID != id {
				return fmt.Errorf("the new operator and operation no longer select task %s; use task add", id)
			}
			if s, err = f.setDate(s); err != nil {
				return err
			}
			if s, err = f.applyTiming(cmd, s); err != nil {
				return err
			}
			return a.submit(cmd, s, f)
		},
	}
	f.register(cmd)
	return cmd
}

func newTaskDeleteCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "delete <id>",
		Short: "Delete a task",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := a.client.DeleteTask(cmd.Context(), args[0]); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "deleted task %s\n", args[0])
			return nil
		},
	}
}

func newTaskDayCmd(a *app) *cobra.Command {
	var date string
	cmd := &cobra.Command{
		Use:   "day",
		Short: "Show the tasks on a date in start order",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			s, err := a.loadForm(cmd.Context())
			if err != nil {
				return err
			}
			if date != "" {
				s = form.Reduce(s, form.DateChanged{Value: date})
			}
			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "%s\n", s.DateValue().Format("Monday, 2006-01-02"))
			printTasks(out, s.DayTasks(), a.loc)
			return nil
		},
	}
	cmd.Flags().StringVar(&date, "date", "", "date (YYYY-MM-DD, default today)")
	return cmd
}
