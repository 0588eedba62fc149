package main

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/GoCodeAlone/timetable/form"
	"github.com/GoCodeAlone/timetable/preset"
)

func newPresetCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "preset",
		Short: "Manage per-operation presets (stored locally)",
	}
	cmd.AddCommand(
		newPresetListCmd(a),
		newPresetShowCmd(a),
		newPresetUpdateCmd(a),
		newPresetEditCmd(a),
		newPresetDeleteCmd(a),
	)
	return cmd
}

func newPresetListCmd(a *app) *cobra.Command {
	var f preset.Filter
	cmd := &cobra.Command{
		Use:   "list",
		Short: "List presets, optionally filtered by operation or material name",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			all := a.presets.All()
			names := f.Match(all)
			out := cmd.OutOrStdout()
			if len(names) == 0 {
				fmt.Fprintln(out, "no presets")
				return nil
			}
			for _, op := range names {
				printPreset(out, op, all[op])
			}
			return nil
		},
	}
	cmd.Flags().StringVar(&f.Operation, "operation", "", "operation name contains (case-insensitive)")
	cmd.Flags().StringVar(&f.Material, "material", "", "some material name contains (case-insensitive)")
	return cmd
}

func newPresetShowCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "show <operation>",
		Short: "Show one preset",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			p, ok := a.presets.Get(args[0])
			if !ok {
				return fmt.Errorf("preset %q: %w", args[0], preset.ErrNotFound)
			}
			printPreset(cmd.OutOrStdout(), args[0], p)
			return nil
		},
	}
}

func newPresetUpdateCmd(a *app) *cobra.Command {
	var (
		duration time.Duration
		edits    materialEdits
		yes      bool
	)
	cmd := &cobra.Command{
		Use:   "update <operation>",
		Short: "Propose a preset update, review the changes, and confirm",
		Long: `Start from the operation's current preset (or an empty one), apply the
flags, and show what would change. Nothing is saved until confirmed.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			s := form.New(a.now(), a.loc)
			s = form.Reduce(s, form.PresetsLoaded{Presets: a.presets.All()})
			s = form.Reduce(s, form.OperationChanged{Value: args[0]})
			if cmd.Flags().Changed("duration") {
				h, m, err := durationFields(duration)
				if err != nil {
					return err
				}
				s = form.Reduce(s, form.DurationChanged{Hours: h, Minutes: m})
			}
			s, err := edits.apply(s)
			if err != nil {
				return err
			}
			s = form.Reduce(s, form.PresetUpdateRequested{})
			_, err = reviewPreset(s, a.presets, cmd.InOrStdin(), cmd.OutOrStdout(), yes)
			return err
		},
	}
	fl := cmd.Flags()
	fl.DurationVar(&duration, "duration", 0, "default duration, e.g. 45m")
	fl.StringArrayVar(&edits.set, "material", nil, "set a material quantity (name=quantity, repeatable)")
	fl.StringArrayVar(&edits.rename, "rename-material", nil, "rename a material (old=new, repeatable)")
	fl.StringArrayVar(&edits.remove, "remove-material", nil, "remove a material (repeatable)")
	fl.BoolVarP(&yes, "yes", "y", false, "save without asking")
	return cmd
}

func newPresetEditCmd(a *app) *cobra.Command {
	var (
		duration time.Duration
		add      int
		rename   []string
		set      []string
		remove   []string
	)
	cmd := &cobra.Command{
		Use:   "edit <operation>",
		Short: "Edit a stored preset in place",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			op := args[0]
			ed := preset.Editor{Store: a.presets}
			out := cmd.OutOrStdout()

			if cmd.Flags().Changed("duration") {
				if duration < 0 {
					return fmt.Errorf("duration %s is negative", duration)
				}
				if err := ed.SetDuration(op, int64(duration/time.Minute)); err != nil {
					return err
				}
			}
			for _, kv := range rename {
				oldName, newName, err := splitPair(kv)
				if err != nil {
					return err
				}
				if err := ed.RenameMaterial(op, oldName, newName); err != nil {
					return err
				}
			}
			for _, kv := range set {
				name, qty, err := splitPair(kv)
				if err != nil {
					return err
				}
				if err := ed.SetMaterial(op, name, qty); err != nil {
					return err
				}
			}
			for _, name := range remove {
				if err := ed.RemoveMaterial(op, name); err != nil {
					return err
				}
			}
			for i := 0; i < add; i++ {
				name, err := ed.AddMaterial(op)
				if err != nil {
					return err
				}
				fmt.Fprintf(out, "added %q\n", name)
			}

			p, ok := a.presets.Get(op)
			if !ok {
				return fmt.Errorf("preset %q: %w", op, preset.ErrNotFound)
			}
			printPreset(out, op, p)
			return nil
		},
	}
	fl := cmd.Flags()
	fl.DurationVar(&duration, "duration", 0, "default duration, e.g. 45m")
	fl.IntVar(&add, "add-material", 0, "add this many placeholder material rows")
	fl.StringArrayVar(&rename, "rename-material", nil, "rename a material (old=new, repeatable)")
	fl.StringArrayVar(&set, "material", nil, "set a material quantity (name=quantity, repeatable)")
	fl.StringArrayVar(&remove, "remove-material", nil, "remove a material (repeatable)")
	return cmd
}

func newPresetDeleteCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "delete <operation>",
		Short: "Delete a preset",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := (preset.Editor{Store: a.presets}).Delete(args[0]); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "deleted preset %q\n", args[0])
			return nil
		},
	}
}
