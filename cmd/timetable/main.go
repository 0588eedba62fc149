// Command timetable is the timetable CLI client.
package main

import (
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/GoCodeAlone/timetable/client"
	"github.com/GoCodeAlone/timetable/config"
	"github.com/GoCodeAlone/timetable/internal/logging"
	"github.com/GoCodeAlone/timetable/internal/version"
	"github.com/GoCodeAlone/timetable/preset"
	"github.com/GoCodeAlone/timetable/update"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}

// app is the state shared by every subcommand, set up before each run.
type app struct {
	configPath  string
	serverURL   string
	presetsPath string
	verbose     bool

	cfg     *config.Config
	logger  *zap.Logger
	client  *client.Client
	presets preset.Store
	loc     *time.Location
	now     func() time.Time
}

func newRootCmd() *cobra.Command {
	a := &app{now: time.Now}

	root := &cobra.Command{
		Use:           "timetable",
		Short:         "Schedule production tasks against operators, presets, and inventory",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			return a.setup()
		},
		PersistentPostRun: func(_ *cobra.Command, _ []string) {
			if a.logger != nil {
				_ = a.logger.Sync()
			}
		},
	}

	pf := root.PersistentFlags()
	pf.StringVar(&a.configPath, "config", "", "path to config file")
	pf.StringVar(&a.serverURL, "server", "", "timetable server URL (overrides config)")
	pf.StringVar(&a.presetsPath, "presets", "", "preset storage file (overrides config)")
	pf.BoolVarP(&a.verbose, "verbose", "v", false, "enable debug logging")

	root.AddCommand(
		newVersionCmd(),
		newStatusCmd(a),
		newTasksCmd(a),
		newTaskCmd(a),
		newInventoryCmd(a),
		newPresetCmd(a),
		newSuggestCmd(a),
	)
	return root
}

func (a *app) setup() error {
	cfg, err := config.LoadOrDefault(a.configPath)
	if err != nil {
		return err
	}
	if a.serverURL != "" {
		cfg.Client.ServerURL = a.serverURL
	}
	if a.presetsPath != "" {
		cfg.Client.PresetsPath = a.presetsPath
	}
	a.cfg = cfg

	level := "warn"
	if a.verbose {
		level = "debug"
	}
	if a.logger, err = logging.New(level, true); err != nil {
		return err
	}
	if a.loc, err = cfg.Location(); err != nil {
		return err
	}

	a.client = client.New(cfg.Client.ServerURL, cfg.Client.Timeout)
	if a.presets == nil {
		a.presets = preset.OpenFileStore(cfg.Client.PresetsPath, a.logger.Named("presets"))
	}
	a.logger.Debug("client ready",
		zap.String("server", cfg.Client.ServerURL),
		zap.String("presets", cfg.Client.PresetsPath))
	return nil
}

func newVersionCmd() *cobra.Command {
	var check bool
	cmd := &cobra.Command{
		Use:   "version",
		Short: "Print version",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "timetable %s (commit %s, built %s)\n",
				version.Version, version.Commit, version.BuildDate)
			if !check {
				return nil
			}
			rel, err := update.New(version.Version).Latest(cmd.Context())
			if err != nil {
				return err
			}
			if rel == nil {
				fmt.Fprintln(out, "up to date")
				return nil
			}
			fmt.Fprintf(out, "newer release available: %s\n", rel.Version)
			if rel.URL != "" {
				fmt.Fprintf(out, "download: %s\n", rel.URL)
			}
			return nil
		},
	}
	cmd.Flags().BoolVar(&check, "check", false, "check GitHub for a newer release")
	return cmd
}

func newStatusCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "status",
		Short: "Show server status",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			st, err := a.client.Status(cmd.Context())
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "status:      %s\n", st.Status)
			fmt.Fprintf(out, "version:     %s\n", st.Version)
			fmt.Fprintf(out, "uptime:      %s\n", st.Uptime)
			fmt.Fprintf(out, "suggestions: %t\n", st.Suggester)
			return nil
		},
	}
}
