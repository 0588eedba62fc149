package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"
)

func newSuggestCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:     "suggest <requirement>...",
		Short:   "Ask for a start time that fits around the existing tasks",
		Example: `  timetable suggest "Sanding for 2 hours, operator bob, before Friday"`,
		Args:    cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			sug, err := a.client.Suggest(cmd.Context(), strings.Join(args, " "))
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "suggested start: %s\n", sug.SuggestedStartTime.In(a.loc).Format("2006-01-02 15:04 MST"))
			if sug.Reason != "" {
				fmt.Fprintf(out, "reason: %s\n", sug.Reason)
			}
			return nil
		},
	}
}
