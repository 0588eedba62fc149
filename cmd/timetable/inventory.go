package main

import (
	"fmt"
	"strconv"
	"strings"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/GoCodeAlone/timetable/inventory"
	"github.com/GoCodeAlone/timetable/material"
)

func newInventoryCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "inventory",
		Short: "Inspect and update material inventory",
	}
	cmd.AddCommand(&cobra.Command{
		Use:   "list",
		Short: "List inventory items",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			items, err := a.client.ListInventory(cmd.Context())
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			if len(items) == 0 {
				fmt.Fprintln(out, "no inventory")
				return nil
			}
			tw := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
			fmt.Fprintln(tw, "NAME\tQUANTITY")
			for _, it := range items {
				fmt.Fprintf(tw, "%s\t%s\n", it.Name, material.Format(it.Quantity, it.Unit))
			}
			return tw.Flush()
		},
	})
	cmd.AddCommand(&cobra.Command{
		Use:   "set <name> <quantity> [unit]",
		Short: "Set an item's quantity and unit",
		Args:  cobra.RangeArgs(2, 3),
		RunE: func(cmd *cobra.Command, args []string) error {
			qty, err := strconv.ParseFloat(args[1], 64)
			if err != nil {
				return fmt.Errorf("quantity %q: %w", args[1], err)
			}
			item := inventory.Item{Name: args[0], Quantity: qty}
			if len(args) == 3 {
				item.Unit = args[2]
			}
			if err := a.client.PutInventoryItem(cmd.Context(), item); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "%s: %s\n", item.Name, material.Format(item.Quantity, item.Unit))
			return nil
		},
	})
	cmd.AddCommand(&cobra.Command{
		Use:   "check <name=quantity>...",
		Short: "Check required materials against the inventory",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			materials, err := materialsFromPairs(args)
			if err != nil {
				return err
			}
			res, err := a.client.CheckMaterials(cmd.Context(), materials)
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			tw := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
			fmt.Fprintln(tw, "MATERIAL\tREQUIRED\tLEFT AFTER")
			for _, r := range res.Rows {
				fmt.Fprintf(tw, "%s\t%s\t%s\n", r.Name, r.Quantity, r.Display)
			}
			tw.Flush() //nolint:errcheck
			if res.CanSubmit {
				fmt.Fprintln(out, "ok: every material is in inventory")
			} else {
				fmt.Fprintf(out, "blocked: not in inventory: %s\n", strings.Join(res.Missing, ", "))
			}
			return nil
		},
	})
	return cmd
}
