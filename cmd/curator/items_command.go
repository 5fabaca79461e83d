package main

import (
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"curator/internal/api"
)

func newItemsCommand(ctx *commandContext) *cobra.Command {
	var jsonOut bool
	var statusFilter string

	cmd := &cobra.Command{
		Use:   "items",
		Short: "List tracked library items",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			items, err := ctx.client().items(cmd.Context(), statusFilter)
			if err != nil {
				return err
			}
			if jsonOut {
				return writeJSON(cmd, items)
			}
			if len(items) == 0 {
				fmt.Fprintln(cmd.OutOrStdout(), "No library items recorded")
				return nil
			}
			fmt.Fprintln(cmd.OutOrStdout(), renderItemsTable(items))
			return nil
		},
	}

	cmd.Flags().BoolVar(&jsonOut, "json", false, "Emit JSON output")
	cmd.Flags().StringVar(&statusFilter, "status", "", "Filter by status (organized, uncategorized)")
	return cmd
}

func renderItemsTable(items []api.Item) string {
	headers := []string{"TITLE", "TYPE", "STATUS", "YEAR", "QUALITY", "REASON", "PATH"}
	aligns := []columnAlignment{alignLeft, alignLeft, alignLeft, alignRight, alignLeft, alignLeft, alignLeft}

	rows := make([][]string, 0, len(items))
	for _, item := range items {
		title := ""
		year := ""
		if item.Identification != nil {
			title = item.Identification.Title
			if item.Identification.Year > 0 {
				year = strconv.Itoa(item.Identification.Year)
			}
		}
		rows = append(rows, []string{
			title,
			item.Type,
			item.Status,
			year,
			item.Quality,
			item.Reason,
			item.Path,
		})
	}
	return renderTable(headers, rows, aligns)
}
