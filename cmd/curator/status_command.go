package main

import (
	"fmt"

	"github.com/spf13/cobra"
)

func newStatusCommand(ctx *commandContext) *cobra.Command {
	var jsonOut bool

	cmd := &cobra.Command{
		Use:   "status",
		Short: "Show daemon status",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			status, err := ctx.client().status(cmd.Context())
			if err != nil {
				return err
			}
			if jsonOut {
				return writeJSON(cmd, status)
			}

			out := cmd.OutOrStdout()
			colorize := shouldColorize(out)

			runningKind := statusError
			runningMsg := "stopped"
			if status.Running {
				runningKind = statusOK
				runningMsg = fmt.Sprintf("pid %d", status.PID)
			}
			fmt.Fprintln(out, renderStatusLine("Daemon", runningKind, runningMsg, colorize))
			fmt.Fprintln(out, renderStatusLine("Library DB", statusInfo, status.LibraryDBPath, colorize))
			fmt.Fprintln(out, renderStatusLine("Lock file", statusInfo, status.LockFilePath, colorize))

			if status.ActiveJob != nil {
				progress := fmt.Sprintf("%s %d/%d files", status.ActiveJob.ID, status.ActiveJob.ProcessedFiles, status.ActiveJob.TotalFiles)
				fmt.Fprintln(out, renderStatusLine("Active scan", statusWarn, progress, colorize))
			} else {
				fmt.Fprintln(out, renderStatusLine("Active scan", statusOK, "idle", colorize))
			}

			organized := status.ItemCounts["organized"]
			uncategorized := status.ItemCounts["uncategorized"]
			fmt.Fprintln(out, renderStatusLine("Organized", statusInfo, fmt.Sprintf("%d items", organized), colorize))
			kind := statusOK
			if uncategorized > 0 {
				kind = statusWarn
			}
			fmt.Fprintln(out, renderStatusLine("Uncategorized", kind, fmt.Sprintf("%d items", uncategorized), colorize))
			return nil
		},
	}

	cmd.Flags().BoolVar(&jsonOut, "json", false, "Emit JSON output")
	return cmd
}
