package main

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"curator/internal/api"
	"curator/internal/config"
	"curator/internal/library"
)

func newScanCommand(ctx *commandContext) *cobra.Command {
	var jsonOut bool
	var wait bool

	cmd := &cobra.Command{
		Use:   "scan <directory>",
		Short: "Trigger a scan of a directory",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			root, err := config.ExpandPath(args[0])
			if err != nil {
				return fmt.Errorf("resolve scan path: %w", err)
			}

			client := ctx.client()
			job, err := client.startScan(cmd.Context(), root)
			if err != nil {
				return err
			}

			if !wait {
				if jsonOut {
					return writeJSON(cmd, job)
				}
				fmt.Fprintf(cmd.OutOrStdout(), "Scan job %s started\n", job.ID)
				return nil
			}

			final, err := waitForJob(cmd, client, job.ID)
			if err != nil {
				return err
			}
			if jsonOut {
				return writeJSON(cmd, final)
			}
			printJobSummary(cmd, final)
			return nil
		},
	}

	cmd.Flags().BoolVar(&jsonOut, "json", false, "Emit JSON output")
	cmd.Flags().BoolVar(&wait, "wait", false, "Block until the scan finishes")
	return cmd
}

func waitForJob(cmd *cobra.Command, client *apiClient, id string) (api.ScanJob, error) {
	ticker := time.NewTicker(500 * time.Millisecond)
	defer ticker.Stop()

	for {
		select {
		case <-cmd.Context().Done():
			return api.ScanJob{}, cmd.Context().Err()
		case <-ticker.C:
		}

		job, err := client.job(cmd.Context(), id)
		if err != nil {
			return api.ScanJob{}, err
		}
		switch library.JobStatus(job.Status) {
		case library.JobCompleted, library.JobFailed:
			return job, nil
		}
	}
}

func printJobSummary(cmd *cobra.Command, job api.ScanJob) {
	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "Scan job %s %s\n", job.ID, job.Status)
	if job.ErrorMessage != "" {
		fmt.Fprintf(out, "  error: %s\n", job.ErrorMessage)
		return
	}
	fmt.Fprintf(out, "  files:         %d/%d\n", job.ProcessedFiles, job.TotalFiles)
	fmt.Fprintf(out, "  movies:        %d\n", job.Stats.Movies)
	fmt.Fprintf(out, "  tv episodes:   %d\n", job.Stats.TVEpisodes)
	fmt.Fprintf(out, "  uncategorized: %d\n", job.Stats.Uncategorized)
	fmt.Fprintf(out, "  errors:        %d\n", job.Stats.Errors)
	for _, jobErr := range job.Errors {
		fmt.Fprintf(out, "    %s: %s\n", jobErr.Path, jobErr.Error)
	}
}
