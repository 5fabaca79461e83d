package main

import (
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"curator/internal/api"
)

func newJobsCommand(ctx *commandContext) *cobra.Command {
	var jsonOut bool

	cmd := &cobra.Command{
		Use:   "jobs [id]",
		Short: "List scan jobs or show one job in detail",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			client := ctx.client()

			if len(args) == 1 {
				job, err := client.job(cmd.Context(), args[0])
				if err != nil {
					return err
				}
				if jsonOut {
					return writeJSON(cmd, job)
				}
				printJobSummary(cmd, job)
				return nil
			}

			jobs, err := client.jobs(cmd.Context())
			if err != nil {
				return err
			}
			if jsonOut {
				return writeJSON(cmd, jobs)
			}
			if len(jobs) == 0 {
				fmt.Fprintln(cmd.OutOrStdout(), "No scan jobs recorded")
				return nil
			}
			fmt.Fprintln(cmd.OutOrStdout(), renderJobsTable(jobs))
			return nil
		},
	}

	cmd.Flags().BoolVar(&jsonOut, "json", false, "Emit JSON output")
	return cmd
}

func renderJobsTable(jobs []api.ScanJob) string {
	headers := []string{"ID", "STATUS", "FILES", "MOVIES", "TV", "UNCAT", "ERRORS", "STARTED"}
	aligns := []columnAlignment{alignLeft, alignLeft, alignRight, alignRight, alignRight, alignRight, alignRight, alignLeft}

	rows := make([][]string, 0, len(jobs))
	for _, job := range jobs {
		rows = append(rows, []string{
			job.ID,
			job.Status,
			fmt.Sprintf("%d/%d", job.ProcessedFiles, job.TotalFiles),
			strconv.Itoa(job.Stats.Movies),
			strconv.Itoa(job.Stats.TVEpisodes),
			strconv.Itoa(job.Stats.Uncategorized),
			strconv.Itoa(job.Stats.Errors),
			job.StartedAt,
		})
	}
	return renderTable(headers, rows, aligns)
}
