package main

import (
	"fmt"
	"path/filepath"

	"github.com/dustin/go-humanize"
	"github.com/spf13/cobra"

	"bdsample/internal/sample"
)

func newPlanCommand(ctx *commandContext) *cobra.Command {
	opts := &sampleOptions{}
	cmd := &cobra.Command{
		Use:   "plan <disc>",
		Short: "Show what extract would copy",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			session, err := openSession(cmd.Context(), ctx, args[0], opts, newPrompter(cmd))
			if err != nil {
				return err
			}
			defer session.Close()

			job, err := session.plan()
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), renderPlan(job))
			return nil
		},
	}
	opts.register(cmd)
	return cmd
}

func renderPlan(job *sample.Job) string {
	rows := make([][]string, 0, len(job.Entries))
	for _, entry := range job.Entries {
		dest, err := filepath.Rel(job.TargetRoot, entry.Destination)
		if err != nil {
			dest = entry.Destination
		}
		rows = append(rows, []string{
			entry.Category.String(),
			entry.Source.Name(),
			dest,
			fmt.Sprint(entry.Limit),
			yesNo(entry.Truncated),
		})
	}
	table := renderTable(
		[]string{"Category", "Source", "Destination", "Bytes", "Truncated"},
		rows,
		[]columnAlignment{alignLeft, alignLeft, alignLeft, alignRight, alignLeft},
		[]string{"Total", fmt.Sprintf("%d files", len(job.Entries)), "", fmt.Sprint(job.TotalBytes), ""},
	)
	stream := job.Stream
	if stream == "" {
		stream = "(none)"
	}
	return fmt.Sprintf("Target: %s\nStream: %s\n%s\nPlanned: %s", job.OutputDir, stream, table, humanize.IBytes(uint64(job.TotalBytes)))
}
