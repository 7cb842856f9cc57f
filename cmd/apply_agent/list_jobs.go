package main

import (
	"os"

	"github.com/spf13/cobra"

	"github.com/jonathan/apply-agent/internal/observability"
	"github.com/jonathan/apply-agent/internal/types"
)

var listJobsCmd = &cobra.Command{
	Use:   "list-jobs",
	Short: "List jobs waiting for an application",
	RunE:  runListJobs,
}

var listRecent int

func init() {
	listJobsCmd.Flags().IntVar(&listRecent, "recent", 0, "Also show the N most recent attempts from the audit log")

	rootCmd.AddCommand(listJobsCmd)
}

func runListJobs(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()
	app, cleanup, err := buildApp(ctx, false)
	if err != nil {
		return err
	}
	defer cleanup()

	jobs, err := app.source.List(ctx, types.StatusNotApplied)
	if err != nil {
		return err
	}

	printer := observability.NewPrinter(os.Stdout)
	printer.PrintPendingJobs(jobs)

	if listRecent > 0 && app.db != nil {
		rows, err := app.db.RecentApplications(ctx, listRecent)
		if err != nil {
			return err
		}
		printer.PrintRecentApplications(rows)
	}
	return nil
}
