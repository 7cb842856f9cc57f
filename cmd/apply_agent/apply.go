package main

import (
	"os"

	"github.com/spf13/cobra"

	"github.com/jonathan/apply-agent/internal/observability"
	"github.com/jonathan/apply-agent/internal/workflow"
)

var applyCmd = &cobra.Command{
	Use:   "apply",
	Short: "Apply to pending jobs from the tracking sheet",
	Long:  "Apply to jobs marked Not Applied, grouped by platform so each platform logs in once. Outcomes are written back to the sheet, the audit log, and email.",
	RunE:  runApply,
}

var (
	applyDryRun bool
	applyJobID  string
)

func init() {
	applyCmd.Flags().BoolVar(&applyDryRun, "dry-run", false, "Simulate the run without opening a browser or writing anywhere")
	applyCmd.Flags().StringVar(&applyJobID, "job", "", "Apply to a single job by its Job ID, ignoring the batch cap")

	rootCmd.AddCommand(applyCmd)
}

func runApply(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()
	app, cleanup, err := buildApp(ctx, applyDryRun)
	if err != nil {
		return err
	}
	defer cleanup()

	var summary workflow.Summary
	if applyJobID != "" {
		summary, err = app.wf.ApplyOne(ctx, applyJobID)
	} else {
		summary, err = app.wf.ApplyPending(ctx)
	}
	if err != nil {
		return err
	}

	observability.NewPrinter(os.Stdout).PrintRunSummary(summary.Attempted, summary.Succeeded, summary.Failed)
	return nil
}
