package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/jonathan/apply-agent/internal/schedule"
)

var scheduleCmd = &cobra.Command{
	Use:   "schedule",
	Short: "Run the agent on its daily schedule",
	Long:  "Run continuously: apply to pending jobs on weekday mornings and re-check application statuses every few days, until interrupted.",
	RunE:  runSchedule,
}

func init() {
	rootCmd.AddCommand(scheduleCmd)
}

func runSchedule(cmd *cobra.Command, args []string) error {
	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	app, cleanup, err := buildApp(ctx, false)
	if err != nil {
		return err
	}
	defer cleanup()

	fmt.Fprintf(os.Stdout, "Job application agent running\n")
	fmt.Fprintf(os.Stdout, "  applications: weekdays at %02d:%02d UTC\n", app.cfg.ApplyHour, app.cfg.ApplyMinute)
	fmt.Fprintf(os.Stdout, "  status checks: every %d day(s) at %02d:00 UTC\n", app.cfg.StatusCheckIntervalDays, app.cfg.StatusCheckHour)
	fmt.Fprintf(os.Stdout, "Press Ctrl+C to stop\n")

	runner := schedule.NewRunner(
		func(ctx context.Context) error {
			_, err := app.wf.ApplyPending(ctx)
			return err
		},
		func(ctx context.Context) error {
			_, err := app.wf.CheckStatuses(ctx)
			return err
		},
		app.log,
	)

	return runner.Start(ctx, app.cfg.ApplyHour, app.cfg.ApplyMinute, app.cfg.StatusCheckHour, app.cfg.StatusCheckIntervalDays)
}
