package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var checkCmd = &cobra.Command{
	Use:   "check",
	Short: "Check the status of submitted applications",
	Long:  "Scan each job marked Applied for status changes on its platform tracker. Changes update the sheet and fan out to the audit log and email.",
	RunE:  runCheck,
}

var checkDryRun bool

func init() {
	checkCmd.Flags().BoolVar(&checkDryRun, "dry-run", false, "Simulate the check without opening a browser or writing anywhere")

	rootCmd.AddCommand(checkCmd)
}

func runCheck(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()
	app, cleanup, err := buildApp(ctx, checkDryRun)
	if err != nil {
		return err
	}
	defer cleanup()

	changed, err := app.wf.CheckStatuses(ctx)
	if err != nil {
		return err
	}

	fmt.Fprintf(os.Stdout, "Status check complete: %d change(s) detected\n", changed)
	return nil
}
