package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var testEmailCmd = &cobra.Command{
	Use:   "test-email",
	Short: "Send a test notification to verify the Gmail wiring",
	RunE:  runTestEmail,
}

func init() {
	rootCmd.AddCommand(testEmailCmd)
}

func runTestEmail(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()
	app, cleanup, err := buildApp(ctx, false)
	if err != nil {
		return err
	}
	defer cleanup()

	if err := app.mailer.Test(ctx); err != nil {
		return err
	}

	fmt.Fprintf(os.Stdout, "Test email sent to %s\n", app.cfg.UserEmail)
	return nil
}
