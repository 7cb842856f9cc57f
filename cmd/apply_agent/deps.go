package main

import (
	"context"
	"fmt"
	"os"

	"go.uber.org/zap"
	"google.golang.org/api/gmail/v1"
	"google.golang.org/api/option"
	sheetsapi "google.golang.org/api/sheets/v4"

	"github.com/jonathan/apply-agent/internal/browser"
	"github.com/jonathan/apply-agent/internal/config"
	"github.com/jonathan/apply-agent/internal/googleauth"
	"github.com/jonathan/apply-agent/internal/letter"
	"github.com/jonathan/apply-agent/internal/notify"
	"github.com/jonathan/apply-agent/internal/sheets"
	"github.com/jonathan/apply-agent/internal/store"
	"github.com/jonathan/apply-agent/internal/tracker"
	"github.com/jonathan/apply-agent/internal/workflow"
)

// app bundles the wired components behind the CLI commands.
type app struct {
	cfg    *config.Config
	log    *zap.Logger
	source *sheets.Source
	mailer *notify.Mailer
	db     *store.Store
	wf     *workflow.Workflow
}

// buildApp loads configuration and wires every component. The returned
// cleanup flushes the logger and closes the database.
func buildApp(ctx context.Context, dryRunOverride bool) (*app, func(), error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, nil, err
	}
	if dryRunOverride {
		cfg.DryRun = true
	}
	if err := cfg.Validate(); err != nil {
		return nil, nil, err
	}

	log, err := newLogger()
	if err != nil {
		return nil, nil, err
	}

	client, err := googleauth.Client(ctx, cfg.CredentialsPath, cfg.TokenPath, log,
		sheetsapi.SpreadsheetsScope, gmail.GmailSendScope)
	if err != nil {
		return nil, nil, fmt.Errorf("authenticating with Google: %w", err)
	}

	sheetsSvc, err := sheetsapi.NewService(ctx, option.WithHTTPClient(client))
	if err != nil {
		return nil, nil, fmt.Errorf("creating Sheets service: %w", err)
	}
	gmailSvc, err := gmail.NewService(ctx, option.WithHTTPClient(client))
	if err != nil {
		return nil, nil, fmt.Errorf("creating Gmail service: %w", err)
	}

	source := sheets.NewSource(sheetsSvc, cfg.SheetID, cfg.SheetName, cfg.SheetRange, cfg.DryRun, log)
	mailer := notify.NewMailer(gmailSvc, cfg.UserEmail, cfg.DryRun, log)

	letters, err := letter.NewRenderer(cfg.ApplicantName, cfg.Skills, cfg.LetterTemplatePath)
	if err != nil {
		return nil, nil, err
	}

	var db *store.Store
	if cfg.DatabaseURL != "" {
		db, err = store.Connect(ctx, cfg.DatabaseURL, log)
		if err != nil {
			return nil, nil, err
		}
		if err := db.EnsureSchema(ctx); err != nil {
			db.Close()
			return nil, nil, err
		}
	} else {
		log.Warn("DATABASE_URL not set, audit log disabled")
	}

	sessions := browser.NewManager(log)
	liUser, liPass := cfg.Login("linkedin")
	checker := tracker.NewChecker(sessions,
		browser.Credentials{Username: liUser, Password: liPass}, cfg.DryRun, log)

	// A nil *store.Store must stay a nil interface inside the workflow.
	var audit workflow.AuditLog
	if db != nil {
		audit = db
	}

	wf := workflow.New(cfg, source, audit, mailer, sessions, checker, letters, log)

	a := &app{cfg: cfg, log: log, source: source, mailer: mailer, db: db, wf: wf}
	cleanup := func() {
		if db != nil {
			db.Close()
		}
		_ = log.Sync()
	}
	return a, cleanup, nil
}

func newLogger() (*zap.Logger, error) {
	if verbose || os.Getenv("DEBUG") == "true" {
		return zap.NewDevelopment()
	}
	return zap.NewProduction()
}
