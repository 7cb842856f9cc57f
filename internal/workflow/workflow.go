// Package workflow orchestrates the two pipelines: applying to pending jobs
// and re-checking the status of submitted ones. It owns batching, platform
// grouping, session reuse, and the fan-out to sheet, audit log and email.
package workflow

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/jonathan/apply-agent/internal/browser"
	"github.com/jonathan/apply-agent/internal/config"
	"github.com/jonathan/apply-agent/internal/platform"
	"github.com/jonathan/apply-agent/internal/tracker"
	"github.com/jonathan/apply-agent/internal/types"
)

// Notes for jobs that never reach a browser.
const (
	noteUnsupported = "Unsupported platform - apply manually via Job_URL"
	noteDryRun      = "Dry run - no actual application sent"
)

const dateLayout = "2006-01-02"

// JobSource reads jobs and writes outcomes back to the tracking sheet.
type JobSource interface {
	List(ctx context.Context, statusFilter string) ([]types.JobRecord, error)
	MarkApplied(ctx context.Context, job types.JobRecord, result types.Result) error
	MarkStatusChanged(ctx context.Context, job types.JobRecord, newStatus, checkDate string) error
	TouchLastChecked(ctx context.Context, job types.JobRecord, checkDate string) error
}

// AuditLog records history the sheet overwrites.
type AuditLog interface {
	RecordApplication(ctx context.Context, job types.JobRecord, result types.Result) error
	RecordStatusChange(ctx context.Context, job types.JobRecord, oldStatus, newStatus, notes string) error
}

// Notifier delivers per-event emails.
type Notifier interface {
	ApplicationUpdate(ctx context.Context, job types.JobRecord, result types.Result) error
	StatusChanged(ctx context.Context, job types.JobRecord, oldStatus, newStatus, notes string) error
}

// Sessions opens authenticated browser sessions.
type Sessions interface {
	WithSession(ctx context.Context, profile *platform.Profile, creds browser.Credentials, fn func(browser.Page) error) error
}

// StatusChecker inspects one applied job for a status change.
type StatusChecker interface {
	Check(ctx context.Context, job types.JobRecord) (tracker.Report, error)
}

// Letters renders per-job cover letters.
type Letters interface {
	Render(job types.JobRecord) (string, error)
}

// Applier walks the apply form for one job on an open page.
type Applier interface {
	Apply(page browser.Page, job types.JobRecord, letter string) types.Result
}

// Summary counts one run's outcomes.
type Summary struct {
	Attempted int
	Succeeded int
	Failed    int
}

// Workflow wires the collaborators together. Audit and notifier are
// optional; a nil value disables that sink.
type Workflow struct {
	cfg      *config.Config
	source   JobSource
	audit    AuditLog
	notifier Notifier
	sessions Sessions
	checker  StatusChecker
	letters  Letters
	log      *zap.Logger

	newApplier func(profile *platform.Profile) Applier
}

// New returns a workflow over the given collaborators.
func New(cfg *config.Config, source JobSource, audit AuditLog, notifier Notifier, sessions Sessions, checker StatusChecker, letters Letters, log *zap.Logger) *Workflow {
	w := &Workflow{
		cfg:      cfg,
		source:   source,
		audit:    audit,
		notifier: notifier,
		sessions: sessions,
		checker:  checker,
		letters:  letters,
		log:      log,
	}
	w.newApplier = func(profile *platform.Profile) Applier {
		return browser.NewDriver(profile, cfg.ResumePath, cfg.MaxFormSteps, log)
	}
	return w
}

// ApplyPending applies to pending jobs up to the per-run cap, grouped by
// platform so each platform logs in at most once. Every attempted job ends
// with exactly one recorded outcome.
func (w *Workflow) ApplyPending(ctx context.Context) (Summary, error) {
	jobs, err := w.source.List(ctx, types.StatusNotApplied)
	if err != nil {
		return Summary{}, fmt.Errorf("listing pending jobs: %w", err)
	}
	if len(jobs) == 0 {
		w.log.Info("no pending jobs")
		return Summary{}, nil
	}

	if len(jobs) > w.cfg.MaxApplicationsPerRun {
		w.log.Info("capping batch",
			zap.Int("pending", len(jobs)),
			zap.Int("cap", w.cfg.MaxApplicationsPerRun))
		jobs = jobs[:w.cfg.MaxApplicationsPerRun]
	}

	var summary Summary
	order, groups := platform.GroupJobs(jobs)
	for _, pf := range order {
		w.applyGroup(ctx, pf, groups[pf], &summary)
	}

	w.log.Info("apply run finished",
		zap.Int("attempted", summary.Attempted),
		zap.Int("succeeded", summary.Succeeded),
		zap.Int("failed", summary.Failed))
	return summary, nil
}

// ApplyOne applies to a single job by its sheet id, bypassing the batch cap.
func (w *Workflow) ApplyOne(ctx context.Context, jobID string) (Summary, error) {
	jobs, err := w.source.List(ctx, types.StatusNotApplied)
	if err != nil {
		return Summary{}, fmt.Errorf("listing pending jobs: %w", err)
	}

	for _, job := range jobs {
		if job.JobID != jobID {
			continue
		}
		var summary Summary
		pf := platform.ClassifyJob(&job)
		w.applyGroup(ctx, pf, []types.JobRecord{job}, &summary)
		return summary, nil
	}
	return Summary{}, fmt.Errorf("no pending job with id %s", jobID)
}

// applyGroup runs one platform's slice of the batch. Dry runs and
// unsupported boards are resolved without opening a browser.
func (w *Workflow) applyGroup(ctx context.Context, pf platform.Platform, jobs []types.JobRecord, summary *Summary) {
	if pf == platform.Generic {
		for _, job := range jobs {
			w.finish(ctx, job, types.Failure(string(pf), noteUnsupported), summary)
		}
		return
	}
	if w.cfg.DryRun {
		for _, job := range jobs {
			w.finish(ctx, job, types.Success(string(pf), noteDryRun), summary)
		}
		return
	}

	profile, ok := platform.Lookup(pf)
	if !ok {
		for _, job := range jobs {
			w.finish(ctx, job, types.Failure(string(pf), noteUnsupported), summary)
		}
		return
	}

	username, password := w.cfg.Login(string(pf))
	if username == "" || password == "" {
		w.log.Warn("missing credentials", zap.String("platform", string(pf)))
		for _, job := range jobs {
			w.finish(ctx, job, types.Failure(string(pf), "Missing credentials for "+string(pf)), summary)
		}
		return
	}

	applier := w.newApplier(profile)
	creds := browser.Credentials{Username: username, Password: password}

	processed := 0
	err := w.sessions.WithSession(ctx, profile, creds, func(page browser.Page) error {
		for _, job := range jobs {
			letter, err := w.letters.Render(job)
			if err != nil {
				w.log.Warn("cover letter render failed, applying without one",
					zap.String("job_id", job.JobID), zap.Error(err))
				letter = ""
			}
			w.finish(ctx, job, applier.Apply(page, job, letter), summary)
			processed++
		}
		return nil
	})
	if err != nil {
		// Login failed, or the browser died mid-batch. Jobs already
		// processed keep their recorded outcomes.
		w.log.Error("platform session failed",
			zap.String("platform", string(pf)),
			zap.Int("processed", processed),
			zap.Error(err))
		for _, job := range jobs[processed:] {
			w.finish(ctx, job, types.Failure(string(pf), fmt.Sprintf("Login failed: %v", err)), summary)
		}
	}
}

// finish records one job's single outcome across all sinks. The sheet write
// is the authoritative one; audit and email failures are logged and
// swallowed so one sink cannot poison the batch.
func (w *Workflow) finish(ctx context.Context, job types.JobRecord, result types.Result, summary *Summary) {
	summary.Attempted++
	if result.Succeeded() {
		summary.Succeeded++
	} else {
		summary.Failed++
	}

	if err := w.source.MarkApplied(ctx, job, result); err != nil {
		w.log.Error("sheet update failed",
			zap.String("job_id", job.JobID), zap.Error(err))
	}
	if w.audit != nil {
		if err := w.audit.RecordApplication(ctx, job, result); err != nil {
			w.log.Warn("audit write failed",
				zap.String("job_id", job.JobID), zap.Error(err))
		}
	}
	if w.notifier != nil {
		if err := w.notifier.ApplicationUpdate(ctx, job, result); err != nil {
			w.log.Warn("notification failed",
				zap.String("job_id", job.JobID), zap.Error(err))
		}
	}
}

// CheckStatuses re-checks every applied job. Changes move the sheet status
// and fan out to audit and email; unchanged jobs just get a fresh
// last-checked stamp.
func (w *Workflow) CheckStatuses(ctx context.Context) (int, error) {
	jobs, err := w.source.List(ctx, types.StatusApplied)
	if err != nil {
		return 0, fmt.Errorf("listing applied jobs: %w", err)
	}
	if len(jobs) == 0 {
		w.log.Info("no applied jobs to check")
		return 0, nil
	}

	changed := 0
	for _, job := range jobs {
		report, err := w.checker.Check(ctx, job)
		if err != nil {
			w.log.Warn("status check errored",
				zap.String("job_id", job.JobID), zap.Error(err))
			continue
		}

		checkDate := report.CheckDate
		if checkDate == "" {
			checkDate = time.Now().Format(dateLayout)
		}

		if !report.Changed() {
			if err := w.source.TouchLastChecked(ctx, job, checkDate); err != nil {
				w.log.Warn("last-checked stamp failed",
					zap.String("job_id", job.JobID), zap.Error(err))
			}
			continue
		}

		changed++
		if err := w.source.MarkStatusChanged(ctx, job, report.NewStatus, checkDate); err != nil {
			w.log.Error("sheet status update failed",
				zap.String("job_id", job.JobID), zap.Error(err))
		}
		if w.audit != nil {
			if err := w.audit.RecordStatusChange(ctx, job, job.Status, report.NewStatus, report.Notes); err != nil {
				w.log.Warn("audit write failed",
					zap.String("job_id", job.JobID), zap.Error(err))
			}
		}
		if w.notifier != nil {
			if err := w.notifier.StatusChanged(ctx, job, job.Status, report.NewStatus, report.Notes); err != nil {
				w.log.Warn("notification failed",
					zap.String("job_id", job.JobID), zap.Error(err))
			}
		}
	}

	w.log.Info("status check finished",
		zap.Int("checked", len(jobs)),
		zap.Int("changed", changed))
	return changed, nil
}
