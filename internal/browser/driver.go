// Package browser - driver.go walks a platform's multi-step apply form.
package browser

import (
	"fmt"
	"os"

	"go.uber.org/zap"

	"github.com/jonathan/apply-agent/internal/platform"
	"github.com/jonathan/apply-agent/internal/types"
)

// Notes reported on results the workflow surfaces back to the sheet.
const (
	noteNoApplyButton = "No apply button found - may require external application"
	noteFormStuck     = "Could not complete apply form - check job manually"
)

const fileInputSelector = `input[type="file"]`

// driveState tracks where the form driver is in an application attempt.
type driveState int

const (
	stateNotStarted driveState = iota
	stateNavigated
	stateFormStep
	stateSubmitted
	stateNoApplyButton
	stateStuck
)

// Driver applies to a single job through an already-authenticated page. It
// clicks the platform's apply button, then advances the bounded form loop:
// on each step it uploads the resume if a file input is present, pastes the
// cover letter if a textarea is present, and prefers submitting over
// advancing when both controls are visible.
type Driver struct {
	profile    *platform.Profile
	resumePath string
	maxSteps   int
	log        *zap.Logger
}

// NewDriver returns a form driver for one platform.
func NewDriver(profile *platform.Profile, resumePath string, maxSteps int, log *zap.Logger) *Driver {
	if maxSteps < 1 {
		maxSteps = 1
	}
	return &Driver{profile: profile, resumePath: resumePath, maxSteps: maxSteps, log: log}
}

// Apply runs the full attempt for one job and always returns exactly one
// Result. Timeouts and page failures become Failure results, never
// panics or partial states.
func (d *Driver) Apply(page Page, job types.JobRecord, letter string) types.Result {
	d.log.Info("applying",
		zap.String("job_id", job.JobID),
		zap.String("company", job.Company),
		zap.String("platform", string(d.profile.ID)))

	result, err := d.drive(page, job, letter)
	if err != nil {
		if IsTimeout(err) {
			return types.Failure(string(d.profile.ID), fmt.Sprintf("Timeout: %v", err))
		}
		return types.Failure(string(d.profile.ID), fmt.Sprintf("Error: %v", err))
	}
	return result
}

func (d *Driver) drive(page Page, job types.JobRecord, letter string) (types.Result, error) {
	state := stateNotStarted
	step := 0

	for {
		switch state {
		case stateNotStarted:
			if err := page.Navigate(job.URL, navigateTimeout); err != nil {
				return types.Result{}, err
			}
			if err := page.Settle(settleTimeout); err != nil {
				return types.Result{}, err
			}
			state = stateNavigated

		case stateNavigated:
			if !page.Visible(d.profile.ApplyButton, applyButtonTimeout) {
				state = stateNoApplyButton
				continue
			}
			if err := page.Click(d.profile.ApplyButton); err != nil {
				return types.Result{}, err
			}
			if err := page.WaitReady(domReadyTimeout); err != nil {
				return types.Result{}, err
			}
			// Some boards open the application in a fresh tab; follow it
			// once, then stay put. Probed only after DOM-ready so a slow
			// popup is not missed.
			if n, err := page.TabCount(); err == nil && n > 1 {
				if err := page.ActivateNewestTab(); err != nil {
					return types.Result{}, err
				}
				if err := page.Settle(settleTimeout); err != nil {
					return types.Result{}, err
				}
			}
			state = stateFormStep

		case stateFormStep:
			if step >= d.maxSteps {
				state = stateStuck
				continue
			}
			step++

			// Upload and cover-letter checks run on every step: forms can
			// present a file input or a free-text field on any screen.
			if err := d.uploadResume(page); err != nil {
				return types.Result{}, err
			}
			if letter != "" {
				d.pasteLetter(page, letter)
			}

			// Submit wins over advancing when both are on screen.
			if page.Visible(d.profile.FormSubmit, probeTimeout) {
				if err := page.Click(d.profile.FormSubmit); err != nil {
					return types.Result{}, err
				}
				if err := page.Settle(settleTimeout); err != nil {
					return types.Result{}, err
				}
				state = stateSubmitted
				continue
			}
			if page.Visible(d.profile.FormNext, probeTimeout) {
				if err := page.Click(d.profile.FormNext); err != nil {
					return types.Result{}, err
				}
				if err := page.Settle(settleTimeout); err != nil {
					return types.Result{}, err
				}
				continue
			}
			state = stateStuck

		case stateSubmitted:
			d.log.Info("application submitted",
				zap.String("job_id", job.JobID),
				zap.Int("steps", step))
			return types.Success(string(d.profile.ID), d.profile.AppliedNote), nil

		case stateNoApplyButton:
			d.log.Warn("no apply button", zap.String("job_id", job.JobID))
			return types.Failure(string(d.profile.ID), noteNoApplyButton), nil

		case stateStuck:
			d.log.Warn("form did not complete",
				zap.String("job_id", job.JobID),
				zap.Int("steps", step))
			return types.Failure(string(d.profile.ID), noteFormStuck), nil
		}
	}
}

// uploadResume attaches the configured resume when the current step exposes
// a file input.
func (d *Driver) uploadResume(page Page) error {
	if d.resumePath == "" {
		return nil
	}
	if _, err := os.Stat(d.resumePath); err != nil {
		d.log.Warn("resume file missing, skipping upload", zap.String("path", d.resumePath))
		return nil
	}

	n, err := page.Count(fileInputSelector)
	if err != nil || n == 0 {
		return nil
	}
	if err := page.Upload(fileInputSelector, d.resumePath); err != nil {
		return err
	}
	if err := page.Settle(uploadSettleTimeout); err != nil {
		return err
	}
	d.log.Debug("resume uploaded", zap.String("path", d.resumePath))
	return nil
}

// pasteLetter fills the first visible textarea with the cover letter. The
// probe is short since most steps have no free-text field at all.
func (d *Driver) pasteLetter(page Page, letter string) {
	if !page.Visible("//textarea", probeTimeout) {
		return
	}
	if err := page.Fill("//textarea", letter); err != nil {
		d.log.Debug("cover letter paste failed", zap.Error(err))
	}
}
