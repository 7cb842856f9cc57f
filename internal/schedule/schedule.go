// Package schedule runs the two workflows on a cron cadence: applications
// on weekday mornings, status checks every few days.
package schedule

import (
	"context"
	"fmt"
	"time"

	"github.com/robfig/cron/v3"
	"go.uber.org/zap"
)

// applySpec fires at minute/hour on weekdays.
func applySpec(minute, hour int) string {
	return fmt.Sprintf("%d %d * * 1-5", minute, hour)
}

// checkSpec fires at hour every `days` days. Cron's day-of-month stepping
// resets at month boundaries, so the gap at a month turn can be shorter
// than the configured interval.
func checkSpec(hour, days int) string {
	return fmt.Sprintf("0 %d */%d * *", hour, days)
}

// Runner drives the scheduled workflows until its context is cancelled.
type Runner struct {
	applyFn func(context.Context) error
	checkFn func(context.Context) error
	log     *zap.Logger
}

// NewRunner wraps the two workflow entry points.
func NewRunner(applyFn, checkFn func(context.Context) error, log *zap.Logger) *Runner {
	return &Runner{applyFn: applyFn, checkFn: checkFn, log: log}
}

// Start registers both schedules and blocks until ctx is done. Schedule
// times are interpreted in UTC.
func (r *Runner) Start(ctx context.Context, applyHour, applyMinute, checkHour, checkIntervalDays int) error {
	c := cron.New(cron.WithLocation(time.UTC))

	spec := applySpec(applyMinute, applyHour)
	if _, err := c.AddFunc(spec, func() {
		if err := r.applyFn(ctx); err != nil {
			r.log.Error("scheduled apply run failed", zap.Error(err))
		}
	}); err != nil {
		return fmt.Errorf("registering apply schedule %q: %w", spec, err)
	}
	r.log.Info("apply schedule registered", zap.String("cron", spec))

	spec = checkSpec(checkHour, checkIntervalDays)
	if _, err := c.AddFunc(spec, func() {
		if err := r.checkFn(ctx); err != nil {
			r.log.Error("scheduled status check failed", zap.Error(err))
		}
	}); err != nil {
		return fmt.Errorf("registering status check schedule %q: %w", spec, err)
	}
	r.log.Info("status check schedule registered", zap.String("cron", spec))

	c.Start()
	<-ctx.Done()

	stopCtx := c.Stop()
	<-stopCtx.Done()
	r.log.Info("scheduler stopped")
	return nil
}
