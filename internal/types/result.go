package types

import "time"

// applicationIDPrefix marks application ids synthesized by the agent, as
// opposed to ids issued by a platform.
const applicationIDPrefix = "AUTO_"

// Result is the immutable outcome of exactly one apply attempt. It is the
// unit exchanged with the sheet writeback, the audit log and the notifier.
type Result struct {
	Status        string
	ApplicationID string
	Notes         string
	Platform      string
	AppliedDate   string
}

// Succeeded reports whether the attempt ended in a submitted application.
func (r Result) Succeeded() bool {
	return r.Status == StatusApplied
}

// NewApplicationID synthesizes a timestamp-derived application id.
func NewApplicationID(now time.Time) string {
	return applicationIDPrefix + now.UTC().Format("20060102150405")
}

// Success builds an Applied result with a fresh application id.
func Success(platform, notes string) Result {
	now := time.Now().UTC()
	return Result{
		Status:        StatusApplied,
		ApplicationID: NewApplicationID(now),
		Notes:         notes,
		Platform:      platform,
		AppliedDate:   now.Format("2006-01-02"),
	}
}

// Failure builds a Failed result. No application id is assigned.
func Failure(platform, notes string) Result {
	return Result{
		Status:      StatusFailed,
		Notes:       notes,
		Platform:    platform,
		AppliedDate: time.Now().UTC().Format("2006-01-02"),
	}
}
