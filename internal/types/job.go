// Package types defines the shared data model: job records read from the
// tracking sheet and the results produced by apply attempts.
package types

// Job statuses as they appear in the tracking sheet. StatusNotApplied and
// StatusApplied drive the two workflows; the remainder are produced by the
// status tracker or set manually by the user.
const (
	StatusNotApplied  = "Not Applied"
	StatusApplied     = "Applied"
	StatusFailed      = "Failed"
	StatusUnderReview = "Under Review"
	StatusInterview   = "Interview Scheduled"
	StatusOffer       = "Offer Received"
	StatusRejected    = "Rejected"
	StatusWithdrawn   = "Withdrawn"
)

// JobRecord is a mutable view over one row of the tracking sheet.
// RowIndex is the 1-based sheet row (header included) used for writebacks.
// Platform is empty until the dispatcher classifies the record; it is not a
// sheet column.
type JobRecord struct {
	JobID         string
	Company       string
	Position      string
	URL           string
	Status        string
	Priority      string
	ApplicationID string
	Notes         string
	RowIndex      int
	Platform      string
}
