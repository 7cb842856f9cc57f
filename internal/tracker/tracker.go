// Package tracker checks the current status of submitted applications by
// scraping the LinkedIn applied-jobs list. Boards without a readable
// tracker keep their current status and just get a last-checked stamp.
package tracker

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"
	"go.uber.org/zap"

	"github.com/jonathan/apply-agent/internal/browser"
	"github.com/jonathan/apply-agent/internal/platform"
	"github.com/jonathan/apply-agent/internal/types"
)

const appliedJobsURL = "https://www.linkedin.com/my-items/saved-jobs/?cardType=APPLIED"

const dateLayout = "2006-01-02"

// Status phrases as LinkedIn renders them on application cards, mapped to
// sheet statuses. Order matters: the first match wins, and rejection
// phrasing is checked before the weaker signals.
var cardPhrases = []struct {
	phrase string
	status string
}{
	{"no longer accepting", types.StatusRejected},
	{"not selected", types.StatusRejected},
	{"rejected", types.StatusRejected},
	{"offer", types.StatusOffer},
	{"interview", types.StatusInterview},
	{"assessment", types.StatusInterview},
	{"viewed", types.StatusUnderReview},
	{"under review", types.StatusUnderReview},
	{"resume downloaded", types.StatusUnderReview},
}

// Report is the outcome of one status check. An empty NewStatus means the
// job keeps its current status.
type Report struct {
	NewStatus string
	CheckDate string
	Notes     string
}

// Changed reports whether the check produced a status transition.
func (r Report) Changed() bool {
	return r.NewStatus != ""
}

// Checker scrapes platform trackers for status changes.
type Checker struct {
	sessions *browser.Manager
	creds    browser.Credentials
	dryRun   bool
	log      *zap.Logger
}

// NewChecker returns a status checker using creds for the LinkedIn login.
func NewChecker(sessions *browser.Manager, creds browser.Credentials, dryRun bool, log *zap.Logger) *Checker {
	return &Checker{sessions: sessions, creds: creds, dryRun: dryRun, log: log}
}

// Check inspects one applied job. Scrape failures degrade to a keep-current
// report rather than an error: a flaky tracker page must not fail the whole
// check run.
func (c *Checker) Check(ctx context.Context, job types.JobRecord) (Report, error) {
	today := time.Now().Format(dateLayout)

	if c.dryRun {
		return Report{CheckDate: today, Notes: "Dry run: status check skipped"}, nil
	}
	if platform.Classify(job.URL) != platform.LinkedIn {
		return Report{CheckDate: today, Notes: "No automatic status source for this board"}, nil
	}

	profile, ok := platform.Lookup(platform.LinkedIn)
	if !ok {
		return Report{CheckDate: today}, nil
	}

	var html string
	err := c.sessions.WithSession(ctx, profile.HeadlessVariant(), c.creds, func(page browser.Page) error {
		if err := page.Navigate(appliedJobsURL, 30*time.Second); err != nil {
			return err
		}
		if err := page.Settle(15 * time.Second); err != nil {
			return err
		}
		var err error
		html, err = page.HTML()
		return err
	})
	if err != nil {
		c.log.Warn("status check failed, keeping current status",
			zap.String("job_id", job.JobID),
			zap.Error(err))
		return Report{CheckDate: today, Notes: fmt.Sprintf("Status check failed: %v", err)}, nil
	}

	card, found := findCompanyCard(html, job.Company)
	if !found {
		return Report{CheckDate: today}, nil
	}

	status, ok := InterpretCard(card)
	if !ok || status == job.Status {
		return Report{CheckDate: today}, nil
	}

	c.log.Info("status change detected",
		zap.String("job_id", job.JobID),
		zap.String("old", job.Status),
		zap.String("new", status))
	return Report{
		NewStatus: status,
		CheckDate: today,
		Notes:     fmt.Sprintf("Detected on LinkedIn applied jobs on %s", today),
	}, nil
}

// findCompanyCard locates the application card mentioning the company and
// returns its visible text.
func findCompanyCard(html, company string) (string, bool) {
	if strings.TrimSpace(company) == "" {
		return "", false
	}

	doc, err := goquery.NewDocumentFromReader(strings.NewReader(html))
	if err != nil {
		return "", false
	}

	needle := strings.ToLower(company)
	var card string
	doc.Find("li").EachWithBreak(func(_ int, s *goquery.Selection) bool {
		text := normalizeSpace(s.Text())
		if strings.Contains(strings.ToLower(text), needle) {
			card = text
			return false
		}
		return true
	})
	return card, card != ""
}

// InterpretCard maps an application card's text to a sheet status. The
// second return is false when the card carries no recognizable signal.
func InterpretCard(cardText string) (string, bool) {
	lowered := strings.ToLower(cardText)
	for _, p := range cardPhrases {
		if strings.Contains(lowered, p.phrase) {
			return p.status, true
		}
	}
	return "", false
}

func normalizeSpace(s string) string {
	return strings.Join(strings.Fields(s), " ")
}
