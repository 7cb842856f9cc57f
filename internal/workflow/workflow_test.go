package workflow

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/jonathan/apply-agent/internal/browser"
	"github.com/jonathan/apply-agent/internal/config"
	"github.com/jonathan/apply-agent/internal/platform"
	"github.com/jonathan/apply-agent/internal/tracker"
	"github.com/jonathan/apply-agent/internal/types"
)

type markCall struct {
	job    types.JobRecord
	result types.Result
}

type stubSource struct {
	jobs    []types.JobRecord
	listErr error

	marked        []markCall
	statusChanged []string
	touched       []string
	markErr       error
}

func (s *stubSource) List(_ context.Context, statusFilter string) ([]types.JobRecord, error) {
	if s.listErr != nil {
		return nil, s.listErr
	}
	var out []types.JobRecord
	for _, j := range s.jobs {
		if statusFilter == "" || j.Status == statusFilter {
			out = append(out, j)
		}
	}
	return out, nil
}

func (s *stubSource) MarkApplied(_ context.Context, job types.JobRecord, result types.Result) error {
	s.marked = append(s.marked, markCall{job, result})
	return s.markErr
}

func (s *stubSource) MarkStatusChanged(_ context.Context, job types.JobRecord, newStatus, _ string) error {
	s.statusChanged = append(s.statusChanged, job.JobID+":"+newStatus)
	return nil
}

func (s *stubSource) TouchLastChecked(_ context.Context, job types.JobRecord, _ string) error {
	s.touched = append(s.touched, job.JobID)
	return nil
}

type stubAudit struct {
	applications  int
	statusChanges int
	err           error
}

func (a *stubAudit) RecordApplication(context.Context, types.JobRecord, types.Result) error {
	a.applications++
	return a.err
}

func (a *stubAudit) RecordStatusChange(context.Context, types.JobRecord, string, string, string) error {
	a.statusChanges++
	return a.err
}

type stubNotifier struct {
	applications  int
	statusChanges int
	err           error
}

func (n *stubNotifier) ApplicationUpdate(context.Context, types.JobRecord, types.Result) error {
	n.applications++
	return n.err
}

func (n *stubNotifier) StatusChanged(context.Context, types.JobRecord, string, string, string) error {
	n.statusChanges++
	return n.err
}

type stubSessions struct {
	opened []platform.Platform
	err    error
}

func (s *stubSessions) WithSession(_ context.Context, profile *platform.Profile, _ browser.Credentials, fn func(browser.Page) error) error {
	if s.err != nil {
		return s.err
	}
	s.opened = append(s.opened, profile.ID)
	return fn(nil)
}

type stubChecker struct {
	reports map[string]tracker.Report
}

func (c *stubChecker) Check(_ context.Context, job types.JobRecord) (tracker.Report, error) {
	return c.reports[job.JobID], nil
}

type stubLetters struct{}

func (stubLetters) Render(types.JobRecord) (string, error) {
	return "Dear Hiring Manager\n", nil
}

type stubApplier struct {
	result func(job types.JobRecord) types.Result
}

func (a *stubApplier) Apply(_ browser.Page, job types.JobRecord, _ string) types.Result {
	return a.result(job)
}

func testConfig() *config.Config {
	return &config.Config{
		MaxApplicationsPerRun: 5,
		MaxFormSteps:          10,
		LinkedInEmail:         "li@example.com",
		LinkedInPassword:      "secret",
		IndeedEmail:           "in@example.com",
		IndeedPassword:        "secret",
	}
}

func pendingJob(id, url string) types.JobRecord {
	return types.JobRecord{JobID: id, Company: "Acme", Position: "Eng", URL: url, Status: types.StatusNotApplied}
}

func newTestWorkflow(cfg *config.Config, source *stubSource, audit *stubAudit, notifier *stubNotifier, sessions *stubSessions) *Workflow {
	// Avoid wrapping typed nil pointers in the interfaces: Workflow treats a
	// nil audit/notifier interface as "sink disabled".
	var auditLog AuditLog
	if audit != nil {
		auditLog = audit
	}
	var notify Notifier
	if notifier != nil {
		notify = notifier
	}
	w := New(cfg, source, auditLog, notify, sessions, &stubChecker{}, stubLetters{}, zap.NewNop())
	w.newApplier = func(profile *platform.Profile) Applier {
		return &stubApplier{result: func(types.JobRecord) types.Result {
			return types.Success(string(profile.ID), "ok")
		}}
	}
	return w
}

func TestApplyPendingDryRunOpensNoSessions(t *testing.T) {
	cfg := testConfig()
	cfg.DryRun = true
	source := &stubSource{jobs: []types.JobRecord{
		pendingJob("JOB001", "https://www.linkedin.com/jobs/view/1"),
		pendingJob("JOB002", "https://www.indeed.com/viewjob?jk=2"),
	}}
	sessions := &stubSessions{}

	w := newTestWorkflow(cfg, source, nil, nil, sessions)
	summary, err := w.ApplyPending(context.Background())

	require.NoError(t, err)
	assert.Empty(t, sessions.opened)
	assert.Equal(t, Summary{Attempted: 2, Succeeded: 2}, summary)
	require.Len(t, source.marked, 2)
	for _, m := range source.marked {
		assert.Equal(t, noteDryRun, m.result.Notes)
		assert.Equal(t, types.StatusApplied, m.result.Status)
		assert.True(t, strings.HasPrefix(m.result.ApplicationID, "AUTO_"))
	}
	assert.Equal(t, "linkedin", source.marked[0].result.Platform)
	assert.Equal(t, "indeed", source.marked[1].result.Platform)
}

func TestApplyPendingGenericFailsWithoutSession(t *testing.T) {
	source := &stubSource{jobs: []types.JobRecord{
		pendingJob("JOB001", "https://jobs.example.com/1"),
	}}
	sessions := &stubSessions{}

	w := newTestWorkflow(testConfig(), source, nil, nil, sessions)
	summary, err := w.ApplyPending(context.Background())

	require.NoError(t, err)
	assert.Empty(t, sessions.opened)
	assert.Equal(t, Summary{Attempted: 1, Failed: 1}, summary)
	require.Len(t, source.marked, 1)
	assert.Equal(t, noteUnsupported, source.marked[0].result.Notes)
	assert.Equal(t, "generic", source.marked[0].result.Platform)
	assert.Equal(t, types.StatusFailed, source.marked[0].result.Status)
}

func TestApplyPendingOneSessionPerPlatform(t *testing.T) {
	source := &stubSource{jobs: []types.JobRecord{
		pendingJob("JOB001", "https://www.linkedin.com/jobs/view/1"),
		pendingJob("JOB002", "https://www.indeed.com/viewjob?jk=2"),
		pendingJob("JOB003", "https://www.linkedin.com/jobs/view/3"),
	}}
	sessions := &stubSessions{}
	audit := &stubAudit{}
	notifier := &stubNotifier{}

	w := newTestWorkflow(testConfig(), source, audit, notifier, sessions)
	summary, err := w.ApplyPending(context.Background())

	require.NoError(t, err)
	assert.Equal(t, []platform.Platform{platform.LinkedIn, platform.Indeed}, sessions.opened)
	assert.Equal(t, Summary{Attempted: 3, Succeeded: 3}, summary)
	assert.Equal(t, 3, audit.applications)
	assert.Equal(t, 3, notifier.applications)

	// Grouping keeps the sheet order within each platform.
	assert.Equal(t, "JOB001", source.marked[0].job.JobID)
	assert.Equal(t, "JOB003", source.marked[1].job.JobID)
	assert.Equal(t, "JOB002", source.marked[2].job.JobID)
}

func TestApplyPendingCapsBatch(t *testing.T) {
	cfg := testConfig()
	cfg.MaxApplicationsPerRun = 2
	source := &stubSource{jobs: []types.JobRecord{
		pendingJob("JOB001", "https://www.linkedin.com/jobs/view/1"),
		pendingJob("JOB002", "https://www.linkedin.com/jobs/view/2"),
		pendingJob("JOB003", "https://www.linkedin.com/jobs/view/3"),
	}}

	w := newTestWorkflow(cfg, source, nil, nil, &stubSessions{})
	summary, err := w.ApplyPending(context.Background())

	require.NoError(t, err)
	assert.Equal(t, 2, summary.Attempted)
	require.Len(t, source.marked, 2)
	assert.Equal(t, "JOB001", source.marked[0].job.JobID)
	assert.Equal(t, "JOB002", source.marked[1].job.JobID)
}

func TestApplyPendingNotifierErrorDoesNotStopBatch(t *testing.T) {
	source := &stubSource{jobs: []types.JobRecord{
		pendingJob("JOB001", "https://www.linkedin.com/jobs/view/1"),
		pendingJob("JOB002", "https://www.linkedin.com/jobs/view/2"),
	}}
	notifier := &stubNotifier{err: errors.New("smtp down")}

	w := newTestWorkflow(testConfig(), source, nil, notifier, &stubSessions{})
	summary, err := w.ApplyPending(context.Background())

	require.NoError(t, err)
	assert.Equal(t, Summary{Attempted: 2, Succeeded: 2}, summary)
	assert.Len(t, source.marked, 2)
}

func TestApplyPendingSessionFailureFailsGroup(t *testing.T) {
	source := &stubSource{jobs: []types.JobRecord{
		pendingJob("JOB001", "https://www.linkedin.com/jobs/view/1"),
		pendingJob("JOB002", "https://www.linkedin.com/jobs/view/2"),
	}}
	sessions := &stubSessions{err: errors.New("authentication failed for linkedin")}

	w := newTestWorkflow(testConfig(), source, nil, nil, sessions)
	summary, err := w.ApplyPending(context.Background())

	require.NoError(t, err)
	assert.Equal(t, Summary{Attempted: 2, Failed: 2}, summary)
	require.Len(t, source.marked, 2)
	for _, m := range source.marked {
		assert.Contains(t, m.result.Notes, "Login failed")
	}
}

func TestApplyPendingMissingCredentials(t *testing.T) {
	cfg := testConfig()
	cfg.LinkedInEmail = ""
	source := &stubSource{jobs: []types.JobRecord{
		pendingJob("JOB001", "https://www.linkedin.com/jobs/view/1"),
	}}
	sessions := &stubSessions{}

	w := newTestWorkflow(cfg, source, nil, nil, sessions)
	summary, err := w.ApplyPending(context.Background())

	require.NoError(t, err)
	assert.Empty(t, sessions.opened)
	assert.Equal(t, Summary{Attempted: 1, Failed: 1}, summary)
	assert.Contains(t, source.marked[0].result.Notes, "Missing credentials")
}

func TestApplyOne(t *testing.T) {
	source := &stubSource{jobs: []types.JobRecord{
		pendingJob("JOB001", "https://www.linkedin.com/jobs/view/1"),
		pendingJob("JOB002", "https://www.indeed.com/viewjob?jk=2"),
	}}

	w := newTestWorkflow(testConfig(), source, nil, nil, &stubSessions{})
	summary, err := w.ApplyOne(context.Background(), "JOB002")

	require.NoError(t, err)
	assert.Equal(t, Summary{Attempted: 1, Succeeded: 1}, summary)
	require.Len(t, source.marked, 1)
	assert.Equal(t, "JOB002", source.marked[0].job.JobID)
}

func TestApplyOneUnknownID(t *testing.T) {
	source := &stubSource{}
	w := newTestWorkflow(testConfig(), source, nil, nil, &stubSessions{})

	_, err := w.ApplyOne(context.Background(), "JOB999")
	assert.Error(t, err)
}

func TestCheckStatuses(t *testing.T) {
	applied := func(id string) types.JobRecord {
		return types.JobRecord{JobID: id, Company: "Acme", Status: types.StatusApplied, URL: "https://www.linkedin.com/jobs/view/1"}
	}
	source := &stubSource{jobs: []types.JobRecord{applied("JOB001"), applied("JOB002")}}
	audit := &stubAudit{}
	notifier := &stubNotifier{}
	checker := &stubChecker{reports: map[string]tracker.Report{
		"JOB001": {NewStatus: types.StatusInterview, CheckDate: "2026-08-23", Notes: "Detected on LinkedIn"},
		"JOB002": {CheckDate: "2026-08-23"},
	}}

	w := New(testConfig(), source, audit, notifier, &stubSessions{}, checker, stubLetters{}, zap.NewNop())
	changed, err := w.CheckStatuses(context.Background())

	require.NoError(t, err)
	assert.Equal(t, 1, changed)
	assert.Equal(t, []string{"JOB001:" + types.StatusInterview}, source.statusChanged)
	assert.Equal(t, []string{"JOB002"}, source.touched)
	assert.Equal(t, 1, audit.statusChanges)
	assert.Equal(t, 1, notifier.statusChanges)
}
