// Package notify sends email notifications through the Gmail API: one per
// application attempt, one per observed status change, and a plumbing test
// message.
package notify

import (
	"context"
	"embed"
	"encoding/base64"
	"fmt"
	"html/template"
	"strings"

	"go.uber.org/zap"
	"google.golang.org/api/gmail/v1"

	"github.com/jonathan/apply-agent/internal/types"
)

//go:embed templates/*.html
var templateFS embed.FS

var templates = template.Must(template.ParseFS(templateFS, "templates/*.html"))

// statusColors keys email accents off the sheet status values.
var statusColors = map[string]string{
	types.StatusApplied:     "#4caf50",
	types.StatusFailed:      "#f44336",
	types.StatusUnderReview: "#ff9800",
	types.StatusInterview:   "#2196f3",
	types.StatusOffer:       "#9c27b0",
	types.StatusRejected:    "#9e9e9e",
}

const defaultColor = "#607d8b"

func statusColor(status string) string {
	if c, ok := statusColors[status]; ok {
		return c
	}
	return defaultColor
}

// Mailer sends notifications to a single recipient from their own mailbox.
type Mailer struct {
	svc    *gmail.Service
	to     string
	dryRun bool
	log    *zap.Logger
}

// NewMailer wraps an authenticated Gmail service.
func NewMailer(svc *gmail.Service, to string, dryRun bool, log *zap.Logger) *Mailer {
	return &Mailer{svc: svc, to: to, dryRun: dryRun, log: log}
}

// ApplicationUpdate reports the outcome of one apply attempt.
func (m *Mailer) ApplicationUpdate(ctx context.Context, job types.JobRecord, result types.Result) error {
	subject, body, err := renderApplicationUpdate(job, result)
	if err != nil {
		return err
	}
	return m.send(ctx, subject, body)
}

// StatusChanged reports a post-application status transition.
func (m *Mailer) StatusChanged(ctx context.Context, job types.JobRecord, oldStatus, newStatus, notes string) error {
	subject, body, err := renderStatusChanged(job, oldStatus, newStatus, notes)
	if err != nil {
		return err
	}
	return m.send(ctx, subject, body)
}

// Test sends a plain message so users can verify the Gmail wiring.
func (m *Mailer) Test(ctx context.Context) error {
	body := "<html><body><p>Notification wiring works. You will receive application and status updates at this address.</p></body></html>"
	return m.send(ctx, "Job application agent: test notification", body)
}

func renderApplicationUpdate(job types.JobRecord, result types.Result) (subject, body string, err error) {
	data := struct {
		Job    types.JobRecord
		Result types.Result
		Color  string
	}{job, result, statusColor(result.Status)}

	var sb strings.Builder
	if err := templates.ExecuteTemplate(&sb, "application_update.html", data); err != nil {
		return "", "", fmt.Errorf("rendering application email: %w", err)
	}

	verb := "failed"
	if result.Succeeded() {
		verb = "submitted"
	}
	subject = fmt.Sprintf("Application %s: %s at %s", verb, job.Position, job.Company)
	return subject, sb.String(), nil
}

func renderStatusChanged(job types.JobRecord, oldStatus, newStatus, notes string) (subject, body string, err error) {
	data := struct {
		Job       types.JobRecord
		OldStatus string
		NewStatus string
		Notes     string
		Color     string
	}{job, oldStatus, newStatus, notes, statusColor(newStatus)}

	var sb strings.Builder
	if err := templates.ExecuteTemplate(&sb, "status_changed.html", data); err != nil {
		return "", "", fmt.Errorf("rendering status email: %w", err)
	}
	subject = fmt.Sprintf("Status update: %s at %s is now %s", job.Position, job.Company, newStatus)
	return subject, sb.String(), nil
}

func (m *Mailer) send(ctx context.Context, subject, htmlBody string) error {
	if m.dryRun {
		m.log.Info("dry run: skipping email", zap.String("subject", subject))
		return nil
	}

	raw := fmt.Sprintf("From: me\r\nTo: %s\r\nSubject: %s\r\nMIME-Version: 1.0\r\nContent-Type: text/html; charset=\"UTF-8\"\r\n\r\n%s",
		m.to, subject, htmlBody)

	msg := &gmail.Message{Raw: base64.URLEncoding.EncodeToString([]byte(raw))}
	if _, err := m.svc.Users.Messages.Send("me", msg).Context(ctx).Do(); err != nil {
		return fmt.Errorf("sending email %q: %w", subject, err)
	}

	m.log.Info("email sent", zap.String("subject", subject))
	return nil
}
