// Package observability provides formatted output utilities for the CLI.
package observability

import (
	"fmt"
	"io"
	"strings"

	"github.com/jonathan/apply-agent/internal/store"
	"github.com/jonathan/apply-agent/internal/types"
)

const (
	// boxWidth is the default width for formatted output boxes
	boxWidth = 60
	// maxItemsToShow is the default number of items to display in lists
	maxItemsToShow = 10
)

// Printer handles formatted output
type Printer struct {
	out io.Writer
}

// NewPrinter creates a new Printer that writes to the given writer
func NewPrinter(out io.Writer) *Printer {
	return &Printer{out: out}
}

// printBox prints a formatted box with a title and content
//
//nolint:errcheck // writing to stdout; errors are not recoverable
func (p *Printer) printBox(title string, content string) {
	border := strings.Repeat("─", boxWidth-2)
	fmt.Fprintf(p.out, "┌%s┐\n", border)
	fmt.Fprintf(p.out, "│ %-*s │\n", boxWidth-4, title)
	fmt.Fprintf(p.out, "├%s┤\n", border)

	lines := strings.Split(content, "\n")
	for _, line := range lines {
		// Truncate long lines
		if len(line) > boxWidth-4 {
			line = line[:boxWidth-7] + "..."
		}
		fmt.Fprintf(p.out, "│ %-*s │\n", boxWidth-4, line)
	}

	fmt.Fprintf(p.out, "└%s┘\n", border)
}

// PrintPendingJobs outputs the jobs waiting for an application.
func (p *Printer) PrintPendingJobs(jobs []types.JobRecord) {
	if len(jobs) == 0 {
		p.printBox("PENDING JOBS", "No pending jobs.")
		return
	}

	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("Total pending: %d\n\n", len(jobs)))

	count := min(len(jobs), maxItemsToShow)
	for i := 0; i < count; i++ {
		job := jobs[i]
		sb.WriteString(fmt.Sprintf("%-8s %s\n", job.JobID, job.Company))
		sb.WriteString(fmt.Sprintf("         %s", job.Position))
		if job.Priority != "" {
			sb.WriteString(fmt.Sprintf(" [%s]", job.Priority))
		}
		sb.WriteString("\n")
		if job.Platform != "" {
			sb.WriteString(fmt.Sprintf("         via %s\n", job.Platform))
		}
	}
	if len(jobs) > maxItemsToShow {
		sb.WriteString(fmt.Sprintf("\n... and %d more\n", len(jobs)-maxItemsToShow))
	}

	p.printBox("PENDING JOBS", strings.TrimSuffix(sb.String(), "\n"))
}

// PrintRunSummary outputs the outcome counts of one apply run.
func (p *Printer) PrintRunSummary(attempted, succeeded, failed int) {
	content := fmt.Sprintf("Attempted: %d\nSucceeded: %d\nFailed:    %d", attempted, succeeded, failed)
	p.printBox("APPLY RUN SUMMARY", content)
}

// PrintRecentApplications outputs the latest audit entries.
func (p *Printer) PrintRecentApplications(rows []store.ApplicationRow) {
	if len(rows) == 0 {
		return
	}

	var sb strings.Builder
	count := min(len(rows), maxItemsToShow)
	for i := 0; i < count; i++ {
		r := rows[i]
		sb.WriteString(fmt.Sprintf("%s  %s\n", r.AppliedAt.Format("2006-01-02"), r.Company))
		sb.WriteString(fmt.Sprintf("            %s (%s)\n", r.Position, r.Status))
	}
	if len(rows) > maxItemsToShow {
		sb.WriteString(fmt.Sprintf("... and %d more\n", len(rows)-maxItemsToShow))
	}

	p.printBox("RECENT APPLICATIONS", strings.TrimSuffix(sb.String(), "\n"))
}
