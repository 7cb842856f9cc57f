// Package sheets reads the job pipeline from a Google Sheet and writes
// application outcomes back to it. The sheet is the source of truth: one
// row per job, with the tracking columns (status, dates, application id,
// notes) owned by this package.
package sheets

import (
	"context"
	"fmt"
	"strings"
	"time"

	"go.uber.org/zap"
	sheetsapi "google.golang.org/api/sheets/v4"

	"github.com/jonathan/apply-agent/internal/platform"
	"github.com/jonathan/apply-agent/internal/types"
)

// Tracking columns written back per row. Reads are header-keyed, writes go
// to these fixed columns.
const (
	colStatus        = "D"
	colAppliedDate   = "E"
	colLastChecked   = "F"
	colApplicationID = "G"
	colNotes         = "H"
)

const dateLayout = "2006-01-02"

// Source is the sheet-backed job list.
type Source struct {
	svc       *sheetsapi.Service
	sheetID   string
	sheetName string
	readRange string
	dryRun    bool
	log       *zap.Logger
}

// NewSource wraps an authenticated Sheets service.
func NewSource(svc *sheetsapi.Service, sheetID, sheetName, readRange string, dryRun bool, log *zap.Logger) *Source {
	return &Source{
		svc:       svc,
		sheetID:   sheetID,
		sheetName: sheetName,
		readRange: readRange,
		dryRun:    dryRun,
		log:       log,
	}
}

// List returns the jobs in sheet order. When statusFilter is non-empty only
// rows with that exact status are returned.
func (s *Source) List(ctx context.Context, statusFilter string) ([]types.JobRecord, error) {
	rng := fmt.Sprintf("%s!%s", s.sheetName, s.readRange)
	resp, err := s.svc.Spreadsheets.Values.Get(s.sheetID, rng).Context(ctx).Do()
	if err != nil {
		return nil, fmt.Errorf("reading sheet %s: %w", rng, err)
	}

	jobs := jobsFromValues(resp.Values)
	if statusFilter == "" {
		return jobs, nil
	}

	filtered := jobs[:0:0]
	for _, job := range jobs {
		if job.Status == statusFilter {
			filtered = append(filtered, job)
		}
	}
	return filtered, nil
}

// ListPending returns the jobs still waiting for an application.
func (s *Source) ListPending(ctx context.Context) ([]types.JobRecord, error) {
	return s.List(ctx, types.StatusNotApplied)
}

// MarkApplied writes one application outcome into the job's tracking
// columns: status, applied date, last-checked date, application id, notes.
func (s *Source) MarkApplied(ctx context.Context, job types.JobRecord, result types.Result) error {
	if s.dryRun {
		s.log.Info("dry run: skipping sheet update",
			zap.String("job_id", job.JobID),
			zap.String("status", result.Status))
		return nil
	}
	if job.RowIndex < 2 {
		return fmt.Errorf("job %s has no sheet row", job.JobID)
	}

	today := time.Now().Format(dateLayout)
	rng := fmt.Sprintf("%s!%s%d:%s%d", s.sheetName, colStatus, job.RowIndex, colNotes, job.RowIndex)
	values := &sheetsapi.ValueRange{
		Values: [][]interface{}{{
			result.Status,
			result.AppliedDate,
			today,
			result.ApplicationID,
			result.Notes,
		}},
	}

	_, err := s.svc.Spreadsheets.Values.Update(s.sheetID, rng, values).
		ValueInputOption("RAW").Context(ctx).Do()
	if err != nil {
		return fmt.Errorf("updating row %d for %s: %w", job.RowIndex, job.JobID, err)
	}

	s.log.Info("sheet updated",
		zap.String("job_id", job.JobID),
		zap.String("status", result.Status),
		zap.Int("row", job.RowIndex))
	return nil
}

// MarkStatusChanged records a post-application status transition. Only the
// status and last-checked columns move; the applied date and application id
// stay as written at apply time.
func (s *Source) MarkStatusChanged(ctx context.Context, job types.JobRecord, newStatus, checkDate string) error {
	if s.dryRun {
		s.log.Info("dry run: skipping status update",
			zap.String("job_id", job.JobID),
			zap.String("status", newStatus))
		return nil
	}
	if job.RowIndex < 2 {
		return fmt.Errorf("job %s has no sheet row", job.JobID)
	}

	batch := &sheetsapi.BatchUpdateValuesRequest{
		ValueInputOption: "RAW",
		Data: []*sheetsapi.ValueRange{
			{
				Range:  fmt.Sprintf("%s!%s%d", s.sheetName, colStatus, job.RowIndex),
				Values: [][]interface{}{{newStatus}},
			},
			{
				Range:  fmt.Sprintf("%s!%s%d", s.sheetName, colLastChecked, job.RowIndex),
				Values: [][]interface{}{{checkDate}},
			},
		},
	}

	_, err := s.svc.Spreadsheets.Values.BatchUpdate(s.sheetID, batch).Context(ctx).Do()
	if err != nil {
		return fmt.Errorf("updating status for %s: %w", job.JobID, err)
	}

	s.log.Info("status updated",
		zap.String("job_id", job.JobID),
		zap.String("status", newStatus))
	return nil
}

// TouchLastChecked stamps the last-checked column without changing status.
func (s *Source) TouchLastChecked(ctx context.Context, job types.JobRecord, checkDate string) error {
	if s.dryRun {
		return nil
	}
	if job.RowIndex < 2 {
		return fmt.Errorf("job %s has no sheet row", job.JobID)
	}

	rng := fmt.Sprintf("%s!%s%d", s.sheetName, colLastChecked, job.RowIndex)
	values := &sheetsapi.ValueRange{Values: [][]interface{}{{checkDate}}}
	_, err := s.svc.Spreadsheets.Values.Update(s.sheetID, rng, values).
		ValueInputOption("RAW").Context(ctx).Do()
	if err != nil {
		return fmt.Errorf("stamping last checked for %s: %w", job.JobID, err)
	}
	return nil
}

// jobsFromValues maps raw sheet values to job records. The first row is the
// header; column positions are resolved by header name so users can reorder
// columns without breaking reads. RowIndex is the 1-based sheet row.
func jobsFromValues(values [][]interface{}) []types.JobRecord {
	if len(values) < 2 {
		return nil
	}

	idx := headerIndex(values[0])
	jobs := make([]types.JobRecord, 0, len(values)-1)
	for i, row := range values[1:] {
		job := types.JobRecord{
			JobID:         cell(row, idx.col("job id")),
			Company:       cell(row, idx.col("company")),
			Position:      cell(row, idx.col("position")),
			Status:        cell(row, idx.col("status")),
			ApplicationID: cell(row, idx.col("application id")),
			Notes:         cell(row, idx.col("notes")),
			URL:           cell(row, idx.col("job_url")),
			Priority:      cell(row, idx.col("priority")),
			RowIndex:      i + 2,
		}
		if job.URL == "" {
			job.URL = cell(row, idx.col("job url"))
		}
		if job.JobID == "" && job.Company == "" && job.URL == "" {
			continue
		}
		job.Platform = string(platform.Classify(job.URL))
		jobs = append(jobs, job)
	}
	return jobs
}

type columnIndex map[string]int

// col returns the position of a header, or -1 when the sheet lacks it.
func (c columnIndex) col(name string) int {
	if i, ok := c[name]; ok {
		return i
	}
	return -1
}

func headerIndex(header []interface{}) columnIndex {
	idx := make(columnIndex, len(header))
	for i, h := range header {
		name := strings.ToLower(strings.TrimSpace(fmt.Sprint(h)))
		if name != "" {
			idx[name] = i
		}
	}
	return idx
}

func cell(row []interface{}, i int) string {
	if i < 0 || i >= len(row) {
		return ""
	}
	return strings.TrimSpace(fmt.Sprint(row[i]))
}
