// Package platform - classify.go routes jobs to platforms by URL.
package platform

import (
	"strings"

	"github.com/jonathan/apply-agent/internal/types"
)

// Classify identifies the platform for a job URL by case-insensitive
// substring match. It is pure and total: unrecognized URLs (including empty
// ones) classify as Generic.
func Classify(rawURL string) Platform {
	url := strings.ToLower(rawURL)

	if strings.Contains(url, "linkedin.com") {
		return LinkedIn
	}
	if strings.Contains(url, "indeed.com") {
		return Indeed
	}
	return Generic
}

// ClassifyJob classifies a job and writes the platform back onto the record
// for downstream use (session grouping, logging, notifications).
func ClassifyJob(job *types.JobRecord) Platform {
	p := Classify(job.URL)
	job.Platform = string(p)
	return p
}

// GroupJobs classifies a batch and groups it by platform, preserving source
// order within each group. The returned slice lists platforms in order of
// first appearance so batch processing stays deterministic.
func GroupJobs(jobs []types.JobRecord) ([]Platform, map[Platform][]types.JobRecord) {
	var order []Platform
	groups := make(map[Platform][]types.JobRecord)

	for i := range jobs {
		p := ClassifyJob(&jobs[i])
		if _, seen := groups[p]; !seen {
			order = append(order, p)
		}
		groups[p] = append(groups[p], jobs[i])
	}

	return order, groups
}
