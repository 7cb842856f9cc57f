package notify

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jonathan/apply-agent/internal/types"
)

func TestRenderApplicationUpdateSuccess(t *testing.T) {
	job := types.JobRecord{
		Company:  "Acme Corp",
		Position: "Backend Engineer",
		URL:      "https://www.linkedin.com/jobs/view/1",
	}
	result := types.Success("linkedin", "Submitted via LinkedIn Easy Apply")

	subject, body, err := renderApplicationUpdate(job, result)
	require.NoError(t, err)

	assert.Equal(t, "Application submitted: Backend Engineer at Acme Corp", subject)
	assert.Contains(t, body, "Acme Corp")
	assert.Contains(t, body, "Backend Engineer")
	assert.Contains(t, body, result.ApplicationID)
	assert.Contains(t, body, "Submitted via LinkedIn Easy Apply")
	assert.Contains(t, body, statusColor(types.StatusApplied))
}

func TestRenderApplicationUpdateFailure(t *testing.T) {
	job := types.JobRecord{Company: "Globex", Position: "SRE"}
	result := types.Failure("indeed", "Timeout: navigate")

	subject, body, err := renderApplicationUpdate(job, result)
	require.NoError(t, err)

	assert.Equal(t, "Application failed: SRE at Globex", subject)
	assert.Contains(t, body, "Timeout: navigate")
	assert.NotContains(t, body, "Application ID")
}

func TestRenderStatusChanged(t *testing.T) {
	job := types.JobRecord{Company: "Acme Corp", Position: "Backend Engineer"}

	subject, body, err := renderStatusChanged(job, types.StatusApplied, types.StatusInterview, "Recruiter reached out")
	require.NoError(t, err)

	assert.Equal(t, "Status update: Backend Engineer at Acme Corp is now Interview Scheduled", subject)
	assert.Contains(t, body, types.StatusApplied)
	assert.Contains(t, body, types.StatusInterview)
	assert.Contains(t, body, "Recruiter reached out")
	assert.Contains(t, body, statusColor(types.StatusInterview))
}

func TestRenderEscapesHTML(t *testing.T) {
	job := types.JobRecord{Company: "<script>alert(1)</script>", Position: "SRE"}
	result := types.Failure("generic", "bad")

	_, body, err := renderApplicationUpdate(job, result)
	require.NoError(t, err)
	assert.False(t, strings.Contains(body, "<script>"))
}

func TestStatusColorFallback(t *testing.T) {
	assert.Equal(t, defaultColor, statusColor("Something Else"))
	assert.NotEqual(t, defaultColor, statusColor(types.StatusOffer))
}
