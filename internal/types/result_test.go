package types

import (
	"regexp"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestNewApplicationID(t *testing.T) {
	ts := time.Date(2026, 2, 19, 14, 30, 5, 0, time.UTC)
	id := NewApplicationID(ts)
	assert.Equal(t, "AUTO_20260219143005", id)
}

func TestNewApplicationID_ConvertsToUTC(t *testing.T) {
	loc := time.FixedZone("UTC+5", 5*3600)
	ts := time.Date(2026, 2, 19, 14, 30, 5, 0, loc)
	id := NewApplicationID(ts)
	assert.Equal(t, "AUTO_20260219093005", id)
}

func TestSuccess(t *testing.T) {
	res := Success("linkedin", "Submitted via LinkedIn Easy Apply")
	assert.Equal(t, StatusApplied, res.Status)
	assert.True(t, res.Succeeded())
	assert.True(t, strings.HasPrefix(res.ApplicationID, "AUTO_"))
	assert.Equal(t, "linkedin", res.Platform)
	assert.Regexp(t, regexp.MustCompile(`^\d{4}-\d{2}-\d{2}$`), res.AppliedDate)
}

func TestFailure(t *testing.T) {
	res := Failure("generic", "Unsupported platform - apply manually via Job_URL")
	assert.Equal(t, StatusFailed, res.Status)
	assert.False(t, res.Succeeded())
	assert.Empty(t, res.ApplicationID)
	assert.Regexp(t, regexp.MustCompile(`^\d{4}-\d{2}-\d{2}$`), res.AppliedDate)
}
