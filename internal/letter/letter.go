// Package letter renders per-job cover letters from a text template. A
// built-in template ships with the binary; users point LETTER_TEMPLATE_PATH
// at their own file to replace it.
package letter

import (
	"embed"
	"fmt"
	"os"
	"strings"
	"text/template"

	"github.com/jonathan/apply-agent/internal/types"
)

//go:embed templates/cover_letter.tmpl
var builtinFS embed.FS

const builtinTemplate = "templates/cover_letter.tmpl"

// Fallbacks for rows with blank company or position cells, so the rendered
// letter never shows an empty slot.
const (
	defaultCompany  = "the company"
	defaultPosition = "the position"
)

// Renderer produces cover letter text for one applicant.
type Renderer struct {
	tmpl          *template.Template
	applicantName string
	skills        string
}

// letterData is the template's dot.
type letterData struct {
	Company       string
	Position      string
	Skills        string
	ApplicantName string
}

// NewRenderer loads the template at overridePath, or the built-in template
// when overridePath is empty.
func NewRenderer(applicantName, skills, overridePath string) (*Renderer, error) {
	var (
		tmpl *template.Template
		err  error
	)
	if overridePath != "" {
		raw, readErr := os.ReadFile(overridePath)
		if readErr != nil {
			return nil, fmt.Errorf("reading letter template %s: %w", overridePath, readErr)
		}
		tmpl, err = template.New("cover_letter").Parse(string(raw))
	} else {
		tmpl, err = template.ParseFS(builtinFS, builtinTemplate)
	}
	if err != nil {
		return nil, fmt.Errorf("parsing letter template: %w", err)
	}
	return &Renderer{tmpl: tmpl, applicantName: applicantName, skills: skills}, nil
}

// Render produces the letter for one job. The output always ends with a
// single trailing newline.
func (r *Renderer) Render(job types.JobRecord) (string, error) {
	data := letterData{
		Company:       job.Company,
		Position:      job.Position,
		Skills:        r.skills,
		ApplicantName: r.applicantName,
	}
	if data.Company == "" {
		data.Company = defaultCompany
	}
	if data.Position == "" {
		data.Position = defaultPosition
	}

	var sb strings.Builder
	if err := r.tmpl.Execute(&sb, data); err != nil {
		return "", fmt.Errorf("rendering letter for %s: %w", job.JobID, err)
	}
	return strings.TrimRight(sb.String(), "\n") + "\n", nil
}
