// Package platform provides job-board platform detection and the declarative
// per-platform profiles consumed by the browser automation. Platform
// differences (selectors, two-step login, checkpoint handling) live here as
// data so adding a platform is a table entry, not a new code path.
package platform

// Platform identifies a supported job board.
type Platform string

const (
	// LinkedIn is the LinkedIn Easy Apply platform
	LinkedIn Platform = "linkedin"
	// Indeed is the Indeed Apply platform
	Indeed Platform = "indeed"
	// Generic is any board without automation support
	Generic Platform = "generic"
)

// Profile is the immutable description of how to drive one platform: how to
// log in, how to recognize the apply entry point, and how to advance its
// multi-step form. Text-matching locators are XPath; the rest are CSS.
type Profile struct {
	ID       Platform
	LoginURL string

	UsernameField  string
	PasswordField  string
	ContinueButton string // two-step login only: advances from identifier to password
	LoginSubmit    string
	TwoStepLogin   bool

	// CheckpointPatterns are URL substrings indicating an interactive
	// CAPTCHA/2FA challenge; CheckpointSettle is the URL substring that
	// signals the challenge was resolved. Empty patterns = no checkpoints.
	CheckpointPatterns []string
	CheckpointSettle   string

	ApplyButton string
	FormSubmit  string
	FormNext    string

	AppliedNote string

	// Headless must stay false whenever CheckpointPatterns is non-empty:
	// resolving a checkpoint needs a visible browser window.
	Headless bool
}

// HeadlessVariant returns a copy of the profile suitable for non-interactive
// work (status scraping): headless, with checkpoint handling disabled.
func (p *Profile) HeadlessVariant() *Profile {
	v := *p
	v.Headless = true
	v.CheckpointPatterns = nil
	v.CheckpointSettle = ""
	return &v
}

var profiles = map[Platform]*Profile{
	LinkedIn: {
		ID:                 LinkedIn,
		LoginURL:           "https://www.linkedin.com/login",
		UsernameField:      "#username",
		PasswordField:      "#password",
		LoginSubmit:        `button[type="submit"]`,
		CheckpointPatterns: []string{"checkpoint", "challenge"},
		CheckpointSettle:   "/feed",
		ApplyButton:        `//button[contains(., 'Easy Apply')] | //button[contains(@class, 'jobs-apply-button')]`,
		FormSubmit:         `//button[contains(., 'Submit application')]`,
		FormNext:           `//button[contains(., 'Next')] | //button[contains(., 'Review')]`,
		AppliedNote:        "Submitted via LinkedIn Easy Apply",
		Headless:           false,
	},
	Indeed: {
		ID:             Indeed,
		LoginURL:       "https://secure.indeed.com/account/login",
		UsernameField:  "#ifl-InputFormField-3",
		PasswordField:  `input[type="password"]`,
		ContinueButton: `//button[contains(., 'Continue')] | //button[@type='submit']`,
		LoginSubmit:    `button[type="submit"]`,
		TwoStepLogin:   true, // Indeed splits email and password across two screens
		ApplyButton:    `//button[contains(., 'Apply now')] | //*[@id='indeedApplyButton'] | //*[contains(@class, 'jobsearch-IndeedApplyButton')]`,
		FormSubmit:     `//button[contains(., 'Submit application')] | //button[contains(., 'Submit')]`,
		FormNext:       `//button[contains(., 'Continue')] | //button[contains(., 'Next')]`,
		AppliedNote:    "Submitted via Indeed Apply",
		Headless:       false,
	},
}

// Lookup returns the profile for a platform. Generic and unknown platforms
// have no profile.
func Lookup(p Platform) (*Profile, bool) {
	profile, ok := profiles[p]
	return profile, ok
}
