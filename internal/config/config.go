// Package config provides environment-backed configuration for the agent.
// Settings are read once via Load and passed explicitly into the components
// that need them; nothing in this package holds mutable process state.
package config

import (
	"fmt"
	"os"
	"strconv"

	"github.com/go-playground/validator/v10"
)

// Config holds every setting the agent reads from the environment. A .env
// file, if present, is loaded by the CLI entry point before Load runs.
type Config struct {
	// Google
	SheetID         string `validate:"required"`
	UserEmail       string `validate:"required,email"`
	CredentialsPath string `validate:"required"`
	TokenPath       string `validate:"required"`
	SheetName       string `validate:"required"`
	SheetRange      string `validate:"required"`

	// Resume and cover letter
	ResumePath         string
	LetterTemplatePath string
	ApplicantName      string
	Skills             string

	// Platform credentials
	LinkedInEmail    string
	LinkedInPassword string
	IndeedEmail      string
	IndeedPassword   string

	// Scheduler
	ApplyHour               int `validate:"min=0,max=23"`
	ApplyMinute             int `validate:"min=0,max=59"`
	StatusCheckIntervalDays int `validate:"min=1"`
	StatusCheckHour         int `validate:"min=0,max=23"`

	// Behavior
	DryRun                bool
	MaxApplicationsPerRun int `validate:"min=1"`
	MaxFormSteps          int `validate:"min=1"`

	// Audit log
	DatabaseURL string
}

// Load builds a Config from environment variables, applying defaults for
// everything optional. It does not validate; call Validate once flags have
// been merged in.
func Load() (*Config, error) {
	cfg := &Config{
		SheetID:            os.Getenv("GOOGLE_SHEET_ID"),
		UserEmail:          os.Getenv("USER_EMAIL"),
		CredentialsPath:    envOr("GOOGLE_CREDENTIALS_PATH", "credentials.json"),
		TokenPath:          envOr("GOOGLE_TOKEN_PATH", "token.json"),
		SheetName:          envOr("SHEET_NAME", "Jobs"),
		SheetRange:         envOr("SHEET_RANGE", "A:J"),
		ResumePath:         os.Getenv("RESUME_LOCAL_PATH"),
		LetterTemplatePath: os.Getenv("LETTER_TEMPLATE_PATH"),
		ApplicantName:      envOr("APPLICANT_NAME", "Your Name"),
		Skills:             envOr("SKILLS", "software development"),
		LinkedInEmail:      os.Getenv("LINKEDIN_EMAIL"),
		LinkedInPassword:   os.Getenv("LINKEDIN_PASSWORD"),
		IndeedEmail:        os.Getenv("INDEED_EMAIL"),
		IndeedPassword:     os.Getenv("INDEED_PASSWORD"),
		DryRun:             os.Getenv("DRY_RUN") == "true",
		DatabaseURL:        os.Getenv("DATABASE_URL"),
	}

	var err error
	if cfg.ApplyHour, err = envInt("APPLY_HOUR", 9); err != nil {
		return nil, err
	}
	if cfg.ApplyMinute, err = envInt("APPLY_MINUTE", 0); err != nil {
		return nil, err
	}
	if cfg.StatusCheckIntervalDays, err = envInt("STATUS_CHECK_INTERVAL_DAYS", 2); err != nil {
		return nil, err
	}
	if cfg.StatusCheckHour, err = envInt("STATUS_CHECK_HOUR", 10); err != nil {
		return nil, err
	}
	if cfg.MaxApplicationsPerRun, err = envInt("MAX_APPLICATIONS_PER_RUN", 5); err != nil {
		return nil, err
	}
	if cfg.MaxFormSteps, err = envInt("MAX_FORM_STEPS", 10); err != nil {
		return nil, err
	}

	return cfg, nil
}

// Validate checks the configuration against its struct tags.
func (c *Config) Validate() error {
	if err := validator.New().Struct(c); err != nil {
		return fmt.Errorf("config validation failed: %w", err)
	}
	return nil
}

// Login returns the credentials configured for a platform. Unknown
// platforms yield empty credentials.
func (c *Config) Login(platform string) (username, password string) {
	switch platform {
	case "linkedin":
		return c.LinkedInEmail, c.LinkedInPassword
	case "indeed":
		return c.IndeedEmail, c.IndeedPassword
	}
	return "", ""
}

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func envInt(key string, fallback int) (int, error) {
	v := os.Getenv(key)
	if v == "" {
		return fallback, nil
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return 0, fmt.Errorf("invalid value for %s: %q", key, v)
	}
	return n, nil
}
