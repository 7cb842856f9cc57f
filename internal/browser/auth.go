// Package browser - auth.go logs a page into a platform using its profile.
package browser

import (
	"strings"

	"go.uber.org/zap"

	"github.com/jonathan/apply-agent/internal/platform"
)

// Credentials are the username/password pair for one platform login.
type Credentials struct {
	Username string
	Password string
}

// Login authenticates a page against a platform. Two-step profiles fill the
// identifier first, advance, then fill the password; one-step profiles fill
// both fields on a single screen. If the post-login URL matches one of the
// profile's checkpoint patterns, Login suspends so a human can resolve the
// challenge in the visible window; only exceeding the checkpoint deadline
// turns the suspension into a failure.
func Login(page Page, profile *platform.Profile, creds Credentials, log *zap.Logger) error {
	if err := page.Navigate(profile.LoginURL, navigateTimeout); err != nil {
		return &AuthError{Platform: string(profile.ID), Cause: err}
	}

	if !page.Visible(profile.UsernameField, loginFieldTimeout) {
		return &AuthError{
			Platform: string(profile.ID),
			Cause:    &ElementNotFoundError{Selector: profile.UsernameField},
		}
	}
	if err := page.Fill(profile.UsernameField, creds.Username); err != nil {
		return &AuthError{Platform: string(profile.ID), Cause: err}
	}

	if profile.TwoStepLogin {
		if err := page.Click(profile.ContinueButton); err != nil {
			return &AuthError{Platform: string(profile.ID), Cause: err}
		}
		if !page.Visible(profile.PasswordField, loginFieldTimeout) {
			return &AuthError{
				Platform: string(profile.ID),
				Cause:    &ElementNotFoundError{Selector: profile.PasswordField},
			}
		}
	}

	if err := page.Fill(profile.PasswordField, creds.Password); err != nil {
		return &AuthError{Platform: string(profile.ID), Cause: err}
	}
	if err := page.Click(profile.LoginSubmit); err != nil {
		return &AuthError{Platform: string(profile.ID), Cause: err}
	}
	if err := page.Settle(settleTimeout); err != nil {
		return &AuthError{Platform: string(profile.ID), Cause: err}
	}

	if len(profile.CheckpointPatterns) > 0 {
		if err := resolveCheckpoint(page, profile, log); err != nil {
			return err
		}
	}

	log.Info("logged in", zap.String("platform", string(profile.ID)))
	return nil
}

// resolveCheckpoint detects a CAPTCHA/2FA interstitial and waits for the
// operator to clear it.
func resolveCheckpoint(page Page, profile *platform.Profile, log *zap.Logger) error {
	url, err := page.Location()
	if err != nil {
		return &AuthError{Platform: string(profile.ID), Cause: err}
	}

	lowered := strings.ToLower(url)
	for _, pattern := range profile.CheckpointPatterns {
		if !strings.Contains(lowered, strings.ToLower(pattern)) {
			continue
		}

		log.Warn("security checkpoint detected; complete it in the browser window",
			zap.String("platform", string(profile.ID)),
			zap.String("url", url))

		if err := page.WaitLocationContains(profile.CheckpointSettle, checkpointTimeout); err != nil {
			return &AuthError{Platform: string(profile.ID), Cause: err}
		}
		return nil
	}
	return nil
}
