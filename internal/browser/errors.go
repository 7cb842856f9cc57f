// Package browser drives job-board UIs through a real browser: logging in,
// clicking through multi-step apply forms, and managing session lifecycle.
package browser

import (
	"context"
	"errors"
	"fmt"
	"time"
)

// TimeoutError reports that a wait exceeded its deadline.
type TimeoutError struct {
	Op      string
	Timeout time.Duration
	Cause   error
}

func (e *TimeoutError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("timeout after %s during %s: %v", e.Timeout, e.Op, e.Cause)
	}
	return fmt.Sprintf("timeout after %s during %s", e.Timeout, e.Op)
}

func (e *TimeoutError) Unwrap() error {
	return e.Cause
}

// ElementNotFoundError reports that an expected control never appeared,
// as established by an explicit visibility probe.
type ElementNotFoundError struct {
	Selector string
}

func (e *ElementNotFoundError) Error() string {
	return fmt.Sprintf("element not found: %s", e.Selector)
}

// AuthError reports that the login flow could not establish a session.
type AuthError struct {
	Platform string
	Cause    error
}

func (e *AuthError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("authentication failed for %s: %v", e.Platform, e.Cause)
	}
	return fmt.Sprintf("authentication failed for %s", e.Platform)
}

func (e *AuthError) Unwrap() error {
	return e.Cause
}

// IsTimeout reports whether err is a deadline failure, either our own
// TimeoutError or a raw context.DeadlineExceeded from chromedp.
func IsTimeout(err error) bool {
	var te *TimeoutError
	return errors.As(err, &te) || errors.Is(err, context.DeadlineExceeded)
}
