// Package browser - session.go owns browser session lifecycle.
package browser

import (
	"context"
	"fmt"

	"github.com/chromedp/chromedp"
	"go.uber.org/zap"

	"github.com/jonathan/apply-agent/internal/platform"
)

// Session is an authenticated browser bound to one platform. It is opened
// once per platform per run and shared by every application on that
// platform.
type Session struct {
	page     *chromePage
	platform platform.Platform
	cancels  []context.CancelFunc
	log      *zap.Logger
}

// Page returns the session's active tab.
func (s *Session) Page() Page {
	return s.page
}

// Platform returns the platform this session is logged into.
func (s *Session) Platform() platform.Platform {
	return s.platform
}

// Close tears the browser down. Teardown failures are logged, never
// propagated: a session that already did its work should not fail the run
// on the way out.
func (s *Session) Close() {
	if s.page != nil && s.page.cancel != nil {
		s.page.cancel()
	}
	for i := len(s.cancels) - 1; i >= 0; i-- {
		s.cancels[i]()
	}
	s.log.Debug("session closed", zap.String("platform", string(s.platform)))
}

// Manager opens authenticated sessions from platform profiles and
// credentials.
type Manager struct {
	log *zap.Logger
}

// NewManager returns a session manager.
func NewManager(log *zap.Logger) *Manager {
	return &Manager{log: log}
}

// Open launches a browser, logs into the platform, and returns the live
// session. Profiles that declare checkpoint patterns always get a headed
// browser so a human can resolve challenges.
func (m *Manager) Open(ctx context.Context, profile *platform.Profile, creds Credentials) (*Session, error) {
	headless := profile.Headless && len(profile.CheckpointPatterns) == 0

	opts := append(chromedp.DefaultExecAllocatorOptions[:],
		chromedp.Flag("headless", headless),
		chromedp.Flag("disable-gpu", true),
		chromedp.Flag("no-sandbox", true),
		chromedp.Flag("disable-dev-shm-usage", true),
	)

	allocCtx, allocCancel := chromedp.NewExecAllocator(ctx, opts...)
	tabCtx, tabCancel := chromedp.NewContext(allocCtx)

	sess := &Session{
		page:     newChromePage(tabCtx, tabCancel),
		platform: profile.ID,
		cancels:  []context.CancelFunc{allocCancel},
		log:      m.log,
	}

	// Starting the browser eagerly surfaces launch failures here instead of
	// inside the first page operation.
	if err := chromedp.Run(tabCtx); err != nil {
		sess.Close()
		return nil, fmt.Errorf("launching browser for %s failed: %w", profile.ID, err)
	}

	m.log.Info("browser session starting",
		zap.String("platform", string(profile.ID)),
		zap.Bool("headless", headless))

	if err := Login(sess.page, profile, creds, m.log); err != nil {
		sess.Close()
		return nil, err
	}
	return sess, nil
}

// WithSession opens a session, runs fn against its page, and guarantees the
// browser is closed afterwards regardless of fn's outcome.
func (m *Manager) WithSession(ctx context.Context, profile *platform.Profile, creds Credentials, fn func(Page) error) error {
	sess, err := m.Open(ctx, profile, creds)
	if err != nil {
		return err
	}
	defer sess.Close()
	return fn(sess.Page())
}
