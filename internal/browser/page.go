package browser

import "time"

// Page is the narrow browser-tab surface the authenticator, form driver and
// status tracker operate on. The production implementation wraps a chromedp
// tab; tests substitute a scripted fake. Text-matching selectors are XPath,
// structural ones CSS; Count and Upload take CSS only.
//
// Every wait carries an explicit timeout, so no Page operation can block
// forever.
type Page interface {
	// Navigate loads a URL and waits for the initial document.
	Navigate(url string, timeout time.Duration) error
	// WaitReady blocks until the DOM is ready.
	WaitReady(timeout time.Duration) error
	// Settle blocks until the page has quieted down after navigation or a
	// click that triggers network activity.
	Settle(timeout time.Duration) error
	// Visible probes whether a selector matches a visible element within
	// the timeout. A false return is a negative probe, not an error.
	Visible(selector string, timeout time.Duration) bool
	// Click clicks the first visible match for the selector.
	Click(selector string) error
	// Fill sets the value of the first match for the selector.
	Fill(selector, value string) error
	// Count returns how many elements match a CSS selector.
	Count(cssSelector string) (int, error)
	// Upload attaches a local file to a file-input control.
	Upload(cssSelector, path string) error
	// Location returns the current page URL.
	Location() (string, error)
	// WaitLocationContains blocks until the URL contains substr.
	WaitLocationContains(substr string, timeout time.Duration) error
	// TabCount returns the number of open tabs in the browsing context.
	TabCount() (int, error)
	// ActivateNewestTab repoints the page at the most recently opened tab.
	ActivateNewestTab() error
	// HTML returns the full rendered document.
	HTML() (string, error)
}
