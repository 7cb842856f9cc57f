// Package browser - chrome.go implements Page over a chromedp tab.
package browser

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/chromedp/cdproto/target"
	"github.com/chromedp/chromedp"
)

// chromePage binds Page to one chromedp tab context. ActivateNewestTab
// repoints it at a different tab within the same browser.
type chromePage struct {
	ctx    context.Context
	cancel context.CancelFunc
}

func newChromePage(ctx context.Context, cancel context.CancelFunc) *chromePage {
	return &chromePage{ctx: ctx, cancel: cancel}
}

// run executes chromedp actions under a deadline, mapping deadline failures
// to TimeoutError.
func (p *chromePage) run(op string, timeout time.Duration, actions ...chromedp.Action) error {
	ctx, cancel := context.WithTimeout(p.ctx, timeout)
	defer cancel()

	if err := chromedp.Run(ctx, actions...); err != nil {
		if ctx.Err() == context.DeadlineExceeded {
			return &TimeoutError{Op: op, Timeout: timeout, Cause: err}
		}
		return fmt.Errorf("%s failed: %w", op, err)
	}
	return nil
}

func (p *chromePage) Navigate(url string, timeout time.Duration) error {
	return p.run("navigate to "+url, timeout, chromedp.Navigate(url))
}

func (p *chromePage) WaitReady(timeout time.Duration) error {
	return p.run("wait for DOM ready", timeout, chromedp.WaitReady("body", chromedp.ByQuery))
}

func (p *chromePage) Settle(timeout time.Duration) error {
	return p.run("wait for page settle", timeout,
		chromedp.WaitReady("body", chromedp.ByQuery),
		chromedp.Sleep(settlePause),
	)
}

func (p *chromePage) Visible(selector string, timeout time.Duration) bool {
	ctx, cancel := context.WithTimeout(p.ctx, timeout)
	defer cancel()

	err := chromedp.Run(ctx, chromedp.WaitVisible(selector, chromedp.BySearch))
	return err == nil
}

func (p *chromePage) Click(selector string) error {
	return p.run("click "+selector, interactTimeout,
		chromedp.Click(selector, chromedp.BySearch, chromedp.NodeVisible))
}

func (p *chromePage) Fill(selector, value string) error {
	return p.run("fill "+selector, interactTimeout,
		chromedp.SetValue(selector, value, chromedp.BySearch))
}

func (p *chromePage) Count(cssSelector string) (int, error) {
	var n int
	expr := fmt.Sprintf("document.querySelectorAll(%q).length", cssSelector)
	if err := p.run("count "+cssSelector, interactTimeout, chromedp.Evaluate(expr, &n)); err != nil {
		return 0, err
	}
	return n, nil
}

func (p *chromePage) Upload(cssSelector, path string) error {
	return p.run("upload file", interactTimeout,
		chromedp.SetUploadFiles(cssSelector, []string{path}, chromedp.ByQuery))
}

func (p *chromePage) Location() (string, error) {
	var url string
	if err := p.run("read location", interactTimeout, chromedp.Location(&url)); err != nil {
		return "", err
	}
	return url, nil
}

func (p *chromePage) WaitLocationContains(substr string, timeout time.Duration) error {
	deadline := time.Now().Add(timeout)
	for {
		url, err := p.Location()
		if err == nil && strings.Contains(strings.ToLower(url), strings.ToLower(substr)) {
			return nil
		}
		if time.Now().After(deadline) {
			return &TimeoutError{Op: "wait for URL containing " + substr, Timeout: timeout}
		}
		select {
		case <-p.ctx.Done():
			return p.ctx.Err()
		case <-time.After(pollInterval):
		}
	}
}

func (p *chromePage) TabCount() (int, error) {
	infos, err := chromedp.Targets(p.ctx)
	if err != nil {
		return 0, fmt.Errorf("listing targets failed: %w", err)
	}
	n := 0
	for _, info := range infos {
		if info.Type == "page" {
			n++
		}
	}
	return n, nil
}

func (p *chromePage) ActivateNewestTab() error {
	infos, err := chromedp.Targets(p.ctx)
	if err != nil {
		return fmt.Errorf("listing targets failed: %w", err)
	}

	newest := pickNewestTarget(infos, p.currentTargetID())
	if newest == "" {
		return &ElementNotFoundError{Selector: "newly opened tab"}
	}

	ctx, cancel := chromedp.NewContext(p.ctx, chromedp.WithTargetID(newest))
	if err := chromedp.Run(ctx); err != nil {
		cancel()
		return fmt.Errorf("attaching to new tab failed: %w", err)
	}

	p.ctx, p.cancel = ctx, cancel
	return nil
}

func (p *chromePage) HTML() (string, error) {
	var html string
	if err := p.run("capture HTML", interactTimeout,
		chromedp.OuterHTML("html", &html, chromedp.ByQuery)); err != nil {
		return "", err
	}
	return html, nil
}

// pickNewestTarget selects the tab to follow after an apply click. Target
// listing order is not creation order, so a page whose opener is the
// current tab wins over any other page; without one, the last non-current
// page is the best available guess.
func pickNewestTarget(infos []*target.Info, current target.ID) target.ID {
	var opened, fallback target.ID
	for _, info := range infos {
		if info.Type != "page" || info.TargetID == current {
			continue
		}
		if info.OpenerID == current {
			opened = info.TargetID
		} else {
			fallback = info.TargetID
		}
	}
	if opened != "" {
		return opened
	}
	return fallback
}

func (p *chromePage) currentTargetID() target.ID {
	if c := chromedp.FromContext(p.ctx); c != nil && c.Target != nil {
		return c.Target.TargetID
	}
	return ""
}
