package browser

import "time"

// fakePage is a scripted Page for exercising the login and form flows
// without a browser. Visibility can be scripted per selector, either as a
// fixed answer or a queue consumed one probe at a time.
type fakePage struct {
	navigateErr error
	uploadErr   error
	waitLocErr  error

	location    string
	locationSeq []string
	visible     map[string]bool
	visibleSeq  map[string][]bool
	counts      map[string]int
	tabCounts   []int
	html        string

	navigated    []string
	clicked      []string
	filled       map[string]string
	fills        []string
	uploaded     []string
	waitedFor    []string
	activateCall int

	// ops records page operations in call order for sequencing assertions.
	ops []string
}

func newFakePage() *fakePage {
	return &fakePage{
		visible:    map[string]bool{},
		visibleSeq: map[string][]bool{},
		counts:     map[string]int{},
		filled:     map[string]string{},
	}
}

func (f *fakePage) Navigate(url string, _ time.Duration) error {
	f.navigated = append(f.navigated, url)
	f.ops = append(f.ops, "navigate")
	return f.navigateErr
}

func (f *fakePage) WaitReady(time.Duration) error {
	f.ops = append(f.ops, "waitready")
	return nil
}

func (f *fakePage) Settle(time.Duration) error {
	f.ops = append(f.ops, "settle")
	return nil
}

func (f *fakePage) Visible(selector string, _ time.Duration) bool {
	if q, ok := f.visibleSeq[selector]; ok && len(q) > 0 {
		answer := q[0]
		f.visibleSeq[selector] = q[1:]
		return answer
	}
	return f.visible[selector]
}

func (f *fakePage) Click(selector string) error {
	f.clicked = append(f.clicked, selector)
	f.ops = append(f.ops, "click")
	return nil
}

func (f *fakePage) Fill(selector, value string) error {
	f.filled[selector] = value
	f.fills = append(f.fills, selector)
	return nil
}

func (f *fakePage) Count(cssSelector string) (int, error) {
	return f.counts[cssSelector], nil
}

func (f *fakePage) Upload(cssSelector, path string) error {
	if f.uploadErr != nil {
		return f.uploadErr
	}
	f.uploaded = append(f.uploaded, path)
	return nil
}

func (f *fakePage) Location() (string, error) {
	if len(f.locationSeq) > 0 {
		url := f.locationSeq[0]
		f.locationSeq = f.locationSeq[1:]
		return url, nil
	}
	return f.location, nil
}

func (f *fakePage) WaitLocationContains(substr string, _ time.Duration) error {
	f.waitedFor = append(f.waitedFor, substr)
	return f.waitLocErr
}

func (f *fakePage) TabCount() (int, error) {
	f.ops = append(f.ops, "tabcount")
	if len(f.tabCounts) > 0 {
		n := f.tabCounts[0]
		f.tabCounts = f.tabCounts[1:]
		return n, nil
	}
	return 1, nil
}

func (f *fakePage) ActivateNewestTab() error {
	f.activateCall++
	f.ops = append(f.ops, "activate")
	return nil
}

func (f *fakePage) HTML() (string, error) {
	return f.html, nil
}
