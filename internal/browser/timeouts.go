package browser

import "time"

// Deadlines for the interactive flows. The checkpoint ceiling is long on
// purpose: a human resolves the challenge in a visible window.
const (
	navigateTimeout     = 30 * time.Second
	settleTimeout       = 15 * time.Second
	loginFieldTimeout   = 10 * time.Second
	checkpointTimeout   = 120 * time.Second
	applyButtonTimeout  = 8 * time.Second
	domReadyTimeout     = 10 * time.Second
	probeTimeout        = 2 * time.Second
	uploadSettleTimeout = 5 * time.Second
	interactTimeout     = 10 * time.Second

	// settlePause approximates network idleness after the DOM is ready;
	// chromedp has no direct networkidle wait.
	settlePause  = 2 * time.Second
	pollInterval = 500 * time.Millisecond
)
