// Package session abstracts the browser automation backend behind a small
// imperative driver so research scripts can be exercised against a stub.
package session

import (
	"context"
	"time"
)

// Driver is the uniform automation surface used by research scripts.
//
// Element lookups may legitimately find nothing; callers treat a miss as a
// recoverable condition, not an abort. Wait is a deliberate fixed delay used
// to ride out client-side transitions the backend cannot observe. Quit is
// idempotent and must run on every exit path so the browser session is
// released.
type Driver interface {
	Navigate(ctx context.Context, url string) error
	Exists(ctx context.Context, selector string) (bool, error)
	Click(ctx context.Context, selector string) error
	Fill(ctx context.Context, selector, text string) error
	Text(ctx context.Context, selector string) (string, error)
	Screenshot(ctx context.Context) ([]byte, error)
	Wait(ctx context.Context, d time.Duration) error
	WaitVisible(ctx context.Context, selector string, timeout time.Duration) error
	CurrentURL(ctx context.Context) (string, error)
	Quit() error
}

// Factory creates isolated driver sessions from a shared browser. Each
// platform gets its own session so cookies and storage never leak across
// platform runs.
type Factory interface {
	NewSession(ctx context.Context) (Driver, error)
	Close()
}

// FirstMatch tries an ordered list of selectors and returns the first one
// present on the page. Lookup errors count as misses; the cascade only fails
// when every candidate does.
func FirstMatch(ctx context.Context, drv Driver, selectors ...string) (string, bool) {
	for _, sel := range selectors {
		ok, err := drv.Exists(ctx, sel)
		if err != nil {
			continue
		}
		if ok {
			return sel, true
		}
	}
	return "", false
}
