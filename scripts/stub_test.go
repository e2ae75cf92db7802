package scripts

import (
	"context"
	"fmt"
	"strings"
	"time"
)

// stubDriver simulates a cooperative page: every selector matches unless the
// test says otherwise, screenshots return a fixed PNG header, and all
// interactions are recorded.
type stubDriver struct {
	exists    func(sel string) bool
	failNav   bool
	navigated []string
	clicked   []string
	filled    map[string]string
	quitCalls int
}

func newStubDriver() *stubDriver {
	return &stubDriver{filled: make(map[string]string)}
}

func (d *stubDriver) Navigate(ctx context.Context, url string) error {
	if d.failNav {
		return fmt.Errorf("navigation refused")
	}
	d.navigated = append(d.navigated, url)
	return nil
}

func (d *stubDriver) Exists(ctx context.Context, sel string) (bool, error) {
	if d.exists != nil {
		return d.exists(sel), nil
	}
	// A logged-in page has no error banners.
	if strings.Contains(sel, "error") || strings.Contains(sel, "alert") {
		return false, nil
	}
	return true, nil
}

func (d *stubDriver) Click(ctx context.Context, sel string) error {
	d.clicked = append(d.clicked, sel)
	return nil
}

func (d *stubDriver) Fill(ctx context.Context, sel, text string) error {
	d.filled[sel] = text
	return nil
}

func (d *stubDriver) Text(ctx context.Context, sel string) (string, error) {
	return "stub text", nil
}

func (d *stubDriver) Screenshot(ctx context.Context) ([]byte, error) {
	return []byte("\x89PNG\r\n\x1a\nstub"), nil
}

func (d *stubDriver) Wait(ctx context.Context, _ time.Duration) error {
	return ctx.Err()
}

func (d *stubDriver) WaitVisible(ctx context.Context, sel string, _ time.Duration) error {
	return nil
}

func (d *stubDriver) CurrentURL(ctx context.Context) (string, error) {
	if len(d.navigated) == 0 {
		return "about:blank", nil
	}
	return d.navigated[len(d.navigated)-1], nil
}

func (d *stubDriver) Quit() error {
	d.quitCalls++
	return nil
}
