package session

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/chromedp/cdproto/cdp"
	"github.com/chromedp/chromedp"
)

// DefaultOpTimeout bounds every individual browser interaction so a stuck
// page degrades the step instead of hanging the run.
const DefaultOpTimeout = 30 * time.Second

// Browser owns the Chrome allocator shared by all sessions of one
// invocation. Launch once per process, Close in a defer.
type Browser struct {
	allocCtx  context.Context
	cancel    context.CancelFunc
	closeOnce sync.Once
}

// Launch prepares a Chrome allocator. The browser process itself starts
// lazily with the first session action.
func Launch(ctx context.Context, headless bool) (*Browser, error) {
	opts := append(chromedp.DefaultExecAllocatorOptions[:],
		chromedp.Flag("headless", headless),
		chromedp.Flag("disable-gpu", true),
		chromedp.Flag("no-sandbox", true),
		chromedp.Flag("ignore-certificate-errors", true),
		chromedp.WindowSize(1440, 900),
	)
	allocCtx, cancel := chromedp.NewExecAllocator(ctx, opts...)
	return &Browser{allocCtx: allocCtx, cancel: cancel}, nil
}

// NewSession carves an isolated browsing context out of the shared
// allocator. The caller must Quit the session when the platform is done.
func (b *Browser) NewSession(ctx context.Context) (Driver, error) {
	if b.allocCtx == nil {
		return nil, fmt.Errorf("browser not launched")
	}
	tabCtx, cancel := chromedp.NewContext(b.allocCtx)
	return &chromeSession{
		ctx:       tabCtx,
		cancel:    cancel,
		opTimeout: DefaultOpTimeout,
	}, nil
}

// Close tears the allocator down, killing the Chrome process. Idempotent.
func (b *Browser) Close() {
	b.closeOnce.Do(func() {
		if b.cancel != nil {
			b.cancel()
		}
	})
}

type chromeSession struct {
	ctx       context.Context
	cancel    context.CancelFunc
	opTimeout time.Duration
	quitOnce  sync.Once
}

func (s *chromeSession) run(ctx context.Context, timeout time.Duration, actions ...chromedp.Action) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	opCtx, cancel := context.WithTimeout(s.ctx, timeout)
	defer cancel()
	return chromedp.Run(opCtx, actions...)
}

func (s *chromeSession) Navigate(ctx context.Context, url string) error {
	if err := s.run(ctx, s.opTimeout, chromedp.Navigate(url)); err != nil {
		return fmt.Errorf("navigate %s: %w", url, err)
	}
	return nil
}

func (s *chromeSession) Exists(ctx context.Context, selector string) (bool, error) {
	var nodes []*cdp.Node
	err := s.run(ctx, s.opTimeout, chromedp.Nodes(selector, &nodes, chromedp.ByQueryAll, chromedp.AtLeast(0)))
	if err != nil {
		return false, fmt.Errorf("lookup %q: %w", selector, err)
	}
	return len(nodes) > 0, nil
}

func (s *chromeSession) Click(ctx context.Context, selector string) error {
	err := s.run(ctx, s.opTimeout, chromedp.Click(selector, chromedp.ByQuery, chromedp.NodeVisible))
	if err != nil {
		return fmt.Errorf("click %q: %w", selector, err)
	}
	return nil
}

func (s *chromeSession) Fill(ctx context.Context, selector, text string) error {
	err := s.run(ctx, s.opTimeout,
		chromedp.Clear(selector, chromedp.ByQuery),
		chromedp.SendKeys(selector, text, chromedp.ByQuery),
	)
	if err != nil {
		return fmt.Errorf("fill %q: %w", selector, err)
	}
	return nil
}

func (s *chromeSession) Text(ctx context.Context, selector string) (string, error) {
	var out string
	err := s.run(ctx, s.opTimeout, chromedp.Text(selector, &out, chromedp.ByQuery))
	if err != nil {
		return "", fmt.Errorf("text %q: %w", selector, err)
	}
	return out, nil
}

func (s *chromeSession) Screenshot(ctx context.Context) ([]byte, error) {
	var buf []byte
	if err := s.run(ctx, s.opTimeout, chromedp.CaptureScreenshot(&buf)); err != nil {
		return nil, fmt.Errorf("screenshot: %w", err)
	}
	return buf, nil
}

func (s *chromeSession) Wait(ctx context.Context, d time.Duration) error {
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-time.After(d):
		return nil
	}
}

func (s *chromeSession) WaitVisible(ctx context.Context, selector string, timeout time.Duration) error {
	if timeout <= 0 {
		timeout = s.opTimeout
	}
	err := s.run(ctx, timeout, chromedp.WaitVisible(selector, chromedp.ByQuery))
	if err != nil {
		return fmt.Errorf("wait visible %q: %w", selector, err)
	}
	return nil
}

func (s *chromeSession) CurrentURL(ctx context.Context) (string, error) {
	var loc string
	if err := s.run(ctx, s.opTimeout, chromedp.Location(&loc)); err != nil {
		return "", fmt.Errorf("location: %w", err)
	}
	return loc, nil
}

func (s *chromeSession) Quit() error {
	s.quitOnce.Do(func() {
		if s.cancel != nil {
			s.cancel()
		}
	})
	return nil
}
