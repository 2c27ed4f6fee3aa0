package scraper

import (
	"context"
	"sync"
	"time"

	"github.com/chromedp/cdproto/emulation"
	"github.com/chromedp/chromedp"
)

// BrowserLauncher starts a dedicated headless browser. Every session it
// returns must be closed by the caller.
type BrowserLauncher interface {
	Launch(ctx context.Context, userAgent string) (BrowserSession, error)
}

type BrowserSession interface {
	// Render loads url, waits settle, scrolls to the bottom, waits
	// scrollSettle and returns the document's outer HTML.
	Render(ctx context.Context, req RenderRequest) (string, error)
	Close() error
}

type RenderRequest struct {
	URL          string
	UserAgent    string
	Settle       time.Duration
	ScrollSettle time.Duration
	Timeout      time.Duration
}

const scrollToBottomJS = `window.scrollTo(0, document.body.scrollHeight); document.body.scrollHeight`

type ChromeLauncher struct {
	ExecPath string
}

func NewChromeLauncher() *ChromeLauncher {
	return &ChromeLauncher{}
}

func (l *ChromeLauncher) Launch(ctx context.Context, userAgent string) (BrowserSession, error) {
	opts := append(chromedp.DefaultExecAllocatorOptions[:],
		chromedp.Flag("headless", true),
		chromedp.Flag("disable-gpu", true),
		chromedp.Flag("no-sandbox", true),
		chromedp.Flag("disable-dev-shm-usage", true),
		chromedp.WindowSize(1920, 1080),
		chromedp.UserAgent(userAgent),
	)
	if l != nil && l.ExecPath != "" {
		opts = append(opts, chromedp.ExecPath(l.ExecPath))
	}

	allocCtx, allocCancel := chromedp.NewExecAllocator(context.WithoutCancel(ctx), opts...)
	browserCtx, browserCancel := chromedp.NewContext(allocCtx)

	// An empty Run starts the browser process.
	if err := chromedp.Run(browserCtx); err != nil {
		browserCancel()
		allocCancel()
		return nil, err
	}

	return &chromeSession{browserCtx: browserCtx, browserCancel: browserCancel, allocCancel: allocCancel}, nil
}

type chromeSession struct {
	browserCtx    context.Context
	browserCancel context.CancelFunc
	allocCancel   context.CancelFunc

	closeOnce sync.Once
	closeErr  error
}

func (s *chromeSession) Render(ctx context.Context, req RenderRequest) (string, error) {
	runCtx, cancel := context.WithCancel(s.browserCtx)
	defer cancel()
	if req.Timeout > 0 {
		runCtx, cancel = context.WithTimeout(runCtx, req.Timeout)
		defer cancel()
	}
	stop := context.AfterFunc(ctx, cancel)
	defer stop()

	actions := []chromedp.Action{}
	if req.UserAgent != "" {
		actions = append(actions, emulation.SetUserAgentOverride(req.UserAgent))
	}

	var html string
	var height float64
	actions = append(actions,
		chromedp.Navigate(req.URL),
		chromedp.WaitReady("body", chromedp.ByQuery),
		chromedp.Sleep(req.Settle),
		chromedp.Evaluate(scrollToBottomJS, &height),
		chromedp.Sleep(req.ScrollSettle),
		chromedp.OuterHTML("html", &html, chromedp.ByQuery),
	)

	if err := chromedp.Run(runCtx, actions...); err != nil {
		if ctx.Err() != nil {
			return "", ctx.Err()
		}
		return "", err
	}
	return html, nil
}

// Close shuts the browser down. It is safe to call more than once.
func (s *chromeSession) Close() error {
	if s == nil {
		return nil
	}
	s.closeOnce.Do(func() {
		s.closeErr = chromedp.Cancel(s.browserCtx)
		s.browserCancel()
		s.allocCancel()
	})
	return s.closeErr
}
