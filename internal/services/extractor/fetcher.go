package extractor

import (
	"context"
	"time"

	"github.com/go-rod/rod"
	"github.com/go-rod/rod/lib/launcher"
	"github.com/go-rod/rod/lib/proto"
	"github.com/pkg/errors"
	"go.uber.org/zap"
)

// PageFetcher returns the rendered HTML of a product page.
type PageFetcher interface {
	Fetch(ctx context.Context, url string) (string, error)
}

// overlaySelectors are best-effort dismissals for the cookie-consent
// and investor-type interstitials the iShares pages put in front of
// fund data. A selector that never appears is not an error.
var overlaySelectors = []string{
	`//button[contains(translate(text(), 'ACCEPT', 'accept'), 'accept')]`,
	`//button[contains(text(), 'Accept All')]`,
	`//button[contains(text(), 'I Agree')]`,
	`//button[contains(@id, 'accept')]`,
	`//button[contains(translate(text(), 'CONTINUE', 'continue'), 'continue')]`,
	`//a[contains(translate(text(), 'CONTINUE', 'continue'), 'continue')]`,
	`//a[contains(text(), 'individual investor')]`,
}

const overlayClickTimeout = 2 * time.Second

// RodFetcher drives a headless Chromium instance via go-rod.
type RodFetcher struct {
	browser  *rod.Browser
	launcher *launcher.Launcher
	timeout  time.Duration
	l        *zap.Logger
}

// NewRodFetcher launches a browser and connects to it. Callers own the
// returned fetcher and must Close it.
func NewRodFetcher(headless bool, timeout time.Duration, l *zap.Logger) (*RodFetcher, error) {
	lc := launcher.New().Headless(headless)
	controlURL, err := lc.Launch()
	if err != nil {
		return nil, errors.Wrap(err, "launch browser")
	}

	browser := rod.New().ControlURL(controlURL)
	if err := browser.Connect(); err != nil {
		lc.Cleanup()
		return nil, errors.Wrap(err, "connect to browser")
	}

	return &RodFetcher{
		browser:  browser,
		launcher: lc,
		timeout:  timeout,
		l:        l,
	}, nil
}

// Fetch navigates to the page, dismisses overlays, scrolls the lazy
// sections into view and returns the rendered HTML.
func (f *RodFetcher) Fetch(ctx context.Context, url string) (string, error) {
	page, err := f.browser.Page(proto.TargetCreateTarget{})
	if err != nil {
		return "", errors.Wrap(err, "open page")
	}
	defer page.Close()

	page = page.Context(ctx).Timeout(f.timeout)

	if err := page.Navigate(url); err != nil {
		return "", errors.Wrapf(err, "navigate to %s", url)
	}
	if err := page.WaitLoad(); err != nil {
		return "", errors.Wrapf(err, "wait for %s", url)
	}

	f.dismissOverlays(page)
	f.scroll(page)

	src, err := page.HTML()
	if err != nil {
		return "", errors.Wrapf(err, "read page source of %s", url)
	}
	return src, nil
}

func (f *RodFetcher) dismissOverlays(page *rod.Page) {
	for _, sel := range overlaySelectors {
		el, err := page.Timeout(overlayClickTimeout).ElementX(sel)
		if err != nil {
			continue
		}
		if err := el.Click(proto.InputMouseButtonLeft, 1); err != nil {
			f.l.Debug("overlay click failed", zap.String("selector", sel), zap.Error(err))
			continue
		}
		f.l.Debug("dismissed overlay", zap.String("selector", sel))
		return
	}
}

func (f *RodFetcher) scroll(page *rod.Page) {
	// fund characteristics render lazily below the fold
	if _, err := page.Eval(`() => window.scrollTo(0, document.body.scrollHeight)`); err != nil {
		f.l.Debug("page scroll failed", zap.Error(err))
	}
	page.WaitRequestIdle(time.Second, nil, nil, nil)()
}

// Close shuts the browser down and cleans the launcher's temp data up.
func (f *RodFetcher) Close() error {
	err := f.browser.Close()
	f.launcher.Cleanup()
	return err
}
