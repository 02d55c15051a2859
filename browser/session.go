// Package browser manages the single automated-browser session used for
// the whole run: launch, navigation, content extraction, teardown.
package browser

import (
	"context"
	"errors"
	"log/slog"
	"net/url"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"
	"github.com/go-rod/rod"
	"github.com/go-rod/rod/lib/launcher"
	"github.com/go-rod/rod/lib/launcher/flags"
	"github.com/go-rod/rod/lib/proto"
	"github.com/go-rod/stealth"
	"github.com/use-agent/refcheck/config"
	"github.com/use-agent/refcheck/models"
	"github.com/ysmood/gson"
)

// Session owns one headless browser and one long-lived page. The page is
// reused for every navigation; referral pages are independent, so no
// per-record isolation is needed.
type Session struct {
	browser *rod.Browser
	page    *rod.Page
	router  *rod.HijackRouter
}

// NewSession launches a headless browser and prepares the page it will
// reuse for the whole run.
//
// Lifecycle:
//
//  1. Launch          – headless Chromium with automation-masking flags
//  2. Connect         – attach over the control URL
//  3. Create page     – the one tab reused for every record
//  4. Stealth         – EvalOnNewDocument persists across navigations,
//     so it is installed once here, before any navigation
//  5. Hijack mount    – block images/CSS/fonts/media for every navigation
func NewSession(cfg config.BrowserConfig) (*Session, error) {
	l := launcher.New().
		Headless(cfg.Headless).
		NoSandbox(cfg.NoSandbox)

	if cfg.BrowserBin != "" {
		l = l.Bin(cfg.BrowserBin)
	}
	if cfg.Proxy != "" {
		l = l.Proxy(cfg.Proxy)
	}

	// ── Stealth flags ────────────────────────────────────────────────
	l.Set(flags.Flag("disable-blink-features"), "AutomationControlled")
	l.Delete(flags.Flag("enable-automation"))
	l.Set(flags.Flag("disable-component-update"))
	l.Set(flags.Flag("disable-default-apps"))
	l.Set(flags.Flag("disable-dev-shm-usage"))
	l.Set(flags.Flag("disable-extensions"))
	l.Set(flags.Flag("no-first-run"))

	controlURL, err := l.Launch()
	if err != nil {
		return nil, models.NewCheckError(
			models.ErrCodeBrowserLaunch,
			"failed to launch browser",
			err,
		)
	}
	slog.Info("browser launched", "controlURL", controlURL)

	browser := rod.New().ControlURL(controlURL)
	if err := browser.Connect(); err != nil {
		return nil, models.NewCheckError(
			models.ErrCodeBrowserLaunch,
			"failed to connect to browser",
			err,
		)
	}

	page, err := browser.Page(proto.TargetCreateTarget{})
	if err != nil {
		_ = browser.Close()
		return nil, models.NewCheckError(
			models.ErrCodeBrowserLaunch,
			"failed to create page",
			err,
		)
	}

	if cfg.Stealth {
		if _, evalErr := page.EvalOnNewDocument(stealth.JS); evalErr != nil {
			slog.Warn("stealth injection failed, proceeding without stealth",
				"error", evalErr,
			)
		}
	}

	router := setupHijack(page, cfg.BlockedResourceTypes)

	return &Session{
		browser: browser,
		page:    page,
		router:  router,
	}, nil
}

// Navigate loads targetURL on the session's page and waits for the DOM
// to settle. The caller bounds the whole operation via ctx; timeout and
// cancellation surface as CheckError{NAV_TIMEOUT}.
func (s *Session) Navigate(ctx context.Context, targetURL string) error {
	s.setReferer(targetURL)

	p := s.page.Context(ctx)
	if err := p.Navigate(targetURL); err != nil {
		return categorizeError(err, "navigation to referral URL failed")
	}

	if stableErr := p.WaitDOMStable(300*time.Millisecond, 0.1); stableErr != nil {
		slog.Debug("WaitDOMStable did not converge, proceeding with current DOM",
			"error", stableErr,
		)
	}
	return nil
}

// setReferer installs a Google-search Referer so the visit looks like an
// organic click-through rather than a direct automated hit.
func (s *Session) setReferer(targetURL string) {
	u, err := url.Parse(targetURL)
	if err != nil {
		return
	}
	_ = proto.NetworkSetExtraHTTPHeaders{
		Headers: proto.NetworkHeaders{
			"Referer": gson.New("https://www.google.com/search?q=" + url.QueryEscape(u.Hostname())),
		},
	}.Call(s.page)
}

// RenderedText returns the visible text of the document body, lower-cased
// for case-insensitive matching. When the live body cannot be read it
// parses the raw HTML for a body element, and when even that fails it
// returns the raw markup lower-cased.
func (s *Session) RenderedText() string {
	if res, err := s.page.Eval(`() => document.body ? document.body.innerText : ""`); err == nil {
		if text := res.Value.Str(); text != "" {
			return strings.ToLower(text)
		}
	}

	raw, err := s.page.HTML()
	if err != nil {
		return ""
	}
	if doc, docErr := goquery.NewDocumentFromReader(strings.NewReader(raw)); docErr == nil {
		if body := doc.Find("body"); body.Length() > 0 {
			return strings.ToLower(body.Text())
		}
	}
	return strings.ToLower(raw)
}

// Title returns the page title (best-effort; empty on failure).
func (s *Session) Title() string {
	res, err := s.page.Eval(`() => document.title`)
	if err != nil {
		return ""
	}
	return res.Value.Str()
}

// ElementTexts returns the visible text of every element matching the
// CSS selector, in document order.
func (s *Session) ElementTexts(selector string) []string {
	raw, err := s.page.HTML()
	if err != nil {
		return nil
	}
	texts, err := matchTexts(raw, selector)
	if err != nil {
		slog.Debug("element scan failed", "selector", selector, "error", err)
		return nil
	}
	return texts
}

// Close stops the hijack router, closes the page and kills the browser
// process. Call this exactly once on shutdown to prevent zombie Chrome
// processes.
func (s *Session) Close() {
	slog.Info("browser session shutting down")
	if s.router != nil {
		_ = s.router.Stop()
	}
	_ = s.page.Close()
	s.browser.MustClose()
	slog.Info("browser session closed")
}

// categorizeError wraps raw navigation errors into typed CheckErrors so
// the runner can tell timeouts apart from transport failures.
func categorizeError(err error, msg string) *models.CheckError {
	switch {
	case errors.Is(err, context.DeadlineExceeded):
		return models.NewCheckError(models.ErrCodeNavTimeout, msg, err)
	case errors.Is(err, context.Canceled):
		return models.NewCheckError(models.ErrCodeNavTimeout, "navigation canceled", err)
	default:
		return models.NewCheckError(models.ErrCodeNavigation, msg, err)
	}
}
