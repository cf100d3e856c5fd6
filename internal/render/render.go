package render

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"time"

	"go_docbook/internal/artifact"
)

type Format string

const (
	FormatPDF Format = "pdf"
	FormatPNG Format = "png"
)

type Backend string

const (
	BackendPlaywright Backend = "playwright"
	BackendChromedp   Backend = "chromedp"
	BackendRod        Backend = "rod"
)

var (
	ErrUnknownBackend = errors.New("unknown render backend")
	ErrUnknownFormat  = errors.New("unknown render format")
	ErrEmptyCapture   = errors.New("renderer produced an empty file")
)

const (
	DefaultTimeout        = 60 * time.Second
	DefaultViewportWidth  = 1280
	DefaultViewportHeight = 800
	DefaultDeviceScale    = 2.0
	DefaultUserAgent      = "Mozilla/5.0 (X11; Linux x86_64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/124.0 Safari/537.36 go_docbook/1.0"

	cookieClickTimeout = 2 * time.Second
	// A4 in inches, for backends that take raw paper sizes.
	paperWidthInches  = 8.27
	paperHeightInches = 11.69
)

func ParseFormat(s string) (Format, error) {
	switch Format(strings.ToLower(strings.TrimSpace(s))) {
	case "", FormatPDF:
		return FormatPDF, nil
	case FormatPNG:
		return FormatPNG, nil
	}
	return "", fmt.Errorf("%w: %q (use pdf or png)", ErrUnknownFormat, s)
}

// Ext is the artifact extension written for this format.
func (f Format) Ext() string {
	if f == FormatPNG {
		return artifact.ExtPNG
	}
	return artifact.ExtPDF
}

func ParseBackend(s string) (Backend, error) {
	switch Backend(strings.ToLower(strings.TrimSpace(s))) {
	case "", BackendPlaywright:
		return BackendPlaywright, nil
	case BackendChromedp:
		return BackendChromedp, nil
	case BackendRod:
		return BackendRod, nil
	}
	return "", fmt.Errorf("%w: %q (use playwright, chromedp or rod)", ErrUnknownBackend, s)
}

type Options struct {
	Backend            Backend
	Format             Format
	Timeout            time.Duration
	UserAgent          string
	WaitFor            string
	Headless           bool
	RateLimitPerSecond float64
	HideSelectors      []string
	CookieSelectors    []string
	ViewportWidth      int
	ViewportHeight     int
	DeviceScale        float64
	Logger             *slog.Logger
}

func (o Options) withDefaults() Options {
	if o.Backend == "" {
		o.Backend = BackendPlaywright
	}
	if o.Format == "" {
		o.Format = FormatPDF
	}
	if o.Timeout <= 0 {
		o.Timeout = DefaultTimeout
	}
	if strings.TrimSpace(o.UserAgent) == "" {
		o.UserAgent = DefaultUserAgent
	}
	if o.HideSelectors == nil {
		o.HideSelectors = DefaultHideSelectors()
	}
	if o.CookieSelectors == nil {
		o.CookieSelectors = DefaultCookieSelectors()
	}
	if o.ViewportWidth <= 0 {
		o.ViewportWidth = DefaultViewportWidth
	}
	if o.ViewportHeight <= 0 {
		o.ViewportHeight = DefaultViewportHeight
	}
	if o.DeviceScale <= 0 {
		o.DeviceScale = DefaultDeviceScale
	}
	if o.Logger == nil {
		o.Logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	return o
}

// Renderer captures a single URL into a PDF or PNG file at dest.
type Renderer interface {
	Render(ctx context.Context, url, dest string) error
	Close() error
}

type browser interface {
	NewPage(ctx context.Context) (browserPage, error)
	Close() error
}

type browserPage interface {
	Goto(ctx context.Context, url string) error
	WaitFor(ctx context.Context, selector string) error
	// Evaluate runs a JavaScript function expression such as "() => {...}".
	Evaluate(ctx context.Context, fn string) error
	// Click clicks the first element matching selector. It reports false
	// when nothing matched.
	Click(ctx context.Context, selector string, timeout time.Duration) (bool, error)
	PDF(ctx context.Context, dest string) error
	Screenshot(ctx context.Context, dest string) error
	Close() error
}

// New starts a browser session for the configured backend. The session is
// reused for every Render call until Close.
func New(ctx context.Context, opts Options) (Renderer, error) {
	opts = opts.withDefaults()
	if _, err := ParseFormat(string(opts.Format)); err != nil {
		return nil, err
	}

	var (
		b   browser
		err error
	)
	switch opts.Backend {
	case BackendPlaywright:
		b, err = launchPlaywright(opts, playwrightProvider{})
	case BackendChromedp:
		b, err = launchChromedp(ctx, opts)
	case BackendRod:
		b, err = launchRod(ctx, opts)
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownBackend, opts.Backend)
	}
	if err != nil {
		return nil, fmt.Errorf("start %s: %w", opts.Backend, err)
	}
	return newPageRenderer(b, opts), nil
}

type pageRenderer struct {
	browser browser
	opts    Options
}

func newPageRenderer(b browser, opts Options) *pageRenderer {
	return &pageRenderer{browser: b, opts: opts.withDefaults()}
}

func (r *pageRenderer) Render(ctx context.Context, url, dest string) error {
	if err := waitForRateLimit(ctx, r.opts.RateLimitPerSecond); err != nil {
		return err
	}
	if err := os.MkdirAll(filepath.Dir(dest), 0o755); err != nil {
		return fmt.Errorf("create %s: %w", filepath.Dir(dest), err)
	}

	ctx, cancel := context.WithTimeout(ctx, r.opts.Timeout)
	defer cancel()

	page, err := r.browser.NewPage(ctx)
	if err != nil {
		return fmt.Errorf("open page for %s: %w", url, err)
	}
	defer func() {
		_ = page.Close()
	}()

	if err := page.Goto(ctx, url); err != nil {
		if errors.Is(err, context.DeadlineExceeded) {
			return fmt.Errorf("render %s timed out after %s (try --timeout or --wait-for)", url, r.opts.Timeout)
		}
		return fmt.Errorf("load %s: %w", url, err)
	}
	if r.opts.WaitFor != "" {
		if err := page.WaitFor(ctx, r.opts.WaitFor); err != nil {
			return fmt.Errorf("wait-for selector timed out on %s: %s", url, r.opts.WaitFor)
		}
	}

	r.acceptCookies(ctx, page, url)
	if script := hideScript(r.opts.HideSelectors); script != "" {
		if err := page.Evaluate(ctx, script); err != nil {
			r.opts.Logger.Warn("hiding elements failed", "url", url, "err", err)
		}
	}

	switch r.opts.Format {
	case FormatPNG:
		err = page.Screenshot(ctx, dest)
	default:
		err = page.PDF(ctx, dest)
	}
	if err != nil {
		_ = os.Remove(dest)
		return fmt.Errorf("capture %s: %w", url, err)
	}

	info, err := os.Stat(dest)
	if err != nil {
		return fmt.Errorf("capture %s: %w", url, err)
	}
	if info.Size() == 0 {
		_ = os.Remove(dest)
		return fmt.Errorf("%w: %s", ErrEmptyCapture, dest)
	}
	return nil
}

// acceptCookies clicks the first matching consent button. Failures are only
// logged; a banner that stays is hidden by the suppression script anyway.
func (r *pageRenderer) acceptCookies(ctx context.Context, page browserPage, url string) {
	for _, sel := range r.opts.CookieSelectors {
		clicked, err := page.Click(ctx, sel, cookieClickTimeout)
		if err != nil {
			r.opts.Logger.Debug("cookie selector failed", "url", url, "selector", sel, "err", err)
			continue
		}
		if clicked {
			r.opts.Logger.Debug("accepted cookies", "url", url, "selector", sel)
			return
		}
	}
}

func (r *pageRenderer) Close() error {
	return r.browser.Close()
}

func waitForRateLimit(ctx context.Context, ratePerSecond float64) error {
	if ratePerSecond <= 0 {
		return nil
	}
	interval := time.Duration(float64(time.Second) / ratePerSecond)
	if interval <= 0 {
		return nil
	}
	timer := time.NewTimer(interval)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}

func writeCapture(dest string, data []byte) error {
	if len(data) == 0 {
		return ErrEmptyCapture
	}
	return os.WriteFile(dest, data, 0o644)
}
