package render

import (
	"context"
	"fmt"
	"time"

	"github.com/playwright-community/playwright-go"
)

type playwrightDriver interface {
	Install() error
	Run() (playwrightRunner, error)
}

type playwrightRunner interface {
	ChromiumLaunch(headless bool) (playwrightBrowser, error)
	Stop() error
}

type playwrightBrowser interface {
	NewPage(opts pageSettings) (browserPage, error)
	Close() error
}

type pageSettings struct {
	UserAgent      string
	ViewportWidth  int
	ViewportHeight int
	DeviceScale    float64
	Timeout        time.Duration
}

func settingsFrom(opts Options) pageSettings {
	return pageSettings{
		UserAgent:      opts.UserAgent,
		ViewportWidth:  opts.ViewportWidth,
		ViewportHeight: opts.ViewportHeight,
		DeviceScale:    opts.DeviceScale,
		Timeout:        opts.Timeout,
	}
}

type playwrightProvider struct{}

func (playwrightProvider) Install() error {
	return playwright.Install(&playwright.RunOptions{})
}

func (playwrightProvider) Run() (playwrightRunner, error) {
	pw, err := playwright.Run()
	if err != nil {
		return nil, err
	}
	return &pwRunner{pw: pw}, nil
}

type pwRunner struct {
	pw *playwright.Playwright
}

func (r *pwRunner) ChromiumLaunch(headless bool) (playwrightBrowser, error) {
	b, err := r.pw.Chromium.Launch(playwright.BrowserTypeLaunchOptions{
		Headless: playwright.Bool(headless),
	})
	if err != nil {
		return nil, err
	}
	return &pwBrowser{browser: b}, nil
}

func (r *pwRunner) Stop() error {
	return r.pw.Stop()
}

type pwBrowser struct {
	browser playwright.Browser
}

func (b *pwBrowser) NewPage(s pageSettings) (browserPage, error) {
	page, err := b.browser.NewPage(playwright.BrowserNewPageOptions{
		UserAgent:         playwright.String(s.UserAgent),
		Viewport:          &playwright.Size{Width: s.ViewportWidth, Height: s.ViewportHeight},
		DeviceScaleFactor: playwright.Float(s.DeviceScale),
	})
	if err != nil {
		return nil, err
	}
	page.SetDefaultTimeout(float64(s.Timeout.Milliseconds()))
	return &pwPage{page: page, timeout: s.Timeout}, nil
}

func (b *pwBrowser) Close() error {
	return b.browser.Close()
}

type pwPage struct {
	page    playwright.Page
	timeout time.Duration
}

func (p *pwPage) Goto(_ context.Context, url string) error {
	_, err := p.page.Goto(url, playwright.PageGotoOptions{
		Timeout:   playwright.Float(float64(p.timeout.Milliseconds())),
		WaitUntil: playwright.WaitUntilStateNetworkidle,
	})
	return err
}

func (p *pwPage) WaitFor(_ context.Context, selector string) error {
	return p.page.Locator(selector).First().WaitFor(playwright.LocatorWaitForOptions{
		Timeout: playwright.Float(float64(p.timeout.Milliseconds())),
	})
}

func (p *pwPage) Evaluate(_ context.Context, fn string) error {
	_, err := p.page.Evaluate(fn)
	return err
}

func (p *pwPage) Click(_ context.Context, selector string, timeout time.Duration) (bool, error) {
	visible, err := p.page.Evaluate(existsScript(selector))
	if err != nil {
		return false, err
	}
	if ok, _ := visible.(bool); !ok {
		return false, nil
	}
	err = p.page.Locator(selector).First().Click(playwright.LocatorClickOptions{
		Timeout: playwright.Float(float64(timeout.Milliseconds())),
	})
	if err != nil {
		return false, err
	}
	return true, nil
}

func (p *pwPage) PDF(_ context.Context, dest string) error {
	_, err := p.page.PDF(playwright.PagePdfOptions{
		Path:              playwright.String(dest),
		Format:            playwright.String("A4"),
		PrintBackground:   playwright.Bool(true),
		PreferCSSPageSize: playwright.Bool(true),
		Scale:             playwright.Float(1),
	})
	return err
}

func (p *pwPage) Screenshot(_ context.Context, dest string) error {
	_, err := p.page.Screenshot(playwright.PageScreenshotOptions{
		Path:     playwright.String(dest),
		FullPage: playwright.Bool(true),
		Type:     playwright.ScreenshotTypePng,
	})
	return err
}

func (p *pwPage) Close() error {
	return p.page.Close()
}

// playwrightSession keeps one runner and browser alive across pages.
type playwrightSession struct {
	runner   playwrightRunner
	browser  playwrightBrowser
	settings pageSettings
}

func launchPlaywright(opts Options, driver playwrightDriver) (*playwrightSession, error) {
	if err := driver.Install(); err != nil {
		return nil, fmt.Errorf("install playwright: %w", err)
	}
	runner, err := driver.Run()
	if err != nil {
		return nil, err
	}
	b, err := runner.ChromiumLaunch(opts.Headless)
	if err != nil {
		_ = runner.Stop()
		return nil, err
	}
	return &playwrightSession{runner: runner, browser: b, settings: settingsFrom(opts)}, nil
}

func (s *playwrightSession) NewPage(ctx context.Context) (browserPage, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	return s.browser.NewPage(s.settings)
}

func (s *playwrightSession) Close() error {
	err := s.browser.Close()
	if stopErr := s.runner.Stop(); err == nil {
		err = stopErr
	}
	return err
}
