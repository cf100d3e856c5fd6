package render

import (
	"context"
	"io"
	"os"
	"time"

	"github.com/go-rod/rod"
	"github.com/go-rod/rod/lib/launcher"
	"github.com/go-rod/rod/lib/proto"
)

type rodSession struct {
	launcher *launcher.Launcher
	browser  *rod.Browser
	opts     Options
}

func launchRod(ctx context.Context, opts Options) (*rodSession, error) {
	l := launcher.New().
		Context(context.WithoutCancel(ctx)).
		Headless(opts.Headless).
		NoSandbox(true)
	controlURL, err := l.Launch()
	if err != nil {
		return nil, err
	}
	b := rod.New().ControlURL(controlURL)
	if err := b.Connect(); err != nil {
		l.Kill()
		return nil, err
	}
	return &rodSession{launcher: l, browser: b, opts: opts}, nil
}

func (s *rodSession) NewPage(ctx context.Context) (browserPage, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	p, err := s.browser.Page(proto.TargetCreateTarget{})
	if err != nil {
		return nil, err
	}
	if err := p.SetUserAgent(&proto.NetworkSetUserAgentOverride{UserAgent: s.opts.UserAgent}); err != nil {
		_ = p.Close()
		return nil, err
	}
	err = p.SetViewport(&proto.EmulationSetDeviceMetricsOverride{
		Width:             s.opts.ViewportWidth,
		Height:            s.opts.ViewportHeight,
		DeviceScaleFactor: s.opts.DeviceScale,
	})
	if err != nil {
		_ = p.Close()
		return nil, err
	}
	return &rodPage{page: p}, nil
}

func (s *rodSession) Close() error {
	err := s.browser.Close()
	s.launcher.Kill()
	return err
}

type rodPage struct {
	page *rod.Page
}

func (p *rodPage) Goto(ctx context.Context, url string) error {
	pg := p.page.Context(ctx)
	if err := pg.Navigate(url); err != nil {
		return err
	}
	return pg.WaitLoad()
}

func (p *rodPage) WaitFor(ctx context.Context, selector string) error {
	el, err := p.page.Context(ctx).Element(selector)
	if err != nil {
		return err
	}
	return el.WaitVisible()
}

func (p *rodPage) Evaluate(ctx context.Context, fn string) error {
	_, err := p.page.Context(ctx).Eval(fn)
	return err
}

func (p *rodPage) Click(ctx context.Context, selector string, timeout time.Duration) (bool, error) {
	pg := p.page.Context(ctx)
	res, err := pg.Eval(existsScript(selector))
	if err != nil {
		return false, err
	}
	if !res.Value.Bool() {
		return false, nil
	}
	els, err := pg.Elements(selector)
	if err != nil || els.Empty() {
		return false, err
	}
	if err := els.First().Timeout(timeout).Click(proto.InputMouseButtonLeft, 1); err != nil {
		return false, err
	}
	return true, nil
}

func (p *rodPage) PDF(ctx context.Context, dest string) error {
	width, height, scale := paperWidthInches, paperHeightInches, 1.0
	r, err := p.page.Context(ctx).PDF(&proto.PagePrintToPDF{
		PrintBackground:   true,
		PreferCSSPageSize: true,
		PaperWidth:        &width,
		PaperHeight:       &height,
		Scale:             &scale,
	})
	if err != nil {
		return err
	}
	f, err := os.Create(dest)
	if err != nil {
		return err
	}
	if _, err := io.Copy(f, r); err != nil {
		_ = f.Close()
		return err
	}
	return f.Close()
}

func (p *rodPage) Screenshot(ctx context.Context, dest string) error {
	data, err := p.page.Context(ctx).Screenshot(true, &proto.PageCaptureScreenshot{
		Format: proto.PageCaptureScreenshotFormatPng,
	})
	if err != nil {
		return err
	}
	return writeCapture(dest, data)
}

func (p *rodPage) Close() error {
	return p.page.Close()
}
