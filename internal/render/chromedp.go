package render

import (
	"context"
	"time"

	"github.com/chromedp/cdproto/page"
	"github.com/chromedp/chromedp"
)

type chromedpSession struct {
	allocCancel   context.CancelFunc
	browserCtx    context.Context
	browserCancel context.CancelFunc
	opts          Options
}

func launchChromedp(ctx context.Context, opts Options) (*chromedpSession, error) {
	allocOpts := append(chromedp.DefaultExecAllocatorOptions[:],
		chromedp.UserAgent(opts.UserAgent),
		chromedp.NoSandbox,
		chromedp.DisableGPU,
	)
	if !opts.Headless {
		allocOpts = append(allocOpts, chromedp.Flag("headless", false))
	}

	// The browser outlives individual Render contexts, so it hangs off a
	// background context and is stopped by Close.
	allocCtx, allocCancel := chromedp.NewExecAllocator(context.WithoutCancel(ctx), allocOpts...)
	browserCtx, browserCancel := chromedp.NewContext(allocCtx)
	if err := chromedp.Run(browserCtx); err != nil {
		browserCancel()
		allocCancel()
		return nil, err
	}
	return &chromedpSession{
		allocCancel:   allocCancel,
		browserCtx:    browserCtx,
		browserCancel: browserCancel,
		opts:          opts,
	}, nil
}

func (s *chromedpSession) NewPage(ctx context.Context) (browserPage, error) {
	tabCtx, tabCancel := chromedp.NewContext(s.browserCtx)
	stop := context.AfterFunc(ctx, tabCancel)
	if err := chromedp.Run(tabCtx); err != nil {
		stop()
		tabCancel()
		return nil, err
	}
	return &chromedpPage{ctx: tabCtx, cancel: tabCancel, stop: stop, opts: s.opts}, nil
}

func (s *chromedpSession) Close() error {
	s.browserCancel()
	s.allocCancel()
	return nil
}

type chromedpPage struct {
	ctx    context.Context
	cancel context.CancelFunc
	stop   func() bool
	opts   Options
}

func (p *chromedpPage) Goto(_ context.Context, url string) error {
	return chromedp.Run(p.ctx,
		chromedp.EmulateViewport(int64(p.opts.ViewportWidth), int64(p.opts.ViewportHeight), chromedp.EmulateScale(p.opts.DeviceScale)),
		chromedp.Navigate(url),
		chromedp.WaitReady("body", chromedp.ByQuery),
	)
}

func (p *chromedpPage) WaitFor(_ context.Context, selector string) error {
	return chromedp.Run(p.ctx, chromedp.WaitVisible(selector, chromedp.ByQuery))
}

func (p *chromedpPage) Evaluate(_ context.Context, fn string) error {
	return chromedp.Run(p.ctx, chromedp.Evaluate(invoke(fn), nil))
}

func (p *chromedpPage) Click(_ context.Context, selector string, timeout time.Duration) (bool, error) {
	var visible bool
	if err := chromedp.Run(p.ctx, chromedp.Evaluate(invoke(existsScript(selector)), &visible)); err != nil {
		return false, err
	}
	if !visible {
		return false, nil
	}
	clickCtx, cancel := context.WithTimeout(p.ctx, timeout)
	defer cancel()
	if err := chromedp.Run(clickCtx, chromedp.Click(selector, chromedp.ByQuery, chromedp.NodeVisible)); err != nil {
		return false, err
	}
	return true, nil
}

func (p *chromedpPage) PDF(_ context.Context, dest string) error {
	var data []byte
	err := chromedp.Run(p.ctx, chromedp.ActionFunc(func(ctx context.Context) error {
		var err error
		data, _, err = page.PrintToPDF().
			WithPrintBackground(true).
			WithPaperWidth(paperWidthInches).
			WithPaperHeight(paperHeightInches).
			WithPreferCSSPageSize(true).
			WithScale(1).
			Do(ctx)
		return err
	}))
	if err != nil {
		return err
	}
	return writeCapture(dest, data)
}

func (p *chromedpPage) Screenshot(_ context.Context, dest string) error {
	var data []byte
	if err := chromedp.Run(p.ctx, chromedp.FullScreenshot(&data, 100)); err != nil {
		return err
	}
	return writeCapture(dest, data)
}

func (p *chromedpPage) Close() error {
	p.stop()
	p.cancel()
	return nil
}
