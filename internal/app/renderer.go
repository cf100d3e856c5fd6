package app

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"time"

	"go_docbook/internal/artifact"
	"go_docbook/internal/output"
	"go_docbook/internal/render"
)

var retryBackoffs = []time.Duration{0, time.Second, 2 * time.Second}

func buildRenderOptions(opts Options, logger *slog.Logger) render.Options {
	return render.Options{
		Backend:            opts.Backend,
		Format:             opts.Format,
		Timeout:            opts.Timeout,
		UserAgent:          opts.UserAgent,
		WaitFor:            opts.WaitFor,
		Headless:           opts.Headless,
		RateLimitPerSecond: opts.RateLimitPerSecond,
		HideSelectors:      opts.HideSelectors,
		CookieSelectors:    opts.CookieSelectors,
		Logger:             logger,
	}
}

// renderAll renders every URL into the temp layout. A URL that still fails
// after its retries is recorded and skipped; only cancellation stops the
// loop.
func (p *pipeline) renderAll(ctx context.Context, opts Options, logger *slog.Logger, urls []string) ([]output.PageRecord, error) {
	renderer, err := p.newRenderer(ctx, buildRenderOptions(opts, logger))
	if err != nil {
		return nil, err
	}
	defer func() {
		if err := renderer.Close(); err != nil {
			logger.Warn("closing renderer failed", "err", err)
		}
	}()

	records := make([]output.PageRecord, 0, len(urls))
	for i, u := range urls {
		seq := i + 1
		cat := opts.Categorizer.Categorize(u)
		dest := artifact.PagePath(opts.TempDir, cat, seq, opts.Format.Ext())
		logf(opts, "Rendering page %d/%d [%s]: %s\n", seq, len(urls), cat, u)

		rec := output.PageRecord{URL: u, Category: cat, Sequence: seq}
		attempts, err := p.renderWithRetry(ctx, opts, renderer, u, dest)
		rec.Attempts = attempts
		if err != nil {
			if ctx.Err() != nil {
				return records, ctx.Err()
			}
			rec.Status = output.StatusFailed
			rec.Error = err.Error()
			_ = os.Remove(dest)
			warnf(opts, "failed to render %s: %v\n", u, err)
		} else {
			rec.Status = output.StatusRendered
			rec.Artifact = dest
		}
		records = append(records, rec)
	}
	return records, nil
}

func (p *pipeline) renderWithRetry(ctx context.Context, opts Options, renderer render.Renderer, url, dest string) (int, error) {
	var err error
	attempts := 0
	for attempt := 0; attempt <= opts.Retries; attempt++ {
		if attempt > 0 {
			backoff := retryBackoffs[min(attempt, len(retryBackoffs)-1)]
			warnf(opts, "render attempt %d for %s failed. Retrying...\n", attempt, url)
			if err := p.sleep(ctx, backoff); err != nil {
				return attempts, err
			}
		}
		attempts++
		err = renderer.Render(ctx, url, dest)
		if err == nil || ctx.Err() != nil {
			break
		}
	}
	return attempts, err
}

func sleepContext(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return ctx.Err()
	}
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}

func describeFailures(records []output.PageRecord) []string {
	var out []string
	for _, r := range records {
		if r.Status == output.StatusFailed {
			out = append(out, fmt.Sprintf("%s (%s)", r.URL, r.Error))
		}
	}
	return out
}
