package crawler

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"time"

	"github.com/gocolly/colly/v2"
)

const (
	DefaultUserAgent = "go_docbook/1.0"
	DefaultTimeout   = 30 * time.Second

	// Sitemaps may be up to 50MB uncompressed.
	maxBodySize = 50 << 20
)

type Options struct {
	UserAgent string
	Timeout   time.Duration
	RateLimit float64 // requests per second, 0 = off
	Logger    *slog.Logger
}

func (o Options) withDefaults() Options {
	if o.UserAgent == "" {
		o.UserAgent = DefaultUserAgent
	}
	if o.Timeout <= 0 {
		o.Timeout = DefaultTimeout
	}
	if o.Logger == nil {
		o.Logger = discardLogger()
	}
	return o
}

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

// newCollector builds the synchronous collector every document fetch in
// this package goes through. Revisits are allowed because the resolver
// keeps its own visited set.
func newCollector(ctx context.Context, opts Options) *colly.Collector {
	c := colly.NewCollector(
		colly.StdlibContext(ctx),
		colly.UserAgent(opts.UserAgent),
		colly.AllowURLRevisit(),
		colly.MaxBodySize(maxBodySize),
	)
	configureRateLimiting(c, opts)
	return c
}

func configureRateLimiting(c *colly.Collector, opts Options) {
	if opts.RateLimit > 0 {
		delay := time.Duration(float64(time.Second) / opts.RateLimit)
		_ = c.Limit(&colly.LimitRule{
			DomainGlob:  "*",
			Parallelism: 1,
			Delay:       delay,
		})
	}

	if opts.Timeout > 0 {
		c.SetRequestTimeout(opts.Timeout)
	}
}

// fetchBody GETs rawURL through a clone of c so callbacks never pile up on
// the shared collector. Non-2xx responses are errors.
func fetchBody(c *colly.Collector, rawURL string) ([]byte, error) {
	var body []byte
	clone := c.Clone()
	clone.OnResponse(func(r *colly.Response) {
		body = r.Body
	})
	if err := clone.Visit(rawURL); err != nil {
		return nil, err
	}
	if len(body) == 0 {
		return nil, errors.New("empty response body")
	}
	return body, nil
}
