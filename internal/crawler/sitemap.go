package crawler

import (
	"bytes"
	"compress/gzip"
	"context"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/antchfx/xmlquery"
	"github.com/gocolly/colly/v2"
)

var (
	ErrSitemapUnavailable = errors.New("sitemap unavailable")
	ErrEmptySitemap       = errors.New("sitemap contains no page URLs")
)

const DefaultMaxDepth = 5

type SitemapOptions struct {
	Options
	MaxDepth int // nesting limit for sitemap indexes
	MaxURLs  int // stop after this many page URLs, 0 = unlimited
}

type documentKind int

const (
	kindUnknown documentKind = iota
	kindIndex
	kindURLSet
)

type sitemapDocument struct {
	kind documentKind
	root string
	locs []string
}

// Resolver flattens a sitemap, following sitemap indexes in listed order.
type Resolver struct {
	opts SitemapOptions
}

func NewResolver(opts SitemapOptions) *Resolver {
	opts.Options = opts.Options.withDefaults()
	if opts.MaxDepth <= 0 {
		opts.MaxDepth = DefaultMaxDepth
	}
	return &Resolver{opts: opts}
}

// ParseSitemap resolves sitemapURL with a one-off Resolver.
func ParseSitemap(ctx context.Context, sitemapURL string, opts SitemapOptions) ([]string, error) {
	return NewResolver(opts).Resolve(ctx, sitemapURL)
}

type resolveState struct {
	collector *colly.Collector
	visited   map[string]bool
	urls      []string
	truncated bool
}

// Resolve returns every page URL reachable from rootURL in document order.
// Any fetch or parse failure, at the root or in a nested sitemap, aborts
// with ErrSitemapUnavailable. A result without page URLs is ErrEmptySitemap.
func (r *Resolver) Resolve(ctx context.Context, rootURL string) ([]string, error) {
	rootURL = strings.TrimSpace(rootURL)
	if rootURL == "" {
		return nil, fmt.Errorf("%w: no sitemap URL given", ErrSitemapUnavailable)
	}

	st := &resolveState{
		collector: newCollector(ctx, r.opts.Options),
		visited:   map[string]bool{},
	}
	if err := r.expand(ctx, st, rootURL, 0); err != nil {
		return nil, err
	}
	if len(st.urls) == 0 {
		return nil, fmt.Errorf("%w: %s", ErrEmptySitemap, rootURL)
	}
	if st.truncated {
		r.opts.Logger.Warn("sitemap truncated", "max_urls", r.opts.MaxURLs, "sitemap", rootURL)
	}
	return st.urls, nil
}

func (r *Resolver) expand(ctx context.Context, st *resolveState, sitemapURL string, depth int) error {
	if st.truncated {
		return nil
	}
	if st.visited[sitemapURL] {
		r.opts.Logger.Warn("skipping sitemap already visited", "sitemap", sitemapURL)
		return nil
	}
	st.visited[sitemapURL] = true

	if err := ctx.Err(); err != nil {
		return fmt.Errorf("%w: %s: %w", ErrSitemapUnavailable, sitemapURL, err)
	}

	body, err := fetchBody(st.collector, sitemapURL)
	if err != nil {
		return fmt.Errorf("%w: %s: %w", ErrSitemapUnavailable, sitemapURL, err)
	}
	doc, err := parseSitemapDocument(body)
	if err != nil {
		return fmt.Errorf("%w: %s: parse: %w", ErrSitemapUnavailable, sitemapURL, err)
	}
	r.opts.Logger.Debug("fetched sitemap", "sitemap", sitemapURL, "root", doc.root, "entries", len(doc.locs))

	switch doc.kind {
	case kindIndex:
		if depth >= r.opts.MaxDepth {
			r.opts.Logger.Warn("sitemap index nested too deep, skipping", "sitemap", sitemapURL, "max_depth", r.opts.MaxDepth)
			return nil
		}
		for _, child := range doc.locs {
			if err := r.expand(ctx, st, child, depth+1); err != nil {
				return err
			}
		}
	case kindURLSet:
		for _, loc := range doc.locs {
			if r.opts.MaxURLs > 0 && len(st.urls) >= r.opts.MaxURLs {
				st.truncated = true
				break
			}
			st.urls = append(st.urls, loc)
		}
	default:
		return fmt.Errorf("%w: %s: root element <%s> is neither urlset nor sitemapindex", ErrEmptySitemap, sitemapURL, doc.root)
	}
	return nil
}

// parseSitemapDocument detects the sitemap flavour from the root element and
// extracts its <loc> values. Namespaces are ignored.
func parseSitemapDocument(body []byte) (sitemapDocument, error) {
	body, err := maybeGunzip(body)
	if err != nil {
		return sitemapDocument{}, err
	}

	doc, err := xmlquery.Parse(bytes.NewReader(body))
	if err != nil {
		return sitemapDocument{}, err
	}

	root := rootElement(doc)
	if root == nil {
		return sitemapDocument{}, errors.New("no root element")
	}

	out := sitemapDocument{root: root.Data}
	var expr string
	switch strings.ToLower(root.Data) {
	case "sitemapindex":
		out.kind = kindIndex
		expr = "./*[local-name()='sitemap']/*[local-name()='loc']"
	case "urlset":
		out.kind = kindURLSet
		expr = "./*[local-name()='url']/*[local-name()='loc']"
	default:
		return out, nil
	}

	nodes, err := xmlquery.QueryAll(root, expr)
	if err != nil {
		return sitemapDocument{}, err
	}
	for _, n := range nodes {
		loc := strings.TrimSpace(n.InnerText())
		if loc != "" {
			out.locs = append(out.locs, loc)
		}
	}
	return out, nil
}

func rootElement(doc *xmlquery.Node) *xmlquery.Node {
	for n := doc.FirstChild; n != nil; n = n.NextSibling {
		if n.Type == xmlquery.ElementNode {
			return n
		}
	}
	return nil
}

func maybeGunzip(body []byte) ([]byte, error) {
	if len(body) < 2 || body[0] != 0x1f || body[1] != 0x8b {
		return body, nil
	}
	zr, err := gzip.NewReader(bytes.NewReader(body))
	if err != nil {
		return nil, err
	}
	defer zr.Close()
	return io.ReadAll(io.LimitReader(zr, maxBodySize))
}
