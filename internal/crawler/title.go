package crawler

import (
	"bytes"
	"context"
	"fmt"
	"net/url"
	"regexp"
	"strings"

	"github.com/PuerkitoBio/goquery"
)

const DefaultSiteTitle = "Docs"

var nonTitleChars = regexp.MustCompile(`[^A-Za-z0-9\s]`)

// DiscoverTitle loads siteURL and derives a folder-safe site name from
// og:site_name or the <title>. On failure it returns DefaultSiteTitle along
// with the error so callers can log and carry on.
func DiscoverTitle(ctx context.Context, siteURL string, opts Options) (string, error) {
	opts = opts.withDefaults()
	body, err := fetchBody(newCollector(ctx, opts), siteURL)
	if err != nil {
		return DefaultSiteTitle, fmt.Errorf("fetch %s: %w", siteURL, err)
	}

	doc, err := goquery.NewDocumentFromReader(bytes.NewReader(body))
	if err != nil {
		return DefaultSiteTitle, fmt.Errorf("parse %s: %w", siteURL, err)
	}

	if name, ok := doc.Find(`meta[property="og:site_name"]`).First().Attr("content"); ok {
		if cleaned := sanitizeTitle(name); cleaned != "" {
			return cleaned, nil
		}
	}
	return CleanTitle(doc.Find("title").First().Text()), nil
}

// CleanTitle extracts the site name from a page title such as
// "Intro | Acme Docs" or "Acme Docs - Intro" and makes it usable as a
// directory name.
func CleanTitle(raw string) string {
	name := ""
	if parts := strings.Split(raw, "|"); len(parts) > 1 {
		name = sanitizeTitle(parts[1])
	}
	if name == "" {
		name = sanitizeTitle(strings.Split(raw, "-")[0])
	}
	if name == "" {
		return DefaultSiteTitle
	}
	return name
}

func sanitizeTitle(s string) string {
	s = nonTitleChars.ReplaceAllString(s, "")
	return strings.Join(strings.Fields(s), "_")
}

// SiteRoot returns scheme://host/ of u, the page the site title is read from.
func SiteRoot(u string) (string, error) {
	parsed, err := url.Parse(strings.TrimSpace(u))
	if err != nil {
		return "", err
	}
	if parsed.Scheme == "" || parsed.Host == "" {
		return "", fmt.Errorf("not an absolute URL: %q", u)
	}
	return parsed.Scheme + "://" + parsed.Host + "/", nil
}
