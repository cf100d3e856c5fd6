package sitemap

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"sort"
	"strings"
	"time"

	"go_docbook/internal/app"
	"go_docbook/internal/category"
	"go_docbook/internal/crawler"
)

type options struct {
	SitemapURL string
	TimeoutSec int
	UserAgent  string
	MaxURLs    int
	MaxDepth   int
	ShowURLs   bool
}

type group struct {
	Category string
	Label    string
	URLs     []string
}

// Run resolves a sitemap and prints its URLs grouped by category.
func Run(args []string) error {
	opts, err := parseOptions(args)
	if err != nil {
		return err
	}
	if strings.TrimSpace(opts.SitemapURL) == "" {
		return errors.New("--sitemap is required")
	}

	ctx, cancel := context.WithTimeout(context.Background(), time.Duration(opts.TimeoutSec)*time.Second)
	defer cancel()

	urls, err := crawler.ParseSitemap(ctx, opts.SitemapURL, crawler.SitemapOptions{
		Options: crawler.Options{
			UserAgent: opts.UserAgent,
			Timeout:   time.Duration(opts.TimeoutSec) * time.Second,
		},
		MaxURLs:  opts.MaxURLs,
		MaxDepth: opts.MaxDepth,
	})
	if err != nil {
		return err
	}

	groups := groupURLs(urls, category.PathCategorizer{}, category.Labels{})
	fmt.Printf("Sitemap %s: %d URLs in %d categories\n", opts.SitemapURL, len(urls), len(groups))
	printGroups(groups, opts.ShowURLs)
	return nil
}

func parseOptions(args []string) (options, error) {
	fs := flag.NewFlagSet("sitemap", flag.ContinueOnError)
	fs.SetOutput(io.Discard)

	opts := options{}
	fs.StringVar(&opts.SitemapURL, "sitemap", "", "Sitemap URL to resolve")
	fs.IntVar(&opts.TimeoutSec, "timeout", app.DefaultTimeoutSeconds, "Timeout seconds")
	fs.StringVar(&opts.UserAgent, "user-agent", app.DefaultUserAgent, "User-Agent header")
	fs.IntVar(&opts.MaxURLs, "max-urls", 0, "Limit number of URLs (0 = all)")
	fs.IntVar(&opts.MaxDepth, "max-depth", crawler.DefaultMaxDepth, "Maximum sitemap index nesting")
	fs.BoolVar(&opts.ShowURLs, "urls", false, "List every URL under its category")
	if err := fs.Parse(args); err != nil {
		return options{}, err
	}
	if opts.TimeoutSec <= 0 {
		opts.TimeoutSec = app.DefaultTimeoutSeconds
	}
	return opts, nil
}

// groupURLs keeps sitemap order inside each category and sorts the
// categories by name.
func groupURLs(urls []string, c category.Categorizer, labels category.Labels) []group {
	index := map[string]int{}
	var groups []group
	for _, u := range urls {
		cat := c.Categorize(u)
		i, ok := index[cat]
		if !ok {
			i = len(groups)
			index[cat] = i
			groups = append(groups, group{Category: cat, Label: labels.Label(cat)})
		}
		groups[i].URLs = append(groups[i].URLs, u)
	}
	sort.Slice(groups, func(i, j int) bool { return groups[i].Category < groups[j].Category })
	return groups
}

func printGroups(groups []group, showURLs bool) {
	for _, g := range groups {
		fmt.Printf("- %s (%s): %d\n", g.Category, g.Label, len(g.URLs))
		if !showURLs {
			continue
		}
		for _, u := range g.URLs {
			fmt.Printf("    %s\n", u)
		}
	}
}
