package app

import (
	"errors"
	"fmt"
	"log/slog"
	"net/url"
	"os"
	"path/filepath"
	"strings"
	"time"

	"go_docbook/internal/category"
	"go_docbook/internal/render"
)

const (
	DefaultOutputRoot     = "output"
	DefaultTempDir        = "temp_pages"
	DefaultTimeoutSeconds = 60
	DefaultRetries        = 2
	DefaultUserAgent      = render.DefaultUserAgent
	MergedFileName        = "Complete_Documentation.pdf"
	IndividualDirName     = "individual"
)

type Options struct {
	SitemapURL string
	OutputDir  string
	TempDir    string
	// Document metadata. Title and Author default to the discovered site
	// title.
	Title   string
	Author  string
	Creator string
	// Rendering
	Format             render.Format
	Backend            render.Backend
	Timeout            time.Duration
	UserAgent          string
	WaitFor            string
	Headless           bool
	RateLimitPerSecond float64
	HideSelectors      []string
	CookieSelectors    []string
	Retries            int
	// Merging
	Order      string
	Chapters   []category.Chapter
	Labels     map[string]string
	Dividers   bool
	Individual bool
	KeepTemp   bool
	// Sitemap limits
	MaxURLs  int
	MaxDepth int
	// Execution
	PostCommands []string
	Yes          bool
	Quiet        bool
	DryRun       bool
	Categorizer  category.Categorizer
	Logger       *slog.Logger
}

func normalizeOptions(opts Options) (Options, error) {
	opts.SitemapURL = strings.TrimSpace(opts.SitemapURL)
	if opts.SitemapURL == "" {
		return opts, errors.New("sitemap url is required")
	}
	if !strings.Contains(opts.SitemapURL, "://") {
		opts.SitemapURL = "https://" + opts.SitemapURL
	}
	if u, err := url.Parse(opts.SitemapURL); err != nil || u.Host == "" {
		return opts, fmt.Errorf("invalid sitemap url %q", opts.SitemapURL)
	}

	var err error
	if opts.Format, err = render.ParseFormat(string(opts.Format)); err != nil {
		return opts, err
	}
	if opts.Backend, err = render.ParseBackend(string(opts.Backend)); err != nil {
		return opts, err
	}
	if _, err := category.NewOrdering(opts.Order, opts.Chapters); err != nil {
		return opts, err
	}
	if opts.Timeout <= 0 {
		opts.Timeout = time.Duration(DefaultTimeoutSeconds) * time.Second
	}
	if opts.UserAgent == "" {
		opts.UserAgent = DefaultUserAgent
	}
	if opts.OutputDir == "" {
		opts.OutputDir = DefaultOutputRoot
	}
	if opts.TempDir == "" {
		opts.TempDir = DefaultTempDir
	}
	if err := CheckDirs(opts.OutputDir, opts.TempDir); err != nil {
		return opts, err
	}
	if opts.Retries < 0 {
		opts.Retries = 0
	}
	if opts.Categorizer == nil {
		opts.Categorizer = category.PathCategorizer{}
	}
	if opts.Quiet {
		opts.Yes = true
	}
	return opts, nil
}

// CheckDirs rejects a temp dir that is wiped before the run and removed
// after it while holding the output, the working directory or the home
// directory. Empty values fall back to the defaults.
func CheckDirs(outputDir, tempDir string) error {
	if strings.TrimSpace(outputDir) == "" {
		outputDir = DefaultOutputRoot
	}
	if strings.TrimSpace(tempDir) == "" {
		tempDir = DefaultTempDir
	}
	tmp, err := filepath.Abs(tempDir)
	if err != nil {
		return fmt.Errorf("resolve temp dir %q: %w", tempDir, err)
	}
	out, err := filepath.Abs(outputDir)
	if err != nil {
		return fmt.Errorf("resolve output dir %q: %w", outputDir, err)
	}

	if tmp == filepath.VolumeName(tmp)+string(filepath.Separator) {
		return fmt.Errorf("temp dir %q is the filesystem root", tempDir)
	}
	if within(tmp, out) {
		return fmt.Errorf("temp dir %q contains the output dir %q", tempDir, outputDir)
	}
	if within(out, tmp) {
		// The temp dir could be a project folder of this or an earlier run.
		return fmt.Errorf("temp dir %q lies inside the output dir %q", tempDir, outputDir)
	}
	if wd, err := os.Getwd(); err == nil && within(tmp, wd) {
		return fmt.Errorf("temp dir %q contains the working directory", tempDir)
	}
	if home, err := os.UserHomeDir(); err == nil && home != "" {
		if abs, err := filepath.Abs(home); err == nil && within(tmp, abs) {
			return fmt.Errorf("temp dir %q contains the home directory", tempDir)
		}
	}
	return nil
}

// within reports whether child is parent or lies beneath it.
func within(parent, child string) bool {
	rel, err := filepath.Rel(parent, child)
	if err != nil || filepath.IsAbs(rel) {
		return false
	}
	return rel != ".." && !strings.HasPrefix(rel, ".."+string(filepath.Separator))
}
