package cli

import (
	"errors"
	"flag"
	"fmt"
	"strings"
	"time"

	"go_docbook/internal/app"
	"go_docbook/internal/category"
	"go_docbook/internal/config"
	"go_docbook/internal/render"
)

type ExitError struct {
	Code int
	Err  error
}

func (e ExitError) Error() string {
	if e.Err != nil {
		return e.Err.Error()
	}
	return "error"
}

func (e ExitError) Unwrap() error { return e.Err }

// ParseArgs turns command line arguments into run options. The second
// return value reports that --init-config was requested instead of a run.
func ParseArgs(args []string) (app.Options, bool, error) {
	parsed, err := parseFlags(args)
	if err != nil {
		return app.Options{}, false, ExitError{Code: 2, Err: err}
	}
	if parsed.initConfig {
		return app.Options{}, true, nil
	}

	if parsed.quiet {
		parsed.yes = true
	}

	cfg, err := loadConfig(parsed.configStr)
	if err != nil {
		return app.Options{}, false, err
	}

	applyConfigDefaults(&parsed, cfg)
	return buildOptions(parsed)
}

type parsedFlags struct {
	sitemapURL   string
	configStr    string
	initConfig   bool
	dryRun       bool
	outputDir    stringFlag
	tempDir      stringFlag
	title        stringFlag
	author       stringFlag
	creator      stringFlag
	format       stringFlag
	backend      stringFlag
	timeout      intFlag
	userAgent    stringFlag
	waitFor      stringFlag
	headless     BoolFlag
	rateLimit    floatFlag
	hide         stringListFlag
	cookies      stringListFlag
	retries      intFlag
	order        stringFlag
	labels       stringMapFlag
	dividers     BoolFlag
	individual   BoolFlag
	keepTemp     BoolFlag
	maxURLs      intFlag
	maxDepth     intFlag
	postCommands commandListFlag
	chapters     []category.Chapter
	yes          bool
	quiet        bool
}

func parseFlags(args []string) (parsedFlags, error) {
	fs := flag.NewFlagSet("go_docbook", flag.ContinueOnError)
	parsed := parsedFlags{}

	fs.StringVar(&parsed.sitemapURL, "sitemap", "", "Sitemap URL (sitemap.xml or sitemap index)")
	fs.StringVar(&parsed.configStr, "config", "", "Path to JSON or YAML config file (default: docbook.json in . or configs/)")
	fs.BoolVar(&parsed.initConfig, "init-config", false, "Interactive config wizard")
	fs.BoolVar(&parsed.dryRun, "dry-run", false, "Resolve the sitemap and print the plan; render nothing")
	fs.Var(&parsed.outputDir, "output-dir", "Output root (default: output; the PDF goes to <root>/<SiteTitle>/)")
	fs.Var(&parsed.tempDir, "temp-dir", "Directory for per-page artifacts (default: temp_pages)")
	fs.Var(&parsed.title, "title", "Document title (default: <SiteTitle> Complete Documentation)")
	fs.Var(&parsed.author, "author", "Document author (default: site title)")
	fs.Var(&parsed.creator, "creator", "Document creator")
	parsed.format.Value = string(render.FormatPDF)
	fs.Var(&parsed.format, "format", "Artifact format: pdf|png")
	parsed.backend.Value = string(render.BackendPlaywright)
	fs.Var(&parsed.backend, "backend", "Browser backend: playwright|chromedp|rod")
	parsed.timeout.Value = app.DefaultTimeoutSeconds
	fs.Var(&parsed.timeout, "timeout", "Per-page timeout seconds")
	fs.Var(&parsed.userAgent, "user-agent", "User-Agent header")
	fs.Var(&parsed.waitFor, "wait-for", "CSS selector to wait for before capture")
	parsed.headless.Value = true
	fs.Var(&parsed.headless, "headless", "Run browser headless")
	fs.Var(&parsed.rateLimit, "rate-limit", "Pages per second (0 = off)")
	fs.Var(&parsed.hide, "hide", "CSS selector to hide before capture (repeatable, replaces defaults)")
	fs.Var(&parsed.cookies, "cookie-selector", "Cookie accept button selector (repeatable, replaces defaults)")
	parsed.retries.Value = app.DefaultRetries
	fs.Var(&parsed.retries, "retries", "Extra render attempts per page")
	parsed.order.Value = category.OrderLexicographic
	fs.Var(&parsed.order, "order", "Category order: lexicographic|editorial")
	fs.Var(&parsed.labels, "label", "Category display label as category=Label (repeatable)")
	fs.Var(&parsed.dividers, "dividers", "Insert a divider page before each chapter (editorial order)")
	fs.Var(&parsed.individual, "individual", "Also copy each page artifact to <project>/individual/")
	fs.Var(&parsed.keepTemp, "keep-temp", "Keep the temp artifact directory after merging")
	fs.Var(&parsed.maxURLs, "max-urls", "Limit number of sitemap URLs (0 = all)")
	fs.Var(&parsed.maxDepth, "max-depth", "Maximum sitemap index nesting")
	fs.Var(&parsed.postCommands, "post-command", "Shell command to run after a successful merge (repeatable)")
	fs.BoolVar(&parsed.yes, "yes", false, "Skip confirmation prompt")
	fs.BoolVar(&parsed.quiet, "quiet", false, "Suppress progress output (implies --yes)")

	if err := fs.Parse(args); err != nil {
		return parsed, err
	}
	if fs.NArg() > 0 {
		return parsed, fmt.Errorf("unexpected arguments: %s", strings.Join(fs.Args(), " "))
	}

	return parsed, nil
}

func loadConfig(path string) (config.Config, error) {
	if path == "" {
		path = config.Find()
	}
	if path == "" {
		return config.Config{}, nil
	}
	return config.Load(path)
}

func applyConfigDefaults(parsed *parsedFlags, cfg config.Config) {
	if parsed.sitemapURL == "" && cfg.SitemapURL != "" {
		parsed.sitemapURL = cfg.SitemapURL
	}
	applyString(&parsed.outputDir, cfg.OutputDir)
	applyString(&parsed.tempDir, cfg.TempDir)
	applyString(&parsed.title, cfg.Title)
	applyString(&parsed.author, cfg.Author)
	applyString(&parsed.creator, cfg.Creator)
	applyString(&parsed.format, cfg.Format)
	applyString(&parsed.backend, cfg.Backend)
	applyString(&parsed.userAgent, cfg.UserAgent)
	applyString(&parsed.waitFor, cfg.WaitForSelector)
	applyString(&parsed.order, cfg.Order)
	applyPositive(&parsed.timeout, cfg.TimeoutSeconds)
	applyPositive(&parsed.maxURLs, cfg.MaxURLs)
	applyPositive(&parsed.maxDepth, cfg.MaxDepth)
	applyBool(&parsed.headless, cfg.Headless)
	applyBool(&parsed.dividers, cfg.Dividers)
	applyBool(&parsed.individual, cfg.Individual)
	applyRetries(parsed, cfg)
	applyRateLimit(parsed, cfg)
	applyKeepTemp(parsed, cfg)
	applyLists(parsed, cfg)
	applyLabels(parsed, cfg)
	parsed.chapters = cfg.Chapters
}

func applyString(f *stringFlag, v string) {
	if !f.WasSet && v != "" {
		f.Value = v
	}
}

func applyPositive(f *intFlag, v int) {
	if !f.WasSet && v > 0 {
		f.Value = v
	}
}

func applyBool(f *BoolFlag, v *bool) {
	if !f.WasSet && v != nil {
		f.Value = *v
	}
}

func applyRetries(parsed *parsedFlags, cfg config.Config) {
	if !parsed.retries.WasSet && cfg.Retries != nil {
		parsed.retries.Value = *cfg.Retries
	}
}

func applyRateLimit(parsed *parsedFlags, cfg config.Config) {
	if !parsed.rateLimit.WasSet && cfg.RateLimitPerSecond > 0 {
		parsed.rateLimit.Value = cfg.RateLimitPerSecond
	}
}

func applyKeepTemp(parsed *parsedFlags, cfg config.Config) {
	if !parsed.keepTemp.WasSet && cfg.KeepTemp {
		parsed.keepTemp.Value = true
	}
}

func applyLists(parsed *parsedFlags, cfg config.Config) {
	if !parsed.hide.WasSet && cfg.HideSelectors != nil {
		parsed.hide.Values = cfg.HideSelectors
	}
	if !parsed.cookies.WasSet && cfg.CookieSelectors != nil {
		parsed.cookies.Values = cfg.CookieSelectors
	}
	if !parsed.postCommands.WasSet && len(cfg.PostCommands) > 0 {
		parsed.postCommands.Values = cfg.PostCommands
	}
}

// applyLabels merges config labels under the ones given on the command line.
func applyLabels(parsed *parsedFlags, cfg config.Config) {
	if len(cfg.Labels) == 0 {
		return
	}
	merged := make(map[string]string, len(cfg.Labels)+len(parsed.labels.Values))
	for k, v := range cfg.Labels {
		merged[k] = v
	}
	for k, v := range parsed.labels.Values {
		merged[k] = v
	}
	parsed.labels.Values = merged
}

func buildOptions(parsed parsedFlags) (app.Options, bool, error) {
	if parsed.sitemapURL == "" {
		return app.Options{}, false, ExitError{Code: 2, Err: errors.New("--sitemap is required")}
	}
	format, err := render.ParseFormat(parsed.format.Value)
	if err != nil {
		return app.Options{}, false, ExitError{Code: 2, Err: err}
	}
	backend, err := render.ParseBackend(parsed.backend.Value)
	if err != nil {
		return app.Options{}, false, ExitError{Code: 2, Err: err}
	}
	if _, err := category.NewOrdering(parsed.order.Value, parsed.chapters); err != nil {
		return app.Options{}, false, ExitError{Code: 2, Err: err}
	}
	if parsed.retries.Value < 0 {
		return app.Options{}, false, ExitError{Code: 2, Err: errors.New("--retries must be >= 0")}
	}
	if err := app.CheckDirs(parsed.outputDir.Value, parsed.tempDir.Value); err != nil {
		return app.Options{}, false, ExitError{Code: 2, Err: err}
	}

	opts := app.Options{
		SitemapURL:         parsed.sitemapURL,
		OutputDir:          parsed.outputDir.Value,
		TempDir:            parsed.tempDir.Value,
		Title:              parsed.title.Value,
		Author:             parsed.author.Value,
		Creator:            parsed.creator.Value,
		Format:             format,
		Backend:            backend,
		Timeout:            time.Duration(parsed.timeout.Value) * time.Second,
		UserAgent:          parsed.userAgent.Value,
		WaitFor:            parsed.waitFor.Value,
		Headless:           parsed.headless.Value,
		RateLimitPerSecond: parsed.rateLimit.Value,
		HideSelectors:      parsed.hide.Values,
		CookieSelectors:    parsed.cookies.Values,
		Retries:            parsed.retries.Value,
		Order:              parsed.order.Value,
		Chapters:           parsed.chapters,
		Labels:             parsed.labels.Values,
		Dividers:           parsed.dividers.Value,
		Individual:         parsed.individual.Value,
		KeepTemp:           parsed.keepTemp.Value,
		MaxURLs:            parsed.maxURLs.Value,
		MaxDepth:           parsed.maxDepth.Value,
		PostCommands:       parsed.postCommands.Values,
		Yes:                parsed.yes,
		Quiet:              parsed.quiet,
		DryRun:             parsed.dryRun,
	}
	return opts, false, nil
}
