package tui

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/charmbracelet/huh"

	"go_docbook/internal/app"
	"go_docbook/internal/category"
	"go_docbook/internal/config"
	"go_docbook/internal/render"
)

type formState struct {
	sitemapURL    string
	maxURLsStr    string
	maxDepthStr   string
	format        string
	backend       string
	timeoutSecStr string
	rateLimitStr  string
	retriesStr    string
	userAgent     string
	waitFor       string
	headless      bool
	outputDir     string
	title         string
	author        string
	order         string
	dividers      bool
	individual    bool
	keepTemp      bool
	dryRun        bool
	yes           bool
	configPath    string
	finalAction   string

	// Carried through from a loaded config; the form does not edit them.
	chapters        []category.Chapter
	labels          map[string]string
	hideSelectors   []string
	cookieSelectors []string
	postCommands    []string
	tempDir         string
	creator         string
}

func newFormState() *formState {
	return &formState{
		maxURLsStr:    "0",
		maxDepthStr:   "5",
		format:        string(render.FormatPDF),
		backend:       string(render.BackendPlaywright),
		timeoutSecStr: strconv.Itoa(app.DefaultTimeoutSeconds),
		rateLimitStr:  "0",
		retriesStr:    strconv.Itoa(app.DefaultRetries),
		userAgent:     app.DefaultUserAgent,
		headless:      true,
		order:         category.OrderLexicographic,
		yes:           true,
		configPath:    config.DefaultConfigPath(),
		finalAction:   "run",
	}
}

func (s *formState) fromConfig(cfg config.Config) {
	if cfg.SitemapURL != "" {
		s.sitemapURL = cfg.SitemapURL
	}
	if cfg.MaxURLs > 0 {
		s.maxURLsStr = strconv.Itoa(cfg.MaxURLs)
	}
	if cfg.MaxDepth > 0 {
		s.maxDepthStr = strconv.Itoa(cfg.MaxDepth)
	}
	if cfg.Format != "" {
		s.format = cfg.Format
	}
	if cfg.Backend != "" {
		s.backend = cfg.Backend
	}
	if cfg.TimeoutSeconds > 0 {
		s.timeoutSecStr = strconv.Itoa(cfg.TimeoutSeconds)
	}
	if cfg.RateLimitPerSecond > 0 {
		s.rateLimitStr = strconv.FormatFloat(cfg.RateLimitPerSecond, 'f', -1, 64)
	}
	if cfg.Retries != nil {
		s.retriesStr = strconv.Itoa(*cfg.Retries)
	}
	if cfg.UserAgent != "" {
		s.userAgent = cfg.UserAgent
	}
	if cfg.WaitForSelector != "" {
		s.waitFor = cfg.WaitForSelector
	}
	if cfg.Headless != nil {
		s.headless = *cfg.Headless
	}
	if cfg.OutputDir != "" {
		s.outputDir = cfg.OutputDir
	}
	if cfg.Title != "" {
		s.title = cfg.Title
	}
	if cfg.Author != "" {
		s.author = cfg.Author
	}
	if cfg.Order != "" {
		s.order = cfg.Order
	}
	if cfg.Dividers != nil {
		s.dividers = *cfg.Dividers
	}
	if cfg.Individual != nil {
		s.individual = *cfg.Individual
	}
	s.keepTemp = cfg.KeepTemp
	s.chapters = cfg.Chapters
	s.labels = cfg.Labels
	s.hideSelectors = cfg.HideSelectors
	s.cookieSelectors = cfg.CookieSelectors
	s.postCommands = cfg.PostCommands
	s.tempDir = cfg.TempDir
	s.creator = cfg.Creator
}

func buildForm(state *formState) *huh.Form {
	return huh.NewForm(
		buildSourceGroup(state),
		buildRenderGroup(state),
		buildBrowserGroup(state),
		buildDocumentGroup(state),
		buildExecutionGroup(state),
		buildFinishGroup(state),
	)
}

func buildSourceGroup(state *formState) *huh.Group {
	return huh.NewGroup(
		huh.NewInput().Title("Sitemap URL").Placeholder("https://docs.example.com/sitemap.xml").Value(&state.sitemapURL).
			Description("sitemap.xml or sitemap index of the documentation site.").
			Validate(func(s string) error {
				if strings.TrimSpace(s) == "" {
					return errors.New("sitemap url is required")
				}
				return nil
			}),
		huh.NewInput().Title("Max URLs (0=all)").Value(&state.maxURLsStr).Validate(validateIntString(0, 1000000)),
		huh.NewInput().Title("Max sitemap depth").Description("Nesting limit for sitemap indexes.").Value(&state.maxDepthStr).Validate(validateIntString(1, 50)),
	).Title("Source")
}

func buildRenderGroup(state *formState) *huh.Group {
	return huh.NewGroup(
		huh.NewSelect[string]().Title("Format").Description("Per-page artifact format.").Value(&state.format).Options(
			huh.NewOption("PDF (print layout)", string(render.FormatPDF)),
			huh.NewOption("PNG (full-page screenshot)", string(render.FormatPNG)),
		),
		huh.NewSelect[string]().Title("Backend").Description("Browser automation library.").Value(&state.backend).Options(
			huh.NewOption("playwright", string(render.BackendPlaywright)),
			huh.NewOption("chromedp", string(render.BackendChromedp)),
			huh.NewOption("rod", string(render.BackendRod)),
		),
		huh.NewInput().Title("Timeout per page (seconds)").Value(&state.timeoutSecStr).
			Validate(validateIntString(1, 3600)),
		huh.NewInput().Title("Retries per page").Value(&state.retriesStr).
			Validate(validateIntString(0, 10)),
	).Title("Rendering")
}

func buildBrowserGroup(state *formState) *huh.Group {
	return huh.NewGroup(
		huh.NewInput().Title("Rate limit (pages/sec, 0=off)").Value(&state.rateLimitStr).
			Validate(validateFloatString(0, 1000)),
		huh.NewInput().Title("Wait-for selector").Description("Optional: wait for this element before capture.").Value(&state.waitFor),
		huh.NewConfirm().Title("Headless").Description("Hide browser window?").Value(&state.headless),
		huh.NewInput().Title("User-Agent").Value(&state.userAgent),
	).Title("Browser")
}

func buildDocumentGroup(state *formState) *huh.Group {
	return huh.NewGroup(
		huh.NewInput().Title("Output root").Description("The PDF goes to <root>/<SiteTitle>/.").Placeholder(app.DefaultOutputRoot).Value(&state.outputDir),
		huh.NewInput().Title("Title").Description("Optional: defaults to '<SiteTitle> Complete Documentation'.").Value(&state.title),
		huh.NewInput().Title("Author").Description("Optional: defaults to the site title.").Value(&state.author),
		huh.NewSelect[string]().Title("Order").Value(&state.order).Options(
			huh.NewOption("Lexicographic by category", category.OrderLexicographic),
			huh.NewOption("Editorial chapters", category.OrderEditorial),
		),
		huh.NewConfirm().Title("Divider pages").Description("Insert a title page before each chapter?").Value(&state.dividers),
		huh.NewConfirm().Title("Individual files").Description("Also keep each page as its own file?").Value(&state.individual),
		huh.NewConfirm().Title("Keep temp").Description("Keep the per-page temp directory?").Value(&state.keepTemp),
	).Title("Document")
}

func buildExecutionGroup(state *formState) *huh.Group {
	return huh.NewGroup(
		huh.NewConfirm().Title("Dry run").Description("Resolve the sitemap and print the plan only.").Value(&state.dryRun),
		huh.NewConfirm().Title("Skip confirmation").Description("Don't ask before rendering.").Value(&state.yes),
	).Title("Execution")
}

func buildFinishGroup(state *formState) *huh.Group {
	return huh.NewGroup(
		huh.NewSelect[string]().Title("Action").Value(&state.finalAction).Options(
			huh.NewOption("Build document now", "run"),
			huh.NewOption("Save config and build", "save_and_run"),
			huh.NewOption("Only save config", "save_only"),
		),
		huh.NewInput().Title("Config path").
			Description("Path for 'Save' actions (.json, .yaml or .yml).").
			Value(&state.configPath).
			Validate(func(s string) error {
				isSaveAction := state.finalAction == "save_and_run" || state.finalAction == "save_only"
				if !isSaveAction {
					return nil
				}
				return validateConfigPath(s)
			}),
	).Title("Finish")
}

func buildResult(state *formState) (Result, error) {
	timeoutSec, err := parsePositiveInt(state.timeoutSecStr, "timeout must be a positive integer")
	if err != nil {
		return Result{}, err
	}
	rateLimit, err := parseNonNegativeFloat(state.rateLimitStr, "rate limit must be a number >= 0")
	if err != nil {
		return Result{}, err
	}
	retries, err := parseNonNegativeInt(state.retriesStr, "retries must be an integer >= 0")
	if err != nil {
		return Result{}, err
	}
	maxURLs, err := parseNonNegativeInt(state.maxURLsStr, "max urls must be an integer >= 0")
	if err != nil {
		return Result{}, err
	}
	maxDepth, err := parseNonNegativeInt(state.maxDepthStr, "max depth must be an integer >= 0")
	if err != nil {
		return Result{}, err
	}
	format, err := render.ParseFormat(state.format)
	if err != nil {
		return Result{}, err
	}
	backend, err := render.ParseBackend(state.backend)
	if err != nil {
		return Result{}, err
	}

	cfg := config.Config{
		SitemapURL:         strings.TrimSpace(state.sitemapURL),
		OutputDir:          strings.TrimSpace(state.outputDir),
		TempDir:            state.tempDir,
		Title:              strings.TrimSpace(state.title),
		Author:             strings.TrimSpace(state.author),
		Creator:            state.creator,
		Format:             string(format),
		Backend:            string(backend),
		TimeoutSeconds:     timeoutSec,
		UserAgent:          strings.TrimSpace(state.userAgent),
		WaitForSelector:    strings.TrimSpace(state.waitFor),
		Headless:           &state.headless,
		RateLimitPerSecond: rateLimit,
		HideSelectors:      state.hideSelectors,
		CookieSelectors:    state.cookieSelectors,
		Retries:            &retries,
		Order:              state.order,
		Chapters:           state.chapters,
		Labels:             state.labels,
		Dividers:           &state.dividers,
		Individual:         &state.individual,
		KeepTemp:           state.keepTemp,
		MaxURLs:            maxURLs,
		MaxDepth:           maxDepth,
		PostCommands:       state.postCommands,
	}

	opts := app.Options{
		SitemapURL:         cfg.SitemapURL,
		OutputDir:          cfg.OutputDir,
		TempDir:            cfg.TempDir,
		Title:              cfg.Title,
		Author:             cfg.Author,
		Creator:            cfg.Creator,
		Format:             format,
		Backend:            backend,
		Timeout:            time.Duration(timeoutSec) * time.Second,
		UserAgent:          cfg.UserAgent,
		WaitFor:            cfg.WaitForSelector,
		Headless:           state.headless,
		RateLimitPerSecond: rateLimit,
		HideSelectors:      state.hideSelectors,
		CookieSelectors:    state.cookieSelectors,
		Retries:            retries,
		Order:              state.order,
		Chapters:           state.chapters,
		Labels:             state.labels,
		Dividers:           state.dividers,
		Individual:         state.individual,
		KeepTemp:           state.keepTemp,
		MaxURLs:            maxURLs,
		MaxDepth:           maxDepth,
		PostCommands:       state.postCommands,
		Yes:                state.yes,
		DryRun:             state.dryRun,
	}

	res := Result{
		Options:    opts,
		ConfigPath: state.configPath,
		Config:     cfg,
	}

	switch state.finalAction {
	case "run":
		res.RunNow = true
	case "save_and_run":
		res.RunNow = true
		res.SaveConfig = true
	case "save_only":
		res.SaveConfig = true
	}

	if res.SaveConfig {
		if err := config.Save(state.configPath, cfg); err != nil {
			return Result{}, err
		}
	}

	return res, nil
}

func parsePositiveInt(s, errMsg string) (int, error) {
	val, err := parseInt(s)
	if err != nil || val <= 0 {
		return 0, errors.New(errMsg)
	}
	return val, nil
}

func parseNonNegativeInt(s, errMsg string) (int, error) {
	val, err := parseInt(s)
	if err != nil || val < 0 {
		return 0, errors.New(errMsg)
	}
	return val, nil
}

func parseNonNegativeFloat(s, errMsg string) (float64, error) {
	val, err := parseFloat(s)
	if err != nil || val < 0 {
		return 0, errors.New(errMsg)
	}
	return val, nil
}

func parseInt(s string) (int, error) {
	return strconv.Atoi(strings.TrimSpace(s))
}

func parseFloat(s string) (float64, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return 0, nil
	}
	return strconv.ParseFloat(s, 64)
}

func validateIntString(minVal, maxVal int) func(string) error {
	return func(s string) error {
		v, err := parseInt(s)
		if err != nil {
			return errors.New("must be an integer")
		}
		if v < minVal || v > maxVal {
			return fmt.Errorf("must be between %d and %d", minVal, maxVal)
		}
		return nil
	}
}

func validateFloatString(minVal, maxVal float64) func(string) error {
	return func(s string) error {
		v, err := parseFloat(s)
		if err != nil {
			return errors.New("must be a number")
		}
		if v < minVal || v > maxVal {
			return fmt.Errorf("must be between %.2f and %.2f", minVal, maxVal)
		}
		return nil
	}
}

// validateNewFilename checks a bare file name used for rename and clone.
func validateNewFilename(s string) error {
	s = strings.TrimSpace(s)
	if s == "" {
		return errors.New("filename cannot be empty")
	}
	if strings.ContainsAny(s, `/\:*?"<>|`) {
		return errors.New("invalid characters")
	}
	if _, err := os.Stat(ensureConfigExtension(s)); err == nil {
		return errors.New("file already exists")
	}
	return nil
}

// validateConfigPath accepts directories in the path, unlike
// validateNewFilename, and allows overwriting.
func validateConfigPath(s string) error {
	s = strings.TrimSpace(s)
	if s == "" {
		return errors.New("path cannot be empty")
	}
	if strings.ContainsAny(s, `*?"<>|`) {
		return errors.New("invalid characters")
	}
	if ensureConfigExtension(s) != s {
		return errors.New("use a .json, .yaml or .yml file")
	}
	return nil
}
