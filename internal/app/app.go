package app

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"go_docbook/internal/artifact"
	"go_docbook/internal/category"
	"go_docbook/internal/crawler"
	"go_docbook/internal/merge"
	"go_docbook/internal/output"
	"go_docbook/internal/render"
)

// Result describes the files a run produced.
type Result struct {
	SiteTitle     string
	ProjectDir    string
	MergedPath    string
	ManifestPath  string
	IndexPath     string
	IndividualDir string
	Manifest      output.Manifest
	Merge         merge.Result
}

func Run(ctx context.Context, opts Options) error {
	_, err := newPipeline().run(ctx, opts)
	return err
}

type rendererFactory func(ctx context.Context, opts render.Options) (render.Renderer, error)

type pipeline struct {
	newRenderer rendererFactory
	sleep       func(ctx context.Context, d time.Duration) error
	confirm     func(prompt string) bool
	now         func() time.Time
}

func newPipeline() *pipeline {
	return &pipeline{
		newRenderer: render.New,
		sleep:       sleepContext,
		confirm:     confirm,
		now:         time.Now,
	}
}

func (p *pipeline) run(ctx context.Context, opts Options) (Result, error) {
	opts, err := normalizeOptions(opts)
	if err != nil {
		return Result{}, err
	}
	logger := opts.Logger
	if logger == nil {
		logger = newLogger(opts.Quiet)
	}

	started := p.now()
	siteTitle := p.discoverSiteTitle(ctx, opts, logger)
	projectDir := filepath.Join(opts.OutputDir, siteTitle)
	docTitle := opts.Title
	if docTitle == "" {
		docTitle = siteTitle + " Complete Documentation"
	}
	author := opts.Author
	if author == "" {
		author = siteTitle
	}

	logf(opts, "Fetching sitemap %s\n", opts.SitemapURL)
	urls, err := crawler.ParseSitemap(ctx, opts.SitemapURL, crawler.SitemapOptions{
		Options:  crawler.Options{UserAgent: opts.UserAgent, Timeout: opts.Timeout, Logger: logger},
		MaxDepth: opts.MaxDepth,
		MaxURLs:  opts.MaxURLs,
	})
	if err != nil {
		return Result{}, err
	}
	logf(opts, "Found %d pages\n", len(urls))

	if opts.DryRun {
		if !opts.Quiet {
			printPlan(urls, opts.Categorizer, category.Labels(opts.Labels))
		}
		return Result{SiteTitle: siteTitle, ProjectDir: projectDir}, nil
	}
	if !opts.Yes && !p.confirm(fmt.Sprintf("Render %d pages into %s? [y/N]: ", len(urls), projectDir)) {
		return Result{}, errors.New("aborted by user")
	}

	if err := resetDir(opts.TempDir); err != nil {
		return Result{}, fmt.Errorf("prepare temp dir: %w", err)
	}

	manifest := output.Manifest{
		Sitemap:   opts.SitemapURL,
		SiteTitle: siteTitle,
		Title:     docTitle,
		Format:    string(opts.Format),
		Backend:   string(opts.Backend),
		StartedAt: started,
	}
	manifest.Pages, err = p.renderAll(ctx, opts, logger, urls)
	if err != nil {
		return Result{}, err
	}

	arts, err := artifact.Collect(opts.TempDir)
	if err != nil {
		return Result{}, err
	}
	attachSourceURLs(arts, manifest.Pages)

	ordering, err := category.NewOrdering(opts.Order, opts.Chapters)
	if err != nil {
		return Result{}, err
	}
	logf(opts, "Merging %d artifacts\n", len(arts))
	merged, err := merge.New(merge.Options{
		Ordering: ordering,
		Labels:   category.Labels(opts.Labels),
		Dividers: opts.Dividers,
		Metadata: merge.Metadata{Title: docTitle, Author: author, Creator: opts.Creator},
		Logger:   logger,
	}).Merge(ctx, arts, filepath.Join(projectDir, MergedFileName))
	if err != nil {
		return Result{}, fmt.Errorf("merge failed (artifacts kept in %s): %w", opts.TempDir, err)
	}
	for _, s := range merged.Skipped {
		warnf(opts, "skipped %s: %s\n", s.Artifact.Path, s.Reason)
	}

	res := Result{
		SiteTitle:  siteTitle,
		ProjectDir: projectDir,
		MergedPath: merged.OutputPath,
		Merge:      merged,
	}

	if opts.Individual {
		res.IndividualDir = filepath.Join(projectDir, IndividualDirName)
		n, err := output.ExportIndividual(merged.Included, res.IndividualDir)
		if err != nil {
			return res, err
		}
		logf(opts, "Copied %d individual files to %s\n", n, res.IndividualDir)
	}

	manifest.Finish(merged, p.now())
	res.ManifestPath, err = output.WriteManifest(projectDir, manifest, opts.Quiet)
	if err != nil {
		return res, fmt.Errorf("write manifest: %w", err)
	}
	res.Manifest = manifest
	res.IndexPath, err = output.WriteIndex(projectDir, merged.Placements)
	if err != nil {
		return res, fmt.Errorf("write page index: %w", err)
	}

	if err := runHooks(ctx, opts, res); err != nil {
		return res, err
	}

	if !opts.KeepTemp {
		if err := os.RemoveAll(opts.TempDir); err != nil {
			warnf(opts, "could not remove %s: %v\n", opts.TempDir, err)
		}
	}

	if !opts.Quiet {
		printSummary(res)
	}
	return res, nil
}

func (p *pipeline) discoverSiteTitle(ctx context.Context, opts Options, logger *slog.Logger) string {
	root, err := crawler.SiteRoot(opts.SitemapURL)
	if err != nil {
		warnf(opts, "cannot derive site root: %v\n", err)
		return crawler.DefaultSiteTitle
	}
	title, err := crawler.DiscoverTitle(ctx, root, crawler.Options{UserAgent: opts.UserAgent, Timeout: opts.Timeout, Logger: logger})
	if err != nil {
		warnf(opts, "site title lookup failed, using %q: %v\n", title, err)
	}
	logf(opts, "Website title: %s\n", title)
	return title
}

func attachSourceURLs(arts []artifact.Artifact, pages []output.PageRecord) {
	bySeq := make(map[int]string, len(pages))
	for _, p := range pages {
		bySeq[p.Sequence] = p.URL
	}
	for i := range arts {
		arts[i].SourceURL = bySeq[arts[i].Sequence]
	}
}

func resetDir(dir string) error {
	if err := os.RemoveAll(dir); err != nil {
		return err
	}
	return os.MkdirAll(dir, 0755)
}

func newLogger(quiet bool) *slog.Logger {
	level := slog.LevelWarn
	if quiet {
		level = slog.LevelError
	}
	return slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level}))
}

func logf(opts Options, format string, args ...any) {
	if opts.Quiet {
		return
	}
	fmt.Printf(format, args...)
}

func warnf(opts Options, format string, args ...any) {
	if opts.Quiet {
		return
	}
	fmt.Fprintf(os.Stderr, "Warning: "+format, args...)
}
