package merge

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"strings"

	"go_docbook/internal/app"
	"go_docbook/internal/artifact"
	"go_docbook/internal/category"
	"go_docbook/internal/cli"
	"go_docbook/internal/config"
	docmerge "go_docbook/internal/merge"
)

type options struct {
	Dir      string
	Out      string
	Config   string
	Title    string
	Author   string
	Order    string
	Dividers cli.BoolFlag
	Quiet    bool
}

// Run merges an existing <dir>/<category>/page_<n>.<ext> layout without
// rendering anything.
func Run(args []string) error {
	opts, err := parseOptions(args)
	if err != nil {
		if errors.Is(err, flag.ErrHelp) {
			return nil
		}
		return cli.ExitError{Code: 2, Err: err}
	}
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()
	_, err = run(ctx, opts)
	return err
}

func parseOptions(args []string) (options, error) {
	fs := flag.NewFlagSet("merge", flag.ContinueOnError)
	fs.Usage = func() {
		fmt.Fprintln(fs.Output(), "usage: go_docbook merge [--dir temp_pages] [--out Complete_Documentation.pdf] [flags]")
		fs.PrintDefaults()
	}

	opts := options{}
	fs.StringVar(&opts.Dir, "dir", app.DefaultTempDir, "Artifact root (<dir>/<category>/page_<n>.pdf|png)")
	fs.StringVar(&opts.Out, "out", app.MergedFileName, "Merged PDF path")
	fs.StringVar(&opts.Config, "config", "", "Config file for chapters and labels")
	fs.StringVar(&opts.Title, "title", "", "Document title")
	fs.StringVar(&opts.Author, "author", "", "Document author")
	fs.StringVar(&opts.Order, "order", "", "Category order: lexicographic|editorial")
	fs.Var(&opts.Dividers, "dividers", "Insert a divider page before each chapter")
	fs.BoolVar(&opts.Quiet, "quiet", false, "Only report errors")
	if err := fs.Parse(args); err != nil {
		return options{}, err
	}
	if fs.NArg() > 0 {
		return options{}, fmt.Errorf("unexpected arguments: %s", strings.Join(fs.Args(), " "))
	}
	if strings.TrimSpace(opts.Out) == "" {
		return options{}, errors.New("--out is required")
	}
	return opts, nil
}

func run(ctx context.Context, opts options) (docmerge.Result, error) {
	var cfg config.Config
	if opts.Config != "" {
		loaded, err := config.Load(opts.Config)
		if err != nil {
			return docmerge.Result{}, err
		}
		cfg = loaded
	}
	order := opts.Order
	if order == "" {
		order = cfg.Order
	}
	ordering, err := category.NewOrdering(order, cfg.Chapters)
	if err != nil {
		return docmerge.Result{}, err
	}
	dividers := opts.Dividers.Value
	if !opts.Dividers.WasSet && cfg.Dividers != nil {
		dividers = *cfg.Dividers
	}
	title := firstNonEmpty(opts.Title, cfg.Title)
	author := firstNonEmpty(opts.Author, cfg.Author)

	arts, err := artifact.Collect(opts.Dir)
	if err != nil {
		return docmerge.Result{}, err
	}
	if !opts.Quiet {
		fmt.Printf("Found %d artifacts in %s\n", len(arts), opts.Dir)
	}

	level := slog.LevelWarn
	if opts.Quiet {
		level = slog.LevelError
	}
	res, err := docmerge.New(docmerge.Options{
		Ordering: ordering,
		Labels:   category.Labels(cfg.Labels),
		Dividers: dividers,
		Metadata: docmerge.Metadata{Title: title, Author: author, Creator: cfg.Creator},
		Logger:   slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level})),
	}).Merge(ctx, arts, opts.Out)
	if err != nil {
		return docmerge.Result{}, err
	}

	if !opts.Quiet {
		printResult(res)
	}
	return res, nil
}

func printResult(res docmerge.Result) {
	fmt.Printf("Merged %d artifacts into %s (%d pages, %d table of contents)\n",
		len(res.Included), res.OutputPath, res.Pages, res.TOCPages)
	for _, e := range res.Entries {
		fmt.Printf("  %s%s ... %d\n", strings.Repeat("  ", e.Level), e.Label, e.StartPage)
	}
	for _, s := range res.Skipped {
		fmt.Printf("Skipped %s: %s\n", s.Artifact.Path, s.Reason)
	}
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if strings.TrimSpace(v) != "" {
			return v
		}
	}
	return ""
}
