package testconfigs

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"go_docbook/internal/app"
	"go_docbook/internal/cli"
	"go_docbook/internal/config"
)

type options struct {
	Dir        string
	Build      bool
	TimeoutSec int
	MaxURLs    int
}

type outcome struct {
	Name   string
	Status string
	Err    error
}

// Run checks every config in a directory: it must parse, validate and
// resolve its sitemap. With --build each config is also rendered and merged.
func Run(args []string) error {
	opts, err := parseOptions(args)
	if err != nil {
		return err
	}

	resolvedDir := resolveDir(opts.Dir)
	files, err := os.ReadDir(resolvedDir)
	if err != nil {
		return fmt.Errorf("read configs dir: %w", err)
	}

	var failed int
	for _, f := range files {
		if f.IsDir() || !isConfigFile(f.Name()) {
			continue
		}
		res := checkConfig(context.Background(), filepath.Join(resolvedDir, f.Name()), opts)
		if res.Err != nil {
			failed++
			fmt.Printf("%s: %s (%v)\n", res.Name, res.Status, res.Err)
			continue
		}
		fmt.Printf("%s: %s\n", res.Name, res.Status)
	}
	if failed > 0 {
		return fmt.Errorf("%d config(s) failed", failed)
	}
	return nil
}

func checkConfig(ctx context.Context, path string, opts options) outcome {
	name := filepath.Base(path)
	cfg, err := config.Load(path)
	if err != nil {
		return outcome{Name: name, Status: "INVALID", Err: err}
	}
	if strings.TrimSpace(cfg.SitemapURL) == "" {
		return outcome{Name: name, Status: "SKIP (no sitemap_url)"}
	}

	args := []string{"--config", path, "--yes", "--quiet"}
	if !opts.Build {
		args = append(args, "--dry-run")
	}
	if opts.TimeoutSec > 0 {
		args = append(args, "--timeout", strconv.Itoa(opts.TimeoutSec))
	}
	if opts.MaxURLs > 0 {
		args = append(args, "--max-urls", strconv.Itoa(opts.MaxURLs))
	}
	runOpts, _, err := cli.ParseArgs(args)
	if err != nil {
		var exitErr cli.ExitError
		if errors.As(err, &exitErr) {
			return outcome{Name: name, Status: "INVALID", Err: exitErr.Err}
		}
		return outcome{Name: name, Status: "INVALID", Err: err}
	}

	if err := app.Run(ctx, runOpts); err != nil {
		return outcome{Name: name, Status: "FAILED", Err: err}
	}
	return outcome{Name: name, Status: "OK"}
}

func parseOptions(args []string) (options, error) {
	fs := flag.NewFlagSet("test-configs", flag.ContinueOnError)
	fs.SetOutput(io.Discard)

	opts := options{}
	fs.StringVar(&opts.Dir, "dir", config.DefaultConfigDir, "Directory of config files (.json, .yaml, .yml)")
	fs.BoolVar(&opts.Build, "build", false, "Render and merge each config instead of a dry run")
	fs.IntVar(&opts.TimeoutSec, "timeout", 0, "Override per-page timeout seconds")
	fs.IntVar(&opts.MaxURLs, "max-urls", 0, "Override URL limit (0 = keep config value)")
	if err := fs.Parse(args); err != nil {
		return options{}, err
	}
	return opts, nil
}

func isConfigFile(name string) bool {
	switch strings.ToLower(filepath.Ext(name)) {
	case ".json", ".yaml", ".yml":
		return true
	}
	return false
}

func resolveDir(dir string) string {
	if strings.TrimSpace(dir) != "" {
		if _, err := os.Stat(dir); err == nil {
			return dir
		}
	}
	for _, candidate := range config.SearchDirs() {
		if _, err := os.Stat(candidate); err == nil {
			return candidate
		}
	}
	return dir
}
