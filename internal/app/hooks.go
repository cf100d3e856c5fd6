package app

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/exec"
	"runtime"
	"strings"
)

// Hook runs after the merged document and manifest are written.
type Hook interface {
	Name() string
	AfterMerge(ctx context.Context, opts Options, res Result) error
}

func buildHooks(opts Options) []Hook {
	var hooks []Hook
	if len(postCommands(opts.PostCommands)) > 0 {
		hooks = append(hooks, execHook{})
	}
	return hooks
}

func runHooks(ctx context.Context, opts Options, res Result) error {
	for _, h := range buildHooks(opts) {
		if err := h.AfterMerge(ctx, opts, res); err != nil {
			return fmt.Errorf("hook %q failed: %w", h.Name(), err)
		}
	}
	return nil
}

type execHook struct{}

func (execHook) Name() string { return "exec" }

func (execHook) AfterMerge(ctx context.Context, opts Options, res Result) error {
	for _, cmdStr := range postCommands(opts.PostCommands) {
		cmd, err := commandForShell(ctx, cmdStr)
		if err != nil {
			return err
		}
		cmd.Env = append(os.Environ(),
			"DOCBOOK_OUTPUT="+res.MergedPath,
			"DOCBOOK_MANIFEST="+res.ManifestPath,
			"DOCBOOK_SITEMAP="+opts.SitemapURL,
			"DOCBOOK_PROJECT_DIR="+res.ProjectDir,
		)
		if res.ProjectDir != "" {
			cmd.Dir = res.ProjectDir
		}
		if !opts.Quiet {
			cmd.Stdout = os.Stdout
			cmd.Stderr = os.Stderr
		}

		if err := cmd.Run(); err != nil {
			return fmt.Errorf("post command failed %q: %w", cmdStr, err)
		}
	}
	return nil
}

// postCommands drops blanks, comments and repeats.
func postCommands(items []string) []string {
	seen := make(map[string]struct{}, len(items))
	out := make([]string, 0, len(items))
	for _, raw := range items {
		v := strings.TrimSpace(raw)
		if v == "" || strings.HasPrefix(v, "#") {
			continue
		}
		if _, ok := seen[v]; ok {
			continue
		}
		seen[v] = struct{}{}
		out = append(out, v)
	}
	return out
}

func commandForShell(ctx context.Context, command string) (*exec.Cmd, error) {
	command = strings.TrimSpace(command)
	if command == "" {
		return nil, errors.New("empty command")
	}
	if runtime.GOOS == "windows" {
		return exec.CommandContext(ctx, "cmd", "/C", command), nil
	}
	return exec.CommandContext(ctx, "sh", "-c", command), nil
}
