package entrypoint

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"

	"go_docbook/internal/app"
	"go_docbook/internal/cli"
	"go_docbook/internal/config"
	"go_docbook/internal/subcommands/merge"
	"go_docbook/internal/subcommands/sitemap"
	"go_docbook/internal/subcommands/testconfigs"
	"go_docbook/internal/tui"
)

// Execute dispatches on args[1]: a subcommand name, flags for a full run,
// or nothing for the interactive form. The returned code is the process
// exit status.
func Execute(args []string) (int, error) {
	if len(args) > 1 {
		switch args[1] {
		case "merge":
			return exitCode(merge.Run(args[2:]))
		case "sitemap":
			return exitCode(sitemap.Run(args[2:]))
		case "test-configs":
			return exitCode(testconfigs.Run(args[2:]))
		case "help":
			fmt.Print(Usage())
			return 0, nil
		}
	}

	if len(args) <= 1 {
		res, err := tui.Run()
		if err != nil {
			return 1, err
		}
		if res.SaveConfig {
			fmt.Printf("Saved %s\n", res.ConfigPath)
		}
		if !res.RunNow {
			return 0, nil
		}
		return exitCode(runWithSignals(res.Options))
	}

	opts, initConfig, err := cli.ParseArgs(args[1:])
	if err != nil {
		var exitErr cli.ExitError
		if errors.As(err, &exitErr) {
			return exitErr.Code, exitErr.Err
		}
		return 1, err
	}

	if initConfig {
		return exitCode(cli.RunConfigWizard())
	}

	return exitCode(runWithSignals(opts))
}

// runWithSignals cancels the run on Ctrl-C. Timeouts apply per page inside
// the renderer, not to the run as a whole.
func runWithSignals(opts app.Options) error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()
	return app.Run(ctx, opts)
}

func exitCode(err error) (int, error) {
	if err == nil {
		return 0, nil
	}
	var exitErr cli.ExitError
	if errors.As(err, &exitErr) {
		return exitErr.Code, exitErr.Err
	}
	return 1, err
}

// Usage lists the subcommands; the default run takes the flags printed by
// --help.
func Usage() string {
	return fmt.Sprintf(`usage:
  go_docbook                         interactive setup
  go_docbook --sitemap <url> [flags] render and merge a documentation site
  go_docbook --init-config           write %s interactively
  go_docbook merge --dir <root> --out <file>
  go_docbook sitemap --sitemap <url> [--urls]
  go_docbook test-configs [--dir configs] [--build]
`, config.DefaultConfigPath())
}
