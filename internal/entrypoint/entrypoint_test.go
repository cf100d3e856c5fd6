package entrypoint

import (
	"errors"
	"strings"
	"testing"

	"go_docbook/internal/cli"
)

func TestExecute_UsageErrorExitCode(t *testing.T) {
	t.Chdir(t.TempDir())
	code, err := Execute([]string{"go_docbook", "--format", "pdf"})
	if err == nil || code != 2 {
		t.Fatalf("expected usage error with code 2, got %d %v", code, err)
	}
}

func TestExecute_Help(t *testing.T) {
	code, err := Execute([]string{"go_docbook", "help"})
	if err != nil || code != 0 {
		t.Fatalf("help: %d %v", code, err)
	}
	if !strings.Contains(Usage(), "go_docbook merge") {
		t.Fatalf("usage missing merge: %s", Usage())
	}
}

func TestExecute_SubcommandErrors(t *testing.T) {
	code, err := Execute([]string{"go_docbook", "sitemap"})
	if err == nil || code != 1 {
		t.Fatalf("expected failure, got %d %v", code, err)
	}
}

func TestExitCode(t *testing.T) {
	if code, err := exitCode(nil); code != 0 || err != nil {
		t.Fatalf("nil: %d %v", code, err)
	}
	inner := errors.New("bad flag")
	if code, err := exitCode(cli.ExitError{Code: 2, Err: inner}); code != 2 || err != inner {
		t.Fatalf("exit error: %d %v", code, err)
	}
	if code, _ := exitCode(errors.New("boom")); code != 1 {
		t.Fatalf("plain error code = %d", code)
	}
}
