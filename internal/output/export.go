package output

import (
	"fmt"
	"io"
	"os"
	"path/filepath"

	"go_docbook/internal/artifact"
)

// ExportIndividual copies each artifact to dir/<category>/<file name> and
// returns the number of files written.
func ExportIndividual(arts []artifact.Artifact, dir string) (int, error) {
	written := 0
	for _, a := range arts {
		dest := filepath.Join(dir, a.Category, filepath.Base(a.Path))
		if err := copyFile(a.Path, dest); err != nil {
			return written, fmt.Errorf("copy %s: %w", a.Path, err)
		}
		written++
	}
	return written, nil
}

func copyFile(src, dest string) error {
	if err := os.MkdirAll(filepath.Dir(dest), 0755); err != nil {
		return err
	}
	in, err := os.Open(src)
	if err != nil {
		return err
	}
	defer in.Close()

	out, err := os.Create(dest)
	if err != nil {
		return err
	}
	if _, err := io.Copy(out, in); err != nil {
		_ = out.Close()
		return err
	}
	return out.Close()
}
