package artifact

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
)

var ErrRootMissing = errors.New("artifact directory not found")

// Artifact is one rendered page on disk.
type Artifact struct {
	Path      string `json:"path"`
	Category  string `json:"category"`
	Sequence  int    `json:"sequence"`
	Ext       string `json:"ext"`
	SourceURL string `json:"source_url,omitempty"`
}

// Collect walks root recursively and returns every artifact that follows
// the page_<int>.<ext> convention, sorted by sequence number. The category
// is the name of the file's parent directory. Other files are ignored.
func Collect(root string) ([]Artifact, error) {
	info, err := os.Stat(root)
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %v", ErrRootMissing, root, err)
	}
	if !info.IsDir() {
		return nil, fmt.Errorf("%w: %s is not a directory", ErrRootMissing, root)
	}

	var out []Artifact
	err = filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			return nil
		}
		seq, ext, ok := ParseName(d.Name())
		if !ok {
			return nil
		}
		out = append(out, Artifact{
			Path:     path,
			Category: filepath.Base(filepath.Dir(path)),
			Sequence: seq,
			Ext:      ext,
		})
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", root, err)
	}

	sort.SliceStable(out, func(i, j int) bool {
		if out[i].Sequence != out[j].Sequence {
			return out[i].Sequence < out[j].Sequence
		}
		return out[i].Path < out[j].Path
	})
	return out, nil
}
