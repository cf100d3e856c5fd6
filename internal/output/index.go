package output

import (
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"go_docbook/internal/merge"
)

const IndexFileName = "index.jsonl"

// IndexRecord maps one source page to its pages in the merged document.
type IndexRecord struct {
	ID          string `json:"id"`
	URL         string `json:"url,omitempty"`
	Category    string `json:"category"`
	Sequence    int    `json:"sequence"`
	HeadingPath string `json:"heading_path"`
	StartPage   int    `json:"start_page"`
	EndPage     int    `json:"end_page"`
}

// WriteIndex writes index.jsonl, one record per placed artifact in document
// order.
func WriteIndex(outDir string, placements []merge.Placement) (string, error) {
	if err := os.MkdirAll(outDir, 0755); err != nil {
		return "", err
	}
	path := filepath.Join(outDir, IndexFileName)
	f, err := os.Create(path)
	if err != nil {
		return "", err
	}
	defer f.Close()

	for _, p := range placements {
		rec := indexRecord(p)
		line, err := json.Marshal(rec)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Warning: failed to marshal index record %q: %v\n", rec.URL, err)
			continue
		}
		if _, err := f.Write(append(line, '\n')); err != nil {
			return "", err
		}
	}
	return path, f.Close()
}

func indexRecord(p merge.Placement) IndexRecord {
	var parts []string
	if p.Chapter != "" {
		parts = append(parts, p.Chapter)
	}
	parts = append(parts, p.Label)
	headingPath := strings.Join(parts, " > ")

	// Stable across runs as long as the URL and its category do not change.
	key := p.Artifact.SourceURL
	if key == "" {
		key = fmt.Sprintf("%s/%d", p.Artifact.Category, p.Artifact.Sequence)
	}
	sum := sha256.Sum256([]byte(p.Artifact.Category + "|" + key))

	return IndexRecord{
		ID:          hex.EncodeToString(sum[:])[:16],
		URL:         p.Artifact.SourceURL,
		Category:    p.Artifact.Category,
		Sequence:    p.Artifact.Sequence,
		HeadingPath: headingPath,
		StartPage:   p.StartPage,
		EndPage:     p.StartPage + p.Pages - 1,
	}
}
