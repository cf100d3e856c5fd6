package output

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"go_docbook/internal/merge"
)

const ManifestFileName = "manifest.json"

const (
	StatusRendered = "rendered"
	StatusFailed   = "failed"
)

// PageRecord is the render outcome for one sitemap URL.
type PageRecord struct {
	URL      string `json:"url"`
	Category string `json:"category"`
	Sequence int    `json:"sequence"`
	Artifact string `json:"artifact,omitempty"`
	Status   string `json:"status"`
	Attempts int    `json:"attempts"`
	Error    string `json:"error,omitempty"`
}

type Manifest struct {
	Sitemap    string                  `json:"sitemap"`
	SiteTitle  string                  `json:"site_title"`
	Title      string                  `json:"title"`
	Output     string                  `json:"output"`
	Format     string                  `json:"format"`
	Backend    string                  `json:"backend"`
	StartedAt  time.Time               `json:"started_at"`
	FinishedAt time.Time               `json:"finished_at"`
	Duration   string                  `json:"duration"`
	Rendered   int                     `json:"rendered"`
	Failed     int                     `json:"failed"`
	TotalPages int                     `json:"total_pages"`
	Pages      []PageRecord            `json:"pages"`
	TOC        []merge.TOCEntry        `json:"toc"`
	Skipped    []merge.SkippedArtifact `json:"skipped,omitempty"`
}

// Finish stamps the end time and copies the merge outcome in.
func (m *Manifest) Finish(res merge.Result, at time.Time) {
	m.FinishedAt = at
	m.Duration = at.Sub(m.StartedAt).Round(time.Millisecond).String()
	m.Output = res.OutputPath
	m.TotalPages = res.Pages
	m.TOC = res.Entries
	m.Skipped = res.Skipped
	m.Rendered, m.Failed = 0, 0
	for _, p := range m.Pages {
		if p.Status == StatusRendered {
			m.Rendered++
		} else {
			m.Failed++
		}
	}
}

func WriteManifest(outputDir string, m Manifest, silent bool) (string, error) {
	if outputDir == "" {
		outputDir = "output"
	}
	if err := os.MkdirAll(outputDir, 0755); err != nil {
		return "", err
	}

	path := filepath.Join(outputDir, ManifestFileName)
	data, err := json.MarshalIndent(m, "", "  ")
	if err != nil {
		return "", err
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return "", err
	}

	if !silent {
		fmt.Printf("Wrote manifest: %s (%d rendered, %d failed)\n", path, m.Rendered, m.Failed)
	}
	return path, nil
}

func ReadManifest(outputDir string) (Manifest, error) {
	if outputDir == "" {
		outputDir = "output"
	}
	data, err := os.ReadFile(filepath.Join(outputDir, ManifestFileName))
	if err != nil {
		return Manifest{}, err
	}
	var m Manifest
	if err := json.Unmarshal(data, &m); err != nil {
		return Manifest{}, err
	}
	return m, nil
}
