package merge

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"go_docbook/internal/artifact"
	"go_docbook/internal/category"
)

var ErrNoArtifacts = errors.New("no artifacts to merge")

const DefaultCreator = "go_docbook"

type Metadata struct {
	Title   string
	Author  string
	Creator string
}

type Options struct {
	Ordering category.Ordering
	Labels   category.Labels
	Dividers bool
	Metadata Metadata
	// WorkDir holds generated pages during a merge; defaults to the system
	// temp dir.
	WorkDir string
	Logger  *slog.Logger
}

// TOCEntry is one row of the table of contents. Level 1 rows are
// categories listed under an editorial chapter.
type TOCEntry struct {
	Label     string `json:"label"`
	StartPage int    `json:"start_page"`
	Level     int    `json:"level"`
}

// Placement locates one artifact inside the merged document. StartPage is
// 1-based and counts the table of contents.
type Placement struct {
	Artifact  artifact.Artifact `json:"artifact"`
	Chapter   string            `json:"chapter,omitempty"`
	Label     string            `json:"label"`
	StartPage int               `json:"start_page"`
	Pages     int               `json:"pages"`
}

type SkippedArtifact struct {
	Artifact artifact.Artifact `json:"artifact"`
	Reason   string            `json:"reason"`
}

type Result struct {
	OutputPath string              `json:"output_path"`
	Pages      int                 `json:"pages"`
	TOCPages   int                 `json:"toc_pages"`
	Entries    []TOCEntry          `json:"entries"`
	Included   []artifact.Artifact `json:"included"`
	Placements []Placement         `json:"placements"`
	Skipped    []SkippedArtifact   `json:"skipped,omitempty"`
}

type Merger struct {
	opts Options
}

func New(opts Options) *Merger {
	if opts.Ordering == nil {
		opts.Ordering = category.Lexicographic{}
	}
	if opts.Labels == nil {
		opts.Labels = category.Labels{}
	}
	if strings.TrimSpace(opts.Metadata.Title) == "" {
		opts.Metadata.Title = "Documentation"
	}
	if strings.TrimSpace(opts.Metadata.Creator) == "" {
		opts.Metadata.Creator = DefaultCreator
	}
	if opts.Logger == nil {
		opts.Logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	return &Merger{opts: opts}
}

// Merge writes one document to outPath: table of contents first, then each
// category's artifacts in sequence order. Artifacts that cannot be read are
// skipped and reported in Result.Skipped. When nothing is loadable no file
// is created and ErrNoArtifacts is returned.
func (m *Merger) Merge(ctx context.Context, arts []artifact.Artifact, outPath string) (Result, error) {
	res := Result{OutputPath: outPath}
	if len(arts) == 0 {
		return res, ErrNoArtifacts
	}

	work, err := os.MkdirTemp(m.opts.WorkDir, "docbook-merge-*")
	if err != nil {
		return res, fmt.Errorf("create work dir: %w", err)
	}
	defer os.RemoveAll(work)

	groups := groupByCategory(arts)
	loaded := map[string][]part{}
	for _, cat := range sortedKeys(groups) {
		for _, a := range groups[cat] {
			if err := ctx.Err(); err != nil {
				return res, err
			}
			p, err := loadPart(a, work)
			if err != nil {
				m.opts.Logger.Error("skipping artifact", "path", a.Path, "err", err)
				res.Skipped = append(res.Skipped, SkippedArtifact{Artifact: a, Reason: err.Error()})
				continue
			}
			loaded[cat] = append(loaded[cat], p)
			res.Included = append(res.Included, a)
		}
	}
	if len(loaded) == 0 {
		return res, fmt.Errorf("%w: all %d artifacts failed to load", ErrNoArtifacts, len(arts))
	}

	chapters := m.opts.Ordering.Chapters(sortedKeys(loaded))
	pl := buildPlan(chapters, loaded, m.opts.Labels, m.opts.Dividers)
	res.TOCPages = tocPageCount(len(pl.entries))
	for i := range pl.entries {
		pl.entries[i].StartPage += res.TOCPages + 1
	}
	for i := range pl.placements {
		pl.placements[i].StartPage += res.TOCPages + 1
	}
	res.Entries = pl.entries
	res.Placements = pl.placements
	res.Pages = res.TOCPages + pl.pages

	tocPath := filepath.Join(work, "toc.pdf")
	if err := writeTOC(tocPath, m.opts.Metadata, pl.entries); err != nil {
		return res, fmt.Errorf("build table of contents: %w", err)
	}
	files := []string{tocPath}
	for i, item := range pl.items {
		if item.divider == "" {
			files = append(files, item.path)
			continue
		}
		path := filepath.Join(work, fmt.Sprintf("divider_%03d.pdf", i))
		if err := writeDivider(path, item.divider); err != nil {
			return res, fmt.Errorf("build divider %q: %w", item.divider, err)
		}
		files = append(files, path)
	}

	if err := ctx.Err(); err != nil {
		return res, err
	}
	if err := os.MkdirAll(filepath.Dir(outPath), 0o755); err != nil {
		return res, fmt.Errorf("create %s: %w", filepath.Dir(outPath), err)
	}
	tmp := outPath + ".tmp"
	if err := mergeFiles(files, tmp); err != nil {
		_ = os.Remove(tmp)
		return res, fmt.Errorf("merge into %s: %w", outPath, err)
	}
	if err := os.Rename(tmp, outPath); err != nil {
		_ = os.Remove(tmp)
		return res, fmt.Errorf("write %s: %w", outPath, err)
	}
	m.opts.Logger.Info("merged document", "path", outPath, "pages", res.Pages, "skipped", len(res.Skipped))
	return res, nil
}

func groupByCategory(arts []artifact.Artifact) map[string][]artifact.Artifact {
	groups := map[string][]artifact.Artifact{}
	for _, a := range arts {
		groups[a.Category] = append(groups[a.Category], a)
	}
	for _, g := range groups {
		sort.SliceStable(g, func(i, j int) bool {
			if g[i].Sequence != g[j].Sequence {
				return g[i].Sequence < g[j].Sequence
			}
			return g[i].Path < g[j].Path
		})
	}
	return groups
}

func sortedKeys[V any](m map[string]V) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
