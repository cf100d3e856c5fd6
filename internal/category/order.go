package category

import (
	"fmt"
	"sort"
	"strings"
)

// Chapter is one top-level section of the merged document. A chapter with
// an empty Title stands for its single category.
type Chapter struct {
	Title      string   `json:"title" yaml:"title"`
	Categories []string `json:"categories" yaml:"categories"`
}

// Ordering decides the order categories appear in the merged document.
type Ordering interface {
	Chapters(categories []string) []Chapter
}

const (
	OrderLexicographic = "lexicographic"
	OrderEditorial     = "editorial"
)

// Lexicographic puts every category in its own chapter, sorted by label.
type Lexicographic struct{}

func (Lexicographic) Chapters(categories []string) []Chapter {
	sorted := uniqueCategories(categories)
	sort.Strings(sorted)
	out := make([]Chapter, 0, len(sorted))
	for _, c := range sorted {
		out = append(out, Chapter{Categories: []string{c}})
	}
	return out
}

// Editorial follows a fixed list of named chapters. Categories no chapter
// lists are appended, sorted, to the Fallback chapter.
type Editorial struct {
	Layout   []Chapter
	Fallback string
}

// DefaultFallbackTitle names the chapter that collects unlisted categories.
const DefaultFallbackTitle = "Other Pages"

// DefaultChapters is the editorial layout used when none is configured.
func DefaultChapters() []Chapter {
	return []Chapter{
		{Title: "Start Here", Categories: []string{"start-here"}},
		{Title: "Products", Categories: []string{"usual-products"}},
		{Title: "Resources and Ecosystem", Categories: []string{"resources-and-ecosystem"}},
		{Title: DefaultFallbackTitle, Categories: []string{Root, Unknown}},
	}
}

func (e Editorial) Chapters(categories []string) []Chapter {
	present := map[string]bool{}
	for _, c := range categories {
		present[c] = true
	}

	fallback := strings.TrimSpace(e.Fallback)
	if fallback == "" {
		fallback = DefaultFallbackTitle
	}

	listed := map[string]bool{}
	out := make([]Chapter, 0, len(e.Layout)+1)
	fallbackIdx := -1
	for _, ch := range e.Layout {
		kept := Chapter{Title: ch.Title}
		for _, c := range ch.Categories {
			if listed[c] {
				continue
			}
			listed[c] = true
			if present[c] {
				kept.Categories = append(kept.Categories, c)
			}
		}
		if ch.Title == fallback {
			fallbackIdx = len(out)
		}
		out = append(out, kept)
	}

	var rest []string
	for _, c := range uniqueCategories(categories) {
		if !listed[c] {
			rest = append(rest, c)
		}
	}
	sort.Strings(rest)
	if len(rest) > 0 {
		if fallbackIdx < 0 {
			out = append(out, Chapter{Title: fallback})
			fallbackIdx = len(out) - 1
		}
		out[fallbackIdx].Categories = append(out[fallbackIdx].Categories, rest...)
	}

	trimmed := out[:0]
	for _, ch := range out {
		if len(ch.Categories) > 0 {
			trimmed = append(trimmed, ch)
		}
	}
	return trimmed
}

// NewOrdering resolves an ordering by name. Editorial uses chapters, or
// DefaultChapters when chapters is empty.
func NewOrdering(name string, chapters []Chapter) (Ordering, error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "", OrderLexicographic:
		return Lexicographic{}, nil
	case OrderEditorial:
		if len(chapters) == 0 {
			chapters = DefaultChapters()
		}
		return Editorial{Layout: chapters}, nil
	default:
		return nil, fmt.Errorf("unknown order %q (available: %s, %s)", name, OrderLexicographic, OrderEditorial)
	}
}

func uniqueCategories(categories []string) []string {
	seen := make(map[string]struct{}, len(categories))
	out := make([]string, 0, len(categories))
	for _, c := range categories {
		if _, ok := seen[c]; ok {
			continue
		}
		seen[c] = struct{}{}
		out = append(out, c)
	}
	return out
}
