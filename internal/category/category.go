package category

import "strings"

const (
	Root    = "root"
	Unknown = "unknown"
)

// Categorizer assigns the category directory a rendered page is filed under.
type Categorizer interface {
	Categorize(rawURL string) string
}

// Func adapts a plain function to the Categorizer interface.
type Func func(rawURL string) string

func (f Func) Categorize(rawURL string) string { return f(rawURL) }

// PathCategorizer is the default positional rule, see CategorizeURL.
type PathCategorizer struct{}

func (PathCategorizer) Categorize(rawURL string) string { return CategorizeURL(rawURL) }

// CategorizeURL splits the URL on "/" and picks the label by position:
// a bare host maps to Root, a single path segment maps to itself and
// anything deeper maps to the second path segment. Segments past the
// second are ignored, so /a/b/c and /a/b/d share category "b".
func CategorizeURL(rawURL string) string {
	trimmed := strings.TrimSuffix(strings.TrimSpace(rawURL), "/")
	parts := strings.Split(trimmed, "/")

	var label string
	switch {
	case len(parts) <= 3:
		return Root
	case len(parts) == 4:
		label = parts[3]
	case len(parts) >= 5:
		label = parts[4]
	default:
		return Unknown
	}

	label = stripQueryAndFragment(label)
	if label == "" || label == "." || label == ".." {
		return Unknown
	}
	return label
}

func stripQueryAndFragment(segment string) string {
	if i := strings.IndexAny(segment, "?#"); i >= 0 {
		segment = segment[:i]
	}
	return strings.TrimSpace(segment)
}
