package category

import (
	"strings"
	"unicode"
	"unicode/utf8"
)

// Labels overrides the display label for specific categories.
type Labels map[string]string

// DefaultLabels names the two synthetic categories.
var DefaultLabels = Labels{
	Root:    "Home",
	Unknown: "Other Pages",
}

// Label returns the override for category or its DisplayName.
func (l Labels) Label(category string) string {
	if l != nil {
		if v, ok := l[category]; ok && strings.TrimSpace(v) != "" {
			return v
		}
	}
	if v, ok := DefaultLabels[category]; ok {
		return v
	}
	return DisplayName(category)
}

// DisplayName replaces separators with spaces and title-cases each word:
// "usual-products" becomes "Usual Products".
func DisplayName(label string) string {
	words := strings.FieldsFunc(label, func(r rune) bool {
		return r == '-' || r == '_' || unicode.IsSpace(r)
	})
	for i, w := range words {
		r, size := utf8.DecodeRuneInString(w)
		words[i] = string(unicode.ToUpper(r)) + w[size:]
	}
	return strings.Join(words, " ")
}
