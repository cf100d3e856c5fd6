package artifact

import (
	"fmt"
	"path/filepath"
	"regexp"
	"strconv"
	"strings"
)

const (
	ExtPDF = "pdf"
	ExtPNG = "png"
)

var namePattern = regexp.MustCompile(`(?i)^page_(\d+)\.(pdf|png)$`)

// FileName is the on-disk name of the artifact with sequence number seq.
func FileName(seq int, ext string) string {
	return fmt.Sprintf("page_%d.%s", seq, strings.ToLower(ext))
}

// PagePath places an artifact at <root>/<category>/page_<seq>.<ext>.
func PagePath(root, category string, seq int, ext string) string {
	return filepath.Join(root, category, FileName(seq, ext))
}

// ParseName recovers the sequence number and lower-cased extension from an
// artifact file name. ok is false for names outside the page_<int>.<ext>
// convention.
func ParseName(name string) (seq int, ext string, ok bool) {
	m := namePattern.FindStringSubmatch(name)
	if m == nil {
		return 0, "", false
	}
	n, err := strconv.Atoi(m[1])
	if err != nil {
		return 0, "", false
	}
	return n, strings.ToLower(m[2]), true
}

// ValidExt reports whether ext is a format the layout accepts.
func ValidExt(ext string) bool {
	switch strings.ToLower(ext) {
	case ExtPDF, ExtPNG:
		return true
	}
	return false
}
