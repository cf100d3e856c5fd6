package merge

import (
	"fmt"
	"strings"
	"unicode"

	"github.com/go-pdf/fpdf"
)

// Table of contents geometry in points, measured from the bottom edge of an
// A4 page as in PDF user space.
const (
	a4Width        = 595.28
	a4Height       = 841.89
	tocMarginX     = 50.0
	tocTop         = a4Height - 100
	tocHeadingGap  = 30.0
	tocSubtitleGap = 40.0
	tocRowHeight   = 25.0
	tocBottom      = 50.0
	tocIndent      = 15.0
)

type tocSlot struct {
	page int // 0-based ToC page
	y    float64
}

// tocLayout places n entries. The first page carries the heading and
// subtitle; later pages start at tocTop.
func tocLayout(n int) []tocSlot {
	slots := make([]tocSlot, 0, n)
	page := 0
	y := tocTop - tocHeadingGap - tocSubtitleGap
	for i := 0; i < n; i++ {
		if y < tocBottom {
			page++
			y = tocTop
		}
		slots = append(slots, tocSlot{page: page, y: y})
		y -= tocRowHeight
	}
	return slots
}

func tocPageCount(n int) int {
	slots := tocLayout(n)
	if len(slots) == 0 {
		return 1
	}
	return slots[len(slots)-1].page + 1
}

func newDocument() *fpdf.Fpdf {
	pdf := fpdf.New("P", "pt", "A4", "")
	pdf.SetAutoPageBreak(false, 0)
	return pdf
}

func writeTOC(path string, meta Metadata, entries []TOCEntry) error {
	pdf := newDocument()
	pdf.SetTitle(meta.Title, !isASCII(meta.Title))
	if meta.Author != "" {
		pdf.SetAuthor(meta.Author, !isASCII(meta.Author))
	}
	pdf.SetCreator(meta.Creator, !isASCII(meta.Creator))
	tr := pdf.UnicodeTranslatorFromDescriptor("")

	pdf.AddPage()
	_, height := pdf.GetPageSize()
	title := tr(meta.Title)
	fitText(pdf, "B", title, 24, a4Width-2*tocMarginX)
	pdf.Text(tocMarginX, height-tocTop, clipText(pdf, title, a4Width-2*tocMarginX))
	pdf.SetFont("Helvetica", "B", 18)
	pdf.Text(tocMarginX, height-(tocTop-tocHeadingGap), "Table of Contents")

	pdf.SetFont("Helvetica", "", 12)
	page := 0
	for i, slot := range tocLayout(len(entries)) {
		if slot.page != page {
			pdf.AddPage()
			pdf.SetFont("Helvetica", "", 12)
			page = slot.page
		}
		e := entries[i]
		x := tocMarginX + float64(e.Level)*tocIndent
		pdf.Text(x, height-slot.y, tr(truncateLabel(e.Label, 70)))
		pdf.Text(a4Width-100, height-slot.y, fmt.Sprintf("Page %d", e.StartPage))
	}
	return pdf.OutputFileAndClose(path)
}

func isASCII(s string) bool {
	for _, r := range s {
		if r > unicode.MaxASCII {
			return false
		}
	}
	return true
}

// fitText shrinks size until s fits in width, down to a floor of 12pt.
func fitText(pdf *fpdf.Fpdf, style, s string, size, width float64) float64 {
	for size > 12 {
		pdf.SetFont("Helvetica", style, size)
		if pdf.GetStringWidth(s) <= width {
			break
		}
		size -= 2
	}
	pdf.SetFont("Helvetica", style, size)
	return size
}

// clipText cuts s with a trailing "..." until it fits in width at the
// current font. s is already translated to the single-byte font encoding.
func clipText(pdf *fpdf.Fpdf, s string, width float64) string {
	if pdf.GetStringWidth(s) <= width {
		return s
	}
	for n := len(s) - 1; n > 0; n-- {
		if clipped := strings.TrimSpace(s[:n]) + "..."; pdf.GetStringWidth(clipped) <= width {
			return clipped
		}
	}
	return "..."
}

func truncateLabel(s string, limit int) string {
	s = strings.TrimSpace(s)
	r := []rune(s)
	if len(r) <= limit {
		return s
	}
	return string(r[:limit-3]) + "..."
}
