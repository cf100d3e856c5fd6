package merge

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/go-pdf/fpdf"

	"go_docbook/internal/artifact"
)

// PDF viewers reject pages taller than 200 inches.
const maxPageHeight = 14400.0

type part struct {
	art   artifact.Artifact
	path  string
	pages int
}

// loadPart validates an artifact and returns the PDF to splice in. PNG
// artifacts are first converted to a single-page PDF inside work.
func loadPart(a artifact.Artifact, work string) (part, error) {
	path := a.Path
	if strings.EqualFold(a.Ext, artifact.ExtPNG) {
		converted := filepath.Join(work, fmt.Sprintf("image_%s_%06d.pdf", safeName(a.Category), a.Sequence))
		if err := writeImagePage(a.Path, converted); err != nil {
			return part{}, fmt.Errorf("convert %s: %w", a.Path, err)
		}
		path = converted
	}
	pages, err := countPages(path)
	if err != nil {
		return part{}, fmt.Errorf("read %s: %w", a.Path, err)
	}
	if pages == 0 {
		return part{}, fmt.Errorf("read %s: document has no pages", a.Path)
	}
	return part{art: a, path: path, pages: pages}, nil
}

// writeDivider renders a full-page section title on a light grey page.
func writeDivider(path, title string) error {
	pdf := newDocument()
	tr := pdf.UnicodeTranslatorFromDescriptor("")
	pdf.AddPage()
	width, height := pdf.GetPageSize()
	pdf.SetFillColor(242, 242, 242)
	pdf.Rect(0, 0, width, height, "F")
	pdf.SetTextColor(0, 0, 0)
	text := tr(title)
	fitText(pdf, "B", text, 32, width-2*tocMarginX)
	pdf.Text(tocMarginX, height/2, clipText(pdf, text, width-2*tocMarginX))
	return pdf.OutputFileAndClose(path)
}

// writeImagePage places a PNG on one page that is A4 wide and as tall as the
// image's aspect ratio requires.
func writeImagePage(src, dest string) error {
	f, err := os.Open(src)
	if err != nil {
		return err
	}
	defer f.Close()

	pdf := newDocument()
	opts := fpdf.ImageOptions{ImageType: "PNG"}
	info := pdf.RegisterImageOptionsReader("page", opts, f)
	if err := pdf.Error(); err != nil {
		return err
	}
	if info == nil || info.Width() <= 0 || info.Height() <= 0 {
		return errors.New("image has no size")
	}

	w := a4Width
	h := w * info.Height() / info.Width()
	if h > maxPageHeight {
		w *= maxPageHeight / h
		h = maxPageHeight
	}
	pdf.AddPageFormat("P", fpdf.SizeType{Wd: w, Ht: h})
	pdf.ImageOptions("page", 0, 0, w, h, false, opts, 0, "")
	return pdf.OutputFileAndClose(dest)
}

func safeName(s string) string {
	return strings.Map(func(r rune) rune {
		if r == '/' || r == '\\' || r == os.PathSeparator {
			return '_'
		}
		return r
	}, s)
}
