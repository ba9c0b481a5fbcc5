package pdfdoc

import (
	"fmt"
	"strings"

	"github.com/ledongthuc/pdf"

	"github.com/packlab/dd1750/internal/bom"
)

// Horizontal gap thresholds, in points, for regrouping the extraction
// library's text fragments. A small gap separates words inside a cell; a
// large one separates table columns. Tuned against the BOM exports this
// tool is used with (9-10pt body text).
const (
	wordGapPt = 1.5
	cellGapPt = 14.0
)

// Extractor pulls per-page content out of a BOM PDF in the two shapes the
// parser consumes: positioned cell rows and plain text lines.
type Extractor struct{}

// NewExtractor creates a PDF text extractor.
func NewExtractor() *Extractor {
	return &Extractor{}
}

// Pages extracts content for every page from startPage (0-based) onward.
// A page that fails extraction is skipped, not fatal; the document handle
// is released before returning.
func (e *Extractor) Pages(path string, startPage int) ([]bom.Page, error) {
	f, reader, err := pdf.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open PDF: %w", err)
	}
	defer f.Close()

	var pages []bom.Page
	for pageNum := 1; pageNum <= reader.NumPage(); pageNum++ {
		if pageNum-1 < startPage {
			continue
		}
		page := reader.Page(pageNum)
		if page.V.IsNull() {
			continue
		}
		if content, ok := extractPage(page, pageNum); ok {
			pages = append(pages, content)
		}
	}
	return pages, nil
}

// extractPage builds both content views for one page. The positioned row
// view comes from GetTextByRow; when that fails, plain text still gives
// the line tier something to work with.
func extractPage(page pdf.Page, pageNum int) (bom.Page, bool) {
	defer func() {
		// The underlying library panics on some malformed content
		// streams; a bad page is skipped like any other failed page.
		_ = recover()
	}()

	rows, err := page.GetTextByRow()
	if err == nil && len(rows) > 0 {
		content := bom.Page{Number: pageNum}
		for _, row := range rows {
			cells := groupRow(row.Content)
			if len(cells) == 0 {
				continue
			}
			content.Rows = append(content.Rows, cells)
			content.Lines = append(content.Lines, joinCells(cells))
		}
		if len(content.Lines) > 0 {
			return content, true
		}
	}

	text, err := page.GetPlainText(nil)
	if err != nil || strings.TrimSpace(text) == "" {
		return bom.Page{}, false
	}

	content := bom.Page{Number: pageNum}
	for _, line := range strings.Split(text, "\n") {
		if line = strings.TrimSpace(line); line != "" {
			content.Lines = append(content.Lines, line)
		}
	}
	return content, len(content.Lines) > 0
}

// groupRow folds x-sorted text fragments into cells. Fragments separated
// by less than wordGapPt are one word, up to cellGapPt one cell, beyond
// that a new cell.
func groupRow(fragments []pdf.Text) []bom.Cell {
	var cells []bom.Cell
	var b strings.Builder
	var cellX, lastEnd float64

	flush := func() {
		text := strings.TrimSpace(b.String())
		if text != "" {
			cells = append(cells, bom.Cell{Text: text, X: cellX})
		}
		b.Reset()
	}

	for _, frag := range fragments {
		if frag.S == "" {
			continue
		}
		if b.Len() == 0 {
			cellX = frag.X
		} else {
			gap := frag.X - lastEnd
			switch {
			case gap > cellGapPt:
				flush()
				cellX = frag.X
			case gap > wordGapPt:
				b.WriteByte(' ')
			}
		}
		b.WriteString(frag.S)
		if end := frag.X + frag.W; end > lastEnd {
			lastEnd = end
		}
	}
	flush()
	return cells
}

func joinCells(cells []bom.Cell) string {
	parts := make([]string, len(cells))
	for i, c := range cells {
		parts[i] = c.Text
	}
	return strings.Join(parts, " ")
}
