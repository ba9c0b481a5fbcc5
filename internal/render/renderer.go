package render

import (
	"fmt"
	"io"
	"strconv"

	"github.com/jung-kurt/gofpdf"
	"github.com/jung-kurt/gofpdf/contrib/gofpdi"

	"github.com/packlab/dd1750/internal/bom"
)

// BoxedItem pairs an item with its sequential 1-based box number, assigned
// across the whole deduplicated list before pagination.
type BoxedItem struct {
	Box  int
	Item bom.ItemRecord
}

// Paginate assigns box numbers and slices the items into per-page row
// groups according to the profile's vertical bounds. Exposed separately
// from drawing so the pagination contract is testable without a canvas.
func Paginate(items []bom.ItemRecord, p Profile) [][]BoxedItem {
	perPage := p.RowsPerPage()
	var pages [][]BoxedItem
	var page []BoxedItem

	for i, item := range items {
		if len(page) == perPage {
			pages = append(pages, page)
			page = nil
		}
		page = append(page, BoxedItem{Box: i + 1, Item: item})
	}
	if len(page) > 0 {
		pages = append(pages, page)
	}
	return pages
}

// Renderer draws packing-list overlays for one template profile.
type Renderer struct {
	profile Profile
}

// NewRenderer creates a renderer for the given profile.
func NewRenderer(profile Profile) *Renderer {
	return &Renderer{profile: profile}
}

// PageCount reports how many output pages the items will occupy.
func (r *Renderer) PageCount(items []bom.ItemRecord) int {
	return len(Paginate(items, r.profile))
}

// Render writes the filled packing list to w. The template's first page
// is imported once and stamped under every overlay page, so each output
// page is a fresh copy of the base design; the template itself is never
// modified. An empty templatePath renders the overlay on blank pages,
// which is useful for previewing row placement.
func (r *Renderer) Render(items []bom.ItemRecord, templatePath string, w io.Writer) (err error) {
	if len(items) == 0 {
		return fmt.Errorf("no items to render")
	}

	// The page importer panics on unreadable templates instead of
	// returning an error; surface that as a normal failure.
	defer func() {
		if rec := recover(); rec != nil {
			err = fmt.Errorf("importing template %s: %v", templatePath, rec)
		}
	}()

	p := r.profile
	pdf := gofpdf.New("P", "pt", "Letter", "")
	pdf.SetAutoPageBreak(false, 0)

	var imp *gofpdi.Importer
	var tplID int
	tplW, tplH := p.PageWidthPt, p.PageHeightPt
	if templatePath != "" {
		imp = gofpdi.NewImporter()
		tplID = imp.ImportPage(pdf, templatePath, 1, "/MediaBox")
		if sizes := imp.GetPageSizes(); sizes != nil {
			if mb, ok := sizes[1]["/MediaBox"]; ok && mb["w"] > 0 && mb["h"] > 0 {
				tplW, tplH = mb["w"], mb["h"]
			}
		}
	}

	for _, page := range Paginate(items, p) {
		pdf.AddPageFormat("P", gofpdf.SizeType{Wd: p.PageWidthPt, Ht: p.PageHeightPt})
		if imp != nil {
			imp.UseImportedTemplate(pdf, tplID, 0, 0, tplW, tplH)
		}

		y := p.TopY
		for _, row := range page {
			r.drawRow(pdf, row, y)
			y -= p.RowHeight
		}
	}

	if err := pdf.Error(); err != nil {
		return fmt.Errorf("drawing overlay: %w", err)
	}
	return pdf.Output(w)
}

// drawRow draws one packing-list row with its baseline y points above the
// bottom edge.
func (r *Renderer) drawRow(pdf *gofpdf.Fpdf, row BoxedItem, y float64) {
	p := r.profile
	top := p.PageHeightPt - y // gofpdf's y axis runs top-down

	r.drawCentered(pdf, p.BoxCenterX, top, strconv.Itoa(row.Box), p.QtyFontSize)

	pdf.SetFont(p.FontFamily, "", p.DescFontSize)
	lines := wrapDescription(row.Item.Description, p.DescWrapChars, p.MaxDescLines)
	pdf.Text(p.DescLeftX, top, lines[0])
	if len(lines) > 1 {
		pdf.Text(p.DescLeftX, top+p.DescLineGap, lines[1])
	}

	if row.Item.StockNumber != "" {
		pdf.SetFont(p.FontFamily, "", p.StockFontSize)
		pdf.Text(p.DescLeftX, top+p.StockOffset, p.StockLabel+": "+row.Item.StockNumber)
	}

	qty := strconv.Itoa(row.Item.Quantity)
	r.drawCentered(pdf, p.UnitCenterX, top, p.UnitOfIssue, p.QtyFontSize)
	r.drawCentered(pdf, p.InitialCenterX, top, qty, p.QtyFontSize)
	r.drawCentered(pdf, p.SparesCenterX, top, "0", p.QtyFontSize)
	r.drawCentered(pdf, p.TotalCenterX, top, qty, p.QtyFontSize)
}

func (r *Renderer) drawCentered(pdf *gofpdf.Fpdf, x, y float64, text string, size float64) {
	pdf.SetFont(r.profile.FontFamily, "", size)
	pdf.Text(x-pdf.GetStringWidth(text)/2, y, text)
}
