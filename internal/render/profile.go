// Package render lays parsed BOM items out as a DD1750 packing list:
// a paginated overlay drawn against a named template profile and
// composited over the blank form's first page.
package render

import "fmt"

// Profile is the hand-tuned geometry of one template variant. Vertical
// positions are baselines measured from the bottom edge of the page, the
// frame the original constants were tuned in; the renderer converts to
// the canvas' top-down axis when drawing.
//
// New template variants are added as new profiles, not new code.
type Profile struct {
	Name string

	PageWidthPt  float64
	PageHeightPt float64

	RowHeight float64
	TopY      float64
	BottomY   float64

	// DescBlockDepth is the headroom a row needs below its baseline for
	// the second description line and the stock sub-line. A row that
	// cannot fit BottomY+DescBlockDepth starts a new page.
	DescBlockDepth float64

	BoxCenterX     float64
	DescLeftX      float64
	UnitCenterX    float64
	InitialCenterX float64
	SparesCenterX  float64
	TotalCenterX   float64

	FontFamily    string
	DescFontSize  float64
	StockFontSize float64
	QtyFontSize   float64

	// DescLineGap separates the two description lines; StockOffset drops
	// the labeled stock sub-line below the first line's baseline.
	DescLineGap float64
	StockOffset float64

	DescWrapChars int
	MaxDescLines  int

	// StockLabel prefixes the stock sub-line: "NSN" for stock-numbered
	// items, "SN" for serial-numbered sets.
	StockLabel string

	// UnitOfIssue is fixed; this tool only ever issues "each".
	UnitOfIssue string
}

// DD1750 returns the canonical profile for the flat DD1750 template.
func DD1750() Profile {
	return Profile{
		Name: "dd1750",

		PageWidthPt:  612,
		PageHeightPt: 792,

		RowHeight:      19,
		TopY:           655, // below the unit/date header block
		BottomY:        110, // above the signature block
		DescBlockDepth: 28,

		BoxCenterX:     70,
		DescLeftX:      110,
		UnitCenterX:    348,
		InitialCenterX: 405,
		SparesCenterX:  468,
		TotalCenterX:   526,

		FontFamily:    "Helvetica",
		DescFontSize:  9,
		StockFontSize: 8,
		QtyFontSize:   10,

		DescLineGap: 9,
		StockOffset: 18,

		DescWrapChars: 56,
		MaxDescLines:  2,

		StockLabel:  "NSN",
		UnitOfIssue: "EA",
	}
}

// Profiles returns the known template profiles by name.
func Profiles() map[string]Profile {
	return map[string]Profile{
		"dd1750": DD1750(),
	}
}

// Lookup resolves a profile name.
func Lookup(name string) (Profile, error) {
	p, ok := Profiles()[name]
	if !ok {
		return Profile{}, fmt.Errorf("unknown template profile: %s", name)
	}
	return p, nil
}

// WithStockLabel returns a copy of the profile using the given
// stock-number label ("NSN" or "SN").
func (p Profile) WithStockLabel(label string) Profile {
	if label != "" {
		p.StockLabel = label
	}
	return p
}

// RowsPerPage derives how many rows fit between the vertical bounds.
func (p Profile) RowsPerPage() int {
	usable := p.TopY - (p.BottomY + p.DescBlockDepth)
	if usable < 0 {
		return 1
	}
	return int(usable/p.RowHeight) + 1
}
