package bom

import "errors"

// ErrNoRecords reports that no valid item could be recovered from any
// page. This is a user-correctable condition (commonly a scanned BOM with
// no extractable text), not a parser fault; callers should suggest OCR or
// a different export rather than treating it as a crash.
var ErrNoRecords = errors.New("no parseable items found in document")

// Parser converts extracted page content into packing-list item records.
// It is stateless across calls and safe to reuse.
type Parser struct {
	cfg Config
}

// NewParser creates a parser with the given heuristic configuration.
func NewParser(cfg Config) *Parser {
	return &Parser{cfg: cfg}
}

// Parse processes pages in order. Each page goes through the table tier
// first; when no usable table is present the line tier takes over. The
// combined result is deduplicated, and ErrNoRecords is returned when the
// whole document produced nothing.
//
// Record-level defects (bad quantity token, missing field) are dropped
// where they occur and never surface as errors.
func (p *Parser) Parse(pages []Page) ([]ItemRecord, error) {
	var items []ItemRecord
	for _, page := range pages {
		if recs, ok := p.parseTable(page.Rows); ok {
			items = append(items, recs...)
			continue
		}
		items = append(items, p.parseLines(page.Lines)...)
	}

	items = dedupe(items)
	if len(items) == 0 {
		return nil, ErrNoRecords
	}
	return items, nil
}
