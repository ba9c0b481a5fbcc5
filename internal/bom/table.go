package bom

import (
	"math"
	"regexp"
	"strconv"
	"strings"
)

var digitRun = regexp.MustCompile(`[0-9]+`)

// tableColumns is the outcome of fuzzy header matching: cell indices of
// the description, on-hand quantity and (optional) material columns in
// the header row.
type tableColumns struct {
	headerRow int
	desc      int
	qty       int
	material  int // -1 when the table has no material column
	header    []Cell
}

// parseTable runs the table tier over one page's positioned rows. ok
// reports whether a usable table (description plus on-hand quantity
// columns) was located; when false the caller falls back to the line tier.
func (p *Parser) parseTable(rows [][]Cell) (items []ItemRecord, ok bool) {
	cols, found := p.findHeader(rows)
	if !found {
		return nil, false
	}

	for _, row := range rows[cols.headerRow+1:] {
		rec, valid := p.recordFromRow(row, cols)
		if valid {
			items = append(items, rec)
		}
	}
	return items, true
}

// findHeader scans rows for one whose cells match the description and
// quantity synonym sets. Matching is fuzzy: cells are uppercased,
// whitespace-collapsed and compared by containment, so "OH QTY", "OH
// QTY." and "ON HAND QTY" all hit the quantity column.
func (p *Parser) findHeader(rows [][]Cell) (tableColumns, bool) {
	for i, row := range rows {
		cols := tableColumns{headerRow: i, desc: -1, qty: -1, material: -1, header: row}
		for j, cell := range row {
			name := collapseSpaces(strings.ToUpper(cell.Text))
			switch {
			case cols.desc < 0 && matchesAny(name, p.cfg.DescriptionSynonyms):
				cols.desc = j
			case cols.qty < 0 && matchesAny(name, p.cfg.QuantitySynonyms):
				cols.qty = j
			case cols.material < 0 && matchesAny(name, p.cfg.MaterialSynonyms):
				cols.material = j
			}
		}
		if cols.desc >= 0 && cols.qty >= 0 {
			return cols, true
		}
	}
	return tableColumns{}, false
}

func matchesAny(name string, synonyms []string) bool {
	for _, s := range synonyms {
		if strings.Contains(name, s) {
			return true
		}
	}
	return false
}

// recordFromRow maps one data row onto the header columns and applies the
// record-level sanity checks. Rows failing a check are dropped locally;
// a bad row never aborts the page.
func (p *Parser) recordFromRow(row []Cell, cols tableColumns) (ItemRecord, bool) {
	descCell, ok := pickCell(row, cols.header, cols.desc)
	if !ok {
		return ItemRecord{}, false
	}
	qtyCell, ok := pickCell(row, cols.header, cols.qty)
	if !ok || qtyCell == descCell {
		return ItemRecord{}, false
	}

	desc := collapseSpaces(row[descCell].Text)
	if desc == "" {
		return ItemRecord{}, false
	}

	qty, ok := coerceQuantity(row[qtyCell].Text, p.cfg.MaxQuantity)
	if !ok || qty < 1 {
		return ItemRecord{}, false
	}

	stock := ""
	if cols.material >= 0 {
		if matCell, found := pickCell(row, cols.header, cols.material); found && matCell != descCell {
			stock = digitsOnly(row[matCell].Text)
		}
	}
	if stock == "" {
		stock, desc = p.extractEmbeddedStock(desc)
	}
	if desc == "" {
		return ItemRecord{}, false
	}

	return ItemRecord{Description: desc, StockNumber: stock, Quantity: qty}, true
}

// pickCell selects the data cell belonging to header column col. When the
// row has the same arity as the header, positional indexing is exact;
// otherwise the cell nearest the header cell's x position wins.
func pickCell(row, header []Cell, col int) (int, bool) {
	if len(row) == 0 || col < 0 || col >= len(header) {
		return 0, false
	}
	if len(row) == len(header) {
		return col, true
	}

	want := header[col].X
	best, bestDist := -1, math.MaxFloat64
	for i, cell := range row {
		if d := math.Abs(cell.X - want); d < bestDist {
			best, bestDist = i, d
		}
	}
	if best < 0 {
		return 0, false
	}
	return best, true
}

// extractEmbeddedStock opportunistically recovers a stock number embedded
// in the description text (a bare 9-10 digit NSN run) and removes it from
// the description.
func (p *Parser) extractEmbeddedStock(desc string) (stock, cleaned string) {
	for _, loc := range digitRun.FindAllStringIndex(desc, -1) {
		n := loc[1] - loc[0]
		if n < p.cfg.EmbeddedStockMinDigits || n > p.cfg.EmbeddedStockMaxDigits {
			continue
		}
		stock = desc[loc[0]:loc[1]]
		cleaned = collapseSpaces(desc[:loc[0]] + " " + desc[loc[1]:])
		cleaned = strings.Trim(cleaned, " ,")
		return stock, cleaned
	}
	return "", desc
}

// coerceQuantity strips non-digit characters and parses the remainder.
// ok is false for empty, unparseable or out-of-bound values; a bound of
// maxQty guards against stock numbers misread as quantities.
func coerceQuantity(s string, maxQty int) (int, bool) {
	digits := digitsOnly(s)
	if digits == "" {
		return 0, false
	}
	qty, err := strconv.Atoi(digits)
	if err != nil || qty > maxQty {
		return 0, false
	}
	return qty, true
}

func digitsOnly(s string) string {
	var b strings.Builder
	for _, r := range s {
		if r >= '0' && r <= '9' {
			b.WriteRune(r)
		}
	}
	return b.String()
}
