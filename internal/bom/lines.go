package bom

import (
	"strings"
	"unicode"
)

// lineState is the accumulator for the line tier. It is folded over a
// page's lines one at a time, holding at most one work-in-progress record.
// A record is emitted only once description, stock number and a positive
// quantity are all present; anything incomplete is dropped silently.
type lineState struct {
	cfg Config

	desc  string
	stock string
	qty   int

	out []ItemRecord
}

func newLineState(cfg Config) *lineState {
	return &lineState{cfg: cfg}
}

// parseLines runs the line tier over a page. Pages that never mention an
// on-hand quantity column are not BOM tables and yield nothing.
func (p *Parser) parseLines(lines []string) []ItemRecord {
	if !looksLikeBOMPage(lines) {
		return nil
	}

	st := newLineState(p.cfg)
	for _, line := range lines {
		st.step(line)
	}
	return st.out
}

// looksLikeBOMPage reports whether any line carries both "OH" and "QTY"
// tokens, the header signature of an on-hand quantity column.
func looksLikeBOMPage(lines []string) bool {
	for _, line := range lines {
		u := strings.ToUpper(line)
		if strings.Contains(u, "OH") && strings.Contains(u, "QTY") {
			return true
		}
	}
	return false
}

// step advances the state machine by one line. Roles are tried in order:
// noise, LV marker, standalone stock number, quantity line, description.
func (s *lineState) step(line string) {
	line = strings.TrimSpace(line)
	if line == "" {
		return
	}
	upper := strings.ToUpper(line)

	if s.isNoise(upper) {
		return
	}

	// A lone level marker (the LV column value) separates items; flush
	// whatever is complete and start over.
	if isSingleLetter(line) {
		s.tryFlush()
		s.reset()
		return
	}

	if s.captureStock(line) {
		return
	}

	if s.captureQuantity(upper) {
		return
	}

	s.captureDescription(line, upper)
}

func (s *lineState) isNoise(upper string) bool {
	for _, tok := range s.cfg.NoiseTokens {
		if strings.Contains(upper, tok) {
			return true
		}
	}
	for _, tok := range s.cfg.BareNoiseTokens {
		if upper == tok {
			return true
		}
	}
	return false
}

// captureStock accepts a digit-only line of plausible stock-number length.
func (s *lineState) captureStock(line string) bool {
	if !isAllDigits(line) {
		return false
	}
	if len(line) < s.cfg.StockMinDigits || len(line) > s.cfg.StockMaxDigits {
		return false
	}
	s.stock = line
	s.tryFlush()
	return true
}

// captureQuantity handles lines carrying unit-of-issue or supply-code
// indicator tokens; the trailing integer token is the on-hand quantity.
// An out-of-bound trailing number is extraction garbage: the capture is
// rejected and the record stays incomplete.
func (s *lineState) captureQuantity(upper string) bool {
	fields := strings.Fields(upper)
	if len(fields) < 2 || !s.hasIndicator(fields) {
		return false
	}

	last := fields[len(fields)-1]
	if !isAllDigits(last) {
		return false
	}
	qty, ok := coerceQuantity(last, s.cfg.MaxQuantity)
	if !ok {
		return true // indicator line, but the number is garbage
	}
	if qty == 0 {
		// Zero on hand: nothing to pack, discard the item.
		s.reset()
		return true
	}

	s.qty = qty
	s.tryFlush()
	return true
}

func (s *lineState) hasIndicator(fields []string) bool {
	for _, f := range fields {
		for _, ind := range s.cfg.QuantityIndicators {
			if f == ind {
				return true
			}
		}
	}
	return false
}

// captureDescription takes the first sufficiently long line as the item
// description, stripping known boilerplate prefixes.
func (s *lineState) captureDescription(line, upper string) {
	if s.desc != "" || len(line) < s.cfg.MinDescriptionLen {
		return
	}

	cleaned := line
	for _, prefix := range s.cfg.StripPrefixes {
		if strings.HasPrefix(upper, prefix) {
			rest := strings.Fields(cleaned)
			if len(rest) > 1 {
				cleaned = strings.Join(rest[1:], " ")
			}
			break
		}
	}
	s.desc = collapseSpaces(cleaned)
}

// tryFlush emits the in-progress record once description, stock number
// and a positive quantity are all present. Until then the accumulator is
// left alone so later lines can fill in the missing fields.
func (s *lineState) tryFlush() {
	if s.desc == "" || s.stock == "" || s.qty < 1 {
		return
	}
	s.out = append(s.out, ItemRecord{
		Description: s.desc,
		StockNumber: s.stock,
		Quantity:    s.qty,
	})
	s.reset()
}

func (s *lineState) reset() {
	s.desc = ""
	s.stock = ""
	s.qty = 0
}

func isSingleLetter(line string) bool {
	if len(line) != 1 {
		return false
	}
	return unicode.IsLetter(rune(line[0]))
}

func isAllDigits(s string) bool {
	if s == "" {
		return false
	}
	for _, r := range s {
		if r < '0' || r > '9' {
			return false
		}
	}
	return true
}

func collapseSpaces(s string) string {
	return strings.Join(strings.Fields(s), " ")
}
