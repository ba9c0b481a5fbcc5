// Package bom parses extracted Bill-of-Materials content into packing-list
// item records. It consumes extraction-neutral page content (plain lines
// plus positioned cell rows) so that the PDF library feeding it stays
// swappable.
package bom

// ItemRecord is one BOM line item destined for one packing-list row.
// Every record emitted by the parser has a non-empty description and a
// quantity of at least 1. StockNumber is digits-only and may be empty when
// no NSN or serial number could be recovered.
type ItemRecord struct {
	Description string `json:"description"`
	StockNumber string `json:"stock_number,omitempty"`
	Quantity    int    `json:"quantity"`
}

// Cell is a horizontally positioned fragment of extracted page text. The X
// coordinate lets the table tier line data cells up with header columns.
type Cell struct {
	Text string
	X    float64
}

// Page carries the extracted content of one source page. Lines is the
// trimmed plain-text view used by the line tier; Rows is the positioned
// view used by the table tier. Either may be empty.
type Page struct {
	Number int
	Lines  []string
	Rows   [][]Cell
}

// Config holds the heuristic tuning for the parser. The zero value is not
// usable; start from DefaultConfig. Prior near-duplicate parser variants
// differed only in these values, so they are data here, not code paths.
type Config struct {
	// MaxQuantity bounds an accepted on-hand quantity. Tokens above the
	// bound are extraction garbage (typically a stock number misread as a
	// quantity) and are rejected rather than clamped.
	MaxQuantity int

	// StockMinDigits/StockMaxDigits bound a standalone digit-only line
	// accepted as a stock number by the line tier.
	StockMinDigits int
	StockMaxDigits int

	// EmbeddedStockMinDigits/EmbeddedStockMaxDigits bound the digit run
	// recovered out of a description when no material column exists.
	EmbeddedStockMinDigits int
	EmbeddedStockMaxDigits int

	// MinDescriptionLen is the shortest line the line tier will accept as
	// a description.
	MinDescriptionLen int

	// NoiseTokens are substrings that mark a line as header/footer noise.
	NoiseTokens []string

	// BareNoiseTokens are column-header words that only count as noise
	// when the whole line equals one of them.
	BareNoiseTokens []string

	// QuantityIndicators are tokens whose presence marks a line as a
	// quantity/unit-of-issue line in the line tier.
	QuantityIndicators []string

	// StripPrefixes are boilerplate description prefixes removed on
	// capture.
	StripPrefixes []string

	// DescriptionSynonyms, QuantitySynonyms and MaterialSynonyms locate
	// header columns in the table tier.
	DescriptionSynonyms []string
	QuantitySynonyms    []string
	MaterialSynonyms    []string
}

// DefaultConfig returns the canonical tuning. The quantity bound is 500
// and the embedded stock scan wants 9-10 digits (NSN shape); both were
// carried over from the most recent hand-tuned variant.
func DefaultConfig() Config {
	return Config{
		MaxQuantity:            500,
		StockMinDigits:         7,
		StockMaxDigits:         12,
		EmbeddedStockMinDigits: 9,
		EmbeddedStockMaxDigits: 10,
		MinDescriptionLen:      4,
		NoiseTokens: []string{
			"COMPONENT LISTING",
			"HAND RECEIPT",
			"AUTH QTY",
			"OH QTY",
			"DESCRIPTION",
		},
		BareNoiseTokens: []string{
			"WTY", "ARC", "CIIC", "UI", "SCMC", "LV", "QTY",
		},
		QuantityIndicators: []string{
			"X", "U", "EA", "AY", "9G", "SCMC", "CIIC",
		},
		StripPrefixes: []string{"BII-", "COEI-"},
		DescriptionSynonyms: []string{
			"DESCRIPTION", "NOMENCLATURE", "ITEM DESCRIPTION",
		},
		QuantitySynonyms: []string{
			"OH QTY", "ON HAND", "ONHAND", "OH",
		},
		MaterialSynonyms: []string{
			"MATERIAL", "NSN", "STOCK NUMBER", "STOCK NO", "SERIAL",
		},
	}
}
