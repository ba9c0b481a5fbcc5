package bom

import "strings"

type dedupeKey struct {
	desc  string
	stock string
}

// dedupe collapses records sharing an (uppercased description, stock
// number) key. The larger quantity wins a collision; output keeps the
// first-seen order, so per-page sequencing survives deduplication.
func dedupe(items []ItemRecord) []ItemRecord {
	out := make([]ItemRecord, 0, len(items))
	index := make(map[dedupeKey]int, len(items))

	for _, item := range items {
		key := dedupeKey{desc: strings.ToUpper(item.Description), stock: item.StockNumber}
		if i, seen := index[key]; seen {
			if item.Quantity > out[i].Quantity {
				out[i].Quantity = item.Quantity
			}
			continue
		}
		index[key] = len(out)
		out = append(out, item)
	}
	return out
}
