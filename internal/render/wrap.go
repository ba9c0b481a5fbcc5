package render

import "strings"

// normalizeForWrap makes comma-joined tokens wrappable by guaranteeing a
// space after every comma: "CABLE,ASSEMBLY" becomes "CABLE, ASSEMBLY".
// Extracted BOM text frequently loses these spaces.
func normalizeForWrap(s string) string {
	s = strings.ReplaceAll(s, ", ", ",")
	s = strings.ReplaceAll(s, ",", ", ")
	return strings.TrimSpace(s)
}

// wrapText greedily wraps words to the given character width. Words
// longer than the width are broken rather than overflowing the column.
func wrapText(s string, width int) []string {
	if width < 1 {
		width = 1
	}

	var lines []string
	line := ""
	for _, word := range strings.Fields(s) {
		for {
			if line == "" {
				if len(word) <= width {
					line = word
					break
				}
				lines = append(lines, word[:width])
				word = word[width:]
				continue
			}
			if len(line)+1+len(word) <= width {
				line += " " + word
				break
			}
			lines = append(lines, line)
			line = ""
		}
	}
	if line != "" {
		lines = append(lines, line)
	}
	return lines
}

// wrapDescription produces at most maxLines rendered lines for a
// description. When the text needs more, the last kept line is hard
// truncated and suffixed with "..." so the row never bleeds into its
// neighbors.
func wrapDescription(desc string, width, maxLines int) []string {
	lines := wrapText(normalizeForWrap(desc), width)
	if len(lines) == 0 {
		return []string{""}
	}
	if len(lines) <= maxLines {
		return lines
	}

	lines = lines[:maxLines]
	last := lines[maxLines-1]
	if len(last) > 3 {
		lines[maxLines-1] = last[:len(last)-3] + "..."
	}
	return lines
}
