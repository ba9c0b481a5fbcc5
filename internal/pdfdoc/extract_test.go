package pdfdoc

import (
	"reflect"
	"testing"

	"github.com/ledongthuc/pdf"

	"github.com/packlab/dd1750/internal/bom"
)

func frag(s string, x, w float64) pdf.Text {
	return pdf.Text{S: s, X: x, W: w}
}

func TestGroupRow(t *testing.T) {
	tests := []struct {
		name      string
		fragments []pdf.Text
		want      []bom.Cell
	}{
		{
			name:      "empty row",
			fragments: nil,
			want:      nil,
		},
		{
			name: "adjacent fragments form one word",
			fragments: []pdf.Text{
				frag("CAB", 10, 15),
				frag("LE", 25.5, 10),
			},
			want: []bom.Cell{{Text: "CABLE", X: 10}},
		},
		{
			name: "word gap inserts a space",
			fragments: []pdf.Text{
				frag("CABLE", 10, 25),
				frag("ASSEMBLY", 40, 40),
			},
			want: []bom.Cell{{Text: "CABLE ASSEMBLY", X: 10}},
		},
		{
			name: "column gap starts a new cell",
			fragments: []pdf.Text{
				frag("CABLE", 110, 25),
				frag("ASSEMBLY", 140, 40),
				frag("4", 400, 5),
			},
			want: []bom.Cell{
				{Text: "CABLE ASSEMBLY", X: 110},
				{Text: "4", X: 400},
			},
		},
		{
			name: "blank fragments skipped",
			fragments: []pdf.Text{
				frag("", 10, 0),
				frag("EA", 50, 10),
			},
			want: []bom.Cell{{Text: "EA", X: 50}},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := groupRow(tt.fragments)
			if !reflect.DeepEqual(got, tt.want) {
				t.Errorf("groupRow() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestJoinCells(t *testing.T) {
	cells := []bom.Cell{
		{Text: "B", X: 10},
		{Text: "BASE ASSEMBLY", X: 110},
		{Text: "4", X: 400},
	}
	if got := joinCells(cells); got != "B BASE ASSEMBLY 4" {
		t.Errorf("joinCells() = %q", got)
	}
}

func TestValidateFile_BasicChecks(t *testing.T) {
	v := NewValidator(1024)

	tests := []struct {
		name string
		path string
	}{
		{"empty path", ""},
		{"missing file", "/nonexistent/bom.pdf"},
		{"wrong extension", "/etc/hostname"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := v.ValidateFile(tt.path); err == nil {
				t.Errorf("ValidateFile(%q) expected error", tt.path)
			}
		})
	}
}
