// Package generate orchestrates the BOM-to-DD1750 conversion: validate
// the input documents, extract the BOM text, parse it into item records
// and render the filled packing list.
package generate

import (
	"bytes"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/packlab/dd1750/internal/bom"
	"github.com/packlab/dd1750/internal/config"
	"github.com/packlab/dd1750/internal/pdfdoc"
	"github.com/packlab/dd1750/internal/render"
)

// Validator checks that a path points to a readable, well-formed PDF.
type Validator interface {
	ValidateFile(path string) (int, error)
}

// Extractor pulls per-page text out of a BOM PDF.
type Extractor interface {
	Pages(path string, startPage int) ([]bom.Page, error)
}

// Renderer draws the packing-list overlay for a list of items.
type Renderer interface {
	Render(items []bom.ItemRecord, templatePath string, w io.Writer) error
	PageCount(items []bom.ItemRecord) int
}

// GenerateRequest describes one conversion.
type GenerateRequest struct {
	BOMPath      string
	TemplatePath string
	OutputPath   string

	// StartPage is the 0-based BOM page to start parsing at.
	StartPage int

	// StockLabel overrides the configured stock-number label when set.
	StockLabel string
}

// GenerateResult reports what a conversion produced.
type GenerateResult struct {
	Items      []bom.ItemRecord
	PageCount  int
	OutputPath string
}

// PreviewRequest describes a parse-only run against a BOM document.
type PreviewRequest struct {
	BOMPath   string
	StartPage int
}

// PreviewResult reports what the parser found without rendering output.
type PreviewResult struct {
	Items     []bom.ItemRecord
	PageCount int
}

// Service wires the conversion pipeline together.
type Service struct {
	validator Validator
	extractor Extractor
	parser    *bom.Parser
	profile   render.Profile

	// newRenderer builds a renderer for the per-request profile.
	newRenderer func(render.Profile) Renderer
}

// NewService creates a conversion service from the configuration.
func NewService(cfg *config.Config) (*Service, error) {
	profile, err := render.Lookup(cfg.Profile)
	if err != nil {
		return nil, fmt.Errorf("resolving template profile: %w", err)
	}
	profile = profile.WithStockLabel(cfg.StockLabel)

	return &Service{
		validator: pdfdoc.NewValidator(cfg.MaxFileSize),
		extractor: pdfdoc.NewExtractor(),
		parser:    bom.NewParser(bom.DefaultConfig()),
		profile:   profile,
		newRenderer: func(p render.Profile) Renderer {
			return render.NewRenderer(p)
		},
	}, nil
}

// Generate runs the full conversion and writes the filled packing list
// to the requested output path. The output file is only written after
// the whole document has rendered, so a failed run never leaves a
// partial PDF behind.
func (s *Service) Generate(req GenerateRequest) (*GenerateResult, error) {
	if req.BOMPath == "" || req.TemplatePath == "" {
		return nil, ErrMissingInput
	}
	if req.OutputPath == "" {
		return nil, fmt.Errorf("output path is required")
	}

	// The BOM is the user's primary input; check it first so a request
	// with two bad paths reports the more actionable error.
	if _, err := s.validator.ValidateFile(req.BOMPath); err != nil {
		return nil, fmt.Errorf("reading BOM document: %w", err)
	}
	if _, err := s.validator.ValidateFile(req.TemplatePath); err != nil {
		return nil, fmt.Errorf("reading template document: %w", err)
	}

	items, err := s.extractAndParse(req.BOMPath, req.StartPage)
	if err != nil {
		return nil, err
	}

	renderer := s.newRenderer(s.profile.WithStockLabel(req.StockLabel))

	var buf bytes.Buffer
	if err := renderer.Render(items, req.TemplatePath, &buf); err != nil {
		return nil, fmt.Errorf("rendering packing list: %w", err)
	}

	if err := writeOutput(req.OutputPath, buf.Bytes()); err != nil {
		return nil, err
	}

	return &GenerateResult{
		Items:      items,
		PageCount:  renderer.PageCount(items),
		OutputPath: req.OutputPath,
	}, nil
}

// Preview parses the BOM and reports the items and how many output
// pages they would occupy, without touching the template or writing
// anything.
func (s *Service) Preview(req PreviewRequest) (*PreviewResult, error) {
	if req.BOMPath == "" {
		return nil, ErrMissingInput
	}

	if _, err := s.validator.ValidateFile(req.BOMPath); err != nil {
		return nil, fmt.Errorf("reading BOM document: %w", err)
	}

	items, err := s.extractAndParse(req.BOMPath, req.StartPage)
	if err != nil {
		return nil, err
	}

	return &PreviewResult{
		Items:     items,
		PageCount: s.newRenderer(s.profile).PageCount(items),
	}, nil
}

// extractAndParse pulls the BOM's page text and runs the item parser.
// The document itself must already be validated.
func (s *Service) extractAndParse(bomPath string, startPage int) ([]bom.ItemRecord, error) {
	pages, err := s.extractor.Pages(bomPath, startPage)
	if err != nil {
		return nil, fmt.Errorf("extracting BOM text: %w", err)
	}

	items, err := s.parser.Parse(pages)
	if err != nil {
		// A BOM with no extractable records is usually a scanned image.
		return nil, fmt.Errorf("%w (if the BOM is a scan, OCR it or export a text-based PDF)", err)
	}
	return items, nil
}

// writeOutput lands data at path through a temp file in the same
// directory, renaming into place only after the whole document is on
// disk. A failure part-way leaves no file at path, and a pre-existing
// file there stays untouched.
func writeOutput(path string, data []byte) error {
	tmp, err := os.CreateTemp(filepath.Dir(path), ".dd1750-*.pdf")
	if err != nil {
		return fmt.Errorf("creating output file: %w", err)
	}
	tmpName := tmp.Name()

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		os.Remove(tmpName)
		return fmt.Errorf("writing output: %w", err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("writing output: %w", err)
	}

	if err := os.Chmod(tmpName, 0o644); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("writing output: %w", err)
	}
	if err := os.Rename(tmpName, path); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("moving output into place: %w", err)
	}
	return nil
}
