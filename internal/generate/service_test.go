package generate

import (
	"errors"
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/packlab/dd1750/internal/bom"
	"github.com/packlab/dd1750/internal/config"
	"github.com/packlab/dd1750/internal/render"
)

type fakeValidator struct {
	fail map[string]bool
}

func (f *fakeValidator) ValidateFile(path string) (int, error) {
	if f.fail[path] {
		return 0, errors.New("file is corrupted")
	}
	return 1, nil
}

type fakeExtractor struct {
	pages []bom.Page
	err   error

	gotStartPage int
}

func (f *fakeExtractor) Pages(path string, startPage int) ([]bom.Page, error) {
	f.gotStartPage = startPage
	return f.pages, f.err
}

type fakeRenderer struct {
	profile render.Profile
	fail    bool
}

func (f *fakeRenderer) Render(items []bom.ItemRecord, templatePath string, w io.Writer) error {
	if f.fail {
		return errors.New("canvas error")
	}
	_, err := w.Write([]byte("%PDF-1.4 fake"))
	return err
}

func (f *fakeRenderer) PageCount(items []bom.ItemRecord) int {
	if len(items) == 0 {
		return 0
	}
	return (len(items)-1)/f.profile.RowsPerPage() + 1
}

// bomPage returns one extracted page holding a single complete record.
func bomPage() bom.Page {
	return bom.Page{
		Number: 1,
		Lines: []string{
			"COMPONENT LISTING OH QTY",
			"CABLE ASSEMBLY, SPECIAL PURPOSE",
			"0123456789",
			"X U EA 9G 3",
		},
	}
}

func newTestService(validator Validator, extractor Extractor, renderer Renderer) *Service {
	return &Service{
		validator: validator,
		extractor: extractor,
		parser:    bom.NewParser(bom.DefaultConfig()),
		profile:   render.DD1750(),
		newRenderer: func(p render.Profile) Renderer {
			if fr, ok := renderer.(*fakeRenderer); ok {
				fr.profile = p
			}
			return renderer
		},
	}
}

func TestGenerate(t *testing.T) {
	out := filepath.Join(t.TempDir(), "filled.pdf")
	svc := newTestService(
		&fakeValidator{},
		&fakeExtractor{pages: []bom.Page{bomPage()}},
		&fakeRenderer{},
	)

	result, err := svc.Generate(GenerateRequest{
		BOMPath:      "bom.pdf",
		TemplatePath: "dd1750.pdf",
		OutputPath:   out,
	})
	if err != nil {
		t.Fatalf("Generate() error = %v", err)
	}

	if len(result.Items) != 1 {
		t.Fatalf("got %d items, want 1", len(result.Items))
	}
	item := result.Items[0]
	if item.Description != "CABLE ASSEMBLY, SPECIAL PURPOSE" || item.StockNumber != "0123456789" || item.Quantity != 3 {
		t.Errorf("unexpected item %+v", item)
	}
	if result.PageCount != 1 {
		t.Errorf("PageCount = %d, want 1", result.PageCount)
	}
	if result.OutputPath != out {
		t.Errorf("OutputPath = %q, want %q", result.OutputPath, out)
	}

	data, err := os.ReadFile(out)
	if err != nil {
		t.Fatalf("output file not written: %v", err)
	}
	if !strings.HasPrefix(string(data), "%PDF") {
		t.Errorf("output is not a PDF: %q", data)
	}
}

func TestGenerate_MissingInput(t *testing.T) {
	svc := newTestService(&fakeValidator{}, &fakeExtractor{}, &fakeRenderer{})

	tests := []struct {
		name string
		req  GenerateRequest
	}{
		{"no BOM", GenerateRequest{TemplatePath: "dd1750.pdf", OutputPath: "out.pdf"}},
		{"no template", GenerateRequest{BOMPath: "bom.pdf", OutputPath: "out.pdf"}},
		{"neither", GenerateRequest{OutputPath: "out.pdf"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := svc.Generate(tt.req)
			if !errors.Is(err, ErrMissingInput) {
				t.Errorf("Generate() error = %v, want ErrMissingInput", err)
			}
		})
	}
}

func TestGenerate_EmptyResult(t *testing.T) {
	out := filepath.Join(t.TempDir(), "filled.pdf")
	svc := newTestService(
		&fakeValidator{},
		&fakeExtractor{pages: []bom.Page{{Number: 1, Lines: []string{"COVER SHEET", "UNIT HISTORY"}}}},
		&fakeRenderer{},
	)

	_, err := svc.Generate(GenerateRequest{BOMPath: "bom.pdf", TemplatePath: "dd1750.pdf", OutputPath: out})
	if !errors.Is(err, bom.ErrNoRecords) {
		t.Fatalf("Generate() error = %v, want ErrNoRecords", err)
	}
	if !strings.Contains(err.Error(), "OCR") {
		t.Errorf("empty-result error should mention OCR guidance, got %v", err)
	}
	if _, statErr := os.Stat(out); !os.IsNotExist(statErr) {
		t.Error("no output file may exist after a failed conversion")
	}
}

func TestGenerate_UnreadableBOM(t *testing.T) {
	svc := newTestService(
		&fakeValidator{fail: map[string]bool{"bom.pdf": true}},
		&fakeExtractor{pages: []bom.Page{bomPage()}},
		&fakeRenderer{},
	)

	_, err := svc.Generate(GenerateRequest{BOMPath: "bom.pdf", TemplatePath: "dd1750.pdf", OutputPath: "out.pdf"})
	if err == nil || !strings.Contains(err.Error(), "reading BOM document") {
		t.Errorf("Generate() error = %v, want BOM read failure", err)
	}
}

func TestGenerate_BothInputsBadReportsBOMFirst(t *testing.T) {
	svc := newTestService(
		&fakeValidator{fail: map[string]bool{"bom.pdf": true, "dd1750.pdf": true}},
		&fakeExtractor{pages: []bom.Page{bomPage()}},
		&fakeRenderer{},
	)

	_, err := svc.Generate(GenerateRequest{BOMPath: "bom.pdf", TemplatePath: "dd1750.pdf", OutputPath: "out.pdf"})
	if err == nil || !strings.Contains(err.Error(), "reading BOM document") {
		t.Errorf("Generate() error = %v, want the BOM reported before the template", err)
	}
}

func TestGenerate_UnreadableTemplate(t *testing.T) {
	svc := newTestService(
		&fakeValidator{fail: map[string]bool{"dd1750.pdf": true}},
		&fakeExtractor{pages: []bom.Page{bomPage()}},
		&fakeRenderer{},
	)

	_, err := svc.Generate(GenerateRequest{BOMPath: "bom.pdf", TemplatePath: "dd1750.pdf", OutputPath: "out.pdf"})
	if err == nil || !strings.Contains(err.Error(), "reading template document") {
		t.Errorf("Generate() error = %v, want template read failure", err)
	}
}

func TestGenerate_RenderFailureWritesNothing(t *testing.T) {
	out := filepath.Join(t.TempDir(), "filled.pdf")
	svc := newTestService(
		&fakeValidator{},
		&fakeExtractor{pages: []bom.Page{bomPage()}},
		&fakeRenderer{fail: true},
	)

	_, err := svc.Generate(GenerateRequest{BOMPath: "bom.pdf", TemplatePath: "dd1750.pdf", OutputPath: out})
	if err == nil {
		t.Fatal("Generate() should fail when rendering fails")
	}
	if _, statErr := os.Stat(out); !os.IsNotExist(statErr) {
		t.Error("no output file may exist after a failed render")
	}
}

func TestGenerate_WriteFailureLeavesNoOutput(t *testing.T) {
	// The output directory does not exist, so landing the file fails
	// after rendering succeeded. Nothing may appear at the target path.
	out := filepath.Join(t.TempDir(), "missing", "filled.pdf")
	svc := newTestService(
		&fakeValidator{},
		&fakeExtractor{pages: []bom.Page{bomPage()}},
		&fakeRenderer{},
	)

	_, err := svc.Generate(GenerateRequest{BOMPath: "bom.pdf", TemplatePath: "dd1750.pdf", OutputPath: out})
	if err == nil {
		t.Fatal("Generate() should fail when the output cannot be written")
	}
	if _, statErr := os.Stat(out); !os.IsNotExist(statErr) {
		t.Error("no output file may exist after a failed write")
	}
}

func TestGenerate_FailureKeepsExistingOutput(t *testing.T) {
	// A previous run's output at the target path must survive a failed
	// re-run untouched, with no stray temp files next to it.
	dir := t.TempDir()
	out := filepath.Join(dir, "filled.pdf")
	if err := os.WriteFile(out, []byte("%PDF earlier run"), 0o644); err != nil {
		t.Fatalf("seeding existing output: %v", err)
	}

	svc := newTestService(
		&fakeValidator{},
		&fakeExtractor{pages: []bom.Page{bomPage()}},
		&fakeRenderer{fail: true},
	)

	if _, err := svc.Generate(GenerateRequest{BOMPath: "bom.pdf", TemplatePath: "dd1750.pdf", OutputPath: out}); err == nil {
		t.Fatal("Generate() should fail when rendering fails")
	}

	data, err := os.ReadFile(out)
	if err != nil || string(data) != "%PDF earlier run" {
		t.Errorf("existing output changed: %q, %v", data, err)
	}
	entries, err := os.ReadDir(dir)
	if err != nil {
		t.Fatalf("reading output dir: %v", err)
	}
	if len(entries) != 1 {
		t.Errorf("expected only the original output in %s, found %d entries", dir, len(entries))
	}
}

func TestGenerate_StartPagePassedThrough(t *testing.T) {
	extractor := &fakeExtractor{pages: []bom.Page{bomPage()}}
	svc := newTestService(&fakeValidator{}, extractor, &fakeRenderer{})

	out := filepath.Join(t.TempDir(), "filled.pdf")
	_, err := svc.Generate(GenerateRequest{
		BOMPath: "bom.pdf", TemplatePath: "dd1750.pdf", OutputPath: out, StartPage: 2,
	})
	if err != nil {
		t.Fatalf("Generate() error = %v", err)
	}
	if extractor.gotStartPage != 2 {
		t.Errorf("extractor start page = %d, want 2", extractor.gotStartPage)
	}
}

func TestPreview(t *testing.T) {
	svc := newTestService(&fakeValidator{}, &fakeExtractor{pages: []bom.Page{bomPage()}}, &fakeRenderer{})

	result, err := svc.Preview(PreviewRequest{BOMPath: "bom.pdf"})
	if err != nil {
		t.Fatalf("Preview() error = %v", err)
	}
	if len(result.Items) != 1 || result.PageCount != 1 {
		t.Errorf("unexpected preview result %+v", result)
	}
}

func TestPreview_MissingInput(t *testing.T) {
	svc := newTestService(&fakeValidator{}, &fakeExtractor{}, &fakeRenderer{})
	if _, err := svc.Preview(PreviewRequest{}); !errors.Is(err, ErrMissingInput) {
		t.Errorf("Preview() error = %v, want ErrMissingInput", err)
	}
}

func configWithProfile(name string) *config.Config {
	cfg := config.DefaultConfig()
	cfg.Profile = name
	return cfg
}

func TestNewService_UnknownProfile(t *testing.T) {
	cfg := configWithProfile("dd1750-v9")
	if _, err := NewService(cfg); err == nil {
		t.Error("NewService should reject an unknown profile")
	}
}

func TestNewService_Defaults(t *testing.T) {
	svc, err := NewService(configWithProfile("dd1750"))
	if err != nil {
		t.Fatalf("NewService() error = %v", err)
	}
	if svc.profile.Name != "dd1750" {
		t.Errorf("profile = %q, want dd1750", svc.profile.Name)
	}
}
