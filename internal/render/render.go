// Package render turns normalized items into printable artifacts. Worksheets
// and study plans render to paginated PDFs; languages whose script the PDF
// typefaces cannot display fall back to a plain-text rendering of the same
// content. Artifact filenames are deterministic, so re-running with identical
// parameters overwrites rather than accumulates.
package render

import (
	"fmt"
	"strings"

	"codeberg.org/go-pdf/fpdf"
	"github.com/hyperjump/kyoshi/internal/filestore"
	"github.com/hyperjump/kyoshi/internal/models"
	"golang.org/x/text/language"
)

// Config holds page layout settings.
type Config struct {
	PageSize   string
	MarginMM   float64
	FontFamily string
}

// DefaultConfig is the layout used by every agent.
func DefaultConfig() Config {
	return Config{PageSize: "A4", MarginMM: 18, FontFamily: "Helvetica"}
}

// Params identify one artifact. Filenames derive from these fields only.
type Params struct {
	Prefix     string
	Title      string
	Difficulty string
	SetIndex   int
	Language   string
}

// Renderer writes artifacts into the file store.
type Renderer struct {
	store *filestore.Store
	cfg   Config
}

// New creates a renderer writing into store.
func New(store *filestore.Store, cfg Config) *Renderer {
	if cfg.PageSize == "" {
		cfg = DefaultConfig()
	}
	return &Renderer{store: store, cfg: cfg}
}

// pageBreakThresholdMM: a new page begins when less than this much vertical
// space remains before starting the next item.
const pageBreakThresholdMM = 40.0

// baseName returns the deterministic artifact name (without extension).
func baseName(p Params) string {
	parts := []string{p.Prefix}
	if p.Difficulty != "" {
		parts = append(parts, p.Difficulty)
	}
	parts = append(parts, fmt.Sprintf("set%d", p.SetIndex+1))
	if p.Language != "" {
		parts = append(parts, p.Language)
	}
	return strings.Join(parts, "_")
}

// pdfSupported reports whether the requested language's likely script can be
// displayed by the built-in PDF typefaces (Latin script only).
func pdfSupported(lang string) bool {
	tag := language.Make(lang)
	script, conf := tag.Script()
	if conf == language.No {
		return false
	}
	return script.String() == "Latn"
}

// newDoc starts a PDF document with the configured layout.
func (r *Renderer) newDoc(title string) (*fpdf.Fpdf, func(string) string) {
	pdf := fpdf.New("P", "mm", r.cfg.PageSize, "")
	pdf.SetMargins(r.cfg.MarginMM, r.cfg.MarginMM, r.cfg.MarginMM)
	pdf.SetAutoPageBreak(true, r.cfg.MarginMM)
	pdf.SetTitle(title, true)
	pdf.AddPage()
	tr := pdf.UnicodeTranslatorFromDescriptor("")

	pdf.SetFont(r.cfg.FontFamily, "B", 20)
	pdf.CellFormat(0, 14, tr(title), "", 1, "C", false, 0, "")
	pdf.Ln(6)
	return pdf, tr
}

// ensureRoom starts a new page when the remaining vertical space is below the
// threshold. An item that starts above the threshold may still overrun onto
// the next page; its lines are not split deliberately.
func (r *Renderer) ensureRoom(pdf *fpdf.Fpdf) {
	_, pageH := pdf.GetPageSize()
	if pdf.GetY() > pageH-r.cfg.MarginMM-pageBreakThresholdMM {
		pdf.AddPage()
	}
}

// finish writes the document into the store and returns the absolute path.
func (r *Renderer) finish(pdf *fpdf.Fpdf, name string) (string, error) {
	path := r.store.Path(name + ".pdf")
	if err := pdf.OutputFileAndClose(path); err != nil {
		return "", &models.RenderError{Path: path, Err: err}
	}
	return path, nil
}

// finishText writes the plain-text fallback artifact.
func (r *Renderer) finishText(content, name string) (string, error) {
	path, err := r.store.Write(name+".txt", []byte(content))
	if err != nil {
		return "", &models.RenderError{Path: name + ".txt", Err: err}
	}
	return path, nil
}

// optionLetter returns the letter label for option index i (A, B, C, ...).
func optionLetter(i int) string {
	return string(rune('A' + i%26))
}
