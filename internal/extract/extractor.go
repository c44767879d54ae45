// Package extract resolves source file identifiers to the text context used
// for prompt building. Each source contributes a provenance-tagged block; the
// concatenated result is capped at a per-agent character budget.
package extract

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"unicode/utf8"

	"github.com/hyperjump/kyoshi/internal/filestore"
)

// Kind classifies a source file by extension.
type Kind string

const (
	KindPDF     Kind = "pdf"
	KindSlide   Kind = "slide"
	KindDoc     Kind = "doc"
	KindSheet   Kind = "sheet"
	KindImage   Kind = "image"
	KindUnknown Kind = "unknown"
)

// SourceTag records the provenance of one contributed block.
type SourceTag struct {
	Name string `json:"name"`
	Kind Kind   `json:"kind"`
}

// Context is the immutable extraction result handed to the prompt builder.
// Text never exceeds the budget passed to Build. ImagePaths lists resolved
// image sources so the caller can route them through a vision call; no OCR
// happens here.
type Context struct {
	Text        string
	Sources     []SourceTag
	Truncated   bool
	NeedsVision bool
	ImagePaths  []string
}

// Extractor builds Contexts from store-resolved files.
type Extractor struct {
	store *filestore.Store
}

// New returns an Extractor reading from store.
func New(store *filestore.Store) *Extractor {
	return &Extractor{store: store}
}

const (
	missingNote = "[warning: source file not found in store]"
	imageNote   = "[image source: visual content requires multimodal handling downstream]"
)

// Build resolves each identifier and assembles the context. Missing files and
// per-page extraction failures contribute annotations or empty text instead
// of failing the whole request. The result is capped at budget characters;
// truncation happens at block or body level, so a written header is always
// followed by at least an empty body.
func (e *Extractor) Build(ids []string, budget int) *Context {
	ctx := &Context{}
	var b strings.Builder
	remaining := budget

	for _, id := range ids {
		name, kind, body := e.source(id, ctx)
		ctx.Sources = append(ctx.Sources, SourceTag{Name: name, Kind: kind})

		header := fmt.Sprintf("--- source: %s (%s) ---", name, kind)
		sep := ""
		if b.Len() > 0 {
			sep = "\n\n"
		}
		// The header and its trailing newline must fit whole or the block
		// is dropped entirely.
		need := utf8.RuneCountInString(sep) + utf8.RuneCountInString(header) + 1
		if need > remaining {
			ctx.Truncated = true
			break
		}
		b.WriteString(sep)
		b.WriteString(header)
		b.WriteByte('\n')
		remaining -= need

		if n := utf8.RuneCountInString(body); n > remaining {
			body = string([]rune(body)[:remaining])
			ctx.Truncated = true
		}
		b.WriteString(body)
		remaining -= utf8.RuneCountInString(body)
	}

	ctx.Text = b.String()
	return ctx
}

// source resolves one identifier to (display name, kind, body text).
func (e *Extractor) source(id string, ctx *Context) (string, Kind, string) {
	path, err := e.store.Resolve(id, filestore.DocumentExts, filestore.ImageExts)
	if err != nil {
		return id, KindUnknown, missingNote
	}
	name := filepath.Base(path)
	kind := classify(path)

	if kind == KindImage {
		ctx.NeedsVision = true
		ctx.ImagePaths = append(ctx.ImagePaths, path)
		return name, kind, imageNote
	}

	content, err := os.ReadFile(path)
	if err != nil {
		return name, kind, missingNote
	}
	text, err := extractBytes(content, strings.ToLower(filepath.Ext(path)))
	if err != nil {
		// A source that cannot be parsed contributes empty text rather
		// than aborting the run.
		return name, kind, ""
	}
	return name, kind, cleanLines(text)
}

// classify maps a file extension to a source kind.
func classify(path string) Kind {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".pdf":
		return KindPDF
	case ".pptx":
		return KindSlide
	case ".docx", ".txt", ".md":
		return KindDoc
	case ".xlsx":
		return KindSheet
	case ".png", ".jpg", ".jpeg":
		return KindImage
	default:
		return KindUnknown
	}
}

// extractBytes extracts text from content based on extension.
func extractBytes(content []byte, ext string) (string, error) {
	switch ext {
	case ".pdf":
		return extractPDF(content)
	case ".pptx":
		return extractPPTX(content)
	case ".docx":
		return extractDOCX(content)
	case ".xlsx":
		return extractExcel(content)
	default:
		return extractPlain(content)
	}
}

// cleanLines trims each line and drops blank ones, matching how syllabus text
// is normalized before prompting.
func cleanLines(text string) string {
	lines := strings.Split(text, "\n")
	out := make([]string, 0, len(lines))
	for _, line := range lines {
		line = strings.TrimSpace(line)
		if line != "" {
			out = append(out, line)
		}
	}
	return strings.Join(out, "\n")
}
