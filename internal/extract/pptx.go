package extract

import (
	"archive/zip"
	"bytes"
	"fmt"
	"regexp"
	"strings"
)

// pptxSlidePathPrefix is the path prefix for slide XML files inside a .pptx zip.
const pptxSlidePathPrefix = "ppt/slides/slide"

// atTag matches <a:t>text</a:t> or <a:t xml:space="preserve">text</a:t> (and any other attributes).
var atTag = regexp.MustCompile(`<a:t[^>]*>([^<]*)</a:t>`)

// extractPPTX extracts text from .pptx bytes shape by shape. PPTX is a ZIP
// containing ppt/slides/slideN.xml (Office Open XML); we pull every
// <a:t>...</a:t> text node. Slides are separated by newlines so the prompt
// context preserves slide boundaries. A slide that fails to read contributes
// nothing rather than failing the deck.
func extractPPTX(content []byte) (string, error) {
	zr, err := zip.NewReader(bytes.NewReader(content), int64(len(content)))
	if err != nil {
		return "", fmt.Errorf("extract PPTX: not a zip: %w", err)
	}
	var buf strings.Builder
	for _, f := range zr.File {
		if !strings.HasPrefix(f.Name, pptxSlidePathPrefix) || !strings.HasSuffix(f.Name, ".xml") {
			continue
		}
		rc, err := f.Open()
		if err != nil {
			continue
		}
		var slideBuf bytes.Buffer
		_, readErr := slideBuf.ReadFrom(rc)
		_ = rc.Close()
		if readErr != nil {
			continue
		}
		var slideText []string
		for _, p := range atTag.FindAllStringSubmatch(slideBuf.String(), -1) {
			if t := strings.TrimSpace(p[1]); t != "" {
				slideText = append(slideText, t)
			}
		}
		if len(slideText) == 0 {
			continue
		}
		if buf.Len() > 0 {
			buf.WriteByte('\n')
		}
		buf.WriteString(strings.Join(slideText, " "))
	}
	return strings.TrimSpace(buf.String()), nil
}
