package render

import (
	"fmt"
	"strings"

	"codeberg.org/go-pdf/fpdf"
	"github.com/hyperjump/kyoshi/internal/models"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

// Worksheet renders one worksheet set and returns the artifact path. The
// output is a PDF when the language's script is displayable, otherwise a
// plain-text file with the same base name.
func (r *Renderer) Worksheet(items []models.WorksheetItem, p Params) (string, error) {
	name := baseName(p)
	if !pdfSupported(p.Language) {
		return r.finishText(worksheetText(items, p), name)
	}

	pdf, tr := r.newDoc(worksheetTitle(p))

	pdf.SetFont(r.cfg.FontFamily, "", 12)
	for i, it := range items {
		r.ensureRoom(pdf)
		pdf.SetFont(r.cfg.FontFamily, "B", 12)
		pdf.MultiCell(0, 7, tr(fmt.Sprintf("%d. %s", i+1, it.Q)), "", "L", false)
		pdf.SetFont(r.cfg.FontFamily, "", 12)
		r.worksheetItemBody(pdf, tr, it)
		pdf.Ln(4)
	}

	r.answerKey(pdf, tr, items)
	return r.finish(pdf, name)
}

func (r *Renderer) worksheetItemBody(pdf *fpdf.Fpdf, tr func(string) string, it models.WorksheetItem) {
	switch it.Type {
	case models.ItemMCQ:
		for j, opt := range it.Options {
			pdf.MultiCell(0, 6, tr(fmt.Sprintf("   %s. %s", optionLetter(j), opt)), "", "L", false)
		}
	case models.ItemDiagram:
		// leave drawing space plus an answer line
		pdf.Ln(24)
		pdf.MultiCell(0, 6, tr("Answer: ______________________________________"), "", "L", false)
	default:
		pdf.Ln(2)
		pdf.MultiCell(0, 6, tr("Answer: ______________________________________"), "", "L", false)
	}
}

// answerKey appends a final page listing the expected answers. Items without
// an answer are listed with their rubric when present.
func (r *Renderer) answerKey(pdf *fpdf.Fpdf, tr func(string) string, items []models.WorksheetItem) {
	pdf.AddPage()
	pdf.SetFont(r.cfg.FontFamily, "B", 16)
	pdf.CellFormat(0, 12, tr("Answer Key"), "", 1, "C", false, 0, "")
	pdf.Ln(4)

	pdf.SetFont(r.cfg.FontFamily, "", 11)
	for i, it := range items {
		line := fmt.Sprintf("%d. %s", i+1, answerLine(it))
		pdf.MultiCell(0, 6, tr(line), "", "L", false)
	}
}

func answerLine(it models.WorksheetItem) string {
	switch {
	case it.Answer != "":
		return it.Answer
	case it.Rubric != "":
		return "rubric: " + it.Rubric
	default:
		return "(open response)"
	}
}

func worksheetTitle(p Params) string {
	title := p.Title
	if title == "" {
		title = "Worksheet"
	}
	if p.Difficulty != "" {
		caser := cases.Title(language.English)
		title = fmt.Sprintf("%s (%s, Set %d)", title, caser.String(p.Difficulty), p.SetIndex+1)
	}
	return title
}

// worksheetText is the plain-text fallback rendering.
func worksheetText(items []models.WorksheetItem, p Params) string {
	var b strings.Builder
	b.WriteString(worksheetTitle(p))
	b.WriteString("\n")
	b.WriteString(strings.Repeat("=", len(worksheetTitle(p))))
	b.WriteString("\n\n")
	for i, it := range items {
		fmt.Fprintf(&b, "%d. %s\n", i+1, it.Q)
		if it.Type == models.ItemMCQ {
			for j, opt := range it.Options {
				fmt.Fprintf(&b, "   %s. %s\n", optionLetter(j), opt)
			}
		} else {
			b.WriteString("   Answer: ________________\n")
		}
		b.WriteString("\n")
	}
	b.WriteString("Answer Key\n----------\n")
	for i, it := range items {
		fmt.Fprintf(&b, "%d. %s\n", i+1, answerLine(it))
	}
	return b.String()
}
