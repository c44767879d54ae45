package render

import (
	"fmt"
	"strings"

	"codeberg.org/go-pdf/fpdf"
	"github.com/hyperjump/kyoshi/internal/models"
)

// Plan renders a study plan and returns the artifact path. Falls back to
// plain text for languages the PDF typefaces cannot display.
func (r *Renderer) Plan(overview string, weeks []models.WeeklyItem, p Params) (string, error) {
	name := baseName(p)
	if !pdfSupported(p.Language) {
		return r.finishText(planText(overview, weeks, p), name)
	}

	title := p.Title
	if title == "" {
		title = "Study Plan"
	}
	pdf, tr := r.newDoc(title)

	if overview != "" {
		pdf.SetFont(r.cfg.FontFamily, "", 12)
		pdf.MultiCell(0, 6, tr(overview), "", "L", false)
		pdf.Ln(6)
	}

	for _, wk := range weeks {
		r.ensureRoom(pdf)
		pdf.SetFont(r.cfg.FontFamily, "B", 14)
		pdf.CellFormat(0, 9, tr(fmt.Sprintf("Week %d", wk.Week)), "", 1, "L", false, 0, "")
		pdf.SetFont(r.cfg.FontFamily, "", 11)
		r.planSection(pdf, tr, "Topics", wk.Topics)
		r.planSection(pdf, tr, "Outcomes", wk.Outcomes)
		r.planSection(pdf, tr, "Checks", wk.Checks)
		pdf.Ln(4)
	}

	return r.finish(pdf, name)
}

func (r *Renderer) planSection(pdf *fpdf.Fpdf, tr func(string) string, label string, lines []string) {
	if len(lines) == 0 {
		return
	}
	pdf.MultiCell(0, 6, tr(label+":"), "", "L", false)
	for _, line := range lines {
		pdf.MultiCell(0, 6, tr("  - "+line), "", "L", false)
	}
}

func planText(overview string, weeks []models.WeeklyItem, p Params) string {
	title := p.Title
	if title == "" {
		title = "Study Plan"
	}
	var b strings.Builder
	b.WriteString(title + "\n" + strings.Repeat("=", len(title)) + "\n\n")
	if overview != "" {
		b.WriteString(overview + "\n\n")
	}
	for _, wk := range weeks {
		fmt.Fprintf(&b, "Week %d\n", wk.Week)
		planTextSection(&b, "Topics", wk.Topics)
		planTextSection(&b, "Outcomes", wk.Outcomes)
		planTextSection(&b, "Checks", wk.Checks)
		b.WriteString("\n")
	}
	return b.String()
}

func planTextSection(b *strings.Builder, label string, lines []string) {
	if len(lines) == 0 {
		return
	}
	b.WriteString(label + ":\n")
	for _, line := range lines {
		b.WriteString("  - " + line + "\n")
	}
}
