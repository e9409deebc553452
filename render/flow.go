package render

import (
	"bytes"
	"fmt"
	"log/slog"
	"strings"

	"codeberg.org/go-pdf/fpdf"

	"github.com/stellarshenson/jupyterlab-doc-reader-extension/fonts"
)

// Letter page with 0.5 inch margins.
const (
	flowMargin   = 36.0
	maxImageW    = 504.0
	placeholder  = "Document appears to be empty or contains no readable content."
	ruleGapAbove = 4.0
	ruleGapBelow = 8.0
)

// FlowRenderer lays blocks out on flowing Letter pages.
type FlowRenderer struct {
	Logger   *slog.Logger
	FontSets []fonts.CandidateSet
}

// Render produces a PDF document from layout blocks. A document with no
// visible content yields a single placeholder paragraph instead of an
// empty page.
func (fr *FlowRenderer) Render(blocks []Block) ([]byte, error) {
	logger := fr.Logger
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	pdf := fpdf.New("P", "pt", "Letter", "")
	pdf.SetMargins(flowMargin, flowMargin, flowMargin)
	pdf.SetAutoPageBreak(true, flowMargin)
	reg := fonts.Provision(pdf, fr.FontSets, logger)
	pdf.AddPage()

	if !hasVisibleContent(blocks) {
		blocks = []Block{{
			Kind:  BlockText,
			Style: StyleBody,
			Runs:  []StyledRun{{Text: placeholder, Em: Emphasis{Italic: true}}},
		}}
	}

	for i, b := range blocks {
		switch b.Kind {
		case BlockText:
			fr.renderText(pdf, reg, b)
		case BlockTable:
			fr.renderTable(pdf, reg, b)
		case BlockImage:
			fr.renderImage(pdf, logger, b, i)
		case BlockRule:
			fr.renderRule(pdf)
		case BlockSpacer:
			pdf.Ln(b.Height)
		}
	}

	if pdf.Err() {
		return nil, fmt.Errorf("rendering document: %w", pdf.Error())
	}
	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		return nil, fmt.Errorf("writing pdf: %w", err)
	}
	return buf.Bytes(), nil
}

func hasVisibleContent(blocks []Block) bool {
	for _, b := range blocks {
		switch b.Kind {
		case BlockText:
			for _, r := range b.Runs {
				if strings.TrimSpace(r.Text) != "" {
					return true
				}
			}
		case BlockTable:
			if len(b.Rows) > 0 {
				return true
			}
		case BlockImage:
			return true
		}
	}
	return false
}

func (fr *FlowRenderer) renderText(pdf *fpdf.Fpdf, reg *fonts.Registry, b Block) {
	style := catalog[b.Style]
	if style.SpaceBefore > 0 {
		pdf.Ln(style.SpaceBefore)
	}

	left, _, _, _ := pdf.GetMargins()
	if style.Indent > 0 {
		pdf.SetLeftMargin(left + style.Indent)
		pdf.SetX(left + style.Indent)
	}

	if b.Marker != "" {
		role := applyFont(pdf, reg, style, Emphasis{})
		pdf.Write(style.Leading, reg.Prepare(role, b.Marker))
	}
	for _, run := range b.Runs {
		role := applyFont(pdf, reg, style, run.Em)
		text := reg.Prepare(role, run.Text)
		switch {
		case run.Em.Superscript:
			pdf.SubWrite(style.Leading, text, style.Size*0.7, style.Size*0.3, 0, "")
		case run.Em.Subscript:
			pdf.SubWrite(style.Leading, text, style.Size*0.7, -style.Size*0.2, 0, "")
		default:
			pdf.Write(style.Leading, text)
		}
	}
	pdf.Ln(style.Leading + style.SpaceAfter)

	pdf.SetLeftMargin(left)
	pdf.SetTextColor(0, 0, 0)
}

// applyFont selects the typeface for a run: the paragraph style sets the
// baseline role and the run's emphasis refines it. Returns the role so
// callers can translate text for core faces.
func applyFont(pdf *fpdf.Fpdf, reg *fonts.Registry, style Style, em Emphasis) fonts.Role {
	role := style.Role
	bold := em.Bold || role == fonts.Bold
	switch {
	case em.Mono || role == fonts.Mono:
		role = fonts.Mono
	case bold && em.Italic:
		role = fonts.BoldItalic
	case bold:
		role = fonts.Bold
	case em.Italic:
		role = fonts.Italic
	default:
		role = fonts.Normal
	}

	sel := reg.Select(role)
	styleStr := sel.Style
	if em.Underline {
		styleStr += "U"
	}
	if em.Strike {
		styleStr += "S"
	}
	pdf.SetFont(sel.Family, styleStr, style.Size)

	color := style.Color
	if em.Color != nil {
		color = em.Color
	}
	if color != nil {
		pdf.SetTextColor(color.R, color.G, color.B)
	} else {
		pdf.SetTextColor(0, 0, 0)
	}
	return role
}

func (fr *FlowRenderer) renderTable(pdf *fpdf.Fpdf, reg *fonts.Registry, b Block) {
	cols := 0
	for _, row := range b.Rows {
		if len(row) > cols {
			cols = len(row)
		}
	}
	if cols == 0 {
		return
	}

	pageW, _ := pdf.GetPageSize()
	left, _, right, _ := pdf.GetMargins()
	colW := (pageW - left - right) / float64(cols)

	pdf.Ln(ruleGapAbove)
	pdf.SetDrawColor(gridGray.R, gridGray.G, gridGray.B)
	pdf.SetLineWidth(0.5)

	for i, row := range b.Rows {
		rowH := 16.0
		role := fonts.Normal
		fill := false
		if i == 0 {
			rowH = 18
			role = fonts.Bold
			fill = true
			pdf.SetFillColor(tableHeaderBg.R, tableHeaderBg.G, tableHeaderBg.B)
			pdf.SetTextColor(headingDark.R, headingDark.G, headingDark.B)
		} else {
			pdf.SetTextColor(0, 0, 0)
		}
		sel := reg.Select(role)
		pdf.SetFont(sel.Family, sel.Style, 9)

		for j := 0; j < cols; j++ {
			var text string
			if j < len(row) {
				text = cleanText(strings.ReplaceAll(row[j], "\n", " "))
			}
			text = truncateToWidth(pdf, reg.Prepare(role, text), colW-4)
			pdf.CellFormat(colW, rowH, text, "1", 0, "L", fill, 0, "")
		}
		pdf.Ln(rowH)
	}

	pdf.Ln(6)
	pdf.SetTextColor(0, 0, 0)
}

// truncateToWidth trims text to fit a cell, marking the cut with "..".
func truncateToWidth(pdf *fpdf.Fpdf, s string, maxW float64) string {
	if pdf.GetStringWidth(s) <= maxW {
		return s
	}
	r := []rune(s)
	for len(r) > 0 && pdf.GetStringWidth(string(r)+"..") > maxW {
		r = r[:len(r)-1]
	}
	return string(r) + ".."
}

func (fr *FlowRenderer) renderImage(pdf *fpdf.Fpdf, logger *slog.Logger, b Block, idx int) {
	data, pxW, pxH, err := normalizeImage(b.ImageData)
	if err != nil {
		logger.Debug("skipping undecodable image", "error", err)
		return
	}

	// Declared extent wins; fall back to pixel size at 96 dpi.
	w := emuToPt(b.WidthEMU)
	h := emuToPt(b.HeightEMU)
	if w <= 0 || h <= 0 {
		w = float64(pxW) * 0.75
		h = float64(pxH) * 0.75
	}

	pageW, pageH := pdf.GetPageSize()
	left, top, right, _ := pdf.GetMargins()
	w, h = fitImage(w, h, min(maxImageW, pageW-left-right), pageH-2*top)
	if w <= 0 {
		return
	}

	name := fmt.Sprintf("docimg%d", idx)
	opts := fpdf.ImageOptions{ImageType: "PNG"}
	pdf.RegisterImageOptionsReader(name, opts, bytes.NewReader(data))
	pdf.ImageOptions(name, left, 0, w, h, true, opts, 0, "")
	if pdf.Err() {
		logger.Debug("image placement failed", "error", pdf.Error())
		pdf.ClearError()
		return
	}
	pdf.Ln(6)
}

func (fr *FlowRenderer) renderRule(pdf *fpdf.Fpdf) {
	pdf.Ln(ruleGapAbove)
	pageW, _ := pdf.GetPageSize()
	left, _, right, _ := pdf.GetMargins()
	pdf.SetDrawColor(gridGray.R, gridGray.G, gridGray.B)
	pdf.SetLineWidth(0.75)
	y := pdf.GetY()
	pdf.Line(left, y, pageW-right, y)
	pdf.Ln(ruleGapBelow)
}
