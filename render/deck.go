package render

import (
	"bytes"
	"fmt"
	"log/slog"
	"strings"

	"codeberg.org/go-pdf/fpdf"
	"github.com/mitchellh/go-wordwrap"

	"github.com/stellarshenson/jupyterlab-doc-reader-extension/fonts"
	"github.com/stellarshenson/jupyterlab-doc-reader-extension/pptx"
)

const (
	deckPlaceholder = "Presentation appears to be empty or contains no readable content."

	// Text frames start a little inside their box and stop short of the
	// caption strip at the page bottom.
	textInset      = 5.0
	bottomReserve  = 20.0
	captionBaseY   = 15.0
	defaultTextPt  = 12.0
	minTextPt      = 6.0
	maxTextPt      = 72.0
	lineAdvance    = 1.2
	levelIndentPt  = 15.0
	minTableRowPt  = 12.0
	tableCharWidth = 5.0
)

// SlideImageSource supplies picture bytes referenced from a slide.
type SlideImageSource interface {
	ImageBytes(slideIndex int, relID string) ([]byte, error)
}

// DeckRenderer draws each slide on one fixed-size PDF page matching the
// deck's slide geometry.
type DeckRenderer struct {
	Logger   *slog.Logger
	FontSets []fonts.CandidateSet
}

// Render produces a PDF with one page per slide. Shape failures degrade
// to placeholders or omissions; only document-level errors abort.
func (dr *DeckRenderer) Render(deck *pptx.Deck, images SlideImageSource) ([]byte, error) {
	logger := dr.Logger
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	pageW := emuToPt(deck.SlideWidthEMU)
	pageH := emuToPt(deck.SlideHeightEMU)
	pdf := fpdf.NewCustom(&fpdf.InitType{
		OrientationStr: "P",
		UnitStr:        "pt",
		Size:           fpdf.SizeType{Wd: pageW, Ht: pageH},
	})
	pdf.SetMargins(0, 0, 0)
	pdf.SetAutoPageBreak(false, 0)
	reg := fonts.Provision(pdf, dr.FontSets, logger)

	if len(deck.Slides) == 0 {
		pdf.AddPage()
		sel := reg.Select(fonts.Italic)
		pdf.SetFont(sel.Family, sel.Style, 12)
		pdf.SetTextColor(0, 0, 0)
		msg := reg.Prepare(fonts.Italic, deckPlaceholder)
		pdf.Text((pageW-pdf.GetStringWidth(msg))/2, pageH/2, msg)
	}

	for _, slide := range deck.Slides {
		pdf.AddPage()
		if bg := parseHexColor(slide.Background); bg != nil {
			pdf.SetFillColor(bg.R, bg.G, bg.B)
			pdf.Rect(0, 0, pageW, pageH, "F")
		}
		for i, shape := range slide.Shapes {
			dr.renderShape(pdf, reg, logger, slide, i, shape, images, pageW, pageH)
		}
		drawCaption(pdf, slide.Index, pageW, pageH)
	}

	if pdf.Err() {
		return nil, fmt.Errorf("rendering presentation: %w", pdf.Error())
	}
	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		return nil, fmt.Errorf("writing pdf: %w", err)
	}
	return buf.Bytes(), nil
}

// renderShape draws one shape, absorbing panics and the engine's sticky
// error so a bad shape costs itself, not the rest of the deck.
func (dr *DeckRenderer) renderShape(pdf *fpdf.Fpdf, reg *fonts.Registry, logger *slog.Logger,
	slide pptx.Slide, shapeIdx int, s pptx.Shape, images SlideImageSource, pageW, pageH float64) {

	defer func() {
		if r := recover(); r != nil {
			logger.Warn("shape rendering panicked", "slide", slide.Index, "shape", shapeIdx, "panic", r)
		}
		if pdf.Err() {
			logger.Warn("shape rendering failed", "slide", slide.Index, "shape", shapeIdx,
				"error", pdf.Error())
			pdf.ClearError()
		}
	}()

	if !s.HasPosition {
		logger.Debug("skipping shape without geometry", "slide", slide.Index, "shape", shapeIdx)
		return
	}

	switch s.Kind {
	case pptx.ShapeText:
		drawTextFrame(pdf, reg, s, pageH)
	case pptx.ShapePicture:
		dr.drawPicture(pdf, logger, slide, s, images)
	case pptx.ShapeTable:
		drawTable(pdf, reg, s)
	}
}

func drawTextFrame(pdf *fpdf.Fpdf, reg *fonts.Registry, s pptx.Shape, pageH float64) {
	x := emuToPt(s.LeftEMU)
	y := emuToPt(s.TopEMU)
	w := emuToPt(s.WidthEMU)

	cursor := y + textInset
	var autoNum [8]int

	for _, p := range s.TextFrame.Paragraphs {
		text := cleanText(strings.TrimSpace(p.Text()))
		if text == "" {
			cursor += textInset
			continue
		}

		size, em, color := paragraphFace(p)

		level := min(p.Level, len(autoNum)-1)
		switch p.Bullet {
		case pptx.BulletChar:
			text = "• " + text
		case pptx.BulletAutoNum:
			autoNum[level]++
			text = fmt.Sprintf("%d. ", autoNum[level]) + text
		}

		role := applyFont(pdf, reg, Style{Role: fonts.Normal, Size: size, Color: color}, em)
		lineH := size * lineAdvance
		indent := x + textInset + float64(level)*levelIndentPt

		avail := w - 2*textInset - float64(level)*levelIndentPt
		cols := int(avail / (size * 0.5))
		if cols < 8 {
			cols = 8
		}
		lines := strings.Split(wordwrap.WrapString(text, uint(cols)), "\n")

		for _, line := range lines {
			if cursor+lineH > pageH-bottomReserve {
				break
			}
			out := reg.Prepare(role, line)
			drawX := indent
			switch p.Alignment {
			case "ctr":
				drawX = x + (w-pdf.GetStringWidth(out))/2
			case "r":
				drawX = x + w - pdf.GetStringWidth(out) - textInset
			}
			pdf.Text(drawX, cursor+size, out)
			cursor += lineH
		}
	}
	pdf.SetTextColor(0, 0, 0)
}

// paragraphFace picks the text size, emphasis and color of a slide
// paragraph from its first non-empty run. Undeclared sizes fall back to
// 12pt; declared ones are clamped to [6,72]pt.
func paragraphFace(p pptx.TextParagraph) (size float64, em Emphasis, color *RGB) {
	size = defaultTextPt
	for _, r := range p.Runs {
		if strings.TrimSpace(r.Text) == "" {
			continue
		}
		if r.SizePt > 0 {
			size = min(max(r.SizePt, minTextPt), maxTextPt)
		}
		em = Emphasis{Bold: r.Bold, Italic: r.Italic, Underline: r.Underline}
		color = parseHexColor(r.Color)
		break
	}
	return size, em, color
}

func (dr *DeckRenderer) drawPicture(pdf *fpdf.Fpdf, logger *slog.Logger,
	slide pptx.Slide, s pptx.Shape, images SlideImageSource) {

	x := emuToPt(s.LeftEMU)
	y := emuToPt(s.TopEMU)
	w := emuToPt(s.WidthEMU)
	h := emuToPt(s.HeightEMU)

	fail := func(reason string, err error) {
		logger.Debug("falling back to picture placeholder",
			"slide", slide.Index, "rel_id", s.PictureRelID, "reason", reason, "error", err)
		drawPicturePlaceholder(pdf, x, y, w, h)
	}

	if images == nil {
		fail("no image source", nil)
		return
	}
	raw, err := images.ImageBytes(slide.Index, s.PictureRelID)
	if err != nil {
		fail("unresolved part", err)
		return
	}
	data, pxW, pxH, err := normalizeImage(raw)
	if err != nil {
		fail("undecodable", err)
		return
	}

	// Fit the image inside the shape box, centered, keeping its ratio.
	scale := min(w/float64(pxW), h/float64(pxH))
	dw := float64(pxW) * scale
	dh := float64(pxH) * scale

	name := fmt.Sprintf("slide%d_%s", slide.Index, s.PictureRelID)
	opts := fpdf.ImageOptions{ImageType: "PNG"}
	pdf.RegisterImageOptionsReader(name, opts, bytes.NewReader(data))
	pdf.ImageOptions(name, x+(w-dw)/2, y+(h-dh)/2, dw, dh, false, opts, 0, "")
	if pdf.Err() {
		err := pdf.Error()
		pdf.ClearError()
		fail("placement failed", err)
	}
}

func drawPicturePlaceholder(pdf *fpdf.Fpdf, x, y, w, h float64) {
	pdf.SetFillColor(placeholderBg.R, placeholderBg.G, placeholderBg.B)
	pdf.Rect(x, y, w, h, "F")
	pdf.SetFont("Helvetica", "", 8)
	pdf.SetTextColor(captionGray.R, captionGray.G, captionGray.B)
	label := "[Image]"
	pdf.Text(x+(w-pdf.GetStringWidth(label))/2, y+h/2, label)
	pdf.SetTextColor(0, 0, 0)
}

func drawTable(pdf *fpdf.Fpdf, reg *fonts.Registry, s pptx.Shape) {
	cols := 0
	for _, row := range s.Table.Rows {
		if len(row) > cols {
			cols = len(row)
		}
	}
	if cols == 0 {
		return
	}

	x := emuToPt(s.LeftEMU)
	y := emuToPt(s.TopEMU)
	w := emuToPt(s.WidthEMU)
	h := emuToPt(s.HeightEMU)

	colW := w / float64(cols)
	rowH := max(h/float64(len(s.Table.Rows)), minTableRowPt)
	maxChars := int(colW / tableCharWidth)
	if maxChars < 4 {
		maxChars = 4
	}

	pdf.SetDrawColor(gridGray.R, gridGray.G, gridGray.B)
	pdf.SetLineWidth(0.5)

	for i, row := range s.Table.Rows {
		cy := y + float64(i)*rowH
		role := fonts.Normal
		size := 8.0
		fill := false
		if i == 0 {
			role = fonts.Bold
			size = 9
			fill = true
			pdf.SetFillColor(tableHeaderBg.R, tableHeaderBg.G, tableHeaderBg.B)
			pdf.SetTextColor(headingDark.R, headingDark.G, headingDark.B)
		} else {
			pdf.SetTextColor(0, 0, 0)
		}
		sel := reg.Select(role)
		pdf.SetFont(sel.Family, sel.Style, size)

		for j := 0; j < cols; j++ {
			cx := x + float64(j)*colW
			style := "D"
			if fill {
				style = "FD"
			}
			pdf.Rect(cx, cy, colW, rowH, style)

			var text string
			if j < len(row) {
				text = cleanText(strings.ReplaceAll(row[j], "\n", " "))
			}
			text = truncateRunes(text, maxChars)
			pdf.Text(cx+2, cy+rowH/2+size/2-1, reg.Prepare(role, text))
		}
	}
	pdf.SetTextColor(0, 0, 0)
}

// truncateRunes cuts text at a rune boundary, marking the cut with "..".
func truncateRunes(s string, maxChars int) string {
	r := []rune(s)
	if len(r) <= maxChars {
		return s
	}
	if maxChars <= 2 {
		return string(r[:maxChars])
	}
	return string(r[:maxChars-2]) + ".."
}

func drawCaption(pdf *fpdf.Fpdf, slideNum int, pageW, pageH float64) {
	pdf.SetFont("Helvetica", "", 8)
	pdf.SetTextColor(captionGray.R, captionGray.G, captionGray.B)
	caption := fmt.Sprintf("Slide %d", slideNum)
	pdf.Text((pageW-pdf.GetStringWidth(caption))/2, pageH-captionBaseY, caption)
	pdf.SetTextColor(0, 0, 0)
}
