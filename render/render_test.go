package render

import (
	"bytes"
	"fmt"
	"image"
	"image/color"
	"image/png"
	"strings"
	"testing"

	"github.com/stellarshenson/jupyterlab-doc-reader-extension/pptx"
)

// countPages counts page objects in serialized PDF output. "/Type /Page"
// also matches the page tree node, which is subtracted out.
func countPages(pdf []byte) int {
	return bytes.Count(pdf, []byte("/Type /Page")) - bytes.Count(pdf, []byte("/Type /Pages"))
}

func pngBytes(t *testing.T, w, h int) []byte {
	t.Helper()
	img := image.NewRGBA(image.Rect(0, 0, w, h))
	for x := 0; x < w; x++ {
		for y := 0; y < h; y++ {
			img.Set(x, y, color.RGBA{R: 200, G: 100, B: 50, A: 255})
		}
	}
	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		t.Fatal(err)
	}
	return buf.Bytes()
}

func TestFlowRenderProducesPDF(t *testing.T) {
	fr := &FlowRenderer{}
	out, err := fr.Render([]Block{
		{Kind: BlockText, Style: StyleHeading1, Runs: []StyledRun{{Text: "Title"}}},
		{Kind: BlockText, Style: StyleBody, Runs: []StyledRun{
			{Text: "plain "},
			{Text: "bold", Em: Emphasis{Bold: true}},
			{Text: " and "},
			{Text: "italic", Em: Emphasis{Italic: true}},
		}},
		{Kind: BlockRule},
		{Kind: BlockText, Style: StyleList, Marker: "1. ", Runs: []StyledRun{{Text: "item"}}},
	})
	if err != nil {
		t.Fatalf("Render: %v", err)
	}
	if !strings.HasPrefix(string(out), "%PDF-") {
		t.Fatalf("output does not start with PDF signature: %q", out[:8])
	}
	if got := countPages(out); got != 1 {
		t.Errorf("expected 1 page, got %d", got)
	}
}

func TestFlowRenderEmptyDocumentGetsPlaceholderPage(t *testing.T) {
	fr := &FlowRenderer{}
	out, err := fr.Render(nil)
	if err != nil {
		t.Fatalf("Render: %v", err)
	}
	if !strings.HasPrefix(string(out), "%PDF-") {
		t.Fatal("expected PDF output for empty document")
	}
	if got := countPages(out); got != 1 {
		t.Errorf("expected a single placeholder page, got %d", got)
	}
}

func TestFlowRenderTableAndImage(t *testing.T) {
	fr := &FlowRenderer{}
	out, err := fr.Render([]Block{
		{Kind: BlockTable, Rows: [][]string{{"Name", "Value"}, {"alpha", "1"}}},
		{Kind: BlockImage, ImageData: pngBytes(t, 40, 20), WidthEMU: 914400, HeightEMU: 457200},
		{Kind: BlockImage, ImageData: []byte("not an image")},
	})
	if err != nil {
		t.Fatalf("Render: %v", err)
	}
	if got := countPages(out); got != 1 {
		t.Errorf("expected 1 page, got %d", got)
	}
}

func TestFlowRenderSubAndSuperscript(t *testing.T) {
	fr := &FlowRenderer{}
	_, err := fr.Render([]Block{
		{Kind: BlockText, Style: StyleBody, Runs: []StyledRun{
			{Text: "H"},
			{Text: "2", Em: Emphasis{Subscript: true}},
			{Text: "O and x"},
			{Text: "2", Em: Emphasis{Superscript: true}},
		}},
	})
	if err != nil {
		t.Fatalf("Render: %v", err)
	}
}

func TestDeckRenderOnePagePerSlide(t *testing.T) {
	deck := &pptx.Deck{
		SlideWidthEMU:  9144000,
		SlideHeightEMU: 6858000,
		Slides: []pptx.Slide{
			{Index: 1, Shapes: []pptx.Shape{textShape("First slide")}},
			{Index: 2},
			{Index: 3, Shapes: []pptx.Shape{textShape("Last slide")}},
		},
	}
	dr := &DeckRenderer{}
	out, err := dr.Render(deck, nil)
	if err != nil {
		t.Fatalf("Render: %v", err)
	}
	if !strings.HasPrefix(string(out), "%PDF-") {
		t.Fatal("expected PDF signature")
	}
	if got := countPages(out); got != 3 {
		t.Errorf("expected 3 pages, got %d", got)
	}
}

func TestDeckRenderEmptyPresentation(t *testing.T) {
	dr := &DeckRenderer{}
	out, err := dr.Render(&pptx.Deck{SlideWidthEMU: 9144000, SlideHeightEMU: 6858000}, nil)
	if err != nil {
		t.Fatalf("Render: %v", err)
	}
	if got := countPages(out); got != 1 {
		t.Errorf("expected a single placeholder page, got %d", got)
	}
}

type fakeSlideImages struct {
	data map[string][]byte
}

func (f fakeSlideImages) ImageBytes(slideIndex int, relID string) ([]byte, error) {
	if d, ok := f.data[relID]; ok {
		return d, nil
	}
	return nil, fmt.Errorf("no part for %s on slide %d", relID, slideIndex)
}

func TestDeckRenderShapes(t *testing.T) {
	deck := &pptx.Deck{
		SlideWidthEMU:  9144000,
		SlideHeightEMU: 6858000,
		Slides: []pptx.Slide{{
			Index: 1,
			Shapes: []pptx.Shape{
				textShape("Heading"),
				{
					Kind: pptx.ShapePicture, PictureRelID: "rId3", HasPosition: true,
					LeftEMU: 914400, TopEMU: 914400, WidthEMU: 1828800, HeightEMU: 914400,
				},
				{
					Kind: pptx.ShapePicture, PictureRelID: "rId9", HasPosition: true,
					LeftEMU: 914400, TopEMU: 2743200, WidthEMU: 914400, HeightEMU: 914400,
				},
				{
					Kind: pptx.ShapeTable, HasPosition: true,
					LeftEMU: 457200, TopEMU: 4572000, WidthEMU: 4572000, HeightEMU: 914400,
					Table: &pptx.Table{Rows: [][]string{
						{"Quarter", "Revenue"},
						{"Q1", "a very long cell value that will not fit"},
					}},
				},
			},
		}},
	}

	dr := &DeckRenderer{}
	out, err := dr.Render(deck, fakeSlideImages{data: map[string][]byte{
		"rId3": pngBytes(t, 60, 30),
	}})
	if err != nil {
		t.Fatalf("Render: %v", err)
	}
	if got := countPages(out); got != 1 {
		t.Errorf("expected 1 page, got %d", got)
	}
}

func textShape(text string) pptx.Shape {
	return pptx.Shape{
		Kind:        pptx.ShapeText,
		HasPosition: true,
		LeftEMU:     457200, TopEMU: 457200,
		WidthEMU: 8229600, HeightEMU: 1828800,
		TextFrame: &pptx.TextFrame{Paragraphs: []pptx.TextParagraph{{
			Runs: []pptx.TextRun{{Text: text, Bold: true, SizePt: 24}},
		}}},
	}
}

func TestParagraphFaceDefaultsAndClamping(t *testing.T) {
	para := func(r pptx.TextRun) pptx.TextParagraph {
		return pptx.TextParagraph{Runs: []pptx.TextRun{r}}
	}

	size, _, _ := paragraphFace(para(pptx.TextRun{Text: "plain"}))
	if size != 12 {
		t.Errorf("unsized run must render at 12pt, got %g", size)
	}
	size, _, _ = paragraphFace(para(pptx.TextRun{Text: "tiny", SizePt: 4}))
	if size != 6 {
		t.Errorf("expected clamp up to 6pt, got %g", size)
	}
	size, _, _ = paragraphFace(para(pptx.TextRun{Text: "huge", SizePt: 100}))
	if size != 72 {
		t.Errorf("expected clamp down to 72pt, got %g", size)
	}

	size, em, color := paragraphFace(pptx.TextParagraph{Runs: []pptx.TextRun{
		{Text: "  "},
		{Text: "lead", SizePt: 20, Bold: true, Color: "4F81BD"},
	}})
	if size != 20 || !em.Bold || color == nil || color.R != 0x4F {
		t.Errorf("first non-empty run must set the face, got size=%g em=%+v color=%+v", size, em, color)
	}
}

func TestTruncateRunes(t *testing.T) {
	if got := truncateRunes("short", 10); got != "short" {
		t.Errorf("short string must pass through, got %q", got)
	}
	if got := truncateRunes("abcdefghij", 6); got != "abcd.." {
		t.Errorf("expected %q, got %q", "abcd..", got)
	}
	if got := truncateRunes("żółć żółć", 6); got != "żółć.." {
		t.Errorf("rune-safe cut expected %q, got %q", "żółć..", got)
	}
}

func TestFitImage(t *testing.T) {
	w, h := fitImage(1000, 500, 504, 700)
	if w != 504 || h != 252 {
		t.Errorf("expected downscale to 504x252, got %gx%g", w, h)
	}
	w, h = fitImage(100, 50, 504, 700)
	if w != 100 || h != 50 {
		t.Errorf("small images must not be upscaled, got %gx%g", w, h)
	}
}
