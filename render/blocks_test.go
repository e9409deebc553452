package render

import (
	"fmt"
	"testing"

	"github.com/stellarshenson/jupyterlab-doc-reader-extension/docx"
)

func bodyParagraph(text string) docx.BodyElement {
	return docx.BodyElement{Paragraph: &docx.Paragraph{
		Text: text,
		Runs: []docx.Run{{Text: text}},
	}}
}

func numberedItem(text string, level int) docx.BodyElement {
	return docx.BodyElement{Paragraph: &docx.Paragraph{
		StyleID:        "ListNumber",
		StyleName:      "List Number",
		Text:           text,
		Runs:           []docx.Run{{Text: text}},
		HasNumbering:   true,
		NumberingLevel: level,
	}}
}

func bulletItem(text string, level int) docx.BodyElement {
	return docx.BodyElement{Paragraph: &docx.Paragraph{
		StyleID:        "ListBullet",
		StyleName:      "List Bullet",
		Text:           text,
		Runs:           []docx.Run{{Text: text}},
		HasNumbering:   true,
		NumberingLevel: level,
	}}
}

func heading(text string, level int) docx.BodyElement {
	return docx.BodyElement{Paragraph: &docx.Paragraph{
		StyleID:      fmt.Sprintf("Heading%d", level),
		StyleName:    fmt.Sprintf("heading %d", level),
		HeadingLevel: level,
		Text:         text,
		Runs:         []docx.Run{{Text: text}},
	}}
}

func markers(blocks []Block) []string {
	var out []string
	for _, b := range blocks {
		if b.Kind == BlockText {
			out = append(out, b.Marker)
		}
	}
	return out
}

func TestNumberedListRestartsAfterBodyParagraph(t *testing.T) {
	blocks := BuildBlocks([]docx.BodyElement{
		numberedItem("first", 0),
		numberedItem("second", 0),
		bodyParagraph("interlude"),
		numberedItem("fresh start", 0),
	}, nil, nil)

	got := markers(blocks)
	want := []string{"1. ", "2. ", "", "1. "}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("marker %d: want %q, got %q", i, want[i], got[i])
		}
	}
}

func TestNumberedListSurvivesHeading(t *testing.T) {
	blocks := BuildBlocks([]docx.BodyElement{
		numberedItem("first", 0),
		numberedItem("second", 0),
		heading("Interruption", 2),
		numberedItem("third", 0),
	}, nil, nil)

	got := markers(blocks)
	if got[3] != "3. " {
		t.Errorf("numbering must continue across headings: want %q, got %q", "3. ", got[3])
	}
}

func TestNestedNumberingResetsOnReturn(t *testing.T) {
	blocks := BuildBlocks([]docx.BodyElement{
		numberedItem("a", 0),
		numberedItem("a.1", 1),
		numberedItem("a.2", 1),
		numberedItem("b", 0),
		numberedItem("b.1", 1),
	}, nil, nil)

	got := markers(blocks)
	want := []string{"1. ", "1. ", "2. ", "2. ", "1. "}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("marker %d: want %q, got %q", i, want[i], got[i])
		}
	}
}

func TestBulletMarkersByLevel(t *testing.T) {
	blocks := BuildBlocks([]docx.BodyElement{
		bulletItem("top", 0),
		bulletItem("nested", 1),
	}, nil, nil)

	if blocks[0].Marker != "• " || blocks[0].Style != StyleList {
		t.Errorf("unexpected top-level bullet block %+v", blocks[0])
	}
	if blocks[1].Marker != "◦ " || blocks[1].Style != StyleListNested {
		t.Errorf("unexpected nested bullet block %+v", blocks[1])
	}
}

func TestIndentPromotesListLevel(t *testing.T) {
	deep := docx.BodyElement{Paragraph: &docx.Paragraph{
		StyleID:         "ListParagraph",
		StyleName:       "List Paragraph",
		Text:            "indented",
		Runs:            []docx.Run{{Text: "indented"}},
		IndentLeftTwips: 1440,
	}}
	blocks := BuildBlocks([]docx.BodyElement{deep}, nil, nil)
	if blocks[0].Style != StyleListNested {
		t.Errorf("indent beyond half an inch should nest, got style %v", blocks[0].Style)
	}
}

func TestHeadingStyles(t *testing.T) {
	blocks := BuildBlocks([]docx.BodyElement{
		heading("one", 1),
		heading("two", 2),
		heading("five", 5),
	}, nil, nil)

	want := []StyleID{StyleHeading1, StyleHeading2, StyleHeading3}
	for i, b := range blocks {
		if b.Style != want[i] {
			t.Errorf("heading %d: want style %v, got %v", i, want[i], b.Style)
		}
	}
}

func TestCodeParagraphUsesMonoStyle(t *testing.T) {
	el := docx.BodyElement{Paragraph: &docx.Paragraph{
		StyleID:   "CodeBlock",
		StyleName: "Code Block",
		Text:      "x := 1",
		Runs:      []docx.Run{{Text: "x := 1"}},
	}}
	blocks := BuildBlocks([]docx.BodyElement{el}, nil, nil)
	if blocks[0].Style != StyleCode {
		t.Errorf("expected StyleCode, got %v", blocks[0].Style)
	}
}

func TestMonoRunShortCircuitsOtherEmphasis(t *testing.T) {
	el := docx.BodyElement{Paragraph: &docx.Paragraph{
		Text: "go build",
		Runs: []docx.Run{{Text: "go build", Bold: true, FontName: "Courier New"}},
	}}
	blocks := BuildBlocks([]docx.BodyElement{el}, nil, nil)
	em := blocks[0].Runs[0].Em
	if !em.Mono {
		t.Fatal("courier run must be mono")
	}
	if em.Bold {
		t.Error("mono must suppress other emphasis")
	}
}

func TestRunEmphasisAndColor(t *testing.T) {
	el := docx.BodyElement{Paragraph: &docx.Paragraph{
		Text: "styled",
		Runs: []docx.Run{{
			Text: "styled", Bold: true, Italic: true, Underline: true,
			Strike: true, Superscript: true, Color: "4F81BD",
		}},
	}}
	blocks := BuildBlocks([]docx.BodyElement{el}, nil, nil)
	em := blocks[0].Runs[0].Em
	if !em.Bold || !em.Italic || !em.Underline || !em.Strike || !em.Superscript {
		t.Errorf("emphasis flags lost: %+v", em)
	}
	if em.Color == nil || *em.Color != (RGB{R: 0x4F, G: 0x81, B: 0xBD}) {
		t.Errorf("unexpected color %+v", em.Color)
	}
}

func TestRuleAndSpacerParagraphs(t *testing.T) {
	blocks := BuildBlocks([]docx.BodyElement{
		{Paragraph: &docx.Paragraph{HasBorder: true}},
		{Paragraph: &docx.Paragraph{}},
	}, nil, nil)

	if blocks[0].Kind != BlockRule {
		t.Errorf("bordered empty paragraph should be a rule, got %v", blocks[0].Kind)
	}
	if blocks[1].Kind != BlockSpacer || blocks[1].Height != 12 {
		t.Errorf("empty paragraph should be a one-line spacer, got %+v", blocks[1])
	}
}

func TestRuleDoesNotDisturbNumbering(t *testing.T) {
	blocks := BuildBlocks([]docx.BodyElement{
		numberedItem("first", 0),
		{Paragraph: &docx.Paragraph{HasBorder: true}},
		numberedItem("second", 0),
	}, nil, nil)

	got := markers(blocks)
	if got[len(got)-1] != "2. " {
		t.Errorf("rule must not reset numbering, got %q", got[len(got)-1])
	}
}

type fakeImages struct {
	data map[string][]byte
}

func (f fakeImages) ImageBytes(relID string) ([]byte, error) {
	if d, ok := f.data[relID]; ok {
		return d, nil
	}
	return nil, fmt.Errorf("no part for %s", relID)
}

func TestImagesFollowParagraphText(t *testing.T) {
	el := docx.BodyElement{Paragraph: &docx.Paragraph{
		Text:   "figure caption",
		Runs:   []docx.Run{{Text: "figure caption"}},
		Images: []docx.InlineImage{{RelID: "rId1", WidthEMU: 914400, HeightEMU: 914400}},
	}}
	src := fakeImages{data: map[string][]byte{"rId1": []byte("raw")}}
	blocks := BuildBlocks([]docx.BodyElement{el}, src, nil)

	if len(blocks) != 2 {
		t.Fatalf("expected 2 blocks, got %d", len(blocks))
	}
	if blocks[0].Kind != BlockText || blocks[1].Kind != BlockImage {
		t.Errorf("expected text then image, got kinds [%v %v]", blocks[0].Kind, blocks[1].Kind)
	}
}

func TestImageBlocksAndUnresolvableImages(t *testing.T) {
	el := docx.BodyElement{Paragraph: &docx.Paragraph{
		Text: "",
		Images: []docx.InlineImage{
			{RelID: "rId1", WidthEMU: 914400, HeightEMU: 914400},
			{RelID: "rId2"},
		},
	}}
	src := fakeImages{data: map[string][]byte{"rId1": []byte("raw")}}
	blocks := BuildBlocks([]docx.BodyElement{el}, src, nil)

	var imgs []Block
	for _, b := range blocks {
		if b.Kind == BlockImage {
			imgs = append(imgs, b)
		}
	}
	if len(imgs) != 1 {
		t.Fatalf("expected 1 image block, got %d", len(imgs))
	}
	if imgs[0].WidthEMU != 914400 || string(imgs[0].ImageData) != "raw" {
		t.Errorf("unexpected image block %+v", imgs[0])
	}
}

func TestCleanTextStripsControlCharacters(t *testing.T) {
	if got := cleanText("a\x00b\x07c"); got != "abc" {
		t.Errorf("control characters should be stripped, got %q", got)
	}
	if got := cleanText("a\tb\nc"); got != "a b\nc" {
		t.Errorf("tabs widen and newlines survive, got %q", got)
	}
	// Combining e + acute normalizes to the precomposed form.
	if got := cleanText("café"); got != "café" {
		t.Errorf("expected NFC normalization, got %q", got)
	}
}

func TestTableBecomesTableBlock(t *testing.T) {
	el := docx.BodyElement{Table: &docx.Table{Rows: [][]string{{"h1", "h2"}, {"a", "b"}}}}
	blocks := BuildBlocks([]docx.BodyElement{el}, nil, nil)
	if blocks[0].Kind != BlockTable || len(blocks[0].Rows) != 2 {
		t.Errorf("unexpected table block %+v", blocks[0])
	}
}
