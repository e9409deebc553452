package pptx

import (
	"strconv"
	"strings"
)

// ShapeKind discriminates the parsed shape variants.
type ShapeKind int

const (
	ShapeText ShapeKind = iota
	ShapePicture
	ShapeTable
)

// BulletKind describes the bullet marker of a text paragraph.
type BulletKind int

const (
	BulletNone BulletKind = iota
	BulletChar
	BulletAutoNum
)

// Slide is a parsed slide with its shapes in document order.
type Slide struct {
	Index      int    // 1-based slide number
	Background string // hex RRGGBB, empty for the default white
	Shapes     []Shape
}

// Shape is a positioned slide shape. Exactly one of TextFrame,
// PictureRelID and Table is set, according to Kind.
type Shape struct {
	Kind ShapeKind

	LeftEMU     int64
	TopEMU      int64
	WidthEMU    int64
	HeightEMU   int64
	HasPosition bool

	TextFrame    *TextFrame
	PictureRelID string
	Table        *Table
}

// TextFrame is the text body of a shape.
type TextFrame struct {
	Paragraphs []TextParagraph
}

// TextParagraph is one paragraph of a text frame.
type TextParagraph struct {
	Level     int
	Alignment string // "", l, ctr, r, just
	Bullet    BulletKind
	Runs      []TextRun
}

// Text returns the concatenated run text of the paragraph.
func (p TextParagraph) Text() string {
	var sb strings.Builder
	for _, r := range p.Runs {
		sb.WriteString(r.Text)
	}
	return sb.String()
}

// TextRun is a span of slide text with uniform formatting.
type TextRun struct {
	Text      string
	Bold      bool
	Italic    bool
	Underline bool
	SizePt    float64 // 0 when unset
	Color     string  // hex RRGGBB, empty when unset
}

// Table is a parsed slide table reduced to cell text.
type Table struct {
	Rows [][]string
}

func buildShape(el shapeElement) (Shape, bool) {
	switch {
	case el.Shape != nil:
		if el.Shape.TxBody == nil {
			return Shape{}, false
		}
		tf := buildTextFrame(el.Shape.TxBody)
		if len(tf.Paragraphs) == 0 {
			return Shape{}, false
		}
		s := Shape{Kind: ShapeText, TextFrame: tf}
		s.setTransform(el.Shape.SpPr.Xfrm)
		return s, true

	case el.Picture != nil:
		if el.Picture.BlipFill.Blip.Embed == "" {
			return Shape{}, false
		}
		s := Shape{Kind: ShapePicture, PictureRelID: el.Picture.BlipFill.Blip.Embed}
		s.setTransform(el.Picture.SpPr.Xfrm)
		return s, true

	case el.GraphicFrame != nil:
		if el.GraphicFrame.Table == nil {
			return Shape{}, false
		}
		s := Shape{Kind: ShapeTable, Table: buildTable(el.GraphicFrame.Table)}
		s.setTransform(el.GraphicFrame.Xfrm)
		return s, true
	}
	return Shape{}, false
}

func (s *Shape) setTransform(x *xfrmXML) {
	if x == nil {
		return
	}
	s.LeftEMU = parseEMU(x.Off.X)
	s.TopEMU = parseEMU(x.Off.Y)
	s.WidthEMU = parseEMU(x.Ext.CX)
	s.HeightEMU = parseEMU(x.Ext.CY)
	s.HasPosition = s.WidthEMU > 0 && s.HeightEMU > 0
}

func buildTextFrame(body *txBodyXML) *TextFrame {
	tf := &TextFrame{}
	for _, p := range body.Paragraphs {
		para := TextParagraph{
			Alignment: p.Properties.Align,
			Bullet:    bulletKind(p.Properties),
		}
		if n, err := strconv.Atoi(p.Properties.Level); err == nil && n > 0 {
			para.Level = n
		}
		for _, r := range p.Runs {
			para.Runs = append(para.Runs, buildTextRun(r))
		}
		tf.Paragraphs = append(tf.Paragraphs, para)
	}
	return tf
}

func bulletKind(props aParaPropsXML) BulletKind {
	switch {
	case props.BuAutoNum != nil:
		return BulletAutoNum
	case props.BuChar != nil:
		return BulletChar
	default:
		return BulletNone
	}
}

func buildTextRun(r aRunXML) TextRun {
	props := r.Properties
	out := TextRun{
		Text:      r.Text,
		Bold:      attrBool(props.Bold),
		Italic:    attrBool(props.Italic),
		Underline: props.Underline != "" && !strings.EqualFold(props.Underline, "none"),
	}
	if n, err := strconv.ParseFloat(props.Size, 64); err == nil && n > 0 {
		out.SizePt = n / 100
	}
	if props.Fill != nil && len(props.Fill.Color.Val) == 6 {
		out.Color = strings.ToUpper(props.Fill.Color.Val)
	}
	return out
}

func buildTable(t *tblXML) *Table {
	out := &Table{}
	for _, row := range t.Rows {
		cells := make([]string, 0, len(row.Cells))
		for _, cell := range row.Cells {
			var text string
			if cell.TxBody != nil {
				var lines []string
				for _, p := range cell.TxBody.Paragraphs {
					lines = append(lines, TextParagraph{Runs: textRuns(p.Runs)}.Text())
				}
				text = strings.TrimSpace(strings.Join(lines, "\n"))
			}
			cells = append(cells, text)
		}
		out.Rows = append(out.Rows, cells)
	}
	return out
}

func textRuns(runs []aRunXML) []TextRun {
	out := make([]TextRun, 0, len(runs))
	for _, r := range runs {
		out = append(out, buildTextRun(r))
	}
	return out
}

func attrBool(s string) bool {
	switch strings.ToLower(s) {
	case "1", "true", "on":
		return true
	}
	return false
}

func parseEMU(s string) int64 {
	n, err := strconv.ParseInt(s, 10, 64)
	if err != nil {
		return 0
	}
	return n
}
