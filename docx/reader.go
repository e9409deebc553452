// Package docx reads Office Open XML word processing documents (.docx)
// into a flat, render-oriented model: an ordered sequence of paragraphs
// and tables with resolved styles, run formatting and embedded images.
package docx

import (
	"archive/zip"
	"encoding/xml"
	"fmt"
	"io"
	"path"
	"strconv"
	"strings"
)

// Paragraph is a parsed paragraph with its resolved style and runs.
type Paragraph struct {
	StyleID      string
	StyleName    string
	HeadingLevel int // 0 when not a heading
	Text         string
	Runs         []Run
	Images       []InlineImage

	// List and layout hints.
	HasNumbering    bool
	NumberingLevel  int
	IndentLeftTwips int
	Alignment       string // "", left, center, right, both
	HasBorder       bool   // paragraph carries top or bottom border
}

// Run is a contiguous span of text with uniform formatting.
type Run struct {
	Text        string
	Bold        bool
	Italic      bool
	Underline   bool
	Strike      bool
	Subscript   bool
	Superscript bool
	Color       string // hex RRGGBB, empty when unset or "auto"
	FontName    string
	FontSizePt  float64 // 0 when unset
	StyleID     string
	StyleName   string
}

// InlineImage is an image embedded in a paragraph.
type InlineImage struct {
	RelID     string
	WidthEMU  int64
	HeightEMU int64
}

// Table is a parsed table reduced to cell text.
type Table struct {
	Rows [][]string
}

// BodyElement is one ordered element of the document body. Exactly one
// field is non-nil.
type BodyElement struct {
	Paragraph *Paragraph
	Table     *Table
}

// Reader reads the contents of a .docx file.
type Reader struct {
	zipReader *zip.ReadCloser
	document  *documentXML
	styles    *stylesXML
	rels      *relationshipsXML
	resolver  *StyleResolver
	body      []BodyElement
}

// NewReader opens a .docx file and parses its document, styles and
// relationship parts.
func NewReader(filename string) (*Reader, error) {
	zr, err := zip.OpenReader(filename)
	if err != nil {
		return nil, fmt.Errorf("opening docx file: %w", err)
	}

	r := &Reader{zipReader: zr}
	if err := r.parse(); err != nil {
		zr.Close()
		return nil, err
	}
	return r, nil
}

// Close releases the underlying zip archive.
func (r *Reader) Close() error {
	return r.zipReader.Close()
}

func (r *Reader) parse() error {
	var doc documentXML
	if err := r.readXMLPart("word/document.xml", &doc); err != nil {
		return fmt.Errorf("parsing document.xml: %w", err)
	}
	if doc.Body == nil {
		return fmt.Errorf("document.xml has no body element")
	}
	r.document = &doc

	// Styles and relationships are optional parts.
	var styles stylesXML
	if err := r.readXMLPart("word/styles.xml", &styles); err == nil {
		r.styles = &styles
	}
	var rels relationshipsXML
	if err := r.readXMLPart("word/_rels/document.xml.rels", &rels); err == nil {
		r.rels = &rels
	}

	r.resolver = NewStyleResolver(r.styles)
	r.buildBody()
	return nil
}

func (r *Reader) readXMLPart(name string, v any) error {
	for _, f := range r.zipReader.File {
		if f.Name != name {
			continue
		}
		rc, err := f.Open()
		if err != nil {
			return fmt.Errorf("opening %s: %w", name, err)
		}
		defer rc.Close()

		dec := xml.NewDecoder(rc)
		if err := dec.Decode(v); err != nil {
			return fmt.Errorf("decoding %s: %w", name, err)
		}
		return nil
	}
	return fmt.Errorf("part %s not found in archive", name)
}

// Body returns the ordered body elements of the document.
func (r *Reader) Body() []BodyElement {
	return r.body
}

// Text returns the plain text of the document, one line per paragraph.
// Table cells are emitted row by row, tab-separated.
func (r *Reader) Text() string {
	var sb strings.Builder
	for _, el := range r.body {
		switch {
		case el.Paragraph != nil:
			sb.WriteString(el.Paragraph.Text)
			sb.WriteString("\n")
		case el.Table != nil:
			for _, row := range el.Table.Rows {
				sb.WriteString(strings.Join(row, "\t"))
				sb.WriteString("\n")
			}
		}
	}
	return sb.String()
}

// ImageBytes returns the raw bytes of an embedded image part referenced by
// a relationship ID.
func (r *Reader) ImageBytes(relID string) ([]byte, error) {
	if r.rels == nil {
		return nil, fmt.Errorf("document has no relationships part")
	}
	var target string
	for _, rel := range r.rels.Relationships {
		if rel.ID == relID {
			target = rel.Target
			break
		}
	}
	if target == "" {
		return nil, fmt.Errorf("relationship %s not found", relID)
	}

	// Targets are relative to the word/ directory unless rooted.
	name := path.Clean(path.Join("word", target))
	if strings.HasPrefix(target, "/") {
		name = strings.TrimPrefix(path.Clean(target), "/")
	}

	for _, f := range r.zipReader.File {
		if f.Name != name {
			continue
		}
		rc, err := f.Open()
		if err != nil {
			return nil, fmt.Errorf("opening image part %s: %w", name, err)
		}
		defer rc.Close()
		return io.ReadAll(rc)
	}
	return nil, fmt.Errorf("image part %s not found in archive", name)
}

func (r *Reader) buildBody() {
	for _, el := range r.document.Body.Elements {
		switch {
		case el.Paragraph != nil:
			r.body = append(r.body, BodyElement{Paragraph: r.buildParagraph(el.Paragraph)})
		case el.Table != nil:
			r.body = append(r.body, BodyElement{Table: r.buildTable(el.Table)})
		}
	}
}

func (r *Reader) buildParagraph(p *paragraphXML) *Paragraph {
	props := p.Properties
	out := &Paragraph{
		StyleID:         props.Style.Val,
		StyleName:       r.resolver.Name(props.Style.Val),
		HeadingLevel:    r.resolver.HeadingLevel(props.Style.Val),
		Alignment:       props.Justification.Val,
		IndentLeftTwips: parseTwips(props.Indent.Left),
		HasBorder:       props.Borders != nil && (props.Borders.Top != nil || props.Borders.Bottom != nil),
	}
	if props.NumPr != nil {
		out.HasNumbering = true
		if n, err := strconv.Atoi(props.NumPr.ILvl.Val); err == nil && n >= 0 {
			out.NumberingLevel = n
		}
	}
	if out.HeadingLevel == 0 {
		if n, err := strconv.Atoi(props.OutlineLvl.Val); err == nil && n >= 0 && n < 9 {
			out.HeadingLevel = n + 1
		}
	}

	var text strings.Builder
	for _, run := range p.Runs {
		out.Runs = append(out.Runs, r.buildRun(&run))
		text.WriteString(run.Text)
		for _, dr := range run.Drawings {
			if img := imageFromDrawing(&dr); img != nil {
				out.Images = append(out.Images, *img)
			}
		}
	}
	out.Text = text.String()
	return out
}

func (r *Reader) buildRun(run *runXML) Run {
	props := run.Properties
	out := Run{
		Text:        run.Text,
		Bold:        props.Bold.isSet(),
		Italic:      props.Italic.isSet(),
		Underline:   props.Underline.isSet(),
		Strike:      props.Strike.isSet(),
		Subscript:   props.VertAlign.Val == "subscript",
		Superscript: props.VertAlign.Val == "superscript",
		FontName:    props.Font.ASCII,
		FontSizePt:  parseHalfPoints(props.FontSize.Val),
		StyleID:     props.Style.Val,
		StyleName:   r.resolver.Name(props.Style.Val),
	}
	if out.FontName == "" {
		out.FontName = props.Font.HAnsi
	}
	if c := props.Color.Val; len(c) == 6 && !strings.EqualFold(c, "auto") {
		out.Color = strings.ToUpper(c)
	}
	return out
}

func (r *Reader) buildTable(t *tableXML) *Table {
	out := &Table{}
	for _, row := range t.Rows {
		cells := make([]string, 0, len(row.Cells))
		for _, cell := range row.Cells {
			var lines []string
			for _, p := range cell.Paragraphs {
				var sb strings.Builder
				for _, run := range p.Runs {
					sb.WriteString(run.Text)
				}
				lines = append(lines, sb.String())
			}
			cells = append(cells, strings.TrimSpace(strings.Join(lines, "\n")))
		}
		out.Rows = append(out.Rows, cells)
	}
	return out
}

func imageFromDrawing(dr *drawingXML) *InlineImage {
	ref := dr.Inline
	if ref == nil {
		ref = dr.Anchor
	}
	if ref == nil || ref.Blip == nil || ref.Blip.Embed == "" {
		return nil
	}
	return &InlineImage{
		RelID:     ref.Blip.Embed,
		WidthEMU:  parseEMU(ref.Extent.CX),
		HeightEMU: parseEMU(ref.Extent.CY),
	}
}
