package docx

import (
	"encoding/xml"
	"strings"
)

// documentXML represents the structure of word/document.xml
type documentXML struct {
	XMLName xml.Name `xml:"document"`
	Body    *bodyXML `xml:"body"`
}

// bodyXML represents the document body. Elements preserves the original
// interleaving of paragraphs and tables, which encoding/xml's per-field
// collection would otherwise lose.
type bodyXML struct {
	Elements []bodyElement
}

// bodyElement is one ordered element of the document body.
type bodyElement struct {
	Paragraph *paragraphXML
	Table     *tableXML
}

// UnmarshalXML walks the body children in document order, decoding
// paragraphs and tables and skipping everything else (sectPr, bookmarks).
func (b *bodyXML) UnmarshalXML(d *xml.Decoder, start xml.StartElement) error {
	for {
		tok, err := d.Token()
		if err != nil {
			return err
		}
		switch t := tok.(type) {
		case xml.StartElement:
			switch t.Name.Local {
			case "p":
				var p paragraphXML
				if err := d.DecodeElement(&p, &t); err != nil {
					return err
				}
				b.Elements = append(b.Elements, bodyElement{Paragraph: &p})
			case "tbl":
				var tbl tableXML
				if err := d.DecodeElement(&tbl, &t); err != nil {
					return err
				}
				b.Elements = append(b.Elements, bodyElement{Table: &tbl})
			default:
				if err := d.Skip(); err != nil {
					return err
				}
			}
		case xml.EndElement:
			return nil
		}
	}
}

// paragraphXML represents a paragraph element (<w:p>). Runs are collected
// in document order, including runs nested inside hyperlinks.
type paragraphXML struct {
	Properties paragraphPropsXML
	Runs       []runXML
}

func (p *paragraphXML) UnmarshalXML(d *xml.Decoder, start xml.StartElement) error {
	for {
		tok, err := d.Token()
		if err != nil {
			return err
		}
		switch t := tok.(type) {
		case xml.StartElement:
			switch t.Name.Local {
			case "pPr":
				if err := d.DecodeElement(&p.Properties, &t); err != nil {
					return err
				}
			case "r":
				var r runXML
				if err := d.DecodeElement(&r, &t); err != nil {
					return err
				}
				p.Runs = append(p.Runs, r)
			case "hyperlink":
				var h hyperlinkXML
				if err := d.DecodeElement(&h, &t); err != nil {
					return err
				}
				p.Runs = append(p.Runs, h.Runs...)
			default:
				if err := d.Skip(); err != nil {
					return err
				}
			}
		case xml.EndElement:
			return nil
		}
	}
}

// paragraphPropsXML represents paragraph properties (<w:pPr>).
type paragraphPropsXML struct {
	Style         styleRefXML        `xml:"pStyle"`
	NumPr         *numberingPropsXML `xml:"numPr"`
	Justification justificationXML   `xml:"jc"`
	Indent        indentXML          `xml:"ind"`
	Borders       *paraBordersXML    `xml:"pBdr"`
	OutlineLvl    outlineLvlXML      `xml:"outlineLvl"`
}

// styleRefXML represents a style reference.
type styleRefXML struct {
	Val string `xml:"val,attr"`
}

// numberingPropsXML represents numbering properties for lists (<w:numPr>).
type numberingPropsXML struct {
	ILvl  valXML `xml:"ilvl"`
	NumID valXML `xml:"numId"`
}

// valXML represents a generic single-attribute value element.
type valXML struct {
	Val string `xml:"val,attr"`
}

// justificationXML represents text justification.
type justificationXML struct {
	Val string `xml:"val,attr"` // left, center, right, both
}

// indentXML represents paragraph indentation in twips.
type indentXML struct {
	Left      string `xml:"left,attr"`
	Right     string `xml:"right,attr"`
	FirstLine string `xml:"firstLine,attr"`
	Hanging   string `xml:"hanging,attr"`
}

// paraBordersXML represents paragraph borders (<w:pBdr>). A bordered,
// textually empty paragraph is how Word encodes a horizontal rule.
type paraBordersXML struct {
	Top    *borderXML `xml:"top"`
	Bottom *borderXML `xml:"bottom"`
}

// borderXML represents a single border edge.
type borderXML struct {
	Val   string `xml:"val,attr"`
	Sz    string `xml:"sz,attr"`
	Color string `xml:"color,attr"`
}

// outlineLvlXML represents outline level (0-based heading depth).
type outlineLvlXML struct {
	Val string `xml:"val,attr"`
}

// runXML represents a text run (<w:r>). Text accumulates <w:t>, tab and
// break children in order; drawings are collected for image extraction.
type runXML struct {
	Properties runPropsXML
	Text       string
	Drawings   []drawingXML
}

func (r *runXML) UnmarshalXML(d *xml.Decoder, start xml.StartElement) error {
	var text strings.Builder
	for {
		tok, err := d.Token()
		if err != nil {
			return err
		}
		switch t := tok.(type) {
		case xml.StartElement:
			switch t.Name.Local {
			case "rPr":
				if err := d.DecodeElement(&r.Properties, &t); err != nil {
					return err
				}
			case "t":
				var tx textXML
				if err := d.DecodeElement(&tx, &t); err != nil {
					return err
				}
				text.WriteString(tx.Value)
			case "tab":
				text.WriteString("\t")
				if err := d.Skip(); err != nil {
					return err
				}
			case "br":
				text.WriteString("\n")
				if err := d.Skip(); err != nil {
					return err
				}
			case "drawing":
				var dr drawingXML
				if err := d.DecodeElement(&dr, &t); err != nil {
					return err
				}
				r.Drawings = append(r.Drawings, dr)
			default:
				if err := d.Skip(); err != nil {
					return err
				}
			}
		case xml.EndElement:
			r.Text = text.String()
			return nil
		}
	}
}

// runPropsXML represents run properties (<w:rPr>).
type runPropsXML struct {
	Style     styleRefXML  `xml:"rStyle"`
	Bold      boolXML      `xml:"b"`
	Italic    boolXML      `xml:"i"`
	Underline underlineXML `xml:"u"`
	Strike    boolXML      `xml:"strike"`
	VertAlign valXML       `xml:"vertAlign"` // subscript, superscript
	FontSize  valXML       `xml:"sz"`        // half-points
	Font      fontXML      `xml:"rFonts"`
	Color     valXML       `xml:"color"` // hex RRGGBB or "auto"
}

// boolXML represents an OOXML toggle property. Presence means true unless
// the val attribute explicitly negates it.
type boolXML struct {
	XMLName xml.Name
	Val     string `xml:"val,attr"`
}

func (b boolXML) isSet() bool {
	if b.XMLName.Local == "" {
		return false
	}
	switch strings.ToLower(b.Val) {
	case "false", "0", "none":
		return false
	}
	return true
}

// underlineXML represents underline style.
type underlineXML struct {
	XMLName xml.Name
	Val     string `xml:"val,attr"` // single, double, ..., none
}

func (u underlineXML) isSet() bool {
	return u.XMLName.Local != "" && !strings.EqualFold(u.Val, "none")
}

// fontXML represents run font settings.
type fontXML struct {
	ASCII    string `xml:"ascii,attr"`
	HAnsi    string `xml:"hAnsi,attr"`
	CS       string `xml:"cs,attr"`
	EastAsia string `xml:"eastAsia,attr"`
}

// textXML represents text content (<w:t>).
type textXML struct {
	Space string `xml:"space,attr"`
	Value string `xml:",chardata"`
}

// drawingXML represents an embedded drawing/image.
type drawingXML struct {
	Inline *imageRefXML `xml:"inline"`
	Anchor *imageRefXML `xml:"anchor"`
}

// imageRefXML represents an inline or anchored image reference.
type imageRefXML struct {
	Extent extentXML `xml:"extent"`
	Blip   *blipXML  `xml:"graphic>graphicData>pic>blipFill>blip"`
}

// extentXML represents image display dimensions in EMUs.
type extentXML struct {
	CX string `xml:"cx,attr"`
	CY string `xml:"cy,attr"`
}

// blipXML represents an image part reference.
type blipXML struct {
	Embed string `xml:"embed,attr"` // relationship ID
}

// hyperlinkXML represents a hyperlink wrapping one or more runs.
type hyperlinkXML struct {
	ID   string   `xml:"id,attr"`
	Runs []runXML `xml:"r"`
}

// tableXML represents a table (<w:tbl>).
type tableXML struct {
	XMLName xml.Name      `xml:"tbl"`
	Rows    []tableRowXML `xml:"tr"`
}

// tableRowXML represents a table row (<w:tr>).
type tableRowXML struct {
	Cells []tableCellXML `xml:"tc"`
}

// tableCellXML represents a table cell (<w:tc>).
type tableCellXML struct {
	Paragraphs []paragraphXML `xml:"p"`
}

// relationshipsXML represents _rels/*.rels files.
type relationshipsXML struct {
	XMLName       xml.Name          `xml:"Relationships"`
	Relationships []relationshipXML `xml:"Relationship"`
}

// relationshipXML represents a single relationship.
type relationshipXML struct {
	ID     string `xml:"Id,attr"`
	Type   string `xml:"Type,attr"`
	Target string `xml:"Target,attr"`
}
