package pptx

import "encoding/xml"

// presentationXML represents ppt/presentation.xml.
type presentationXML struct {
	XMLName   xml.Name     `xml:"presentation"`
	SlideSize slideSizeXML `xml:"sldSz"`
}

// slideSizeXML carries the slide dimensions in EMUs.
type slideSizeXML struct {
	CX string `xml:"cx,attr"`
	CY string `xml:"cy,attr"`
}

// slideXML represents a ppt/slides/slideN.xml part.
type slideXML struct {
	XMLName xml.Name `xml:"sld"`
	CSld    cSldXML  `xml:"cSld"`
}

type cSldXML struct {
	Background *bgXML    `xml:"bg"`
	ShapeTree  spTreeXML `xml:"spTree"`
}

// bgXML represents an explicit slide background.
type bgXML struct {
	Fill *solidFillXML `xml:"bgPr>solidFill"`
}

// spTreeXML is the slide's shape tree. Shapes holds sp, pic and
// graphicFrame children in document order; group shapes are flattened
// into their children.
type spTreeXML struct {
	Shapes []shapeElement
}

// shapeElement is one ordered shape of the tree. Exactly one field is
// non-nil.
type shapeElement struct {
	Shape        *spXML
	Picture      *picXML
	GraphicFrame *graphicFrameXML
}

func (st *spTreeXML) UnmarshalXML(d *xml.Decoder, start xml.StartElement) error {
	for {
		tok, err := d.Token()
		if err != nil {
			return err
		}
		switch t := tok.(type) {
		case xml.StartElement:
			switch t.Name.Local {
			case "sp":
				var sp spXML
				if err := d.DecodeElement(&sp, &t); err != nil {
					return err
				}
				st.Shapes = append(st.Shapes, shapeElement{Shape: &sp})
			case "pic":
				var pic picXML
				if err := d.DecodeElement(&pic, &t); err != nil {
					return err
				}
				st.Shapes = append(st.Shapes, shapeElement{Picture: &pic})
			case "graphicFrame":
				var gf graphicFrameXML
				if err := d.DecodeElement(&gf, &t); err != nil {
					return err
				}
				st.Shapes = append(st.Shapes, shapeElement{GraphicFrame: &gf})
			case "grpSp":
				var grp spTreeXML
				if err := d.DecodeElement(&grp, &t); err != nil {
					return err
				}
				st.Shapes = append(st.Shapes, grp.Shapes...)
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

// spXML represents a text or geometry shape (<p:sp>).
type spXML struct {
	SpPr   spPrXML    `xml:"spPr"`
	TxBody *txBodyXML `xml:"txBody"`
}

// picXML represents a picture shape (<p:pic>).
type picXML struct {
	BlipFill blipFillXML `xml:"blipFill"`
	SpPr     spPrXML     `xml:"spPr"`
}

type blipFillXML struct {
	Blip blipXML `xml:"blip"`
}

type blipXML struct {
	Embed string `xml:"embed,attr"` // relationship ID
}

// graphicFrameXML represents a framed graphic, typically a table.
type graphicFrameXML struct {
	Xfrm  *xfrmXML `xml:"xfrm"`
	Table *tblXML  `xml:"graphic>graphicData>tbl"`
}

// spPrXML represents shape properties.
type spPrXML struct {
	Xfrm *xfrmXML `xml:"xfrm"`
}

// xfrmXML represents a 2D transform: offset and extent in EMUs.
type xfrmXML struct {
	Off offXML `xml:"off"`
	Ext extXML `xml:"ext"`
}

type offXML struct {
	X string `xml:"x,attr"`
	Y string `xml:"y,attr"`
}

type extXML struct {
	CX string `xml:"cx,attr"`
	CY string `xml:"cy,attr"`
}

// txBodyXML represents a shape's text body.
type txBodyXML struct {
	Paragraphs []aParagraphXML `xml:"p"`
}

// aParagraphXML represents a DrawingML text paragraph (<a:p>).
type aParagraphXML struct {
	Properties aParaPropsXML `xml:"pPr"`
	Runs       []aRunXML
}

// UnmarshalXML collects runs, fields and line breaks in document order.
func (p *aParagraphXML) UnmarshalXML(d *xml.Decoder, start xml.StartElement) error {
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
			case "r", "fld":
				var r aRunXML
				if err := d.DecodeElement(&r, &t); err != nil {
					return err
				}
				p.Runs = append(p.Runs, r)
			case "br":
				p.Runs = append(p.Runs, aRunXML{Text: "\n"})
				if err := d.Skip(); err != nil {
					return err
				}
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

// aParaPropsXML represents paragraph-level text properties.
type aParaPropsXML struct {
	Level     string     `xml:"lvl,attr"`
	Align     string     `xml:"algn,attr"` // l, ctr, r, just
	BuNone    *struct{}  `xml:"buNone"`
	BuChar    *buCharXML `xml:"buChar"`
	BuAutoNum *buAutoXML `xml:"buAutoNum"`
}

type buCharXML struct {
	Char string `xml:"char,attr"`
}

type buAutoXML struct {
	Type string `xml:"type,attr"`
}

// aRunXML represents a DrawingML text run (<a:r>) or field (<a:fld>).
type aRunXML struct {
	Properties aRunPropsXML `xml:"rPr"`
	Text       string       `xml:"t"`
}

// aRunPropsXML represents run-level text properties.
type aRunPropsXML struct {
	Size      string        `xml:"sz,attr"` // hundredths of a point
	Bold      string        `xml:"b,attr"`
	Italic    string        `xml:"i,attr"`
	Underline string        `xml:"u,attr"`
	Fill      *solidFillXML `xml:"solidFill"`
}

type solidFillXML struct {
	Color srgbClrXML `xml:"srgbClr"`
}

type srgbClrXML struct {
	Val string `xml:"val,attr"`
}

// tblXML represents a DrawingML table.
type tblXML struct {
	Rows []tblRowXML `xml:"tr"`
}

type tblRowXML struct {
	Cells []tblCellXML `xml:"tc"`
}

type tblCellXML struct {
	TxBody *txBodyXML `xml:"txBody"`
}

// relationshipsXML represents a slide's _rels part.
type relationshipsXML struct {
	XMLName       xml.Name          `xml:"Relationships"`
	Relationships []relationshipXML `xml:"Relationship"`
}

type relationshipXML struct {
	ID     string `xml:"Id,attr"`
	Type   string `xml:"Type,attr"`
	Target string `xml:"Target,attr"`
}
