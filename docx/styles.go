package docx

import "encoding/xml"

// stylesXML represents word/styles.xml. Only the parts needed to resolve
// style names and heading levels are modelled.
type stylesXML struct {
	XMLName xml.Name      `xml:"styles"`
	Styles  []styleDefXML `xml:"style"`
}

// styleDefXML represents a single style definition.
type styleDefXML struct {
	Type       string        `xml:"type,attr"` // paragraph, character, table
	StyleID    string        `xml:"styleId,attr"`
	Name       valXML        `xml:"name"`
	BasedOn    valXML        `xml:"basedOn"`
	OutlineLvl outlineLvlXML `xml:"pPr>outlineLvl"`
}
