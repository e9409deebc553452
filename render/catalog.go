// Package render turns parsed documents and presentations into PDF
// bytes: a flowing page layout for word processing documents and a
// fixed-geometry layout for slide decks.
package render

import "github.com/stellarshenson/jupyterlab-doc-reader-extension/fonts"

// RGB is a 24-bit color.
type RGB struct {
	R, G, B int
}

// Catalog colors shared by both renderers.
var (
	headingDark   = RGB{R: 0x36, G: 0x5F, B: 0x91}
	headingMedium = RGB{R: 0x4F, G: 0x81, B: 0xBD}
	tableHeaderBg = RGB{R: 0xDB, G: 0xE5, B: 0xF1}
	gridGray      = RGB{R: 0xCC, G: 0xCC, B: 0xCC}
	captionGray   = RGB{R: 0x80, G: 0x80, B: 0x80}
	placeholderBg = RGB{R: 0xD3, G: 0xD3, B: 0xD3}
)

// StyleID names an entry of the paragraph style catalog.
type StyleID int

const (
	StyleBody StyleID = iota
	StyleList
	StyleListNested
	StyleHeading1
	StyleHeading2
	StyleHeading3
	StyleCode
)

// Style is one paragraph style of the flow layout: typeface role, sizes
// in points and optional text color.
type Style struct {
	Role        fonts.Role
	Size        float64
	Leading     float64
	SpaceBefore float64
	SpaceAfter  float64
	Indent      float64
	Color       *RGB
}

// catalog is the fixed paragraph style table of the flow renderer.
var catalog = map[StyleID]Style{
	StyleBody: {
		Role: fonts.Normal, Size: 10, Leading: 12, SpaceAfter: 6,
	},
	StyleList: {
		Role: fonts.Normal, Size: 10, Leading: 12, SpaceAfter: 3, Indent: 18,
	},
	StyleListNested: {
		Role: fonts.Normal, Size: 10, Leading: 12, SpaceAfter: 3, Indent: 36,
	},
	StyleHeading1: {
		Role: fonts.Bold, Size: 14, Leading: 18, SpaceBefore: 10, SpaceAfter: 6,
		Color: &headingDark,
	},
	StyleHeading2: {
		Role: fonts.Bold, Size: 12, Leading: 15, SpaceBefore: 8, SpaceAfter: 4,
		Color: &headingMedium,
	},
	StyleHeading3: {
		Role: fonts.Bold, Size: 11, Leading: 14, SpaceBefore: 6, SpaceAfter: 3,
		Color: &headingMedium,
	},
	StyleCode: {
		Role: fonts.Mono, Size: 9, Leading: 11, SpaceAfter: 6,
	},
}

// headingStyle maps a heading depth to its catalog entry. Depths beyond
// three share the smallest heading style.
func headingStyle(level int) StyleID {
	switch level {
	case 1:
		return StyleHeading1
	case 2:
		return StyleHeading2
	default:
		return StyleHeading3
	}
}

// emuToPt converts English Metric Units to points. One inch is 914400
// EMUs and 72 points.
func emuToPt(emu int64) float64 {
	return float64(emu) / 914400 * 72
}
