package docx

import (
	"strconv"
	"strings"
)

// builtinHeadings maps Word's built-in style IDs to heading depth.
var builtinHeadings = map[string]int{
	"heading1": 1, "heading2": 2, "heading3": 3,
	"heading4": 4, "heading5": 5, "heading6": 6,
	"heading7": 7, "heading8": 8, "heading9": 9,
	"title": 1,
}

// StyleResolver resolves style IDs against the document's style sheet.
type StyleResolver struct {
	byID map[string]*styleDefXML
}

// NewStyleResolver builds a resolver from a parsed styles part. A nil
// styles part yields a resolver that falls back to built-in style IDs.
func NewStyleResolver(styles *stylesXML) *StyleResolver {
	sr := &StyleResolver{byID: make(map[string]*styleDefXML)}
	if styles != nil {
		for i := range styles.Styles {
			s := &styles.Styles[i]
			sr.byID[s.StyleID] = s
		}
	}
	return sr
}

// Name returns the display name of a style, falling back to the ID itself
// when the style sheet does not define it.
func (sr *StyleResolver) Name(styleID string) string {
	if styleID == "" {
		return ""
	}
	if s, ok := sr.byID[styleID]; ok && s.Name.Val != "" {
		return s.Name.Val
	}
	return styleID
}

// HeadingLevel reports the heading depth of a paragraph style, or 0 when
// the style is not a heading. Built-in IDs are checked first, then the
// style's outline level, then a name-based fallback for custom styles.
func (sr *StyleResolver) HeadingLevel(styleID string) int {
	if styleID == "" {
		return 0
	}
	if lvl, ok := builtinHeadings[strings.ToLower(styleID)]; ok {
		return lvl
	}
	if s, ok := sr.byID[styleID]; ok {
		if n, err := strconv.Atoi(s.OutlineLvl.Val); err == nil && n >= 0 && n < 9 {
			return n + 1
		}
		if strings.Contains(strings.ToLower(s.Name.Val), "heading") {
			return 1
		}
	}
	if strings.Contains(strings.ToLower(styleID), "heading") {
		return 1
	}
	return 0
}

// parseTwips parses a twentieth-of-a-point measurement attribute.
func parseTwips(s string) int {
	n, err := strconv.Atoi(s)
	if err != nil {
		return 0
	}
	return n
}

// parseHalfPoints parses a half-point font size attribute into points.
func parseHalfPoints(s string) float64 {
	n, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0
	}
	return n / 2
}

// parseEMU parses an English Metric Unit measurement attribute.
func parseEMU(s string) int64 {
	n, err := strconv.ParseInt(s, 10, 64)
	if err != nil {
		return 0
	}
	return n
}
