package render

import (
	"fmt"
	"log/slog"
	"strings"

	"github.com/stellarshenson/jupyterlab-doc-reader-extension/docx"
)

// Emphasis is the inline formatting of a styled run. Mono wins over the
// other flags: code spans keep their own typeface and nothing else.
type Emphasis struct {
	Mono        bool
	Bold        bool
	Italic      bool
	Underline   bool
	Strike      bool
	Subscript   bool
	Superscript bool
	Color       *RGB
}

// StyledRun is a span of text with resolved inline formatting.
type StyledRun struct {
	Text string
	Em   Emphasis
}

// BlockKind discriminates the flow layout block variants.
type BlockKind int

const (
	BlockText BlockKind = iota
	BlockTable
	BlockImage
	BlockRule
	BlockSpacer
)

// Block is one element of the flow layout, produced from a body element
// by BuildBlocks.
type Block struct {
	Kind BlockKind

	// BlockText
	Style  StyleID
	Marker string // list bullet or number prefix, including trailing space
	Runs   []StyledRun

	// BlockTable
	Rows [][]string

	// BlockImage
	ImageData []byte
	WidthEMU  int64
	HeightEMU int64

	// BlockSpacer
	Height float64
}

// ImageSource supplies embedded image bytes by relationship ID.
type ImageSource interface {
	ImageBytes(relID string) ([]byte, error)
}

// monoKeywords mark code-like paragraph and run styles.
var monoKeywords = []string{"code", "verbatim", "mono", "console"}

// monoFonts mark code-like run fonts.
var monoFonts = []string{"courier", "consolas", "mono", "code"}

func containsAny(s string, keys []string) bool {
	s = strings.ToLower(s)
	for _, k := range keys {
		if strings.Contains(s, k) {
			return true
		}
	}
	return false
}

// BuildBlocks converts the ordered document body into layout blocks,
// resolving heading styles, list markers and embedded images. List
// numbering follows the document flow: counters survive headings and
// reset on plain body paragraphs.
func BuildBlocks(body []docx.BodyElement, images ImageSource, logger *slog.Logger) []Block {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}

	var blocks []Block
	counters := [3]int{}
	lastLevel := -1

	for _, el := range body {
		switch {
		case el.Table != nil:
			blocks = append(blocks, Block{Kind: BlockTable, Rows: el.Table.Rows})

		case el.Paragraph != nil:
			p := el.Paragraph
			text := strings.TrimSpace(p.Text)

			switch {
			case p.HeadingLevel > 0 && text != "":
				// Headings interrupt a list without restarting its
				// numbering; only the level tracker resets.
				lastLevel = -1
				blocks = append(blocks, Block{
					Kind:  BlockText,
					Style: headingStyle(p.HeadingLevel),
					Runs:  styledRuns(p),
				})

			case isListParagraph(p) && text != "":
				level := listLevel(p)
				marker := "• "
				if level > 0 {
					marker = "◦ "
				}
				if isNumberedList(p) {
					if level <= lastLevel {
						for i := level + 1; i < len(counters); i++ {
							counters[i] = 0
						}
					}
					counters[level]++
					marker = fmt.Sprintf("%d. ", counters[level])
				}
				lastLevel = level
				style := StyleList
				if level > 0 {
					style = StyleListNested
				}
				blocks = append(blocks, Block{
					Kind:   BlockText,
					Style:  style,
					Marker: marker,
					Runs:   styledRuns(p),
				})

			case text == "" && p.HasBorder:
				// A bordered empty paragraph is a horizontal rule.
				// It neither continues nor terminates a list.
				blocks = append(blocks, Block{Kind: BlockRule})

			case text == "":
				// One body line of vertical space.
				blocks = append(blocks, Block{Kind: BlockSpacer, Height: 12})

			default:
				// A plain body paragraph ends any open list for good.
				counters = [3]int{}
				lastLevel = -1
				style := StyleBody
				if containsAny(p.StyleName, monoKeywords) || containsAny(p.StyleID, monoKeywords) {
					style = StyleCode
				}
				blocks = append(blocks, Block{
					Kind:  BlockText,
					Style: style,
					Runs:  styledRuns(p),
				})
			}

			// Embedded images follow their paragraph's text.
			for _, img := range p.Images {
				if images == nil {
					break
				}
				data, err := images.ImageBytes(img.RelID)
				if err != nil {
					logger.Debug("skipping unresolvable image", "rel_id", img.RelID, "error", err)
					continue
				}
				blocks = append(blocks, Block{
					Kind:      BlockImage,
					ImageData: data,
					WidthEMU:  img.WidthEMU,
					HeightEMU: img.HeightEMU,
				})
			}
		}
	}
	return blocks
}

func isListParagraph(p *docx.Paragraph) bool {
	if p.HasNumbering {
		return true
	}
	return strings.Contains(strings.ToLower(p.StyleName), "list") ||
		strings.Contains(strings.ToLower(p.StyleID), "list")
}

func isNumberedList(p *docx.Paragraph) bool {
	name := strings.ToLower(p.StyleName + " " + p.StyleID)
	return strings.Contains(name, "number")
}

// listLevel derives the nesting depth of a list paragraph: an explicit
// numbering level wins, then a digit in the style name, then deep
// indentation. Only two depths are distinguished.
func listLevel(p *docx.Paragraph) int {
	if p.NumberingLevel > 0 {
		return 1
	}
	name := strings.ToLower(p.StyleName + " " + p.StyleID)
	if strings.Contains(name, "2") || strings.Contains(name, "3") {
		return 1
	}
	if p.IndentLeftTwips > 720 {
		return 1
	}
	return 0
}

// styledRuns resolves each run's emphasis. Empty runs are dropped; a
// paragraph whose runs are all empty still yields its trimmed text so
// nothing is lost when a producer omits run elements.
func styledRuns(p *docx.Paragraph) []StyledRun {
	var out []StyledRun
	for _, r := range p.Runs {
		text := cleanText(r.Text)
		if text == "" {
			continue
		}
		out = append(out, StyledRun{Text: text, Em: runEmphasis(r)})
	}
	if out == nil && strings.TrimSpace(p.Text) != "" {
		out = []StyledRun{{Text: cleanText(strings.TrimSpace(p.Text))}}
	}
	return out
}

// runEmphasis maps run formatting onto an Emphasis. A code-like run
// style or font short-circuits everything else.
func runEmphasis(r docx.Run) Emphasis {
	if containsAny(r.StyleName, monoKeywords) || containsAny(r.StyleID, monoKeywords) ||
		containsAny(r.FontName, monoFonts) {
		return Emphasis{Mono: true}
	}
	em := Emphasis{
		Bold:        r.Bold,
		Italic:      r.Italic,
		Underline:   r.Underline,
		Strike:      r.Strike,
		Subscript:   r.Subscript,
		Superscript: r.Superscript,
	}
	if c := parseHexColor(r.Color); c != nil {
		em.Color = c
	}
	return em
}

func parseHexColor(s string) *RGB {
	if len(s) != 6 {
		return nil
	}
	var c RGB
	if _, err := fmt.Sscanf(s, "%02x%02x%02x", &c.R, &c.G, &c.B); err != nil {
		return nil
	}
	return &c
}
