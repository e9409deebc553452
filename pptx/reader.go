// Package pptx reads Office Open XML presentations (.pptx) into a
// render-oriented model: slide geometry plus each slide's shapes in
// document order, with text formatting, picture references and tables.
package pptx

import (
	"archive/zip"
	"encoding/xml"
	"fmt"
	"io"
	"path"
	"regexp"
	"sort"
	"strconv"
	"strings"
)

// Default slide size, used when presentation.xml does not declare one.
// 9144000 x 6858000 EMUs is a 10 x 7.5 inch slide.
const (
	defaultSlideWidthEMU  = 9144000
	defaultSlideHeightEMU = 6858000
)

var slideNamePattern = regexp.MustCompile(`^ppt/slides/slide(\d+)\.xml$`)

// Deck is a parsed presentation.
type Deck struct {
	SlideWidthEMU  int64
	SlideHeightEMU int64
	Slides         []Slide
}

// Reader reads the contents of a .pptx file.
type Reader struct {
	zipReader *zip.ReadCloser
	deck      *Deck
	rels      map[int]*relationshipsXML // keyed by 1-based slide number
}

// NewReader opens a .pptx file and parses the presentation and all of
// its slides in slide-number order.
func NewReader(filename string) (*Reader, error) {
	zr, err := zip.OpenReader(filename)
	if err != nil {
		return nil, fmt.Errorf("opening pptx file: %w", err)
	}

	r := &Reader{zipReader: zr, rels: make(map[int]*relationshipsXML)}
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

// Deck returns the parsed presentation.
func (r *Reader) Deck() *Deck {
	return r.deck
}

func (r *Reader) parse() error {
	deck := &Deck{
		SlideWidthEMU:  defaultSlideWidthEMU,
		SlideHeightEMU: defaultSlideHeightEMU,
	}

	var pres presentationXML
	if err := r.readXMLPart("ppt/presentation.xml", &pres); err != nil {
		return fmt.Errorf("parsing presentation.xml: %w", err)
	}
	if cx := parseEMU(pres.SlideSize.CX); cx > 0 {
		deck.SlideWidthEMU = cx
	}
	if cy := parseEMU(pres.SlideSize.CY); cy > 0 {
		deck.SlideHeightEMU = cy
	}

	for _, num := range r.slideNumbers() {
		slide, err := r.parseSlide(num)
		if err != nil {
			return err
		}
		deck.Slides = append(deck.Slides, *slide)
	}

	r.deck = deck
	return nil
}

// slideNumbers returns the slide numbers present in the archive in
// ascending numeric order. Lexical zip order would put slide10 before
// slide2.
func (r *Reader) slideNumbers() []int {
	var nums []int
	for _, f := range r.zipReader.File {
		m := slideNamePattern.FindStringSubmatch(f.Name)
		if m == nil {
			continue
		}
		if n, err := strconv.Atoi(m[1]); err == nil {
			nums = append(nums, n)
		}
	}
	sort.Ints(nums)
	return nums
}

func (r *Reader) parseSlide(num int) (*Slide, error) {
	name := fmt.Sprintf("ppt/slides/slide%d.xml", num)

	var sld slideXML
	if err := r.readXMLPart(name, &sld); err != nil {
		return nil, fmt.Errorf("parsing %s: %w", name, err)
	}

	var rels relationshipsXML
	relName := fmt.Sprintf("ppt/slides/_rels/slide%d.xml.rels", num)
	if err := r.readXMLPart(relName, &rels); err == nil {
		r.rels[num] = &rels
	}

	slide := &Slide{Index: num}
	if bg := sld.CSld.Background; bg != nil && bg.Fill != nil && len(bg.Fill.Color.Val) == 6 {
		slide.Background = strings.ToUpper(bg.Fill.Color.Val)
	}
	for _, el := range sld.CSld.ShapeTree.Shapes {
		if shape, ok := buildShape(el); ok {
			slide.Shapes = append(slide.Shapes, shape)
		}
	}
	return slide, nil
}

// ImageBytes returns the raw bytes of an image part referenced from a
// slide by relationship ID. slideIndex is the 1-based slide number.
func (r *Reader) ImageBytes(slideIndex int, relID string) ([]byte, error) {
	rels := r.rels[slideIndex]
	if rels == nil {
		return nil, fmt.Errorf("slide %d has no relationships part", slideIndex)
	}
	var target string
	for _, rel := range rels.Relationships {
		if rel.ID == relID {
			target = rel.Target
			break
		}
	}
	if target == "" {
		return nil, fmt.Errorf("relationship %s not found on slide %d", relID, slideIndex)
	}

	// Targets are relative to ppt/slides/ unless rooted, so "../media/x"
	// resolves to ppt/media/x.
	name := path.Clean(path.Join("ppt/slides", target))
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
