// Package fonts locates Unicode-capable TrueType fonts on the host and
// registers them with a PDF engine, falling back to the built-in core
// fonts when no usable family is installed.
package fonts

import (
	"log/slog"
	"os"
	"path/filepath"
	"sync"

	"codeberg.org/go-pdf/fpdf"
)

// unicodeFamily is the name the resolved TrueType family is registered
// under in each PDF document.
const unicodeFamily = "UnicodeSans"

// Role identifies a typeface role requested by a renderer.
type Role int

const (
	Normal Role = iota
	Bold
	Italic
	BoldItalic
	Mono
)

// CandidateSet names the files of one installed font family. Normal and
// Bold are required for the set to be usable; the italic faces are
// optional.
type CandidateSet struct {
	Name       string
	Normal     string
	Bold       string
	Italic     string
	BoldItalic string
}

// DefaultCandidates returns the font families probed in preference
// order on a typical Linux host.
func DefaultCandidates() []CandidateSet {
	return CandidatesUnder("/usr/share/fonts/truetype")
}

// CandidatesUnder returns the standard candidate families with their
// file paths rooted at dir, for hosts that keep fonts elsewhere.
func CandidatesUnder(dir string) []CandidateSet {
	return []CandidateSet{
		{
			Name:       "DejaVu Sans",
			Normal:     filepath.Join(dir, "dejavu", "DejaVuSans.ttf"),
			Bold:       filepath.Join(dir, "dejavu", "DejaVuSans-Bold.ttf"),
			Italic:     filepath.Join(dir, "dejavu", "DejaVuSans-Oblique.ttf"),
			BoldItalic: filepath.Join(dir, "dejavu", "DejaVuSans-BoldOblique.ttf"),
		},
		{
			Name:       "Liberation Sans",
			Normal:     filepath.Join(dir, "liberation", "LiberationSans-Regular.ttf"),
			Bold:       filepath.Join(dir, "liberation", "LiberationSans-Bold.ttf"),
			Italic:     filepath.Join(dir, "liberation", "LiberationSans-Italic.ttf"),
			BoldItalic: filepath.Join(dir, "liberation", "LiberationSans-BoldItalic.ttf"),
		},
		{
			Name:       "FreeSans",
			Normal:     filepath.Join(dir, "freefont", "FreeSans.ttf"),
			Bold:       filepath.Join(dir, "freefont", "FreeSansBold.ttf"),
			Italic:     filepath.Join(dir, "freefont", "FreeSansOblique.ttf"),
			BoldItalic: filepath.Join(dir, "freefont", "FreeSansBoldOblique.ttf"),
		},
	}
}

// resolution caches the probe of the default host directories so
// repeated conversions do not stat them again. Caller-supplied
// candidate sets are probed on every conversion and never cached.
var resolution struct {
	sync.Mutex
	done  bool
	found *CandidateSet
}

// resolveDefault probes DefaultCandidates once per process.
func resolveDefault() *CandidateSet {
	resolution.Lock()
	defer resolution.Unlock()
	if !resolution.done {
		resolution.done = true
		resolution.found = resolveSet(DefaultCandidates())
	}
	return resolution.found
}

// resolveSet returns the first candidate set whose normal and bold faces
// exist on disk, or nil when none qualifies.
func resolveSet(sets []CandidateSet) *CandidateSet {
	for i := range sets {
		s := sets[i]
		if fileExists(s.Normal) && fileExists(s.Bold) {
			if !fileExists(s.Italic) {
				s.Italic = ""
			}
			if !fileExists(s.BoldItalic) {
				s.BoldItalic = ""
			}
			return &s
		}
	}
	return nil
}

func fileExists(path string) bool {
	if path == "" {
		return false
	}
	info, err := os.Stat(path)
	return err == nil && !info.IsDir()
}

// Selection is a concrete typeface choice for a role. Core selections
// use one of the PDF built-in fonts and need codepage translation.
type Selection struct {
	Family string
	Style  string // "", B, I, BI
	Core   bool
}

// Registry maps typeface roles to fonts registered on one PDF document.
type Registry struct {
	byRole    map[Role]Selection
	unicode   bool
	translate func(string) string
}

// Provision registers the best available Unicode font family on pdf and
// returns a registry for it. A nil sets slice means the cached default
// host probe; explicit sets are probed fresh. Registration failures are
// logged and downgrade the affected roles to core fonts; the document
// stays usable.
func Provision(pdf *fpdf.Fpdf, sets []CandidateSet, logger *slog.Logger) *Registry {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	reg := &Registry{
		byRole: map[Role]Selection{
			Normal:     {Family: "Helvetica"},
			Bold:       {Family: "Helvetica", Style: "B"},
			Italic:     {Family: "Helvetica", Style: "I"},
			BoldItalic: {Family: "Helvetica", Style: "BI"},
			Mono:       {Family: "Courier"},
		},
		translate: pdf.UnicodeTranslatorFromDescriptor(""),
	}
	for role, sel := range reg.byRole {
		sel.Core = true
		reg.byRole[role] = sel
	}

	var set *CandidateSet
	if sets == nil {
		set = resolveDefault()
	} else {
		set = resolveSet(sets)
	}
	if set == nil {
		logger.Warn("no unicode font family found, using core fonts")
		return reg
	}

	if !addFace(pdf, "", set.Normal) || !addFace(pdf, "B", set.Bold) {
		logger.Warn("unicode font registration failed, using core fonts",
			"family", set.Name)
		pdf.ClearError()
		return reg
	}
	reg.unicode = true
	reg.byRole[Normal] = Selection{Family: unicodeFamily}
	reg.byRole[Bold] = Selection{Family: unicodeFamily, Style: "B"}

	if set.Italic != "" && addFace(pdf, "I", set.Italic) {
		reg.byRole[Italic] = Selection{Family: unicodeFamily, Style: "I"}
	} else {
		pdf.ClearError()
		logger.Debug("italic face unavailable, substituting core oblique",
			"family", set.Name)
	}
	if set.BoldItalic != "" && addFace(pdf, "BI", set.BoldItalic) {
		reg.byRole[BoldItalic] = Selection{Family: unicodeFamily, Style: "BI"}
	} else {
		pdf.ClearError()
	}

	logger.Debug("registered unicode fonts", "family", set.Name)
	return reg
}

// addFace registers one TrueType face, absorbing both panics and the
// engine's sticky error so a bad font file cannot poison the document.
func addFace(pdf *fpdf.Fpdf, style, path string) (ok bool) {
	defer func() {
		if recover() != nil {
			ok = false
		}
	}()
	pdf.AddUTF8Font(unicodeFamily, style, path)
	if pdf.Err() {
		return false
	}
	return true
}

// Select returns the typeface registered for a role.
func (r *Registry) Select(role Role) Selection {
	return r.byRole[role]
}

// Unicode reports whether a TrueType family was registered, meaning text
// can be emitted without codepage translation.
func (r *Registry) Unicode() bool {
	return r.unicode
}

// Prepare adapts text for the given role's typeface. Core fonts only
// cover cp1252, so text headed for them is translated; TrueType faces
// take UTF-8 as is.
func (r *Registry) Prepare(role Role, s string) string {
	if r.byRole[role].Core {
		return r.translate(s)
	}
	return s
}
