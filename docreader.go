// Package docreader converts Office Open XML documents (.docx) and
// presentations (.pptx) to PDF. Legacy binary formats (.doc, .ppt, .rtf)
// are refused with guidance rather than converted best-effort.
package docreader

import (
	"fmt"
	"log/slog"
	"path/filepath"
	"strings"

	"github.com/stellarshenson/jupyterlab-doc-reader-extension/docx"
	"github.com/stellarshenson/jupyterlab-doc-reader-extension/fonts"
	"github.com/stellarshenson/jupyterlab-doc-reader-extension/format"
	"github.com/stellarshenson/jupyterlab-doc-reader-extension/pptx"
	"github.com/stellarshenson/jupyterlab-doc-reader-extension/render"
)

// Options configures a conversion.
type Options struct {
	// Logger receives conversion diagnostics. Nil discards them.
	Logger *slog.Logger

	// FontSets overrides the probed Unicode font candidates and is
	// resolved fresh on every conversion. Nil uses the cached probe of
	// fonts.DefaultCandidates.
	FontSets []fonts.CandidateSet
}

// Result is a completed conversion.
type Result struct {
	// PDF holds the complete rendered document.
	PDF []byte

	// Filename is the source name with its extension replaced by .pdf.
	Filename string
}

// Convert converts a document on disk and returns the PDF bytes.
func Convert(path string) ([]byte, error) {
	res, err := ConvertFile(path)
	if err != nil {
		return nil, err
	}
	return res.PDF, nil
}

// ConvertFile converts a document on disk to PDF with default options.
func ConvertFile(path string) (*Result, error) {
	return ConvertFileWithOptions(path, Options{})
}

// ConvertFileWithOptions converts a document on disk to PDF. The format
// is chosen by extension and cross-checked against the file contents, so
// a legacy binary file renamed to .docx is refused, not mangled.
func ConvertFileWithOptions(path string, opts Options) (*Result, error) {
	logger := opts.Logger
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}

	f := format.Detect(path)
	switch {
	case f.Legacy():
		return nil, legacyError(f)
	case !f.Modern():
		ext := format.Ext(path)
		if ext == "" {
			ext = "(none)"
		}
		return nil, fmt.Errorf("%w: %s files cannot be converted, supported formats are DOCX and PPTX",
			ErrUnsupportedFormat, ext)
	}

	sniffed, err := format.Sniff(path)
	if err != nil {
		return nil, fmt.Errorf("%w: reading %s: %v", ErrConversionFailed, filepath.Base(path), err)
	}
	if sniffed.Legacy() {
		return nil, fmt.Errorf("%w: file has a %s extension but legacy binary contents, re-save it as %s",
			ErrLegacyFormat, f, f)
	}

	var pdf []byte
	switch f {
	case format.DOCX:
		pdf, err = convertDocx(path, opts, logger)
	case format.PPTX:
		pdf, err = convertPptx(path, opts, logger)
	}
	if err != nil {
		return nil, err
	}

	logger.Info("converted document", "file", filepath.Base(path), "format", f.String(),
		"pdf_bytes", len(pdf))
	return &Result{PDF: pdf, Filename: pdfName(path)}, nil
}

func legacyError(f format.Format) error {
	if f == format.RTF {
		return fmt.Errorf("%w: RTF conversion is not supported, save the file as DOCX first",
			ErrLegacyFormat)
	}
	return fmt.Errorf("%w: %s is a legacy format, convert the file to %s for best results",
		ErrLegacyFormat, f, f.ModernEquivalent())
}

func convertDocx(path string, opts Options, logger *slog.Logger) ([]byte, error) {
	r, err := docx.NewReader(path)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrConversionFailed, err)
	}
	defer r.Close()

	blocks := render.BuildBlocks(r.Body(), r, logger)
	fr := &render.FlowRenderer{Logger: logger, FontSets: opts.FontSets}
	pdf, err := fr.Render(blocks)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrConversionFailed, err)
	}
	return pdf, nil
}

func convertPptx(path string, opts Options, logger *slog.Logger) ([]byte, error) {
	r, err := pptx.NewReader(path)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrConversionFailed, err)
	}
	defer r.Close()

	dr := &render.DeckRenderer{Logger: logger, FontSets: opts.FontSets}
	pdf, err := dr.Render(r.Deck(), r)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrConversionFailed, err)
	}
	return pdf, nil
}

func pdfName(path string) string {
	base := filepath.Base(path)
	return strings.TrimSuffix(base, filepath.Ext(base)) + ".pdf"
}
