// Package format provides source-document format detection for the converter.
package format

import (
	"strings"

	"github.com/gabriel-vasile/mimetype"
)

// Format represents a source document format.
type Format int

const (
	// Unknown indicates an unrecognized format.
	Unknown Format = iota
	// DOCX indicates a Microsoft Word (.docx) document.
	DOCX
	// PPTX indicates a Microsoft PowerPoint (.pptx) presentation.
	PPTX
	// LegacyDoc indicates a legacy binary Word (.doc) document.
	LegacyDoc
	// LegacyPPT indicates a legacy binary PowerPoint (.ppt) presentation.
	LegacyPPT
	// RTF indicates a Rich Text Format (.rtf) document.
	RTF
	// LegacyBinary indicates OLE compound-file content detected by
	// sniffing, regardless of the file's extension.
	LegacyBinary
)

// String returns the string representation of the format.
func (f Format) String() string {
	switch f {
	case DOCX:
		return "DOCX"
	case PPTX:
		return "PPTX"
	case LegacyDoc:
		return "DOC"
	case LegacyPPT:
		return "PPT"
	case RTF:
		return "RTF"
	case LegacyBinary:
		return "legacy binary Office"
	default:
		return "Unknown"
	}
}

// Modern reports whether the format is one the converter can render.
func (f Format) Modern() bool {
	return f == DOCX || f == PPTX
}

// Legacy reports whether the format is refused as a legacy format.
func (f Format) Legacy() bool {
	switch f {
	case LegacyDoc, LegacyPPT, RTF, LegacyBinary:
		return true
	}
	return false
}

// ModernEquivalent returns the format callers should convert a legacy file
// to, for use in refusal messages.
func (f Format) ModernEquivalent() string {
	if f == LegacyPPT {
		return "PPTX"
	}
	return "DOCX"
}

// Ext returns the lowercased extension of filename, including the dot.
func Ext(filename string) string {
	idx := strings.LastIndexByte(filename, '.')
	if idx < 0 || idx == len(filename)-1 {
		return ""
	}
	ext := filename[idx:]
	if strings.ContainsAny(ext, "/\\") {
		return ""
	}
	return strings.ToLower(ext)
}

// Detect determines the file format from the filename extension,
// case-insensitively.
func Detect(filename string) Format {
	switch Ext(filename) {
	case ".docx":
		return DOCX
	case ".pptx":
		return PPTX
	case ".doc":
		return LegacyDoc
	case ".ppt":
		return LegacyPPT
	case ".rtf":
		return RTF
	default:
		return Unknown
	}
}

// Sniff inspects file content to refine extension-based detection. It
// recognizes OOXML packages and, more importantly, legacy OLE compound
// files hiding behind a modern extension, so the caller can refuse them
// with a precise message instead of a generic archive error. A plain ZIP
// archive that cannot be narrowed further sniffs as Unknown, which callers
// should treat as "no objection".
func Sniff(path string) (Format, error) {
	mtype, err := mimetype.DetectFile(path)
	if err != nil {
		return Unknown, err
	}
	switch {
	case mtype.Is("application/vnd.openxmlformats-officedocument.wordprocessingml.document"):
		return DOCX, nil
	case mtype.Is("application/vnd.openxmlformats-officedocument.presentationml.presentation"):
		return PPTX, nil
	case mtype.Is("application/msword"):
		return LegacyDoc, nil
	case mtype.Is("application/vnd.ms-powerpoint"):
		return LegacyPPT, nil
	case mtype.Is("text/rtf"), mtype.Is("application/rtf"):
		return RTF, nil
	case mtype.Is("application/x-ole-storage"):
		return LegacyBinary, nil
	default:
		return Unknown, nil
	}
}
