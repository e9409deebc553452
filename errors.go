package docreader

import "errors"

// Sentinel errors for conversion operations.
var (
	// ErrUnsupportedFormat indicates a file type the converter does not
	// handle at all.
	ErrUnsupportedFormat = errors.New("unsupported file type")

	// ErrLegacyFormat indicates a legacy binary Office format (.doc, .ppt,
	// .rtf). These are refused outright rather than converted best-effort.
	ErrLegacyFormat = errors.New("legacy format not supported")

	// ErrMissingDependency indicates the PDF engine could not be
	// initialized in the running environment.
	ErrMissingDependency = errors.New("pdf engine unavailable")

	// ErrConversionFailed wraps any parse or layout error for an otherwise
	// supported format. A conversion either completes fully or fails with
	// this error; a truncated PDF is never returned.
	ErrConversionFailed = errors.New("conversion failed")
)

// ErrorKind returns a stable label for an error returned by Convert,
// suitable for a machine-readable field in an HTTP error envelope.
func ErrorKind(err error) string {
	switch {
	case errors.Is(err, ErrLegacyFormat), errors.Is(err, ErrUnsupportedFormat):
		return "UnsupportedFormat"
	case errors.Is(err, ErrMissingDependency):
		return "MissingDependency"
	default:
		return "ConversionFailure"
	}
}
