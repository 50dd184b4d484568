package domain

import "strings"

// DocumentFormat identifies the chunking strategy for a document.
// Formats are mapped from the filename extension at upload time and
// dispatched to a registered chunker strategy.
type DocumentFormat string

// Supported document formats.
const (
	// FormatPlainText is unstructured prose, split on sentence boundaries.
	FormatPlainText DocumentFormat = "plaintext"

	// FormatMarkdown is structured markup, split on heading boundaries.
	FormatMarkdown DocumentFormat = "markdown"

	// FormatCode is source code, split on function and class boundaries.
	FormatCode DocumentFormat = "code"

	// FormatBDD is behaviour-driven test text, split on scenario boundaries.
	FormatBDD DocumentFormat = "bdd"
)

// IsValid returns true if the format is recognised.
func (f DocumentFormat) IsValid() bool {
	switch f {
	case FormatPlainText, FormatMarkdown, FormatCode, FormatBDD:
		return true
	default:
		return false
	}
}

// String returns the string representation.
func (f DocumentFormat) String() string {
	return string(f)
}

// formatByExtension maps filename extensions to chunking formats.
// Extensions absent from this map fall back to plain text, matching the
// permissive loader behaviour users expect from drag-and-drop upload.
// Binary extensions are listed in binaryExtensions and rejected instead.
var formatByExtension = map[string]DocumentFormat{
	".txt":      FormatPlainText,
	".text":     FormatPlainText,
	".log":      FormatPlainText,
	".md":       FormatMarkdown,
	".markdown": FormatMarkdown,
	".rst":      FormatMarkdown,
	".py":       FormatCode,
	".go":       FormatCode,
	".js":       FormatCode,
	".ts":       FormatCode,
	".java":     FormatCode,
	".rb":       FormatCode,
	".sh":       FormatCode,
	".feature":  FormatBDD,
}

// binaryExtensions are formats that cannot be chunked as text.
// Upload fails fast with ErrUnsupportedFormat before any pipeline work.
var binaryExtensions = map[string]bool{
	".bin":  true,
	".exe":  true,
	".dll":  true,
	".so":   true,
	".png":  true,
	".jpg":  true,
	".jpeg": true,
	".gif":  true,
	".zip":  true,
	".gz":   true,
	".tar":  true,
}

// FormatForExtension maps a filename extension to a document format.
// Unknown text-like extensions default to plain text; known binary
// extensions return ErrUnsupportedFormat.
func FormatForExtension(ext string) (DocumentFormat, error) {
	ext = strings.ToLower(ext)
	if binaryExtensions[ext] {
		return "", ErrUnsupportedFormat
	}
	if format, ok := formatByExtension[ext]; ok {
		return format, nil
	}
	return FormatPlainText, nil
}
