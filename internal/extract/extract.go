// Package extract converts uploaded resume files into plain text.
package extract

import (
	"path/filepath"
	"strings"
)

// Format is a declared document format.
type Format string

// Supported formats.
const (
	FormatPDF  Format = "pdf"
	FormatDOC  Format = "doc"
	FormatDOCX Format = "docx"
	FormatTXT  Format = "txt"
)

// Formats lists every supported format.
var Formats = []Format{FormatPDF, FormatDOC, FormatDOCX, FormatTXT}

// ParseFormat normalizes a declared format ("PDF", ".docx") and rejects unknown ones.
func ParseFormat(s string) (Format, error) {
	f := Format(strings.TrimPrefix(strings.ToLower(strings.TrimSpace(s)), "."))
	switch f {
	case FormatPDF, FormatDOC, FormatDOCX, FormatTXT:
		return f, nil
	default:
		return "", &UnsupportedFormatError{Format: s}
	}
}

// FormatFromFilename derives the format from a file extension.
func FormatFromFilename(name string) (Format, error) {
	ext := filepath.Ext(name)
	if ext == "" {
		return "", &UnsupportedFormatError{Format: name}
	}
	return ParseFormat(ext)
}

// Extract returns the plain text of data interpreted as the declared format.
// The input slice is only read.
func Extract(data []byte, format Format) (string, error) {
	switch format {
	case FormatTXT:
		return extractTXT(data), nil
	case FormatPDF:
		return extractPDF(data)
	case FormatDOCX:
		return extractDOCX(data)
	case FormatDOC:
		return extractDOC(data)
	default:
		return "", &UnsupportedFormatError{Format: string(format)}
	}
}
