package extract

import "fmt"

// UnsupportedFormatError is returned for a declared format other than pdf, doc, docx or txt.
type UnsupportedFormatError struct {
	Format string
}

func (e *UnsupportedFormatError) Error() string {
	return fmt.Sprintf("unsupported document format %q: expected one of pdf, doc, docx, txt", e.Format)
}

// CorruptDocumentError is returned when the byte stream cannot be parsed at all.
// Partial extraction (some unreadable pages) is not an error.
type CorruptDocumentError struct {
	Format  string
	Message string
	Cause   error
}

func (e *CorruptDocumentError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("corrupt %s document: %s: %v", e.Format, e.Message, e.Cause)
	}
	return fmt.Sprintf("corrupt %s document: %s", e.Format, e.Message)
}

func (e *CorruptDocumentError) Unwrap() error {
	return e.Cause
}

func corrupt(format Format, message string, cause error) error {
	return &CorruptDocumentError{Format: string(format), Message: message, Cause: cause}
}
