package server

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/jonathan/resume-analyzer/internal/analysis"
	"github.com/jonathan/resume-analyzer/internal/extract"
	"github.com/jonathan/resume-analyzer/internal/profiles"
)

// Request errors raised by the upload handler.
var (
	ErrMissingFile = errors.New("No resume file provided")     //nolint:staticcheck // user-facing message
	ErrNoFilename  = errors.New("No file selected")            //nolint:staticcheck // user-facing message
	ErrBadForm     = errors.New("Invalid multipart form data") //nolint:staticcheck // user-facing message
	ErrBadJSON     = errors.New("Invalid JSON request body")   //nolint:staticcheck // user-facing message
)

// ErrUploadTooLarge indicates the uploaded resume exceeds the size limit
type ErrUploadTooLarge struct {
	Limit int64
}

func (e *ErrUploadTooLarge) Error() string {
	return fmt.Sprintf("File too large: the limit is %d MB", e.Limit>>20)
}

// HTTPStatus returns the appropriate HTTP status code for an error
func HTTPStatus(err error) int {
	var (
		unsupported *extract.UnsupportedFormatError
		corrupt     *extract.CorruptDocumentError
		invalid     *profiles.ValidationError
		notFound    *profiles.NotFoundError
		forbidden   *profiles.ForbiddenOperationError
		tooLarge    *ErrUploadTooLarge
	)

	switch {
	case err == nil:
		return http.StatusOK
	case errors.As(err, &unsupported):
		return http.StatusUnsupportedMediaType
	case errors.As(err, &corrupt):
		return http.StatusUnprocessableEntity
	case errors.As(err, &tooLarge):
		return http.StatusRequestEntityTooLarge
	case errors.As(err, &invalid),
		errors.Is(err, analysis.ErrNoText),
		errors.Is(err, ErrMissingFile),
		errors.Is(err, ErrNoFilename),
		errors.Is(err, ErrBadForm),
		errors.Is(err, ErrBadJSON):
		return http.StatusBadRequest
	case errors.As(err, &notFound):
		return http.StatusNotFound
	case errors.As(err, &forbidden):
		return http.StatusForbidden
	default:
		return http.StatusInternalServerError
	}
}
