package server

import (
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"

	"go.uber.org/zap"

	"github.com/jonathan/resume-analyzer/internal/analysis"
	"github.com/jonathan/resume-analyzer/internal/extract"
	"github.com/jonathan/resume-analyzer/internal/logger"
)

// multipartOverhead allows for boundaries and the job_profile field on top of the file limit.
const multipartOverhead = 64 << 10

// handleAnalyzeResume analyzes an uploaded resume, optionally against a job profile.
// Size and extension are checked before any extraction work.
func (s *Server) handleAnalyzeResume(w http.ResponseWriter, r *http.Request) {
	if r.ContentLength > s.maxUpload+multipartOverhead {
		s.failWith(w, r, &ErrUploadTooLarge{Limit: s.maxUpload})
		return
	}

	r.Body = http.MaxBytesReader(w, r.Body, s.maxUpload+multipartOverhead)
	if err := r.ParseMultipartForm(s.maxUpload); err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			s.failWith(w, r, &ErrUploadTooLarge{Limit: s.maxUpload})
			return
		}
		s.failWith(w, r, ErrBadForm)
		return
	}
	defer func() {
		_ = r.MultipartForm.RemoveAll()
	}()

	file, header, err := r.FormFile("resume")
	if err != nil {
		if errors.Is(err, http.ErrMissingFile) {
			s.failWith(w, r, ErrMissingFile)
			return
		}
		s.failWith(w, r, ErrBadForm)
		return
	}
	defer func() {
		_ = file.Close()
	}()

	filename := strings.TrimSpace(header.Filename)
	if filename == "" {
		s.failWith(w, r, ErrNoFilename)
		return
	}
	if _, err := extract.FormatFromFilename(filename); err != nil {
		s.failWith(w, r, err)
		return
	}
	if header.Size > s.maxUpload {
		s.failWith(w, r, &ErrUploadTooLarge{Limit: s.maxUpload})
		return
	}

	data, err := io.ReadAll(io.LimitReader(file, s.maxUpload+1))
	if err != nil {
		s.failWith(w, r, fmt.Errorf("failed to read upload: %w", err))
		return
	}
	if int64(len(data)) > s.maxUpload {
		s.failWith(w, r, &ErrUploadTooLarge{Limit: s.maxUpload})
		return
	}

	profileID := strings.TrimSpace(r.FormValue("job_profile"))

	result, err := s.analyzer.Analyze(r.Context(), analysis.Request{
		Filename:     filename,
		Data:         data,
		JobProfileID: profileID,
	})
	if err != nil {
		s.requestLogger(r).Info("resume analysis rejected",
			zap.String("filename", filename),
			zap.String(logger.FieldProfileID, profileID),
			zap.Error(err))
		s.failWith(w, r, err)
		return
	}

	s.jsonResponse(w, http.StatusOK, result)
}
