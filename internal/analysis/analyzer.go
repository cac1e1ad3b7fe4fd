// Package analysis assembles a MatchResult from an uploaded resume: text
// extraction, signal extraction, optional scoring against a job profile and the
// model narrative.
package analysis

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"go.uber.org/zap"
	"golang.org/x/sync/semaphore"

	"github.com/jonathan/resume-analyzer/internal/extract"
	"github.com/jonathan/resume-analyzer/internal/logger"
	"github.com/jonathan/resume-analyzer/internal/narrative"
	"github.com/jonathan/resume-analyzer/internal/observability"
	"github.com/jonathan/resume-analyzer/internal/scoring"
	"github.com/jonathan/resume-analyzer/internal/signals"
	"github.com/jonathan/resume-analyzer/internal/types"
)

// ErrNoText is returned when a readable document contains no text.
var ErrNoText = errors.New("Could not extract text from the resume") //nolint:staticcheck // user-facing message

// ProfileSource resolves job profiles by id.
type ProfileSource interface {
	Get(ctx context.Context, id string) (types.JobProfile, error)
}

// Step names reported through ProgressCallback.
const (
	StepExtract   = "extract"
	StepSignals   = "signals"
	StepScore     = "score"
	StepNarrative = "narrative"
)

// ProgressEvent represents one finished step of an analysis.
type ProgressEvent struct {
	Filename string
	Step     string
	Message  string
}

// ProgressCallback is called when an analysis step completes.
type ProgressCallback func(event ProgressEvent)

// Request is one resume to analyze.
type Request struct {
	Filename     string
	Data         []byte
	JobProfileID string
	OnProgress   ProgressCallback
}

// Analyzer runs analyses. It is safe for concurrent use.
type Analyzer struct {
	signals  *signals.Analyzer
	scorer   *scoring.Scorer
	profiles ProfileSource
	narrator *narrative.Narrator
	sem      *semaphore.Weighted
	limit    int64
	logger   *zap.Logger
	metrics  *observability.Metrics
}

// Options configures an Analyzer. Only Scorer and Profiles are required.
type Options struct {
	Signals       *signals.Analyzer
	Scorer        *scoring.Scorer
	Profiles      ProfileSource
	Narrator      *narrative.Narrator
	MaxConcurrent int
	Logger        *zap.Logger
	Metrics       *observability.Metrics
}

// New creates an Analyzer.
func New(opts Options) (*Analyzer, error) {
	if opts.Scorer == nil {
		return nil, fmt.Errorf("analysis: scorer is required")
	}
	if opts.Profiles == nil {
		return nil, fmt.Errorf("analysis: profile source is required")
	}
	if opts.Signals == nil {
		opts.Signals = signals.NewAnalyzer(nil)
	}
	if opts.MaxConcurrent < 1 {
		opts.MaxConcurrent = 1
	}
	if opts.Logger == nil {
		opts.Logger = zap.NewNop()
	}

	return &Analyzer{
		signals:  opts.Signals,
		scorer:   opts.Scorer,
		profiles: opts.Profiles,
		narrator: opts.Narrator,
		sem:      semaphore.NewWeighted(int64(opts.MaxConcurrent)),
		limit:    int64(opts.MaxConcurrent),
		logger:   opts.Logger,
		metrics:  opts.Metrics,
	}, nil
}

// Analyze runs one analysis. The document format comes from the filename
// extension. Errors are typed: *extract.UnsupportedFormatError,
// *extract.CorruptDocumentError, *profiles.NotFoundError or ErrNoText.
func (a *Analyzer) Analyze(ctx context.Context, req Request) (*types.MatchResult, error) {
	start := time.Now()
	result, err := a.analyze(ctx, req)
	a.metrics.ObserveAnalysis(outcome(err), time.Since(start))
	return result, err
}

func (a *Analyzer) analyze(ctx context.Context, req Request) (*types.MatchResult, error) {
	log := a.logger.With(zap.String("filename", req.Filename))

	format, err := extract.FormatFromFilename(req.Filename)
	if err != nil {
		return nil, err
	}

	// Resolve the profile before doing any work so an unknown id fails fast.
	var profile *types.JobProfile
	if id := strings.TrimSpace(req.JobProfileID); id != "" {
		p, err := a.profiles.Get(ctx, id)
		if err != nil {
			return nil, err
		}
		profile = &p
		log = log.With(zap.String(logger.FieldProfileID, id))
	}

	if err := a.sem.Acquire(ctx, 1); err != nil {
		return nil, fmt.Errorf("analysis cancelled while waiting for a slot: %w", err)
	}
	defer a.sem.Release(1)

	text, err := extract.Extract(req.Data, format)
	if err != nil {
		return nil, err
	}
	if strings.TrimSpace(text) == "" {
		return nil, ErrNoText
	}
	emit(req, StepExtract, fmt.Sprintf("Extracted %d characters from %s", len(text), format))

	extracted := a.signals.Analyze(text)
	emit(req, StepSignals, fmt.Sprintf("Found %d skills", len(extracted.Skills)))

	result := &types.MatchResult{
		Filename:        req.Filename,
		Skills:          extracted.Skills,
		ExperienceYears: extracted.ExperienceYears.Ptr(),
		ContactInfo:     extracted.ContactInfo,
		WordCount:       extracted.WordCount,
		CharacterCount:  extracted.CharacterCount,
	}

	var score *int
	if profile != nil {
		s, details := a.scorer.Score(extracted, *profile)
		score = &s
		result.JobProfile = profile.Name
		result.MatchScore = score
		result.MatchDetails = &details
		a.metrics.ObserveScore(s)
		emit(req, StepScore, fmt.Sprintf("Scored %d/100 against %s", s, profile.Name))
	}

	if err := ctx.Err(); err != nil {
		return nil, err
	}

	n := a.narrator.Narrate(ctx, extracted, profile, score)
	result.ResumeDescription = n.ResumeDescription
	result.GeneralThoughts = n.GeneralThoughts
	result.Summary = n.Summary
	result.Education = n.Education
	result.Recommendations = n.Recommendations
	if a.narrator.Enabled() {
		emit(req, StepNarrative, "Narrative complete")
	}

	log.Debug("resume analyzed",
		zap.Int("skills", len(extracted.Skills)),
		zap.Int("word_count", extracted.WordCount),
		zap.Bool("scored", score != nil))

	return result, nil
}

func emit(req Request, step, message string) {
	if req.OnProgress != nil {
		req.OnProgress(ProgressEvent{Filename: req.Filename, Step: step, Message: message})
	}
}

func outcome(err error) string {
	var unsupported *extract.UnsupportedFormatError
	var corrupt *extract.CorruptDocumentError
	switch {
	case err == nil:
		return "ok"
	case errors.Is(err, ErrNoText):
		return "no_text"
	case errors.As(err, &unsupported):
		return "unsupported_format"
	case errors.As(err, &corrupt):
		return "corrupt_document"
	case errors.Is(err, context.Canceled), errors.Is(err, context.DeadlineExceeded):
		return "cancelled"
	default:
		return "error"
	}
}
