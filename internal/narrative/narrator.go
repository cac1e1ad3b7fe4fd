// Package narrative asks a text-generation model for the qualitative part of a
// resume analysis. Failures never fail an analysis: the caller gets empty
// fields instead.
package narrative

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"
	"unicode/utf8"

	"go.uber.org/zap"

	"github.com/jonathan/resume-analyzer/internal/llm"
	"github.com/jonathan/resume-analyzer/internal/logger"
	"github.com/jonathan/resume-analyzer/internal/observability"
	"github.com/jonathan/resume-analyzer/internal/prompts"
	"github.com/jonathan/resume-analyzer/internal/schemas"
	"github.com/jonathan/resume-analyzer/internal/types"
)

// Config bounds a single narrative request.
type Config struct {
	Timeout        time.Duration
	MaxPromptChars int
	MaxListItems   int
}

// DefaultConfig returns the default request bounds.
func DefaultConfig() Config {
	return Config{
		Timeout:        10 * time.Second,
		MaxPromptChars: 12000,
		MaxListItems:   25,
	}
}

// Narrator produces resume narratives. A Narrator without a generator is
// disabled and returns empty narratives.
type Narrator struct {
	gen     Generator
	cfg     Config
	logger  *zap.Logger
	metrics *observability.Metrics
}

// Option configures a Narrator.
type Option func(*Narrator)

// WithMetrics records each narrative outcome.
func WithMetrics(m *observability.Metrics) Option {
	return func(n *Narrator) {
		n.metrics = m
	}
}

// NewNarrator creates a Narrator. gen may be nil. Zero config fields take their defaults.
func NewNarrator(gen Generator, cfg Config, log *zap.Logger, opts ...Option) *Narrator {
	def := DefaultConfig()
	if cfg.Timeout <= 0 {
		cfg.Timeout = def.Timeout
	}
	if cfg.MaxPromptChars <= 0 {
		cfg.MaxPromptChars = def.MaxPromptChars
	}
	if cfg.MaxListItems <= 0 {
		cfg.MaxListItems = def.MaxListItems
	}
	log = logger.WithFields(log)
	if m, ok := gen.(interface{ Model() string }); ok {
		log = logger.WithFields(log, zap.String(logger.FieldModel, m.Model()))
	}
	n := &Narrator{gen: gen, cfg: cfg, logger: log}
	for _, opt := range opts {
		opt(n)
	}
	return n
}

// Enabled reports whether the narrator has a generator.
func (n *Narrator) Enabled() bool {
	return n != nil && n.gen != nil
}

// Empty returns the narrative used when none could be generated.
func Empty() types.Narrative {
	return types.Narrative{
		Education:       []string{},
		Recommendations: []string{},
	}
}

// Narrate returns the model's narrative for a resume, or Empty on any failure.
// profile and score are nil when no job profile was selected.
func (n *Narrator) Narrate(ctx context.Context, extracted types.ExtractedProfile, profile *types.JobProfile, score *int) types.Narrative {
	if !n.Enabled() {
		if n != nil {
			n.metrics.ObserveNarrative("disabled")
		}
		return Empty()
	}

	narrative, err := n.Generate(ctx, extracted, profile, score)
	if err != nil {
		stage := StageGenerate
		var unavailable *NarrativeUnavailableError
		if errors.As(err, &unavailable) {
			stage = unavailable.Stage
		}
		n.metrics.ObserveNarrative(stage)
		n.logger.Warn("resume narrative unavailable", zap.String("stage", stage), zap.Error(err))
		return Empty()
	}
	n.metrics.ObserveNarrative("ok")
	return narrative
}

// Generate makes one bounded model call and returns either a complete
// narrative or a *NarrativeUnavailableError.
func (n *Narrator) Generate(ctx context.Context, extracted types.ExtractedProfile, profile *types.JobProfile, score *int) (types.Narrative, error) {
	if !n.Enabled() {
		return Empty(), &NarrativeUnavailableError{Stage: StageGenerate, Cause: errors.New("no generator configured")}
	}

	prompt := n.buildPrompt(extracted, profile, score)

	ctx, cancel := context.WithTimeout(ctx, n.cfg.Timeout)
	defer cancel()

	start := time.Now()
	raw, err := n.gen.Generate(ctx, prompt)
	if err != nil {
		if errors.Is(err, context.DeadlineExceeded) || errors.Is(ctx.Err(), context.DeadlineExceeded) {
			return Empty(), &NarrativeUnavailableError{Stage: StageTimeout, Cause: err}
		}
		return Empty(), &NarrativeUnavailableError{Stage: StageGenerate, Cause: err}
	}
	n.logger.Debug("narrative generated",
		zap.Duration("elapsed", time.Since(start)),
		zap.Int("prompt_chars", utf8.RuneCountInString(prompt)),
		zap.String("response", logger.TruncateForLog(raw, 200)))

	return parseNarrative(raw)
}

type narrativeResponse struct {
	ResumeDescription string   `json:"resume_description"`
	GeneralThoughts   string   `json:"general_thoughts"`
	Summary           string   `json:"summary"`
	Education         []string `json:"education"`
	Recommendations   []string `json:"recommendations"`
}

func parseNarrative(raw string) (types.Narrative, error) {
	cleaned := llm.CleanJSONBlock(raw)

	if err := schemas.Validate(schemas.Narrative, cleaned); err != nil {
		var validationErr *schemas.ValidationError
		if errors.As(err, &validationErr) {
			return Empty(), &NarrativeUnavailableError{Stage: StageSchema, Cause: err}
		}
		return Empty(), &NarrativeUnavailableError{Stage: StageParse, Cause: err}
	}

	var resp narrativeResponse
	if err := json.Unmarshal([]byte(cleaned), &resp); err != nil {
		return Empty(), &NarrativeUnavailableError{Stage: StageParse, Cause: err}
	}

	return types.Narrative{
		ResumeDescription: strings.TrimSpace(resp.ResumeDescription),
		GeneralThoughts:   strings.TrimSpace(resp.GeneralThoughts),
		Summary:           strings.TrimSpace(resp.Summary),
		Education:         cleanItems(resp.Education),
		Recommendations:   cleanItems(resp.Recommendations),
	}, nil
}

func (n *Narrator) buildPrompt(extracted types.ExtractedProfile, profile *types.JobProfile, score *int) string {
	book := prompts.Narrative()
	var input strings.Builder

	if profile != nil {
		matchScore := "not computed"
		if score != nil {
			matchScore = fmt.Sprintf("%d/100", *score)
		}
		input.WriteString(book.MustRender("job-profile-context", map[string]string{
			"ProfileName":        profile.Name,
			"RequiredSkills":     n.joinCapped(profile.RequiredSkills),
			"PreferredSkills":    n.joinCapped(profile.PreferredSkills),
			"ExperienceKeywords": n.joinCapped(profile.ExperienceKeywords),
			"EducationKeywords":  n.joinCapped(profile.EducationKeywords),
			"MatchScore":         matchScore,
		}))
	} else {
		input.WriteString(book.MustRender("no-job-profile-context", nil))
	}
	input.WriteString("\n\n")

	years := "not stated"
	if v, ok := extracted.ExperienceYears.Value(); ok {
		years = strconv.FormatFloat(v, 'f', -1, 64)
	}
	input.WriteString(book.MustRender("resume-signals", map[string]string{
		"Skills":          n.joinCapped(extracted.Skills),
		"ExperienceYears": years,
		"WordCount":       strconv.Itoa(extracted.WordCount),
	}))
	input.WriteString("\n\n")

	text, truncated := truncateRunes(strings.TrimSpace(extracted.RawText), n.cfg.MaxPromptChars)
	marker := ""
	if truncated {
		marker = " (truncated)"
	}
	input.WriteString(book.MustRender("resume-text", map[string]string{"Truncated": marker}))
	input.WriteString(text)

	return llm.BuildExtractionPrompt(llm.ResumeNarrativeSchema(), input.String())
}

func (n *Narrator) joinCapped(items []string) string {
	if len(items) == 0 {
		return "none"
	}
	if len(items) > n.cfg.MaxListItems {
		items = items[:n.cfg.MaxListItems]
	}
	return strings.Join(items, ", ")
}

// truncateRunes cuts s to at most max runes.
func truncateRunes(s string, max int) (string, bool) {
	if utf8.RuneCountInString(s) <= max {
		return s, false
	}
	count := 0
	for i := range s {
		if count == max {
			return s[:i], true
		}
		count++
	}
	return s, false
}

func cleanItems(items []string) []string {
	out := make([]string, 0, len(items))
	for _, item := range items {
		if item = strings.TrimSpace(item); item != "" {
			out = append(out, item)
		}
	}
	return out
}
