package analysis

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jonathan/resume-analyzer/internal/extract"
	"github.com/jonathan/resume-analyzer/internal/narrative"
	"github.com/jonathan/resume-analyzer/internal/profiles"
	"github.com/jonathan/resume-analyzer/internal/scoring"
	"github.com/jonathan/resume-analyzer/internal/types"
)

const sampleResume = "Contact: jane@example.com, (555) 123-4567. 4 years experience with Python, React, SQL."

const cannedNarrative = `{"resume_description": "Short resume.", "general_thoughts": "Fine.",
	"summary": "Python developer.", "education": [], "recommendations": ["Add a degree"]}`

type fixture struct {
	store     *profiles.Store
	profileID string
}

func newFixture(t *testing.T) fixture {
	t.Helper()
	store := profiles.NewStore(profiles.NewMemoryRepository())
	require.NoError(t, store.Seed(context.Background()))

	p, err := store.Create(context.Background(), types.CreateJobProfileRequest{
		Name:               "Example Role",
		RequiredSkills:     []string{"Python", "React"},
		PreferredSkills:    []string{"SQL"},
		ExperienceKeywords: []string{"years"},
		EducationKeywords:  []string{"degree"},
	})
	require.NoError(t, err)
	return fixture{store: store, profileID: p.ID}
}

func newAnalyzer(t *testing.T, f fixture, gen narrative.Generator, maxConcurrent int) *Analyzer {
	t.Helper()
	scorer, err := scoring.NewScorer(nil, scoring.DefaultWeights)
	require.NoError(t, err)

	a, err := New(Options{
		Scorer:        scorer,
		Profiles:      f.store,
		Narrator:      narrative.NewNarrator(gen, narrative.Config{}, nil),
		MaxConcurrent: maxConcurrent,
	})
	require.NoError(t, err)
	return a
}

func TestAnalyze_EndToEnd(t *testing.T) {
	f := newFixture(t)
	a := newAnalyzer(t, f, &narrative.StaticGenerator{Response: cannedNarrative}, 2)

	result, err := a.Analyze(context.Background(), Request{
		Filename:     "jane.txt",
		Data:         []byte(sampleResume),
		JobProfileID: f.profileID,
	})
	require.NoError(t, err)

	assert.Equal(t, "jane.txt", result.Filename)
	assert.Equal(t, "Example Role", result.JobProfile)
	require.NotNil(t, result.MatchScore)
	assert.Equal(t, 80, *result.MatchScore)
	require.NotNil(t, result.MatchDetails)
	assert.Equal(t, 0, result.MatchDetails.EducationScore)
	assert.Equal(t, []string{"python", "react", "sql"}, result.Skills)
	require.NotNil(t, result.ExperienceYears)
	assert.Equal(t, 4.0, *result.ExperienceYears)
	assert.Equal(t, []string{"jane@example.com"}, result.ContactInfo.Emails)
	assert.Equal(t, 11, result.WordCount)

	assert.Equal(t, "Python developer.", result.Summary)
	assert.Equal(t, []string{"Add a degree"}, result.Recommendations)
	assert.Equal(t, []string{}, result.Education)
}

func TestAnalyze_WithoutProfile(t *testing.T) {
	f := newFixture(t)
	a := newAnalyzer(t, f, nil, 1)

	result, err := a.Analyze(context.Background(), Request{Filename: "cv.txt", Data: []byte("Go and Docker")})
	require.NoError(t, err)

	assert.Nil(t, result.MatchScore)
	assert.Nil(t, result.MatchDetails)
	assert.Empty(t, result.JobProfile)
	assert.Nil(t, result.ExperienceYears)
	assert.NotNil(t, result.Education)
	assert.NotNil(t, result.Recommendations)
}

func TestAnalyze_DefaultProfile(t *testing.T) {
	f := newFixture(t)
	a := newAnalyzer(t, f, nil, 1)

	result, err := a.Analyze(context.Background(), Request{
		Filename:     "cv.txt",
		Data:         []byte(sampleResume),
		JobProfileID: profiles.SoftwareEngineerID,
	})
	require.NoError(t, err)
	assert.Equal(t, "Software Engineer", result.JobProfile)
	assert.NotNil(t, result.MatchScore)
}

func TestAnalyze_Errors(t *testing.T) {
	f := newFixture(t)
	a := newAnalyzer(t, f, nil, 1)

	tests := []struct {
		name  string
		req   Request
		check func(t *testing.T, err error)
	}{
		{
			name: "unsupported extension",
			req:  Request{Filename: "resume.rtf", Data: []byte("{\\rtf1}")},
			check: func(t *testing.T, err error) {
				var target *extract.UnsupportedFormatError
				assert.ErrorAs(t, err, &target)
			},
		},
		{
			name: "unknown profile checked before extraction",
			req:  Request{Filename: "resume.pdf", Data: []byte("not a pdf"), JobProfileID: "nope"},
			check: func(t *testing.T, err error) {
				var target *profiles.NotFoundError
				assert.ErrorAs(t, err, &target)
			},
		},
		{
			name: "corrupt document",
			req:  Request{Filename: "resume.pdf", Data: []byte("not a pdf")},
			check: func(t *testing.T, err error) {
				var target *extract.CorruptDocumentError
				assert.ErrorAs(t, err, &target)
			},
		},
		{
			name: "whitespace only",
			req:  Request{Filename: "blank.txt", Data: []byte(" \n\t ")},
			check: func(t *testing.T, err error) {
				assert.ErrorIs(t, err, ErrNoText)
			},
		},
		{
			name: "empty file",
			req:  Request{Filename: "empty.txt"},
			check: func(t *testing.T, err error) {
				assert.ErrorIs(t, err, ErrNoText)
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result, err := a.Analyze(context.Background(), tt.req)
			assert.Nil(t, result)
			tt.check(t, err)
		})
	}
}

func TestAnalyze_NarrativeFailureIsNotAnError(t *testing.T) {
	f := newFixture(t)
	a := newAnalyzer(t, f, &narrative.StaticGenerator{Err: errors.New("rate limited")}, 1)

	result, err := a.Analyze(context.Background(), Request{
		Filename:     "jane.txt",
		Data:         []byte(sampleResume),
		JobProfileID: f.profileID,
	})
	require.NoError(t, err)
	assert.Equal(t, 80, *result.MatchScore)
	assert.Empty(t, result.Summary)
	assert.Equal(t, []string{}, result.Recommendations)
}

func TestAnalyze_ReportsProgress(t *testing.T) {
	f := newFixture(t)
	a := newAnalyzer(t, f, &narrative.StaticGenerator{Response: cannedNarrative}, 1)

	var steps []string
	_, err := a.Analyze(context.Background(), Request{
		Filename:     "jane.txt",
		Data:         []byte(sampleResume),
		JobProfileID: f.profileID,
		OnProgress: func(e ProgressEvent) {
			assert.Equal(t, "jane.txt", e.Filename)
			steps = append(steps, e.Step)
		},
	})
	require.NoError(t, err)
	assert.Equal(t, []string{StepExtract, StepSignals, StepScore, StepNarrative}, steps)
}

func TestAnalyze_Cancelled(t *testing.T) {
	f := newFixture(t)
	a := newAnalyzer(t, f, nil, 1)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := a.Analyze(ctx, Request{Filename: "cv.txt", Data: []byte(sampleResume)})
	assert.ErrorIs(t, err, context.Canceled)
	assert.Equal(t, "cancelled", outcome(err))
}

func TestAnalyzeBatch_BoundedAndOrdered(t *testing.T) {
	f := newFixture(t)

	var active, peak int32
	gen := narrative.GeneratorFunc(func(ctx context.Context, _ string) (string, error) {
		n := atomic.AddInt32(&active, 1)
		for {
			old := atomic.LoadInt32(&peak)
			if n <= old || atomic.CompareAndSwapInt32(&peak, old, n) {
				break
			}
		}
		time.Sleep(20 * time.Millisecond)
		atomic.AddInt32(&active, -1)
		return cannedNarrative, nil
	})
	a := newAnalyzer(t, f, gen, 2)

	var reqs []Request
	for i := 0; i < 6; i++ {
		reqs = append(reqs, Request{Filename: fmt.Sprintf("cv-%d.txt", i), Data: []byte(sampleResume)})
	}
	reqs = append(reqs, Request{Filename: "bad.rtf", Data: []byte("x")})

	results := a.AnalyzeBatch(context.Background(), reqs)

	require.Len(t, results, 7)
	for i := 0; i < 6; i++ {
		assert.Equal(t, fmt.Sprintf("cv-%d.txt", i), results[i].Filename)
		assert.NoError(t, results[i].Err)
		assert.Equal(t, results[i].Filename, results[i].Result.Filename)
	}
	assert.Error(t, results[6].Err)
	assert.LessOrEqual(t, atomic.LoadInt32(&peak), int32(2))
}

func TestAnalyze_SemaphoreBoundsConcurrentCallers(t *testing.T) {
	f := newFixture(t)

	var active, peak int32
	var mu sync.Mutex
	gen := narrative.GeneratorFunc(func(ctx context.Context, _ string) (string, error) {
		mu.Lock()
		active++
		if active > peak {
			peak = active
		}
		mu.Unlock()
		time.Sleep(10 * time.Millisecond)
		mu.Lock()
		active--
		mu.Unlock()
		return cannedNarrative, nil
	})
	a := newAnalyzer(t, f, gen, 1)

	var wg sync.WaitGroup
	for i := 0; i < 4; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := a.Analyze(context.Background(), Request{Filename: "cv.txt", Data: []byte(sampleResume)})
			assert.NoError(t, err)
		}()
	}
	wg.Wait()

	assert.Equal(t, int32(1), peak)
}

func TestNew_RequiresCollaborators(t *testing.T) {
	_, err := New(Options{})
	assert.Error(t, err)

	scorer, err := scoring.NewScorer(nil, scoring.DefaultWeights)
	require.NoError(t, err)
	_, err = New(Options{Scorer: scorer})
	assert.Error(t, err)
}

func TestOutcome(t *testing.T) {
	assert.Equal(t, "ok", outcome(nil))
	assert.Equal(t, "no_text", outcome(ErrNoText))
	assert.Equal(t, "unsupported_format", outcome(&extract.UnsupportedFormatError{Format: "rtf"}))
	assert.Equal(t, "corrupt_document", outcome(&extract.CorruptDocumentError{Format: "pdf"}))
	assert.Equal(t, "error", outcome(errors.New("boom")))
}
