package narrative

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/jonathan/resume-analyzer/internal/llm"
	"github.com/jonathan/resume-analyzer/internal/prompts"
	"github.com/jonathan/resume-analyzer/internal/schemas"
	"github.com/jonathan/resume-analyzer/internal/types"
)

// ListSuggester asks the model for the requirement lists of a job role.
// It satisfies profiles.ListSuggester.
type ListSuggester struct {
	gen     Generator
	timeout time.Duration
}

// NewListSuggester creates a ListSuggester. A non-positive timeout uses the narrative default.
func NewListSuggester(gen Generator, timeout time.Duration) *ListSuggester {
	if timeout <= 0 {
		timeout = DefaultConfig().Timeout
	}
	return &ListSuggester{gen: gen, timeout: timeout}
}

// SuggestLists returns model-proposed lists for a profile named role.
func (s *ListSuggester) SuggestLists(ctx context.Context, role string) (types.JobProfileLists, error) {
	input := prompts.Narrative().MustRender("job-role", map[string]string{"Role": role})
	prompt := llm.BuildExtractionPrompt(llm.JobProfileListsSchema(), input)

	ctx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()

	raw, err := s.gen.Generate(ctx, prompt)
	if err != nil {
		return types.JobProfileLists{}, fmt.Errorf("failed to generate profile lists: %w", err)
	}

	cleaned := llm.CleanJSONBlock(raw)
	if err := schemas.Validate(schemas.ProfileLists, cleaned); err != nil {
		return types.JobProfileLists{}, fmt.Errorf("invalid profile lists: %w", err)
	}

	var lists types.JobProfileLists
	if err := json.Unmarshal([]byte(cleaned), &lists); err != nil {
		return types.JobProfileLists{}, fmt.Errorf("failed to decode profile lists: %w", err)
	}
	return lists, nil
}
