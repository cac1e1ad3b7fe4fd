package narrative

import (
	"context"
	"sync"
	"time"

	"github.com/jonathan/resume-analyzer/internal/llm"
)

// Generator turns a prompt into model output.
type Generator interface {
	Generate(ctx context.Context, prompt string) (string, error)
}

// GeneratorFunc adapts a function to Generator.
type GeneratorFunc func(ctx context.Context, prompt string) (string, error)

// Generate calls f.
func (f GeneratorFunc) Generate(ctx context.Context, prompt string) (string, error) {
	return f(ctx, prompt)
}

// ModelGenerator asks an llm.Client for JSON at a fixed model tier.
type ModelGenerator struct {
	client llm.Client
	tier   llm.ModelTier
}

// NewModelGenerator creates a ModelGenerator.
func NewModelGenerator(client llm.Client, tier llm.ModelTier) *ModelGenerator {
	return &ModelGenerator{client: client, tier: tier}
}

// Generate requests a JSON response from the configured model.
func (g *ModelGenerator) Generate(ctx context.Context, prompt string) (string, error) {
	return g.client.GenerateJSON(ctx, prompt, g.tier)
}

// Model returns the model name behind the generator's tier.
func (g *ModelGenerator) Model() string {
	return g.client.GetModel(g.tier)
}

// StaticGenerator returns a canned response. It records the prompts it was given.
type StaticGenerator struct {
	Response string
	Err      error
	// Delay simulates a slow model; the context still wins.
	Delay time.Duration

	mu      sync.Mutex
	prompts []string
}

// Generate returns the canned response or error.
func (g *StaticGenerator) Generate(ctx context.Context, prompt string) (string, error) {
	g.mu.Lock()
	g.prompts = append(g.prompts, prompt)
	g.mu.Unlock()

	if g.Delay > 0 {
		timer := time.NewTimer(g.Delay)
		defer timer.Stop()
		select {
		case <-ctx.Done():
			return "", ctx.Err()
		case <-timer.C:
		}
	}
	if g.Err != nil {
		return "", g.Err
	}
	return g.Response, nil
}

// Prompts returns a copy of the prompts received so far.
func (g *StaticGenerator) Prompts() []string {
	g.mu.Lock()
	defer g.mu.Unlock()
	out := make([]string, len(g.prompts))
	copy(out, g.prompts)
	return out
}
