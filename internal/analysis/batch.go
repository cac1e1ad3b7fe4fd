package analysis

import (
	"context"

	"golang.org/x/sync/errgroup"

	"github.com/jonathan/resume-analyzer/internal/types"
)

// BatchResult is the outcome of one document in a batch.
type BatchResult struct {
	Filename string
	Result   *types.MatchResult
	Err      error
}

// AnalyzeBatch analyzes several documents concurrently, bounded by the
// analyzer's concurrency limit. Results keep the order of reqs. A failing
// document does not stop the others; only cancellation of ctx does.
func (a *Analyzer) AnalyzeBatch(ctx context.Context, reqs []Request) []BatchResult {
	results := make([]BatchResult, len(reqs))

	var g errgroup.Group
	g.SetLimit(int(a.limit))
	for i, req := range reqs {
		results[i].Filename = req.Filename
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				results[i].Err = err
				return nil
			}
			results[i].Result, results[i].Err = a.Analyze(ctx, req)
			return nil
		})
	}
	_ = g.Wait()

	return results
}
