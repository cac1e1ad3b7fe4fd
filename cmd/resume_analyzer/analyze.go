package main

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sync"

	"github.com/spf13/cobra"

	"github.com/jonathan/resume-analyzer/internal/analysis"
	"github.com/jonathan/resume-analyzer/internal/observability"
	"github.com/jonathan/resume-analyzer/internal/types"
)

var analyzeCmd = &cobra.Command{
	Use:   "analyze <resume> [resume...]",
	Short: "Analyze resume files locally",
	Long: `Extract signals from one or more local resume files (.pdf, .doc, .docx, .txt),
optionally score them against a job profile, and print the results.
The narrative is generated only when an API key is configured.`,
	Args: cobra.MinimumNArgs(1),
	RunE: runAnalyze,
}

var (
	analyzeProfile     string
	analyzeJSON        bool
	analyzeNoNarrative bool
	analyzeVerbose     bool
)

func init() {
	analyzeCmd.Flags().StringVarP(&analyzeProfile, "profile", "p", "", "Job profile ID to score against")
	analyzeCmd.Flags().BoolVar(&analyzeJSON, "json", false, "Print JSON instead of text")
	analyzeCmd.Flags().BoolVar(&analyzeNoNarrative, "no-narrative", false, "Skip the model narrative")
	analyzeCmd.Flags().BoolVarP(&analyzeVerbose, "verbose", "v", false, "Report progress on stderr")
	rootCmd.AddCommand(analyzeCmd)
}

func runAnalyze(cmd *cobra.Command, args []string) error {
	a, err := newCLIApp(cmd, appOptions{NoNarrative: analyzeNoNarrative})
	if err != nil {
		return err
	}
	defer a.Close()

	return analyzeFiles(commandContext(cmd), a.analyzer, args, analyzeOptions{
		ProfileID: analyzeProfile,
		JSON:      analyzeJSON,
		Verbose:   analyzeVerbose,
	}, cmd.OutOrStdout(), cmd.ErrOrStderr())
}

type analyzeOptions struct {
	ProfileID string
	JSON      bool
	Verbose   bool
}

// batchEntry is one file's outcome in JSON output for several files.
type batchEntry struct {
	Filename string             `json:"filename"`
	Result   *types.MatchResult `json:"result,omitempty"`
	Error    string             `json:"error,omitempty"`
}

// analyzeFiles analyzes every path and writes results to out. It returns an
// error when any file failed, after reporting all of them.
func analyzeFiles(ctx context.Context, analyzer *analysis.Analyzer, paths []string, opts analyzeOptions, out, errOut io.Writer) error {
	var mu sync.Mutex
	progress := func(e analysis.ProgressEvent) {
		mu.Lock()
		defer mu.Unlock()
		fmt.Fprintf(errOut, "[%s] %s: %s\n", e.Filename, e.Step, e.Message)
	}

	reqs := make([]analysis.Request, 0, len(paths))
	for _, path := range paths {
		data, err := os.ReadFile(path)
		if err != nil {
			return fmt.Errorf("failed to read %s: %w", path, err)
		}
		req := analysis.Request{
			Filename:     filepath.Base(path),
			Data:         data,
			JobProfileID: opts.ProfileID,
		}
		if opts.Verbose {
			req.OnProgress = progress
		}
		reqs = append(reqs, req)
	}

	results := analyzer.AnalyzeBatch(ctx, reqs)

	failed := 0
	for _, r := range results {
		if r.Err != nil {
			failed++
		}
	}

	switch {
	case opts.JSON && len(results) == 1:
		if results[0].Err != nil {
			return results[0].Err
		}
		if err := encodeJSON(out, results[0].Result); err != nil {
			return err
		}
	case opts.JSON:
		entries := make([]batchEntry, 0, len(results))
		for _, r := range results {
			entry := batchEntry{Filename: r.Filename, Result: r.Result}
			if r.Err != nil {
				entry.Error = r.Err.Error()
			}
			entries = append(entries, entry)
		}
		if err := encodeJSON(out, entries); err != nil {
			return err
		}
	default:
		printer := observability.NewPrinter(out)
		for _, r := range results {
			if r.Err != nil {
				if len(results) > 1 {
					fmt.Fprintf(errOut, "✗ %s: %v\n", r.Filename, r.Err)
				}
				continue
			}
			printer.PrintMatchResult(r.Result)
		}
	}

	if failed > 0 {
		if len(results) == 1 {
			return results[0].Err
		}
		return fmt.Errorf("%d of %d resumes could not be analyzed", failed, len(results))
	}
	return nil
}

func encodeJSON(out io.Writer, value any) error {
	enc := json.NewEncoder(out)
	enc.SetIndent("", "  ")
	if err := enc.Encode(value); err != nil {
		return fmt.Errorf("failed to encode JSON: %w", err)
	}
	return nil
}
