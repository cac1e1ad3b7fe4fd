package narrative

import "fmt"

// Stages at which narrative generation can fail.
const (
	StageGenerate = "generate"
	StageTimeout  = "timeout"
	StageParse    = "parse"
	StageSchema   = "schema"
)

// NarrativeUnavailableError means the model produced no usable narrative.
// It is logged and never returned to API clients.
type NarrativeUnavailableError struct {
	Stage string
	Cause error
}

func (e *NarrativeUnavailableError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("narrative unavailable (%s): %v", e.Stage, e.Cause)
	}
	return fmt.Sprintf("narrative unavailable (%s)", e.Stage)
}

func (e *NarrativeUnavailableError) Unwrap() error {
	return e.Cause
}
