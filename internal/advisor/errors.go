package advisor

import "errors"

// ErrEmptyPrompt is returned for blank or whitespace-only prompts and
// maps to a 400 at the HTTP layer.
var ErrEmptyPrompt = errors.New("Prompt is required.")

// UpstreamError wraps failures of the embedding or retrieval steps.
// Generation failures are not wrapped here; they degrade to the
// fallback answer instead of an error.
type UpstreamError struct {
	Step string
	Err  error
}

func (e *UpstreamError) Error() string {
	return e.Step + ": " + e.Err.Error()
}

func (e *UpstreamError) Unwrap() error { return e.Err }
