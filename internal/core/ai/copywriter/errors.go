package copywriter

import "fmt"

// ValidationError names a request field that cannot be used. It is raised
// before any external call. Err is the underlying cause, if any.
type ValidationError struct {
	Field  string
	Reason string
	Err    error
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("invalid %s: %s", e.Field, e.Reason)
}

func (e *ValidationError) Unwrap() error { return e.Err }

// GenerationServiceError wraps a failed or unusable LLM response.
type GenerationServiceError struct {
	Provider string
	Model    string
	Err      error
}

func (e *GenerationServiceError) Error() string {
	return fmt.Sprintf("generation failed (%s/%s): %v", e.Provider, e.Model, e.Err)
}

func (e *GenerationServiceError) Unwrap() error { return e.Err }
