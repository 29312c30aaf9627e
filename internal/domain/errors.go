package domain

import "fmt"

// PipelineError is the base error type with phase context.
type PipelineError struct {
	Phase      string // "config", "brief", "generate", "extract", "normalize", "resolve", "emit", "check", "report", "registry", "analyze", "scan"
	Path       string
	Message    string
	Suggestion string
	Cause      error
}

func (e *PipelineError) Error() string {
	s := fmt.Sprintf("[%s]", e.Phase)
	if e.Path != "" {
		s += fmt.Sprintf(" %s", e.Path)
	}
	s += fmt.Sprintf(": %s", e.Message)
	if e.Cause != nil {
		s += fmt.Sprintf(": %v", e.Cause)
	}
	if e.Suggestion != "" {
		s += fmt.Sprintf(" (%s)", e.Suggestion)
	}
	return s
}

func (e *PipelineError) Unwrap() error {
	return e.Cause
}

// NewError creates a new PipelineError.
func NewError(phase, path, message string, cause error) *PipelineError {
	return &PipelineError{
		Phase:   phase,
		Path:    path,
		Message: message,
		Cause:   cause,
	}
}

// NewErrorWithSuggestion creates a PipelineError carrying a remediation hint.
func NewErrorWithSuggestion(phase, path, message, suggestion string, cause error) *PipelineError {
	return &PipelineError{
		Phase:      phase,
		Path:       path,
		Message:    message,
		Suggestion: suggestion,
		Cause:      cause,
	}
}
