package commonModels

import (
	"errors"
	"fmt"
)

// ErrorKind classifies a pipeline failure. Callers branch on the kind, the
// message is for humans only.
type ErrorKind string

const (
	KindValidation ErrorKind = "validation"
	KindFetch      ErrorKind = "fetch"
	KindExtraction ErrorKind = "extraction"
	KindEmbedding  ErrorKind = "embedding"
	KindStore      ErrorKind = "store"
	KindGeneration ErrorKind = "generation"
)

type PipelineError struct {
	Kind    ErrorKind
	Message string
	Cause   error
}

func (e *PipelineError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s: %s: %v", e.Kind, e.Message, e.Cause)
	}
	return fmt.Sprintf("%s: %s", e.Kind, e.Message)
}

func (e *PipelineError) Unwrap() error {
	return e.Cause
}

func NewError(kind ErrorKind, message string, cause error) *PipelineError {
	return &PipelineError{Kind: kind, Message: message, Cause: cause}
}

// KindOf returns the kind of err, or "" when err carries no PipelineError.
func KindOf(err error) ErrorKind {
	var pe *PipelineError
	if errors.As(err, &pe) {
		return pe.Kind
	}
	return ""
}
