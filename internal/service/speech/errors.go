package speech

import "fmt"

// ErrorKind classifies a synthesis failure.
type ErrorKind string

const (
	KindNetwork  ErrorKind = "network"  // endpoint unreachable or non-success status
	KindEncoding ErrorKind = "encoding" // request could not be built
	KindStorage  ErrorKind = "storage"  // audio artifact could not be written
)

// SynthesisError reports why a synthesis attempt produced no audio. It is
// always non-fatal to the chat turn that requested it.
type SynthesisError struct {
	Kind ErrorKind
	Err  error
}

func (e *SynthesisError) Error() string {
	return fmt.Sprintf("speech synthesis: %s: %v", e.Kind, e.Err)
}

func (e *SynthesisError) Unwrap() error { return e.Err }

func newError(kind ErrorKind, err error) *SynthesisError {
	return &SynthesisError{Kind: kind, Err: err}
}
