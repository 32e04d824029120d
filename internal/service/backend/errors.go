package backend

import "fmt"

// ErrorKind classifies a failed backend exchange.
type ErrorKind string

const (
	KindTransport     ErrorKind = "transport"      // network unreachable, timeout
	KindEncoding      ErrorKind = "encoding"       // request body could not be built
	KindResponseShape ErrorKind = "response_shape" // reply missing expected fields
)

// Error describes one failed exchange with the chat backend.
type Error struct {
	Kind ErrorKind
	Op   string
	Err  error
}

func (e *Error) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("backend %s: %s: %v", e.Op, e.Kind, e.Err)
	}
	return fmt.Sprintf("backend %s: %s", e.Op, e.Kind)
}

func (e *Error) Unwrap() error { return e.Err }

func newError(kind ErrorKind, op string, err error) *Error {
	return &Error{Kind: kind, Op: op, Err: err}
}
