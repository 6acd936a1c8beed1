package quantnote

import (
	"errors"
	"fmt"
	"strings"
)

// Sentinel errors surfaced during input normalization and range planning.
// Returned values carry extra detail; match with errors.Is.
var (
	ErrInvalidDate       = errors.New("quantnote: unrecognized date")
	ErrUnknownSymbol     = errors.New("quantnote: unknown symbol")
	ErrAmbiguousSymbol   = errors.New("quantnote: ambiguous symbol")
	ErrInvalidRange      = errors.New("quantnote: invalid time range")
	ErrMalformedResponse = errors.New("quantnote: malformed response")
	ErrTransport         = errors.New("quantnote: transport failure")
)

// Violation is one rejected parameter with the constraint it broke.
type Violation struct {
	Field  string
	Reason string
}

// ParamsError lists every constraint violated by one call's parameters so
// the caller can fix them all in a single pass.
type ParamsError struct {
	Violations []Violation
}

func (e *ParamsError) Error() string {
	if len(e.Violations) == 0 {
		return "quantnote: invalid parameters"
	}
	parts := make([]string, 0, len(e.Violations))
	for _, v := range e.Violations {
		parts = append(parts, v.Field+": "+v.Reason)
	}
	return "quantnote: invalid parameters: " + strings.Join(parts, "; ")
}

// APIError is a non-2xx reply from the service, with the remote message and
// error list when the body carried the structured shape.
type APIError struct {
	StatusCode int
	Message    string
	Reasons    []string
}

func (e *APIError) Error() string {
	switch {
	case e.Message == "":
		return fmt.Sprintf("quantnote: http status %d", e.StatusCode)
	case len(e.Reasons) == 0:
		return fmt.Sprintf("quantnote: http status %d: %s", e.StatusCode, e.Message)
	default:
		return fmt.Sprintf("quantnote: http status %d: %s - %s.", e.StatusCode, e.Message, strings.Join(e.Reasons, ", "))
	}
}
