package report

import (
	"fmt"

	"github.com/pkg/errors"
)

// FatalError wraps a single Diagnostic for the lexical/syntax/codegen/emitter
// bands, which terminate the pass at the point of detection rather than
// collecting into a Bag.
type FatalError struct {
	Diagnostic Diagnostic
	cause      error
}

func (e *FatalError) Error() string {
	return e.Diagnostic.String()
}

func (e *FatalError) Unwrap() error {
	return e.cause
}

// NewFatal builds a FatalError at a source position. Its Unwrap cause is a
// pkg/errors value carrying the stack trace of the call site; cmd/splc
// prints only the diagnostic text, with or without --verbose.
func NewFatal(kind Kind, line, col int, format string, args ...any) error {
	d := Diagnostic{Kind: kind, Message: fmt.Sprintf(format, args...), Line: line, Col: col}
	return &FatalError{Diagnostic: d, cause: errors.WithStack(fmt.Errorf("%s", d.String()))}
}

// NewFatalNode is NewFatal for a post-parse diagnostic anchored to a node_id
// rather than a raw line:col.
func NewFatalNode(kind Kind, nodeID int, format string, args ...any) error {
	d := Diagnostic{Kind: kind, Message: fmt.Sprintf(format, args...), NodeID: nodeID}
	return &FatalError{Diagnostic: d, cause: errors.WithStack(fmt.Errorf("%s", d.String()))}
}
