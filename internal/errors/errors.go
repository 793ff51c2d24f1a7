// Package errors provides sentinel errors and error types for pgnview.
// It defines the common failure conditions of the parsing and editing core
// and a structured wrapper that preserves source context while allowing
// inspection with errors.Is() and errors.As().
package errors

import (
	"errors"
	"fmt"
)

// Sentinel errors for common failure conditions.
// Use these with errors.Is() to check for specific error types.
var (
	// ErrInvalidFEN indicates a malformed position string.
	ErrInvalidFEN = errors.New("invalid FEN string")

	// ErrIllegalMove indicates a move rejected by the rules engine.
	ErrIllegalMove = errors.New("illegal move")

	// ErrNoGame indicates that no movetext could be found in the input.
	ErrNoGame = errors.New("no game found")

	// ErrStaleNode indicates an operation on a node that is no longer
	// part of its tree.
	ErrStaleNode = errors.New("node detached from tree")
)

// ParseError wraps an error with the source context it occurred in:
// the input line and the token text being consumed. The parser itself is
// total and never aborts on malformed input; ParseError values are used
// for diagnostics surfaced through the logger.
type ParseError struct {
	Err   error  // The underlying error
	Line  uint   // Line number in the input (1-based, 0 if unknown)
	Token string // The token text being consumed (if applicable)
}

// Error returns a formatted message including the available context.
func (e *ParseError) Error() string {
	switch {
	case e.Line > 0 && e.Token != "":
		return fmt.Sprintf("line %d: %q: %v", e.Line, e.Token, e.Err)
	case e.Line > 0:
		return fmt.Sprintf("line %d: %v", e.Line, e.Err)
	case e.Token != "":
		return fmt.Sprintf("%q: %v", e.Token, e.Err)
	default:
		return e.Err.Error()
	}
}

// Unwrap returns the underlying error for errors.Is/errors.As.
func (e *ParseError) Unwrap() error {
	return e.Err
}

// Wrap attaches line and token context to err. It returns nil if err is nil.
func Wrap(err error, line uint, token string) error {
	if err == nil {
		return nil
	}
	return &ParseError{Err: err, Line: line, Token: token}
}
