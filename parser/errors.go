package parser

import (
	"errors"
	"fmt"
)

// Component identifies which analysis stage raised an Error.
type Component string

const (
	ComponentLexer  Component = "Lexer"
	ComponentParser Component = "Parser"
)

var (
	ErrUnexpectedChar     = errors.New("unexpected character")
	ErrLeadingZero        = errors.New("invalid leading zero in numeric literal")
	ErrMalformedReal      = errors.New("malformed double literal")
	ErrNumericSuffix      = errors.New("letters cannot follow a numeric literal")
	ErrNewlineInString    = errors.New("newline in string literal")
	ErrUnterminatedString = errors.New("unterminated string literal")
	ErrUnterminatedChar   = errors.New("unterminated character literal")
	ErrCharLength         = errors.New("character literal must contain exactly one character")
	ErrMalformedAssign    = errors.New("expecting '=' after ':'")
	ErrDoubleEquals       = errors.New("invalid comparison '=='")
	ErrRead               = errors.New("read error")
	ErrSyntax             = errors.New("syntax error")
	ErrNestingDepth       = errors.New("maximum nesting depth exceeded")
)

// Error is the single diagnostic produced by a failed analysis.
// Line and Column are 1-based and locate the offending character or token.
type Error struct {
	Component Component
	Message   string
	Line      int
	Column    int

	// Rule is the innermost grammar rule active when a syntax error was raised.
	Rule string

	Err error
}

func (e *Error) Error() string {
	return fmt.Sprintf("%s error: %s at line %d column %d", e.Component, e.Message, e.Line, e.Column)
}

func (e *Error) Unwrap() error { return e.Err }

// AsError extracts a *Error from err's chain, or returns nil.
func AsError(err error) *Error {
	var pe *Error
	if errors.As(err, &pe) {
		return pe
	}
	return nil
}

func lexError(sentinel error, pos position, detail string) *Error {
	msg := sentinel.Error()
	if detail != "" {
		msg = fmt.Sprintf("%s %s", msg, detail)
	}
	return &Error{
		Component: ComponentLexer,
		Message:   msg,
		Line:      pos.Line,
		Column:    pos.Column,
		Err:       sentinel,
	}
}
