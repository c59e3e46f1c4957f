// Package tilerr defines the TIL compiler's error taxonomy (spec §7). User
// errors are collected as diagnostics rather than returned as Go errors
// (see internal/diag); this package covers the smaller surface of errors
// that a caller of a single compiler stage receives directly, plus the
// Invariant type used for internal-contract breaches that must abort the
// compile run rather than being collected.
package tilerr

import "fmt"

// Category classifies a compiler error per the taxonomy in spec §7.
type Category int

const (
	Lex Category = iota
	Syntax
	Naming
	Resolution
	Structural
	Generic
	InvariantViolation
)

func (c Category) String() string {
	switch c {
	case Lex:
		return "lex"
	case Syntax:
		return "syntax"
	case Naming:
		return "naming"
	case Resolution:
		return "resolution"
	case Structural:
		return "structural"
	case Generic:
		return "generic"
	case InvariantViolation:
		return "invariant"
	default:
		return "unknown"
	}
}

// Error is a categorized compiler error: a Category, a single message
// rendered by Error(), and an optional wrapped cause exposed by Unwrap.
type Error struct {
	category Category
	msg      string
	wrap     error
}

func (e *Error) Error() string {
	return fmt.Sprintf("%s error: %s", e.category, e.msg)
}

// Category returns the taxonomy category of the error.
func (e *Error) Category() Category {
	return e.category
}

// Unwrap gives the error that this Error wraps, if any.
func (e *Error) Unwrap() error {
	return e.wrap
}

// New returns a new categorized Error.
func New(cat Category, format string, args ...interface{}) error {
	return &Error{category: cat, msg: fmt.Sprintf(format, args...)}
}

// Wrap returns a new categorized Error that wraps cause.
func Wrap(cat Category, cause error, format string, args ...interface{}) error {
	return &Error{category: cat, msg: fmt.Sprintf(format, args...), wrap: cause}
}

// Invariant is the panic value raised on an internal-contract breach (spec
// §7: "Internal invariant violations abort immediately with a
// stack-preserving fatal"). It is never recovered into a diagnostic; the
// top-level Compile in til.go recovers it only to attach a run ID and then
// panics again with it, so the process exits with a non-zero status.
type Invariant struct {
	RunID   string
	Message string
}

func (i Invariant) Error() string {
	return fmt.Sprintf("internal invariant violation (run %s): %s", i.RunID, i.Message)
}

// Fatalf panics with an Invariant built from the given run ID and formatted
// message. It is the only sanctioned way to raise an internal-invariant
// failure; callers must never recover it except at the top of Compile to
// attach context before re-panicking.
func Fatalf(runID, format string, args ...interface{}) {
	panic(Invariant{RunID: runID, Message: fmt.Sprintf(format, args...)})
}
