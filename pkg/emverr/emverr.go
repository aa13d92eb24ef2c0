// Package emverr defines the closed set of error kinds raised by the TLV codec,
// the card model builder and the cryptographic engine.
// Error carries the kind plus structured context so callers can branch on it.
package emverr

import (
	"errors"
	"fmt"
	"strings"
)

// Kind classifies an Error.
type Kind int

// Error kinds.
const (
	KindUnknown Kind = iota
	KindValidation
	KindStructure
	KindMalformedTLV
	KindInvalidLength
)

// Sentinels for errors.Is matching by kind.
var (
	ErrValidation    = &Error{Kind: KindValidation}
	ErrStructure     = &Error{Kind: KindStructure}
	ErrMalformedTLV  = &Error{Kind: KindMalformedTLV}
	ErrInvalidLength = &Error{Kind: KindInvalidLength}
)

// String returns the kind name used in error messages.
func (k Kind) String() string {
	switch k {
	case KindValidation:
		return "ValidationError"
	case KindStructure:
		return "StructureError"
	case KindMalformedTLV:
		return "MalformedTlv"
	case KindInvalidLength:
		return "InvalidLength"
	default:
		return "UnknownError"
	}
}

// Error is a kind-tagged error with optional field, expected/actual and offset context.
type Error struct {
	Kind     Kind
	Field    string // offending input field or attribute name
	Expected string
	Actual   string
	Offset   int // hex-character offset for TLV errors, -1 when not applicable
	Msg      string
	Err      error
}

// Error implements the error interface.
func (e *Error) Error() string {
	var sb strings.Builder
	sb.WriteString(e.Kind.String())
	if e.Field != "" {
		sb.WriteString(" [")
		sb.WriteString(e.Field)
		sb.WriteString("]")
	}
	if e.Msg != "" {
		sb.WriteString(": ")
		sb.WriteString(e.Msg)
	}
	if e.Expected != "" || e.Actual != "" {
		fmt.Fprintf(&sb, " (expected %s, got %q)", e.Expected, e.Actual)
	}
	if e.Offset >= 0 && e.Kind == KindMalformedTLV {
		fmt.Fprintf(&sb, " at offset %d", e.Offset)
	}
	if e.Err != nil {
		sb.WriteString(": ")
		sb.WriteString(e.Err.Error())
	}

	return sb.String()
}

// Unwrap returns the underlying cause.
func (e *Error) Unwrap() error {
	return e.Err
}

// Is reports whether target is an *Error of the same kind.
// A target with a Field set must also match the field.
func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	if !ok {
		return false
	}
	if t.Kind != e.Kind {
		return false
	}

	return t.Field == "" || t.Field == e.Field
}

// KindOf returns the kind of the first *Error in err's chain.
func KindOf(err error) Kind {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}

	return KindUnknown
}

// FieldOf returns the field of the first *Error in err's chain.
func FieldOf(err error) string {
	var e *Error
	if errors.As(err, &e) {
		return e.Field
	}

	return ""
}

// Validation reports a caller-supplied value that violates a hex or length constraint.
func Validation(field, expected, actual string) *Error {
	return &Error{
		Kind:     KindValidation,
		Field:    field,
		Expected: expected,
		Actual:   actual,
		Offset:   -1,
		Msg:      "invalid value",
	}
}

// Structure reports a missing or ambiguous element in the input document.
func Structure(msg string, args ...any) *Error {
	return &Error{Kind: KindStructure, Offset: -1, Msg: fmt.Sprintf(msg, args...)}
}

// MalformedTLV reports a truncated or non-hex TLV stream at the given hex offset.
func MalformedTLV(offset int, msg string, args ...any) *Error {
	return &Error{Kind: KindMalformedTLV, Offset: offset, Msg: fmt.Sprintf(msg, args...)}
}

// InvalidLength reports mismatched operand widths.
func InvalidLength(expected, actual int) *Error {
	return &Error{
		Kind:     KindInvalidLength,
		Offset:   -1,
		Msg:      "operand length mismatch",
		Expected: fmt.Sprintf("%d", expected),
		Actual:   fmt.Sprintf("%d", actual),
	}
}
