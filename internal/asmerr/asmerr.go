// Package asmerr defines the closed error taxonomy shared by the
// tokenizer, parser, and code generator. Every failure in those three
// layers is one of these kinds; only the CLI shell's own argument and
// output-file checks return plain fmt errors.
package asmerr

import "fmt"

// Kind is one tag from the tokenizer/parser/generator taxonomy.
type Kind string

const (
	// Tokenizer kinds.
	ReaderError              Kind = "ReaderError"
	InvalidIdentifier         Kind = "InvalidIdentifier"
	InvalidString             Kind = "InvalidString"
	InvalidNumber             Kind = "InvalidNumber"
	InvalidSymbol              Kind = "InvalidSymbol"
	InvalidMultilineComment  Kind = "InvalidMultilineComment"
	InternalError              Kind = "InternalError"

	// Parser kinds.
	UnexpectedToken       Kind = "UnexpectedToken"
	UnsupportedRegister   Kind = "UnsupportedRegister"
	InvalidDirective      Kind = "InvalidDirective"
	InternalException     Kind = "InternalException"
	GeneratorErrorKind    Kind = "GeneratorError"
	Unimplemented         Kind = "Unimplemented"

	// Generator kinds.
	RegisterNotSupportedInBitMode Kind = "RegisterNotSupportedInBitMode"
	InvalidParsingPass            Kind = "InvalidParsingPass"
)

// Location is the (byte offset, line, column) triple attached to
// every token and diagnostic. Line and Column are one-based; Offset
// is zero-based.
type Location struct {
	Offset int
	Line   int
	Column int
}

// Error is the uniform error record for the whole assembler:
// {kind, message, optional location}.
type Error struct {
	Kind     Kind
	Message  string
	Location *Location
	Wrapped  error
}

func (e *Error) Error() string {
	if e.Location != nil {
		return fmt.Sprintf("[%s]:%d:%d %s", e.Kind, e.Location.Line, e.Location.Column, e.Message)
	}
	return fmt.Sprintf("[%s] %s", e.Kind, e.Message)
}

func (e *Error) Unwrap() error {
	return e.Wrapped
}

// New builds a location-less error of the given kind.
func New(kind Kind, message string) *Error {
	return &Error{Kind: kind, Message: message}
}

// Newf builds a location-less error with a formatted message.
func Newf(kind Kind, format string, args ...any) *Error {
	return &Error{Kind: kind, Message: fmt.Sprintf(format, args...)}
}

// At builds an error of the given kind tied to a source location.
func At(kind Kind, loc Location, message string) *Error {
	l := loc
	return &Error{Kind: kind, Message: message, Location: &l}
}

// Atf builds an error of the given kind tied to a source location with
// a formatted message.
func Atf(kind Kind, loc Location, format string, args ...any) *Error {
	l := loc
	return &Error{Kind: kind, Message: fmt.Sprintf(format, args...), Location: &l}
}

// WrapGenerator wraps a generator-layer error into the parser's
// GeneratorError kind, preserving the original location if the inner
// error carries one.
func WrapGenerator(err error) *Error {
	wrapped := &Error{Kind: GeneratorErrorKind, Message: err.Error(), Wrapped: err}
	var inner *Error
	if e, ok := err.(*Error); ok {
		inner = e
	}
	if inner != nil {
		wrapped.Location = inner.Location
	}
	return wrapped
}
