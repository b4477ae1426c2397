package envelope

import "errors"

// Kind is a stable category for programmatic error handling.
//
// Callers should branch on Kind rather than matching error strings;
// Error() strings are human-readable and may evolve.
type Kind string

const (
	// KindParse covers input the codec could not interpret at all.
	KindParse Kind = "Parse"

	// KindMissingField covers a required manifest or envelope field that
	// is absent from the input.
	KindMissingField Kind = "MissingField"

	// KindTypeMismatch covers a field that is present but not convertible
	// to its declared type.
	KindTypeMismatch Kind = "TypeMismatch"

	// KindPayloadShape covers a payload sub-structure that does not match
	// the requested payload type.
	KindPayloadShape Kind = "PayloadShape"
)

// Error is the library's structured decode error.
//
// Field names the offending field where known. Cause carries the codec's
// own diagnostic verbatim and is reachable through errors.Unwrap; it is
// deliberately not folded into Error() so wrapping callers do not print
// it twice.
type Error struct {
	Kind    Kind
	Field   string
	Message string
	Cause   error
}

func (e *Error) Error() string {
	if e == nil {
		return "<nil>"
	}
	return e.Message
}

func (e *Error) Unwrap() error {
	if e == nil {
		return nil
	}
	return e.Cause
}

func newError(kind Kind, field, msg string) error {
	return &Error{Kind: kind, Field: field, Message: msg}
}

func wrapError(kind Kind, field, msg string, cause error) error {
	if cause == nil {
		return newError(kind, field, msg)
	}
	return &Error{Kind: kind, Field: field, Message: msg, Cause: cause}
}

// IsKind reports whether err is (or wraps) a *Error with the given Kind.
func IsKind(err error, kind Kind) bool {
	var e *Error
	if !errors.As(err, &e) {
		return false
	}
	return e.Kind == kind
}

// ErrField returns the offending field for a structured error, or "" if
// unknown.
func ErrField(err error) string {
	var e *Error
	if !errors.As(err, &e) {
		return ""
	}
	return e.Field
}
