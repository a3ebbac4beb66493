package packet

import "fmt"

// Kind categorizes the error taxonomy a packet operation can raise.
//
// Failures the packets raise themselves surface as an *Error with one of
// these kinds attached, so callers can dispatch on category without string
// matching. An error returned while evaluating a CtxParam (a failed Path
// lookup, for instance) is passed up unchanged by the packets that evaluate
// it directly (Virtual, Const/Default/Deduced, Bytes, Checksum, ...), so it
// is not always an *Error; Dynamic and Validator do wrap such errors.
type Kind int

const (
	// KindStreamOpen indicates the underlying stream could not be opened.
	KindStreamOpen Kind = iota
	// KindStreamRead indicates a transport-level read failure, including an
	// unexpected EOF during an exactly-sized read.
	KindStreamRead
	// KindStreamWrite indicates a transport-level write failure.
	KindStreamWrite
	// KindEncode indicates the user-supplied value is incompatible with the
	// packet being encoded (wrong type, out of range, declared-length
	// mismatch, conflict with a deduced value).
	KindEncode
	// KindDecode indicates the bytes read from the stream are incompatible
	// with the packet being decoded (unknown discriminant, failed checksum,
	// text-decoding failure, unexpected trailing bytes).
	KindDecode
	// KindObjType is a specialization of KindEncode: the value's dynamic
	// type does not match what the packet expects.
	KindObjType
	// KindInvalid indicates a predicate-based validator failed.
	KindInvalid
	// KindNotSizeable indicates Size could not be determined without
	// consulting already-encoded bytes that aren't available.
	KindNotSizeable
)

func (k Kind) String() string {
	switch k {
	case KindStreamOpen:
		return "stream open error"
	case KindStreamRead:
		return "stream read error"
	case KindStreamWrite:
		return "stream write error"
	case KindEncode:
		return "encode error"
	case KindDecode:
		return "decode error"
	case KindObjType:
		return "object type error"
	case KindInvalid:
		return "validation error"
	case KindNotSizeable:
		return "not sizeable"
	default:
		return "unknown packet error"
	}
}

// Error is the error type packet operations raise themselves. It carries
// a Kind for programmatic dispatch, a human-readable Message, and an
// optional causal chain to the underlying stream or codec error.
type Error struct {
	Kind    Kind
	Message string
	Field   string // dotted field path the error is attributed to, if known
	Cause   error
}

func (e *Error) Error() string {
	msg := e.Message
	if e.Field != "" {
		msg = fmt.Sprintf("%s: %s", e.Field, msg)
	}
	if e.Cause != nil {
		return fmt.Sprintf("%s: %s: %v", e.Kind, msg, e.Cause)
	}
	return fmt.Sprintf("%s: %s", e.Kind, msg)
}

func (e *Error) Unwrap() error {
	return e.Cause
}

func newErr(kind Kind, msg string) *Error {
	return &Error{Kind: kind, Message: msg}
}

func wrapErr(kind Kind, msg string, cause error) *Error {
	return &Error{Kind: kind, Message: msg, Cause: cause}
}

// EncodeErrorf builds a KindEncode error.
func EncodeErrorf(format string, args ...any) *Error {
	return newErr(KindEncode, fmt.Sprintf(format, args...))
}

// DecodeErrorf builds a KindDecode error.
func DecodeErrorf(format string, args ...any) *Error {
	return newErr(KindDecode, fmt.Sprintf(format, args...))
}

// NotSizeableErrorf builds a KindNotSizeable error.
func NotSizeableErrorf(format string, args ...any) *Error {
	return newErr(KindNotSizeable, fmt.Sprintf(format, args...))
}

// WithField prepends name to the dotted field path an error is attributed
// to (so a nested field reads outer.inner) and returns the same error for
// chaining at the call site.
func (e *Error) WithField(name string) *Error {
	if e.Field == "" {
		e.Field = name
	} else {
		e.Field = name + "." + e.Field
	}
	return e
}

// validateType raises a KindObjType error unless v is assignable to want's
// runtime shape. A nil want disables the check.
func validateType(v any, want func(any) bool, typeName string) error {
	if want != nil && !want(v) {
		return wrapErr(KindObjType, fmt.Sprintf("expected %s, got %T", typeName, v), nil)
	}
	return nil
}
