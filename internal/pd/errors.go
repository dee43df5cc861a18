// internal/pd/errors.go
package pd

import "fmt"

// ErrorKind classifies codec failures.
type ErrorKind uint8

const (
	KindUnrecognizedVariant ErrorKind = iota + 1
	KindValueOutOfRange
	KindNotExactStep
	KindPositionOutOfBounds
	KindShortBuffer
)

func (k ErrorKind) String() string {
	switch k {
	case KindUnrecognizedVariant:
		return "unrecognized variant"
	case KindValueOutOfRange:
		return "value out of range"
	case KindNotExactStep:
		return "not an exact step"
	case KindPositionOutOfBounds:
		return "position out of bounds"
	case KindShortBuffer:
		return "short buffer"
	default:
		return fmt.Sprintf("kind(%d)", uint8(k))
	}
}

// Error is returned by every codec in this package.
// errors.Is matches on Kind only, so callers compare against the Err* sentinels.
type Error struct {
	Kind   ErrorKind
	Field  string
	Detail string
}

var (
	ErrUnrecognizedVariant = &Error{Kind: KindUnrecognizedVariant}
	ErrValueOutOfRange     = &Error{Kind: KindValueOutOfRange}
	ErrNotExactStep        = &Error{Kind: KindNotExactStep}
	ErrPositionOutOfBounds = &Error{Kind: KindPositionOutOfBounds}
	ErrShortBuffer         = &Error{Kind: KindShortBuffer}
)

func (e *Error) Error() string {
	msg := "pd: " + e.Kind.String()
	if e.Field != "" {
		msg += ": " + e.Field
	}
	if e.Detail != "" {
		msg += ": " + e.Detail
	}
	return msg
}

func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	if !ok {
		return false
	}
	return t.Kind == e.Kind
}

// Code is published as the device last_error_code. Codec codes live in 0x01xx
// so they never collide with transport codes.
func (e *Error) Code() uint16 {
	return 0x0100 | uint16(e.Kind)
}

func newError(kind ErrorKind, field, format string, args ...any) *Error {
	return &Error{
		Kind:   kind,
		Field:  field,
		Detail: fmt.Sprintf(format, args...),
	}
}
