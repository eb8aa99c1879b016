package errors

import (
	"fmt"
	"reflect"

	"github.com/pkg/errors"
)

// Root errors shared by all packages. Extensions register their own codes
// next to the code that returns them.
var (
	// ErrUnauthorized is returned when the signers of a request carry too
	// little weight.
	ErrUnauthorized = Register(2, "unauthorized")

	// ErrNotFound is returned when requested data does not exist.
	ErrNotFound = Register(3, "not found")

	// ErrMsg is returned for an action that cannot be handled.
	ErrMsg = Register(4, "invalid message")

	// ErrModel is returned for a stored or to be stored value that cannot
	// be used.
	ErrModel = Register(5, "invalid model")

	// ErrDuplicate is returned when a unique key is already taken.
	ErrDuplicate = Register(6, "duplicate")

	// ErrEmpty is returned when a required value is missing.
	ErrEmpty = Register(9, "value is empty")

	// ErrState is returned when an object is used in a state that does not
	// allow it.
	ErrState = Register(10, "invalid state")

	// ErrInvalidType is returned when a value is not of the expected type.
	ErrInvalidType = Register(11, "invalid type")

	// ErrInvalidInput is the general malformed input error.
	ErrInvalidInput = Register(14, "invalid input")

	// ErrDatabase is returned when a storage backend fails.
	ErrDatabase = Register(17, "database")

	// ErrPanic wraps a recovered panic. Its details are never shown to a
	// client outside of debug mode.
	ErrPanic = Register(111222, "panic")
)

// usedCodes maps every registered code to its error. Code 1 is reserved
// for unclassified internal errors.
var usedCodes = map[uint32]*Error{
	internalCode: nil,
}

// Register declares a root error with a code unique to the whole program.
// It panics if the code is taken, so call it only while initializing
// package variables.
func Register(code uint32, description string) *Error {
	if e, ok := usedCodes[code]; ok {
		panic(fmt.Sprintf("error with code %d is already registered: %q", code, e.desc))
	}
	err := &Error{code: code, desc: description}
	usedCodes[code] = err
	return err
}

// Error is a root error. Every error returned at runtime should wrap one of
// them, so that a client can tell errors apart by code.
type Error struct {
	code uint32
	desc string
}

func (e Error) Error() string {
	return e.desc
}

// Code returns the registered code.
func (e Error) Code() uint32 {
	return e.code
}

// New is a shortcut for Wrap(e, description).
func (e *Error) New(description string) error {
	return Wrap(e, description)
}

// Newf is a shortcut for Wrapf(e, format, args...).
func (e *Error) Newf(format string, args ...interface{}) error {
	return Wrapf(e, format, args...)
}

// Is returns true if err is e or wraps it. Both pkg/errors style Cause and
// standard library Unwrap chains are followed. A nil root error matches
// only a nil error, typed nil pointers included.
func (e *Error) Is(err error) bool {
	if e == nil {
		return errIsNil(err)
	}
	for err != nil {
		if err == e {
			return true
		}
		err = unwrapOnce(err)
	}
	return false
}

// unwrapOnce returns the error wrapped by err, or nil.
func unwrapOnce(err error) error {
	switch w := err.(type) {
	case causer:
		return w.Cause()
	case interface{ Unwrap() error }:
		return w.Unwrap()
	default:
		return nil
	}
}

// causer is implemented by pkg/errors wrappers and by this package.
type causer interface {
	Cause() error
}

// Wrap adds description to err. A stack trace is recorded on the innermost
// wrap only. Wrapping nil returns nil, so the result of a call can be
// wrapped without checking it first.
//
// An error that does not wrap a registered error is reported as internal.
func Wrap(err error, description string) error {
	if err == nil {
		return nil
	}
	if stackTrace(err) == nil {
		err = errors.WithStack(err)
	}
	return &wrappedError{parent: err, msg: description}
}

// Wrapf is Wrap with a formatted description.
func Wrapf(err error, format string, args ...interface{}) error {
	return Wrap(err, fmt.Sprintf(format, args...))
}

type wrappedError struct {
	msg    string
	parent error
}

func (e *wrappedError) Error() string {
	return fmt.Sprintf("%s: %s", e.msg, e.parent.Error())
}

func (e *wrappedError) Cause() error {
	return e.parent
}

// Unwrap allows the standard library errors.Is and errors.As to see
// through the wrap.
func (e *wrappedError) Unwrap() error {
	return e.parent
}

// Is lets the standard library errors.Is match registered errors. The
// pkg/errors stack wrapper below this one cannot be unwrapped by the
// standard library.
func (e *wrappedError) Is(target error) bool {
	if root, ok := target.(*Error); ok {
		return root.Is(e)
	}
	return false
}

// Format prints the message for %s and %v, and the message followed by the
// stack trace for %+v.
func (e *wrappedError) Format(s fmt.State, verb rune) {
	fmt.Fprint(s, e.Error())
	if verb == 'v' && s.Flag('+') {
		if st := stackTrace(e); st != nil {
			fmt.Fprintf(s, "%+v", st)
		}
	}
}

// Recover stops a panic and stores it in err as an ErrPanic. It must be
// called with defer.
func Recover(err *error) {
	if r := recover(); r != nil {
		*err = Wrapf(ErrPanic, "%v", r)
	}
}

type stackTracer interface {
	error
	StackTrace() errors.StackTrace
}

// stackTrace returns the first stack trace found in the chain of err.
func stackTrace(err error) errors.StackTrace {
	for err != nil {
		if st, ok := err.(stackTracer); ok {
			return st.StackTrace()
		}
		err = unwrapOnce(err)
	}
	return nil
}

// errIsNil returns true if err is nil or a nil pointer hidden in an error
// interface.
func errIsNil(err error) bool {
	if err == nil {
		return true
	}
	if val := reflect.ValueOf(err); val.Kind() == reflect.Ptr {
		return val.IsNil()
	}
	return false
}
