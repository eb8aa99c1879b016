package errors

import (
	"errors"
)

const (
	// SuccessCode is returned for a nil error.
	SuccessCode = 0

	// internalCode and internalLog stand in for every error that does not
	// wrap a registered one.
	internalCode uint32 = 1
	internalLog         = "internal error"
)

// Code returns the code of the registered error wrapped by err. Errors
// without a registered root get the internal code 1.
func Code(err error) uint32 {
	if errIsNil(err) {
		return SuccessCode
	}
	for err != nil {
		if c, ok := err.(coder); ok {
			return c.Code()
		}
		err = unwrapOnce(err)
	}
	return internalCode
}

type coder interface {
	Code() uint32
}

// Redact hides the details of errors that a client must not see: panics and
// errors without a registered code become a generic internal error. Nothing
// is hidden in debug mode.
func Redact(err error, debug bool) error {
	if debug {
		return err
	}
	if ErrPanic.Is(err) || Code(err) == internalCode {
		return errors.New(internalLog)
	}
	return err
}
