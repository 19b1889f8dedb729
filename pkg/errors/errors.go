// Package errors wraps github.com/go-errors/errors so every error created in
// this module carries the stack of the call that produced it, while staying
// compatible with the standard library's Is/As/Unwrap chain.
package errors

import (
	stderrors "errors"
	"fmt"

	goerrors "github.com/go-errors/errors"
)

// New returns an error with the given message and the caller's stack.
func New(msg string) error {
	return goerrors.Wrap(stderrors.New(msg), 1)
}

// Errorf formats according to a format specifier. %w verbs are preserved,
// so the result unwraps to the wrapped error.
func Errorf(format string, args ...interface{}) error {
	return goerrors.Wrap(fmt.Errorf(format, args...), 1)
}

// Wrap annotates err with msg. It returns nil when err is nil.
func Wrap(err error, msg string) error {
	if err == nil {
		return nil
	}
	return goerrors.Wrap(fmt.Errorf("%s: %w", msg, err), 1)
}

// Is reports whether any error in err's chain matches target.
func Is(err, target error) bool {
	return stderrors.Is(err, target)
}

// As finds the first error in err's chain that matches target.
func As(err error, target interface{}) bool {
	return stderrors.As(err, target)
}

// Unwrap returns the result of calling the Unwrap method on err.
func Unwrap(err error) error {
	return stderrors.Unwrap(err)
}

// ErrorStack returns the recorded stack for err, or an empty string when err
// was not created by this package.
func ErrorStack(err error) string {
	var ge *goerrors.Error
	if stderrors.As(err, &ge) {
		return string(ge.Stack())
	}
	return ""
}

// Recover is meant to be deferred. It converts a panic into an error carrying
// the panic site's stack and passes it to handler.
func Recover(handler func(err error)) {
	if r := recover(); r != nil {
		handler(goerrors.Wrap(r, 2))
	}
}
