// Package checkpoint decorates errors with the location they passed through,
// which gives a short trail similar to a stacktrace when printed.
// Both the decorating error and the wrapped cause stay reachable by
// errors.Is and errors.As.
package checkpoint

import (
	"errors"
	"fmt"
	"io"
	"path/filepath"
	"runtime"
)

// From wraps err in a checkpoint carrying the caller location.
// It returns nil if err is nil.
func From(err error) error {
	// io.EOF must be returned as io.EOF directly
	// https://github.com/golang/go/issues/39155
	if err == nil || err == io.EOF || err == io.ErrUnexpectedEOF {
		return err
	}

	return newCheckpoint(nil, err)
}

// Wrap adds a checkpoint to prev and tags it with err, which usually is
// one of the predefined sentinel errors of the caller:
//
//	var ErrSomethingWentWrong = errors.New("something went wrong")
//
//	func do() error {
//		err := other()
//		return checkpoint.Wrap(err, ErrSomethingWentWrong)
//	}
//
// errors.Is matches both ErrSomethingWentWrong and whatever other returned.
// Returns nil if prev is nil.
func Wrap(prev, err error) error {
	// io.EOF must be returned as io.EOF directly
	// https://github.com/golang/go/issues/39155
	if prev == nil || prev == io.EOF {
		return prev
	}

	return newCheckpoint(err, prev)
}

// Errorf creates a checkpoint for the sentinel err with a formatted detail
// message, for failures which have no underlying cause.
func Errorf(err error, format string, args ...interface{}) error {
	return newCheckpoint(err, fmt.Errorf(format, args...))
}

func newCheckpoint(err, prev error) *checkpoint {
	// Skip newCheckpoint and the exported helper.
	_, file, line, ok := runtime.Caller(2)

	return &checkpoint{
		err:  err,
		prev: prev,

		callerOk: ok,
		file:     filepath.Base(file),
		line:     line,
	}
}

type checkpoint struct {
	err  error
	prev error

	callerOk bool
	file     string
	line     int
}

func (e *checkpoint) Error() string {
	if e.err == nil {
		return e.prev.Error()
	}
	return e.err.Error() + ": " + e.prev.Error()
}

// Trail returns the locations err passed through, outermost first, in the
// form "file.go:line". Checkpoints without caller information are reported
// as "unknown".
func Trail(err error) []string {
	var trail []string
	for err != nil {
		if c, ok := err.(*checkpoint); ok {
			if c.callerOk {
				trail = append(trail, fmt.Sprintf("%s:%d", c.file, c.line))
			} else {
				trail = append(trail, "unknown")
			}
		}
		err = errors.Unwrap(err)
	}
	return trail
}

func (e *checkpoint) Unwrap() error {
	return e.prev
}

func (e *checkpoint) Is(target error) bool {
	return e.err != nil && errors.Is(e.err, target)
}

func (e *checkpoint) As(target interface{}) bool {
	return e.err != nil && errors.As(e.err, target)
}
