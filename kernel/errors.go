package kernel

import (
	"errors"
	"fmt"
	"runtime/debug"
)

// ErrRejected is matched by every RejectionError.
var ErrRejected = errors.New("kernel rejected profile")

// RejectionError reports a profile the kernel cannot turn into geometry.
type RejectionError struct {
	// Profile is the name given to the wire.
	Profile string
	Reason  string
}

func (e *RejectionError) Error() string {
	return fmt.Sprintf("profile %q rejected: %s", e.Profile, e.Reason)
}

func (e *RejectionError) Unwrap() error { return ErrRejected }

func reject(profile, format string, args ...any) error {
	return &RejectionError{Profile: profile, Reason: fmt.Sprintf(format, args...)}
}

// shapeErr is a panic raised by an SDF constructor.
type shapeErr struct {
	panicObj interface{}
	stack    string
}

func (s *shapeErr) Error() string {
	return fmt.Sprintf("%s", s.panicObj)
}

// catch turns a panic of the calling function into an error. It must be deferred.
func catch(err *error) {
	if a := recover(); a != nil {
		*err = &shapeErr{
			panicObj: a,
			stack:    string(debug.Stack()),
		}
	}
}
