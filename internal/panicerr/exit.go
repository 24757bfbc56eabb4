package panicerr

import (
	"errors"
	"fmt"
)

// ExitError is returned by Recover when its function calls runtime.Goexit
// instead of returning.
type ExitError struct {
	Name string
}

func (xe ExitError) Error() string {
	if xe.Name == "" {
		return "runtime.Goexit called"
	}
	return fmt.Sprintf("%v called runtime.Goexit", xe.Name)
}

// recoverExitError only sends when the deferred panic and return paths did
// not, since errch is buffered for exactly one result.
func recoverExitError(name string, errch chan<- error) {
	select {
	case errch <- ExitError{name}:
	default:
	}
}

// IsExit returns true if err indicates a recovered goroutine exit.
func IsExit(err error) bool {
	var xe ExitError
	return errors.As(err, &xe)
}
