package session

import (
	"errors"
	"fmt"

	"oxrsession/internal/xr"
)

// fatalSetupError marks a bring-up failure with no retry path: the
// preconditions are environmental.
type fatalSetupError struct {
	step string
	err  error
}

func (e fatalSetupError) Error() string { return e.step + ": " + e.err.Error() }
func (e fatalSetupError) Unwrap() error { return e.err }

// ErrFatalSetup wraps err as a fatal bring-up failure at step.
func ErrFatalSetup(step string, err error) error { return fatalSetupError{step: step, err: err} }

// IsFatalSetup reports whether err aborted bring-up.
func IsFatalSetup(err error) bool {
	var fe fatalSetupError
	return errors.As(err, &fe)
}

// graphicsUnsupportedError reports a local GLES version outside the runtime's range.
type graphicsUnsupportedError struct {
	have     xr.Version
	min, max xr.Version
}

func (e graphicsUnsupportedError) Error() string {
	return fmt.Sprintf("unsupported graphics version %s (runtime accepts %s..%s)", e.have, e.min, e.max)
}

// IsGraphicsUnsupported reports whether err is a driver/runtime version mismatch.
func IsGraphicsUnsupported(err error) bool {
	var ge graphicsUnsupportedError
	return errors.As(err, &ge)
}

// staleSessionError is returned for events naming a superseded session.
type staleSessionError struct {
	got, active xr.Session
}

func (e staleSessionError) Error() string {
	return fmt.Sprintf("stale session event: session=%d active=%d", e.got, e.active)
}

// IsStaleSession reports whether err rejected an event for a superseded session.
func IsStaleSession(err error) bool {
	var se staleSessionError
	return errors.As(err, &se)
}

// restartRequestedError is returned by Run when the instance was lost and
// bring-up must be repeated against a fresh instance.
type restartRequestedError struct{}

func (restartRequestedError) Error() string { return "instance loss pending: restart requested" }

// ErrRestartRequested is the error Run returns on instance or session loss.
var ErrRestartRequested error = restartRequestedError{}

// IsRestartRequested reports whether err asks the caller to redo bring-up.
func IsRestartRequested(err error) bool {
	var re restartRequestedError
	return errors.As(err, &re)
}

// imageWaitTimeoutError reports a bounded image wait that expired. The
// surface keeps its acquisition pending.
type imageWaitTimeoutError struct{ view int }

func (e imageWaitTimeoutError) Error() string {
	return fmt.Sprintf("view %d: swapchain image wait timed out", e.view)
}

// IsImageWaitTimeout reports whether err is an expired image wait.
func IsImageWaitTimeout(err error) bool {
	var te imageWaitTimeoutError
	return errors.As(err, &te)
}

// dependencyUnavailableError signals a backend that is not compiled in
// (native runtime or GLES) so callers can report it distinctly.
type dependencyUnavailableError struct{ msg string }

func (e dependencyUnavailableError) Error() string { return e.msg }

// ErrDependencyUnavailable constructs a dependencyUnavailableError.
func ErrDependencyUnavailable(msg string) error { return dependencyUnavailableError{msg: msg} }

// IsDependencyUnavailable reports whether err indicates a missing backend.
func IsDependencyUnavailable(err error) bool {
	var de dependencyUnavailableError
	return errors.As(err, &de)
}
