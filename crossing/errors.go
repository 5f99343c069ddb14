package crossing

import "errors"

// ErrUnreachable is returned when image replacement returns without reporting an error.
var ErrUnreachable = errors.New("image replacement returned")

const (
	// ExitFailure is the exit status of a usage error or a failed step.
	ExitFailure = 1
	// ExitUnreachable is the exit status after [ErrUnreachable].
	ExitUnreachable = 2
)

// ExitCode returns the exit status corresponding to err.
func ExitCode(err error) int {
	switch {
	case err == nil:
		return 0
	case errors.Is(err, ErrUnreachable):
		return ExitUnreachable
	default:
		return ExitFailure
	}
}

// StepError is returned when a step of the transfer fails.
type StepError struct {
	// Step names the failed step as it appears in the diagnostic.
	Step string
	Err  error
}

func (e *StepError) Unwrap() error { return e.Err }
func (e *StepError) Error() string {
	if e.Err == nil {
		return e.Step
	}
	return e.Step + ": " + e.Err.Error()
}

// UsageError is returned for malformed or missing arguments. No side effect has taken place.
type UsageError string

func (e UsageError) Error() string { return string(e) }

// PrivilegeStateError is returned when a privilege transition is requested from the wrong state.
type PrivilegeStateError struct{ From, To PrivilegeState }

func (e *PrivilegeStateError) Error() string {
	return "invalid privilege transition from " + e.From.String() + " to " + e.To.String()
}

// handoffError is returned receiving an invalid handoff from the previous stage.
type handoffError string

func (e handoffError) Error() string { return string(e) }

const (
	errNoJoin    handoffError = "namespace handoff without join"
	errNoArchive handoffError = "archive descriptor missing from handoff"
)
