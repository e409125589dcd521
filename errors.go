package goJobStats

import "errors"

var (
	// ErrJobInterrupted is the cooperative interruption signal. A job body
	// returns it (or an error wrapping it) to yield control back to the
	// engine without completing; the tracker counts the execution as
	// processed and timed, never as failed, and returns the error verbatim.
	ErrJobInterrupted = errors.New("job interrupted")
	// ErrNilJob is an exported constant or variable used by the execution tracker.
	ErrNilJob = errors.New("nil job body")
	// ErrTrackerNotReady is an exported constant or variable used by the execution tracker.
	ErrTrackerNotReady = errors.New("tracker not initialized")
	// ErrFlushUnavailable is an exported constant or variable used by the execution tracker.
	ErrFlushUnavailable = errors.New("flush backend unavailable")
)
