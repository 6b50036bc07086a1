package lifecycle

import "errors"

var (
	// ErrInvalidTransition means the event is not legal from the current
	// item (or claim) status. Always surfaced, never silently ignored.
	ErrInvalidTransition = errors.New("invalid transition")

	// ErrPreconditionFailed means a cross-entity guard failed, e.g.
	// completing a claim that was never approved.
	ErrPreconditionFailed = errors.New("precondition failed")
)
