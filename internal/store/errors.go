package store

import "errors"

var (
	// ErrNotFound indicates the requested row does not exist.
	ErrNotFound = errors.New("store: not found")
	// ErrDuplicatePaper indicates a record already exists for the identifier.
	ErrDuplicatePaper = errors.New("store: paper already exists")
	// ErrTerminalState indicates a transition was attempted on a completed or
	// failed submission.
	ErrTerminalState = errors.New("store: submission is in a terminal state")
	// ErrStatusConflict indicates the submission was not in the expected
	// prior status, typically because another worker claimed it first.
	ErrStatusConflict = errors.New("store: submission status changed concurrently")
)
