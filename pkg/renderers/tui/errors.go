package tui

import "errors"

var (
	// ErrAborted signals the user aborted input (e.g., Ctrl+C).
	ErrAborted = errors.New("tui: aborted")
	// ErrNoRecords is returned by row actions when the desk holds no records.
	ErrNoRecords = errors.New("tui: no records")
)
