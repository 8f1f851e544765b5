package tui

import "errors"

var (
	// ErrAborted signals the user aborted input (e.g., Ctrl+C).
	ErrAborted = errors.New("tui: aborted")
	// ErrUnknownFormat is returned by Encode for unsupported output formats.
	ErrUnknownFormat = errors.New("tui: unknown output format")
)
