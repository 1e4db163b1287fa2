package tui

import (
	"github.com/mmcdole/netkin/internal/remix"
)

// Message types for the TUI

// ErrMsg represents an error
type ErrMsg struct {
	Err     error
	Context string
}

// Error implements the error interface
func (e ErrMsg) Error() string {
	if e.Context != "" {
		return e.Context + ": " + e.Err.Error()
	}
	return e.Err.Error()
}

// ClearStatusMsg clears the status bar message. Only the message carrying
// the current tag clears; older ones are stale.
type ClearStatusMsg struct {
	Tag int
}

// RemixDoneMsg reports a finished remix generation
type RemixDoneMsg struct {
	MovieID string
	Kind    remix.Kind
	Path    string
	Err     error
}

// SignedOutMsg signals the current user was cleared
type SignedOutMsg struct{}
