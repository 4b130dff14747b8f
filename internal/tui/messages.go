package tui

import (
	"github.com/gamemods/modhub/internal/feed"
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

// CatalogueLoadedMsg signals that the catalogue finished loading
type CatalogueLoadedMsg struct {
	Result feed.Result
}

// SearchDebounceMsg fires after the search debounce interval. Seq ties it to
// the keystroke that scheduled it; stale sequences are dropped.
type SearchDebounceMsg struct {
	Seq int
}

// ClearStatusMsg clears the transient status line
type ClearStatusMsg struct{}

// PreviewsCachedMsg signals that preview precaching finished
type PreviewsCachedMsg struct {
	Count int
}

// LinkOpenedMsg signals that a download link was handed to the opener
type LinkOpenedMsg struct {
	URL string
}
