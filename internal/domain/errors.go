package domain

import (
	"errors"
	"fmt"
)

var (
	// ErrSuperseded signals that a load was cancelled because a newer load
	// started. Callers treat it as a non-event, never as a failure.
	ErrSuperseded = errors.New("load superseded by a newer request")

	// ErrQueryTooShort signals a search string below the minimum length.
	// The previous result set stays on screen when this is returned.
	ErrQueryTooShort = errors.New("search text too short")
)

// FetchError reports a failed feed retrieval. Status is zero when the request
// never produced an HTTP response.
type FetchError struct {
	URL    string
	Status int
	Err    error
}

func (e *FetchError) Error() string {
	if e.Status != 0 {
		return fmt.Sprintf("fetch %s: unexpected status %d", e.URL, e.Status)
	}
	return fmt.Sprintf("fetch %s: %v", e.URL, e.Err)
}

func (e *FetchError) Unwrap() error { return e.Err }

// FormatError reports a feed payload that could not be decoded as a mod list.
type FormatError struct {
	Reason string
	Err    error
}

func (e *FormatError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("feed format: %s: %v", e.Reason, e.Err)
	}
	return "feed format: " + e.Reason
}

func (e *FormatError) Unwrap() error { return e.Err }
