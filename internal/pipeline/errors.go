package pipeline

import (
	"fmt"

	"github.com/jonathan/jobpost-checker/internal/ingestion"
)

// ErrInvalidURL is returned when the posting URL lacks a scheme or host.
var ErrInvalidURL = ingestion.ErrInvalidURL

// FetchError wraps a failed page fetch. Cause is usually a *fetch.Error.
type FetchError struct {
	URL   string
	Cause error
}

func (e *FetchError) Error() string {
	return fmt.Sprintf("failed to fetch %s: %v", e.URL, e.Cause)
}

func (e *FetchError) Unwrap() error {
	return e.Cause
}
