package results

import (
	"errors"
	"fmt"
)

var (
	// ErrServerUnavailable wraps every transport failure.
	ErrServerUnavailable = errors.New("the server broke down")
	// ErrStaleReply is returned by Apply for a reply that a newer request
	// has superseded. The reply is dropped.
	ErrStaleReply    = errors.New("stale reply")
	ErrUnknownRepo   = errors.New("repository not in results")
	ErrNoMoreMatches = errors.New("all matches loaded")
	ErrNoOtherRepos  = errors.New("no other repositories to load")
)

// ServerError is an error the server reported in the response body.
type ServerError struct {
	Message string
}

func (e *ServerError) Error() string {
	return e.Message
}

// PatternError is a query that does not compile as a regular expression.
type PatternError struct {
	Pattern string
	Err     error
}

func (e *PatternError) Error() string {
	return fmt.Sprintf("invalid pattern %q: %v", e.Pattern, e.Err)
}

func (e *PatternError) Unwrap() error {
	return e.Err
}
