package errors

import (
	"context"
	"errors"
	"fmt"
	"strings"
)

// Error taxonomy shared by the gateway and the engine.
var (
	ErrUnauthenticated = errors.New("not authenticated")
	ErrTransient       = errors.New("transient transport error")
	ErrConflict        = errors.New("stale concurrency token")
	ErrNotFound        = errors.New("not found")
	ErrRateLimited     = errors.New("rate limited")
	ErrNoActiveDevice  = errors.New("no active device")
	ErrConfigNotFound  = errors.New("config file not found")
	ErrInvalidConfig   = errors.New("invalid configuration")
)

// Re-exported so callers only need this package.
var (
	Is  = errors.Is
	As  = errors.As
	New = errors.New
)

// CueError wraps an error with a user-friendly suggestion.
type CueError struct {
	Err        error
	Suggestion string
}

func (e *CueError) Error() string {
	return e.Err.Error()
}

func (e *CueError) Unwrap() error {
	return e.Err
}

// WithSuggestion wraps an error with a helpful suggestion.
func WithSuggestion(err error, suggestion string) error {
	return &CueError{
		Err:        err,
		Suggestion: suggestion,
	}
}

// Transient marks err as a transient transport failure.
func Transient(err error) error {
	if err == nil {
		return nil
	}
	return fmt.Errorf("%w: %w", ErrTransient, err)
}

// Retryable reports whether an operation that failed with err may succeed
// if issued again unchanged.
func Retryable(err error) bool {
	if err == nil {
		return false
	}
	if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		return false
	}
	if errors.Is(err, ErrUnauthenticated) || errors.Is(err, ErrConflict) || errors.Is(err, ErrNotFound) {
		return false
	}
	return true
}

// GetSuggestion returns a suggestion for the given error.
func GetSuggestion(err error) string {
	if err == nil {
		return ""
	}

	var cueErr *CueError
	if errors.As(err, &cueErr) && cueErr.Suggestion != "" {
		return cueErr.Suggestion
	}

	switch {
	case errors.Is(err, ErrUnauthenticated):
		return "Store a Spotify token at the path shown by 'cue auth status'"
	case errors.Is(err, ErrNoActiveDevice):
		return "Open Spotify on a device and start playing, or set spotify.device in the config"
	case errors.Is(err, ErrRateLimited):
		return "Too many requests. Wait a moment and try again"
	case errors.Is(err, ErrConflict):
		return "The playlist changed remotely. Retry the operation"
	case errors.Is(err, ErrNotFound):
		return "The playlist or device no longer exists. Run 'cue cleanup' to clear stale state"
	case errors.Is(err, ErrTransient):
		return "Check your internet connection and try again"
	case errors.Is(err, ErrConfigNotFound), errors.Is(err, ErrInvalidConfig):
		return "Run 'cue config init' to set up your configuration"
	}

	if strings.Contains(strings.ToLower(err.Error()), "timeout") {
		return "Check your internet connection and try again"
	}
	return ""
}

// Format returns a formatted error message with suggestion if available.
func Format(err error) string {
	if err == nil {
		return ""
	}

	suggestion := GetSuggestion(err)
	if suggestion != "" {
		return fmt.Sprintf("Error: %s\n\nSuggestion: %s", err.Error(), suggestion)
	}

	return fmt.Sprintf("Error: %s", err.Error())
}
