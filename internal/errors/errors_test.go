package errors

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"testing"
)

func TestRetryable(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want bool
	}{
		{"nil", nil, false},
		{"transient", Transient(errors.New("connection reset")), true},
		{"rate limited", fmt.Errorf("%w: %w", ErrTransient, ErrRateLimited), true},
		{"plain error", errors.New("boom"), true},
		{"unauthenticated", fmt.Errorf("play: %w", ErrUnauthenticated), false},
		{"conflict", ErrConflict, false},
		{"not found", fmt.Errorf("wrapped: %w", ErrNotFound), false},
		{"canceled", context.Canceled, false},
		{"deadline", fmt.Errorf("get: %w", context.DeadlineExceeded), false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Retryable(tt.err); got != tt.want {
				t.Errorf("Retryable(%v) = %v, want %v", tt.err, got, tt.want)
			}
		})
	}
}

func TestTransientWrapsBoth(t *testing.T) {
	cause := errors.New("dial tcp: refused")
	err := Transient(cause)
	if !errors.Is(err, ErrTransient) {
		t.Error("Transient() result does not match ErrTransient")
	}
	if !errors.Is(err, cause) {
		t.Error("Transient() result does not match its cause")
	}
	if Transient(nil) != nil {
		t.Error("Transient(nil) should be nil")
	}
}

func TestFormat(t *testing.T) {
	if Format(nil) != "" {
		t.Error("Format(nil) should be empty")
	}

	got := Format(fmt.Errorf("load token: %w", ErrUnauthenticated))
	if !strings.Contains(got, "Suggestion:") {
		t.Errorf("Format() = %q, want a suggestion", got)
	}

	got = Format(errors.New("something odd"))
	if got != "Error: something odd" {
		t.Errorf("Format() = %q", got)
	}
}

func TestWithSuggestion(t *testing.T) {
	err := WithSuggestion(ErrNotFound, "custom")
	if GetSuggestion(err) != "custom" {
		t.Errorf("GetSuggestion() = %q, want %q", GetSuggestion(err), "custom")
	}
	if !errors.Is(err, ErrNotFound) {
		t.Error("WithSuggestion() should unwrap to the original error")
	}
}
