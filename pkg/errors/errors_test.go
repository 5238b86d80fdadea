package errors

import (
	stderrors "errors"
	"fmt"
	"testing"
)

func TestErrorFormatting(t *testing.T) {
	tests := []struct {
		name string
		err  *Error
		want string
	}{
		{
			name: "without cause",
			err:  New(ErrCodeDuplicateKey, "node key %d already exists", 4),
			want: "DUPLICATE_KEY: node key 4 already exists",
		},
		{
			name: "with cause",
			err:  Wrap(ErrCodeInternal, fmt.Errorf("disk full"), "failed to save"),
			want: "INTERNAL_ERROR: failed to save: disk full",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.err.Error(); got != tt.want {
				t.Errorf("Error() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestIs(t *testing.T) {
	err := New(ErrCodeNothingToUndo, "undo stack is empty")

	if !Is(err, ErrCodeNothingToUndo) {
		t.Error("Is() = false for matching code")
	}
	if Is(err, ErrCodeNothingToRedo) {
		t.Error("Is() = true for different code")
	}
	if Is(stderrors.New("plain"), ErrCodeNothingToUndo) {
		t.Error("Is() = true for non-structured error")
	}

	// Wrapped errors keep their code visible through the chain.
	wrapped := fmt.Errorf("operation failed: %w", err)
	if !Is(wrapped, ErrCodeNothingToUndo) {
		t.Error("Is() = false for wrapped structured error")
	}
}

func TestGetCode(t *testing.T) {
	if got := GetCode(New(ErrCodeUnknownRecord, "no such node")); got != ErrCodeUnknownRecord {
		t.Errorf("GetCode() = %q, want %q", got, ErrCodeUnknownRecord)
	}
	if got := GetCode(stderrors.New("plain")); got != "" {
		t.Errorf("GetCode() = %q, want empty", got)
	}
}

func TestUserMessage(t *testing.T) {
	if got := UserMessage(New(ErrCodeDuplicateKey, "key 4 taken")); got != "key 4 taken" {
		t.Errorf("UserMessage() = %q", got)
	}
	if got := UserMessage(stderrors.New("plain error")); got != "plain error" {
		t.Errorf("UserMessage() = %q", got)
	}
}

func TestUnwrap(t *testing.T) {
	cause := stderrors.New("root cause")
	err := Wrap(ErrCodeInternal, cause, "wrapper")
	if !stderrors.Is(err, cause) {
		t.Error("errors.Is does not reach the cause")
	}
}

func TestHTTPStatus(t *testing.T) {
	tests := []struct {
		err  error
		want int
	}{
		{New(ErrCodeDuplicateKey, "x"), 409},
		{New(ErrCodeUnknownRecord, "x"), 404},
		{New(ErrCodeInvalidInput, "x"), 400},
		{New(ErrCodeNothingToUndo, "x"), 422},
		{stderrors.New("plain"), 500},
	}
	for _, tt := range tests {
		if got := HTTPStatus(tt.err); got != tt.want {
			t.Errorf("HTTPStatus(%v) = %d, want %d", tt.err, got, tt.want)
		}
	}
}
