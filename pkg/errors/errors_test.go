package errors

import (
	stderrors "errors"
	"fmt"
	"testing"
)

func TestStructuredError_Error(t *testing.T) {
	tests := []struct {
		name string
		err  *StructuredError
		want string
	}{
		{"message only", New(ErrCodeInvalidConfiguration, "missing"), "missing"},
		{"with cause", Wrap(ErrCodeTransport, "request failed", stderrors.New("refused")), "request failed: refused"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.err.Error(); got != tt.want {
				t.Fatalf("Error() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestCodeOf(t *testing.T) {
	cause := stderrors.New("boom")
	wrapped := fmt.Errorf("outer: %w", Wrap(ErrCodeUnauthorized, "denied", cause))

	if got := CodeOf(wrapped); got != ErrCodeUnauthorized {
		t.Fatalf("CodeOf() = %s, want %s", got, ErrCodeUnauthorized)
	}
	if got := CodeOf(cause); got != ErrCodeInternal {
		t.Fatalf("CodeOf(plain) = %s, want %s", got, ErrCodeInternal)
	}
	if !stderrors.Is(wrapped, cause) {
		t.Fatal("expected cause to be reachable through Unwrap")
	}
}

func TestIsCode(t *testing.T) {
	err := New(ErrCodeRepositoryType, "unknown")
	if !IsCode(err, ErrCodeRepositoryType) {
		t.Fatal("IsCode() = false, want true")
	}
	if IsCode(err, ErrCodeTransport) {
		t.Fatal("IsCode() matched the wrong code")
	}
	if IsCode(nil, ErrCodeInternal) {
		t.Fatal("IsCode(nil) = true, want false")
	}
}

func TestWrapWithContext(t *testing.T) {
	err := WrapWithContext(ErrCodeUpstream, "bad status", nil, map[string]any{"status": 500})
	if err.Context["status"].(int) != 500 {
		t.Fatalf("expected context status=500, got %#v", err.Context)
	}
}

func TestExitCode(t *testing.T) {
	if ExitCode(nil) != 0 {
		t.Fatal("ExitCode(nil) != 0")
	}
	if ExitCode(New(ErrCodeTimeout, "late")) != 1 {
		t.Fatal("ExitCode(err) != 1")
	}
}
