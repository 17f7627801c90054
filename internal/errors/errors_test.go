package errors

import (
	"bytes"
	"errors"
	"fmt"
	"os"
	"os/exec"
	"strings"
	"testing"
)

func TestFormat(t *testing.T) {
	tests := []struct {
		name     string
		err      error
		expected string
	}{
		{
			name:     "nil error",
			err:      nil,
			expected: "",
		},
		{
			name:     "simple error",
			err:      errors.New("something went wrong"),
			expected: "Error: something went wrong",
		},
		{
			name:     "not found error",
			err:      NewNotFoundError("habit", "read"),
			expected: `Error: habit "read" not found`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := Format(tt.err)
			if result != tt.expected {
				t.Errorf("Format(%v) = %q, want %q", tt.err, result, tt.expected)
			}
		})
	}
}

func TestFormatf(t *testing.T) {
	result := Formatf("failed to load %s", "database")
	if result != "Error: failed to load database" {
		t.Errorf("Formatf() = %q, want %q", result, "Error: failed to load database")
	}
}

func TestTypedErrorsMatchSentinels(t *testing.T) {
	tests := []struct {
		name     string
		err      error
		sentinel error
		other    error
	}{
		{
			name:     "configuration",
			err:      NewConfigurationError("periodicity", "monthly"),
			sentinel: ErrConfiguration,
			other:    ErrNotFound,
		},
		{
			name:     "duplicate completion",
			err:      &DuplicateCompletionError{HabitID: "h1", Period: "2026-W42"},
			sentinel: ErrDuplicateCompletion,
			other:    ErrConfiguration,
		},
		{
			name:     "not found",
			err:      NewNotFoundError("habit", "h1"),
			sentinel: ErrNotFound,
			other:    ErrDuplicateCompletion,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			wrapped := fmt.Errorf("while testing: %w", tt.err)
			if !errors.Is(wrapped, tt.sentinel) {
				t.Errorf("errors.Is(%v, %v) = false, want true", wrapped, tt.sentinel)
			}
			if errors.Is(wrapped, tt.other) {
				t.Errorf("errors.Is(%v, %v) = true, want false", wrapped, tt.other)
			}
		})
	}
}

func TestDuplicateCompletionErrorAs(t *testing.T) {
	err := fmt.Errorf("record: %w", &DuplicateCompletionError{HabitID: "h1", Period: "2026-10-18"})

	var dup *DuplicateCompletionError
	if !errors.As(err, &dup) {
		t.Fatalf("errors.As failed for %v", err)
	}
	if dup.Period != "2026-10-18" {
		t.Errorf("Period = %q, want %q", dup.Period, "2026-10-18")
	}
	if !strings.Contains(err.Error(), "2026-10-18") {
		t.Errorf("message %q does not name the period", err.Error())
	}
}

// TestFatal tests the Fatal function using exec helper process
func TestFatal(t *testing.T) {
	if os.Getenv("GO_TEST_FATAL") == "1" {
		Fatal(errors.New("test error"))
		return
	}

	cmd := exec.Command(os.Args[0], "-test.run=TestFatal$")
	cmd.Env = append(os.Environ(), "GO_TEST_FATAL=1")
	var stderr bytes.Buffer
	cmd.Stderr = &stderr

	err := cmd.Run()
	if e, ok := err.(*exec.ExitError); ok && !e.Success() {
		if e.ExitCode() != 1 {
			t.Errorf("Fatal() exit code = %d, want 1", e.ExitCode())
		}
		if !strings.Contains(stderr.String(), "Error: test error") {
			t.Errorf("Fatal() stderr = %q, want to contain %q", stderr.String(), "Error: test error")
		}
	} else {
		t.Errorf("Fatal() did not exit with error: %v", err)
	}
}

// TestFatal_NilError tests that Fatal does nothing when passed a nil error
func TestFatal_NilError(t *testing.T) {
	if os.Getenv("GO_TEST_FATAL_NIL") == "1" {
		Fatal(nil)
		os.Exit(0)
	}

	cmd := exec.Command(os.Args[0], "-test.run=TestFatal_NilError")
	cmd.Env = append(os.Environ(), "GO_TEST_FATAL_NIL=1")

	if err := cmd.Run(); err != nil {
		t.Errorf("Fatal(nil) should not exit, but got error: %v", err)
	}
}
