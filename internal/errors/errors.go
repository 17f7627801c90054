package errors

import (
	"errors"
	"fmt"
	"os"

	"github.com/julianstephens/habitual/internal/logger"
)

var (
	// ErrConfiguration is matched by every *ConfigurationError
	ErrConfiguration = errors.New("invalid configuration")
	// ErrDuplicateCompletion is matched by every *DuplicateCompletionError
	ErrDuplicateCompletion = errors.New("habit already completed for this period")
	// ErrNotFound is matched by every *NotFoundError
	ErrNotFound = errors.New("not found")
	// ErrDuplicateHabit is returned when a habit name is already taken
	ErrDuplicateHabit = errors.New("habit already exists")
)

// ConfigurationError reports an invalid configuration value, such as an unknown periodicity.
type ConfigurationError struct {
	Field string
	Value string
}

func (e *ConfigurationError) Error() string {
	return fmt.Sprintf("invalid %s: %q", e.Field, e.Value)
}

func (e *ConfigurationError) Is(target error) bool {
	return target == ErrConfiguration
}

// DuplicateCompletionError reports a second completion inside an already completed period.
type DuplicateCompletionError struct {
	HabitID string
	Period  string
}

func (e *DuplicateCompletionError) Error() string {
	if e.Period == "" {
		return fmt.Sprintf("habit %s already completed for this period", e.HabitID)
	}
	return fmt.Sprintf("habit %s already completed for period %s", e.HabitID, e.Period)
}

func (e *DuplicateCompletionError) Is(target error) bool {
	return target == ErrDuplicateCompletion
}

// NotFoundError reports a reference to a record that does not exist.
type NotFoundError struct {
	Kind string
	Ref  string
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("%s %q not found", e.Kind, e.Ref)
}

func (e *NotFoundError) Is(target error) bool {
	return target == ErrNotFound
}

// NewConfigurationError returns a *ConfigurationError for field and value.
func NewConfigurationError(field, value string) error {
	return &ConfigurationError{Field: field, Value: value}
}

// NewNotFoundError returns a *NotFoundError for the given record kind and reference.
func NewNotFoundError(kind, ref string) error {
	return &NotFoundError{Kind: kind, Ref: ref}
}

// Format formats an error message with a consistent "Error: " prefix
func Format(err error) string {
	if err == nil {
		return ""
	}
	return fmt.Sprintf("Error: %v", err)
}

// Formatf formats an error message with a consistent "Error: " prefix using a format string
func Formatf(format string, args ...interface{}) string {
	return fmt.Sprintf("Error: "+format, args...)
}

// Fatal logs an error and exits the program with exit code 1
func Fatal(err error) {
	if err != nil {
		logger.Error("Command execution failed", "error", err)
		fmt.Fprintf(os.Stderr, "%s\n", Format(err))
		os.Exit(1)
	}
}

// Fatalf logs and formats an error message, then exits the program with exit code 1
func Fatalf(format string, args ...interface{}) {
	msg := fmt.Sprintf(format, args...)
	logger.Error("Command execution failed", "error", msg)
	fmt.Fprintf(os.Stderr, "%s\n", Formatf(format, args...))
	os.Exit(1)
}
