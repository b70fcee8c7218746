package errors

import (
	"errors"
	"fmt"
	"strings"
)

// Error types for common failure scenarios.
var (
	ErrNoTracks          = errors.New("no tracks in library")
	ErrUnsupportedFormat = errors.New("unsupported audio format")
	ErrLibraryNotFound   = errors.New("library directory not found")
	ErrAudioDevice       = errors.New("audio device unavailable")
	ErrConfigNotFound    = errors.New("config file not found")
	ErrInvalidConfig     = errors.New("invalid configuration")
)

// SegueError wraps an error with a user-friendly suggestion.
type SegueError struct {
	Err        error
	Suggestion string
}

func (e *SegueError) Error() string {
	return e.Err.Error()
}

func (e *SegueError) Unwrap() error {
	return e.Err
}

// WithSuggestion wraps an error with a helpful suggestion.
func WithSuggestion(err error, suggestion string) error {
	return &SegueError{
		Err:        err,
		Suggestion: suggestion,
	}
}

// GetSuggestion returns a suggestion for the given error.
func GetSuggestion(err error) string {
	if err == nil {
		return ""
	}

	var segueErr *SegueError
	if errors.As(err, &segueErr) && segueErr.Suggestion != "" {
		return segueErr.Suggestion
	}

	errStr := strings.ToLower(err.Error())

	if errors.Is(err, ErrNoTracks) || strings.Contains(errStr, "no tracks") {
		return "Pass a music directory, e.g. 'segue play ~/Music', or set library.dirs in ~/.seguerc"
	}

	if errors.Is(err, ErrLibraryNotFound) || strings.Contains(errStr, "no such file or directory") {
		return "Check that the directory exists and is readable"
	}

	if errors.Is(err, ErrUnsupportedFormat) || strings.Contains(errStr, "unsupported") {
		return "Supported formats are FLAC, MP3 and WAV"
	}

	if errors.Is(err, ErrAudioDevice) || strings.Contains(errStr, "audio device") ||
		strings.Contains(errStr, "alsa") {
		return "Make sure an output device is connected and not held by another program"
	}

	if errors.Is(err, ErrConfigNotFound) {
		return "Run 'segue config init' to create a configuration file"
	}

	if errors.Is(err, ErrInvalidConfig) || strings.Contains(errStr, "config") {
		return "Run 'segue config show' to inspect the active configuration"
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

// PartialResult represents a result that may have partial failures.
type PartialResult[T any] struct {
	Data   T
	Errors []error
}

// HasErrors returns true if there were any errors.
func (p *PartialResult[T]) HasErrors() bool {
	return len(p.Errors) > 0
}

// AddError adds an error to the partial result.
func (p *PartialResult[T]) AddError(err error) {
	if err != nil {
		p.Errors = append(p.Errors, err)
	}
}

// ErrorSummary returns a summary of all errors.
func (p *PartialResult[T]) ErrorSummary() string {
	if len(p.Errors) == 0 {
		return ""
	}
	if len(p.Errors) == 1 {
		return p.Errors[0].Error()
	}

	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("%d errors occurred:\n", len(p.Errors)))
	for i, err := range p.Errors {
		sb.WriteString(fmt.Sprintf("  %d. %s\n", i+1, err.Error()))
	}
	return sb.String()
}
