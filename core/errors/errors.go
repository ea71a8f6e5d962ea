// Package errors defines the error types sid returns. Each type unwraps to
// one of the sentinels below, so callers classify failures with Is.
package errors

import (
	"errors"
	"fmt"
)

var (
	// ErrNotFound: a book or file that was asked for does not exist.
	ErrNotFound = errors.New("not found")
	// ErrInvalidInput: a document, placeholder or setting is malformed.
	ErrInvalidInput = errors.New("invalid input")
	// ErrUnsupported: an input or archive format sid cannot handle.
	ErrUnsupported = errors.New("unsupported")
	// ErrToolFailed: osis2mod or another external tool did not succeed.
	ErrToolFailed = errors.New("tool failed")
)

// UnknownBookError reports a book name missing from the canonical tables.
// It is always fatal: every osisID derived from a wrong code is wrong.
type UnknownBookError struct {
	Name string
}

// NewUnknownBook returns an UnknownBookError for name.
func NewUnknownBook(name string) *UnknownBookError {
	return &UnknownBookError{Name: name}
}

func (e *UnknownBookError) Error() string {
	return fmt.Sprintf("unknown book name: %q", e.Name)
}

func (e *UnknownBookError) Unwrap() error { return ErrNotFound }

// ValidationError reports a document or configuration value that breaks a
// rule, such as a chapter beyond the book's last chapter.
type ValidationError struct {
	Field   string
	Message string
}

// NewValidation returns a ValidationError for field.
func NewValidation(field, message string) *ValidationError {
	return &ValidationError{Field: field, Message: message}
}

func (e *ValidationError) Error() string {
	if e.Field == "" {
		return "validation failed: " + e.Message
	}
	return fmt.Sprintf("validation failed for %s: %s", e.Field, e.Message)
}

func (e *ValidationError) Unwrap() error { return ErrInvalidInput }

// IOError is a filesystem failure with the operation and path involved.
type IOError struct {
	Operation string
	Path      string
	Err       error
}

// NewIO wraps err as a failed operation on path.
func NewIO(operation, path string, err error) *IOError {
	return &IOError{Operation: operation, Path: path, Err: err}
}

func (e *IOError) Error() string {
	if e.Path == "" {
		return fmt.Sprintf("failed to %s: %v", e.Operation, e.Err)
	}
	return fmt.Sprintf("failed to %s %s: %v", e.Operation, e.Path, e.Err)
}

func (e *IOError) Unwrap() error { return e.Err }

// ParseError reports malformed input in a named format: JSON sources,
// XML output, footnote or cross-reference placeholder bodies.
type ParseError struct {
	Format  string
	Path    string
	Message string
}

// NewParse returns a ParseError. path may be empty.
func NewParse(format, path, message string) *ParseError {
	return &ParseError{Format: format, Path: path, Message: message}
}

func (e *ParseError) Error() string {
	if e.Path == "" {
		return fmt.Sprintf("failed to parse %s: %s", e.Format, e.Message)
	}
	return fmt.Sprintf("failed to parse %s at %s: %s", e.Format, e.Path, e.Message)
}

func (e *ParseError) Unwrap() error { return ErrInvalidInput }

// UnsupportedError reports an input sid does not read or an option value
// it does not know.
type UnsupportedError struct {
	Feature string
	Reason  string
}

// NewUnsupported returns an UnsupportedError.
func NewUnsupported(feature, reason string) *UnsupportedError {
	return &UnsupportedError{Feature: feature, Reason: reason}
}

func (e *UnsupportedError) Error() string {
	if e.Reason == "" {
		return "unsupported " + e.Feature
	}
	return fmt.Sprintf("unsupported %s: %s", e.Feature, e.Reason)
}

func (e *UnsupportedError) Unwrap() error { return ErrUnsupported }

// ToolError is a failed run of an external tool. ExitCode is -1 when the
// process never started or was killed; Err then holds the cause.
type ToolError struct {
	Tool     string
	ExitCode int
	Output   string // combined stdout and stderr
	Err      error
}

func (e *ToolError) Error() string {
	if e.Output == "" {
		return fmt.Sprintf("%s exited with code %d", e.Tool, e.ExitCode)
	}
	return fmt.Sprintf("%s exited with code %d: %s", e.Tool, e.ExitCode, e.Output)
}

func (e *ToolError) Unwrap() error {
	if e.Err != nil {
		return e.Err
	}
	return ErrToolFailed
}

// Wrap prefixes err with message. A nil err stays nil.
func Wrap(err error, message string) error {
	if err == nil {
		return nil
	}
	return fmt.Errorf("%s: %w", message, err)
}

// Wrapf is Wrap with a formatted message.
func Wrapf(err error, format string, args ...any) error {
	if err == nil {
		return nil
	}
	return Wrap(err, fmt.Sprintf(format, args...))
}

// Join, Is and As re-export the standard functions so callers need one
// errors import.
func Join(errs ...error) error { return errors.Join(errs...) }

func Is(err, target error) bool { return errors.Is(err, target) }

func As(err error, target any) bool { return errors.As(err, target) }
