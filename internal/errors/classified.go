// Package errors provides classified errors (category, severity, context) and
// an HTTP adapter that maps classifications to status codes and JSON payloads.
package errors

import (
	stderrors "errors"
	"fmt"
)

// ClassifiedError is a structured error carrying category, severity, and context.
type ClassifiedError struct {
	category Category
	severity Severity
	message  string
	cause    error
	context  Context
}

// Error implements the standard error interface.
func (e *ClassifiedError) Error() string {
	if e.cause != nil {
		return fmt.Sprintf("[%s:%s] %s: %v", e.category, e.severity, e.message, e.cause)
	}
	return fmt.Sprintf("[%s:%s] %s", e.category, e.severity, e.message)
}

// Unwrap implements error unwrapping.
func (e *ClassifiedError) Unwrap() error { return e.cause }

// Category returns the error category.
func (e *ClassifiedError) Category() Category { return e.category }

// Severity returns the error severity.
func (e *ClassifiedError) Severity() Severity { return e.severity }

// Message returns the message without classification markers.
func (e *ClassifiedError) Message() string { return e.message }

// Context returns the structured context.
func (e *ClassifiedError) Context() Context { return e.context }

// WithContext returns a copy of the error with an added context value.
func (e *ClassifiedError) WithContext(key string, value any) *ClassifiedError {
	return &ClassifiedError{
		category: e.category,
		severity: e.severity,
		message:  e.message,
		cause:    e.cause,
		context:  e.context.Merge(Context{key: value}),
	}
}

// Is matches classified errors by category and message.
func (e *ClassifiedError) Is(target error) bool {
	if other, ok := target.(*ClassifiedError); ok {
		return e.category == other.category && e.message == other.message
	}
	return false
}

// IsCategory checks whether the error belongs to a category.
func (e *ClassifiedError) IsCategory(category Category) bool { return e.category == category }

// AsClassified extracts a ClassifiedError from an error chain.
func AsClassified(err error) (*ClassifiedError, bool) {
	var c *ClassifiedError
	if stderrors.As(err, &c) {
		return c, true
	}
	return nil, false
}

// HasCategory reports whether err (anywhere in its chain) carries the category.
func HasCategory(err error, category Category) bool {
	if c, ok := AsClassified(err); ok {
		return c.IsCategory(category)
	}
	return false
}
