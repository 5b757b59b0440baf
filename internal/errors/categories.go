package errors

import "maps"

// Category represents the broad category of an error for classification and routing.
type Category string

const (
	// CategoryConfig represents user-facing configuration and startup errors.
	CategoryConfig     Category = "config"
	CategoryValidation Category = "validation"
	CategoryNotFound   Category = "not_found"

	// CategoryBackend represents failures talking to the posture backend API.
	CategoryBackend Category = "backend"
	CategoryCache   Category = "cache"

	CategoryInternal Category = "internal"
)

// Severity indicates the impact level of an error.
type Severity string

const (
	SeverityFatal   Severity = "fatal"   // Stops execution completely
	SeverityError   Severity = "error"   // Fails the current operation
	SeverityWarning Severity = "warning" // Continues with degraded functionality
)

// Context provides structured key/value context for errors.
type Context map[string]any

// Set adds or updates a context value.
func (c Context) Set(key string, value any) Context {
	if c == nil {
		c = make(Context)
	}
	c[key] = value
	return c
}

// Get retrieves a context value.
func (c Context) Get(key string) (any, bool) {
	if c == nil {
		return nil, false
	}
	value, exists := c[key]
	return value, exists
}

// Merge combines two contexts, with the argument taking precedence.
func (c Context) Merge(other Context) Context {
	if len(other) == 0 {
		return c
	}
	merged := make(Context, len(c)+len(other))
	maps.Copy(merged, c)
	maps.Copy(merged, other)
	return merged
}
