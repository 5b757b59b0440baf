package errors

// Builder provides a fluent API for constructing ClassifiedError values.
type Builder struct {
	category Category
	severity Severity
	message  string
	cause    error
	context  Context
}

// New creates a Builder with the given category and message.
func New(category Category, message string) *Builder {
	return &Builder{
		category: category,
		severity: SeverityError,
		message:  message,
		context:  make(Context),
	}
}

// Wrap creates a Builder wrapping an existing error.
func Wrap(err error, category Category, message string) *Builder {
	b := New(category, message)
	b.cause = err
	return b
}

// WithSeverity sets the error severity.
func (b *Builder) WithSeverity(severity Severity) *Builder {
	b.severity = severity
	return b
}

// WithContext adds a context key/value pair.
func (b *Builder) WithContext(key string, value any) *Builder {
	b.context = b.context.Set(key, value)
	return b
}

// Build produces the ClassifiedError.
func (b *Builder) Build() *ClassifiedError {
	return &ClassifiedError{
		category: b.category,
		severity: b.severity,
		message:  b.message,
		cause:    b.cause,
		context:  b.context,
	}
}

// Convenience constructors for the common categories.

func ValidationError(message string) *Builder { return New(CategoryValidation, message) }
func NotFoundError(message string) *Builder   { return New(CategoryNotFound, message) }
func BackendError(message string) *Builder    { return New(CategoryBackend, message) }
func ConfigError(message string) *Builder     { return New(CategoryConfig, message) }
func InternalError(message string) *Builder   { return New(CategoryInternal, message) }
