package errors

import (
	stderrors "errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestClassifiedError_Message(t *testing.T) {
	err := ValidationError("bad input").Build()
	require.Equal(t, "[validation:error] bad input", err.Error())
	require.Equal(t, "bad input", err.Message())
	require.True(t, err.IsCategory(CategoryValidation))
}

func TestClassifiedError_WrapsCause(t *testing.T) {
	cause := stderrors.New("connection refused")
	err := Wrap(cause, CategoryBackend, "lookup failed").Build()
	require.ErrorIs(t, err, cause)
	require.Contains(t, err.Error(), "connection refused")
}

func TestClassifiedError_Context(t *testing.T) {
	err := NotFoundError("no such domain").
		WithContext("domain", "example.com").
		Build()
	v, ok := err.Context().Get("domain")
	require.True(t, ok)
	require.Equal(t, "example.com", v)

	// WithContext on a built error returns a copy.
	err2 := err.WithContext("extra", 1)
	_, ok = err.Context().Get("extra")
	require.False(t, ok)
	_, ok = err2.Context().Get("extra")
	require.True(t, ok)
}

func TestHasCategory(t *testing.T) {
	err := fmt.Errorf("outer: %w", BackendError("backend down").Build())
	require.True(t, HasCategory(err, CategoryBackend))
	require.False(t, HasCategory(err, CategoryNotFound))
	require.False(t, HasCategory(stderrors.New("plain"), CategoryBackend))
}

func TestBuilder_Severity(t *testing.T) {
	err := InternalError("oops").WithSeverity(SeverityWarning).Build()
	require.Equal(t, SeverityWarning, err.Severity())
}
