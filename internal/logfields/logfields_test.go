package logfields

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/require"
)

// TestHelperKeyNames verifies helper key/value stability.
func TestHelperKeyNames(t *testing.T) {
	require.Equal(t, KeyDomain, Domain("example.com").Key)
	require.Equal(t, "example.com", Domain("example.com").Value.String())
	require.Equal(t, KeyMethod, Method("GET").Key)
	require.Equal(t, KeyStatus, Status(200).Key)
	require.Equal(t, int64(200), Status(200).Value.Int64())
	require.Equal(t, KeyRequestID, RequestID("abc").Key)
	require.Equal(t, KeyCache, Cache("hit").Key)
}

func TestErrorHelper(t *testing.T) {
	require.Equal(t, "boom", Error(errors.New("boom")).Value.String())
	require.Equal(t, "", Error(nil).Value.String())
}
