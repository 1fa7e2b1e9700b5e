package dlogger

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestGetLogger(t *testing.T) {
	for _, level := range []string{LogLevelDebug, LogLevelInfo, LogLevelWarn, LogLevelError, LogLevelNone} {
		l, err := GetLogger(level)
		require.NoErrorf(t, err, "level %s", level)
		require.NotNil(t, l)
	}

	_, err := GetLogger("verbose")
	require.Error(t, err)

	require.Panics(t, func() { _ = MustGetLogger("verbose") })
}

func TestValidLevel(t *testing.T) {
	require.True(t, ValidLevel(LogLevelWarn))
	require.False(t, ValidLevel("verbose"))
	require.False(t, ValidLevel(""))
}
