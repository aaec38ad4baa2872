package proxylog

import (
	"bytes"
	"path/filepath"
	"strings"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewZeroLogger_DefaultIsJSON(t *testing.T) {
	var buf bytes.Buffer

	logger := NewZeroLogger("", "info", false)
	l := logger.Output(&buf)
	l.Info().Msg("test message")

	out := buf.String()

	assert.Contains(t, out, `"level":"info"`)
	assert.Contains(t, out, `"message":"test message"`)
}

func TestZeroDefaultLevelIsInfo(t *testing.T) {
	assert.Equal(t, zerolog.InfoLevel, Zero.GetLevel())
}

func TestParseLevel(t *testing.T) {
	tests := []struct {
		in   string
		want zerolog.Level
	}{
		{"debug", zerolog.DebugLevel},
		{"info", zerolog.InfoLevel},
		{"warning", zerolog.WarnLevel},
		{"error", zerolog.ErrorLevel},
		{"fatal", zerolog.FatalLevel},
		{"verbose", zerolog.InfoLevel},
		{"", zerolog.InfoLevel},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			assert.Equal(t, tt.want, parseLevel(tt.in))
		})
	}
}

func TestUpdateZeroLogLevel(t *testing.T) {
	saved := Zero
	defer func() { Zero = saved }()

	require.NoError(t, UpdateZeroLogLevel("error"))
	assert.Equal(t, zerolog.ErrorLevel, Zero.GetLevel())
}

func TestNewZeroLogger_WritesToFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "proxy.log")

	logger := NewZeroLogger(path, "debug", false)
	logger.Debug().Str("shard", "ds_0").Msg("routed")

	f, w, err := newWriter(path)
	require.NoError(t, err)
	require.NotNil(t, w)
	defer f.Close()

	st, err := f.Stat()
	require.NoError(t, err)
	assert.Greater(t, st.Size(), int64(0))
}

func TestGetPointer(t *testing.T) {
	a := &strings.Builder{}
	assert.Equal(t, GetPointer(a), GetPointer(a))
	assert.NotEqual(t, GetPointer(a), GetPointer(&strings.Builder{}))
}
