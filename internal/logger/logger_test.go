package logger

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

func TestTruncateForLog(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name   string
		input  string
		limit  int
		expect string
	}{
		{
			name:   "returns empty when limit non-positive",
			input:  "hello world",
			limit:  0,
			expect: "",
		},
		{
			name:   "shorter than limit",
			input:  "hello",
			limit:  10,
			expect: "hello",
		},
		{
			name:   "truncates and adds ellipsis",
			input:  "hello world",
			limit:  5,
			expect: "hello...",
		},
		{
			name:   "counts runes not bytes",
			input:  "résumé",
			limit:  3,
			expect: "rés...",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			assert.Equal(t, tt.expect, TruncateForLog(tt.input, tt.limit))
		})
	}
}

func TestNew_Levels(t *testing.T) {
	log, err := New(true, false)
	require.NoError(t, err)
	assert.False(t, log.Core().Enabled(zapcore.DebugLevel))
	assert.True(t, log.Core().Enabled(zapcore.InfoLevel))

	debugLog, err := New(false, true)
	require.NoError(t, err)
	assert.True(t, debugLog.Core().Enabled(zapcore.DebugLevel))
}

func TestWithFields_NilLogger(t *testing.T) {
	log := WithFields(nil, zap.String(FieldRequestID, "abc"))
	require.NotNil(t, log)

	same := zap.NewNop()
	assert.Same(t, same, WithFields(same))
}

func TestNewWithOutput_File(t *testing.T) {
	path := filepath.Join(t.TempDir(), "app.log")

	log, err := NewWithOutput(true, false, path)
	require.NoError(t, err)
	log.Info("hello", zap.String(FieldRequestID, "r-1"), zap.Duration("elapsed", 1500*time.Millisecond))
	require.NoError(t, log.Sync())

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(data), `"msg":"hello"`)
	assert.Contains(t, string(data), `"request_id":"r-1"`)
	assert.Contains(t, string(data), `"elapsed":"1.5s"`)
}
