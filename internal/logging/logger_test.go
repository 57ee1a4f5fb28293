package logging

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newBufferLogger(level LogLevel, format string) (*StructuredLogger, *bytes.Buffer) {
	var buf bytes.Buffer
	return NewLogger(&LoggerConfig{Level: level, Format: format, Output: &buf}), &buf
}

func TestParseLevel(t *testing.T) {
	tests := []struct {
		in      string
		want    LogLevel
		wantErr bool
	}{
		{"debug", LevelDebug, false},
		{"INFO", LevelInfo, false},
		{"", LevelInfo, false},
		{"warning", LevelWarn, false},
		{"error", LevelError, false},
		{"loud", LevelInfo, true},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := ParseLevel(tt.in)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestLevelFiltering(t *testing.T) {
	logger, buf := newBufferLogger(LevelWarn, "text")
	ctx := context.Background()

	logger.Debug(ctx, "debug message")
	logger.Info(ctx, "info message")
	assert.Empty(t, buf.String())

	logger.Warn(ctx, errors.New("stale map"), "warn message")
	assert.Contains(t, buf.String(), "warn message")
	assert.Contains(t, buf.String(), "stale map")
}

func TestJSONFieldsAndComponent(t *testing.T) {
	logger, buf := newBufferLogger(LevelDebug, "json")

	logger.WithComponent("indexer").
		With("document", "home").
		Info(context.Background(), "indexed", "components", 3)

	var entry map[string]interface{}
	require.NoError(t, json.Unmarshal(buf.Bytes(), &entry))
	assert.Equal(t, "indexed", entry["msg"])
	assert.Equal(t, "indexer", entry["component"])
	assert.Equal(t, "home", entry["document"])
	assert.EqualValues(t, 3, entry["components"])
}

func TestWithDoesNotMutateParent(t *testing.T) {
	logger, buf := newBufferLogger(LevelInfo, "text")
	_ = logger.With("child", true)

	logger.Info(context.Background(), "parent")
	assert.NotContains(t, buf.String(), "child")
}

func TestOddFieldsDropped(t *testing.T) {
	logger, buf := newBufferLogger(LevelInfo, "text")
	logger.Info(context.Background(), "odd", "key", "value", "dangling")

	assert.Contains(t, buf.String(), "key=value")
	assert.NotContains(t, buf.String(), "dangling")
}

func TestSanitizeForLog(t *testing.T) {
	assert.Equal(t, "make it red", SanitizeForLog("make it red"))
	assert.Equal(t, "a b", SanitizeForLog("a\nb"))

	long := strings.Repeat("x", 500)
	got := SanitizeForLog(long)
	assert.True(t, strings.HasSuffix(got, "...[TRUNCATED]"))
	assert.Len(t, got, 200+len("...[TRUNCATED]"))
}
