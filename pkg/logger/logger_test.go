package logger

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newBufferLogger(buf *bytes.Buffer) Logger {
	return NewWithConfig(Config{
		Name:   "test",
		Format: FormatJSON,
		Level:  slog.LevelDebug,
		Writer: buf,
	})
}

func TestLoggerErrReturnsOriginalError(t *testing.T) {
	var buf bytes.Buffer
	log := newBufferLogger(&buf)

	original := errors.New("boom")
	returned := log.Err("operation failed", original)

	assert.Same(t, original, returned)
	assert.Contains(t, buf.String(), "operation failed")
}

func TestLoggerErrorCreatesError(t *testing.T) {
	var buf bytes.Buffer
	log := newBufferLogger(&buf)

	err := log.Error("something went wrong", "key", "value")
	require.Error(t, err)
	assert.Equal(t, "something went wrong", err.Error())
}

func TestLoggerErrMsg(t *testing.T) {
	var buf bytes.Buffer
	log := newBufferLogger(&buf)

	err := log.ErrMsg("bad state")
	require.Error(t, err)
	assert.Equal(t, "bad state", err.Error())
}

func TestLoggerChainedAttributes(t *testing.T) {
	var buf bytes.Buffer
	log := newBufferLogger(&buf)

	log.File("widget").Function("DoThing").Info("done")

	var entry map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &entry))
	assert.Equal(t, "test", entry["package"])
	assert.Equal(t, "widget", entry["file"])
	assert.Equal(t, "DoThing", entry["function"])
}

func TestTraceIDRoundTrip(t *testing.T) {
	ctx := ContextWithTraceID(context.Background(), "abc-123")
	assert.Equal(t, "abc-123", TraceIDFromContext(ctx))

	var buf bytes.Buffer
	log := newBufferLogger(&buf)
	log.TraceFromContext(ctx).Info("traced")

	var entry map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &entry))
	assert.Equal(t, "abc-123", entry["traceID"])
}

func TestTraceFromContextWithoutTraceID(t *testing.T) {
	var buf bytes.Buffer
	log := newBufferLogger(&buf)

	log.TraceFromContext(context.Background()).Info("untraced")

	var entry map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &entry))
	_, present := entry["traceID"]
	assert.False(t, present)
}
