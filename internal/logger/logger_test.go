package logger

import (
	"bytes"
	"encoding/json"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWithFieldsJSON(t *testing.T) {
	var buf bytes.Buffer
	InitWithOutput("debug", true, &buf)
	t.Cleanup(func() { Init("info", false) })

	With("component", "test").Info("hello", "user_id", int64(7), "error", errors.New("boom"))

	var line map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &line))
	assert.Equal(t, "hello", line["msg"])
	assert.Equal(t, "test", line["component"])
	assert.Equal(t, float64(7), line["user_id"])
	assert.Equal(t, "boom", line["error"])
}

func TestLevelFiltering(t *testing.T) {
	var buf bytes.Buffer
	InitWithOutput("warn", true, &buf)
	t.Cleanup(func() { Init("info", false) })

	Info("dropped")
	assert.Zero(t, buf.Len())

	Warn("kept")
	assert.Contains(t, buf.String(), "kept")
}

func TestFieldsOddArgs(t *testing.T) {
	f := fields([]any{"a", 1, "dangling"})
	assert.Equal(t, 1, f["a"])
	assert.Equal(t, "dangling", f["!BADKEY"])
}
