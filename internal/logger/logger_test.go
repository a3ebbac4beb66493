package logger

import (
	"bytes"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLevelFiltering(t *testing.T) {
	var buf bytes.Buffer
	InitWithWriter(&buf, "WARN", "text", false)

	Info("should be filtered")
	Warn("should appear")

	out := buf.String()
	assert.NotContains(t, out, "should be filtered")
	assert.Contains(t, out, "should appear")
}

func TestJSONFormat(t *testing.T) {
	var buf bytes.Buffer
	InitWithWriter(&buf, "INFO", "json", false)

	Info("structured message", "field_name", "tag", "byte_len", 4)

	out := buf.String()
	require.True(t, strings.Contains(out, `"field_name":"tag"`))
	require.True(t, strings.Contains(out, `"byte_len":4`))
}

func TestSetFormatRejectsUnknownFormat(t *testing.T) {
	SetFormat("text")
	SetFormat("yaml")
	assert.Equal(t, "text", currentFormat.Load())
}
