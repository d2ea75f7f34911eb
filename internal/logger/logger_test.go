package logger

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNew_PlainOutput(t *testing.T) {
	var buf bytes.Buffer
	l := New("test", &buf, noColors)

	l.Info().Str("method", "GET").Int("status", 404).Msg("Request completed")

	out := buf.String()
	assert.Contains(t, out, "Request completed")
	assert.Contains(t, out, "method=GET")
	assert.Contains(t, out, "status=404")
	assert.Contains(t, out, "env=test")
	assert.NotContains(t, out, "\033[")
}

func TestNew_ColoredStatus(t *testing.T) {
	var buf bytes.Buffer
	l := New("test", &buf, colors)

	l.Warn().Int("status", 502).Msg("Upstream request")

	out := buf.String()
	assert.Contains(t, out, colors.Red+"502"+colors.Reset)
	assert.Contains(t, out, colors.Yellow+"●")
}
