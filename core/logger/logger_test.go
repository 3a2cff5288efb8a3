package logger

import (
	"bytes"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestLogger(buf *bytes.Buffer) *Logger {
	l := New(buf)
	l.SetWriterForAll(buf, false)
	l.now = func() time.Time { return time.Date(2025, 3, 4, 5, 6, 7, 0, time.UTC) }
	return l
}

func TestDebugIsGatedByVerbose(t *testing.T) {
	var buf bytes.Buffer
	l := newTestLogger(&buf)

	l.Debug("hidden %d", 1)
	assert.Empty(t, buf.String())

	l.SetVerbose(true)
	l.Debug("shown %d", 2)
	assert.Equal(t, "[25-03-04 05:06:07] DEBUG shown 2\n", buf.String())
}

func TestPlainSinkHasNoColour(t *testing.T) {
	var buf bytes.Buffer
	l := newTestLogger(&buf)

	l.Success("Copied: %s", "model/Job.java")
	l.Warn("careful")

	out := buf.String()
	assert.NotContains(t, out, "\033[")
	assert.Contains(t, out, "OK    Copied: model/Job.java")
	assert.Contains(t, out, "WARN  careful")
}

func TestAddWriterFansOut(t *testing.T) {
	var console, file bytes.Buffer
	l := New(&console)
	l.AddWriterForAll(&file, false)

	l.Info("hello")

	assert.Contains(t, console.String(), ColorBlue)
	assert.Contains(t, file.String(), "INFO  hello")
	assert.NotContains(t, file.String(), ColorBlue)
}

func TestFatalExits(t *testing.T) {
	var buf bytes.Buffer
	l := newTestLogger(&buf)
	code := -1
	l.exit = func(c int) { code = c }

	l.Fatal("boom")

	require.Equal(t, 1, code)
	assert.True(t, strings.HasSuffix(buf.String(), "FATAL boom\n"))
}
