package logging

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoggerFiltersBelowMinimum(t *testing.T) {
	var buf bytes.Buffer
	l := New(&buf, InfoLvl)

	l.Debugf("hidden %d", 1)
	l.Infof("shown %d", 2)
	l.Errorf("boom\n")

	out := buf.String()
	assert.NotContains(t, out, "hidden")
	assert.Contains(t, out, "INFO  shown 2")
	assert.Contains(t, out, "ERROR boom\n")
	assert.Equal(t, 2, bytes.Count(buf.Bytes(), []byte("\n")))
}

func TestNilLoggerIsSilent(t *testing.T) {
	var l *Logger
	assert.False(t, l.Enabled(ErrorLvl))
	l.Warnf("nothing happens")
	assert.NoError(t, l.Close())
}

func TestNewFileAppends(t *testing.T) {
	path := filepath.Join(t.TempDir(), "logs", "gridbench.log")

	l, err := NewFile(path, DebugLvl)
	require.NoError(t, err)
	l.Infof("first")
	require.NoError(t, l.Close())

	l, err = NewFile(path, DebugLvl)
	require.NoError(t, err)
	l.Infof("second")
	require.NoError(t, l.Close())

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(data), "first")
	assert.Contains(t, string(data), "second")
}
