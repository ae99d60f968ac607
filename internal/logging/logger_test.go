package logging

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseLevel(t *testing.T) {
	lvl, err := ParseLevel("debug")
	require.NoError(t, err)
	assert.Equal(t, DEBUG, lvl)

	lvl, err = ParseLevel("")
	require.NoError(t, err)
	assert.Equal(t, INFO, lvl)

	_, err = ParseLevel("loud")
	assert.Error(t, err)
}

func TestLoggerFiltersConsole(t *testing.T) {
	var buf bytes.Buffer
	l, err := NewLoggerWithOptions("test", Options{MinConsoleLevel: WARN, Console: &buf})
	require.NoError(t, err)

	l.Info("скрытое сообщение")
	l.Warn("видимое %d", 42)

	out := buf.String()
	assert.NotContains(t, out, "скрытое")
	assert.Contains(t, out, "[WARN] [test] видимое 42")
}

func TestLoggerWritesFile(t *testing.T) {
	dir := t.TempDir()
	var buf bytes.Buffer
	l, err := NewLoggerWithOptions("storage", Options{
		Dir:             dir,
		MinConsoleLevel: ERROR,
		MinFileLevel:    DEBUG,
		Console:         &buf,
	})
	require.NoError(t, err)

	l.Debug("чанк %d сохранён", 7)
	require.NoError(t, l.Close())

	files, err := filepath.Glob(filepath.Join(dir, "storage_*.log"))
	require.NoError(t, err)
	require.Len(t, files, 1)

	data, err := os.ReadFile(files[0])
	require.NoError(t, err)
	assert.True(t, strings.Contains(string(data), "чанк 7 сохранён"))
	assert.Empty(t, buf.String(), "DEBUG не должен попадать в консоль при пороге ERROR")
}

func TestComponentsReuseLoggers(t *testing.T) {
	c := NewComponents()
	a := c.Get("mesh")
	b := c.Get("mesh")

	assert.Same(t, a, b)
	assert.Equal(t, []string{"mesh"}, c.Names())
	assert.NoError(t, c.CloseAll())
	assert.Empty(t, c.Names())
}

func TestComponentsApplyLevels(t *testing.T) {
	c := NewComponents()

	// порог, заданный до создания, применяется при первом Get
	c.SetLevel("storage", ERROR)
	storage := c.Get("storage")
	var buf bytes.Buffer
	storage.consoleLogger.SetOutput(&buf)
	storage.Warn("не должно попасть в консоль")
	assert.Empty(t, buf.String())

	// и к уже созданному логгеру
	mesh := c.Get("mesh")
	mesh.consoleLogger.SetOutput(&buf)
	c.SetLevel("mesh", DEBUG)
	mesh.Debug("перестроено %d", 3)
	assert.Contains(t, buf.String(), "[DEBUG] [mesh] перестроено 3")
}
