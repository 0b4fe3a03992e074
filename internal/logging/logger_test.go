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
	assert.Equal(t, DEBUG, ParseLevel("debug"))
	assert.Equal(t, WARN, ParseLevel(" Warning "))
	assert.Equal(t, ERROR, ParseLevel("ERROR"))
	assert.Equal(t, INFO, ParseLevel("verbose"))
	assert.Equal(t, "TRACE", TRACE.String())
}

func TestOnceLogsFirstOccurrence(t *testing.T) {
	ResetOnce()
	assert.True(t, Once(DEBUG, "k", "первый"))
	assert.False(t, Once(DEBUG, "k", "повтор"))
	assert.True(t, Once(DEBUG, "other", "другой ключ"))

	ResetOnce()
	assert.True(t, Once(DEBUG, "k", "после сброса"))
}

func TestComponentLoggerWritesFile(t *testing.T) {
	prev := LogDir
	LogDir = t.TempDir()
	defer func() { LogDir = prev }()

	lm := newLoggerManager()
	lg, err := lm.GetLogger("footsteps")
	require.NoError(t, err)

	again, err := lm.GetLogger("footsteps")
	require.NoError(t, err)
	assert.Same(t, lg, again)

	require.NoError(t, lm.SetLogLevel("footsteps", ERROR, DEBUG))
	assert.Error(t, lm.SetLogLevel("unknown", INFO, INFO))

	lg.Debug("шаг %d", 1)
	lg.Trace("не попадёт в файл")
	require.NoError(t, lm.CloseAll())

	files, err := filepath.Glob(filepath.Join(LogDir, "footsteps_*.log"))
	require.NoError(t, err)
	require.Len(t, files, 1)

	data, err := os.ReadFile(files[0])
	require.NoError(t, err)
	assert.Contains(t, string(data), "[DEBUG] [footsteps] шаг 1")
	assert.False(t, strings.Contains(string(data), "не попадёт"))
}

func TestManagerConfigureLevels(t *testing.T) {
	prev := LogDir
	LogDir = t.TempDir()
	defer func() { LogDir = prev }()

	lm := newLoggerManager()
	lm.Configure(map[string]string{ComponentResources: "warn"})
	assert.Equal(t, WARN, lm.Level(ComponentResources))
	assert.Equal(t, INFO, lm.Level(ComponentSimulator))

	res := lm.MustGetLogger(ComponentResources)
	sim := lm.MustGetLogger(ComponentSimulator)
	assert.Equal(t, WARN, res.minConsoleLevel)
	assert.Equal(t, INFO, sim.minConsoleLevel)
	assert.Equal(t, []string{ComponentResources, ComponentSimulator}, lm.Components())

	// Перенастройка применяется к уже открытым логгерам
	lm.Configure(map[string]string{ComponentSimulator: "error"})
	assert.Equal(t, ERROR, sim.minConsoleLevel)
	require.NoError(t, lm.CloseAll())
	assert.Empty(t, lm.Components())
}

func TestSetOutputCapturesDefaultLogger(t *testing.T) {
	var buf bytes.Buffer
	restore := SetOutput(&buf)
	Warn("pack %s skipped", "broken.zip")
	Debug("не выше INFO")
	restore()

	assert.Equal(t, "[WARN] pack broken.zip skipped\n", buf.String())
}
