package logger

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFileName(t *testing.T) {
	day := time.Date(2022, time.June, 1, 10, 0, 0, 0, time.UTC)
	assert.Equal(t, filepath.Join("logs", "boombox-36-w-techbird_01_06_2022.log"), FileName("logs", "boombox-36-w-techbird", day))
}

func TestNewWritesJSON(t *testing.T) {
	var buf bytes.Buffer
	l := New(&buf, zerolog.InfoLevel)

	l.Debug().Msg("hidden")
	l.WithField("listing", "boombox").Info().Msg("New auction")

	out := buf.String()
	assert.NotContains(t, out, "hidden")
	assert.Contains(t, out, `"listing":"boombox"`)
	assert.Contains(t, out, `"message":"New auction"`)
}

func TestInitWithFile(t *testing.T) {
	prev := Default
	defer func() { Default = prev }()

	path := filepath.Join(t.TempDir(), "logs", "boombox_01_06_2022.log")
	f, err := InitWithFile(path)
	require.NoError(t, err)

	ForMonitor("boombox").Info().Msg("Lot ID: 17628")
	require.NoError(t, f.Close())

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(data), "Logger initialized")
	assert.Contains(t, string(data), "Lot ID: 17628")
	assert.Contains(t, string(data), `"component":"monitor"`)
}
