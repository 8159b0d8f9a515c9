package logging

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSetupLogger(t *testing.T) {
	tests := []struct {
		name      string
		verbosity int
		wantLevel zerolog.Level
	}{
		{"default warn level", 0, zerolog.WarnLevel},
		{"info level", 1, zerolog.InfoLevel},
		{"debug level", 2, zerolog.DebugLevel},
		{"trace level", 3, zerolog.TraceLevel},
		{"high verbosity defaults to trace", 5, zerolog.TraceLevel},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tempDir := t.TempDir()
			t.Setenv("XDG_STATE_HOME", tempDir)

			SetupLogger(tt.verbosity)

			assert.Equal(t, tt.wantLevel, zerolog.GlobalLevel())

			logPath := filepath.Join(tempDir, "exepack", "exepack.log")
			_, err := os.Stat(logPath)
			assert.NoError(t, err, "log file should exist at %s", logPath)
		})
	}
}

func TestGetLogFilePath(t *testing.T) {
	stateDir := t.TempDir()
	t.Setenv("XDG_STATE_HOME", stateDir)

	got := getLogFilePath()
	assert.Equal(t, filepath.Join(stateDir, "exepack", "exepack.log"), got)
}

func TestLogCommand(t *testing.T) {
	zerolog.SetGlobalLevel(zerolog.TraceLevel)
	var buf bytes.Buffer
	logger := zerolog.New(&buf)

	LogCommand(logger, "ldd", []string{"/usr/bin/app"})

	out := buf.String()
	assert.Contains(t, out, `"command":"ldd"`)
	assert.Contains(t, out, "/usr/bin/app")
	assert.Contains(t, out, "Executing command")
}

func TestLogOperationStart(t *testing.T) {
	zerolog.SetGlobalLevel(zerolog.TraceLevel)
	var buf bytes.Buffer
	logger := zerolog.New(&buf)

	done := LogOperationStart(logger, "materialize")
	require.Contains(t, buf.String(), "Operation started")

	done()
	assert.Contains(t, buf.String(), "Operation completed")
	assert.Contains(t, buf.String(), "duration")
}
