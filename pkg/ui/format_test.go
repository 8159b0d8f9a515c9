package ui_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/arthur-debert/exepack/pkg/ui"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseFormat(t *testing.T) {
	tests := []struct {
		in      string
		want    ui.Format
		wantErr bool
	}{
		{"", ui.FormatAuto, false},
		{"auto", ui.FormatAuto, false},
		{"term", ui.FormatTerminal, false},
		{"Terminal", ui.FormatTerminal, false},
		{"plain", ui.FormatText, false},
		{"json", ui.FormatJSON, false},
		{"yml", ui.FormatYAML, false},
		{"toml", ui.FormatTOML, false},
		{"xml", ui.FormatAuto, true},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := ui.ParseFormat(tt.in)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
			if tt.in != "" {
				roundTrip, err := ui.ParseFormat(got.String())
				require.NoError(t, err)
				assert.Equal(t, got, roundTrip)
			}
		})
	}
}

func TestDetectFormat(t *testing.T) {
	f, err := os.Create(filepath.Join(t.TempDir(), "out"))
	require.NoError(t, err)
	defer f.Close()

	t.Run("redirected_output_is_text", func(t *testing.T) {
		assert.Equal(t, ui.FormatText, ui.DetectFormat(f))
	})

	t.Run("no_color", func(t *testing.T) {
		t.Setenv("NO_COLOR", "1")
		assert.Equal(t, ui.FormatText, ui.DetectFormat(f))
	})

	t.Run("explicit_format_is_kept", func(t *testing.T) {
		assert.Equal(t, ui.FormatJSON, ui.Resolve(ui.FormatJSON, f))
		assert.Equal(t, ui.FormatText, ui.Resolve(ui.FormatAuto, f))
	})
}
