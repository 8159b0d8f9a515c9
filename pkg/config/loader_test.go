package config_test

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/arthur-debert/exepack/pkg/config"
	"github.com/arthur-debert/exepack/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// isolate points every source at empty temp locations
func isolate(t *testing.T) (userPath, projectDir string) {
	t.Helper()
	dir := t.TempDir()
	return filepath.Join(dir, "user", "config.toml"), filepath.Join(dir, "project")
}

func writeFile(t *testing.T, path, content string) {
	t.Helper()
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0755))
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))
}

func TestLoad_Defaults(t *testing.T) {
	userPath, projectDir := isolate(t)

	cfg, err := config.Load(config.Options{UserConfigPath: userPath, ProjectDir: projectDir})
	require.NoError(t, err)

	assert.Equal(t, "ldd", cfg.Resolver.Command)
	assert.Empty(t, cfg.Resolver.Args)
	assert.Equal(t, time.Duration(0), cfg.Resolver.Timeout)
	assert.False(t, cfg.Resolver.CleanEnv)
	assert.Equal(t, "copy", cfg.Closure.ResolveAgainst)
	assert.Equal(t, ".", cfg.Bundle.OutputDir)
	assert.Equal(t, os.FileMode(0755), cfg.Bundle.DirPerm())
	assert.Equal(t, "LD_LIBRARY_PATH", cfg.Launcher.LibraryPathVar)
	assert.Equal(t, os.FileMode(0755), cfg.Launcher.Perm())
	assert.Equal(t, "auto", cfg.Output.Format)
}

func TestLoad_Layering(t *testing.T) {
	userPath, projectDir := isolate(t)
	writeFile(t, userPath, `
[resolver]
command = "/usr/bin/ldd"
timeout = "30s"

[launcher]
mode = "0700"
`)
	writeFile(t, filepath.Join(projectDir, ".exepack.toml"), `
[resolver]
command = "/opt/cross/bin/ldd"

[output]
format = "json"
`)

	cfg, err := config.Load(config.Options{UserConfigPath: userPath, ProjectDir: projectDir})
	require.NoError(t, err)

	assert.Equal(t, "/opt/cross/bin/ldd", cfg.Resolver.Command, "project file wins over user file")
	assert.Equal(t, 30*time.Second, cfg.Resolver.Timeout, "user value kept when project file is silent")
	assert.Equal(t, os.FileMode(0700), cfg.Launcher.Perm())
	assert.Equal(t, "json", cfg.Output.Format)
}

func TestLoad_Environment(t *testing.T) {
	userPath, projectDir := isolate(t)
	writeFile(t, filepath.Join(projectDir, ".exepack.toml"), "[resolver]\ncommand = \"from-file\"\n")

	t.Setenv("EXEPACK_RESOLVER_COMMAND", "from-env")
	t.Setenv("EXEPACK_RESOLVER_CLEAN_ENV", "true")
	t.Setenv("EXEPACK_RESOLVER_ARGS", "--verbose,--root")
	t.Setenv("EXEPACK_CLOSURE_RESOLVE_AGAINST", "source")

	cfg, err := config.Load(config.Options{UserConfigPath: userPath, ProjectDir: projectDir})
	require.NoError(t, err)

	assert.Equal(t, "from-env", cfg.Resolver.Command)
	assert.True(t, cfg.Resolver.CleanEnv)
	assert.Equal(t, []string{"--verbose", "--root"}, cfg.Resolver.Args)
	assert.Equal(t, "source", cfg.Closure.ResolveAgainst)
}

func TestLoad_OverridesWin(t *testing.T) {
	userPath, projectDir := isolate(t)
	t.Setenv("EXEPACK_BUNDLE_OUTPUT_DIR", "/from/env")

	cfg, err := config.Load(config.Options{
		UserConfigPath: userPath,
		ProjectDir:     projectDir,
		Overrides:      map[string]interface{}{"bundle.output_dir": "/from/flag"},
	})
	require.NoError(t, err)
	assert.Equal(t, "/from/flag", cfg.Bundle.OutputDir)
}

func TestLoad_Invalid(t *testing.T) {
	tests := []struct {
		name    string
		content string
	}{
		{"bad_strategy", "[closure]\nresolve_against = \"sideways\"\n"},
		{"bad_dir_mode", "[bundle]\ndir_mode = \"rwx\"\n"},
		{"mode_out_of_range", "[launcher]\nmode = \"7777\"\n"},
		{"empty_command", "[resolver]\ncommand = \"\"\n"},
		{"bad_format", "[output]\nformat = \"xml\"\n"},
		{"negative_timeout", "[resolver]\ntimeout = \"-1s\"\n"},
		{"broken_toml", "[resolver\n"},
		{"variable_with_dash", "[launcher]\nlibrary_path_var = \"LD-LIB\"\n"},
		{"empty_variable", "[launcher]\nlibrary_path_var = \"\"\n"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			userPath, projectDir := isolate(t)
			writeFile(t, filepath.Join(projectDir, ".exepack.toml"), tt.content)

			_, err := config.Load(config.Options{UserConfigPath: userPath, ProjectDir: projectDir})
			require.Error(t, err)
			assert.True(t, errors.IsErrorCode(err, errors.ErrConfig), "got %v", err)
		})
	}
}

func TestUserConfigPath(t *testing.T) {
	dir := t.TempDir()
	t.Setenv("XDG_CONFIG_HOME", dir)
	assert.Equal(t, filepath.Join(dir, "exepack", "config.toml"), config.UserConfigPath())
}

func TestDefaultContent(t *testing.T) {
	assert.Contains(t, config.DefaultContent(), "[resolver]")
}
