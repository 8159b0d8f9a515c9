package filesystem_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/arthur-debert/exepack/pkg/filesystem"
	"github.com/spf13/afero"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestExists(t *testing.T) {
	fsys := filesystem.NewMemory()
	require.NoError(t, afero.WriteFile(fsys, "/lib/libx.so", []byte("x"), 0644))

	ok, err := filesystem.Exists(fsys, "/lib/libx.so")
	require.NoError(t, err)
	assert.True(t, ok)

	ok, err = filesystem.Exists(fsys, "/lib/missing.so")
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestCopyFile(t *testing.T) {
	t.Run("copies_content_and_mode", func(t *testing.T) {
		fsys := filesystem.NewMemory()
		require.NoError(t, afero.WriteFile(fsys, "/src/libx.so", []byte("ELF-libx"), 0755))
		require.NoError(t, fsys.MkdirAll("/dst", 0755))

		require.NoError(t, filesystem.CopyFile(fsys, "/src/libx.so", "/dst/libx.so"))

		got, err := afero.ReadFile(fsys, "/dst/libx.so")
		require.NoError(t, err)
		assert.Equal(t, "ELF-libx", string(got))

		info, err := fsys.Stat("/dst/libx.so")
		require.NoError(t, err)
		assert.Equal(t, os.FileMode(0755), info.Mode().Perm())
	})

	t.Run("overwrites_existing", func(t *testing.T) {
		fsys := filesystem.NewMemory()
		require.NoError(t, afero.WriteFile(fsys, "/src/a", []byte("short"), 0644))
		require.NoError(t, afero.WriteFile(fsys, "/dst/a", []byte("a much longer old content"), 0644))

		require.NoError(t, filesystem.CopyFile(fsys, "/src/a", "/dst/a"))

		got, err := afero.ReadFile(fsys, "/dst/a")
		require.NoError(t, err)
		assert.Equal(t, "short", string(got))
	})

	t.Run("missing_source", func(t *testing.T) {
		fsys := filesystem.NewMemory()
		err := filesystem.CopyFile(fsys, "/nope", "/dst")
		assert.Error(t, err)
	})

	t.Run("real_filesystem", func(t *testing.T) {
		dir := t.TempDir()
		src := filepath.Join(dir, "src")
		dst := filepath.Join(dir, "dst")
		require.NoError(t, os.WriteFile(src, []byte("payload"), 0640))

		require.NoError(t, filesystem.CopyFile(filesystem.NewOS(), src, dst))

		got, err := os.ReadFile(dst)
		require.NoError(t, err)
		assert.Equal(t, "payload", string(got))
	})
}

func TestMakeExecutable(t *testing.T) {
	fsys := filesystem.NewMemory()
	require.NoError(t, afero.WriteFile(fsys, "/bin/app", []byte("#!/bin/sh\n"), 0640))

	require.NoError(t, filesystem.MakeExecutable(fsys, "/bin/app"))

	info, err := fsys.Stat("/bin/app")
	require.NoError(t, err)
	assert.Equal(t, os.FileMode(0751), info.Mode().Perm())
}
