package hashutil

import (
	"testing"

	"github.com/spf13/afero"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFileChecksum(t *testing.T) {
	fsys := afero.NewMemMapFs()
	require.NoError(t, afero.WriteFile(fsys, "/a", []byte("hello"), 0644))
	require.NoError(t, afero.WriteFile(fsys, "/b", []byte("hello"), 0600))
	require.NoError(t, afero.WriteFile(fsys, "/c", []byte("world"), 0644))

	a, err := FileChecksum(fsys, "/a")
	require.NoError(t, err)
	assert.Equal(t, "sha256:2cf24dba5fb0a30e26e83b2ac5b9e29e1b161e5c1fa7425e73043362938b9824", a)

	b, err := FileChecksum(fsys, "/b")
	require.NoError(t, err)
	assert.Equal(t, a, b, "mode does not affect the checksum")

	c, err := FileChecksum(fsys, "/c")
	require.NoError(t, err)
	assert.NotEqual(t, a, c)

	_, err = FileChecksum(fsys, "/missing")
	assert.Error(t, err)
}
