package compare_test

import (
	"bytes"
	"testing"

	"github.com/arthur-debert/exepack/pkg/compare"
	"github.com/spf13/afero"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAreCompatible(t *testing.T) {
	big := bytes.Repeat([]byte("0123456789abcdef"), 20000)
	bigChanged := append([]byte{}, big...)
	bigChanged[len(bigChanged)-1] = 'X'

	tests := []struct {
		name string
		a    []byte
		b    []byte
		noA  bool
		noB  bool
		want bool
	}{
		{name: "identical", a: []byte("libX v1"), b: []byte("libX v1"), want: true},
		{name: "both_empty", a: []byte{}, b: []byte{}, want: true},
		{name: "different_size", a: []byte("libX v1"), b: []byte("libX v10"), want: false},
		{name: "same_size_different_bytes", a: []byte("libX v1"), b: []byte("libX v2"), want: false},
		{name: "identical_multi_chunk", a: big, b: big, want: true},
		{name: "differs_in_last_chunk", a: big, b: bigChanged, want: false},
		{name: "first_missing", noA: true, b: []byte("anything"), want: true},
		{name: "second_missing", a: []byte("anything"), noB: true, want: true},
		{name: "both_missing", noA: true, noB: true, want: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			fsys := afero.NewMemMapFs()
			if !tt.noA {
				require.NoError(t, afero.WriteFile(fsys, "/a/lib.so", tt.a, 0644))
			}
			if !tt.noB {
				require.NoError(t, afero.WriteFile(fsys, "/b/lib.so", tt.b, 0644))
			}

			got, err := compare.AreCompatible(fsys, "/a/lib.so", "/b/lib.so")
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)

			// symmetric
			got, err = compare.AreCompatible(fsys, "/b/lib.so", "/a/lib.so")
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestAreCompatible_MissingShortcutIgnoresOtherContent(t *testing.T) {
	fsys := afero.NewMemMapFs()
	for _, content := range [][]byte{nil, []byte("x"), bytes.Repeat([]byte{0}, 1<<17)} {
		require.NoError(t, afero.WriteFile(fsys, "/present", content, 0644))

		ok, err := compare.AreCompatible(fsys, "/present", "/absent")
		require.NoError(t, err)
		assert.True(t, ok)
	}
}
