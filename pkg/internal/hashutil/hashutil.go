package hashutil

import (
	"crypto/sha256"
	"fmt"
	"io"

	"github.com/spf13/afero"
)

// FileChecksum returns the SHA256 checksum of a file as "sha256:<hex>"
func FileChecksum(fsys afero.Fs, path string) (string, error) {
	file, err := fsys.Open(path)
	if err != nil {
		return "", err
	}
	defer func() {
		_ = file.Close()
	}()

	hash := sha256.New()
	if _, err := io.Copy(hash, file); err != nil {
		return "", err
	}

	return fmt.Sprintf("sha256:%x", hash.Sum(nil)), nil
}
