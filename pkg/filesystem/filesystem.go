package filesystem

import (
	"fmt"
	"io"
	"io/fs"
	"os"

	"github.com/spf13/afero"
)

// NewOS creates a filesystem backed by the real OS filesystem
func NewOS() afero.Fs {
	return afero.NewOsFs()
}

// NewMemory creates an in-memory filesystem
func NewMemory() afero.Fs {
	return afero.NewMemMapFs()
}

// Exists reports whether name exists. Errors other than "not exist" are returned.
func Exists(fsys afero.Fs, name string) (bool, error) {
	_, err := fsys.Stat(name)
	if err == nil {
		return true, nil
	}
	if os.IsNotExist(err) {
		return false, nil
	}
	return false, err
}

// CopyFile copies src to dst, truncating dst if it exists. The permission
// bits of src are carried over to dst.
func CopyFile(fsys afero.Fs, src, dst string) error {
	in, err := fsys.Open(src)
	if err != nil {
		return err
	}
	defer in.Close()

	info, err := in.Stat()
	if err != nil {
		return err
	}
	if info.IsDir() {
		return &fs.PathError{Op: "copy", Path: src, Err: fmt.Errorf("is a directory")}
	}
	perm := info.Mode().Perm()

	out, err := fsys.OpenFile(dst, os.O_CREATE|os.O_TRUNC|os.O_WRONLY, perm)
	if err != nil {
		return err
	}

	if _, err := io.Copy(out, in); err != nil {
		_ = out.Close()
		return err
	}
	if err := out.Close(); err != nil {
		return err
	}

	// OpenFile only applies perm on creation and is subject to umask
	return fsys.Chmod(dst, perm)
}

// MakeExecutable adds the owner, group and other execute bits to name,
// like chmod +x.
func MakeExecutable(fsys afero.Fs, name string) error {
	info, err := fsys.Stat(name)
	if err != nil {
		return err
	}
	return fsys.Chmod(name, info.Mode().Perm()|0111)
}
