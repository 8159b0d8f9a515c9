package bundle

import (
	"os"

	"github.com/arthur-debert/exepack/pkg/errors"
	"github.com/spf13/afero"
)

// ValidateArgs checks the command line before anything is written: exactly
// one argument naming an existing file. It returns that path.
func ValidateArgs(fsys afero.Fs, args []string) (string, error) {
	if len(args) != 1 {
		return "", errors.Newf(errors.ErrUsage,
			"expected exactly 1 argument, the path to the executable to bundle, got %d", len(args)).
			WithDetail("args", args)
	}
	if err := ValidateExecutable(fsys, args[0]); err != nil {
		return "", err
	}
	return args[0], nil
}

// ValidateExecutable checks that path names an existing regular file
func ValidateExecutable(fsys afero.Fs, path string) error {
	if path == "" {
		return errors.New(errors.ErrUsage, "executable path is empty")
	}

	info, err := fsys.Stat(path)
	if err != nil {
		if os.IsNotExist(err) {
			return errors.Newf(errors.ErrUsage, "path to executable doesn't exist: %s", path).
				WithDetail("path", path)
		}
		return errors.Wrapf(err, errors.ErrUsage, "cannot access %s", path)
	}
	if info.IsDir() {
		return errors.Newf(errors.ErrUsage, "%s is a directory, not an executable", path).
			WithDetail("path", path)
	}
	return nil
}
