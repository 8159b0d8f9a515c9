// Package launcher writes the wrapper script placed in a bundle's bin
// directory.
//
// At run time the script finds its own canonical location, points the
// dynamic loader at the sibling lib directory and execs the original
// executable with the caller's arguments.
package launcher

import (
	"bytes"
	"os"
	"strings"
	"text/template"

	"github.com/arthur-debert/exepack/pkg/errors"
	"github.com/arthur-debert/exepack/pkg/filesystem"
	"github.com/arthur-debert/exepack/pkg/logging"
	"github.com/spf13/afero"
)

// DefaultLibraryPathVar is the loader search-path variable on Linux and most Unixes
const DefaultLibraryPathVar = "LD_LIBRARY_PATH"

// DefaultMode is the permission set before the execute bits are added
const DefaultMode os.FileMode = 0755

// Options controls the generated script
type Options struct {
	// Executable is the file name inside original_executable/
	Executable string
	// LibraryPathVar is the loader variable to override
	LibraryPathVar string
	// Mode is the file mode; execute bits are always added
	Mode os.FileMode
}

var scriptTemplate = template.Must(template.New("launcher").Funcs(template.FuncMap{
	"quote": shellQuote,
}).Parse(`#!/bin/sh
set -eu
here=$(dirname "$(readlink -f "$0")")
root=$(dirname "$here")
exec env {{.LibraryPathVar}}="$root/lib" "$root/original_executable/"{{quote .Executable}} "$@"
`))

// Validate checks the options a launcher would be rendered with. Callers
// run it before creating anything on disk.
func Validate(opts Options) error {
	opts = withDefaults(opts)
	switch opts.Executable {
	case "", ".", "..":
		return errors.Newf(errors.ErrUsage, "invalid executable name %q for launcher", opts.Executable)
	}
	if strings.ContainsAny(opts.Executable, "/\x00") {
		return errors.Newf(errors.ErrUsage, "invalid executable name %q for launcher", opts.Executable)
	}
	if !IsValidVariable(opts.LibraryPathVar) {
		return errors.Newf(errors.ErrConfig, "invalid library path variable %q", opts.LibraryPathVar)
	}
	return nil
}

// Render returns the launcher script text
func Render(opts Options) (string, error) {
	opts = withDefaults(opts)
	if err := Validate(opts); err != nil {
		return "", err
	}

	var buf bytes.Buffer
	if err := scriptTemplate.Execute(&buf, opts); err != nil {
		return "", errors.Wrap(err, errors.ErrInternal, "could not render launcher")
	}
	return buf.String(), nil
}

// Emit writes the launcher to path and marks it executable
func Emit(fsys afero.Fs, path string, opts Options) error {
	logger := logging.GetLogger("launcher")
	opts = withDefaults(opts)

	script, err := Render(opts)
	if err != nil {
		return err
	}

	if err := afero.WriteFile(fsys, path, []byte(script), opts.Mode.Perm()); err != nil {
		return errors.Wrapf(err, errors.ErrLayout, "could not write launcher %s", path)
	}
	// WriteFile's mode is filtered by the umask
	if err := fsys.Chmod(path, opts.Mode.Perm()); err != nil {
		return errors.Wrapf(err, errors.ErrLayout, "could not set mode of launcher %s", path)
	}
	if err := filesystem.MakeExecutable(fsys, path); err != nil {
		return errors.Wrapf(err, errors.ErrLayout, "could not make launcher %s executable", path)
	}

	logger.Debug().
		Str("path", path).
		Str("variable", opts.LibraryPathVar).
		Msg("Launcher written")
	return nil
}

func withDefaults(opts Options) Options {
	if opts.LibraryPathVar == "" {
		opts.LibraryPathVar = DefaultLibraryPathVar
	}
	if opts.Mode == 0 {
		opts.Mode = DefaultMode
	}
	return opts
}

// shellQuote single-quotes s for sh; an embedded ' becomes '\''
func shellQuote(s string) string {
	return "'" + strings.ReplaceAll(s, "'", `'\''`) + "'"
}

// IsValidVariable reports whether s can be used as a shell variable name
func IsValidVariable(s string) bool {
	if s == "" {
		return false
	}
	for i, r := range s {
		switch {
		case r == '_', r >= 'A' && r <= 'Z', r >= 'a' && r <= 'z':
		case r >= '0' && r <= '9' && i > 0:
		default:
			return false
		}
	}
	return true
}
