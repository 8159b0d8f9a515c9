// Package bundle builds the self-contained directory for one executable:
//
//	<name>/
//	  bin/<name>                  launcher script
//	  lib/<dep>...                flat copies of the dependency closure
//	  original_executable/<name>  unmodified copy of the input
//
// The root is never merged into: if it already exists the build fails
// before anything is written.
package bundle

import (
	"context"
	"os"
	"path/filepath"

	"github.com/arthur-debert/exepack/pkg/closure"
	"github.com/arthur-debert/exepack/pkg/errors"
	"github.com/arthur-debert/exepack/pkg/filesystem"
	"github.com/arthur-debert/exepack/pkg/launcher"
	"github.com/arthur-debert/exepack/pkg/logging"
	"github.com/rs/zerolog"
	"github.com/spf13/afero"
)

// Subdirectory names inside a bundle root
const (
	BinDir                = "bin"
	LibDir                = "lib"
	OriginalExecutableDir = "original_executable"
)

// Bundle describes a finished bundle
type Bundle struct {
	Name               string          `json:"name" yaml:"name" toml:"name"`
	Source             string          `json:"source" yaml:"source" toml:"source"`
	Root               string          `json:"root" yaml:"root" toml:"root"`
	Bin                string          `json:"bin" yaml:"bin" toml:"bin"`
	Lib                string          `json:"lib" yaml:"lib" toml:"lib"`
	OriginalExecutable string          `json:"original_executable" yaml:"original_executable" toml:"original_executable"`
	Launcher           string          `json:"launcher" yaml:"launcher" toml:"launcher"`
	Closure            *closure.Result `json:"closure" yaml:"closure" toml:"closure"`
}

// Options configures a Builder
type Options struct {
	// OutputDir is where the <name>/ root is created; "." when empty
	OutputDir string
	// DirMode is used for the root and its subdirectories; 0755 when zero
	DirMode os.FileMode
	// Launcher configures the wrapper script; Executable is filled in by Build
	Launcher launcher.Options
}

// Builder creates bundles
type Builder struct {
	fs     afero.Fs
	copier *closure.Copier
	opts   Options
	logger zerolog.Logger
}

// NewBuilder creates a Builder that populates lib/ with copier
func NewBuilder(fsys afero.Fs, copier *closure.Copier, opts Options) *Builder {
	if opts.OutputDir == "" {
		opts.OutputDir = "."
	}
	if opts.DirMode == 0 {
		opts.DirMode = 0755
	}
	return &Builder{
		fs:     fsys,
		copier: copier,
		opts:   opts,
		logger: logging.GetLogger("bundle"),
	}
}

// Plan returns the paths a bundle for executable would occupy, without
// touching the filesystem
func (b *Builder) Plan(executable string) *Bundle {
	name := filepath.Base(executable)
	root := filepath.Join(b.opts.OutputDir, name)
	return &Bundle{
		Name:               name,
		Source:             executable,
		Root:               root,
		Bin:                filepath.Join(root, BinDir),
		Lib:                filepath.Join(root, LibDir),
		OriginalExecutable: filepath.Join(root, OriginalExecutableDir, name),
		Launcher:           filepath.Join(root, BinDir, name),
	}
}

// Build validates executable, lays out the bundle and materializes the
// dependency closure into lib/. On failure the partially built tree is
// left in place for diagnosis.
func (b *Builder) Build(ctx context.Context, executable string) (*Bundle, error) {
	done := logging.LogOperationStart(b.logger, "bundle")
	defer done()

	if err := ValidateExecutable(b.fs, executable); err != nil {
		return nil, err
	}

	bundle := b.Plan(executable)

	launcherOpts := b.opts.Launcher
	launcherOpts.Executable = bundle.Name
	if err := launcher.Validate(launcherOpts); err != nil {
		return nil, err
	}

	if err := b.createLayout(bundle); err != nil {
		return nil, err
	}

	if err := filesystem.CopyFile(b.fs, executable, bundle.OriginalExecutable); err != nil {
		return nil, errors.Wrapf(err, errors.ErrLayout, "could not copy %s into %s", executable, bundle.OriginalExecutable)
	}

	if err := launcher.Emit(b.fs, bundle.Launcher, launcherOpts); err != nil {
		return nil, err
	}

	result, err := b.copier.Materialize(ctx, executable, bundle.Lib)
	if err != nil {
		return nil, err
	}
	bundle.Closure = result

	b.logger.Info().
		Str("root", bundle.Root).
		Int("libraries", len(result.Entries)).
		Msg("Bundle created")
	return bundle, nil
}

func (b *Builder) createLayout(bundle *Bundle) error {
	exists, err := filesystem.Exists(b.fs, bundle.Root)
	if err != nil {
		return errors.Wrapf(err, errors.ErrLayout, "could not stat %s", bundle.Root)
	}
	if exists {
		return errors.Newf(errors.ErrLayout,
			"bundle root %s already exists; remove it or choose another output directory", bundle.Root).
			WithDetail("root", bundle.Root)
	}

	// Mkdir, not MkdirAll: a root created concurrently must still fail
	if err := b.fs.Mkdir(bundle.Root, b.opts.DirMode); err != nil {
		if os.IsExist(err) {
			return errors.Newf(errors.ErrLayout, "bundle root %s already exists", bundle.Root).
				WithDetail("root", bundle.Root)
		}
		return errors.Wrapf(err, errors.ErrLayout, "could not create bundle root %s", bundle.Root)
	}

	for _, dir := range []string{bundle.Bin, bundle.Lib, filepath.Dir(bundle.OriginalExecutable)} {
		if err := b.fs.Mkdir(dir, b.opts.DirMode); err != nil {
			return errors.Wrapf(err, errors.ErrLayout, "could not create %s", dir)
		}
	}

	b.logger.Debug().Str("root", bundle.Root).Msg("Bundle layout created")
	return nil
}
