package closure

import (
	"context"
	"path/filepath"

	"github.com/arthur-debert/exepack/pkg/compare"
	"github.com/arthur-debert/exepack/pkg/errors"
	"github.com/arthur-debert/exepack/pkg/filesystem"
	"github.com/arthur-debert/exepack/pkg/internal/hashutil"
	"github.com/arthur-debert/exepack/pkg/logging"
	"github.com/arthur-debert/exepack/pkg/resolver"
	"github.com/rs/zerolog"
	"github.com/spf13/afero"
)

// Strategy selects which file a library's own dependencies are queried against
type Strategy string

const (
	// ResolveCopy queries the copy placed in the destination directory
	ResolveCopy Strategy = "copy"
	// ResolveSource queries the original library the copy was made from
	ResolveSource Strategy = "source"
)

// ParseStrategy parses a strategy name; the empty string means ResolveCopy
func ParseStrategy(s string) (Strategy, error) {
	switch Strategy(s) {
	case "", ResolveCopy:
		return ResolveCopy, nil
	case ResolveSource:
		return ResolveSource, nil
	default:
		return "", errors.Newf(errors.ErrConfig,
			"unknown resolution strategy %q (want %q or %q)", s, ResolveCopy, ResolveSource)
	}
}

// Entry is one library copied into the destination directory
type Entry struct {
	Name        string `json:"name" yaml:"name" toml:"name"`
	Source      string `json:"source" yaml:"source" toml:"source"`
	Destination string `json:"destination,omitempty" yaml:"destination,omitempty" toml:"destination,omitempty"`
	// RequestedBy is the source path of the binary that first pulled it in
	RequestedBy string `json:"requested_by" yaml:"requested_by" toml:"requested_by"`
	Depth       int    `json:"depth" yaml:"depth" toml:"depth"`
	// Checksum is the sha256 of the bundled copy
	Checksum string `json:"checksum,omitempty" yaml:"checksum,omitempty" toml:"checksum,omitempty"`
}

// Edge is one dependency reported by the resolver during the walk
type Edge struct {
	From string `json:"from" yaml:"from" toml:"from"`
	Name string `json:"name" yaml:"name" toml:"name"`
	Path string `json:"path" yaml:"path" toml:"path"`
}

// Result describes a completed walk
type Result struct {
	Root        string  `json:"root" yaml:"root" toml:"root"`
	Destination string  `json:"destination,omitempty" yaml:"destination,omitempty" toml:"destination,omitempty"`
	Entries     []Entry `json:"libraries" yaml:"libraries" toml:"libraries"`
	Edges       []Edge  `json:"edges" yaml:"edges" toml:"edges"`
	// Queries counts resolver invocations, one per distinct node
	Queries int `json:"queries" yaml:"queries" toml:"queries"`
}

// Copier materializes dependency closures
type Copier struct {
	fs       afero.Fs
	resolver resolver.Resolver
	strategy Strategy
	logger   zerolog.Logger
}

// Option configures a Copier
type Option func(*Copier)

// WithStrategy sets the resolution strategy
func WithStrategy(s Strategy) Option {
	return func(c *Copier) {
		c.strategy = s
	}
}

// New creates a Copier reading and writing through fsys
func New(fsys afero.Fs, r resolver.Resolver, opts ...Option) *Copier {
	c := &Copier{
		fs:       fsys,
		resolver: r,
		strategy: ResolveCopy,
		logger:   logging.GetLogger("closure"),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// frame is a node whose dependency list is partially processed
type frame struct {
	// query is the path handed to the resolver
	query string
	// source is the original path, for reporting
	source string
	deps   []resolver.Dependency
	next   int
	depth  int
}

// Materialize copies the transitive dependency closure of root into destDir.
// destDir must exist. Any failure aborts the walk and leaves whatever was
// already copied in place.
func (c *Copier) Materialize(ctx context.Context, root, destDir string) (*Result, error) {
	done := logging.LogOperationStart(c.logger, "materialize")
	defer done()

	result := &Result{Root: root, Destination: destDir}
	visited := make(map[string]string)

	rootFrame, err := c.query(ctx, result, root, root, 0)
	if err != nil {
		return nil, err
	}
	stack := []*frame{rootFrame}

	for len(stack) > 0 {
		if err := ctx.Err(); err != nil {
			return nil, errors.Wrapf(err, errors.ErrInternal, "closure walk of %s interrupted", root)
		}

		top := stack[len(stack)-1]
		if top.next >= len(top.deps) {
			stack = stack[:len(stack)-1]
			continue
		}
		dep := top.deps[top.next]
		top.next++

		result.Edges = append(result.Edges, Edge{From: top.source, Name: dep.Name, Path: dep.Path})

		name := filepath.Base(dep.Path)
		dest := filepath.Join(destDir, name)

		if prev, seen := visited[name]; seen {
			if err := c.checkRevisit(name, prev, dep.Path, dest); err != nil {
				return nil, err
			}
			continue
		}

		if err := c.place(dep.Path, dest); err != nil {
			return nil, err
		}
		visited[name] = dep.Path

		sum, err := hashutil.FileChecksum(c.fs, dest)
		if err != nil {
			return nil, errors.Wrapf(err, errors.ErrCopy, "could not checksum %s", dest)
		}

		result.Entries = append(result.Entries, Entry{
			Name:        name,
			Source:      dep.Path,
			Destination: dest,
			RequestedBy: top.source,
			Depth:       top.depth + 1,
			Checksum:    sum,
		})

		next := dest
		if c.strategy == ResolveSource {
			next = dep.Path
		}
		child, err := c.query(ctx, result, next, dep.Path, top.depth+1)
		if err != nil {
			return nil, err
		}
		stack = append(stack, child)
	}

	c.logger.Info().
		Str("root", root).
		Int("libraries", len(result.Entries)).
		Int("queries", result.Queries).
		Msg("Dependency closure materialized")

	return result, nil
}

func (c *Copier) query(ctx context.Context, result *Result, path, source string, depth int) (*frame, error) {
	deps, err := c.resolver.Resolve(ctx, path)
	if err != nil {
		if errors.GetErrorCode(err) == errors.ErrUnknown {
			err = errors.Wrapf(err, errors.ErrResolution, "could not resolve dependencies of %s", path)
		}
		return nil, err
	}
	result.Queries++

	c.logger.Debug().
		Str("path", path).
		Int("depth", depth).
		Int("dependencies", len(deps)).
		Msg("Queried dependencies")

	return &frame{query: path, source: source, deps: deps, depth: depth}, nil
}

// checkRevisit handles a base name that was already copied during this walk
func (c *Copier) checkRevisit(name, prevSource, source, dest string) error {
	if filepath.Clean(prevSource) == filepath.Clean(source) {
		c.logger.Trace().Str("library", name).Msg("Already copied, skipping")
		return nil
	}

	ok, err := compare.AreCompatible(c.fs, source, dest)
	if err != nil {
		return err
	}
	if !ok {
		return collision(source, prevSource, dest)
	}

	c.logger.Debug().
		Str("library", name).
		Str("source", source).
		Str("copiedFrom", prevSource).
		Msg("Same library reached from another path, identical content, skipping")
	return nil
}

// place copies source to dest, refusing to overwrite a different file
func (c *Copier) place(source, dest string) error {
	if filepath.Clean(source) == filepath.Clean(dest) {
		// the resolver already points into the destination directory
		return nil
	}

	exists, err := filesystem.Exists(c.fs, dest)
	if err != nil {
		return errors.Wrapf(err, errors.ErrCopy, "could not stat %s", dest)
	}
	if exists {
		c.logger.Debug().Str("destination", dest).Msg("Destination exists from an earlier run, comparing")
		ok, err := compare.AreCompatible(c.fs, source, dest)
		if err != nil {
			return err
		}
		if !ok {
			return collision(source, dest, dest).WithDetail("stale", true)
		}
	}

	if err := filesystem.CopyFile(c.fs, source, dest); err != nil {
		return errors.Wrapf(err, errors.ErrCopy, "could not copy %s to %s", source, dest)
	}

	c.logger.Debug().Str("source", source).Str("destination", dest).Msg("Copied library")
	return nil
}

func collision(source, existing, dest string) *errors.ExepackError {
	return errors.Newf(errors.ErrCollision,
		"libraries %s and %s share the name %s but differ", source, existing, filepath.Base(dest)).
		WithDetail("source", source).
		WithDetail("existing", existing).
		WithDetail("destination", dest)
}
