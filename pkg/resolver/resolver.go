// Package resolver queries the platform's dynamic-dependency resolver (ldd
// by default) and turns its report into resolved library paths.
//
// Only lines of the form
//
//	name => /resolved/path (0xADDRESS)
//
// carry dependencies. The dynamic loader line, vdso pseudo-entries and
// libraries reported as "not found" yield nothing. A resolved path is
// required to contain no spaces; output that breaks this rule is rejected
// instead of being truncated.
package resolver

import (
	"context"
	"path/filepath"
	"strings"
	"unicode/utf8"

	"github.com/arthur-debert/exepack/pkg/errors"
)

const separator = " => "

// Dependency is a single resolved edge reported for a binary
type Dependency struct {
	// Name is the library name as the binary requests it (e.g. libc.so.6)
	Name string `json:"name" yaml:"name" toml:"name"`
	// Path is the absolute path the loader would map
	Path string `json:"path" yaml:"path" toml:"path"`
}

// Resolver lists the direct shared-library dependencies of a binary
type Resolver interface {
	Resolve(ctx context.Context, path string) ([]Dependency, error)
}

// Func adapts a plain function to the Resolver interface
type Func func(ctx context.Context, path string) ([]Dependency, error)

// Resolve calls f(ctx, path)
func (f Func) Resolve(ctx context.Context, path string) ([]Dependency, error) {
	return f(ctx, path)
}

// ParseOutput parses resolver output into dependencies, in report order.
func ParseOutput(out []byte) ([]Dependency, error) {
	if !utf8.Valid(out) {
		return nil, errors.New(errors.ErrResolution, "resolver output is not valid UTF-8 text")
	}

	text := strings.ReplaceAll(string(out), "\t", "")

	var deps []Dependency
	for _, line := range strings.Split(text, "\n") {
		line = strings.TrimRight(line, "\r")
		if !strings.Contains(line, separator) {
			continue
		}

		parts := strings.Split(line, separator)
		if len(parts) != 2 {
			return nil, errors.Newf(errors.ErrResolution,
				"malformed resolver line %q: expected exactly one %q", line, strings.TrimSpace(separator)).
				WithDetail("line", line)
		}

		name := strings.TrimSpace(parts[0])
		right := strings.TrimSpace(parts[1])

		// "libfoo.so => not found" has no resolved path, and older ldd
		// prints "linux-gate.so.1 =>  (0x...)" for the vDSO
		if right == notFound || isAddress(right) {
			continue
		}

		fields := strings.Split(right, " ")
		if len(fields) != 2 || !filepath.IsAbs(fields[0]) || !isAddress(fields[1]) {
			return nil, errors.Newf(errors.ErrResolution,
				"malformed resolver line %q: expected '<absolute path> (<address>)', resolved paths must not contain spaces", line).
				WithDetail("line", line)
		}

		deps = append(deps, Dependency{Name: name, Path: fields[0]})
	}

	return deps, nil
}

const notFound = "not found"

func isAddress(s string) bool {
	return len(s) > 2 && strings.HasPrefix(s, "(") && strings.HasSuffix(s, ")")
}
