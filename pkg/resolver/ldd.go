package resolver

import (
	"bytes"
	"context"
	"os/exec"
	"strings"
	"time"

	"github.com/arthur-debert/exepack/pkg/errors"
	"github.com/arthur-debert/exepack/pkg/logging"
	"github.com/rs/zerolog"
)

// DefaultCommand is the resolver program used when none is configured
const DefaultCommand = "ldd"

// notDynamic is how ldd reports a statically linked input
const notDynamic = "not a dynamic executable"

// Ldd runs an ldd-compatible program and parses its report
type Ldd struct {
	// Command is the program to run; DefaultCommand when empty
	Command string
	// Args are placed before the target path
	Args []string
	// Timeout bounds a single query; zero means no limit
	Timeout time.Duration
	// CleanEnv runs the resolver with an empty environment so an ambient
	// LD_PRELOAD or LD_LIBRARY_PATH cannot change what it reports
	CleanEnv bool

	logger zerolog.Logger
}

// NewLdd creates an Ldd resolver running command with the given leading args
func NewLdd(command string, args ...string) *Ldd {
	if command == "" {
		command = DefaultCommand
	}
	return &Ldd{
		Command: command,
		Args:    args,
		logger:  logging.GetLogger("resolver.ldd"),
	}
}

// Resolve runs the resolver against path and returns its direct dependencies
func (l *Ldd) Resolve(ctx context.Context, path string) ([]Dependency, error) {
	command := l.Command
	if command == "" {
		command = DefaultCommand
	}

	if l.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, l.Timeout)
		defer cancel()
	}

	args := append(append([]string{}, l.Args...), path)
	logging.LogCommand(l.logger, command, args)

	cmd := exec.CommandContext(ctx, command, args...)
	if l.CleanEnv {
		cmd.Env = []string{}
	}

	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	if err := cmd.Run(); err != nil {
		if _, ok := err.(*exec.ExitError); ok {
			// static binaries have no libs (barring dlopened ones, which we can't find)
			if strings.Contains(stdout.String()+stderr.String(), notDynamic) {
				l.logger.Debug().Str("path", path).Msg("Not a dynamic executable, no dependencies")
				return nil, nil
			}
			return nil, errors.Wrapf(err, errors.ErrResolution,
				"%s %s failed: %s", command, path, strings.TrimSpace(stderr.String()))
		}
		return nil, errors.Wrapf(err, errors.ErrResolution, "could not run %s", command)
	}

	deps, err := ParseOutput(stdout.Bytes())
	if err != nil {
		return nil, errors.Wrapf(err, errors.ErrResolution, "could not parse %s output for %s", command, path)
	}

	l.logger.Trace().
		Str("path", path).
		Int("dependencies", len(deps)).
		Msg("Resolved dependencies")

	return deps, nil
}
