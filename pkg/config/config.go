package config

import (
	"os"
	"strconv"
	"time"
)

// Config is the complete exepack configuration
type Config struct {
	Resolver ResolverConfig `koanf:"resolver"`
	Closure  ClosureConfig  `koanf:"closure"`
	Bundle   BundleConfig   `koanf:"bundle"`
	Launcher LauncherConfig `koanf:"launcher"`
	Output   OutputConfig   `koanf:"output"`
}

// ResolverConfig configures the dependency query subprocess
type ResolverConfig struct {
	Command  string        `koanf:"command"`
	Args     []string      `koanf:"args"`
	Timeout  time.Duration `koanf:"timeout"`
	CleanEnv bool          `koanf:"clean_env"`
}

// ClosureConfig configures the closure walk
type ClosureConfig struct {
	ResolveAgainst string `koanf:"resolve_against"`
}

// BundleConfig configures the bundle layout
type BundleConfig struct {
	OutputDir string `koanf:"output_dir"`
	DirMode   string `koanf:"dir_mode"`
}

// LauncherConfig configures the wrapper script
type LauncherConfig struct {
	LibraryPathVar string `koanf:"library_path_var"`
	Mode           string `koanf:"mode"`
}

// OutputConfig configures how results are printed
type OutputConfig struct {
	Format string `koanf:"format"`
}

// DirPerm returns the parsed directory mode
func (b BundleConfig) DirPerm() os.FileMode {
	m, _ := parseMode(b.DirMode)
	return m
}

// Perm returns the parsed launcher mode
func (l LauncherConfig) Perm() os.FileMode {
	m, _ := parseMode(l.Mode)
	return m
}

func parseMode(s string) (os.FileMode, error) {
	v, err := strconv.ParseUint(s, 8, 32)
	if err != nil {
		return 0, err
	}
	if v > 0777 {
		return 0, strconv.ErrRange
	}
	return os.FileMode(v), nil
}
