package config

import (
	_ "embed"
	"errors"
	"os"
	"path/filepath"
	"strings"

	"github.com/adrg/xdg"
	exerrors "github.com/arthur-debert/exepack/pkg/errors"
	"github.com/arthur-debert/exepack/pkg/launcher"
	"github.com/arthur-debert/exepack/pkg/logging"
	"github.com/go-viper/mapstructure/v2"
	"github.com/knadh/koanf/parsers/toml"
	"github.com/knadh/koanf/providers/confmap"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"
)

const (
	// EnvPrefix prefixes every configuration environment variable
	EnvPrefix = "EXEPACK_"

	// ProjectConfigFile is looked up in the working directory
	ProjectConfigFile = ".exepack.toml"

	appDirName     = "exepack"
	userConfigFile = "config.toml"
)

//go:embed embedded/defaults.toml
var defaultConfig []byte

// rawBytesProvider implements koanf provider for raw bytes
type rawBytesProvider struct{ bytes []byte }

func (r *rawBytesProvider) ReadBytes() ([]byte, error) { return r.bytes, nil }
func (r *rawBytesProvider) Read() (map[string]interface{}, error) {
	return nil, errors.New("not implemented")
}

// Options selects the configuration sources
type Options struct {
	// UserConfigPath overrides the XDG user config file location
	UserConfigPath string
	// ProjectDir is searched for .exepack.toml; the working directory when empty
	ProjectDir string
	// Overrides are applied last, keyed by dotted path (e.g. "resolver.command")
	Overrides map[string]interface{}
}

// DefaultContent returns the embedded default configuration
func DefaultContent() string {
	return string(defaultConfig)
}

// UserConfigPath returns $XDG_CONFIG_HOME/exepack/config.toml
func UserConfigPath() string {
	xdg.Reload()
	return filepath.Join(xdg.ConfigHome, appDirName, userConfigFile)
}

// Load reads and validates configuration from all sources
func Load(opts Options) (*Config, error) {
	logger := logging.GetLogger("config")
	k := koanf.New(".")

	// 1. Embedded defaults
	if err := k.Load(&rawBytesProvider{bytes: defaultConfig}, toml.Parser()); err != nil {
		return nil, exerrors.Wrap(err, exerrors.ErrConfig, "failed to load defaults")
	}

	// 2. User file, 3. project file
	userPath := opts.UserConfigPath
	if userPath == "" {
		userPath = UserConfigPath()
	}
	projectDir := opts.ProjectDir
	if projectDir == "" {
		projectDir = "."
	}
	for _, path := range []string{userPath, filepath.Join(projectDir, ProjectConfigFile)} {
		if _, err := os.Stat(path); err != nil {
			continue
		}
		if err := k.Load(file.Provider(path), toml.Parser()); err != nil {
			return nil, exerrors.Wrapf(err, exerrors.ErrConfig, "failed to load config from %s", path)
		}
		logger.Debug().Str("path", path).Msg("Loaded config file")
	}

	// 4. Environment
	err := k.Load(env.Provider(EnvPrefix, ".", envKey), nil)
	if err != nil {
		return nil, exerrors.Wrap(err, exerrors.ErrConfig, "failed to load env vars")
	}

	// 5. Overrides
	if len(opts.Overrides) > 0 {
		if err := k.Load(confmap.Provider(opts.Overrides, "."), nil); err != nil {
			return nil, exerrors.Wrap(err, exerrors.ErrConfig, "failed to apply overrides")
		}
	}

	var cfg Config
	unmarshalConf := koanf.UnmarshalConf{
		Tag: "koanf",
		DecoderConfig: &mapstructure.DecoderConfig{
			Result:           &cfg,
			WeaklyTypedInput: true,
			DecodeHook: mapstructure.ComposeDecodeHookFunc(
				mapstructure.StringToTimeDurationHookFunc(),
				mapstructure.StringToSliceHookFunc(","),
			),
		},
	}
	if err := k.UnmarshalWithConf("", &cfg, unmarshalConf); err != nil {
		return nil, exerrors.Wrap(err, exerrors.ErrConfig, "failed to unmarshal configuration")
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// envKey maps EXEPACK_SECTION_SOME_KEY to section.some_key
func envKey(s string) string {
	return strings.Replace(strings.ToLower(strings.TrimPrefix(s, EnvPrefix)), "_", ".", 1)
}

// Validate checks values that cannot be expressed by types alone
func (c *Config) Validate() error {
	if strings.TrimSpace(c.Resolver.Command) == "" {
		return exerrors.New(exerrors.ErrConfig, "resolver.command must not be empty")
	}
	if c.Resolver.Timeout < 0 {
		return exerrors.Newf(exerrors.ErrConfig, "resolver.timeout must not be negative, got %s", c.Resolver.Timeout)
	}
	switch c.Closure.ResolveAgainst {
	case "copy", "source":
	default:
		return exerrors.Newf(exerrors.ErrConfig,
			"closure.resolve_against must be \"copy\" or \"source\", got %q", c.Closure.ResolveAgainst)
	}
	if c.Bundle.OutputDir == "" {
		return exerrors.New(exerrors.ErrConfig, "bundle.output_dir must not be empty")
	}
	if _, err := parseMode(c.Bundle.DirMode); err != nil {
		return exerrors.Wrapf(err, exerrors.ErrConfig, "invalid bundle.dir_mode %q", c.Bundle.DirMode)
	}
	if _, err := parseMode(c.Launcher.Mode); err != nil {
		return exerrors.Wrapf(err, exerrors.ErrConfig, "invalid launcher.mode %q", c.Launcher.Mode)
	}
	if !launcher.IsValidVariable(c.Launcher.LibraryPathVar) {
		return exerrors.Newf(exerrors.ErrConfig,
			"launcher.library_path_var must be a shell variable name, got %q", c.Launcher.LibraryPathVar)
	}
	switch strings.ToLower(c.Output.Format) {
	case "", "auto", "term", "terminal", "text", "plain", "json", "yaml", "yml", "toml":
	default:
		return exerrors.Newf(exerrors.ErrConfig, "unknown output.format %q", c.Output.Format)
	}
	return nil
}
