// Package config loads exepack's configuration.
//
// Sources are layered with koanf, later ones winning:
//
//  1. embedded defaults (embedded/defaults.toml)
//  2. the user file, $XDG_CONFIG_HOME/exepack/config.toml
//  3. the project file, .exepack.toml in the working directory
//  4. EXEPACK_* environment variables (EXEPACK_RESOLVER_COMMAND -> resolver.command)
//  5. explicit overrides, normally command-line flags
package config
