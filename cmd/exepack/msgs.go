package exepack

import (
	_ "embed"
	"strings"
)

// Short messages (one-liners)
const (
	// Command descriptions
	MsgRootShort       = "Bundle an executable with its shared libraries"
	MsgDepsShort       = "Print the shared library closure of an executable"
	MsgTopicsShort     = "Display available documentation topics"
	MsgTopicsLong      = "Display a list of all available help topics that provide additional documentation beyond command help."
	MsgConfigShort     = "Print the default configuration"
	MsgConfigLong      = "Config prints the built-in default configuration as TOML. Save it to the user config file or to .exepack.toml in a project and edit from there."
	MsgVersionShort    = "Print version information"
	MsgCompletionShort = "Generate shell completion script"
	MsgManShort        = "Generate man pages into a directory"

	// Flag descriptions
	MsgFlagVerbose        = "Increase verbosity (-v INFO, -vv DEBUG, -vvv TRACE)"
	MsgFlagOutputDir      = "Directory in which the bundle root is created"
	MsgFlagResolveAgainst = "Query library dependencies against the bundled copy or the original (copy, source)"
	MsgFlagResolver       = "Dependency resolver command"
	MsgFlagFormat         = "Output format (auto, term, text, json, yaml, toml)"

	// Group titles
	MsgGroupCore = "COMMANDS:"
	MsgGroupMisc = "MISC:"

	// Error messages
	MsgErrLoadConfig = "failed to load configuration: %w"
	MsgErrTempDir    = "failed to create temporary directory"
	MsgErrManDir     = "failed to generate man pages: %w"

	// Output
	MsgConfigPaths = "# user config:    %s\n# project config: %s\n\n"
)

// Long messages from embedded files
var (
	//go:embed msgs/root-long.txt
	msgRootLongRaw string
	MsgRootLong    = strings.TrimSpace(msgRootLongRaw)

	//go:embed msgs/root-example.txt
	msgRootExampleRaw string
	MsgRootExample    = strings.TrimRight(msgRootExampleRaw, "\n")

	//go:embed msgs/deps-long.txt
	msgDepsLongRaw string
	MsgDepsLong    = strings.TrimSpace(msgDepsLongRaw)

	//go:embed msgs/completion-long.txt
	msgCompletionLongRaw string
	MsgCompletionLong    = strings.TrimSpace(msgCompletionLongRaw)

	//go:embed msgs/usage-template.txt
	msgUsageTemplateRaw string
	MsgUsageTemplate    = strings.TrimSpace(msgUsageTemplateRaw)
)
