package exepack

import (
	"github.com/arthur-debert/exepack/internal/version"
	"github.com/arthur-debert/exepack/pkg/bundle"
	"github.com/arthur-debert/exepack/pkg/filesystem"
	"github.com/arthur-debert/exepack/pkg/logging"
	"github.com/arthur-debert/exepack/pkg/topics"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"
)

// NewRootCmd creates and returns the root command
func NewRootCmd() *cobra.Command {
	initTemplateFormatting()

	var verbosity int

	rootCmd := &cobra.Command{
		Use:     "exepack [flags] <executable>",
		Short:   MsgRootShort,
		Long:    MsgRootLong,
		Example: MsgRootExample,
		Version: version.Version,
		// validated by bundle.ValidateArgs so a wrong count is a usage error
		Args: cobra.ArbitraryArgs,
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			logging.SetupLogger(verbosity)
			log.Debug().Str("command", cmd.Name()).Msg("Command started")
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			fsys := filesystem.NewOS()

			executable, err := bundle.ValidateArgs(fsys, args)
			if err != nil {
				return err
			}

			cfg, err := loadConfig(flagOverrides(cmd))
			if err != nil {
				return err
			}

			copier, err := newCopier(fsys, cfg)
			if err != nil {
				return err
			}
			builder := bundle.NewBuilder(fsys, copier, bundleOptions(cfg))

			b, err := builder.Build(cmd.Context(), executable)
			if err != nil {
				return err
			}
			return newRenderer(cmd, cfg).RenderBundle(b)
		},
		SilenceUsage:      true,
		SilenceErrors:     true,
		DisableAutoGenTag: true,
		CompletionOptions: cobra.CompletionOptions{DisableDefaultCmd: true},
	}

	rootCmd.PersistentFlags().CountVarP(&verbosity, "verbose", "v", MsgFlagVerbose)
	registerClosureFlags(rootCmd)
	rootCmd.Flags().StringP("output-dir", "o", ".", MsgFlagOutputDir)

	rootCmd.AddGroup(&cobra.Group{ID: "core", Title: MsgGroupCore})
	rootCmd.AddGroup(&cobra.Group{ID: "misc", Title: MsgGroupMisc})

	rootCmd.SetUsageTemplate(MsgUsageTemplate)
	rootCmd.SetVersionTemplate("{{.Name}} " + version.String() + "\n")

	rootCmd.AddCommand(newDepsCmd())
	rootCmd.AddCommand(newConfigCmd())
	rootCmd.AddCommand(newTopicsCmd())
	rootCmd.AddCommand(newVersionCmd())
	rootCmd.AddCommand(newCompletionCmd())
	rootCmd.AddCommand(newManCmd())

	// Embedded topics always load; a failure here is a build defect
	if tm, err := topics.New(topics.Options{Renderer: topics.NewGlamourRenderer()}); err == nil {
		tm.Install(rootCmd)
		rootCmd.SetHelpCommandGroupID("misc")
	} else {
		log.Warn().Err(err).Msg("Help topics unavailable")
	}

	return rootCmd
}
