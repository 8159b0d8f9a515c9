package exepack

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/arthur-debert/exepack/internal/version"
	"github.com/arthur-debert/exepack/pkg/bundle"
	"github.com/arthur-debert/exepack/pkg/closure"
	"github.com/arthur-debert/exepack/pkg/config"
	"github.com/arthur-debert/exepack/pkg/errors"
	"github.com/arthur-debert/exepack/pkg/filesystem"
	"github.com/arthur-debert/exepack/pkg/launcher"
	"github.com/arthur-debert/exepack/pkg/resolver"
	"github.com/arthur-debert/exepack/pkg/ui"
	"github.com/rs/zerolog/log"
	"github.com/spf13/afero"
	"github.com/spf13/cobra"
	"github.com/spf13/cobra/doc"
)

// registerClosureFlags adds the flags shared by every command that walks a closure
func registerClosureFlags(cmd *cobra.Command) {
	cmd.PersistentFlags().String("resolve-against", "copy", MsgFlagResolveAgainst)
	cmd.PersistentFlags().String("resolver", resolver.DefaultCommand, MsgFlagResolver)
	cmd.PersistentFlags().String("format", "auto", MsgFlagFormat)
}

// flagOverrides maps flags set explicitly on the command line to configuration keys
func flagOverrides(cmd *cobra.Command) map[string]interface{} {
	keys := map[string]string{
		"resolve-against": "closure.resolve_against",
		"resolver":        "resolver.command",
		"format":          "output.format",
		"output-dir":      "bundle.output_dir",
	}

	o := make(map[string]interface{})
	for flag, key := range keys {
		f := cmd.Flags().Lookup(flag)
		if f != nil && f.Changed {
			o[key] = f.Value.String()
		}
	}
	return o
}

func loadConfig(overrides map[string]interface{}) (*config.Config, error) {
	cfg, err := config.Load(config.Options{Overrides: overrides})
	if err != nil {
		return nil, err
	}
	log.Debug().
		Str("resolver", cfg.Resolver.Command).
		Str("resolveAgainst", cfg.Closure.ResolveAgainst).
		Str("outputDir", cfg.Bundle.OutputDir).
		Msg("Configuration loaded")
	return cfg, nil
}

func newCopier(fsys afero.Fs, cfg *config.Config) (*closure.Copier, error) {
	strategy, err := closure.ParseStrategy(cfg.Closure.ResolveAgainst)
	if err != nil {
		return nil, err
	}

	ldd := resolver.NewLdd(cfg.Resolver.Command, cfg.Resolver.Args...)
	ldd.Timeout = cfg.Resolver.Timeout
	ldd.CleanEnv = cfg.Resolver.CleanEnv

	return closure.New(fsys, ldd, closure.WithStrategy(strategy)), nil
}

func bundleOptions(cfg *config.Config) bundle.Options {
	return bundle.Options{
		OutputDir: cfg.Bundle.OutputDir,
		DirMode:   cfg.Bundle.DirPerm(),
		Launcher: launcher.Options{
			LibraryPathVar: cfg.Launcher.LibraryPathVar,
			Mode:           cfg.Launcher.Perm(),
		},
	}
}

func newRenderer(cmd *cobra.Command, cfg *config.Config) ui.Renderer {
	format, err := ui.ParseFormat(cfg.Output.Format)
	if err != nil {
		format = ui.FormatAuto
	}

	out := cmd.OutOrStdout()
	if f, ok := out.(*os.File); ok {
		format = ui.Resolve(format, f)
	} else if format == ui.FormatAuto {
		format = ui.FormatText
	}
	return ui.New(out, format)
}

func newDepsCmd() *cobra.Command {
	return &cobra.Command{
		Use:     "deps <executable>",
		Short:   MsgDepsShort,
		Long:    MsgDepsLong,
		GroupID: "core",
		Args:    cobra.ArbitraryArgs,
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

			tmp, err := afero.TempDir(fsys, "", "exepack-deps-")
			if err != nil {
				return errors.Wrap(err, errors.ErrLayout, MsgErrTempDir)
			}
			defer func() {
				if err := fsys.RemoveAll(tmp); err != nil {
					log.Warn().Err(err).Str("dir", tmp).Msg("Could not remove temporary directory")
				}
			}()

			result, err := copier.Materialize(cmd.Context(), executable, tmp)
			if err != nil {
				return err
			}

			// the copies are gone once we return
			result.Destination = ""
			for i := range result.Entries {
				result.Entries[i].Destination = ""
			}
			return newRenderer(cmd, cfg).RenderClosure(result)
		},
	}
}

func newConfigCmd() *cobra.Command {
	return &cobra.Command{
		Use:     "config",
		Short:   MsgConfigShort,
		Long:    MsgConfigLong,
		GroupID: "misc",
		Args:    cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			out := cmd.OutOrStdout()
			fmt.Fprintf(out, MsgConfigPaths, config.UserConfigPath(), config.ProjectConfigFile)
			_, err := fmt.Fprint(out, config.DefaultContent())
			return err
		},
	}
}

func newTopicsCmd() *cobra.Command {
	return &cobra.Command{
		Use:     "topics [topic]",
		Short:   MsgTopicsShort,
		Long:    MsgTopicsLong,
		GroupID: "misc",
		Args:    cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			// Find the help command and execute it with the topic (or the index)
			helpArgs := []string{"topics"}
			if len(args) == 1 {
				helpArgs = args
			}
			if helpCmd, _, err := cmd.Root().Find([]string{"help"}); err == nil && helpCmd.Name() == "help" {
				if helpCmd.RunE != nil {
					return helpCmd.RunE(helpCmd, helpArgs)
				} else if helpCmd.Run != nil {
					helpCmd.Run(helpCmd, helpArgs)
					return nil
				}
			}
			return fmt.Errorf("help command not found")
		},
	}
}

func newVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:     "version",
		Short:   MsgVersionShort,
		GroupID: "misc",
		Args:    cobra.NoArgs,
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Fprintf(cmd.OutOrStdout(), "%s %s\n", cmd.Root().Name(), version.String())
		},
	}
}

func newCompletionCmd() *cobra.Command {
	return &cobra.Command{
		Use:                   "completion [bash|zsh|fish|powershell]",
		Short:                 MsgCompletionShort,
		Long:                  MsgCompletionLong,
		DisableFlagsInUseLine: true,
		ValidArgs:             []string{"bash", "zsh", "fish", "powershell"},
		Args:                  cobra.MatchAll(cobra.ExactArgs(1), cobra.OnlyValidArgs),
		GroupID:               "misc",
		RunE: func(cmd *cobra.Command, args []string) error {
			out := cmd.OutOrStdout()
			switch args[0] {
			case "bash":
				return cmd.Root().GenBashCompletionV2(out, true)
			case "zsh":
				return cmd.Root().GenZshCompletion(out)
			case "fish":
				return cmd.Root().GenFishCompletion(out, true)
			case "powershell":
				return cmd.Root().GenPowerShellCompletionWithDesc(out)
			}
			return nil
		},
	}
}

// ManHeader is the header used for generated man pages
func ManHeader() *doc.GenManHeader {
	return &doc.GenManHeader{
		Title:   "EXEPACK",
		Section: "1",
		Source:  "exepack " + version.Version,
		Manual:  "exepack manual",
	}
}

func newManCmd() *cobra.Command {
	return &cobra.Command{
		Use:     "man <dir>",
		Short:   MsgManShort,
		GroupID: "misc",
		Hidden:  true,
		Args:    cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			dir := filepath.Clean(args[0])
			if err := os.MkdirAll(dir, 0755); err != nil {
				return fmt.Errorf(MsgErrManDir, err)
			}
			if err := doc.GenManTree(cmd.Root(), ManHeader(), dir); err != nil {
				return fmt.Errorf(MsgErrManDir, err)
			}
			log.Info().Str("dir", dir).Msg("Man pages generated")
			return nil
		},
	}
}
