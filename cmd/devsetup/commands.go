package devsetup

import (
	"fmt"
	"runtime"

	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"

	"github.com/arthur-debert/devsetup/internal/version"
	"github.com/arthur-debert/devsetup/pkg/logging"
)

// NewRootCmd creates and returns the root command
func NewRootCmd() *cobra.Command {
	initTemplateFormatting()

	g := &globalFlags{}

	rootCmd := &cobra.Command{
		Use:     "devsetup",
		Short:   MsgRootShort,
		Long:    MsgRootLong,
		Version: version.Version,
		Args:    cobra.NoArgs,
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			logging.SetupLogger(g.verbosity)
			log.Debug().Str("command", cmd.Name()).Msg("Command started")
		},
		// A bare invocation runs the whole setup.
		RunE:              runSetup(g),
		SilenceUsage:      true,
		SilenceErrors:     true,
		DisableAutoGenTag: true,
	}

	flags := rootCmd.PersistentFlags()
	flags.CountVarP(&g.verbosity, "verbose", "v", MsgFlagVerbose)
	flags.StringVarP(&g.configFile, "config", "c", "", MsgFlagConfig)
	flags.StringVarP(&g.root, "root", "C", "", MsgFlagRoot)
	flags.StringVar(&g.format, "format", "", MsgFlagFormat)
	flags.StringVarP(&g.buildDir, "build-dir", "B", "", MsgFlagBuildDir)
	flags.StringVarP(&g.buildType, "build-type", "t", "", MsgFlagBuildType)
	flags.StringVarP(&g.generator, "generator", "G", "", MsgFlagGenerator)
	flags.BoolVar(&g.build, "build", false, MsgFlagBuild)
	flags.BoolVar(&g.checkVSCode, "check-vscode", false, MsgFlagCheckVSCode)

	rootCmd.AddGroup(&cobra.Group{
		ID:    "core",
		Title: "COMMANDS:",
	})
	rootCmd.AddGroup(&cobra.Group{
		ID:    "steps",
		Title: "STEPS:",
	})
	rootCmd.AddGroup(&cobra.Group{
		ID:    "misc",
		Title: "MISC:",
	})
	rootCmd.SetHelpCommandGroupID("misc")

	rootCmd.SetUsageTemplate(MsgUsageTemplate)

	rootCmd.AddCommand(newRunCmd(g))
	rootCmd.AddCommand(newCheckCmd(g))
	rootCmd.AddCommand(newCleanCmd(g))
	rootCmd.AddCommand(newBuildCmd(g))
	rootCmd.AddCommand(newCompDBCmd(g))
	rootCmd.AddCommand(newVSCodeCmd(g))
	rootCmd.AddCommand(newToolchainCmd(g))
	rootCmd.AddCommand(newConfigCmd(g))
	rootCmd.AddCommand(newGuideCmd(g))
	rootCmd.AddCommand(newVersionCmd())
	rootCmd.AddCommand(newCompletionCmd())

	return rootCmd
}

func runSetup(g *globalFlags) func(*cobra.Command, []string) error {
	return func(cmd *cobra.Command, args []string) error {
		a, err := newApp(cmd, g)
		if err != nil {
			return err
		}
		return reported(a.setup.Run(cmd.Context()))
	}
}

func newRunCmd(g *globalFlags) *cobra.Command {
	return &cobra.Command{
		Use:     "run",
		Short:   MsgRunShort,
		Long:    MsgRunLong,
		Example: MsgRunExample,
		GroupID: "core",
		Args:    cobra.NoArgs,
		RunE:    runSetup(g),
	}
}

func newCheckCmd(g *globalFlags) *cobra.Command {
	return &cobra.Command{
		Use:     "check",
		Short:   MsgCheckShort,
		GroupID: "steps",
		Args:    cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := newApp(cmd, g)
			if err != nil {
				return err
			}
			return reported(a.setup.CheckTools(cmd.Context()))
		},
	}
}

func newCleanCmd(g *globalFlags) *cobra.Command {
	return &cobra.Command{
		Use:     "clean",
		Short:   MsgCleanShort,
		GroupID: "steps",
		Args:    cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := newApp(cmd, g)
			if err != nil {
				return err
			}
			return reported(a.setup.Clean(cmd.Context()))
		},
	}
}

func newBuildCmd(g *globalFlags) *cobra.Command {
	return &cobra.Command{
		Use:     "build",
		Short:   MsgBuildShort,
		GroupID: "steps",
		Args:    cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := newApp(cmd, g)
			if err != nil {
				return err
			}
			ctx := cmd.Context()
			a.setup.PrepareCompiler(ctx)
			if err := a.setup.Build(ctx); err != nil {
				return err
			}
			_, err = a.setup.CompDB()
			return reported(err)
		},
	}
}

func newCompDBCmd(g *globalFlags) *cobra.Command {
	return &cobra.Command{
		Use:     "compdb",
		Short:   MsgCompDBShort,
		GroupID: "steps",
		Args:    cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := newApp(cmd, g)
			if err != nil {
				return err
			}
			_, err = a.setup.CompDB()
			return reported(err)
		},
	}
}

func newVSCodeCmd(g *globalFlags) *cobra.Command {
	return &cobra.Command{
		Use:     "vscode",
		Short:   MsgVSCodeShort,
		GroupID: "steps",
		Args:    cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := newApp(cmd, g)
			if err != nil {
				return err
			}
			a.setup.VSCode()
			return nil
		},
	}
}

func newToolchainCmd(g *globalFlags) *cobra.Command {
	return &cobra.Command{
		Use:     "toolchain",
		Short:   MsgToolchainShort,
		GroupID: "misc",
		Args:    cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := newApp(cmd, g)
			if err != nil {
				return err
			}
			if runtime.GOOS != "windows" {
				a.rep.Infof(MsgNotWindows, runtime.GOOS)
			}

			locator := a.setup.Locator()
			inst, ok := locator.Find()
			if !ok {
				a.rep.Warningf(MsgNoInstallation, a.cfg.Toolchain.Root)
				return nil
			}
			a.rep.Successf(MsgInstallationFound, inst)
			a.rep.Plain(fmt.Sprintf(MsgVcvarsall, inst.Vcvarsall))

			cl, err := locator.CompilerPath(inst)
			if err != nil {
				a.rep.Warning(err.Error())
				return nil
			}
			a.rep.Plain(fmt.Sprintf(MsgCompilerFound, cl))
			return nil
		},
	}
}

func newConfigCmd(g *globalFlags) *cobra.Command {
	return &cobra.Command{
		Use:     "config",
		Short:   MsgConfigShort,
		Long:    MsgConfigLong,
		GroupID: "misc",
		Args:    cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := g.loadConfig(cmd)
			if err != nil {
				return err
			}
			data, err := cfg.TOML()
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			if cfg.File() != "" {
				fmt.Fprintf(out, MsgConfigFile, cfg.File())
			}
			_, err = out.Write(data)
			return err
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
			fmt.Fprintf(cmd.OutOrStdout(), MsgVersionFormat, version.Version, version.Commit, version.Date)
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
