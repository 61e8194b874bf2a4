package modstack

import (
	"fmt"
	"os"

	"github.com/arthur-debert/modstack/internal/version"
	"github.com/arthur-debert/modstack/pkg/commands"
	"github.com/arthur-debert/modstack/pkg/config"
	"github.com/arthur-debert/modstack/pkg/filesystem"
	"github.com/arthur-debert/modstack/pkg/loadorder"
	"github.com/arthur-debert/modstack/pkg/logging"
	"github.com/arthur-debert/modstack/pkg/style"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"
)

// globalOptions holds the persistent flags shared by every command
type globalOptions struct {
	verbosity  int
	configFile string
	target     string
	packages   string
	noColor    bool
}

// NewRootCmd creates and returns the root command
func NewRootCmd() *cobra.Command {
	// Initialize custom template formatting functions
	initTemplateFormatting()

	opts := &globalOptions{}

	rootCmd := &cobra.Command{
		Use:     "modstack",
		Short:   MsgRootShort,
		Long:    MsgRootLong,
		Version: version.Version,
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			logging.Setup(logging.Options{
				Verbosity: opts.verbosity,
				Console:   cmd.ErrOrStderr(),
				NoColor:   opts.noColor || !style.IsTerminal(os.Stderr),
			})
			log.Debug().Str("command", cmd.Name()).Msg("Command started")
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			_ = cmd.Help()
			return fmt.Errorf("no command specified")
		},
		SilenceUsage:      true,
		SilenceErrors:     true,
		DisableAutoGenTag: true,
	}

	// Global flags
	rootCmd.PersistentFlags().CountVarP(&opts.verbosity, "verbose", "v", MsgFlagVerbose)
	rootCmd.PersistentFlags().StringVarP(&opts.configFile, "config", "c", "", MsgFlagConfig)
	rootCmd.PersistentFlags().StringVarP(&opts.target, "target", "t", "", MsgFlagTarget)
	rootCmd.PersistentFlags().StringVarP(&opts.packages, "packages", "p", "", MsgFlagPackages)
	rootCmd.PersistentFlags().BoolVar(&opts.noColor, "no-color", false, MsgFlagNoColor)

	rootCmd.AddGroup(&cobra.Group{
		ID:    "core",
		Title: "COMMANDS:",
	})
	rootCmd.AddGroup(&cobra.Group{
		ID:    "packages",
		Title: "PACKAGES:",
	})
	rootCmd.AddGroup(&cobra.Group{
		ID:    "misc",
		Title: "MISC:",
	})

	rootCmd.SetUsageTemplate(MsgUsageTemplate)

	rootCmd.AddCommand(newDeployCmd(opts))
	rootCmd.AddCommand(newRestoreCmd(opts))
	rootCmd.AddCommand(newReloadCmd(opts))
	rootCmd.AddCommand(newStatusCmd(opts))
	rootCmd.AddCommand(newConflictsCmd(opts))
	rootCmd.AddCommand(newWatchCmd(opts))
	rootCmd.AddCommand(newOrderCmd(opts))
	rootCmd.AddCommand(newInstallCmd(opts))
	rootCmd.AddCommand(newRemoveCmd(opts))
	rootCmd.AddCommand(newRenameCmd(opts))
	rootCmd.AddCommand(newConfigCmd(opts))
	rootCmd.AddCommand(newVersionCmd())
	rootCmd.AddCommand(newCompletionCmd())
	rootCmd.AddCommand(newManCmd())

	return rootCmd
}

// loadConfig layers the flag overrides on top of the config file and env
func (o *globalOptions) loadConfig() (*config.Config, error) {
	overrides := make(map[string]interface{})
	if o.target != "" {
		overrides["paths.target"] = o.target
	}
	if o.packages != "" {
		overrides["paths.packages"] = o.packages
	}
	return config.Load(config.LoadOptions{
		ConfigFile: o.configFile,
		Overrides:  overrides,
	})
}

// app loads the configuration and builds the engines
func (o *globalOptions) app() (*commands.App, error) {
	cfg, err := o.loadConfig()
	if err != nil {
		return nil, err
	}
	return commands.New(commands.Options{Config: cfg})
}

// renderer picks colours only when the command writes to a terminal
func (o *globalOptions) renderer(cmd *cobra.Command) *style.Renderer {
	format := style.FormatText
	if f, ok := cmd.OutOrStdout().(*os.File); ok && !o.noColor {
		format = style.DetectFormat(f)
	}
	return style.NewRenderer(format)
}

// printOut writes one block of output followed by a newline
func printOut(cmd *cobra.Command, s string) {
	_, _ = fmt.Fprintln(cmd.OutOrStdout(), s)
}

// packageNamesCompletion completes package directory names
func (o *globalOptions) packageNamesCompletion(cmd *cobra.Command, args []string, toComplete string) ([]string, cobra.ShellCompDirective) {
	cfg, err := o.loadConfig()
	if err != nil {
		return nil, cobra.ShellCompDirectiveError
	}
	names, err := loadorder.ListPackages(filesystem.NewOS(), cfg.Paths.Packages)
	if err != nil {
		return nil, cobra.ShellCompDirectiveError
	}

	// Filter out already selected packages
	selected := make(map[string]bool, len(args))
	for _, a := range args {
		selected[a] = true
	}
	var available []string
	for _, name := range names {
		if !selected[name] {
			available = append(available, name)
		}
	}
	return available, cobra.ShellCompDirectiveNoFileComp
}
