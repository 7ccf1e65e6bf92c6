package cmd

import (
	"fmt"

	"androidsnap/pkg/clipboard"
	"androidsnap/pkg/logging"
	"androidsnap/pkg/scanner"
	"androidsnap/pkg/version"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

var (
	cfgFile     string
	excludeDirs []string
	ignores     []string
)

// RootCmd runs a snapshot when called without any subcommands.
var RootCmd = &cobra.Command{
	Use:   appName,
	Short: "Snapshot an Android project into a single text file",
	Long: `androidsnap walks an Android project and concatenates its Kotlin and Java sources,
Gradle configuration, manifest and resource XML into one text file, ready to paste
into a chat or review tool. The file is copied to the clipboard when possible.`,
	Args:          cobra.NoArgs,
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		if err := readConfig(settings, cfgFile); err != nil {
			return err
		}
		if settings.GetBool("debug") {
			if _, err := logging.Setup(true, appName, version.Version); err != nil {
				return fmt.Errorf("setup logging: %w", err)
			}
		}
		if used := settings.ConfigFileUsed(); used != "" {
			logging.Logger.Debug("Using config file", zap.String("file", used))
		}
		return nil
	},
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := resolveConfig()
		if err != nil {
			return err
		}

		result, err := scanner.Run(cfg, logging.Logger)
		if err != nil {
			return err
		}

		status := clipboardSkipped
		if settings.GetBool("clipboard") {
			status = clipboardFailed
			if clipboard.PublishFile(clipboard.System(), result.Output, logging.Logger) {
				status = clipboardCopied
			}
		}
		printSummary(cmd.OutOrStdout(), result, status)
		return nil
	},
}

// resolveConfig decodes the merged settings and appends the additive flags.
func resolveConfig() (scanner.Config, error) {
	cfg, err := loadConfig(settings)
	if err != nil {
		return cfg, err
	}
	cfg.ExcludeDirs = append(cfg.ExcludeDirs, excludeDirs...)
	cfg.Ignore = append(cfg.Ignore, ignores...)
	return cfg, nil
}

// Execute runs the command tree. main reports the returned error.
func Execute() error {
	return RootCmd.Execute()
}

func init() {
	registerDefaults(settings, platformDefaults())

	flags := RootCmd.PersistentFlags()
	flags.StringVar(&cfgFile, "config", "", "config file (default: ./androidsnap.{yaml,json,toml}, then $XDG_CONFIG_HOME/androidsnap/)")
	flags.StringP("project", "p", "", "Android project directory")
	flags.Bool("debug", false, "enable debug logging")
	flags.StringSliceVar(&excludeDirs, "exclude-dir", nil, "additional directory name to skip (repeatable)")
	flags.StringSliceVar(&ignores, "ignore", nil, "additional gitignore-style pattern to skip (repeatable)")
	flags.StringSlice("values-dir", nil, "values directories whose strings.xml is kept (replaces the default list)")

	RootCmd.Flags().StringP("output", "o", "", "output file (default code.txt)")
	RootCmd.Flags().Bool("clipboard", true, "copy the output to the clipboard")

	_ = settings.BindPFlag("project", flags.Lookup("project"))
	_ = settings.BindPFlag("debug", flags.Lookup("debug"))
	_ = settings.BindPFlag("values_dirs", flags.Lookup("values-dir"))
	_ = settings.BindPFlag("output", RootCmd.Flags().Lookup("output"))
	_ = settings.BindPFlag("clipboard", RootCmd.Flags().Lookup("clipboard"))
}
