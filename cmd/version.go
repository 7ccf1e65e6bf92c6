package cmd

import (
	"fmt"

	"androidsnap/pkg/version"

	"github.com/spf13/cobra"
)

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print build information",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		short, err := cmd.Flags().GetBool("short")
		if err != nil {
			return fmt.Errorf("error reading flags: %w", err)
		}
		info := version.Get()
		out := info.String()
		if short {
			out = info.Version
		}
		fmt.Fprintln(cmd.OutOrStdout(), out)
		return nil
	},
}

func init() {
	versionCmd.Flags().BoolP("short", "s", false, "print the version number only")
	RootCmd.AddCommand(versionCmd)
}
