package cmd

import (
	"fmt"

	"androidsnap/pkg/logging"
	"androidsnap/pkg/scanner"

	"github.com/spf13/cobra"
)

// classifyCmd explains the selection without writing a snapshot.
var classifyCmd = &cobra.Command{
	Use:   "classify <path>...",
	Short: "Show whether files would be part of the snapshot",
	Long: `Print the decision and the deciding rule for each path. Relative paths are
taken from the project root.`,
	Args: cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := resolveConfig()
		if err != nil {
			return err
		}
		s, err := scanner.NewProjectScanner(cfg, logging.Logger)
		if err != nil {
			return err
		}
		return classifyPaths(cmd, s, args)
	},
}

func classifyPaths(cmd *cobra.Command, s *scanner.Scanner, args []string) error {
	w := cmd.OutOrStdout()
	for _, arg := range args {
		rel, err := s.RelPath(arg)
		if err != nil {
			return err
		}
		v := s.Classify(rel)
		fmt.Fprintf(w, "%-7s  %-17s  %s\n", v.Decision, v.Stage, rel)
	}
	return nil
}

func init() {
	RootCmd.AddCommand(classifyCmd)
}
