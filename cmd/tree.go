package cmd

import (
	"fmt"

	"androidsnap/pkg/logging"
	"androidsnap/pkg/scanner"

	"github.com/spf13/cobra"
)

// treeCmd previews the snapshot content without writing it.
var treeCmd = &cobra.Command{
	Use:   "tree",
	Short: "Print the files a snapshot would contain as a tree",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := resolveConfig()
		if err != nil {
			return err
		}
		s, err := scanner.NewProjectScanner(cfg, logging.Logger)
		if err != nil {
			return err
		}
		return printTree(cmd, s)
	},
}

func printTree(cmd *cobra.Command, s *scanner.Scanner) error {
	var paths []string
	stats, err := s.Scan(func(sec scanner.Section) error {
		paths = append(paths, sec.DisplayPath)
		return nil
	})
	if err != nil {
		return err
	}
	w := cmd.OutOrStdout()
	fmt.Fprint(w, scanner.RenderTree(s.Root(), paths))
	fmt.Fprintf(w, "\n%d files, %d directories pruned\n", stats.Included, stats.Pruned)
	return nil
}

func init() {
	RootCmd.AddCommand(treeCmd)
}
