package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/onceagainarise/repo-surfer/gitrepo"
)

func structureCmd() *cobra.Command {
	var depth int
	var showHidden bool

	cmd := &cobra.Command{
		Use:   "structure [path]",
		Short: "Show repository structure with file statistics",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := loadApp()
			if err != nil {
				return err
			}

			root := args[0]
			if gitrepo.IsRepository(root) {
				if stats, err := gitrepo.Analyze(cmd.Context(), root); err == nil && stats.Remote != "" {
					fmt.Printf("Remote: %s\n", stats.Remote)
				}
			} else {
				a.log.Debug().Str("path", root).Msg("not a git repository, showing plain tree")
			}

			tree, err := gitrepo.BuildTree(root, gitrepo.TreeOptions{
				MaxDepth:   depth,
				ShowHidden: showHidden,
			})
			if err != nil {
				return err
			}

			fmt.Print(tree.Render())

			files, dirs := tree.Summary()
			fmt.Println("\nSummary:")
			fmt.Printf("  Files:       %d\n", files)
			fmt.Printf("  Directories: %d\n", dirs)
			fmt.Printf("  Total size:  %s\n", gitrepo.HumanSize(tree.Size))
			return nil
		},
	}

	cmd.Flags().IntVarP(&depth, "depth", "d", 3, "maximum depth to display")
	cmd.Flags().BoolVar(&showHidden, "show-hidden", false, "show hidden files and directories")
	return cmd
}
