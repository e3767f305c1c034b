package cmd

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/onceagainarise/repo-surfer/gitrepo"
)

func cloneCmd() *cobra.Command {
	var outputDir string
	var yes bool

	cmd := &cobra.Command{
		Use:   "clone [repo-url]",
		Short: "Clone a GitHub repository",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if _, err := loadApp(); err != nil {
				return err
			}

			url := gitrepo.NormalizeRemote(args[0])
			dest := filepath.Join(outputDir, gitrepo.RepoName(url))

			if entries, err := os.ReadDir(dest); err == nil && len(entries) > 0 {
				if !yes && !confirm(fmt.Sprintf("Directory %q is not empty. Continue anyway?", dest)) {
					return fmt.Errorf("aborted")
				}
			}

			fmt.Printf("Cloning %s to %s\n", url, dest)
			result, err := gitrepo.Clone(cmd.Context(), url, dest, gitrepo.CloneOptions{})
			if err != nil {
				return err
			}

			fmt.Printf("Cloned to %s (branch %s, commit %s)\n", result.Path, result.Branch, shortCommit(result.Commit))
			fmt.Println("\nNext steps:")
			fmt.Printf("  1. cd %s\n", result.Path)
			fmt.Println("  2. repo-surfer analyze .")
			return nil
		},
	}

	cmd.Flags().StringVarP(&outputDir, "output-dir", "o", ".", "output directory for the cloned repository")
	cmd.Flags().BoolVar(&yes, "yes", false, "skip the non-empty directory confirmation")
	return cmd
}

func shortCommit(commit string) string {
	if len(commit) > 8 {
		return commit[:8]
	}
	return commit
}
