package cmd

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/onceagainarise/repo-surfer/gitrepo"
)

func analyzeCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "analyze [repo]",
		Short: "Analyze a GitHub repository or local checkout",
		Long: `Analyze a GitHub repository or local directory.

Examples:
  repo-surfer analyze .                      Analyze the current directory
  repo-surfer analyze /path/to/repo          Analyze a local repository
  repo-surfer analyze user/repo              Analyze a GitHub repository
  repo-surfer analyze https://github.com/user/repo`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := loadApp()
			if err != nil {
				return err
			}
			return runAnalyze(cmd, a, args[0])
		},
	}
}

func runAnalyze(cmd *cobra.Command, a *app, ref string) error {
	ctx := cmd.Context()
	dir := ref

	if _, err := os.Stat(ref); err != nil {
		if !gitrepo.IsRemoteRef(ref) {
			return fmt.Errorf("invalid repository path or URL: %s", ref)
		}

		// Best effort: repository metadata from the GitHub API before
		// cloning for the local statistics.
		gh := gitrepo.NewGitHubClient(a.cfg.GitHubToken)
		if info, err := gh.RepoInfo(ctx, ref); err == nil {
			printRepoInfo(info)
		} else {
			a.log.Debug().Err(err).Msg("github api lookup failed")
		}

		url := gitrepo.NormalizeRemote(ref)
		fmt.Printf("Cloning %s...\n", url)
		result, err := gitrepo.CloneTemp(ctx, url)
		if err != nil {
			return err
		}
		defer os.RemoveAll(filepath.Dir(result.Path))
		dir = result.Path
	}

	stats, err := gitrepo.Analyze(ctx, dir)
	if err != nil {
		return err
	}

	fmt.Println("\nRepository Analysis")
	fmt.Printf("Location: %s\n", stats.Path)
	if stats.Remote != "" {
		fmt.Printf("Remote:   %s\n", stats.Remote)
	}
	fmt.Printf("Commits:  %d\n", stats.Commits)
	fmt.Printf("Files:    %d\n", stats.TrackedFiles)
	if len(stats.RecentCommits) > 0 {
		fmt.Println("\nRecent commits:")
		for _, commit := range stats.RecentCommits {
			fmt.Printf("  %s\n", commit)
		}
	}

	fmt.Println("\nNext steps:")
	fmt.Println("  1. repo-surfer structure . to explore the repository layout")
	fmt.Println("  2. repo-surfer explain <file> to understand specific files")
	return nil
}

func printRepoInfo(info *gitrepo.RepoInfo) {
	fmt.Printf("%s", info.FullName)
	if info.Description != "" {
		fmt.Printf(" — %s", info.Description)
	}
	fmt.Println()
	fmt.Printf("Stars: %d  Forks: %d  Open issues: %d", info.Stars, info.Forks, info.OpenIssues)
	if info.Language != "" {
		fmt.Printf("  Language: %s", info.Language)
	}
	fmt.Println()
}
