package gitrepo

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
)

// Stats summarizes a local repository checkout.
type Stats struct {
	Path          string
	Remote        string
	Commits       int
	TrackedFiles  int
	RecentCommits []string
}

// IsRepository reports whether dir is a git work tree.
func IsRepository(dir string) bool {
	info, err := os.Stat(filepath.Join(dir, ".git"))
	return err == nil && info.IsDir()
}

// Analyze collects summary statistics for the repository at dir.
// Individual probes failing (e.g. no remote configured) degrade to
// empty fields rather than failing the whole analysis.
func Analyze(ctx context.Context, dir string) (*Stats, error) {
	abs, err := filepath.Abs(dir)
	if err != nil {
		return nil, fmt.Errorf("analyze: resolve path: %w", err)
	}
	if !IsRepository(abs) {
		return nil, fmt.Errorf("analyze: %s is not a git repository", dir)
	}

	stats := &Stats{Path: abs}

	if remotes, err := git(ctx, abs, "remote", "-v"); err == nil && remotes != "" {
		first := strings.SplitN(remotes, "\n", 2)[0]
		fields := strings.Fields(first)
		if len(fields) >= 2 {
			stats.Remote = fields[1]
		}
	}

	if count, err := git(ctx, abs, "rev-list", "--count", "HEAD"); err == nil {
		stats.Commits, _ = strconv.Atoi(count)
	}

	if files, err := git(ctx, abs, "ls-files"); err == nil && files != "" {
		stats.TrackedFiles = len(strings.Split(files, "\n"))
	}

	if log, err := git(ctx, abs, "log", "--pretty=format:%h - %s (%cr) <%an>", "-n", "5"); err == nil && log != "" {
		stats.RecentCommits = strings.Split(log, "\n")
	}

	return stats, nil
}
