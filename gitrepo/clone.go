package gitrepo

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// CloneOptions configures a clone.
type CloneOptions struct {
	// Shallow clones with --depth 1, enough for analysis.
	Shallow bool
}

// CloneResult describes a completed clone.
type CloneResult struct {
	Path   string
	Branch string
	Commit string
}

// Clone clones url into dest, creating dest's parent directories as
// needed.
func Clone(ctx context.Context, url, dest string, opts CloneOptions) (*CloneResult, error) {
	dest, err := filepath.Abs(dest)
	if err != nil {
		return nil, fmt.Errorf("clone: resolve dest: %w", err)
	}
	if err := os.MkdirAll(filepath.Dir(dest), 0o755); err != nil {
		return nil, fmt.Errorf("clone: create parent dir: %w", err)
	}

	args := []string{"clone"}
	if opts.Shallow {
		args = append(args, "--depth", "1")
	}
	args = append(args, url, dest)

	if _, err := git(ctx, "", args...); err != nil {
		return nil, fmt.Errorf("clone %s: %w", url, err)
	}

	result := &CloneResult{Path: dest}
	if branch, err := git(ctx, dest, "rev-parse", "--abbrev-ref", "HEAD"); err == nil {
		result.Branch = branch
	}
	if commit, err := git(ctx, dest, "rev-parse", "HEAD"); err == nil {
		result.Commit = commit
	}
	return result, nil
}

// CloneTemp shallow-clones url into a fresh temporary directory and
// returns the checkout path. The caller owns cleanup.
func CloneTemp(ctx context.Context, url string) (*CloneResult, error) {
	tempDir, err := os.MkdirTemp("", "repo-surfer-")
	if err != nil {
		return nil, fmt.Errorf("clone: temp dir: %w", err)
	}

	name := strings.TrimSuffix(filepath.Base(url), ".git")
	result, err := Clone(ctx, url, filepath.Join(tempDir, name), CloneOptions{Shallow: true})
	if err != nil {
		os.RemoveAll(tempDir)
		return nil, err
	}
	return result, nil
}

// RepoName extracts the repository name from a clone URL or shorthand.
func RepoName(ref string) string {
	ref = strings.TrimSuffix(strings.TrimRight(ref, "/"), ".git")
	if idx := strings.LastIndexAny(ref, "/:"); idx >= 0 {
		return ref[idx+1:]
	}
	return ref
}
