package gitrepo

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"
)

const githubAPIBaseURL = "https://api.github.com"

// RepoInfo is the subset of the GitHub repository resource shown by
// the analyze command.
type RepoInfo struct {
	Name          string   `json:"name"`
	FullName      string   `json:"full_name"`
	Description   string   `json:"description"`
	HTMLURL       string   `json:"html_url"`
	Stars         int      `json:"stargazers_count"`
	Forks         int      `json:"forks_count"`
	Watchers      int      `json:"watchers_count"`
	Language      string   `json:"language"`
	Topics        []string `json:"topics"`
	OpenIssues    int      `json:"open_issues_count"`
	DefaultBranch string   `json:"default_branch"`
	Archived      bool     `json:"archived"`
	SizeKB        int      `json:"size"`
}

// GitHubClient talks to the GitHub REST API. The token is optional;
// without one, requests count against the unauthenticated rate limit.
type GitHubClient struct {
	baseURL    string
	token      string
	httpClient *http.Client
}

// NewGitHubClient creates a client with an optional API token.
func NewGitHubClient(token string) *GitHubClient {
	return &GitHubClient{
		baseURL:    githubAPIBaseURL,
		token:      token,
		httpClient: &http.Client{Timeout: 15 * time.Second},
	}
}

// WithBaseURL overrides the API base URL, for tests.
func (c *GitHubClient) WithBaseURL(baseURL string) *GitHubClient {
	c.baseURL = baseURL
	return c
}

// RepoInfo fetches repository metadata for ref, which may be an
// "owner/repo" shorthand or a github.com URL.
func (c *GitHubClient) RepoInfo(ctx context.Context, ref string) (*RepoInfo, error) {
	fullName, err := parseRepoRef(ref)
	if err != nil {
		return nil, err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet,
		c.baseURL+"/repos/"+fullName, nil)
	if err != nil {
		return nil, fmt.Errorf("github: create request: %w", err)
	}
	req.Header.Set("Accept", "application/vnd.github+json")
	if c.token != "" {
		req.Header.Set("Authorization", "Bearer "+c.token)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("github: request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return nil, fmt.Errorf("github: %s: status %d: %s", fullName, resp.StatusCode, strings.TrimSpace(string(body)))
	}

	var info RepoInfo
	if err := json.NewDecoder(resp.Body).Decode(&info); err != nil {
		return nil, fmt.Errorf("github: decode response: %w", err)
	}
	return &info, nil
}

// parseRepoRef extracts "owner/repo" from a shorthand or URL.
func parseRepoRef(ref string) (string, error) {
	ref = strings.TrimSuffix(strings.TrimRight(ref, "/"), ".git")
	if idx := strings.Index(ref, "github.com"); idx >= 0 {
		ref = strings.TrimPrefix(ref[idx+len("github.com"):], "/")
		ref = strings.TrimPrefix(ref, ":") // git@github.com:owner/repo
	}
	parts := strings.Split(ref, "/")
	if len(parts) != 2 || parts[0] == "" || parts[1] == "" {
		return "", fmt.Errorf("github: invalid repository reference %q", ref)
	}
	return parts[0] + "/" + parts[1], nil
}
