package gitrepo

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fixtureRepo lays out a small project tree under a temp dir.
func fixtureRepo(t *testing.T) string {
	t.Helper()
	root := t.TempDir()

	files := map[string]string{
		"main.go":              "package main\n",
		"README.md":            "# demo\n",
		".env":                 "SECRET=1\n",
		"cmd/root.go":          "package cmd\n",
		"internal/deep/a.go":   "package deep\n",
		".git/config":          "[core]\n",
		"node_modules/x/x.js":  "module.exports = 1\n",
		"__pycache__/mod.pyc":  "\x00",
		"internal/deep/sub/b":  "bytes\n",
	}
	for path, content := range files {
		full := filepath.Join(root, path)
		require.NoError(t, os.MkdirAll(filepath.Dir(full), 0o755))
		require.NoError(t, os.WriteFile(full, []byte(content), 0o644))
	}
	return root
}

func childNames(n *Node) []string {
	names := make([]string, 0, len(n.Children))
	for _, c := range n.Children {
		names = append(names, c.Name)
	}
	return names
}

func findChild(n *Node, name string) *Node {
	for _, c := range n.Children {
		if c.Name == name {
			return c
		}
	}
	return nil
}

func TestBuildTreeSkipsNoise(t *testing.T) {
	root := fixtureRepo(t)

	tree, err := BuildTree(root, TreeOptions{})
	require.NoError(t, err)

	names := childNames(tree)
	assert.NotContains(t, names, ".git")
	assert.NotContains(t, names, "node_modules")
	assert.NotContains(t, names, "__pycache__")
	assert.NotContains(t, names, ".env")
	assert.Contains(t, names, "main.go")
	assert.Contains(t, names, "cmd")
}

func TestBuildTreeShowHidden(t *testing.T) {
	root := fixtureRepo(t)

	tree, err := BuildTree(root, TreeOptions{ShowHidden: true})
	require.NoError(t, err)

	names := childNames(tree)
	assert.Contains(t, names, ".env")
	// Skip-listed directories stay hidden even with dotfiles shown.
	assert.NotContains(t, names, ".git")
	assert.NotContains(t, names, "node_modules")
}

func TestBuildTreeDepthLimit(t *testing.T) {
	root := fixtureRepo(t)

	tree, err := BuildTree(root, TreeOptions{MaxDepth: 2})
	require.NoError(t, err)

	internal := findChild(tree, "internal")
	require.NotNil(t, internal)
	deep := findChild(internal, "deep")
	require.NotNil(t, deep)
	assert.Empty(t, deep.Children, "depth 2 must not descend into internal/deep")
}

func TestBuildTreeOrdering(t *testing.T) {
	root := fixtureRepo(t)

	tree, err := BuildTree(root, TreeOptions{})
	require.NoError(t, err)

	names := childNames(tree)
	// Directories first, alphabetically, then files alphabetically.
	assert.Equal(t, []string{"cmd", "internal", "main.go", "README.md"}, names)
}

func TestBuildTreeSizePastDepthLimit(t *testing.T) {
	root := fixtureRepo(t)

	full, err := BuildTree(root, TreeOptions{MaxDepth: 10})
	require.NoError(t, err)
	shallow, err := BuildTree(root, TreeOptions{MaxDepth: 1})
	require.NoError(t, err)

	assert.Equal(t, full.Size, shallow.Size,
		"total size must not shrink when the display depth does")

	internal := findChild(shallow, "internal")
	require.NotNil(t, internal)
	assert.Empty(t, internal.Children)
	assert.Positive(t, internal.Size, "truncated directories still report their size")
}

func TestBuildTreeNotADirectory(t *testing.T) {
	path := filepath.Join(t.TempDir(), "file.txt")
	require.NoError(t, os.WriteFile(path, []byte("x"), 0o644))

	_, err := BuildTree(path, TreeOptions{})
	assert.Error(t, err)
}

func TestSummary(t *testing.T) {
	root := fixtureRepo(t)

	tree, err := BuildTree(root, TreeOptions{MaxDepth: 5})
	require.NoError(t, err)

	files, dirs := tree.Summary()
	// main.go, README.md, cmd/root.go, internal/deep/a.go,
	// internal/deep/sub/b over cmd, internal, deep, sub.
	assert.Equal(t, 5, files)
	assert.Equal(t, 4, dirs)
}

func TestRender(t *testing.T) {
	root := fixtureRepo(t)

	tree, err := BuildTree(root, TreeOptions{})
	require.NoError(t, err)

	out := tree.Render()
	assert.Contains(t, out, "main.go")
	assert.Contains(t, out, "└── ")
	assert.Contains(t, out, "├── ")
}

func TestHumanSize(t *testing.T) {
	tests := []struct {
		size int64
		want string
	}{
		{0, "0.0 B"},
		{512, "512.0 B"},
		{1024, "1.0 KB"},
		{1536, "1.5 KB"},
		{1 << 20, "1.0 MB"},
		{1 << 30, "1.0 GB"},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, HumanSize(tt.size))
	}
}
