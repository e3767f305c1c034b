package gitrepo

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/charmbracelet/lipgloss"
)

// TreeOptions configures tree building.
type TreeOptions struct {
	// MaxDepth limits directory recursion. 0 means the default of 3.
	MaxDepth int

	// ShowHidden includes dotfiles and dot-directories.
	ShowHidden bool
}

// Node is one entry in a repository tree. Directory sizes aggregate
// every visible descendant, including ones past the depth limit that
// get no node of their own.
type Node struct {
	Name     string
	Path     string
	Dir      bool
	Size     int64
	Children []*Node
}

// skipNames are directories that are never worth showing.
var skipNames = map[string]bool{
	".git":         true,
	".github":      true,
	".idea":        true,
	"__pycache__":  true,
	"node_modules": true,
	"venv":         true,
	"env":          true,
}

// BuildTree walks root up to the configured depth and returns the
// resulting tree. Unreadable directories become leaf nodes instead of
// aborting the walk.
func BuildTree(root string, opts TreeOptions) (*Node, error) {
	if opts.MaxDepth <= 0 {
		opts.MaxDepth = 3
	}

	abs, err := filepath.Abs(root)
	if err != nil {
		return nil, fmt.Errorf("tree: resolve path: %w", err)
	}
	info, err := os.Stat(abs)
	if err != nil {
		return nil, fmt.Errorf("tree: %w", err)
	}
	if !info.IsDir() {
		return nil, fmt.Errorf("tree: %s is not a directory", root)
	}

	node := &Node{Name: filepath.Base(abs), Path: abs, Dir: true}
	buildChildren(node, opts, 0)
	return node, nil
}

func buildChildren(parent *Node, opts TreeOptions, depth int) {
	if depth >= opts.MaxDepth {
		// Below the display cutoff: no child nodes, but the size must
		// still count what lives down there.
		parent.Size = deepSize(parent.Path, opts.ShowHidden)
		return
	}

	entries, err := os.ReadDir(parent.Path)
	if err != nil {
		return
	}

	// Directories first, then files, each alphabetically.
	sort.Slice(entries, func(i, j int) bool {
		if entries[i].IsDir() != entries[j].IsDir() {
			return entries[i].IsDir()
		}
		return strings.ToLower(entries[i].Name()) < strings.ToLower(entries[j].Name())
	})

	for _, entry := range entries {
		name := entry.Name()
		if skip(name, opts.ShowHidden) {
			continue
		}

		child := &Node{
			Name: name,
			Path: filepath.Join(parent.Path, name),
			Dir:  entry.IsDir(),
		}
		if entry.IsDir() {
			buildChildren(child, opts, depth+1)
		} else if info, err := entry.Info(); err == nil {
			child.Size = info.Size()
		}
		parent.Size += child.Size
		parent.Children = append(parent.Children, child)
	}
}

// deepSize totals the file sizes under dir, honoring the same skip
// rules as the tree walk.
func deepSize(dir string, showHidden bool) int64 {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return 0
	}

	var total int64
	for _, entry := range entries {
		if skip(entry.Name(), showHidden) {
			continue
		}
		if entry.IsDir() {
			total += deepSize(filepath.Join(dir, entry.Name()), showHidden)
		} else if info, err := entry.Info(); err == nil {
			total += info.Size()
		}
	}
	return total
}

func skip(name string, showHidden bool) bool {
	if !showHidden && strings.HasPrefix(name, ".") {
		return true
	}
	return skipNames[name]
}

// Summary counts the visible files and directories under the node.
func (n *Node) Summary() (files, dirs int) {
	for _, child := range n.Children {
		if child.Dir {
			dirs++
			f, d := child.Summary()
			files += f
			dirs += d
		} else {
			files++
		}
	}
	return files, dirs
}

var (
	dirStyle  = lipgloss.NewStyle().Bold(true)
	sizeStyle = lipgloss.NewStyle().Faint(true)
)

// Render formats the tree with box-drawing connectors and styled
// names and sizes.
func (n *Node) Render() string {
	var sb strings.Builder
	sb.WriteString(dirStyle.Render(n.Name+"/") + "\n")
	renderChildren(&sb, n, "")
	return sb.String()
}

func renderChildren(sb *strings.Builder, parent *Node, prefix string) {
	for i, child := range parent.Children {
		connector, childPrefix := "├── ", prefix+"│   "
		if i == len(parent.Children)-1 {
			connector, childPrefix = "└── ", prefix+"    "
		}

		sb.WriteString(prefix + connector)
		if child.Dir {
			sb.WriteString(dirStyle.Render(child.Name + "/"))
		} else {
			sb.WriteString(child.Name + " " + sizeStyle.Render("("+HumanSize(child.Size)+")"))
		}
		sb.WriteString("\n")
		renderChildren(sb, child, childPrefix)
	}
}

// HumanSize formats a byte count with binary units.
func HumanSize(size int64) string {
	value := float64(size)
	for _, unit := range []string{"B", "KB", "MB", "GB"} {
		if value < 1024 {
			return fmt.Sprintf("%.1f %s", value, unit)
		}
		value /= 1024
	}
	return fmt.Sprintf("%.1f TB", value)
}
