package src

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"regexp"
	"sort"
	"strings"
)

const maxWorkspaceName = 50

var (
	ErrEmptyGoal = errors.New("goal cannot be empty")

	unsafeNameRe = regexp.MustCompile(`[^a-zA-Z0-9_\-]`)
)

// Workspace is the per-goal project directory. It owns every file the run
// writes and is never removed.
type Workspace struct {
	Root string
}

// SanitizeGoal maps goal to a directory name: every rune outside
// [A-Za-z0-9_-] becomes '_' and the result is cut to 50 characters.
func SanitizeGoal(goal string) string {
	name := unsafeNameRe.ReplaceAllString(goal, "_")
	if len(name) > maxWorkspaceName {
		name = name[:maxWorkspaceName]
	}
	return name
}

// CreateWorkspace creates (or reuses) the directory for goal under baseDir.
func CreateWorkspace(baseDir, goal string) (*Workspace, error) {
	if strings.TrimSpace(goal) == "" {
		return nil, ErrEmptyGoal
	}
	name := SanitizeGoal(goal)
	abs, err := filepath.Abs(filepath.Join(baseDir, name))
	if err != nil {
		return nil, fmt.Errorf("resolve workspace: %w", err)
	}
	if err := os.MkdirAll(abs, 0o755); err != nil {
		return nil, fmt.Errorf("create workspace: %w", err)
	}
	return &Workspace{Root: abs}, nil
}

func (w *Workspace) Name() string { return filepath.Base(w.Root) }

// Resolve maps a model-supplied relative path to an absolute path inside the
// root. It returns the cleaned relative form alongside.
func (w *Workspace) Resolve(rel string) (string, string, error) {
	clean, err := NormalizeArtifactPath(rel)
	if err != nil {
		return "", "", err
	}
	abs := filepath.Join(w.Root, filepath.FromSlash(clean))
	back, err := filepath.Rel(w.Root, abs)
	if err != nil || back == ".." || strings.HasPrefix(back, ".."+string(filepath.Separator)) {
		return "", "", fmt.Errorf("%w: %q", ErrPathEscape, rel)
	}
	return abs, clean, nil
}

type fileEntry struct {
	Rel  string
	Abs  string
	Size int64
}

// Files lists every regular file below the root, sorted by relative path.
func (w *Workspace) Files() ([]fileEntry, error) {
	var out []fileEntry
	err := filepath.WalkDir(w.Root, func(p string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if !d.Type().IsRegular() {
			return nil
		}
		info, err := d.Info()
		if err != nil {
			return err
		}
		rel, err := filepath.Rel(w.Root, p)
		if err != nil {
			return err
		}
		out = append(out, fileEntry{Rel: filepath.ToSlash(rel), Abs: p, Size: info.Size()})
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("list workspace files: %w", err)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Rel < out[j].Rel })
	return out, nil
}

// ContextBlock renders every workspace file with its content for inclusion
// in a model request. It returns "" for an empty workspace.
func (w *Workspace) ContextBlock() (string, int, int64, error) {
	files, err := w.Files()
	if err != nil {
		return "", 0, 0, err
	}
	if len(files) == 0 {
		return "", 0, 0, nil
	}

	var total int64
	var b strings.Builder
	b.WriteString("Here are the current files in the project:\n")
	for _, f := range files {
		data, err := os.ReadFile(f.Abs)
		if err != nil {
			return "", 0, 0, fmt.Errorf("read %s: %w", f.Rel, err)
		}
		total += int64(len(data))
		fmt.Fprintf(&b, "\nFilename: %s\nContent:\n```%s\n%s\n```\n", f.Rel, fenceLangFromExt(filepath.Ext(f.Rel)), data)
	}
	return b.String(), len(files), total, nil
}

// Tree draws the workspace file layout.
func (w *Workspace) Tree() string {
	files, err := w.Files()
	if err != nil {
		return ""
	}
	return buildTree(files)
}

func buildTree(files []fileEntry) string {
	type node struct {
		name     string
		children map[string]*node
		file     bool
	}
	root := &node{children: map[string]*node{}}
	for _, f := range files {
		cur := root
		parts := strings.Split(f.Rel, "/")
		for i, p := range parts {
			next, ok := cur.children[p]
			if !ok {
				next = &node{name: p, children: map[string]*node{}}
				cur.children[p] = next
			}
			cur = next
			if i == len(parts)-1 {
				cur.file = true
			}
		}
	}

	var lines []string
	var walk func(prefix string, n *node)
	walk = func(prefix string, n *node) {
		keys := make([]string, 0, len(n.children))
		for k := range n.children {
			keys = append(keys, k)
		}
		sort.Strings(keys)
		for i, k := range keys {
			child := n.children[k]
			marker, pad := "├── ", "│   "
			if i == len(keys)-1 {
				marker, pad = "└── ", "    "
			}
			line := prefix + marker + child.name
			if !child.file {
				line += "/"
			}
			lines = append(lines, line)
			walk(prefix+pad, child)
		}
	}
	walk("", root)
	return strings.Join(lines, "\n")
}

func fenceLangFromExt(ext string) string {
	switch strings.TrimPrefix(strings.ToLower(ext), ".") {
	case "go":
		return "go"
	case "py":
		return "python"
	case "js":
		return "javascript"
	case "ts", "tsx":
		return "ts"
	case "rs":
		return "rust"
	case "rb":
		return "ruby"
	case "java":
		return "java"
	case "c", "h":
		return "c"
	case "cpp", "hpp", "cc", "cxx":
		return "cpp"
	case "json":
		return "json"
	case "yaml", "yml":
		return "yaml"
	case "md":
		return "md"
	case "sh":
		return "bash"
	case "toml":
		return "toml"
	default:
		return ""
	}
}
