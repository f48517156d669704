// path: src/codeblocks.go
package src

import (
	"errors"
	"fmt"
	"path"
	"regexp"
	"strings"
)

// Artifact is a file body extracted from a model response.
type Artifact struct {
	Path    string `json:"path"`
	Content string `json:"content"`
}

var (
	ErrPathEscape   = errors.New("path escapes the workspace")
	ErrNoCodeBlocks = errors.New("no code blocks found in the response")
)

var (
	fenceRe    = regexp.MustCompile("(?s)```(?:\\w*\\n)?(.*?)```")
	filenameRe = regexp.MustCompile(`Filename:\s*(.+)`)
)

// ExtractArtifacts pairs the i-th fenced block with the i-th `Filename:` line.
// Blocks without a matching name are called file_<i>.py (1-based). Paths are
// returned as written; NormalizeArtifactPath decides whether they are usable.
func ExtractArtifacts(response string) []Artifact {
	blocks := fenceRe.FindAllStringSubmatch(response, -1)
	if len(blocks) == 0 {
		return nil
	}
	names := extractFilenames(response)

	out := make([]Artifact, 0, len(blocks))
	for i, b := range blocks {
		name := fmt.Sprintf("file_%d.py", i+1)
		if i < len(names) && names[i] != "" {
			name = names[i]
		}
		out = append(out, Artifact{Path: name, Content: b[1]})
	}
	return out
}

func extractFilenames(response string) []string {
	var names []string
	for _, m := range filenameRe.FindAllStringSubmatch(response, -1) {
		names = append(names, strings.Trim(strings.TrimSpace(m[1]), "`*\"' "))
	}
	return names
}

// NormalizeArtifactPath cleans p to a slash-separated path relative to the
// workspace root. Paths that resolve to the root itself or above it return
// ErrPathEscape.
func NormalizeArtifactPath(p string) (string, error) {
	p = strings.TrimSpace(strings.ReplaceAll(p, `\`, "/"))
	if p == "" {
		return "", fmt.Errorf("%w: empty path", ErrPathEscape)
	}
	clean := path.Clean(p)
	if clean == ".." || strings.HasPrefix(clean, "../") {
		return "", fmt.Errorf("%w: %q", ErrPathEscape, p)
	}
	// absolute names are taken relative to the workspace root
	clean = strings.TrimLeft(clean, "/")
	if clean == "" || clean == "." {
		return "", fmt.Errorf("%w: %q", ErrPathEscape, p)
	}
	return clean, nil
}
