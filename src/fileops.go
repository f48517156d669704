package src

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"regexp"
	"strings"
)

var fileTargetRe = regexp.MustCompile(`(?i)\bfile\s+(\S+)`)

// TargetFilename returns the token following the word "file" in subtask, with
// its original case. "file" must stand alone, so "Makefile targets" names
// nothing. Surrounding quotes and trailing punctuation are dropped.
func TargetFilename(subtask string) (string, bool) {
	m := fileTargetRe.FindStringSubmatch(subtask)
	if m == nil {
		return "", false
	}
	name := strings.Trim(m[1], "`\"'")
	name = strings.TrimRight(name, ".,;:")
	name = strings.Trim(name, "`\"'")
	return name, name != ""
}

// FileOpHandler performs the simple file operations a subtask names. Writes
// are delegated to the model because the content has to come from it.
type FileOpHandler struct {
	ws     *Workspace
	writes Handler
	logger *slog.Logger
}

func NewFileOpHandler(ws *Workspace, writes Handler, logger *slog.Logger) *FileOpHandler {
	if logger == nil {
		logger = slog.Default()
	}
	return &FileOpHandler{ws: ws, writes: writes, logger: logger}
}

func (h *FileOpHandler) Handle(ctx context.Context, st Subtask) (string, error) {
	text := strings.ToLower(st.Text)
	name, named := TargetFilename(st.Text)

	switch {
	case strings.Contains(text, "delete"):
		if !named {
			return fmt.Sprintf("No filename found to delete in subtask: %s", st.Text), nil
		}
		return h.withPath(name, h.delete)
	case strings.Contains(text, "create"):
		if !named {
			return fmt.Sprintf("No filename found to create in subtask: %s", st.Text), nil
		}
		return h.withPath(name, h.create)
	case strings.Contains(text, "write"), strings.Contains(text, "append"):
		if h.writes == nil {
			return "", errors.New("no model handler configured for write operations")
		}
		h.logger.Debug("delegating write to model", "subtask", st.Index, "file", name)
		return h.writes.Handle(ctx, st)
	case strings.Contains(text, "read"):
		if !named {
			return fmt.Sprintf("No filename found to read in subtask: %s", st.Text), nil
		}
		return h.withPath(name, h.read)
	default:
		return fmt.Sprintf("File operation not recognized: %s", st.Text), nil
	}
}

func (h *FileOpHandler) withPath(name string, op func(abs, rel string) (string, error)) (string, error) {
	abs, rel, err := h.ws.Resolve(name)
	if err != nil {
		h.logger.Warn("file operation rejected", "file", name, "error", err)
		return fmt.Sprintf("Refused file operation on %s: %v", name, err), nil
	}
	return op(abs, rel)
}

func (h *FileOpHandler) delete(abs, rel string) (string, error) {
	if _, err := os.Stat(abs); errors.Is(err, fs.ErrNotExist) {
		return fmt.Sprintf("File %s does not exist.", rel), nil
	}
	if err := os.Remove(abs); err != nil {
		return "", fmt.Errorf("delete %s: %w", rel, err)
	}
	h.logger.Info("file deleted", "file", rel)
	return fmt.Sprintf("Deleted file: %s", rel), nil
}

func (h *FileOpHandler) create(abs, rel string) (string, error) {
	if err := os.MkdirAll(filepath.Dir(abs), 0o755); err != nil {
		return "", fmt.Errorf("create parent dirs for %s: %w", rel, err)
	}
	if err := os.WriteFile(abs, nil, 0o644); err != nil {
		return "", fmt.Errorf("create %s: %w", rel, err)
	}
	h.logger.Info("file created", "file", rel)
	return fmt.Sprintf("Created file: %s", rel), nil
}

func (h *FileOpHandler) read(abs, rel string) (string, error) {
	data, err := os.ReadFile(abs)
	if errors.Is(err, fs.ErrNotExist) {
		return fmt.Sprintf("File %s does not exist.", rel), nil
	}
	if err != nil {
		return "", fmt.Errorf("read %s: %w", rel, err)
	}
	return fmt.Sprintf("Content of %s:\n%s", rel, data), nil
}
