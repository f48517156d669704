package src

import (
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
)

const continuationSuffix = "_temp"

type WriteStatus string

const (
	StatusCreated  WriteStatus = "created"
	StatusAppended WriteStatus = "appended"
	StatusRejected WriteStatus = "rejected"
	StatusFailed   WriteStatus = "failed"
)

// WriteResult reports what happened to one artifact.
type WriteResult struct {
	Artifact
	Abs    string
	Status WriteStatus
	Err    error
	Diff   string
}

func (r WriteResult) Message() string {
	switch r.Status {
	case StatusCreated:
		return fmt.Sprintf("Saved code to %s", r.Path)
	case StatusAppended:
		if IsContinuation(r.Path) {
			return fmt.Sprintf("Appended code to temporary file: %s", r.Path)
		}
		return fmt.Sprintf("Appended code to %s", r.Path)
	case StatusRejected:
		return fmt.Sprintf("Skipped %s: %v", r.Path, r.Err)
	default:
		return fmt.Sprintf("Failed to write %s: %v", r.Path, r.Err)
	}
}

// IsContinuation reports whether name carries the continuation suffix.
func IsContinuation(name string) bool {
	base := filepath.Base(name)
	base = strings.TrimSuffix(base, filepath.Ext(base))
	return strings.Contains(base, continuationSuffix)
}

// Writer applies extracted artifacts to a workspace.
//
// Every artifact is appended to its target, including the first write of a
// file, so a file produced over several steps accumulates content.
type Writer struct {
	tracker *ChangeTracker
	logger  *slog.Logger

	// Diffs controls whether each result carries a unified diff.
	Diffs bool
}

func NewWriter(tracker *ChangeTracker, logger *slog.Logger) *Writer {
	if tracker == nil {
		tracker = NewChangeTracker()
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Writer{tracker: tracker, logger: logger, Diffs: true}
}

func (w *Writer) Write(ws *Workspace, artifacts []Artifact) []WriteResult {
	turn := w.tracker.BeginTurn()
	results := make([]WriteResult, 0, len(artifacts))
	for _, a := range artifacts {
		res := w.writeOne(ws, a)
		switch res.Status {
		case StatusRejected:
			w.logger.Warn("artifact rejected", "turn", turn, "path", a.Path, "error", res.Err)
		case StatusFailed:
			w.logger.Error("artifact write failed", "turn", turn, "path", a.Path, "error", res.Err)
		default:
			w.logger.Info("artifact written", "turn", turn, "path", res.Path, "status", res.Status, "bytes", len(a.Content), "continuation", IsContinuation(res.Path))
		}
		results = append(results, res)
	}
	return results
}

func (w *Writer) writeOne(ws *Workspace, a Artifact) WriteResult {
	abs, rel, err := ws.Resolve(a.Path)
	if err != nil {
		return WriteResult{Artifact: a, Status: StatusRejected, Err: err}
	}
	res := WriteResult{Artifact: Artifact{Path: rel, Content: a.Content}, Abs: abs}

	old, err := os.ReadFile(abs)
	switch {
	case err == nil:
		res.Status = StatusAppended
	case errors.Is(err, fs.ErrNotExist):
		res.Status = StatusCreated
	default:
		res.Status, res.Err = StatusFailed, err
		return res
	}

	if err := os.MkdirAll(filepath.Dir(abs), 0o755); err != nil {
		res.Status, res.Err = StatusFailed, fmt.Errorf("create parent dirs: %w", err)
		return res
	}
	f, err := os.OpenFile(abs, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0o644)
	if err != nil {
		res.Status, res.Err = StatusFailed, err
		return res
	}
	_, werr := f.WriteString(a.Content)
	cerr := f.Close()
	if err := errors.Join(werr, cerr); err != nil {
		res.Status, res.Err = StatusFailed, err
		return res
	}

	if w.Diffs {
		res.Diff = w.tracker.Diff(rel, old, append(old, a.Content...))
	}
	return res
}
