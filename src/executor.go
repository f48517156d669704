package src

import (
	"context"
	"fmt"
	"log/slog"
	"time"
)

// Handler carries out one subtask and returns a short outcome.
type Handler interface {
	Handle(ctx context.Context, st Subtask) (string, error)
}

type HandlerFunc func(ctx context.Context, st Subtask) (string, error)

func (f HandlerFunc) Handle(ctx context.Context, st Subtask) (string, error) { return f(ctx, st) }

// DirectHandler stands in for subtasks that need neither the model nor a file.
// It only waits and reports.
type DirectHandler struct {
	Delay time.Duration
}

func (h DirectHandler) Handle(ctx context.Context, st Subtask) (string, error) {
	if h.Delay > 0 {
		t := time.NewTimer(h.Delay)
		defer t.Stop()
		select {
		case <-ctx.Done():
			return "", ctx.Err()
		case <-t.C:
		}
	}
	return fmt.Sprintf("Executed subtask directly: %s", st.Text), nil
}

// LogEntry records one executed subtask. Entries are never changed once
// appended to the log.
type LogEntry struct {
	Index   int        `json:"index"`
	Subtask string     `json:"subtask"`
	Kind    ActionKind `json:"kind"`
	Outcome string     `json:"outcome,omitempty"`
	Err     error      `json:"-"`
}

func (e LogEntry) Failed() bool { return e.Err != nil }

// Lines renders the entry as the two-line execution log form.
func (e LogEntry) Lines() []string {
	head := fmt.Sprintf("Subtask %d: %s", e.Index, e.Subtask)
	if e.Failed() {
		return []string{head, fmt.Sprintf("Failed to execute subtask: %v", e.Err)}
	}
	return []string{head, "Result: " + e.Outcome}
}

// Observer is told about progress. Either func may be nil.
type Observer struct {
	Started  func(st Subtask, kind ActionKind, total int)
	Finished func(entry LogEntry, total int)
}

// Executor runs subtasks one at a time, in order.
type Executor struct {
	handlers map[ActionKind]Handler
	classify func(string) ActionKind
	observer Observer
	logger   *slog.Logger
}

func NewExecutor(handlers map[ActionKind]Handler, logger *slog.Logger) *Executor {
	if logger == nil {
		logger = slog.Default()
	}
	return &Executor{handlers: handlers, classify: Classify, logger: logger}
}

func (e *Executor) SetObserver(o Observer) { e.observer = o }

// Run executes every subtask and returns one log entry per subtask, in input
// order. A failing handler is recorded and the loop moves on. Once ctx is
// done the remaining subtasks are recorded as failed without running.
func (e *Executor) Run(ctx context.Context, subtasks []Subtask) []LogEntry {
	total := len(subtasks)
	log := make([]LogEntry, 0, total)
	for _, st := range subtasks {
		kind := e.classify(st.Text)
		entry := LogEntry{Index: st.Index, Subtask: st.Text, Kind: kind}

		if err := ctx.Err(); err != nil {
			entry.Err = err
		} else {
			if e.observer.Started != nil {
				e.observer.Started(st, kind, total)
			}
			e.logger.Info("executing subtask", "index", st.Index, "total", total, "kind", kind.String())
			entry.Outcome, entry.Err = e.dispatch(ctx, kind, st)
		}

		if entry.Err != nil {
			e.logger.Error("subtask failed", "index", st.Index, "kind", kind.String(), "error", entry.Err)
		}
		log = append(log, entry)
		if e.observer.Finished != nil {
			e.observer.Finished(entry, total)
		}
	}
	return log
}

func (e *Executor) dispatch(ctx context.Context, kind ActionKind, st Subtask) (outcome string, err error) {
	h, ok := e.handlers[kind]
	if !ok || h == nil {
		return "", fmt.Errorf("no handler for %s subtasks", kind)
	}
	defer func() {
		if r := recover(); r != nil {
			outcome, err = "", fmt.Errorf("handler panic: %v", r)
		}
	}()
	return h.Handle(ctx, st)
}
