package src

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
)

// RunOptions control one run.
type RunOptions struct {
	BaseDir     string
	Structure   bool
	DirectDelay time.Duration
	// Diffs attaches a unified diff to every write result.
	Diffs bool
}

// RunHooks let the terminal surface follow the run. Any field may be nil.
type RunHooks struct {
	Workspace   func(ws *Workspace)
	LockWait    func(wait time.Duration)
	Decomposing func()
	Structure   func(s *Structure)
	Subtasks    func(subtasks []Subtask)
	Generation  func(g Generation)
	Progress    Observer
}

// RunReport is everything a run produced.
type RunReport struct {
	ID        string
	Workspace *Workspace
	Structure *Structure
	Subtasks  []Subtask
	Log       []LogEntry
}

// Failures counts failed log entries.
func (r *RunReport) Failures() int {
	n := 0
	for _, e := range r.Log {
		if e.Failed() {
			n++
		}
	}
	return n
}

// Runner drives a goal from decomposition to the execution log.
type Runner struct {
	gw     Gateway
	opts   RunOptions
	hooks  RunHooks
	logger *slog.Logger
}

func NewRunner(gw Gateway, opts RunOptions, hooks RunHooks, logger *slog.Logger) *Runner {
	if logger == nil {
		logger = slog.Default()
	}
	return &Runner{gw: gw, opts: opts, hooks: hooks, logger: logger}
}

// Run creates the workspace, decomposes goal and executes every subtask.
// Only errors raised before execution starts are returned; subtask failures
// are part of the report.
func (r *Runner) Run(ctx context.Context, goal string) (*RunReport, error) {
	rep := &RunReport{ID: uuid.NewString()}
	logger := r.logger.With("run", rep.ID)

	ws, err := CreateWorkspace(r.opts.BaseDir, goal)
	if err != nil {
		return nil, err
	}
	rep.Workspace = ws
	logger.Info("workspace ready", "path", ws.Root)
	if r.hooks.Workspace != nil {
		r.hooks.Workspace(ws)
	}

	unlock, err := LockWorkspace(ctx, ws, r.hooks.LockWait)
	if err != nil {
		return nil, fmt.Errorf("lock workspace: %w", err)
	}
	defer func() {
		if err := unlock(); err != nil {
			logger.Warn("release workspace lock", "error", err)
		}
	}()

	if r.opts.Structure {
		s, _, err := RequestStructure(ctx, r.gw, goal)
		switch {
		case err != nil && errors.Is(err, context.Canceled):
			return nil, err
		case err != nil:
			// decomposition works without a layout
			logger.Warn("structure request failed, continuing without it", "error", err)
		default:
			rep.Structure = s
			logger.Info("structure parsed", "nodes", s.Len())
			if r.hooks.Structure != nil {
				r.hooks.Structure(s)
			}
		}
	}

	if r.hooks.Decomposing != nil {
		r.hooks.Decomposing()
	}
	subtasks, raw, err := Decompose(ctx, r.gw, goal, rep.Structure)
	if err != nil {
		return nil, err
	}
	logger.Debug("decomposition reply", "bytes", len(raw), "subtasks", len(subtasks))
	rep.Subtasks = subtasks
	if r.hooks.Subtasks != nil {
		r.hooks.Subtasks(subtasks)
	}

	writer := NewWriter(NewChangeTracker(), logger)
	writer.Diffs = r.opts.Diffs
	model := NewModelHandler(r.gw, ws, writer, logger)
	model.OnGeneration = r.hooks.Generation

	exec := NewExecutor(map[ActionKind]Handler{
		ActionModelInteraction: model,
		ActionFileOperation:    NewFileOpHandler(ws, model, logger),
		ActionDirectExecution:  DirectHandler{Delay: r.opts.DirectDelay},
	}, logger)
	exec.SetObserver(r.hooks.Progress)

	rep.Log = exec.Run(ctx, subtasks)
	logger.Info("run finished", "subtasks", len(subtasks), "failures", rep.Failures())
	return rep, nil
}
