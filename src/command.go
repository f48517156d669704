package src

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/mattn/go-isatty"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/Protocol-Lattice/lattice-engineer/src/ui"
)

// NewRootCommand builds the lattice-engineer command. Each call gets its own
// viper instance so tests can run commands side by side.
func NewRootCommand() *cobra.Command {
	v := viper.New()
	var cfgFile string

	cmd := &cobra.Command{
		Use:   "lattice-engineer [goal...]",
		Short: "Turn a software goal into a project, one subtask at a time",
		Long: `lattice-engineer asks a language model to break a software development goal
into subtasks, then works through them in order: generating code into a
per-goal project folder, performing simple file operations, or noting steps
that need no action. With no arguments it prompts for the goal.`,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			return ReadConfigFile(v, cfgFile)
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			return runEngineer(cmd, v, args)
		},
	}

	SetConfigDefaults(v)
	f := cmd.Flags()
	cmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default is $HOME/.lattice-engineer.yaml)")
	f.String("provider", ProviderXAI, "model provider (xai, http, openai, gemini)")
	f.String("base-url", "", "completion endpoint (provider default when empty)")
	f.String("model", "", "model name (provider default when empty)")
	f.Float64("temperature", 0, "sampling temperature")
	f.Duration("timeout", 0, "per-request timeout, 0 for none")
	f.Duration("direct-delay", time.Second, "pause for subtasks executed directly")
	f.String("base-dir", "", "directory the project folder is created in (default is the working directory)")
	f.Bool("structure", true, "ask for a directory structure before decomposing")
	f.String("log-level", "warn", "log level (debug, info, warn, error)")
	f.String("log-file", "", "also write JSON logs to this file")
	f.Bool("plain", false, "no colors and no interactive prompt")
	f.Bool("diffs", true, "print a diff for every written file")

	for key, flag := range map[string]string{
		"provider":     "provider",
		"base_url":     "base-url",
		"model":        "model",
		"temperature":  "temperature",
		"timeout":      "timeout",
		"direct_delay": "direct-delay",
		"base_dir":     "base-dir",
		"structure":    "structure",
		"log_level":    "log-level",
		"log_file":     "log-file",
		"plain":        "plain",
		"diffs":        "diffs",
	} {
		_ = v.BindPFlag(key, f.Lookup(flag))
	}
	return cmd
}

func runEngineer(cmd *cobra.Command, v *viper.Viper, args []string) error {
	ctx := cmd.Context()
	in, out := cmd.InOrStdin(), cmd.OutOrStdout()

	cfg, err := LoadConfig(v)
	if err != nil {
		return err
	}
	logger, closeLog, err := NewLogger(cmd.ErrOrStderr(), cfg.LogLevel, cfg.LogFile)
	if err != nil {
		return err
	}
	defer func() { _ = closeLog() }()

	interactive := !cfg.Plain && isTerminal(in) && isTerminal(out)
	styles := ui.PlainStyles()
	if !cfg.Plain && isTerminal(out) {
		styles = ui.NewStyles()
	}
	r := ui.NewRenderer(out, styles, cfg.ShowDiffs)
	if interactive {
		r.Banner()
	}

	goal := strings.TrimSpace(strings.Join(args, " "))
	if goal == "" {
		if interactive {
			goal, err = ui.PromptGoal(in, out, styles)
		} else {
			goal, err = ui.ReadGoalLine(in, out)
		}
		if err != nil {
			return err
		}
	}
	if goal == "" {
		return ErrEmptyGoal
	}

	gw, err := NewGateway(ctx, cfg, logger)
	if err != nil {
		return err
	}

	runner := NewRunner(gw, RunOptions{
		BaseDir:     cfg.BaseDir,
		Structure:   cfg.Structure,
		DirectDelay: cfg.DirectDelay,
		Diffs:       cfg.ShowDiffs,
	}, rendererHooks(r), logger)

	rep, err := runner.Run(ctx, goal)
	if err != nil {
		logger.Error("run aborted", "error", err)
		return err
	}

	var lines []string
	for _, e := range rep.Log {
		lines = append(lines, e.Lines()...)
	}
	r.Finish(lines, rep.Workspace.Root, rep.Workspace.Tree(), rep.Failures())
	return nil
}

func rendererHooks(r *ui.Renderer) RunHooks {
	var lockPath string
	return RunHooks{
		Workspace: func(ws *Workspace) {
			lockPath = ws.Root
			r.Workspace(ws.Root)
		},
		LockWait: func(wait time.Duration) {
			if wait == 0 {
				r.LockWait(lockPath)
			}
		},
		Decomposing: r.Decomposing,
		Structure: func(s *Structure) {
			if s.Len() > 0 {
				r.Structure(s.Format())
			}
		},
		Subtasks: func(subtasks []Subtask) {
			items := make([]string, len(subtasks))
			for i, st := range subtasks {
				items[i] = st.Text
			}
			r.Subtasks(items)
		},
		Generation: func(g Generation) {
			if len(g.Writes) == 0 {
				r.Notice(capitalize(ErrNoCodeBlocks.Error()) + ".")
				return
			}
			r.Files(fileChanges(g.Writes))
		},
		Progress: Observer{
			Started: func(st Subtask, kind ActionKind, total int) {
				r.Step(ui.Step{Phase: ui.PhaseRunning, Index: st.Index, Total: total, Subtask: st.Text, Kind: kind.String()})
			},
			Finished: func(e LogEntry, total int) {
				step := ui.Step{Phase: ui.PhaseDone, Index: e.Index, Total: total, Subtask: e.Subtask, Kind: e.Kind.String(), Outcome: e.Outcome}
				if e.Failed() {
					step.Phase, step.Err = ui.PhaseFailed, e.Err
				}
				r.Step(step)
			},
		},
	}
}

func fileChanges(writes []WriteResult) []ui.FileChange {
	out := make([]ui.FileChange, 0, len(writes))
	for _, w := range writes {
		ok := w.Status == StatusCreated || w.Status == StatusAppended
		out = append(out, ui.FileChange{
			Path:    w.Path,
			Message: w.Message(),
			Bytes:   len(w.Content),
			OK:      ok,
			Diff:    w.Diff,
		})
	}
	return out
}

func isTerminal(stream any) bool {
	f, ok := stream.(*os.File)
	if !ok {
		return false
	}
	return isatty.IsTerminal(f.Fd()) || isatty.IsCygwinTerminal(f.Fd())
}

// Execute runs the root command and returns the process exit status.
func Execute(ctx context.Context) int {
	cmd := NewRootCommand()
	return exitStatus(cmd.ErrOrStderr(), cmd.ExecuteContext(ctx))
}

// exitStatus reports err on w as a single line and maps it to an exit code.
func exitStatus(w io.Writer, err error) int {
	switch {
	case err == nil:
		return 0
	case errors.Is(err, ui.ErrPromptCancelled):
		fmt.Fprintln(w, "lattice-engineer: cancelled, no goal entered")
	default:
		fmt.Fprintf(w, "lattice-engineer: %v\n", err)
	}
	return 1
}
