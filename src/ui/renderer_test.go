package ui

import (
	"bytes"
	"errors"
	"strings"
	"testing"

	tea "github.com/charmbracelet/bubbletea"
)

func TestRenderHeaderContainsProtocolLattice(t *testing.T) {
	output := RenderHeader(NewStyles())

	if !strings.Contains(output, "Protocol Lattice") {
		t.Errorf("Expected output to contain 'Protocol Lattice'")
	}
	if !strings.Contains(output, "G O A L S") {
		t.Errorf("Expected output to contain the logo subtitle")
	}
}

func TestRenderSubtasksNumbersItems(t *testing.T) {
	output := RenderSubtasks([]string{"Write main.go", "Add a README"}, PlainStyles())

	for _, want := range []string{"Subtasks:", "1. Write main.go", "2. Add a README"} {
		if !strings.Contains(output, want) {
			t.Errorf("Expected %q in output:\n%s", want, output)
		}
	}
}

func TestRenderStep(t *testing.T) {
	styles := PlainStyles()
	tests := []struct {
		name string
		step Step
		want string
	}{
		{
			name: "running",
			step: Step{Phase: PhaseRunning, Index: 2, Total: 5, Subtask: "Implement parser", Kind: "model-interaction"},
			want: "RUN Executing subtask 2/5: Implement parser [model-interaction]",
		},
		{
			name: "done keeps first line",
			step: Step{Phase: PhaseDone, Index: 1, Outcome: "Content of a.txt:\nsecret"},
			want: "OK Content of a.txt: ...",
		},
		{
			name: "failed",
			step: Step{Phase: PhaseFailed, Index: 3, Err: errors.New("boom")},
			want: "FAIL Failed to execute subtask 3: boom",
		},
		{
			name: "pending",
			step: Step{Index: 4, Subtask: "Later"},
			want: "WAIT 4. Later",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := RenderStep(tt.step, styles); got != tt.want {
				t.Errorf("RenderStep() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestColorizeDiffKeepsLines(t *testing.T) {
	diff := "diff --git a/x b/x\n--- a/x\n+++ b/x\n@@ -1,1 +1,1 @@\n-old\n+new\n"
	got := ColorizeDiff(diff, PlainStyles())
	if got != strings.TrimRight(diff, "\n") {
		t.Errorf("plain colorize changed content:\n%s", got)
	}
}

func TestHumanSize(t *testing.T) {
	tests := map[int64]string{
		0:       "0 B",
		1023:    "1023 B",
		1024:    "1.0 KB",
		1536:    "1.5 KB",
		1 << 20: "1.0 MB",
	}
	for in, want := range tests {
		if got := humanSize(in); got != want {
			t.Errorf("humanSize(%d) = %q, want %q", in, got, want)
		}
	}
}

func TestRendererFinish(t *testing.T) {
	var buf bytes.Buffer
	r := NewRenderer(&buf, PlainStyles(), true)
	r.Finish([]string{
		"Subtask 1: Implement parser",
		"Result: Subtask executed with model assistance.",
		"Subtask 2: Delete file x",
		"Failed to execute subtask: boom",
	}, "/tmp/project", "├── README.md\n└── src/\n    └── main.py", 1)

	output := buf.String()
	for _, want := range []string{
		"All subtasks executed.",
		"Execution logs:\nSubtask 1: Implement parser\nResult: Subtask executed with model assistance.\n",
		"1 subtask(s) failed.",
		"Your project files are located in: /tmp/project\n  ├── README.md\n  └── src/\n      └── main.py\n",
	} {
		if !strings.Contains(output, want) {
			t.Errorf("Expected %q in output:\n%s", want, output)
		}
	}
}

func TestRendererFinishWithoutTree(t *testing.T) {
	var buf bytes.Buffer
	NewRenderer(&buf, PlainStyles(), true).Finish(nil, "/tmp/empty", "", 0)

	if !strings.HasSuffix(buf.String(), "Your project files are located in: /tmp/empty\n") {
		t.Errorf("unexpected trailer:\n%s", buf.String())
	}
	if strings.Contains(buf.String(), "failed.") {
		t.Errorf("no failures expected")
	}
}

func TestRendererFilesRespectsDiffToggle(t *testing.T) {
	change := FileChange{Path: "a.py", Message: "Saved code to a.py", Bytes: 2048, OK: true, Diff: "+line\n"}

	var on, off bytes.Buffer
	NewRenderer(&on, PlainStyles(), true).Files([]FileChange{change})
	NewRenderer(&off, PlainStyles(), false).Files([]FileChange{change})

	if !strings.Contains(on.String(), "Saved code to a.py (2.0 KB)") {
		t.Errorf("unexpected file line: %q", on.String())
	}
	if !strings.Contains(on.String(), "+line") {
		t.Errorf("expected diff when enabled")
	}
	if strings.Contains(off.String(), "+line") {
		t.Errorf("expected no diff when disabled")
	}
}

func TestGoalModelEnterAcceptsTrimmedGoal(t *testing.T) {
	m := newGoalModel(PlainStyles())

	updated, cmd := m.Update(tea.KeyMsg{Type: tea.KeyEnter})
	if cmd != nil || updated.(goalModel).goal != "" {
		t.Fatalf("empty input should not be accepted")
	}

	m = updated.(goalModel)
	m.textarea.SetValue("  Build a CLI calculator  ")
	updated, cmd = m.Update(tea.KeyMsg{Type: tea.KeyEnter})
	if got := updated.(goalModel).goal; got != "Build a CLI calculator" {
		t.Errorf("goal = %q", got)
	}
	if cmd == nil {
		t.Errorf("expected quit command")
	}
	if updated.View() != "" {
		t.Errorf("view should be empty once a goal is chosen")
	}
}

func TestGoalModelEscCancels(t *testing.T) {
	updated, cmd := newGoalModel(PlainStyles()).Update(tea.KeyMsg{Type: tea.KeyEsc})
	if !updated.(goalModel).cancelled {
		t.Errorf("expected cancelled")
	}
	if cmd == nil {
		t.Errorf("expected quit command")
	}
}

func TestReadGoalLine(t *testing.T) {
	var out bytes.Buffer
	goal, err := ReadGoalLine(strings.NewReader("  Build a todo app\nignored\n"), &out)
	if err != nil {
		t.Fatal(err)
	}
	if goal != "Build a todo app" {
		t.Errorf("goal = %q", goal)
	}
	if out.String() != GoalQuestion+"\n" {
		t.Errorf("prompt = %q", out.String())
	}

	goal, err = ReadGoalLine(strings.NewReader("no newline"), &out)
	if err != nil || goal != "no newline" {
		t.Errorf("got %q, %v", goal, err)
	}

	if _, err := ReadGoalLine(strings.NewReader(""), &out); err == nil {
		t.Errorf("expected error on empty input")
	}
}
