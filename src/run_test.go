package src

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// scriptedGateway answers the three kinds of request a run makes.
func scriptedGateway(structureErr error) Gateway {
	return GatewayFunc(func(_ context.Context, msgs []Message) (string, error) {
		user := msgs[len(msgs)-1].Content
		switch {
		case strings.Contains(user, "Propose the directory structure"):
			if structureErr != nil {
				return "", structureErr
			}
			return "calc/\n    main.py\n", nil
		case strings.Contains(user, "decompose"):
			return "1. Implement the calculator\n2. Create file notes.txt\n3. Review the design\n", nil
		default:
			return "Filename: calc.py\n```python\nprint(1)\n```", nil
		}
	})
}

func TestRunnerRun(t *testing.T) {
	base := t.TempDir()
	var events []string
	var writes []WriteResult
	hooks := RunHooks{
		Workspace:   func(*Workspace) { events = append(events, "workspace") },
		Structure:   func(*Structure) { events = append(events, "structure") },
		Decomposing: func() { events = append(events, "decomposing") },
		Subtasks:    func([]Subtask) { events = append(events, "subtasks") },
		Generation: func(g Generation) {
			events = append(events, "generation")
			writes = append(writes, g.Writes...)
		},
	}
	r := NewRunner(scriptedGateway(nil), RunOptions{BaseDir: base, Structure: true, Diffs: true}, hooks, nil)

	rep, err := r.Run(context.Background(), "Build a CLI calculator")
	require.NoError(t, err)

	assert.NotEmpty(t, rep.ID)
	assert.Equal(t, filepath.Join(base, "Build_a_CLI_calculator"), rep.Workspace.Root)
	require.NotNil(t, rep.Structure)
	assert.Equal(t, 2, rep.Structure.Len())
	assert.Equal(t, []string{"Implement the calculator", "Create file notes.txt", "Review the design"}, texts(rep.Subtasks))

	require.Len(t, rep.Log, 3)
	assert.Equal(t, ActionModelInteraction, rep.Log[0].Kind)
	assert.Equal(t, "Subtask executed with model assistance.", rep.Log[0].Outcome)
	assert.Equal(t, ActionFileOperation, rep.Log[1].Kind)
	assert.Equal(t, "Created file: notes.txt", rep.Log[1].Outcome)
	assert.Equal(t, ActionDirectExecution, rep.Log[2].Kind)
	assert.Equal(t, "Executed subtask directly: Review the design", rep.Log[2].Outcome)
	assert.Zero(t, rep.Failures())

	assert.Equal(t, "print(1)\n", readFile(t, filepath.Join(rep.Workspace.Root, "calc.py")))
	assert.Equal(t, "", readFile(t, filepath.Join(rep.Workspace.Root, "notes.txt")))

	_, err = os.Stat(filepath.Join(base, ".Build_a_CLI_calculator.lock"))
	assert.True(t, os.IsNotExist(err), "lock released")

	assert.Equal(t, []string{"workspace", "structure", "decomposing", "subtasks", "generation"}, events)
	require.Len(t, writes, 1)
	assert.Contains(t, writes[0].Diff, "+print(1)")
}

func TestRunnerContinuesWithoutStructure(t *testing.T) {
	r := NewRunner(scriptedGateway(&TransportError{Provider: "xai", Err: errors.New("reset")}),
		RunOptions{BaseDir: t.TempDir(), Structure: true}, RunHooks{
			Generation: func(g Generation) {
				for _, w := range g.Writes {
					assert.Empty(t, w.Diff, "diffs are off unless requested")
				}
			},
		}, nil)
	rep, err := r.Run(context.Background(), "goal")
	require.NoError(t, err)
	assert.Nil(t, rep.Structure)
	assert.Len(t, rep.Log, 3)
}

func TestRunnerFailsBeforeLoop(t *testing.T) {
	_, err := NewRunner(scriptedGateway(nil), RunOptions{BaseDir: t.TempDir()}, RunHooks{}, nil).Run(context.Background(), "  ")
	assert.ErrorIs(t, err, ErrEmptyGoal)

	failing := GatewayFunc(func(context.Context, []Message) (string, error) {
		return "", &GatewayError{Provider: "xai", StatusCode: 503, Body: "down"}
	})
	_, err = NewRunner(failing, RunOptions{BaseDir: t.TempDir()}, RunHooks{}, nil).Run(context.Background(), "goal")
	var gwErr *GatewayError
	require.True(t, errors.As(err, &gwErr))
	assert.Equal(t, 503, gwErr.StatusCode)
}

func TestRunnerRecordsSubtaskFailures(t *testing.T) {
	gw := GatewayFunc(func(_ context.Context, msgs []Message) (string, error) {
		if strings.Contains(msgs[len(msgs)-1].Content, "decompose") {
			return "1. Implement a\n2. Implement b\n3. Plan c", nil
		}
		return "", &GatewayError{Provider: "xai", StatusCode: 500, Body: "oops"}
	})
	rep, err := NewRunner(gw, RunOptions{BaseDir: t.TempDir()}, RunHooks{}, nil).Run(context.Background(), "goal")
	require.NoError(t, err)
	require.Len(t, rep.Log, 3)
	assert.True(t, rep.Log[0].Failed())
	assert.True(t, rep.Log[1].Failed())
	assert.False(t, rep.Log[2].Failed())
	assert.Equal(t, 2, rep.Failures())

	files, err := rep.Workspace.Files()
	require.NoError(t, err)
	assert.Empty(t, files)
}
