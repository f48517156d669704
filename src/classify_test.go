package src

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestClassify(t *testing.T) {
	cases := []struct {
		subtask string
		want    ActionKind
	}{
		{"Create a script that implements sorting", ActionFileOperation},
		{"Write the README file", ActionFileOperation},
		{"READ file config.yaml", ActionFileOperation},
		{"Delete file old.py", ActionFileOperation},
		{"Implement the parser", ActionModelInteraction},
		{"Develop unit tests for ops", ActionModelInteraction},
		{"Generate code for the API layer", ActionModelInteraction},
		{"Review the architecture", ActionDirectExecution},
		{"Plan the release", ActionDirectExecution},
		{"", ActionDirectExecution},
	}
	for _, c := range cases {
		assert.Equal(t, c.want, Classify(c.subtask), c.subtask)
	}
}

func TestClassifyMatchesInsideWords(t *testing.T) {
	// substring matching, so "recreate" and "already" count
	assert.Equal(t, ActionFileOperation, Classify("Recreate the layout"))
	assert.Equal(t, ActionFileOperation, Classify("Check what is already there"))
}

func TestActionKindString(t *testing.T) {
	assert.Equal(t, "file-operation", ActionFileOperation.String())
	assert.Equal(t, "model-interaction", ActionModelInteraction.String())
	assert.Equal(t, "direct-execution", ActionDirectExecution.String())
}
