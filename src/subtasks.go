package src

import (
	"context"
	"fmt"
	"regexp"
	"strings"
)

// Subtask is one step derived from the goal. Index is 1-based and defines
// execution order.
type Subtask struct {
	Index int    `json:"index"`
	Text  string `json:"text"`
}

// matches "1." "2.1." "10.3.2." prefixes
var numberingRe = regexp.MustCompile(`^(?:\d+\.)+\s*`)

// ParseSubtasks turns a numbered list into subtasks, one per non-blank line,
// in input order. Numbering prefixes are dropped; lines without one are kept whole.
func ParseSubtasks(text string) []Subtask {
	var out []Subtask
	for _, line := range strings.Split(strings.ReplaceAll(text, "\r\n", "\n"), "\n") {
		task := strings.TrimSpace(line)
		if task == "" {
			continue
		}
		if loc := numberingRe.FindStringIndex(task); loc != nil {
			task = strings.TrimSpace(task[loc[1]:])
		}
		if task == "" {
			continue
		}
		out = append(out, Subtask{Index: len(out) + 1, Text: task})
	}
	return out
}

// Decompose asks the model to split goal into subtasks. A non-empty structure
// is included as context.
func Decompose(ctx context.Context, gw Gateway, goal string, structure *Structure) ([]Subtask, string, error) {
	var user strings.Builder
	fmt.Fprintf(&user, DecomposePromptTemplate, goal)
	if structure != nil && structure.Len() > 0 {
		user.WriteString("\n\nProposed project structure:\n```\n")
		user.WriteString(structure.Format())
		user.WriteString("\n```")
	}

	resp, err := gw.Complete(ctx, []Message{
		SystemMessage(PlannerSystemPrompt),
		UserMessage(user.String()),
	})
	if err != nil {
		return nil, "", fmt.Errorf("decompose goal: %w", err)
	}
	return ParseSubtasks(resp), resp, nil
}
