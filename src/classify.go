package src

import "strings"

// ActionKind decides how a subtask is carried out. It is derived from the
// subtask text each time and never stored.
type ActionKind int

const (
	ActionDirectExecution ActionKind = iota
	ActionFileOperation
	ActionModelInteraction
)

func (k ActionKind) String() string {
	switch k {
	case ActionFileOperation:
		return "file-operation"
	case ActionModelInteraction:
		return "model-interaction"
	default:
		return "direct-execution"
	}
}

type classifyRule struct {
	kind     ActionKind
	keywords []string
}

// Evaluated top to bottom; the first rule with a keyword contained in the
// lower-cased subtask wins. File operations come first, so
// "create a script that implements sorting" is a file operation.
var classifyRules = []classifyRule{
	{ActionFileOperation, []string{"create", "write", "read", "delete"}},
	{ActionModelInteraction, []string{"generate code", "implement", "develop", "write code", "create script"}},
}

// Classify maps subtask text to an action kind.
func Classify(subtask string) ActionKind {
	text := strings.ToLower(subtask)
	for _, r := range classifyRules {
		for _, kw := range r.keywords {
			if strings.Contains(text, kw) {
				return r.kind
			}
		}
	}
	return ActionDirectExecution
}
