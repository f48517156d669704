package ui

// Phase is where a subtask is in its execution.
type Phase int

const (
	PhasePending Phase = iota
	PhaseRunning
	PhaseDone
	PhaseFailed
)

func (p Phase) Badge() string {
	switch p {
	case PhaseRunning:
		return "RUN"
	case PhaseDone:
		return "OK"
	case PhaseFailed:
		return "FAIL"
	default:
		return "WAIT"
	}
}

// Step contains the data required to render one subtask's progress line.
// It decouples the renderer from the executor types.
type Step struct {
	Phase   Phase
	Index   int
	Total   int
	Subtask string
	Kind    string
	Outcome string
	Err     error
}

// FileChange is one written (or skipped) file.
type FileChange struct {
	Path    string
	Message string
	Bytes   int
	OK      bool
	Diff    string
}
