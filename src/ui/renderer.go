package ui

import (
	"fmt"
	"io"
	"strings"

	"github.com/charmbracelet/lipgloss"
)

const Logo = `
██╗      █████╗ ████████╗████████╗██╗ ██████╗███████╗
██║     ██╔══██╗╚══██╔══╝╚══██╔══╝██║██╔════╝██╔════╝
██║     ███████║   ██║      ██║   ██║██║     █████╗
██║     ██╔══██║   ██║      ██║   ██║██║     ██╔══╝
███████╗██║  ██║   ██║      ██║   ██║╚██████╗███████╗
╚══════╝╚═╝  ╚═╝   ╚═╝      ╚═╝   ╚═╝ ╚═════╝╚══════╝
              E N G I N E E R  ·  G O A L S  T O  C O D E
`

// Renderer prints run progress to a line-oriented writer. Nothing is redrawn,
// so the output reads the same in a terminal, a pipe or a log file.
type Renderer struct {
	w      io.Writer
	styles Styles
	diffs  bool
}

func NewRenderer(w io.Writer, styles Styles, showDiffs bool) *Renderer {
	return &Renderer{w: w, styles: styles, diffs: showDiffs}
}

func (r *Renderer) println(s string) { fmt.Fprintln(r.w, s) }

func (r *Renderer) Banner() {
	r.println(RenderHeader(r.styles))
}

func (r *Renderer) Workspace(path string) {
	r.println(r.styles.Subtitle.Render(fmt.Sprintf("Created project folder at: %s", path)))
}

func (r *Renderer) LockWait(path string) {
	r.println(r.styles.Subtle.Render(fmt.Sprintf("Waiting for another run to release %s...", path)))
}

func (r *Renderer) Decomposing() {
	r.println("")
	r.println(r.styles.Thinking.Render("Decomposing goal into subtasks..."))
}

func (r *Renderer) Structure(formatted string) {
	r.println("")
	r.println(r.styles.ListHeader.Render("Project structure:"))
	for _, line := range strings.Split(strings.TrimRight(formatted, "\n"), "\n") {
		r.println(r.styles.Tree.Render(line))
	}
}

func (r *Renderer) Subtasks(items []string) {
	r.println("")
	r.println(RenderSubtasks(items, r.styles))
}

func (r *Renderer) Step(s Step) {
	if s.Phase == PhaseRunning {
		r.println("")
	}
	r.println(RenderStep(s, r.styles))
}

func (r *Renderer) Files(changes []FileChange) {
	for _, c := range changes {
		st := r.styles.Success
		if !c.OK {
			st = r.styles.Error
		}
		line := c.Message
		if c.OK && c.Bytes > 0 {
			line += r.styles.Subtle.Render(fmt.Sprintf(" (%s)", humanSize(int64(c.Bytes))))
		}
		r.println("  " + st.Render(line))
		if r.diffs && c.Diff != "" {
			r.println(ColorizeDiff(c.Diff, r.styles))
		}
	}
}

func (r *Renderer) Notice(msg string) {
	r.println(r.styles.Subtle.Render(msg))
}

// Finish prints the execution log, where the files are and, when tree is
// not empty, the layout of the files the run left behind.
func (r *Renderer) Finish(logLines []string, workspace, tree string, failures int) {
	r.println("")
	r.println(r.styles.Success.Render("All subtasks executed."))
	r.println("")
	r.println(r.styles.ListHeader.Render("Execution logs:"))
	for _, l := range logLines {
		if strings.HasPrefix(l, "Failed to execute subtask") {
			r.println(r.styles.Error.Render(l))
			continue
		}
		r.println(l)
	}
	if failures > 0 {
		r.println("")
		r.println(r.styles.Error.Render(fmt.Sprintf("%d subtask(s) failed.", failures)))
	}
	r.println("")
	r.println(r.styles.Accent.Render(fmt.Sprintf("Your project files are located in: %s", workspace)))
	if tree == "" {
		return
	}
	for _, line := range strings.Split(tree, "\n") {
		r.println(r.styles.Tree.Render(line))
	}
}

func RenderHeader(styles Styles) string {
	logoStyle := lipgloss.NewStyle().
		Foreground(lipgloss.Color("#AD8CFF")).Bold(true)
	subtitle := styles.Header.Render("Protocol Lattice")
	return lipgloss.JoinVertical(lipgloss.Left, logoStyle.Render(Logo), subtitle)
}

func RenderSubtasks(items []string, styles Styles) string {
	lines := []string{styles.ListHeader.Render("Subtasks:")}
	for i, it := range items {
		lines = append(lines, styles.ListItem.Render(styles.ListIndex.Render(fmt.Sprintf("%d.", i+1))+" "+it))
	}
	return lipgloss.JoinVertical(lipgloss.Left, lines...)
}

func RenderStep(s Step, styles Styles) string {
	badge := styles.Status.Render(s.Phase.Badge())
	switch s.Phase {
	case PhaseRunning:
		kind := ""
		if s.Kind != "" {
			kind = " " + styles.Subtle.Render("["+s.Kind+"]")
		}
		return fmt.Sprintf("%s Executing subtask %d/%d: %s%s", badge, s.Index, s.Total, s.Subtask, kind)
	case PhaseFailed:
		return fmt.Sprintf("%s %s", badge, styles.Error.Render(fmt.Sprintf("Failed to execute subtask %d: %v", s.Index, s.Err)))
	case PhaseDone:
		return fmt.Sprintf("%s %s", badge, styles.Success.Render(firstLine(s.Outcome)))
	default:
		return fmt.Sprintf("%s %d. %s", badge, s.Index, s.Subtask)
	}
}

// ColorizeDiff styles a unified diff line by line.
func ColorizeDiff(diff string, styles Styles) string {
	lines := strings.Split(strings.TrimRight(diff, "\n"), "\n")
	for i, l := range lines {
		switch {
		case strings.HasPrefix(l, "diff --git"), strings.HasPrefix(l, "index "),
			strings.HasPrefix(l, "--- "), strings.HasPrefix(l, "+++ "):
			lines[i] = styles.DiffMeta.Render(l)
		case strings.HasPrefix(l, "@@"):
			lines[i] = styles.DiffHunk.Render(l)
		case strings.HasPrefix(l, "+"):
			lines[i] = styles.DiffAdd.Render(l)
		case strings.HasPrefix(l, "-"):
			lines[i] = styles.DiffDel.Render(l)
		}
	}
	return strings.Join(lines, "\n")
}

func firstLine(s string) string {
	if i := strings.IndexByte(s, '\n'); i >= 0 {
		return s[:i] + " ..."
	}
	return s
}

func humanSize(b int64) string {
	const unit = 1024
	if b < unit {
		return fmt.Sprintf("%d B", b)
	}
	div, exp := int64(unit), 0
	for n := b / unit; n >= unit; n /= unit {
		div *= unit
		exp++
	}
	return fmt.Sprintf("%.1f %cB", float64(b)/float64(div), "KMGTPE"[exp])
}
