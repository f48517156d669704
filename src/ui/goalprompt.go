package ui

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/charmbracelet/bubbles/textarea"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
)

const GoalQuestion = "Please enter your software development goal:"

var ErrPromptCancelled = errors.New("goal prompt cancelled")

type goalModel struct {
	textarea  textarea.Model
	styles    Styles
	goal      string
	cancelled bool
	width     int
}

func newGoalModel(styles Styles) goalModel {
	ta := textarea.New()
	ta.Placeholder = "Describe the software you want built..."
	ta.ShowLineNumbers = false
	ta.SetHeight(4)
	ta.SetWidth(72)
	ta.Focus()
	return goalModel{textarea: ta, styles: styles}
}

func (m goalModel) Init() tea.Cmd { return textarea.Blink }

func (m goalModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		if msg.Width > 10 {
			m.textarea.SetWidth(msg.Width - 6)
		}
		return m, nil
	case tea.KeyMsg:
		switch msg.Type {
		case tea.KeyCtrlC, tea.KeyEsc:
			m.cancelled = true
			return m, tea.Quit
		case tea.KeyEnter:
			goal := strings.TrimSpace(m.textarea.Value())
			if goal == "" {
				return m, nil
			}
			m.goal = goal
			return m, tea.Quit
		}
	}
	var cmd tea.Cmd
	m.textarea, cmd = m.textarea.Update(msg)
	return m, cmd
}

func (m goalModel) View() string {
	if m.goal != "" || m.cancelled {
		return ""
	}
	return lipgloss.JoinVertical(lipgloss.Left,
		m.styles.ListHeader.Render(GoalQuestion),
		m.styles.Textarea.Render(m.textarea.View()),
		m.styles.Footer.Render("enter: start | esc: cancel | ctrl+c: quit"),
	)
}

// PromptGoal asks for the goal with an inline textarea.
func PromptGoal(in io.Reader, out io.Writer, styles Styles) (string, error) {
	p := tea.NewProgram(newGoalModel(styles), tea.WithInput(in), tea.WithOutput(out))
	final, err := p.Run()
	if err != nil {
		return "", fmt.Errorf("goal prompt: %w", err)
	}
	m := final.(goalModel)
	if m.cancelled {
		return "", ErrPromptCancelled
	}
	return m.goal, nil
}

// ReadGoalLine asks once and reads a single line.
func ReadGoalLine(in io.Reader, out io.Writer) (string, error) {
	fmt.Fprintln(out, GoalQuestion)
	line, err := bufio.NewReader(in).ReadString('\n')
	if err != nil && !(errors.Is(err, io.EOF) && line != "") {
		return "", fmt.Errorf("read goal: %w", err)
	}
	return strings.TrimSpace(line), nil
}
