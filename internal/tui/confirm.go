package tui

import tea "github.com/charmbracelet/bubbletea"

// confirmPrompt guards a destructive action behind a y/n answer.
type confirmPrompt struct {
	question string
	action   tea.Cmd
}

func (c confirmPrompt) active() bool {
	return c.question != ""
}

// ask opens the prompt.
func ask(question string, action tea.Cmd) confirmPrompt {
	return confirmPrompt{question: question, action: action}
}

// answer handles a key while the prompt is open. It returns the closed
// prompt and, on "y", the guarded action.
func (c confirmPrompt) answer(key string) (confirmPrompt, tea.Cmd) {
	switch key {
	case "y", "Y":
		return confirmPrompt{}, c.action
	case "n", "N", "esc":
		return confirmPrompt{}, nil
	}
	return c, nil
}

func (c confirmPrompt) View() string {
	return " " + confirmStyle.Render(c.question) + " " + helpEntry("y", "yes") + "  " + helpEntry("n", "no")
}
