package installer

import (
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
)

type choice struct {
	label string
	value string
}

// ChoiceStep stores one of a fixed set of values under key.
type ChoiceStep struct {
	title   string
	key     string
	choices []choice
	cursor  int
}

func NewLangStep() Step {
	return &ChoiceStep{
		title: "Select the default reply language:",
		key:   "YUKI_LANG",
		choices: []choice{
			{label: "Українська", value: "uk"},
			{label: "English", value: "en"},
		},
	}
}

func NewProviderStep() Step {
	return &ChoiceStep{
		title: "Select your AI provider:",
		key:   "LLM_PROVIDER",
		choices: []choice{
			{label: "Google Gemini", value: "gemini"},
			{label: "OpenRouter", value: "openrouter"},
			{label: "OpenAI", value: "openai"},
			{label: "Custom (OpenAI compatible)", value: "custom"},
		},
	}
}

func (s *ChoiceStep) Init() tea.Cmd {
	return nil
}

func (s *ChoiceStep) Update(msg tea.Msg, state *InstallState, width, height int) (Step, tea.Cmd) {
	key, ok := msg.(tea.KeyMsg)
	if !ok {
		return s, nil
	}

	switch key.String() {
	case "up", "k":
		if s.cursor > 0 {
			s.cursor--
		}
	case "down", "j":
		if s.cursor < len(s.choices)-1 {
			s.cursor++
		}
	case "enter":
		state.EnvVars[s.key] = s.choices[s.cursor].value
		return nil, nil
	}
	return s, nil
}

func (s *ChoiceStep) View(state *InstallState) string {
	var b strings.Builder
	b.WriteString(s.title + "\n\n")
	for i, c := range s.choices {
		if s.cursor == i {
			b.WriteString(selStyle.Render(fmt.Sprintf("❯ %s", c.label)) + "\n")
		} else {
			b.WriteString(itemStyle.Render(fmt.Sprintf("  %s", c.label)) + "\n")
		}
	}
	b.WriteString("\n(press ctrl+c to quit)\n")
	return b.String()
}
