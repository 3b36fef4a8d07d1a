package installer

import (
	"github.com/charmbracelet/bubbles/list"
	tea "github.com/charmbracelet/bubbletea"
)

type item struct {
	id    string
	title string
	desc  string
}

func (i item) Title() string       { return i.title }
func (i item) Description() string { return i.desc }
func (i item) FilterValue() string { return i.id }

var suggestedModels = map[string][]list.Item{
	"gemini": {
		item{id: "gemini-2.0-flash", title: "Gemini 2.0 Flash", desc: "fast, supports images"},
		item{id: "gemini-2.5-flash", title: "Gemini 2.5 Flash", desc: "newer, supports images"},
		item{id: "gemini-2.5-pro", title: "Gemini 2.5 Pro", desc: "slowest, best answers"},
	},
	"openrouter": {
		item{id: "google/gemini-2.0-flash-001", title: "Gemini 2.0 Flash", desc: "via OpenRouter"},
		item{id: "anthropic/claude-sonnet-4", title: "Claude Sonnet 4", desc: "via OpenRouter"},
		item{id: "openai/gpt-4o-mini", title: "GPT-4o mini", desc: "via OpenRouter"},
	},
	"openai": {
		item{id: "gpt-4o-mini", title: "GPT-4o mini", desc: "cheap and fast"},
		item{id: "gpt-4o", title: "GPT-4o", desc: "multimodal"},
	},
}

// ModelStep picks a chat model among the suggestions for the provider.
// Custom endpoints keep the configured default.
type ModelStep struct {
	list  list.Model
	ready bool
}

func NewModelStep() Step {
	l := list.New(nil, list.NewDefaultDelegate(), 0, 0)
	l.Title = "Select the chat model"
	l.SetShowStatusBar(false)
	l.SetFilteringEnabled(true)
	l.Styles.Title = titleStyle

	return &ModelStep{list: l}
}

func (s *ModelStep) Init() tea.Cmd {
	return func() tea.Msg { return nextMsg{} }
}

func (s *ModelStep) Skip(state *InstallState) bool {
	return len(suggestedModels[state.Provider()]) == 0
}

func (s *ModelStep) Update(msg tea.Msg, state *InstallState, width, height int) (Step, tea.Cmd) {
	if !s.ready {
		s.list.SetItems(suggestedModels[state.Provider()])
		s.ready = true
	}
	s.list.SetSize(width, height-4)

	if key, ok := msg.(tea.KeyMsg); ok && key.String() == "enter" && s.list.FilterState() != list.Filtering {
		if i, ok := s.list.SelectedItem().(item); ok {
			state.EnvVars["LLM_MODEL"] = i.id
			return nil, nil
		}
	}

	var cmd tea.Cmd
	s.list, cmd = s.list.Update(msg)
	return s, cmd
}

func (s *ModelStep) View(state *InstallState) string {
	return s.list.View()
}
