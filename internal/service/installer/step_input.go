package installer

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
)

// InputStep collects a single value from a text field.
type InputStep struct {
	input    textinput.Model
	title    string
	key      string
	optional bool
	validate func(string) error
	skip     func(*InstallState) bool
	err      error
}

type inputOptions struct {
	title       string
	key         string
	placeholder string
	secret      bool
	optional    bool
	validate    func(string) error
	skip        func(*InstallState) bool
}

func newInputStep(o inputOptions) *InputStep {
	ti := textinput.New()
	ti.Focus()
	ti.CharLimit = 255
	ti.Width = 50
	ti.Placeholder = o.placeholder
	if o.secret {
		ti.EchoMode = textinput.EchoPassword
		ti.EchoCharacter = '•'
	}

	return &InputStep{
		input:    ti,
		title:    o.title,
		key:      o.key,
		optional: o.optional,
		validate: o.validate,
		skip:     o.skip,
	}
}

func NewCustomURLStep() Step {
	return newInputStep(inputOptions{
		title:       "Enter the base URL of your OpenAI compatible API",
		key:         "CUSTOM_OPENAI_BASE_URL",
		placeholder: "https://api.example.com/v1",
		skip:        func(s *InstallState) bool { return s.Provider() != "custom" },
	})
}

// NewAPIKeyStep asks for the key of the selected provider.
func NewAPIKeyStep() Step {
	return &apiKeyStep{}
}

func NewTelegramTokenStep() Step {
	return newInputStep(inputOptions{
		title:       "Enter your Telegram bot token",
		key:         "TELEGRAM_TOKEN",
		placeholder: "123456789:ABCDEF...",
		secret:      true,
		optional:    true,
	})
}

func NewTelegramOwnerStep() Step {
	return newInputStep(inputOptions{
		title:       "Enter your Telegram user ID (owner)",
		key:         "TELEGRAM_OWNER_ID",
		placeholder: "123456789",
		validate:    validateUserID,
		skip:        func(s *InstallState) bool { return s.EnvVars["TELEGRAM_TOKEN"] == "" },
	})
}

func NewWaifuPasswordStep() Step {
	return newInputStep(inputOptions{
		title:    "Choose a password for /waifu",
		key:      "WAIFU_PASSWORD",
		secret:   true,
		optional: true,
	})
}

func validateUserID(v string) error {
	id, err := strconv.ParseInt(v, 10, 64)
	if err != nil || id <= 0 {
		return fmt.Errorf("%q is not a Telegram user ID", v)
	}
	return nil
}

func (s *InputStep) Init() tea.Cmd {
	return textinput.Blink
}

func (s *InputStep) Skip(state *InstallState) bool {
	return s.skip != nil && s.skip(state)
}

func (s *InputStep) Update(msg tea.Msg, state *InstallState, width, height int) (Step, tea.Cmd) {
	if key, ok := msg.(tea.KeyMsg); ok && key.String() == "enter" {
		val := strings.TrimSpace(s.input.Value())
		switch {
		case val == "" && s.optional:
			return nil, nil
		case val == "":
			s.err = fmt.Errorf("a value is required")
			return s, nil
		}
		if s.validate != nil {
			if s.err = s.validate(val); s.err != nil {
				return s, nil
			}
		}
		state.EnvVars[s.key] = val
		return nil, nil
	}

	var cmd tea.Cmd
	s.input, cmd = s.input.Update(msg)
	return s, cmd
}

func (s *InputStep) View(state *InstallState) string {
	var b strings.Builder
	b.WriteString(s.title)
	if s.optional {
		b.WriteString(hintStyle.Render(" (optional, press enter to skip)"))
	}
	b.WriteString(":\n\n" + s.input.View() + "\n\n")
	if s.err != nil {
		b.WriteString(errorStyle.Render(s.err.Error()) + "\n\n")
	}
	b.WriteString("(press enter to confirm)\n")
	return b.String()
}

// apiKeyStep defers building its field until the provider is known.
type apiKeyStep struct {
	*InputStep
}

var providerKeys = map[string]inputOptions{
	"gemini":     {title: "Enter your Gemini API key", key: "GEMINI_API_KEY", placeholder: "AIza..."},
	"openrouter": {title: "Enter your OpenRouter API key", key: "OPENROUTER_API_KEY", placeholder: "sk-or-v1-..."},
	"openai":     {title: "Enter your OpenAI API key", key: "OPENAI_API_KEY", placeholder: "sk-..."},
	"custom":     {title: "Enter the API key of your endpoint", key: "CUSTOM_OPENAI_API_KEY", optional: true},
}

func (s *apiKeyStep) Init() tea.Cmd {
	return func() tea.Msg { return nextMsg{} }
}

func (s *apiKeyStep) Skip(state *InstallState) bool {
	_, ok := providerKeys[state.Provider()]
	return !ok
}

func (s *apiKeyStep) Update(msg tea.Msg, state *InstallState, width, height int) (Step, tea.Cmd) {
	if s.InputStep == nil {
		opts := providerKeys[state.Provider()]
		opts.secret = true
		s.InputStep = newInputStep(opts)
		return s, textinput.Blink
	}

	next, cmd := s.InputStep.Update(msg, state, width, height)
	if next == nil {
		return nil, nil
	}
	return s, cmd
}

func (s *apiKeyStep) View(state *InstallState) string {
	if s.InputStep == nil {
		return "Loading...\n"
	}
	return s.InputStep.View(state)
}
