package installer

import (
	tea "github.com/charmbracelet/bubbletea"
)

// FinalizationStep derives switches from the collected answers.
type FinalizationStep struct{}

func NewFinalizationStep() Step {
	return &FinalizationStep{}
}

func (s *FinalizationStep) Init() tea.Cmd {
	return func() tea.Msg { return nextMsg{} }
}

func (s *FinalizationStep) Update(msg tea.Msg, state *InstallState, width, height int) (Step, tea.Cmd) {
	finalize(state)
	return nil, nil
}

func (s *FinalizationStep) View(state *InstallState) string {
	return "Finalizing configuration...\n"
}

func finalize(state *InstallState) {
	if state.EnvVars["TELEGRAM_TOKEN"] != "" {
		state.EnvVars["YUKI_ENABLE_TELEGRAM"] = "true"
	} else {
		state.EnvVars["YUKI_ENABLE_TELEGRAM"] = "false"
	}
	if state.EnvVars["YUKI_DEBUG"] == "" {
		state.EnvVars["YUKI_DEBUG"] = "0"
	}
}
