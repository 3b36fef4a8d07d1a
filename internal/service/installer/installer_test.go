package installer

import (
	"os"
	"path/filepath"
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var (
	enter = tea.KeyMsg{Type: tea.KeyEnter}
	down  = tea.KeyMsg{Type: tea.KeyDown}
)

func typed(s string) tea.KeyMsg {
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
}

func TestChoiceStep(t *testing.T) {
	state := NewInstallState()
	step := NewProviderStep()

	step, _ = step.Update(down, state, 80, 24)
	require.NotNil(t, step)
	next, _ := step.Update(enter, state, 80, 24)

	assert.Nil(t, next)
	assert.Equal(t, "openrouter", state.Provider())
}

func TestInputStepValidation(t *testing.T) {
	state := NewInstallState()
	var step Step = NewTelegramOwnerStep()

	step, _ = step.Update(typed("abc"), state, 80, 24)
	step, _ = step.Update(enter, state, 80, 24)
	require.NotNil(t, step, "invalid id must keep the step open")
	assert.Contains(t, step.View(state), "not a Telegram user ID")
	assert.Empty(t, state.EnvVars["TELEGRAM_OWNER_ID"])

	fresh := NewTelegramOwnerStep()
	fresh, _ = fresh.Update(typed("42"), state, 80, 24)
	next, _ := fresh.Update(enter, state, 80, 24)
	assert.Nil(t, next)
	assert.Equal(t, "42", state.EnvVars["TELEGRAM_OWNER_ID"])
}

func TestOptionalInputSkipsOnEmpty(t *testing.T) {
	state := NewInstallState()
	next, _ := NewWaifuPasswordStep().Update(enter, state, 80, 24)

	assert.Nil(t, next)
	_, ok := state.EnvVars["WAIFU_PASSWORD"]
	assert.False(t, ok)
}

func TestWizardSkipsInapplicableSteps(t *testing.T) {
	m := newModel([]Step{NewProviderStep(), NewCustomURLStep(), NewAPIKeyStep(), NewTelegramOwnerStep(), NewWaifuPasswordStep()})

	updated, _ := m.Update(enter)
	m = updated.(model)
	assert.Equal(t, "gemini", m.state.Provider())
	assert.Equal(t, 2, m.currentStep, "custom url is only asked for custom endpoints")

	updated, _ = m.Update(nextMsg{})
	m = updated.(model)
	updated, _ = m.Update(typed("AIza-key"))
	m = updated.(model)
	updated, _ = m.Update(enter)
	m = updated.(model)

	assert.Equal(t, "AIza-key", m.state.EnvVars["GEMINI_API_KEY"])
	assert.Equal(t, 4, m.currentStep, "owner id is skipped without a token")
}

func TestFinalize(t *testing.T) {
	state := NewInstallState()
	finalize(state)
	assert.Equal(t, "false", state.EnvVars["YUKI_ENABLE_TELEGRAM"])
	assert.Equal(t, "0", state.EnvVars["YUKI_DEBUG"])

	state.EnvVars["TELEGRAM_TOKEN"] = "t"
	finalize(state)
	assert.Equal(t, "true", state.EnvVars["YUKI_ENABLE_TELEGRAM"])
}

func TestInitRuntime(t *testing.T) {
	root := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(root, "USER.md"), []byte("custom"), 0644))

	require.NoError(t, InitRuntime(root))

	owner, err := os.ReadFile(filepath.Join(root, "OWNER.md"))
	require.NoError(t, err)
	assert.Contains(t, string(owner), "{current_time}")

	user, err := os.ReadFile(filepath.Join(root, "USER.md"))
	require.NoError(t, err)
	assert.Equal(t, "custom", string(user))

	assert.DirExists(t, filepath.Join(root, "waifu"))
	assert.DirExists(t, filepath.Join(root, "downloads"))
}
