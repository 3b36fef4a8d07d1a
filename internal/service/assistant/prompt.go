package assistant

import (
	"os"
	"strings"
	"time"

	"github.com/yukibot/yuki/internal/core"
)

const (
	timeLayout         = "2006-01-02 15:04:05"
	currentTimeKey     = "{current_time}"
	defaultOwnerPrompt = "Ти Юкі, дівчина-помічниця свого коханого творця. Поточна дата і час: {current_time}."
	defaultUserPrompt  = "Ти Юкі, дружня дівчина-помічниця в Telegram. Поточна дата і час: {current_time}."
	ownerSeedReply     = "Зрозуміла, мій коханий. Я готова бути твоєю Юкі"
	userSeedReply      = "Зрозуміла. Я готова допомогти"
	timePrefix         = "Поточна дата і час: %s. "
	unsupportedPrompt  = "Користувач надіслав повідомлення типу '%s', яке бот не може обробити. " +
		"Сформулюй відповідь у стилі Yuki, дружньої дівчини-помічниці, яка щиро вибачається і просить надіслати текст."
)

// Prompter reads persona prompts from disk on every reset so edits apply
// without a restart.
type Prompter struct {
	cfg core.PromptConfig
}

func NewPrompter(cfg core.PromptConfig) *Prompter {
	return &Prompter{cfg: cfg}
}

// Seed returns the opening exchange of a fresh transcript.
func (p *Prompter) Seed(persona core.Persona, now time.Time) []core.Message {
	path, fallback, reply := p.cfg.GetUserPromptPath(), defaultUserPrompt, userSeedReply
	if persona == core.PersonaOwner {
		path, fallback, reply = p.cfg.GetOwnerPromptPath(), defaultOwnerPrompt, ownerSeedReply
	}

	text := fallback
	if content, err := os.ReadFile(path); err == nil && strings.TrimSpace(string(content)) != "" {
		text = string(content)
	}
	text = strings.ReplaceAll(text, currentTimeKey, now.Format(timeLayout))

	return []core.Message{
		{Role: core.RoleUser, Content: text},
		{Role: core.RoleModel, Content: reply},
	}
}
