package assistant

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/yukibot/yuki/internal/core"
	"github.com/yukibot/yuki/pkg/log"
)

const seedSize = 2

// Answer is a model reply ready for delivery.
type Answer struct {
	Text string
	// CallWaifu is set when the model asked for a waifu picture.
	CallWaifu bool
}

type Service struct {
	provider core.ChatProvider
	repo     core.TranscriptRepository
	prompter *Prompter
	ownerID  int64
	budget   int
	count    TokenCounter
	now      func() time.Time
}

func NewService(
	provider core.ChatProvider,
	repo core.TranscriptRepository,
	prompter *Prompter,
	ownerID int64,
	tokenBudget int,
) *Service {
	return &Service{
		provider: provider,
		repo:     repo,
		prompter: prompter,
		ownerID:  ownerID,
		budget:   tokenBudget,
		count:    CountTokens,
		now:      time.Now,
	}
}

func (s *Service) PersonaFor(userID int64) core.Persona {
	if s.ownerID != 0 && userID == s.ownerID {
		return core.PersonaOwner
	}
	return core.PersonaRegular
}

// Reply sends prompt with the user's transcript and stores both turns on
// success. The transcript is reseeded when the user's persona changed.
func (s *Service) Reply(ctx context.Context, userID int64, prompt core.Prompt) (Answer, error) {
	logger := log.FromCtx(ctx)
	now := s.now()

	history, err := s.history(ctx, userID, now)
	if err != nil {
		return Answer{}, err
	}

	prompt.Text = fmt.Sprintf(timePrefix, now.Format(timeLayout)) + prompt.Text

	raw, err := s.provider.Chat(ctx, s.trim(history), prompt)
	if err != nil {
		return Answer{}, fmt.Errorf("chat: %w", err)
	}

	stored := core.Message{Role: core.RoleUser, Content: prompt.Text}
	if prompt.Image != nil {
		stored.Content = core.ImagePlaceholder + "\n" + prompt.Text
		stored.HasImage = true
	}
	if err := s.repo.AppendMessages(ctx, userID, stored, core.Message{Role: core.RoleModel, Content: raw}); err != nil {
		// the user still gets the reply
		logger.Error().Err(err).Int64("user_id", userID).Msg("failed to save transcript")
	}

	answer := Answer{Text: raw}
	if strings.Contains(raw, core.WaifuMarker) {
		answer.CallWaifu = true
		answer.Text = strings.TrimSpace(strings.ReplaceAll(raw, core.WaifuMarker, ""))
	}

	logger.Debug().
		Int64("user_id", userID).
		Int("history", len(history)).
		Bool("waifu", answer.CallWaifu).
		Msg("assistant replied")
	return answer, nil
}

// Unsupported asks the model to apologize for a message kind the bot cannot
// read. Nothing is stored.
func (s *Service) Unsupported(ctx context.Context, kind string) (string, error) {
	text, err := s.provider.Chat(ctx, nil, core.Prompt{Text: fmt.Sprintf(unsupportedPrompt, kind)})
	if err != nil {
		return "", fmt.Errorf("chat: %w", err)
	}
	return text, nil
}

// Reset drops the stored transcript; the next Reply seeds a new one.
func (s *Service) Reset(ctx context.Context, userID int64) error {
	if err := s.repo.DeleteTranscript(ctx, userID); err != nil {
		return fmt.Errorf("reset transcript: %w", err)
	}
	return nil
}

func (s *Service) history(ctx context.Context, userID int64, now time.Time) ([]core.Message, error) {
	persona := s.PersonaFor(userID)

	t, err := s.repo.GetTranscript(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("load transcript: %w", err)
	}
	if t.Persona == persona && len(t.Messages) > 0 {
		return t.Messages, nil
	}

	seed := s.prompter.Seed(persona, now)
	if err := s.repo.ResetTranscript(ctx, userID, persona, seed); err != nil {
		return nil, fmt.Errorf("seed transcript: %w", err)
	}
	log.FromCtx(ctx).Info().
		Int64("user_id", userID).
		Str("persona", string(persona)).
		Msg("transcript seeded")
	return seed, nil
}

// trim keeps the seed exchange and as many of the newest messages as fit the
// token budget. A non-positive budget disables trimming.
func (s *Service) trim(history []core.Message) []core.Message {
	if s.budget <= 0 || len(history) <= seedSize {
		return history
	}

	used := 0
	for _, m := range history[:seedSize] {
		used += s.count(m.Content)
	}

	start := len(history)
	for i := len(history) - 1; i >= seedSize; i-- {
		cost := s.count(history[i].Content)
		if used+cost > s.budget {
			break
		}
		used += cost
		start = i
	}
	// never open the window on a model turn
	if start < len(history) && history[start].Role == core.RoleModel {
		start++
	}

	out := make([]core.Message, 0, seedSize+len(history)-start)
	out = append(out, history[:seedSize]...)
	return append(out, history[start:]...)
}
