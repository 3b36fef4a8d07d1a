package assistant

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yukibot/yuki/internal/core"
)

type promptPaths struct {
	owner, user string
}

func (p promptPaths) GetOwnerPromptPath() string { return p.owner }
func (p promptPaths) GetUserPromptPath() string  { return p.user }

type fakeProvider struct {
	reply   string
	err     error
	history []core.Message
	prompt  core.Prompt
}

func (f *fakeProvider) Chat(_ context.Context, history []core.Message, prompt core.Prompt) (string, error) {
	f.history = history
	f.prompt = prompt
	return f.reply, f.err
}

type memRepo struct {
	transcripts map[int64]core.Transcript
	resets      int
}

func newMemRepo() *memRepo {
	return &memRepo{transcripts: make(map[int64]core.Transcript)}
}

func (r *memRepo) GetTranscript(_ context.Context, userID int64) (core.Transcript, error) {
	return r.transcripts[userID], nil
}

func (r *memRepo) ResetTranscript(_ context.Context, userID int64, persona core.Persona, seed []core.Message) error {
	r.resets++
	r.transcripts[userID] = core.Transcript{
		UserID:   userID,
		Persona:  persona,
		Messages: append([]core.Message(nil), seed...),
	}
	return nil
}

func (r *memRepo) AppendMessages(_ context.Context, userID int64, msgs ...core.Message) error {
	t := r.transcripts[userID]
	t.Messages = append(t.Messages, msgs...)
	r.transcripts[userID] = t
	return nil
}

func (r *memRepo) DeleteTranscript(_ context.Context, userID int64) error {
	delete(r.transcripts, userID)
	return nil
}

var fixedNow = time.Date(2025, 3, 14, 9, 26, 53, 0, time.UTC)

func newTestService(t *testing.T, provider core.ChatProvider, repo core.TranscriptRepository) *Service {
	t.Helper()
	dir := t.TempDir()
	owner := filepath.Join(dir, "OWNER.md")
	require.NoError(t, os.WriteFile(owner, []byte("owner prompt at {current_time}"), 0600))

	s := NewService(provider, repo, NewPrompter(promptPaths{owner: owner, user: filepath.Join(dir, "missing.md")}), 1, 0)
	s.now = func() time.Time { return fixedNow }
	s.count = func(text string) int { return len(text) }
	return s
}

func TestReplySeedsAndStores(t *testing.T) {
	p := &fakeProvider{reply: "hi there"}
	repo := newMemRepo()
	s := newTestService(t, p, repo)

	got, err := s.Reply(context.Background(), 1, core.Prompt{Text: "hello"})
	require.NoError(t, err)
	assert.Equal(t, "hi there", got.Text)
	assert.False(t, got.CallWaifu)

	require.Len(t, p.history, 2)
	assert.Equal(t, "owner prompt at 2025-03-14 09:26:53", p.history[0].Content)
	assert.Equal(t, ownerSeedReply, p.history[1].Content)
	assert.Equal(t, "Поточна дата і час: 2025-03-14 09:26:53. hello", p.prompt.Text)

	tr := repo.transcripts[1]
	assert.Equal(t, core.PersonaOwner, tr.Persona)
	require.Len(t, tr.Messages, 4)
	assert.Equal(t, core.RoleModel, tr.Messages[3].Role)
}

func TestRegularUserFallsBackToDefaultPrompt(t *testing.T) {
	p := &fakeProvider{reply: "ok"}
	s := newTestService(t, p, newMemRepo())

	_, err := s.Reply(context.Background(), 2, core.Prompt{Text: "hey"})
	require.NoError(t, err)
	assert.Contains(t, p.history[0].Content, "2025-03-14 09:26:53")
	assert.NotContains(t, p.history[0].Content, currentTimeKey)
	assert.Equal(t, userSeedReply, p.history[1].Content)
}

func TestPersonaChangeReseeds(t *testing.T) {
	repo := newMemRepo()
	repo.transcripts[1] = core.Transcript{
		UserID:   1,
		Persona:  core.PersonaRegular,
		Messages: []core.Message{{Role: core.RoleUser, Content: "old"}, {Role: core.RoleModel, Content: "old"}},
	}
	s := newTestService(t, &fakeProvider{reply: "ok"}, repo)

	_, err := s.Reply(context.Background(), 1, core.Prompt{Text: "x"})
	require.NoError(t, err)
	assert.Equal(t, 1, repo.resets)
	assert.Equal(t, core.PersonaOwner, repo.transcripts[1].Persona)
}

func TestWaifuMarker(t *testing.T) {
	s := newTestService(t, &fakeProvider{reply: "Тримай! " + core.WaifuMarker}, newMemRepo())

	got, err := s.Reply(context.Background(), 3, core.Prompt{Text: "покажи дівчину"})
	require.NoError(t, err)
	assert.True(t, got.CallWaifu)
	assert.Equal(t, "Тримай!", got.Text)
}

func TestImageTurnStoresPlaceholder(t *testing.T) {
	repo := newMemRepo()
	s := newTestService(t, &fakeProvider{reply: "a cat"}, repo)

	_, err := s.Reply(context.Background(), 3, core.Prompt{Text: "what is it", Image: &core.Image{Data: []byte{1}, MIME: "image/png"}})
	require.NoError(t, err)

	user := repo.transcripts[3].Messages[2]
	assert.True(t, user.HasImage)
	assert.True(t, strings.HasPrefix(user.Content, core.ImagePlaceholder))
}

func TestProviderErrorStoresNothing(t *testing.T) {
	repo := newMemRepo()
	s := newTestService(t, &fakeProvider{err: &core.BlockedError{Reason: "SAFETY"}}, repo)

	_, err := s.Reply(context.Background(), 4, core.Prompt{Text: "x"})
	assert.ErrorIs(t, err, core.ErrBlocked)

	var blocked *core.BlockedError
	require.True(t, errors.As(err, &blocked))
	assert.Equal(t, "SAFETY", blocked.Reason)
	assert.Len(t, repo.transcripts[4].Messages, 2, "only the seed")
}

func TestReset(t *testing.T) {
	repo := newMemRepo()
	s := newTestService(t, &fakeProvider{reply: "ok"}, repo)
	_, err := s.Reply(context.Background(), 5, core.Prompt{Text: "x"})
	require.NoError(t, err)

	require.NoError(t, s.Reset(context.Background(), 5))
	_, ok := repo.transcripts[5]
	assert.False(t, ok)
}

func TestUnsupported(t *testing.T) {
	p := &fakeProvider{reply: "вибач"}
	s := newTestService(t, p, newMemRepo())

	got, err := s.Unsupported(context.Background(), "voice")
	require.NoError(t, err)
	assert.Equal(t, "вибач", got)
	assert.Nil(t, p.history)
	assert.Contains(t, p.prompt.Text, "'voice'")
}

func TestTrimKeepsSeedAndNewest(t *testing.T) {
	s := newTestService(t, &fakeProvider{}, newMemRepo())
	s.budget = 10

	history := []core.Message{
		{Role: core.RoleUser, Content: "aa"},
		{Role: core.RoleModel, Content: "bb"},
		{Role: core.RoleUser, Content: "old-user"},
		{Role: core.RoleModel, Content: "old"},
		{Role: core.RoleUser, Content: "u1"},
		{Role: core.RoleModel, Content: "m1"},
	}

	got := s.trim(history)
	assert.Equal(t, []core.Message{history[0], history[1], history[4], history[5]}, got)

	s.budget = 0
	assert.Equal(t, history, s.trim(history))
}

func TestTrimSkipsLeadingModelTurn(t *testing.T) {
	s := newTestService(t, &fakeProvider{}, newMemRepo())
	s.budget = 6

	history := []core.Message{
		{Role: core.RoleUser, Content: "a"},
		{Role: core.RoleModel, Content: "b"},
		{Role: core.RoleUser, Content: "question"},
		{Role: core.RoleModel, Content: "m1"},
	}
	got := s.trim(history)
	assert.Equal(t, history[:2], got)
}

func TestEstimateTokens(t *testing.T) {
	assert.Equal(t, 1, estimateTokens(""))
	assert.Equal(t, 4, estimateTokens("дев'ять..."))
}
