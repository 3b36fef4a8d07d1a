package sqlite

import (
	"context"
	"database/sql"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/yukibot/yuki/internal/core"
)

func newTestDB(t *testing.T) *sql.DB {
	t.Helper()
	db, err := NewDB(context.Background(), filepath.Join(t.TempDir(), "test.db"))
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	return db
}

func TestTranscriptLifecycle(t *testing.T) {
	ctx := context.Background()
	repo := NewTranscriptRepo(newTestDB(t))

	empty, err := repo.GetTranscript(ctx, 42)
	require.NoError(t, err)
	assert.Empty(t, empty.Persona)
	assert.Empty(t, empty.Messages)

	seed := []core.Message{
		{Role: core.RoleUser, Content: "system prompt"},
		{Role: core.RoleModel, Content: "ready"},
	}
	require.NoError(t, repo.ResetTranscript(ctx, 42, core.PersonaRegular, seed))
	require.NoError(t, repo.AppendMessages(ctx, 42,
		core.Message{Role: core.RoleUser, Content: core.ImagePlaceholder, HasImage: true},
		core.Message{Role: core.RoleModel, Content: "nice picture"},
	))

	got, err := repo.GetTranscript(ctx, 42)
	require.NoError(t, err)
	assert.Equal(t, core.PersonaRegular, got.Persona)
	require.Len(t, got.Messages, 4)
	assert.Equal(t, "system prompt", got.Messages[0].Content)
	assert.True(t, got.Messages[2].HasImage)
	assert.Equal(t, "nice picture", got.Messages[3].Content)

	// switching persona drops previous turns
	require.NoError(t, repo.ResetTranscript(ctx, 42, core.PersonaOwner, seed[:1]))
	got, err = repo.GetTranscript(ctx, 42)
	require.NoError(t, err)
	assert.Equal(t, core.PersonaOwner, got.Persona)
	assert.Len(t, got.Messages, 1)

	require.NoError(t, repo.DeleteTranscript(ctx, 42))
	got, err = repo.GetTranscript(ctx, 42)
	require.NoError(t, err)
	assert.Empty(t, got.Persona)
	assert.Empty(t, got.Messages)
}

func TestTranscriptsAreIsolatedPerUser(t *testing.T) {
	ctx := context.Background()
	repo := NewTranscriptRepo(newTestDB(t))

	require.NoError(t, repo.ResetTranscript(ctx, 1, core.PersonaRegular, []core.Message{{Role: core.RoleUser, Content: "a"}}))
	require.NoError(t, repo.ResetTranscript(ctx, 2, core.PersonaRegular, []core.Message{{Role: core.RoleUser, Content: "b"}}))

	got, err := repo.GetTranscript(ctx, 2)
	require.NoError(t, err)
	require.Len(t, got.Messages, 1)
	assert.Equal(t, "b", got.Messages[0].Content)
}

func TestWaifuHistory(t *testing.T) {
	ctx := context.Background()
	repo := NewWaifuRepo(newTestDB(t))

	require.NoError(t, repo.MarkWaifuSent(ctx, 7, "a.png"))
	require.NoError(t, repo.MarkWaifuSent(ctx, 7, "b.jpg"))
	require.NoError(t, repo.MarkWaifuSent(ctx, 7, "a.png"))
	require.NoError(t, repo.MarkWaifuSent(ctx, 8, "c.png"))

	sent, err := repo.SentWaifus(ctx, 7)
	require.NoError(t, err)
	assert.ElementsMatch(t, []string{"a.png", "b.jpg"}, sent)

	require.NoError(t, repo.ResetWaifus(ctx, 7))
	sent, err = repo.SentWaifus(ctx, 7)
	require.NoError(t, err)
	assert.Empty(t, sent)

	other, err := repo.SentWaifus(ctx, 8)
	require.NoError(t, err)
	assert.Equal(t, []string{"c.png"}, other)
}
