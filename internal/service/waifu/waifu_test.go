package waifu

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type memHistory struct {
	sent   map[int64][]string
	resets int
}

func (m *memHistory) SentWaifus(_ context.Context, userID int64) ([]string, error) {
	return m.sent[userID], nil
}

func (m *memHistory) MarkWaifuSent(_ context.Context, userID int64, name string) error {
	m.sent[userID] = append(m.sent[userID], name)
	return nil
}

func (m *memHistory) ResetWaifus(_ context.Context, userID int64) error {
	m.resets++
	delete(m.sent, userID)
	return nil
}

type fakeRemote struct {
	url  string
	data []byte
	err  error
}

func (f *fakeRemote) RandomWaifu(context.Context) (string, error) { return f.url, f.err }

func (f *fakeRemote) Download(context.Context, string, int64) ([]byte, error) { return f.data, nil }

func writeFiles(t *testing.T, dir string, names ...string) {
	t.Helper()
	for _, n := range names {
		require.NoError(t, os.WriteFile(filepath.Join(dir, n), []byte("x"), 0600))
	}
}

func TestPickLocalWithoutRepeats(t *testing.T) {
	dir := t.TempDir()
	writeFiles(t, dir, "a.png", "b.jpg", "notes.txt")
	require.NoError(t, os.Mkdir(filepath.Join(dir, "sub.png"), 0700))

	h := &memHistory{sent: map[int64][]string{}}
	p := NewPicker(dir, h, &fakeRemote{err: errors.New("unused")}, 1<<20)
	p.pick = func(int) int { return 0 }

	first, err := p.Pick(context.Background(), 1)
	require.NoError(t, err)
	second, err := p.Pick(context.Background(), 1)
	require.NoError(t, err)

	assert.ElementsMatch(t, []string{"a.png", "b.jpg"}, []string{first.Name, second.Name})
	assert.Equal(t, filepath.Join(dir, first.Name), first.Path)

	third, err := p.Pick(context.Background(), 1)
	require.NoError(t, err)
	assert.Equal(t, 1, h.resets)
	assert.Equal(t, "a.png", third.Name)
	assert.Equal(t, []string{"a.png"}, h.sent[1])
}

func TestPickFallsBackToRemote(t *testing.T) {
	h := &memHistory{sent: map[int64][]string{}}
	remote := &fakeRemote{url: "https://i.waifu.pics/abc.jpg", data: []byte{0xff, 0xd8}}
	p := NewPicker(filepath.Join(t.TempDir(), "missing"), h, remote, 1<<20)

	got, err := p.Pick(context.Background(), 1)
	require.NoError(t, err)
	assert.Equal(t, "abc.jpg", got.Name)
	assert.Equal(t, remote.data, got.Data)
	assert.Empty(t, got.Path)
}

func TestPickRemoteError(t *testing.T) {
	h := &memHistory{sent: map[int64][]string{}}
	p := NewPicker(t.TempDir(), h, &fakeRemote{err: errors.New("down")}, 1<<20)

	_, err := p.Pick(context.Background(), 1)
	assert.Error(t, err)
}
