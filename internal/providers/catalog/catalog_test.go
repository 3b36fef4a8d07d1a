package catalog

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/yukibot/yuki/internal/core"
	"github.com/yukibot/yuki/pkg/retry"
)

func fastRetry() *retry.Config {
	return &retry.Config{
		MaxRetries:    2,
		BackoffFactor: 1,
		InitialDelay:  time.Millisecond,
		MaxDelay:      time.Millisecond,
	}
}

func newTestClient(t *testing.T, handler http.Handler) *Client {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)

	return NewClient(Options{
		GitHubAPI:  srv.URL,
		ModulesURL: srv.URL + "/modules.json",
		WaifuURL:   srv.URL + "/waifu",
		Retry:      fastRetry(),
	})
}

func TestLatestRelease(t *testing.T) {
	c := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/repos/topjohnwu/Magisk/releases/latest", r.URL.Path)
		assert.Equal(t, core.UserAgent, r.Header.Get("User-Agent"))
		_, _ = w.Write([]byte(`{"tag_name":"v28.1","assets":[
			{"name":"notes.txt","browser_download_url":"http://x/notes.txt"},
			{"name":"Magisk-v28.1.apk","browser_download_url":"http://x/Magisk-v28.1.apk"}]}`))
	}))

	rel, err := c.LatestRelease(context.Background(), "topjohnwu/Magisk", ".apk")
	require.NoError(t, err)
	assert.Equal(t, Release{Tag: "v28.1", AssetName: "Magisk-v28.1.apk", DownloadURL: "http://x/Magisk-v28.1.apk"}, rel)

	_, err = c.LatestRelease(context.Background(), "topjohnwu/Magisk", ".zip")
	assert.ErrorIs(t, err, ErrNoAsset)
}

func TestGetRetriesServerErrorsOnly(t *testing.T) {
	var calls atomic.Int32
	c := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		n := calls.Add(1)
		switch r.URL.Path {
		case "/waifu":
			if n == 1 {
				http.Error(w, "busy", http.StatusBadGateway)
				return
			}
			_, _ = w.Write([]byte(`{"url":"https://i.waifu.pics/abc.png"}`))
		default:
			http.NotFound(w, r)
		}
	}))

	url, err := c.RandomWaifu(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "https://i.waifu.pics/abc.png", url)
	assert.Equal(t, int32(2), calls.Load())

	calls.Store(0)
	_, err = c.LatestRelease(context.Background(), "missing/repo", ".apk")
	assert.ErrorIs(t, err, core.ErrNotFound)
	assert.Equal(t, int32(1), calls.Load())
}

func TestModulesSortedAndCached(t *testing.T) {
	var calls atomic.Int32
	c := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		_, _ = w.Write([]byte(`{"modules":[
			{"id":"low","name":"Low","stars":1},
			{"id":"top","name":"Top","description":"Zygisk helper","stars":90},
			{"id":"mid","name":"Mid","stars":40}]}`))
	}))
	ctx := context.Background()

	mods, err := c.Modules(ctx)
	require.NoError(t, err)
	require.Len(t, mods, 3)
	assert.Equal(t, []string{"top", "mid", "low"}, []string{mods[0].ID, mods[1].ID, mods[2].ID})

	found, err := c.SearchModules(ctx, "zygisk", 5)
	require.NoError(t, err)
	require.Len(t, found, 1)
	assert.Equal(t, "top", found[0].ID)

	page, err := c.SearchModules(ctx, "", 2)
	require.NoError(t, err)
	assert.Len(t, page, 2)

	m, err := c.Module(ctx, "mid")
	require.NoError(t, err)
	assert.Equal(t, 40, m.Stars)

	_, err = c.Module(ctx, "nope")
	assert.ErrorIs(t, err, core.ErrNotFound)

	assert.Equal(t, int32(1), calls.Load())
}

func TestDownloadLimit(t *testing.T) {
	c := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(strings.Repeat("z", 100)))
	}))

	data, err := c.Download(context.Background(), c.opts.GitHubAPI+"/file.zip", 100)
	require.NoError(t, err)
	assert.Len(t, data, 100)

	_, err = c.Download(context.Background(), c.opts.GitHubAPI+"/file.zip", 99)
	assert.ErrorIs(t, err, core.ErrTooLarge)
}

func TestReadmeWithoutNotes(t *testing.T) {
	c := NewClient(Options{})
	_, err := c.Readme(context.Background(), Module{ID: "x"})
	assert.ErrorIs(t, err, core.ErrNotFound)
}
