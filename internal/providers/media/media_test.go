package media

import (
	"bytes"
	"context"
	"errors"
	"image"
	"image/color"
	"image/png"
	"os"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/yukibot/yuki/internal/core"
)

func TestNormalizeQuery(t *testing.T) {
	assert.Equal(t, "https://youtu.be/dQw4w9WgXcQ", NormalizeQuery(" https://youtu.be/dQw4w9WgXcQ "))
	assert.Equal(t, "ytsearch:never gonna give you up", NormalizeQuery("never gonna give you up"))
}

func TestIsUnsupported(t *testing.T) {
	tests := []struct {
		url  string
		want bool
	}{
		{"https://www.tiktok.com/@user/photo/7300000000", true},
		{"https://www.tiktok.com/@user/video/7300000000?aweme_type=150", true},
		{"https://www.tiktok.com/@user/video/7300000000", false},
		{"https://youtube.com/photo/123", false},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, IsUnsupported(tt.url), tt.url)
	}
}

// fakeRunner writes size bytes to the -o template with the given extension.
func fakeRunner(ext string, size int, out string, err error) Runner {
	return func(ctx context.Context, name string, args ...string) ([]byte, error) {
		if err != nil {
			return []byte(out), err
		}
		for i, a := range args {
			if a == "-o" {
				path := strings.Replace(args[i+1], "%(ext)s", ext, 1)
				if werr := os.WriteFile(path, bytes.Repeat([]byte("a"), size), 0644); werr != nil {
					return nil, werr
				}
			}
		}
		return nil, nil
	}
}

// outputRunner exits cleanly with out and writes no file.
func outputRunner(out string) Runner {
	return func(context.Context, string, ...string) ([]byte, error) {
		return []byte(out), nil
	}
}

func newTestDownloader(t *testing.T, run Runner, max int64) *Downloader {
	d := NewDownloader(t.TempDir(), max)
	d.run = run
	return d
}

func TestDownload(t *testing.T) {
	d := newTestDownloader(t, fakeRunner("mp4", 10, "", nil), 100)

	f, cleanup, err := d.Download(context.Background(), "https://youtu.be/x", FormatVideo)
	require.NoError(t, err)
	assert.Equal(t, int64(10), f.Size)
	assert.True(t, strings.HasSuffix(f.Name, ".mp4"))

	cleanup()
	_, statErr := os.Stat(f.Path)
	assert.True(t, os.IsNotExist(statErr))
}

func TestDownloadErrors(t *testing.T) {
	ctx := context.Background()
	fail := errors.New("exit status 1")

	_, cleanup, err := newTestDownloader(t, fakeRunner("mp4", 200, "", nil), 100).Download(ctx, "cats", FormatVideo)
	defer cleanup()
	assert.ErrorIs(t, err, core.ErrTooLarge)

	_, _, err = newTestDownloader(t, fakeRunner("", 0, "ERROR: Unsupported URL: x", fail), 100).Download(ctx, "https://x.y", FormatAudio)
	assert.ErrorIs(t, err, core.ErrUnsupportedURL)

	_, _, err = newTestDownloader(t, fakeRunner("", 0, "ERROR: Private video", fail), 100).Download(ctx, "https://x.y", FormatAudio)
	assert.ErrorIs(t, err, ErrPrivate)

	_, _, err = newTestDownloader(t, fakeRunner("", 0, "ERROR: This video is unavailable", fail), 100).Download(ctx, "https://x.y", FormatAudio)
	assert.ErrorIs(t, err, ErrUnavailable)

	_, _, err = newTestDownloader(t, fakeRunner("mp3", 0, "", nil), 100).Download(ctx, "https://x.y", FormatAudio)
	assert.ErrorIs(t, err, ErrNoFile)

	_, _, err = newTestDownloader(t, outputRunner("[download] File is larger than max-filesize (500 bytes > 100 bytes). Aborting."), 100).Download(ctx, "https://x.y", FormatVideo)
	assert.ErrorIs(t, err, core.ErrTooLarge)

	_, _, err = newTestDownloader(t, outputRunner("[youtube] x: Downloading webpage"), 100).Download(ctx, "https://x.y", FormatVideo)
	assert.ErrorIs(t, err, ErrNoFile)

	_, _, err = newTestDownloader(t, fakeRunner("mp4", 1, "", nil), 100).Download(ctx, "https://www.tiktok.com/@u/photo/1", FormatVideo)
	assert.ErrorIs(t, err, core.ErrUnsupportedURL)
}

func TestDownloadArgs(t *testing.T) {
	d := NewDownloader("/tmp", 50)
	audio := d.args("/tmp/x.%(ext)s", FormatAudio, "ytsearch:song")
	assert.Contains(t, audio, "-x")
	assert.NotContains(t, audio, "--quiet")
	assert.Equal(t, "ytsearch:song", audio[len(audio)-1])

	video := d.args("/tmp/x.%(ext)s", FormatVideo, "https://a.b")
	assert.Contains(t, video, "--merge-output-format")
	assert.NotContains(t, video, "-x")
}

func TestCheckImageMeta(t *testing.T) {
	assert.NoError(t, CheckImageMeta("photos/file_1.jpg", 1024, 10<<20))
	assert.ErrorIs(t, CheckImageMeta("photos/file_1.jpg", 11<<20, 10<<20), core.ErrTooLarge)
	assert.ErrorIs(t, CheckImageMeta("docs/file.pdf", 10, 10<<20), core.ErrUnsupportedImage)
}

func TestDecodeImage(t *testing.T) {
	img := image.NewRGBA(image.Rect(0, 0, 2, 2))
	img.Set(0, 0, color.White)
	var buf bytes.Buffer
	require.NoError(t, png.Encode(&buf, img))

	got, err := DecodeImage(buf.Bytes())
	require.NoError(t, err)
	assert.Equal(t, "image/png", got.MIME)

	_, err = DecodeImage([]byte("not an image"))
	assert.ErrorIs(t, err, core.ErrUnsupportedImage)
	assert.ErrorIs(t, err, ErrCorruptImage)
}

func TestCheckMIME(t *testing.T) {
	assert.NoError(t, CheckMIME("image/webp"))
	assert.ErrorIs(t, CheckMIME("application/pdf"), ErrNotImage)
}
