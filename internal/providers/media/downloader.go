package media

import (
	"context"
	"errors"
	"fmt"
	"net/url"
	"os"
	"os/exec"
	"path/filepath"
	"regexp"
	"strings"

	"github.com/google/uuid"
	"github.com/yukibot/yuki/internal/core"
	"github.com/yukibot/yuki/pkg/log"
)

type Format string

const (
	FormatVideo Format = "video"
	FormatAudio Format = "audio"
)

var (
	ErrPrivate     = errors.New("private video")
	ErrUnavailable = errors.New("video unavailable")
	ErrNoFile      = errors.New("downloader produced no file")
)

const maxFilesizeMsg = "File is larger than max-filesize"

var urlRe = regexp.MustCompile(`^https?://`)

// Runner executes a command and returns its combined output.
type Runner func(ctx context.Context, name string, args ...string) ([]byte, error)

func execRunner(ctx context.Context, name string, args ...string) ([]byte, error) {
	return exec.CommandContext(ctx, name, args...).CombinedOutput()
}

type Downloader struct {
	bin      string
	dir      string
	maxBytes int64
	run      Runner
}

func NewDownloader(dir string, maxBytes int64) *Downloader {
	return &Downloader{bin: "yt-dlp", dir: dir, maxBytes: maxBytes, run: execRunner}
}

type File struct {
	Path string
	Name string
	Size int64
}

// Download fetches query (a URL or free-text search) in the given format.
// The returned cleanup removes every temporary file of the job.
func (d *Downloader) Download(ctx context.Context, query string, format Format) (File, func(), error) {
	logger := log.FromCtx(ctx)
	target := NormalizeQuery(query)
	if IsUnsupported(target) {
		return File{}, func() {}, fmt.Errorf("%w: %s", core.ErrUnsupportedURL, target)
	}

	if err := os.MkdirAll(d.dir, 0755); err != nil {
		return File{}, func() {}, fmt.Errorf("create download dir: %w", err)
	}

	id := uuid.NewString()
	pattern := filepath.Join(d.dir, id+".*")
	cleanup := func() {
		matches, _ := filepath.Glob(pattern)
		for _, m := range matches {
			if err := os.Remove(m); err != nil {
				logger.Warn().Err(err).Str("file", m).Msg("failed to remove temporary file")
			}
		}
	}

	args := d.args(filepath.Join(d.dir, id+".%(ext)s"), format, target)
	logger.Debug().Str("query", target).Str("format", string(format)).Msg("starting yt-dlp")

	out, err := d.run(ctx, d.bin, args...)
	if err != nil {
		return File{}, cleanup, classify(string(out), err)
	}

	matches, _ := filepath.Glob(pattern)
	if len(matches) == 0 {
		// yt-dlp skips files over --max-filesize and still exits 0.
		if strings.Contains(string(out), maxFilesizeMsg) {
			return File{}, cleanup, fmt.Errorf("%w: over %d bytes", core.ErrTooLarge, d.maxBytes)
		}
		return File{}, cleanup, ErrNoFile
	}

	info, err := os.Stat(matches[0])
	if err != nil {
		return File{}, cleanup, fmt.Errorf("stat download: %w", err)
	}
	if info.Size() == 0 {
		return File{}, cleanup, ErrNoFile
	}
	if info.Size() > d.maxBytes {
		return File{}, cleanup, fmt.Errorf("%w: %d bytes", core.ErrTooLarge, info.Size())
	}

	return File{Path: matches[0], Name: filepath.Base(matches[0]), Size: info.Size()}, cleanup, nil
}

func (d *Downloader) args(output string, format Format, target string) []string {
	args := []string{
		"--no-progress", "--no-warnings",
		"--no-playlist",
		"--restrict-filenames",
		"--no-check-certificates",
		"--default-search", "ytsearch",
		"--max-filesize", fmt.Sprintf("%d", d.maxBytes),
		"--add-metadata",
		"-o", output,
	}

	switch format {
	case FormatAudio:
		args = append(args, "-f", "bestaudio/best", "-x", "--audio-format", "mp3", "--audio-quality", "192K")
	default:
		args = append(args,
			"-f", "bestvideo[ext=mp4]+bestaudio[ext=m4a]/bestvideo+bestaudio/best",
			"--merge-output-format", "mp4")
	}
	return append(args, target)
}

// NormalizeQuery turns free text into a YouTube search.
func NormalizeQuery(query string) string {
	query = strings.TrimSpace(query)
	if urlRe.MatchString(query) {
		return query
	}
	return "ytsearch:" + query
}

// IsUnsupported reports TikTok photo posts and stories.
func IsUnsupported(raw string) bool {
	if !strings.Contains(raw, "tiktok.com") {
		return false
	}
	u, err := url.Parse(raw)
	if err != nil {
		return false
	}
	if strings.Contains(u.Path, "/photo/") || strings.HasSuffix(u.Path, "/photo") {
		return true
	}
	return u.Query().Get("aweme_type") == "150"
}

func classify(output string, err error) error {
	switch {
	case strings.Contains(output, "Unsupported URL"):
		return fmt.Errorf("%w: %v", core.ErrUnsupportedURL, err)
	case strings.Contains(output, "Private video"):
		return fmt.Errorf("%w: %v", ErrPrivate, err)
	case strings.Contains(output, "This video is unavailable"):
		return fmt.Errorf("%w: %v", ErrUnavailable, err)
	case strings.Contains(output, maxFilesizeMsg):
		return fmt.Errorf("%w: %v", core.ErrTooLarge, err)
	}
	return fmt.Errorf("yt-dlp: %w: %s", err, strings.TrimSpace(output))
}
