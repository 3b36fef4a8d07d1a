package waifu

import (
	"context"
	"errors"
	"fmt"
	"math/rand/v2"
	"os"
	"path/filepath"
	"strings"

	"github.com/yukibot/yuki/internal/core"
	"github.com/yukibot/yuki/internal/providers/media"
	"github.com/yukibot/yuki/pkg/log"
)

// Remote fetches a random picture when the local folder has nothing to offer.
type Remote interface {
	RandomWaifu(ctx context.Context) (string, error)
	Download(ctx context.Context, url string, limit int64) ([]byte, error)
}

// Picker hands out local pictures without repeats per user. When every file
// was sent, the user's history starts over.
type Picker struct {
	folder   string
	history  core.WaifuHistoryRepository
	remote   Remote
	maxBytes int64
	pick     func(n int) int
}

func NewPicker(folder string, history core.WaifuHistoryRepository, remote Remote, maxBytes int64) *Picker {
	return &Picker{
		folder:   folder,
		history:  history,
		remote:   remote,
		maxBytes: maxBytes,
		pick:     rand.IntN,
	}
}

// Pick returns a picture file for userID, local first.
func (p *Picker) Pick(ctx context.Context, userID int64) (core.File, error) {
	logger := log.FromCtx(ctx)

	file, err := p.pickLocal(ctx, userID)
	if err == nil {
		return file, nil
	}
	if !errors.Is(err, core.ErrNotFound) {
		logger.Warn().Err(err).Msg("local waifu lookup failed")
	}

	url, err := p.remote.RandomWaifu(ctx)
	if err != nil {
		return core.File{}, fmt.Errorf("random waifu: %w", err)
	}
	data, err := p.remote.Download(ctx, url, p.maxBytes)
	if err != nil {
		return core.File{}, fmt.Errorf("download waifu: %w", err)
	}
	return core.File{Name: filepath.Base(url), Data: data}, nil
}

func (p *Picker) pickLocal(ctx context.Context, userID int64) (core.File, error) {
	names, err := p.list()
	if err != nil {
		return core.File{}, err
	}
	if len(names) == 0 {
		return core.File{}, core.ErrNotFound
	}

	sent, err := p.history.SentWaifus(ctx, userID)
	if err != nil {
		return core.File{}, err
	}
	seen := make(map[string]struct{}, len(sent))
	for _, s := range sent {
		seen[s] = struct{}{}
	}

	fresh := make([]string, 0, len(names))
	for _, n := range names {
		if _, ok := seen[n]; !ok {
			fresh = append(fresh, n)
		}
	}
	if len(fresh) == 0 {
		if err := p.history.ResetWaifus(ctx, userID); err != nil {
			return core.File{}, err
		}
		log.FromCtx(ctx).Debug().Int64("user_id", userID).Msg("waifu history exhausted, starting over")
		fresh = names
	}

	name := fresh[p.pick(len(fresh))]
	if err := p.history.MarkWaifuSent(ctx, userID, name); err != nil {
		return core.File{}, err
	}
	return core.File{Name: name, Path: filepath.Join(p.folder, name)}, nil
}

func (p *Picker) list() ([]string, error) {
	entries, err := os.ReadDir(p.folder)
	if errors.Is(err, os.ErrNotExist) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}

	var names []string
	for _, e := range entries {
		if e.IsDir() {
			continue
		}
		if media.IsSupportedExt(strings.ToLower(filepath.Ext(e.Name()))) {
			names = append(names, e.Name())
		}
	}
	return names, nil
}
