package catalog

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/yukibot/yuki/internal/core"
	"github.com/yukibot/yuki/pkg/retry"
)

type Module struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	Version     string `json:"version"`
	Author      string `json:"author"`
	Description string `json:"description"`
	Stars       int    `json:"stars"`
	NotesURL    string `json:"notes_url"`
	ZipURL      string `json:"zip_url"`
}

type moduleCache struct {
	mu      sync.Mutex
	modules []Module
	fetched time.Time
}

// Modules returns the module index sorted by stars, most starred first.
func (c *Client) Modules(ctx context.Context) ([]Module, error) {
	c.modules.mu.Lock()
	defer c.modules.mu.Unlock()

	if c.modules.modules != nil && time.Since(c.modules.fetched) < c.opts.ModulesTTL {
		return c.modules.modules, nil
	}

	var index struct {
		Modules []Module `json:"modules"`
	}
	err := c.get(ctx, c.opts.ModulesURL, func(resp *http.Response) error {
		if err := json.NewDecoder(io.LimitReader(resp.Body, maxMetadataSize*4)).Decode(&index); err != nil {
			return retry.Permanent(fmt.Errorf("decode modules: %w", err))
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	sort.SliceStable(index.Modules, func(i, j int) bool {
		return index.Modules[i].Stars > index.Modules[j].Stars
	})

	c.modules.modules = index.Modules
	c.modules.fetched = time.Now()
	return index.Modules, nil
}

// SearchModules filters the index by a case-insensitive query over id, name
// and description and returns at most limit entries, or every match when
// limit is not positive.
func (c *Client) SearchModules(ctx context.Context, query string, limit int) ([]Module, error) {
	all, err := c.Modules(ctx)
	if err != nil {
		return nil, err
	}

	query = strings.ToLower(strings.TrimSpace(query))
	out := make([]Module, 0, max(limit, 0))
	for _, m := range all {
		if limit > 0 && len(out) == limit {
			break
		}
		if query == "" || matches(m, query) {
			out = append(out, m)
		}
	}
	return out, nil
}

func (c *Client) Module(ctx context.Context, id string) (Module, error) {
	all, err := c.Modules(ctx)
	if err != nil {
		return Module{}, err
	}
	for _, m := range all {
		if m.ID == id {
			return m, nil
		}
	}
	return Module{}, fmt.Errorf("module %q: %w", id, core.ErrNotFound)
}

// Readme fetches the module notes as raw Markdown.
func (c *Client) Readme(ctx context.Context, m Module) ([]byte, error) {
	if m.NotesURL == "" {
		return nil, fmt.Errorf("module %q has no notes: %w", m.ID, core.ErrNotFound)
	}
	return c.Download(ctx, m.NotesURL, maxMetadataSize)
}

func matches(m Module, query string) bool {
	for _, s := range []string{m.ID, m.Name, m.Description} {
		if strings.Contains(strings.ToLower(s), query) {
			return true
		}
	}
	return false
}
