package llm

import (
	"context"
	"fmt"
	"sync"
	"sync/atomic"

	"github.com/yukibot/yuki/internal/config"
	"github.com/yukibot/yuki/internal/core"
)

// DynamicProvider lets the owner switch the chat model at runtime.
type DynamicProvider struct {
	cfg     *config.ProviderConfig
	current atomic.Value
	mu      sync.RWMutex
	build   func(ctx context.Context, cfg *config.ProviderConfig) (core.ChatProvider, error)
}

func NewDynamicProvider(ctx context.Context, cfg *config.ProviderConfig) (*DynamicProvider, error) {
	return newDynamicProvider(ctx, cfg, NewProvider)
}

func newDynamicProvider(
	ctx context.Context,
	cfg *config.ProviderConfig,
	build func(ctx context.Context, cfg *config.ProviderConfig) (core.ChatProvider, error),
) (*DynamicProvider, error) {
	d := &DynamicProvider{cfg: cfg, build: build}

	provider, err := build(ctx, cfg)
	if err != nil {
		return nil, fmt.Errorf("failed to create initial provider: %w", err)
	}

	d.current.Store(holder{provider})
	return d, nil
}

type holder struct {
	core.ChatProvider
}

func (d *DynamicProvider) Chat(ctx context.Context, history []core.Message, prompt core.Prompt) (string, error) {
	return d.current.Load().(holder).Chat(ctx, history, prompt)
}

func (d *DynamicProvider) GetProvider() string {
	d.mu.RLock()
	defer d.mu.RUnlock()
	return d.cfg.Provider
}

func (d *DynamicProvider) GetModel() string {
	d.mu.RLock()
	defer d.mu.RUnlock()
	return d.cfg.Model
}

func (d *DynamicProvider) SetModel(ctx context.Context, model string) error {
	d.mu.Lock()
	defer d.mu.Unlock()

	next := *d.cfg
	next.Model = model

	provider, err := d.build(ctx, &next)
	if err != nil {
		return fmt.Errorf("failed to create provider: %w", err)
	}

	d.cfg = &next
	d.current.Store(holder{provider})
	return nil
}
