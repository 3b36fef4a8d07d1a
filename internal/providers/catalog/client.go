package catalog

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"time"

	"github.com/yukibot/yuki/internal/core"
	"github.com/yukibot/yuki/pkg/retry"
)

const (
	defaultTimeout  = 30 * time.Second
	maxMetadataSize = 4 << 20
)

const (
	GitHubAPI  = "https://api.github.com"
	ModulesURL = "https://raw.githubusercontent.com/Magisk-Modules-Alt-Repo/json/main/modules.json"
	WaifuURL   = "https://api.waifu.pics/sfw/waifu"
)

type Options struct {
	GitHubAPI  string
	ModulesURL string
	WaifuURL   string
	Timeout    time.Duration
	Retry      *retry.Config
	// ModulesTTL controls how long the modules index is reused.
	ModulesTTL time.Duration
}

// Client fetches release, module and image metadata from public endpoints.
type Client struct {
	http    *http.Client
	retrier *retry.Retrier
	opts    Options
	modules moduleCache
}

func NewClient(opts Options) *Client {
	if opts.GitHubAPI == "" {
		opts.GitHubAPI = GitHubAPI
	}
	if opts.ModulesURL == "" {
		opts.ModulesURL = ModulesURL
	}
	if opts.WaifuURL == "" {
		opts.WaifuURL = WaifuURL
	}
	if opts.Timeout == 0 {
		opts.Timeout = defaultTimeout
	}
	if opts.Retry == nil {
		opts.Retry = retry.NewDefaultConfig()
	}
	if opts.ModulesTTL == 0 {
		opts.ModulesTTL = 10 * time.Minute
	}

	return &Client{
		http:    &http.Client{Timeout: opts.Timeout},
		retrier: retry.NewRetrier(opts.Retry),
		opts:    opts,
	}
}

// get performs a GET with retries and hands the successful response to read.
// Client errors other than 429 are not retried.
func (c *Client) get(ctx context.Context, url string, read func(resp *http.Response) error) error {
	return c.retrier.Do(ctx, func() error {
		req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
		if err != nil {
			return retry.Permanent(fmt.Errorf("failed to create request: %w", err))
		}
		req.Header.Set("User-Agent", core.UserAgent)

		resp, err := c.http.Do(req)
		if err != nil {
			return fmt.Errorf("failed to fetch %s: %w", url, err)
		}
		defer resp.Body.Close()

		if resp.StatusCode >= 400 {
			err := fmt.Errorf("HTTP %d: %s", resp.StatusCode, resp.Status)
			switch {
			case resp.StatusCode == http.StatusNotFound:
				return retry.Permanent(fmt.Errorf("%w: %v", core.ErrNotFound, err))
			case resp.StatusCode == http.StatusTooManyRequests:
				if secs, convErr := strconv.Atoi(resp.Header.Get("Retry-After")); convErr == nil {
					return retry.After(time.Duration(secs)*time.Second, err)
				}
				return err
			case resp.StatusCode < 500:
				return retry.Permanent(err)
			}
			return err
		}

		return read(resp)
	})
}

// Download reads url into memory, failing with core.ErrTooLarge past limit bytes.
func (c *Client) Download(ctx context.Context, url string, limit int64) ([]byte, error) {
	var data []byte
	err := c.get(ctx, url, func(resp *http.Response) error {
		if resp.ContentLength > limit {
			return retry.Permanent(fmt.Errorf("%w: %d bytes", core.ErrTooLarge, resp.ContentLength))
		}

		body, err := io.ReadAll(io.LimitReader(resp.Body, limit+1))
		if err != nil {
			return fmt.Errorf("failed to read body: %w", err)
		}
		if int64(len(body)) > limit {
			return retry.Permanent(fmt.Errorf("%w: more than %d bytes", core.ErrTooLarge, limit))
		}
		data = body
		return nil
	})
	return data, err
}
