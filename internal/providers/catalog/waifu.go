package catalog

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"

	"github.com/yukibot/yuki/pkg/retry"
)

// RandomWaifu asks waifu.pics for a random safe-for-work picture URL.
func (c *Client) RandomWaifu(ctx context.Context) (string, error) {
	var payload struct {
		URL string `json:"url"`
	}
	err := c.get(ctx, c.opts.WaifuURL, func(resp *http.Response) error {
		if err := json.NewDecoder(io.LimitReader(resp.Body, maxMetadataSize)).Decode(&payload); err != nil {
			return retry.Permanent(fmt.Errorf("decode waifu: %w", err))
		}
		return nil
	})
	if err != nil {
		return "", err
	}
	if payload.URL == "" {
		return "", errors.New("waifu api returned an empty url")
	}
	return payload.URL, nil
}
