package llm

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/yukibot/yuki/internal/core"
	"github.com/yukibot/yuki/pkg/retry"
)

const (
	requestTimeout  = 120 * time.Second
	maxResponseSize = 8 << 20
)

// baseProvider is the HTTP plumbing shared by OpenAI-style endpoints.
type baseProvider struct {
	client  *http.Client
	retrier *retry.Retrier
	baseURL string
	apiKey  string
	model   string
}

func newBaseProvider(baseURL, apiKey, model string) baseProvider {
	return baseProvider{
		client: &http.Client{Timeout: requestTimeout},
		retrier: retry.NewRetrier(&retry.Config{
			MaxRetries:    2,
			BackoffFactor: 2,
			InitialDelay:  time.Second,
			MaxDelay:      10 * time.Second,
			Jitter:        200 * time.Millisecond,
		}),
		baseURL: baseURL,
		apiKey:  apiKey,
		model:   model,
	}
}

// postJSON returns the status and body of the final attempt. Rate limits,
// server errors and network failures are retried; any other status is handed
// back to the caller as is.
func (b *baseProvider) postJSON(ctx context.Context, path string, body any, headers map[string]string) (int, []byte, error) {
	payload, err := json.Marshal(body)
	if err != nil {
		return 0, nil, fmt.Errorf("marshal: %w", err)
	}

	var (
		status int
		data   []byte
	)
	err = b.retrier.Do(ctx, func() error {
		req, err := http.NewRequestWithContext(ctx, http.MethodPost, b.baseURL+path, bytes.NewReader(payload))
		if err != nil {
			return retry.Permanent(fmt.Errorf("create request: %w", err))
		}
		for k, v := range headers {
			req.Header.Set(k, v)
		}
		req.Header.Set("Content-Type", "application/json")
		req.Header.Set("User-Agent", core.UserAgent)

		resp, err := b.client.Do(req)
		if err != nil {
			return fmt.Errorf("request: %w", err)
		}
		defer resp.Body.Close()

		data, err = io.ReadAll(io.LimitReader(resp.Body, maxResponseSize))
		if err != nil {
			return fmt.Errorf("read body: %w", err)
		}
		status = resp.StatusCode
		if status == http.StatusTooManyRequests || status >= http.StatusInternalServerError {
			return fmt.Errorf("http %d: %s", status, data)
		}
		return nil
	})
	if err != nil {
		return 0, nil, err
	}
	return status, data, nil
}
