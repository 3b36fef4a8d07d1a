package llm

import (
	"context"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"

	"github.com/yukibot/yuki/internal/core"
)

type OpenAICompatible struct {
	baseProvider
	authHeader   string
	authPrefix   string
	extraHeaders map[string]string
	params       Params
}

type OpenAICompatibleConfig struct {
	BaseURL      string
	APIKey       string
	Model        string
	AuthHeader   string // e.g., "Authorization"
	AuthPrefix   string // e.g., "Bearer "
	ExtraHeaders map[string]string
	Params       Params
}

func NewOpenAICompatible(cfg OpenAICompatibleConfig) *OpenAICompatible {
	return &OpenAICompatible{
		baseProvider: newBaseProvider(cfg.BaseURL, cfg.APIKey, cfg.Model),
		authHeader:   cfg.AuthHeader,
		authPrefix:   cfg.AuthPrefix,
		extraHeaders: cfg.ExtraHeaders,
		params:       cfg.Params,
	}
}

type chatMessage struct {
	Role    string `json:"role"`
	Content any    `json:"content"`
}

type contentPart struct {
	Type     string    `json:"type"`
	Text     string    `json:"text,omitempty"`
	ImageURL *imageURL `json:"image_url,omitempty"`
}

type imageURL struct {
	URL string `json:"url"`
}

func (o *OpenAICompatible) Chat(ctx context.Context, history []core.Message, prompt core.Prompt) (string, error) {
	payload := map[string]any{
		"model":    o.model,
		"messages": buildOpenAIMessages(history, prompt),
	}
	if o.params.Temperature > 0 {
		payload["temperature"] = o.params.Temperature
	}
	if o.params.TopP > 0 {
		payload["top_p"] = o.params.TopP
	}
	if o.params.MaxOutputTokens > 0 {
		payload["max_tokens"] = o.params.MaxOutputTokens
	}

	headers := make(map[string]string)
	if o.authHeader != "" && o.apiKey != "" {
		headers[o.authHeader] = o.authPrefix + o.apiKey
	}
	for k, v := range o.extraHeaders {
		headers[k] = v
	}

	status, data, err := o.postJSON(ctx, "/v1/chat/completions", payload, headers)
	if err != nil {
		return "", err
	}
	return parseOpenAIResponse(status, data)
}

func buildOpenAIMessages(history []core.Message, prompt core.Prompt) []chatMessage {
	messages := make([]chatMessage, 0, len(history)+1)
	for _, m := range history {
		role := m.Role
		if role == core.RoleModel {
			role = "assistant"
		}
		messages = append(messages, chatMessage{Role: role, Content: m.Content})
	}

	if prompt.Image == nil {
		return append(messages, chatMessage{Role: core.RoleUser, Content: prompt.Text})
	}

	parts := make([]contentPart, 0, 2)
	if prompt.Text != "" {
		parts = append(parts, contentPart{Type: "text", Text: prompt.Text})
	}
	dataURL := "data:" + prompt.Image.MIME + ";base64," + base64.StdEncoding.EncodeToString(prompt.Image.Data)
	parts = append(parts, contentPart{Type: "image_url", ImageURL: &imageURL{URL: dataURL}})
	return append(messages, chatMessage{Role: core.RoleUser, Content: parts})
}

func parseOpenAIResponse(status int, data []byte) (string, error) {
	if status != http.StatusOK {
		return "", fmt.Errorf("http %d: %s", status, string(data))
	}

	var result struct {
		Choices []struct {
			Message struct {
				Content string `json:"content"`
			} `json:"message"`
			FinishReason string `json:"finish_reason"`
		} `json:"choices"`
	}
	if err := json.Unmarshal(data, &result); err != nil {
		return "", fmt.Errorf("decode: %w", err)
	}
	if len(result.Choices) == 0 {
		return "", fmt.Errorf("empty choices: %w", core.ErrEmptyResponse)
	}

	choice := result.Choices[0]
	if choice.FinishReason == "content_filter" {
		return "", &core.BlockedError{Reason: choice.FinishReason}
	}
	if strings.TrimSpace(choice.Message.Content) == "" {
		return "", core.ErrEmptyResponse
	}
	return choice.Message.Content, nil
}
