package llm

import (
	"context"
	"fmt"
	"strings"

	"github.com/yukibot/yuki/internal/core"
	"google.golang.org/genai"
)

// Params are the sampling settings shared by all providers.
type Params struct {
	Temperature     float32
	TopP            float32
	TopK            float32
	MaxOutputTokens int32
}

type modelsAPI interface {
	GenerateContent(ctx context.Context, model string, contents []*genai.Content, config *genai.GenerateContentConfig) (*genai.GenerateContentResponse, error)
	GenerateImages(ctx context.Context, model, prompt string, config *genai.GenerateImagesConfig) (*genai.GenerateImagesResponse, error)
}

type Gemini struct {
	models     modelsAPI
	model      string
	imageModel string
	config     *genai.GenerateContentConfig
}

func NewGemini(ctx context.Context, apiKey, model, imageModel string, params Params) (*Gemini, error) {
	client, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey:  apiKey,
		Backend: genai.BackendGeminiAPI,
	})
	if err != nil {
		return nil, fmt.Errorf("create gemini client: %w", err)
	}
	return newGemini(client.Models, model, imageModel, params), nil
}

func newGemini(models modelsAPI, model, imageModel string, params Params) *Gemini {
	return &Gemini{
		models:     models,
		model:      model,
		imageModel: imageModel,
		config:     generationConfig(params),
	}
}

func generationConfig(p Params) *genai.GenerateContentConfig {
	// persona prompts are part of the transcript, so filtering is left to them
	categories := []genai.HarmCategory{
		genai.HarmCategoryHarassment,
		genai.HarmCategoryHateSpeech,
		genai.HarmCategorySexuallyExplicit,
		genai.HarmCategoryDangerousContent,
	}
	safety := make([]*genai.SafetySetting, 0, len(categories))
	for _, c := range categories {
		safety = append(safety, &genai.SafetySetting{
			Category:  c,
			Threshold: genai.HarmBlockThresholdBlockNone,
		})
	}

	return &genai.GenerateContentConfig{
		Temperature:     genai.Ptr(p.Temperature),
		TopP:            genai.Ptr(p.TopP),
		TopK:            genai.Ptr(p.TopK),
		MaxOutputTokens: p.MaxOutputTokens,
		SafetySettings:  safety,
	}
}

func (g *Gemini) Chat(ctx context.Context, history []core.Message, prompt core.Prompt) (string, error) {
	resp, err := g.models.GenerateContent(ctx, g.model, buildContents(history, prompt), g.config)
	if err != nil {
		return "", mapGeminiError(err)
	}

	text := resp.Text()
	if strings.TrimSpace(text) != "" {
		return text, nil
	}
	if resp.PromptFeedback != nil && resp.PromptFeedback.BlockReason != "" {
		return "", &core.BlockedError{Reason: string(resp.PromptFeedback.BlockReason)}
	}
	return "", core.ErrEmptyResponse
}

func (g *Gemini) GenerateImage(ctx context.Context, prompt string) ([]byte, error) {
	resp, err := g.models.GenerateImages(ctx, g.imageModel, prompt, &genai.GenerateImagesConfig{
		NumberOfImages: 1,
	})
	if err != nil {
		return nil, mapGeminiError(err)
	}
	if len(resp.GeneratedImages) == 0 || resp.GeneratedImages[0].Image == nil ||
		len(resp.GeneratedImages[0].Image.ImageBytes) == 0 {
		return nil, core.ErrEmptyResponse
	}
	return resp.GeneratedImages[0].Image.ImageBytes, nil
}

func buildContents(history []core.Message, prompt core.Prompt) []*genai.Content {
	contents := make([]*genai.Content, 0, len(history)+1)
	for _, m := range history {
		role := genai.RoleUser
		if m.Role == core.RoleModel {
			role = genai.RoleModel
		}
		contents = append(contents, genai.NewContentFromText(m.Content, role))
	}

	parts := make([]*genai.Part, 0, 2)
	if prompt.Text != "" {
		parts = append(parts, genai.NewPartFromText(prompt.Text))
	}
	if prompt.Image != nil {
		parts = append(parts, genai.NewPartFromBytes(prompt.Image.Data, prompt.Image.MIME))
	}
	return append(contents, genai.NewContentFromParts(parts, genai.RoleUser))
}

func mapGeminiError(err error) error {
	msg := err.Error()
	if strings.Contains(msg, "SERVICE_DISABLED") || strings.Contains(msg, "generativelanguage.googleapis.com") {
		return fmt.Errorf("%w: %v", core.ErrServiceDisabled, err)
	}
	return fmt.Errorf("gemini: %w", err)
}
