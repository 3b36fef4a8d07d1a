package core

import "context"

type ChatProvider interface {
	Chat(ctx context.Context, history []Message, prompt Prompt) (string, error)
}

type ImageGenerator interface {
	GenerateImage(ctx context.Context, prompt string) ([]byte, error)
}
