package core

import "context"

type TranscriptRepository interface {
	// GetTranscript returns an empty transcript with no persona for unknown users.
	GetTranscript(ctx context.Context, userID int64) (Transcript, error)
	// ResetTranscript drops stored turns and starts over with seed under persona.
	ResetTranscript(ctx context.Context, userID int64, persona Persona, seed []Message) error
	AppendMessages(ctx context.Context, userID int64, msgs ...Message) error
	DeleteTranscript(ctx context.Context, userID int64) error
}

type WaifuHistoryRepository interface {
	SentWaifus(ctx context.Context, userID int64) ([]string, error)
	MarkWaifuSent(ctx context.Context, userID int64, name string) error
	ResetWaifus(ctx context.Context, userID int64) error
}
