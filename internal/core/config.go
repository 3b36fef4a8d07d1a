package core

type PromptConfig interface {
	GetOwnerPromptPath() string
	GetUserPromptPath() string
}

type TelegramConfig interface {
	GetTelegramToken() string
	GetTelegramOwnerID() int64
}
