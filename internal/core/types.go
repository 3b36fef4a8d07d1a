package core

import "time"

const (
	AppName       = "Yuki"
	UserAgent     = "Yuki-Bot/0.1"
	RepositoryURL = "https://github.com/yukibot/yuki"
	Version       = "0.1.0"
)

const (
	RoleUser  = "user"
	RoleModel = "model"
)

// ImagePlaceholder replaces image payloads in stored transcripts.
const ImagePlaceholder = "IMAGE_PLACEHOLDER"

// WaifuMarker in an assistant reply asks the transport to send a waifu picture.
const WaifuMarker = "[CALL_WAIFU_COMMAND]"

type Persona string

const (
	PersonaOwner   Persona = "OWNER"
	PersonaRegular Persona = "REGULAR"
)

type Message struct {
	Role    string `json:"role"`
	Content string `json:"content"`
	// HasImage marks a user turn that carried an image; the bytes are not kept.
	HasImage bool `json:"has_image,omitempty"`
}

type Image struct {
	Data []byte
	MIME string
}

// Prompt is a single user turn sent to a chat provider.
type Prompt struct {
	Text  string
	Image *Image
}

type Transcript struct {
	UserID    int64
	Persona   Persona
	Messages  []Message
	UpdatedAt time.Time
}
