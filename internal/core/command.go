package core

import (
	"context"
	"strings"
	"time"
)

type ReplyKind int

const (
	ReplyText ReplyKind = iota
	ReplyHTML
	ReplyMarkdown
	ReplyPhoto
	ReplyDocument
	ReplyVideo
	ReplyAudio
)

type File struct {
	Name string
	Data []byte
	// Path is used when Data is empty.
	Path string
}

// Choice is an inline button. Data built with CallbackData is routed back to
// the named command.
type Choice struct {
	Label string
	Data  string
}

type Reply struct {
	Kind    ReplyKind
	Text    string
	File    *File
	Choices []Choice
	// Transient replies are removed by the transport after TTL, or after the
	// transport default when TTL is zero.
	Transient bool
	TTL       time.Duration
}

type Request struct {
	UserID int64
	ChatID int64
	Lang   string
	Args   []string
	Raw    string
	// Notify delivers a reply before the command returns, e.g. a progress
	// notice ahead of a slow download. May be nil.
	Notify func(Reply)
}

func (r Request) Send(reply Reply) {
	if r.Notify != nil {
		r.Notify(reply)
	}
}

type Command interface {
	Name() string
	// Description returns the locale message id of the short help line.
	Description() string
	Execute(ctx context.Context, req Request) ([]Reply, error)
}

// CallbackHandler is implemented by commands that emit Choices.
type CallbackHandler interface {
	HandleCallback(ctx context.Context, req Request, data string) ([]Reply, error)
}

type CmdRouter interface {
	Execute(ctx context.Context, req Request, input string) ([]Reply, bool)
	Callback(ctx context.Context, req Request, data string) ([]Reply, bool)
	ListCommands() []Command
}

func TextReply(text string) Reply {
	return Reply{Kind: ReplyText, Text: text}
}

func HTMLReply(text string) Reply {
	return Reply{Kind: ReplyHTML, Text: text}
}

// TransientReply is an HTML notice the transport deletes after a short delay.
func TransientReply(text string) Reply {
	return Reply{Kind: ReplyHTML, Text: text, Transient: true}
}

func TransientFor(text string, ttl time.Duration) Reply {
	return Reply{Kind: ReplyHTML, Text: text, Transient: true, TTL: ttl}
}

const callbackSep = "|"

func CallbackData(command, payload string) string {
	return command + callbackSep + payload
}

// ParseCallback splits data produced by CallbackData.
func ParseCallback(data string) (command, payload string, ok bool) {
	return strings.Cut(data, callbackSep)
}
