package telegram

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/yukibot/yuki/internal/core"
	"github.com/yukibot/yuki/internal/locales"
	"github.com/yukibot/yuki/internal/providers/media"
	tele "gopkg.in/telebot.v3"
)

func TestChatError(t *testing.T) {
	b, err := locales.New("en")
	require.NoError(t, err)
	l := b.For("en")

	blocked := fmt.Errorf("chat: %w", &core.BlockedError{Reason: "SAFETY"})
	assert.Contains(t, chatError(l, blocked), "Block reason: SAFETY.")
	assert.Equal(t, l.T("AIEmpty", nil), chatError(l, core.ErrEmptyResponse))
	assert.Equal(t, l.T("AIServiceDisabled", nil), chatError(l, fmt.Errorf("x: %w", core.ErrServiceDisabled)))
	assert.Equal(t, l.T("AIError", nil), chatError(l, errors.New("boom")))
}

func TestPhotoErrorID(t *testing.T) {
	assert.Equal(t, "PhotoTooLarge", photoErrorID(core.ErrTooLarge))
	assert.Equal(t, "PhotoNotImage", photoErrorID(media.CheckMIME("application/pdf")))
	assert.Equal(t, "PhotoUnsupported", photoErrorID(media.CheckImageMeta("a.bmp", 1, 10)))
	_, err := media.DecodeImage([]byte("junk"))
	assert.Equal(t, "PhotoCorrupted", photoErrorID(err))
	assert.Equal(t, "AIError", photoErrorID(errors.New("network")))
}

func TestOutgoing(t *testing.T) {
	what, opts := outgoing(core.Reply{
		Kind:    core.ReplyHTML,
		Text:    "<b>hi</b>",
		Choices: []core.Choice{{Label: "A", Data: "qdl|a"}, {Label: "B", Data: "qdl|b"}},
	})
	assert.Equal(t, "<b>hi</b>", what)
	require.NotEmpty(t, opts)
	kb, ok := opts[0].(*tele.ReplyMarkup)
	require.True(t, ok)
	require.Len(t, kb.InlineKeyboard, 2)
	assert.Equal(t, "qdl|b", kb.InlineKeyboard[1][0].Data)
	assert.Contains(t, opts, tele.ModeHTML)

	doc, _ := outgoing(core.Reply{Kind: core.ReplyDocument, Text: "cap", File: &core.File{Name: "m.zip", Data: []byte("z")}})
	d, ok := doc.(*tele.Document)
	require.True(t, ok)
	assert.Equal(t, "m.zip", d.FileName)
	assert.Equal(t, "cap", d.Caption)

	photo, _ := outgoing(core.Reply{Kind: core.ReplyPhoto, File: &core.File{Path: "/tmp/a.png"}})
	p, ok := photo.(*tele.Photo)
	require.True(t, ok)
	assert.Equal(t, "/tmp/a.png", p.File.FileLocal)

	plain, opts := outgoing(core.TextReply("x"))
	assert.Equal(t, "x", plain)
	assert.Empty(t, opts)
}
