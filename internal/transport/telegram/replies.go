package telegram

import (
	"bytes"
	"errors"

	"github.com/yukibot/yuki/internal/core"
	"github.com/yukibot/yuki/internal/locales"
	"github.com/yukibot/yuki/internal/providers/media"
	tele "gopkg.in/telebot.v3"
)

// chatError turns an assistant failure into a user-facing message.
func chatError(l *locales.Localizer, err error) string {
	var blocked *core.BlockedError
	switch {
	case errors.As(err, &blocked):
		return l.T("AIBlocked", map[string]any{"Reason": blocked.Reason})
	case errors.Is(err, core.ErrEmptyResponse):
		return l.T("AIEmpty", nil)
	case errors.Is(err, core.ErrServiceDisabled):
		return l.T("AIServiceDisabled", nil)
	}
	return l.T("AIError", nil)
}

func photoErrorID(err error) string {
	switch {
	case errors.Is(err, core.ErrTooLarge):
		return "PhotoTooLarge"
	case errors.Is(err, media.ErrNotImage):
		return "PhotoNotImage"
	case errors.Is(err, media.ErrCorruptImage):
		return "PhotoCorrupted"
	case errors.Is(err, core.ErrUnsupportedImage):
		return "PhotoUnsupported"
	}
	return "AIError"
}

func keyboard(choices []core.Choice) *tele.ReplyMarkup {
	if len(choices) == 0 {
		return nil
	}
	rows := make([][]tele.InlineButton, 0, len(choices))
	for _, c := range choices {
		rows = append(rows, []tele.InlineButton{{Text: c.Label, Data: c.Data}})
	}
	return &tele.ReplyMarkup{InlineKeyboard: rows}
}

func inputFile(f *core.File) tele.File {
	if len(f.Data) > 0 {
		return tele.FromReader(bytes.NewReader(f.Data))
	}
	return tele.FromDisk(f.Path)
}

// outgoing maps a reply to a telebot payload and its send options.
func outgoing(r core.Reply) (interface{}, []interface{}) {
	var opts []interface{}
	if kb := keyboard(r.Choices); kb != nil {
		opts = append(opts, kb)
	}

	switch r.Kind {
	case core.ReplyHTML:
		return r.Text, append(opts, tele.ModeHTML, tele.NoPreview)
	case core.ReplyPhoto:
		return &tele.Photo{File: inputFile(r.File), Caption: r.Text}, append(opts, tele.ModeHTML)
	case core.ReplyDocument:
		return &tele.Document{File: inputFile(r.File), FileName: r.File.Name, Caption: r.Text}, append(opts, tele.ModeHTML)
	case core.ReplyVideo:
		return &tele.Video{File: inputFile(r.File), FileName: r.File.Name, Caption: r.Text}, append(opts, tele.ModeHTML)
	case core.ReplyAudio:
		return &tele.Audio{File: inputFile(r.File), FileName: r.File.Name, Caption: r.Text}, append(opts, tele.ModeHTML)
	}
	return r.Text, opts
}
