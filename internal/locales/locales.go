// Package locales holds the bot's user-facing texts. Every message is Telegram
// HTML; string template data is escaped before rendering.
package locales

import (
	"embed"
	"encoding/json"
	"fmt"
	"html"

	"github.com/nicksnyder/go-i18n/v2/i18n"
	"golang.org/x/text/language"
)

//go:embed *.json
var files embed.FS

type Bundle struct {
	bundle   *i18n.Bundle
	fallback string
}

// New loads every embedded translation. fallback is used for users whose
// language has no file.
func New(fallback string) (*Bundle, error) {
	tag, err := language.Parse(fallback)
	if err != nil {
		return nil, fmt.Errorf("parse default language %q: %w", fallback, err)
	}

	b := i18n.NewBundle(tag)
	b.RegisterUnmarshalFunc("json", json.Unmarshal)

	entries, err := files.ReadDir(".")
	if err != nil {
		return nil, err
	}
	for _, e := range entries {
		if _, err := b.LoadMessageFileFS(files, e.Name()); err != nil {
			return nil, fmt.Errorf("load %s: %w", e.Name(), err)
		}
	}
	return &Bundle{bundle: b, fallback: fallback}, nil
}

func (b *Bundle) Languages() []language.Tag {
	return b.bundle.LanguageTags()
}

// For returns a localizer for an IETF language code such as "uk" or "en-US".
func (b *Bundle) For(lang string) *Localizer {
	return &Localizer{l: i18n.NewLocalizer(b.bundle, lang, b.fallback)}
}

type Localizer struct {
	l *i18n.Localizer
}

// T renders message id. Missing ids render as the id itself.
func (l *Localizer) T(id string, data map[string]any) string {
	msg, err := l.l.Localize(&i18n.LocalizeConfig{
		MessageID:    id,
		TemplateData: escape(data),
	})
	if err != nil {
		return id
	}
	return msg
}

func escape(data map[string]any) map[string]any {
	if len(data) == 0 {
		return nil
	}
	out := make(map[string]any, len(data))
	for k, v := range data {
		if s, ok := v.(string); ok {
			v = html.EscapeString(s)
		}
		out[k] = v
	}
	return out
}
