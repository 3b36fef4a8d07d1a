package locales

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTranslationsShareKeys(t *testing.T) {
	read := func(name string) map[string]string {
		data, err := files.ReadFile(name)
		require.NoError(t, err)
		var m map[string]string
		require.NoError(t, json.Unmarshal(data, &m))
		return m
	}

	uk, en := read("uk.json"), read("en.json")
	for k := range uk {
		assert.Contains(t, en, k)
	}
	for k := range en {
		assert.Contains(t, uk, k)
	}
}

func TestLocalize(t *testing.T) {
	b, err := New("uk")
	require.NoError(t, err)

	uk := b.For("uk")
	assert.Equal(t, "✅ Я працюю!\n📶 Пінг: <b>42 мс</b>", uk.T("PingResult", map[string]any{"Ms": 42}))

	en := b.For("en-US")
	assert.Equal(t, "Unknown command: /foo", en.T("UnknownCommand", map[string]any{"Name": "foo"}))

	fallback := b.For("de")
	assert.Equal(t, uk.T("AIEmpty", nil), fallback.T("AIEmpty", nil))

	assert.Equal(t, "NoSuchMessage", uk.T("NoSuchMessage", nil))
}

func TestTemplateDataIsEscaped(t *testing.T) {
	b, err := New("en")
	require.NoError(t, err)

	got := b.For("en").T("ModuleTooLarge", map[string]any{
		"ID":  "<b>x</b>",
		"URL": "https://example.com/a?b=1&c=2",
	})
	assert.Contains(t, got, "&lt;b&gt;x&lt;/b&gt;")
	assert.Contains(t, got, "b=1&amp;c=2")
}

func TestNewRejectsBadLanguage(t *testing.T) {
	_, err := New("!!")
	assert.Error(t, err)
}
