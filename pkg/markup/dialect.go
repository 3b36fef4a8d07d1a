package markup

import (
	"errors"
	"fmt"
	"strings"
	"unicode/utf8"
)

var (
	ErrNoFence   = errors.New("markup: dialect has no fence token")
	ErrNoEscape  = errors.New("markup: dialect has no escape character")
	ErrCeiling   = errors.New("markup: ceiling must be positive")
	ErrEmptyPair = errors.New("markup: delimiter pair has an empty token")
)

// Pair is an opening/closing delimiter couple. Symmetric pairs use the same token for both.
type Pair struct {
	Open  string
	Close string
}

func (p Pair) symmetric() bool {
	return p.Open == p.Close
}

// Formatter is an external escaping routine. Errors and panics fall back to the built-in escaper.
type Formatter func(text string) (string, error)

// Dialect describes the rich-text flavour understood by the receiving renderer.
type Dialect struct {
	// Reserved holds the characters that must be escaped outside code blocks.
	// The escape character is always treated as reserved.
	Reserved   string
	Pairs      []Pair
	Fence      string
	EscapeChar rune

	// NumberFormat receives (index, total) and must already be valid markup.
	NumberFormat     string
	TruncationSuffix string

	Formatter Formatter
}

// MarkdownV2 is the Telegram MarkdownV2 dialect.
func MarkdownV2() Dialect {
	return Dialect{
		Reserved: "_*[]()~`>#+-=|{}.!$",
		Pairs: []Pair{
			{Open: "```", Close: "```"},
			{Open: "**", Close: "**"},
			{Open: "__", Close: "__"},
			{Open: "~~", Close: "~~"},
			{Open: "||", Close: "||"},
			{Open: "$$", Close: "$$"},
		},
		Fence:            "```",
		EscapeChar:       '\\',
		NumberFormat:     "*%d/%d*\n",
		TruncationSuffix: "\n\n... (відповідь обрізана)",
	}
}

func (d Dialect) Validate() error {
	if d.Fence == "" {
		return ErrNoFence
	}
	if d.EscapeChar == 0 {
		return ErrNoEscape
	}
	for i, p := range d.Pairs {
		if p.Open == "" || p.Close == "" {
			return fmt.Errorf("%w: pair %d", ErrEmptyPair, i)
		}
	}
	return nil
}

func (d Dialect) isReserved(r rune) bool {
	return r == d.EscapeChar || strings.ContainsRune(d.Reserved, r)
}

type segment struct {
	text string
	code bool
}

// segments cuts text into plain and fenced-code spans, scanning left to right.
// An opening fence without a partner leaves the remainder plain.
func (d Dialect) segments(text string) []segment {
	var out []segment
	for text != "" {
		open := d.indexFence(text, 0)
		if open < 0 {
			break
		}
		end := d.indexFence(text, open+len(d.Fence))
		if end < 0 {
			break
		}
		end += len(d.Fence)
		if open > 0 {
			out = append(out, segment{text: text[:open]})
		}
		out = append(out, segment{text: text[open:end], code: true})
		text = text[end:]
	}
	if text != "" {
		out = append(out, segment{text: text})
	}
	return out
}

// indexFence finds the next unescaped fence at or after byte offset from.
func (d Dialect) indexFence(s string, from int) int {
	for from <= len(s) {
		i := strings.Index(s[from:], d.Fence)
		if i < 0 {
			return -1
		}
		at := from + i
		if trailingEscapes([]rune(s[:at]), d.EscapeChar)%2 == 0 {
			return at
		}
		from = at + 1
	}
	return -1
}

func trailingEscapes(runes []rune, esc rune) int {
	n := 0
	for i := len(runes) - 1; i >= 0 && runes[i] == esc; i-- {
		n++
	}
	return n
}

func runeLen(s string) int {
	return utf8.RuneCountInString(s)
}
