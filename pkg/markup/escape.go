package markup

import "strings"

// Escape prefixes every reserved character outside fenced code blocks with the
// escape character. Code blocks pass through verbatim, and characters that are
// already escaped are copied unchanged, so Escape(Escape(s)) == Escape(s).
func (d Dialect) Escape(text string) string {
	if d.Formatter != nil {
		if out, ok := d.delegate(text); ok {
			return out
		}
	}

	var sb strings.Builder
	sb.Grow(len(text) + len(text)/8)
	for _, seg := range d.segments(text) {
		if seg.code {
			sb.WriteString(seg.text)
			continue
		}
		d.escapePlain(&sb, seg.text)
	}
	return sb.String()
}

func (d Dialect) delegate(text string) (out string, ok bool) {
	defer func() {
		if recover() != nil {
			out, ok = "", false
		}
	}()

	res, err := d.Formatter(text)
	if err != nil {
		return "", false
	}
	return res, true
}

func (d Dialect) escapePlain(sb *strings.Builder, s string) {
	runes := []rune(s)
	for i := 0; i < len(runes); i++ {
		r := runes[i]
		if r == d.EscapeChar && i+1 < len(runes) && d.isReserved(runes[i+1]) {
			sb.WriteRune(r)
			sb.WriteRune(runes[i+1])
			i++
			continue
		}
		if d.isReserved(r) {
			sb.WriteRune(d.EscapeChar)
		}
		sb.WriteRune(r)
	}
}

// Unescape drops escape characters outside code blocks. It turns a chunk back
// into readable plain text when the renderer rejected it.
func (d Dialect) Unescape(text string) string {
	var sb strings.Builder
	sb.Grow(len(text))
	for _, seg := range d.segments(text) {
		if seg.code {
			sb.WriteString(seg.text)
			continue
		}
		runes := []rune(seg.text)
		for i := 0; i < len(runes); i++ {
			if runes[i] == d.EscapeChar && i+1 < len(runes) && d.isReserved(runes[i+1]) {
				i++
			}
			sb.WriteRune(runes[i])
		}
	}
	return sb.String()
}
