package markup

import "strings"

// Balance appends closing tokens for every delimiter pair left open in text.
// Fences are counted over the whole text. Other pairs are counted outside code
// blocks only, since code content is shown verbatim. It counts tokens, it does
// not parse: interleaved pairs are not detected.
func (d Dialect) Balance(text string) string {
	out := text
	for _, p := range d.Pairs {
		if p.Open == d.Fence {
			out += p.closers([]string{out})
		}
	}

	var spans []string
	for _, seg := range d.segments(out) {
		if !seg.code {
			spans = append(spans, seg.text)
		}
	}
	for _, p := range d.Pairs {
		if p.Open == d.Fence {
			continue
		}
		c := p.closers(spans)
		out += c
		spans = append(spans, c)
	}
	return out
}

func (p Pair) closers(spans []string) string {
	opens, closes := 0, 0
	for _, s := range spans {
		opens += strings.Count(s, p.Open)
		closes += strings.Count(s, p.Close)
	}

	if p.symmetric() {
		if opens%2 != 0 {
			return p.Close
		}
		return ""
	}
	if opens > closes {
		return strings.Repeat(p.Close, opens-closes)
	}
	return ""
}

// Truncate shortens text to at most max runes. Text that fits once balanced is
// returned balanced. Otherwise a balanced prefix is kept, an open code block is
// closed on its own line, and the escaped truncation suffix is appended last.
func (d Dialect) Truncate(text string, max int) string {
	if max <= 0 {
		return ""
	}
	if runeLen(text) <= max {
		if out := d.Balance(text); runeLen(out) <= max {
			return out
		}
	}

	suffix := []rune(d.Escape(d.TruncationSuffix))
	budget := max - len(suffix)
	if budget <= 0 {
		head := suffix[:max]
		return string(head[:len(head)-trailingEscapes(head, d.EscapeChar)%2])
	}

	runes := []rune(text)
	budget = min(budget, len(runes))
	for budget > 0 {
		head := runes[:budget]
		head = head[:len(head)-trailingEscapes(head, d.EscapeChar)%2]

		out := d.Balance(d.closeFence(string(head))) + string(suffix)
		over := runeLen(out) - max
		if over <= 0 {
			return out
		}
		budget -= over
	}
	return string(suffix)
}

// closeFence keeps whole lines of a dangling code block and closes it. A block
// with no complete line after its opening fence is dropped.
func (d Dialect) closeFence(head string) string {
	if strings.Count(head, d.Fence)%2 == 0 {
		return head
	}

	at := strings.LastIndex(head, d.Fence)
	body := head[at:]
	first, last := strings.Index(body, "\n"), strings.LastIndex(body, "\n")
	if first < 0 || first == last {
		return head[:at]
	}
	return head[:at+last+1] + d.Fence
}
