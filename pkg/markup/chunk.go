package markup

import (
	"fmt"
	"strings"
	"unicode"
)

type Option func(*Chunker)

// WithNumbering toggles the "i/n" prefix on multi-chunk output. On by default.
func WithNumbering(on bool) Option {
	return func(c *Chunker) {
		c.numbered = on
	}
}

// Chunker splits text into renderer-safe pieces no longer than a ceiling.
// It holds no mutable state and may be shared between goroutines.
type Chunker struct {
	dialect  Dialect
	ceiling  int
	numbered bool
}

func NewChunker(d Dialect, ceiling int, opts ...Option) (*Chunker, error) {
	if ceiling <= 0 {
		return nil, fmt.Errorf("%w: %d", ErrCeiling, ceiling)
	}
	if err := d.Validate(); err != nil {
		return nil, err
	}

	c := &Chunker{dialect: d, ceiling: ceiling, numbered: true}
	for _, opt := range opts {
		opt(c)
	}
	if d.NumberFormat == "" {
		c.numbered = false
	}
	return c, nil
}

func MustChunker(d Dialect, ceiling int, opts ...Option) *Chunker {
	c, err := NewChunker(d, ceiling, opts...)
	if err != nil {
		panic(err)
	}
	return c
}

func (c *Chunker) Dialect() Dialect {
	return c.dialect
}

func (c *Chunker) Ceiling() int {
	return c.ceiling
}

// Split escapes and balances text, then packs it line by line into chunks.
func (c *Chunker) Split(text string) []string {
	processed := c.dialect.Balance(c.dialect.Escape(text))
	if runeLen(processed) <= c.ceiling {
		return []string{processed}
	}

	parts := c.pack(processed, c.ceiling)
	if !c.numbered || len(parts) < 2 {
		return parts
	}

	// The widest prefix the next pass could need. Numbering is skipped when it
	// would eat half of every chunk.
	reserve := runeLen(c.prefix(len(parts)+1, len(parts)+1))
	if reserve*2 >= c.ceiling {
		return parts
	}
	return c.number(c.pack(processed, c.ceiling-reserve))
}

func (c *Chunker) prefix(i, n int) string {
	return fmt.Sprintf(c.dialect.NumberFormat, i, n)
}

func (c *Chunker) number(parts []string) []string {
	out := make([]string, len(parts))
	for i, part := range parts {
		prefix := c.prefix(i+1, len(parts))
		chunk := c.dialect.Balance(prefix + part)
		if runeLen(chunk) > c.ceiling {
			chunk = prefix + c.dialect.Truncate(part, c.ceiling-runeLen(prefix))
		}
		out[i] = chunk
	}
	return out
}

func (c *Chunker) pack(text string, ceiling int) []string {
	p := &packer{d: c.dialect, ceiling: ceiling}
	for _, unit := range p.units(text) {
		p.place(unit)
	}
	p.flush()
	return p.parts
}

// packer accumulates one chunk at a time. fences counts fence markers in the
// current chunk, so an odd value means a code block is open.
type packer struct {
	d       Dialect
	ceiling int
	parts   []string

	buf    strings.Builder
	size   int
	fences int
	body   bool
	lang   string
}

// units groups lines so that a complete code block travels as one unit.
func (p *packer) units(text string) []string {
	var (
		units []string
		block strings.Builder
		open  bool
	)
	for _, line := range strings.SplitAfter(text, "\n") {
		if line == "" {
			continue
		}
		odd := strings.Count(line, p.d.Fence)%2 == 1
		switch {
		case open:
			block.WriteString(line)
			if odd {
				units = append(units, block.String())
				block.Reset()
				open = false
			}
		case odd:
			block.WriteString(line)
			open = true
		default:
			units = append(units, line)
		}
	}
	if block.Len() > 0 {
		units = append(units, block.String())
	}
	return units
}

func (p *packer) place(unit string) {
	if p.fits(unit) {
		p.write(unit)
		return
	}
	if p.body {
		p.flush()
		if p.fits(unit) {
			p.write(unit)
			return
		}
	}

	lines := strings.SplitAfter(unit, "\n")
	if lines[len(lines)-1] == "" {
		lines = lines[:len(lines)-1]
	}
	if len(lines) > 1 {
		for _, line := range lines {
			p.place(line)
		}
		return
	}
	p.split(unit)
}

// fits reports whether s can join the chunk once the chunk is finished.
func (p *packer) fits(s string) bool {
	return runeLen(p.finish(p.buf.String()+s)) <= p.ceiling
}

// finish closes a dangling code block on its own line and balances the chunk.
func (p *packer) finish(chunk string) string {
	if strings.Count(chunk, p.d.Fence)%2 == 1 {
		if !strings.HasSuffix(chunk, "\n") {
			chunk += "\n"
		}
		chunk += p.d.Fence
	}
	return p.d.Balance(chunk)
}

func (p *packer) write(s string) {
	p.buf.WriteString(s)
	p.size += runeLen(s)
	p.fences += strings.Count(s, p.d.Fence)
	p.body = true
	if p.fences%2 == 1 && strings.Contains(s, p.d.Fence) {
		p.lang = p.tag(s)
	}
}

// tag returns the language tag written right after the last fence in s.
func (p *packer) tag(s string) string {
	rest := s[strings.LastIndex(s, p.d.Fence)+len(p.d.Fence):]
	if nl := strings.IndexByte(rest, '\n'); nl >= 0 {
		rest = rest[:nl]
	}
	rest = strings.TrimSpace(rest)
	if strings.ContainsFunc(rest, unicode.IsSpace) {
		return ""
	}
	return rest
}

func (p *packer) flush() {
	if !p.body {
		p.reset()
		return
	}

	reopen := p.fences%2 == 1
	p.parts = append(p.parts, p.finish(p.buf.String()))
	p.reset()

	if reopen {
		header := p.d.Fence + p.lang + "\n"
		p.buf.WriteString(header)
		p.size = runeLen(header)
		p.fences = 1
	}
}

func (p *packer) reset() {
	p.buf.Reset()
	p.size = 0
	p.fences = 0
	p.body = false
}

// split breaks a single line longer than the room left in a fresh chunk.
func (p *packer) split(line string) {
	runes := []rune(line)
	for len(runes) > 0 {
		if rest := string(runes); p.fits(rest) {
			p.write(rest)
			return
		}
		if p.body {
			p.flush()
			continue
		}

		room := p.ceiling - p.size - runeLen(p.d.Fence) - 1
		cut := p.cutPoint(runes, room)
		for cut > 1 && !p.fits(string(runes[:cut])) {
			cut = p.cutPoint(runes, cut-1)
		}
		p.write(string(runes[:cut]))
		runes = runes[cut:]
	}
}

// cutPoint picks where to break runes within room. It prefers whitespace in the
// second half of the window and never separates an escape from its character
// or cuts through a fence marker.
func (p *packer) cutPoint(runes []rune, room int) int {
	if room < 1 {
		room = 1
	}
	if room >= len(runes) {
		return len(runes)
	}

	cut := room
	for i := room - 1; i > room/2; i-- {
		if unicode.IsSpace(runes[i]) {
			cut = i + 1
			break
		}
	}
	cut -= trailingEscapes(runes[:cut], p.d.EscapeChar) % 2

	fence := []rune(p.d.Fence)
	for k := 1; k < len(fence); k++ {
		start := cut - k
		if start >= 0 && start+len(fence) <= len(runes) && string(runes[start:start+len(fence)]) == p.d.Fence {
			cut = start
			break
		}
	}

	if cut < 1 {
		cut = 1
	}
	return cut
}
