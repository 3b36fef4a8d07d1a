package conv

import (
	"regexp"
	"strings"
	"unicode"

	"github.com/gomarkdown/markdown"
	"github.com/gomarkdown/markdown/html"
	"github.com/gomarkdown/markdown/parser"
	"github.com/inbucket/html2text"
)

var (
	headingRe = regexp.MustCompile(`(?m)^#{1,6}\s.*$`)
	imageRe   = regexp.MustCompile(`!\[[^\]]*\]\([^)]*\)`)
	badgeRe   = regexp.MustCompile(`\[!\[[^\]]*\]\([^)]*\)\]\([^)]*\)`)
)

// MarkdownToText renders Markdown to plain text without links or markup.
func MarkdownToText(md []byte) (string, error) {
	p := parser.NewWithExtensions(extensions)
	renderer := html.NewRenderer(html.RendererOptions{Flags: html.CommonFlags})
	rendered := markdown.Render(p.Parse(md), renderer)

	text, err := html2text.FromString(string(rendered), html2text.Options{OmitLinks: true})
	if err != nil {
		return "", err
	}
	return strings.TrimSpace(text), nil
}

// Summary picks the first meaningful paragraph of a README: longer than
// minRunes, not a bare link, cut to maxRunes with an ellipsis.
func Summary(md []byte, minRunes, maxRunes int) string {
	cleaned := badgeRe.ReplaceAll(md, nil)
	cleaned = imageRe.ReplaceAll(cleaned, nil)
	cleaned = headingRe.ReplaceAll(cleaned, nil)

	text, err := MarkdownToText(cleaned)
	if err != nil {
		return ""
	}

	for _, line := range strings.Split(text, "\n") {
		line = strings.TrimSpace(line)
		if len([]rune(line)) <= minRunes || strings.HasPrefix(line, "http") || !hasLetters(line) {
			continue
		}
		if r := []rune(line); len(r) > maxRunes {
			return string(r[:maxRunes]) + "..."
		}
		return line
	}
	return ""
}

func hasLetters(s string) bool {
	return strings.IndexFunc(s, unicode.IsLetter) >= 0
}

// HTMLToText strips Telegram HTML for terminals and logs.
func HTMLToText(s string) (string, error) {
	text, err := html2text.FromString(s, html2text.Options{OmitLinks: true})
	if err != nil {
		return "", err
	}
	return strings.TrimSpace(text), nil
}
