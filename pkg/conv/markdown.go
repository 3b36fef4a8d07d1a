package conv

import (
	"regexp"
	"strings"

	"github.com/gomarkdown/markdown"
	"github.com/gomarkdown/markdown/html"
	"github.com/gomarkdown/markdown/parser"
	"github.com/microcosm-cc/bluemonday"
)

var (
	extensions = parser.CommonExtensions | parser.NoEmptyLineBeforeBlock
	htmlFlags  = html.CommonFlags | html.HrefTargetBlank

	// Telegram keeps no block tags, so their boundaries become line breaks
	// before sanitizing.
	blockEndRe  = regexp.MustCompile(`</(p|h[1-6]|ul|ol|blockquote)>`)
	listItemRe  = regexp.MustCompile(`<li>`)
	extraLineRe = regexp.MustCompile(`\n{3,}`)

	tgPolicy = telegramPolicy()
)

// telegramPolicy allows the subset listed at
// https://core.telegram.org/bots/api#html-style
func telegramPolicy() *bluemonday.Policy {
	p := bluemonday.NewPolicy()
	p.AllowElements("b", "strong", "i", "em", "u", "ins", "s", "strike", "del", "code", "pre", "blockquote")
	p.AllowAttrs("href").OnElements("a")
	p.AllowAttrs("class").OnElements("code")
	return p
}

// MarkdownToTelegramHTML renders Markdown into the HTML subset accepted by
// Telegram's parse mode.
func MarkdownToTelegramHTML(md []byte) string {
	p := parser.NewWithExtensions(extensions)
	renderer := html.NewRenderer(html.RendererOptions{Flags: htmlFlags})
	rendered := markdown.Render(p.Parse(md), renderer)

	rendered = blockEndRe.ReplaceAll(rendered, []byte("$0\n"))
	rendered = listItemRe.ReplaceAll(rendered, []byte("$0• "))

	out := string(tgPolicy.SanitizeBytes(rendered))
	return strings.TrimSpace(extraLineRe.ReplaceAllString(out, "\n\n"))
}
