package command

import (
	"fmt"
	"html"
	"strings"
)

// ResponseFormatter builds Telegram HTML fragments. Values are escaped.
type ResponseFormatter struct{}

func NewResponseFormatter() *ResponseFormatter {
	return &ResponseFormatter{}
}

func (f *ResponseFormatter) Title(title string) string {
	return fmt.Sprintf("<b>%s</b>", html.EscapeString(title))
}

func (f *ResponseFormatter) Label(label, value string) string {
	if value == "" {
		return ""
	}
	return fmt.Sprintf("%s  ›  <code>%s</code>", html.EscapeString(label), html.EscapeString(value))
}

func (f *ResponseFormatter) Text(text string) string {
	return html.EscapeString(text)
}

// Combine joins non-empty sections with a newline.
func (f *ResponseFormatter) Combine(sections ...string) string {
	kept := sections[:0:0]
	for _, s := range sections {
		if s != "" {
			kept = append(kept, s)
		}
	}
	return strings.Join(kept, "\n")
}
