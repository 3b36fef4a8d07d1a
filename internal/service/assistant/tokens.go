package assistant

import (
	"sync"
	"unicode/utf8"

	"github.com/pkoukk/tiktoken-go"
)

// TokenCounter estimates the prompt cost of a message.
type TokenCounter func(text string) int

var (
	tk     *tiktoken.Tiktoken
	tkErr  error
	tkOnce sync.Once
)

// CountTokens uses cl100k_base. The encoding is fetched on first use; when
// that fails the count falls back to a rune based estimate.
func CountTokens(text string) int {
	tkOnce.Do(func() {
		tk, tkErr = tiktoken.GetEncoding("cl100k_base")
	})
	if tkErr != nil {
		return estimateTokens(text)
	}
	return len(tk.Encode(text, nil, nil))
}

func estimateTokens(text string) int {
	return utf8.RuneCountInString(text)/3 + 1
}
