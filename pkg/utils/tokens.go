package utils

import (
	"sync"
	"unicode/utf8"

	"github.com/pkoukk/tiktoken-go"
)

var encoding = sync.OnceValues(func() (*tiktoken.Tiktoken, error) {
	return tiktoken.GetEncoding("cl100k_base")
})

// NumTokens counts tokens with the cl100k encoding. When the encoding cannot
// be loaded it falls back to a four-characters-per-token estimate.
func NumTokens(text string) int {
	tkm, err := encoding()
	if err != nil {
		return (utf8.RuneCountInString(text) + 3) / 4
	}
	return len(tkm.Encode(text, nil, nil))
}
