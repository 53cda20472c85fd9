package parser

import "strings"

// mediaPlaceholders are substrings that mark a line as a media/sticker/omitted
// attachment placeholder rather than prose, matched case-insensitively.
var mediaPlaceholders = []string{
	"<media omitted>",
	"image omitted",
	"video omitted",
	"sticker omitted",
	"gif omitted",
	"audio omitted",
	"(file attached)",
	"document omitted",
	"this message was deleted",
}

// stripMediaPlaceholder reports whether text is a media placeholder and
// returns the (trimmed) text to store alongside isMedia=true.
func stripMediaPlaceholder(text string) (string, bool) {
	lower := strings.ToLower(text)
	for _, marker := range mediaPlaceholders {
		if strings.Contains(lower, marker) {
			return strings.TrimSpace(text), true
		}
	}
	return text, false
}
