package gemini

import (
	"regexp"
	"strings"
)

var disallowedChars = regexp.MustCompile(`[^а-яА-ЯёЁ\s.,!?;:"'\[\](){}]+`)

// Sanitize cleans a raw model answer into a plain Russian description.
func Sanitize(raw string) string {
	text := disallowedChars.ReplaceAllString(raw, "")

	if start := strings.IndexByte(text, '"'); start != -1 {
		if end := strings.IndexByte(text[start+1:], '"'); end != -1 {
			text = text[start+1 : start+1+end]
		}
	}

	text = strings.TrimPrefix(text, ".")
	return strings.TrimSpace(text)
}
