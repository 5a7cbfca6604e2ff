package detector

import (
	"regexp"
	"strings"
)

var (
	openingFence = regexp.MustCompile("(?i)^```(?:json)?\\s*")
	closingFence = regexp.MustCompile("\\s*```\\s*$")
)

// StripCodeFences removes a leading and trailing triple-backtick fence, with
// or without a language tag. Models sometimes wrap JSON answers in
// ```json ... ``` despite being told not to.
func StripCodeFences(s string) string {
	cleaned := strings.TrimSpace(s)
	if !strings.HasPrefix(cleaned, "```") {
		return cleaned
	}
	cleaned = openingFence.ReplaceAllString(cleaned, "")
	cleaned = closingFence.ReplaceAllString(cleaned, "")
	return cleaned
}
