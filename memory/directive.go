package memory

import (
	"regexp"
	"strings"
)

// directiveRe matches [MEMORY_UPDATE: path=value]. The value is either one
// bracketed list literal or a run of characters without ']'.
var directiveRe = regexp.MustCompile(`\[MEMORY_UPDATE:\s*([^=]+)=\s*(\[[^\]]*\]|[^\]]+)\]`)

// Directive is one memory update found in model output, as written.
type Directive struct {
	Path string `json:"path"`
	Raw  string `json:"raw"`
}

// Extract scans text for memory directives left to right. It returns the
// text with every matched directive removed and trimmed, plus the directives
// in the order they appeared. Malformed directives are left in place.
func Extract(text string) (string, []Directive) {
	matches := directiveRe.FindAllStringSubmatch(text, -1)
	if len(matches) == 0 {
		return strings.TrimSpace(text), nil
	}
	dirs := make([]Directive, 0, len(matches))
	for _, m := range matches {
		dirs = append(dirs, Directive{
			Path: strings.TrimSpace(m[1]),
			Raw:  strings.TrimSpace(m[2]),
		})
	}
	clean := directiveRe.ReplaceAllLiteralString(text, "")
	return strings.TrimSpace(clean), dirs
}
