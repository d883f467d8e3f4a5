package metrics

import (
	"strings"
	"unicode/utf8"

	"github.com/petasbytes/memagent/memory"
)

// TextFeatures holds basic local text features derived from an input string.
type TextFeatures struct {
	Bytes int
	Runes int
	Words int
	Lines int
}

// CountText computes and returns byte, rune, word, and line counts for the input string.
func CountText(s string) TextFeatures {
	b := len(s)
	r := utf8.RuneCountInString(s)
	w := countWords(s)
	l := countLines(s)
	return TextFeatures{Bytes: b, Runes: r, Words: w, Lines: l}
}

// countWords counts words split on Unicode whitespace.
func countWords(s string) int {
	return len(strings.Fields(s))
}

// countLines returns 0 for empty strings; otherwise 1 plus the number of '\n' runes.
func countLines(s string) int {
	if s == "" {
		return 0
	}
	return 1 + strings.Count(s, "\n")
}

// DirectiveFeatures summarizes the memory directives of one reply.
type DirectiveFeatures struct {
	Extracted     int
	Applied       int
	Rejected      int
	Appends       int
	Replaces      int
	StrippedBytes int
}

// CountDirectives derives directive features from the raw reply, its
// cleaned form, the extracted directives and the apply report.
func CountDirectives(raw, clean string, dirs []memory.Directive, rep memory.ApplyReport) DirectiveFeatures {
	f := DirectiveFeatures{
		Extracted:     len(dirs),
		Applied:       rep.Applied,
		Rejected:      rep.Rejected(),
		StrippedBytes: len(raw) - len(clean),
	}
	for _, d := range dirs {
		if memory.Coerce(d.Raw).Op == memory.OpAppend {
			f.Appends++
		} else {
			f.Replaces++
		}
	}
	return f
}
