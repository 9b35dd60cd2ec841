package conversation

import (
	"regexp"
	"strings"
	"unicode"
	"unicode/utf8"
)

// ws matches every rune strings.TrimSpace would trim.
const ws = `[\s\v\x{85}\p{Z}]`

var (
	multiNewline = regexp.MustCompile(`\n{2,}`)
	// Newlines are collapsed too; a horizontal-only rule is not idempotent on "x\n  \ny".
	multiSpace     = regexp.MustCompile(ws + `{2,}`)
	sentenceEnd    = regexp.MustCompile(`([.!?])(` + ws + `|$)`)
	excessNewlines = regexp.MustCompile(`\n{3,}`)
	trailingBreak  = regexp.MustCompile(`\n\n$`)
	lineIndent     = regexp.MustCompile(`(?m)^[ \t\v\f\r\x{85}\p{Zs}]+`)
)

// Normalize cleans model output into short paragraphs, one sentence each.
// The steps are order dependent: sentence breaks are inserted only after
// whitespace runs have been collapsed. Normalize is idempotent.
func Normalize(raw string) string {
	text := strings.TrimSpace(raw)
	text = multiNewline.ReplaceAllString(text, "\n")
	text = multiSpace.ReplaceAllString(text, " ")
	text = sentenceEnd.ReplaceAllString(text, "${1}\n\n")
	text = excessNewlines.ReplaceAllString(text, "\n\n")
	text = trailingBreak.ReplaceAllString(text, "")
	text = upperFirst(text)
	return lineIndent.ReplaceAllString(text, "")
}

func upperFirst(s string) string {
	r, size := utf8.DecodeRuneInString(s)
	if size == 0 {
		return s
	}
	return string(unicode.ToUpper(r)) + s[size:]
}
