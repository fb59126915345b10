package render

import (
	"strings"
	"unicode/utf8"
)

// emojiRanges are the pictographic blocks the message channel is known to
// accept. Anything inside these ranges survives sanitization untouched.
var emojiRanges = [...][2]rune{
	{0x1F600, 0x1F64F}, // emoticons
	{0x1F300, 0x1F5FF}, // misc symbols and pictographs
	{0x1F680, 0x1F6FF}, // transport and map symbols
	{0x1F900, 0x1F9FF}, // supplemental symbols and pictographs
	{0x2600, 0x26FF},   // misc symbols
	{0x2700, 0x27BF},   // dingbats
}

func isEmoji(r rune) bool {
	for _, rg := range emojiRanges {
		if r >= rg[0] && r <= rg[1] {
			return true
		}
	}
	return false
}

// Sanitize strips characters the message channel cannot type while preserving
// message formatting. Newlines stay, tabs become single spaces, code points
// outside the valid Unicode space become spaces, and everything else passes
// through. The result is trimmed but internal space runs are kept as-is since
// the templates rely on them. Sanitize is idempotent.
func Sanitize(text string) string {
	var b strings.Builder
	b.Grow(len(text))
	for _, r := range text {
		switch {
		case isEmoji(r):
			b.WriteRune(r)
		case r == '\n':
			b.WriteByte('\n')
		case r == '\t':
			b.WriteByte(' ')
		case r > utf8.MaxRune || r == utf8.RuneError:
			b.WriteByte(' ')
		default:
			b.WriteRune(r)
		}
	}
	return strings.TrimSpace(b.String())
}
