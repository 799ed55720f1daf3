package ics

import "strings"

// Unescape decodes backslash escapes in a TEXT value. `\n` becomes a newline
// followed by a tab so that multi-line text stays indented under its report
// heading, `\t` becomes a tab, and any other escaped character stands for
// itself. A trailing lone backslash is kept as-is. Unescape never fails.
func Unescape(s string) string {
	if !strings.Contains(s, `\`) {
		return s
	}

	var b strings.Builder
	b.Grow(len(s))
	for i := 0; i < len(s); i++ {
		c := s[i]
		if c != '\\' || i+1 == len(s) {
			b.WriteByte(c)
			continue
		}
		i++
		switch s[i] {
		case 'n':
			b.WriteString("\n\t")
		case 't':
			b.WriteByte('\t')
		default:
			b.WriteByte(s[i])
		}
	}
	return b.String()
}
