package adoc

import "strings"

// applySpecialchars escapes `<`, `>`, `&` (spec.md §4.5 stage 1). It
// deliberately does not use golang.org/x/net/html's EscapeString, which
// also escapes quotes and apostrophes - AsciiDoc's specialchars stage
// only touches the three markup-significant characters, leaving `"`/`'`
// for the quotes stage to handle (see DESIGN.md's dependency ledger for
// why x/net is dropped entirely rather than used here).
func applySpecialchars(s string) string {
	if !strings.ContainsAny(s, "<>&") {
		return s
	}
	var b strings.Builder
	b.Grow(len(s))
	for _, r := range s {
		switch r {
		case '<':
			b.WriteString("&lt;")
		case '>':
			b.WriteString("&gt;")
		case '&':
			b.WriteString("&amp;")
		default:
			b.WriteRune(r)
		}
	}
	return b.String()
}
