package adoc

import (
	"strings"
)

// escapeChars is the set of runes a backslash escapes in non-verbatim
// contexts (spec.md §4.6: "Escape rule: a backslash before any of
// `* _ ` # ^ ~ \ [ ]` ... removes the backslash and renders the following
// character literally. In verbatim contexts, backslashes are preserved").
const escapeChars = "*_`#^~\\[]"

// pairedMarker describes one of the five constrained-or-unconstrained
// formatting operators of spec.md §4.6. Grounded on go-org's
// parseEmphasisWithPos (org/inline.go), generalized from a single marker
// rune to a double-rune-or-single-rune pair since AsciiDoc distinguishes
// `**strong**` from `*strong*`.
type pairedMarker struct {
	double string
	single byte
	build  func(content []InlineNode, loc Location) InlineNode
}

var pairedMarkers = []pairedMarker{
	{"**", '*', func(c []InlineNode, l Location) InlineNode { return BoldText{formatted{c, l}} }},
	{"__", '_', func(c []InlineNode, l Location) InlineNode { return ItalicText{formatted{c, l}} }},
	{"``", '`', func(c []InlineNode, l Location) InlineNode { return MonospaceText{formatted{c, l}} }},
	{"##", '#', func(c []InlineNode, l Location) InlineNode { return HighlightText{formatted{c, l}} }},
}

// unpairedMarkers are single-char-only, always constrained-at-boundary
// operators: subscript and superscript.
var unpairedMarkers = []pairedMarker{
	{"", '~', func(c []InlineNode, l Location) InlineNode { return SubscriptText{formatted{c, l}} }},
	{"", '^', func(c []InlineNode, l Location) InlineNode { return SuperscriptText{formatted{c, l}} }},
}

// macroSchemes maps a macro name prefix (the part before `:`) to the
// InlineMacro it builds. url/link/xref etc are handled specially below
// since their target/attrs syntax varies; this table covers the uniform
// `name:target[attrs]` shape (spec.md §4.5 stage 5, §3 InlineMacro list).
// "pass" is deliberately absent: extractPassthroughs's passMacroRegexp
// consumes every pass:[...] occurrence before structural parsing ever
// runs, so a "pass" case here could never fire.
var macroSchemes = map[string]bool{
	"link": true, "xref": true, "mailto": true, "image": true,
	"footnote": true, "btn": true, "kbd": true, "menu": true,
	"stem": true, "icon": true,
}

var uriSchemes = []string{"http://", "https://", "ftp://", "irc://"}

// ParseInlineText runs the full inline pipeline over raw (unsubstituted)
// block text: passthrough extraction, the requested substitution chain,
// then structural parsing into []InlineNode (spec.md §4.5, §4.6).
// blockBase is the origin-source byte offset of text's first byte, used
// to compose locations through ctx's PositionTracker.
func ParseInlineText(text string, chain []Substitution, blockBase int, attrs *AttributeMap, tracker *PositionTracker, warnings *Warnings, xrefs *[]xrefTarget) []InlineNode {
	ctx := &inlineContext{
		attrs:     attrs,
		tracker:   tracker,
		blockBase: blockBase,
		offsets:   newInlineOffsetMap(),
		warnings:  warnings,
		xrefs:     xrefs,
	}

	stripped, entries := extractPassthroughs(text)
	ctx.offsets.identity(len(stripped))
	substituted := runSubstitutionChain(stripped, chain, ctx)
	// After length-changing stages (attributes, replacements) the offset
	// map is no longer exact; this is a documented simplification (see
	// DESIGN.md) - Location values inside a substituted span resolve to
	// the start of that span rather than a fully proportional position.
	ctx.offsets.identity(len(substituted))

	nodes := parseInlineStructural(substituted, 0, ctx, nil)
	return restorePassthroughs(nodes, entries)
}

// parseInlineStructural is the PEG-style scanning loop of spec.md §4.6:
// it walks input looking for escapes, paired formatting markers, macros,
// and the hard-break placeholder, accumulating ordinary runs as
// PlainText. stopAt, when non-nil, reports whether scanning should halt
// before consuming the rune at i (used when parsing the content of an
// enclosing formatting span).
func parseInlineStructural(input string, base int, ctx *inlineContext, stopAt func(i int) bool) []InlineNode {
	var nodes []InlineNode
	var plainStart int
	flushPlain := func(end int) {
		if end > plainStart {
			nodes = append(nodes, PlainText{
				Content:  input[plainStart:end],
				Location: ctx.locationFor(base+plainStart, base+end),
			})
		}
	}

	i := 0
	for i < len(input) {
		if stopAt != nil && stopAt(i) {
			break
		}
		r := input[i]

		if r == '\\' && i+1 < len(input) && strings.IndexByte(escapeChars, input[i+1]) >= 0 {
			flushPlain(i)
			nodes = append(nodes, PlainText{Content: string(input[i+1]), Location: ctx.locationFor(base+i, base+i+2)})
			i += 2
			plainStart = i
			continue
		}

		if strings.HasPrefix(input[i:], string(hardBreakPlaceholder)) {
			flushPlain(i)
			nodes = append(nodes, LineBreak{Hard: true, Location: ctx.locationFor(base+i, base+i+1)})
			i += len(string(hardBreakPlaceholder))
			plainStart = i
			continue
		}

		if consumed, node := tryPairedMarker(input, i, base, ctx); node != nil {
			flushPlain(i)
			nodes = append(nodes, node)
			i += consumed
			plainStart = i
			continue
		}

		if consumed, node := tryMacro(input, i, base, ctx); node != nil {
			flushPlain(i)
			nodes = append(nodes, node)
			i += consumed
			plainStart = i
			continue
		}

		i++
	}
	flushPlain(len(input))
	return nodes
}

// tryPairedMarker attempts every double-char marker, then every
// single-char marker (double takes priority so `**x**` isn't read as
// `*` + `*x*` + `*`), then the subscript/superscript unpaired markers.
func tryPairedMarker(input string, start, base int, ctx *inlineContext) (int, InlineNode) {
	if !validMarkerBorder(input, start) {
		return 0, nil
	}
	for _, m := range pairedMarkers {
		if strings.HasPrefix(input[start:], m.double) {
			if end := findClosing(input, start+2, m.double); end >= 0 {
				content := parseInlineStructural(input[start+2:end], base+start+2, ctx, nil)
				loc := ctx.locationFor(base+start, base+end+len(m.double))
				return end + len(m.double) - start, m.build(content, loc)
			}
		}
	}
	for _, m := range pairedMarkers {
		if input[start] == m.single {
			if end := findClosingByte(input, start+1, m.single); end >= 0 && end != start+1 {
				content := parseInlineStructural(input[start+1:end], base+start+1, ctx, nil)
				loc := ctx.locationFor(base+start, base+end+1)
				return end + 1 - start, m.build(content, loc)
			}
		}
	}
	for _, m := range unpairedMarkers {
		if input[start] == m.single {
			if end := findClosingByte(input, start+1, m.single); end >= 0 && end != start+1 {
				content := parseInlineStructural(input[start+1:end], base+start+1, ctx, nil)
				loc := ctx.locationFor(base+start, base+end+1)
				return end + 1 - start, m.build(content, loc)
			}
		}
	}
	return 0, nil
}

// validMarkerBorder implements the "constrained at word boundaries" rule
// (spec.md §4.6): a marker only opens when preceded by start-of-string or
// whitespace/punctuation, matching go-org's isValidPreChar idiom.
func validMarkerBorder(input string, i int) bool {
	if i == 0 {
		return true
	}
	prev := input[i-1]
	return prev == ' ' || prev == '\t' || prev == '\n' || prev == '(' || prev == '['
}

func findClosing(input string, from int, marker string) int {
	idx := strings.Index(input[from:], marker)
	if idx < 0 {
		return -1
	}
	return from + idx
}

func findClosingByte(input string, from int, marker byte) int {
	idx := strings.IndexByte(input[from:], marker)
	if idx < 0 {
		return -1
	}
	return from + idx
}

// tryMacro recognizes `name:target[attrs]` macro forms and bare URI
// autolinks (spec.md §4.5 stage 5, §3 InlineMacro list).
func tryMacro(input string, start, base int, ctx *inlineContext) (int, InlineNode) {
	for _, scheme := range uriSchemes {
		if strings.HasPrefix(input[start:], scheme) {
			end := start + len(scheme)
			for end < len(input) && !isURITerminator(input[end]) {
				end++
			}
			loc := ctx.locationFor(base+start, base+end)
			return end - start, Macro{Macro: Autolink{URL: input[start:end], Location: loc}, Location: loc}
		}
	}

	colon := strings.IndexByte(input[start:], ':')
	if colon < 0 {
		return 0, nil
	}
	name := input[start : start+colon]
	if !macroSchemes[name] {
		return 0, nil
	}
	rest := input[start+colon+1:]
	bracket := strings.IndexByte(rest, '[')
	if bracket < 0 {
		return 0, nil
	}
	target := rest[:bracket]
	closeBracket := strings.IndexByte(rest[bracket:], ']')
	if closeBracket < 0 {
		return 0, nil
	}
	attrsStr := rest[bracket+1 : bracket+closeBracket]
	end := start + colon + 1 + bracket + closeBracket + 1
	loc := ctx.locationFor(base+start, base+end)

	var macro InlineMacro
	switch name {
	case "link":
		macro = Link{Target: target, Text: parseInlineStructural(attrsStr, 0, ctx, nil), Location: loc}
	case "xref":
		macro = CrossReference{Target: target, Text: attrsStr, Location: loc}
		if ctx.xrefs != nil {
			*ctx.xrefs = append(*ctx.xrefs, xrefTarget{ID: target, Location: loc})
		}
	case "mailto":
		macro = Mailto{Target: target, Text: parseInlineStructural(attrsStr, 0, ctx, nil), Location: loc}
	case "image":
		alt, width, height := splitImageAttrs(attrsStr)
		macro = InlineImage{Target: target, Alt: alt, Width: width, Height: height, Location: loc}
	case "footnote":
		macro = Footnote{Name: target, Content: parseInlineStructural(attrsStr, 0, ctx, nil), Location: loc}
	case "btn":
		macro = Button{Label: target, Location: loc}
	case "kbd":
		macro = Keyboard{Keys: strings.Split(target, "+"), Location: loc}
	case "menu":
		macro = Menu{Target: target, Items: strings.Split(attrsStr, ">"), Location: loc}
	case "stem":
		macro = Stem{Content: attrsStr, Location: loc}
	case "icon":
		macro = Icon{Target: target, Location: loc}
	default:
		return 0, nil
	}
	return end - start, Macro{Macro: macro, Location: loc}
}

func isURITerminator(b byte) bool {
	switch b {
	case ' ', '\t', '\n', ')', ']', '>', ',', ';', '"':
		return true
	default:
		return false
	}
}

func splitImageAttrs(attrs string) (alt, width, height string) {
	parts := strings.Split(attrs, ",")
	if len(parts) > 0 {
		alt = strings.TrimSpace(parts[0])
	}
	if len(parts) > 1 {
		width = strings.TrimSpace(parts[1])
	}
	if len(parts) > 2 {
		height = strings.TrimSpace(parts[2])
	}
	return
}
