package adoc

import (
	"fmt"
	"regexp"
	"strings"
)

// passthroughPlaceholder and hardBreakPlaceholder are private-use-area
// runes standing in for, respectively, an extracted passthrough span
// during the substitution chain (spec.md §4.5: "Passthroughs are
// extracted before stage 1 and reinstated after stage 6 using opaque
// placeholders") and a hard line break recognized by stage 6. Both are
// resolved back into real InlineNodes after the chain runs - the former
// by restorePassthroughs in this file, the latter by the structural
// parser in inline.go.
const (
	passthroughPlaceholder = ''
	hardBreakPlaceholder   = ''
)

type passthroughEntry struct {
	raw           string
	substitutions map[Substitution]bool
	// isMacro marks an entry that came from the pass:[...] macro syntax
	// (as opposed to +++...+++/++...++), which restores as a
	// Macro(Pass{...}) InlineMacro node rather than a bare RawText leaf
	// (spec.md §3's InlineMacro variant list; spec.md §8 scenario S4).
	isMacro bool
}

// inlineOffsetMap generalizes PositionTracker's segment technique to a
// single inline-parse call: it tracks the drift introduced by
// passthrough extraction and by every length-changing substitution stage,
// so that the structural parser's rune offsets into the final text can be
// mapped back to byte offsets in the original block text. Composing this
// with the outer PositionTracker (via blockBase + a LocationFromSpan
// lookup) yields the final source Location placed on each InlineNode.
type inlineOffsetMap struct {
	segments []offsetSegment
}

type offsetSegment struct {
	finalStart, finalEnd int
	originStart          int
}

func newInlineOffsetMap() *inlineOffsetMap { return &inlineOffsetMap{} }

func (m *inlineOffsetMap) push(finalStart, finalEnd, originStart int) {
	m.segments = append(m.segments, offsetSegment{finalStart, finalEnd, originStart})
}

// identity seeds the map with a 1:1 mapping over [0, n), the starting
// point before any stage has altered the text.
func (m *inlineOffsetMap) identity(n int) {
	m.segments = []offsetSegment{{0, n, 0}}
}

// resolve maps a final-text offset back to an original-block-text offset.
func (m *inlineOffsetMap) resolve(finalOffset int) int {
	for _, seg := range m.segments {
		if finalOffset >= seg.finalStart && finalOffset <= seg.finalEnd {
			return seg.originStart + (finalOffset - seg.finalStart)
		}
	}
	if len(m.segments) == 0 {
		return finalOffset
	}
	last := m.segments[len(m.segments)-1]
	return last.originStart + (last.finalEnd - last.finalStart)
}

// inlineContext carries everything the substitution chain and structural
// parser need: the attribute table in scope, the outer PositionTracker,
// this call's offset map, the warning sink, and deferred xref targets.
type inlineContext struct {
	attrs     *AttributeMap
	tracker   *PositionTracker
	blockBase int // origin offset of this block's text, offset 0 of blockText
	offsets   *inlineOffsetMap
	warnings  *Warnings
	xrefs     *[]xrefTarget
}

func (c *inlineContext) warn(pe *ParseError) {
	if c.warnings != nil {
		*c.warnings = append(*c.warnings, pe)
	}
}

// locationFor turns a [start,end) offset pair in the text currently being
// processed back into a source Location, composing the inline offset map
// with the outer PositionTracker.
func (c *inlineContext) locationFor(start, end int) Location {
	originStart := c.blockBase + c.offsets.resolve(start)
	originEnd := c.blockBase + c.offsets.resolve(end)
	return c.tracker.LocationFromSpan(originStart, originEnd)
}

var (
	triplePlusRegexp = regexp.MustCompile(`\+\+\+(.*?)\+\+\+`)
	doublePlusRegexp = regexp.MustCompile(`\+\+(.*?)\+\+`)
	passMacroRegexp  = regexp.MustCompile(`pass:([a-z,]*)\[(.*?)\]`)
)

// extractPassthroughs replaces every triple-plus, double-plus, and
// pass:[] passthrough with a single placeholder rune, recording the
// original content and its declared substitution set (spec.md §4.5).
// Runs before stage 1, as required.
func extractPassthroughs(text string) (string, []passthroughEntry) {
	var entries []passthroughEntry

	text = triplePlusRegexp.ReplaceAllStringFunc(text, func(match string) string {
		sm := triplePlusRegexp.FindStringSubmatch(match)
		entries = append(entries, passthroughEntry{raw: sm[1], substitutions: map[Substitution]bool{}})
		return string(passthroughPlaceholder)
	})
	text = doublePlusRegexp.ReplaceAllStringFunc(text, func(match string) string {
		sm := doublePlusRegexp.FindStringSubmatch(match)
		entries = append(entries, passthroughEntry{raw: sm[1], substitutions: map[Substitution]bool{SubSpecialchars: true}})
		return string(passthroughPlaceholder)
	})
	text = passMacroRegexp.ReplaceAllStringFunc(text, func(match string) string {
		sm := passMacroRegexp.FindStringSubmatch(match)
		subs := map[Substitution]bool{}
		for _, name := range strings.Split(sm[1], ",") {
			switch Substitution(name) {
			case SubSpecialchars, SubQuotes, SubAttributes, SubReplacements, SubMacros, SubPostReplacements:
				subs[Substitution(name)] = true
			}
		}
		entries = append(entries, passthroughEntry{raw: sm[2], substitutions: subs, isMacro: true})
		return string(passthroughPlaceholder)
	})

	return text, entries
}

// restorePassthroughs substitutes each placeholder back for its recorded
// raw content, after the full substitution chain has run (spec.md §4.5).
// Passthrough content never goes through the surrounding chain. Of the
// substitutions declared in its own set, only specialchars is applied
// here; the others are recorded on the restored Pass node but not run.
func restorePassthroughs(nodes []InlineNode, entries []passthroughEntry) []InlineNode {
	if len(entries) == 0 {
		return nodes
	}
	idx := 0
	out := make([]InlineNode, 0, len(nodes))
	for _, n := range nodes {
		pt, ok := n.(PlainText)
		if !ok || !strings.ContainsRune(pt.Content, passthroughPlaceholder) {
			out = append(out, n)
			continue
		}
		out = append(out, expandPlaceholderRun(pt, entries, &idx)...)
	}
	return out
}

// expandPlaceholderRun splits a PlainText node that contains one or more
// placeholder runes (interleaved with ordinary text) back into the
// ordinary text plus restored passthrough leaves.
func expandPlaceholderRun(pt PlainText, entries []passthroughEntry, idx *int) []InlineNode {
	var out []InlineNode
	var plain strings.Builder
	flush := func() {
		if plain.Len() > 0 {
			out = append(out, PlainText{Content: plain.String(), Location: pt.Location})
			plain.Reset()
		}
	}
	for _, r := range pt.Content {
		if r == passthroughPlaceholder {
			flush()
			if *idx < len(entries) {
				e := entries[*idx]
				*idx++
				content := e.raw
				if e.substitutions[SubSpecialchars] {
					content = applySpecialchars(content)
				}
				if e.isMacro {
					out = append(out, Macro{
						Macro:    Pass{Text: content, Substitutions: e.substitutions, Location: pt.Location},
						Location: pt.Location,
					})
				} else {
					out = append(out, RawText{Content: content, Location: pt.Location})
				}
			}
			continue
		}
		plain.WriteRune(r)
	}
	flush()
	return out
}

// applyQuotes converts straight ASCII quotes/apostrophes to curly
// equivalents (spec.md §4.5 stage 2). Opening vs closing is decided by
// what precedes the character: start-of-string or whitespace means
// opening, otherwise closing - the common typographer's-quote heuristic.
func applyQuotes(s string) string {
	var b strings.Builder
	b.Grow(len(s))
	runes := []rune(s)
	for i, r := range runes {
		switch r {
		case '"':
			if i == 0 || isQuoteBoundary(runes[i-1]) {
				b.WriteRune('“')
			} else {
				b.WriteRune('”')
			}
		case '\'':
			if i == 0 || isQuoteBoundary(runes[i-1]) {
				b.WriteRune('‘')
			} else {
				b.WriteRune('’')
			}
		default:
			b.WriteRune(r)
		}
	}
	return b.String()
}

func isQuoteBoundary(r rune) bool {
	return r == ' ' || r == '\t' || r == '(' || r == '[' || r == '\n'
}

// replacementTable is the fixed character-replacement table applied by
// stage 4 (spec.md §4.5, glossary "replacements"). Grounded on
// Asciidoctor's default replacements.
var replacementTable = []struct {
	pattern *regexp.Regexp
	repl    string
}{
	{regexp.MustCompile(`\(C\)`), "©"},
	{regexp.MustCompile(`\(R\)`), "®"},
	{regexp.MustCompile(`\(TM\)`), "™"},
	{regexp.MustCompile(`--`), "—"},
	{regexp.MustCompile(`\.\.\.`), "…"},
	{regexp.MustCompile(`->`), "→"},
	{regexp.MustCompile(`<-`), "←"},
	{regexp.MustCompile(`=>`), "⇒"},
	{regexp.MustCompile(`<=`), "⇐"},
}

func applyReplacements(s string) string {
	for _, r := range replacementTable {
		s = r.pattern.ReplaceAllString(s, r.repl)
	}
	return s
}

// hardLineBreakRegexp recognizes a trailing " +" at end-of-line, promoted
// to a hard LineBreak node by stage 6 (spec.md §4.5 stage 6). The matched
// span is replaced with hardBreakPlaceholder, which the structural parser
// in inline.go turns into a LineBreak{Hard: true} node.
var hardLineBreakRegexp = regexp.MustCompile(`(?m) \+$`)

func applyPostReplacements(s string) string {
	return hardLineBreakRegexp.ReplaceAllString(s, string(hardBreakPlaceholder))
}

// runSubstitutionChain applies each requested stage (in the fixed
// spec.md §4.5 order) over text, returning the fully substituted string.
// Structural parsing (formatting marks, macros) happens afterward in
// inline.go's ParseInlineText, which also consumes hardBreakPlaceholder.
func runSubstitutionChain(text string, chain []Substitution, ctx *inlineContext) string {
	if chainHas(chain, SubSpecialchars) {
		text = applySpecialchars(text)
	}
	if chainHas(chain, SubQuotes) {
		text = applyQuotes(text)
	}
	if chainHas(chain, SubAttributes) {
		text = substituteAttributeRefs(text, ctx.attrs, func(name string) {
			ctx.warn(&ParseError{
				Kind:    ErrParse,
				Message: fmt.Sprintf("unresolved attribute reference: {%s}", name),
				Advice:  "define the attribute before this point, or remove the reference",
			})
		})
	}
	if chainHas(chain, SubReplacements) {
		text = applyReplacements(text)
	}
	// SubMacros is handled structurally by the inline parser, not here -
	// see inline.go's parseInlineStructural, which recognizes `name:target[]`
	// forms in the same pass as formatting marks.
	if chainHas(chain, SubPostReplacements) {
		text = applyPostReplacements(text)
	}
	return text
}
