package adoc

import "strings"

// DelimitedStyle discriminates the eight delimited-block kinds of
// spec.md §3. They share one Go struct (DelimitedBlock) because their
// behavioral difference is entirely captured by Style plus the Verbatim
// flag the block grammar derives from it - there is no per-kind field or
// method that would justify eight separate Go types.
type DelimitedStyle int

const (
	DelimitedSidebar DelimitedStyle = iota
	DelimitedListing
	DelimitedLiteral
	DelimitedExample
	DelimitedQuote
	DelimitedOpen
	DelimitedSource
	DelimitedVerse
)

func (s DelimitedStyle) String() string {
	switch s {
	case DelimitedSidebar:
		return "sidebar"
	case DelimitedListing:
		return "listing"
	case DelimitedLiteral:
		return "literal"
	case DelimitedExample:
		return "example"
	case DelimitedQuote:
		return "quote"
	case DelimitedOpen:
		return "open"
	case DelimitedSource:
		return "source"
	case DelimitedVerse:
		return "verse"
	default:
		return "open"
	}
}

// Verbatim reports whether inline parsing is disabled inside the block's
// body, per spec.md §4.4's delimited-block state machine ("an auxiliary
// Verbatim flag that disables inline parsing inside Body when the style
// is listing/literal/source").
func (s DelimitedStyle) Verbatim() bool {
	switch s {
	case DelimitedListing, DelimitedLiteral, DelimitedSource:
		return true
	default:
		return false
	}
}

// fenceByStyle is the canonical opening fence character run for each
// style when the grammar needs to pick a default (e.g. synthesizing a
// fence for a style attribute with no explicit delimiter line).
var fenceByStyle = map[DelimitedStyle]string{
	DelimitedSidebar: "****",
	DelimitedListing: "----",
	DelimitedLiteral: "....",
	DelimitedExample: "====",
	DelimitedQuote:   "____",
	DelimitedOpen:    "--",
	DelimitedSource:  "----",
	DelimitedVerse:   "____",
}

// fenceStyleFor reports the default DelimitedStyle implied by a fence
// line's character and run length alone; parseDelimited refines
// listing-vs-source and quote-vs-verse using the block's style attribute,
// since both pairs share a fence character (spec.md §4.4).
func fenceStyleFor(line string) *DelimitedStyle {
	trimmed := strings.TrimRight(line, " \t")
	if len(trimmed) < 2 {
		return nil
	}
	run := trimmed
	c := run[0]
	for _, r := range run {
		if byte(r) != c {
			return nil
		}
	}
	n := len(run)
	var style DelimitedStyle
	switch {
	case c == '-' && n == 2:
		style = DelimitedOpen
	case c == '-' && n >= 4:
		style = DelimitedListing
	case c == '.' && n >= 4:
		style = DelimitedLiteral
	case c == '=' && n >= 4:
		style = DelimitedExample
	case c == '_' && n >= 4:
		style = DelimitedQuote
	case c == '*' && n >= 4:
		style = DelimitedSidebar
	default:
		return nil
	}
	return &style
}

// parseDelimited reads a delimited block's body starting at the scanner's
// current line (the opening fence) up to a matching closing fence of
// identical length and character (spec.md §4.4: "the opening fence string
// must match the closing fence exactly"). An unmatched opener is reported
// at the opener's location (spec.md §4.4).
func (s *blockScanner) parseDelimited(fenceLine string, meta BlockMetadata, title Title, stopAt int) Block {
	start := s.i
	fence := strings.TrimRight(fenceLine, " \t")
	style := *fenceStyleFor(fenceLine)
	switch {
	case style == DelimitedListing && meta.Style == "source":
		style = DelimitedSource
	case style == DelimitedQuote && meta.Style == "verse":
		style = DelimitedVerse
	}
	s.i++

	bodyStart := s.i
	closeAt := -1
	for j := s.i; j < stopAt; j++ {
		if strings.TrimRight(s.lines[j], " \t") == fence {
			closeAt = j
			break
		}
	}
	if closeAt < 0 {
		s.warn(&ParseError{
			Kind:     ErrParse,
			Message:  "unterminated delimited block: " + fence,
			Location: s.loc(start, start),
			Advice:   "add a closing " + fence + " fence of the same length",
		})
		closeAt = stopAt
	}

	if style == DelimitedExample {
		if variant, ok := ParseAdmonitionVariant(meta.Style); ok {
			inner := &blockScanner{lines: s.lines, offsets: s.offsets, text: s.text, ctx: s.ctx, warnings: s.warnings, i: bodyStart}
			content := inner.parseMany(closeAt)
			s.i = closeAt + 1
			return Admonition{base: base{meta, title, s.loc(start, closeAt)}, Variant: variant, Content: content}
		}
	}

	db := DelimitedBlock{base: base{meta, title, s.loc(start, closeAt)}, Style: style, Fence: fence}
	if style == DelimitedSource && len(meta.Positional) > 1 {
		db.Language = meta.Positional[1]
	}
	if style == DelimitedQuote || style == DelimitedVerse {
		if len(meta.Positional) > 1 {
			db.Attribution = meta.Positional[1]
		}
		if len(meta.Positional) > 2 {
			db.Citetitle = meta.Positional[2]
		}
	}

	if style.Verbatim() {
		db.Lines = []InlineNode{PlainText{
			Content:  strings.Join(s.lines[bodyStart:closeAt], "\n"),
			Location: s.loc(bodyStart, closeAt-1),
		}}
	} else if style == DelimitedQuote || style == DelimitedVerse {
		raw := strings.Join(s.lines[bodyStart:closeAt], "\n")
		db.Lines = s.parseInlineBody(raw, bodyStart, effectiveChain(&meta, false))
	} else {
		inner := &blockScanner{lines: s.lines, offsets: s.offsets, text: s.text, ctx: s.ctx, warnings: s.warnings, i: bodyStart}
		db.Content = inner.parseMany(closeAt)
	}

	s.i = closeAt + 1
	return db
}

// DelimitedBlock is one of Sidebar/Listing/Literal/Example/Quote/Open/
// Source/Verse (spec.md §3). Content holds parsed child Blocks for
// container-like styles (sidebar, example, quote, open) and is nil for
// leaf/text styles, whose raw text lives in Lines instead; Lines is
// always populated with the body's source lines (possibly already
// substituted per the block's effective chain) for text-bearing styles.
type DelimitedBlock struct {
	base
	Style    DelimitedStyle
	Fence    string
	Content  []Block
	Lines    []InlineNode
	Language string // source style: the `source,<language>` attribute
	Attribution string // quote/verse style: the attribution (second positional attr)
	Citetitle   string // quote/verse style: the citation title (third positional attr)
}
