package adoc

// InlineNode is the tagged-union variant list of spec.md §3. Rather than
// virtual dispatch, every stage that needs to branch on the concrete kind
// does an exhaustive Go type switch (spec.md §9, "Tagged variants") - the
// interface itself stays minimal, exposing only what every stage needs:
// the node's Location.
type InlineNode interface {
	Position() Location
}

// PlainText is an ordinary run of text that has gone through the full
// substitution chain.
type PlainText struct {
	Content  string
	Location Location
}

func (n PlainText) Position() Location { return n.Location }

// RawText is text that bypassed substitution (e.g. inside a passthrough
// with an empty substitution set).
type RawText struct {
	Content  string
	Location Location
}

func (n RawText) Position() Location { return n.Location }

// VerbatimText is text from a verbatim-context block (listing/literal/
// source) that only went through the specialchars stage.
type VerbatimText struct {
	Content  string
	Location Location
}

func (n VerbatimText) Position() Location { return n.Location }

// formatted is embedded by every recursive formatting variant so they all
// expose Content/Location without repeating field tags.
type formatted struct {
	Content  []InlineNode
	Location Location
}

type BoldText struct{ formatted }
type ItalicText struct{ formatted }
type MonospaceText struct{ formatted }
type HighlightText struct{ formatted }
type SubscriptText struct{ formatted }
type SuperscriptText struct{ formatted }
type CurvedQuotationText struct{ formatted }
type CurvedApostropheText struct{ formatted }

func (n BoldText) Position() Location             { return n.Location }
func (n ItalicText) Position() Location           { return n.Location }
func (n MonospaceText) Position() Location        { return n.Location }
func (n HighlightText) Position() Location        { return n.Location }
func (n SubscriptText) Position() Location        { return n.Location }
func (n SuperscriptText) Position() Location      { return n.Location }
func (n CurvedQuotationText) Position() Location  { return n.Location }
func (n CurvedApostropheText) Position() Location { return n.Location }

// StandaloneCurvedApostrophe is a bare ' converted to a curly apostrophe
// outside of a quoted-text pair (e.g. a possessive: "the cat's toy").
type StandaloneCurvedApostrophe struct {
	Location Location
}

func (n StandaloneCurvedApostrophe) Position() Location { return n.Location }

// LineBreak is a newline within inline content. Hard distinguishes an
// explicit line break (trailing " +") from an ordinary wrapped newline
// that is semantically just whitespace.
type LineBreak struct {
	Hard     bool
	Location Location
}

func (n LineBreak) Position() Location { return n.Location }

// InlineAnchor is an inline-scoped anchor: [[id,xreflabel]] appearing
// within running text rather than as block metadata.
type InlineAnchor struct {
	ID       string
	XrefLabel string
	Location Location
}

func (n InlineAnchor) Position() Location { return n.Location }

// Macro wraps one of the InlineMacro variants so it can sit in an
// InlineNode slice alongside plain formatting nodes.
type Macro struct {
	Macro    InlineMacro
	Location Location
}

func (n Macro) Position() Location { return n.Location }

// InlineMacro is the tagged-union variant list for macro-shaped inline
// constructs (spec.md §3).
type InlineMacro interface {
	Position() Location
}

type Link struct {
	Target     string
	Text       []InlineNode
	Attributes *BlockMetadata
	Location   Location
}

func (n Link) Position() Location { return n.Location }

type Url struct {
	Target     string
	Text       []InlineNode
	Attributes *BlockMetadata
	Location   Location
}

func (n Url) Position() Location { return n.Location }

type Mailto struct {
	Target   string
	Text     []InlineNode
	Location Location
}

func (n Mailto) Position() Location { return n.Location }

type Autolink struct {
	URL      string
	Location Location
}

func (n Autolink) Position() Location { return n.Location }

type CrossReference struct {
	Target   string
	Text     string
	Location Location
}

func (n CrossReference) Position() Location { return n.Location }

// InlineImage is the inline (as opposed to block) image macro:
// image:target[alt,width,height].
type InlineImage struct {
	Target   string
	Alt      string
	Width    string
	Height   string
	Location Location
}

func (n InlineImage) Position() Location { return n.Location }

type Footnote struct {
	Name     string
	Content  []InlineNode
	Location Location
}

func (n Footnote) Position() Location { return n.Location }

type Button struct {
	Label    string
	Location Location
}

func (n Button) Position() Location { return n.Location }

// Pass is the inline passthrough macro/syntax (spec.md §4.5; §8 S4). Text
// is always the passthrough's content as a string; it is never parsed into
// InlineNode content.
type Pass struct {
	Text          string
	Substitutions map[Substitution]bool
	Location      Location
}

func (n Pass) Position() Location { return n.Location }

type Keyboard struct {
	Keys     []string
	Location Location
}

func (n Keyboard) Position() Location { return n.Location }

type Menu struct {
	Target   string
	Items    []string
	Location Location
}

func (n Menu) Position() Location { return n.Location }

type Stem struct {
	Content  string
	Location Location
}

func (n Stem) Position() Location { return n.Location }

type Icon struct {
	Target     string
	Attributes *BlockMetadata
	Location   Location
}

func (n Icon) Position() Location { return n.Location }

// InlinesToString recursively flattens inline content to plain text,
// grounded on original_source/acdc-parser/src/model/inlines/converter.rs.
// Used by the validator's manpage NAME-section check and to render an
// inline-valued AttributeValue as a string.
func InlinesToString(nodes []InlineNode) string {
	var b []byte
	for _, n := range nodes {
		b = append(b, inlineToString(n)...)
	}
	return string(b)
}

func inlineToString(n InlineNode) string {
	switch v := n.(type) {
	case PlainText:
		return v.Content
	case RawText:
		return v.Content
	case VerbatimText:
		return v.Content
	case BoldText:
		return InlinesToString(v.Content)
	case ItalicText:
		return InlinesToString(v.Content)
	case MonospaceText:
		return InlinesToString(v.Content)
	case HighlightText:
		return InlinesToString(v.Content)
	case SubscriptText:
		return InlinesToString(v.Content)
	case SuperscriptText:
		return InlinesToString(v.Content)
	case CurvedQuotationText:
		return InlinesToString(v.Content)
	case CurvedApostropheText:
		return InlinesToString(v.Content)
	case StandaloneCurvedApostrophe:
		return "'"
	case LineBreak:
		return " "
	case InlineAnchor:
		return ""
	case Macro:
		return macroToString(v.Macro)
	default:
		return ""
	}
}

func macroToString(m InlineMacro) string {
	switch v := m.(type) {
	case Link:
		if len(v.Text) > 0 {
			return InlinesToString(v.Text)
		}
		return v.Target
	case Url:
		if len(v.Text) == 0 {
			return v.Target
		}
		return InlinesToString(v.Text)
	case Mailto:
		if len(v.Text) == 0 {
			return v.Target
		}
		return InlinesToString(v.Text)
	case Autolink:
		return v.URL
	case CrossReference:
		if v.Text != "" {
			return v.Text
		}
		return v.Target
	default:
		return ""
	}
}
