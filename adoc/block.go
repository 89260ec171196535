package adoc

// Block is the tagged-union variant list of spec.md §3: every structural
// element of a document. As with InlineNode, dispatch is an exhaustive Go
// type switch rather than virtual methods - see section.go's tree builder
// and asg.go's serializer for the two places that matter most.
type Block interface {
	Position() Location
	blockMetadata() *BlockMetadata
}

// BlockMetadata is the attribute/role/option/style bag every Block carries
// (spec.md §3). The Substitutions field is nil unless the block carried an
// explicit `subs=` attribute entry overriding its default chain.
type BlockMetadata struct {
	Attributes    *AttributeMap
	Positional    []string
	Roles         []string
	Options       []string
	Style         string
	ID            string
	Anchors       []Anchor
	Substitutions *[]Substitution
}

// NewBlockMetadata returns an empty, ready-to-use BlockMetadata.
func NewBlockMetadata() BlockMetadata {
	return BlockMetadata{Attributes: NewAttributeMap()}
}

// IsEmpty reports whether this metadata carries nothing beyond defaults -
// used by the ASG serializer to omit the field entirely (spec.md §6).
func (m BlockMetadata) IsEmpty() bool {
	return (m.Attributes == nil || m.Attributes.Len() == 0) &&
		len(m.Positional) == 0 && len(m.Roles) == 0 && len(m.Options) == 0 &&
		m.Style == "" && m.ID == "" && len(m.Anchors) == 0 && m.Substitutions == nil
}

// Title is an ordered sequence of InlineNode; an empty slice means no
// title was present (spec.md §3).
type Title []InlineNode

// Anchor is `{id, xreflabel?, location}` (spec.md §3), globally unique
// within a document - duplicates are reported but do not abort parsing
// (spec.md §8 invariant 6, §9 supplemented feature).
type Anchor struct {
	ID        string   `json:"id"`
	XrefLabel string   `json:"xreflabel,omitempty"`
	Location  Location `json:"location"`
}

// base is embedded by every Block variant, carrying the fields every
// variant shares: Metadata, an optional Title, and Location.
type base struct {
	Metadata BlockMetadata
	Title    Title
	Location Location
}

func (b base) Position() Location            { return b.Location }
func (b base) blockMetadata() *BlockMetadata { return &b.Metadata }

// Paragraph is a run of one or more contiguous text lines, terminated by a
// blank line or the start of another block-level construct (spec.md §4.4).
type Paragraph struct {
	base
	Content []InlineNode
	Admonition *AdmonitionVariant
}

// ThematicBreak is a horizontal rule (`'''` or `---` on its own line).
type ThematicBreak struct{ base }

// PageBreak is an explicit `<<<` page-break marker.
type PageBreak struct{ base }

// DiscreteHeader is a section-title-shaped line carrying `[discrete]`
// style, which does not participate in section nesting (spec.md §4.4).
type DiscreteHeader struct {
	base
	Level   int
	Content []InlineNode
}

// DocumentAttribute is a `:name: value` entry appearing in the document
// body (as opposed to the header); ScanBlocks emits one for each such line
// it sees and also mutates the live attribute map (spec.md §4.4). Parse's
// Preprocessor consumes every attribute entry line first, so a Document
// returned by Parse contains no DocumentAttribute blocks.
type DocumentAttribute struct {
	base
	Name  string
	Value AttributeValue
}

// TableOfContents is an explicit `toc::[]` macro block marking where a
// generated table of contents should be inserted.
type TableOfContents struct{ base }

// compile-time interface satisfaction checks for the variants defined in
// this file; the remaining variants check themselves in their own files.
var (
	_ Block = Paragraph{}
	_ Block = ThematicBreak{}
	_ Block = PageBreak{}
	_ Block = DiscreteHeader{}
	_ Block = DocumentAttribute{}
	_ Block = TableOfContents{}
)
