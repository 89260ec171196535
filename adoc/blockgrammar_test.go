package adoc

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseThematicBreakAndPageBreak(t *testing.T) {
	doc, err := Parse("'''\n\n<<<\n", "doc.adoc", nil)
	require.NoError(t, err)
	require.Len(t, doc.Blocks, 2)
	_, ok := doc.Blocks[0].(ThematicBreak)
	assert.True(t, ok)
	_, ok = doc.Blocks[1].(PageBreak)
	assert.True(t, ok)
}

func TestParseBlockAttrLineRoles(t *testing.T) {
	doc, err := Parse("[.lead,.center]\nText here.\n", "doc.adoc", nil)
	require.NoError(t, err)
	require.Len(t, doc.Blocks, 1)
	p := doc.Blocks[0].(Paragraph)
	assert.Equal(t, []string{"lead", "center"}, p.Metadata.Roles)
}

func TestParseBlockAnchorSetsID(t *testing.T) {
	doc, err := Parse("[[intro]]\nText here.\n", "doc.adoc", nil)
	require.NoError(t, err)
	require.Len(t, doc.Blocks, 1)
	p := doc.Blocks[0].(Paragraph)
	assert.Equal(t, "intro", p.Metadata.ID)
}

func TestParseBlockTitle(t *testing.T) {
	doc, err := Parse(".A title\nText here.\n", "doc.adoc", nil)
	require.NoError(t, err)
	require.Len(t, doc.Blocks, 1)
	p := doc.Blocks[0].(Paragraph)
	assert.Equal(t, "A title", InlinesToString([]InlineNode(p.Title)))
}

// Regression: parseAdmonitionParagraph used to mutate the shared scanner's
// line array in place and miscompute the child block base by the marker's
// stripped length, shifting every inline node's location earlier than its
// true position.
func TestAdmonitionParagraphLocationAccountsForMarker(t *testing.T) {
	src := "NOTE: Remember this.\n"
	doc, err := Parse(src, "doc.adoc", nil)
	require.NoError(t, err)
	require.Len(t, doc.Blocks, 1)
	p := doc.Blocks[0].(Paragraph)
	require.NotNil(t, p.Admonition)
	assert.Equal(t, AdmonitionNote, *p.Admonition)
	require.Len(t, p.Content, 1)
	loc := p.Content[0].Position()
	assert.Equal(t, "Remember this.", src[loc.AbsoluteStart:loc.AbsoluteEnd])
}

func TestAdmonitionParagraphMultilineContinuation(t *testing.T) {
	doc, err := Parse("WARNING: line one\nline two\n\nnext paragraph\n", "doc.adoc", nil)
	require.NoError(t, err)
	require.Len(t, doc.Blocks, 2)
	p := doc.Blocks[0].(Paragraph)
	require.NotNil(t, p.Admonition)
	assert.Equal(t, AdmonitionWarning, *p.Admonition)
	assert.Equal(t, "line one\nline two", InlinesToString(p.Content))
}

// :name: value entries are consumed by the Preprocessor pass before the
// block grammar ever sees them (spec.md §4.2), so DocumentAttribute's
// ScanBlocks-level recognition is exercised directly here rather than via
// the full Parse pipeline, where such a line is always eaten earlier.
func TestScanBlocksRecognizesDocumentAttributeLine(t *testing.T) {
	attrs := NewAttributeMap()
	tracker := NewPositionTracker("doc.adoc", ":custom: value\n")
	var warnings Warnings
	ctx := &inlineContext{attrs: attrs, tracker: tracker, offsets: newInlineOffsetMap()}
	blocks := ScanBlocks(":custom: value\n", ctx, &warnings)
	require.Len(t, blocks, 1)
	attr, ok := blocks[0].(DocumentAttribute)
	require.True(t, ok)
	assert.Equal(t, "custom", attr.Name)
	assert.Equal(t, "value", attrs.GetString("custom"))
}

// subs=none skips every text-level substitution stage (specialchars,
// quotes, attributes, replacements, post_replacements) - it does not
// disable structural formatting-mark/macro recognition, which always runs
// in the same scanning pass regardless of the requested chain.
func TestParseSubsOverrideNoneSkipsAttributeExpansion(t *testing.T) {
	doc, err := Parse("[subs=\"none\"]\nsee {nonexistent} here\n", "doc.adoc", nil)
	require.NoError(t, err)
	require.Len(t, doc.Blocks, 1)
	p := doc.Blocks[0].(Paragraph)
	assert.Equal(t, "see {nonexistent} here", InlinesToString(p.Content))
}
