package adoc

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseDocumentTitleAndParagraph(t *testing.T) {
	doc, err := Parse("= My Title\n\nHello world.\n", "doc.adoc", nil)
	require.NoError(t, err)
	require.NotNil(t, doc)

	assert.Equal(t, "My Title", InlinesToString(doc.Title))
	require.Len(t, doc.Blocks, 1)
	p, ok := doc.Blocks[0].(Paragraph)
	require.True(t, ok)
	assert.Equal(t, "Hello world.", InlinesToString(p.Content))
}

// Regression: blanking the title line must preserve byte length so every
// later line's PositionTracker offset stays correct.
func TestParseTitleBlankingPreservesLaterOffsets(t *testing.T) {
	src := "= T\n\nSecond paragraph here.\n"
	doc, err := Parse(src, "doc.adoc", nil)
	require.NoError(t, err)
	require.Len(t, doc.Blocks, 1)
	p := doc.Blocks[0].(Paragraph)
	loc := p.Position()
	want := "Second paragraph here."
	got := src[loc.AbsoluteStart:loc.AbsoluteEnd]
	assert.Equal(t, want, got, "paragraph location must point at its own text in the original source")
}

func TestParseCollectsFootnotesInDocumentOrder(t *testing.T) {
	doc, err := Parse("para one footnote:[first note]\n\npara two footnote:[second note]\n", "doc.adoc", nil)
	require.NoError(t, err)
	require.Len(t, doc.Footnotes, 2)
	assert.Equal(t, 1, doc.Footnotes[0].Number)
	assert.Equal(t, 2, doc.Footnotes[1].Number)
}

func TestParseReusesFootnoteNumberForRepeatedName(t *testing.T) {
	src := "see footnote:disclaimer[The disclaimer text] and again footnote:disclaimer[]\n"
	doc, err := Parse(src, "doc.adoc", nil)
	require.NoError(t, err)
	require.Len(t, doc.Footnotes, 1)
	assert.Equal(t, "disclaimer", doc.Footnotes[0].Name)
}

// A section that skips a level (e.g. level one directly to level three)
// is a structural mismatch, one of spec.md §7's hard-failure kinds - it
// must abort the parse outright, not just surface as a Warning, even with
// the default (non-promoting) Options.
func TestParseNestedSectionSkipIsHardError(t *testing.T) {
	_, err := Parse("== Level One\n\n==== Level Three\n\ntext\n", "doc.adoc", nil)
	require.Error(t, err)
	pe, ok := err.(*ParseError)
	require.True(t, ok)
	assert.Equal(t, ErrNestedSectionLevelMismatch, pe.Kind)
}

func TestParseWarningsAsErrors(t *testing.T) {
	src := "[[dup]]\nFirst.\n\n[[dup]]\nSecond.\n"

	doc, err := Parse(src, "doc.adoc", nil)
	require.NoError(t, err)
	require.NotEmpty(t, doc.Warnings)

	opts := NewOptions()
	opts.WarningsAsErrors = true
	_, err = Parse(src, "doc.adoc", opts)
	require.Error(t, err)
}

func TestParseInlineOnly(t *testing.T) {
	nodes, warnings, err := ParseInline("*bold* and _italic_", nil)
	require.NoError(t, err)
	assert.Empty(t, warnings)
	assert.NotEmpty(t, nodes)
}
