package adoc

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAdmonitionVariantStringLowercase(t *testing.T) {
	cases := map[AdmonitionVariant]string{
		AdmonitionNote:      "note",
		AdmonitionTip:       "tip",
		AdmonitionImportant: "important",
		AdmonitionWarning:   "warning",
		AdmonitionCaution:   "caution",
	}
	for v, want := range cases {
		assert.Equal(t, want, v.String())
	}
}

func TestAdmonitionVariantMarshalJSON(t *testing.T) {
	raw, err := AdmonitionWarning.MarshalJSON()
	require.NoError(t, err)
	assert.Equal(t, `"warning"`, string(raw))
}

func TestParseAdmonitionVariantIsCaseInsensitive(t *testing.T) {
	v, ok := ParseAdmonitionVariant("important")
	require.True(t, ok)
	assert.Equal(t, AdmonitionImportant, v)

	v, ok = ParseAdmonitionVariant("CAUTION")
	require.True(t, ok)
	assert.Equal(t, AdmonitionCaution, v)
}

func TestParseAdmonitionVariantRejectsUnknown(t *testing.T) {
	_, ok := ParseAdmonitionVariant("FYI")
	assert.False(t, ok)
}

func TestParseLeadingKeywordAdmonitionIsParagraphWithVariant(t *testing.T) {
	doc, err := Parse("WARNING: Handle with care.\n", "doc.adoc", nil)
	require.NoError(t, err)
	require.Len(t, doc.Blocks, 1)
	p, ok := doc.Blocks[0].(Paragraph)
	require.True(t, ok)
	require.NotNil(t, p.Admonition)
	assert.Equal(t, AdmonitionWarning, *p.Admonition)
	assert.Equal(t, "Handle with care.", InlinesToString(p.Content))
}

func TestParseBlockStyleAdmonitionProducesAdmonitionBlock(t *testing.T) {
	src := "[NOTE]\n====\nFirst paragraph.\n\nSecond paragraph.\n====\n"
	doc, err := Parse(src, "doc.adoc", nil)
	require.NoError(t, err)
	require.Len(t, doc.Blocks, 1)

	a, ok := doc.Blocks[0].(Admonition)
	require.True(t, ok)
	assert.Equal(t, AdmonitionNote, a.Variant)
	require.Len(t, a.Content, 2)
	first, ok := a.Content[0].(Paragraph)
	require.True(t, ok)
	assert.Equal(t, "First paragraph.", InlinesToString(first.Content))
}

func TestParseBlockStyleAdmonitionIsCaseInsensitive(t *testing.T) {
	src := "[caution]\n====\nMind the gap.\n====\n"
	doc, err := Parse(src, "doc.adoc", nil)
	require.NoError(t, err)
	a, ok := doc.Blocks[0].(Admonition)
	require.True(t, ok)
	assert.Equal(t, AdmonitionCaution, a.Variant)
}

func TestParseExampleBlockWithNonAdmonitionStyleStaysDelimited(t *testing.T) {
	src := "[example]\n====\nJust an example.\n====\n"
	doc, err := Parse(src, "doc.adoc", nil)
	require.NoError(t, err)
	require.Len(t, doc.Blocks, 1)
	db, ok := doc.Blocks[0].(DelimitedBlock)
	require.True(t, ok)
	assert.Equal(t, DelimitedExample, db.Style)
}
