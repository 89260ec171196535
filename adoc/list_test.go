package adoc

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseUnorderedList(t *testing.T) {
	doc, err := Parse("* one\n* two\n* three\n", "doc.adoc", nil)
	require.NoError(t, err)
	require.Len(t, doc.Blocks, 1)
	list, ok := doc.Blocks[0].(UnorderedList)
	require.True(t, ok)
	require.Len(t, list.Items, 3)
	assert.Equal(t, "one", InlinesToString(list.Items[0].Content))
	assert.Equal(t, "three", InlinesToString(list.Items[2].Content))
}

func TestParseOrderedList(t *testing.T) {
	doc, err := Parse(". first\n. second\n", "doc.adoc", nil)
	require.NoError(t, err)
	require.Len(t, doc.Blocks, 1)
	list, ok := doc.Blocks[0].(OrderedList)
	require.True(t, ok)
	require.Len(t, list.Items, 2)
}

func TestParseDescriptionList(t *testing.T) {
	doc, err := Parse("Term one:: Description one\nTerm two:: Description two\n", "doc.adoc", nil)
	require.NoError(t, err)
	require.Len(t, doc.Blocks, 1)
	dlist, ok := doc.Blocks[0].(DescriptionList)
	require.True(t, ok)
	require.Len(t, dlist.Items, 2)
	assert.Equal(t, "Term one", InlinesToString(dlist.Items[0].Term))
	assert.Equal(t, "Description one", InlinesToString(dlist.Items[0].Content))
}

func TestListItemContinuationLine(t *testing.T) {
	doc, err := Parse("* item one\n  continued text\n* item two\n", "doc.adoc", nil)
	require.NoError(t, err)
	list := doc.Blocks[0].(UnorderedList)
	require.Len(t, list.Items, 2)
	assert.Equal(t, "item one\ncontinued text", InlinesToString(list.Items[0].Content))
}

func TestSameListMarkerNormalizesDigitsAndBullets(t *testing.T) {
	assert.True(t, sameListMarker("*", "*"))
	assert.True(t, sameListMarker("1.", "2."))
	assert.False(t, sameListMarker("*", "-"))
}

func TestMarkerLevelCountsRunLength(t *testing.T) {
	assert.Equal(t, 1, markerLevel("*"))
	assert.Equal(t, 2, markerLevel("**"))
	assert.Equal(t, 1, markerLevel("1."))
}
