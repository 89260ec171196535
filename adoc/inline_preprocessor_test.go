package adoc

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestExtractPassthroughsTriplePlus(t *testing.T) {
	stripped, entries := extractPassthroughs("before +++<b>raw</b>+++ after")
	require.Len(t, entries, 1)
	assert.Equal(t, "<b>raw</b>", entries[0].raw)
	assert.Empty(t, entries[0].substitutions)
	assert.Contains(t, stripped, string(passthroughPlaceholder))
	assert.NotContains(t, stripped, "<b>")
}

func TestExtractPassthroughsDoublePlusAppliesSpecialchars(t *testing.T) {
	_, entries := extractPassthroughs("++<tag>++")
	require.Len(t, entries, 1)
	assert.True(t, entries[0].substitutions[SubSpecialchars])
}

func TestExtractPassthroughsPassMacroRecordsDeclaredSubs(t *testing.T) {
	_, entries := extractPassthroughs("pass:quotes,attributes[{name} text]")
	require.Len(t, entries, 1)
	assert.Equal(t, "{name} text", entries[0].raw)
	assert.True(t, entries[0].substitutions[SubQuotes])
	assert.True(t, entries[0].substitutions[SubAttributes])
	assert.False(t, entries[0].substitutions[SubReplacements])
}

func TestRestorePassthroughsReinsertsRawText(t *testing.T) {
	stripped, entries := extractPassthroughs("see +++<b>x</b>+++ now")
	nodes := []InlineNode{PlainText{Content: stripped, Location: Location{}}}
	restored := restorePassthroughs(nodes, entries)
	require.Len(t, restored, 3)
	assert.Equal(t, "see ", restored[0].(PlainText).Content)
	raw, ok := restored[1].(RawText)
	require.True(t, ok)
	assert.Equal(t, "<b>x</b>", raw.Content)
	assert.Equal(t, " now", restored[2].(PlainText).Content)
}

func TestExtractPassthroughsPassMacroIsTaggedAsMacro(t *testing.T) {
	_, entries := extractPassthroughs("pass:[<b>raw</b>]")
	require.Len(t, entries, 1)
	assert.True(t, entries[0].isMacro)
}

func TestExtractPassthroughsTriplePlusIsNotTaggedAsMacro(t *testing.T) {
	_, entries := extractPassthroughs("+++<b>raw</b>+++")
	require.Len(t, entries, 1)
	assert.False(t, entries[0].isMacro)
}

// spec.md §8 scenario S4: a pass:[...] macro restores as a
// Macro(Pass{...}) InlineMacro node, not a bare RawText leaf.
func TestRestorePassthroughsPassMacroYieldsPassMacroNode(t *testing.T) {
	stripped, entries := extractPassthroughs("pass:[<b>raw</b>]")
	nodes := []InlineNode{PlainText{Content: stripped, Location: Location{}}}
	restored := restorePassthroughs(nodes, entries)
	require.Len(t, restored, 1)
	m, ok := restored[0].(Macro)
	require.True(t, ok)
	p, ok := m.Macro.(Pass)
	require.True(t, ok)
	assert.Equal(t, "<b>raw</b>", p.Text)
	assert.Empty(t, p.Substitutions)
}

// Regression: the +++/++ syntax forms must still restore as RawText, not
// be swept into the Pass-macro branch alongside pass:[...].
func TestRestorePassthroughsTriplePlusStillYieldsRawText(t *testing.T) {
	stripped, entries := extractPassthroughs("+++<b>raw</b>+++")
	nodes := []InlineNode{PlainText{Content: stripped, Location: Location{}}}
	restored := restorePassthroughs(nodes, entries)
	require.Len(t, restored, 1)
	raw, ok := restored[0].(RawText)
	require.True(t, ok)
	assert.Equal(t, "<b>raw</b>", raw.Content)
}

func TestInlineOffsetMapIdentityResolvesUnchanged(t *testing.T) {
	m := newInlineOffsetMap()
	m.identity(10)
	assert.Equal(t, 5, m.resolve(5))
}

func TestInlineOffsetMapResolveUsesFirstMatchingPushedSegment(t *testing.T) {
	m := newInlineOffsetMap()
	m.push(0, 3, 100)
	m.push(3, 6, 200)
	assert.Equal(t, 101, m.resolve(1))
	assert.Equal(t, 202, m.resolve(5))
}

func TestApplyQuotesConvertsStraightToOpenAndCloseCurly(t *testing.T) {
	out := applyQuotes(`say "hello" now`)
	assert.Equal(t, "say “hello” now", out)
}

func TestApplyQuotesApostropheAtStartIsOpening(t *testing.T) {
	out := applyQuotes(`'tis the season`)
	assert.True(t, []rune(out)[0] == '‘')
}

func TestApplyReplacementsAppliesTable(t *testing.T) {
	assert.Equal(t, "© ® ™", applyReplacements("(C) (R) (TM)"))
	assert.Equal(t, "em—dash", applyReplacements("em--dash"))
	assert.Equal(t, "a → b ← c", applyReplacements("a -> b <- c"))
}

func TestApplyPostReplacementsMarksHardBreak(t *testing.T) {
	out := applyPostReplacements("line one +\nline two")
	assert.Contains(t, out, string(hardBreakPlaceholder))
	assert.NotContains(t, out, " +\n")
}

func TestRunSubstitutionChainHonorsRequestedStagesOnly(t *testing.T) {
	attrs := NewAttributeMap()
	attrs.Set("name", StringAttr("world"))
	ctx := &inlineContext{attrs: attrs, warnings: &Warnings{}}

	out := runSubstitutionChain("hello {name} (C)", []Substitution{SubAttributes}, ctx)
	assert.Equal(t, "hello world (C)", out)

	out2 := runSubstitutionChain("hello {name} (C)", []Substitution{SubReplacements}, ctx)
	assert.Equal(t, "hello {name} ©", out2)
}
