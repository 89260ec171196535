package adoc

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestPreprocessor(opts *Options) (*Preprocessor, *AttributeMap, *PositionTracker, *Warnings) {
	if opts == nil {
		opts = NewOptions()
	}
	attrs := NewAttributeMap()
	tracker := NewPositionTracker("doc.adoc", "")
	var warnings Warnings
	return newPreprocessor(opts, attrs, tracker, &warnings), attrs, tracker, &warnings
}

func TestSetextLevelRecognizesUnderlineRuns(t *testing.T) {
	cases := []struct {
		title, underline string
		wantLevel        int
		wantOK           bool
	}{
		{"Title", "=====", 0, true},
		{"Title", "-----", 1, true},
		{"Title", "~~~~~", 2, true},
		{"", "-----", 0, false},       // blank title never converts
		{"Title", "not underline", 0, false},
		{"Title", "--", 0, false}, // underline far shorter than title width
	}
	for _, c := range cases {
		level, ok := setextLevel(c.title, c.underline)
		assert.Equal(t, c.wantOK, ok, "title=%q underline=%q", c.title, c.underline)
		if ok {
			assert.Equal(t, c.wantLevel, level)
		}
	}
}

// Regression: the setext rewrite used to run as a post-process pass over
// the already-built text, desynchronizing every later PushSegment offset
// once the rewrite changed line length. It's now folded into Process's
// single pass, so locations after a setext heading must still resolve to
// their correct original-source span.
func TestSetextHeadingPreservesLaterOffsets(t *testing.T) {
	src := "Chapter One\n-----------\n\nBody text follows.\n"
	doc, err := Parse(src, "doc.adoc", nil)
	require.NoError(t, err)
	require.Len(t, doc.Blocks, 1) // the converted section, holding its paragraph

	sec, ok := doc.Blocks[0].(*Section)
	require.True(t, ok)
	assert.Equal(t, "Chapter One", InlinesToString(sec.Content))

	para, ok := sec.Blocks[0].(Paragraph)
	require.True(t, ok)
	loc := para.Position()
	assert.Equal(t, "Body text follows.", src[loc.AbsoluteStart:loc.AbsoluteEnd])
}

func TestProcessExpandsIncludeViaReadFile(t *testing.T) {
	opts := NewOptions()
	opts.ReadFile = func(path string) ([]byte, error) {
		return []byte("included content\n"), nil
	}
	pp, attrs, tracker, _ := newTestPreprocessor(opts)
	_ = attrs
	out, err := pp.Process("before\ninclude::other.adoc[]\nafter\n", "doc.adoc")
	require.NoError(t, err)
	assert.Contains(t, out, "included content")
	_ = tracker
}

func TestProcessIfdefElidesUndefinedAttribute(t *testing.T) {
	pp, _, _, _ := newTestPreprocessor(nil)
	out, err := pp.Process("kept\nifdef::nope[]\nhidden\nendif::[]\nalso kept\n", "doc.adoc")
	require.NoError(t, err)
	assert.Contains(t, out, "kept")
	assert.Contains(t, out, "also kept")
	assert.NotContains(t, out, "hidden")
}

func TestProcessIfndefKeepsWhenAttributeUnset(t *testing.T) {
	pp, _, _, _ := newTestPreprocessor(nil)
	out, err := pp.Process("ifndef::nope[]\nshown\nendif::[]\n", "doc.adoc")
	require.NoError(t, err)
	assert.Contains(t, out, "shown")
}

func TestProcessUnbalancedEndifWarns(t *testing.T) {
	pp, _, _, warnings := newTestPreprocessor(nil)
	_, err := pp.Process("text\nendif::[]\n", "doc.adoc")
	require.NoError(t, err)
	require.Len(t, *warnings, 1)
	assert.Equal(t, ErrUnbalancedConditional, (*warnings)[0].Kind)
}

func TestProcessAttributeEntrySetsAndUnsets(t *testing.T) {
	pp, attrs, _, _ := newTestPreprocessor(nil)
	_, err := pp.Process(":name: acdc\n:flag:\n:flag!:\n", "doc.adoc")
	require.NoError(t, err)
	assert.Equal(t, "acdc", attrs.GetString("name"))
	assert.False(t, attrs.IsSet("flag"))
}

// Server mode forbids URI includes (absent allow-uri-read) but still
// allows local includes within the source's parent directory, the same
// containment check Safe mode applies - only Secure blocks every include.
func TestResolveIncludeServerModeAllowsLocalInclude(t *testing.T) {
	opts := NewOptions()
	opts.SafeMode = SafeModeServer
	opts.ReadFile = func(path string) ([]byte, error) {
		return []byte("local body\n"), nil
	}
	pp, _, _, _ := newTestPreprocessor(opts)
	out, err := pp.Process("include::other.adoc[]\n", "doc.adoc")
	require.NoError(t, err)
	assert.Contains(t, out, "local body")
}

func TestResolveIncludeServerModeBlocksURIWithoutAllowUriRead(t *testing.T) {
	opts := NewOptions()
	opts.SafeMode = SafeModeServer
	pp, _, _, _ := newTestPreprocessor(opts)
	_, err := pp.Process("include::https://example.com/other.adoc[]\n", "doc.adoc")
	require.Error(t, err)
	pe, ok := err.(*ParseError)
	require.True(t, ok)
	assert.Equal(t, ErrIncludeOutsideBase, pe.Kind)
}

func TestResolveIncludeServerModeAllowsURIWhenAllowUriReadSet(t *testing.T) {
	opts := NewOptions()
	opts.SafeMode = SafeModeServer
	opts.ReadFile = func(path string) ([]byte, error) {
		return []byte("remote body\n"), nil
	}
	pp, attrs, _, _ := newTestPreprocessor(opts)
	attrs.Set("allow-uri-read", BoolAttr(true))
	out, err := pp.Process("include::https://example.com/other.adoc[]\n", "doc.adoc")
	require.NoError(t, err)
	assert.Contains(t, out, "remote body")
}

func TestResolveIncludeSecureModeBlocksEverything(t *testing.T) {
	opts := NewOptions()
	opts.SafeMode = SafeModeSecure
	opts.ReadFile = func(path string) ([]byte, error) {
		return []byte("body\n"), nil
	}
	pp, _, _, _ := newTestPreprocessor(opts)
	_, err := pp.Process("include::other.adoc[]\n", "doc.adoc")
	require.Error(t, err)
}

func TestEvalConditionEquality(t *testing.T) {
	attrs := NewAttributeMap()
	attrs.Set("backend", StringAttr("html5"))
	assert.True(t, evalCondition(`{backend} == "html5"`, attrs))
	assert.False(t, evalCondition(`{backend} == "pdf"`, attrs))
	assert.True(t, evalCondition(`{backend} != "pdf"`, attrs))
}
