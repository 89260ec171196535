package adoc

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseBlockImageWithPositionalAttrs(t *testing.T) {
	doc, err := Parse("image::diagram.png[A diagram,640,480]\n", "doc.adoc", nil)
	require.NoError(t, err)
	require.Len(t, doc.Blocks, 1)
	img, ok := doc.Blocks[0].(Image)
	require.True(t, ok)
	assert.Equal(t, "diagram.png", img.Target)
	assert.Equal(t, "A diagram", img.Alt)
	assert.Equal(t, "640", img.Width)
	assert.Equal(t, "480", img.Height)
}

func TestParseBlockImageKeyValueOverridesPositional(t *testing.T) {
	doc, err := Parse("image::diagram.png[width=100,height=50]\n", "doc.adoc", nil)
	require.NoError(t, err)
	img := doc.Blocks[0].(Image)
	assert.Equal(t, "100", img.Width)
	assert.Equal(t, "50", img.Height)
}

func TestParseBlockAudioFlags(t *testing.T) {
	doc, err := Parse("audio::sound.mp3[autoplay,loop]\n", "doc.adoc", nil)
	require.NoError(t, err)
	a, ok := doc.Blocks[0].(Audio)
	require.True(t, ok)
	assert.Equal(t, "sound.mp3", a.Target)
	assert.True(t, a.Autoplay)
	assert.True(t, a.Loop)
	assert.True(t, a.Controls)
}

func TestParseBlockVideoWithPosterAndNoControls(t *testing.T) {
	doc, err := Parse("video::movie.mp4[poster=cover.jpg,nocontrols]\n", "doc.adoc", nil)
	require.NoError(t, err)
	v, ok := doc.Blocks[0].(Video)
	require.True(t, ok)
	assert.Equal(t, "movie.mp4", v.Target)
	assert.Equal(t, "cover.jpg", v.Poster)
	assert.False(t, v.Controls)
}

func TestBlockImageTerminatesPrecedingParagraph(t *testing.T) {
	doc, err := Parse("Some text.\nimage::pic.png[]\n", "doc.adoc", nil)
	require.NoError(t, err)
	require.Len(t, doc.Blocks, 2)
	_, ok := doc.Blocks[0].(Paragraph)
	assert.True(t, ok)
	_, ok = doc.Blocks[1].(Image)
	assert.True(t, ok)
}
