package adoc

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAttributeMapSetIfAbsentRespectsHardDefaults(t *testing.T) {
	m := NewAttributeMap()
	m.Set("author", StringAttr("from-header"))

	// A soft default never clobbers a value the document itself set.
	m.SetIfAbsent("author", StringAttr("from-caller"))
	got, _ := m.Get("author")
	assert.Equal(t, "from-header", got.Str)

	// A name the document never set is free to take the caller's default.
	m.SetIfAbsent("edition", StringAttr("2nd"))
	got, _ = m.Get("edition")
	assert.Equal(t, "2nd", got.Str)
}

func TestAttributeMapUnsetMarksFalse(t *testing.T) {
	m := NewAttributeMap()
	m.Set("toc", BoolAttr(true))
	m.Unset("toc")
	assert.False(t, m.IsSet("toc"))
}

func TestAttributeMapSnapshotRestoreIsolatesMutation(t *testing.T) {
	m := NewAttributeMap()
	m.Set("scope", StringAttr("outer"))
	snap := m.Snapshot()

	m.Set("scope", StringAttr("inner"))
	got, _ := m.Get("scope")
	assert.Equal(t, "inner", got.Str)

	m.Restore(snap)
	got, _ = m.Get("scope")
	assert.Equal(t, "outer", got.Str)
}

func TestSubstituteAttributeRefsWarnsOnUnresolved(t *testing.T) {
	attrs := NewAttributeMap()
	attrs.Set("name", StringAttr("acdc"))

	var warned []string
	out := substituteAttributeRefs("hello {name}, missing {nope}", attrs, func(name string) {
		warned = append(warned, name)
	})

	assert.Equal(t, "hello acdc, missing {nope}", out)
	require.Len(t, warned, 1)
	assert.Equal(t, "nope", warned[0])
}

func TestAttributeValueMarshalJSON(t *testing.T) {
	cases := []struct {
		v    AttributeValue
		want string
	}{
		{StringAttr("x"), `"x"`},
		{BoolAttr(true), "true"},
		{NoneAttr(), "null"},
	}
	for _, c := range cases {
		raw, err := json.Marshal(c.v)
		require.NoError(t, err)
		assert.Equal(t, c.want, string(raw))
	}
}
