package adoc

import (
	"encoding/json"
	"regexp"
	"sort"
)

// AttributeKind discriminates the variants of AttributeValue.
type AttributeKind int

const (
	AttrString AttributeKind = iota
	AttrBool
	AttrNone
	// AttrInlines holds already-parsed inline content; only ever produced
	// internally by the inline preprocessor when an attribute reference
	// inside inline text resolves to something richer than a flat string
	// (spec.md §3's AttributeValue variant list).
	AttrInlines
)

// AttributeValue is the tagged union String | Bool | None | Inlines from
// spec.md §3. It is a struct rather than an interface (unlike Block and
// InlineNode) because it has no per-variant behavior beyond holding data -
// there is nothing here a type switch over an interface would buy.
type AttributeValue struct {
	Kind    AttributeKind
	Str     string
	Bool    bool
	Inlines []InlineNode
}

func StringAttr(s string) AttributeValue { return AttributeValue{Kind: AttrString, Str: s} }
func BoolAttr(b bool) AttributeValue     { return AttributeValue{Kind: AttrBool, Bool: b} }
func NoneAttr() AttributeValue           { return AttributeValue{Kind: AttrNone} }
func InlinesAttr(n []InlineNode) AttributeValue {
	return AttributeValue{Kind: AttrInlines, Inlines: n}
}

// IsSet reports whether the attribute is "on" for the purposes of ifdef/
// ifndef checks: unset (Bool false) is off, everything else is on.
func (v AttributeValue) IsSet() bool {
	return !(v.Kind == AttrBool && !v.Bool)
}

// String renders the attribute value the way {name} substitution does:
// strings pass through, true/false render as AsciiDoc's own conventions
// (empty string for a set-but-valueless attribute, nothing for unset).
func (v AttributeValue) String() string {
	switch v.Kind {
	case AttrString:
		return v.Str
	case AttrBool:
		if v.Bool {
			return ""
		}
		return ""
	case AttrInlines:
		return InlinesToString(v.Inlines)
	default:
		return ""
	}
}

func (v AttributeValue) MarshalJSON() ([]byte, error) {
	switch v.Kind {
	case AttrString:
		return json.Marshal(v.Str)
	case AttrBool:
		return json.Marshal(v.Bool)
	case AttrInlines:
		return json.Marshal(v.Inlines)
	default:
		return []byte("null"), nil
	}
}

// AttributeMap is the document's live, parse-local attribute table
// (spec.md §5: "a strictly owned resource of the active parse"). It is
// intentionally not safe for concurrent use - nothing in this module
// shares one across goroutines.
type AttributeMap struct {
	values map[string]AttributeValue
	order  []string
}

func NewAttributeMap() *AttributeMap {
	return &AttributeMap{values: map[string]AttributeValue{}}
}

func (m *AttributeMap) Get(name string) (AttributeValue, bool) {
	v, ok := m.values[name]
	return v, ok
}

func (m *AttributeMap) GetString(name string) string {
	if v, ok := m.values[name]; ok {
		return v.String()
	}
	return ""
}

func (m *AttributeMap) IsSet(name string) bool {
	v, ok := m.values[name]
	return ok && v.IsSet()
}

// Set overwrites the attribute; a name's first Set also appends it to
// m.order.
func (m *AttributeMap) Set(name string, v AttributeValue) {
	if _, exists := m.values[name]; !exists {
		m.order = append(m.order, name)
	}
	m.values[name] = v
}

// SetIfAbsent sets the attribute only when name has no entry yet. Parse
// uses it for soft (non-hard) caller defaults, so they never clobber a
// value the document itself set; hard defaults go through Set instead.
func (m *AttributeMap) SetIfAbsent(name string, v AttributeValue) {
	if _, exists := m.values[name]; !exists {
		m.Set(name, v)
	}
}

func (m *AttributeMap) Unset(name string) {
	m.Set(name, BoolAttr(false))
}

func (m *AttributeMap) Len() int { return len(m.values) }

// Snapshot returns a deep copy of the map, used by the preprocessor when
// entering an include so a scoped :attr: inside the include can be
// unwound on exit (spec.md §9 "Attribute mutation during parse").
func (m *AttributeMap) Snapshot() *AttributeMap {
	cp := NewAttributeMap()
	cp.order = append(cp.order, m.order...)
	for k, v := range m.values {
		cp.values[k] = v
	}
	return cp
}

// Restore replaces the map's contents with a previously captured Snapshot.
func (m *AttributeMap) Restore(snap *AttributeMap) {
	m.values = snap.values
	m.order = snap.order
}

// SortedNames returns attribute names in a deterministic (sorted) order,
// used by ASG serialization so output is stable across runs.
func (m *AttributeMap) SortedNames() []string {
	names := make([]string, 0, len(m.values))
	for k := range m.values {
		names = append(names, k)
	}
	sort.Strings(names)
	return names
}

var attrRefRegexp = regexp.MustCompile(`\{([A-Za-z0-9_][A-Za-z0-9_-]*)\}`)

// substituteAttributeRefs expands {name} references against attrs, used
// both by header-level attribute-entry values (spec.md §4.2) and by the
// inline preprocessor's "attributes" stage (spec.md §4.5 stage 3).
// Unresolved references are left verbatim and reported through warn.
func substituteAttributeRefs(input string, attrs *AttributeMap, warn func(name string)) string {
	return attrRefRegexp.ReplaceAllStringFunc(input, func(match string) string {
		name := match[1 : len(match)-1]
		v, ok := attrs.Get(name)
		if !ok || !v.IsSet() {
			if warn != nil {
				warn(name)
			}
			return match
		}
		return v.String()
	})
}
