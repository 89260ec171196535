package adoc

import (
	"regexp"
	"strings"
)

// unorderedMarkerRegexp and orderedMarkerRegexp recognize list item
// markers at line start; nesting depth is the marker's rune count, e.g.
// "***" is level 3 (spec.md §4.4), grounded on go-org's
// unorderedListRegexp/orderedListRegexp (org/list.go).
var (
	unorderedMarkerRegexp  = regexp.MustCompile(`^(\s*)([*-]+)(\s+(.*)|$)`)
	orderedMarkerRegexp    = regexp.MustCompile(`^(\s*)(\.+|[0-9]+\.)(\s+(.*)|$)`)
	descriptionTermRegexp  = regexp.MustCompile(`^(.*[^:])(:{2,4})(\s+(.*)|$)`)
	calloutMarkerRegexp    = regexp.MustCompile(`^<(\d+|\.)>\s+(.*)$`)
	calloutRefRegexp       = regexp.MustCompile(`<(\d+)>`)
)

// ListItem is shared by UnorderedList and OrderedList: a marker-prefixed
// line plus any following deeper-indented continuation lines, joined into
// Content. parseList does not populate Blocks.
type ListItem struct {
	Marker   string
	Checkbox *bool // nil: no checkbox; else checked/unchecked
	Content  []InlineNode
	Blocks   []Block
	Location Location
}

// UnorderedList is a run of `*`/`-` marked items at one nesting level.
type UnorderedList struct {
	base
	Items []ListItem
}

// OrderedList is a run of `.` or `<digit>.` marked items at one nesting
// level.
type OrderedList struct {
	base
	Items        []ListItem
	NumberStyle  string // "arabic", "loweralpha", "upperroman", etc, from the list's `style` attribute
	StartAt      int
}

// DescriptionListItem pairs a term with its description content.
type DescriptionListItem struct {
	Term     []InlineNode
	Content  []InlineNode
	Blocks   []Block
	Location Location
}

// DescriptionList is a run of `term:: description` items.
type DescriptionList struct {
	base
	Items []DescriptionListItem
}

// CalloutItem pairs a callout number with its explanatory text.
type CalloutItem struct {
	Number   int
	Content  []InlineNode
	Location Location
}

// CalloutList is the `<1> text` list that follows a listing/source block
// carrying `<n>` callout markers (spec.md §4.4).
type CalloutList struct {
	base
	Items []CalloutItem
}

// markerLevel returns the nesting depth implied by a marker string,
// i.e. its rune length for `*`/`-`/`.` runs, or 1 for a digit-dot marker.
func markerLevel(marker string) int {
	for _, r := range marker {
		if r >= '0' && r <= '9' {
			return 1
		}
	}
	return len([]rune(marker))
}

// sameListMarker reports whether two markers belong to the same list run
// at level 1 (spec.md §4.4: "Two lists are merged if their markers at
// level 1 are equal").
func sameListMarker(a, b string) bool {
	normalize := func(m string) string {
		if len(m) == 0 {
			return m
		}
		r := []rune(m)
		if r[0] >= '0' && r[0] <= '9' {
			return "#"
		}
		return string(r[0])
	}
	return normalize(a) == normalize(b)
}

// parseList consumes a run of same-level list items, go-org's parseList
// idiom (org/list.go): items are grouped while their level-1 marker
// matches, description-list items are recognized by a `::` term
// separator, and a blank line followed by a non-continuation line ends
// the list (spec.md §4.4). A description list ends at the first line that
// is not a term line, blank lines included. Items of every marker depth
// (`*`, `**`, ...) are collected into one flat Items slice; markerLevel is
// not used to nest them.
func (s *blockScanner) parseList(meta BlockMetadata, title Title, stopAt int) Block {
	start := s.i
	line := s.lines[s.i]

	// A term::description line never also matches the bullet/numbered
	// marker regexps, so check it first.
	if descriptionTermRegexp.MatchString(line) {
		var items []DescriptionListItem
		for s.i < stopAt && descriptionTermRegexp.MatchString(s.lines[s.i]) {
			items = append(items, s.parseDescriptionItem(stopAt))
		}
		return DescriptionList{base: base{meta, title, s.loc(start, s.i-1)}, Items: items}
	}

	firstMarker := currentMarker(line)
	ordered := orderedMarkerRegexp.MatchString(line)
	var items []ListItem
	for s.i < stopAt {
		if currentMarkerMatches(s.lines[s.i], firstMarker) {
			items = append(items, s.parseListItem(firstMarker))
			continue
		}
		next := s.i
		for next < stopAt && blankLineRegexp.MatchString(s.lines[next]) {
			next++
		}
		if next == s.i || next >= stopAt || !currentMarkerMatches(s.lines[next], firstMarker) {
			break
		}
		s.i = next
	}
	loc := s.loc(start, s.i-1)
	if ordered {
		return OrderedList{base: base{meta, title, loc}, Items: items}
	}
	return UnorderedList{base: base{meta, title, loc}, Items: items}
}

type listMarker struct {
	marker  string
	indent  int
	content string
}

func currentMarker(line string) listMarker {
	if m := unorderedMarkerRegexp.FindStringSubmatch(line); m != nil {
		return listMarker{marker: m[2], indent: len(m[1]), content: m[4]}
	}
	if m := orderedMarkerRegexp.FindStringSubmatch(line); m != nil {
		return listMarker{marker: m[2], indent: len(m[1]), content: m[4]}
	}
	return listMarker{}
}

func currentMarkerMatches(line string, first listMarker) bool {
	m := currentMarker(line)
	if m.marker == "" {
		return false
	}
	return m.indent == first.indent && sameListMarker(m.marker, first.marker)
}

// itemBodyLines collects a list item's marker-line content plus any
// deeper-indented continuation lines, returning the consumed line count.
func (s *blockScanner) itemBodyLines(marker listMarker, stopAt int) (string, int) {
	var sb strings.Builder
	sb.WriteString(marker.content)
	consumed := 1
	for s.i+consumed < stopAt {
		line := s.lines[s.i+consumed]
		if blankLineRegexp.MatchString(line) {
			break
		}
		if currentMarker(line).marker != "" {
			break
		}
		if leadingSpaces(line) <= marker.indent {
			break
		}
		sb.WriteByte('\n')
		sb.WriteString(strings.TrimSpace(line))
		consumed++
	}
	return sb.String(), consumed
}

func leadingSpaces(line string) int {
	n := 0
	for n < len(line) && (line[n] == ' ' || line[n] == '\t') {
		n++
	}
	return n
}

func (s *blockScanner) parseListItem(marker listMarker) ListItem {
	start := s.i
	body, consumed := s.itemBodyLines(marker, len(s.lines))
	content := s.parseInlineBody(body, start, normalChain)
	s.i += consumed
	return ListItem{Marker: marker.marker, Content: content, Location: s.loc(start, s.i-1)}
}

func (s *blockScanner) parseDescriptionItem(stopAt int) DescriptionListItem {
	start := s.i
	line := s.lines[s.i]
	m := descriptionTermRegexp.FindStringSubmatch(line)
	term := s.parseInlineBody(m[1], start, normalChain)
	marker := listMarker{marker: m[2], indent: leadingSpaces(line)}
	detail := strings.TrimSpace(m[4])
	body, consumed := s.itemBodyLines(listMarker{marker: marker.marker, indent: marker.indent, content: detail}, stopAt)
	content := s.parseInlineBody(body, start, normalChain)
	s.i += consumed
	return DescriptionListItem{Term: term, Content: content, Location: s.loc(start, s.i-1)}
}
