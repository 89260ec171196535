// Package adoc implements the AsciiDoc parsing core: a preprocessor, a
// block grammar, an inline parser, and the section tree builder/validator
// that together produce a serializable Abstract Syntax Graph (ASG).
package adoc

import (
	"encoding/json"
	"sort"
)

// Position is a 1-indexed line/column pair, as produced by the original
// source scan (never the processed/include-expanded text).
type Position struct {
	Line   int `json:"line"`
	Column int `json:"col"`
}

// Location is the span of a node in the original source. AbsoluteStart and
// AbsoluteEnd are byte offsets into the original (not preprocessor-expanded)
// source and always fall on a UTF-8 rune boundary (invariant 3, spec.md §3).
// File names the origin file: the top-level document's path, or the
// include::-resolved file the node came from.
type Location struct {
	Start         Position
	End           Position
	AbsoluteStart int
	AbsoluteEnd   int
	File          string
}

// MarshalJSON serializes a Location as the two-element [start, end] array
// the reference ASG expects (spec.md §6); the absolute offsets and File are
// an acdc-go-internal bookkeeping detail, not part of the wire format.
func (l Location) MarshalJSON() ([]byte, error) {
	return json.Marshal([2]Position{l.Start, l.End})
}

func (l *Location) UnmarshalJSON(data []byte) error {
	var pair [2]Position
	if err := json.Unmarshal(data, &pair); err != nil {
		return err
	}
	l.Start, l.End = pair[0], pair[1]
	return nil
}

// contains reports whether child is fully nested within l (invariant 2).
func (l Location) contains(child Location) bool {
	return l.AbsoluteStart <= child.AbsoluteStart && child.AbsoluteEnd <= l.AbsoluteEnd
}

// segment describes one contiguous run of the processed text that maps
// linearly back to a run of the original source. The Preprocessor pushes
// one segment per emitted line (including rewritten setext headings and
// included lines; elided lines push none) rather than mutating a single
// global offset,
// which is what keeps the processed↔original mapping a true bijection
// instead of an approximation.
type segment struct {
	processedStart int // inclusive, byte offset into processed text
	processedEnd   int // exclusive
	originStart    int // byte offset into original source at processedStart
	file           string
	// delta is origin-offset minus processed-offset for pass-through
	// segments (the overwhelmingly common case: untouched text). Segments
	// produced by a replacement (e.g. an attribute reference expanding to
	// text of a different length) instead carry literal=true and resolve
	// every offset within the segment to originStart (the reference's own
	// start), since there is no finer-grained mapping to offer.
	delta   int
	literal bool
}

// PositionTracker maintains the bijection between offsets in the
// preprocessor's output text and (origin file, absolute offset, line,
// column) in the original source (spec.md §4.3). The seed segment from
// NewPositionTracker covers the whole top-level source; segments pushed
// after it are appended in increasing processed-offset order as the
// Preprocessor runs, so queries binary-search them in O(log N) and fall
// back to the seed only where no pushed segment covers the offset.
type PositionTracker struct {
	segments []segment
	// lineStarts[file] gives, for each origin file, the byte offset of the
	// start of each line, used to turn an absolute offset into line/column.
	lineStarts map[string][]int
	mainFile   string
}

// NewPositionTracker builds a tracker seeded with the top-level source, so
// that a PositionTracker is always usable even for a document with no
// include directives.
func NewPositionTracker(mainFile, source string) *PositionTracker {
	t := &PositionTracker{
		lineStarts: map[string][]int{},
		mainFile:   mainFile,
	}
	t.registerFile(mainFile, source)
	t.segments = append(t.segments, segment{
		processedStart: 0,
		processedEnd:   len(source),
		originStart:    0,
		file:           mainFile,
		delta:          0,
	})
	return t
}

func (t *PositionTracker) registerFile(file, content string) {
	if _, ok := t.lineStarts[file]; ok {
		return
	}
	starts := []int{0}
	for i := 0; i < len(content); i++ {
		if content[i] == '\n' {
			starts = append(starts, i+1)
		}
	}
	t.lineStarts[file] = starts
}

// RegisterFile lets the Preprocessor teach the tracker about an included
// file's contents ahead of pushing segments that reference it.
func (t *PositionTracker) RegisterFile(file, content string) {
	t.registerFile(file, content)
}

// PushSegment records that processed[start:end) maps linearly to
// origin offsets starting at originStart within file.
func (t *PositionTracker) PushSegment(processedStart, processedEnd, originStart int, file string) {
	t.segments = append(t.segments, segment{
		processedStart: processedStart,
		processedEnd:   processedEnd,
		originStart:    originStart,
		file:           file,
		delta:          originStart - processedStart,
	})
}

// PushLiteralSegment records a processed span that has no proportional
// origin mapping (e.g. text substituted in from an attribute reference or
// a replacements-stage character substitution): every offset in the span
// resolves to the same origin point, originStart.
func (t *PositionTracker) PushLiteralSegment(processedStart, processedEnd, originStart int, file string) {
	t.segments = append(t.segments, segment{
		processedStart: processedStart,
		processedEnd:   processedEnd,
		originStart:    originStart,
		file:           file,
		literal:        true,
	})
}

func (t *PositionTracker) find(processedOffset int) segment {
	if len(t.segments) == 0 {
		return segment{file: t.mainFile}
	}
	// segments[0] is the identity seed over the whole top-level source;
	// a segment pushed after it takes precedence wherever it applies.
	pushed := t.segments[1:]
	if len(pushed) == 0 {
		return t.segments[0]
	}
	i := sort.Search(len(pushed), func(i int) bool {
		return pushed[i].processedEnd > processedOffset
	})
	if i >= len(pushed) {
		return pushed[len(pushed)-1]
	}
	if pushed[i].processedStart <= processedOffset {
		return pushed[i]
	}
	return t.segments[0]
}

// Resolve maps a processed-text byte offset to an absolute offset and file
// in the original source.
func (t *PositionTracker) Resolve(processedOffset int) (file string, absolute int) {
	seg := t.find(processedOffset)
	if seg.literal {
		return seg.file, seg.originStart
	}
	return seg.file, processedOffset + seg.delta
}

// PositionAt resolves a processed-text byte offset into a full Location
// point: file, absolute offset, and 1-indexed line/column.
func (t *PositionTracker) PositionAt(processedOffset int) (file string, pos Position, absolute int) {
	file, absolute = t.Resolve(processedOffset)
	starts := t.lineStarts[file]
	if len(starts) == 0 {
		return file, Position{Line: 1, Column: absolute + 1}, absolute
	}
	li := sort.Search(len(starts), func(i int) bool { return starts[i] > absolute }) - 1
	if li < 0 {
		li = 0
	}
	return file, Position{Line: li + 1, Column: absolute - starts[li] + 1}, absolute
}

// LocationFromSpan builds a full Location for a [start,end) span of
// processed-text offsets, resolving both endpoints through the tracker.
// The returned span's File is taken from the start endpoint: a location is
// never expected to straddle an include boundary since includes are always
// resolved to whole-line spans.
func (t *PositionTracker) LocationFromSpan(start, end int) Location {
	file, startPos, absStart := t.PositionAt(start)
	_, endPos, absEnd := t.PositionAt(end)
	return Location{
		Start:         startPos,
		End:           endPos,
		AbsoluteStart: absStart,
		AbsoluteEnd:   absEnd,
		File:          file,
	}
}
