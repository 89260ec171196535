package adoc

import (
	"io"
	"os"
	"strings"
)

// Document is the root node of spec.md §3: title/subtitle, authors,
// revision, attributes, an ordered Block sequence, collected footnotes
// and anchors, and a root Location.
type Document struct {
	Title      Title
	Subtitle   Title
	Authors    []string
	Revision   string
	Attributes *AttributeMap
	Blocks     []Block
	Footnotes  []DocumentFootnote
	Anchors    *AnchorIndex
	Warnings   Warnings
	Location   Location

	Doctype string
}

// DocumentFootnote is one entry of Document.Footnotes (spec.md §3:
// "collected footnotes"): a footnote macro's content plus the sequential
// number it was assigned in document order. Footnotes sharing the same
// Name reuse the first occurrence's Number (spec.md §9 supplemented
// feature; grounded on original_source/acdc-parser's footnote
// renumbering pass, which the distilled spec.md omits).
type DocumentFootnote struct {
	Number   int          `json:"number"`
	Name     string       `json:"name,omitempty"`
	Content  []InlineNode `json:"content"`
	Location Location     `json:"location"`
}

// collectFootnotes walks the built block tree gathering every footnote
// macro in document order, numbering distinct names sequentially and
// reusing a number for repeat references to the same Name.
func collectFootnotes(blocks []Block) []DocumentFootnote {
	var out []DocumentFootnote
	seen := map[string]int{}
	var walkInline func(nodes []InlineNode)
	walkInline = func(nodes []InlineNode) {
		for _, n := range nodes {
			switch v := n.(type) {
			case Macro:
				if fn, ok := v.Macro.(Footnote); ok {
					if fn.Name != "" {
						if _, ok := seen[fn.Name]; ok {
							continue
						}
					}
					num := len(out) + 1
					if fn.Name != "" {
						seen[fn.Name] = num
					}
					out = append(out, DocumentFootnote{Number: num, Name: fn.Name, Content: fn.Content, Location: fn.Location})
				}
			case BoldText:
				walkInline(v.Content)
			case ItalicText:
				walkInline(v.Content)
			case MonospaceText:
				walkInline(v.Content)
			case HighlightText:
				walkInline(v.Content)
			case SubscriptText:
				walkInline(v.Content)
			case SuperscriptText:
				walkInline(v.Content)
			case CurvedQuotationText:
				walkInline(v.Content)
			case CurvedApostropheText:
				walkInline(v.Content)
			}
		}
	}
	var walkBlocks func(blocks []Block)
	walkBlocks = func(blocks []Block) {
		for _, b := range blocks {
			switch v := b.(type) {
			case Paragraph:
				walkInline(v.Content)
			case *Section:
				walkInline(v.Content)
				walkBlocks(v.Blocks)
			case DelimitedBlock:
				walkInline(v.Lines)
				walkBlocks(v.Content)
			case Admonition:
				walkBlocks(v.Content)
			case UnorderedList:
				for _, it := range v.Items {
					walkInline(it.Content)
					walkBlocks(it.Blocks)
				}
			case OrderedList:
				for _, it := range v.Items {
					walkInline(it.Content)
					walkBlocks(it.Blocks)
				}
			case DescriptionList:
				for _, it := range v.Items {
					walkInline(it.Term)
					walkInline(it.Content)
					walkBlocks(it.Blocks)
				}
			case Table:
				for _, row := range v.Rows {
					for _, cell := range row.Cells {
						walkBlocks(cell.Blocks)
					}
				}
			}
		}
	}
	walkBlocks(blocks)
	return out
}

// IsManpageDoctype reports whether this document was parsed with
// doctype=manpage (spec.md §9 supplemented feature).
func (d *Document) IsManpageDoctype() bool { return d.Doctype == "manpage" }

// IsBookDoctype reports whether this document was parsed with
// doctype=book, which permits level-0 sections to nest further level-0
// "part" sections rather than requiring exactly one document title
// (spec.md §9 supplemented feature).
func (d *Document) IsBookDoctype() bool { return d.Doctype == "book" }

// HasErrors reports whether any warning carries a kind serious enough to
// have been promoted to an error under Options.WarningsAsErrors; callers
// that only care about Warnings itself should range over it directly.
func (d *Document) HasErrors() bool { return len(d.Warnings) > 0 }

var docTitleRegexp = sectionTitleRegexp // level-0 `= Title` shares the same shape

// Parse implements the `parse(text, options)` primary API entry (spec.md
// §6). path is used to resolve relative include:: targets and to seed
// the PositionTracker's main file name.
func Parse(text string, path string, opts *Options) (*Document, error) {
	if opts == nil {
		opts = NewOptions()
	}
	text = normalizeLineEndings(text)
	text = strings.TrimPrefix(text, "﻿")

	if opts.MaxProcessedBytes != 0 && uint(len(text)) > opts.MaxProcessedBytes {
		return nil, errResourceLimitExceeded("max_processed_bytes", Location{})
	}

	attrs := NewAttributeMap()
	for name, def := range opts.DocumentAttributes {
		if def.Hard {
			attrs.Set(name, def.Value)
		}
	}

	tracker := NewPositionTracker(path, text)
	var warnings Warnings

	pp := newPreprocessor(opts, attrs, tracker, &warnings)
	processed, err := pp.Process(text, path)
	if err != nil {
		return nil, err
	}

	for name, def := range opts.DocumentAttributes {
		if def.Hard {
			// Set again after the document's own entries have run, so a
			// hard default wins over them.
			attrs.Set(name, def.Value)
		} else {
			attrs.SetIfAbsent(name, def.Value)
		}
	}

	doc := &Document{
		Attributes: attrs,
		Anchors:    NewAnchorIndex(),
		Location:   tracker.LocationFromSpan(0, len(text)),
	}
	doc.Doctype = attrs.GetString("doctype")

	var xrefs []xrefTarget
	ctx := &inlineContext{
		attrs:     attrs,
		tracker:   tracker,
		blockBase: 0,
		offsets:   newInlineOffsetMap(),
		warnings:  &warnings,
		xrefs:     &xrefs,
	}

	lines := strings.Split(processed, "\n")
	titleLine := 0
	for titleLine < len(lines) && blankLineRegexp.MatchString(lines[titleLine]) {
		titleLine++
	}
	if titleLine < len(lines) {
		if m := docTitleRegexp.FindStringSubmatch(lines[titleLine]); m != nil && len(m[1]) == 1 {
			doc.Title = Title(parseInlineStructural(m[2], 0, ctx, nil))
			// Blank the title line in place, preserving its exact byte
			// length, so every other line's offset into the tracker's
			// already-built segments (keyed to the pre-blanking processed
			// text) stays correct.
			lines[titleLine] = strings.Repeat(" ", len(lines[titleLine]))
			processed = strings.Join(lines, "\n")
		}
	}

	flat := ScanBlocks(processed, ctx, &warnings)
	nested := BuildSectionTree(flat)
	doc.Blocks = nested

	doc.Footnotes = collectFootnotes(doc.Blocks)
	registerAnchors(doc.Blocks, doc.Anchors, &warnings)
	for _, pe := range ValidateSections(doc.Blocks, doc.IsManpageDoctype()) {
		// A skipped section level is a structural mismatch (spec.md §7's
		// hard-failure taxonomy), so it aborts the parse outright rather
		// than folding into the soft Warnings vector.
		if pe.Kind == ErrNestedSectionLevelMismatch {
			return doc, pe
		}
		warnings = append(warnings, pe)
	}
	xrefWarnings := ResolveXrefs(doc.Anchors, xrefs)
	if opts.UnresolvedXrefIsError && len(xrefWarnings) > 0 {
		doc.Warnings = append(warnings, xrefWarnings...)
		return doc, xrefWarnings[0]
	}
	warnings = append(warnings, xrefWarnings...)
	doc.Warnings = warnings

	if opts.WarningsAsErrors {
		if err := warnings.AsError(); err != nil {
			return doc, err
		}
	}
	return doc, nil
}

// ParseInline implements the `parse_inline(text, options)` primary API
// entry: inline-only parsing with no block grammar or section tree
// involved (spec.md §6).
func ParseInline(text string, opts *Options) ([]InlineNode, Warnings, error) {
	if opts == nil {
		opts = NewOptions()
	}
	tracker := NewPositionTracker("", text)
	attrs := NewAttributeMap()
	for name, def := range opts.DocumentAttributes {
		attrs.Set(name, def.Value)
	}
	var warnings Warnings
	nodes := ParseInlineText(text, normalChain, 0, attrs, tracker, &warnings, nil)
	if opts.WarningsAsErrors {
		if err := warnings.AsError(); err != nil {
			return nodes, warnings, err
		}
	}
	return nodes, warnings, nil
}

// ParseFile implements `parse_file(path, options)`: loader + parse
// (spec.md §6, §4.1).
func ParseFile(path string, opts *Options) (*Document, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, NewParseError(ErrIo, "could not read file", Location{}, "check the path exists and is readable", err)
	}
	return Parse(string(data), path, opts)
}

// ParseFromReader implements `parse_from_reader(reader, options)`
// (spec.md §6, §4.1).
func ParseFromReader(r io.Reader, path string, opts *Options) (*Document, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, NewParseError(ErrIo, "could not read input", Location{}, "check the reader is not closed or erroring", err)
	}
	return Parse(string(data), path, opts)
}

// registerAnchors walks the built tree inserting every block-level anchor
// id into idx, reporting duplicates as warnings rather than aborting
// (spec.md §3 invariant 6, §9 supplemented feature).
func registerAnchors(blocks []Block, idx *AnchorIndex, warnings *Warnings) {
	for _, b := range blocks {
		meta := b.blockMetadata()
		if meta != nil && meta.ID != "" {
			a := Anchor{ID: meta.ID, Location: b.Position()}
			if !idx.Register(a) {
				*warnings = append(*warnings, &ParseError{
					Kind:     ErrParse,
					Message:  "duplicate anchor id: " + meta.ID,
					Location: b.Position(),
					Advice:   "anchor ids must be unique within a document",
				})
			}
		}
		if sec, ok := b.(*Section); ok {
			registerAnchors(sec.Blocks, idx, warnings)
		}
		if db, ok := b.(DelimitedBlock); ok {
			registerAnchors(db.Content, idx, warnings)
		}
	}
}
