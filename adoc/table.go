package adoc

import (
	"strconv"
	"strings"
)

// HorizontalAlignment is a table column/cell's `halign` (spec.md §4.4,
// §9 supplemented feature; grounded on
// original_source/acdc-parser/src/model/tables.rs).
type HorizontalAlignment int

const (
	HAlignLeft HorizontalAlignment = iota
	HAlignCenter
	HAlignRight
)

// VerticalAlignment is a table column/cell's `valign`.
type VerticalAlignment int

const (
	VAlignTop VerticalAlignment = iota
	VAlignMiddle
	VAlignBottom
)

// ColumnStyle is a table column's default cell-content style, selected by
// the single-letter prefix (`a|`, `m|`, `s|`, ...) or the `cols=` spec.
type ColumnStyle int

const (
	ColumnStyleDefault ColumnStyle = iota
	ColumnStyleAsciiDoc
	ColumnStyleMonospace
	ColumnStyleStrong
	ColumnStyleEmphasis
	ColumnStyleHeader
	ColumnStyleLiteral
	ColumnStyleVerse
)

// ColumnWidth is either an explicit proportional width or "autowidth".
type ColumnWidth struct {
	Auto  bool
	Value int
}

// ColumnFormat is one entry of the table's `cols=` attribute, spec.md
// §4.4: "the cols= attribute string is parsed to produce per-column
// ColumnFormat {halign, valign, width, style}".
type ColumnFormat struct {
	HAlign HorizontalAlignment
	VAlign VerticalAlignment
	Width  ColumnWidth
	Style  ColumnStyle
	Repeat int
}

// ParseColumnSpec parses an AsciiDoc `cols=` attribute value, e.g.
// "3*^.^,>a" or "1,1,1", into its ColumnFormat list.
func ParseColumnSpec(spec string) []ColumnFormat {
	if spec == "" {
		return nil
	}
	var cols []ColumnFormat
	for _, raw := range strings.Split(spec, ",") {
		raw = strings.TrimSpace(raw)
		if raw == "" {
			continue
		}
		cols = append(cols, parseOneColumnSpec(raw)...)
	}
	return cols
}

func parseOneColumnSpec(spec string) []ColumnFormat {
	cf := ColumnFormat{Width: ColumnWidth{Value: 1}}
	repeat := 1

	if idx := strings.Index(spec, "*"); idx >= 0 {
		if n, err := strconv.Atoi(spec[:idx]); err == nil {
			repeat = n
		}
		spec = spec[idx+1:]
	}

	// width, possibly a bare integer or "%"-percentage, precedes align/style.
	i := 0
	for i < len(spec) && (spec[i] >= '0' && spec[i] <= '9') {
		i++
	}
	if i > 0 {
		if n, err := strconv.Atoi(spec[:i]); err == nil {
			cf.Width = ColumnWidth{Value: n}
		}
		spec = spec[i:]
	}

	for len(spec) > 0 {
		switch {
		case strings.HasPrefix(spec, "<"):
			cf.HAlign = HAlignLeft
			spec = spec[1:]
		case strings.HasPrefix(spec, "^"):
			cf.HAlign = HAlignCenter
			spec = spec[1:]
		case strings.HasPrefix(spec, ">"):
			cf.HAlign = HAlignRight
			spec = spec[1:]
		case strings.HasPrefix(spec, ".<"):
			cf.VAlign = VAlignTop
			spec = spec[2:]
		case strings.HasPrefix(spec, ".^"):
			cf.VAlign = VAlignMiddle
			spec = spec[2:]
		case strings.HasPrefix(spec, ".>"):
			cf.VAlign = VAlignBottom
			spec = spec[2:]
		case strings.HasPrefix(spec, "a"):
			cf.Style = ColumnStyleAsciiDoc
			spec = spec[1:]
		case strings.HasPrefix(spec, "m"):
			cf.Style = ColumnStyleMonospace
			spec = spec[1:]
		case strings.HasPrefix(spec, "s"):
			cf.Style = ColumnStyleStrong
			spec = spec[1:]
		case strings.HasPrefix(spec, "e"):
			cf.Style = ColumnStyleEmphasis
			spec = spec[1:]
		case strings.HasPrefix(spec, "h"):
			cf.Style = ColumnStyleHeader
			spec = spec[1:]
		case strings.HasPrefix(spec, "l"):
			cf.Style = ColumnStyleLiteral
			spec = spec[1:]
		case strings.HasPrefix(spec, "v"):
			cf.Style = ColumnStyleVerse
			spec = spec[1:]
		default:
			spec = spec[1:]
		}
	}

	cf.Repeat = repeat
	out := make([]ColumnFormat, repeat)
	for i := range out {
		out[i] = cf
		out[i].Repeat = 1
	}
	return out
}

// TableCell is a single `|`/`a|`/`m|`-introduced cell. Content is always
// wrapped in a Block sequence (spec.md §8 scenario S5: "each cell content
// [Paragraph(PlainText)]"), grounded on
// original_source/acdc-parser/src/model/tables.rs's
// `TableColumn { content: Vec<Block> }` shape.
type TableCell struct {
	Style    ColumnStyle
	Blocks   []Block
	Location Location
}

// buildCellBlocks wraps a raw cell's text in a single synthesized
// Paragraph. The table scanner reads one source line per row, so a cell's
// raw text never itself contains a blank-line paragraph break; richer
// multi-block `a|` cell bodies are future work (see DESIGN.md).
func buildCellBlocks(style ColumnStyle, text string, ctx *inlineContext, loc Location) []Block {
	content := parseInlineStructural(text, 0, ctx, nil)
	if len(content) == 0 {
		return nil
	}
	return []Block{Paragraph{base: base{Location: loc}, Content: content}}
}

// TableRow is a run of cells on one or more source lines (cells may wrap).
type TableRow struct {
	Cells    []TableCell
	Location Location
}

// Table is the `|===`-delimited block (spec.md §3, §4.4).
type Table struct {
	base
	Columns []ColumnFormat
	Header  *TableRow
	Rows    []TableRow
	Footer  *TableRow
}

// parseTable consumes a `|===`-delimited table, splitting each line's
// cells on `|` outside of passthrough regions and assigning per-column
// format from the `cols=` attribute (spec.md §4.4).
func (s *blockScanner) parseTable(meta BlockMetadata, title Title, stopAt int) Block {
	start := s.i
	s.i++ // opening |===

	var cols []ColumnFormat
	if meta.Attributes != nil {
		cols = ParseColumnSpec(meta.Attributes.GetString("cols"))
	}

	var rawRows [][]string
	for s.i < stopAt && !tableDelimRegexp.MatchString(s.lines[s.i]) {
		line := s.lines[s.i]
		if blankLineRegexp.MatchString(line) {
			s.i++
			continue
		}
		rawRows = append(rawRows, splitTableCells(line))
		s.i++
	}
	closeAt := s.i
	if closeAt < stopAt {
		s.i++ // closing |===
	}

	headerOpt := (meta.Attributes != nil && meta.Attributes.IsSet("header")) || hasOption(meta.Options, "header")
	var header *TableRow
	var rows []TableRow
	for i, cells := range rawRows {
		row := TableRow{Location: s.loc(start, closeAt)}
		for colIdx, c := range cells {
			style := columnStyleFor(cols, colIdx)
			row.Cells = append(row.Cells, TableCell{
				Style:    style,
				Blocks:   buildCellBlocks(style, c, s.ctx, row.Location),
				Location: row.Location,
			})
		}
		if i == 0 && headerOpt {
			header = &row
			continue
		}
		rows = append(rows, row)
	}

	return Table{base: base{meta, title, s.loc(start, closeAt)}, Columns: cols, Header: header, Rows: rows}
}

// columnStyleFor looks up the style assigned to column idx by the table's
// cols= spec, defaulting to ColumnStyleDefault when idx has no entry (no
// cols= attribute, or fewer columns specified than cells on the row).
func columnStyleFor(cols []ColumnFormat, idx int) ColumnStyle {
	if idx < 0 || idx >= len(cols) {
		return ColumnStyleDefault
	}
	return cols[idx].Style
}

// hasOption reports whether name was set via the `%name` block-attribute
// option shorthand (spec.md §4.4, e.g. `[cols="...",%header]`).
func hasOption(options []string, name string) bool {
	for _, o := range options {
		if o == name {
			return true
		}
	}
	return false
}

// splitTableCells splits a table row line on `|` markers that introduce a
// new cell (a leading `|` after whitespace, or mid-line ` |` boundary),
// leaving escaped `\|` intact (spec.md §4.4: "cells introduced by |, a|,
// m|, etc. Multiple cells on one line are split on | outside of
// passthrough regions").
func splitTableCells(line string) []string {
	var cells []string
	var cur strings.Builder
	seenCell := false
	runes := []rune(line)
	for i := 0; i < len(runes); i++ {
		r := runes[i]
		if r == '\\' && i+1 < len(runes) && runes[i+1] == '|' {
			cur.WriteRune('|')
			i++
			continue
		}
		if r == '|' {
			// A row's leading "|" only opens the first cell; it never
			// closes an (empty) cell before it.
			if seenCell || strings.TrimSpace(cur.String()) != "" {
				cells = append(cells, strings.TrimSpace(cur.String()))
			}
			cur.Reset()
			seenCell = true
			continue
		}
		cur.WriteRune(r)
	}
	if strings.TrimSpace(cur.String()) != "" {
		cells = append(cells, strings.TrimSpace(cur.String()))
	}
	return cells
}
