package adoc

import (
	"regexp"
	"strings"
)

// blockScanner walks a document's processed text line by line, producing
// a flat []Block (spec.md §4.4). It mirrors go-org's token-stream idiom
// (org/document.go's tokenize/parseOne/parseMany) but works directly off
// line slices rather than an intermediate token type, since AsciiDoc's
// block grammar is line-oriented enough that a separate lexer pass buys
// little.
type blockScanner struct {
	lines    []string
	offsets  []int // origin offset of each line's first byte within text
	i        int
	text     string
	ctx      *inlineContext
	warnings *Warnings
}

var (
	sectionTitleRegexp  = regexp.MustCompile(`^(=+)\s+(.*?)\s*$`)
	thematicBreakRegexp = regexp.MustCompile(`^(?:'''|---|\*\*\*|- - -|\* \* \*)\s*$`)
	pageBreakRegexp     = regexp.MustCompile(`^<<<\s*$`)
	blockAttrLineRegexp = regexp.MustCompile(`^\[(.*)\]\s*$`)
	blockAnchorRegexp   = regexp.MustCompile(`^\[\[([^,\]]+)(?:,\s*(.*))?\]\]\s*$`)
	fenceLineRegexp     = regexp.MustCompile(`^(-{4,}|\.{4,}|={4,}|_{4,}|\*{4,}|-{2})\s*$`)
	tableDelimRegexp    = regexp.MustCompile(`^\|===\s*$`)
	docAttrBodyRegexp   = attrEntryRegexp
	admonitionLeadRegexp = regexp.MustCompile(`^(NOTE|TIP|IMPORTANT|WARNING|CAUTION):\s+(.*)$`)
	blankLineRegexp     = regexp.MustCompile(`^\s*$`)
)

// ScanBlocks tokenizes text into a flat Block list, ready for
// BuildSectionTree. ctx.blockBase is the processed-text offset of text's
// first byte (0 for the top-level document).
func ScanBlocks(text string, ctx *inlineContext, warnings *Warnings) []Block {
	lines := strings.Split(text, "\n")
	offsets := make([]int, len(lines))
	o := 0
	for i, l := range lines {
		offsets[i] = o
		o += len(l) + 1
	}
	s := &blockScanner{lines: lines, offsets: offsets, text: text, ctx: ctx, warnings: warnings}
	return s.parseMany(len(lines))
}

func (s *blockScanner) warn(pe *ParseError) {
	if s.warnings != nil {
		*s.warnings = append(*s.warnings, pe)
	}
}

func (s *blockScanner) loc(startLine, endLine int) Location {
	start := s.offsets[startLine]
	end := len(s.text)
	if endLine+1 < len(s.offsets) {
		end = s.offsets[endLine+1] - 1
	}
	return s.ctx.tracker.LocationFromSpan(s.ctx.blockBase+start, s.ctx.blockBase+end)
}

// parseMany consumes blocks until i reaches stopAt, go-org's parseMany
// idiom (org/document.go) generalized from a token-index stop function to
// a fixed line-count bound, since top-level AsciiDoc parsing always runs
// to end of input (nested contexts - delimited block bodies - are parsed
// via their own recursive blockScanner instead of a stop predicate).
func (s *blockScanner) parseMany(stopAt int) []Block {
	var blocks []Block
	for s.i < stopAt {
		if blankLineRegexp.MatchString(s.lines[s.i]) {
			s.i++
			continue
		}
		b := s.parseOne(stopAt)
		if b != nil {
			blocks = append(blocks, b)
		}
	}
	return blocks
}

// parseOne dispatches on the current line's shape, go-org's parseOne
// idiom (org/document.go).
func (s *blockScanner) parseOne(stopAt int) Block {
	line := s.lines[s.i]

	var meta BlockMetadata
	var title Title
	for {
		if m := blockAnchorRegexp.FindStringSubmatch(line); m != nil {
			meta.ID = m[1]
			s.i++
			if s.i >= stopAt {
				return nil
			}
			line = s.lines[s.i]
			continue
		}
		if m := blockAttrLineRegexp.FindStringSubmatch(line); m != nil && !tableDelimRegexp.MatchString(line) {
			parseBlockAttrLine(m[1], &meta)
			s.i++
			if s.i >= stopAt {
				return nil
			}
			line = s.lines[s.i]
			continue
		}
		if strings.HasPrefix(line, ".") && !blankLineRegexp.MatchString(line[1:]) && !fenceLineRegexp.MatchString(line) && !orderedMarkerRegexp.MatchString(line) {
			title = Title(parseInlineStructural(line[1:], 0, s.ctx, nil))
			s.i++
			if s.i >= stopAt {
				return nil
			}
			line = s.lines[s.i]
			continue
		}
		break
	}

	switch {
	case sectionTitleRegexp.MatchString(line):
		return s.parseSection(line, meta, title)
	case thematicBreakRegexp.MatchString(line):
		start := s.i
		s.i++
		return ThematicBreak{base{meta, title, s.loc(start, start)}}
	case pageBreakRegexp.MatchString(line):
		start := s.i
		s.i++
		return PageBreak{base{meta, title, s.loc(start, start)}}
	case tableDelimRegexp.MatchString(line):
		return s.parseTable(meta, title, stopAt)
	case fenceStyleFor(line) != nil:
		return s.parseDelimited(line, meta, title, stopAt)
	case docAttrBodyRegexp.MatchString(line):
		return s.parseDocumentAttribute(line)
	case mediaBlockRegexp.MatchString(line):
		return s.parseMedia(line, meta, title)
	case unorderedMarkerRegexp.MatchString(line) || orderedMarkerRegexp.MatchString(line) || descriptionTermRegexp.MatchString(line):
		return s.parseList(meta, title, stopAt)
	case admonitionLeadRegexp.MatchString(line):
		return s.parseAdmonitionParagraph(line, meta, title, stopAt)
	default:
		return s.parseParagraph(meta, title, stopAt)
	}
}

func parseBlockAttrLine(attrsStr string, meta *BlockMetadata) {
	meta.Attributes = NewAttributeMap()
	for idx, part := range strings.Split(attrsStr, ",") {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}
		if strings.HasPrefix(part, ".") {
			meta.Roles = append(meta.Roles, strings.TrimPrefix(part, "."))
			continue
		}
		if strings.HasPrefix(part, "%") {
			meta.Options = append(meta.Options, strings.TrimPrefix(part, "%"))
			continue
		}
		if eq := strings.Index(part, "="); eq >= 0 {
			name := strings.Trim(part[:eq], `"`)
			value := strings.Trim(part[eq+1:], `"`)
			if name == "subs" {
				chain := parseSubsOverride(value)
				meta.Substitutions = &chain
				continue
			}
			meta.Attributes.Set(name, StringAttr(value))
			continue
		}
		if idx == 0 {
			meta.Style = part
		}
		meta.Positional = append(meta.Positional, part)
	}
}

func parseSubsOverride(spec string) []Substitution {
	var chain []Substitution
	for _, name := range strings.Split(spec, "+") {
		switch Substitution(strings.TrimSpace(name)) {
		case SubSpecialchars, SubQuotes, SubAttributes, SubReplacements, SubMacros, SubPostReplacements:
			chain = append(chain, Substitution(strings.TrimSpace(name)))
		case "none":
			return noneChain
		case "normal":
			return normalChain
		case "verbatim":
			return verbatimChain
		}
	}
	return chain
}

func (s *blockScanner) parseSection(line string, meta BlockMetadata, title Title) Block {
	m := sectionTitleRegexp.FindStringSubmatch(line)
	level := len(m[1]) - 1
	start := s.i
	s.i++
	content := parseInlineStructural(m[2], 0, s.ctx, nil)
	if meta.Style == "discrete" {
		return DiscreteHeader{base{meta, title, s.loc(start, start)}, level, content}
	}
	return &Section{base: base{meta, title, s.loc(start, start)}, Level: level, Content: content}
}

func (s *blockScanner) parseParagraph(meta BlockMetadata, title Title, stopAt int) Block {
	start := s.i
	var sb strings.Builder
	for s.i < stopAt {
		line := s.lines[s.i]
		if blankLineRegexp.MatchString(line) || s.startsNewBlock(line) {
			break
		}
		if sb.Len() > 0 {
			sb.WriteByte('\n')
		}
		sb.WriteString(line)
		s.i++
	}
	end := s.i - 1
	if end < start {
		end = start
	}
	chain := effectiveChain(&meta, false)
	content := s.parseInlineBody(sb.String(), start, chain)
	return Paragraph{base: base{meta, title, s.loc(start, end)}, Content: content}
}

func (s *blockScanner) parseAdmonitionParagraph(line string, meta BlockMetadata, title Title, stopAt int) Block {
	m := admonitionLeadRegexp.FindStringSubmatch(line)
	variant, _ := ParseAdmonitionVariant(m[1])
	markerLen := len(line) - len(m[2])

	start := s.i
	var sb strings.Builder
	sb.WriteString(m[2])
	s.i++
	for s.i < stopAt {
		l := s.lines[s.i]
		if blankLineRegexp.MatchString(l) || s.startsNewBlock(l) {
			break
		}
		sb.WriteByte('\n')
		sb.WriteString(l)
		s.i++
	}
	end := s.i - 1
	if end < start {
		end = start
	}

	childCtx := *s.ctx
	childCtx.blockBase = s.ctx.blockBase + s.offsets[start] + markerLen
	content := ParseInlineText(sb.String(), effectiveChain(&meta, false), childCtx.blockBase, childCtx.attrs, childCtx.tracker, childCtx.warnings, childCtx.xrefs)

	return Paragraph{base: base{meta, title, s.loc(start, end)}, Content: content, Admonition: &variant}
}

// startsNewBlock reports whether line begins a construct that always
// terminates a paragraph in progress (spec.md §4.4: "Paragraphs terminate
// on: blank line, start of a delimited block, start of a list, start of a
// table, or a section title line").
func (s *blockScanner) startsNewBlock(line string) bool {
	return sectionTitleRegexp.MatchString(line) ||
		fenceStyleFor(line) != nil ||
		tableDelimRegexp.MatchString(line) ||
		unorderedMarkerRegexp.MatchString(line) ||
		orderedMarkerRegexp.MatchString(line) ||
		descriptionTermRegexp.MatchString(line) ||
		blockAttrLineRegexp.MatchString(line) ||
		thematicBreakRegexp.MatchString(line) ||
		mediaBlockRegexp.MatchString(line)
}

// parseInlineBody runs the inline pipeline over a paragraph's joined raw
// text, with blockBase positioned at the text's first line.
func (s *blockScanner) parseInlineBody(raw string, startLine int, chain []Substitution) []InlineNode {
	childCtx := *s.ctx
	childCtx.blockBase = s.ctx.blockBase + s.offsets[startLine]
	return ParseInlineText(raw, chain, childCtx.blockBase, childCtx.attrs, childCtx.tracker, childCtx.warnings, childCtx.xrefs)
}

func (s *blockScanner) parseDocumentAttribute(line string) Block {
	start := s.i
	s.i++
	m := attrEntryRegexp.FindStringSubmatch(line)
	name := m[2]
	var value AttributeValue
	if m[1] == "!" || m[3] == "!" {
		value = BoolAttr(false)
		s.ctx.attrs.Unset(name)
	} else if m[4] == "" {
		value = BoolAttr(true)
		s.ctx.attrs.Set(name, value)
	} else {
		value = StringAttr(m[4])
		s.ctx.attrs.Set(name, value)
	}
	return DocumentAttribute{base: base{Location: s.loc(start, start)}, Name: name, Value: value}
}
