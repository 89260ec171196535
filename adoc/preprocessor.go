package adoc

import (
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"strconv"
	"strings"
)

func defaultReadFile(path string) ([]byte, error) { return os.ReadFile(path) }

// ProcessedContent bundles the fully expanded text (includes resolved,
// conditionals elided, attribute entries consumed), the leveloffset ranges
// contributed by include:: attributes, and the PositionTracker built
// alongside it (spec.md §4.2). Process does not build one: it returns the
// expanded text as a string and fills its PositionTracker in place.
type ProcessedContent struct {
	Text            string
	LeveloffsetSpans []LeveloffsetSpan
	Tracker         *PositionTracker
}

// LeveloffsetSpan records that the processed-text span [Start,End) came
// from an include resolved with a `leveloffset=` attribute, with the
// section-level shift Delta. No code in this package records or reads one.
type LeveloffsetSpan struct {
	Start, End int
	Delta      int
}

var (
	uriSchemeRegexp         = regexp.MustCompile(`^[A-Za-z][A-Za-z0-9+.-]*://`)
	includeDirectiveRegexp = regexp.MustCompile(`^include::([^\[]+)\[(.*)\]\s*$`)
	ifdefRegexp             = regexp.MustCompile(`^(ifdef|ifndef)::([^\[]+)\[(.*)\]\s*$`)
	ifevalRegexp            = regexp.MustCompile(`^ifeval::\[(.*)\]\s*$`)
	endifRegexp             = regexp.MustCompile(`^endif::(?:[^\[]*)\[\]\s*$`)
	attrEntryRegexp         = regexp.MustCompile(`^:(!?)([A-Za-z0-9_][A-Za-z0-9_-]*)(!?):(?:\s+(.*))?$`)
	setextUnderlineRegexp   = regexp.MustCompile(`^(=+|-+|~+|\^{2,}|\++)\s*$`)
)

// ReadFileFunc mirrors go-org's Configuration.ReadFile hook, letting a
// caller substitute an in-memory or sandboxed filesystem for include::
// resolution (org/document.go's ReadFile field).
type ReadFileFunc func(path string) ([]byte, error)

// Preprocessor implements spec.md §4.2 line-by-line over loader output,
// producing the expanded text the block grammar scans.
type Preprocessor struct {
	Options      *Options
	Attrs        *AttributeMap
	Tracker      *PositionTracker
	Warnings     *Warnings
	includeStack map[string]bool
	depth        int
}

func newPreprocessor(opts *Options, attrs *AttributeMap, tracker *PositionTracker, warnings *Warnings) *Preprocessor {
	return &Preprocessor{Options: opts, Attrs: attrs, Tracker: tracker, Warnings: warnings, includeStack: map[string]bool{}}
}

type condFrame struct {
	active bool // this region is currently being kept
	taken  bool // some branch of this conditional has already been kept (reserved for future ifdef/else support)
}

// Process runs the full preprocessor pass over source (the top-level
// document file's content) and returns the expanded text; the segments
// that map it back to the source are pushed into p.Tracker along the way.
// Setext-heading detection is
// folded into this same pass (rather than a post-processing rewrite)
// because it changes line lengths: every segment's final-text offset is
// only ever computed from the builder's current length at push time, so
// a length-changing rewrite is safe here but would desynchronize every
// already-pushed segment if done afterward (spec.md §4.2).
func (p *Preprocessor) Process(source, file string) (string, error) {
	var out strings.Builder
	var conds []condFrame
	lines := strings.Split(source, "\n")
	origin := 0

	keep := func() bool {
		for _, c := range conds {
			if !c.active {
				return false
			}
		}
		return true
	}

	for i := 0; i < len(lines); i++ {
		line := lines[i]
		lineStart := origin
		lineLen := len(line) + 1 // + the newline stripped by Split
		origin += lineLen

		if m := endifRegexp.FindStringSubmatch(line); m != nil {
			if len(conds) == 0 {
				p.warn(errUnbalancedConditional(p.Tracker.LocationFromSpan(lineStart, lineStart+len(line)), line))
			} else {
				conds = conds[:len(conds)-1]
			}
			continue
		}

		if m := ifdefRegexp.FindStringSubmatch(line); m != nil {
			negate := m[1] == "ifndef"
			defined := p.Attrs.IsSet(m[2])
			conds = append(conds, condFrame{active: defined != negate})
			continue
		}

		if m := ifevalRegexp.FindStringSubmatch(line); m != nil {
			conds = append(conds, condFrame{active: evalCondition(m[1], p.Attrs)})
			continue
		}

		if !keep() {
			continue
		}

		if m := includeDirectiveRegexp.FindStringSubmatch(line); m != nil {
			expanded, err := p.resolveInclude(m[1], m[2], file, p.Tracker.segmentsLen(), lineStart)
			if err != nil {
				return "", err
			}
			out.WriteString(expanded)
			continue
		}

		if m := attrEntryRegexp.FindStringSubmatch(line); m != nil {
			p.applyAttributeEntry(m, p.Tracker.LocationFromSpan(lineStart, lineStart+len(line)))
			continue
		}

		if p.Options.Setext && i+1 < len(lines) {
			if level, ok := setextLevel(line, lines[i+1]); ok {
				start := out.Len()
				out.WriteString(strings.Repeat("=", level+1))
				out.WriteByte(' ')
				out.WriteString(strings.TrimSpace(line))
				out.WriteByte('\n')
				p.Tracker.PushSegment(start, out.Len(), lineStart, file)

				underlineLen := len(lines[i+1]) + 1
				origin += underlineLen
				i++
				continue
			}
		}

		start := out.Len()
		out.WriteString(line)
		out.WriteByte('\n')
		p.Tracker.PushSegment(start, out.Len(), lineStart, file)
	}

	if len(conds) != 0 {
		p.warn(errUnbalancedConditional(Location{}, "unterminated ifdef/ifndef/ifeval"))
	}

	return out.String(), nil
}

// setextLevel reports the Atx level a (title, underline) line pair
// converts to, per spec.md §4.2: the underline is a pure run of one of
// `= - ~ ^ +` whose width is within ±2 of the title's width.
func setextLevel(title, underline string) (int, bool) {
	if strings.TrimSpace(title) == "" {
		return 0, false
	}
	// A block attribute or anchor line (`[NOTE]`, `[[id]]`) is never a title.
	if blockAttrLineRegexp.MatchString(title) {
		return 0, false
	}
	if !setextUnderlineRegexp.MatchString(underline) {
		return 0, false
	}
	u := strings.TrimSpace(underline)
	if len(u) == 0 {
		return 0, false
	}
	underlineLevel := map[byte]int{'=': 0, '-': 1, '~': 2, '^': 3, '+': 4}
	level, ok := underlineLevel[u[0]]
	if !ok {
		return 0, false
	}
	titleWidth := len([]rune(strings.TrimSpace(title)))
	if abs(len(u)-titleWidth) > 2 {
		return 0, false
	}
	return level, true
}

func (p *Preprocessor) warn(pe *ParseError) {
	if p.Warnings != nil {
		*p.Warnings = append(*p.Warnings, pe)
	}
}

// resolveInclude implements the include:: directive (spec.md §4.2): safe
// mode gating, depth limit, cycle detection, and the lines= selection
// attribute. The tags= and leveloffset= attributes are not applied: the
// included body keeps all its tagged regions and its own section levels.
func (p *Preprocessor) resolveInclude(target, attrsStr, fromFile string, processedOffset, loc int) (string, error) {
	location := p.Tracker.LocationFromSpan(loc, loc+len(target)+len("include::[]"))

	if p.Options.SafeMode == SafeModeSecure {
		return "", errIncludeOutsideBase(location, target)
	}

	if uriSchemeRegexp.MatchString(target) {
		if p.Options.SafeMode >= SafeModeServer && !p.Attrs.IsSet("allow-uri-read") {
			return "", errIncludeOutsideBase(location, target)
		}
	}

	resolved := target
	if !filepath.IsAbs(resolved) {
		resolved = filepath.Join(filepath.Dir(fromFile), target)
	}
	canon, err := filepath.Abs(resolved)
	if err != nil {
		return "", errIncludeNotFound(location, target)
	}

	if p.Options.SafeMode == SafeModeSafe || p.Options.SafeMode == SafeModeServer {
		base, _ := filepath.Abs(filepath.Dir(fromFile))
		if !strings.HasPrefix(canon, base) {
			return "", errIncludeOutsideBase(location, target)
		}
	}

	if p.includeStack[canon] {
		return "", errIncludeCycle(location, target)
	}
	limit := p.Options.IncludeDepthLimit
	if limit == 0 {
		limit = 64
	}
	if p.depth >= int(limit) {
		return "", errIncludeDepthExceeded(location, limit)
	}

	readFile := p.Options.ReadFile
	if readFile == nil {
		readFile = defaultReadFile
	}
	content, err := readFile(canon)
	if err != nil {
		return "", errIncludeNotFound(location, target)
	}

	body := normalizeLineEndings(string(content))
	body = selectIncludeLines(body, attrsStr)

	p.includeStack[canon] = true
	p.depth++
	p.Tracker.RegisterFile(canon, body)
	sub := newPreprocessor(p.Options, p.Attrs, p.Tracker, p.Warnings)
	sub.includeStack = p.includeStack
	sub.depth = p.depth
	expanded, err := sub.Process(body, canon)
	p.depth--
	delete(p.includeStack, canon)
	if err != nil {
		return "", err
	}
	return expanded, nil
}

// selectIncludeLines applies the `lines=` attribute (e.g. "1..5;10"; ranges
// are separated by ";" since the attribute list itself is split on ",") if
// present, otherwise returns body unchanged. `tags=` selection is left to
// a future enhancement (see DESIGN.md).
func selectIncludeLines(body, attrsStr string) string {
	var linesSpec string
	for _, attr := range strings.Split(attrsStr, ",") {
		if strings.HasPrefix(attr, "lines=") {
			linesSpec = strings.TrimPrefix(attr, "lines=")
		}
	}
	if linesSpec == "" {
		return body
	}
	all := strings.Split(body, "\n")
	var keep []bool = make([]bool, len(all))
	for _, rng := range strings.Split(linesSpec, ";") {
		lo, hi := rng, rng
		if idx := strings.Index(rng, ".."); idx >= 0 {
			lo, hi = rng[:idx], rng[idx+2:]
		}
		loN, _ := strconv.Atoi(lo)
		hiN, err := strconv.Atoi(hi)
		if err != nil || hi == "" {
			hiN = len(all)
		}
		for i := loN - 1; i < hiN && i < len(all); i++ {
			if i >= 0 {
				keep[i] = true
			}
		}
	}
	var out []string
	for i, l := range all {
		if keep[i] {
			out = append(out, l)
		}
	}
	return strings.Join(out, "\n")
}

// applyAttributeEntry implements `:name: value` / `:!name:` / `:name!:`
// (spec.md §4.2): empty value means true, unset means false, and the
// value undergoes header-level attribute substitution before storage.
func (p *Preprocessor) applyAttributeEntry(m []string, loc Location) {
	unsetPrefix, name, unsetSuffix, value := m[1], m[2], m[3], m[4]

	if checkServerRestrictedAttribute(p.Options.SafeMode, name) {
		p.warn(&ParseError{Kind: ErrParse, Message: fmt.Sprintf("attribute %q cannot be set by the document in server/secure safe mode", name), Location: loc})
		return
	}

	if unsetPrefix == "!" || unsetSuffix == "!" {
		p.Attrs.Unset(name)
		return
	}
	if value == "" {
		p.Attrs.Set(name, BoolAttr(true))
		return
	}
	expanded := substituteAttributeRefs(value, p.Attrs, func(ref string) {
		p.warn(&ParseError{Kind: ErrParse, Message: fmt.Sprintf("unresolved attribute reference in entry %q: {%s}", name, ref), Location: loc})
	})
	p.Attrs.Set(name, StringAttr(expanded))
}

// evalCondition is a minimal ifeval::[] expression evaluator: it supports
// `{attr} == "value"` and `{attr} != "value"` comparisons, which cover the
// overwhelming majority of real-world ifeval usage; anything else
// evaluates to false, and no warning is reported for it.
func evalCondition(expr string, attrs *AttributeMap) bool {
	expr = strings.TrimSpace(expr)
	for _, op := range []string{"==", "!="} {
		if idx := strings.Index(expr, op); idx >= 0 {
			lhs := substituteAttributeRefs(strings.TrimSpace(expr[:idx]), attrs, nil)
			rhs := strings.Trim(strings.TrimSpace(expr[idx+len(op):]), `"'`)
			if op == "==" {
				return lhs == rhs
			}
			return lhs != rhs
		}
	}
	return false
}

func abs(n int) int {
	if n < 0 {
		return -n
	}
	return n
}

func normalizeLineEndings(s string) string {
	s = strings.ReplaceAll(s, "\r\n", "\n")
	s = strings.ReplaceAll(s, "\r", "\n")
	return strings.TrimPrefix(s, "﻿")
}

func (t *PositionTracker) segmentsLen() int { return len(t.segments) }
