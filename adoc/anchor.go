package adoc

import "fmt"

// AnchorIndex tracks every Anchor registered during a parse so the
// validator can enforce spec.md §8 invariant 6 ("each anchor id is
// inserted exactly once") and resolve xref targets post-parse (spec.md
// §4.8(iv)).
type AnchorIndex struct {
	byID map[string]Anchor
	dups []string
}

func NewAnchorIndex() *AnchorIndex {
	return &AnchorIndex{byID: map[string]Anchor{}}
}

// Register inserts a, reporting whether it was a fresh id. A duplicate is
// recorded (see Duplicates) but the original registration wins -
// duplicates are an error detail, never an abort (spec.md §3 "Anchor").
func (idx *AnchorIndex) Register(a Anchor) (fresh bool) {
	if _, exists := idx.byID[a.ID]; exists {
		idx.dups = append(idx.dups, a.ID)
		return false
	}
	idx.byID[a.ID] = a
	return true
}

func (idx *AnchorIndex) Resolve(id string) (Anchor, bool) {
	a, ok := idx.byID[id]
	return a, ok
}

func (idx *AnchorIndex) Duplicates() []string { return idx.dups }

// xrefTarget is a CrossReference/InlineAnchor reference collected during
// the inline parse, deferred for resolution until the whole document (and
// thus every anchor) has been parsed.
type xrefTarget struct {
	ID       string
	Location Location
}

// ResolveXrefs walks targets against idx, producing one warning per
// unresolved reference (spec.md §4.8(iv)). Fatal-ness of an unresolved
// xref is the caller's decision (Options.UnresolvedXrefIsError), matching
// "fatal-ness controlled by an option".
func ResolveXrefs(idx *AnchorIndex, targets []xrefTarget) Warnings {
	var warnings Warnings
	for _, t := range targets {
		if _, ok := idx.Resolve(t.ID); !ok {
			warnings = append(warnings, &ParseError{
				Kind:     ErrParse,
				Message:  fmt.Sprintf("unresolved cross-reference target: %s", t.ID),
				Location: t.Location,
				Advice:   "add an [[" + t.ID + "]] anchor, or correct the xref target",
			})
		}
	}
	return warnings
}
