package adoc

// Substitution names one stage of the inline substitution chain (spec.md
// §4.5 / glossary). Stages always run in this order regardless of which
// subset a block's effective chain selects.
type Substitution string

const (
	SubSpecialchars     Substitution = "specialchars"
	SubQuotes           Substitution = "quotes"
	SubAttributes       Substitution = "attributes"
	SubReplacements     Substitution = "replacements"
	SubMacros           Substitution = "macros"
	SubPostReplacements Substitution = "post_replacements"
)

// substitutionOrder is the fixed execution order of the chain; a block's
// "effective chain" (default or override) is always a subset of this,
// applied in this relative order.
var substitutionOrder = []Substitution{
	SubSpecialchars, SubQuotes, SubAttributes, SubReplacements, SubMacros, SubPostReplacements,
}

// normalChain is the default substitution chain for ordinary prose content
// (paragraphs, list items, table cells with the "d" default style, titles).
var normalChain = []Substitution{
	SubSpecialchars, SubQuotes, SubAttributes, SubReplacements, SubMacros, SubPostReplacements,
}

// verbatimChain is the default chain for listing/literal/source delimited
// blocks: only specialchars runs, so `<`, `>`, `&` are escaped but nothing
// else is substituted or parsed for formatting marks.
var verbatimChain = []Substitution{SubSpecialchars}

// noneChain applies no substitutions at all (subs=none, or pass blocks).
var noneChain = []Substitution{}

// effectiveChain resolves a block's substitution chain: an explicit
// BlockMetadata.Substitutions override wins, otherwise verbatim is used
// when verbatim is true. This is the implementation of spec.md's
// "substitution chain override" concept.
func effectiveChain(meta *BlockMetadata, verbatim bool) []Substitution {
	if meta != nil && meta.Substitutions != nil {
		return *meta.Substitutions
	}
	if verbatim {
		return verbatimChain
	}
	return normalChain
}

func chainHas(chain []Substitution, s Substitution) bool {
	for _, c := range chain {
		if c == s {
			return true
		}
	}
	return false
}
