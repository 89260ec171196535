package adoc

import "encoding/json"

// asgNode describes the generic `{name, type, ...}` envelope of an ASG
// node (spec.md §6). The marshal functions in this file build that
// envelope directly as maps; none of them uses this type.
type asgNode struct {
	Name     string          `json:"name"`
	Type     string          `json:"type"`
	Variant  string          `json:"variant,omitempty"`
	Title    Title           `json:"title,omitempty"`
	Metadata json.RawMessage `json:"metadata,omitempty"`
	Extra    json.RawMessage `json:"-"`
	Location Location        `json:"location"`
}

// blockMetadataJSON is BlockMetadata's wire shape; positional_attributes
// is deliberately never serialized (spec.md §6: "positional_attributes is
// never serialized").
type blockMetadataJSON struct {
	Attributes map[string]AttributeValue `json:"attributes,omitempty"`
	Roles      []string                  `json:"roles,omitempty"`
	Options    []string                  `json:"options,omitempty"`
	Style      string                    `json:"style,omitempty"`
	ID         string                    `json:"id,omitempty"`
	Anchors    []Anchor                  `json:"anchors,omitempty"`
}

func (m BlockMetadata) toJSON() *blockMetadataJSON {
	if m.IsEmpty() {
		return nil
	}
	out := &blockMetadataJSON{Roles: m.Roles, Options: m.Options, Style: m.Style, ID: m.ID, Anchors: m.Anchors}
	if m.Attributes != nil && m.Attributes.Len() > 0 {
		out.Attributes = map[string]AttributeValue{}
		for _, name := range m.Attributes.SortedNames() {
			v, _ := m.Attributes.Get(name)
			out.Attributes[name] = v
		}
	}
	return out
}

// MarshalJSON serializes the Document as `{name: "document", type:
// "block", header?, attributes, blocks, location}` (spec.md §6).
func (d *Document) MarshalJSON() ([]byte, error) {
	type header struct {
		Title    Title    `json:"title,omitempty"`
		Subtitle Title    `json:"subtitle,omitempty"`
		Authors  []string `json:"authors,omitempty"`
		Revision string   `json:"revision,omitempty"`
	}
	var h *header
	if len(d.Title) > 0 || len(d.Subtitle) > 0 || len(d.Authors) > 0 || d.Revision != "" {
		h = &header{Title: d.Title, Subtitle: d.Subtitle, Authors: d.Authors, Revision: d.Revision}
	}

	attrs := map[string]AttributeValue{}
	if d.Attributes != nil {
		for _, name := range d.Attributes.SortedNames() {
			v, _ := d.Attributes.Get(name)
			attrs[name] = v
		}
	}

	out := struct {
		Name       string                    `json:"name"`
		Type       string                    `json:"type"`
		Header     *header                   `json:"header,omitempty"`
		Attributes map[string]AttributeValue `json:"attributes"`
		Blocks     []json.RawMessage         `json:"blocks"`
		Footnotes  []DocumentFootnote        `json:"footnotes,omitempty"`
		Location   Location                  `json:"location"`
	}{Name: "document", Type: "block", Header: h, Attributes: attrs, Footnotes: d.Footnotes, Location: d.Location}

	for _, b := range d.Blocks {
		raw, err := marshalBlock(b)
		if err != nil {
			return nil, err
		}
		out.Blocks = append(out.Blocks, raw)
	}
	return json.Marshal(out)
}

// marshalBlock dispatches on the concrete Block variant to build its ASG
// payload (spec.md §6). Every variant shares name="<kind>", type="block".
func marshalBlock(b Block) (json.RawMessage, error) {
	switch v := b.(type) {
	case Paragraph:
		return marshalWithExtra("paragraph", v.base, struct {
			Inline     []InlineNode       `json:"inline"`
			Admonition *AdmonitionVariant `json:"admonition,omitempty"`
		}{v.Content, v.Admonition})
	case *Section:
		blocks, err := marshalBlocks(v.Blocks)
		if err != nil {
			return nil, err
		}
		return marshalWithExtra("section", v.base, struct {
			Level  int               `json:"level"`
			Inline []InlineNode      `json:"inline"`
			Blocks []json.RawMessage `json:"blocks"`
		}{v.Level, v.Content, blocks})
	case ThematicBreak:
		return marshalWithExtra("thematic_break", v.base, struct{}{})
	case PageBreak:
		return marshalWithExtra("page_break", v.base, struct{}{})
	case DiscreteHeader:
		return marshalWithExtra("discrete_header", v.base, struct {
			Level  int          `json:"level"`
			Inline []InlineNode `json:"inline"`
		}{v.Level, v.Content})
	case DocumentAttribute:
		return marshalWithExtra("document_attribute", v.base, struct {
			AttrName  string         `json:"attr_name"`
			AttrValue AttributeValue `json:"attr_value"`
		}{v.Name, v.Value})
	case TableOfContents:
		return marshalWithExtra("toc", v.base, struct{}{})
	case DelimitedBlock:
		blocks, err := marshalBlocks(v.Content)
		if err != nil {
			return nil, err
		}
		return marshalWithExtra(v.Style.String(), v.base, struct {
			Lines       []InlineNode      `json:"lines,omitempty"`
			Blocks      []json.RawMessage `json:"blocks,omitempty"`
			Language    string            `json:"language,omitempty"`
			Attribution string            `json:"attribution,omitempty"`
			Citetitle   string            `json:"citetitle,omitempty"`
		}{v.Lines, blocks, v.Language, v.Attribution, v.Citetitle})
	case Admonition:
		blocks, err := marshalBlocks(v.Content)
		if err != nil {
			return nil, err
		}
		return marshalWithExtra("admonition", v.base, struct {
			Variant AdmonitionVariant `json:"variant"`
			Blocks  []json.RawMessage `json:"blocks"`
		}{v.Variant, blocks})
	case Image:
		return marshalWithExtra("image", v.base, struct {
			Target string `json:"target"`
			Alt    string `json:"alt,omitempty"`
			Width  string `json:"width,omitempty"`
			Height string `json:"height,omitempty"`
		}{v.Target, v.Alt, v.Width, v.Height})
	case Audio:
		return marshalWithExtra("audio", v.base, struct {
			Target string `json:"target"`
		}{v.Target})
	case Video:
		return marshalWithExtra("video", v.base, struct {
			Target string `json:"target"`
		}{v.Target})
	case UnorderedList:
		return marshalWithExtra("ulist", v.base, struct {
			Items []ListItem `json:"items"`
		}{v.Items})
	case OrderedList:
		return marshalWithExtra("olist", v.base, struct {
			Items []ListItem `json:"items"`
		}{v.Items})
	case DescriptionList:
		return marshalWithExtra("dlist", v.base, struct {
			Items []DescriptionListItem `json:"items"`
		}{v.Items})
	case CalloutList:
		return marshalWithExtra("colist", v.base, struct {
			Items []CalloutItem `json:"items"`
		}{v.Items})
	case Table:
		return marshalWithExtra("table", v.base, struct {
			Columns []ColumnFormat `json:"columns,omitempty"`
			Header  *TableRow      `json:"header,omitempty"`
			Rows    []TableRow     `json:"rows"`
		}{v.Columns, v.Header, v.Rows})
	default:
		return marshalWithExtra("unknown", base{}, struct{}{})
	}
}

func marshalBlocks(blocks []Block) ([]json.RawMessage, error) {
	out := make([]json.RawMessage, 0, len(blocks))
	for _, b := range blocks {
		raw, err := marshalBlock(b)
		if err != nil {
			return nil, err
		}
		out = append(out, raw)
	}
	return out, nil
}

// marshalWithExtra merges base's shared fields (title, metadata,
// location) with a variant-specific payload struct into one flat JSON
// object, implementing spec.md §6's "BlockMetadata fields are omitted
// when default" and "empty optional fields are omitted, not null" rules.
func marshalWithExtra(name string, b base, extra interface{}) (json.RawMessage, error) {
	extraBytes, err := json.Marshal(extra)
	if err != nil {
		return nil, err
	}
	var extraMap map[string]json.RawMessage
	if err := json.Unmarshal(extraBytes, &extraMap); err != nil {
		return nil, err
	}

	out := map[string]json.RawMessage{}
	for k, v := range extraMap {
		out[k] = v
	}
	nameBytes, _ := json.Marshal(name)
	out["name"] = nameBytes
	typeBytes, _ := json.Marshal("block")
	out["type"] = typeBytes
	if len(b.Title) > 0 {
		titleBytes, err := json.Marshal(b.Title)
		if err != nil {
			return nil, err
		}
		out["title"] = titleBytes
	}
	if meta := b.Metadata.toJSON(); meta != nil {
		metaBytes, err := json.Marshal(meta)
		if err != nil {
			return nil, err
		}
		out["metadata"] = metaBytes
	}
	locBytes, err := json.Marshal(b.Location)
	if err != nil {
		return nil, err
	}
	out["location"] = locBytes

	return json.Marshal(out)
}

// marshalInline serializes an InlineNode's concrete variant the same way
// marshalBlock does for Block, but inline nodes carry type: "string" or
// "inline" per spec.md's InlineNode/InlineMacro tagging convention.
func marshalInline(n InlineNode) (json.RawMessage, error) {
	loc := n.Position()
	switch v := n.(type) {
	case PlainText:
		return json.Marshal(map[string]interface{}{"name": "text", "type": "string", "value": v.Content, "location": loc})
	case RawText:
		return json.Marshal(map[string]interface{}{"name": "raw", "type": "string", "value": v.Content, "location": loc})
	case VerbatimText:
		return json.Marshal(map[string]interface{}{"name": "verbatim", "type": "string", "value": v.Content, "location": loc})
	case BoldText:
		return marshalFormatted("strong", v.formatted)
	case ItalicText:
		return marshalFormatted("emphasis", v.formatted)
	case MonospaceText:
		return marshalFormatted("monospace", v.formatted)
	case HighlightText:
		return marshalFormatted("mark", v.formatted)
	case SubscriptText:
		return marshalFormatted("subscript", v.formatted)
	case SuperscriptText:
		return marshalFormatted("superscript", v.formatted)
	case CurvedQuotationText:
		return marshalFormatted("curved_quotation", v.formatted)
	case CurvedApostropheText:
		return marshalFormatted("curved_apostrophe", v.formatted)
	case StandaloneCurvedApostrophe:
		return json.Marshal(map[string]interface{}{"name": "apostrophe", "type": "string", "location": loc})
	case LineBreak:
		return json.Marshal(map[string]interface{}{"name": "line_break", "type": "inline", "hard": v.Hard, "location": loc})
	case InlineAnchor:
		return json.Marshal(map[string]interface{}{"name": "anchor", "type": "inline", "id": v.ID, "xreflabel": v.XrefLabel, "location": loc})
	case Macro:
		return marshalMacro(v.Macro, loc)
	default:
		return json.Marshal(map[string]interface{}{"name": "unknown", "type": "inline", "location": loc})
	}
}

func marshalFormatted(name string, f formatted) (json.RawMessage, error) {
	inline, err := marshalInlines(f.Content)
	if err != nil {
		return nil, err
	}
	return json.Marshal(map[string]interface{}{"name": name, "type": "inline", "inline": inline, "location": f.Location})
}

func marshalInlines(nodes []InlineNode) ([]json.RawMessage, error) {
	out := make([]json.RawMessage, 0, len(nodes))
	for _, n := range nodes {
		raw, err := marshalInline(n)
		if err != nil {
			return nil, err
		}
		out = append(out, raw)
	}
	return out, nil
}

func marshalMacro(m InlineMacro, loc Location) (json.RawMessage, error) {
	switch v := m.(type) {
	case Link:
		text, err := marshalInlines(v.Text)
		if err != nil {
			return nil, err
		}
		return json.Marshal(map[string]interface{}{"name": "link", "type": "inline", "target": v.Target, "inline": text, "location": loc})
	case Url:
		text, err := marshalInlines(v.Text)
		if err != nil {
			return nil, err
		}
		return json.Marshal(map[string]interface{}{"name": "url", "type": "inline", "target": v.Target, "inline": text, "location": loc})
	case Mailto:
		return json.Marshal(map[string]interface{}{"name": "mailto", "type": "inline", "target": v.Target, "location": loc})
	case Autolink:
		return json.Marshal(map[string]interface{}{"name": "autolink", "type": "inline", "url": v.URL, "location": loc})
	case CrossReference:
		return json.Marshal(map[string]interface{}{"name": "xref", "type": "inline", "target": v.Target, "text": v.Text, "location": loc})
	case InlineImage:
		return json.Marshal(map[string]interface{}{"name": "image", "type": "inline", "target": v.Target, "alt": v.Alt, "location": loc})
	case Footnote:
		content, err := marshalInlines(v.Content)
		if err != nil {
			return nil, err
		}
		return json.Marshal(map[string]interface{}{"name": "footnote", "type": "inline", "footnote_name": v.Name, "inline": content, "location": loc})
	case Button:
		return json.Marshal(map[string]interface{}{"name": "button", "type": "inline", "label": v.Label, "location": loc})
	case Pass:
		return json.Marshal(map[string]interface{}{"name": "pass", "type": "inline", "text": v.Text, "location": loc})
	case Keyboard:
		return json.Marshal(map[string]interface{}{"name": "kbd", "type": "inline", "keys": v.Keys, "location": loc})
	case Menu:
		return json.Marshal(map[string]interface{}{"name": "menu", "type": "inline", "target": v.Target, "items": v.Items, "location": loc})
	case Stem:
		return json.Marshal(map[string]interface{}{"name": "stem", "type": "inline", "content": v.Content, "location": loc})
	case Icon:
		return json.Marshal(map[string]interface{}{"name": "icon", "type": "inline", "target": v.Target, "location": loc})
	default:
		return json.Marshal(map[string]interface{}{"name": "unknown_macro", "type": "inline", "location": loc})
	}
}

// MarshalInlineNodes lets a bare []InlineNode (the `parse_inline` API's return
// shape) serialize through the same per-variant logic as a block's inline
// content (spec.md §6).
func MarshalInlineNodes(nodes []InlineNode) ([]byte, error) {
	raw, err := marshalInlines(nodes)
	if err != nil {
		return nil, err
	}
	return json.Marshal(raw)
}

// Each InlineNode variant implements MarshalJSON by delegating to
// marshalInline, so a plain json.Marshal of any []InlineNode-typed field
// (Title, a formatted node's Content, a Paragraph's Content, ...)
// produces the tagged {name, type, ...} shape without every call site
// needing to route through marshalInlines explicitly.
func (n PlainText) MarshalJSON() ([]byte, error)                  { return marshalInline(n) }
func (n RawText) MarshalJSON() ([]byte, error)                    { return marshalInline(n) }
func (n VerbatimText) MarshalJSON() ([]byte, error)               { return marshalInline(n) }
func (n BoldText) MarshalJSON() ([]byte, error)                   { return marshalInline(n) }
func (n ItalicText) MarshalJSON() ([]byte, error)                 { return marshalInline(n) }
func (n MonospaceText) MarshalJSON() ([]byte, error)              { return marshalInline(n) }
func (n HighlightText) MarshalJSON() ([]byte, error)              { return marshalInline(n) }
func (n SubscriptText) MarshalJSON() ([]byte, error)              { return marshalInline(n) }
func (n SuperscriptText) MarshalJSON() ([]byte, error)            { return marshalInline(n) }
func (n CurvedQuotationText) MarshalJSON() ([]byte, error)        { return marshalInline(n) }
func (n CurvedApostropheText) MarshalJSON() ([]byte, error)       { return marshalInline(n) }
func (n StandaloneCurvedApostrophe) MarshalJSON() ([]byte, error) { return marshalInline(n) }
func (n LineBreak) MarshalJSON() ([]byte, error)                  { return marshalInline(n) }
func (n InlineAnchor) MarshalJSON() ([]byte, error)               { return marshalInline(n) }
func (n Macro) MarshalJSON() ([]byte, error)                      { return marshalInline(n) }
