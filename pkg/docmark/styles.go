package docmark

import (
	"strings"
)

// ParagraphFormat carries the two indent values the renderer's indent
// heuristic needs. Values are in twips; nil means "not set here, inherit".
type ParagraphFormat struct {
	LeftIndent      *int
	FirstLineIndent *int
}

// Style is one paragraph style definition from the styles part.
type Style struct {
	ID      string
	Name    string
	BasedOn string
	Default bool
	Format  ParagraphFormat
}

// StylesPart wraps the styles part, exposing lookups by style id and the
// style-inheritance chain for indentation values.
type StylesPart struct {
	part             *Part
	styles           map[string]*Style
	defaultParagraph string
}

func newStylesPart(part *Part) (*StylesPart, error) {
	sp := &StylesPart{
		part:   part,
		styles: make(map[string]*Style),
	}

	root := part.RootNode()
	if root == nil {
		return sp, nil
	}
	for _, el := range root.Element().ChildrenByTag("w:style") {
		styleType, _ := el.Attr("w:type")
		if styleType != "" && styleType != "paragraph" {
			continue
		}
		node, err := WrapNode(el)
		if err != nil {
			return nil, NewMalformedPartError(part.Name, el.Tag, err)
		}
		style := &Style{}
		style.ID, _ = node.Attr("w:styleId")
		if isDefault, err := node.BoolAttr("w:default", false); err == nil && isDefault {
			style.Default = true
		}
		if name := el.Child("w:name"); name != nil {
			style.Name, _ = name.Attr("w:val")
		}
		if style.Name == "" {
			style.Name = style.ID
		}
		if basedOn := el.Child("w:basedOn"); basedOn != nil {
			style.BasedOn, _ = basedOn.Attr("w:val")
		}
		if pPr := el.Child("w:pPr"); pPr != nil {
			style.Format = parseIndents(pPr.Child("w:ind"))
		}
		if style.ID != "" {
			sp.styles[style.ID] = style
			if style.Default && sp.defaultParagraph == "" {
				sp.defaultParagraph = style.ID
			}
		}
	}

	return sp, nil
}

// parseIndents extracts left and first-line indents (twips) from a w:ind
// element. A hanging indent is a negative first-line indent.
func parseIndents(ind *Element) ParagraphFormat {
	var pf ParagraphFormat
	if ind == nil {
		return pf
	}
	if raw, ok := ind.Attr("w:left"); ok {
		if n, err := parseDecimalNumber(raw); err == nil {
			pf.LeftIndent = &n
		}
	}
	if raw, ok := ind.Attr("w:firstLine"); ok {
		if n, err := parseDecimalNumber(raw); err == nil {
			pf.FirstLineIndent = &n
		}
	}
	if pf.FirstLineIndent == nil {
		if raw, ok := ind.Attr("w:hanging"); ok {
			if n, err := parseDecimalNumber(raw); err == nil {
				neg := -n
				pf.FirstLineIndent = &neg
			}
		}
	}
	return pf
}

// Style returns the style with the given id.
func (sp *StylesPart) Style(id string) (*Style, bool) {
	s, ok := sp.styles[id]
	return s, ok
}

// DefaultParagraphStyle returns the default paragraph style, or nil.
func (sp *StylesPart) DefaultParagraphStyle() *Style {
	if sp.defaultParagraph == "" {
		return nil
	}
	return sp.styles[sp.defaultParagraph]
}

// StyleName resolves a style id to its display name; an unset id resolves
// to the default paragraph style's name.
func (sp *StylesPart) StyleName(id string) string {
	if id == "" {
		if def := sp.DefaultParagraphStyle(); def != nil {
			return def.Name
		}
		return ""
	}
	if s, ok := sp.styles[id]; ok {
		return s.Name
	}
	return id
}

// EffectiveFormat resolves the paragraph format for a style id through the
// basedOn inheritance chain: the nearest ancestor that sets a value wins.
func (sp *StylesPart) EffectiveFormat(id string) ParagraphFormat {
	var pf ParagraphFormat
	seen := make(map[string]bool)
	for id != "" && !seen[id] {
		seen[id] = true
		style, ok := sp.styles[id]
		if !ok {
			break
		}
		if pf.LeftIndent == nil {
			pf.LeftIndent = style.Format.LeftIndent
		}
		if pf.FirstLineIndent == nil {
			pf.FirstLineIndent = style.Format.FirstLineIndent
		}
		id = style.BasedOn
	}
	return pf
}

// FindStyleByName returns the id of the first style whose name matches
// case-insensitively, or "".
func (sp *StylesPart) FindStyleByName(name string) string {
	lower := strings.ToLower(name)
	for id, style := range sp.styles {
		if strings.ToLower(style.Name) == lower {
			return id
		}
	}
	return ""
}
