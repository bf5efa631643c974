package docmark

import (
	"fmt"
	"strings"
)

// Cardinality describes how many children of a declared tag a parent may
// hold.
type Cardinality int

const (
	// CardOne: exactly one (required singleton).
	CardOne Cardinality = iota
	// CardZeroOrOne: at most one (optional singleton).
	CardZeroOrOne
	// CardZeroOrMore: any number (repeated).
	CardZeroOrMore
)

// AttrSpec declares one attribute of an element kind: its qualified name,
// the simple type its text is coerced through, and whether it must be
// present.
type AttrSpec struct {
	Name     string
	Type     SimpleType
	Required bool
}

// ChildSpec declares one child element kind. Declaration order doubles as
// the successor order: a new child is inserted immediately before the first
// existing child of a later-declared kind.
type ChildSpec struct {
	Tag  string
	Card Cardinality
}

// ElementSchema is the declarative description of one element kind.
// Undeclared attributes and children are permitted and ignored; the schema
// constrains only what it declares.
type ElementSchema struct {
	Tag      string
	Attrs    []AttrSpec
	Children []ChildSpec
	// Template is minimal XML used by NewNode to synthesize a well-formed
	// instance. Empty means the instance is built from the declared
	// required attributes and children alone.
	Template string
}

func (s *ElementSchema) attrSpec(name string) *AttrSpec {
	for i := range s.Attrs {
		if s.Attrs[i].Name == name {
			return &s.Attrs[i]
		}
	}
	return nil
}

func (s *ElementSchema) childIndex(tag string) int {
	for i := range s.Children {
		if s.Children[i].Tag == tag {
			return i
		}
	}
	return -1
}

const wmlNamespaceDecls = `xmlns:w="http://schemas.openxmlformats.org/wordprocessingml/2006/main" ` +
	`xmlns:r="http://schemas.openxmlformats.org/officeDocument/2006/relationships"`

// elementSchemas is the schema table for every element kind this module
// models. Built once; never mutated afterwards.
var elementSchemas = buildSchemas()

func buildSchemas() map[string]*ElementSchema {
	schemas := []*ElementSchema{
		{
			Tag:      "w:document",
			Children: []ChildSpec{{Tag: "w:body", Card: CardOne}},
			Template: `<w:document ` + wmlNamespaceDecls + `><w:body/></w:document>`,
		},
		{
			Tag: "w:body",
			Children: []ChildSpec{
				{Tag: "w:p", Card: CardZeroOrMore},
				{Tag: "w:tbl", Card: CardZeroOrMore},
				{Tag: "w:sectPr", Card: CardZeroOrOne},
			},
		},
		{
			Tag: "w:p",
			Children: []ChildSpec{
				{Tag: "w:pPr", Card: CardZeroOrOne},
				{Tag: "w:bookmarkStart", Card: CardZeroOrMore},
				{Tag: "w:r", Card: CardZeroOrMore},
				{Tag: "w:hyperlink", Card: CardZeroOrMore},
				{Tag: "w:fldSimple", Card: CardZeroOrMore},
				{Tag: "w:ins", Card: CardZeroOrMore},
				{Tag: "w:del", Card: CardZeroOrMore},
				{Tag: "w:bookmarkEnd", Card: CardZeroOrMore},
			},
			Template: `<w:p ` + wmlNamespaceDecls + `/>`,
		},
		{
			Tag: "w:pPr",
			Children: []ChildSpec{
				{Tag: "w:pStyle", Card: CardZeroOrOne},
				{Tag: "w:numPr", Card: CardZeroOrOne},
				{Tag: "w:ind", Card: CardZeroOrOne},
				{Tag: "w:jc", Card: CardZeroOrOne},
				{Tag: "w:rPr", Card: CardZeroOrOne},
			},
		},
		{
			Tag:   "w:pStyle",
			Attrs: []AttrSpec{{Name: "w:val", Type: STString, Required: true}},
		},
		{
			Tag: "w:numPr",
			Children: []ChildSpec{
				{Tag: "w:ilvl", Card: CardZeroOrOne},
				{Tag: "w:numId", Card: CardZeroOrOne},
			},
			Template: `<w:numPr ` + wmlNamespaceDecls + `><w:ilvl w:val="0"/><w:numId w:val="0"/></w:numPr>`,
		},
		{
			Tag:   "w:ilvl",
			Attrs: []AttrSpec{{Name: "w:val", Type: STDecimalNumber, Required: true}},
		},
		{
			Tag:   "w:numId",
			Attrs: []AttrSpec{{Name: "w:val", Type: STDecimalNumber, Required: true}},
		},
		{
			Tag: "w:ind",
			Attrs: []AttrSpec{
				{Name: "w:left", Type: STDecimalNumber},
				{Name: "w:right", Type: STDecimalNumber},
				{Name: "w:firstLine", Type: STDecimalNumber},
				{Name: "w:hanging", Type: STDecimalNumber},
			},
		},
		{
			Tag:   "w:jc",
			Attrs: []AttrSpec{{Name: "w:val", Type: STString, Required: true}},
		},
		{
			Tag: "w:r",
			Children: []ChildSpec{
				{Tag: "w:rPr", Card: CardZeroOrOne},
				{Tag: "w:t", Card: CardZeroOrMore},
				{Tag: "w:delText", Card: CardZeroOrMore},
				{Tag: "w:br", Card: CardZeroOrMore},
				{Tag: "w:tab", Card: CardZeroOrMore},
				{Tag: "w:sym", Card: CardZeroOrMore},
				{Tag: "w:fldChar", Card: CardZeroOrMore},
				{Tag: "w:instrText", Card: CardZeroOrMore},
				{Tag: "w:footnoteReference", Card: CardZeroOrMore},
				{Tag: "w:endnoteReference", Card: CardZeroOrMore},
			},
		},
		{
			Tag: "w:rPr",
			Children: []ChildSpec{
				{Tag: "w:rFonts", Card: CardZeroOrOne},
				{Tag: "w:b", Card: CardZeroOrOne},
				{Tag: "w:i", Card: CardZeroOrOne},
				{Tag: "w:vertAlign", Card: CardZeroOrOne},
			},
		},
		{
			Tag:   "w:b",
			Attrs: []AttrSpec{{Name: "w:val", Type: STOnOff}},
		},
		{
			Tag:   "w:i",
			Attrs: []AttrSpec{{Name: "w:val", Type: STOnOff}},
		},
		{
			Tag: "w:rFonts",
			Attrs: []AttrSpec{
				{Name: "w:ascii", Type: STString},
				{Name: "w:hAnsi", Type: STString},
			},
		},
		{
			Tag:   "w:vertAlign",
			Attrs: []AttrSpec{{Name: "w:val", Type: STString, Required: true}},
		},
		{Tag: "w:t"},
		{Tag: "w:delText"},
		{
			Tag:   "w:br",
			Attrs: []AttrSpec{{Name: "w:type", Type: STString}},
		},
		{Tag: "w:tab"},
		{
			Tag: "w:sym",
			Attrs: []AttrSpec{
				{Name: "w:font", Type: STString},
				{Name: "w:char", Type: STString},
			},
		},
		{
			Tag:   "w:fldChar",
			Attrs: []AttrSpec{{Name: "w:fldCharType", Type: STString, Required: true}},
		},
		{Tag: "w:instrText"},
		{
			Tag:      "w:fldSimple",
			Attrs:    []AttrSpec{{Name: "w:instr", Type: STString, Required: true}},
			Children: []ChildSpec{{Tag: "w:r", Card: CardZeroOrMore}},
		},
		{
			Tag: "w:hyperlink",
			Attrs: []AttrSpec{
				{Name: "r:id", Type: STString},
				{Name: "w:anchor", Type: STString},
			},
			Children: []ChildSpec{{Tag: "w:r", Card: CardZeroOrMore}},
		},
		{
			Tag: "w:bookmarkStart",
			Attrs: []AttrSpec{
				{Name: "w:id", Type: STDecimalNumber, Required: true},
				{Name: "w:name", Type: STString, Required: true},
			},
		},
		{
			Tag:   "w:bookmarkEnd",
			Attrs: []AttrSpec{{Name: "w:id", Type: STDecimalNumber, Required: true}},
		},
		{
			Tag: "w:ins",
			Children: []ChildSpec{
				{Tag: "w:r", Card: CardZeroOrMore},
			},
		},
		{
			Tag: "w:del",
			Children: []ChildSpec{
				{Tag: "w:r", Card: CardZeroOrMore},
			},
		},
		{
			Tag: "w:tbl",
			Children: []ChildSpec{
				{Tag: "w:tblPr", Card: CardZeroOrOne},
				{Tag: "w:tblGrid", Card: CardZeroOrOne},
				{Tag: "w:tr", Card: CardZeroOrMore},
			},
		},
		{
			Tag: "w:tr",
			Children: []ChildSpec{
				{Tag: "w:trPr", Card: CardZeroOrOne},
				{Tag: "w:tc", Card: CardZeroOrMore},
			},
		},
		{
			Tag: "w:tc",
			Children: []ChildSpec{
				{Tag: "w:tcPr", Card: CardZeroOrOne},
				{Tag: "w:p", Card: CardZeroOrMore},
				{Tag: "w:tbl", Card: CardZeroOrMore},
			},
		},
		{
			Tag:      "w:footnotes",
			Children: []ChildSpec{{Tag: "w:footnote", Card: CardZeroOrMore}},
			Template: `<w:footnotes ` + wmlNamespaceDecls + `>` +
				`<w:footnote w:type="separator" w:id="-1"><w:p/></w:footnote>` +
				`<w:footnote w:type="continuationSeparator" w:id="0"><w:p/></w:footnote>` +
				`</w:footnotes>`,
		},
		{
			Tag: "w:footnote",
			Attrs: []AttrSpec{
				{Name: "w:id", Type: STDecimalNumber, Required: true},
				{Name: "w:type", Type: STString},
			},
			Children: []ChildSpec{{Tag: "w:p", Card: CardZeroOrMore}},
		},
		{
			Tag:   "w:footnoteReference",
			Attrs: []AttrSpec{{Name: "w:id", Type: STDecimalNumber, Required: true}},
		},
		{
			Tag:      "w:endnotes",
			Children: []ChildSpec{{Tag: "w:endnote", Card: CardZeroOrMore}},
			Template: `<w:endnotes ` + wmlNamespaceDecls + `>` +
				`<w:endnote w:type="separator" w:id="-1"><w:p/></w:endnote>` +
				`<w:endnote w:type="continuationSeparator" w:id="0"><w:p/></w:endnote>` +
				`</w:endnotes>`,
		},
		{
			Tag: "w:endnote",
			Attrs: []AttrSpec{
				{Name: "w:id", Type: STDecimalNumber, Required: true},
				{Name: "w:type", Type: STString},
			},
			Children: []ChildSpec{{Tag: "w:p", Card: CardZeroOrMore}},
		},
		{
			Tag:   "w:endnoteReference",
			Attrs: []AttrSpec{{Name: "w:id", Type: STDecimalNumber, Required: true}},
		},
		{
			Tag: "w:numbering",
			Children: []ChildSpec{
				{Tag: "w:abstractNum", Card: CardZeroOrMore},
				{Tag: "w:num", Card: CardZeroOrMore},
			},
		},
		{
			Tag:      "w:abstractNum",
			Attrs:    []AttrSpec{{Name: "w:abstractNumId", Type: STDecimalNumber, Required: true}},
			Children: []ChildSpec{{Tag: "w:lvl", Card: CardZeroOrMore}},
		},
		{
			Tag:   "w:lvl",
			Attrs: []AttrSpec{{Name: "w:ilvl", Type: STDecimalNumber, Required: true}},
			Children: []ChildSpec{
				{Tag: "w:start", Card: CardZeroOrOne},
				{Tag: "w:numFmt", Card: CardZeroOrOne},
				{Tag: "w:lvlText", Card: CardZeroOrOne},
			},
		},
		{
			Tag:   "w:start",
			Attrs: []AttrSpec{{Name: "w:val", Type: STDecimalNumber, Required: true}},
		},
		{
			Tag:   "w:numFmt",
			Attrs: []AttrSpec{{Name: "w:val", Type: STString, Required: true}},
		},
		{
			Tag:   "w:lvlText",
			Attrs: []AttrSpec{{Name: "w:val", Type: STString, Required: true}},
		},
		{
			Tag:   "w:num",
			Attrs: []AttrSpec{{Name: "w:numId", Type: STDecimalNumber, Required: true}},
			Children: []ChildSpec{
				{Tag: "w:abstractNumId", Card: CardOne},
				{Tag: "w:lvlOverride", Card: CardZeroOrMore},
			},
		},
		{
			Tag:   "w:abstractNumId",
			Attrs: []AttrSpec{{Name: "w:val", Type: STDecimalNumber, Required: true}},
		},
		{
			Tag:   "w:lvlOverride",
			Attrs: []AttrSpec{{Name: "w:ilvl", Type: STDecimalNumber, Required: true}},
			Children: []ChildSpec{
				{Tag: "w:startOverride", Card: CardZeroOrOne},
				{Tag: "w:lvl", Card: CardZeroOrOne},
			},
		},
		{
			Tag:   "w:startOverride",
			Attrs: []AttrSpec{{Name: "w:val", Type: STDecimalNumber, Required: true}},
		},
		{
			Tag: "w:styles",
			Children: []ChildSpec{
				{Tag: "w:docDefaults", Card: CardZeroOrOne},
				{Tag: "w:style", Card: CardZeroOrMore},
			},
		},
		{
			Tag: "w:style",
			Attrs: []AttrSpec{
				{Name: "w:type", Type: STString},
				{Name: "w:styleId", Type: STString},
				{Name: "w:default", Type: STOnOff},
			},
			Children: []ChildSpec{
				{Tag: "w:name", Card: CardZeroOrOne},
				{Tag: "w:basedOn", Card: CardZeroOrOne},
				{Tag: "w:pPr", Card: CardZeroOrOne},
				{Tag: "w:rPr", Card: CardZeroOrOne},
			},
		},
		{
			Tag:   "w:name",
			Attrs: []AttrSpec{{Name: "w:val", Type: STString, Required: true}},
		},
		{
			Tag:   "w:basedOn",
			Attrs: []AttrSpec{{Name: "w:val", Type: STString, Required: true}},
		},
		{
			Tag:      "cusp:Properties",
			Children: []ChildSpec{{Tag: "cusp:property", Card: CardZeroOrMore}},
			Template: `<cusp:Properties ` +
				`xmlns:cusp="http://schemas.openxmlformats.org/officeDocument/2006/custom-properties" ` +
				`xmlns:vt="http://schemas.openxmlformats.org/officeDocument/2006/docPropsVTypes"/>`,
		},
		{
			Tag: "cusp:property",
			Attrs: []AttrSpec{
				{Name: "name", Type: STString, Required: true},
				{Name: "fmtid", Type: STString},
				{Name: "pid", Type: STDecimalNumber},
			},
		},
	}

	table := make(map[string]*ElementSchema, len(schemas))
	for _, s := range schemas {
		table[s.Tag] = s
	}
	return table
}

// SchemaFor returns the declared schema for a tag, or nil when the tag is
// not modeled.
func SchemaFor(tag string) *ElementSchema {
	return elementSchemas[tag]
}

// Node is a typed wrapper over one Element, validated against its declared
// schema. A Node's children always satisfy the schema: required children
// are present, singletons are not repeated, and declared ordering holds.
// Mutation goes through the declared accessors only.
type Node struct {
	el     *Element
	schema *ElementSchema
}

// WrapNode validates el (and, recursively, every descendant with a declared
// schema) and returns the typed wrapper. Returns SchemaViolationError or
// InvalidAttributeValueError on the first structural problem found.
func WrapNode(el *Element) (*Node, error) {
	if err := validateTree(el); err != nil {
		return nil, err
	}
	return &Node{el: el, schema: elementSchemas[el.Tag]}, nil
}

// NewNode builds a minimal well-formed instance of the given element kind,
// from the schema's template when one is declared, otherwise from the
// declared required attributes and children. Used when a part is
// synthesized rather than parsed from existing bytes.
func NewNode(tag string) (*Node, error) {
	schema := elementSchemas[tag]
	if schema == nil {
		return nil, NewSchemaViolationError(tag, "no schema declared for element")
	}
	if schema.Template != "" {
		el, err := parseElementTree(strings.NewReader(schema.Template))
		if err != nil {
			return nil, NewSchemaViolationError(tag, fmt.Sprintf("bad template: %v", err))
		}
		return WrapNode(el)
	}
	el := synthesizeElement(schema)
	return WrapNode(el)
}

func synthesizeElement(schema *ElementSchema) *Element {
	el := &Element{Tag: schema.Tag}
	for _, a := range schema.Attrs {
		if !a.Required {
			continue
		}
		value := ""
		if a.Type == STDecimalNumber {
			value = "0"
		}
		el.Attrs = append(el.Attrs, Attr{Name: a.Name, Value: value})
	}
	for _, c := range schema.Children {
		if c.Card != CardOne {
			continue
		}
		if childSchema := elementSchemas[c.Tag]; childSchema != nil {
			el.Children = append(el.Children, synthesizeElement(childSchema))
		} else {
			el.Children = append(el.Children, &Element{Tag: c.Tag})
		}
	}
	return el
}

func validateTree(el *Element) error {
	if schema := elementSchemas[el.Tag]; schema != nil {
		if err := validateElement(el, schema); err != nil {
			return err
		}
	}
	for _, c := range el.Children {
		if err := validateTree(c); err != nil {
			return err
		}
	}
	return nil
}

func validateElement(el *Element, schema *ElementSchema) error {
	// attributes: required present, declared ones type-checked
	for _, spec := range schema.Attrs {
		value, ok := el.Attr(spec.Name)
		if !ok {
			if spec.Required {
				return NewSchemaViolationError(el.Tag, fmt.Sprintf("missing required attribute %s", spec.Name))
			}
			continue
		}
		if !spec.Type.Check(value) {
			return NewInvalidAttributeValueError(el.Tag, spec.Name, value, spec.Type.String())
		}
	}

	// children: cardinality
	for _, spec := range schema.Children {
		count := 0
		for _, c := range el.Children {
			if c.Tag == spec.Tag {
				count++
			}
		}
		switch spec.Card {
		case CardOne:
			if count != 1 {
				return NewSchemaViolationError(el.Tag,
					fmt.Sprintf("expected exactly one %s child, found %d", spec.Tag, count))
			}
		case CardZeroOrOne:
			if count > 1 {
				return NewSchemaViolationError(el.Tag,
					fmt.Sprintf("expected at most one %s child, found %d", spec.Tag, count))
			}
		}
	}

	// children: declared ordering. A singleton child may not appear after
	// a child of a later-declared kind; repeated kinds may interleave
	// freely among themselves (paragraphs and tables do in any body).
	highest := -1
	for _, c := range el.Children {
		idx := schema.childIndex(c.Tag)
		if idx < 0 {
			continue
		}
		if idx < highest && schema.Children[idx].Card != CardZeroOrMore {
			return NewSchemaViolationError(el.Tag,
				fmt.Sprintf("child %s appears after its declared successors", c.Tag))
		}
		if idx > highest {
			highest = idx
		}
	}

	return nil
}

// Element returns the underlying raw element. Callers must not restructure
// it directly; use the Node accessors.
func (n *Node) Element() *Element {
	return n.el
}

// Tag returns the node's qualified tag.
func (n *Node) Tag() string {
	return n.el.Tag
}

// Attr returns the raw text of the named attribute.
func (n *Node) Attr(name string) (string, bool) {
	return n.el.Attr(name)
}

// IntAttr returns the named attribute coerced as a decimal number.
func (n *Node) IntAttr(name string) (int, error) {
	value, ok := n.el.Attr(name)
	if !ok {
		return 0, NewSchemaViolationError(n.el.Tag, fmt.Sprintf("missing attribute %s", name))
	}
	numeric, err := parseDecimalNumber(value)
	if err != nil {
		return 0, NewInvalidAttributeValueError(n.el.Tag, name, value, STDecimalNumber.String())
	}
	return numeric, nil
}

// BoolAttr returns the named attribute coerced as an on/off flag. A missing
// attribute yields the provided default (a bare <w:b/> means bold on).
func (n *Node) BoolAttr(name string, missing bool) (bool, error) {
	value, ok := n.el.Attr(name)
	if !ok {
		return missing, nil
	}
	flag, err := parseOnOff(value)
	if err != nil {
		return false, NewInvalidAttributeValueError(n.el.Tag, name, value, STOnOff.String())
	}
	return flag, nil
}

// SetAttr sets a declared attribute after coercing value through its simple
// type. Setting an undeclared attribute is a schema violation.
func (n *Node) SetAttr(name, value string) error {
	if n.schema == nil {
		return NewSchemaViolationError(n.el.Tag, "no schema declared for element")
	}
	spec := n.schema.attrSpec(name)
	if spec == nil {
		return NewSchemaViolationError(n.el.Tag, fmt.Sprintf("attribute %s is not declared", name))
	}
	if !spec.Type.Check(value) {
		return NewInvalidAttributeValueError(n.el.Tag, name, value, spec.Type.String())
	}
	n.el.SetAttrValue(name, value)
	return nil
}

// Child returns the first child with the given tag, or nil.
func (n *Node) Child(tag string) *Element {
	return n.el.Child(tag)
}

// ChildrenByTag returns all children with the given tag.
func (n *Node) ChildrenByTag(tag string) []*Element {
	return n.el.ChildrenByTag(tag)
}

// InsertChild validates child against its own schema and inserts it at the
// position its declared kind requires: immediately before the first
// existing child of a later-declared kind, or appended. Inserting a second
// singleton or an undeclared kind is a schema violation.
func (n *Node) InsertChild(child *Element) error {
	if n.schema == nil {
		return NewSchemaViolationError(n.el.Tag, "no schema declared for element")
	}
	idx := n.schema.childIndex(child.Tag)
	if idx < 0 {
		return NewSchemaViolationError(n.el.Tag, fmt.Sprintf("child %s is not declared", child.Tag))
	}
	spec := n.schema.Children[idx]
	if spec.Card != CardZeroOrMore && n.el.Child(child.Tag) != nil {
		return NewSchemaViolationError(n.el.Tag, fmt.Sprintf("child %s may appear at most once", child.Tag))
	}
	if err := validateTree(child); err != nil {
		return err
	}

	insertAt := len(n.el.Children)
	for i, existing := range n.el.Children {
		existingIdx := n.schema.childIndex(existing.Tag)
		if existingIdx > idx {
			insertAt = i
			break
		}
	}
	n.el.Children = append(n.el.Children, nil)
	copy(n.el.Children[insertAt+1:], n.el.Children[insertAt:])
	n.el.Children[insertAt] = child

	return nil
}

// RemoveChild removes the given child element. Removing a required
// singleton is a schema violation.
func (n *Node) RemoveChild(child *Element) error {
	if n.schema != nil {
		if idx := n.schema.childIndex(child.Tag); idx >= 0 && n.schema.Children[idx].Card == CardOne {
			return NewSchemaViolationError(n.el.Tag, fmt.Sprintf("child %s is required", child.Tag))
		}
	}
	for i, existing := range n.el.Children {
		if existing == child {
			n.el.Children = append(n.el.Children[:i], n.el.Children[i+1:]...)
			return nil
		}
	}
	return NewSchemaViolationError(n.el.Tag, fmt.Sprintf("child %s not present", child.Tag))
}
