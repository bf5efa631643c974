package docmark

import (
	"encoding/xml"
	"fmt"
	"io"
	"strings"
)

// Namespace URIs that appear in WordprocessingML parts, mapped back to
// their conventional prefixes so element tags can be compared as "w:p",
// "r:id" and so on regardless of the prefixes a producer chose.
var namespacePrefixes = map[string]string{
	"http://schemas.openxmlformats.org/wordprocessingml/2006/main":            "w",
	"http://schemas.openxmlformats.org/officeDocument/2006/relationships":     "r",
	"http://schemas.openxmlformats.org/drawingml/2006/wordprocessingDrawing":  "wp",
	"http://schemas.openxmlformats.org/drawingml/2006/main":                   "a",
	"http://schemas.openxmlformats.org/drawingml/2006/picture":                "pic",
	"http://schemas.openxmlformats.org/markup-compatibility/2006":             "mc",
	"http://schemas.openxmlformats.org/package/2006/metadata/core-properties": "cp",
	"http://schemas.openxmlformats.org/officeDocument/2006/custom-properties": "cusp",
	"http://schemas.openxmlformats.org/officeDocument/2006/docPropsVTypes":    "vt",
	"http://purl.org/dc/elements/1.1/":                                       "dc",
	"http://purl.org/dc/terms/":                                              "dcterms",
	"urn:schemas-microsoft-com:vml":                                          "v",
	"urn:schemas-microsoft-com:office:office":                                "o",
	"http://schemas.microsoft.com/office/word/2010/wordml":                   "w14",
	"http://schemas.microsoft.com/office/word/2012/wordml":                   "w15",
}

// Attr is one attribute of an Element, with a qualified name such as
// "w:val" or "r:id". Attributes without a namespace keep their local name.
type Attr struct {
	Name  string
	Value string
}

// Element is one node of the raw XML tree: a qualified tag, its attributes,
// its child elements in document order, and any character data appearing
// directly inside it. Schema enforcement lives in Node, not here.
type Element struct {
	Tag      string
	Attrs    []Attr
	Children []*Element
	Text     string
}

// qualifyName maps an xml.Name to its prefixed form.
func qualifyName(name xml.Name) string {
	if name.Space == "" {
		return name.Local
	}
	if prefix, ok := namespacePrefixes[name.Space]; ok {
		return prefix + ":" + name.Local
	}
	return name.Local
}

// Attr returns the value of the named attribute and whether it is present.
func (e *Element) Attr(name string) (string, bool) {
	for _, a := range e.Attrs {
		if a.Name == name {
			return a.Value, true
		}
	}
	return "", false
}

// SetAttrValue sets or replaces the named attribute.
func (e *Element) SetAttrValue(name, value string) {
	for i, a := range e.Attrs {
		if a.Name == name {
			e.Attrs[i].Value = value
			return
		}
	}
	e.Attrs = append(e.Attrs, Attr{Name: name, Value: value})
}

// Child returns the first child with the given tag, or nil.
func (e *Element) Child(tag string) *Element {
	for _, c := range e.Children {
		if c.Tag == tag {
			return c
		}
	}
	return nil
}

// ChildrenByTag returns all children with the given tag, in document order.
func (e *Element) ChildrenByTag(tag string) []*Element {
	var out []*Element
	for _, c := range e.Children {
		if c.Tag == tag {
			out = append(out, c)
		}
	}
	return out
}

// FlatText concatenates the character data of this element and all its
// descendants in document order.
func (e *Element) FlatText() string {
	var sb strings.Builder
	e.writeFlatText(&sb)
	return sb.String()
}

func (e *Element) writeFlatText(sb *strings.Builder) {
	sb.WriteString(e.Text)
	for _, c := range e.Children {
		c.writeFlatText(sb)
	}
}

// parseElementTree parses an XML payload into an Element tree. Namespace
// prefixes are normalized through namespacePrefixes; elements in unknown
// namespaces keep their bare local name.
func parseElementTree(r io.Reader) (*Element, error) {
	decoder := xml.NewDecoder(r)

	var root *Element
	var stack []*Element

	for {
		token, err := decoder.Token()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("failed to parse XML: %w", err)
		}

		switch t := token.(type) {
		case xml.StartElement:
			el := &Element{Tag: qualifyName(t.Name)}
			for _, a := range t.Attr {
				// xmlns declarations are namespace plumbing, not content
				if a.Name.Space == "xmlns" || a.Name.Local == "xmlns" {
					continue
				}
				el.Attrs = append(el.Attrs, Attr{Name: qualifyName(a.Name), Value: a.Value})
			}
			if len(stack) == 0 {
				if root != nil {
					return nil, fmt.Errorf("multiple root elements")
				}
				root = el
			} else {
				parent := stack[len(stack)-1]
				parent.Children = append(parent.Children, el)
			}
			stack = append(stack, el)
		case xml.EndElement:
			if len(stack) == 0 {
				return nil, fmt.Errorf("unbalanced end element </%s>", t.Name.Local)
			}
			stack = stack[:len(stack)-1]
		case xml.CharData:
			if len(stack) > 0 {
				stack[len(stack)-1].Text += string(t)
			}
		}
	}

	if root == nil {
		return nil, fmt.Errorf("empty document")
	}
	if len(stack) != 0 {
		return nil, fmt.Errorf("unexpected end of document inside <%s>", stack[len(stack)-1].Tag)
	}
	return root, nil
}
