package docmark

import (
	"sort"
)

// CustomPropertiesPart wraps /docProps/custom.xml: a flat name-to-value
// mapping consulted by DOCPROPERTY fields. String (lpwstr) and integer
// (i4) variants are both exposed as their text.
type CustomPropertiesPart struct {
	part   *Part
	values map[string]string
}

func newCustomPropertiesPart(part *Part) (*CustomPropertiesPart, error) {
	cp := &CustomPropertiesPart{
		part:   part,
		values: make(map[string]string),
	}

	root := part.RootNode()
	if root == nil {
		return cp, nil
	}
	// some producers emit the property elements without a namespace prefix
	properties := root.Element().ChildrenByTag("cusp:property")
	if len(properties) == 0 {
		properties = root.Element().ChildrenByTag("property")
	}
	for _, el := range properties {
		name, ok := el.Attr("name")
		if !ok || len(el.Children) == 0 {
			continue
		}
		cp.values[name] = el.Children[0].FlatText()
	}

	return cp, nil
}

// Value returns the named custom property's text.
func (cp *CustomPropertiesPart) Value(name string) (string, bool) {
	v, ok := cp.values[name]
	return v, ok
}

// Names returns the defined property names, sorted.
func (cp *CustomPropertiesPart) Names() []string {
	names := make([]string, 0, len(cp.values))
	for name := range cp.values {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// CoreProperty reads one element of the core-properties part by qualified
// tag (for example "dc:title" or "dc:creator"). Returns "" when the part
// or the element is absent.
func (pkg *Package) CoreProperty(tag string) string {
	if pkg.coreProps == nil || pkg.coreProps.RootNode() == nil {
		return ""
	}
	el := pkg.coreProps.RootNode().Element().Child(tag)
	if el == nil {
		return ""
	}
	return el.FlatText()
}
