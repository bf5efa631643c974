package docmark

import (
	"strings"
	"testing"
)

func mustParse(t *testing.T, input string) *Element {
	t.Helper()
	el, err := parseElementTree(strings.NewReader(input))
	if err != nil {
		t.Fatalf("parseElementTree() error = %v", err)
	}
	return el
}

func TestWrapNode(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		wantErr func(error) bool
	}{
		{
			name:  "well-formed paragraph",
			input: `<w:p ` + wmlNamespaceDecls + `><w:pPr><w:pStyle w:val="Normal"/></w:pPr><w:r><w:t>hi</w:t></w:r></w:p>`,
		},
		{
			name:    "missing required attribute",
			input:   `<w:pStyle ` + wmlNamespaceDecls + `/>`,
			wantErr: IsSchemaViolation,
		},
		{
			name:    "attribute fails type coercion",
			input:   `<w:ilvl ` + wmlNamespaceDecls + ` w:val="first"/>`,
			wantErr: IsInvalidAttributeValue,
		},
		{
			name:    "singleton child repeated",
			input:   `<w:p ` + wmlNamespaceDecls + `><w:pPr/><w:pPr/></w:p>`,
			wantErr: IsSchemaViolation,
		},
		{
			name:    "singleton after later-declared kind",
			input:   `<w:p ` + wmlNamespaceDecls + `><w:r><w:t>x</w:t></w:r><w:pPr/></w:p>`,
			wantErr: IsSchemaViolation,
		},
		{
			name: "repeated kinds interleave freely",
			input: `<w:body ` + wmlNamespaceDecls + `><w:p/><w:tbl><w:tr><w:tc><w:p/></w:tc></w:tr></w:tbl>` +
				`<w:p/><w:sectPr/></w:body>`,
		},
		{
			name:    "validation reaches nested descendants",
			input:   `<w:p ` + wmlNamespaceDecls + `><w:pPr><w:numPr><w:ilvl w:val="zero"/></w:numPr></w:pPr></w:p>`,
			wantErr: IsInvalidAttributeValue,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := WrapNode(mustParse(t, tt.input))
			if tt.wantErr == nil {
				if err != nil {
					t.Fatalf("WrapNode() error = %v, want nil", err)
				}
				return
			}
			if err == nil || !tt.wantErr(err) {
				t.Fatalf("WrapNode() error = %v, want matching predicate", err)
			}
		})
	}
}

func TestNodeAttrRoundTrip(t *testing.T) {
	node, err := WrapNode(mustParse(t, `<w:ilvl `+wmlNamespaceDecls+` w:val="2"/>`))
	if err != nil {
		t.Fatalf("WrapNode() error = %v", err)
	}

	n, err := node.IntAttr("w:val")
	if err != nil || n != 2 {
		t.Fatalf("IntAttr(w:val) = %d, %v; want 2, nil", n, err)
	}

	if err := node.SetAttr("w:val", "5"); err != nil {
		t.Fatalf("SetAttr() error = %v", err)
	}
	if n, _ := node.IntAttr("w:val"); n != 5 {
		t.Errorf("IntAttr after SetAttr = %d, want 5", n)
	}

	if err := node.SetAttr("w:val", "five"); !IsInvalidAttributeValue(err) {
		t.Errorf("SetAttr with bad value: error = %v, want InvalidAttributeValue", err)
	}
	if err := node.SetAttr("w:bogus", "1"); !IsSchemaViolation(err) {
		t.Errorf("SetAttr with undeclared attribute: error = %v, want SchemaViolation", err)
	}
}

func TestNodeInsertChild(t *testing.T) {
	node, err := WrapNode(mustParse(t, `<w:p `+wmlNamespaceDecls+`><w:r><w:t>existing</w:t></w:r></w:p>`))
	if err != nil {
		t.Fatalf("WrapNode() error = %v", err)
	}

	// pPr is declared before w:r, so it must land in front
	pPr := &Element{Tag: "w:pPr"}
	if err := node.InsertChild(pPr); err != nil {
		t.Fatalf("InsertChild(pPr) error = %v", err)
	}
	if node.Element().Children[0].Tag != "w:pPr" {
		t.Errorf("first child = %q, want w:pPr", node.Element().Children[0].Tag)
	}

	// a second pPr violates the singleton cardinality
	if err := node.InsertChild(&Element{Tag: "w:pPr"}); !IsSchemaViolation(err) {
		t.Errorf("second pPr: error = %v, want SchemaViolation", err)
	}

	// undeclared children are refused outright
	if err := node.InsertChild(&Element{Tag: "w:tbl"}); !IsSchemaViolation(err) {
		t.Errorf("undeclared child: error = %v, want SchemaViolation", err)
	}

	// repeated kinds append after their siblings
	run := mustParse(t, `<w:r `+wmlNamespaceDecls+`><w:t>new</w:t></w:r>`)
	if err := node.InsertChild(run); err != nil {
		t.Fatalf("InsertChild(r) error = %v", err)
	}
	children := node.Element().Children
	if children[len(children)-1] != run {
		t.Error("expected new run appended after existing children")
	}
}

func TestNodeRemoveChild(t *testing.T) {
	node, err := WrapNode(mustParse(t, `<w:document `+wmlNamespaceDecls+`><w:body><w:p/></w:body></w:document>`))
	if err != nil {
		t.Fatalf("WrapNode() error = %v", err)
	}
	body := node.Child("w:body")
	if err := node.RemoveChild(body); !IsSchemaViolation(err) {
		t.Fatalf("removing required body: error = %v, want SchemaViolation", err)
	}

	bodyNode, err := WrapNode(body)
	if err != nil {
		t.Fatalf("WrapNode(body) error = %v", err)
	}
	p := bodyNode.Child("w:p")
	if err := bodyNode.RemoveChild(p); err != nil {
		t.Fatalf("RemoveChild(p) error = %v", err)
	}
	if bodyNode.Child("w:p") != nil {
		t.Error("paragraph still present after RemoveChild")
	}
}

func TestNewNode(t *testing.T) {
	tests := []struct {
		name  string
		tag   string
		check func(t *testing.T, n *Node)
	}{
		{
			name: "document template carries its body",
			tag:  "w:document",
			check: func(t *testing.T, n *Node) {
				if n.Child("w:body") == nil {
					t.Error("expected w:body child")
				}
			},
		},
		{
			name: "numPr template is a valid zero reference",
			tag:  "w:numPr",
			check: func(t *testing.T, n *Node) {
				if got := intVal(n.Child("w:numId"), -1); got != 0 {
					t.Errorf("numId = %d, want 0", got)
				}
			},
		},
		{
			name: "footnotes template includes separators",
			tag:  "w:footnotes",
			check: func(t *testing.T, n *Node) {
				if got := len(n.ChildrenByTag("w:footnote")); got != 2 {
					t.Errorf("footnote count = %d, want 2", got)
				}
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			n, err := NewNode(tt.tag)
			if err != nil {
				t.Fatalf("NewNode(%s) error = %v", tt.tag, err)
			}
			tt.check(t, n)
		})
	}

	if _, err := NewNode("w:nonexistent"); !IsSchemaViolation(err) {
		t.Errorf("NewNode(unknown) error = %v, want SchemaViolation", err)
	}
}
