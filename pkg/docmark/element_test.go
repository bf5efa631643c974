package docmark

import (
	"strings"
	"testing"
)

func TestParseElementTree(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		wantErr bool
		check   func(t *testing.T, el *Element)
	}{
		{
			name:  "qualified tags use canonical prefixes",
			input: `<w:p ` + wmlNamespaceDecls + `><w:r><w:t>hi</w:t></w:r></w:p>`,
			check: func(t *testing.T, el *Element) {
				if el.Tag != "w:p" {
					t.Errorf("root tag = %q, want w:p", el.Tag)
				}
				if r := el.Child("w:r"); r == nil || r.Child("w:t") == nil {
					t.Fatal("expected w:r/w:t children")
				}
			},
		},
		{
			name:  "attributes keep their prefix, xmlns dropped",
			input: `<w:hyperlink ` + wmlNamespaceDecls + ` r:id="rId3"><w:r><w:t>x</w:t></w:r></w:hyperlink>`,
			check: func(t *testing.T, el *Element) {
				if id, ok := el.Attr("r:id"); !ok || id != "rId3" {
					t.Errorf("r:id = %q, %v; want rId3, true", id, ok)
				}
				for _, a := range el.Attrs {
					if strings.HasPrefix(a.Name, "xmlns") {
						t.Errorf("xmlns attribute %q survived parsing", a.Name)
					}
				}
			},
		},
		{
			name:  "character data lands on its element",
			input: `<w:r ` + wmlNamespaceDecls + `><w:t>one</w:t><w:t>two</w:t></w:r>`,
			check: func(t *testing.T, el *Element) {
				if got := el.FlatText(); got != "onetwo" {
					t.Errorf("FlatText() = %q, want %q", got, "onetwo")
				}
			},
		},
		{
			name:    "unbalanced document",
			input:   `<w:p ` + wmlNamespaceDecls + `><w:r></w:p>`,
			wantErr: true,
		},
		{
			name:    "empty input",
			input:   ``,
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			el, err := parseElementTree(strings.NewReader(tt.input))
			if (err != nil) != tt.wantErr {
				t.Fatalf("parseElementTree() error = %v, wantErr %v", err, tt.wantErr)
			}
			if !tt.wantErr && tt.check != nil {
				tt.check(t, el)
			}
		})
	}
}
