package docmark

import "testing"

func TestCollapseEmphasis(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  string
	}{
		{
			name:  "plain text untouched",
			input: "no markers here",
			want:  "no markers here",
		},
		{
			name:  "simple bold span",
			input: "{{b}}strong{{endb}}",
			want:  "**strong**",
		},
		{
			name:  "adjacent close and open merge",
			input: "{{b}}one{{endb}}{{b}} two{{endb}}",
			want:  "**one two**",
		},
		{
			name:  "interior whitespace moves outside the markers",
			input: "{{i}}  emphasized  {{endi}}",
			want:  "  *emphasized*  ",
		},
		{
			name:  "empty span vanishes",
			input: "before {{c}}{{endc}}after",
			want:  "before after",
		},
		{
			name:  "whitespace-only span vanishes",
			input: "a{{b}}   {{endb}}b",
			want:  "a   b",
		},
		{
			name:  "mixed marks substitute independently",
			input: "{{c}}code{{endc}} and {{B}}loud{{endB}}",
			want:  "`code` and ***loud***",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := collapseEmphasis(tt.input)
			if got != tt.want {
				t.Errorf("collapseEmphasis(%q) = %q, want %q", tt.input, got, tt.want)
			}
			if again := collapseEmphasis(got); again != got {
				t.Errorf("collapseEmphasis is not idempotent: %q -> %q", got, again)
			}
		})
	}
}

func TestRewriteCaption(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  string
	}{
		{
			name:  "figure caption becomes an image",
			input: "Figure 3 - Device Architecture",
			want:  "![Device Architecture](missing.png)",
		},
		{
			name:  "figure caption with a sequence placeholder",
			input: "Figure %seq_Figure% - Protocol Stack",
			want:  "![Protocol Stack](missing.png)",
		},
		{
			name:  "table caption becomes a caption line",
			input: "Table 2%seq_Table%1 - Parameter Summary",
			want:  ":Parameter Summary",
		},
		{
			name:  "unrelated text untouched",
			input: "Figures are discussed below",
			want:  "Figures are discussed below",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := rewriteCaption(tt.input); got != tt.want {
				t.Errorf("rewriteCaption(%q) = %q, want %q", tt.input, got, tt.want)
			}
		})
	}
}

func TestIsEffectivelyEmpty(t *testing.T) {
	tests := []struct {
		input string
		want  bool
	}{
		{input: "", want: true},
		{input: "   \n", want: true},
		{input: "{{tab}}", want: true},
		{input: "{{indent=4}}  {{drawing}}", want: true},
		{input: "{{tab}}real content", want: false},
		{input: "text", want: false},
	}

	for _, tt := range tests {
		if got := isEffectivelyEmpty(tt.input); got != tt.want {
			t.Errorf("isEffectivelyEmpty(%q) = %v, want %v", tt.input, got, tt.want)
		}
	}
}

func TestIsDiscardedStyle(t *testing.T) {
	tests := []struct {
		style string
		want  bool
	}{
		{style: "toc 1", want: true},
		{style: "toc 12", want: true},
		{style: "table of figures", want: true},
		{style: "normal", want: false},
		{style: "body text", want: false},
	}

	for _, tt := range tests {
		if got := isDiscardedStyle(tt.style); got != tt.want {
			t.Errorf("isDiscardedStyle(%q) = %v, want %v", tt.style, got, tt.want)
		}
	}
}
